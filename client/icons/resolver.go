// Package icons maps free-text semantic keys to display glyphs. The
// backend labels infographic blocks with short keys ("factory",
// "chart") that renderers turn into visuals; Resolve is total so a
// renderer never has to handle a lookup failure.
package icons

import "strings"

// DefaultGlyph is returned for empty or unresolvable keys.
const DefaultGlyph = "📌"

type mapping struct {
	key   string
	glyph string
}

// The table is a slice, not a map: step 4 of Resolve scans it in
// order and the first match wins, so iteration order is part of the
// resolution contract.
var table = []mapping{
	{"factory", "🏭"},
	{"leaf", "🍃"},
	{"chart", "📊"},
	{"growth", "📈"},
	{"decline", "📉"},
	{"search", "🔍"},
	{"checklist", "✅"},
	{"trophy", "🏆"},
	{"compare", "⚖️"},
	{"idea", "💡"},
	{"warning", "⚠️"},
	{"money", "💰"},
	{"globe", "🌍"},
	{"people", "👥"},
	{"time", "⏱️"},
	{"target", "🎯"},
	{"gear", "⚙️"},
	{"document", "📄"},
	{"energy", "⚡"},
	{"water", "💧"},
	{"fire", "🔥"},
	{"shield", "🛡️"},
	{"rocket", "🚀"},
	{"building", "🏢"},
	{"heart", "❤️"},
	{"brain", "🧠"},
	{"link", "🔗"},
	{"lock", "🔒"},
	{"pin", "📌"},
}

// suffixRules strips common plural, gerund, participle and
// nominalization endings so "factories", "reporting" and "comparison"
// land on their base entries.
var suffixRules = []struct {
	suffix  string
	replace string
}{
	{"ies", "y"},
	{"ing", ""},
	{"tion", ""},
	{"ed", ""},
	{"s", ""},
}

var categories = []struct {
	keywords []string
	glyph    string
}{
	{[]string{"health", "medic", "care"}, "🏥"},
	{[]string{"tech", "digital", "ai"}, "💻"},
	{[]string{"business", "work"}, "💼"},
	{[]string{"learn", "edu"}, "🎓"},
}

// Resolve maps a semantic key to a glyph. It is deterministic and
// never fails: unknown or empty keys fall back to DefaultGlyph.
func Resolve(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return DefaultGlyph
	}

	// 1. Exact match.
	if glyph, ok := exact(key); ok {
		return glyph
	}

	// 2. Suffix stripping.
	for _, rule := range suffixRules {
		if stripped, ok := strings.CutSuffix(key, rule.suffix); ok && stripped != "" {
			if glyph, found := exact(stripped + rule.replace); found {
				return glyph
			}
		}
	}

	// 3. First token of a compound key.
	if token := firstToken(key); token != key && token != "" {
		if glyph, ok := exact(token); ok {
			return glyph
		}
	}

	// 4. Ordered substring scan.
	for _, m := range table {
		if strings.Contains(key, m.key) || strings.Contains(m.key, key) {
			return m.glyph
		}
	}

	// 5. Category fallback.
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(key, kw) {
				return cat.glyph
			}
		}
	}

	return DefaultGlyph
}

func exact(key string) (string, bool) {
	for _, m := range table {
		if m.key == key {
			return m.glyph, true
		}
	}
	return "", false
}

func firstToken(key string) string {
	tokens := strings.FieldsFunc(key, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
