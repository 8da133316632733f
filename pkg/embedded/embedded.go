package embedded

import (
	_ "embed"
)

// Embed static prompt data files
//
//go:embed data/prompts/compiler_text_rules.txt
var CompilerTextRulesTxt []byte

//go:embed data/prompts/image_text_rules.txt
var ImageTextRulesTxt []byte

//go:embed data/prompts/blueprint_schema.txt
var BlueprintSchemaTxt []byte
