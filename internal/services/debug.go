package services

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/graphgen/infographic-api/internal/logger"
)

const (
	debugDirPerm  = 0o755
	debugFilePerm = 0o644
)

// DebugStore keeps the artifacts of the most recent generation (the raw
// blueprint JSON and the compiled prompt) both in memory and on disk so
// they can be inspected after a bad render.
type DebugStore struct {
	dir string

	mu             sync.RWMutex
	blueprint      []byte
	compiledPrompt string
}

func NewDebugStore(dir string) *DebugStore {
	return &DebugStore{dir: dir}
}

// SaveBlueprint stores the raw blueprint JSON of the last generation.
func (s *DebugStore) SaveBlueprint(raw []byte) {
	s.mu.Lock()
	s.blueprint = append([]byte(nil), raw...)
	s.mu.Unlock()

	s.writeFile("blueprint.json", raw)
}

// SaveCompiledPrompt stores the compiled image prompt of the last generation.
func (s *DebugStore) SaveCompiledPrompt(prompt string) {
	s.mu.Lock()
	s.compiledPrompt = prompt
	s.mu.Unlock()

	s.writeFile("compiled_prompt.txt", []byte(prompt))
}

// LastBlueprint returns the last stored blueprint JSON, or nil.
func (s *DebugStore) LastBlueprint() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.blueprint == nil {
		return nil
	}
	return append([]byte(nil), s.blueprint...)
}

// LastCompiledPrompt returns the last stored compiled prompt.
func (s *DebugStore) LastCompiledPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compiledPrompt
}

func (s *DebugStore) writeFile(name string, data []byte) {
	if s.dir == "" {
		return
	}
	if err := os.MkdirAll(s.dir, debugDirPerm); err != nil {
		logger.Warn("Failed to create debug directory", logger.Fields{"dir": s.dir, "error": err.Error()})
		return
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, debugFilePerm); err != nil {
		logger.Warn("Failed to write debug artifact", logger.Fields{"path": path, "error": err.Error()})
	}
}
