package store

const themeKey = "theme"

// ThemeStore persists the light/dark flag and runs an apply hook on
// every change so the host UI can flip its visual mode.
type ThemeStore struct {
	storage Storage
	apply   func(dark bool)
}

// NewThemeStore loads the persisted flag and applies it immediately.
// The apply hook may be nil.
func NewThemeStore(storage Storage, apply func(dark bool)) *ThemeStore {
	s := &ThemeStore{storage: storage, apply: apply}
	if s.apply != nil {
		s.apply(s.Dark())
	}
	return s
}

// Dark reports whether dark mode is active. Defaults to light.
func (s *ThemeStore) Dark() bool {
	v, ok := s.storage.Get(themeKey)
	return ok && v == "dark"
}

// Toggle flips the flag, persists it, and re-applies.
func (s *ThemeStore) Toggle() error {
	value := "dark"
	if s.Dark() {
		value = "light"
	}
	if err := s.storage.Set(themeKey, value); err != nil {
		return err
	}
	if s.apply != nil {
		s.apply(value == "dark")
	}
	return nil
}
