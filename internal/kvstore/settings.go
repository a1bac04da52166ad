package kvstore

import "github.com/oqtepa/fastfood-storefront/internal/model"

// Display themes persisted under KeyTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultTheme is returned when no theme has been stored.
const DefaultTheme = ThemeLight

// KnownTheme reports whether name is a valid display theme.
func KnownTheme(name string) bool {
	return name == ThemeLight || name == ThemeDark
}

// Theme returns the stored display theme, defaulting to light.
func (s *Store) Theme() string {
	var v string
	if !s.Read(KeyTheme, &v) || !KnownTheme(v) {
		return DefaultTheme
	}
	return v
}

// SetTheme persists the display theme.
func (s *Store) SetTheme(name string) { s.Write(KeyTheme, name) }

// Language returns the stored language code, defaulting to the base
// language.
func (s *Store) Language() string {
	var v string
	if !s.Read(KeyLanguage, &v) || !model.KnownLanguage(v) {
		return model.DefaultLanguage
	}
	return v
}

// SetLanguage persists the language code.
func (s *Store) SetLanguage(code string) { s.Write(KeyLanguage, code) }

// UserDetails returns the stored customer details, or nil when absent.
func (s *Store) UserDetails() *model.CustomerDetails {
	var v model.CustomerDetails
	if !s.Read(KeyUserDetails, &v) {
		return nil
	}
	return &v
}

// SetUserDetails overwrites the stored customer details wholesale.
func (s *Store) SetUserDetails(d model.CustomerDetails) {
	s.Write(KeyUserDetails, d)
}
