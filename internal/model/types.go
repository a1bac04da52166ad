// Package model defines domain types used by the storefront.
package model

import "time"

// Language codes supported by the storefront. Uzbek is the base language.
const (
	LangUZ = "uz"
	LangRU = "ru"
	LangEN = "en"
)

// DefaultLanguage is used when no language preference is stored.
const DefaultLanguage = LangUZ

// KnownLanguage reports whether code is one of the supported languages.
func KnownLanguage(code string) bool {
	return code == LangUZ || code == LangRU || code == LangEN
}

// LocalizedText maps a language code to display text.
type LocalizedText map[string]string

// In returns the text for lang, falling back to Uzbek, then English,
// then any non-empty entry.
func (t LocalizedText) In(lang string) string {
	if v := t[lang]; v != "" {
		return v
	}
	if v := t[LangUZ]; v != "" {
		return v
	}
	if v := t[LangEN]; v != "" {
		return v
	}
	for _, v := range t {
		if v != "" {
			return v
		}
	}
	return ""
}

// Product represents one orderable catalog entry. Prices are in the
// smallest currency unit (so'm). Stock is never negative.
type Product struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Price       int64         `json:"price"`
	Image       string        `json:"image"`
	Category    string        `json:"category"`
	Popular     bool          `json:"popular,omitempty"`
	Stock       int64         `json:"stock"`
}

// Category is static reference data describing a product grouping.
type Category struct {
	ID   string        `json:"id"`
	Name LocalizedText `json:"name"`
	Icon string        `json:"icon"`
}

// CartItem is a product snapshot plus the requested quantity and an
// optional free-text customization note.
type CartItem struct {
	Product
	Quantity      int64  `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

// LineTotal returns price times quantity for this line.
func (c CartItem) LineTotal() int64 { return c.Price * c.Quantity }

// GeoPoint is a captured customer location with a human-readable label.
type GeoPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// CustomerDetails identifies the ordering customer. Persisted
// independently of any order so a returning customer can reuse them.
type CustomerDetails struct {
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
	Location *GeoPoint `json:"location,omitempty"`
}

// Order is an immutable snapshot of a cart plus customer details at
// submission time. Orders are never persisted.
type Order struct {
	ID        string          `json:"order_id"`
	Items     []CartItem      `json:"items"`
	Customer  CustomerDetails `json:"customer"`
	Total     int64           `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
	Language  string          `json:"language"`
}

// LoginAttempt records one failed admin login for rate limiting.
type LoginAttempt struct {
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Source    string `json:"source"`
}

// AdminSession is the single persisted admin session.
type AdminSession struct {
	Token     string `json:"token"`
	LoginTime int64  `json:"login_time"` // unix milliseconds
}
