// Package types defines the data structures used in the link shortener service.
package types

import "time"

// URLRecord is the stored mapping between a short code and its long URL.
// HitCount changes only through resolution lookups; everything else is
// immutable once the record exists.
type URLRecord struct {
	Code      string    `json:"short_code"`
	LongURL   string    `json:"long_url"`
	CreatedAt time.Time `json:"created_at"`
	HitCount  int64     `json:"hit_count"`
}

// URLRequest represents the request structure for shortening a URL.
// URL validity is established by the admission pipeline rather than a
// validator tag: scheme-less input is legal and gets http:// prepended.
type URLRequest struct {
	URL string `json:"url" validate:"required"`
}

// ReverseRequest represents the request structure for a reverse lookup.
type ReverseRequest struct {
	ShortURL string `json:"short_url" validate:"required"`
}

// URLResponse represents the response structure for a shorten operation.
type URLResponse struct {
	ShortURL string `json:"short_url"`
	LongURL  string `json:"long_url"`
}

// URLDetailsResponse carries the full record returned by a reverse lookup.
type URLDetailsResponse struct {
	ShortURL  string    `json:"short_url"`
	LongURL   string    `json:"long_url"`
	CreatedAt time.Time `json:"created_at"`
	HitCount  int64     `json:"hit_count"`
}
