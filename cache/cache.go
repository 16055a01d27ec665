// Package cache provides translation cache stores keyed by a content
// fingerprint of (text, source language, target language).
package cache

import (
	"fmt"
	"time"
)

// Entry holds one cached translation and its provenance.
type Entry struct {
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	CreatedAt      time.Time `json:"created_at"` // Immutable after insertion
	HitCount       int       `json:"hit_count"`  // Starts at 1, incremented on every read
	Provider       string    `json:"provider"`
}

// Expired reports whether the entry's absolute age exceeds ttl. Expiry is
// insertion-time based: reads never reset CreatedAt.
func (e *Entry) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(e.CreatedAt) > ttl
}

// Stats is a snapshot of store counters.
type Stats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	Hits    uint64        `json:"hits"`
	Misses  uint64        `json:"misses"`
	HitRate float64       `json:"hit_rate"` // Percent, rounded to 2 decimals; 0 before any request
	TTL     time.Duration `json:"ttl"`
}

// TranslationCache is the interface shared by the memory and Redis stores.
// No operation returns an error: backend trouble degrades to miss behavior,
// so a cache problem can never fail a translation request.
type TranslationCache interface {
	Get(text, sourceLang, targetLang string) (string, bool)
	Set(text, translatedText, sourceLang, targetLang, provider string)
	Clear()
	Stats() Stats
	CleanupExpired() int
}

// Error indicates a cache backend failure. It is only ever returned from
// constructors; the store operations themselves swallow backend errors.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
