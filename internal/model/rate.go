package model

import (
	"time"
)

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"

// RateResult is the outcome of a rate resolution.
// Rate expresses "1 unit of base = Rate units of target". ActualDate is the
// trading date the rate was actually published for; IsFallback is true when
// that date differs from the requested one.
type RateResult struct {
	Base       string    `json:"base"`
	Target     string    `json:"target"`
	Rate       float64   `json:"rate"`
	ActualDate time.Time `json:"actualDate"`
	IsFallback bool      `json:"isFallback"`
}

// CacheStats describes the current state of the rate cache.
type CacheStats struct {
	Entries  int     `json:"entries"`
	TTLHours float64 `json:"ttlHours"`
}

// Conversion is a converted amount together with the rate used.
type Conversion struct {
	Amount    string     `json:"amount"`
	Converted string     `json:"converted"`
	Result    RateResult `json:"rate"`
}

// Day truncates t to a calendar date (midnight UTC).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
