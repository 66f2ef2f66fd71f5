package cache

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGet_Miss(t *testing.T) {
	c := New(time.Hour)

	if entry := c.Get("EUR", "USD", day("2024-01-15")); entry != nil {
		t.Errorf("expected miss on empty cache, got %+v", entry)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	c := New(time.Hour)

	c.Put("EUR", "USD", day("2024-01-15"), 1.0945, day("2024-01-15"))

	entry := c.Get("EUR", "USD", day("2024-01-15"))
	if entry == nil {
		t.Fatal("expected hit after put")
	}
	if entry.Rate != 1.0945 {
		t.Errorf("expected rate 1.0945, got %f", entry.Rate)
	}
	if !entry.ActualDate.Equal(day("2024-01-15")) {
		t.Errorf("unexpected actual date: %v", entry.ActualDate)
	}
}

func TestGet_KeyedByRequestedDate(t *testing.T) {
	c := New(time.Hour)

	// Fallback result: Saturday request answered with Friday's rate.
	c.Put("EUR", "USD", day("2020-02-01"), 1.1085, day("2020-01-31"))

	entry := c.Get("EUR", "USD", day("2020-02-01"))
	if entry == nil {
		t.Fatal("expected hit under the requested date")
	}
	if !entry.ActualDate.Equal(day("2020-01-31")) {
		t.Errorf("expected actual date 2020-01-31, got %v", entry.ActualDate)
	}

	// The actual trading date was never the key.
	if c.Get("EUR", "USD", day("2020-01-31")) != nil {
		t.Error("expected miss under the actual date")
	}
}

func TestPut_Overwrites(t *testing.T) {
	c := New(time.Hour)

	c.Put("EUR", "USD", day("2024-01-15"), 1.0, day("2024-01-15"))
	c.Put("EUR", "USD", day("2024-01-15"), 2.0, day("2024-01-14"))

	entry := c.Get("EUR", "USD", day("2024-01-15"))
	if entry == nil {
		t.Fatal("expected hit")
	}
	if entry.Rate != 2.0 {
		t.Errorf("expected overwritten rate 2.0, got %f", entry.Rate)
	}
}

func TestGet_TTLExpiry(t *testing.T) {
	current := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(time.Hour, func() time.Time { return current })

	c.Put("EUR", "USD", day("2024-01-15"), 1.0945, day("2024-01-15"))

	current = current.Add(59 * time.Minute)
	if c.Get("EUR", "USD", day("2024-01-15")) == nil {
		t.Fatal("expected hit before expiry")
	}

	current = current.Add(2 * time.Minute)
	if entry := c.Get("EUR", "USD", day("2024-01-15")); entry != nil {
		t.Errorf("expected miss after TTL, got %+v", entry)
	}
}

func TestGet_TTLExpiryEvicts(t *testing.T) {
	current := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(time.Hour, func() time.Time { return current })

	c.Put("EUR", "USD", day("2024-01-15"), 1.0945, day("2024-01-15"))

	current = current.Add(2 * time.Hour)
	if entry := c.Get("EUR", "USD", day("2024-01-15")); entry != nil {
		t.Fatalf("expected miss after TTL, got %+v", entry)
	}

	// The expired entry must be gone, not just hidden.
	if stats := c.Stats(); stats.Entries != 0 {
		t.Errorf("expected 0 entries after expired lookup, got %d", stats.Entries)
	}
	if n := c.Clear(); n != 0 {
		t.Errorf("expected 0 cleared after expired lookup, got %d", n)
	}
}

func TestClear_ReturnsCount(t *testing.T) {
	c := New(time.Hour)

	c.Put("EUR", "USD", day("2024-01-15"), 1.0, day("2024-01-15"))
	c.Put("USD", "CHF", day("2024-01-15"), 0.85, day("2024-01-15"))

	if n := c.Clear(); n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	if n := c.Clear(); n != 0 {
		t.Errorf("expected 0 cleared on empty cache, got %d", n)
	}
	if c.Get("EUR", "USD", day("2024-01-15")) != nil {
		t.Error("expected miss after clear")
	}
}

func TestStats(t *testing.T) {
	c := New(time.Hour)

	c.Put("EUR", "USD", day("2024-01-15"), 1.0, day("2024-01-15"))

	stats := c.Stats()
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.TTLHours != 1 {
		t.Errorf("expected TTL 1h, got %f", stats.TTLHours)
	}
}
