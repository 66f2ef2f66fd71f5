package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kursline/rate-service/internal/model"
)

// Entry is a cached rate for one (base, target, requested date) key.
type Entry struct {
	Rate       float64
	ActualDate time.Time

	insertedAt time.Time
}

// RateCache is a TTL cache for resolved rates. Entries are keyed by the
// *requested* date, so a fallback result is a hit for a repeat of the same
// request even though the underlying trading date differs. An entry older
// than the TTL is treated as absent and evicted on lookup, so stats and
// clear counts only reflect live entries.
type RateCache struct {
	store *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// New creates a rate cache with the given TTL.
func New(ttl time.Duration) *RateCache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a rate cache that reads time from now. Tests use it
// to exercise expiry without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *RateCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// The janitor sweeps entries that are never looked up again; expired
	// entries that are looked up get evicted in Get.
	return &RateCache{
		store: gocache.New(ttl, ttl),
		ttl:   ttl,
		now:   now,
	}
}

func key(base, target string, date time.Time) string {
	return base + ":" + target + ":" + date.Format(model.DateLayout)
}

// Get returns the cached entry for the key, or nil on miss. An expired entry
// is deleted and reported as a miss.
func (c *RateCache) Get(base, target string, date time.Time) *Entry {
	k := key(base, target, date)

	v, ok := c.store.Get(k)
	if !ok {
		// An entry expired by the store's own clock lingers until the
		// janitor runs; drop it now.
		c.store.Delete(k)
		return nil
	}

	entry := v.(Entry)
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		c.store.Delete(k)
		return nil
	}
	return &entry
}

// Put stores a resolved rate under the requested date, overwriting any
// previous entry and restarting its TTL.
func (c *RateCache) Put(base, target string, date time.Time, rate float64, actualDate time.Time) {
	entry := Entry{
		Rate:       rate,
		ActualDate: actualDate,
		insertedAt: c.now(),
	}
	c.store.Set(key(base, target, date), entry, c.ttl)
}

// Clear removes all entries and returns the number removed.
func (c *RateCache) Clear() int {
	count := c.store.ItemCount()
	c.store.Flush()
	return count
}

// Stats returns cache introspection data.
func (c *RateCache) Stats() model.CacheStats {
	return model.CacheStats{
		Entries:  c.store.ItemCount(),
		TTLHours: c.ttl.Hours(),
	}
}
