package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/observability"
)

// --- mock for cache tests ---

type countingResolver struct {
	calls   int
	results map[string]domain.AreaCode
}

func (m *countingResolver) Resolve(area string) domain.AreaCode {
	m.calls++
	if result, ok := m.results[area]; ok {
		return result
	}
	return domain.AreaCode{Area: area, Method: domain.MethodUnresolved}
}

// --- CachedResolver tests ---

func TestCachedResolver_CacheHit(t *testing.T) {
	inner := &countingResolver{results: map[string]domain.AreaCode{
		"Bolivia": {Area: "Bolivia", Code: "BOL", Method: domain.MethodRegistry},
	}}
	cached := NewCachedResolver(inner, 10, nil)

	r1 := cached.Resolve("Bolivia")
	assert.Equal(t, "BOL", r1.Code)

	r2 := cached.Resolve("Bolivia")
	assert.Equal(t, "BOL", r2.Code)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedResolver_UnresolvedCachedToo(t *testing.T) {
	inner := &countingResolver{}
	cached := NewCachedResolver(inner, 10, nil)

	r1 := cached.Resolve("Xyzzyplatz")
	require.Equal(t, domain.MethodUnresolved, r1.Method)

	r2 := cached.Resolve("Xyzzyplatz")
	require.Equal(t, domain.MethodUnresolved, r2.Method)

	assert.Equal(t, 1, inner.calls, "terminal unresolved results are memoized")
}

func TestCachedResolver_DifferentKeysMiss(t *testing.T) {
	inner := &countingResolver{}
	cached := NewCachedResolver(inner, 10, nil)

	cached.Resolve("Germany")
	cached.Resolve("France")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_Metrics(t *testing.T) {
	inner := &countingResolver{results: map[string]domain.AreaCode{
		"Bolivia": {Area: "Bolivia", Code: "BOL", Method: domain.MethodRegistry},
	}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedResolver(inner, 10, metrics)

	cached.Resolve("Bolivia")
	cached.Resolve("Bolivia")

	assert.Equal(t, 1, inner.calls)
}

// --- LRU cache unit tests ---

func registryCode(code string) domain.AreaCode {
	return domain.AreaCode{Code: code, Method: domain.MethodRegistry}
}

func TestLRUCache_GetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("Germany", registryCode("DEU"))
	c.put("France", registryCode("FRA"))

	result, ok := c.get("Germany")
	assert.True(t, ok)
	assert.Equal(t, "DEU", result.Code)

	_, ok = c.get("Japan")
	assert.False(t, ok, "never-cached area must miss")
}

func TestLRUCache_OldestEntryEvicted(t *testing.T) {
	c := newLRUCache(2)

	c.put("Germany", registryCode("DEU"))
	c.put("France", registryCode("FRA"))
	c.put("Japan", registryCode("JPN"))

	_, ok := c.get("Germany")
	assert.False(t, ok, "oldest entry leaves when the cap is exceeded")

	for key, want := range map[string]string{"France": "FRA", "Japan": "JPN"} {
		result, ok := c.get(key)
		assert.True(t, ok)
		assert.Equal(t, want, result.Code)
	}
}

func TestLRUCache_RecentlyReadEntrySurvives(t *testing.T) {
	c := newLRUCache(2)

	c.put("Germany", registryCode("DEU"))
	c.put("France", registryCode("FRA"))

	// A read refreshes Germany, making France the eviction candidate.
	c.get("Germany")
	c.put("Japan", registryCode("JPN"))

	_, ok := c.get("Germany")
	assert.True(t, ok, "recently read entry must survive the insert")

	_, ok = c.get("France")
	assert.False(t, ok)
}

func TestLRUCache_PutReplacesValue(t *testing.T) {
	c := newLRUCache(2)

	c.put("Bolivia", domain.AreaCode{Method: domain.MethodUnresolved})
	c.put("Bolivia", registryCode("BOL"))

	result, ok := c.get("Bolivia")
	assert.True(t, ok)
	assert.Equal(t, "BOL", result.Code)
	assert.Equal(t, domain.MethodRegistry, result.Method)
}
