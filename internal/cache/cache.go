// Package cache provides the TTL memoization layer for cohort distributions
// and player rollups.
//
// Cache failures are never fatal anywhere in the engine: a read error is a
// miss, a write error loses only the memoization for that call.
package cache

import "time"

// Cache is the narrow collaborator contract: byte values keyed by the full
// parameter tuple of the computation they memoize.
type Cache interface {
	// Get returns (value, true, nil) on a hit and (nil, false, nil) on a
	// miss. Errors are reported but callers treat them as misses.
	Get(key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(key string, value []byte, ttl time.Duration) error
	Close() error
}

// Nop is a Cache that stores nothing. Used when caching is disabled and in
// tests that want recomputation on every call.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Close() error                            { return nil }
