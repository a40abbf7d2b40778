// Package cache provides a small string cache used for projection results.
package cache

// Cache is the caching surface; lookups that miss or fail report false.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
