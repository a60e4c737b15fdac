package cache

// Client is the cache client handed to services. It combines key/value
// access with stream appends on the same connection.
type Client interface {
	Cache
	StreamAppender

	// GetCache returns the underlying Cache implementation.
	GetCache() Cache
}
