package domain

import "errors"

// Sentinel errors for cache and remote operations
var (
	// ErrCacheNotFound indicates the requested entry is absent from the local cache
	ErrCacheNotFound = errors.New("cache entry not found")

	// ErrCacheExpired indicates the entry exists locally but is older than its TTL
	ErrCacheExpired = errors.New("cache entry has expired")

	// ErrNoData indicates a fetch completed without yielding a usable payload
	ErrNoData = errors.New("no data returned")

	// ErrServerOffline indicates the metadata server is unreachable
	ErrServerOffline = errors.New("metadata server is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("api key is invalid")
)
