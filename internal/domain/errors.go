package domain

import "errors"

var (
	// ErrNotFound signals a missing catalog item.
	ErrNotFound = errors.New("not found")
	// ErrIndexUnavailable signals that the search index has not been built yet.
	// It is the only error fatal to a whole search request.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrCatalogUnavailable signals a failed or timed-out catalog lookup.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrUnknownEngine signals an unrecognized ranking engine name.
	ErrUnknownEngine = errors.New("unknown ranking engine")
)
