package texcache

import "errors"

// Errors returned by the Loader and the key codec.
var (
	// ErrNotSupported is returned when a URI does not use the asset://
	// scheme or its payload fails to parse. In a chained-loader setup this
	// signals "not mine" so another loader may attempt the URI.
	ErrNotSupported = errors.New("texcache: URI not supported")

	// ErrInvalidVariant is returned when a variant index is outside the
	// range produced by TextureOptions.Variant. Unreachable for callers
	// that only decode indices obtained from Variant.
	ErrInvalidVariant = errors.New("texcache: invalid variant index")
)
