// Package texcache maps externally owned image assets to small integer
// display handles for UI rendering.
//
// # Overview
//
// A UI layer such as an immediate-mode GUI does not understand the host
// application's asset system. It only understands texture handles plus a
// bounded set of sampling-option variants (filter and wrap modes). texcache
// is the adapter in between: it derives a stable URI key from an opaque
// asset identifier, lazily mints a distinct Handle for each (asset, options)
// combination the UI actually requests, and tracks the pending-to-ready
// lifecycle of each asset while the host decodes it.
//
// # Quick Start
//
//	loader := texcache.NewLoader()
//
//	// UI draw pass: request a texture for an asset URI.
//	uri := texcache.UUIDID(id).Key()
//	poll, err := loader.Request(uri, texcache.TextureOptions{})
//	if err != nil {
//	    // Not an asset:// URI, let another loader try it.
//	}
//	if poll.State == texcache.Ready {
//	    draw(poll.Handle, poll.Size)
//	}
//
//	// Decode backend: pick up newly seen assets, decode, report sizes.
//	for _, reg := range loader.DrainRegistrations() {
//	    size := decode(reg.Asset)
//	    loader.Resolve(reg.Key, size)
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Loader, AssetID, TextureOptions, Handle
//   - backend/native: materializes GPU textures and samplers via gogpu/wgpu
//   - source: pluggable asset pixel sources (files, in-memory)
//   - metrics/prom: Prometheus adapter for Loader observability
//
// # Handles
//
// Handles come from a single process-wide monotonic counter. They are never
// reused, even after Forget: downstream renderer state holding a stale
// handle sees it as simply absent rather than colliding with a new asset.
package texcache
