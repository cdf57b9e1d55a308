package texcache

import "sync/atomic"

// Handle is a display handle consumed by the UI layer's draw path.
// Handles are unique for the lifetime of the process: a single shared
// counter mints them across all loaders and they are never recycled, so a
// handle held after Forget dangles harmlessly instead of aliasing a newer
// asset.
type Handle uint64

// handleCounter is the process-wide allocator. Lock-free, so minting a
// handle never contends with registry access.
var handleCounter atomic.Uint64

// nextHandle returns the next unused handle, starting at 0.
func nextHandle() Handle {
	return Handle(handleCounter.Add(1) - 1)
}
