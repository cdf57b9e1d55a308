package source

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/internal/imageio"
)

// MemorySource serves assets from images held in memory. Useful for
// procedurally generated textures, tests, and demos. Safe for concurrent
// use.
type MemorySource struct {
	mu     sync.RWMutex
	images map[texcache.AssetID]image.Image
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{images: make(map[texcache.AssetID]image.Image)}
}

// Add associates an asset identifier with an image. The image is stored
// as-is; callers should not mutate it afterwards.
func (s *MemorySource) Add(id texcache.AssetID, img image.Image) {
	s.mu.Lock()
	s.images[id] = img
	s.mu.Unlock()
}

// Remove drops the image for id, if present.
func (s *MemorySource) Remove(id texcache.AssetID) {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
}

// Load returns the stored image for id converted to RGBA.
func (s *MemorySource) Load(_ context.Context, id texcache.AssetID) (*image.RGBA, error) {
	s.mu.RLock()
	img, ok := s.images[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	return imageio.ToRGBA(img), nil
}
