package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/internal/imageio"
)

// FileSource maps asset identifiers to image files on disk and decodes
// them on demand. Safe for concurrent use.
type FileSource struct {
	mu    sync.RWMutex
	paths map[texcache.AssetID]string
}

// NewFileSource creates an empty FileSource.
func NewFileSource() *FileSource {
	return &FileSource{paths: make(map[texcache.AssetID]string)}
}

// Register associates an asset identifier with a file path. Registering
// the same identifier again replaces the previous path.
func (s *FileSource) Register(id texcache.AssetID, path string) {
	s.mu.Lock()
	s.paths[id] = path
	s.mu.Unlock()
}

// Load opens and decodes the file registered for id.
func (s *FileSource) Load(ctx context.Context, id texcache.AssetID) (*image.RGBA, error) {
	s.mu.RLock()
	path, ok := s.paths[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := imageio.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return img, nil
}
