// Package source provides pluggable pixel sources for asset identifiers.
//
// A Source is the decode half of the loader handoff: the materializer
// drains registrations from a texcache.Loader, asks a Source for the
// pixels behind each AssetID, and reports the sizes back via Resolve.
package source

import (
	"context"
	"errors"
	"image"

	"github.com/gogpu/texcache"
)

// ErrUnknownAsset is returned when a Source has no pixels for an AssetID.
var ErrUnknownAsset = errors.New("source: unknown asset")

// Source resolves an asset identifier into decoded pixels.
//
// Load must be safe for concurrent use; the materializer decodes several
// assets in parallel. The returned image must be tightly packed RGBA with
// bounds anchored at the origin (internal/imageio guarantees this for the
// built-in sources).
type Source interface {
	Load(ctx context.Context, id texcache.AssetID) (*image.RGBA, error)
}
