// Package native materializes loader-tracked assets into GPU textures and
// samplers using gogpu/wgpu.
//
// It is the decode-backend side of the texcache handoff contract: Process
// drains newly registered assets, decodes them through a source.Source,
// reports sizes back to the loader, and builds one HAL texture per asset
// plus one sampler per requested sampling-option variant. The UI render
// path then resolves display handles to bindable views via Lookup.
package native

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"strconv"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/source"
)

// Materializer errors.
var (
	// ErrNilDevice is returned when constructing without a device.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNilQueue is returned when constructing without a queue.
	ErrNilQueue = errors.New("native: queue is nil")

	// ErrNilLoader is returned when constructing without a loader.
	ErrNilLoader = errors.New("native: loader is nil")

	// ErrNilSource is returned when constructing without an asset source.
	ErrNilSource = errors.New("native: asset source is nil")
)

// SampledTexture is the bindable GPU state behind one display handle.
type SampledTexture struct {
	Asset   texcache.AssetID
	Handle  texcache.Handle
	Options texcache.TextureOptions
	Size    texcache.Size
	View    hal.TextureView
	Sampler hal.Sampler
}

// assetResources groups the GPU objects owned for one asset key: a single
// texture shared by all variants, plus one sampler per variant.
type assetResources struct {
	texture  hal.Texture
	view     hal.TextureView
	size     texcache.Size
	samplers map[texcache.VariantIndex]hal.Sampler
}

// Materializer drives the decode-and-upload side of a texcache.Loader.
//
// Call Process once per frame (or on a timer). It never blocks the
// loader's request path beyond the loader's own short critical sections.
// Materializer methods are safe for concurrent use, though a single
// Process caller is the expected pattern.
type Materializer struct {
	device  Device
	queue   Queue
	loader  *texcache.Loader
	src     source.Source
	workers int

	mu       sync.Mutex
	assets   map[string]*assetResources
	byHandle map[texcache.Handle]SampledTexture
}

// New creates a Materializer over an open HAL device and queue.
func New(device Device, queue Queue, loader *texcache.Loader, src source.Source) (*Materializer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if loader == nil {
		return nil, ErrNilLoader
	}
	if src == nil {
		return nil, ErrNilSource
	}
	return &Materializer{
		device:   device,
		queue:    queue,
		loader:   loader,
		src:      src,
		workers:  runtime.GOMAXPROCS(0),
		assets:   make(map[string]*assetResources),
		byHandle: make(map[texcache.Handle]SampledTexture),
	}, nil
}

// SetWorkers bounds the number of concurrent asset decodes per Process
// call. Values below 1 reset to the default (GOMAXPROCS).
func (m *Materializer) SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	m.mu.Lock()
	m.workers = n
	m.mu.Unlock()
}

// Process advances every tracked asset one step:
//
//  1. Drains pending registrations and decodes them concurrently through
//     the asset source. A failed decode is logged and skipped; it does not
//     abort the batch.
//  2. Resolves decoded sizes back into the loader and uploads pixels into
//     a new HAL texture per asset.
//  3. Creates samplers for variant slots requested since the last call,
//     including fresh variants on assets resolved in earlier calls.
//  4. Sweeps GPU resources of assets forgotten by the loader.
//
// Assets forgotten between registration and decode are dropped: the
// loader's empty variant snapshot is the cancellation signal.
func (m *Materializer) Process(ctx context.Context) error {
	regs := m.loader.DrainRegistrations()

	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()

	images := make([]*image.RGBA, len(regs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, reg := range regs {
		g.Go(func() error {
			if !m.loader.Contains(reg.Key) {
				// Forgotten before we got to it; skip the decode.
				return nil
			}
			img, err := m.src.Load(gctx, reg.Asset)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				texcache.Logger().Warn("asset decode failed", "key", reg.Key, "err", err)
				return nil
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, reg := range regs {
		img := images[i]
		if img == nil {
			continue
		}
		b := img.Bounds()
		size := texcache.Size{Width: uint32(b.Dx()), Height: uint32(b.Dy())}
		m.loader.Resolve(reg.Key, size)
		if err := m.upload(reg.Key, img, size); err != nil {
			return err
		}
	}

	if err := m.refreshVariants(); err != nil {
		return err
	}
	m.sweep()
	return nil
}

// upload creates the HAL texture for key and writes the decoded pixels.
// No-op if the key was forgotten after decode or already uploaded.
func (m *Materializer) upload(key string, img *image.RGBA, size texcache.Size) error {
	if len(m.loader.Variants(key)) == 0 {
		texcache.Logger().Debug("asset forgotten mid-decode, skipping upload", "key", key)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[key]; ok {
		return nil
	}

	tex, err := m.device.CreateTexture(&hal.TextureDescriptor{
		Label:         key,
		Size:          hal.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: create texture for %s: %w", key, err)
	}

	view, err := m.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: key + "/view",
	})
	if err != nil {
		m.device.DestroyTexture(tex)
		return fmt.Errorf("native: create texture view for %s: %w", key, err)
	}

	m.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{},
			Aspect:   gputypes.TextureAspectAll,
		},
		img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: size.Height,
		},
		&hal.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: 1},
	)

	m.assets[key] = &assetResources{
		texture:  tex,
		view:     view,
		size:     size,
		samplers: make(map[texcache.VariantIndex]hal.Sampler),
	}
	texcache.Logger().Debug("asset uploaded", "key", key, "width", size.Width, "height", size.Height)
	return nil
}

// refreshVariants creates samplers for variant slots that appeared since
// the last Process call, on any uploaded asset.
func (m *Materializer) refreshVariants() error {
	for _, key := range m.loader.Keys() {
		m.mu.Lock()
		res, ok := m.assets[key]
		m.mu.Unlock()
		if !ok {
			// Registered but not decoded yet; a later Process gets it.
			continue
		}
		for _, v := range m.loader.Variants(key) {
			m.mu.Lock()
			_, have := res.samplers[v.Index]
			m.mu.Unlock()
			if have {
				continue
			}

			opts, err := texcache.VariantFromIndex(v.Index)
			if err != nil {
				return err
			}
			sampler, err := m.device.CreateSampler(
				samplerDescriptor(key+"/sampler/"+strconv.Itoa(int(v.Index)), opts))
			if err != nil {
				return fmt.Errorf("native: create sampler for %s variant %d: %w", key, v.Index, err)
			}

			m.mu.Lock()
			res.samplers[v.Index] = sampler
			m.byHandle[v.Handle] = SampledTexture{
				Asset:   v.Asset,
				Handle:  v.Handle,
				Options: opts,
				Size:    res.size,
				View:    res.view,
				Sampler: sampler,
			}
			m.mu.Unlock()
		}
	}
	return nil
}

// sweep destroys GPU resources for assets the loader no longer tracks.
func (m *Materializer) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, res := range m.assets {
		if m.loader.Contains(key) {
			continue
		}
		m.destroyLocked(key, res)
		texcache.Logger().Debug("asset swept", "key", key)
	}
}

// destroyLocked releases one asset's GPU objects. Caller holds m.mu.
func (m *Materializer) destroyLocked(key string, res *assetResources) {
	for _, s := range res.samplers {
		m.device.DestroySampler(s)
	}
	m.device.DestroyTextureView(res.view)
	m.device.DestroyTexture(res.texture)
	delete(m.assets, key)
	for h, st := range m.byHandle {
		if st.View == res.view {
			delete(m.byHandle, h)
		}
	}
}

// Lookup resolves a display handle to its bindable GPU state. The second
// return is false for handles never materialized or already swept; the
// renderer should treat such handles as absent, never as an error.
func (m *Materializer) Lookup(h texcache.Handle) (SampledTexture, bool) {
	m.mu.Lock()
	st, ok := m.byHandle[h]
	m.mu.Unlock()
	return st, ok
}

// Len returns the number of assets with live GPU resources.
func (m *Materializer) Len() int {
	m.mu.Lock()
	n := len(m.assets)
	m.mu.Unlock()
	return n
}

// Destroy releases every GPU resource the materializer owns. The
// materializer remains usable; subsequent Process calls rebuild state for
// assets still tracked by the loader.
func (m *Materializer) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, res := range m.assets {
		m.destroyLocked(key, res)
	}
}
