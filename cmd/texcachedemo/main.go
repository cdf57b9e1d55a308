// Command texcachedemo walks the full texcache pipeline without a GPU:
// a UI-side Request loop, the decode/materialize step against an in-memory
// asset source, and handle lookups, printing what a renderer would bind.
// Decoded assets are optionally dumped as WebP for inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/google/uuid"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/backend/native"
	"github.com/gogpu/texcache/source"
)

func main() {
	var (
		size    = flag.Int("size", 64, "generated texture size in pixels")
		outDir  = flag.String("out", "", "directory to dump decoded assets as WebP (empty = no dump)")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		texcache.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	// Two assets: one UUID-shaped, one index-generation-shaped.
	gradient := makeGradient(*size)
	checker := makeChecker(*size)

	uuidAsset := texcache.UUIDID(uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"))
	indexAsset := texcache.IndexID(7, 1)

	src := source.NewMemorySource()
	src.Add(uuidAsset, gradient)
	src.Add(indexAsset, checker)

	loader := texcache.NewLoader()
	mat, err := native.New(&printDevice{}, &printQueue{}, loader, src)
	if err != nil {
		log.Fatalf("materializer: %v", err)
	}

	// Frame 1: the UI requests textures; everything is pending.
	requests := []struct {
		uri  string
		opts texcache.TextureOptions
	}{
		{uuidAsset.Key(), texcache.TextureOptions{}},
		{uuidAsset.Key(), texcache.TextureOptions{MagFilter: texcache.FilterLinear, Wrap: texcache.WrapRepeat}},
		{indexAsset.Key(), texcache.TextureOptions{MinFilter: texcache.FilterLinear}},
	}
	fmt.Println("frame 1 (before decode):")
	for _, r := range requests {
		poll, err := loader.Request(r.uri, r.opts)
		if err != nil {
			log.Fatalf("request %s: %v", r.uri, err)
		}
		fmt.Printf("  %-60s handle=%d state=%s\n", r.uri, poll.Handle, poll.State)
	}

	// Decode backend runs between frames.
	if err := mat.Process(context.Background()); err != nil {
		log.Fatalf("process: %v", err)
	}

	// Frame 2: same requests are ready; handles are unchanged.
	fmt.Println("frame 2 (after decode):")
	for _, r := range requests {
		poll, err := loader.Request(r.uri, r.opts)
		if err != nil {
			log.Fatalf("request %s: %v", r.uri, err)
		}
		st, ok := mat.Lookup(poll.Handle)
		fmt.Printf("  %-60s handle=%d state=%s size=%dx%d bound=%v\n",
			r.uri, poll.Handle, poll.State, poll.Size.Width, poll.Size.Height, ok)
		if ok {
			fmt.Printf("    sampler: mag=%s min=%s wrap=%s\n",
				st.Options.MagFilter, st.Options.MinFilter, st.Options.Wrap)
		}
	}

	// A foreign URI is simply not ours.
	if _, err := loader.Request("https://example.com/cat.png", texcache.TextureOptions{}); err != nil {
		fmt.Printf("foreign URI rejected: %v\n", err)
	}

	s := loader.Stats()
	fmt.Printf("stats: entries=%d hits=%d misses=%d rejected=%d\n",
		s.Entries, s.Hits, s.Misses, s.Rejected)

	if *outDir != "" {
		dump(*outDir, "gradient.webp", gradient)
		dump(*outDir, "checker.webp", checker)
	}
}

// printDevice stands in for a HAL device, narrating resource creation.
type printDevice struct{ n int }

func (d *printDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	fmt.Printf("  [gpu] texture  %q %dx%d\n", desc.Label, desc.Size.Width, desc.Size.Height)
	return stubResource{}, nil
}

func (d *printDevice) DestroyTexture(hal.Texture) {}

func (d *printDevice) CreateTextureView(_ hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	d.n++
	return stubView{id: d.n}, nil
}

func (d *printDevice) DestroyTextureView(hal.TextureView) {}

func (d *printDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	fmt.Printf("  [gpu] sampler  %q\n", desc.Label)
	return stubResource{}, nil
}

func (d *printDevice) DestroySampler(hal.Sampler) {}

type printQueue struct{}

func (printQueue) WriteTexture(_ *hal.ImageCopyTexture, data []byte, _ *hal.ImageDataLayout, size *hal.Extent3D) error {
	fmt.Printf("  [gpu] upload   %d bytes (%dx%d)\n", len(data), size.Width, size.Height)
	return nil
}

type stubResource struct{}

func (stubResource) Destroy()                            {}
func (stubResource) NativeHandle() uintptr               { return 0 }
func (stubResource) CurrentUsage() gputypes.TextureUsage { return 0 }
func (stubResource) AddPendingRef()                      {}
func (stubResource) DecPendingRef()                      {}

// stubView carries an id so each texture gets a distinct view value.
type stubView struct{ id int }

func (stubView) Destroy()              {}
func (stubView) NativeHandle() uintptr { return 0 }

func makeGradient(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * x / size),
				G: uint8(255 * y / size),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func makeChecker(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := color.NRGBA{A: 255}
			if (x/8+y/8)%2 == 0 {
				c.R, c.G, c.B = 255, 255, 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func dump(dir, name string, img image.Image) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		log.Fatalf("encode %s: %v", path, err)
	}
	fmt.Printf("dumped %s\n", path)
}
