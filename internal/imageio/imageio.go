// Package imageio decodes image files into the tightly packed RGBA form
// the GPU upload path expects.
//
// Supported formats: PNG, JPEG, GIF (stdlib), WebP and BMP
// (golang.org/x/image), and TGA (github.com/ftrvxmtrx/tga), all registered
// via blank imports so image.Decode sniffs the format from the stream.
package imageio

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"
)

// Decode reads any registered image format from r and returns it as RGBA.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to RGBA with bounds anchored at the origin.
// Images that are already origin-anchored RGBA are returned as-is.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}
