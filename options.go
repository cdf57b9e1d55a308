package texcache

// FilterMode selects how a texture is sampled when scaled.
type FilterMode int

const (
	// FilterNearest snaps to the nearest texel. Crisp for pixel art.
	FilterNearest FilterMode = iota

	// FilterLinear interpolates between texels. Smooth for photos.
	FilterLinear
)

// String returns the filter mode name.
func (f FilterMode) String() string {
	switch f {
	case FilterNearest:
		return "Nearest"
	case FilterLinear:
		return "Linear"
	default:
		return "Unknown"
	}
}

// WrapMode selects how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	// WrapClampToEdge repeats the edge texel.
	WrapClampToEdge WrapMode = iota

	// WrapRepeat tiles the texture.
	WrapRepeat

	// WrapMirrorRepeat tiles the texture, mirroring every other tile.
	WrapMirrorRepeat
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapClampToEdge:
		return "ClampToEdge"
	case WrapRepeat:
		return "Repeat"
	case WrapMirrorRepeat:
		return "MirrorRepeat"
	default:
		return "Unknown"
	}
}

// TextureOptions are the sampling options a UI layer may request per draw.
// The zero value (nearest filtering, clamp to edge) is valid.
type TextureOptions struct {
	// MagFilter is used when the texture is drawn larger than its source.
	MagFilter FilterMode

	// MinFilter is used when the texture is drawn smaller than its source.
	MinFilter FilterMode

	// Wrap applies to all texture coordinate axes.
	Wrap WrapMode
}

// NumVariants is the number of distinct sampling-option combinations.
// Every TextureOptions value maps onto exactly one VariantIndex in
// [0, NumVariants).
const NumVariants = 12

// VariantIndex is the dense integer encoding of a TextureOptions value.
// Each Loader entry holds one handle slot per variant index, so the UI can
// request the same asset with different sampling options and receive
// distinct handles.
type VariantIndex int

// Variant encodes the options as a dense index by OR-ing three independent
// bit contributions: magnification (1), minification (2), wrap (4 or 8).
// Wrap never contributes both bits, so the result is always below
// NumVariants.
func (o TextureOptions) Variant() VariantIndex {
	var bits VariantIndex
	if o.MagFilter == FilterLinear {
		bits |= 1
	}
	if o.MinFilter == FilterLinear {
		bits |= 2
	}
	switch o.Wrap {
	case WrapRepeat:
		bits |= 4
	case WrapMirrorRepeat:
		bits |= 8
	}
	return bits
}

// VariantFromIndex is the inverse of TextureOptions.Variant. It is defined
// for the NumVariants reachable indices; anything else returns
// ErrInvalidVariant.
func VariantFromIndex(i VariantIndex) (TextureOptions, error) {
	if i < 0 || i >= NumVariants {
		return TextureOptions{}, ErrInvalidVariant
	}
	var o TextureOptions
	if i&1 != 0 {
		o.MagFilter = FilterLinear
	}
	if i&2 != 0 {
		o.MinFilter = FilterLinear
	}
	switch {
	case i&4 != 0:
		o.Wrap = WrapRepeat
	case i&8 != 0:
		o.Wrap = WrapMirrorRepeat
	}
	return o, nil
}
