package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texcache"
)

// samplerDescriptor maps loader sampling options onto a HAL sampler.
// The mipmap filter follows the minification filter, matching what the
// options encode (the loader's variant space has no independent mip axis).
func samplerDescriptor(label string, opts texcache.TextureOptions) *hal.SamplerDescriptor {
	wrap := addressMode(opts.Wrap)
	return &hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: wrap,
		AddressModeV: wrap,
		AddressModeW: wrap,
		MagFilter:    filterMode(opts.MagFilter),
		MinFilter:    filterMode(opts.MinFilter),
		MipmapFilter: filterMode(opts.MinFilter),
	}
}

func filterMode(f texcache.FilterMode) gputypes.FilterMode {
	if f == texcache.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

func addressMode(w texcache.WrapMode) gputypes.AddressMode {
	switch w {
	case texcache.WrapRepeat:
		return gputypes.AddressModeRepeat
	case texcache.WrapMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeClampToEdge
	}
}
