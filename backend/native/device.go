package native

import "github.com/gogpu/wgpu/hal"

// Device is the subset of hal.Device the materializer needs. hal.Device
// satisfies it; tests substitute a small mock instead of implementing the
// full HAL surface.
type Device interface {
	CreateTexture(*hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(hal.Texture)
	CreateTextureView(hal.Texture, *hal.TextureViewDescriptor) (hal.TextureView, error)
	DestroyTextureView(hal.TextureView)
	CreateSampler(*hal.SamplerDescriptor) (hal.Sampler, error)
	DestroySampler(hal.Sampler)
}

// Queue is the subset of hal.Queue used for pixel upload.
type Queue interface {
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error
}
