package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/source"
)

// ErrNoHALProvider is returned when a device provider cannot hand out raw
// HAL handles.
var ErrNoHALProvider = errors.New("native: provider does not expose HAL types")

// FromProvider creates a Materializer sharing the GPU device of an
// existing gpucontext provider (e.g. a gogpu application context), instead
// of opening a device of its own. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider, loader *texcache.Loader, src source.Source) (*Materializer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return New(device, queue, loader, src)
}
