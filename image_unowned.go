package rawimage

import (
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// UnownedInfo describes a native image that was created by someone else
type UnownedInfo struct {
	Usage      core1_0.ImageUsageFlags
	Format     core1_0.Format
	Dimensions Dimensions
	Samples    int
	MipLevels  int
	Sharing    SharingMode
}

// FromRawUnowned wraps a native image that belongs to another subsystem, such as a swapchain.
// Destroy on the returned Image never releases the handle.
//
// Nothing about o is checked against the handle; the caller vouches for all of it.
func FromRawUnowned(logger *slog.Logger, device Device, handle ImageHandle, o UnownedInfo) *Image {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Image::FromRawUnowned")

	shape := resolveDimensions(o.Dimensions)

	sharing := o.Sharing
	if sharing == nil {
		sharing = SharingExclusive{}
	}

	return &Image{
		logger:      logger,
		id:          uuid.New(),
		device:      device,
		handle:      handle,
		usage:       o.Usage,
		format:      o.Format,
		dimensions:  shape.size,
		samples:     o.Samples,
		mipLevels:   o.MipLevels,
		arrayLayers: shape.arrayLayers,
		sharing:     sharing,
		owned:       false,
	}
}
