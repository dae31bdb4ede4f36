package rawimage

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// ImageHandle identifies a native image object issued by a Device
type ImageHandle uint64

// MemoryHandle identifies a native device memory object known to a Device
type MemoryHandle uint64

// Device is the native device that images are created on. Many images share one Device, so
// implementations must be safe to call from multiple goroutines at once.
//
// The vulkan subpackage provides an implementation backed by a core1_0.Device.
type Device interface {
	// CreateImage creates an image object with no memory bound to it
	CreateImage(info core1_0.ImageCreateInfo) (ImageHandle, common.VkResult, error)
	// DestroyImage releases an image object. It cannot fail.
	DestroyImage(image ImageHandle)
	// ImageMemoryRequirements reports the size, alignment and compatible memory types of an
	// image created by this device
	ImageMemoryRequirements(image ImageHandle) *core1_0.MemoryRequirements
	// BindImageMemory binds memory to an image at the provided byte offset
	BindImageMemory(image ImageHandle, memory MemoryHandle, offset int) (common.VkResult, error)
}
