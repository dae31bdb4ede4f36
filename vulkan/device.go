package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/rawimage"
	"github.com/vkngwrapper/arsenal/rawimage/internal/utils"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

// DeviceOptions contains optional settings when creating a Device
type DeviceOptions struct {
	// Flags indicates specific device behaviors to activate or deactivate
	Flags CreateFlags

	// VulkanCallbacks is an optional set of callbacks that will be executed from Vulkan when
	// images are created or destroyed through this Device, and when allocators built on it
	// allocate or free memory
	VulkanCallbacks *driver.AllocationCallbacks
}

// Device implements rawimage.Device on top of a core1_0.Device. It tracks the core1_0.Image
// and core1_0.DeviceMemory objects behind every rawimage handle it issues.
type Device struct {
	logger              *slog.Logger
	device              core1_0.Device
	physicalDevice      core1_0.PhysicalDevice
	allocationCallbacks *driver.AllocationCallbacks
	useMutex            bool

	images *utils.Registry[rawimage.ImageHandle, core1_0.Image]
	memory *utils.Registry[rawimage.MemoryHandle, core1_0.DeviceMemory]
}

var _ rawimage.Device = &Device{}

// NewDevice wraps a core1_0.Device. physicalDevice must be the physical device that device was
// created from; allocators read its memory properties.
func NewDevice(logger *slog.Logger, device core1_0.Device, physicalDevice core1_0.PhysicalDevice, o DeviceOptions) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Device::NewDevice")

	useMutex := o.Flags&CreateExternallySynchronized == 0

	return &Device{
		logger:              logger,
		device:              device,
		physicalDevice:      physicalDevice,
		allocationCallbacks: o.VulkanCallbacks,
		useMutex:            useMutex,

		images: utils.NewRegistry[rawimage.ImageHandle, core1_0.Image](useMutex),
		memory: utils.NewRegistry[rawimage.MemoryHandle, core1_0.DeviceMemory](useMutex),
	}
}

// VulkanDevice returns the wrapped core1_0.Device
func (d *Device) VulkanDevice() core1_0.Device {
	return d.device
}

func (d *Device) CreateImage(info core1_0.ImageCreateInfo) (rawimage.ImageHandle, common.VkResult, error) {
	d.logger.Debug("Device::CreateImage")

	image, res, err := d.device.CreateImage(d.allocationCallbacks, info)
	if err != nil {
		return 0, res, err
	}

	return d.images.Register(image), res, nil
}

func (d *Device) DestroyImage(image rawimage.ImageHandle) {
	d.logger.Debug("Device::DestroyImage")

	vulkanImage, ok := d.images.Remove(image)
	if !ok {
		d.logger.Warn("attempted to destroy an image handle that is not registered", slog.Uint64("handle", uint64(image)))
		return
	}

	vulkanImage.Destroy(d.allocationCallbacks)
}

func (d *Device) ImageMemoryRequirements(image rawimage.ImageHandle) *core1_0.MemoryRequirements {
	vulkanImage, ok := d.images.Get(image)
	if !ok {
		return nil
	}

	return vulkanImage.MemoryRequirements()
}

func (d *Device) BindImageMemory(image rawimage.ImageHandle, memory rawimage.MemoryHandle, offset int) (common.VkResult, error) {
	d.logger.Debug("Device::BindImageMemory")

	vulkanImage, ok := d.images.Get(image)
	if !ok {
		return core1_0.VKErrorUnknown, errors.Newf("attempted to bind memory to unknown image handle %d", image)
	}

	vulkanMemory, ok := d.memory.Get(memory)
	if !ok {
		return core1_0.VKErrorUnknown, errors.Newf("attempted to bind unknown memory handle %d", memory)
	}

	return vulkanImage.BindImageMemory(vulkanMemory, offset)
}

// Image returns the core1_0.Image behind a handle issued by this Device
func (d *Device) Image(image rawimage.ImageHandle) (core1_0.Image, bool) {
	return d.images.Get(image)
}

// AdoptImage issues a handle for an image created elsewhere, such as a swapchain image, so it
// can be wrapped with rawimage.FromRawUnowned. The image will never be destroyed by this
// Device; call ForgetImage once its owner has released it.
func (d *Device) AdoptImage(image core1_0.Image) rawimage.ImageHandle {
	d.logger.Debug("Device::AdoptImage")

	return d.images.Register(image)
}

// ForgetImage drops a handle issued by AdoptImage without destroying the image
func (d *Device) ForgetImage(image rawimage.ImageHandle) {
	d.logger.Debug("Device::ForgetImage")

	d.images.Remove(image)
}

// ImageCount is the number of image handles currently issued by this Device
func (d *Device) ImageCount() int {
	return d.images.Count()
}

// RegisterMemory issues a handle for a device memory object so that images can be bound to it.
// Allocators call this for every block of memory they allocate.
func (d *Device) RegisterMemory(memory core1_0.DeviceMemory) rawimage.MemoryHandle {
	return d.memory.Register(memory)
}

// UnregisterMemory drops a handle issued by RegisterMemory and returns the memory object
// behind it. The memory is not freed.
func (d *Device) UnregisterMemory(memory rawimage.MemoryHandle) (core1_0.DeviceMemory, bool) {
	return d.memory.Remove(memory)
}

// Memory returns the device memory object behind a handle issued by RegisterMemory
func (d *Device) Memory(memory rawimage.MemoryHandle) (core1_0.DeviceMemory, bool) {
	return d.memory.Get(memory)
}
