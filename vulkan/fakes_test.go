package vulkan

import (
	"io"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

// The fakes below embed the core interfaces they stand in for and override only the methods
// this package calls. Calling anything else panics on the nil embedded value.

type fakeImage struct {
	core1_0.Image

	requirements *core1_0.MemoryRequirements
	bindResult   common.VkResult
	boundMemory  core1_0.DeviceMemory
	boundOffset  int
	destroyCount int
}

func (i *fakeImage) MemoryRequirements() *core1_0.MemoryRequirements {
	return i.requirements
}

func (i *fakeImage) BindImageMemory(memory core1_0.DeviceMemory, offset int) (common.VkResult, error) {
	if i.bindResult != core1_0.VKSuccess {
		return i.bindResult, i.bindResult.ToError()
	}

	i.boundMemory = memory
	i.boundOffset = offset
	return core1_0.VKSuccess, nil
}

func (i *fakeImage) Destroy(callbacks *driver.AllocationCallbacks) {
	i.destroyCount++
}

type fakeMemory struct {
	core1_0.DeviceMemory

	size      int
	freeCount int
}

func (m *fakeMemory) Free(callbacks *driver.AllocationCallbacks) {
	m.freeCount++
}

type fakeDevice struct {
	core1_0.Device

	requirements   core1_0.MemoryRequirements
	createResult   common.VkResult
	bindResult     common.VkResult
	allocateResult common.VkResult

	images      []*fakeImage
	memory      []*fakeMemory
	allocations []core1_0.MemoryAllocateInfo
}

func (d *fakeDevice) CreateImage(callbacks *driver.AllocationCallbacks, o core1_0.ImageCreateInfo) (core1_0.Image, common.VkResult, error) {
	if d.createResult != core1_0.VKSuccess {
		return nil, d.createResult, d.createResult.ToError()
	}

	requirements := d.requirements
	image := &fakeImage{requirements: &requirements, bindResult: d.bindResult}
	d.images = append(d.images, image)
	return image, core1_0.VKSuccess, nil
}

func (d *fakeDevice) AllocateMemory(callbacks *driver.AllocationCallbacks, o core1_0.MemoryAllocateInfo) (core1_0.DeviceMemory, common.VkResult, error) {
	d.allocations = append(d.allocations, o)
	if d.allocateResult != core1_0.VKSuccess {
		return nil, d.allocateResult, d.allocateResult.ToError()
	}

	memory := &fakeMemory{size: o.AllocationSize}
	d.memory = append(d.memory, memory)
	return memory, core1_0.VKSuccess, nil
}

type fakePhysicalDevice struct {
	core1_0.PhysicalDevice

	memoryProperties core1_0.PhysicalDeviceMemoryProperties
	properties       core1_0.PhysicalDeviceProperties
}

func (p *fakePhysicalDevice) MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return &p.memoryProperties
}

func (p *fakePhysicalDevice) Properties() (*core1_0.PhysicalDeviceProperties, error) {
	return &p.properties, nil
}

func testMemoryProperties() core1_0.PhysicalDeviceMemoryProperties {
	return core1_0.PhysicalDeviceMemoryProperties{
		MemoryTypes: []core1_0.MemoryType{
			{
				PropertyFlags: core1_0.MemoryPropertyDeviceLocal,
				HeapIndex:     0,
			},
			{
				PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
				HeapIndex:     1,
			},
		},
		MemoryHeaps: []core1_0.MemoryHeap{
			{
				Size:  1000000,
				Flags: core1_0.MemoryHeapDeviceLocal,
			},
			{
				Size:  1000000,
				Flags: 0,
			},
		},
	}
}

func readyDevice(granularity int) (*fakeDevice, *Device) {
	vulkanDevice := &fakeDevice{
		requirements: core1_0.MemoryRequirements{
			Size:           4096,
			Alignment:      256,
			MemoryTypeBits: 0b11,
		},
	}
	physicalDevice := &fakePhysicalDevice{
		memoryProperties: testMemoryProperties(),
		properties: core1_0.PhysicalDeviceProperties{
			DriverType: core1_0.PhysicalDeviceTypeDiscreteGPU,
			Limits: &core1_0.PhysicalDeviceLimits{
				BufferImageGranularity: granularity,
			},
		},
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard))
	return vulkanDevice, NewDevice(logger, vulkanDevice, physicalDevice, DeviceOptions{})
}
