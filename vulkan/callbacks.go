package vulkan

import "github.com/vkngwrapper/core/v2/core1_0"

// AllocateDeviceMemoryCallback is called after an allocator allocates a block of device memory
type AllocateDeviceMemoryCallback func(
	memoryType int,
	memory core1_0.DeviceMemory,
	size int,
	userData interface{},
)

// FreeDeviceMemoryCallback is called before an allocator frees a block of device memory
type FreeDeviceMemoryCallback func(
	memoryType int,
	memory core1_0.DeviceMemory,
	size int,
	userData interface{},
)

// MemoryCallbackOptions is an optional set of callbacks that are fired when an allocator
// allocates or frees device memory. Either callback may be nil.
type MemoryCallbackOptions struct {
	Allocate AllocateDeviceMemoryCallback
	Free     FreeDeviceMemoryCallback
	UserData interface{}
}

func (c *MemoryCallbackOptions) allocate(memoryType int, memory core1_0.DeviceMemory, size int) {
	if c != nil && c.Allocate != nil {
		c.Allocate(memoryType, memory, size, c.UserData)
	}
}

func (c *MemoryCallbackOptions) free(memoryType int, memory core1_0.DeviceMemory, size int) {
	if c != nil && c.Free != nil {
		c.Free(memoryType, memory, size, c.UserData)
	}
}
