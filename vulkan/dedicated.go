package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/arsenal/rawimage"
	"github.com/vkngwrapper/arsenal/rawimage/internal/utils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// DedicatedOptions contains optional settings when creating a DedicatedAllocator
type DedicatedOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
	// Preferences controls which memory type is chosen for each allocation
	Preferences MemoryPreferences
	// MemoryCallbacks is fired whenever device memory is allocated or freed
	MemoryCallbacks *MemoryCallbackOptions
}

type dedicatedAllocation struct {
	memoryType int
	size       int
}

// DedicatedAllocator is a rawimage.MemoryAllocator that gives every image its own device
// memory object. It is the simplest possible strategy and wastes nothing, but devices limit
// the number of live allocations, so it should only be used for a modest number of images.
type DedicatedAllocator struct {
	logger           *slog.Logger
	device           *Device
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties
	preferences      MemoryPreferences
	callbacks        *MemoryCallbackOptions

	mutex       utils.OptionalRWMutex
	allocations *swiss.Map[rawimage.MemoryHandle, dedicatedAllocation]
	stats       memutils.Statistics
}

var _ rawimage.MemoryAllocator = &DedicatedAllocator{}
var _ rawimage.MemoryFreer = &DedicatedAllocator{}

func NewDedicatedAllocator(logger *slog.Logger, device *Device, o DedicatedOptions) *DedicatedAllocator {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("DedicatedAllocator::NewDedicatedAllocator")

	return &DedicatedAllocator{
		logger:           logger,
		device:           device,
		memoryProperties: device.physicalDevice.MemoryProperties(),
		preferences:      o.Preferences,
		callbacks:        o.MemoryCallbacks,

		mutex: utils.OptionalRWMutex{
			UseMutex: device.useMutex && o.Flags&CreateExternallySynchronized == 0,
		},
		allocations: swiss.NewMap[rawimage.MemoryHandle, dedicatedAllocation](16),
	}
}

// Allocate allocates a new device memory object of exactly size bytes
func (a *DedicatedAllocator) Allocate(size int, alignment int, memoryTypeBits uint32) (rawimage.MemoryChunk, error) {
	a.logger.Debug("DedicatedAllocator::Allocate")

	if size <= 0 {
		return nil, errors.Newf("attempted to allocate %d bytes", size)
	}
	err := memutils.CheckPow2(alignment, "core1_0.MemoryRequirements.Alignment")
	if err != nil {
		return nil, err
	}

	memoryType, err := FindMemoryTypeIndex(a.memoryProperties, memoryTypeBits, a.preferences)
	if err != nil {
		return nil, err
	}

	memory, res, err := a.device.device.AllocateMemory(a.device.allocationCallbacks, core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: memoryType,
	})
	if err != nil {
		return nil, allocationError(res, err)
	}

	handle := a.device.RegisterMemory(memory)

	a.mutex.Lock()
	a.allocations.Put(handle, dedicatedAllocation{memoryType: memoryType, size: size})
	a.stats.BlockCount++
	a.stats.BlockBytes += size
	a.stats.AllocationCount++
	a.stats.AllocationBytes += size
	a.mutex.Unlock()

	a.callbacks.allocate(memoryType, memory, size)

	return rawimage.RegularChunk{
		Memory: handle,
		Offset: 0,
		Size:   size,
	}, nil
}

// Free releases memory returned from Allocate. Every image bound to it must have been
// destroyed already.
func (a *DedicatedAllocator) Free(memory rawimage.MemoryHandle) error {
	a.logger.Debug("DedicatedAllocator::Free")

	a.mutex.Lock()
	allocation, ok := a.allocations.Get(memory)
	if ok {
		a.allocations.Delete(memory)
		a.stats.BlockCount--
		a.stats.BlockBytes -= allocation.size
		a.stats.AllocationCount--
		a.stats.AllocationBytes -= allocation.size
	}
	a.mutex.Unlock()

	if !ok {
		return errors.Newf("memory handle %d was not allocated by this allocator", memory)
	}

	a.freeVulkanMemory(memory, allocation)
	return nil
}

// FreeChunk frees the memory behind a chunk returned from Allocate
func (a *DedicatedAllocator) FreeChunk(chunk rawimage.MemoryChunk) error {
	regular, ok := chunk.(rawimage.RegularChunk)
	if !ok {
		return errors.Wrapf(rawimage.ErrUnsupportedChunk, "DedicatedAllocator never allocates a %T", chunk)
	}

	return a.Free(regular.Memory)
}

func (a *DedicatedAllocator) freeVulkanMemory(memory rawimage.MemoryHandle, allocation dedicatedAllocation) {
	vulkanMemory, ok := a.device.UnregisterMemory(memory)
	if !ok {
		a.logger.Warn("dedicated allocation was missing from the device", slog.Uint64("handle", uint64(memory)))
		return
	}

	a.callbacks.free(allocation.memoryType, vulkanMemory, allocation.size)
	vulkanMemory.Free(a.device.allocationCallbacks)
}

// Destroy frees every allocation that is still live
func (a *DedicatedAllocator) Destroy() {
	a.logger.Debug("DedicatedAllocator::Destroy")

	a.mutex.Lock()
	live := make(map[rawimage.MemoryHandle]dedicatedAllocation, a.allocations.Count())
	a.allocations.Iter(func(memory rawimage.MemoryHandle, allocation dedicatedAllocation) bool {
		live[memory] = allocation
		return false
	})
	a.allocations = swiss.NewMap[rawimage.MemoryHandle, dedicatedAllocation](16)
	a.stats.Clear()
	a.mutex.Unlock()

	for memory, allocation := range live {
		a.freeVulkanMemory(memory, allocation)
	}
}

// Statistics returns the number and size of live allocations
func (a *DedicatedAllocator) Statistics() memutils.Statistics {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.stats
}

// BuildStatsString returns a JSON description of the allocator and its live allocations
func (a *DedicatedAllocator) BuildStatsString() string {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	printStatistics(&obj, &a.stats)

	allocs := obj.Name("Allocations").Array()
	a.allocations.Iter(func(memory rawimage.MemoryHandle, allocation dedicatedAllocation) bool {
		o := allocs.Object()
		o.Name("Handle").Int(int(memory))
		o.Name("MemoryType").Int(allocation.memoryType)
		o.Name("Size").Int(allocation.size)
		o.End()
		return false
	})
	allocs.End()

	obj.End()
	return string(writer.Bytes())
}

func printStatistics(json *jwriter.ObjectState, stats *memutils.Statistics) {
	json.Name("BlockCount").Int(stats.BlockCount)
	json.Name("BlockBytes").Int(stats.BlockBytes)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
}
