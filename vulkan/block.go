package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/arsenal/rawimage"
	"github.com/vkngwrapper/arsenal/rawimage/internal/utils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// BlockOptions contains settings when creating a BlockAllocator
type BlockOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
	// BlockSize is the size in bytes of the single block of device memory. It is required.
	BlockSize int
	// MemoryTypeBits restricts which memory types the block may be allocated from. Leave it
	// 0 to allow every type.
	MemoryTypeBits uint32
	// Preferences controls which memory type is chosen for the block
	Preferences MemoryPreferences
	// MemoryCallbacks is fired when the block is allocated and freed
	MemoryCallbacks *MemoryCallbackOptions
}

// blockCursor is the bump-pointer state of a single block
type blockCursor struct {
	size        int
	granularity int

	offset          int
	allocationCount int
	allocationBytes int
}

// next reserves size bytes at the next suitably aligned offset, returning false if they
// do not fit in the block
func (c *blockCursor) next(size int, alignment int) (int, bool) {
	if alignment < c.granularity {
		alignment = c.granularity
	}

	offset := memutils.AlignUp(c.offset, uint(alignment))
	if offset+size > c.size || offset+size < offset {
		return 0, false
	}

	c.offset = offset + size
	c.allocationCount++
	c.allocationBytes += size
	return offset, true
}

// rewind takes back the most recent reservation, returning false if another reservation
// was made after it
func (c *blockCursor) rewind(offset int, size int) bool {
	if c.allocationCount == 0 || offset+size != c.offset {
		return false
	}

	c.offset = offset
	c.allocationCount--
	c.allocationBytes -= size
	return true
}

func (c *blockCursor) reset() {
	c.offset = 0
	c.allocationCount = 0
	c.allocationBytes = 0
}

// BlockAllocator is a rawimage.MemoryAllocator that carves every request out of a single
// block of device memory allocated up front. Space is never reclaimed individually; Reset
// makes the whole block available again once every image bound to it has been destroyed.
type BlockAllocator struct {
	logger    *slog.Logger
	device    *Device
	callbacks *MemoryCallbackOptions

	memoryType   int
	memory       rawimage.MemoryHandle
	vulkanMemory core1_0.DeviceMemory

	mutex  utils.OptionalRWMutex
	cursor blockCursor
	freed  bool
}

var _ rawimage.MemoryAllocator = &BlockAllocator{}
var _ rawimage.MemoryFreer = &BlockAllocator{}

// NewBlockAllocator allocates the block of device memory that every request will be served
// from. Every suballocation is aligned to at least the device's buffer-image granularity, so
// linear and optimal images may share the block.
func NewBlockAllocator(logger *slog.Logger, device *Device, o BlockOptions) (*BlockAllocator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("BlockAllocator::NewBlockAllocator")

	if o.BlockSize <= 0 {
		return nil, errors.Newf("BlockOptions.BlockSize must be positive, but was %d", o.BlockSize)
	}

	deviceProperties, err := device.physicalDevice.Properties()
	if err != nil {
		return nil, err
	}
	granularity := 1
	if deviceProperties.Limits != nil && deviceProperties.Limits.BufferImageGranularity > 1 {
		granularity = deviceProperties.Limits.BufferImageGranularity
	}
	err = memutils.CheckPow2(granularity, "core1_0.PhysicalDeviceLimits.BufferImageGranularity")
	if err != nil {
		return nil, err
	}

	memoryTypeBits := o.MemoryTypeBits
	if memoryTypeBits == 0 {
		memoryTypeBits = ^uint32(0)
	}
	memoryType, err := FindMemoryTypeIndex(device.physicalDevice.MemoryProperties(), memoryTypeBits, o.Preferences)
	if err != nil {
		return nil, err
	}

	vulkanMemory, res, err := device.device.AllocateMemory(device.allocationCallbacks, core1_0.MemoryAllocateInfo{
		AllocationSize:  o.BlockSize,
		MemoryTypeIndex: memoryType,
	})
	if err != nil {
		return nil, allocationError(res, err)
	}
	o.MemoryCallbacks.allocate(memoryType, vulkanMemory, o.BlockSize)

	logger.Debug("allocated memory block",
		slog.Int("memoryType", memoryType),
		slog.Int("size", o.BlockSize),
	)

	return &BlockAllocator{
		logger:    logger,
		device:    device,
		callbacks: o.MemoryCallbacks,

		memoryType:   memoryType,
		memory:       device.RegisterMemory(vulkanMemory),
		vulkanMemory: vulkanMemory,

		mutex: utils.OptionalRWMutex{
			UseMutex: device.useMutex && o.Flags&CreateExternallySynchronized == 0,
		},
		cursor: blockCursor{
			size:        o.BlockSize,
			granularity: granularity,
		},
	}, nil
}

// Allocate reserves space in the block. Requests that do not fit in what remains return an
// *rawimage.OomError; requests whose memory type bits exclude the block's memory type return
// an ordinary error.
func (a *BlockAllocator) Allocate(size int, alignment int, memoryTypeBits uint32) (rawimage.MemoryChunk, error) {
	a.logger.Debug("BlockAllocator::Allocate")

	if size <= 0 {
		return nil, errors.Newf("attempted to allocate %d bytes", size)
	}
	if alignment < 1 {
		alignment = 1
	}
	err := memutils.CheckPow2(alignment, "core1_0.MemoryRequirements.Alignment")
	if err != nil {
		return nil, err
	}

	if memoryTypeBits&(uint32(1)<<a.memoryType) == 0 {
		return nil, errors.Newf("the block's memory type %d is not in the allowed memory type bits %#x", a.memoryType, memoryTypeBits)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.freed {
		return nil, errors.New("attempted to allocate from a destroyed BlockAllocator")
	}

	offset, ok := a.cursor.next(size, alignment)
	if !ok {
		return nil, &rawimage.OomError{Result: core1_0.VKErrorOutOfDeviceMemory}
	}

	return rawimage.RegularChunk{
		Memory: a.memory,
		Offset: offset,
		Size:   size,
	}, nil
}

// FreeChunk takes back a chunk if it is the most recent one handed out. Any other chunk stays
// reserved until Reset, and an error is returned.
func (a *BlockAllocator) FreeChunk(chunk rawimage.MemoryChunk) error {
	a.logger.Debug("BlockAllocator::FreeChunk")

	regular, ok := chunk.(rawimage.RegularChunk)
	if !ok {
		return errors.Wrapf(rawimage.ErrUnsupportedChunk, "BlockAllocator never allocates a %T", chunk)
	}
	if regular.Memory != a.memory {
		return errors.Newf("memory handle %d does not belong to this BlockAllocator", regular.Memory)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.freed {
		return errors.New("attempted to free a chunk from a destroyed BlockAllocator")
	}
	if !a.cursor.rewind(regular.Offset, regular.Size) {
		return errors.Newf("chunk at offset %d is not the most recent allocation and stays reserved until Reset", regular.Offset)
	}

	return nil
}

// Remaining is the number of bytes past the last suballocation
func (a *BlockAllocator) Remaining() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.cursor.size - a.cursor.offset
}

// Reset makes the entire block available again. Every image bound to the block must have been
// destroyed first.
func (a *BlockAllocator) Reset() {
	a.logger.Debug("BlockAllocator::Reset")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.cursor.reset()
}

// Statistics returns the block's size and how much of it has been handed out
func (a *BlockAllocator) Statistics() memutils.Statistics {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.freed {
		return memutils.Statistics{}
	}

	return memutils.Statistics{
		BlockCount:      1,
		BlockBytes:      a.cursor.size,
		AllocationCount: a.cursor.allocationCount,
		AllocationBytes: a.cursor.allocationBytes,
	}
}

// Destroy frees the block. Every image bound to it must have been destroyed first.
func (a *BlockAllocator) Destroy() {
	a.logger.Debug("BlockAllocator::Destroy")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.freed {
		return
	}
	a.freed = true

	a.device.UnregisterMemory(a.memory)
	a.callbacks.free(a.memoryType, a.vulkanMemory, a.cursor.size)
	a.vulkanMemory.Free(a.device.allocationCallbacks)
}
