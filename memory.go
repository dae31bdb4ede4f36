package rawimage

// MemoryChunk describes a region of device memory handed back by a MemoryAllocator. It is
// implemented by RegularChunk and SparseChunk.
type MemoryChunk interface {
	isMemoryChunk()
}

// RegularChunk is a region of a single device memory object that can be bound directly at
// Offset.
type RegularChunk struct {
	Memory MemoryHandle
	Offset int
	Size   int
}

// SparseChunk is reserved for sparse residency backing. Images cannot be bound to it yet;
// returning one from a MemoryAllocator during image creation panics.
type SparseChunk struct {
	Memory MemoryHandle
	Offset int
	Size   int
}

func (RegularChunk) isMemoryChunk() {}
func (SparseChunk) isMemoryChunk()  {}

// MemoryAllocator decides where an image's memory comes from. Image construction asks the
// device for the image's memory requirements and passes them here unchanged; the allocator
// owns the returned memory and is responsible for freeing it once the image is destroyed.
type MemoryAllocator interface {
	Allocate(size int, alignment int, memoryTypeBits uint32) (MemoryChunk, error)
}

// MemoryFreer is implemented by allocators that can take back a chunk which was never bound.
// New calls FreeChunk when binding fails after Allocate succeeded.
type MemoryFreer interface {
	FreeChunk(chunk MemoryChunk) error
}

// MemoryAllocatorFunc adapts a plain function to MemoryAllocator
type MemoryAllocatorFunc func(size int, alignment int, memoryTypeBits uint32) (MemoryChunk, error)

func (f MemoryAllocatorFunc) Allocate(size int, alignment int, memoryTypeBits uint32) (MemoryChunk, error) {
	return f(size, alignment, memoryTypeBits)
}
