package rawimage

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// CreateInfo describes an image to be created with New
type CreateInfo struct {
	// Usage declares every way the image will be used
	Usage Usage
	// Format is the pixel format of the image
	Format core1_0.Format
	// Dimensions is the shape of the image. Every extent must be at least 1.
	Dimensions Dimensions
	// Samples is the number of samples per texel. It must be a power of two and at least 1.
	Samples int
	// Mipmaps is the number of mip levels to create
	Mipmaps Mipmaps
	// Sharing controls which queue families may use the image. If left nil, the image is
	// exclusive to one queue family.
	Sharing SharingMode
	// LinearTiling requests linear tiling instead of implementation-optimal tiling. Whether
	// linear tiling is supported for the format and usage is not checked.
	LinearTiling bool
	// Preinitialized creates the image in the preinitialized layout instead of the undefined layout
	Preinitialized bool
}

// Image is a native image with memory bound to it, or a native image adopted from elsewhere
// with FromRawUnowned.
//
// An Image must not be copied after creation, since it exclusively owns its handle. Pass
// *Image around instead. Every Image must have Destroy called on it once it is no longer in use;
// the handle must not be used by anyone after that.
type Image struct {
	// destroyed also makes go vet reject copies of Image
	destroyed atomic.Bool

	logger *slog.Logger
	id     uuid.UUID
	device Device
	handle ImageHandle
	chunk  MemoryChunk

	usage       core1_0.ImageUsageFlags
	format      core1_0.Format
	dimensions  mgl32.Vec3
	samples     int
	mipLevels   int
	arrayLayers int
	sharing     SharingMode

	// Destroy releases the handle only if it is owned
	owned bool
}

// New creates an image and binds memory to it.
//
// The image's memory requirements are passed to allocator, which must return a RegularChunk.
// The image does not free this memory when it is destroyed; that is the allocator's business.
// If the chunk cannot be bound, it is handed back through MemoryFreer when allocator
// implements it.
//
// Malformed CreateInfo values (0 extents, 0 samples or a sample count that is not a power
// of two, an unsatisfiable mip level request, concurrent sharing with fewer than 2 queue
// families) are programming errors and panic. So does an allocator returning any chunk other
// than a RegularChunk. Running out of host or device memory returns an *OomError. Whenever New
// returns an error or panics after the native image was created, the native image is destroyed
// first.
func New(logger *slog.Logger, device Device, allocator MemoryAllocator, o CreateInfo) (*Image, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Image::New")

	if device == nil {
		panic(errors.AssertionFailedf("attempted to create an image with a nil Device"))
	}
	if allocator == nil {
		panic(errors.AssertionFailedf("attempted to create an image with a nil MemoryAllocator"))
	}

	info, shape := buildCreateInfo(o)

	handle, res, err := device.CreateImage(info)
	err = checkResult("vkCreateImage", res, err)
	if err != nil {
		return nil, err
	}

	var chunk MemoryChunk
	bound := false
	defer func() {
		if bound {
			return
		}

		device.DestroyImage(handle)
		if chunk != nil {
			releaseChunk(logger, allocator, chunk)
		}
	}()

	memReqs := device.ImageMemoryRequirements(handle)
	if memReqs == nil {
		return nil, errors.New("the device did not report memory requirements for the image")
	}

	chunk, err = allocator.Allocate(memReqs.Size, memReqs.Alignment, memReqs.MemoryTypeBits)
	if err != nil {
		return nil, errors.Wrap(err, "could not allocate image memory")
	}

	switch c := chunk.(type) {
	case RegularChunk:
		res, err = device.BindImageMemory(handle, c.Memory, c.Offset)
		err = checkResult("vkBindImageMemory", res, err)
		if err != nil {
			return nil, err
		}
	default:
		panic(errors.Wrapf(ErrUnsupportedChunk, "cannot bind an image to a %T", chunk))
	}
	bound = true

	image := &Image{
		logger:      logger,
		id:          uuid.New(),
		device:      device,
		handle:      handle,
		chunk:       chunk,
		usage:       info.Usage,
		format:      o.Format,
		dimensions:  shape.size,
		samples:     o.Samples,
		mipLevels:   info.MipLevels,
		arrayLayers: shape.arrayLayers,
		sharing:     o.Sharing,
		owned:       true,
	}
	if image.sharing == nil {
		image.sharing = SharingExclusive{}
	}

	logger.Debug("created image",
		slog.String("id", image.id.String()),
		slog.Int("mipLevels", info.MipLevels),
		slog.Int("memorySize", memReqs.Size),
	)

	return image, nil
}

// releaseChunk hands memory that never got bound back to an allocator able to take it
func releaseChunk(logger *slog.Logger, allocator MemoryAllocator, chunk MemoryChunk) {
	freer, ok := allocator.(MemoryFreer)
	if !ok {
		return
	}

	err := freer.FreeChunk(chunk)
	if err != nil {
		logger.Warn("could not return unbound memory to the allocator", slog.String("error", err.Error()))
	}
}

// buildCreateInfo resolves everything New needs to know before talking to the device.
// It panics on malformed input.
func buildCreateInfo(o CreateInfo) (core1_0.ImageCreateInfo, imageShape) {
	shape := resolveDimensions(o.Dimensions)
	mipLevels := resolveMipLevels(o.Mipmaps, shape.smallest)

	if o.Samples < 1 {
		panic(errors.AssertionFailedf("images require at least 1 sample, but %d were requested", o.Samples))
	}
	err := memutils.CheckPow2(o.Samples, "rawimage.CreateInfo.Samples")
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "invalid sample count"))
	}

	info := core1_0.ImageCreateInfo{
		ImageType:     shape.imageType,
		Format:        o.Format,
		Extent:        shape.extent,
		MipLevels:     mipLevels,
		ArrayLayers:   shape.arrayLayers,
		Samples:       core1_0.SampleCountFlags(o.Samples),
		Tiling:        core1_0.ImageTilingOptimal,
		Usage:         o.Usage.Flags(),
		InitialLayout: core1_0.ImageLayoutUndefined,
	}
	if o.LinearTiling {
		info.Tiling = core1_0.ImageTilingLinear
	}
	if o.Preinitialized {
		info.InitialLayout = core1_0.ImageLayoutPreInitialized
	}
	applySharing(o.Sharing, &info)

	return info, shape
}

// Handle returns the native image handle. It must not be stored anywhere that could outlive
// the Image; use Ref for a reference that can tell when the Image has been destroyed.
func (i *Image) Handle() ImageHandle {
	return i.handle
}

// Device returns the device the image was created on
func (i *Image) Device() Device {
	return i.device
}

// ID is a unique identifier for this Image, used in logs and parameter dumps
func (i *Image) ID() uuid.UUID {
	return i.id
}

// Usage returns the packed usage the image was declared with
func (i *Image) Usage() core1_0.ImageUsageFlags {
	return i.usage
}

func (i *Image) Format() core1_0.Format {
	return i.format
}

// Dimensions returns the width, height and depth of the image. Axes the image type does not
// use are 1.
func (i *Image) Dimensions() mgl32.Vec3 {
	return i.dimensions
}

func (i *Image) Samples() int {
	return i.samples
}

func (i *Image) MipLevels() int {
	return i.mipLevels
}

func (i *Image) ArrayLayers() int {
	return i.arrayLayers
}

func (i *Image) Sharing() SharingMode {
	return i.sharing
}

// Chunk returns the memory bound to the image by New, or nil for adopted images
func (i *Image) Chunk() MemoryChunk {
	return i.chunk
}

// Owned reports whether Destroy will release the native image
func (i *Image) Owned() bool {
	return i.owned
}

// Destroy releases the native image through its device if this Image owns it. Calls after
// the first do nothing.
func (i *Image) Destroy() {
	if !i.destroyed.CompareAndSwap(false, true) {
		return
	}
	i.logger.Debug("Image::Destroy")

	if i.owned {
		i.device.DestroyImage(i.handle)
	}
}

// PrintParameters writes the image's parameters into a JSON object
func (i *Image) PrintParameters(json *jwriter.ObjectState) {
	json.Name("Id").String(i.id.String())
	json.Name("Usage").String(i.usage.String())
	json.Name("Format").String(i.format.String())

	dims := json.Name("Dimensions").Array()
	for _, dim := range i.dimensions {
		dims.Float64(float64(dim))
	}
	dims.End()

	json.Name("Samples").Int(i.samples)
	json.Name("MipLevels").Int(i.mipLevels)
	json.Name("ArrayLayers").Int(i.arrayLayers)
	json.Name("Owned").Bool(i.owned)

	if chunk, ok := i.chunk.(RegularChunk); ok {
		json.Name("MemoryOffset").Int(chunk.Offset)
		json.Name("MemorySize").Int(chunk.Size)
	}
}
