package rawimage_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/rawimage"
	"github.com/vkngwrapper/arsenal/rawimage/mocks"
	"github.com/vkngwrapper/core/v2/core1_0"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func basicCreateInfo() rawimage.CreateInfo {
	return rawimage.CreateInfo{
		Usage: rawimage.Usage{
			TransferDestination: true,
			Sampled:             true,
		},
		Format:     core1_0.FormatR8G8B8A8SRGB,
		Dimensions: rawimage.Dim2D{Width: 64, Height: 32},
		Samples:    1,
		Mipmaps:    rawimage.MipmapsMax,
	}
}

func basicNativeInfo() core1_0.ImageCreateInfo {
	return core1_0.ImageCreateInfo{
		ImageType:     core1_0.ImageType2D,
		Format:        core1_0.FormatR8G8B8A8SRGB,
		Extent:        core1_0.Extent3D{Width: 64, Height: 32, Depth: 1},
		MipLevels:     6,
		ArrayLayers:   1,
		Samples:       core1_0.Samples1,
		Tiling:        core1_0.ImageTilingOptimal,
		Usage:         core1_0.ImageUsageTransferDst | core1_0.ImageUsageSampled,
		SharingMode:   core1_0.SharingModeExclusive,
		InitialLayout: core1_0.ImageLayoutUndefined,
	}
}

func TestNewImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	allocator := mocks.NewMockMemoryAllocator(ctrl)

	handle := rawimage.ImageHandle(17)
	memory := rawimage.MemoryHandle(3)

	gomock.InOrder(
		device.EXPECT().CreateImage(basicNativeInfo()).Return(handle, core1_0.VKSuccess, nil),
		device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
			Size:           10924,
			Alignment:      256,
			MemoryTypeBits: 0x3,
		}),
		allocator.EXPECT().Allocate(10924, 256, uint32(0x3)).Return(rawimage.RegularChunk{
			Memory: memory,
			Offset: 512,
			Size:   10924,
		}, nil),
		device.EXPECT().BindImageMemory(handle, memory, 512).Return(core1_0.VKSuccess, nil),
	)

	image, err := rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	require.NoError(t, err)
	require.NotNil(t, image)

	require.Equal(t, handle, image.Handle())
	require.Equal(t, 6, image.MipLevels())
	require.Equal(t, 1, image.ArrayLayers())
	require.Equal(t, 1, image.Samples())
	require.Equal(t, core1_0.FormatR8G8B8A8SRGB, image.Format())
	require.Equal(t, core1_0.ImageUsageTransferDst|core1_0.ImageUsageSampled, image.Usage())
	require.Equal(t, mgl32.Vec3{64, 32, 1}, image.Dimensions())
	require.Equal(t, rawimage.SharingExclusive{}, image.Sharing())
	require.Equal(t, rawimage.RegularChunk{Memory: memory, Offset: 512, Size: 10924}, image.Chunk())
	require.True(t, image.Owned())

	device.EXPECT().DestroyImage(handle).Times(1)
	image.Destroy()
	image.Destroy()
}

func TestNewImageOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	allocator := mocks.NewMockMemoryAllocator(ctrl)

	handle := rawimage.ImageHandle(5)

	device.EXPECT().CreateImage(core1_0.ImageCreateInfo{
		ImageType:          core1_0.ImageType3D,
		Format:             core1_0.FormatR32SignedFloat,
		Extent:             core1_0.Extent3D{Width: 16, Height: 16, Depth: 4},
		MipLevels:          2,
		ArrayLayers:        1,
		Samples:            core1_0.Samples4,
		Tiling:             core1_0.ImageTilingLinear,
		Usage:              core1_0.ImageUsageStorage,
		SharingMode:        core1_0.SharingModeConcurrent,
		QueueFamilyIndices: []uint32{0, 2},
		InitialLayout:      core1_0.ImageLayoutPreInitialized,
	}).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           4096,
		Alignment:      64,
		MemoryTypeBits: 0x1,
	})
	allocator.EXPECT().Allocate(4096, 64, uint32(0x1)).Return(rawimage.RegularChunk{Memory: 9, Size: 4096}, nil)
	device.EXPECT().BindImageMemory(handle, rawimage.MemoryHandle(9), 0).Return(core1_0.VKSuccess, nil)

	image, err := rawimage.New(nil, device, allocator, rawimage.CreateInfo{
		Usage:          rawimage.Usage{Storage: true},
		Format:         core1_0.FormatR32SignedFloat,
		Dimensions:     rawimage.Dim3D{Width: 16, Height: 16, Depth: 4},
		Samples:        4,
		Mipmaps:        rawimage.MipmapsSpecific(2),
		Sharing:        rawimage.SharingForFamilies(0, 2, 0),
		LinearTiling:   true,
		Preinitialized: true,
	})
	require.NoError(t, err)
	require.Equal(t, mgl32.Vec3{16, 16, 4}, image.Dimensions())
	require.Equal(t, 2, image.MipLevels())

	device.EXPECT().DestroyImage(handle)
	image.Destroy()
}

func TestNewImageCreateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	allocator := mocks.NewMockMemoryAllocator(ctrl)

	device.EXPECT().CreateImage(gomock.Any()).Return(rawimage.ImageHandle(0), core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())

	image, err := rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	require.Nil(t, image)
	require.ErrorIs(t, err, rawimage.ErrOutOfMemory)
}

func TestNewImageBindFailureReleasesHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	allocator := mocks.NewMockMemoryAllocator(ctrl)

	handle := rawimage.ImageHandle(23)

	device.EXPECT().CreateImage(gomock.Any()).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           10924,
		Alignment:      256,
		MemoryTypeBits: 0x3,
	})
	allocator.EXPECT().Allocate(10924, 256, uint32(0x3)).Return(rawimage.RegularChunk{Memory: 1}, nil)
	device.EXPECT().BindImageMemory(handle, rawimage.MemoryHandle(1), 0).Return(core1_0.VKErrorOutOfHostMemory, core1_0.VKErrorOutOfHostMemory.ToError())
	device.EXPECT().DestroyImage(handle).Times(1)

	image, err := rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	require.Nil(t, image)
	require.ErrorIs(t, err, rawimage.ErrOutOfMemory)

	var oom *rawimage.OomError
	require.True(t, errors.As(err, &oom))
	require.Equal(t, core1_0.VKErrorOutOfHostMemory, oom.Result)
}

func TestNewImageAllocatorFailureReleasesHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	handle := rawimage.ImageHandle(2)
	allocErr := errors.New("no suitable memory type")

	device.EXPECT().CreateImage(gomock.Any()).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           100,
		Alignment:      4,
		MemoryTypeBits: 0x1,
	})
	device.EXPECT().DestroyImage(handle).Times(1)

	allocator := rawimage.MemoryAllocatorFunc(func(size int, alignment int, memoryTypeBits uint32) (rawimage.MemoryChunk, error) {
		require.Equal(t, 100, size)
		require.Equal(t, 4, alignment)
		require.Equal(t, uint32(0x1), memoryTypeBits)
		return nil, allocErr
	})

	image, err := rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	require.Nil(t, image)
	require.ErrorIs(t, err, allocErr)
}

type freeingAllocator struct {
	rawimage.MemoryAllocatorFunc
	freed []rawimage.MemoryChunk
}

func (a *freeingAllocator) FreeChunk(chunk rawimage.MemoryChunk) error {
	a.freed = append(a.freed, chunk)
	return nil
}

func TestNewImageBindFailureReturnsChunk(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	handle := rawimage.ImageHandle(31)
	chunk := rawimage.RegularChunk{Memory: 6, Offset: 512, Size: 100}
	allocator := &freeingAllocator{
		MemoryAllocatorFunc: func(size int, alignment int, memoryTypeBits uint32) (rawimage.MemoryChunk, error) {
			return chunk, nil
		},
	}

	device.EXPECT().CreateImage(gomock.Any()).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           100,
		Alignment:      4,
		MemoryTypeBits: 0x1,
	})
	device.EXPECT().BindImageMemory(handle, rawimage.MemoryHandle(6), 512).Return(core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())
	device.EXPECT().DestroyImage(handle).Times(1)

	image, err := rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	require.Nil(t, image)
	require.ErrorIs(t, err, rawimage.ErrOutOfMemory)
	require.Equal(t, []rawimage.MemoryChunk{chunk}, allocator.freed)
}

func TestNewImageSuccessKeepsChunk(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	handle := rawimage.ImageHandle(32)
	allocator := &freeingAllocator{
		MemoryAllocatorFunc: func(size int, alignment int, memoryTypeBits uint32) (rawimage.MemoryChunk, error) {
			return rawimage.RegularChunk{Memory: 6, Size: size}, nil
		},
	}

	device.EXPECT().CreateImage(gomock.Any()).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           100,
		Alignment:      4,
		MemoryTypeBits: 0x1,
	})
	device.EXPECT().BindImageMemory(handle, rawimage.MemoryHandle(6), 0).Return(core1_0.VKSuccess, nil)
	device.EXPECT().DestroyImage(handle).Times(1)

	image, err := rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	require.NoError(t, err)
	require.Empty(t, allocator.freed)

	image.Destroy()
	require.Empty(t, allocator.freed)
}

func TestNewImageSparseChunkReturnedBeforePanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	handle := rawimage.ImageHandle(33)
	allocator := &freeingAllocator{
		MemoryAllocatorFunc: func(size int, alignment int, memoryTypeBits uint32) (rawimage.MemoryChunk, error) {
			return rawimage.SparseChunk{Memory: 4, Size: size}, nil
		},
	}

	device.EXPECT().CreateImage(gomock.Any()).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           100,
		Alignment:      4,
		MemoryTypeBits: 0x1,
	})
	device.EXPECT().DestroyImage(handle).Times(1)

	require.Panics(t, func() {
		_, _ = rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	})
	require.Equal(t, []rawimage.MemoryChunk{rawimage.SparseChunk{Memory: 4, Size: 100}}, allocator.freed)
}

func TestNewImageRejectsNilCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	allocator := mocks.NewMockMemoryAllocator(ctrl)

	assertionPanic := func(create func()) {
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			require.True(t, errors.HasAssertionFailure(err))
		}()
		create()
	}

	assertionPanic(func() {
		_, _ = rawimage.New(slog.Default(), nil, allocator, basicCreateInfo())
	})
	assertionPanic(func() {
		_, _ = rawimage.New(slog.Default(), device, nil, basicCreateInfo())
	})
}

func TestNewImageSparseChunkPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	allocator := mocks.NewMockMemoryAllocator(ctrl)

	handle := rawimage.ImageHandle(8)

	device.EXPECT().CreateImage(gomock.Any()).Return(handle, core1_0.VKSuccess, nil)
	device.EXPECT().ImageMemoryRequirements(handle).Return(&core1_0.MemoryRequirements{
		Size:           100,
		Alignment:      4,
		MemoryTypeBits: 0x1,
	})
	allocator.EXPECT().Allocate(100, 4, uint32(0x1)).Return(rawimage.SparseChunk{Memory: 4}, nil)
	// No BindImageMemory may happen, but the handle is still released on the way out
	device.EXPECT().BindImageMemory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	device.EXPECT().DestroyImage(handle).Times(1)

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)
		err, ok := recovered.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, rawimage.ErrUnsupportedChunk)
	}()

	_, _ = rawimage.New(slog.Default(), device, allocator, basicCreateInfo())
	t.Fatal("New should have panicked")
}

func TestNewImageRejectsCallerErrors(t *testing.T) {
	testCases := map[string]func(info *rawimage.CreateInfo){
		"ZeroSamples":        func(info *rawimage.CreateInfo) { info.Samples = 0 },
		"NonPow2Samples":     func(info *rawimage.CreateInfo) { info.Samples = 3 },
		"ZeroExtent":         func(info *rawimage.CreateInfo) { info.Dimensions = rawimage.Dim2D{Width: 0, Height: 4} },
		"TooManyMips":        func(info *rawimage.CreateInfo) { info.Mipmaps = rawimage.MipmapsSpecific(7) },
		"ZeroMips":           func(info *rawimage.CreateInfo) { info.Mipmaps = rawimage.MipmapsSpecific(0) },
		"OneConcurrentQueue": func(info *rawimage.CreateInfo) { info.Sharing = rawimage.SharingConcurrent{QueueFamilies: []uint32{1}} },
	}

	for testName, mutate := range testCases {
		t.Run(testName, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// Neither mock has expectations: nothing may reach the device or allocator
			device := mocks.NewMockDevice(ctrl)
			allocator := mocks.NewMockMemoryAllocator(ctrl)

			info := basicCreateInfo()
			mutate(&info)

			require.Panics(t, func() {
				_, _ = rawimage.New(slog.Default(), device, allocator, info)
			})
		})
	}
}

func TestFromRawUnownedNeverDestroys(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	device.EXPECT().DestroyImage(gomock.Any()).Times(0)

	image := rawimage.FromRawUnowned(slog.Default(), device, rawimage.ImageHandle(99), rawimage.UnownedInfo{
		Usage:      core1_0.ImageUsageColorAttachment,
		Format:     core1_0.FormatB8G8R8A8SRGB,
		Dimensions: rawimage.Dim2D{Width: 800, Height: 600},
		Samples:    1,
		MipLevels:  1,
	})

	require.False(t, image.Owned())
	require.Equal(t, rawimage.ImageHandle(99), image.Handle())
	require.Equal(t, mgl32.Vec3{800, 600, 1}, image.Dimensions())
	require.Equal(t, rawimage.SharingExclusive{}, image.Sharing())
	require.Nil(t, image.Chunk())

	image.Destroy()
	image.Destroy()
}

func TestImageRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	var empty rawimage.ImageRef
	_, ok := empty.Handle()
	require.False(t, ok)

	image := rawimage.FromRawUnowned(nil, device, rawimage.ImageHandle(4), rawimage.UnownedInfo{
		Dimensions: rawimage.Dim1D{Width: 16},
		Samples:    1,
		MipLevels:  1,
	})
	ref := image.Ref()

	handle, ok := ref.Handle()
	require.True(t, ok)
	require.Equal(t, rawimage.ImageHandle(4), handle)

	image.Destroy()

	_, ok = ref.Handle()
	require.False(t, ok)
}

func TestImagePrintParameters(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	image := rawimage.FromRawUnowned(nil, device, rawimage.ImageHandle(4), rawimage.UnownedInfo{
		Usage:      core1_0.ImageUsageSampled,
		Format:     core1_0.FormatR8G8B8A8SRGB,
		Dimensions: rawimage.Dim2DArray{Width: 32, Height: 16, ArrayLayers: 3},
		Samples:    1,
		MipLevels:  5,
	})

	writer := jwriter.NewWriter()
	obj := writer.Object()
	image.PrintParameters(&obj)
	obj.End()
	require.NoError(t, writer.Error())

	out := string(writer.Bytes())
	require.Contains(t, out, `"Id":"`+image.ID().String()+`"`)
	require.Contains(t, out, `"Dimensions":[`)
	require.Contains(t, out, `"MipLevels":5`)
	require.Contains(t, out, `"ArrayLayers":3`)
	require.Contains(t, out, `"Owned":false`)
}
