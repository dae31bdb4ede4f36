package rawimage

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Dimensions describes the shape of an image. It is implemented by Dim1D, Dim1DArray, Dim2D,
// Dim2DArray and Dim3D; no other implementations are possible.
//
// Every extent and layer count must be at least 1. Violating this is a programming error and
// panics when the Dimensions are used to create an image.
type Dimensions interface {
	isDimensions()
}

type Dim1D struct {
	Width uint32
}

type Dim1DArray struct {
	Width       uint32
	ArrayLayers uint32
}

type Dim2D struct {
	Width  uint32
	Height uint32
}

type Dim2DArray struct {
	Width       uint32
	Height      uint32
	ArrayLayers uint32
}

type Dim3D struct {
	Width  uint32
	Height uint32
	Depth  uint32
}

func (Dim1D) isDimensions()      {}
func (Dim1DArray) isDimensions() {}
func (Dim2D) isDimensions()      {}
func (Dim2DArray) isDimensions() {}
func (Dim3D) isDimensions()      {}

// imageShape is the native form of a Dimensions value
type imageShape struct {
	imageType   core1_0.ImageType
	extent      core1_0.Extent3D
	arrayLayers int
	size        mgl32.Vec3
	// smallest is the smallest extent that participates in mip level reduction
	smallest uint32
}

func resolveDimensions(dimensions Dimensions) imageShape {
	var width, height, depth, layers uint32
	var imageType core1_0.ImageType

	switch d := dimensions.(type) {
	case Dim1D:
		imageType, width, height, depth, layers = core1_0.ImageType1D, d.Width, 1, 1, 1
	case Dim1DArray:
		imageType, width, height, depth, layers = core1_0.ImageType1D, d.Width, 1, 1, d.ArrayLayers
	case Dim2D:
		imageType, width, height, depth, layers = core1_0.ImageType2D, d.Width, d.Height, 1, 1
	case Dim2DArray:
		imageType, width, height, depth, layers = core1_0.ImageType2D, d.Width, d.Height, 1, d.ArrayLayers
	case Dim3D:
		imageType, width, height, depth, layers = core1_0.ImageType3D, d.Width, d.Height, d.Depth, 1
	case nil:
		panic(errors.AssertionFailedf("image dimensions must be provided"))
	default:
		panic(errors.AssertionFailedf("unknown image dimensions type %T", dimensions))
	}

	if width == 0 || height == 0 || depth == 0 {
		panic(errors.AssertionFailedf("image dimensions %+v contain a 0 extent", dimensions))
	}
	if layers == 0 {
		panic(errors.AssertionFailedf("image dimensions %+v contain 0 array layers", dimensions))
	}

	// height and depth are 1 for the axes an image type doesn't use, so they never win
	smallest := width
	if imageType != core1_0.ImageType1D && height < smallest {
		smallest = height
	}
	if imageType == core1_0.ImageType3D && depth < smallest {
		smallest = depth
	}

	return imageShape{
		imageType: imageType,
		extent: core1_0.Extent3D{
			Width:  int(width),
			Height: int(height),
			Depth:  int(depth),
		},
		arrayLayers: int(layers),
		size:        mgl32.Vec3{float32(width), float32(height), float32(depth)},
		smallest:    smallest,
	}
}
