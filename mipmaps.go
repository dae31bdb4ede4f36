package rawimage

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// Mipmaps requests a number of mip levels for a new image. It is implemented by
// MipmapsSpecific, MipmapsMax and MipmapsOne.
type Mipmaps interface {
	isMipmaps()
}

// MipmapsSpecific requests an exact number of mip levels. It must be between 1 and the
// maximum supported by the image's dimensions, inclusive.
type MipmapsSpecific int

type mipmapsMax struct{}
type mipmapsOne struct{}

var (
	// MipmapsMax requests the full mip chain down to a 1-texel smallest axis
	MipmapsMax Mipmaps = mipmapsMax{}
	// MipmapsOne requests a single mip level
	MipmapsOne Mipmaps = mipmapsOne{}
)

func (MipmapsSpecific) isMipmaps() {}
func (mipmapsMax) isMipmaps()      {}
func (mipmapsOne) isMipmaps()      {}

func maxMipLevels(smallest uint32) int {
	return 32 - bits.LeadingZeros32(smallest)
}

// MaxMipLevels returns the largest number of mip levels an image with the provided dimensions
// can have: floor(log2(s)) + 1, where s is the smallest extent among the axes the image type
// uses. Panics if the dimensions are malformed.
func MaxMipLevels(dimensions Dimensions) int {
	return maxMipLevels(resolveDimensions(dimensions).smallest)
}

// ResolveMipLevels converts a mip level request into a concrete mip level count for an image
// with the provided dimensions. A MipmapsSpecific request outside [1, MaxMipLevels] is a
// programming error and panics.
func ResolveMipLevels(mipmaps Mipmaps, dimensions Dimensions) int {
	return resolveMipLevels(mipmaps, resolveDimensions(dimensions).smallest)
}

func resolveMipLevels(mipmaps Mipmaps, smallest uint32) int {
	switch m := mipmaps.(type) {
	case MipmapsSpecific:
		levels := int(m)
		maxLevels := maxMipLevels(smallest)
		if levels < 1 {
			panic(errors.AssertionFailedf("requested %d mip levels, at least 1 is required", levels))
		}
		if levels > maxLevels {
			panic(errors.AssertionFailedf("requested %d mip levels, but the image only supports %d", levels, maxLevels))
		}
		return levels
	case mipmapsMax:
		return maxMipLevels(smallest)
	case mipmapsOne:
		return 1
	case nil:
		panic(errors.AssertionFailedf("mip level request must be provided"))
	}

	panic(errors.AssertionFailedf("unknown mip level request type %T", mipmaps))
}
