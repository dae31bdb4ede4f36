package vulkan

import "github.com/vkngwrapper/core/v2/common"

// CreateFlags adjust how a Device or one of the allocators in this package is built
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateExternallySynchronized turns off the locks around image and memory handle lookups.
	// Set on a Device, it also applies to every allocator built on that Device.
	CreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
}
