package rawimage

import "github.com/vkngwrapper/core/v2/core1_0"

// Usage describes how an image is going to be used. This is not an optimization: using an
// image in a way that was not declared here is undefined behavior, and nothing in this package
// will catch it for you.
//
// The zero value declares no usage at all, so sparse usages are most easily written as a
// literal:
//
//	usage := rawimage.Usage{
//		TransferDestination: true,
//		Sampled:             true,
//	}
type Usage struct {
	TransferSource         bool
	TransferDestination    bool
	Sampled                bool
	Storage                bool
	ColorAttachment        bool
	DepthStencilAttachment bool
	TransientAttachment    bool
	InputAttachment        bool
}

// AllUsage builds a Usage with every intent declared. Useful for quick prototyping.
func AllUsage() Usage {
	return Usage{
		TransferSource:         true,
		TransferDestination:    true,
		Sampled:                true,
		Storage:                true,
		ColorAttachment:        true,
		DepthStencilAttachment: true,
		TransientAttachment:    true,
		InputAttachment:        true,
	}
}

// NoUsage builds a Usage with no intents declared. It is identical to the zero value.
func NoUsage() Usage {
	return Usage{}
}

// Flags packs the usage into the native image usage bitmask
func (u Usage) Flags() core1_0.ImageUsageFlags {
	var flags core1_0.ImageUsageFlags
	if u.TransferSource {
		flags |= core1_0.ImageUsageTransferSrc
	}
	if u.TransferDestination {
		flags |= core1_0.ImageUsageTransferDst
	}
	if u.Sampled {
		flags |= core1_0.ImageUsageSampled
	}
	if u.Storage {
		flags |= core1_0.ImageUsageStorage
	}
	if u.ColorAttachment {
		flags |= core1_0.ImageUsageColorAttachment
	}
	if u.DepthStencilAttachment {
		flags |= core1_0.ImageUsageDepthStencilAttachment
	}
	if u.TransientAttachment {
		flags |= core1_0.ImageUsageTransientAttachment
	}
	if u.InputAttachment {
		flags |= core1_0.ImageUsageInputAttachment
	}
	return flags
}

// UsageFromFlags unpacks a native image usage bitmask. Bits that do not correspond to one of
// the eight core usages are ignored.
func UsageFromFlags(flags core1_0.ImageUsageFlags) Usage {
	return Usage{
		TransferSource:         flags&core1_0.ImageUsageTransferSrc != 0,
		TransferDestination:    flags&core1_0.ImageUsageTransferDst != 0,
		Sampled:                flags&core1_0.ImageUsageSampled != 0,
		Storage:                flags&core1_0.ImageUsageStorage != 0,
		ColorAttachment:        flags&core1_0.ImageUsageColorAttachment != 0,
		DepthStencilAttachment: flags&core1_0.ImageUsageDepthStencilAttachment != 0,
		TransientAttachment:    flags&core1_0.ImageUsageTransientAttachment != 0,
		InputAttachment:        flags&core1_0.ImageUsageInputAttachment != 0,
	}
}

func (u Usage) String() string {
	return u.Flags().String()
}
