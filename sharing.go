package rawimage

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// SharingMode describes which queue families may access an image. It is implemented by
// SharingExclusive and SharingConcurrent.
type SharingMode interface {
	isSharingMode()
}

// SharingExclusive restricts the image to one queue family at a time. Ownership transfers
// between families are the caller's responsibility.
type SharingExclusive struct{}

// SharingConcurrent allows the listed queue families to access the image concurrently. At
// least two families must be listed.
type SharingConcurrent struct {
	QueueFamilies []uint32
}

func (SharingExclusive) isSharingMode()  {}
func (SharingConcurrent) isSharingMode() {}

// SharingForFamilies chooses a sharing mode for an image that will be used from the provided
// queue families. Duplicates are collapsed: if only one distinct family remains, the image is
// exclusive, otherwise it is concurrent across the distinct families in the order they first
// appear.
func SharingForFamilies(families ...uint32) SharingMode {
	distinct := make([]uint32, 0, len(families))
	for _, family := range families {
		seen := false
		for _, existing := range distinct {
			if existing == family {
				seen = true
				break
			}
		}
		if !seen {
			distinct = append(distinct, family)
		}
	}

	if len(distinct) <= 1 {
		return SharingExclusive{}
	}

	return SharingConcurrent{QueueFamilies: distinct}
}

func applySharing(sharing SharingMode, info *core1_0.ImageCreateInfo) {
	switch s := sharing.(type) {
	case SharingExclusive, nil:
		info.SharingMode = core1_0.SharingModeExclusive
		info.QueueFamilyIndices = nil
	case SharingConcurrent:
		if len(s.QueueFamilies) < 2 {
			panic(errors.AssertionFailedf("concurrent sharing requires at least 2 queue families, but %d were provided", len(s.QueueFamilies)))
		}
		info.SharingMode = core1_0.SharingModeConcurrent
		info.QueueFamilyIndices = append([]uint32(nil), s.QueueFamilies...)
	default:
		panic(errors.AssertionFailedf("unknown sharing mode type %T", sharing))
	}
}
