package vulkan

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// MemoryPreferences narrows down which memory type an allocator picks for a request
type MemoryPreferences struct {
	// RequiredFlags must all be present on the chosen memory type
	RequiredFlags core1_0.MemoryPropertyFlags
	// PreferredFlags should be present on the chosen memory type if possible
	PreferredFlags core1_0.MemoryPropertyFlags
	// NotPreferredFlags should be absent from the chosen memory type if possible
	NotPreferredFlags core1_0.MemoryPropertyFlags
}

// FindMemoryTypeIndex picks the memory type an allocator should allocate from for a request
// whose memory requirements allow memoryTypeBits. Types lacking a required flag never
// qualify; the remaining types are scored by cost and the cheapest one with the lowest index
// is returned.
func FindMemoryTypeIndex(properties *core1_0.PhysicalDeviceMemoryProperties, memoryTypeBits uint32, o MemoryPreferences) (int, error) {
	chosen := -1
	chosenCost := math.MaxInt

	for index, memoryType := range properties.MemoryTypes {
		if index >= 32 {
			break
		}
		if memoryTypeBits&(uint32(1)<<index) == 0 {
			continue
		}

		cost, ok := o.cost(memoryType.PropertyFlags)
		if !ok || cost >= chosenCost {
			continue
		}

		chosen, chosenCost = index, cost
		if cost == 0 {
			break
		}
	}

	if chosen < 0 {
		return -1, errors.Wrapf(core1_0.VKErrorFeatureNotPresent.ToError(),
			"no memory type in bits %#x has the required flags %s", memoryTypeBits, o.RequiredFlags)
	}

	return chosen, nil
}

// cost counts preferred flags a memory type lacks plus not-preferred flags it has. It
// returns false if the type lacks a required flag.
func (o MemoryPreferences) cost(flags core1_0.MemoryPropertyFlags) (int, bool) {
	if flags&o.RequiredFlags != o.RequiredFlags {
		return 0, false
	}

	missing := o.PreferredFlags &^ flags
	unwanted := o.NotPreferredFlags & flags
	return bits.OnesCount32(uint32(missing)) + bits.OnesCount32(uint32(unwanted)), true
}
