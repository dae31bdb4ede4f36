package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/rawimage"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

func allocationError(res common.VkResult, err error) error {
	if res == core1_0.VKErrorOutOfDeviceMemory || res == core1_0.VKErrorOutOfHostMemory {
		return &rawimage.OomError{Result: res}
	}

	if err == nil {
		err = res.ToError()
	}
	return errors.Wrap(err, "vkAllocateMemory failed")
}
