package rawimage

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

var (
	// ErrOutOfMemory matches every *OomError through errors.Is
	ErrOutOfMemory = errors.New("out of memory")
	// ErrUnsupportedChunk is carried by the panic raised when a MemoryAllocator returns a chunk
	// kind that cannot be bound to an image
	ErrUnsupportedChunk = errors.New("unsupported memory chunk")
)

// OomError is returned when the device runs out of host or device memory while creating an
// image or binding memory to it. No image is left alive when it is returned.
type OomError struct {
	Result common.VkResult
}

func (e *OomError) Error() string {
	return fmt.Sprintf("out of memory: %s", e.Result.String())
}

func (e *OomError) Is(target error) bool {
	return target == ErrOutOfMemory
}

// checkResult turns a device result into this package's error taxonomy. Out of memory results
// become *OomError, device loss panics, and anything else is wrapped with the operation name.
func checkResult(operation string, res common.VkResult, err error) error {
	switch res {
	case core1_0.VKSuccess:
		return err
	case core1_0.VKErrorOutOfHostMemory, core1_0.VKErrorOutOfDeviceMemory:
		return &OomError{Result: res}
	case core1_0.VKErrorDeviceLost:
		panic(errors.Wrapf(res.ToError(), "%s", operation))
	}

	if err == nil {
		err = res.ToError()
	}
	return errors.Wrapf(err, "%s failed", operation)
}
