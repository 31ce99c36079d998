package buffers

import (
	"errors"

	"github.com/bloeys/nfbo/gpu"
)

var (
	ErrInvalidSpecification = errors.New("invalid framebuffer specification")
	ErrInvalidDimensions    = errors.New("framebuffer dimensions must be positive")
	ErrAllocationFailed     = errors.New("device returned no object")
	ErrBlitUnsupported      = errors.New("framebuffer blits are not supported by this device profile")
	ErrFboDeleted           = errors.New("framebuffer has been deleted")
)

// InvalidSpecificationError is returned when the device reports a framebuffer as incomplete.
// It matches ErrInvalidSpecification with errors.Is.
type InvalidSpecificationError struct {
	Status  gpu.Enum
	Message string
}

func (e *InvalidSpecificationError) Error() string {
	return e.Message
}

func (e *InvalidSpecificationError) Unwrap() error {
	return ErrInvalidSpecification
}

var statusMessages = map[gpu.Enum]string{
	gpu.FRAMEBUFFER_UNSUPPORTED:                   "Unsupported framebuffer format",
	gpu.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "Framebuffer incomplete: missing attachment",
	gpu.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "Framebuffer incomplete: incomplete attachment",
	gpu.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "Framebuffer incomplete: missing draw buffer",
	gpu.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "Framebuffer incomplete: missing read buffer",
	gpu.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:        "Framebuffer incomplete: not all attached images have the same number of samples",
	gpu.FRAMEBUFFER_INCOMPLETE_DIMENSIONS:         "Framebuffer incomplete: not all attached images have the same dimensions",
}

// statusError maps a completeness status to an error, nil when complete
func statusError(status gpu.Enum) error {

	if status == gpu.FRAMEBUFFER_COMPLETE {
		return nil
	}

	msg, ok := statusMessages[status]
	if !ok {
		msg = "Framebuffer invalid: unknown reason"
	}

	return &InvalidSpecificationError{
		Status:  status,
		Message: msg,
	}
}

// checkStatus validates the framebuffer bound to FRAMEBUFFER
func checkStatus(dev gpu.Device) error {
	return statusError(dev.CheckFramebufferStatus(gpu.FRAMEBUFFER))
}
