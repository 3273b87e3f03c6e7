package vkb

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Bootstrap failure kinds. All of them abort the sequence; only
// ErrMissingQueueFamilies is recovered from, and only inside the device
// selection loop where it demotes a single device instead of the whole
// bootstrap.
var (
	ErrUnsupportedValidationLayer = errors.New("validation layer requested but not supported")
	ErrNoPhysicalDevices          = errors.New("no physical devices with Vulkan support")
	ErrNoSuitableDevice           = errors.New("no suitable physical device")
	ErrMissingQueueFamilies       = errors.New("missing required queue families")
)

// ResultError reports a native call that the driver rejected.
type ResultError struct {
	Op   string
	Code vk.Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("vk.%s(): %s", e.Op, vk.Error(e.Code))
}

// SurfaceError reports a failed platform surface creation.
type SurfaceError struct {
	Err error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface creation failed: %s", e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// OrderError reports a bootstrap operation invoked out of sequence.
type OrderError struct {
	Op    string
	State State
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s called in state %s", e.Op, e.State)
}
