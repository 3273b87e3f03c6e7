// Package gfx defines the backend-agnostic pieces of the rendering stack:
// the bootstrap contract a graphics backend must implement, the windowing
// collaborator it consumes, and the error type its failures surface as.
package gfx

import (
	"fmt"
	"unsafe"
)

// Backend is a hardware rendering context in the making. A backend starts
// out with only an API instance, gets bound to a window surface, and then
// builds a logical device with usable queues. The stages must run in that
// order and the host must call Destroy exactly once when the window is
// closing, no matter how far the bootstrap got.
type Backend interface {

	// BindSurface binds the instance to the presenter's window,
	// producing a presentable surface.
	BindSurface(Presenter) error

	// CreateDevice selects a capable physical device and creates the
	// logical device along with its graphics and present queues.
	CreateDevice() error

	// Destroy releases every handle the backend still owns, in reverse
	// creation order.
	Destroy()
}

// Presenter is the windowing side of the bootstrap. It knows which
// instance extensions its platform needs for presentation and how to
// produce a surface for a live instance.
type Presenter interface {

	// InstanceExtensions returns the platform's mandatory presentation
	// extension names.
	InstanceExtensions() []string

	// CreateSurface creates a platform surface against the given API
	// instance and returns the raw surface handle.
	CreateSurface(instance interface{}) (unsafe.Pointer, error)
}

// AdapterInfo describes one enumerated hardware adapter.
type AdapterInfo struct {
	Name          string
	ID            int
	VendorID      int
	APIVersion    uint32
	DriverVersion uint32
}

// Error identifies which backend a bootstrap failure came from.
type Error struct {
	Backend string
	Err     error
}

// NewError wraps err as a failure of the named backend.
func NewError(backend string, err error) *Error {
	return &Error{Backend: backend, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("Graphics Error (%s): %s", e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
