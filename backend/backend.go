package backend

import (
	"errors"

	"github.com/gogpu/tri/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Device is an opened graphics device: the render.Device the compositor
// drives, the texture factory image registries upload through, and Close.
type Device interface {
	render.Device
	render.TextureFactory

	// Close releases the device. It must not be used afterwards.
	Close() error
}

// Factory opens a device whose color target is width x height pixels.
type Factory func(width, height int) (Device, error)
