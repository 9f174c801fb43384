package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Backend name constants.
const (
	// NameWGPU is the gogpu/wgpu HAL backend, registered by importing
	// github.com/gogpu/tri/backend/wgpu.
	NameWGPU = "wgpu"
	// NameRecorder is the headless backend that records device calls.
	NameRecorder = "recorder"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	backendPriority = []string{NameWGPU, NameRecorder}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens a device from the named backend.
func Open(name string, width, height int) (Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, err := factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// OpenDefault opens the best available backend based on priority, falling
// back to any other registered backend. It returns the backend name with
// the device; the errors of every backend that failed are joined.
func OpenDefault(width, height int) (Device, string, error) {
	registryMu.RLock()
	names := slices.Clone(backendPriority)
	for name := range factories {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	registryMu.RUnlock()

	var errs []error
	for _, name := range names {
		if !IsRegistered(name) {
			continue
		}
		dev, err := Open(name, width, height)
		if err == nil {
			return dev, name, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", ErrBackendNotAvailable
	}
	return nil, "", errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}
