package display

import "sync"

// Factory creates a Surface for the given layer geometry.
type Factory func(Geometry) (Surface, error)

// Surface name constants.
const (
	// SurfaceSoftware is the in-memory surface, always available.
	SurfaceSoftware = "software"
	// SurfaceWGPU is the GPU-backed layer surface (wgpu subpackage).
	SurfaceWGPU = "wgpu"
)

var (
	registryMu sync.RWMutex
	surfaces   = make(map[string]Factory)
	// Priority order for surface selection (first available wins).
	priority = []string{SurfaceWGPU, SurfaceSoftware}
)

// Register registers a surface factory under the given name. This is
// typically called from init functions in surface packages. Registering
// the same name again replaces the previous factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	surfaces[name] = factory
}

// Unregister removes a surface factory. Useful for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(surfaces, name)
}

// Available returns the names of all registered surface factories.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(surfaces))
	for name := range surfaces {
		names = append(names, name)
	}
	return names
}

// Get returns the factory registered under name, or nil.
func Get(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return surfaces[name]
}

// Open creates a surface using the best available factory based on
// priority order. Returns ErrNotAvailable when no registered factory
// can service the geometry.
func Open(geom Geometry) (Surface, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	var lastErr error
	for _, name := range priority {
		factory, ok := surfaces[name]
		if !ok {
			continue
		}
		s, err := factory(geom)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNotAvailable
}
