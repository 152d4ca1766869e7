package vrtest

// SurfaceProvider owns the native window. The core only needs a surface
// handle, the instance extensions the window system requires and a shutdown
// signal from it.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	// CreateSurface creates the window surface for the native instance handle.
	// Repeat calls return the cached handle.
	CreateSurface(instance interface{}) (uintptr, error)
	ShouldExit() bool
	PollEvents()
	Resolution() (width, height uint32)
}
