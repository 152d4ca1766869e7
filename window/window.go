// Package window provides the native windows that back a vrtest.SurfaceProvider.
package window

import (
	"unsafe"

	"github.com/andewx/vrtest"
)

// Window is a surface provider that also hands out the loader entry point
// needed before any Vulkan call.
type Window interface {
	vrtest.SurfaceProvider
	ProcAddr() unsafe.Pointer
	Destroy()
}

// Open creates the window named by kind, one of vrtest.WindowGLFW or
// vrtest.WindowSDL.
func Open(kind, title string, width, height uint32) (Window, error) {
	switch kind {
	case vrtest.WindowSDL:
		return NewSDL(title, width, height)
	default:
		return NewGLFW(title, width, height)
	}
}
