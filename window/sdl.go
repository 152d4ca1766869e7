package window

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL is an SDL2 Vulkan window. Escape or a quit event request exit.
type SDL struct {
	window  *sdl.Window
	surface uintptr
	width   uint32
	height  uint32
	exit    bool
}

func NewSDL(title string, width, height uint32) (*SDL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl init")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl load vulkan library")
	}
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(width),
		int32(height),
		sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl create window")
	}
	return &SDL{window: window, width: width, height: height}, nil
}

func (s *SDL) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (s *SDL) RequiredInstanceExtensions() []string {
	return s.window.VulkanGetInstanceExtensions()
}

func (s *SDL) CreateSurface(instance interface{}) (uintptr, error) {
	if s.surface != 0 {
		return s.surface, nil
	}
	surface, err := s.window.VulkanCreateSurface(instance)
	if err != nil {
		return 0, errors.Wrap(err, "sdl create vulkan surface")
	}
	s.surface = uintptr(surface)
	return s.surface, nil
}

func (s *SDL) ShouldExit() bool {
	return s.exit
}

func (s *SDL) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				s.exit = true
			}
		case *sdl.QuitEvent:
			s.exit = true
		}
	}
}

func (s *SDL) Resolution() (uint32, uint32) {
	return s.width, s.height
}

func (s *SDL) Destroy() {
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}
