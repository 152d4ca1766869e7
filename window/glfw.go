package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// GLFW is a fixed size GLFW window without a client API.
type GLFW struct {
	window  *glfw.Window
	surface uintptr
	width   uint32
	height  uint32
}

//NewGLFW must be called from the locked main thread
func NewGLFW(title string, width, height uint32) (*GLFW, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "glfw create window")
	}
	return &GLFW{window: window, width: width, height: height}, nil
}

func (g *GLFW) ProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

func (g *GLFW) RequiredInstanceExtensions() []string {
	return g.window.GetRequiredInstanceExtensions()
}

func (g *GLFW) CreateSurface(instance interface{}) (uintptr, error) {
	if g.surface != 0 {
		return g.surface, nil
	}
	surface, err := g.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return 0, errors.Wrap(err, "glfw create window surface")
	}
	g.surface = surface
	return surface, nil
}

func (g *GLFW) ShouldExit() bool {
	return g.window.ShouldClose()
}

func (g *GLFW) PollEvents() {
	glfw.PollEvents()
}

func (g *GLFW) Resolution() (uint32, uint32) {
	return g.width, g.height
}

func (g *GLFW) Destroy() {
	if g.window != nil {
		g.window.Destroy()
		g.window = nil
	}
	glfw.Terminate()
}
