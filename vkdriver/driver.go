// Package vkdriver implements the vrtest driver interfaces on top of
// github.com/vulkan-go/vulkan.
package vkdriver

import (
	"unsafe"

	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Init loads the Vulkan loader through the window system's instance proc
// address. It must run on the main thread before OpenInstance.
func Init(procAddr unsafe.Pointer) error {
	if procAddr == nil {
		return errors.New("vulkan: nil vkGetInstanceProcAddr")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vulkan init")
	}
	return nil
}

// Backend opens vulkan-go instances.
type Backend struct {
	Log log.FieldLogger
}

func NewBackend(logger log.FieldLogger) *Backend {
	return &Backend{Log: logger}
}

var _ vrtest.Backend = (*Backend)(nil)
