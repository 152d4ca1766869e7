package vkdriver

import (
	"time"

	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Swapchain struct {
	device vk.Device
	handle vk.Swapchain
	format vk.Format
}

func (d *Device) NewSwapchain(info vrtest.SwapchainInfo) (vrtest.Swapchain, error) {
	var swapchain vk.Swapchain
	ret := vk.CreateSwapchain(d.handle, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surfaceHandle(info.Surface),
		MinImageCount:         info.MinImageCount,
		ImageFormat:           info.Format.Format,
		ImageColorSpace:       info.Format.ColorSpace,
		ImageExtent:           info.Extent,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:          info.Transform,
		CompositeAlpha:        info.CompositeAlpha,
		ImageArrayLayers:      1,
		ImageSharingMode:      info.Sharing,
		QueueFamilyIndexCount: uint32(len(info.QueueFamilies)),
		PQueueFamilyIndices:   info.QueueFamilies,
		PresentMode:           info.PresentMode,
		OldSwapchain:          vk.NullSwapchain,
		Clipped:               vk.True,
	}, nil, &swapchain)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create swapchain")
	}
	return &Swapchain{device: d.handle, handle: swapchain, format: info.Format.Format}, nil
}

// Images returns the presentable images owned by the swapchain.
func (s *Swapchain) Images() ([]vrtest.Image, error) {
	var count uint32
	ret := vk.GetSwapchainImages(s.device, s.handle, &count, nil)
	if isError(ret) {
		return nil, newError(ret)
	}
	handles := make([]vk.Image, count)
	ret = vk.GetSwapchainImages(s.device, s.handle, &count, handles)
	if isError(ret) {
		return nil, newError(ret)
	}

	images := make([]vrtest.Image, 0, count)
	for _, handle := range handles[:count] {
		images = append(images, &Image{device: s.device, handle: handle, borrowed: true})
	}
	return images, nil
}

//AcquireNext never blocks past timeout. SUBOPTIMAL still hands out a usable
//image and signals the semaphore so it counts as success.
func (s *Swapchain) AcquireNext(timeout time.Duration, signal vrtest.Semaphore) (uint32, error) {
	if timeout < 0 {
		timeout = 0
	}
	var index uint32
	ret := vk.AcquireNextImage(s.device, s.handle, uint64(timeout.Nanoseconds()), semaphoreHandle(signal), vk.NullFence, &index)
	switch ret {
	case vk.Success, vk.Suboptimal:
		return index, nil
	case vk.NotReady, vk.Timeout:
		return 0, vrtest.ErrNotReady
	}
	return 0, errors.Wrap(newError(ret), "acquire next image")
}

func (s *Swapchain) Destroy() {
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.device, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}
