package vkdriver

import (
	"time"

	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Device is a logical device with one queue per requested family.
type Device struct {
	handle vk.Device
	gpu    vk.PhysicalDevice
	queues map[uint32]*Queue
	log    log.FieldLogger
}

var _ vrtest.Device = (*Device)(nil)

func (d *Device) Queue(family uint32) vrtest.Queue {
	q, ok := d.queues[family]
	if !ok {
		return nil
	}
	return q
}

func (d *Device) WaitIdle() error {
	return newError(vk.DeviceWaitIdle(d.handle))
}

func (d *Device) NewSemaphore() (vrtest.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(d.handle, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		Flags: vk.SemaphoreCreateFlags(0x00000000),
	}, nil, &sem)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &Semaphore{device: d.handle, handle: sem}, nil
}

func (d *Device) NewFence(signaled bool) (vrtest.Fence, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	ret := vk.CreateFence(d.handle, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &fence)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &Fence{device: d.handle, handle: fence}, nil
}

func (d *Device) Destroy() {
	if d.handle == nil {
		return
	}
	vk.DestroyDevice(d.handle, nil)
	d.handle = nil
	d.queues = nil
}

// Queue submits and presents on a single device queue.
type Queue struct {
	handle vk.Queue
	family uint32
}

func (q *Queue) Submit(s vrtest.Submission) error {
	info := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{commandHandle(s.Commands)},
	}
	if s.Wait != nil {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{semaphoreHandle(s.Wait)}
		info.PWaitDstStageMask = []vk.PipelineStageFlags{s.WaitStage}
	}
	if s.Signal != nil {
		info.SignalSemaphoreCount = 1
		info.PSignalSemaphores = []vk.Semaphore{semaphoreHandle(s.Signal)}
	}

	fence := vk.NullFence
	if f, ok := s.Fence.(*Fence); ok && f != nil {
		fence = f.handle
	}
	ret := vk.QueueSubmit(q.handle, 1, []vk.SubmitInfo{info}, fence)
	if isError(ret) {
		return errors.Wrapf(newError(ret), "queue submit on family %d", q.family)
	}
	return nil
}

//Present queues image for display after wait. SUBOPTIMAL is accepted, the
//chain keeps presenting until it is rebuilt.
func (q *Queue) Present(swapchain vrtest.Swapchain, image uint32, wait vrtest.Semaphore) error {
	sc, ok := swapchain.(*Swapchain)
	if !ok || sc == nil {
		return errors.New("present: foreign swapchain")
	}
	info := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{sc.handle},
		PImageIndices:  []uint32{image},
	}
	if wait != nil {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{semaphoreHandle(wait)}
	}

	ret := vk.QueuePresent(q.handle, &info)
	if ret == vk.Success || ret == vk.Suboptimal {
		return nil
	}
	return errors.Wrapf(newError(ret), "queue present image %d", image)
}

type Semaphore struct {
	device vk.Device
	handle vk.Semaphore
}

func (s *Semaphore) Destroy() {
	if s.handle != vk.NullSemaphore {
		vk.DestroySemaphore(s.device, s.handle, nil)
		s.handle = vk.NullSemaphore
	}
}

func semaphoreHandle(s vrtest.Semaphore) vk.Semaphore {
	if sem, ok := s.(*Semaphore); ok && sem != nil {
		return sem.handle
	}
	return vk.NullSemaphore
}

type Fence struct {
	device vk.Device
	handle vk.Fence
}

// Wait blocks until the fence is signaled or timeout elapses.
func (f *Fence) Wait(timeout time.Duration) error {
	if timeout < 0 {
		timeout = 0
	}
	ret := vk.WaitForFences(f.device, 1, []vk.Fence{f.handle}, vk.True, uint64(timeout.Nanoseconds()))
	return newError(ret)
}

func (f *Fence) Reset() error {
	return newError(vk.ResetFences(f.device, 1, []vk.Fence{f.handle}))
}

func (f *Fence) Destroy() {
	if f.handle != vk.NullFence {
		vk.DestroyFence(f.device, f.handle, nil)
		f.handle = vk.NullFence
	}
}
