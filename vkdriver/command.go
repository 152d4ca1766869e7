package vkdriver

import (
	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type CommandPool struct {
	device vk.Device
	handle vk.CommandPool
}

func (d *Device) NewCommandPool(family uint32) (vrtest.CommandPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(d.handle, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
	}, nil, &pool)
	if isError(ret) {
		return nil, errors.Wrapf(newError(ret), "create command pool on family %d", family)
	}
	return &CommandPool{device: d.handle, handle: pool}, nil
}

// Allocate returns count primary command buffers. They are freed with the pool.
func (p *CommandPool) Allocate(count int) ([]vrtest.CommandBuffer, error) {
	if count <= 0 {
		return nil, errors.Errorf("allocate %d command buffers", count)
	}
	handles := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(p.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.handle,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}, handles)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "allocate command buffers")
	}

	buffers := make([]vrtest.CommandBuffer, 0, count)
	for _, handle := range handles {
		buffers = append(buffers, &CommandBuffer{handle: handle})
	}
	return buffers, nil
}

func (p *CommandPool) Destroy() {
	if p.handle != vk.NullCommandPool {
		vk.DestroyCommandPool(p.device, p.handle, nil)
		p.handle = vk.NullCommandPool
	}
}

//CommandBuffer records once and is resubmitted every frame, so no one time
//submit flag is set
type CommandBuffer struct {
	handle vk.CommandBuffer
}

func commandHandle(c vrtest.CommandBuffer) vk.CommandBuffer {
	if cmd, ok := c.(*CommandBuffer); ok && cmd != nil {
		return cmd.handle
	}
	return nil
}

func (c *CommandBuffer) Begin() error {
	ret := vk.BeginCommandBuffer(c.handle, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})
	return newError(ret)
}

func (c *CommandBuffer) BeginRenderPass(pass vrtest.RenderPass, framebuffer vrtest.Framebuffer, area vk.Rect2D, clear vrtest.ClearValues) {
	clearValues := []vk.ClearValue{
		vk.NewClearValue(clear.Color[:]),
		vk.NewClearDepthStencil(clear.Depth, clear.Stencil),
	}
	fb := vk.NullFramebuffer
	if f, ok := framebuffer.(*Framebuffer); ok && f != nil {
		fb = f.handle
	}
	vk.CmdBeginRenderPass(c.handle, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      renderPassHandle(pass),
		Framebuffer:     fb,
		RenderArea:      area,
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)
}

func (c *CommandBuffer) BindPipeline(pipeline vrtest.Pipeline) {
	if p, ok := pipeline.(*Pipeline); ok && p != nil {
		vk.CmdBindPipeline(c.handle, vk.PipelineBindPointGraphics, p.handle)
	}
}

func (c *CommandBuffer) BindVertexBuffer(buffer vrtest.Buffer) {
	if b, ok := buffer.(*Buffer); ok && b != nil {
		vk.CmdBindVertexBuffers(c.handle, 0, 1, []vk.Buffer{b.handle}, []vk.DeviceSize{0})
	}
}

func (c *CommandBuffer) Draw(vertexCount uint32) {
	vk.CmdDraw(c.handle, vertexCount, 1, 0, 0)
}

func (c *CommandBuffer) EndRenderPass() {
	vk.CmdEndRenderPass(c.handle)
}

func (c *CommandBuffer) End() error {
	return newError(vk.EndCommandBuffer(c.handle))
}
