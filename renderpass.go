package vrtest

import (
	vk "github.com/vulkan-go/vulkan"
)

// AttachmentInfo describes one render pass attachment.
type AttachmentInfo struct {
	Format      vk.Format
	LoadOp      vk.AttachmentLoadOp
	StoreOp     vk.AttachmentStoreOp
	FinalLayout vk.ImageLayout
}

// RenderPassInfo is a single subpass pass with one color and one depth
// attachment.
type RenderPassInfo struct {
	Color        AttachmentInfo
	Depth        AttachmentInfo
	Dependencies []vk.SubpassDependency
}

// DefaultRenderPass clears and stores color for presentation and clears depth
// without storing it. The EXTERNAL to 0 dependency is always declared so the
// layout transition waits for the acquired image at color attachment output,
// and depth writes of consecutive frames stay ordered.
func DefaultRenderPass(color, depth vk.Format) RenderPassInfo {
	return RenderPassInfo{
		Color: AttachmentInfo{
			Format:      color,
			LoadOp:      vk.AttachmentLoadOpClear,
			StoreOp:     vk.AttachmentStoreOpStore,
			FinalLayout: vk.ImageLayoutPresentSrc,
		},
		Depth: AttachmentInfo{
			Format:      depth,
			LoadOp:      vk.AttachmentLoadOpClear,
			StoreOp:     vk.AttachmentStoreOpDontCare,
			FinalLayout: vk.ImageLayoutDepthStencilAttachmentOptimal,
		},
		Dependencies: []vk.SubpassDependency{
			{
				SrcSubpass:    vk.SubpassExternal,
				DstSubpass:    0,
				SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
				DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
				SrcAccessMask: 0,
				DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
			},
		},
	}
}

// Framebuffers holds one framebuffer per chain image, each binding the image
// view and the shared depth view.
type Framebuffers struct {
	list []Framebuffer
}

func NewFramebuffers(device Device, pass RenderPass, views []ImageView, depth ImageView, extent vk.Extent2D) (*Framebuffers, error) {
	f := &Framebuffers{list: make([]Framebuffer, 0, len(views))}
	for _, view := range views {
		fb, err := device.NewFramebuffer(pass, []ImageView{view, depth}, extent)
		if err != nil {
			f.Destroy()
			return nil, fatal("create framebuffer", err)
		}
		f.list = append(f.list, fb)
	}
	return f, nil
}

func (f *Framebuffers) Len() int { return len(f.list) }
func (f *Framebuffers) At(i int) Framebuffer { return f.list[i] }

func (f *Framebuffers) Destroy() {
	for i := len(f.list) - 1; i >= 0; i-- {
		f.list[i].Destroy()
	}
	f.list = nil
}
