package vkdriver

import (
	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ShaderModule struct {
	device vk.Device
	handle vk.ShaderModule
}

func (d *Device) NewShaderModule(code []byte) (vrtest.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(d.handle, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create shader module")
	}
	return &ShaderModule{device: d.handle, handle: module}, nil
}

func (s *ShaderModule) Destroy() {
	if s.handle != vk.NullShaderModule {
		vk.DestroyShaderModule(s.device, s.handle, nil)
		s.handle = vk.NullShaderModule
	}
}

type RenderPass struct {
	device vk.Device
	handle vk.RenderPass
}

func attachmentDescription(info vrtest.AttachmentInfo) vk.AttachmentDescription {
	return vk.AttachmentDescription{
		Format:         info.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         info.LoadOp,
		StoreOp:        info.StoreOp,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    info.FinalLayout,
	}
}

//NewRenderPass builds one graphics subpass, attachment 0 is color and 1 is depth
func (d *Device) NewRenderPass(info vrtest.RenderPassInfo) (vrtest.RenderPass, error) {
	attachments := []vk.AttachmentDescription{
		attachmentDescription(info.Color),
		attachmentDescription(info.Depth),
	}
	colorRefs := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	depthRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpasses := []vk.SubpassDescription{{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       colorRefs,
		PDepthStencilAttachment: &depthRef,
	}}

	var pass vk.RenderPass
	ret := vk.CreateRenderPass(d.handle, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(info.Dependencies)),
		PDependencies:   info.Dependencies,
	}, nil, &pass)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create render pass")
	}
	return &RenderPass{device: d.handle, handle: pass}, nil
}

func (r *RenderPass) Destroy() {
	if r.handle != vk.NullRenderPass {
		vk.DestroyRenderPass(r.device, r.handle, nil)
		r.handle = vk.NullRenderPass
	}
}

func renderPassHandle(p vrtest.RenderPass) vk.RenderPass {
	if pass, ok := p.(*RenderPass); ok && pass != nil {
		return pass.handle
	}
	return vk.NullRenderPass
}

type Framebuffer struct {
	device vk.Device
	handle vk.Framebuffer
}

func (d *Device) NewFramebuffer(pass vrtest.RenderPass, views []vrtest.ImageView, extent vk.Extent2D) (vrtest.Framebuffer, error) {
	attachments, err := viewHandles(views)
	if err != nil {
		return nil, errors.Wrap(err, "create framebuffer")
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(d.handle, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPassHandle(pass),
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}, nil, &fb)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create framebuffer")
	}
	return &Framebuffer{device: d.handle, handle: fb}, nil
}

func (f *Framebuffer) Destroy() {
	if f.handle != vk.NullFramebuffer {
		vk.DestroyFramebuffer(f.device, f.handle, nil)
		f.handle = vk.NullFramebuffer
	}
}

// Pipeline owns the graphics pipeline and its empty layout.
type Pipeline struct {
	device vk.Device
	layout vk.PipelineLayout
	handle vk.Pipeline
}

func shaderStage(module vrtest.ShaderModule, stage vk.ShaderStageFlagBits) (vk.PipelineShaderStageCreateInfo, error) {
	m, ok := module.(*ShaderModule)
	if !ok || m == nil {
		return vk.PipelineShaderStageCreateInfo{}, errors.New("foreign shader module")
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: m.handle,
		PName:  safeString("main"),
	}, nil
}

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

func (d *Device) NewPipeline(info vrtest.PipelineInfo) (vrtest.Pipeline, error) {
	vert, err := shaderStage(info.Vertex, vk.ShaderStageVertexBit)
	if err != nil {
		return nil, errors.Wrap(err, "vertex stage")
	}
	frag, err := shaderStage(info.Fragment, vk.ShaderStageFragmentBit)
	if err != nil {
		return nil, errors.Wrap(err, "fragment stage")
	}

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(d.handle, &vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}, nil, &layout)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create pipeline layout")
	}

	attributes := make([]vk.VertexInputAttributeDescription, 0, len(info.Attributes))
	for _, a := range info.Attributes {
		attributes = append(attributes, vk.VertexInputAttributeDescription{
			Binding:  0,
			Location: a.Location,
			Format:   a.Format,
			Offset:   a.Offset,
		})
	}
	bindings := []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    info.VertexStride,
		InputRate: vk.VertexInputRateVertex,
	}}

	viewports := []vk.Viewport{{
		Width:    float32(info.Extent.Width),
		Height:   float32(info.Extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}}
	scissors := []vk.Rect2D{{Offset: vk.Offset2D{}, Extent: info.Extent}}

	blend := []vk.PipelineColorBlendAttachmentState{{
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
		BlendEnable:    vk.False,
	}}

	create := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: 2,
		PStages:    []vk.PipelineShaderStageCreateInfo{vert, frag},
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
			VertexAttributeDescriptionCount: uint32(len(attributes)),
			PVertexAttributeDescriptions:    attributes,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               info.Topology,
			PrimitiveRestartEnable: vk.False,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			PViewports:    viewports,
			ScissorCount:  1,
			PScissors:     scissors,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    info.CullMode,
			FrontFace:   info.FrontFace,
			LineWidth:   1.0,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			MinSampleShading:     1.0,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  bool32(info.DepthTest),
			DepthWriteEnable: bool32(info.DepthWrite),
			DepthCompareOp:   info.DepthCompare,
			MaxDepthBounds:   1.0,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			LogicOp:         vk.LogicOpCopy,
			AttachmentCount: 1,
			PAttachments:    blend,
		},
		Layout:     layout,
		RenderPass: renderPassHandle(info.Pass),
		Subpass:    0,
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret = vk.CreateGraphicsPipelines(d.handle, nil, 1, []vk.GraphicsPipelineCreateInfo{create}, nil, pipelines)
	if isError(ret) {
		vk.DestroyPipelineLayout(d.handle, layout, nil)
		return nil, errors.Wrap(newError(ret), "create graphics pipeline")
	}
	return &Pipeline{device: d.handle, layout: layout, handle: pipelines[0]}, nil
}

func (p *Pipeline) Destroy() {
	if p.handle != vk.NullPipeline {
		vk.DestroyPipeline(p.device, p.handle, nil)
		p.handle = vk.NullPipeline
	}
	if p.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(p.device, p.layout, nil)
		p.layout = vk.NullPipelineLayout
	}
}
