package vrtest

import (
	vk "github.com/vulkan-go/vulkan"
)

// VertexAttribute is one attribute of the single interleaved vertex binding.
type VertexAttribute struct {
	Location uint32
	Format   vk.Format
	Offset   uint32
}

// PipelineInfo is the fixed graphics state of the demo pipeline. It is data
// handed to the backend, nothing in it changes per frame.
type PipelineInfo struct {
	Vertex       ShaderModule
	Fragment     ShaderModule
	Pass         RenderPass
	Extent       vk.Extent2D
	VertexStride uint32
	Attributes   []VertexAttribute
	Topology     vk.PrimitiveTopology
	CullMode     vk.CullModeFlags
	FrontFace    vk.FrontFace
	DepthTest    bool
	DepthWrite   bool
	DepthCompare vk.CompareOp
}

//Default pipeline: interleaved vec3 position and color, back face culling with
//clockwise front faces and a LESS depth test. Viewport and scissor cover extent.
func DefaultPipeline(vert, frag ShaderModule, pass RenderPass, extent vk.Extent2D) PipelineInfo {
	return PipelineInfo{
		Vertex:       vert,
		Fragment:     frag,
		Pass:         pass,
		Extent:       extent,
		VertexStride: VertexStride,
		Attributes: []VertexAttribute{
			{Location: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
			{Location: 1, Format: vk.FormatR32g32b32Sfloat, Offset: 12},
		},
		Topology:     vk.PrimitiveTopologyTriangleList,
		CullMode:     vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:    vk.FrontFaceClockwise,
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: vk.CompareOpLess,
	}
}
