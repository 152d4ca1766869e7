package vrtest

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

//Driver objects are opaque to the core. Everything the frame loop needs from the
//GPU goes through these interfaces so the protocol can be driven by any backend.
//The vkdriver package is the vulkan-go implementation.

// Destroyer is implemented by every driver object that owns GPU state.
type Destroyer interface {
	Destroy()
}

// Backend opens driver instances.
type Backend interface {
	OpenInstance(info InstanceInfo) (Instance, error)
}

// InstanceInfo describes the instance to create.
type InstanceInfo struct {
	AppName    string
	EngineName string
	Extensions []string
	Layers     []string
	//Debug registers a validation report callback routed to the logger
	Debug bool
}

type Instance interface {
	Destroyer
	// Handle returns the native instance handle given to surface providers.
	Handle() interface{}
	// WrapSurface adopts a native surface created against Handle.
	WrapSurface(ptr uintptr) (Surface, error)
	// Adapters enumerates the physical devices in driver order.
	Adapters() ([]Adapter, error)
}

type Surface interface {
	Destroyer
}

// AdapterProperties are the identifying properties of a physical device.
type AdapterProperties struct {
	Name          string
	Type          vk.PhysicalDeviceType
	APIVersion    uint32
	DriverVersion uint32
}

type QueueFamily struct {
	Flags vk.QueueFlags
	Count uint32
}

type MemoryType struct {
	Flags vk.MemoryPropertyFlags
	Heap  uint32
}

// SurfaceCapabilities mirrors the surface limits reported for an adapter.
type SurfaceCapabilities struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           vk.Extent2D
	MinExtent               vk.Extent2D
	MaxExtent               vk.Extent2D
	SupportedTransforms     vk.SurfaceTransformFlags
	CurrentTransform        vk.SurfaceTransformFlagBits
	SupportedCompositeAlpha vk.CompositeAlphaFlags
}

type SurfaceFormat struct {
	Format     vk.Format
	ColorSpace vk.ColorSpace
}

// Adapter is a physical GPU candidate. Query results are immutable once read.
type Adapter interface {
	Properties() AdapterProperties
	Extensions() ([]string, error)
	QueueFamilies() []QueueFamily
	SurfaceSupport(family uint32, surface Surface) (bool, error)
	MemoryTypes() []MemoryType
	// FormatFeatures reports the optimal tiling features of format.
	FormatFeatures(format vk.Format) vk.FormatFeatureFlags
	SurfaceCapabilities(surface Surface) (SurfaceCapabilities, error)
	SurfaceFormats(surface Surface) ([]SurfaceFormat, error)
	PresentModes(surface Surface) ([]vk.PresentMode, error)
	CreateDevice(queues []QueueRequest, extensions []string) (Device, error)
}

// QueueRequest asks for a single queue from a family.
type QueueRequest struct {
	Family   uint32
	Priority float32
}

type Device interface {
	Destroyer
	// Queue returns queue 0 of a family requested at device creation.
	Queue(family uint32) Queue
	WaitIdle() error
	NewSemaphore() (Semaphore, error)
	NewFence(signaled bool) (Fence, error)
	NewSwapchain(info SwapchainInfo) (Swapchain, error)
	NewImage(info ImageInfo) (Image, error)
	NewImageView(info ImageViewInfo) (ImageView, error)
	NewBuffer(size uint64, usage vk.BufferUsageFlags) (Buffer, error)
	AllocateMemory(size uint64, typeIndex uint32) (Memory, error)
	NewShaderModule(code []byte) (ShaderModule, error)
	NewRenderPass(info RenderPassInfo) (RenderPass, error)
	NewFramebuffer(pass RenderPass, views []ImageView, extent vk.Extent2D) (Framebuffer, error)
	NewPipeline(info PipelineInfo) (Pipeline, error)
	NewCommandPool(family uint32) (CommandPool, error)
}

type Queue interface {
	Submit(s Submission) error
	Present(swapchain Swapchain, image uint32, wait Semaphore) error
}

// Submission is one command buffer with its single wait and signal pairing.
type Submission struct {
	Commands  CommandBuffer
	Wait      Semaphore
	WaitStage vk.PipelineStageFlags
	Signal    Semaphore
	Fence     Fence
}

type Semaphore interface {
	Destroyer
}

type Fence interface {
	Destroyer
	// Wait returns ErrTimeout if the fence is still unsignaled after timeout.
	Wait(timeout time.Duration) error
	Reset() error
}

// SwapchainInfo carries the derived chain parameters.
type SwapchainInfo struct {
	Surface        Surface
	MinImageCount  uint32
	Format         SurfaceFormat
	Extent         vk.Extent2D
	Transform      vk.SurfaceTransformFlagBits
	CompositeAlpha vk.CompositeAlphaFlagBits
	PresentMode    vk.PresentMode
	Sharing        vk.SharingMode
	QueueFamilies  []uint32
}

type Swapchain interface {
	Destroyer
	// Images returns the chain images. Destroying them is a no-op.
	Images() ([]Image, error)
	// AcquireNext returns ErrNotReady when no image is available within timeout.
	AcquireNext(timeout time.Duration, signal Semaphore) (uint32, error)
}

type ImageInfo struct {
	Format vk.Format
	Extent vk.Extent2D
	Usage  vk.ImageUsageFlags
}

type ImageViewInfo struct {
	Image  Image
	Format vk.Format
	Aspect vk.ImageAspectFlags
}

type MemoryRequirements struct {
	Size      uint64
	Alignment uint64
	TypeBits  uint32
}

type Image interface {
	Destroyer
	MemoryRequirements() MemoryRequirements
	Bind(memory Memory) error
}

type Buffer interface {
	Destroyer
	MemoryRequirements() MemoryRequirements
	Bind(memory Memory) error
}

type Memory interface {
	Destroyer
	// Write copies data into host visible memory at offset.
	Write(offset uint64, data []byte) error
}

type ImageView interface{ Destroyer }
type ShaderModule interface{ Destroyer }
type RenderPass interface{ Destroyer }
type Framebuffer interface{ Destroyer }
type Pipeline interface{ Destroyer }

type CommandPool interface {
	Destroyer
	Allocate(count int) ([]CommandBuffer, error)
}

// ClearValues are the per frame attachment clears.
type ClearValues struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

type CommandBuffer interface {
	Begin() error
	BeginRenderPass(pass RenderPass, framebuffer Framebuffer, area vk.Rect2D, clear ClearValues)
	BindPipeline(pipeline Pipeline)
	BindVertexBuffer(buffer Buffer)
	Draw(vertexCount uint32)
	EndRenderPass()
	End() error
}
