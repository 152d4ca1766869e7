package vrtest

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

//Bounded wait on a frame fence before the frame is skipped
const DefaultFenceTimeout = time.Millisecond

// FrameStatus is the outcome of one DrawFrame call.
type FrameStatus int

const (
	// FramePresented means the frame was submitted and queued for display.
	FramePresented FrameStatus = iota
	// FrameNotReady means the display engine had no image, nothing happened.
	FrameNotReady
	// FrameInFlight means the acquired image is still being rendered by an
	// earlier submission. The image is held and retried next call.
	FrameInFlight
	// FrameFailed accompanies a fatal error.
	FrameFailed
)

func (s FrameStatus) String() string {
	switch s {
	case FramePresented:
		return "presented"
	case FrameNotReady:
		return "not-ready"
	case FrameInFlight:
		return "in-flight"
	default:
		return "failed"
	}
}

// FrameStats counts DrawFrame outcomes.
type FrameStats struct {
	Presented uint64
	NotReady  uint64
	InFlight  uint64
}

//Clear values recorded into every frame
var frameClear = ClearValues{
	Color:   [4]float32{0, 0, 0, 1},
	Depth:   1.0,
	Stencil: 0,
}

// FrameSubmitter owns one prerecorded command buffer and one fence per chain
// image and runs the acquire, wait, submit, present protocol.
type FrameSubmitter struct {
	device        Device
	chain         *ImageChain
	graphics      Queue
	present       Queue
	family        uint32
	fence_timeout time.Duration

	pool         CommandPool
	framebuffers *Framebuffers
	commands     []CommandBuffer
	fences       []Fence

	//held is an acquired image whose fence has not been observed signaled yet
	held  *Acquired
	stats FrameStats
	log   log.FieldLogger
}

func NewFrameSubmitter(dm *DeviceManager, chain *ImageChain, fenceTimeout time.Duration, logger log.FieldLogger) *FrameSubmitter {
	if fenceTimeout <= 0 {
		fenceTimeout = DefaultFenceTimeout
	}
	return &FrameSubmitter{
		device:        dm.Device(),
		chain:         chain,
		graphics:      dm.GraphicsQueue(),
		present:       dm.PresentQueue(),
		family:        dm.GraphicsFamily(),
		fence_timeout: fenceTimeout,
		log:           logger,
	}
}

// Build creates the framebuffers and records one command buffer per chain
// image: clear color and depth, bind pipeline and vertices, draw, end. Each
// image also gets a fence created signaled so the first frame never blocks.
func (f *FrameSubmitter) Build(pass RenderPass, depth *DepthResource, pipeline Pipeline, vertices *VertexBuffer) error {
	err := f.build(pass, depth, pipeline, vertices)
	if err != nil {
		f.Destroy()
	}
	return err
}

func (f *FrameSubmitter) build(pass RenderPass, depth *DepthResource, pipeline Pipeline, vertices *VertexBuffer) error {
	var err error
	count := f.chain.Len()
	extent := f.chain.Extent()

	f.framebuffers, err = NewFramebuffers(f.device, pass, f.chain.Views(), depth.View(), extent)
	if err != nil {
		return err
	}

	f.pool, err = f.device.NewCommandPool(f.family)
	if err != nil {
		return fatal("create command pool", err)
	}

	f.commands, err = f.pool.Allocate(count)
	if err != nil {
		return fatal("allocate command buffers", err)
	}
	if len(f.commands) != count {
		return fatalf("allocate command buffers", "got %d command buffers for %d images", len(f.commands), count)
	}

	area := vk.Rect2D{Offset: vk.Offset2D{}, Extent: extent}
	for index, cmd := range f.commands {
		if err := cmd.Begin(); err != nil {
			return fatal("begin command buffer", err)
		}
		cmd.BeginRenderPass(pass, f.framebuffers.At(index), area, frameClear)
		cmd.BindPipeline(pipeline)
		cmd.BindVertexBuffer(vertices.Buffer())
		cmd.Draw(vertices.Count())
		cmd.EndRenderPass()
		if err := cmd.End(); err != nil {
			return fatal("end command buffer", err)
		}
	}

	f.fences = make([]Fence, 0, count)
	for i := 0; i < count; i++ {
		fence, err := f.device.NewFence(true)
		if err != nil {
			return fatal("create frame fence", err)
		}
		f.fences = append(f.fences, fence)
	}

	f.log.WithField("frames", count).Debug("command buffers recorded")
	return nil
}

// DrawFrame attempts one frame. Backpressure from the display engine and
// frames still in flight are reported as statuses, never as errors. Any error
// returned is fatal.
func (f *FrameSubmitter) DrawFrame() (FrameStatus, error) {
	if f.held == nil {
		acquired, ok, err := f.chain.AcquireNext()
		if err != nil {
			return FrameFailed, err
		}
		if !ok {
			f.stats.NotReady++
			return FrameNotReady, nil
		}
		f.held = &acquired
	}
	acquired := *f.held

	fence := f.fences[acquired.Image]
	if err := fence.Wait(f.fence_timeout); err != nil {
		if errors.Is(err, ErrTimeout) {
			f.stats.InFlight++
			return FrameInFlight, nil
		}
		return FrameFailed, fatal("wait for frame fence", err)
	}
	if err := fence.Reset(); err != nil {
		return FrameFailed, fatal("reset frame fence", err)
	}
	f.held = nil

	err := f.graphics.Submit(Submission{
		Commands:  f.commands[acquired.Image],
		Wait:      acquired.Wait,
		WaitStage: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		Signal:    acquired.Signal,
		Fence:     fence,
	})
	if err != nil {
		return FrameFailed, fatal("submit frame", err)
	}

	if err := f.chain.Present(acquired.Image, f.present); err != nil {
		return FrameFailed, err
	}
	f.stats.Presented++
	return FramePresented, nil
}

func (f *FrameSubmitter) Stats() FrameStats { return f.stats }

// Destroy releases fences, the command pool with its buffers and the
// framebuffers. The device must be idle.
func (f *FrameSubmitter) Destroy() {
	for i := len(f.fences) - 1; i >= 0; i-- {
		f.fences[i].Destroy()
	}
	f.fences = nil
	f.commands = nil
	if f.pool != nil {
		f.pool.Destroy()
		f.pool = nil
	}
	if f.framebuffers != nil {
		f.framebuffers.Destroy()
		f.framebuffers = nil
	}
	f.held = nil
}
