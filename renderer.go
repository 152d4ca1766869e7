package vrtest

import (
	"time"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Renderer wires the components in dependency order and drives the main
// loop: surface, device, depth format, image chain, depth target, render pass,
// shaders, pipeline, vertices and the frame submitter.
type Renderer struct {
	cfg      Config
	provider SurfaceProvider
	log      log.FieldLogger

	instance Instance
	surface  Surface
	devices  *DeviceManager
	chain    *ImageChain
	depth    *DepthResource
	pass     RenderPass
	pipeline Pipeline
	vertices *VertexBuffer
	frames   *FrameSubmitter

	release releaser
}

// NewRenderer initializes every component. On failure everything created so
// far is released before the error is returned.
func NewRenderer(cfg Config, backend Backend, provider SurfaceProvider, shaders ShaderSource, logger log.FieldLogger) (*Renderer, error) {
	r := &Renderer{cfg: cfg, provider: provider, log: logger}
	if err := r.init(backend, shaders); err != nil {
		return nil, Fatal(err, r.Destroy)
	}
	return r, nil
}

func (r *Renderer) init(backend Backend, shaders ShaderSource) error {
	var err error
	cfg := r.cfg

	info := InstanceInfo{
		AppName:    cfg.AppName,
		EngineName: cfg.EngineName,
		Extensions: r.provider.RequiredInstanceExtensions(),
		Debug:      cfg.Debug,
	}
	if cfg.Debug {
		info.Extensions = MergeExtensions(info.Extensions, DebugInstanceExtensions)
		info.Layers = DebugLayers
	}

	r.instance, err = backend.OpenInstance(info)
	if err != nil {
		return fatal("create instance", err)
	}
	r.release.add(r.instance)

	ptr, err := r.provider.CreateSurface(r.instance.Handle())
	if err != nil {
		return fatal("create window surface", err)
	}
	r.surface, err = r.instance.WrapSurface(ptr)
	if err != nil {
		return fatal("create window surface", err)
	}
	r.release.add(r.surface)

	r.devices, err = SelectAndCreate(r.instance, r.surface, DeviceExtensions, r.log)
	if err != nil {
		return err
	}
	r.release.add(r.devices)

	//Probed before any chain resource exists
	depth_format, err := SelectDepthFormat(r.devices.Adapter())
	if err != nil {
		return err
	}
	r.log.WithField("format", depth_format).Info("depth format selected")

	width, height := r.provider.Resolution()
	r.chain, err = NewImageChain(r.devices, r.surface, vk.Extent2D{Width: width, Height: height}, r.log)
	if err != nil {
		return err
	}
	r.release.add(r.chain)

	r.depth, err = NewDepthResource(r.devices, depth_format, r.chain.Extent())
	if err != nil {
		return err
	}
	r.release.add(r.depth)

	device := r.devices.Device()
	r.pass, err = device.NewRenderPass(DefaultRenderPass(r.chain.Format(), depth_format))
	if err != nil {
		return fatal("create render pass", err)
	}
	r.release.add(r.pass)

	loader := NewShaderLoader(device, shaders, r.log)
	vert, err := loader.LoadShaderBinary(cfg.VertexShader)
	if err != nil {
		return err
	}
	r.release.add(vert)
	frag, err := loader.LoadShaderBinary(cfg.FragmentShader)
	if err != nil {
		return err
	}
	r.release.add(frag)

	r.pipeline, err = device.NewPipeline(DefaultPipeline(vert, frag, r.pass, r.chain.Extent()))
	if err != nil {
		return fatal("create pipeline", err)
	}
	r.release.add(r.pipeline)

	r.vertices, err = NewVertexBuffer(r.devices, Triangles)
	if err != nil {
		return err
	}
	r.release.add(r.vertices)

	r.frames = NewFrameSubmitter(r.devices, r.chain, cfg.FenceTimeout, r.log)
	if err := r.frames.Build(r.pass, r.depth, r.pipeline, r.vertices); err != nil {
		return err
	}
	r.release.add(r.frames)

	return nil
}

// Run polls the surface provider and draws until exit is requested, MaxFrames
// frames were presented or a fatal error occurs.
func (r *Renderer) Run() error {
	ticker := time.NewTicker(r.cfg.StatsInterval)
	defer ticker.Stop()

	for !r.provider.ShouldExit() {
		r.provider.PollEvents()

		if _, err := r.frames.DrawFrame(); err != nil {
			return err
		}

		if r.cfg.MaxFrames > 0 && r.frames.Stats().Presented >= r.cfg.MaxFrames {
			break
		}

		select {
		case <-ticker.C:
			r.logStats("frame stats")
		default:
		}
	}
	r.logStats("loop finished")
	return nil
}

func (r *Renderer) logStats(msg string) {
	stats := r.frames.Stats()
	r.log.WithFields(log.Fields{
		"presented": stats.Presented,
		"not_ready": stats.NotReady,
		"in_flight": stats.InFlight,
	}).Info(msg)
}

func (r *Renderer) Chain() *ImageChain { return r.chain }
func (r *Renderer) Devices() *DeviceManager { return r.devices }
func (r *Renderer) Frames() *FrameSubmitter { return r.frames }

// Destroy waits for the device to go idle and releases everything in reverse
// order of creation. It is safe to call more than once.
func (r *Renderer) Destroy() {
	if r.devices != nil && r.devices.Device() != nil {
		if err := r.devices.Device().WaitIdle(); err != nil {
			r.log.WithError(err).Warn("device wait idle failed")
		}
	}
	r.release.release()
	r.frames = nil
	r.vertices = nil
	r.pipeline = nil
	r.pass = nil
	r.depth = nil
	r.chain = nil
	r.devices = nil
	r.surface = nil
	r.instance = nil
}
