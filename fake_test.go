package vrtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

//In-memory driver used by the core tests. Every creation, destruction and
//queue operation is appended to a shared event log so tests can assert on
//ordering. Sync objects model their signal state and count protocol violations.

var errInjected = errors.New("injected failure")

type fakeLog struct {
	events []string
}

func (l *fakeLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *fakeLog) mark() int { return len(l.events) }

func (l *fakeLog) since(mark int) []string {
	out := make([]string, len(l.events)-mark)
	copy(out, l.events[mark:])
	return out
}

func (l *fakeLog) count(prefix string) int {
	n := 0
	for _, e := range l.events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

func (l *fakeLog) index(event string) int {
	for i, e := range l.events {
		if e == event {
			return i
		}
	}
	return -1
}

type fakeObject struct {
	log       *fakeLog
	name      string
	destroyed int
}

func (o *fakeObject) Destroy() {
	o.destroyed++
	o.log.add("destroy %s", o.name)
}

func (o *fakeObject) fakeName() string { return o.name }

func nameOf(v interface{}) string {
	if n, ok := v.(interface{ fakeName() string }); ok {
		return n.fakeName()
	}
	return "<nil>"
}

type fakeBackend struct {
	instance *fakeInstance
	info     InstanceInfo
	err      error
}

func (b *fakeBackend) OpenInstance(info InstanceInfo) (Instance, error) {
	b.info = info
	if b.err != nil {
		return nil, b.err
	}
	b.instance.log.add("create instance")
	return b.instance, nil
}

type fakeInstance struct {
	fakeObject
	adapters    []Adapter
	adaptersErr error
	wrapErr     error
	surface     *fakeSurface
}

func newFakeInstance(log *fakeLog, adapters ...Adapter) *fakeInstance {
	return &fakeInstance{fakeObject: fakeObject{log: log, name: "instance"}, adapters: adapters}
}

func (i *fakeInstance) Handle() interface{} { return "instance-handle" }

func (i *fakeInstance) WrapSurface(ptr uintptr) (Surface, error) {
	if i.wrapErr != nil {
		return nil, i.wrapErr
	}
	i.log.add("create surface")
	i.surface = &fakeSurface{fakeObject{log: i.log, name: "surface"}}
	return i.surface, nil
}

func (i *fakeInstance) Adapters() ([]Adapter, error) {
	return i.adapters, i.adaptersErr
}

type fakeSurface struct {
	fakeObject
}

type fakeAdapter struct {
	props      AdapterProperties
	extensions []string
	extErr     error
	families   []QueueFamily
	present    map[uint32]bool
	presentErr error
	queried    []uint32
	memory     []MemoryType
	features   map[vk.Format]vk.FormatFeatureFlags
	caps       SurfaceCapabilities
	capsErr    error
	formats    []SurfaceFormat
	modes      []vk.PresentMode

	device            *fakeDevice
	createErr         error
	requests          []QueueRequest
	createdExtensions []string
}

//newFakeAdapter is a discrete GPU with one graphics+present family, a device
//local and a host visible memory type, D24S8 depth support, a 2..3 image
//surface between 640x480 and 1920x1080 offering an sRGB format and mailbox.
func newFakeAdapter(log *fakeLog, name string) *fakeAdapter {
	return &fakeAdapter{
		props: AdapterProperties{
			Name:       name,
			Type:       vk.PhysicalDeviceTypeDiscreteGpu,
			APIVersion: uint32(vk.MakeVersion(1, 1, 0)),
		},
		extensions: []string{"VK_KHR_swapchain", "VK_KHR_maintenance1"},
		families: []QueueFamily{
			{Flags: vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit), Count: 16},
		},
		present: map[uint32]bool{0: true},
		memory: []MemoryType{
			{Flags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), Heap: 0},
			{Flags: vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit), Heap: 1},
		},
		features: map[vk.Format]vk.FormatFeatureFlags{
			vk.FormatD24UnormS8Uint: vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
		},
		caps: SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           3,
			CurrentExtent:           vk.Extent2D{Width: 1024, Height: 768},
			MinExtent:               vk.Extent2D{Width: 640, Height: 480},
			MaxExtent:               vk.Extent2D{Width: 1920, Height: 1080},
			SupportedTransforms:     vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit),
			CurrentTransform:        vk.SurfaceTransformIdentityBit,
			SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit),
		},
		formats: []SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		modes:  []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
		device: newFakeDevice(log),
	}
}

func (a *fakeAdapter) Properties() AdapterProperties { return a.props }
func (a *fakeAdapter) Extensions() ([]string, error) { return a.extensions, a.extErr }
func (a *fakeAdapter) QueueFamilies() []QueueFamily { return a.families }
func (a *fakeAdapter) MemoryTypes() []MemoryType { return a.memory }

func (a *fakeAdapter) SurfaceSupport(family uint32, surface Surface) (bool, error) {
	a.queried = append(a.queried, family)
	if a.presentErr != nil {
		return false, a.presentErr
	}
	return a.present[family], nil
}

func (a *fakeAdapter) FormatFeatures(format vk.Format) vk.FormatFeatureFlags {
	return a.features[format]
}

func (a *fakeAdapter) SurfaceCapabilities(surface Surface) (SurfaceCapabilities, error) {
	return a.caps, a.capsErr
}

func (a *fakeAdapter) SurfaceFormats(surface Surface) ([]SurfaceFormat, error) {
	return a.formats, nil
}

func (a *fakeAdapter) PresentModes(surface Surface) ([]vk.PresentMode, error) {
	return a.modes, nil
}

func (a *fakeAdapter) CreateDevice(queues []QueueRequest, extensions []string) (Device, error) {
	a.requests = queues
	a.createdExtensions = extensions
	if a.createErr != nil {
		return nil, a.createErr
	}
	d := a.device
	d.log.add("create device")
	for _, q := range queues {
		d.queues[q.Family] = &fakeQueue{log: d.log, family: q.Family, complete: true}
	}
	return d, nil
}

type fakeDevice struct {
	fakeObject
	queues map[uint32]*fakeQueue
	counts map[string]int
	//fail makes the nth creation (1 based) of a kind return errInjected
	fail map[string]int

	imageReq    MemoryRequirements
	bufferReq   MemoryRequirements
	chainImages int
	shortAlloc  bool
	waitIdleErr error
	waitIdle    int

	swapchain *fakeSwapchain
	fences    []*fakeFence
	memories  []*fakeMemory
	views     []*fakeView
	pass      RenderPassInfo
	pipeline  PipelineInfo
	pool      *fakePool
}

func newFakeDevice(log *fakeLog) *fakeDevice {
	return &fakeDevice{
		fakeObject: fakeObject{log: log, name: "device"},
		queues:     map[uint32]*fakeQueue{},
		counts:     map[string]int{},
		fail:       map[string]int{},
		imageReq:   MemoryRequirements{Size: 1 << 20, Alignment: 256, TypeBits: 0x3},
		bufferReq:  MemoryRequirements{Size: 256, Alignment: 16, TypeBits: 0x3},
	}
}

func (d *fakeDevice) create(kind string) (fakeObject, error) {
	d.counts[kind]++
	n := d.counts[kind]
	if at, ok := d.fail[kind]; ok && at == n {
		d.log.add("fail %s%d", kind, n)
		return fakeObject{}, errInjected
	}
	o := fakeObject{log: d.log, name: fmt.Sprintf("%s%d", kind, n)}
	d.log.add("create %s", o.name)
	return o, nil
}

func (d *fakeDevice) Queue(family uint32) Queue {
	if q, ok := d.queues[family]; ok {
		return q
	}
	return nil
}

func (d *fakeDevice) WaitIdle() error {
	d.waitIdle++
	d.log.add("wait idle")
	return d.waitIdleErr
}

func (d *fakeDevice) NewSemaphore() (Semaphore, error) {
	o, err := d.create("semaphore")
	if err != nil {
		return nil, err
	}
	return &fakeSemaphore{fakeObject: o}, nil
}

func (d *fakeDevice) NewFence(signaled bool) (Fence, error) {
	o, err := d.create("fence")
	if err != nil {
		return nil, err
	}
	f := &fakeFence{fakeObject: o, signaled: signaled}
	d.fences = append(d.fences, f)
	return f, nil
}

func (d *fakeDevice) NewSwapchain(info SwapchainInfo) (Swapchain, error) {
	o, err := d.create("swapchain")
	if err != nil {
		return nil, err
	}
	//chainImages overrides the image count, negative yields an empty chain
	count := int(info.MinImageCount)
	if d.chainImages > 0 {
		count = d.chainImages
	} else if d.chainImages < 0 {
		count = 0
	}
	sc := &fakeSwapchain{fakeObject: o, info: info, count: count}
	for i := 0; i < count; i++ {
		sc.free = append(sc.free, uint32(i))
	}
	d.swapchain = sc
	return sc, nil
}

func (d *fakeDevice) NewImage(info ImageInfo) (Image, error) {
	o, err := d.create("image")
	if err != nil {
		return nil, err
	}
	return &fakeImage{fakeObject: o, info: info, req: d.imageReq}, nil
}

func (d *fakeDevice) NewImageView(info ImageViewInfo) (ImageView, error) {
	o, err := d.create("view")
	if err != nil {
		return nil, err
	}
	v := &fakeView{fakeObject: o, info: info}
	d.views = append(d.views, v)
	return v, nil
}

func (d *fakeDevice) NewBuffer(size uint64, usage vk.BufferUsageFlags) (Buffer, error) {
	o, err := d.create("buffer")
	if err != nil {
		return nil, err
	}
	return &fakeBuffer{fakeObject: o, size: size, usage: usage, req: d.bufferReq}, nil
}

func (d *fakeDevice) AllocateMemory(size uint64, typeIndex uint32) (Memory, error) {
	o, err := d.create("memory")
	if err != nil {
		return nil, err
	}
	m := &fakeMemory{fakeObject: o, size: size, typeIndex: typeIndex}
	d.memories = append(d.memories, m)
	return m, nil
}

func (d *fakeDevice) NewShaderModule(code []byte) (ShaderModule, error) {
	o, err := d.create("shader")
	if err != nil {
		return nil, err
	}
	return &fakeShader{fakeObject: o, code: code}, nil
}

func (d *fakeDevice) NewRenderPass(info RenderPassInfo) (RenderPass, error) {
	o, err := d.create("pass")
	if err != nil {
		return nil, err
	}
	d.pass = info
	return &fakeRenderPass{o}, nil
}

func (d *fakeDevice) NewFramebuffer(pass RenderPass, views []ImageView, extent vk.Extent2D) (Framebuffer, error) {
	o, err := d.create("framebuffer")
	if err != nil {
		return nil, err
	}
	return &fakeFramebuffer{fakeObject: o, views: views, extent: extent}, nil
}

func (d *fakeDevice) NewPipeline(info PipelineInfo) (Pipeline, error) {
	o, err := d.create("pipeline")
	if err != nil {
		return nil, err
	}
	d.pipeline = info
	return &fakePipeline{o}, nil
}

func (d *fakeDevice) NewCommandPool(family uint32) (CommandPool, error) {
	o, err := d.create("pool")
	if err != nil {
		return nil, err
	}
	d.pool = &fakePool{fakeObject: o, family: family, short: d.shortAlloc}
	return d.pool, nil
}

//fakeSemaphore tracks a pending signal. Signaling a pending semaphore or
//waiting on an unsignaled one is a protocol violation.
type fakeSemaphore struct {
	fakeObject
	pending bool
}

type fakeFence struct {
	fakeObject
	signaled bool
	//busy is set by a submission and cleared once a wait observes completion
	busy bool
	//script overrides Wait results in order
	script []error
}

func (f *fakeFence) Wait(timeout time.Duration) error {
	f.log.add("wait %s", f.name)
	if len(f.script) > 0 {
		err := f.script[0]
		f.script = f.script[1:]
		return err
	}
	if !f.signaled {
		return ErrTimeout
	}
	f.busy = false
	return nil
}

func (f *fakeFence) Reset() error {
	f.log.add("reset %s", f.name)
	f.signaled = false
	return nil
}

type acquireStep struct {
	index uint32
	err   error
}

//fakeSwapchain models the display engine. Scripted steps win, otherwise the
//next image is picked from the free list, which presented images rejoin.
type fakeSwapchain struct {
	fakeObject
	info     SwapchainInfo
	count    int
	free     []uint32
	script   []acquireStep
	pick     func(free []uint32) int
	acquires int
	imgErr   error
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	if s.imgErr != nil {
		return nil, s.imgErr
	}
	images := make([]Image, 0, s.count)
	for i := 0; i < s.count; i++ {
		images = append(images, &fakeImage{
			fakeObject: fakeObject{log: s.log, name: fmt.Sprintf("chain-image%d", i)},
			borrowed:   true,
		})
	}
	return images, nil
}

func (s *fakeSwapchain) AcquireNext(timeout time.Duration, signal Semaphore) (uint32, error) {
	s.acquires++
	if len(s.script) > 0 {
		step := s.script[0]
		s.script = s.script[1:]
		if step.err != nil {
			s.log.add("acquire %s: %v", nameOf(signal), step.err)
			return 0, step.err
		}
		for i, free := range s.free {
			if free == step.index {
				s.free = append(s.free[:i:i], s.free[i+1:]...)
				break
			}
		}
		s.signal(signal)
		s.log.add("acquire %s -> %d", nameOf(signal), step.index)
		return step.index, nil
	}
	if len(s.free) == 0 {
		s.log.add("acquire %s: %v", nameOf(signal), ErrNotReady)
		return 0, ErrNotReady
	}
	i := 0
	if s.pick != nil {
		i = s.pick(s.free)
	}
	index := s.free[i]
	s.free = append(s.free[:i:i], s.free[i+1:]...)
	s.signal(signal)
	s.log.add("acquire %s -> %d", nameOf(signal), index)
	return index, nil
}

func (s *fakeSwapchain) signal(sem Semaphore) {
	if fs, ok := sem.(*fakeSemaphore); ok {
		if fs.pending {
			s.log.add("violation signal pending %s", fs.name)
		}
		fs.pending = true
	}
}

type fakeImage struct {
	fakeObject
	info     ImageInfo
	req      MemoryRequirements
	bound    Memory
	borrowed bool
}

func (i *fakeImage) Destroy() {
	if i.borrowed {
		return
	}
	i.fakeObject.Destroy()
}

func (i *fakeImage) MemoryRequirements() MemoryRequirements { return i.req }

func (i *fakeImage) Bind(memory Memory) error {
	i.log.add("bind %s %s", i.name, nameOf(memory))
	i.bound = memory
	return nil
}

type fakeView struct {
	fakeObject
	info ImageViewInfo
}

type fakeBuffer struct {
	fakeObject
	size  uint64
	usage vk.BufferUsageFlags
	req   MemoryRequirements
	bound Memory
}

func (b *fakeBuffer) MemoryRequirements() MemoryRequirements { return b.req }

func (b *fakeBuffer) Bind(memory Memory) error {
	b.log.add("bind %s %s", b.name, nameOf(memory))
	b.bound = memory
	return nil
}

type fakeMemory struct {
	fakeObject
	size      uint64
	typeIndex uint32
	data      []byte
}

func (m *fakeMemory) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > m.size {
		return errors.Errorf("write overflows %d", m.size)
	}
	m.log.add("write %s %d", m.name, len(data))
	m.data = append([]byte(nil), data...)
	return nil
}

type fakeShader struct {
	fakeObject
	code []byte
}

type fakeRenderPass struct{ fakeObject }
type fakePipeline struct{ fakeObject }

type fakeFramebuffer struct {
	fakeObject
	views  []ImageView
	extent vk.Extent2D
}

type fakePool struct {
	fakeObject
	family  uint32
	buffers []*fakeCommandBuffer
	//short allocates one buffer less than requested
	short bool
}

func (p *fakePool) Allocate(count int) ([]CommandBuffer, error) {
	if p.short {
		count--
	}
	out := make([]CommandBuffer, 0, count)
	for i := 0; i < count; i++ {
		cmd := &fakeCommandBuffer{log: p.log, name: fmt.Sprintf("cmd%d", i)}
		p.buffers = append(p.buffers, cmd)
		out = append(out, cmd)
	}
	return out, nil
}

type fakeCommandBuffer struct {
	log      *fakeLog
	name     string
	recorded []string
	clear    ClearValues
	area     vk.Rect2D
}

func (c *fakeCommandBuffer) fakeName() string { return c.name }

func (c *fakeCommandBuffer) Begin() error {
	c.recorded = append(c.recorded, "begin")
	return nil
}

func (c *fakeCommandBuffer) BeginRenderPass(pass RenderPass, framebuffer Framebuffer, area vk.Rect2D, clear ClearValues) {
	c.clear = clear
	c.area = area
	c.recorded = append(c.recorded, "pass "+nameOf(pass)+" "+nameOf(framebuffer))
}

func (c *fakeCommandBuffer) BindPipeline(pipeline Pipeline) {
	c.recorded = append(c.recorded, "pipeline "+nameOf(pipeline))
}

func (c *fakeCommandBuffer) BindVertexBuffer(buffer Buffer) {
	c.recorded = append(c.recorded, "vertices "+nameOf(buffer))
}

func (c *fakeCommandBuffer) Draw(vertexCount uint32) {
	c.recorded = append(c.recorded, fmt.Sprintf("draw %d", vertexCount))
}

func (c *fakeCommandBuffer) EndRenderPass() {
	c.recorded = append(c.recorded, "end pass")
}

func (c *fakeCommandBuffer) End() error {
	c.recorded = append(c.recorded, "end")
	return nil
}

type fakePresent struct {
	image uint32
	wait  Semaphore
}

//fakeQueue executes submissions instantly when complete is set. Otherwise
//fences stay unsignaled until retire.
type fakeQueue struct {
	log        *fakeLog
	family     uint32
	complete   bool
	submits    []Submission
	presents   []fakePresent
	inflight   []*fakeFence
	submitErr  error
	presentErr error
}

func (q *fakeQueue) Submit(s Submission) error {
	if q.submitErr != nil {
		return q.submitErr
	}
	q.log.add("submit %s wait %s signal %s fence %s", nameOf(s.Commands), nameOf(s.Wait), nameOf(s.Signal), nameOf(s.Fence))
	q.submits = append(q.submits, s)

	if w, ok := s.Wait.(*fakeSemaphore); ok {
		if !w.pending {
			q.log.add("violation wait unsignaled %s", w.name)
		}
		w.pending = false
	}
	if sig, ok := s.Signal.(*fakeSemaphore); ok {
		if sig.pending {
			q.log.add("violation signal pending %s", sig.name)
		}
		sig.pending = true
	}
	if f, ok := s.Fence.(*fakeFence); ok {
		if f.busy {
			q.log.add("violation resubmit busy %s", f.name)
		}
		if f.signaled {
			q.log.add("violation submit signaled %s", f.name)
		}
		f.busy = true
		if q.complete {
			f.signaled = true
		} else {
			q.inflight = append(q.inflight, f)
		}
	}
	return nil
}

//retire completes the oldest n outstanding submissions
func (q *fakeQueue) retire(n int) {
	for ; n > 0 && len(q.inflight) > 0; n-- {
		q.inflight[0].signaled = true
		q.inflight = q.inflight[1:]
	}
}

func (q *fakeQueue) Present(swapchain Swapchain, image uint32, wait Semaphore) error {
	if q.presentErr != nil {
		return q.presentErr
	}
	q.log.add("present %d wait %s", image, nameOf(wait))
	q.presents = append(q.presents, fakePresent{image: image, wait: wait})

	if w, ok := wait.(*fakeSemaphore); ok {
		if !w.pending {
			q.log.add("violation wait unsignaled %s", w.name)
		}
		w.pending = false
	}
	if sc, ok := swapchain.(*fakeSwapchain); ok {
		sc.free = append(sc.free, image)
	}
	return nil
}

type fakeProvider struct {
	extensions []string
	surface    uintptr
	surfaceErr error
	created    int
	polls      int
	//exitAfter polls, zero never exits
	exitAfter int
	width     uint32
	height    uint32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		surface:    1,
		width:      1024,
		height:     768,
	}
}

func (p *fakeProvider) RequiredInstanceExtensions() []string { return p.extensions }

func (p *fakeProvider) CreateSurface(instance interface{}) (uintptr, error) {
	p.created++
	return p.surface, p.surfaceErr
}

func (p *fakeProvider) ShouldExit() bool {
	return p.exitAfter > 0 && p.polls >= p.exitAfter
}

func (p *fakeProvider) PollEvents() { p.polls++ }

func (p *fakeProvider) Resolution() (uint32, uint32) { return p.width, p.height }

type fakeShaders map[string][]byte

func (s fakeShaders) ReadShader(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, errors.Errorf("no shader %s", name)
	}
	return data, nil
}

func spirv(words int) []byte {
	return make([]byte, 4*words)
}

func violations(log *fakeLog) []string {
	var out []string
	for _, e := range log.events {
		if strings.HasPrefix(e, "violation") {
			out = append(out, e)
		}
	}
	return out
}

//newTestManager creates a device manager over adapters through SelectAndCreate
func newTestManager(t *testing.T, log *fakeLog, adapters ...Adapter) (*DeviceManager, *fakeSurface) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	instance := newFakeInstance(log, adapters...)
	surface, err := instance.WrapSurface(1)
	require.NoError(t, err)
	dm, err := SelectAndCreate(instance, surface, DeviceExtensions, logger)
	require.NoError(t, err)
	return dm, surface.(*fakeSurface)
}

type frameFixture struct {
	log      *fakeLog
	adapter  *fakeAdapter
	device   *fakeDevice
	dm       *DeviceManager
	chain    *ImageChain
	depth    *DepthResource
	pass     RenderPass
	pipeline Pipeline
	vertices *VertexBuffer
	frames   *FrameSubmitter
}

func (f *frameFixture) queue() *fakeQueue { return f.device.queues[f.dm.GraphicsFamily()] }
func (f *frameFixture) swapchain() *fakeSwapchain { return f.device.swapchain }

func newFrameFixture(t *testing.T, setup func(a *fakeAdapter)) *frameFixture {
	t.Helper()
	log := &fakeLog{}
	adapter := newFakeAdapter(log, "fake0")
	if setup != nil {
		setup(adapter)
	}
	logger, _ := logtest.NewNullLogger()

	dm, surface := newTestManager(t, log, adapter)
	chain, err := NewImageChain(dm, surface, vk.Extent2D{Width: 1024, Height: 768}, logger)
	require.NoError(t, err)
	depth, err := NewDepthResource(dm, vk.FormatD24UnormS8Uint, chain.Extent())
	require.NoError(t, err)

	device := dm.Device()
	pass, err := device.NewRenderPass(DefaultRenderPass(chain.Format(), depth.Format()))
	require.NoError(t, err)
	vert, err := device.NewShaderModule(spirv(4))
	require.NoError(t, err)
	frag, err := device.NewShaderModule(spirv(4))
	require.NoError(t, err)
	pipeline, err := device.NewPipeline(DefaultPipeline(vert, frag, pass, chain.Extent()))
	require.NoError(t, err)
	vertices, err := NewVertexBuffer(dm, Triangles)
	require.NoError(t, err)

	frames := NewFrameSubmitter(dm, chain, time.Millisecond, logger)
	require.NoError(t, frames.Build(pass, depth, pipeline, vertices))

	return &frameFixture{
		log:      log,
		adapter:  adapter,
		device:   adapter.device,
		dm:       dm,
		chain:    chain,
		depth:    depth,
		pass:     pass,
		pipeline: pipeline,
		vertices: vertices,
		frames:   frames,
	}
}
