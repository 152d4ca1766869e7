package vrtest

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

//sRGB class surface formats, any of them is preferred over the first reported format
var srgbFormats = map[vk.Format]bool{
	vk.FormatR8g8b8a8Srgb: true,
	vk.FormatB8g8r8a8Srgb: true,
	vk.FormatR8g8b8Srgb:   true,
	vk.FormatB8g8r8Srgb:   true,
}

// ChainParams are the image chain parameters derived from the surface.
type ChainParams struct {
	ImageCount     uint32
	Extent         vk.Extent2D
	Format         SurfaceFormat
	SRGB           bool
	PresentMode    vk.PresentMode
	Sharing        vk.SharingMode
	QueueFamilies  []uint32
	Transform      vk.SurfaceTransformFlagBits
	CompositeAlpha vk.CompositeAlphaFlagBits
}

// ChooseImageCount asks for one image more than the surface minimum, capped by
// the surface maximum when the surface declares one.
func ChooseImageCount(min, max uint32) uint32 {
	count := min + 1
	if max > 0 && count > max {
		count = max
	}
	return count
}

// ClampExtent clamps the desired resolution into [min, max] per axis.
func ClampExtent(desired, min, max vk.Extent2D) vk.Extent2D {
	clamp := func(v, lo, hi uint32) uint32 {
		if v > hi {
			v = hi
		}
		if v < lo {
			v = lo
		}
		return v
	}
	return vk.Extent2D{
		Width:  clamp(desired.Width, min.Width, max.Width),
		Height: clamp(desired.Height, min.Height, max.Height),
	}
}

// ChooseSurfaceFormat defaults to the first reported format and switches to the
// first sRGB class format if any is offered. The bool reports an sRGB choice.
func ChooseSurfaceFormat(formats []SurfaceFormat) (SurfaceFormat, bool, error) {
	if len(formats) == 0 {
		return SurfaceFormat{}, false, fatalf("choose surface format", "surface reports no formats")
	}

	//A single undefined entry means the surface has no preference
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: formats[0].ColorSpace}, true, nil
	}

	for _, format := range formats {
		if srgbFormats[format.Format] {
			return format, true, nil
		}
	}
	return formats[0], false, nil
}

// ChoosePresentMode prefers mailbox and falls back to FIFO, which every
// surface supports.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// ChooseSharing is exclusive when graphics and present share a family and
// concurrent across both families otherwise.
func ChooseSharing(queues QueueSelection) (vk.SharingMode, []uint32) {
	if !queues.Separate() {
		return vk.SharingModeExclusive, nil
	}
	return vk.SharingModeConcurrent, []uint32{queues.Graphics, queues.Present}
}

func ChooseTransform(caps SurfaceCapabilities) vk.SurfaceTransformFlagBits {
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		return vk.SurfaceTransformIdentityBit
	}
	return caps.CurrentTransform
}

func ChooseCompositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	for _, bit := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if supported&vk.CompositeAlphaFlags(bit) != 0 {
			return bit
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// DeriveChainParams queries the surface through the adapter and derives every
// chain parameter.
func DeriveChainParams(adapter Adapter, surface Surface, queues QueueSelection, desired vk.Extent2D) (ChainParams, error) {
	var p ChainParams

	caps, err := adapter.SurfaceCapabilities(surface)
	if err != nil {
		return p, fatal("query surface capabilities", err)
	}
	formats, err := adapter.SurfaceFormats(surface)
	if err != nil {
		return p, fatal("query surface formats", err)
	}
	modes, err := adapter.PresentModes(surface)
	if err != nil {
		return p, fatal("query present modes", err)
	}

	p.ImageCount = ChooseImageCount(caps.MinImageCount, caps.MaxImageCount)
	p.Extent = ClampExtent(desired, caps.MinExtent, caps.MaxExtent)
	if p.Format, p.SRGB, err = ChooseSurfaceFormat(formats); err != nil {
		return p, err
	}
	p.PresentMode = ChoosePresentMode(modes)
	p.Sharing, p.QueueFamilies = ChooseSharing(queues)
	p.Transform = ChooseTransform(caps)
	p.CompositeAlpha = ChooseCompositeAlpha(caps.SupportedCompositeAlpha)
	return p, nil
}

// SignalPair gates one chain slot: ImageReady is signaled by the display engine
// on acquire, RenderDone by the GPU when rendering into the image finishes.
type SignalPair struct {
	ImageReady Semaphore
	RenderDone Semaphore
}

// Acquired is an image handed out by AcquireNext. Image and Slot are related by
// the acquire protocol but need not be equal.
type Acquired struct {
	Image  uint32
	Slot   int
	Wait   Semaphore
	Signal Semaphore
}

// ImageChain owns the presentable images bound to a surface, their views and
// one signal pair per slot.
type ImageChain struct {
	device    Device
	swapchain Swapchain
	params    ChainParams
	images    []Image
	views     []ImageView
	pairs     []SignalPair
	slot      int
	release   releaser
	log       log.FieldLogger
}

// NewImageChain builds the chain for surface on the device owned by dm. The
// returned image list length is authoritative, it may exceed the requested
// count.
func NewImageChain(dm *DeviceManager, surface Surface, desired vk.Extent2D, logger log.FieldLogger) (*ImageChain, error) {
	params, err := DeriveChainParams(dm.Adapter(), surface, dm.Queues(), desired)
	if err != nil {
		return nil, err
	}

	c := &ImageChain{
		device: dm.Device(),
		params: params,
		log:    logger,
	}
	if err := c.create(surface); err != nil {
		c.Destroy()
		return nil, err
	}

	logger.WithFields(log.Fields{
		"images":  len(c.images),
		"width":   params.Extent.Width,
		"height":  params.Extent.Height,
		"format":  params.Format.Format,
		"srgb":    params.SRGB,
		"mode":    presentModeName(params.PresentMode),
		"sharing": sharingName(params.Sharing),
	}).Info("image chain created")

	return c, nil
}

func (c *ImageChain) create(surface Surface) error {
	p := c.params

	swapchain, err := c.device.NewSwapchain(SwapchainInfo{
		Surface:        surface,
		MinImageCount:  p.ImageCount,
		Format:         p.Format,
		Extent:         p.Extent,
		Transform:      p.Transform,
		CompositeAlpha: p.CompositeAlpha,
		PresentMode:    p.PresentMode,
		Sharing:        p.Sharing,
		QueueFamilies:  p.QueueFamilies,
	})
	if err != nil {
		return fatal("create swapchain", err)
	}
	c.swapchain = swapchain
	c.release.add(swapchain)

	c.images, err = swapchain.Images()
	if err != nil {
		return fatal("get swapchain images", err)
	}
	if len(c.images) == 0 {
		return fatalf("get swapchain images", "swapchain returned no images")
	}

	c.views = make([]ImageView, 0, len(c.images))
	for _, image := range c.images {
		view, err := c.device.NewImageView(ImageViewInfo{
			Image:  image,
			Format: p.Format.Format,
			Aspect: vk.ImageAspectFlags(vk.ImageAspectColorBit),
		})
		if err != nil {
			return fatal("create swapchain image view", err)
		}
		c.views = append(c.views, view)
		c.release.add(view)
	}

	c.pairs = make([]SignalPair, 0, len(c.images))
	for range c.images {
		var pair SignalPair
		if pair.ImageReady, err = c.device.NewSemaphore(); err != nil {
			return fatal("create image ready semaphore", err)
		}
		c.release.add(pair.ImageReady)
		if pair.RenderDone, err = c.device.NewSemaphore(); err != nil {
			return fatal("create render done semaphore", err)
		}
		c.release.add(pair.RenderDone)
		c.pairs = append(c.pairs, pair)
	}
	return nil
}

// AcquireNext asks for the next image without blocking, signaling the image
// ready semaphore of the current slot. When the display engine has no image
// ready it returns false and leaves the chain untouched.
func (c *ImageChain) AcquireNext() (Acquired, bool, error) {
	pair := c.pairs[c.slot]

	index, err := c.swapchain.AcquireNext(0, pair.ImageReady)
	switch {
	case errors.Is(err, ErrNotReady), errors.Is(err, ErrTimeout):
		return Acquired{}, false, nil
	case err != nil:
		return Acquired{}, false, fatal("acquire next image", err)
	}
	if int(index) >= len(c.images) {
		return Acquired{}, false, fatalf("acquire next image", "image index %d outside chain of %d", index, len(c.images))
	}

	return Acquired{
		Image:  index,
		Slot:   c.slot,
		Wait:   pair.ImageReady,
		Signal: pair.RenderDone,
	}, true, nil
}

// Present queues image for display on queue once the render done semaphore of
// the current slot is signaled, then advances the slot.
func (c *ImageChain) Present(image uint32, queue Queue) error {
	pair := c.pairs[c.slot]
	if err := queue.Present(c.swapchain, image, pair.RenderDone); err != nil {
		return fatal("present image", err)
	}
	c.slot = (c.slot + 1) % len(c.pairs)
	return nil
}

func (c *ImageChain) Len() int { return len(c.images) }
func (c *ImageChain) Slot() int { return c.slot }
func (c *ImageChain) Params() ChainParams { return c.params }
func (c *ImageChain) Extent() vk.Extent2D { return c.params.Extent }
func (c *ImageChain) Format() vk.Format { return c.params.Format.Format }
func (c *ImageChain) SRGB() bool { return c.params.SRGB }
func (c *ImageChain) PresentMode() vk.PresentMode { return c.params.PresentMode }
func (c *ImageChain) Views() []ImageView { return c.views }
func (c *ImageChain) Pairs() []SignalPair { return c.pairs }

// Destroy releases semaphores, views and the swapchain, in that order.
func (c *ImageChain) Destroy() {
	c.release.release()
	c.pairs = nil
	c.views = nil
	c.images = nil
	c.swapchain = nil
}

func presentModeName(mode vk.PresentMode) string {
	switch mode {
	case vk.PresentModeMailbox:
		return "mailbox"
	case vk.PresentModeFifo:
		return "fifo"
	case vk.PresentModeFifoRelaxed:
		return "fifo-relaxed"
	case vk.PresentModeImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

func sharingName(mode vk.SharingMode) string {
	if mode == vk.SharingModeConcurrent {
		return "concurrent"
	}
	return "exclusive"
}
