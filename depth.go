package vrtest

import (
	vk "github.com/vulkan-go/vulkan"
)

//Combined depth/stencil formats in probe order
var DepthFormats = []vk.Format{
	vk.FormatD24UnormS8Uint,
	vk.FormatD32SfloatS8Uint,
}

// SelectDepthFormat returns the first of DepthFormats the adapter supports as
// an optimally tiled depth/stencil attachment.
func SelectDepthFormat(adapter Adapter) (vk.Format, error) {
	required := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	for _, format := range DepthFormats {
		if adapter.FormatFeatures(format)&required == required {
			return format, nil
		}
	}
	return vk.FormatUndefined, fatalf("select depth format", "adapter supports none of %d depth/stencil formats", len(DepthFormats))
}

// DepthResource is the single depth/stencil target shared by every frame. It is
// cleared each frame and never read back.
type DepthResource struct {
	format vk.Format
	extent vk.Extent2D
	device Device
	image  Image
	memory Memory
	view   ImageView
}

// NewDepthResource allocates a device local depth/stencil image sized to
// extent and a view over both aspects.
func NewDepthResource(dm *DeviceManager, format vk.Format, extent vk.Extent2D) (*DepthResource, error) {
	d := &DepthResource{
		format: format,
		extent: extent,
		device: dm.Device(),
	}
	if err := d.create(dm); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

func (d *DepthResource) create(dm *DeviceManager) error {
	var err error

	d.image, err = d.device.NewImage(ImageInfo{
		Format: d.format,
		Extent: d.extent,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
	})
	if err != nil {
		return fatal("create depth image", err)
	}

	req := d.image.MemoryRequirements()
	index, err := dm.FindMemoryType(req.TypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return err
	}

	d.memory, err = d.device.AllocateMemory(req.Size, index)
	if err != nil {
		return fatal("allocate depth memory", err)
	}
	if err := d.image.Bind(d.memory); err != nil {
		return fatal("bind depth memory", err)
	}

	d.view, err = d.device.NewImageView(ImageViewInfo{
		Image:  d.image,
		Format: d.format,
		Aspect: vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit),
	})
	if err != nil {
		return fatal("create depth image view", err)
	}
	return nil
}

func (d *DepthResource) Format() vk.Format { return d.format }
func (d *DepthResource) Extent() vk.Extent2D { return d.extent }
func (d *DepthResource) View() ImageView { return d.view }

// Destroy releases the view, the image and then its memory.
func (d *DepthResource) Destroy() {
	if d.view != nil {
		d.view.Destroy()
		d.view = nil
	}
	if d.image != nil {
		d.image.Destroy()
		d.image = nil
	}
	if d.memory != nil {
		d.memory.Destroy()
		d.memory = nil
	}
}
