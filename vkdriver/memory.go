package vkdriver

import (
	"unsafe"

	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Image is a 2D optimal tiling image. Swapchain images are borrowed and are
// never destroyed here.
type Image struct {
	device   vk.Device
	handle   vk.Image
	borrowed bool
}

func (d *Device) NewImage(info vrtest.ImageInfo) (vrtest.Image, error) {
	var image vk.Image
	ret := vk.CreateImage(d.handle, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        info.Format,
		Extent:        vk.Extent3D{Width: info.Extent.Width, Height: info.Extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         info.Usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &image)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create image")
	}
	return &Image{device: d.handle, handle: image}, nil
}

func (i *Image) MemoryRequirements() vrtest.MemoryRequirements {
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.device, i.handle, &req)
	req.Deref()
	return vrtest.MemoryRequirements{
		Size:      uint64(req.Size),
		Alignment: uint64(req.Alignment),
		TypeBits:  req.MemoryTypeBits,
	}
}

func (i *Image) Bind(memory vrtest.Memory) error {
	m, ok := memory.(*Memory)
	if !ok || m == nil {
		return errors.New("bind image: foreign memory")
	}
	return newError(vk.BindImageMemory(i.device, i.handle, m.handle, 0))
}

func (i *Image) Destroy() {
	if i.borrowed || i.handle == vk.NullImage {
		return
	}
	vk.DestroyImage(i.device, i.handle, nil)
	i.handle = vk.NullImage
}

type ImageView struct {
	device vk.Device
	handle vk.ImageView
}

func (d *Device) NewImageView(info vrtest.ImageViewInfo) (vrtest.ImageView, error) {
	image, ok := info.Image.(*Image)
	if !ok || image == nil {
		return nil, errors.New("create image view: foreign image")
	}
	var view vk.ImageView
	ret := vk.CreateImageView(d.handle, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image.handle,
		ViewType: vk.ImageViewType2d,
		Format:   info.Format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: info.Aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create image view")
	}
	return &ImageView{device: d.handle, handle: view}, nil
}

func (v *ImageView) Destroy() {
	if v.handle != vk.NullImageView {
		vk.DestroyImageView(v.device, v.handle, nil)
		v.handle = vk.NullImageView
	}
}

func viewHandles(views []vrtest.ImageView) ([]vk.ImageView, error) {
	handles := make([]vk.ImageView, 0, len(views))
	for _, view := range views {
		v, ok := view.(*ImageView)
		if !ok || v == nil {
			return nil, errors.New("foreign image view")
		}
		handles = append(handles, v.handle)
	}
	return handles, nil
}

type Buffer struct {
	device vk.Device
	handle vk.Buffer
}

func (d *Device) NewBuffer(size uint64, usage vk.BufferUsageFlags) (vrtest.Buffer, error) {
	var buffer vk.Buffer
	ret := vk.CreateBuffer(d.handle, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "create buffer")
	}
	return &Buffer{device: d.handle, handle: buffer}, nil
}

func (b *Buffer) MemoryRequirements() vrtest.MemoryRequirements {
	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.device, b.handle, &req)
	req.Deref()
	return vrtest.MemoryRequirements{
		Size:      uint64(req.Size),
		Alignment: uint64(req.Alignment),
		TypeBits:  req.MemoryTypeBits,
	}
}

func (b *Buffer) Bind(memory vrtest.Memory) error {
	m, ok := memory.(*Memory)
	if !ok || m == nil {
		return errors.New("bind buffer: foreign memory")
	}
	return newError(vk.BindBufferMemory(b.device, b.handle, m.handle, 0))
}

func (b *Buffer) Destroy() {
	if b.handle != vk.NullBuffer {
		vk.DestroyBuffer(b.device, b.handle, nil)
		b.handle = vk.NullBuffer
	}
}

type Memory struct {
	device vk.Device
	handle vk.DeviceMemory
	size   uint64
}

func (d *Device) AllocateMemory(size uint64, typeIndex uint32) (vrtest.Memory, error) {
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(d.handle, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: typeIndex,
	}, nil, &memory)
	if isError(ret) {
		return nil, errors.Wrapf(newError(ret), "allocate %d bytes from type %d", size, typeIndex)
	}
	return &Memory{device: d.handle, handle: memory, size: size}, nil
}

//Write maps the range, copies and unmaps. The memory must be host visible and
//host coherent so no flush is issued.
func (m *Memory) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > m.size {
		return errors.Errorf("write of %d bytes at %d overflows %d byte allocation", len(data), offset, m.size)
	}
	var mapped unsafe.Pointer
	ret := vk.MapMemory(m.device, m.handle, vk.DeviceSize(offset), vk.DeviceSize(len(data)), 0, &mapped)
	if isError(ret) {
		return errors.Wrap(newError(ret), "map memory")
	}
	n := vk.Memcopy(mapped, data)
	vk.UnmapMemory(m.device, m.handle)
	if n != len(data) {
		return errors.Errorf("copied %d of %d bytes", n, len(data))
	}
	return nil
}

func (m *Memory) Destroy() {
	if m.handle != vk.NullDeviceMemory {
		vk.FreeMemory(m.device, m.handle, nil)
		m.handle = vk.NullDeviceMemory
	}
}
