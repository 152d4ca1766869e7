package vrtest

import (
	vk "github.com/vulkan-go/vulkan"
)

// VertexBuffer is a host visible, host coherent buffer holding packed
// vertices. It is written once at creation.
type VertexBuffer struct {
	buffer Buffer
	memory Memory
	count  uint32
	size   uint64
}

func NewVertexBuffer(dm *DeviceManager, vertices []Vertex) (*VertexBuffer, error) {
	if len(vertices) == 0 {
		return nil, fatalf("create vertex buffer", "no vertices")
	}
	data := PackVertices(vertices)

	v := &VertexBuffer{
		count: uint32(len(vertices)),
		size:  uint64(len(data)),
	}
	if err := v.create(dm, data); err != nil {
		v.Destroy()
		return nil, err
	}
	return v, nil
}

func (v *VertexBuffer) create(dm *DeviceManager, data []byte) error {
	var err error
	device := dm.Device()

	v.buffer, err = device.NewBuffer(v.size, vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		return fatal("create vertex buffer", err)
	}

	req := v.buffer.MemoryRequirements()
	index, err := dm.FindMemoryType(req.TypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}

	v.memory, err = device.AllocateMemory(req.Size, index)
	if err != nil {
		return fatal("allocate vertex memory", err)
	}
	if err := v.buffer.Bind(v.memory); err != nil {
		return fatal("bind vertex memory", err)
	}
	if err := v.memory.Write(0, data); err != nil {
		return fatal("upload vertices", err)
	}
	return nil
}

func (v *VertexBuffer) Buffer() Buffer { return v.buffer }
func (v *VertexBuffer) Count() uint32 { return v.count }
func (v *VertexBuffer) Size() uint64 { return v.size }

func (v *VertexBuffer) Destroy() {
	if v.buffer != nil {
		v.buffer.Destroy()
		v.buffer = nil
	}
	if v.memory != nil {
		v.memory.Destroy()
		v.memory = nil
	}
}
