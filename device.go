package vrtest

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceManager owns the selected adapter, the logical device and the queues
// used for graphics work and presentation.
type DeviceManager struct {
	adapter      Adapter
	properties   AdapterProperties
	device       Device
	queues       QueueSelection
	graphics     Queue
	present      Queue
	memory_types []MemoryType
	log          log.FieldLogger
}

// IsGPU reports whether the device kind is integrated or discrete.
func IsGPU(kind vk.PhysicalDeviceType) bool {
	return kind == vk.PhysicalDeviceTypeIntegratedGpu || kind == vk.PhysicalDeviceTypeDiscreteGpu
}

// SelectAdapter returns the first GPU class adapter supporting every required
// extension. There is no scoring, enumeration order decides.
func SelectAdapter(adapters []Adapter, required []string, logger log.FieldLogger) (Adapter, error) {
	for _, adapter := range adapters {
		props := adapter.Properties()
		entry := logger.WithField("adapter", props.Name)

		if !IsGPU(props.Type) {
			entry.WithField("type", deviceTypeName(props.Type)).Debug("skipping adapter, not a GPU")
			continue
		}

		supported, err := adapter.Extensions()
		if err != nil {
			return nil, fatal("enumerate device extensions", err)
		}
		if missing := MissingExtensions(required, supported); len(missing) > 0 {
			entry.WithField("missing", strings.Join(missing, ",")).Debug("skipping adapter, missing extensions")
			continue
		}
		return adapter, nil
	}
	return nil, fatalf("select adapter", "no suitable adapter among %d candidates", len(adapters))
}

// SelectAndCreate picks an adapter able to present to surface, creates the
// logical device with the required extensions and fetches one queue per
// distinct family.
func SelectAndCreate(instance Instance, surface Surface, required []string, logger log.FieldLogger) (*DeviceManager, error) {
	adapters, err := instance.Adapters()
	if err != nil {
		return nil, fatal("enumerate adapters", err)
	}
	if len(adapters) == 0 {
		return nil, fatalf("enumerate adapters", "no physical devices found")
	}

	adapter, err := SelectAdapter(adapters, required, logger)
	if err != nil {
		return nil, err
	}

	queues, err := SelectQueueFamilies(adapter, surface)
	if err != nil {
		return nil, err
	}

	device, err := adapter.CreateDevice(queues.Requests(), required)
	if err != nil {
		return nil, fatal("create device", err)
	}

	dm := &DeviceManager{
		adapter:      adapter,
		properties:   adapter.Properties(),
		device:       device,
		queues:       queues,
		memory_types: adapter.MemoryTypes(),
		log:          logger,
	}
	dm.graphics = device.Queue(queues.Graphics)
	dm.present = device.Queue(queues.Present)

	logger.WithFields(log.Fields{
		"adapter":  dm.properties.Name,
		"type":     deviceTypeName(dm.properties.Type),
		"api":      versionString(dm.properties.APIVersion),
		"graphics": queues.Graphics,
		"present":  queues.Present,
	}).Info("device created")

	return dm, nil
}

func (dm *DeviceManager) Adapter() Adapter { return dm.adapter }
func (dm *DeviceManager) Properties() AdapterProperties { return dm.properties }
func (dm *DeviceManager) Device() Device { return dm.device }
func (dm *DeviceManager) Queues() QueueSelection { return dm.queues }
func (dm *DeviceManager) GraphicsFamily() uint32 { return dm.queues.Graphics }
func (dm *DeviceManager) PresentFamily() uint32 { return dm.queues.Present }
func (dm *DeviceManager) GraphicsQueue() Queue { return dm.graphics }
func (dm *DeviceManager) PresentQueue() Queue { return dm.present }
func (dm *DeviceManager) MemoryTypes() []MemoryType { return dm.memory_types }

// FindMemoryType resolves a memory type index for an allocation.
func (dm *DeviceManager) FindMemoryType(typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	return FindMemoryType(dm.memory_types, typeBits, required)
}

// Destroy releases the logical device. The caller waits for idle first.
func (dm *DeviceManager) Destroy() {
	if dm.device != nil {
		dm.device.Destroy()
		dm.device = nil
	}
}

// FindMemoryType returns the first memory type allowed by typeBits whose
// property flags include all of required.
func FindMemoryType(types []MemoryType, typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	for i, mem := range types {
		if i >= 32 {
			break
		}
		if typeBits&(1<<uint(i)) != 0 && mem.Flags&required == required {
			return uint32(i), nil
		}
	}
	return 0, fatalf("find memory type", "no memory type matches bits %#x with flags %#x", typeBits, uint32(required))
}

func deviceTypeName(kind vk.PhysicalDeviceType) string {
	switch kind {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

func versionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3ff, v&0xfff)
}
