package vkdriver

import (
	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Adapter is a physical device. Properties, memory types and queue families
// are queried once at enumeration.
type Adapter struct {
	gpu          vk.PhysicalDevice
	properties   vrtest.AdapterProperties
	families     []vrtest.QueueFamily
	memory_types []vrtest.MemoryType
	log          log.FieldLogger
}

func newAdapter(gpu vk.PhysicalDevice, logger log.FieldLogger) *Adapter {
	a := &Adapter{gpu: gpu, log: logger}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	a.properties = vrtest.AdapterProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		Type:          props.DeviceType,
		APIVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
	}

	var memory vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &memory)
	memory.Deref()
	for i := uint32(0); i < memory.MemoryTypeCount; i++ {
		memory.MemoryTypes[i].Deref()
		a.memory_types = append(a.memory_types, vrtest.MemoryType{
			Flags: memory.MemoryTypes[i].PropertyFlags,
			Heap:  memory.MemoryTypes[i].HeapIndex,
		})
	}

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, families)
	for _, family := range families[:count] {
		family.Deref()
		a.families = append(a.families, vrtest.QueueFamily{
			Flags: family.QueueFlags,
			Count: family.QueueCount,
		})
	}
	return a
}

func (a *Adapter) Properties() vrtest.AdapterProperties { return a.properties }
func (a *Adapter) QueueFamilies() []vrtest.QueueFamily { return a.families }
func (a *Adapter) MemoryTypes() []vrtest.MemoryType { return a.memory_types }

func (a *Adapter) Extensions() ([]string, error) {
	return DeviceExtensions(a.gpu)
}

func (a *Adapter) SurfaceSupport(family uint32, surface vrtest.Surface) (bool, error) {
	var supported vk.Bool32
	ret := vk.GetPhysicalDeviceSurfaceSupport(a.gpu, family, surfaceHandle(surface), &supported)
	if isError(ret) {
		return false, newError(ret)
	}
	return supported.B(), nil
}

func (a *Adapter) FormatFeatures(format vk.Format) vk.FormatFeatureFlags {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(a.gpu, format, &props)
	props.Deref()
	return props.OptimalTilingFeatures
}

func (a *Adapter) SurfaceCapabilities(surface vrtest.Surface) (vrtest.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(a.gpu, surfaceHandle(surface), &caps)
	if isError(ret) {
		return vrtest.SurfaceCapabilities{}, newError(ret)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return vrtest.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           caps.CurrentExtent,
		MinExtent:               caps.MinImageExtent,
		MaxExtent:               caps.MaxImageExtent,
		SupportedTransforms:     caps.SupportedTransforms,
		CurrentTransform:        caps.CurrentTransform,
		SupportedCompositeAlpha: caps.SupportedCompositeAlpha,
	}, nil
}

func (a *Adapter) SurfaceFormats(surface vrtest.Surface) ([]vrtest.SurfaceFormat, error) {
	var count uint32
	ret := vk.GetPhysicalDeviceSurfaceFormats(a.gpu, surfaceHandle(surface), &count, nil)
	if isError(ret) {
		return nil, newError(ret)
	}
	list := make([]vk.SurfaceFormat, count)
	ret = vk.GetPhysicalDeviceSurfaceFormats(a.gpu, surfaceHandle(surface), &count, list)
	if isError(ret) {
		return nil, newError(ret)
	}

	formats := make([]vrtest.SurfaceFormat, 0, count)
	for _, format := range list[:count] {
		format.Deref()
		formats = append(formats, vrtest.SurfaceFormat{Format: format.Format, ColorSpace: format.ColorSpace})
	}
	return formats, nil
}

func (a *Adapter) PresentModes(surface vrtest.Surface) ([]vk.PresentMode, error) {
	var count uint32
	ret := vk.GetPhysicalDeviceSurfacePresentModes(a.gpu, surfaceHandle(surface), &count, nil)
	if isError(ret) {
		return nil, newError(ret)
	}
	modes := make([]vk.PresentMode, count)
	ret = vk.GetPhysicalDeviceSurfacePresentModes(a.gpu, surfaceHandle(surface), &count, modes)
	if isError(ret) {
		return nil, newError(ret)
	}
	return modes[:count], nil
}

func (a *Adapter) CreateDevice(queues []vrtest.QueueRequest, extensions []string) (vrtest.Device, error) {
	infos := make([]vk.DeviceQueueCreateInfo, 0, len(queues))
	for _, q := range queues {
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       1,
			PQueuePriorities: []float32{q.Priority},
		})
	}

	var device vk.Device
	ret := vk.CreateDevice(a.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(infos)),
		PQueueCreateInfos:       infos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}, nil, &device)
	if isError(ret) {
		return nil, errors.Wrapf(newError(ret), "create device on %s", a.properties.Name)
	}

	d := &Device{
		handle: device,
		gpu:    a.gpu,
		queues: make(map[uint32]*Queue, len(queues)),
		log:    a.log,
	}
	for _, q := range queues {
		var queue vk.Queue
		vk.GetDeviceQueue(device, q.Family, 0, &queue)
		d.queues[q.Family] = &Queue{handle: queue, family: q.Family}
	}
	return d, nil
}
