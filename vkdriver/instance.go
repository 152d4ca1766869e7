package vkdriver

import (
	"strings"

	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Instance wraps a vk.Instance and its optional debug report callback.
type Instance struct {
	handle         vk.Instance
	debug_callback vk.DebugReportCallback
	log            log.FieldLogger
}

// OpenInstance creates the instance with every required extension. Missing
// validation layers are logged and skipped.
func (b *Backend) OpenInstance(info vrtest.InstanceInfo) (vrtest.Instance, error) {
	logger := b.Log
	if logger == nil {
		logger = log.StandardLogger()
	}

	available, err := InstanceExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	if missing := vrtest.MissingExtensions(info.Extensions, available); len(missing) > 0 {
		return nil, errors.Errorf("missing instance extensions: %s", strings.Join(missing, ", "))
	}

	var layers []string
	if len(info.Layers) > 0 {
		actual, err := ValidationLayers()
		if err != nil {
			return nil, errors.Wrap(err, "enumerate validation layers")
		}
		missing := vrtest.MissingExtensions(info.Layers, actual)
		if len(missing) > 0 {
			logger.WithField("layers", strings.Join(missing, ",")).Warn("vulkan: validation layers unavailable")
		}
		for _, layer := range info.Layers {
			if len(vrtest.MissingExtensions([]string{layer}, actual)) == 0 {
				layers = append(layers, layer)
			}
		}
	}
	logger.WithFields(log.Fields{
		"extensions": len(info.Extensions),
		"layers":     len(layers),
	}).Debug("vulkan: creating instance")

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			EngineVersion:      uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(info.AppName),
			PEngineName:        safeString(info.EngineName),
		},
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &instance)
	if err := newError(ret); err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "init instance")
	}

	inst := &Instance{handle: instance, log: logger}
	if info.Debug {
		debug_log = logger
		ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}, nil, &inst.debug_callback)
		if err := newError(ret); err != nil {
			inst.Destroy()
			return nil, errors.Wrap(err, "create debug report callback")
		}
		logger.Info("vulkan: debug report callback enabled")
	}
	return inst, nil
}

// Handle returns the vk.Instance for surface providers.
func (i *Instance) Handle() interface{} {
	return i.handle
}

func (i *Instance) WrapSurface(ptr uintptr) (vrtest.Surface, error) {
	if ptr == 0 {
		return nil, errors.New("null surface handle")
	}
	return &Surface{instance: i.handle, handle: vk.SurfaceFromPointer(ptr)}, nil
}

func (i *Instance) Adapters() ([]vrtest.Adapter, error) {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(i.handle, &count, nil)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "enumerate physical devices")
	}
	if count == 0 {
		return nil, nil
	}
	gpus := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(i.handle, &count, gpus)
	if isError(ret) {
		return nil, errors.Wrap(newError(ret), "enumerate physical devices")
	}

	adapters := make([]vrtest.Adapter, 0, count)
	for _, gpu := range gpus[:count] {
		adapters = append(adapters, newAdapter(gpu, i.log))
	}
	return adapters, nil
}

func (i *Instance) Destroy() {
	if i.handle == nil {
		return
	}
	if i.debug_callback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(i.handle, i.debug_callback, nil)
		i.debug_callback = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(i.handle, nil)
	i.handle = nil
}

// Surface is a window surface adopted from a surface provider.
type Surface struct {
	instance vk.Instance
	handle   vk.Surface
}

func (s *Surface) Destroy() {
	if s.handle != vk.NullSurface {
		vk.DestroySurface(s.instance, s.handle, nil)
		s.handle = vk.NullSurface
	}
}

func surfaceHandle(s vrtest.Surface) vk.Surface {
	if surface, ok := s.(*Surface); ok && surface != nil {
		return surface.handle
	}
	return vk.NullSurface
}
