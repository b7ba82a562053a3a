// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// DefaultApplicationInfo application info describes a Vulkan application
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   "Koru3D\x00",
	PEngineName:        "Koru3D\x00",
}

const (
	validationLayer      = "VK_LAYER_KHRONOS_validation"
	debugReportExtension = "VK_EXT_debug_report"
)

// InstanceConfiguration configures instance creation
type InstanceConfiguration struct {
	Extensions []string
	Layers     []string

	// DebugMode enables the validation layer and debug reports
	DebugMode bool
}

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Type          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        uint64
}

// NewInstance loads the Vulkan entry points and creates an instance.
// procAddr is the vkGetInstanceProcAddr of a window system, when nil
// the default loader is used.
func NewInstance(procAddr unsafe.Pointer, cfg InstanceConfiguration) (*Instance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, validationLayer)
		cfg.Extensions = append(cfg.Extensions, debugReportExtension)
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	extensions := safeStrings(cfg.Extensions)
	layers := safeStrings(cfg.Layers)
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        DefaultApplicationInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}

	physicalDevices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}

	log.WithFields(log.Fields{
		"extensions": cfg.Extensions,
		"layers":     cfg.Layers,
		"devices":    len(physicalDevices),
	}).Info("vulkan instance created")

	return &Instance{
		configuration:    cfg,
		instance:         instance,
		availableDevices: physicalDevices,
	}, nil
}

// Instance is a Vulkan instance along with the physical
// devices it exposes.
type Instance struct {
	configuration InstanceConfiguration

	availableDevices []vk.PhysicalDevice
	instance         vk.Instance
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	return availableDevices, nil
}

// Handle returns the vulkan Instance handle.
func (v *Instance) Handle() vk.Instance {
	return v.instance
}

// Extensions enabled on the instance
func (v *Instance) Extensions() []string {
	return v.configuration.Extensions
}

// AvailableDevices returns all physical devices
func (v *Instance) AvailableDevices() []vk.PhysicalDevice {
	return v.availableDevices
}

// SurfaceFromPointer converts a surface created by a window system.
func (v *Instance) SurfaceFromPointer(pSurface unsafe.Pointer) vk.Surface {
	return vk.SurfaceFromPointer(uintptr(pSurface))
}

// DestroySurface destroys a surface created for this instance.
func (v *Instance) DestroySurface(surface vk.Surface) {
	if surface != vk.NullSurface {
		vk.DestroySurface(v.instance, surface, nil)
	}
}

// PhysicalDevicesInfo describes every available physical device.
func (v *Instance) PhysicalDevicesInfo() []PhysicalDeviceInfo {
	pdi := make([]PhysicalDeviceInfo, len(v.availableDevices))
	for i, pd := range v.availableDevices {
		var numDeviceExtensions uint32
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, deviceExt)); err != nil {
			pdi[i].Invalid = true
		}
		for _, ext := range deviceExt {
			ext.Deref()
			pdi[i].Extensions = append(pdi[i].Extensions, vk.ToString(ext.ExtensionName[:]))
		}

		var numDeviceLayers uint32
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, deviceLayers)); err != nil {
			pdi[i].Invalid = true
		}
		for _, layer := range deviceLayers {
			layer.Deref()
			pdi[i].Layers = append(pdi[i].Layers, vk.ToString(layer.LayerName[:]))
		}

		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(pd, &memoryProperties)
		memoryProperties.Deref()
		for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			memoryProperties.MemoryHeaps[iMem].Deref()
			pdi[i].Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
		}

		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &props)
		props.Deref()
		pdi[i].ID = int(props.DeviceID)
		pdi[i].VendorID = int(props.VendorID)
		pdi[i].Name = vk.ToString(props.DeviceName[:])
		pdi[i].Type = deviceTypeName(props.DeviceType)
		pdi[i].DriverVersion = int(props.DriverVersion)
	}
	return pdi
}

func deviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

// queueFamily is what findQueueFamily needs to know about a family.
type queueFamily struct {
	flags   vk.QueueFlags
	count   uint32
	present bool
}

// findQueueFamily returns the first family that does graphics and can
// present. Separate graphics and present families are not supported.
func findQueueFamily(families []queueFamily) (uint32, error) {
	for idx, f := range families {
		if f.count > 0 && f.flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 && f.present {
			return uint32(idx), nil
		}
	}
	return 0, ErrNoQueueFamily
}

func queueFamilies(pd vk.PhysicalDevice, surface vk.Surface) []queueFamily {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)

	families := make([]queueFamily, count)
	for idx := range props {
		props[idx].Deref()
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(pd, uint32(idx), surface, &supported)
		families[idx] = queueFamily{
			flags:   props[idx].QueueFlags,
			count:   props[idx].QueueCount,
			present: supported.B(),
		}
	}
	return families
}

// pickPhysicalDevice prefers a discrete GPU among the devices that
// have a family able to render and present to surface.
func (v *Instance) pickPhysicalDevice(surface vk.Surface) (vk.PhysicalDevice, uint32, error) {
	var (
		chosen       vk.PhysicalDevice
		chosenFamily uint32
		found        bool
	)
	for _, pd := range v.availableDevices {
		family, err := findQueueFamily(queueFamilies(pd, surface))
		if err != nil {
			continue
		}

		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &props)
		props.Deref()

		if !found || props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			chosen, chosenFamily, found = pd, family, true
		}
		if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			break
		}
	}
	if !found {
		return nil, 0, errors.Wrap(ErrNoPhysicalDevice, "no device can present to the surface")
	}
	return chosen, chosenFamily, nil
}

// Release destroys the instance.
func (v *Instance) Release() {
	if v == nil || v.instance == nil {
		return
	}
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}
