package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/vgeometry/gpu"
)

type instance struct {
	driver core1_0.CoreInstanceDriver
}

func (i *instance) CreateDebugMessenger(info gpu.DebugMessengerCreateInfo) (gpu.DebugMessenger, error) {
	debugDriver := ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	if debugDriver == nil {
		return nil, errors.Newf("instance does not have %s loaded", ext_debug_utils.ExtensionName)
	}

	messenger, _, err := debugDriver.CreateDebugUtilsMessenger(nil, debugMessengerOptions(info))
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateDebugUtilsMessengerEXT")
	}
	return &debugMessenger{driver: debugDriver, messenger: messenger}, nil
}

func (i *instance) CreateSurface(window *sdl.Window) (gpu.Surface, error) {
	if window == nil {
		return nil, errors.New("no SDL window to create a surface for")
	}

	surfaceExtension := khr_surface.CreateExtensionDriverFromCoreDriver(i.driver)
	if surfaceExtension == nil {
		return nil, errors.Newf("instance does not have %s loaded", khr_surface.ExtensionName)
	}

	surface, err := vkng_sdl2.CreateSurface(i.driver.Instance(), surfaceExtension, window)
	if err != nil {
		return nil, errors.Wrap(err, "SDL_Vulkan_CreateSurface")
	}
	return &presentSurface{driver: surfaceExtension, surface: surface}, nil
}

func (i *instance) EnumeratePhysicalDevices() ([]gpu.PhysicalDevice, error) {
	physicalDevices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumeratePhysicalDevices")
	}

	devices := make([]gpu.PhysicalDevice, 0, len(physicalDevices))
	for _, handle := range physicalDevices {
		devices = append(devices, &physicalDevice{driver: i.driver, handle: handle})
	}
	return devices, nil
}

func (i *instance) CreateDevice(pd gpu.PhysicalDevice, info gpu.DeviceCreateInfo) (gpu.Device, error) {
	physical, ok := pd.(*physicalDevice)
	if !ok {
		return nil, errors.Newf("physical device %T was not enumerated by this driver", pd)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, queueInfo := range info.QueueCreateInfos {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueInfo.QueueFamilyIndex,
			QueuePriorities:  queueInfo.QueuePriorities,
		})
	}

	// Portability implementations refuse device creation unless the subset
	// extension is enabled. info.EnabledLayerNames is not forwarded:
	// core1_0.DeviceCreateInfo has no layer field and always passes an empty
	// ppEnabledLayerNames.
	var extensionNames []string
	extensions, _, err := i.driver.EnumerateDeviceExtensionProperties(physical.handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateDeviceExtensionProperties")
	}
	if _, supported := extensions[khr_portability_subset.ExtensionName]; supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	handle, _, err := i.driver.CreateDevice(physical.handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateDevice")
	}

	// As with instances, vkDestroyDevice needs the device driver.
	deviceDriver, err := i.driver.BuildDeviceDriver(handle)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load device functions")
	}
	return &device{driver: deviceDriver}, nil
}

func (i *instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

type debugMessenger struct {
	driver    ext_debug_utils.ExtensionDriver
	messenger ext_debug_utils.DebugUtilsMessenger
}

func (m *debugMessenger) Destroy() {
	m.driver.DestroyDebugUtilsMessenger(m.messenger, nil)
}

type presentSurface struct {
	driver  khr_surface.ExtensionDriver
	surface khr_surface.Surface
}

func (s *presentSurface) SupportsPresent(pd gpu.PhysicalDevice, queueFamily int) (bool, error) {
	physical, ok := pd.(*physicalDevice)
	if !ok {
		return false, errors.Newf("physical device %T was not enumerated by this driver", pd)
	}

	supported, _, err := s.driver.GetPhysicalDeviceSurfaceSupport(s.surface, physical.handle, queueFamily)
	if err != nil {
		return false, errors.Wrap(err, "vkGetPhysicalDeviceSurfaceSupportKHR")
	}
	return supported, nil
}

func (s *presentSurface) Destroy() {
	s.driver.DestroySurface(s.surface, nil)
}
