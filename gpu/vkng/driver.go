// Package vkng implements gpu.Driver with vkngwrapper.
package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"

	"github.com/vkngwrapper/vgeometry/gpu"
)

const engineName = "No Engine"

// Driver is the Vulkan loader as seen through SDL.
type Driver struct {
	global core1_0.GlobalDriver
}

var _ gpu.Driver = (*Driver)(nil)

// NewDriver loads the global Vulkan driver from SDL's loader. SDL only loads
// Vulkan once a window with the Vulkan flag exists, so the window must be
// created first.
func NewDriver() (*Driver, error) {
	global, err := core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load the Vulkan driver")
	}
	return &Driver{global: global}, nil
}

func (d *Driver) AvailableLayers() (gpu.Names, error) {
	layers, _, err := d.global.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceLayerProperties")
	}

	names := make(gpu.Names, len(layers))
	for name := range layers {
		names[name] = struct{}{}
	}
	return names, nil
}

func (d *Driver) AvailableExtensions() (gpu.Names, error) {
	extensions, _, err := d.global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceExtensionProperties")
	}

	names := make(gpu.Names, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, nil
}

func (d *Driver) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            engineName,
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledExtensionNames: append([]string{}, info.EnabledExtensionNames...),
		EnabledLayerNames:     append([]string{}, info.EnabledLayerNames...),
	}

	// Portability drivers (MoltenVK) are only enumerated when asked for.
	extensions, _, err := d.global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceExtensionProperties")
	}
	if _, supported := extensions[khr_portability_enumeration.ExtensionName]; supported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if info.Debug != nil {
		instanceOptions.Next = debugMessengerOptions(*info.Debug)
	}

	handle, _, err := d.global.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateInstance")
	}

	// vkDestroyInstance is only reachable through the instance driver, so a
	// handle whose driver cannot be built cannot be released here.
	instanceDriver, err := d.global.BuildInstanceDriver(handle)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load instance functions")
	}
	return &instance{driver: instanceDriver}, nil
}

func debugMessengerOptions(info gpu.DebugMessengerCreateInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := info.Callback
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			if callback != nil && data != nil {
				callback(gpu.DebugMessage{
					Severity: mapSeverity(severity),
					Type:     msgType.String(),
					Message:  data.Message,
				})
			}
			return false
		},
	}
}

func mapSeverity(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) gpu.Severity {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return gpu.SeverityError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return gpu.SeverityWarning
	}
	return gpu.SeverityInfo
}
