package gpu

import (
	"github.com/google/uuid"
	"github.com/veandco/go-sdl2/sdl"
)

// DebugUtilsExtensionName is the instance extension that carries the debug
// messenger.
const DebugUtilsExtensionName = "VK_EXT_debug_utils"

// Names is a set of layer or extension names.
type Names map[string]struct{}

// Driver is the process's entry point into the graphics API. The production
// implementation lives in gpu/vkng; gpu/gputest provides a tracking stub.
type Driver interface {
	AvailableLayers() (Names, error)
	AvailableExtensions() (Names, error)
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

type InstanceCreateInfo struct {
	ApplicationName       string
	EnabledExtensionNames []string
	EnabledLayerNames     []string

	// Debug, when set, is chained into instance creation so that instance
	// creation and destruction are reported as well.
	Debug *DebugMessengerCreateInfo
}

// Instance owns the connection to the driver. Everything it creates must be
// destroyed before it is.
type Instance interface {
	CreateDebugMessenger(info DebugMessengerCreateInfo) (DebugMessenger, error)
	CreateSurface(window *sdl.Window) (Surface, error)
	EnumeratePhysicalDevices() ([]PhysicalDevice, error)
	CreateDevice(physicalDevice PhysicalDevice, info DeviceCreateInfo) (Device, error)
	Destroy()
}

type DebugMessenger interface {
	Destroy()
}

type Surface interface {
	SupportsPresent(physicalDevice PhysicalDevice, queueFamily int) (bool, error)
	Destroy()
}

// PhysicalDevice is a driver-enumerated GPU. It is not owned by anyone in
// this process and is never destroyed.
type PhysicalDevice interface {
	Properties() (DeviceProperties, error)
	QueueFamilies() []QueueFamily
}

type DeviceProperties struct {
	Name              string
	VendorID          uint32
	DeviceID          uint32
	PipelineCacheUUID uuid.UUID
}

type QueueFamily struct {
	Graphics bool
}

type DeviceQueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos []DeviceQueueCreateInfo
	// EnabledLayerNames is ignored by current drivers but still honoured by
	// older ones.
	EnabledLayerNames []string
}

type Device interface {
	Queue(queueFamily, index int) Queue
	WaitIdle() error
	Destroy()
}

// Queue is a view into a Device; it dies with the device.
type Queue interface {
	Family() int
}

// Window is what a Context needs from the window it presents to.
type Window interface {
	RequiredExtensions() []string
	// Handle is used for surface creation only.
	Handle() *sdl.Window
}
