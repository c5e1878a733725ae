// Package gputest provides a gpu.Driver that creates no real resources. It
// journals every create and destroy, counts live handles, and can be told to
// fail at any step of context creation.
package gputest

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/vgeometry/gpu"
)

// Step names a point of context creation a Driver can be told to fail at.
type Step int

const (
	StepNone Step = iota
	StepInstance
	StepDebugMessenger
	StepSurface
	StepPhysicalDevice
	StepDevice
)

// Resource kinds as they appear in the journal.
const (
	KindInstance       = "instance"
	KindDebugMessenger = "debug messenger"
	KindSurface        = "surface"
	KindDevice         = "device"
)

// ErrInjected is returned by the step named in Driver.FailAt.
var ErrInjected = errors.New("injected driver failure")

// QueueFamily describes one queue family of a stub PhysicalDevice.
type QueueFamily struct {
	Graphics bool
	Present  bool
}

type PhysicalDevice struct {
	Name     string
	Families []QueueFamily
}

func (d *PhysicalDevice) Properties() (gpu.DeviceProperties, error) {
	return gpu.DeviceProperties{
		Name:              d.Name,
		VendorID:          0x10de,
		DeviceID:          0x2204,
		PipelineCacheUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(d.Name)),
	}, nil
}

func (d *PhysicalDevice) QueueFamilies() []gpu.QueueFamily {
	families := make([]gpu.QueueFamily, 0, len(d.Families))
	for _, family := range d.Families {
		families = append(families, gpu.QueueFamily{Graphics: family.Graphics})
	}
	return families
}

// Driver is a gpu.Driver whose handles only exist in its bookkeeping.
type Driver struct {
	Layers     []string
	Extensions []string
	Devices    []*PhysicalDevice
	FailAt     Step

	// Journal holds "create <kind>" and "destroy <kind>" entries in call
	// order.
	Journal []string
	// Violations records destroys of already destroyed handles and instances
	// destroyed while their children were alive.
	Violations []string

	InstanceInfo  *gpu.InstanceCreateInfo
	DeviceInfo    *gpu.DeviceCreateInfo
	Debug         func(gpu.DebugMessage)
	WaitIdleCalls int
	live          map[string]int
}

// NewDriver returns a Driver with the Khronos validation layer, surface and
// debug-utils extensions, and one GPU whose single queue family can both draw
// and present.
func NewDriver() *Driver {
	return &Driver{
		Layers:     append([]string{}, gpu.DefaultValidationLayers...),
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface", gpu.DebugUtilsExtensionName},
		Devices: []*PhysicalDevice{
			{Name: "Stub GPU", Families: []QueueFamily{{Graphics: true, Present: true}}},
		},
	}
}

// Live returns how many handles of kind are currently alive.
func (d *Driver) Live(kind string) int {
	return d.live[kind]
}

// LiveTotal returns how many handles of any kind are currently alive.
func (d *Driver) LiveTotal() int {
	total := 0
	for _, count := range d.live {
		total += count
	}
	return total
}

// Count returns how many journal entries match entry exactly.
func (d *Driver) Count(entry string) int {
	count := 0
	for _, recorded := range d.Journal {
		if recorded == entry {
			count++
		}
	}
	return count
}

// Emit delivers msg to the callback the most recent instance or debug
// messenger was created with.
func (d *Driver) Emit(msg gpu.DebugMessage) {
	if d.Debug != nil {
		d.Debug(msg)
	}
}

func (d *Driver) created(kind string) {
	if d.live == nil {
		d.live = map[string]int{}
	}
	d.live[kind]++
	d.Journal = append(d.Journal, "create "+kind)
}

func (d *Driver) destroyed(kind string, h *handle) {
	if h.dead {
		d.Violations = append(d.Violations, fmt.Sprintf("%s destroyed twice", kind))
		return
	}
	h.dead = true
	d.live[kind]--
	d.Journal = append(d.Journal, "destroy "+kind)
}

func (d *Driver) AvailableLayers() (gpu.Names, error) {
	return names(d.Layers), nil
}

func (d *Driver) AvailableExtensions() (gpu.Names, error) {
	return names(d.Extensions), nil
}

func names(list []string) gpu.Names {
	set := make(gpu.Names, len(list))
	for _, name := range list {
		set[name] = struct{}{}
	}
	return set
}

func (d *Driver) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, error) {
	d.InstanceInfo = &info
	if d.FailAt == StepInstance {
		return nil, ErrInjected
	}
	if info.Debug != nil {
		d.Debug = info.Debug.Callback
	}

	d.created(KindInstance)
	return &instance{driver: d}, nil
}

type handle struct {
	dead bool
}

type instance struct {
	handle
	driver *Driver
}

func (i *instance) CreateDebugMessenger(info gpu.DebugMessengerCreateInfo) (gpu.DebugMessenger, error) {
	if i.driver.FailAt == StepDebugMessenger {
		return nil, ErrInjected
	}
	i.driver.Debug = info.Callback

	i.driver.created(KindDebugMessenger)
	return &debugMessenger{driver: i.driver}, nil
}

func (i *instance) CreateSurface(window *sdl.Window) (gpu.Surface, error) {
	if i.driver.FailAt == StepSurface {
		return nil, ErrInjected
	}

	i.driver.created(KindSurface)
	return &surface{driver: i.driver}, nil
}

func (i *instance) EnumeratePhysicalDevices() ([]gpu.PhysicalDevice, error) {
	if i.driver.FailAt == StepPhysicalDevice {
		return nil, ErrInjected
	}

	devices := make([]gpu.PhysicalDevice, 0, len(i.driver.Devices))
	for _, device := range i.driver.Devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *instance) CreateDevice(physicalDevice gpu.PhysicalDevice, info gpu.DeviceCreateInfo) (gpu.Device, error) {
	i.driver.DeviceInfo = &info
	if i.driver.FailAt == StepDevice {
		return nil, ErrInjected
	}

	i.driver.created(KindDevice)
	return &device{driver: i.driver}, nil
}

func (i *instance) Destroy() {
	for _, kind := range []string{KindDevice, KindDebugMessenger, KindSurface} {
		if i.driver.live[kind] > 0 {
			i.driver.Violations = append(i.driver.Violations, fmt.Sprintf("instance destroyed with live %s", kind))
		}
	}
	i.driver.destroyed(KindInstance, &i.handle)
}

type debugMessenger struct {
	handle
	driver *Driver
}

func (m *debugMessenger) Destroy() {
	m.driver.destroyed(KindDebugMessenger, &m.handle)
}

type surface struct {
	handle
	driver *Driver
}

func (s *surface) SupportsPresent(physicalDevice gpu.PhysicalDevice, queueFamily int) (bool, error) {
	device, ok := physicalDevice.(*PhysicalDevice)
	if !ok {
		return false, errors.Newf("unknown physical device %T", physicalDevice)
	}
	if queueFamily < 0 || queueFamily >= len(device.Families) {
		return false, errors.Newf("queue family %d out of range", queueFamily)
	}
	return device.Families[queueFamily].Present, nil
}

func (s *surface) Destroy() {
	s.driver.destroyed(KindSurface, &s.handle)
}

type device struct {
	handle
	driver *Driver
}

type queue struct {
	family int
}

func (q queue) Family() int {
	return q.family
}

func (d *device) Queue(queueFamily, index int) gpu.Queue {
	return queue{family: queueFamily}
}

func (d *device) WaitIdle() error {
	d.driver.WaitIdleCalls++
	return nil
}

func (d *device) Destroy() {
	d.driver.destroyed(KindDevice, &d.handle)
}
