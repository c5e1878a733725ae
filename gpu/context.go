// Package gpu creates and tears down the Vulkan execution context: instance,
// optional debug messenger, presentation surface, physical device, logical
// device and its graphics and present queues.
//
// The driver itself sits behind the Driver interface so the lifecycle logic
// can be exercised without a GPU. A Context is single-threaded and must be
// used from the thread that created its window.
package gpu

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/vgeometry/failure"
	"github.com/vkngwrapper/vgeometry/logging"
)

// DefaultValidationLayers is used when validation is enabled and
// Config.ValidationLayers is empty.
var DefaultValidationLayers = []string{"VK_LAYER_KHRONOS_validation"}

type Config struct {
	ApplicationName  string
	EnableValidation bool
	ValidationLayers []string
}

type Option func(*Context)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Context) {
		c.log = logger
	}
}

// Context owns every native resource it creates and releases them in the
// reverse order: device, debug messenger, surface, instance. A zero or
// moved-from Context holds nothing and Destroy on it does nothing.
type Context struct {
	id         uuid.UUID
	log        logrus.FieldLogger
	validation bool
	layers     []string

	instance       Instance
	messenger      DebugMessenger
	surface        Surface
	physicalDevice PhysicalDevice
	families       QueueFamilyIndices
	device         Device
	graphicsQueue  Queue
	presentQueue   Queue
}

// New runs the five creation steps in order. The first failing step aborts
// the rest and everything created before it is destroyed before New returns.
func New(driver Driver, window Window, cfg Config, opts ...Option) (*Context, error) {
	c := &Context{
		id:         uuid.New(),
		validation: cfg.EnableValidation,
		layers:     append([]string{}, cfg.ValidationLayers...),
	}
	if len(c.layers) == 0 {
		c.layers = append(c.layers, DefaultValidationLayers...)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.Or(c.log).WithField("context", c.id.String())

	c.log.Info("Initializing Vulkan context")

	initialized := false
	defer func() {
		if !initialized {
			c.Destroy()
		}
	}()

	if err := c.createInstance(driver, window.RequiredExtensions(), cfg.ApplicationName); err != nil {
		return nil, err
	}
	if err := c.setupDebugMessenger(); err != nil {
		return nil, err
	}
	if err := c.createSurface(window); err != nil {
		return nil, err
	}
	if err := c.pickPhysicalDevice(); err != nil {
		return nil, err
	}
	if err := c.createLogicalDevice(); err != nil {
		return nil, err
	}

	initialized = true
	c.log.Info("Vulkan context initialized successfully")
	return c, nil
}

func (c *Context) debugMessengerCreateInfo() DebugMessengerCreateInfo {
	return DebugMessengerCreateInfo{
		Callback: forwardDebugMessages(c.log),
	}
}

func (c *Context) checkValidationLayerSupport(driver Driver) error {
	available, err := driver.AvailableLayers()
	if err != nil {
		return failure.Wrap(failure.ValidationLayersUnavailable, err, "Failed to enumerate instance layers")
	}

	for _, layer := range c.layers {
		if _, ok := available[layer]; !ok {
			return failure.Newf(failure.ValidationLayersUnavailable, "Validation layers requested but not available: %s", layer)
		}
	}
	return nil
}

func (c *Context) createInstance(driver Driver, windowExtensions []string, appName string) error {
	if c.validation {
		if err := c.checkValidationLayerSupport(driver); err != nil {
			return err
		}
	}

	available, err := driver.AvailableExtensions()
	if err != nil {
		return failure.Wrap(failure.InstanceCreationFailed, err, "Failed to enumerate instance extensions")
	}

	extensions := append([]string{}, windowExtensions...)
	if c.validation {
		extensions = append(extensions, DebugUtilsExtensionName)
	}
	for _, ext := range extensions {
		if _, ok := available[ext]; !ok {
			return failure.Newf(failure.InstanceCreationFailed, "Required instance extension not available: %s", ext)
		}
	}

	info := InstanceCreateInfo{
		ApplicationName:       appName,
		EnabledExtensionNames: extensions,
	}
	if c.validation {
		debug := c.debugMessengerCreateInfo()
		info.EnabledLayerNames = c.layers
		info.Debug = &debug
	}

	instance, err := driver.CreateInstance(info)
	if err != nil {
		return failure.Wrap(failure.InstanceCreationFailed, err, "Failed to create Vulkan instance")
	}
	c.instance = instance

	c.log.WithField("extensions", extensions).Info("Vulkan instance created")
	return nil
}

func (c *Context) setupDebugMessenger() error {
	if !c.validation {
		return nil
	}

	messenger, err := c.instance.CreateDebugMessenger(c.debugMessengerCreateInfo())
	if err != nil {
		return failure.Wrap(failure.DebugMessengerCreationFailed, err, "Failed to set up debug messenger")
	}
	c.messenger = messenger

	c.log.Info("Debug messenger created")
	return nil
}

func (c *Context) createSurface(window Window) error {
	surface, err := c.instance.CreateSurface(window.Handle())
	if err != nil {
		return failure.Wrap(failure.SurfaceCreationFailed, err, "Failed to create window surface")
	}
	c.surface = surface

	c.log.Info("Window surface created")
	return nil
}

func (c *Context) pickPhysicalDevice() error {
	devices, err := c.instance.EnumeratePhysicalDevices()
	if err != nil {
		return failure.Wrap(failure.DeviceNotFound, err, "Failed to enumerate GPUs")
	}
	if len(devices) == 0 {
		return failure.New(failure.DeviceNotFound, "Failed to find GPUs with Vulkan support")
	}

	for _, device := range devices {
		indices, err := findQueueFamilies(device, c.surface)
		if err != nil {
			c.log.WithError(err).Warn("Skipping GPU, could not query present support")
			continue
		}

		if indices.IsComplete() {
			c.physicalDevice = device
			c.families = indices
			break
		}
	}

	if c.physicalDevice == nil {
		return failure.New(failure.DeviceNotFound, "Failed to find a suitable GPU")
	}

	props, err := c.physicalDevice.Properties()
	if err != nil {
		c.log.WithError(err).Warn("Could not read properties of the selected GPU")
		return nil
	}
	c.log.WithFields(logrus.Fields{
		"vendor":         props.VendorID,
		"device":         props.DeviceID,
		"pipeline_cache": props.PipelineCacheUUID.String(),
		"graphics":       *c.families.GraphicsFamily,
		"present":        *c.families.PresentFamily,
	}).Infof("Selected GPU: %s", props.Name)
	return nil
}

func (c *Context) createLogicalDevice() error {
	var queueInfos []DeviceQueueCreateInfo
	for _, queueFamily := range c.families.Unique() {
		queueInfos = append(queueInfos, DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{1.0},
		})
	}

	info := DeviceCreateInfo{QueueCreateInfos: queueInfos}
	if c.validation {
		info.EnabledLayerNames = c.layers
	}

	device, err := c.instance.CreateDevice(c.physicalDevice, info)
	if err != nil {
		return failure.Wrap(failure.DeviceCreationFailed, err, "Failed to create logical device")
	}
	c.device = device
	c.graphicsQueue = device.Queue(*c.families.GraphicsFamily, 0)
	c.presentQueue = device.Queue(*c.families.PresentFamily, 0)

	c.log.Info("Logical device created")
	return nil
}

// BeginFrame will acquire the next swapchain image once presentation exists.
// For now no image is ever available.
func (c *Context) BeginFrame() (uint32, bool) {
	return 0, false
}

func (c *Context) EndFrame() {}

// WaitIdle blocks until the device has finished all submitted work. It does
// nothing when there is no device.
func (c *Context) WaitIdle() error {
	if c == nil || c.device == nil {
		return nil
	}
	return c.device.WaitIdle()
}

// Destroy releases what this Context created, device first and instance
// last, and leaves it empty. It does not wait for the device to go idle.
func (c *Context) Destroy() {
	if c == nil || c.instance == nil {
		return
	}

	if c.device != nil {
		c.device.Destroy()
		c.device = nil
		c.graphicsQueue = nil
		c.presentQueue = nil
	}

	if c.validation && c.messenger != nil {
		c.messenger.Destroy()
	}
	c.messenger = nil

	if c.surface != nil {
		c.surface.Destroy()
		c.surface = nil
	}

	c.physicalDevice = nil
	c.families = QueueFamilyIndices{}

	c.instance.Destroy()
	c.instance = nil

	c.log.Info("Vulkan context destroyed")
}

// Move hands every resource c owns to a new Context and leaves c empty.
func (c *Context) Move() *Context {
	moved := *c
	*c = Context{
		id:         c.id,
		log:        c.log,
		validation: c.validation,
	}
	return &moved
}

// TakeFrom destroys c's own resources and then adopts other's, leaving other
// empty. Taking from itself does nothing.
func (c *Context) TakeFrom(other *Context) {
	if other == nil || other == c {
		return
	}
	c.Destroy()
	*c = *other.Move()
}

func (c *Context) ID() uuid.UUID {
	return c.id
}

func (c *Context) Instance() Instance {
	return c.instance
}

func (c *Context) Device() Device {
	return c.device
}

func (c *Context) PhysicalDevice() PhysicalDevice {
	return c.physicalDevice
}

func (c *Context) GraphicsQueue() Queue {
	return c.graphicsQueue
}

func (c *Context) PresentQueue() Queue {
	return c.presentQueue
}

func (c *Context) QueueFamilies() QueueFamilyIndices {
	return c.families
}

func (c *Context) ValidationEnabled() bool {
	return c.validation
}

// ValidationLayers returns the resolved layer list, even when validation is
// off.
func (c *Context) ValidationLayers() []string {
	return append([]string{}, c.layers...)
}
