package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/vgeometry/gpu"
)

type physicalDevice struct {
	driver core1_0.CoreInstanceDriver
	handle core1_0.PhysicalDevice
}

func (d *physicalDevice) Properties() (gpu.DeviceProperties, error) {
	properties, err := d.driver.GetPhysicalDeviceProperties(d.handle)
	if err != nil {
		return gpu.DeviceProperties{}, errors.Wrap(err, "vkGetPhysicalDeviceProperties")
	}

	return gpu.DeviceProperties{
		Name:              properties.DriverName,
		VendorID:          properties.VendorID,
		DeviceID:          properties.DeviceID,
		PipelineCacheUUID: properties.PipelineCacheUUID,
	}, nil
}

func (d *physicalDevice) QueueFamilies() []gpu.QueueFamily {
	queueFamilies := d.driver.GetPhysicalDeviceQueueFamilyProperties(d.handle)

	families := make([]gpu.QueueFamily, 0, len(queueFamilies))
	for _, queueFamily := range queueFamilies {
		families = append(families, gpu.QueueFamily{
			Graphics: (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0,
		})
	}
	return families
}

type device struct {
	driver core1_0.CoreDeviceDriver
}

// Queue is a device queue along with the family it came from.
type Queue struct {
	Handle core1_0.Queue
	family int
}

func (q *Queue) Family() int {
	return q.family
}

func (d *device) Queue(queueFamily, index int) gpu.Queue {
	return &Queue{
		Handle: d.driver.GetQueue(queueFamily, index),
		family: queueFamily,
	}
}

func (d *device) WaitIdle() error {
	_, err := d.driver.DeviceWaitIdle()
	if err != nil {
		return errors.Wrap(err, "vkDeviceWaitIdle")
	}
	return nil
}

func (d *device) Destroy() {
	d.driver.DestroyDevice(nil)
}
