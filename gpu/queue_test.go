package gpu_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vkngwrapper/vgeometry/gpu"
)

func index(i int) *int {
	return &i
}

func TestQueueFamilyIndicesComplete(t *testing.T) {
	c := qt.New(t)

	c.Assert((&gpu.QueueFamilyIndices{}).IsComplete(), qt.IsFalse)
	c.Assert((&gpu.QueueFamilyIndices{GraphicsFamily: index(0)}).IsComplete(), qt.IsFalse)
	c.Assert((&gpu.QueueFamilyIndices{PresentFamily: index(0)}).IsComplete(), qt.IsFalse)
	c.Assert((&gpu.QueueFamilyIndices{GraphicsFamily: index(0), PresentFamily: index(0)}).IsComplete(), qt.IsTrue)
}

func TestQueueFamilyIndicesUnique(t *testing.T) {
	c := qt.New(t)

	shared := gpu.QueueFamilyIndices{GraphicsFamily: index(2), PresentFamily: index(2)}
	c.Assert(shared.Unique(), qt.DeepEquals, []int{2})

	split := gpu.QueueFamilyIndices{GraphicsFamily: index(1), PresentFamily: index(0)}
	c.Assert(split.Unique(), qt.DeepEquals, []int{1, 0})
}
