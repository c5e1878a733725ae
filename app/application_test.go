package app

import (
	"math"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/vgeometry/failure"
	"github.com/vkngwrapper/vgeometry/gpu"
	"github.com/vkngwrapper/vgeometry/gpu/gputest"
	"github.com/vkngwrapper/vgeometry/window"
)

// fakeWindow writes its own destruction into the stub driver's journal so
// tests can see it relative to the GPU resources.
type fakeWindow struct {
	driver *gputest.Driver

	width, height uint32
	resized       bool
	closing       bool
	polls         int
	onPoll        func(w *fakeWindow)
	onResize      window.ResizeFunc
	destroyed     int
}

func (w *fakeWindow) RequiredExtensions() []string { return []string{"VK_KHR_surface"} }
func (w *fakeWindow) Handle() *sdl.Window          { return nil }
func (w *fakeWindow) ShouldClose() bool            { return w.closing }
func (w *fakeWindow) WasResized() bool             { return w.resized }
func (w *fakeWindow) ResetResizedFlag()            { w.resized = false }

func (w *fakeWindow) PollEvents() {
	w.polls++
	if w.onPoll != nil {
		w.onPoll(w)
	}
}

func (w *fakeWindow) AspectRatio() (float32, bool) {
	if w.height == 0 {
		return 0, false
	}
	return float32(w.width) / float32(w.height), true
}

func (w *fakeWindow) SetResizeCallback(fn window.ResizeFunc) {
	w.onResize = fn
}

func (w *fakeWindow) Destroy() {
	w.destroyed++
	w.driver.Journal = append(w.driver.Journal, "destroy window")
}

func (w *fakeWindow) resize(width, height uint32) {
	w.width, w.height = width, height
	w.resized = true
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func closeAfter(polls int) func(w *fakeWindow) {
	return func(w *fakeWindow) {
		if w.polls >= polls {
			w.closing = true
		}
	}
}

func newTestApplication(c *qt.C, validation bool) (*Application, *fakeWindow, *gputest.Driver) {
	logger, _ := test.NewNullLogger()
	driver := gputest.NewDriver()
	win := &fakeWindow{driver: driver, width: 800, height: 600}

	ctx, err := gpu.New(driver, win, gpu.Config{ApplicationName: "test", EnableValidation: validation}, gpu.WithLogger(logger))
	c.Assert(err, qt.IsNil)

	a := newApplication(WithLogger(logger))
	a.attach(win, ctx)
	return a, win, driver
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	c := qt.New(t)

	cfg := DefaultConfig()
	cfg.WindowHeight = 0

	_, err := New(cfg)
	c.Assert(failure.KindOf(err), qt.Equals, failure.InitializationFailed)
}

func TestRunUntilWindowCloses(t *testing.T) {
	c := qt.New(t)
	a, win, driver := newTestApplication(c, false)
	win.onPoll = closeAfter(3)

	c.Assert(a.Run(), qt.Equals, 0)
	c.Assert(win.polls, qt.Equals, 3)
	c.Assert(a.Stats().Frames, qt.Equals, uint64(3))
	c.Assert(driver.WaitIdleCalls, qt.Equals, 1)
	c.Assert(driver.LiveTotal(), qt.Equals, 3)

	a.Shutdown()
	c.Assert(driver.LiveTotal(), qt.Equals, 0)
}

func TestStopEndsLoopAfterCurrentIteration(t *testing.T) {
	c := qt.New(t)
	a, win, _ := newTestApplication(c, false)
	defer a.Shutdown()

	win.onPoll = func(w *fakeWindow) {
		if w.polls == 2 {
			a.Stop()
		}
	}

	c.Assert(a.Run(), qt.Equals, 0)
	c.Assert(win.polls, qt.Equals, 2)
	c.Assert(a.Stats().Frames, qt.Equals, uint64(2))
}

func TestResizeRebuildsProjection(t *testing.T) {
	c := qt.New(t)
	a, win, _ := newTestApplication(c, false)
	defer a.Shutdown()

	c.Assert(a.Camera().AspectRatio(), qt.Equals, float32(800)/float32(600))

	win.onPoll = func(w *fakeWindow) {
		if w.polls == 1 {
			w.resize(1920, 1080)
		}
		closeAfter(2)(w)
	}
	a.Run()

	c.Assert(win.resized, qt.IsFalse)
	c.Assert(a.Camera().AspectRatio(), qt.Equals, float32(1920)/float32(1080))
}

func TestMinimizedWindowKeepsProjection(t *testing.T) {
	c := qt.New(t)
	a, win, _ := newTestApplication(c, false)
	defer a.Shutdown()

	before := a.Camera().Projection()
	win.height = 0
	win.resized = true
	a.update(0)

	c.Assert(win.resized, qt.IsFalse)
	c.Assert(a.Camera().Projection(), qt.Equals, before)
}

func TestShutdownOrder(t *testing.T) {
	c := qt.New(t)
	a, win, driver := newTestApplication(c, true)

	a.Shutdown()
	a.Shutdown()

	c.Assert(driver.WaitIdleCalls, qt.Equals, 1)
	c.Assert(driver.Journal[4:], qt.DeepEquals, []string{
		"destroy device",
		"destroy debug messenger",
		"destroy surface",
		"destroy instance",
		"destroy window",
	})
	c.Assert(win.destroyed, qt.Equals, 1)
	c.Assert(driver.Violations, qt.HasLen, 0)

	c.Assert(a.Run(), qt.Equals, 0)
}

func TestFrameTiming(t *testing.T) {
	c := qt.New(t)
	a, win, _ := newTestApplication(c, false)
	defer a.Shutdown()

	var now time.Duration
	a.clock = func() time.Duration {
		now += 16 * time.Millisecond
		return now
	}
	win.onPoll = closeAfter(4)
	a.Run()

	stats := a.Stats()
	c.Assert(stats.Frames, qt.Equals, uint64(4))
	c.Assert(stats.LastFrame, qt.Equals, 16*time.Millisecond)
	c.Assert(stats.AverageFrame(), qt.Equals, 16*time.Millisecond)
	c.Assert(Stats{}.AverageFrame(), qt.Equals, time.Duration(0))
}

func TestCameraProjection(t *testing.T) {
	c := qt.New(t)

	camera := NewCamera(2)
	projection := camera.Projection()
	c.Assert(projection[5] < 0, qt.IsTrue)
	c.Assert(math.Abs(float64(projection[0]*2+projection[5])) < 1e-5, qt.IsTrue)
}
