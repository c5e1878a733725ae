// Package app owns the window and the GPU context and drives the frame loop
// between them.
package app

import (
	"time"

	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/vgeometry/failure"
	"github.com/vkngwrapper/vgeometry/gpu"
	"github.com/vkngwrapper/vgeometry/gpu/vkng"
	"github.com/vkngwrapper/vgeometry/logging"
	"github.com/vkngwrapper/vgeometry/window"
)

// appWindow is the part of *window.Window the loop drives.
type appWindow interface {
	gpu.Window
	ShouldClose() bool
	PollEvents()
	WasResized() bool
	ResetResizedFlag()
	AspectRatio() (float32, bool)
	SetResizeCallback(fn window.ResizeFunc)
	Destroy()
}

// frameContext is the part of *gpu.Context the loop drives.
type frameContext interface {
	BeginFrame() (uint32, bool)
	EndFrame()
	WaitIdle() error
	Destroy()
}

type Option func(*Application)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Application) {
		a.log = logger
	}
}

type Application struct {
	window  appWindow
	context frameContext
	camera  *Camera
	stats   Stats

	clock    func() time.Duration
	running  bool
	shutdown bool
	log      logrus.FieldLogger
}

// New opens the window and builds the GPU context on it. If the context
// cannot be built the window is destroyed again before New returns.
func New(cfg Config, opts ...Option) (*Application, error) {
	a := newApplication(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.log.Infof("Initializing application: %s", cfg.ApplicationName)

	win, err := window.New(window.Config{
		Title:  cfg.ApplicationName,
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
	}, window.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	driver, err := vkng.NewDriver()
	if err != nil {
		win.Destroy()
		return nil, failure.Wrap(failure.InitializationFailed, err, "Failed to load the Vulkan driver")
	}

	ctx, err := gpu.New(driver, win, gpu.Config{
		ApplicationName:  cfg.ApplicationName,
		EnableValidation: cfg.EnableValidation,
	}, gpu.WithLogger(a.log))
	if err != nil {
		win.Destroy()
		return nil, err
	}

	a.attach(win, ctx)
	a.log.Info("Application initialized successfully")
	return a, nil
}

func newApplication(opts ...Option) *Application {
	a := &Application{
		clock:   hrtime.Now,
		running: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logging.Or(a.log)
	return a
}

func (a *Application) attach(win appWindow, ctx frameContext) {
	a.window = win
	a.context = ctx

	aspect, ok := win.AspectRatio()
	if !ok {
		aspect = 1
	}
	a.camera = NewCamera(aspect)

	win.SetResizeCallback(func(width, height uint32) {
		a.log.Debugf("Framebuffer resized: %dx%d", width, height)
	})
}

// Run polls, updates and renders until the window asks to close or Stop is
// called, then waits for the device to go idle. It returns the process exit
// status.
func (a *Application) Run() int {
	if a.shutdown || a.window == nil {
		a.log.Warn("Run called on an application that is not initialized")
		return 0
	}

	a.log.Info("Starting main loop")

	lastFrame := a.clock()
	for a.running && !a.window.ShouldClose() {
		now := a.clock()
		delta := now - lastFrame
		lastFrame = now

		a.window.PollEvents()
		a.update(delta)
		a.render()
		a.stats.record(delta)
	}

	if err := a.context.WaitIdle(); err != nil {
		a.log.WithError(err).Error("Failed to wait for the device to go idle")
	}

	a.log.WithFields(logrus.Fields{
		"frames":  a.stats.Frames,
		"average": a.stats.AverageFrame(),
	}).Info("Main loop finished")
	return 0
}

// Stop ends the loop after the current iteration.
func (a *Application) Stop() {
	a.running = false
}

func (a *Application) update(delta time.Duration) {
	if !a.window.WasResized() {
		return
	}

	if aspect, ok := a.window.AspectRatio(); ok {
		a.camera.SetAspectRatio(aspect)
	}
	a.window.ResetResizedFlag()
}

func (a *Application) render() {
	if _, ok := a.context.BeginFrame(); ok {
		a.context.EndFrame()
	}
}

// Shutdown waits for the device, then destroys the GPU context and the
// window in that order. Calling it again does nothing.
func (a *Application) Shutdown() {
	if a.shutdown {
		return
	}
	a.shutdown = true
	a.running = false

	a.log.Info("Shutting down application")

	if a.context != nil {
		if err := a.context.WaitIdle(); err != nil {
			a.log.WithError(err).Error("Failed to wait for the device to go idle")
		}
		a.context.Destroy()
		a.context = nil
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}
}

func (a *Application) Camera() *Camera {
	return a.camera
}

func (a *Application) Stats() Stats {
	return a.stats
}
