// Package window owns the native SDL window the renderer presents to.
//
// A Window exclusively owns its SDL window and, while it is alive, the SDL
// video subsystem. Only one Window may be open per process. All methods must
// be called from the thread that created the Window, which for SDL is the
// locked main thread.
package window

import (
	"math"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/vgeometry/failure"
	"github.com/vkngwrapper/vgeometry/logging"
)

// Config describes the window to open. It is not retained after New.
type Config struct {
	Title  string
	Width  uint32
	Height uint32
}

// ResizeFunc is invoked synchronously from PollEvents with the new size.
type ResizeFunc func(width, height uint32)

// Option configures a Window during New.
type Option func(*Window)

// WithLogger routes the window's lifecycle logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(w *Window) {
		w.log = logger
	}
}

func withSystem(sys system) Option {
	return func(w *Window) {
		w.sys = sys
	}
}

// subsystemClaimed is set while a Window owns the SDL video subsystem.
var subsystemClaimed atomic.Bool

// Window is a resizable SDL window that can host a Vulkan surface. Sizes are
// in pixels.
type Window struct {
	sys           system
	native        native
	id            uint32
	ownsSubsystem bool

	width   uint32
	height  uint32
	resized bool
	closing bool

	onResize ResizeFunc
	log      logrus.FieldLogger
}

// New initializes the SDL video subsystem and opens a Vulkan-capable,
// resizable window. If the window cannot be created the subsystem is shut
// down again before returning.
func New(cfg Config, opts ...Option) (*Window, error) {
	w := &Window{
		sys:    sdlSystem{},
		width:  cfg.Width,
		height: cfg.Height,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.Or(w.log)

	if cfg.Width == 0 || cfg.Height == 0 || cfg.Width > math.MaxInt32 || cfg.Height > math.MaxInt32 {
		return nil, failure.Newf(failure.WindowCreationFailed, "invalid window size %dx%d", cfg.Width, cfg.Height)
	}

	if !subsystemClaimed.CompareAndSwap(false, true) {
		return nil, failure.New(failure.InitializationFailed, "a window is already open in this process")
	}

	if err := w.sys.Init(); err != nil {
		subsystemClaimed.Store(false)
		return nil, failure.Wrap(failure.InitializationFailed, err, "Failed to initialize SDL video")
	}
	w.ownsSubsystem = true

	handle, err := w.sys.CreateWindow(cfg.Title, int32(cfg.Width), int32(cfg.Height))
	if err == nil && handle == nil {
		err = failure.New(failure.Unknown, "SDL returned no window")
	}
	if err != nil {
		w.releaseSubsystem()
		return nil, failure.Wrap(failure.WindowCreationFailed, err, "Failed to create SDL window")
	}
	w.native = handle

	id, err := handle.GetID()
	if err != nil {
		w.Destroy()
		return nil, failure.Wrap(failure.WindowCreationFailed, err, "Failed to query SDL window id")
	}
	w.id = id

	// On high-DPI displays the framebuffer is larger than the requested size.
	if width, height := handle.VulkanGetDrawableSize(); width > 0 && height > 0 {
		w.width, w.height = uint32(width), uint32(height)
	}

	w.log.Infof("Window created: %dx%d", w.width, w.height)
	return w, nil
}

// ShouldClose reports whether a close was requested by the user or by
// RequestClose. It never blocks.
func (w *Window) ShouldClose() bool {
	return w.closing
}

// RequestClose makes ShouldClose return true.
func (w *Window) RequestClose() {
	w.closing = true
}

// PollEvents drains pending SDL events. Resize callbacks run synchronously
// before it returns.
func (w *Window) PollEvents() {
	if w.native == nil {
		return
	}

	for event := w.sys.PollEvent(); event != nil; event = w.sys.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.closing = true
		case *sdl.WindowEvent:
			if e.WindowID != w.id {
				continue
			}
			switch e.Event {
			case sdl.WINDOWEVENT_CLOSE:
				w.closing = true
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				// The event carries screen coordinates; the swapchain needs pixels.
				w.handleResize(w.native.VulkanGetDrawableSize())
			case sdl.WINDOWEVENT_MINIMIZED:
				w.handleResize(0, 0)
			case sdl.WINDOWEVENT_RESTORED:
				w.handleResize(int32(w.width), int32(w.height))
			}
		}
	}
}

// handleResize is the resize trampoline. Non-positive sizes (minimized
// windows) only raise the resized flag; the last good size is kept.
func (w *Window) handleResize(width, height int32) {
	w.resized = true

	if width <= 0 || height <= 0 {
		w.log.Debugf("Window resized to %dx%d, keeping %dx%d", width, height, w.width, w.height)
		return
	}

	w.width = uint32(width)
	w.height = uint32(height)
	if w.onResize != nil {
		w.onResize(w.width, w.height)
	}

	w.log.Debugf("Window resized: %dx%d", width, height)
}

func (w *Window) Width() uint32 {
	return w.width
}

func (w *Window) Height() uint32 {
	return w.height
}

// AspectRatio returns width/height, or false when height is 0.
func (w *Window) AspectRatio() (float32, bool) {
	if w.height == 0 {
		return 0, false
	}
	return float32(w.width) / float32(w.height), true
}

// WasResized stays true until ResetResizedFlag is called.
func (w *Window) WasResized() bool {
	return w.resized
}

func (w *Window) ResetResizedFlag() {
	w.resized = false
}

// SetResizeCallback replaces the resize callback. Nil removes it.
func (w *Window) SetResizeCallback(fn ResizeFunc) {
	w.onResize = fn
}

// RequiredExtensions lists the instance extensions needed to present to this
// window. It is empty when SDL cannot report them.
func (w *Window) RequiredExtensions() []string {
	if w.native == nil {
		return []string{}
	}
	extensions := w.native.VulkanGetInstanceExtensions()
	return append([]string{}, extensions...)
}

// Handle returns the SDL window, for surface creation only. It is nil for an
// empty Window.
func (w *Window) Handle() *sdl.Window {
	handle, _ := w.native.(*sdl.Window)
	return handle
}

// Move transfers ownership of everything w holds to a new Window and leaves
// w empty; destroying w afterwards does nothing.
func (w *Window) Move() *Window {
	moved := *w
	*w = Window{sys: w.sys, log: w.log}
	return &moved
}

// Destroy releases the SDL window and, if this Window owns it, the SDL video
// subsystem. It is safe to call more than once.
func (w *Window) Destroy() {
	if w == nil || (w.native == nil && !w.ownsSubsystem) {
		return
	}

	if w.native != nil {
		if err := w.native.Destroy(); err != nil {
			w.log.WithError(err).Warn("Failed to destroy SDL window")
		}
		w.native = nil
	}
	w.releaseSubsystem()

	w.log.Info("Window destroyed")
}

func (w *Window) releaseSubsystem() {
	if !w.ownsSubsystem {
		return
	}
	w.sys.Quit()
	w.ownsSubsystem = false
	subsystemClaimed.Store(false)
}
