package window

import (
	"github.com/veandco/go-sdl2/sdl"
)

// system is the slice of SDL a Window talks to. Tests swap it for a fake so
// the window logic runs without a display.
type system interface {
	Init() error
	Quit()
	CreateWindow(title string, width, height int32) (native, error)
	PollEvent() sdl.Event
}

// native is the part of *sdl.Window the Window uses.
type native interface {
	GetID() (uint32, error)
	VulkanGetInstanceExtensions() []string
	VulkanGetDrawableSize() (width, height int32)
	Destroy() error
}

type sdlSystem struct{}

func (sdlSystem) Init() error {
	return sdl.Init(sdl.INIT_VIDEO)
}

func (sdlSystem) Quit() {
	sdl.Quit()
}

func (sdlSystem) CreateWindow(title string, width, height int32) (native, error) {
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil || window == nil {
		return nil, err
	}
	return window, nil
}

func (sdlSystem) PollEvent() sdl.Event {
	return sdl.PollEvent()
}
