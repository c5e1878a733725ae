package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/vkngwrapper/vgeometry/app"
	"github.com/vkngwrapper/vgeometry/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// SDL and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %+v\n", err)
		return 1
	}

	logger, err := logging.Init(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		return 1
	}

	application, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		logging.Criticalf(logger, "Application initialization failed: %+v", err)
		return 1
	}
	defer application.Shutdown()

	return application.Run()
}
