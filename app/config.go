package app

import (
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/vgeometry/failure"
)

// Environment variables read by LoadConfig.
const (
	EnvApplicationName = "VGEO_APP_NAME"
	EnvWindowWidth     = "VGEO_WIDTH"
	EnvWindowHeight    = "VGEO_HEIGHT"
	EnvValidation      = "VGEO_VALIDATION"
	EnvLogLevel        = "VGEO_LOG_LEVEL"
)

type Config struct {
	ApplicationName  string
	WindowWidth      uint32
	WindowHeight     uint32
	EnableValidation bool
	LogLevel         string
}

func DefaultConfig() Config {
	return Config{
		ApplicationName:  "Virtual Geometry - Demo",
		WindowWidth:      1280,
		WindowHeight:     720,
		EnableValidation: true,
		LogLevel:         "info",
	}
}

// LoadConfig starts from DefaultConfig and overrides it from the environment
// (and a .env file, if envy found one).
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	cfg.ApplicationName = envString(EnvApplicationName, cfg.ApplicationName)
	cfg.LogLevel = envString(EnvLogLevel, cfg.LogLevel)

	var err error
	if cfg.WindowWidth, err = envUint32(EnvWindowWidth, cfg.WindowWidth); err != nil {
		return Config{}, err
	}
	if cfg.WindowHeight, err = envUint32(EnvWindowHeight, cfg.WindowHeight); err != nil {
		return Config{}, err
	}

	if raw := envy.Get(EnvValidation, ""); raw != "" {
		cfg.EnableValidation, err = strconv.ParseBool(raw)
		if err != nil {
			return Config{}, failure.Wrap(failure.InitializationFailed, err, EnvValidation)
		}
	}

	return cfg, nil
}

// envString treats an empty variable as unset.
func envString(key, fallback string) string {
	if value := envy.Get(key, ""); value != "" {
		return value
	}
	return fallback
}

func envUint32(key string, fallback uint32) (uint32, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, failure.Wrap(failure.InitializationFailed, err, key)
	}
	return uint32(value), nil
}

func (c Config) Validate() error {
	if c.ApplicationName == "" {
		return failure.New(failure.InitializationFailed, "application name must not be empty")
	}
	if c.WindowWidth == 0 || c.WindowHeight == 0 {
		return failure.Newf(failure.InitializationFailed, "invalid window size %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return failure.Wrap(failure.InitializationFailed, err, "invalid log level")
		}
	}
	return nil
}
