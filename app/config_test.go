package app

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/envy"

	"github.com/vkngwrapper/vgeometry/failure"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := qt.New(t)

	envy.Temp(func() {
		for _, key := range []string{EnvApplicationName, EnvWindowWidth, EnvWindowHeight, EnvValidation, EnvLogLevel} {
			envy.Set(key, "")
		}

		cfg, err := LoadConfig()
		c.Assert(err, qt.IsNil)
		c.Assert(cfg, qt.DeepEquals, DefaultConfig())
	})
}

func TestLoadConfigOverrides(t *testing.T) {
	c := qt.New(t)

	envy.Temp(func() {
		envy.Set(EnvApplicationName, "Bunny")
		envy.Set(EnvWindowWidth, "800")
		envy.Set(EnvWindowHeight, "600")
		envy.Set(EnvValidation, "false")
		envy.Set(EnvLogLevel, "debug")

		cfg, err := LoadConfig()
		c.Assert(err, qt.IsNil)
		c.Assert(cfg, qt.DeepEquals, Config{
			ApplicationName:  "Bunny",
			WindowWidth:      800,
			WindowHeight:     600,
			EnableValidation: false,
			LogLevel:         "debug",
		})
		c.Assert(cfg.Validate(), qt.IsNil)
	})
}

func TestLoadConfigMalformed(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		key   string
		value string
	}{
		{EnvWindowWidth, "wide"},
		{EnvWindowHeight, "-1"},
		{EnvWindowWidth, "4294967296"},
		{EnvValidation, "maybe"},
	}

	for _, tt := range tests {
		envy.Temp(func() {
			envy.Set(tt.key, tt.value)

			_, err := LoadConfig()
			c.Assert(failure.KindOf(err), qt.Equals, failure.InitializationFailed)
			c.Assert(err, qt.ErrorMatches, tt.key+": .*")
		})
	}
}

func TestValidate(t *testing.T) {
	c := qt.New(t)

	c.Assert(DefaultConfig().Validate(), qt.IsNil)

	for _, mutate := range []func(*Config){
		func(cfg *Config) { cfg.ApplicationName = "" },
		func(cfg *Config) { cfg.WindowWidth = 0 },
		func(cfg *Config) { cfg.WindowHeight = 0 },
		func(cfg *Config) { cfg.LogLevel = "loud" },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		c.Assert(failure.KindOf(cfg.Validate()), qt.Equals, failure.InitializationFailed)
	}
}
