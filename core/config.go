// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration

	// Debug enables the validation layers
	Debug    bool
	LogLevel string
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the delay between window event polls in milliseconds
	EventPollDelay int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	// SwapchainSize is the requested image count, the driver
	// is free to hand out more
	SwapchainSize    uint32
	DeviceExtensions []string

	ScreenWidth  uint32
	ScreenHeight uint32

	// VSync keeps FIFO presentation, otherwise mailbox is preferred
	VSync bool

	// FramesInFlight is the number of frames the CPU may record
	// ahead of the GPU
	FramesInFlight int

	// DescriptorSetsPerFrame bounds CommitBindings calls per frame
	DescriptorSetsPerFrame uint32

	// DataDirectory holds shaders/ and textures/
	DataDirectory string

	// Archive is an optional kar archive used instead of DataDirectory
	Archive string
}

// Defaults used when a value is left out
const (
	DefaultFramesInFlight         = 2
	DefaultSwapchainSize          = 3
	DefaultDescriptorSetsPerFrame = 256
)

// DefaultConfiguration returns a configuration for a 800x600 window
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  10,
		},
		Renderer: RendererConfiguration{
			SwapchainSize:          DefaultSwapchainSize,
			ScreenWidth:            800,
			ScreenHeight:           600,
			VSync:                  true,
			FramesInFlight:         DefaultFramesInFlight,
			DescriptorSetsPerFrame: DefaultDescriptorSetsPerFrame,
			DataDirectory:          "./data",
		},
		LogLevel: "info",
	}
}

// LoadConfiguration applies KORU_* environment variables on top of base.
// A .env file in the working directory is honoured.
func LoadConfiguration(base Configuration) (Configuration, error) {
	cfg := base

	uints := []struct {
		key string
		dst *uint32
	}{
		{"KORU_WIDTH", &cfg.Renderer.ScreenWidth},
		{"KORU_HEIGHT", &cfg.Renderer.ScreenHeight},
		{"KORU_SWAPCHAIN_SIZE", &cfg.Renderer.SwapchainSize},
	}
	for _, u := range uints {
		val := envy.Get(u.key, "")
		if val == "" {
			continue
		}
		num, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return base, errors.Wrap(err, u.key)
		}
		*u.dst = uint32(num)
	}

	if val := envy.Get("KORU_FPS", ""); val != "" {
		fps, err := strconv.Atoi(val)
		if err != nil {
			return base, errors.Wrap(err, "KORU_FPS")
		}
		cfg.Time.FramesPerSecond = fps
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"KORU_VSYNC", &cfg.Renderer.VSync},
		{"KORU_VKDBG", &cfg.Debug},
	}
	for _, b := range bools {
		val := envy.Get(b.key, "")
		if val == "" {
			continue
		}
		on, err := strconv.ParseBool(val)
		if err != nil {
			return base, errors.Wrap(err, b.key)
		}
		*b.dst = on
	}

	cfg.Renderer.DataDirectory = envy.Get("KORU_DATA_DIR", cfg.Renderer.DataDirectory)
	cfg.Renderer.Archive = envy.Get("KORU_ARCHIVE", cfg.Renderer.Archive)
	cfg.LogLevel = envy.Get("KORU_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func (c RendererConfiguration) framesInFlight() int {
	if c.FramesInFlight < 1 {
		return DefaultFramesInFlight
	}
	return c.FramesInFlight
}

func (c RendererConfiguration) descriptorSetsPerFrame() uint32 {
	if c.DescriptorSetsPerFrame == 0 {
		return DefaultDescriptorSetsPerFrame
	}
	return c.DescriptorSetsPerFrame
}
