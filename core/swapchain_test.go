// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseSurfaceFormat(t *testing.T) {
	c := qt.New(t)

	srgb := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	unorm := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	rgba := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	tests := []struct {
		about   string
		formats []vk.SurfaceFormat
		want    vk.SurfaceFormat
	}{{
		about: "no formats reported",
		want:  srgb,
	}, {
		about:   "surface has no preference",
		formats: []vk.SurfaceFormat{{Format: vk.FormatUndefined}},
		want:    srgb,
	}, {
		about:   "srgb preferred over unorm",
		formats: []vk.SurfaceFormat{rgba, unorm, srgb},
		want:    srgb,
	}, {
		about:   "unorm preferred over anything else",
		formats: []vk.SurfaceFormat{rgba, unorm},
		want:    unorm,
	}, {
		about:   "first format as a last resort",
		formats: []vk.SurfaceFormat{rgba},
		want:    rgba,
	}}

	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			c.Assert(chooseSurfaceFormat(test.formats), qt.Equals, test.want)
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	c := qt.New(t)

	all := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo, vk.PresentModeMailbox}
	c.Assert(choosePresentMode(all, true), qt.Equals, vk.PresentModeFifo)
	c.Assert(choosePresentMode(all, false), qt.Equals, vk.PresentModeMailbox)
	c.Assert(choosePresentMode([]vk.PresentMode{vk.PresentModeFifo}, false), qt.Equals, vk.PresentModeFifo)
}

func TestChooseExtent(t *testing.T) {
	c := qt.New(t)

	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1280, Height: 720},
		MinImageExtent: vk.Extent2D{Width: 16, Height: 16},
		MaxImageExtent: vk.Extent2D{Width: 2048, Height: 2048},
	}
	c.Assert(chooseExtent(caps, 800, 600), qt.Equals, vk.Extent2D{Width: 1280, Height: 720})

	caps.CurrentExtent = vk.Extent2D{Width: undefinedExtent, Height: undefinedExtent}
	c.Assert(chooseExtent(caps, 800, 600), qt.Equals, vk.Extent2D{Width: 800, Height: 600})
	c.Assert(chooseExtent(caps, 4000, 8), qt.Equals, vk.Extent2D{Width: 2048, Height: 16})
}

func TestChooseImageCount(t *testing.T) {
	c := qt.New(t)

	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 3}
	c.Assert(chooseImageCount(caps, 1), qt.Equals, uint32(2))
	c.Assert(chooseImageCount(caps, 3), qt.Equals, uint32(3))
	c.Assert(chooseImageCount(caps, 5), qt.Equals, uint32(3))

	// no upper bound
	caps.MaxImageCount = 0
	c.Assert(chooseImageCount(caps, 5), qt.Equals, uint32(5))
}

func TestChooseCompositeAlpha(t *testing.T) {
	c := qt.New(t)

	c.Assert(chooseCompositeAlpha(vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit|vk.CompositeAlphaOpaqueBit)), qt.Equals, vk.CompositeAlphaOpaqueBit)
	c.Assert(chooseCompositeAlpha(vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit)), qt.Equals, vk.CompositeAlphaInheritBit)
}

func TestChooseDepthFormat(t *testing.T) {
	c := qt.New(t)
	f := newFakeDriver()

	format, err := chooseDepthFormat(f, f.physicalDevice)
	c.Assert(err, qt.IsNil)
	c.Assert(format, qt.Equals, vk.FormatD32Sfloat)

	f.depthFormats = map[vk.Format]bool{vk.FormatD16Unorm: true, vk.FormatD24UnormS8Uint: true}
	format, err = chooseDepthFormat(f, f.physicalDevice)
	c.Assert(err, qt.IsNil)
	c.Assert(format, qt.Equals, vk.FormatD24UnormS8Uint)

	f.depthFormats = nil
	_, err = chooseDepthFormat(f, f.physicalDevice)
	c.Assert(err, qt.Equals, ErrNoDepthFormat)
}

func TestNewDeviceWithoutDepthFormat(t *testing.T) {
	c := qt.New(t)
	f := newFakeDriver()
	f.depthFormats = nil

	_, err := newDevice(f, deviceParams{
		physicalDevice: f.physicalDevice,
		surface:        f.surface,
		device:         f.device,
	}, testConfig())
	c.Assert(err, qt.Equals, ErrNoDepthFormat)
	c.Assert(f.leaks(), qt.HasLen, 0)
}

func TestNewDeviceSurfaceUnsupported(t *testing.T) {
	c := qt.New(t)
	f := newFakeDriver()
	f.presentModes = nil

	_, err := newDevice(f, deviceParams{
		physicalDevice: f.physicalDevice,
		surface:        f.surface,
		device:         f.device,
	}, testConfig())
	c.Assert(err, qt.ErrorIs, ErrSurfaceUnsupported)
	c.Assert(f.leaks(), qt.HasLen, 0)
}

func TestSwapchainHonoursConfiguration(t *testing.T) {
	c := qt.New(t)
	f := newFakeDriver()
	cfg := testConfig()
	cfg.SwapchainSize = 2
	cfg.VSync = false
	d := newTestDevice(c, f, cfg)
	defer d.Close()

	s := d.Swapchain()
	c.Assert(s.ImageCount(), qt.Equals, 2)
	c.Assert(s.PresentMode(), qt.Equals, vk.PresentModeMailbox)
	c.Assert(s.Format().Format, qt.Equals, vk.FormatB8g8r8a8Unorm)
	c.Assert(s.View(1).Texture(), qt.Equals, s.Image(1))
}

func TestFindQueueFamily(t *testing.T) {
	c := qt.New(t)

	graphics := vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit)
	compute := vk.QueueFlags(vk.QueueComputeBit)

	idx, err := findQueueFamily([]queueFamily{
		{flags: compute, count: 1, present: true},
		{flags: graphics, count: 1, present: false},
		{flags: graphics, count: 0, present: true},
		{flags: graphics, count: 4, present: true},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(idx, qt.Equals, uint32(3))

	_, err = findQueueFamily([]queueFamily{{flags: graphics, count: 1}})
	c.Assert(err, qt.Equals, ErrNoQueueFamily)
}

func TestDeviceTypeName(t *testing.T) {
	c := qt.New(t)
	c.Assert(deviceTypeName(vk.PhysicalDeviceTypeDiscreteGpu), qt.Equals, "discrete")
	c.Assert(deviceTypeName(vk.PhysicalDeviceTypeCpu), qt.Equals, "cpu")
	c.Assert(deviceTypeName(vk.PhysicalDeviceTypeOther), qt.Equals, "other")
}
