// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// undefinedExtent is reported as the current extent by surfaces
// whose size is decided by the swapchain.
const undefinedExtent = 0xFFFFFFFF

func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	preferred := vk.SurfaceFormat{
		Format:     vk.FormatB8g8r8a8Srgb,
		ColorSpace: vk.ColorSpaceSrgbNonlinear,
	}
	if len(formats) == 0 {
		return preferred
	}
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return preferred
	}
	for _, want := range []vk.Format{vk.FormatB8g8r8a8Srgb, vk.FormatB8g8r8a8Unorm} {
		for _, f := range formats {
			if f.Format == want && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
				return f
			}
		}
	}
	return formats[0]
}

func choosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if !vsync {
		for _, m := range modes {
			if m == vk.PresentModeMailbox {
				return m
			}
		}
	}
	// FIFO is the only mode every implementation has to support
	return vk.PresentModeFifo
}

func chooseExtent(caps vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != undefinedExtent {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func chooseImageCount(caps vk.SurfaceCapabilities, requested uint32) uint32 {
	count := requested
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func chooseCompositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	for _, flag := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if supported&vk.CompositeAlphaFlags(flag) != 0 {
			return flag
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

func chooseDepthFormat(api driver, physicalDevice vk.PhysicalDevice) (vk.Format, error) {
	for _, format := range []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
		vk.FormatD16Unorm,
	} {
		var props vk.FormatProperties
		api.GetPhysicalDeviceFormatProperties(physicalDevice, format, &props)
		props.Deref()
		if props.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0 {
			return format, nil
		}
	}
	return vk.FormatUndefined, ErrNoDepthFormat
}

func clampUint32(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// newSwapchain negotiates surface parameters and creates the swapchain
// with a texture and view per image. old may be nil and is not destroyed.
func newSwapchain(d *Device, width, height uint32, old vk.Swapchain) (*Swapchain, error) {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(d.api.GetPhysicalDeviceSurfaceCapabilities(d.physicalDevice, d.surface, &caps)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	var formatCount uint32
	if err := vk.Error(d.api.GetPhysicalDeviceSurfaceFormats(d.physicalDevice, d.surface, &formatCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(d.api.GetPhysicalDeviceSurfaceFormats(d.physicalDevice, d.surface, &formatCount, formats)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	for idx := range formats {
		formats[idx].Deref()
	}

	var modeCount uint32
	if err := vk.Error(d.api.GetPhysicalDeviceSurfacePresentModes(d.physicalDevice, d.surface, &modeCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	modes := make([]vk.PresentMode, modeCount)
	if err := vk.Error(d.api.GetPhysicalDeviceSurfacePresentModes(d.physicalDevice, d.surface, &modeCount, modes)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}

	if len(formats) == 0 || len(modes) == 0 {
		return nil, ErrSurfaceUnsupported
	}

	format := chooseSurfaceFormat(formats)
	presentMode := choosePresentMode(modes, d.cfg.VSync)
	extent := chooseExtent(caps, width, height)
	if extent.Width == 0 || extent.Height == 0 {
		return nil, ErrZeroExtent
	}

	scci := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surface,
		MinImageCount:    chooseImageCount(caps, d.cfg.SwapchainSize),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   chooseCompositeAlpha(caps.SupportedCompositeAlpha),
		PresentMode:      presentMode,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     old,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(d.api.CreateSwapchain(d.device, &scci, nil, &swapchain)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateSwapchain()")
	}

	s := &Swapchain{
		device:      d,
		swapchain:   swapchain,
		format:      format,
		presentMode: presentMode,
		extent:      extent,
	}

	var numImages uint32
	if err := vk.Error(d.api.GetSwapchainImages(d.device, swapchain, &numImages, nil)); err != nil {
		s.Release()
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	images := make([]vk.Image, numImages)
	if err := vk.Error(d.api.GetSwapchainImages(d.device, swapchain, &numImages, images)); err != nil {
		s.Release()
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}

	for _, img := range images {
		t := wrapTexture(d, img, extent.Width, extent.Height, format.Format)
		view, err := NewTextureView(d, t, TextureViewDesc{})
		if err != nil {
			s.Release()
			return nil, err
		}
		s.images = append(s.images, t)
		s.views = append(s.views, view)
	}

	log.WithFields(log.Fields{
		"format":      format.Format,
		"colorSpace":  format.ColorSpace,
		"presentMode": presentMode,
		"width":       extent.Width,
		"height":      extent.Height,
		"images":      len(images),
	}).Info("swapchain created")
	return s, nil
}

// Swapchain is the chain of presentable images of the surface. It is
// never changed in place, resizing replaces it as a whole.
type Swapchain struct {
	device    *Device
	swapchain vk.Swapchain

	format      vk.SurfaceFormat
	presentMode vk.PresentMode
	extent      vk.Extent2D

	images []*Texture
	views  []*TextureView
}

// Handle returns the vulkan Swapchain handle.
func (s *Swapchain) Handle() vk.Swapchain {
	return s.swapchain
}

// Format is the negotiated surface format.
func (s *Swapchain) Format() vk.SurfaceFormat {
	return s.format
}

// PresentMode is the negotiated present mode.
func (s *Swapchain) PresentMode() vk.PresentMode {
	return s.presentMode
}

// Extent of the swapchain images
func (s *Swapchain) Extent() vk.Extent2D {
	return s.extent
}

// ImageCount is the number of images the driver created,
// which may exceed the requested count.
func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

// Image returns the texture wrapping swapchain image idx.
func (s *Swapchain) Image(idx uint32) *Texture {
	return s.images[idx]
}

// View returns the view of swapchain image idx.
func (s *Swapchain) View(idx uint32) *TextureView {
	return s.views[idx]
}

func (s *Swapchain) acquire(semaphore vk.Semaphore) (uint32, vk.Result) {
	var idx uint32
	res := s.device.api.AcquireNextImage(s.device.device, s.swapchain, vk.MaxUint64, semaphore, nil, &idx)
	return idx, res
}

func (s *Swapchain) present(queue vk.Queue, wait vk.Semaphore, idx uint32) vk.Result {
	pi := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.swapchain},
		PImageIndices:      []uint32{idx},
	}
	return s.device.api.QueuePresent(queue, &pi)
}

// Release destroys the image views and the swapchain. The images
// belong to the swapchain and go with it.
func (s *Swapchain) Release() {
	if s == nil || s.swapchain == nil {
		return
	}
	for _, v := range s.views {
		v.Release()
	}
	for _, t := range s.images {
		t.Release()
	}
	s.views, s.images = nil, nil
	s.device.api.DestroySwapchain(s.device.device, s.swapchain, nil)
	s.swapchain = nil
}
