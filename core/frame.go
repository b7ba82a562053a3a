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

// acquireWaitStage is where frame submissions wait for the acquired
// swapchain image.
const acquireWaitStage = vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)

// frameData is the synchronisation of one frame slot. inFlight is the
// fence of the last submission made from the slot, nil if none.
type frameData struct {
	imageAcquired  vk.Semaphore
	renderFinished vk.Semaphore
	inFlight       vk.Fence
}

func (d *Device) createFrames(count int) error {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	d.frames = make([]frameData, count)
	for idx := range d.frames {
		if err := vk.Error(d.api.CreateSemaphore(d.device, &sci, nil, &d.frames[idx].imageAcquired)); err != nil {
			return errors.Wrap(err, "vk.CreateSemaphore()")
		}
		if err := vk.Error(d.api.CreateSemaphore(d.device, &sci, nil, &d.frames[idx].renderFinished)); err != nil {
			return errors.Wrap(err, "vk.CreateSemaphore()")
		}
	}
	return nil
}

func (d *Device) releaseFrames() {
	for _, f := range d.frames {
		if f.imageAcquired != nil {
			d.api.DestroySemaphore(d.device, f.imageAcquired, nil)
		}
		if f.renderFinished != nil {
			d.api.DestroySemaphore(d.device, f.renderFinished, nil)
		}
	}
	d.frames = nil
}

// FramesInFlight is the number of frame slots.
func (d *Device) FramesInFlight() int {
	return len(d.frames)
}

func (d *Device) advanceFrame() {
	d.currentFrame = (d.currentFrame + 1) % len(d.frames)
	d.frameNumber++
}

func waitFence(api driver, device vk.Device, fence vk.Fence) error {
	if err := vk.Error(api.WaitForFences(device, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64)); err != nil {
		return errors.Wrap(err, "vk.WaitForFences()")
	}
	return nil
}

// BeginFrame acquires the next swapchain image and starts recording its
// context. It returns false when the swapchain has to be recreated,
// either because it is out of date or because a resize was notified.
// Nothing is recorded then, but the frame slot still advances.
func (d *Device) BeginFrame() (bool, error) {
	if d.frameBegun {
		panic("core: BeginFrame called twice without EndFrame")
	}

	if d.resizePending {
		d.advanceFrame()
		return false, nil
	}

	frame := &d.frames[d.currentFrame]
	if frame.inFlight != nil {
		if err := waitFence(d.api, d.device, frame.inFlight); err != nil {
			return false, err
		}
	}

	image, res := d.swapchain.acquire(frame.imageAcquired)
	switch res {
	case vk.ErrorOutOfDate:
		log.WithField("frame", d.frameNumber).Debug("swapchain out of date on acquire")
		d.advanceFrame()
		return false, nil
	case vk.Suboptimal:
		log.WithField("frame", d.frameNumber).Debug("swapchain suboptimal on acquire")
		d.resizePending = true
	default:
		if err := vk.Error(res); err != nil {
			return false, errors.Wrap(err, "vk.AcquireNextImage()")
		}
	}
	d.currentImage = image

	ctx := d.contexts[image]
	if err := waitFence(d.api, d.device, ctx.fence); err != nil {
		return false, err
	}
	if err := ctx.Begin(); err != nil {
		return false, err
	}

	d.frameBegun = true
	return true, nil
}

// EndFrame finishes the current context, submits it and presents the
// image. It returns false when presentation reported the swapchain out
// of date or suboptimal. The frame slot advances in every case.
func (d *Device) EndFrame() (bool, error) {
	if !d.frameBegun {
		panic("core: EndFrame without BeginFrame")
	}
	d.frameBegun = false
	defer d.advanceFrame()

	frame := &d.frames[d.currentFrame]
	ctx := d.contexts[d.currentImage]

	if ctx.pass != nil {
		ctx.EndPass()
	}
	d.TransitionImageLayout(ctx.cmd, d.swapchain.Image(d.currentImage), vk.ImageLayoutPresentSrc)
	if err := ctx.End(); err != nil {
		return false, err
	}

	if err := vk.Error(d.api.ResetFences(d.device, 1, []vk.Fence{ctx.fence})); err != nil {
		return false, errors.Wrap(err, "vk.ResetFences()")
	}

	submit := []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{frame.imageAcquired},
		PWaitDstStageMask:    []vk.PipelineStageFlags{acquireWaitStage},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{ctx.cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{frame.renderFinished},
	}}
	if err := vk.Error(d.api.QueueSubmit(d.queue, 1, submit, ctx.fence)); err != nil {
		return false, errors.Wrap(err, "vk.QueueSubmit()")
	}
	frame.inFlight = ctx.fence

	switch res := d.swapchain.present(d.queue, frame.renderFinished, d.currentImage); res {
	case vk.ErrorOutOfDate, vk.Suboptimal:
		log.WithFields(log.Fields{
			"frame":  d.frameNumber,
			"result": res,
		}).Debug("swapchain stale on present")
		return false, nil
	default:
		if err := vk.Error(res); err != nil {
			return false, errors.Wrap(err, "vk.QueuePresent()")
		}
	}
	return true, nil
}

// SetResizeCallback sets fn to be called at the end of every
// RecreateSwapchain, once the device's own resources are rebuilt.
func (d *Device) SetResizeCallback(fn func(width, height uint32) error) {
	d.onResize = fn
}

// NotifyResize records a new window size. The swapchain is not touched,
// the next BeginFrame reports that it needs to be recreated.
func (d *Device) NotifyResize(width, height uint32) {
	d.resizePending = true
	d.resizeWidth, d.resizeHeight = width, height
}

// PendingResize returns the last notified size and whether a
// recreation is pending.
func (d *Device) PendingResize() (width, height uint32, pending bool) {
	return d.resizeWidth, d.resizeHeight, d.resizePending
}

// RecreateSwapchain waits for the device to go idle and rebuilds the
// swapchain, the depth target, the backbuffer framebuffers and contexts
// and every pipeline rendering into the backbuffer. The resize callback
// runs last.
func (d *Device) RecreateSwapchain(width, height uint32) error {
	if d.frameBegun {
		panic("core: RecreateSwapchain inside a frame")
	}
	if width == 0 || height == 0 {
		return ErrZeroExtent
	}
	if err := d.WaitIdle(); err != nil {
		return err
	}

	d.releaseSwapchainDependents()
	old := d.swapchain
	d.swapchain = nil
	var oldHandle vk.Swapchain
	if old != nil {
		oldHandle = old.Handle()
	}
	err := d.createSwapchainResources(width, height, oldHandle)
	old.Release()
	if err != nil {
		return err
	}

	for _, p := range d.backbufferPipelines {
		if err := p.rebuild(); err != nil {
			return err
		}
	}

	d.resizePending = false
	extent := d.swapchain.Extent()
	if d.onResize != nil {
		if err := d.onResize(extent.Width, extent.Height); err != nil {
			return errors.Wrap(err, "resize callback")
		}
	}
	return nil
}
