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

// NewDevice picks a physical device able to present to surface and
// creates the logical device with everything needed to render frames.
func NewDevice(instance *Instance, surface vk.Surface, cfg RendererConfiguration) (*Device, error) {
	physicalDevice, queueFamily, err := instance.pickPhysicalDevice(surface)
	if err != nil {
		return nil, err
	}

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(physicalDevice, &features)
	features.Deref()

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(physicalDevice, &props)
	props.Deref()
	props.Limits.Deref()

	var (
		enabled       vk.PhysicalDeviceFeatures
		maxAnisotropy float32
	)
	if features.SamplerAnisotropy.B() {
		enabled.SamplerAnisotropy = vk.True
		maxAnisotropy = props.Limits.MaxSamplerAnisotropy
	}

	extensions := []string{vk.KhrSwapchainExtensionName}
	for _, ext := range cfg.DeviceExtensions {
		if safeString(ext) != safeString(vk.KhrSwapchainExtensionName) {
			extensions = append(extensions, ext)
		}
	}
	extensions = safeStrings(extensions)

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1},
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{enabled},
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(physicalDevice, &dci, nil, &device)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice()")
	}

	log.WithFields(log.Fields{
		"device":      vk.ToString(props.DeviceName[:]),
		"queueFamily": queueFamily,
		"anisotropy":  maxAnisotropy,
	}).Info("logical device created")

	return newDevice(vulkanDriver{}, deviceParams{
		physicalDevice: physicalDevice,
		surface:        surface,
		device:         device,
		queueFamily:    queueFamily,
		maxAnisotropy:  maxAnisotropy,
	}, cfg)
}

// deviceParams are the handles a Device is built around.
type deviceParams struct {
	physicalDevice vk.PhysicalDevice
	surface        vk.Surface
	device         vk.Device
	queueFamily    uint32
	maxAnisotropy  float32
}

// newDevice takes ownership of the logical device in p, it is
// destroyed along with everything else on failure.
func newDevice(api driver, p deviceParams, cfg RendererConfiguration) (*Device, error) {
	d := &Device{
		api:            api,
		cfg:            cfg,
		physicalDevice: p.physicalDevice,
		surface:        p.surface,
		device:         p.device,
		queueFamily:    p.queueFamily,
	}
	if err := d.init(p.maxAnisotropy); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) init(maxAnisotropy float32) error {
	d.api.GetPhysicalDeviceMemoryProperties(d.physicalDevice, &d.memoryProperties)
	d.memoryProperties.Deref()
	d.api.GetDeviceQueue(d.device, d.queueFamily, 0, &d.queue)

	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: d.queueFamily,
	}
	if err := vk.Error(d.api.CreateCommandPool(d.device, &cpci, nil, &d.commandPool)); err != nil {
		return errors.Wrap(err, "vk.CreateCommandPool()")
	}

	if err := d.createLayouts(); err != nil {
		return err
	}

	pcci := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}
	if err := vk.Error(d.api.CreatePipelineCache(d.device, &pcci, nil, &d.pipelineCache)); err != nil {
		return errors.Wrap(err, "vk.CreatePipelineCache()")
	}

	d.renderPasses = newRenderPassCache(d.api, d.device)
	d.samplers = newSamplerCache(d.api, d.device, maxAnisotropy)

	depthFormat, err := chooseDepthFormat(d.api, d.physicalDevice)
	if err != nil {
		return err
	}
	d.depthFormat = depthFormat

	if err := d.createFrames(d.cfg.framesInFlight()); err != nil {
		return err
	}
	return d.createSwapchainResources(d.cfg.ScreenWidth, d.cfg.ScreenHeight, nil)
}

// Device owns the logical device and drives the frame lifecycle.
// It is not safe for concurrent use.
type Device struct {
	api driver
	cfg RendererConfiguration

	physicalDevice   vk.PhysicalDevice
	surface          vk.Surface
	device           vk.Device
	queue            vk.Queue
	queueFamily      uint32
	memoryProperties vk.PhysicalDeviceMemoryProperties

	commandPool         vk.CommandPool
	descriptorSetLayout vk.DescriptorSetLayout
	pipelineLayout      vk.PipelineLayout
	pipelineCache       vk.PipelineCache
	renderPasses        *RenderPassCache
	samplers            *SamplerCache

	swapchain    *Swapchain
	depthFormat  vk.Format
	depth        *Texture
	depthView    *TextureView
	framebuffers []*Framebuffer
	contexts     []*Context

	frames       []frameData
	currentFrame int
	currentImage uint32
	frameNumber  uint64
	frameBegun   bool

	resizePending bool
	resizeWidth   uint32
	resizeHeight  uint32
	onResize      func(width, height uint32) error

	backbufferPipelines []*GraphicsPipeline
}

func (d *Device) createSwapchainResources(width, height uint32, old vk.Swapchain) error {
	swapchain, err := newSwapchain(d, width, height, old)
	if err != nil {
		return err
	}
	d.swapchain = swapchain
	extent := swapchain.Extent()

	if d.depth, err = NewTexture(d, TextureDesc{
		Width:  extent.Width,
		Height: extent.Height,
		Format: d.depthFormat,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
	}); err != nil {
		return errors.Wrap(err, "depth target")
	}
	if d.depthView, err = NewTextureView(d, d.depth, TextureViewDesc{}); err != nil {
		return errors.Wrap(err, "depth target")
	}

	for idx := 0; idx < swapchain.ImageCount(); idx++ {
		fb, err := NewFramebuffer(d, d.backbufferAttachments(uint32(idx)))
		if err != nil {
			return err
		}
		d.framebuffers = append(d.framebuffers, fb)

		ctx, err := newContext(d)
		if err != nil {
			return err
		}
		d.contexts = append(d.contexts, ctx)
	}
	return nil
}

// releaseSwapchainDependents releases everything built on top of the
// swapchain but leaves the swapchain itself.
func (d *Device) releaseSwapchainDependents() {
	for _, ctx := range d.contexts {
		ctx.Release()
	}
	d.contexts = nil
	for _, fb := range d.framebuffers {
		fb.Release()
	}
	d.framebuffers = nil
	d.depthView.Release()
	d.depthView = nil
	d.depth.Release()
	d.depth = nil
	for idx := range d.frames {
		d.frames[idx].inFlight = nil
	}
}

func (d *Device) backbufferAttachments(image uint32) []*TextureView {
	return []*TextureView{d.swapchain.View(image), d.depthView}
}

func (d *Device) trackPipeline(p *GraphicsPipeline) {
	d.backbufferPipelines = append(d.backbufferPipelines, p)
}

func (d *Device) untrackPipeline(p *GraphicsPipeline) {
	for idx, tracked := range d.backbufferPipelines {
		if tracked == p {
			d.backbufferPipelines = append(d.backbufferPipelines[:idx], d.backbufferPipelines[idx+1:]...)
			return
		}
	}
}

// BeginNewCommandBuffer allocates a primary command buffer and begins
// recording it for a single submission.
func (d *Device) BeginNewCommandBuffer() (vk.CommandBuffer, error) {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	cmds := make([]vk.CommandBuffer, 1)
	if err := vk.Error(d.api.AllocateCommandBuffers(d.device, &cbai, cmds)); err != nil {
		return nil, errors.Wrap(err, "vk.AllocateCommandBuffers()")
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(d.api.BeginCommandBuffer(cmds[0], &cbbi)); err != nil {
		d.api.FreeCommandBuffers(d.device, d.commandPool, 1, cmds)
		return nil, errors.Wrap(err, "vk.BeginCommandBuffer()")
	}
	return cmds[0], nil
}

// SubmitCommandBufferAndWait ends cmd, submits it and blocks until the
// queue is idle. The command buffer is freed afterwards.
func (d *Device) SubmitCommandBufferAndWait(cmd vk.CommandBuffer) error {
	cmds := []vk.CommandBuffer{cmd}
	defer d.api.FreeCommandBuffers(d.device, d.commandPool, 1, cmds)

	if err := vk.Error(d.api.EndCommandBuffer(cmd)); err != nil {
		return errors.Wrap(err, "vk.EndCommandBuffer()")
	}

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    cmds,
	}}
	if err := vk.Error(d.api.QueueSubmit(d.queue, 1, submit, nil)); err != nil {
		return errors.Wrap(err, "vk.QueueSubmit()")
	}
	if err := vk.Error(d.api.QueueWaitIdle(d.queue)); err != nil {
		return errors.Wrap(err, "vk.QueueWaitIdle()")
	}
	return nil
}

func (d *Device) copyBuffer(src, dst vk.Buffer, size vk.DeviceSize) error {
	cmd, err := d.BeginNewCommandBuffer()
	if err != nil {
		return err
	}
	d.api.CmdCopyBuffer(cmd, src, dst, 1, []vk.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      size,
	}})
	return d.SubmitCommandBufferAndWait(cmd)
}

// WaitIdle blocks until the device has finished all submitted work.
func (d *Device) WaitIdle() error {
	if err := vk.Error(d.api.DeviceWaitIdle(d.device)); err != nil {
		return errors.Wrap(err, "vk.DeviceWaitIdle()")
	}
	return nil
}

// Extent of the swapchain
func (d *Device) Extent() vk.Extent2D {
	return d.swapchain.Extent()
}

// Swapchain returns the current swapchain.
func (d *Device) Swapchain() *Swapchain {
	return d.swapchain
}

// CurrentFrame is the frame slot used by the next or current frame.
func (d *Device) CurrentFrame() int {
	return d.currentFrame
}

// FrameNumber counts frames begun or skipped since creation.
func (d *Device) FrameNumber() uint64 {
	return d.frameNumber
}

// CurrentImage is the acquired swapchain image, only meaningful
// between BeginFrame and EndFrame.
func (d *Device) CurrentImage() uint32 {
	return d.currentImage
}

// CurrentContext is the context recording the current frame.
func (d *Device) CurrentContext() *Context {
	return d.contexts[d.currentImage]
}

// Framebuffer is the backbuffer framebuffer of the current image.
func (d *Device) Framebuffer() *Framebuffer {
	return d.framebuffers[d.currentImage]
}

// Backbuffer is the view of the current swapchain image.
func (d *Device) Backbuffer() *TextureView {
	return d.swapchain.View(d.currentImage)
}

// DepthView is the view of the backbuffer depth target.
func (d *Device) DepthView() *TextureView {
	return d.depthView
}

// BackbufferRenderPass is the render pass of the backbuffer framebuffers.
func (d *Device) BackbufferRenderPass() vk.RenderPass {
	return d.framebuffers[0].RenderPass()
}

// RenderPasses returns the render pass cache.
func (d *Device) RenderPasses() *RenderPassCache {
	return d.renderPasses
}

// Samplers returns the sampler cache.
func (d *Device) Samplers() *SamplerCache {
	return d.samplers
}

// PipelineLayout is the layout shared by every pipeline.
func (d *Device) PipelineLayout() vk.PipelineLayout {
	return d.pipelineLayout
}

// Close waits for the device to go idle and releases everything it
// created in reverse order, the logical device last.
func (d *Device) Close() {
	if d == nil || d.device == nil {
		return
	}
	if err := d.WaitIdle(); err != nil {
		log.WithError(err).Warn("device did not go idle before teardown")
	}

	for _, p := range append([]*GraphicsPipeline(nil), d.backbufferPipelines...) {
		p.Release()
	}
	d.releaseSwapchainDependents()
	d.swapchain.Release()
	d.swapchain = nil
	d.releaseFrames()

	if d.samplers != nil {
		d.samplers.Clear()
	}
	if d.pipelineCache != nil {
		d.api.DestroyPipelineCache(d.device, d.pipelineCache, nil)
	}
	if d.pipelineLayout != nil {
		d.api.DestroyPipelineLayout(d.device, d.pipelineLayout, nil)
	}
	if d.descriptorSetLayout != nil {
		d.api.DestroyDescriptorSetLayout(d.device, d.descriptorSetLayout, nil)
	}
	if d.commandPool != nil {
		d.api.DestroyCommandPool(d.device, d.commandPool, nil)
	}
	if d.renderPasses != nil {
		d.renderPasses.Clear()
	}

	d.api.DestroyDevice(d.device, nil)
	d.device = nil
	log.Info("device closed")
}
