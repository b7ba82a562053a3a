// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

type fakeMemory struct {
	data      []byte
	typeIndex uint32
	mapped    bool
}

type fakeBuffer struct {
	size   int
	memory vk.DeviceMemory
	offset int
}

type fakeImage struct {
	width, height uint32
	format        vk.Format
	layout        vk.ImageLayout
	pixels        []byte
	swapchain     bool
}

type fakeCmd struct {
	recording bool
	ops       []func()
	calls     []string
	barriers  []vk.ImageMemoryBarrier
	stages    []fakeStages
	sets      []vk.DescriptorSet
	binds     []vk.PipelineBindPoint
}

type fakeStages struct {
	src, dst vk.PipelineStageFlags
}

type fakeSubmit struct {
	waits      []vk.Semaphore
	waitStages []vk.PipelineStageFlags
	signals    []vk.Semaphore
	cmds       []vk.CommandBuffer
	fence      vk.Fence
}

type fakePresent struct {
	waits []vk.Semaphore
	image uint32
}

type fakeDescriptorPool struct {
	maxSets   uint32
	allocated uint32
}

// fakeDriver is an in-memory stand in for a Vulkan device. Device
// memory is backed by byte slices, recorded commands run when they are
// submitted and a submission stays pending until its fence is waited
// on or the queue goes idle. Misuse is collected in violations.
type fakeDriver struct {
	physicalDevice vk.PhysicalDevice
	surface        vk.Surface
	device         vk.Device
	queue          vk.Queue

	memoryTypes  []vk.MemoryPropertyFlags
	depthFormats map[vk.Format]bool
	caps         vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode

	acquireResults []vk.Result
	presentResults []vk.Result
	submitResults  []vk.Result

	live       map[unsafe.Pointer]string
	memory     map[vk.DeviceMemory]*fakeMemory
	buffers    map[vk.Buffer]*fakeBuffer
	images     map[vk.Image]*fakeImage
	views      map[vk.ImageView]vk.Image
	fbViews    map[vk.Framebuffer][]vk.ImageView
	swapchains map[vk.Swapchain][]vk.Image
	nextImage  map[vk.Swapchain]uint32
	cmds       map[vk.CommandBuffer]*fakeCmd
	pending    map[vk.CommandBuffer]vk.Fence
	fences     map[vk.Fence]bool
	semaphores map[vk.Semaphore]bool
	pools      map[vk.DescriptorPool]*fakeDescriptorPool
	setPool    map[vk.DescriptorSet]vk.DescriptorPool

	submits      []fakeSubmit
	presents     []fakePresent
	writes       [][]vk.WriteDescriptorSet
	fenceWaits   []vk.Fence
	flushes      int
	invalidates  int
	renderPasses int
	dependencies []vk.SubpassDependency
	violations   []string
}

func newFakeDriver() *fakeDriver {
	f := &fakeDriver{
		memoryTypes: []vk.MemoryPropertyFlags{
			vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
		},
		depthFormats: map[vk.Format]bool{
			vk.FormatD32Sfloat: true,
		},
		caps: vk.SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           8,
			CurrentExtent:           vk.Extent2D{Width: 800, Height: 600},
			MinImageExtent:          vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:          vk.Extent2D{Width: 4096, Height: 4096},
			SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit),
			CurrentTransform:        vk.SurfaceTransformIdentityBit,
		},
		formats: []vk.SurfaceFormat{{
			Format:     vk.FormatB8g8r8a8Unorm,
			ColorSpace: vk.ColorSpaceSrgbNonlinear,
		}},
		presentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},

		live:       make(map[unsafe.Pointer]string),
		memory:     make(map[vk.DeviceMemory]*fakeMemory),
		buffers:    make(map[vk.Buffer]*fakeBuffer),
		images:     make(map[vk.Image]*fakeImage),
		views:      make(map[vk.ImageView]vk.Image),
		fbViews:    make(map[vk.Framebuffer][]vk.ImageView),
		swapchains: make(map[vk.Swapchain][]vk.Image),
		nextImage:  make(map[vk.Swapchain]uint32),
		cmds:       make(map[vk.CommandBuffer]*fakeCmd),
		pending:    make(map[vk.CommandBuffer]vk.Fence),
		fences:     make(map[vk.Fence]bool),
		semaphores: make(map[vk.Semaphore]bool),
		pools:      make(map[vk.DescriptorPool]*fakeDescriptorPool),
		setPool:    make(map[vk.DescriptorSet]vk.DescriptorPool),
	}
	f.physicalDevice = vk.PhysicalDevice(unsafe.Pointer(new(uint64)))
	f.surface = vk.Surface(unsafe.Pointer(new(uint64)))
	f.device = vk.Device(f.handle("device"))
	f.queue = vk.Queue(unsafe.Pointer(new(uint64)))
	return f
}

func (f *fakeDriver) violate(format string, args ...interface{}) {
	f.violations = append(f.violations, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) handle(kind string) unsafe.Pointer {
	p := unsafe.Pointer(new(uint64))
	f.live[p] = kind
	return p
}

func (f *fakeDriver) release(p unsafe.Pointer, kind string) {
	if p == nil {
		return
	}
	if got, ok := f.live[p]; !ok || got != kind {
		f.violate("destroying unknown %s", kind)
		return
	}
	delete(f.live, p)
}

// leaks lists the kinds of every handle still alive.
func (f *fakeDriver) leaks() []string {
	var kinds []string
	for _, kind := range f.live {
		kinds = append(kinds, kind)
	}
	return kinds
}

func (f *fakeDriver) bufferBytes(b vk.Buffer) []byte {
	fb := f.buffers[b]
	if fb == nil || fb.memory == nil {
		f.violate("buffer used without memory")
		return nil
	}
	return f.memory[fb.memory].data[fb.offset : fb.offset+fb.size]
}

func (f *fakeDriver) record(cmd vk.CommandBuffer, call string, op func()) {
	c := f.cmds[cmd]
	if c == nil || !c.recording {
		f.violate("%s recorded into a command buffer that is not recording", call)
		return
	}
	c.calls = append(c.calls, call)
	if op != nil {
		c.ops = append(c.ops, op)
	}
}

func (f *fakeDriver) signalFence(fence vk.Fence) {
	f.fences[fence] = true
	for cmd, pf := range f.pending {
		if pf == fence {
			delete(f.pending, cmd)
		}
	}
}

func (f *fakeDriver) idle() {
	for cmd, fence := range f.pending {
		if fence != nil {
			f.fences[fence] = true
		}
		delete(f.pending, cmd)
	}
}

func (f *fakeDriver) GetPhysicalDeviceMemoryProperties(physicalDevice vk.PhysicalDevice, pMemoryProperties *vk.PhysicalDeviceMemoryProperties) {
	pMemoryProperties.MemoryTypeCount = uint32(len(f.memoryTypes))
	for idx, flags := range f.memoryTypes {
		pMemoryProperties.MemoryTypes[idx] = vk.MemoryType{PropertyFlags: flags}
	}
}

func (f *fakeDriver) GetPhysicalDeviceFormatProperties(physicalDevice vk.PhysicalDevice, format vk.Format, pFormatProperties *vk.FormatProperties) {
	*pFormatProperties = vk.FormatProperties{}
	if f.depthFormats[format] {
		pFormatProperties.OptimalTilingFeatures = vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	}
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceCapabilities(physicalDevice vk.PhysicalDevice, surface vk.Surface, pSurfaceCapabilities *vk.SurfaceCapabilities) vk.Result {
	*pSurfaceCapabilities = f.caps
	return vk.Success
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceFormats(physicalDevice vk.PhysicalDevice, surface vk.Surface, pSurfaceFormatCount *uint32, pSurfaceFormats []vk.SurfaceFormat) vk.Result {
	if pSurfaceFormats == nil {
		*pSurfaceFormatCount = uint32(len(f.formats))
		return vk.Success
	}
	*pSurfaceFormatCount = uint32(copy(pSurfaceFormats, f.formats))
	return vk.Success
}

func (f *fakeDriver) GetPhysicalDeviceSurfacePresentModes(physicalDevice vk.PhysicalDevice, surface vk.Surface, pPresentModeCount *uint32, pPresentModes []vk.PresentMode) vk.Result {
	if pPresentModes == nil {
		*pPresentModeCount = uint32(len(f.presentModes))
		return vk.Success
	}
	*pPresentModeCount = uint32(copy(pPresentModes, f.presentModes))
	return vk.Success
}

func (f *fakeDriver) GetDeviceQueue(device vk.Device, queueFamilyIndex uint32, queueIndex uint32, pQueue *vk.Queue) {
	*pQueue = f.queue
}

func (f *fakeDriver) DeviceWaitIdle(device vk.Device) vk.Result {
	f.idle()
	return vk.Success
}

func (f *fakeDriver) DestroyDevice(device vk.Device, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(device), "device")
}

func (f *fakeDriver) CreateSwapchain(device vk.Device, pCreateInfo *vk.SwapchainCreateInfo, pAllocator *vk.AllocationCallbacks, pSwapchain *vk.Swapchain) vk.Result {
	swapchain := vk.Swapchain(f.handle("swapchain"))
	images := make([]vk.Image, pCreateInfo.MinImageCount)
	for idx := range images {
		images[idx] = vk.Image(unsafe.Pointer(new(uint64)))
		f.images[images[idx]] = &fakeImage{
			width:     pCreateInfo.ImageExtent.Width,
			height:    pCreateInfo.ImageExtent.Height,
			format:    pCreateInfo.ImageFormat,
			layout:    vk.ImageLayoutUndefined,
			swapchain: true,
		}
	}
	f.swapchains[swapchain] = images
	*pSwapchain = swapchain
	return vk.Success
}

func (f *fakeDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain, pAllocator *vk.AllocationCallbacks) {
	for _, img := range f.swapchains[swapchain] {
		delete(f.images, img)
	}
	delete(f.swapchains, swapchain)
	f.release(unsafe.Pointer(swapchain), "swapchain")
}

func (f *fakeDriver) GetSwapchainImages(device vk.Device, swapchain vk.Swapchain, pSwapchainImageCount *uint32, pSwapchainImages []vk.Image) vk.Result {
	images := f.swapchains[swapchain]
	if pSwapchainImages == nil {
		*pSwapchainImageCount = uint32(len(images))
		return vk.Success
	}
	*pSwapchainImageCount = uint32(copy(pSwapchainImages, images))
	return vk.Success
}

func (f *fakeDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, timeout uint64, semaphore vk.Semaphore, fence vk.Fence, pImageIndex *uint32) vk.Result {
	res := vk.Success
	if len(f.acquireResults) > 0 {
		res, f.acquireResults = f.acquireResults[0], f.acquireResults[1:]
	}
	if res != vk.Success && res != vk.Suboptimal {
		return res
	}
	if f.semaphores[semaphore] {
		f.violate("acquire signals a semaphore that is already signaled")
	}
	f.semaphores[semaphore] = true

	count := uint32(len(f.swapchains[swapchain]))
	*pImageIndex = f.nextImage[swapchain]
	f.nextImage[swapchain] = (f.nextImage[swapchain] + 1) % count
	return res
}

func (f *fakeDriver) QueuePresent(queue vk.Queue, pPresentInfo *vk.PresentInfo) vk.Result {
	for _, s := range pPresentInfo.PWaitSemaphores {
		if !f.semaphores[s] {
			f.violate("present waits on a semaphore nobody signals")
		}
		f.semaphores[s] = false
	}
	f.presents = append(f.presents, fakePresent{
		waits: append([]vk.Semaphore(nil), pPresentInfo.PWaitSemaphores...),
		image: pPresentInfo.PImageIndices[0],
	})

	if len(f.presentResults) > 0 {
		var res vk.Result
		res, f.presentResults = f.presentResults[0], f.presentResults[1:]
		return res
	}
	return vk.Success
}

func (f *fakeDriver) AllocateMemory(device vk.Device, pAllocateInfo *vk.MemoryAllocateInfo, pAllocator *vk.AllocationCallbacks, pMemory *vk.DeviceMemory) vk.Result {
	if int(pAllocateInfo.MemoryTypeIndex) >= len(f.memoryTypes) {
		f.violate("allocation from memory type %d", pAllocateInfo.MemoryTypeIndex)
		return vk.ErrorOutOfDeviceMemory
	}
	memory := vk.DeviceMemory(f.handle("memory"))
	f.memory[memory] = &fakeMemory{
		data:      make([]byte, pAllocateInfo.AllocationSize),
		typeIndex: pAllocateInfo.MemoryTypeIndex,
	}
	*pMemory = memory
	return vk.Success
}

func (f *fakeDriver) FreeMemory(device vk.Device, memory vk.DeviceMemory, pAllocator *vk.AllocationCallbacks) {
	if m := f.memory[memory]; m != nil && m.mapped {
		f.violate("freeing mapped memory")
	}
	delete(f.memory, memory)
	f.release(unsafe.Pointer(memory), "memory")
}

func (f *fakeDriver) MapMemory(device vk.Device, memory vk.DeviceMemory, offset vk.DeviceSize, size vk.DeviceSize, flags vk.MemoryMapFlags, ppData *unsafe.Pointer) vk.Result {
	m := f.memory[memory]
	if f.memoryTypes[m.typeIndex]&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) == 0 {
		f.violate("mapping memory that is not host visible")
		return vk.ErrorMemoryMapFailed
	}
	m.mapped = true
	*ppData = unsafe.Pointer(&m.data[offset])
	return vk.Success
}

func (f *fakeDriver) UnmapMemory(device vk.Device, memory vk.DeviceMemory) {
	f.memory[memory].mapped = false
}

func (f *fakeDriver) FlushMappedMemoryRanges(device vk.Device, memoryRangeCount uint32, pMemoryRanges []vk.MappedMemoryRange) vk.Result {
	f.flushes++
	return vk.Success
}

func (f *fakeDriver) InvalidateMappedMemoryRanges(device vk.Device, memoryRangeCount uint32, pMemoryRanges []vk.MappedMemoryRange) vk.Result {
	f.invalidates++
	return vk.Success
}

func (f *fakeDriver) CreateBuffer(device vk.Device, pCreateInfo *vk.BufferCreateInfo, pAllocator *vk.AllocationCallbacks, pBuffer *vk.Buffer) vk.Result {
	buffer := vk.Buffer(f.handle("buffer"))
	f.buffers[buffer] = &fakeBuffer{size: int(pCreateInfo.Size)}
	*pBuffer = buffer
	return vk.Success
}

func (f *fakeDriver) DestroyBuffer(device vk.Device, buffer vk.Buffer, pAllocator *vk.AllocationCallbacks) {
	delete(f.buffers, buffer)
	f.release(unsafe.Pointer(buffer), "buffer")
}

func (f *fakeDriver) allTypes() uint32 {
	return 1<<uint(len(f.memoryTypes)) - 1
}

func (f *fakeDriver) GetBufferMemoryRequirements(device vk.Device, buffer vk.Buffer, pMemoryRequirements *vk.MemoryRequirements) {
	*pMemoryRequirements = vk.MemoryRequirements{
		Size:           vk.DeviceSize(f.buffers[buffer].size),
		Alignment:      1,
		MemoryTypeBits: f.allTypes(),
	}
}

func (f *fakeDriver) BindBufferMemory(device vk.Device, buffer vk.Buffer, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) vk.Result {
	f.buffers[buffer].memory = memory
	f.buffers[buffer].offset = int(memoryOffset)
	return vk.Success
}

func (f *fakeDriver) CreateImage(device vk.Device, pCreateInfo *vk.ImageCreateInfo, pAllocator *vk.AllocationCallbacks, pImage *vk.Image) vk.Result {
	img := vk.Image(f.handle("image"))
	f.images[img] = &fakeImage{
		width:  pCreateInfo.Extent.Width,
		height: pCreateInfo.Extent.Height,
		format: pCreateInfo.Format,
		layout: pCreateInfo.InitialLayout,
	}
	*pImage = img
	return vk.Success
}

func (f *fakeDriver) DestroyImage(device vk.Device, image vk.Image, pAllocator *vk.AllocationCallbacks) {
	if fi := f.images[image]; fi != nil && fi.swapchain {
		f.violate("destroying a swapchain image")
		return
	}
	delete(f.images, image)
	f.release(unsafe.Pointer(image), "image")
}

func (f *fakeDriver) GetImageMemoryRequirements(device vk.Device, image vk.Image, pMemoryRequirements *vk.MemoryRequirements) {
	fi := f.images[image]
	*pMemoryRequirements = vk.MemoryRequirements{
		Size:           vk.DeviceSize(fi.width * fi.height * 4),
		Alignment:      1,
		MemoryTypeBits: f.allTypes(),
	}
}

func (f *fakeDriver) BindImageMemory(device vk.Device, image vk.Image, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) vk.Result {
	return vk.Success
}

func (f *fakeDriver) CreateImageView(device vk.Device, pCreateInfo *vk.ImageViewCreateInfo, pAllocator *vk.AllocationCallbacks, pView *vk.ImageView) vk.Result {
	if _, ok := f.images[pCreateInfo.Image]; !ok {
		f.violate("view of an unknown image")
	}
	view := vk.ImageView(f.handle("view"))
	f.views[view] = pCreateInfo.Image
	*pView = view
	return vk.Success
}

func (f *fakeDriver) DestroyImageView(device vk.Device, imageView vk.ImageView, pAllocator *vk.AllocationCallbacks) {
	delete(f.views, imageView)
	f.release(unsafe.Pointer(imageView), "view")
}

func (f *fakeDriver) CreateSampler(device vk.Device, pCreateInfo *vk.SamplerCreateInfo, pAllocator *vk.AllocationCallbacks, pSampler *vk.Sampler) vk.Result {
	*pSampler = vk.Sampler(f.handle("sampler"))
	return vk.Success
}

func (f *fakeDriver) DestroySampler(device vk.Device, sampler vk.Sampler, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(sampler), "sampler")
}

func (f *fakeDriver) CreateShaderModule(device vk.Device, pCreateInfo *vk.ShaderModuleCreateInfo, pAllocator *vk.AllocationCallbacks, pShaderModule *vk.ShaderModule) vk.Result {
	if int(pCreateInfo.CodeSize) != len(pCreateInfo.PCode)*4 {
		f.violate("shader code size %d does not match %d words", pCreateInfo.CodeSize, len(pCreateInfo.PCode))
	}
	*pShaderModule = vk.ShaderModule(f.handle("shader"))
	return vk.Success
}

func (f *fakeDriver) DestroyShaderModule(device vk.Device, shaderModule vk.ShaderModule, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(shaderModule), "shader")
}

func (f *fakeDriver) CreateDescriptorSetLayout(device vk.Device, pCreateInfo *vk.DescriptorSetLayoutCreateInfo, pAllocator *vk.AllocationCallbacks, pSetLayout *vk.DescriptorSetLayout) vk.Result {
	*pSetLayout = vk.DescriptorSetLayout(f.handle("set layout"))
	return vk.Success
}

func (f *fakeDriver) DestroyDescriptorSetLayout(device vk.Device, descriptorSetLayout vk.DescriptorSetLayout, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(descriptorSetLayout), "set layout")
}

func (f *fakeDriver) CreatePipelineLayout(device vk.Device, pCreateInfo *vk.PipelineLayoutCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelineLayout *vk.PipelineLayout) vk.Result {
	*pPipelineLayout = vk.PipelineLayout(f.handle("pipeline layout"))
	return vk.Success
}

func (f *fakeDriver) DestroyPipelineLayout(device vk.Device, pipelineLayout vk.PipelineLayout, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(pipelineLayout), "pipeline layout")
}

func (f *fakeDriver) CreatePipelineCache(device vk.Device, pCreateInfo *vk.PipelineCacheCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelineCache *vk.PipelineCache) vk.Result {
	*pPipelineCache = vk.PipelineCache(f.handle("pipeline cache"))
	return vk.Success
}

func (f *fakeDriver) DestroyPipelineCache(device vk.Device, pipelineCache vk.PipelineCache, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(pipelineCache), "pipeline cache")
}

func (f *fakeDriver) CreateGraphicsPipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.GraphicsPipelineCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelines []vk.Pipeline) vk.Result {
	for idx := range pCreateInfos {
		if pCreateInfos[idx].RenderPass == nil {
			f.violate("graphics pipeline without render pass")
		}
		pPipelines[idx] = vk.Pipeline(f.handle("pipeline"))
	}
	return vk.Success
}

func (f *fakeDriver) CreateComputePipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.ComputePipelineCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelines []vk.Pipeline) vk.Result {
	for idx := range pCreateInfos {
		pPipelines[idx] = vk.Pipeline(f.handle("pipeline"))
	}
	return vk.Success
}

func (f *fakeDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(pipeline), "pipeline")
}

func (f *fakeDriver) CreateRenderPass(device vk.Device, pCreateInfo *vk.RenderPassCreateInfo, pAllocator *vk.AllocationCallbacks, pRenderPass *vk.RenderPass) vk.Result {
	f.renderPasses++
	f.dependencies = append([]vk.SubpassDependency(nil), pCreateInfo.PDependencies[:pCreateInfo.DependencyCount]...)
	*pRenderPass = vk.RenderPass(f.handle("render pass"))
	return vk.Success
}

func (f *fakeDriver) DestroyRenderPass(device vk.Device, renderPass vk.RenderPass, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(renderPass), "render pass")
}

func (f *fakeDriver) CreateFramebuffer(device vk.Device, pCreateInfo *vk.FramebufferCreateInfo, pAllocator *vk.AllocationCallbacks, pFramebuffer *vk.Framebuffer) vk.Result {
	fb := vk.Framebuffer(f.handle("framebuffer"))
	f.fbViews[fb] = append([]vk.ImageView(nil), pCreateInfo.PAttachments...)
	*pFramebuffer = fb
	return vk.Success
}

func (f *fakeDriver) DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer, pAllocator *vk.AllocationCallbacks) {
	delete(f.fbViews, framebuffer)
	f.release(unsafe.Pointer(framebuffer), "framebuffer")
}

func (f *fakeDriver) CreateCommandPool(device vk.Device, pCreateInfo *vk.CommandPoolCreateInfo, pAllocator *vk.AllocationCallbacks, pCommandPool *vk.CommandPool) vk.Result {
	*pCommandPool = vk.CommandPool(f.handle("command pool"))
	return vk.Success
}

func (f *fakeDriver) DestroyCommandPool(device vk.Device, commandPool vk.CommandPool, pAllocator *vk.AllocationCallbacks) {
	f.release(unsafe.Pointer(commandPool), "command pool")
}

func (f *fakeDriver) AllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo, pCommandBuffers []vk.CommandBuffer) vk.Result {
	for idx := uint32(0); idx < pAllocateInfo.CommandBufferCount; idx++ {
		cmd := vk.CommandBuffer(f.handle("command buffer"))
		f.cmds[cmd] = &fakeCmd{}
		pCommandBuffers[idx] = cmd
	}
	return vk.Success
}

func (f *fakeDriver) FreeCommandBuffers(device vk.Device, commandPool vk.CommandPool, commandBufferCount uint32, pCommandBuffers []vk.CommandBuffer) {
	for _, cmd := range pCommandBuffers[:commandBufferCount] {
		if _, ok := f.pending[cmd]; ok {
			f.violate("freeing a command buffer that is in flight")
		}
		delete(f.cmds, cmd)
		f.release(unsafe.Pointer(cmd), "command buffer")
	}
}

func (f *fakeDriver) BeginCommandBuffer(commandBuffer vk.CommandBuffer, pBeginInfo *vk.CommandBufferBeginInfo) vk.Result {
	if _, ok := f.pending[commandBuffer]; ok {
		f.violate("command buffer begun while in flight")
	}
	c := f.cmds[commandBuffer]
	*c = fakeCmd{recording: true}
	return vk.Success
}

func (f *fakeDriver) EndCommandBuffer(commandBuffer vk.CommandBuffer) vk.Result {
	c := f.cmds[commandBuffer]
	if !c.recording {
		f.violate("ending a command buffer that is not recording")
	}
	c.recording = false
	return vk.Success
}

func (f *fakeDriver) ResetCommandBuffer(commandBuffer vk.CommandBuffer, flags vk.CommandBufferResetFlags) vk.Result {
	if _, ok := f.pending[commandBuffer]; ok {
		f.violate("command buffer reset while in flight")
	}
	*f.cmds[commandBuffer] = fakeCmd{}
	return vk.Success
}

func (f *fakeDriver) CreateDescriptorPool(device vk.Device, pCreateInfo *vk.DescriptorPoolCreateInfo, pAllocator *vk.AllocationCallbacks, pDescriptorPool *vk.DescriptorPool) vk.Result {
	pool := vk.DescriptorPool(f.handle("descriptor pool"))
	f.pools[pool] = &fakeDescriptorPool{maxSets: pCreateInfo.MaxSets}
	*pDescriptorPool = pool
	return vk.Success
}

func (f *fakeDriver) DestroyDescriptorPool(device vk.Device, descriptorPool vk.DescriptorPool, pAllocator *vk.AllocationCallbacks) {
	delete(f.pools, descriptorPool)
	f.release(unsafe.Pointer(descriptorPool), "descriptor pool")
}

func (f *fakeDriver) ResetDescriptorPool(device vk.Device, descriptorPool vk.DescriptorPool, flags vk.DescriptorPoolResetFlags) vk.Result {
	for cmd := range f.pending {
		for _, set := range f.cmds[cmd].sets {
			if f.setPool[set] == descriptorPool {
				f.violate("descriptor pool reset while its sets are in flight")
			}
		}
	}
	f.pools[descriptorPool].allocated = 0
	return vk.Success
}

func (f *fakeDriver) AllocateDescriptorSets(device vk.Device, pAllocateInfo *vk.DescriptorSetAllocateInfo, pDescriptorSets *vk.DescriptorSet) vk.Result {
	pool := f.pools[pAllocateInfo.DescriptorPool]
	if pool.allocated+pAllocateInfo.DescriptorSetCount > pool.maxSets {
		return vk.ErrorOutOfPoolMemory
	}
	pool.allocated += pAllocateInfo.DescriptorSetCount
	set := vk.DescriptorSet(unsafe.Pointer(new(uint64)))
	f.setPool[set] = pAllocateInfo.DescriptorPool
	*pDescriptorSets = set
	return vk.Success
}

func (f *fakeDriver) UpdateDescriptorSets(device vk.Device, descriptorWriteCount uint32, pDescriptorWrites []vk.WriteDescriptorSet, descriptorCopyCount uint32, pDescriptorCopies []vk.CopyDescriptorSet) {
	f.writes = append(f.writes, append([]vk.WriteDescriptorSet(nil), pDescriptorWrites[:descriptorWriteCount]...))
}

func (f *fakeDriver) CreateFence(device vk.Device, pCreateInfo *vk.FenceCreateInfo, pAllocator *vk.AllocationCallbacks, pFence *vk.Fence) vk.Result {
	fence := vk.Fence(f.handle("fence"))
	f.fences[fence] = pCreateInfo.Flags&vk.FenceCreateFlags(vk.FenceCreateSignaledBit) != 0
	*pFence = fence
	return vk.Success
}

func (f *fakeDriver) DestroyFence(device vk.Device, fence vk.Fence, pAllocator *vk.AllocationCallbacks) {
	for _, pf := range f.pending {
		if pf == fence {
			f.violate("destroying a fence that is in flight")
		}
	}
	delete(f.fences, fence)
	f.release(unsafe.Pointer(fence), "fence")
}

func (f *fakeDriver) WaitForFences(device vk.Device, fenceCount uint32, pFences []vk.Fence, waitAll vk.Bool32, timeout uint64) vk.Result {
	for _, fence := range pFences[:fenceCount] {
		f.fenceWaits = append(f.fenceWaits, fence)
		if f.fences[fence] {
			continue
		}
		inFlight := false
		for _, pf := range f.pending {
			if pf == fence {
				inFlight = true
			}
		}
		if !inFlight {
			f.violate("waiting on a fence that never signals")
			return vk.Timeout
		}
		f.signalFence(fence)
	}
	return vk.Success
}

func (f *fakeDriver) ResetFences(device vk.Device, fenceCount uint32, pFences []vk.Fence) vk.Result {
	for _, fence := range pFences[:fenceCount] {
		for _, pf := range f.pending {
			if pf == fence {
				f.violate("resetting a fence that is in flight")
			}
		}
		f.fences[fence] = false
	}
	return vk.Success
}

func (f *fakeDriver) CreateSemaphore(device vk.Device, pCreateInfo *vk.SemaphoreCreateInfo, pAllocator *vk.AllocationCallbacks, pSemaphore *vk.Semaphore) vk.Result {
	semaphore := vk.Semaphore(f.handle("semaphore"))
	f.semaphores[semaphore] = false
	*pSemaphore = semaphore
	return vk.Success
}

func (f *fakeDriver) DestroySemaphore(device vk.Device, semaphore vk.Semaphore, pAllocator *vk.AllocationCallbacks) {
	delete(f.semaphores, semaphore)
	f.release(unsafe.Pointer(semaphore), "semaphore")
}

func (f *fakeDriver) QueueSubmit(queue vk.Queue, submitCount uint32, pSubmits []vk.SubmitInfo, fence vk.Fence) vk.Result {
	if fence != nil && f.fences[fence] {
		f.violate("submitting with a signaled fence")
	}
	if len(f.submitResults) > 0 {
		res := f.submitResults[0]
		f.submitResults = f.submitResults[1:]
		if res != vk.Success {
			return res
		}
	}
	for _, submit := range pSubmits[:submitCount] {
		for _, s := range submit.PWaitSemaphores {
			if !f.semaphores[s] {
				f.violate("submit waits on a semaphore nobody signals")
			}
			f.semaphores[s] = false
		}
		for _, cmd := range submit.PCommandBuffers {
			c := f.cmds[cmd]
			if c == nil || c.recording {
				f.violate("submitting a command buffer that is not executable")
				continue
			}
			if _, ok := f.pending[cmd]; ok {
				f.violate("submitting a command buffer that is already in flight")
			}
			for _, op := range c.ops {
				op()
			}
			f.pending[cmd] = fence
		}
		for _, s := range submit.PSignalSemaphores {
			if f.semaphores[s] {
				f.violate("submit signals a semaphore that is already signaled")
			}
			f.semaphores[s] = true
		}
		f.submits = append(f.submits, fakeSubmit{
			waits:      append([]vk.Semaphore(nil), submit.PWaitSemaphores...),
			waitStages: append([]vk.PipelineStageFlags(nil), submit.PWaitDstStageMask...),
			signals:    append([]vk.Semaphore(nil), submit.PSignalSemaphores...),
			cmds:       append([]vk.CommandBuffer(nil), submit.PCommandBuffers...),
			fence:      fence,
		})
	}
	return vk.Success
}

func (f *fakeDriver) QueueWaitIdle(queue vk.Queue) vk.Result {
	f.idle()
	return vk.Success
}

func (f *fakeDriver) CmdBeginRenderPass(commandBuffer vk.CommandBuffer, pRenderPassBegin *vk.RenderPassBeginInfo, contents vk.SubpassContents) {
	views := f.fbViews[pRenderPassBegin.Framebuffer]
	f.record(commandBuffer, "BeginRenderPass", func() {
		for _, view := range views {
			img := f.images[f.views[view]]
			if img == nil {
				continue
			}
			if img.layout != vk.ImageLayoutColorAttachmentOptimal && img.layout != vk.ImageLayoutDepthStencilAttachmentOptimal {
				f.violate("render pass begun with an attachment in layout %d", img.layout)
			}
		}
	})
}

func (f *fakeDriver) CmdEndRenderPass(commandBuffer vk.CommandBuffer) {
	f.record(commandBuffer, "EndRenderPass", nil)
}

func (f *fakeDriver) CmdBindPipeline(commandBuffer vk.CommandBuffer, pipelineBindPoint vk.PipelineBindPoint, pipeline vk.Pipeline) {
	f.record(commandBuffer, "BindPipeline", nil)
}

func (f *fakeDriver) CmdSetViewport(commandBuffer vk.CommandBuffer, firstViewport uint32, viewportCount uint32, pViewports []vk.Viewport) {
	f.record(commandBuffer, "SetViewport", nil)
}

func (f *fakeDriver) CmdSetScissor(commandBuffer vk.CommandBuffer, firstScissor uint32, scissorCount uint32, pScissors []vk.Rect2D) {
	f.record(commandBuffer, "SetScissor", nil)
}

func (f *fakeDriver) CmdBindDescriptorSets(commandBuffer vk.CommandBuffer, pipelineBindPoint vk.PipelineBindPoint, layout vk.PipelineLayout, firstSet uint32, descriptorSetCount uint32, pDescriptorSets []vk.DescriptorSet, dynamicOffsetCount uint32, pDynamicOffsets []uint32) {
	if c := f.cmds[commandBuffer]; c != nil {
		c.sets = append(c.sets, pDescriptorSets[:descriptorSetCount]...)
		c.binds = append(c.binds, pipelineBindPoint)
	}
	f.record(commandBuffer, "BindDescriptorSets", nil)
}

func (f *fakeDriver) CmdBindVertexBuffers(commandBuffer vk.CommandBuffer, firstBinding uint32, bindingCount uint32, pBuffers []vk.Buffer, pOffsets []vk.DeviceSize) {
	f.record(commandBuffer, "BindVertexBuffers", nil)
}

func (f *fakeDriver) CmdBindIndexBuffer(commandBuffer vk.CommandBuffer, buffer vk.Buffer, offset vk.DeviceSize, indexType vk.IndexType) {
	f.record(commandBuffer, "BindIndexBuffer", nil)
}

func (f *fakeDriver) CmdPushConstants(commandBuffer vk.CommandBuffer, layout vk.PipelineLayout, stageFlags vk.ShaderStageFlags, offset uint32, size uint32, pValues unsafe.Pointer) {
	f.record(commandBuffer, "PushConstants", nil)
}

func (f *fakeDriver) CmdDraw(commandBuffer vk.CommandBuffer, vertexCount uint32, instanceCount uint32, firstVertex uint32, firstInstance uint32) {
	f.record(commandBuffer, "Draw", nil)
}

func (f *fakeDriver) CmdDrawIndexed(commandBuffer vk.CommandBuffer, indexCount uint32, instanceCount uint32, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	f.record(commandBuffer, "DrawIndexed", nil)
}

func (f *fakeDriver) CmdDispatch(commandBuffer vk.CommandBuffer, groupCountX uint32, groupCountY uint32, groupCountZ uint32) {
	f.record(commandBuffer, "Dispatch", nil)
}

func (f *fakeDriver) CmdCopyBuffer(commandBuffer vk.CommandBuffer, srcBuffer vk.Buffer, dstBuffer vk.Buffer, regionCount uint32, pRegions []vk.BufferCopy) {
	regions := append([]vk.BufferCopy(nil), pRegions[:regionCount]...)
	f.record(commandBuffer, "CopyBuffer", func() {
		src, dst := f.bufferBytes(srcBuffer), f.bufferBytes(dstBuffer)
		for _, r := range regions {
			copy(dst[r.DstOffset:r.DstOffset+r.Size], src[r.SrcOffset:r.SrcOffset+r.Size])
		}
	})
}

func (f *fakeDriver) CmdCopyBufferToImage(commandBuffer vk.CommandBuffer, srcBuffer vk.Buffer, dstImage vk.Image, dstImageLayout vk.ImageLayout, regionCount uint32, pRegions []vk.BufferImageCopy) {
	f.record(commandBuffer, "CopyBufferToImage", func() {
		img := f.images[dstImage]
		if img.layout != vk.ImageLayoutTransferDstOptimal {
			f.violate("copy into an image in layout %d", img.layout)
		}
		img.pixels = append([]byte(nil), f.bufferBytes(srcBuffer)...)
	})
}

func (f *fakeDriver) CmdPipelineBarrier(commandBuffer vk.CommandBuffer, srcStageMask vk.PipelineStageFlags, dstStageMask vk.PipelineStageFlags, dependencyFlags vk.DependencyFlags, memoryBarrierCount uint32, pMemoryBarriers []vk.MemoryBarrier, bufferMemoryBarrierCount uint32, pBufferMemoryBarriers []vk.BufferMemoryBarrier, imageMemoryBarrierCount uint32, pImageMemoryBarriers []vk.ImageMemoryBarrier) {
	barriers := append([]vk.ImageMemoryBarrier(nil), pImageMemoryBarriers[:imageMemoryBarrierCount]...)
	if c := f.cmds[commandBuffer]; c != nil {
		c.barriers = append(c.barriers, barriers...)
		c.stages = append(c.stages, fakeStages{src: srcStageMask, dst: dstStageMask})
	}
	f.record(commandBuffer, "PipelineBarrier", func() {
		for _, b := range barriers {
			img := f.images[b.Image]
			if img == nil {
				f.violate("barrier on an unknown image")
				continue
			}
			if b.OldLayout != vk.ImageLayoutUndefined && b.OldLayout != img.layout {
				f.violate("barrier from layout %d on an image in layout %d", b.OldLayout, img.layout)
			}
			img.layout = b.NewLayout
		}
	})
}

func (f *fakeDriver) CmdClearAttachments(commandBuffer vk.CommandBuffer, attachmentCount uint32, pAttachments []vk.ClearAttachment, rectCount uint32, pRects []vk.ClearRect) {
	f.record(commandBuffer, "ClearAttachments", nil)
}
