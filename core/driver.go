// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// driver is the set of device level Vulkan entry points the renderer uses.
// Method signatures match the vk package one to one.
type driver interface {
	GetPhysicalDeviceMemoryProperties(physicalDevice vk.PhysicalDevice, pMemoryProperties *vk.PhysicalDeviceMemoryProperties)
	GetPhysicalDeviceFormatProperties(physicalDevice vk.PhysicalDevice, format vk.Format, pFormatProperties *vk.FormatProperties)
	GetPhysicalDeviceSurfaceCapabilities(physicalDevice vk.PhysicalDevice, surface vk.Surface, pSurfaceCapabilities *vk.SurfaceCapabilities) vk.Result
	GetPhysicalDeviceSurfaceFormats(physicalDevice vk.PhysicalDevice, surface vk.Surface, pSurfaceFormatCount *uint32, pSurfaceFormats []vk.SurfaceFormat) vk.Result
	GetPhysicalDeviceSurfacePresentModes(physicalDevice vk.PhysicalDevice, surface vk.Surface, pPresentModeCount *uint32, pPresentModes []vk.PresentMode) vk.Result

	GetDeviceQueue(device vk.Device, queueFamilyIndex uint32, queueIndex uint32, pQueue *vk.Queue)
	DeviceWaitIdle(device vk.Device) vk.Result
	DestroyDevice(device vk.Device, pAllocator *vk.AllocationCallbacks)

	CreateSwapchain(device vk.Device, pCreateInfo *vk.SwapchainCreateInfo, pAllocator *vk.AllocationCallbacks, pSwapchain *vk.Swapchain) vk.Result
	DestroySwapchain(device vk.Device, swapchain vk.Swapchain, pAllocator *vk.AllocationCallbacks)
	GetSwapchainImages(device vk.Device, swapchain vk.Swapchain, pSwapchainImageCount *uint32, pSwapchainImages []vk.Image) vk.Result
	AcquireNextImage(device vk.Device, swapchain vk.Swapchain, timeout uint64, semaphore vk.Semaphore, fence vk.Fence, pImageIndex *uint32) vk.Result
	QueuePresent(queue vk.Queue, pPresentInfo *vk.PresentInfo) vk.Result

	AllocateMemory(device vk.Device, pAllocateInfo *vk.MemoryAllocateInfo, pAllocator *vk.AllocationCallbacks, pMemory *vk.DeviceMemory) vk.Result
	FreeMemory(device vk.Device, memory vk.DeviceMemory, pAllocator *vk.AllocationCallbacks)
	MapMemory(device vk.Device, memory vk.DeviceMemory, offset vk.DeviceSize, size vk.DeviceSize, flags vk.MemoryMapFlags, ppData *unsafe.Pointer) vk.Result
	UnmapMemory(device vk.Device, memory vk.DeviceMemory)
	FlushMappedMemoryRanges(device vk.Device, memoryRangeCount uint32, pMemoryRanges []vk.MappedMemoryRange) vk.Result
	InvalidateMappedMemoryRanges(device vk.Device, memoryRangeCount uint32, pMemoryRanges []vk.MappedMemoryRange) vk.Result

	CreateBuffer(device vk.Device, pCreateInfo *vk.BufferCreateInfo, pAllocator *vk.AllocationCallbacks, pBuffer *vk.Buffer) vk.Result
	DestroyBuffer(device vk.Device, buffer vk.Buffer, pAllocator *vk.AllocationCallbacks)
	GetBufferMemoryRequirements(device vk.Device, buffer vk.Buffer, pMemoryRequirements *vk.MemoryRequirements)
	BindBufferMemory(device vk.Device, buffer vk.Buffer, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) vk.Result

	CreateImage(device vk.Device, pCreateInfo *vk.ImageCreateInfo, pAllocator *vk.AllocationCallbacks, pImage *vk.Image) vk.Result
	DestroyImage(device vk.Device, image vk.Image, pAllocator *vk.AllocationCallbacks)
	GetImageMemoryRequirements(device vk.Device, image vk.Image, pMemoryRequirements *vk.MemoryRequirements)
	BindImageMemory(device vk.Device, image vk.Image, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) vk.Result
	CreateImageView(device vk.Device, pCreateInfo *vk.ImageViewCreateInfo, pAllocator *vk.AllocationCallbacks, pView *vk.ImageView) vk.Result
	DestroyImageView(device vk.Device, imageView vk.ImageView, pAllocator *vk.AllocationCallbacks)

	CreateSampler(device vk.Device, pCreateInfo *vk.SamplerCreateInfo, pAllocator *vk.AllocationCallbacks, pSampler *vk.Sampler) vk.Result
	DestroySampler(device vk.Device, sampler vk.Sampler, pAllocator *vk.AllocationCallbacks)

	CreateShaderModule(device vk.Device, pCreateInfo *vk.ShaderModuleCreateInfo, pAllocator *vk.AllocationCallbacks, pShaderModule *vk.ShaderModule) vk.Result
	DestroyShaderModule(device vk.Device, shaderModule vk.ShaderModule, pAllocator *vk.AllocationCallbacks)

	CreateDescriptorSetLayout(device vk.Device, pCreateInfo *vk.DescriptorSetLayoutCreateInfo, pAllocator *vk.AllocationCallbacks, pSetLayout *vk.DescriptorSetLayout) vk.Result
	DestroyDescriptorSetLayout(device vk.Device, descriptorSetLayout vk.DescriptorSetLayout, pAllocator *vk.AllocationCallbacks)
	CreatePipelineLayout(device vk.Device, pCreateInfo *vk.PipelineLayoutCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelineLayout *vk.PipelineLayout) vk.Result
	DestroyPipelineLayout(device vk.Device, pipelineLayout vk.PipelineLayout, pAllocator *vk.AllocationCallbacks)
	CreatePipelineCache(device vk.Device, pCreateInfo *vk.PipelineCacheCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelineCache *vk.PipelineCache) vk.Result
	DestroyPipelineCache(device vk.Device, pipelineCache vk.PipelineCache, pAllocator *vk.AllocationCallbacks)
	CreateGraphicsPipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.GraphicsPipelineCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelines []vk.Pipeline) vk.Result
	CreateComputePipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.ComputePipelineCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelines []vk.Pipeline) vk.Result
	DestroyPipeline(device vk.Device, pipeline vk.Pipeline, pAllocator *vk.AllocationCallbacks)

	CreateRenderPass(device vk.Device, pCreateInfo *vk.RenderPassCreateInfo, pAllocator *vk.AllocationCallbacks, pRenderPass *vk.RenderPass) vk.Result
	DestroyRenderPass(device vk.Device, renderPass vk.RenderPass, pAllocator *vk.AllocationCallbacks)
	CreateFramebuffer(device vk.Device, pCreateInfo *vk.FramebufferCreateInfo, pAllocator *vk.AllocationCallbacks, pFramebuffer *vk.Framebuffer) vk.Result
	DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer, pAllocator *vk.AllocationCallbacks)

	CreateCommandPool(device vk.Device, pCreateInfo *vk.CommandPoolCreateInfo, pAllocator *vk.AllocationCallbacks, pCommandPool *vk.CommandPool) vk.Result
	DestroyCommandPool(device vk.Device, commandPool vk.CommandPool, pAllocator *vk.AllocationCallbacks)
	AllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo, pCommandBuffers []vk.CommandBuffer) vk.Result
	FreeCommandBuffers(device vk.Device, commandPool vk.CommandPool, commandBufferCount uint32, pCommandBuffers []vk.CommandBuffer)
	BeginCommandBuffer(commandBuffer vk.CommandBuffer, pBeginInfo *vk.CommandBufferBeginInfo) vk.Result
	EndCommandBuffer(commandBuffer vk.CommandBuffer) vk.Result
	ResetCommandBuffer(commandBuffer vk.CommandBuffer, flags vk.CommandBufferResetFlags) vk.Result

	CreateDescriptorPool(device vk.Device, pCreateInfo *vk.DescriptorPoolCreateInfo, pAllocator *vk.AllocationCallbacks, pDescriptorPool *vk.DescriptorPool) vk.Result
	DestroyDescriptorPool(device vk.Device, descriptorPool vk.DescriptorPool, pAllocator *vk.AllocationCallbacks)
	ResetDescriptorPool(device vk.Device, descriptorPool vk.DescriptorPool, flags vk.DescriptorPoolResetFlags) vk.Result
	AllocateDescriptorSets(device vk.Device, pAllocateInfo *vk.DescriptorSetAllocateInfo, pDescriptorSets *vk.DescriptorSet) vk.Result
	UpdateDescriptorSets(device vk.Device, descriptorWriteCount uint32, pDescriptorWrites []vk.WriteDescriptorSet, descriptorCopyCount uint32, pDescriptorCopies []vk.CopyDescriptorSet)

	CreateFence(device vk.Device, pCreateInfo *vk.FenceCreateInfo, pAllocator *vk.AllocationCallbacks, pFence *vk.Fence) vk.Result
	DestroyFence(device vk.Device, fence vk.Fence, pAllocator *vk.AllocationCallbacks)
	WaitForFences(device vk.Device, fenceCount uint32, pFences []vk.Fence, waitAll vk.Bool32, timeout uint64) vk.Result
	ResetFences(device vk.Device, fenceCount uint32, pFences []vk.Fence) vk.Result
	CreateSemaphore(device vk.Device, pCreateInfo *vk.SemaphoreCreateInfo, pAllocator *vk.AllocationCallbacks, pSemaphore *vk.Semaphore) vk.Result
	DestroySemaphore(device vk.Device, semaphore vk.Semaphore, pAllocator *vk.AllocationCallbacks)

	QueueSubmit(queue vk.Queue, submitCount uint32, pSubmits []vk.SubmitInfo, fence vk.Fence) vk.Result
	QueueWaitIdle(queue vk.Queue) vk.Result

	CmdBeginRenderPass(commandBuffer vk.CommandBuffer, pRenderPassBegin *vk.RenderPassBeginInfo, contents vk.SubpassContents)
	CmdEndRenderPass(commandBuffer vk.CommandBuffer)
	CmdBindPipeline(commandBuffer vk.CommandBuffer, pipelineBindPoint vk.PipelineBindPoint, pipeline vk.Pipeline)
	CmdSetViewport(commandBuffer vk.CommandBuffer, firstViewport uint32, viewportCount uint32, pViewports []vk.Viewport)
	CmdSetScissor(commandBuffer vk.CommandBuffer, firstScissor uint32, scissorCount uint32, pScissors []vk.Rect2D)
	CmdBindDescriptorSets(commandBuffer vk.CommandBuffer, pipelineBindPoint vk.PipelineBindPoint, layout vk.PipelineLayout, firstSet uint32, descriptorSetCount uint32, pDescriptorSets []vk.DescriptorSet, dynamicOffsetCount uint32, pDynamicOffsets []uint32)
	CmdBindVertexBuffers(commandBuffer vk.CommandBuffer, firstBinding uint32, bindingCount uint32, pBuffers []vk.Buffer, pOffsets []vk.DeviceSize)
	CmdBindIndexBuffer(commandBuffer vk.CommandBuffer, buffer vk.Buffer, offset vk.DeviceSize, indexType vk.IndexType)
	CmdPushConstants(commandBuffer vk.CommandBuffer, layout vk.PipelineLayout, stageFlags vk.ShaderStageFlags, offset uint32, size uint32, pValues unsafe.Pointer)
	CmdDraw(commandBuffer vk.CommandBuffer, vertexCount uint32, instanceCount uint32, firstVertex uint32, firstInstance uint32)
	CmdDrawIndexed(commandBuffer vk.CommandBuffer, indexCount uint32, instanceCount uint32, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	CmdDispatch(commandBuffer vk.CommandBuffer, groupCountX uint32, groupCountY uint32, groupCountZ uint32)
	CmdCopyBuffer(commandBuffer vk.CommandBuffer, srcBuffer vk.Buffer, dstBuffer vk.Buffer, regionCount uint32, pRegions []vk.BufferCopy)
	CmdCopyBufferToImage(commandBuffer vk.CommandBuffer, srcBuffer vk.Buffer, dstImage vk.Image, dstImageLayout vk.ImageLayout, regionCount uint32, pRegions []vk.BufferImageCopy)
	CmdPipelineBarrier(commandBuffer vk.CommandBuffer, srcStageMask vk.PipelineStageFlags, dstStageMask vk.PipelineStageFlags, dependencyFlags vk.DependencyFlags, memoryBarrierCount uint32, pMemoryBarriers []vk.MemoryBarrier, bufferMemoryBarrierCount uint32, pBufferMemoryBarriers []vk.BufferMemoryBarrier, imageMemoryBarrierCount uint32, pImageMemoryBarriers []vk.ImageMemoryBarrier)
	CmdClearAttachments(commandBuffer vk.CommandBuffer, attachmentCount uint32, pAttachments []vk.ClearAttachment, rectCount uint32, pRects []vk.ClearRect)
}

// vulkanDriver forwards every call to the loaded Vulkan library.
type vulkanDriver struct{}

func (vulkanDriver) GetPhysicalDeviceMemoryProperties(physicalDevice vk.PhysicalDevice, pMemoryProperties *vk.PhysicalDeviceMemoryProperties) {
	vk.GetPhysicalDeviceMemoryProperties(physicalDevice, pMemoryProperties)
}

func (vulkanDriver) GetPhysicalDeviceFormatProperties(physicalDevice vk.PhysicalDevice, format vk.Format, pFormatProperties *vk.FormatProperties) {
	vk.GetPhysicalDeviceFormatProperties(physicalDevice, format, pFormatProperties)
}

func (vulkanDriver) GetPhysicalDeviceSurfaceCapabilities(physicalDevice vk.PhysicalDevice, surface vk.Surface, pSurfaceCapabilities *vk.SurfaceCapabilities) vk.Result {
	return vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, surface, pSurfaceCapabilities)
}

func (vulkanDriver) GetPhysicalDeviceSurfaceFormats(physicalDevice vk.PhysicalDevice, surface vk.Surface, pSurfaceFormatCount *uint32, pSurfaceFormats []vk.SurfaceFormat) vk.Result {
	return vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, pSurfaceFormatCount, pSurfaceFormats)
}

func (vulkanDriver) GetPhysicalDeviceSurfacePresentModes(physicalDevice vk.PhysicalDevice, surface vk.Surface, pPresentModeCount *uint32, pPresentModes []vk.PresentMode) vk.Result {
	return vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, pPresentModeCount, pPresentModes)
}

func (vulkanDriver) GetDeviceQueue(device vk.Device, queueFamilyIndex uint32, queueIndex uint32, pQueue *vk.Queue) {
	vk.GetDeviceQueue(device, queueFamilyIndex, queueIndex, pQueue)
}

func (vulkanDriver) DeviceWaitIdle(device vk.Device) vk.Result {
	return vk.DeviceWaitIdle(device)
}

func (vulkanDriver) DestroyDevice(device vk.Device, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyDevice(device, pAllocator)
}

func (vulkanDriver) CreateSwapchain(device vk.Device, pCreateInfo *vk.SwapchainCreateInfo, pAllocator *vk.AllocationCallbacks, pSwapchain *vk.Swapchain) vk.Result {
	return vk.CreateSwapchain(device, pCreateInfo, pAllocator, pSwapchain)
}

func (vulkanDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain, pAllocator *vk.AllocationCallbacks) {
	vk.DestroySwapchain(device, swapchain, pAllocator)
}

func (vulkanDriver) GetSwapchainImages(device vk.Device, swapchain vk.Swapchain, pSwapchainImageCount *uint32, pSwapchainImages []vk.Image) vk.Result {
	return vk.GetSwapchainImages(device, swapchain, pSwapchainImageCount, pSwapchainImages)
}

func (vulkanDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, timeout uint64, semaphore vk.Semaphore, fence vk.Fence, pImageIndex *uint32) vk.Result {
	return vk.AcquireNextImage(device, swapchain, timeout, semaphore, fence, pImageIndex)
}

func (vulkanDriver) QueuePresent(queue vk.Queue, pPresentInfo *vk.PresentInfo) vk.Result {
	return vk.QueuePresent(queue, pPresentInfo)
}

func (vulkanDriver) AllocateMemory(device vk.Device, pAllocateInfo *vk.MemoryAllocateInfo, pAllocator *vk.AllocationCallbacks, pMemory *vk.DeviceMemory) vk.Result {
	return vk.AllocateMemory(device, pAllocateInfo, pAllocator, pMemory)
}

func (vulkanDriver) FreeMemory(device vk.Device, memory vk.DeviceMemory, pAllocator *vk.AllocationCallbacks) {
	vk.FreeMemory(device, memory, pAllocator)
}

func (vulkanDriver) MapMemory(device vk.Device, memory vk.DeviceMemory, offset vk.DeviceSize, size vk.DeviceSize, flags vk.MemoryMapFlags, ppData *unsafe.Pointer) vk.Result {
	return vk.MapMemory(device, memory, offset, size, flags, ppData)
}

func (vulkanDriver) UnmapMemory(device vk.Device, memory vk.DeviceMemory) {
	vk.UnmapMemory(device, memory)
}

func (vulkanDriver) FlushMappedMemoryRanges(device vk.Device, memoryRangeCount uint32, pMemoryRanges []vk.MappedMemoryRange) vk.Result {
	return vk.FlushMappedMemoryRanges(device, memoryRangeCount, pMemoryRanges)
}

func (vulkanDriver) InvalidateMappedMemoryRanges(device vk.Device, memoryRangeCount uint32, pMemoryRanges []vk.MappedMemoryRange) vk.Result {
	return vk.InvalidateMappedMemoryRanges(device, memoryRangeCount, pMemoryRanges)
}

func (vulkanDriver) CreateBuffer(device vk.Device, pCreateInfo *vk.BufferCreateInfo, pAllocator *vk.AllocationCallbacks, pBuffer *vk.Buffer) vk.Result {
	return vk.CreateBuffer(device, pCreateInfo, pAllocator, pBuffer)
}

func (vulkanDriver) DestroyBuffer(device vk.Device, buffer vk.Buffer, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyBuffer(device, buffer, pAllocator)
}

func (vulkanDriver) GetBufferMemoryRequirements(device vk.Device, buffer vk.Buffer, pMemoryRequirements *vk.MemoryRequirements) {
	vk.GetBufferMemoryRequirements(device, buffer, pMemoryRequirements)
}

func (vulkanDriver) BindBufferMemory(device vk.Device, buffer vk.Buffer, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) vk.Result {
	return vk.BindBufferMemory(device, buffer, memory, memoryOffset)
}

func (vulkanDriver) CreateImage(device vk.Device, pCreateInfo *vk.ImageCreateInfo, pAllocator *vk.AllocationCallbacks, pImage *vk.Image) vk.Result {
	return vk.CreateImage(device, pCreateInfo, pAllocator, pImage)
}

func (vulkanDriver) DestroyImage(device vk.Device, image vk.Image, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyImage(device, image, pAllocator)
}

func (vulkanDriver) GetImageMemoryRequirements(device vk.Device, image vk.Image, pMemoryRequirements *vk.MemoryRequirements) {
	vk.GetImageMemoryRequirements(device, image, pMemoryRequirements)
}

func (vulkanDriver) BindImageMemory(device vk.Device, image vk.Image, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) vk.Result {
	return vk.BindImageMemory(device, image, memory, memoryOffset)
}

func (vulkanDriver) CreateImageView(device vk.Device, pCreateInfo *vk.ImageViewCreateInfo, pAllocator *vk.AllocationCallbacks, pView *vk.ImageView) vk.Result {
	return vk.CreateImageView(device, pCreateInfo, pAllocator, pView)
}

func (vulkanDriver) DestroyImageView(device vk.Device, imageView vk.ImageView, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyImageView(device, imageView, pAllocator)
}

func (vulkanDriver) CreateSampler(device vk.Device, pCreateInfo *vk.SamplerCreateInfo, pAllocator *vk.AllocationCallbacks, pSampler *vk.Sampler) vk.Result {
	return vk.CreateSampler(device, pCreateInfo, pAllocator, pSampler)
}

func (vulkanDriver) DestroySampler(device vk.Device, sampler vk.Sampler, pAllocator *vk.AllocationCallbacks) {
	vk.DestroySampler(device, sampler, pAllocator)
}

func (vulkanDriver) CreateShaderModule(device vk.Device, pCreateInfo *vk.ShaderModuleCreateInfo, pAllocator *vk.AllocationCallbacks, pShaderModule *vk.ShaderModule) vk.Result {
	return vk.CreateShaderModule(device, pCreateInfo, pAllocator, pShaderModule)
}

func (vulkanDriver) DestroyShaderModule(device vk.Device, shaderModule vk.ShaderModule, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyShaderModule(device, shaderModule, pAllocator)
}

func (vulkanDriver) CreateDescriptorSetLayout(device vk.Device, pCreateInfo *vk.DescriptorSetLayoutCreateInfo, pAllocator *vk.AllocationCallbacks, pSetLayout *vk.DescriptorSetLayout) vk.Result {
	return vk.CreateDescriptorSetLayout(device, pCreateInfo, pAllocator, pSetLayout)
}

func (vulkanDriver) DestroyDescriptorSetLayout(device vk.Device, descriptorSetLayout vk.DescriptorSetLayout, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyDescriptorSetLayout(device, descriptorSetLayout, pAllocator)
}

func (vulkanDriver) CreatePipelineLayout(device vk.Device, pCreateInfo *vk.PipelineLayoutCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelineLayout *vk.PipelineLayout) vk.Result {
	return vk.CreatePipelineLayout(device, pCreateInfo, pAllocator, pPipelineLayout)
}

func (vulkanDriver) DestroyPipelineLayout(device vk.Device, pipelineLayout vk.PipelineLayout, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyPipelineLayout(device, pipelineLayout, pAllocator)
}

func (vulkanDriver) CreatePipelineCache(device vk.Device, pCreateInfo *vk.PipelineCacheCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelineCache *vk.PipelineCache) vk.Result {
	return vk.CreatePipelineCache(device, pCreateInfo, pAllocator, pPipelineCache)
}

func (vulkanDriver) DestroyPipelineCache(device vk.Device, pipelineCache vk.PipelineCache, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyPipelineCache(device, pipelineCache, pAllocator)
}

func (vulkanDriver) CreateGraphicsPipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.GraphicsPipelineCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelines []vk.Pipeline) vk.Result {
	return vk.CreateGraphicsPipelines(device, pipelineCache, createInfoCount, pCreateInfos, pAllocator, pPipelines)
}

func (vulkanDriver) CreateComputePipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.ComputePipelineCreateInfo, pAllocator *vk.AllocationCallbacks, pPipelines []vk.Pipeline) vk.Result {
	return vk.CreateComputePipelines(device, pipelineCache, createInfoCount, pCreateInfos, pAllocator, pPipelines)
}

func (vulkanDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyPipeline(device, pipeline, pAllocator)
}

func (vulkanDriver) CreateRenderPass(device vk.Device, pCreateInfo *vk.RenderPassCreateInfo, pAllocator *vk.AllocationCallbacks, pRenderPass *vk.RenderPass) vk.Result {
	return vk.CreateRenderPass(device, pCreateInfo, pAllocator, pRenderPass)
}

func (vulkanDriver) DestroyRenderPass(device vk.Device, renderPass vk.RenderPass, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyRenderPass(device, renderPass, pAllocator)
}

func (vulkanDriver) CreateFramebuffer(device vk.Device, pCreateInfo *vk.FramebufferCreateInfo, pAllocator *vk.AllocationCallbacks, pFramebuffer *vk.Framebuffer) vk.Result {
	return vk.CreateFramebuffer(device, pCreateInfo, pAllocator, pFramebuffer)
}

func (vulkanDriver) DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyFramebuffer(device, framebuffer, pAllocator)
}

func (vulkanDriver) CreateCommandPool(device vk.Device, pCreateInfo *vk.CommandPoolCreateInfo, pAllocator *vk.AllocationCallbacks, pCommandPool *vk.CommandPool) vk.Result {
	return vk.CreateCommandPool(device, pCreateInfo, pAllocator, pCommandPool)
}

func (vulkanDriver) DestroyCommandPool(device vk.Device, commandPool vk.CommandPool, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyCommandPool(device, commandPool, pAllocator)
}

func (vulkanDriver) AllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo, pCommandBuffers []vk.CommandBuffer) vk.Result {
	return vk.AllocateCommandBuffers(device, pAllocateInfo, pCommandBuffers)
}

func (vulkanDriver) FreeCommandBuffers(device vk.Device, commandPool vk.CommandPool, commandBufferCount uint32, pCommandBuffers []vk.CommandBuffer) {
	vk.FreeCommandBuffers(device, commandPool, commandBufferCount, pCommandBuffers)
}

func (vulkanDriver) BeginCommandBuffer(commandBuffer vk.CommandBuffer, pBeginInfo *vk.CommandBufferBeginInfo) vk.Result {
	return vk.BeginCommandBuffer(commandBuffer, pBeginInfo)
}

func (vulkanDriver) EndCommandBuffer(commandBuffer vk.CommandBuffer) vk.Result {
	return vk.EndCommandBuffer(commandBuffer)
}

func (vulkanDriver) ResetCommandBuffer(commandBuffer vk.CommandBuffer, flags vk.CommandBufferResetFlags) vk.Result {
	return vk.ResetCommandBuffer(commandBuffer, flags)
}

func (vulkanDriver) CreateDescriptorPool(device vk.Device, pCreateInfo *vk.DescriptorPoolCreateInfo, pAllocator *vk.AllocationCallbacks, pDescriptorPool *vk.DescriptorPool) vk.Result {
	return vk.CreateDescriptorPool(device, pCreateInfo, pAllocator, pDescriptorPool)
}

func (vulkanDriver) DestroyDescriptorPool(device vk.Device, descriptorPool vk.DescriptorPool, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyDescriptorPool(device, descriptorPool, pAllocator)
}

func (vulkanDriver) ResetDescriptorPool(device vk.Device, descriptorPool vk.DescriptorPool, flags vk.DescriptorPoolResetFlags) vk.Result {
	return vk.ResetDescriptorPool(device, descriptorPool, flags)
}

func (vulkanDriver) AllocateDescriptorSets(device vk.Device, pAllocateInfo *vk.DescriptorSetAllocateInfo, pDescriptorSets *vk.DescriptorSet) vk.Result {
	return vk.AllocateDescriptorSets(device, pAllocateInfo, pDescriptorSets)
}

func (vulkanDriver) UpdateDescriptorSets(device vk.Device, descriptorWriteCount uint32, pDescriptorWrites []vk.WriteDescriptorSet, descriptorCopyCount uint32, pDescriptorCopies []vk.CopyDescriptorSet) {
	vk.UpdateDescriptorSets(device, descriptorWriteCount, pDescriptorWrites, descriptorCopyCount, pDescriptorCopies)
}

func (vulkanDriver) CreateFence(device vk.Device, pCreateInfo *vk.FenceCreateInfo, pAllocator *vk.AllocationCallbacks, pFence *vk.Fence) vk.Result {
	return vk.CreateFence(device, pCreateInfo, pAllocator, pFence)
}

func (vulkanDriver) DestroyFence(device vk.Device, fence vk.Fence, pAllocator *vk.AllocationCallbacks) {
	vk.DestroyFence(device, fence, pAllocator)
}

func (vulkanDriver) WaitForFences(device vk.Device, fenceCount uint32, pFences []vk.Fence, waitAll vk.Bool32, timeout uint64) vk.Result {
	return vk.WaitForFences(device, fenceCount, pFences, waitAll, timeout)
}

func (vulkanDriver) ResetFences(device vk.Device, fenceCount uint32, pFences []vk.Fence) vk.Result {
	return vk.ResetFences(device, fenceCount, pFences)
}

func (vulkanDriver) CreateSemaphore(device vk.Device, pCreateInfo *vk.SemaphoreCreateInfo, pAllocator *vk.AllocationCallbacks, pSemaphore *vk.Semaphore) vk.Result {
	return vk.CreateSemaphore(device, pCreateInfo, pAllocator, pSemaphore)
}

func (vulkanDriver) DestroySemaphore(device vk.Device, semaphore vk.Semaphore, pAllocator *vk.AllocationCallbacks) {
	vk.DestroySemaphore(device, semaphore, pAllocator)
}

func (vulkanDriver) QueueSubmit(queue vk.Queue, submitCount uint32, pSubmits []vk.SubmitInfo, fence vk.Fence) vk.Result {
	return vk.QueueSubmit(queue, submitCount, pSubmits, fence)
}

func (vulkanDriver) QueueWaitIdle(queue vk.Queue) vk.Result {
	return vk.QueueWaitIdle(queue)
}

func (vulkanDriver) CmdBeginRenderPass(commandBuffer vk.CommandBuffer, pRenderPassBegin *vk.RenderPassBeginInfo, contents vk.SubpassContents) {
	vk.CmdBeginRenderPass(commandBuffer, pRenderPassBegin, contents)
}

func (vulkanDriver) CmdEndRenderPass(commandBuffer vk.CommandBuffer) {
	vk.CmdEndRenderPass(commandBuffer)
}

func (vulkanDriver) CmdBindPipeline(commandBuffer vk.CommandBuffer, pipelineBindPoint vk.PipelineBindPoint, pipeline vk.Pipeline) {
	vk.CmdBindPipeline(commandBuffer, pipelineBindPoint, pipeline)
}

func (vulkanDriver) CmdSetViewport(commandBuffer vk.CommandBuffer, firstViewport uint32, viewportCount uint32, pViewports []vk.Viewport) {
	vk.CmdSetViewport(commandBuffer, firstViewport, viewportCount, pViewports)
}

func (vulkanDriver) CmdSetScissor(commandBuffer vk.CommandBuffer, firstScissor uint32, scissorCount uint32, pScissors []vk.Rect2D) {
	vk.CmdSetScissor(commandBuffer, firstScissor, scissorCount, pScissors)
}

func (vulkanDriver) CmdBindDescriptorSets(commandBuffer vk.CommandBuffer, pipelineBindPoint vk.PipelineBindPoint, layout vk.PipelineLayout, firstSet uint32, descriptorSetCount uint32, pDescriptorSets []vk.DescriptorSet, dynamicOffsetCount uint32, pDynamicOffsets []uint32) {
	vk.CmdBindDescriptorSets(commandBuffer, pipelineBindPoint, layout, firstSet, descriptorSetCount, pDescriptorSets, dynamicOffsetCount, pDynamicOffsets)
}

func (vulkanDriver) CmdBindVertexBuffers(commandBuffer vk.CommandBuffer, firstBinding uint32, bindingCount uint32, pBuffers []vk.Buffer, pOffsets []vk.DeviceSize) {
	vk.CmdBindVertexBuffers(commandBuffer, firstBinding, bindingCount, pBuffers, pOffsets)
}

func (vulkanDriver) CmdBindIndexBuffer(commandBuffer vk.CommandBuffer, buffer vk.Buffer, offset vk.DeviceSize, indexType vk.IndexType) {
	vk.CmdBindIndexBuffer(commandBuffer, buffer, offset, indexType)
}

func (vulkanDriver) CmdPushConstants(commandBuffer vk.CommandBuffer, layout vk.PipelineLayout, stageFlags vk.ShaderStageFlags, offset uint32, size uint32, pValues unsafe.Pointer) {
	vk.CmdPushConstants(commandBuffer, layout, stageFlags, offset, size, pValues)
}

func (vulkanDriver) CmdDraw(commandBuffer vk.CommandBuffer, vertexCount uint32, instanceCount uint32, firstVertex uint32, firstInstance uint32) {
	vk.CmdDraw(commandBuffer, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (vulkanDriver) CmdDrawIndexed(commandBuffer vk.CommandBuffer, indexCount uint32, instanceCount uint32, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	vk.CmdDrawIndexed(commandBuffer, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (vulkanDriver) CmdDispatch(commandBuffer vk.CommandBuffer, groupCountX uint32, groupCountY uint32, groupCountZ uint32) {
	vk.CmdDispatch(commandBuffer, groupCountX, groupCountY, groupCountZ)
}

func (vulkanDriver) CmdCopyBuffer(commandBuffer vk.CommandBuffer, srcBuffer vk.Buffer, dstBuffer vk.Buffer, regionCount uint32, pRegions []vk.BufferCopy) {
	vk.CmdCopyBuffer(commandBuffer, srcBuffer, dstBuffer, regionCount, pRegions)
}

func (vulkanDriver) CmdCopyBufferToImage(commandBuffer vk.CommandBuffer, srcBuffer vk.Buffer, dstImage vk.Image, dstImageLayout vk.ImageLayout, regionCount uint32, pRegions []vk.BufferImageCopy) {
	vk.CmdCopyBufferToImage(commandBuffer, srcBuffer, dstImage, dstImageLayout, regionCount, pRegions)
}

func (vulkanDriver) CmdPipelineBarrier(commandBuffer vk.CommandBuffer, srcStageMask vk.PipelineStageFlags, dstStageMask vk.PipelineStageFlags, dependencyFlags vk.DependencyFlags, memoryBarrierCount uint32, pMemoryBarriers []vk.MemoryBarrier, bufferMemoryBarrierCount uint32, pBufferMemoryBarriers []vk.BufferMemoryBarrier, imageMemoryBarrierCount uint32, pImageMemoryBarriers []vk.ImageMemoryBarrier) {
	vk.CmdPipelineBarrier(commandBuffer, srcStageMask, dstStageMask, dependencyFlags, memoryBarrierCount, pMemoryBarriers, bufferMemoryBarrierCount, pBufferMemoryBarriers, imageMemoryBarrierCount, pImageMemoryBarriers)
}

func (vulkanDriver) CmdClearAttachments(commandBuffer vk.CommandBuffer, attachmentCount uint32, pAttachments []vk.ClearAttachment, rectCount uint32, pRects []vk.ClearRect) {
	vk.CmdClearAttachments(commandBuffer, attachmentCount, pAttachments, rectCount, pRects)
}
