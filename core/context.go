// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// newContext allocates a command buffer, a signaled fence and a
// descriptor pool sized for one frame of commits.
func newContext(d *Device) (*Context, error) {
	c := &Context{device: d}

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
	c.cmd = cmds[0]

	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	if err := vk.Error(d.api.CreateFence(d.device, &fci, nil, &c.fence)); err != nil {
		c.Release()
		return nil, errors.Wrap(err, "vk.CreateFence()")
	}

	sets := d.cfg.descriptorSetsPerFrame()
	sizes := descriptorPoolSizes(sets)
	dpci := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       sets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}
	if err := vk.Error(d.api.CreateDescriptorPool(d.device, &dpci, nil, &c.descriptorPool)); err != nil {
		c.Release()
		return nil, errors.Wrap(err, "vk.CreateDescriptorPool()")
	}
	return c, nil
}

// Context records the commands of one swapchain image. Its fence is
// signaled when the GPU is done with the last submission, only then
// may it be recorded again.
type Context struct {
	device         *Device
	cmd            vk.CommandBuffer
	fence          vk.Fence
	descriptorPool vk.DescriptorPool

	recording bool
	pass      *Framebuffer
	bindings  bindingTable
}

// CommandBuffer returns the command buffer being recorded.
func (c *Context) CommandBuffer() vk.CommandBuffer {
	return c.cmd
}

// Fence returns the fence guarding the context.
func (c *Context) Fence() vk.Fence {
	return c.fence
}

// Begin resets the descriptor pool and the binding tables and starts
// recording. The caller must have observed the fence signaled.
func (c *Context) Begin() error {
	if err := vk.Error(c.device.api.ResetDescriptorPool(c.device.device, c.descriptorPool, 0)); err != nil {
		return errors.Wrap(err, "vk.ResetDescriptorPool()")
	}
	if err := vk.Error(c.device.api.ResetCommandBuffer(c.cmd, 0)); err != nil {
		return errors.Wrap(err, "vk.ResetCommandBuffer()")
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(c.device.api.BeginCommandBuffer(c.cmd, &cbbi)); err != nil {
		return errors.Wrap(err, "vk.BeginCommandBuffer()")
	}

	c.bindings.reset()
	c.pass = nil
	c.recording = true
	return nil
}

// End closes an open pass and finishes recording.
func (c *Context) End() error {
	if c.pass != nil {
		c.EndPass()
	}
	c.recording = false
	if err := vk.Error(c.device.api.EndCommandBuffer(c.cmd)); err != nil {
		return errors.Wrap(err, "vk.EndCommandBuffer()")
	}
	return nil
}

// BeginPass moves the attachments of fb into their attachment layouts
// and opens its render pass. Viewport and scissor are reset to the
// whole framebuffer. Passes do not nest.
func (c *Context) BeginPass(fb *Framebuffer) {
	if !c.recording {
		panic("core: BeginPass outside of recording")
	}
	if c.pass != nil {
		panic("core: BeginPass while another pass is open")
	}

	for _, a := range fb.attachments {
		layout := vk.ImageLayoutColorAttachmentOptimal
		if isDepthStencil(a.Aspect()) {
			layout = vk.ImageLayoutDepthStencilAttachmentOptimal
		}
		if a.texture.layout != layout {
			c.device.TransitionImageLayout(c.cmd, a.texture, layout)
		}
	}

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  fb.renderPass,
		Framebuffer: fb.framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: fb.extent,
		},
	}
	c.device.api.CmdBeginRenderPass(c.cmd, &rpbi, vk.SubpassContentsInline)

	c.pass = fb
	c.bindings.reset()
	c.SetViewport(mgl32.Vec2{0, 0}, mgl32.Vec2{float32(fb.extent.Width), float32(fb.extent.Height)})
	c.SetScissor(0, 0, fb.extent.Width, fb.extent.Height)
}

// EndPass closes the open render pass.
func (c *Context) EndPass() {
	if c.pass == nil {
		panic("core: EndPass without an open pass")
	}
	c.device.api.CmdEndRenderPass(c.cmd)
	c.pass = nil
}

// ClearRenderTarget clears rect of every attachment of the open pass,
// color attachments to color and depth stencil ones to depth and stencil.
func (c *Context) ClearRenderTarget(rect vk.Rect2D, color [4]float32, depth float32, stencil uint32) {
	if c.pass == nil {
		panic("core: ClearRenderTarget without an open pass")
	}

	var (
		attachments []vk.ClearAttachment
		colorIdx    uint32
	)
	for _, a := range c.pass.attachments {
		var ca vk.ClearAttachment
		ca.AspectMask = a.Aspect()
		if isDepthStencil(a.Aspect()) {
			ca.ClearValue.SetDepthStencil(depth, stencil)
		} else {
			ca.ColorAttachment = colorIdx
			ca.ClearValue.SetColor(color[:])
			colorIdx++
		}
		attachments = append(attachments, ca)
	}

	rects := []vk.ClearRect{{
		Rect:           rect,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}}
	c.device.api.CmdClearAttachments(c.cmd, uint32(len(attachments)), attachments, 1, rects)
}

// SetViewport sets the viewport with a 0..1 depth range.
func (c *Context) SetViewport(origin, size mgl32.Vec2) {
	viewport := vk.Viewport{
		X:        origin.X(),
		Y:        origin.Y(),
		Width:    size.X(),
		Height:   size.Y(),
		MinDepth: 0,
		MaxDepth: 1,
	}
	c.device.api.CmdSetViewport(c.cmd, 0, 1, []vk.Viewport{viewport})
}

// SetScissor sets the scissor rectangle.
func (c *Context) SetScissor(x, y int32, width, height uint32) {
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: x, Y: y},
		Extent: vk.Extent2D{Width: width, Height: height},
	}
	c.device.api.CmdSetScissor(c.cmd, 0, 1, []vk.Rect2D{scissor})
}

// SetPipeline binds a graphics pipeline.
func (c *Context) SetPipeline(p *GraphicsPipeline) {
	c.device.api.CmdBindPipeline(c.cmd, vk.PipelineBindPointGraphics, p.pipeline)
}

// SetComputePipeline binds a compute pipeline. Compute work is
// recorded outside of render passes.
func (c *Context) SetComputePipeline(p *ComputePipeline) {
	if c.pass != nil {
		panic("core: compute pipeline bound inside a render pass")
	}
	c.device.api.CmdBindPipeline(c.cmd, vk.PipelineBindPointCompute, p.pipeline)
}

// SetVertexBuffer binds b at vertex input binding.
func (c *Context) SetVertexBuffer(b *Buffer, binding uint32, offset int) {
	c.device.api.CmdBindVertexBuffers(c.cmd, binding, 1, []vk.Buffer{b.buffer}, []vk.DeviceSize{vk.DeviceSize(offset)})
}

// SetIndexBuffer binds b as the index buffer.
func (c *Context) SetIndexBuffer(b *Buffer, offset int, indexType vk.IndexType) {
	c.device.api.CmdBindIndexBuffer(c.cmd, b.buffer, vk.DeviceSize(offset), indexType)
}

// SetUniformBuffer makes b pending at uniform buffer slot.
func (c *Context) SetUniformBuffer(b *Buffer, slot int) {
	c.bindings.setUniformBuffer(b, slot)
}

// SetTexture makes view, sampled with s, pending at texture slot.
// The texture is expected in the shader read only layout.
func (c *Context) SetTexture(view *TextureView, s *Sampler, slot int) {
	c.bindings.setTexture(view, s, slot)
}

// SetStorageImage makes view pending at storage image slot.
// The texture is expected in the general layout.
func (c *Context) SetStorageImage(view *TextureView, slot int) {
	c.bindings.setStorageImage(view, slot)
}

// CommitBindings writes the pending bindings into a fresh descriptor
// set and binds it for graphics. Nothing happens if no binding changed
// since the last graphics commit.
func (c *Context) CommitBindings() error {
	return c.commit(vk.PipelineBindPointGraphics)
}

// CommitBindingsCompute is CommitBindings for the compute bind point.
func (c *Context) CommitBindingsCompute() error {
	return c.commit(vk.PipelineBindPointCompute)
}

func (c *Context) commit(bindPoint vk.PipelineBindPoint) error {
	if !c.bindings.dirty(bindPoint) {
		return nil
	}

	dsai := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     c.descriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{c.device.descriptorSetLayout},
	}
	var set vk.DescriptorSet
	if err := vk.Error(c.device.api.AllocateDescriptorSets(c.device.device, &dsai, &set)); err != nil {
		return errors.Wrap(err, "vk.AllocateDescriptorSets()")
	}

	writes := c.bindings.writes(set)
	if len(writes) > 0 {
		c.device.api.UpdateDescriptorSets(c.device.device, uint32(len(writes)), writes, 0, nil)
	}
	c.device.api.CmdBindDescriptorSets(c.cmd, bindPoint, c.device.pipelineLayout, 0, 1, []vk.DescriptorSet{set}, 0, nil)
	c.bindings.committed(bindPoint)
	return nil
}

// PushConstants records data at offset into the push constant range.
func (c *Context) PushConstants(offset uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	if int(offset)+len(data) > MaxPushConstantSize {
		panic("core: push constants exceed the pipeline layout range")
	}
	c.device.api.CmdPushConstants(c.cmd, c.device.pipelineLayout, descriptorStages, offset, uint32(len(data)), unsafe.Pointer(&data[0]))
}

// Draw records a non indexed draw.
func (c *Context) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	c.device.api.CmdDraw(c.cmd, vertexCount, instanceCount, firstVertex, firstInstance)
}

// DrawIndexed records an indexed draw.
func (c *Context) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	c.device.api.CmdDrawIndexed(c.cmd, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

// Dispatch records a compute dispatch.
func (c *Context) Dispatch(x, y, z uint32) {
	c.device.api.CmdDispatch(c.cmd, x, y, z)
}

// TransitionImageLayout records a layout transition of t. Barriers
// are not allowed inside a pass.
func (c *Context) TransitionImageLayout(t *Texture, layout vk.ImageLayout) {
	if c.pass != nil {
		panic("core: layout transition inside a render pass")
	}
	c.device.TransitionImageLayout(c.cmd, t, layout)
}

// Release frees the command buffer, fence and descriptor pool.
func (c *Context) Release() {
	if c == nil {
		return
	}
	d := c.device
	if c.descriptorPool != nil {
		d.api.DestroyDescriptorPool(d.device, c.descriptorPool, nil)
		c.descriptorPool = nil
	}
	if c.fence != nil {
		d.api.DestroyFence(d.device, c.fence, nil)
		c.fence = nil
	}
	if c.cmd != nil {
		d.api.FreeCommandBuffers(d.device, d.commandPool, 1, []vk.CommandBuffer{c.cmd})
		c.cmd = nil
	}
}
