// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// renderPassKey folds aspect, format and mip range of every attachment,
// in order, into one key.
func renderPassKey(attachments []*TextureView) uint64 {
	h := fnv.New64a()
	var field [4]byte
	for _, a := range attachments {
		for _, v := range []uint32{uint32(a.Aspect()), uint32(a.Format()), a.BaseMip(), a.MipCount()} {
			binary.LittleEndian.PutUint32(field[:], v)
			h.Write(field[:])
		}
	}
	return h.Sum64()
}

func newRenderPassCache(api driver, device vk.Device) *RenderPassCache {
	return &RenderPassCache{
		api:    api,
		device: device,
		passes: make(map[uint64]vk.RenderPass),
	}
}

// RenderPassCache keeps one render pass per attachment signature, so
// framebuffers and pipelines that share a signature stay compatible.
// Not safe for concurrent use.
type RenderPassCache struct {
	api    driver
	device vk.Device
	passes map[uint64]vk.RenderPass
}

// GetOrCreate returns the render pass for the attachment signature.
// Color attachments are expected in the color attachment layout and
// the depth attachment in the depth stencil layout, both loaded and
// stored. More than one depth attachment is a programming error.
func (c *RenderPassCache) GetOrCreate(attachments []*TextureView) (vk.RenderPass, error) {
	key := renderPassKey(attachments)
	if rp, ok := c.passes[key]; ok {
		return rp, nil
	}

	var (
		descriptions []vk.AttachmentDescription
		colorRefs    []vk.AttachmentReference
		depthRef     *vk.AttachmentReference
	)
	for idx, a := range attachments {
		if isDepthStencil(a.Aspect()) {
			if depthRef != nil {
				panic("core: render pass with more than one depth stencil attachment")
			}
			depthRef = &vk.AttachmentReference{
				Attachment: uint32(idx),
				Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
			}
			descriptions = append(descriptions, vk.AttachmentDescription{
				Format:         a.Format(),
				Samples:        vk.SampleCount1Bit,
				LoadOp:         vk.AttachmentLoadOpLoad,
				StoreOp:        vk.AttachmentStoreOpStore,
				StencilLoadOp:  vk.AttachmentLoadOpLoad,
				StencilStoreOp: vk.AttachmentStoreOpStore,
				InitialLayout:  vk.ImageLayoutDepthStencilAttachmentOptimal,
				FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
			})
			continue
		}

		colorRefs = append(colorRefs, vk.AttachmentReference{
			Attachment: uint32(idx),
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		})
		descriptions = append(descriptions, vk.AttachmentDescription{
			Format:         a.Format(),
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpLoad,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutColorAttachmentOptimal,
			FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
		})
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    uint32(len(colorRefs)),
		PColorAttachments:       colorRefs,
		PDepthStencilAttachment: depthRef,
	}

	subpassDependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}
	if depthRef != nil {
		// the depth target is shared by frames in flight, so the previous
		// pass's depth writes have to land before this one loads it
		depthStages := vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit)
		subpassDependency.SrcStageMask |= depthStages
		subpassDependency.SrcAccessMask |= vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit)
		subpassDependency.DstStageMask |= depthStages
		subpassDependency.DstAccessMask |= vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit)
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(descriptions)),
		PAttachments:    descriptions,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{subpassDependency},
	}

	var renderPass vk.RenderPass
	if err := vk.Error(c.api.CreateRenderPass(c.device, &rpci, nil, &renderPass)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateRenderPass()")
	}

	c.passes[key] = renderPass
	log.WithFields(log.Fields{
		"key":         key,
		"attachments": len(attachments),
	}).Debug("render pass created")
	return renderPass, nil
}

// Len is the number of cached render passes.
func (c *RenderPassCache) Len() int {
	return len(c.passes)
}

// Clear destroys every cached render pass. Only valid once no
// framebuffer or pipeline refers to any of them.
func (c *RenderPassCache) Clear() {
	for key, rp := range c.passes {
		c.api.DestroyRenderPass(c.device, rp, nil)
		delete(c.passes, key)
	}
}

// NewFramebuffer creates a framebuffer over the attachments, using the
// cached render pass for their signature. All attachments must have the
// extent of the first one.
func NewFramebuffer(d *Device, attachments []*TextureView) (*Framebuffer, error) {
	if len(attachments) == 0 {
		return nil, errors.New("framebuffer without attachments")
	}

	renderPass, err := d.renderPasses.GetOrCreate(attachments)
	if err != nil {
		return nil, err
	}

	extent := attachments[0].Extent()
	views := make([]vk.ImageView, len(attachments))
	for idx, a := range attachments {
		views[idx] = a.Handle()
	}

	fci := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	if err := vk.Error(d.api.CreateFramebuffer(d.device, &fci, nil, &framebuffer)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateFramebuffer()")
	}

	return &Framebuffer{
		device:      d,
		framebuffer: framebuffer,
		renderPass:  renderPass,
		attachments: append([]*TextureView(nil), attachments...),
		extent:      extent,
	}, nil
}

// Framebuffer binds a set of attachment views to a cached render pass.
type Framebuffer struct {
	device      *Device
	framebuffer vk.Framebuffer
	renderPass  vk.RenderPass
	attachments []*TextureView
	extent      vk.Extent2D
}

// Handle returns the vulkan Framebuffer handle.
func (f *Framebuffer) Handle() vk.Framebuffer {
	return f.framebuffer
}

// RenderPass returns the cached render pass the framebuffer was built for.
func (f *Framebuffer) RenderPass() vk.RenderPass {
	return f.renderPass
}

// Attachments returns the attachment views in order.
func (f *Framebuffer) Attachments() []*TextureView {
	return f.attachments
}

// Extent of the framebuffer
func (f *Framebuffer) Extent() vk.Extent2D {
	return f.extent
}

// Release destroys the framebuffer. Attachments and the
// render pass stay alive.
func (f *Framebuffer) Release() {
	if f == nil || f.framebuffer == nil {
		return
	}
	f.device.api.DestroyFramebuffer(f.device.device, f.framebuffer, nil)
	f.framebuffer = nil
}
