// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Slot counts of the descriptor set layout shared by every pipeline.
// Uniform buffers come first, then sampled textures, then storage images.
const (
	MaxUniformBufferSlots = 8
	MaxTextureSlots       = 8
	MaxStorageImageSlots  = 4

	// MaxPushConstantSize is the push constant range of the pipeline layout
	MaxPushConstantSize = 128
)

const descriptorStages = vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit | vk.ShaderStageComputeBit)

func uniformBufferBinding(slot int) uint32 {
	return uint32(slot)
}

func textureBinding(slot int) uint32 {
	return uint32(slot + MaxUniformBufferSlots)
}

func storageImageBinding(slot int) uint32 {
	return uint32(slot + MaxUniformBufferSlots + MaxTextureSlots)
}

// descriptorSetLayoutBindings lays out the three slot ranges
// back to back.
func descriptorSetLayoutBindings() []vk.DescriptorSetLayoutBinding {
	bindings := make([]vk.DescriptorSetLayoutBinding, 0, MaxUniformBufferSlots+MaxTextureSlots+MaxStorageImageSlots)
	for slot := 0; slot < MaxUniformBufferSlots; slot++ {
		bindings = append(bindings, vk.DescriptorSetLayoutBinding{
			Binding:         uniformBufferBinding(slot),
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      descriptorStages,
		})
	}
	for slot := 0; slot < MaxTextureSlots; slot++ {
		bindings = append(bindings, vk.DescriptorSetLayoutBinding{
			Binding:         textureBinding(slot),
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      descriptorStages,
		})
	}
	for slot := 0; slot < MaxStorageImageSlots; slot++ {
		bindings = append(bindings, vk.DescriptorSetLayoutBinding{
			Binding:         storageImageBinding(slot),
			DescriptorType:  vk.DescriptorTypeStorageImage,
			DescriptorCount: 1,
			StageFlags:      descriptorStages,
		})
	}
	return bindings
}

func descriptorPoolSizes(sets uint32) []vk.DescriptorPoolSize {
	return []vk.DescriptorPoolSize{{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: sets * MaxUniformBufferSlots,
	}, {
		Type:            vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: sets * MaxTextureSlots,
	}, {
		Type:            vk.DescriptorTypeStorageImage,
		DescriptorCount: sets * MaxStorageImageSlots,
	}}
}

func (d *Device) createLayouts() error {
	bindings := descriptorSetLayoutBindings()
	dslci := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var setLayout vk.DescriptorSetLayout
	if err := vk.Error(d.api.CreateDescriptorSetLayout(d.device, &dslci, nil, &setLayout)); err != nil {
		return errors.Wrap(err, "vk.CreateDescriptorSetLayout()")
	}
	d.descriptorSetLayout = setLayout

	plci := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{setLayout},
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: descriptorStages,
			Offset:     0,
			Size:       MaxPushConstantSize,
		}},
	}
	var pipelineLayout vk.PipelineLayout
	if err := vk.Error(d.api.CreatePipelineLayout(d.device, &plci, nil, &pipelineLayout)); err != nil {
		return errors.Wrap(err, "vk.CreatePipelineLayout()")
	}
	d.pipelineLayout = pipelineLayout
	return nil
}

type textureBindingEntry struct {
	view    *TextureView
	sampler *Sampler
}

// bindingTable holds what is pending for the next commit, indexed by slot.
type bindingTable struct {
	uniforms [MaxUniformBufferSlots]*Buffer
	textures [MaxTextureSlots]textureBindingEntry
	storage  [MaxStorageImageSlots]*TextureView

	// stale is per bind point, graphics and compute sets are bound separately
	stale [2]bool
}

func (b *bindingTable) reset() {
	*b = bindingTable{}
}

func (b *bindingTable) markStale() {
	b.stale[vk.PipelineBindPointGraphics] = true
	b.stale[vk.PipelineBindPointCompute] = true
}

// dirty reports whether bindPoint has not seen the current bindings yet
func (b *bindingTable) dirty(bindPoint vk.PipelineBindPoint) bool {
	return b.stale[bindPoint]
}

func (b *bindingTable) committed(bindPoint vk.PipelineBindPoint) {
	b.stale[bindPoint] = false
}

func (b *bindingTable) setUniformBuffer(buf *Buffer, slot int) {
	if slot < 0 || slot >= MaxUniformBufferSlots {
		panic(fmt.Sprintf("core: uniform buffer slot %d out of range", slot))
	}
	b.uniforms[slot] = buf
	b.markStale()
}

func (b *bindingTable) setTexture(view *TextureView, sampler *Sampler, slot int) {
	if slot < 0 || slot >= MaxTextureSlots {
		panic(fmt.Sprintf("core: texture slot %d out of range", slot))
	}
	b.textures[slot] = textureBindingEntry{view: view, sampler: sampler}
	b.markStale()
}

func (b *bindingTable) setStorageImage(view *TextureView, slot int) {
	if slot < 0 || slot >= MaxStorageImageSlots {
		panic(fmt.Sprintf("core: storage image slot %d out of range", slot))
	}
	b.storage[slot] = view
	b.markStale()
}

// writes turns every occupied slot into a descriptor write against set.
func (b *bindingTable) writes(set vk.DescriptorSet) []vk.WriteDescriptorSet {
	var writes []vk.WriteDescriptorSet
	for slot, buf := range b.uniforms {
		if buf == nil {
			continue
		}
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      uniformBufferBinding(slot),
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: buf.Handle(),
				Offset: 0,
				Range:  vk.DeviceSize(buf.Size()),
			}},
		})
	}
	for slot, tex := range b.textures {
		if tex.view == nil {
			continue
		}
		var sampler vk.Sampler
		if tex.sampler != nil {
			sampler = tex.sampler.Handle()
		}
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      textureBinding(slot),
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			PImageInfo: []vk.DescriptorImageInfo{{
				Sampler:     sampler,
				ImageView:   tex.view.Handle(),
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			}},
		})
	}
	for slot, view := range b.storage {
		if view == nil {
			continue
		}
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      storageImageBinding(slot),
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeStorageImage,
			PImageInfo: []vk.DescriptorImageInfo{{
				ImageView:   view.Handle(),
				ImageLayout: vk.ImageLayoutGeneral,
			}},
		})
	}
	return writes
}
