// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// layoutAccess maps a layout to the access mask and stages that use
// an image in that layout. The same entry serves as the source half
// of a barrier when leaving the layout, except for the entries of
// sourceAccess, and as the destination half when entering it. Layouts
// outside the table are a programming error.
func layoutAccess(layout vk.ImageLayout) (vk.AccessFlags, vk.PipelineStageFlags) {
	switch layout {
	case vk.ImageLayoutUndefined:
		return 0, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	case vk.ImageLayoutTransferDstOptimal:
		return vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case vk.ImageLayoutGeneral:
		return vk.AccessFlags(vk.AccessShaderReadBit | vk.AccessShaderWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit | vk.PipelineStageFragmentShaderBit)
	case vk.ImageLayoutPresentSrc:
		return vk.AccessFlags(vk.AccessMemoryReadBit),
			vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	case vk.ImageLayoutDepthStencilAttachmentOptimal:
		return vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit)
	case vk.ImageLayoutShaderReadOnlyOptimal:
		return vk.AccessFlags(vk.AccessShaderReadBit),
			vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit)
	case vk.ImageLayoutColorAttachmentOptimal:
		return vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	default:
		panic(fmt.Sprintf("core: unsupported layout transition involving layout %d", layout))
	}
}

// sourceAccess is the source half of a barrier leaving layout.
// Images leaving Undefined or PresentSrc may be swapchain images still
// held by the presentation engine. Their barrier has to start at the
// stage the acquire semaphore is waited on so it chains with the wait.
func sourceAccess(layout vk.ImageLayout) (vk.AccessFlags, vk.PipelineStageFlags) {
	switch layout {
	case vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc:
		return 0, acquireWaitStage
	default:
		return layoutAccess(layout)
	}
}

// TransitionImageLayout records a barrier moving the texture from its
// tracked layout into layout and updates the tracked layout. The
// texture must not be touched by any other layout changing path.
func (d *Device) TransitionImageLayout(cmd vk.CommandBuffer, t *Texture, layout vk.ImageLayout) {
	srcAccess, srcStage := sourceAccess(t.layout)
	dstAccess, dstStage := layoutAccess(layout)

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           t.layout,
		NewLayout:           layout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               t.image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     t.aspect,
			BaseMipLevel:   0,
			LevelCount:     t.mipLevels,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	d.api.CmdPipelineBarrier(cmd, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
	t.layout = layout
}
