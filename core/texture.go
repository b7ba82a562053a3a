// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"image"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	Width, Height uint32
	Format        vk.Format

	// MipLevels defaults to 1
	MipLevels uint32
	Usage     vk.ImageUsageFlags
}

// NewTexture creates a device local 2D image in the undefined layout.
func NewTexture(d *Device, desc TextureDesc) (*Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, errors.Errorf("texture extent %dx%d has a zero dimension", desc.Width, desc.Height)
	}
	if desc.MipLevels == 0 {
		desc.MipLevels = 1
	}

	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    desc.Format,
		Extent: vk.Extent3D{
			Width:  desc.Width,
			Height: desc.Height,
			Depth:  1,
		},
		MipLevels:     desc.MipLevels,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         desc.Usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var img vk.Image
	if err := vk.Error(d.api.CreateImage(d.device, &ici, nil, &img)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateImage()")
	}

	var req vk.MemoryRequirements
	d.api.GetImageMemoryRequirements(d.device, img, &req)
	req.Deref()

	alloc, err := d.allocate(req, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		d.api.DestroyImage(d.device, img, nil)
		return nil, err
	}

	t := &Texture{
		device:    d,
		image:     img,
		alloc:     alloc,
		owned:     true,
		desc:      desc,
		format:    desc.Format,
		aspect:    aspectForFormat(desc.Format),
		mipLevels: desc.MipLevels,
		layout:    vk.ImageLayoutUndefined,
	}

	if err := vk.Error(d.api.BindImageMemory(d.device, img, alloc.memory, 0)); err != nil {
		t.Release()
		return nil, errors.Wrap(err, "vk.BindImageMemory()")
	}
	return t, nil
}

// NewTextureFromImage creates a sampled RGBA8 texture from img and leaves
// it in the shader read only layout.
func NewTextureFromImage(d *Device, img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	t, err := NewTexture(d, TextureDesc{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Format: vk.FormatR8g8b8a8Unorm,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
	})
	if err != nil {
		return nil, err
	}

	if err := t.Update(GetPixels(img), vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// wrapTexture wraps an image owned by someone else, like the swapchain.
func wrapTexture(d *Device, img vk.Image, width, height uint32, format vk.Format) *Texture {
	return &Texture{
		device: d,
		image:  img,
		desc: TextureDesc{
			Width:     width,
			Height:    height,
			Format:    format,
			MipLevels: 1,
		},
		format:    format,
		aspect:    aspectForFormat(format),
		mipLevels: 1,
		layout:    vk.ImageLayoutUndefined,
	}
}

// Texture is a 2D image with its own memory. It tracks the layout the
// image is in after the last recorded barrier.
type Texture struct {
	device *Device
	image  vk.Image
	alloc  allocation
	owned  bool

	desc      TextureDesc
	format    vk.Format
	aspect    vk.ImageAspectFlags
	mipLevels uint32
	layout    vk.ImageLayout
}

// Handle returns the vulkan Image handle.
func (t *Texture) Handle() vk.Image {
	return t.image
}

// Width of the base mip level
func (t *Texture) Width() uint32 {
	return t.desc.Width
}

// Height of the base mip level
func (t *Texture) Height() uint32 {
	return t.desc.Height
}

// Format of the image
func (t *Texture) Format() vk.Format {
	return t.format
}

// Aspect is the aspect mask derived from the format.
func (t *Texture) Aspect() vk.ImageAspectFlags {
	return t.aspect
}

// MipLevels of the image
func (t *Texture) MipLevels() uint32 {
	return t.mipLevels
}

// CurrentLayout returns the layout left by the last recorded transition.
func (t *Texture) CurrentLayout() vk.ImageLayout {
	return t.layout
}

// Update uploads data into the base mip level through a staging buffer.
// The image goes through the transfer destination layout and ends up in
// final. The texture needs transfer destination usage.
func (t *Texture) Update(data []byte, final vk.ImageLayout) error {
	if t.desc.Usage&vk.ImageUsageFlags(vk.ImageUsageTransferDstBit) == 0 {
		return errors.New("texture was not created as a transfer destination")
	}
	texel := texelSize(t.format)
	if texel == 0 {
		return errors.Errorf("texture upload of format %d is not supported", t.format)
	}
	if expected := int(t.desc.Width) * int(t.desc.Height) * texel; len(data) != expected {
		return errors.Errorf("texture data is %d bytes, %dx%d of format %d needs %d",
			len(data), t.desc.Width, t.desc.Height, t.format, expected)
	}

	staging, err := NewBuffer(t.device, len(data),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return errors.Wrap(err, "staging buffer")
	}
	defer staging.Release()
	copy(staging.mappedBytes(), data)

	cmd, err := t.device.BeginNewCommandBuffer()
	if err != nil {
		return err
	}

	previous := t.layout
	t.device.TransitionImageLayout(cmd, t, vk.ImageLayoutTransferDstOptimal)

	bic := vk.BufferImageCopy{
		ImageOffset: vk.Offset3D{},
		ImageExtent: vk.Extent3D{
			Width:  t.desc.Width,
			Height: t.desc.Height,
			Depth:  1,
		},
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     t.aspect,
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	t.device.api.CmdCopyBufferToImage(cmd, staging.buffer, t.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{bic})

	t.device.TransitionImageLayout(cmd, t, final)

	return t.submitTransitions(cmd, previous)
}

// TransitionImageLayoutAndSubmit moves the texture into layout with a
// one-shot command buffer and waits for it to finish.
func (t *Texture) TransitionImageLayoutAndSubmit(layout vk.ImageLayout) error {
	cmd, err := t.device.BeginNewCommandBuffer()
	if err != nil {
		return err
	}
	previous := t.layout
	t.device.TransitionImageLayout(cmd, t, layout)
	return t.submitTransitions(cmd, previous)
}

// submitTransitions submits cmd and waits for it. A failed submit puts
// the tracked layout back to previous.
func (t *Texture) submitTransitions(cmd vk.CommandBuffer, previous vk.ImageLayout) error {
	if err := t.device.SubmitCommandBufferAndWait(cmd); err != nil {
		t.layout = previous
		return err
	}
	return nil
}

// Release destroys the image and frees its memory. Wrapped images
// are left to their owner.
func (t *Texture) Release() {
	if t == nil || t.image == nil {
		return
	}
	if t.owned {
		t.device.api.DestroyImage(t.device.device, t.image, nil)
		t.device.free(t.alloc)
	}
	t.image = nil
	t.alloc = allocation{}
}

// texelSize is the size in bytes of one texel of format, 0 for formats
// Update does not handle.
func texelSize(format vk.Format) int {
	switch format {
	case vk.FormatR8Unorm, vk.FormatR8Srgb, vk.FormatS8Uint:
		return 1
	case vk.FormatR8g8Unorm, vk.FormatR16Sfloat, vk.FormatD16Unorm:
		return 2
	case vk.FormatR8g8b8a8Unorm, vk.FormatR8g8b8a8Srgb,
		vk.FormatB8g8r8a8Unorm, vk.FormatB8g8r8a8Srgb,
		vk.FormatR32Sfloat, vk.FormatD32Sfloat, vk.FormatX8D24UnormPack32:
		return 4
	case vk.FormatR16g16b16a16Sfloat:
		return 8
	case vk.FormatR32g32b32a32Sfloat:
		return 16
	default:
		return 0
	}
}

func aspectForFormat(format vk.Format) vk.ImageAspectFlags {
	switch format {
	case vk.FormatD16Unorm, vk.FormatD32Sfloat, vk.FormatX8D24UnormPack32:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	case vk.FormatD16UnormS8Uint, vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	case vk.FormatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
}

func isDepthStencil(aspect vk.ImageAspectFlags) bool {
	return aspect&vk.ImageAspectFlags(vk.ImageAspectDepthBit|vk.ImageAspectStencilBit) != 0
}

// TextureViewDesc selects the mip range of a view.
// MipCount 0 means all levels from BaseMip.
type TextureViewDesc struct {
	BaseMip  uint32
	MipCount uint32
}

// NewTextureView creates a 2D view over a texture.
func NewTextureView(d *Device, t *Texture, desc TextureViewDesc) (*TextureView, error) {
	if desc.BaseMip >= t.mipLevels {
		return nil, errors.Errorf("base mip %d out of %d levels", desc.BaseMip, t.mipLevels)
	}
	if desc.MipCount == 0 || desc.BaseMip+desc.MipCount > t.mipLevels {
		desc.MipCount = t.mipLevels - desc.BaseMip
	}

	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    t.image,
		ViewType: vk.ImageViewType2d,
		Format:   t.format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     t.aspect,
			BaseMipLevel:   desc.BaseMip,
			LevelCount:     desc.MipCount,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if err := vk.Error(d.api.CreateImageView(d.device, &ivci, nil, &view)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateImageView()")
	}

	return &TextureView{
		device:   d,
		texture:  t,
		view:     view,
		baseMip:  desc.BaseMip,
		mipCount: desc.MipCount,
	}, nil
}

// TextureView is a view over a mip range of a Texture.
type TextureView struct {
	device  *Device
	texture *Texture
	view    vk.ImageView

	baseMip, mipCount uint32
}

// Handle returns the vulkan ImageView handle.
func (v *TextureView) Handle() vk.ImageView {
	return v.view
}

// Texture returns the viewed texture.
func (v *TextureView) Texture() *Texture {
	return v.texture
}

// Format of the viewed texture
func (v *TextureView) Format() vk.Format {
	return v.texture.format
}

// Aspect of the viewed texture
func (v *TextureView) Aspect() vk.ImageAspectFlags {
	return v.texture.aspect
}

// BaseMip is the first mip level in the view.
func (v *TextureView) BaseMip() uint32 {
	return v.baseMip
}

// MipCount is the number of levels in the view.
func (v *TextureView) MipCount() uint32 {
	return v.mipCount
}

// Extent returns the size of the base level of the view.
func (v *TextureView) Extent() vk.Extent2D {
	width, height := v.texture.desc.Width>>v.baseMip, v.texture.desc.Height>>v.baseMip
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	return vk.Extent2D{Width: width, Height: height}
}

// Release destroys the view.
func (v *TextureView) Release() {
	if v == nil || v.view == nil {
		return
	}
	v.device.api.DestroyImageView(v.device.device, v.view, nil)
	v.view = nil
}
