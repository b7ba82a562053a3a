// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/koru3d/vkr/assets"
	"github.com/koru3d/vkr/core"
	"github.com/koru3d/vkr/model"
)

var clearColor = [4]float32{0.1, 0.1, 0.15, 1}

const cubeTexture = "cube.png"

// scene is a spinning textured cube
type scene struct {
	device *core.Device
	mesh   *model.Mesh

	vertices *core.Buffer
	indices  *core.Buffer

	// one uniform buffer per swapchain image, the image's
	// fence guards it
	uniforms []*core.Buffer

	texture  *core.Texture
	view     *core.TextureView
	sampler  *core.Sampler
	pipeline *core.GraphicsPipeline
	shaders  []*core.Shader

	angle float32
}

func newScene(d *core.Device, src assets.Source) (_ *scene, err error) {
	s := &scene{
		device: d,
		mesh:   model.Cube(),
	}
	defer func() {
		if err != nil {
			s.Release()
		}
	}()

	deviceLocal := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	if s.vertices, err = uploadBuffer(d, s.mesh.VertexBytes(), vk.BufferUsageVertexBufferBit, deviceLocal); err != nil {
		return nil, errors.Wrap(err, "vertex buffer")
	}
	if s.indices, err = uploadBuffer(d, s.mesh.IndexBytes(), vk.BufferUsageIndexBufferBit, deviceLocal); err != nil {
		return nil, errors.Wrap(err, "index buffer")
	}
	if err := s.createUniforms(); err != nil {
		return nil, err
	}

	if s.texture, err = assets.LoadTexture(d, src, cubeTexture); err != nil {
		return nil, errors.Wrap(err, "texture")
	}
	if s.view, err = core.NewTextureView(d, s.texture, core.TextureViewDesc{}); err != nil {
		return nil, err
	}
	if s.sampler, err = d.Samplers().GetOrCreate(core.LinearRepeat); err != nil {
		return nil, err
	}

	for _, name := range []string{"cube.vert.spv", "cube.frag.spv"} {
		shader, err := assets.LoadShaderModule(d, src, name)
		if errors.Is(err, assets.ErrNotFound) {
			return nil, errors.Wrap(err, "shaders are not compiled, run go generate ./cmd/koru")
		}
		if err != nil {
			return nil, err
		}
		s.shaders = append(s.shaders, shader)
	}

	s.pipeline, err = core.NewGraphicsPipeline(d, core.GraphicsPipelineDesc{
		Vertex:           s.shaders[0],
		Fragment:         s.shaders[1],
		VertexBindings:   model.VertexBindingDescriptions(),
		VertexAttributes: model.VertexAttributeDescriptions(),
		Topology:         vk.PrimitiveTopologyTriangleList,
		CullMode:         vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:        vk.FrontFaceCounterClockwise,
		DepthTest:        true,
		DepthWrite:       true,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func uploadBuffer(d *core.Device, data []byte, usage vk.BufferUsageFlagBits, prop vk.MemoryPropertyFlags) (*core.Buffer, error) {
	b, err := core.NewBuffer(d, len(data), vk.BufferUsageFlags(usage|vk.BufferUsageTransferDstBit), prop)
	if err != nil {
		return nil, err
	}
	if err := b.Update(data); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (s *scene) createUniforms() error {
	hostVisible := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	for idx := 0; idx < s.device.Swapchain().ImageCount(); idx++ {
		b, err := core.NewBuffer(s.device, model.UniformSize, vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit), hostVisible)
		if err != nil {
			return errors.Wrap(err, "uniform buffer")
		}
		s.uniforms = append(s.uniforms, b)
	}
	return nil
}

// resize matches the uniform buffers to a recreated swapchain
func (s *scene) resize(width, height uint32) error {
	if len(s.uniforms) == s.device.Swapchain().ImageCount() {
		return nil
	}
	for _, b := range s.uniforms {
		b.Release()
	}
	s.uniforms = nil
	return s.createUniforms()
}

// draw records the cube into the current frame, step is in radians
func (s *scene) draw(step float32) error {
	s.angle += step
	extent := s.device.Extent()

	uniform := model.NewUniform(glm.HomogRotate3D(s.angle, glm.Vec3{0.3, 1, 0}.Normalize()),
		glm.Vec3{0, 1.5, 3}, extent.Width, extent.Height)
	ub := s.uniforms[s.device.CurrentImage()]
	if err := ub.Update(uniform.Bytes()); err != nil {
		return err
	}

	ctx := s.device.CurrentContext()
	ctx.BeginPass(s.device.Framebuffer())
	ctx.ClearRenderTarget(vk.Rect2D{Extent: extent}, clearColor, 1, 0)
	ctx.SetPipeline(s.pipeline)
	ctx.SetVertexBuffer(s.vertices, 0, 0)
	ctx.SetIndexBuffer(s.indices, 0, model.IndexType)
	ctx.SetUniformBuffer(ub, 0)
	ctx.SetTexture(s.view, s.sampler, 0)
	if err := ctx.CommitBindings(); err != nil {
		return err
	}
	ctx.DrawIndexed(s.mesh.IndexCount(), 1, 0, 0, 0)
	ctx.EndPass()
	return nil
}

// Release frees everything created by newScene
func (s *scene) Release() {
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	for _, shader := range s.shaders {
		shader.Release()
	}
	if s.view != nil {
		s.view.Release()
	}
	if s.texture != nil {
		s.texture.Release()
	}
	for _, b := range s.uniforms {
		b.Release()
	}
	if s.indices != nil {
		s.indices.Release()
	}
	if s.vertices != nil {
		s.vertices.Release()
	}
}
