// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipelineDesc describes a graphics pipeline. Viewport and
// scissor are dynamic state.
type GraphicsPipelineDesc struct {
	Vertex   *Shader
	Fragment *Shader

	VertexBindings   []vk.VertexInputBindingDescription
	VertexAttributes []vk.VertexInputAttributeDescription

	Topology  vk.PrimitiveTopology
	CullMode  vk.CullModeFlags
	FrontFace vk.FrontFace

	DepthTest  bool
	DepthWrite bool
	Blend      bool

	// Target are the attachments the pipeline renders into. Nil means
	// the backbuffer and depth target, and the pipeline is rebuilt
	// whenever the swapchain is.
	Target []*TextureView
}

// NewGraphicsPipeline creates a pipeline compatible with the render
// pass of its target.
func NewGraphicsPipeline(d *Device, desc GraphicsPipelineDesc) (*GraphicsPipeline, error) {
	if desc.Vertex == nil || desc.Fragment == nil {
		return nil, errors.New("graphics pipeline needs a vertex and a fragment shader")
	}

	p := &GraphicsPipeline{
		device:     d,
		desc:       desc,
		backbuffer: desc.Target == nil,
	}
	if err := p.build(); err != nil {
		return nil, err
	}
	if p.backbuffer {
		d.trackPipeline(p)
	}
	return p, nil
}

// GraphicsPipeline is an immutable graphics state bundle over the
// global pipeline layout.
type GraphicsPipeline struct {
	device     *Device
	desc       GraphicsPipelineDesc
	pipeline   vk.Pipeline
	renderPass vk.RenderPass
	backbuffer bool
}

// Handle returns the vulkan Pipeline handle.
func (p *GraphicsPipeline) Handle() vk.Pipeline {
	return p.pipeline
}

// RenderPass returns the render pass the pipeline is compatible with.
func (p *GraphicsPipeline) RenderPass() vk.RenderPass {
	return p.renderPass
}

func (p *GraphicsPipeline) target() []*TextureView {
	if p.backbuffer {
		return p.device.backbufferAttachments(0)
	}
	return p.desc.Target
}

func (p *GraphicsPipeline) build() error {
	d := p.device
	target := p.target()

	renderPass, err := d.renderPasses.GetOrCreate(target)
	if err != nil {
		return err
	}

	var (
		blendAttachments []vk.PipelineColorBlendAttachmentState
		hasDepth         bool
	)
	for _, a := range target {
		if isDepthStencil(a.Aspect()) {
			hasDepth = true
			continue
		}
		state := vk.PipelineColorBlendAttachmentState{
			ColorWriteMask: 0xF,
			BlendEnable:    vk.False,
		}
		if p.desc.Blend {
			state.BlendEnable = vk.True
			state.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
			state.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
			state.ColorBlendOp = vk.BlendOpAdd
			state.SrcAlphaBlendFactor = vk.BlendFactorOne
			state.DstAlphaBlendFactor = vk.BlendFactorZero
			state.AlphaBlendOp = vk.BlendOpAdd
		}
		blendAttachments = append(blendAttachments, state)
	}

	var depthTest, depthWrite vk.Bool32 = vk.False, vk.False
	if hasDepth && p.desc.DepthTest {
		depthTest = vk.True
		if p.desc.DepthWrite {
			depthWrite = vk.True
		}
	}

	stages := []vk.PipelineShaderStageCreateInfo{
		p.desc.Vertex.stageInfo(),
		p.desc.Fragment.stageInfo(),
	}

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(p.desc.VertexBindings)),
			PVertexBindingDescriptions:      p.desc.VertexBindings,
			VertexAttributeDescriptionCount: uint32(len(p.desc.VertexAttributes)),
			PVertexAttributeDescriptions:    p.desc.VertexAttributes,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: p.desc.Topology,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    p.desc.CullMode,
			FrontFace:   p.desc.FrontFace,
			LineWidth:   1.0,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       depthTest,
			DepthWriteEnable:      depthWrite,
			DepthCompareOp:        vk.CompareOpLessOrEqual,
			DepthBoundsTestEnable: vk.False,
			Back: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
			StencilTestEnable: vk.False,
			Front: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: uint32(len(blendAttachments)),
			PAttachments:    blendAttachments,
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateScissor,
				vk.DynamicStateViewport,
			},
		},
		Layout:     d.pipelineLayout,
		RenderPass: renderPass,
	}}

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := vk.Error(d.api.CreateGraphicsPipelines(d.device, d.pipelineCache, uint32(len(gpci)), gpci, nil, pipelines)); err != nil {
		return errors.Wrap(err, "vk.CreateGraphicsPipelines()")
	}

	p.pipeline = pipelines[0]
	p.renderPass = renderPass
	return nil
}

// rebuild recreates the pipeline against the current backbuffer.
func (p *GraphicsPipeline) rebuild() error {
	if p.pipeline != nil {
		p.device.api.DestroyPipeline(p.device.device, p.pipeline, nil)
		p.pipeline = nil
	}
	return p.build()
}

// Release destroys the pipeline.
func (p *GraphicsPipeline) Release() {
	if p == nil {
		return
	}
	if p.backbuffer {
		p.device.untrackPipeline(p)
	}
	if p.pipeline != nil {
		p.device.api.DestroyPipeline(p.device.device, p.pipeline, nil)
		p.pipeline = nil
	}
}

// NewComputePipeline creates a compute pipeline over the global
// pipeline layout.
func NewComputePipeline(d *Device, shader *Shader) (*ComputePipeline, error) {
	if shader == nil || shader.Type() != ComputeShaderType {
		return nil, errors.New("compute pipeline needs a compute shader")
	}

	cpci := []vk.ComputePipelineCreateInfo{{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  shader.stageInfo(),
		Layout: d.pipelineLayout,
	}}

	pipelines := make([]vk.Pipeline, len(cpci))
	if err := vk.Error(d.api.CreateComputePipelines(d.device, d.pipelineCache, uint32(len(cpci)), cpci, nil, pipelines)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateComputePipelines()")
	}

	return &ComputePipeline{
		device:   d,
		shader:   shader,
		pipeline: pipelines[0],
	}, nil
}

// ComputePipeline runs a single compute shader.
type ComputePipeline struct {
	device   *Device
	shader   *Shader
	pipeline vk.Pipeline
}

// Handle returns the vulkan Pipeline handle.
func (p *ComputePipeline) Handle() vk.Pipeline {
	return p.pipeline
}

// Release destroys the pipeline.
func (p *ComputePipeline) Release() {
	if p == nil || p.pipeline == nil {
		return
	}
	p.device.api.DestroyPipeline(p.device.device, p.pipeline, nil)
	p.pipeline = nil
}
