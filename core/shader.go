// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const shaderEntryPoint = "main\x00"

// NewShader creates a shader module from SPIR-V words.
func NewShader(d *Device, name string, shaderType ShaderType, code []uint32) (*Shader, error) {
	if len(code) == 0 {
		return nil, errors.Errorf("shader %s has no code", name)
	}
	if shaderType == UnknownShaderType {
		return nil, errors.Errorf("shader %s has an unknown type", name)
	}

	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}

	var module vk.ShaderModule
	if err := vk.Error(d.api.CreateShaderModule(d.device, &smci, nil, &module)); err != nil {
		return nil, errors.Wrapf(err, "vk.CreateShaderModule(%s)", shaderType)
	}

	return &Shader{
		device:     d,
		name:       name,
		shaderType: shaderType,
		module:     module,
	}, nil
}

// Shader is a SPIR-V shader module of one stage
type Shader struct {
	device     *Device
	name       string
	shaderType ShaderType
	module     vk.ShaderModule
}

// Name of the shader
func (s *Shader) Name() string {
	return s.name
}

// Type of the shader
func (s *Shader) Type() ShaderType {
	return s.shaderType
}

// Handle returns the vulkan ShaderModule handle.
func (s *Shader) Handle() vk.ShaderModule {
	return s.module
}

func (s *Shader) stage() vk.ShaderStageFlagBits {
	switch s.shaderType {
	case VertexShaderType:
		return vk.ShaderStageVertexBit
	case FragmentShaderType:
		return vk.ShaderStageFragmentBit
	case ComputeShaderType:
		return vk.ShaderStageComputeBit
	default:
		panic("core: shader of unknown type")
	}
}

func (s *Shader) stageInfo() vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  s.stage(),
		Module: s.module,
		PName:  shaderEntryPoint,
	}
}

// Release destroys the shader module. Pipelines created
// from it stay valid.
func (s *Shader) Release() {
	if s == nil || s.module == nil {
		return
	}
	s.device.api.DestroyShaderModule(s.device.device, s.module, nil)
	s.module = nil
}
