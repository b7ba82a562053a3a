// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model defines the vertex and uniform layouts shared by the
// demo pipelines and a few built-in meshes.
package model

import (
	"unsafe"

	glm "github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// Vertex is a model vertex
type Vertex struct {
	Pos   glm.Vec3
	Color glm.Vec4
	UV    glm.Vec2
}

// Uniform defines a model-view-projection object
type Uniform struct {
	Model      glm.Mat4
	View       glm.Mat4
	Projection glm.Mat4
}

// UniformSize is the size of Uniform as laid out in a uniform buffer
const UniformSize = int(unsafe.Sizeof(Uniform{}))

// Bytes returns the uniform as it is uploaded, matrices column major.
func (u *Uniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), UniformSize)
}

// clipCorrection turns OpenGL clip space, which mathgl produces, into
// Vulkan's. Y points down and depth goes from 0 to 1.
var clipCorrection = glm.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Projection is a perspective projection for Vulkan clip space.
// fovy is in degrees.
func Projection(fovy, aspect, near, far float32) glm.Mat4 {
	return clipCorrection.Mul4(glm.Perspective(glm.DegToRad(fovy), aspect, near, far))
}

// NewUniform places a camera at eye looking at the origin and
// builds the matrices for an extent of width by height.
func NewUniform(model glm.Mat4, eye glm.Vec3, width, height uint32) Uniform {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return Uniform{
		Model:      model,
		View:       glm.LookAtV(eye, glm.Vec3{0, 0, 0}, glm.Vec3{0, 1, 0}),
		Projection: Projection(45, aspect, 0.1, 100),
	}
}

// VertexBindingDescriptions return Vulkan Vertex descriptors
func VertexBindingDescriptions() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(Vertex{})),
		InputRate: vk.VertexInputRateVertex,
	}}
}

// VertexAttributeDescriptions return Vulkan attribute descriptors
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32b32a32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
		{
			Binding:  0,
			Location: 2,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.UV)),
		},
	}
}
