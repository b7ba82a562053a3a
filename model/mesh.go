// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"unsafe"

	glm "github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// Mesh is an indexed triangle list
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// IndexType of Indices
const IndexType = vk.IndexTypeUint32

// VertexBytes returns the vertices as uploaded into a vertex buffer.
func (m *Mesh) VertexBytes() []byte {
	if len(m.Vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m.Vertices[0])), len(m.Vertices)*int(unsafe.Sizeof(Vertex{})))
}

// IndexBytes returns the indices as uploaded into an index buffer.
func (m *Mesh) IndexBytes() []byte {
	if len(m.Indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m.Indices[0])), len(m.Indices)*4)
}

// IndexCount is the number of indices to draw
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// Triangle is a single RGB triangle facing the camera
func Triangle() *Mesh {
	return &Mesh{
		Name: "triangle",
		Vertices: []Vertex{
			{Pos: glm.Vec3{0, 0.5, 0}, Color: glm.Vec4{1, 0, 0, 1}, UV: glm.Vec2{0.5, 0}},
			{Pos: glm.Vec3{-0.5, -0.5, 0}, Color: glm.Vec4{0, 1, 0, 1}, UV: glm.Vec2{0, 1}},
			{Pos: glm.Vec3{0.5, -0.5, 0}, Color: glm.Vec4{0, 0, 1, 1}, UV: glm.Vec2{1, 1}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

// Quad is a textured unit square in the XY plane
func Quad() *Mesh {
	white := glm.Vec4{1, 1, 1, 1}
	return &Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Pos: glm.Vec3{-0.5, -0.5, 0}, Color: white, UV: glm.Vec2{0, 1}},
			{Pos: glm.Vec3{0.5, -0.5, 0}, Color: white, UV: glm.Vec2{1, 1}},
			{Pos: glm.Vec3{0.5, 0.5, 0}, Color: white, UV: glm.Vec2{1, 0}},
			{Pos: glm.Vec3{-0.5, 0.5, 0}, Color: white, UV: glm.Vec2{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

// Cube is a unit cube with a color per face and
// counter clockwise outward facing triangles
func Cube() *Mesh {
	faces := []struct {
		normal, up glm.Vec3
		color      glm.Vec4
	}{
		{glm.Vec3{0, 0, 1}, glm.Vec3{0, 1, 0}, glm.Vec4{1, 0, 0, 1}},
		{glm.Vec3{0, 0, -1}, glm.Vec3{0, 1, 0}, glm.Vec4{0, 1, 0, 1}},
		{glm.Vec3{1, 0, 0}, glm.Vec3{0, 1, 0}, glm.Vec4{0, 0, 1, 1}},
		{glm.Vec3{-1, 0, 0}, glm.Vec3{0, 1, 0}, glm.Vec4{1, 1, 0, 1}},
		{glm.Vec3{0, 1, 0}, glm.Vec3{0, 0, -1}, glm.Vec4{0, 1, 1, 1}},
		{glm.Vec3{0, -1, 0}, glm.Vec3{0, 0, 1}, glm.Vec4{1, 0, 1, 1}},
	}

	m := &Mesh{Name: "cube"}
	for _, f := range faces {
		right := f.up.Cross(f.normal)
		center := f.normal.Mul(0.5)
		base := uint32(len(m.Vertices))
		for _, corner := range []struct {
			x, y float32
			uv   glm.Vec2
		}{
			{-0.5, -0.5, glm.Vec2{0, 1}},
			{0.5, -0.5, glm.Vec2{1, 1}},
			{0.5, 0.5, glm.Vec2{1, 0}},
			{-0.5, 0.5, glm.Vec2{0, 0}},
		} {
			pos := center.Add(right.Mul(corner.x)).Add(f.up.Mul(corner.y))
			m.Vertices = append(m.Vertices, Vertex{Pos: pos, Color: f.color, UV: corner.uv})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return m
}
