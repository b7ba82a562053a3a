// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"
	"unsafe"
)

const shaderSuffix = ".spv"

// ShaderTypeFromName derives the shader stage from a file name.
// The name has to look like <name>.<stage>.spv, where stage is one
// of vert, frag or comp. Anything else is UnknownShaderType.
func ShaderTypeFromName(name string) ShaderType {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, shaderSuffix) {
		return UnknownShaderType
	}
	nodes := strings.Split(strings.TrimSuffix(base, shaderSuffix), ".")
	if len(nodes) != 2 {
		return UnknownShaderType
	}

	switch nodes[1] {
	case "vert":
		return VertexShaderType
	case "frag":
		return FragmentShaderType
	case "comp":
		return ComputeShaderType
	default:
		return UnknownShaderType
	}
}

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

// GetPixels transforms a given image into tightly packed RGBA8 pixels
// by drawing the decoded image onto a controlled RGBA canvas
func GetPixels(img image.Image) []uint8 {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*bounds.Dx() && bounds.Min == (image.Point{}) {
		return rgba.Pix
	}

	newImg := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(newImg, newImg.Bounds(), img, bounds.Min, draw.Src)
	return newImg.Pix
}
