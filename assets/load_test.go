// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/koru3d/vkr/core"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 60), uint8(y * 200), 30, 255})
		}
	}
	return img
}

func encoded(c *qt.C, encode func(*bytes.Buffer, image.Image) error) string {
	var buf bytes.Buffer
	c.Assert(encode(&buf, testImage()), qt.IsNil)
	return buf.String()
}

func TestLoadImage(t *testing.T) {
	c := qt.New(t)

	src := writeDir(c, map[string]string{
		"textures/a.png": encoded(c, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) }),
		"textures/a.bmp": encoded(c, func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) }),
		"textures/a.tif": encoded(c, func(b *bytes.Buffer, i image.Image) error { return tiff.Encode(b, i, nil) }),
		"textures/bad":   "not an image",
	})

	expected := core.GetPixels(testImage())
	for _, name := range []string{"textures/a.png", "textures/a.bmp", "textures/a.tif"} {
		c.Run(name, func(c *qt.C) {
			img, err := LoadImage(src, name)
			c.Assert(err, qt.IsNil)
			c.Assert(img.Bounds().Dx(), qt.Equals, 4)
			c.Assert(img.Bounds().Dy(), qt.Equals, 2)
			c.Assert(core.GetPixels(img), qt.DeepEquals, expected)
		})
	}

	_, err := LoadImage(src, "textures/bad")
	c.Assert(err, qt.ErrorMatches, "textures/bad: image: unknown format")

	_, err = LoadImage(src, "textures/none.png")
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}

func TestLoadShader(t *testing.T) {
	c := qt.New(t)

	src := writeDir(c, map[string]string{
		"shaders/ok.vert.spv":    "\x03\x02\x23\x07\x00\x00\x01\x00",
		"shaders/odd.vert.spv":   "\x03\x02\x23\x07\x00",
		"shaders/empty.vert.spv": "",
		"shaders/magic.frag.spv": "\x00\x00\x00\x00\x00\x00\x01\x00",
	})

	code, err := LoadShader(src, "shaders/ok.vert.spv")
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.DeepEquals, []uint32{spirvMagic, 0x00010000})

	_, err = LoadShader(src, "shaders/odd.vert.spv")
	c.Assert(err, qt.ErrorMatches, "shaders/odd.vert.spv: SPIR-V size 5 is not a multiple of 4")
	_, err = LoadShader(src, "shaders/empty.vert.spv")
	c.Assert(err, qt.ErrorMatches, ".*SPIR-V size 0 .*")
	_, err = LoadShader(src, "shaders/magic.frag.spv")
	c.Assert(err, qt.ErrorMatches, "shaders/magic.frag.spv: not a SPIR-V binary")
	_, err = LoadShader(src, "shaders/none.frag.spv")
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}

func TestLoadShaderModuleNeedsStage(t *testing.T) {
	c := qt.New(t)

	_, err := LoadShaderModule(nil, DirSource(c.TempDir()), "shader.spv")
	c.Assert(err, qt.ErrorMatches, "shader.spv: unknown shader stage")
}

func TestShippedData(t *testing.T) {
	c := qt.New(t)

	src := DirSource("../data")

	// go generate compiles these for cmd/koru
	for _, name := range []string{"shaders/cube.vert", "shaders/cube.frag"} {
		data, err := ReadAll(src, name)
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Matches, "(?s)#version 450.*void main\\(\\).*")
	}

	img, err := LoadImage(src, "textures/cube.png")
	c.Assert(err, qt.IsNil)
	c.Assert(img.Bounds().Dx(), qt.Equals, 64)
	c.Assert(img.Bounds().Dy(), qt.Equals, 64)
	c.Assert(core.GetPixels(img), qt.HasLen, 64*64*4)

	_, err = LoadImage(src, "textures/missing.png")
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}
