// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets

import (
	"encoding/binary"
	"image"
	"io/ioutil"
	"path"

	// image formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pkg/errors"

	"github.com/koru3d/vkr/core"
)

// Directories inside a source
const (
	ShaderDirectory  = "shaders"
	TextureDirectory = "textures"
)

const spirvMagic = 0x07230203

// ReadAll reads an asset in full
func ReadAll(src Source, name string) ([]byte, error) {
	r, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return data, nil
}

// LoadShader reads a SPIR-V binary as words
func LoadShader(src Source, name string) ([]uint32, error) {
	data, err := ReadAll(src, name)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.Errorf("%s: SPIR-V size %d is not a multiple of 4", name, len(data))
	}
	if binary.LittleEndian.Uint32(data) != spirvMagic {
		return nil, errors.Errorf("%s: not a SPIR-V binary", name)
	}
	return core.SliceUint32(data), nil
}

// LoadShaderModule loads shaders/<name> and creates a module with
// the stage its name implies.
func LoadShaderModule(d *core.Device, src Source, name string) (*core.Shader, error) {
	shaderType := core.ShaderTypeFromName(name)
	if shaderType == core.UnknownShaderType {
		return nil, errors.Errorf("%s: unknown shader stage", name)
	}
	code, err := LoadShader(src, path.Join(ShaderDirectory, name))
	if err != nil {
		return nil, err
	}
	return core.NewShader(d, name, shaderType, code)
}

// LoadImage decodes a png, jpeg, bmp, tiff or webp image
func LoadImage(src Source, name string) (image.Image, error) {
	r, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, errors.Errorf("%s: empty %s image", name, format)
	}
	return img, nil
}

// LoadTexture decodes textures/<name> and uploads it as a sampled
// RGBA8 texture
func LoadTexture(d *core.Device, src Source, name string) (*core.Texture, error) {
	img, err := LoadImage(src, path.Join(TextureDirectory, name))
	if err != nil {
		return nil, err
	}
	return core.NewTextureFromImage(d, img)
}
