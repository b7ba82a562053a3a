// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// SamplerDesc is the state a sampler is created with. It is
// comparable and used as the sampler cache key.
type SamplerDesc struct {
	Filter      vk.Filter
	AddressMode vk.SamplerAddressMode

	// Anisotropy above 1 enables anisotropic filtering
	Anisotropy float32
	MaxLod     float32
}

// LinearRepeat is the usual sampler for color textures.
var LinearRepeat = SamplerDesc{
	Filter:      vk.FilterLinear,
	AddressMode: vk.SamplerAddressModeRepeat,
	Anisotropy:  16,
}

// NearestClamp samples texels as they are.
var NearestClamp = SamplerDesc{
	Filter:      vk.FilterNearest,
	AddressMode: vk.SamplerAddressModeClampToEdge,
}

// Sampler is an immutable sampler object owned by a SamplerCache.
type Sampler struct {
	desc    SamplerDesc
	sampler vk.Sampler
}

// Handle returns the vulkan Sampler handle.
func (s *Sampler) Handle() vk.Sampler {
	return s.sampler
}

// Desc returns the state the sampler was created with.
func (s *Sampler) Desc() SamplerDesc {
	return s.desc
}

// newSamplerCache creates an empty cache. maxAnisotropy is the device
// limit, 0 when the feature is not enabled.
func newSamplerCache(api driver, device vk.Device, maxAnisotropy float32) *SamplerCache {
	return &SamplerCache{
		api:           api,
		device:        device,
		maxAnisotropy: maxAnisotropy,
		samplers:      make(map[SamplerDesc]*Sampler),
	}
}

// SamplerCache hands out one sampler per distinct description.
// Not safe for concurrent use.
type SamplerCache struct {
	api           driver
	device        vk.Device
	maxAnisotropy float32
	samplers      map[SamplerDesc]*Sampler
}

// GetOrCreate returns the sampler for desc, creating it on first use.
func (c *SamplerCache) GetOrCreate(desc SamplerDesc) (*Sampler, error) {
	if s, ok := c.samplers[desc]; ok {
		return s, nil
	}

	mipmapMode := vk.SamplerMipmapModeLinear
	if desc.Filter == vk.FilterNearest {
		mipmapMode = vk.SamplerMipmapModeNearest
	}

	sci := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               desc.Filter,
		MinFilter:               desc.Filter,
		AddressModeU:            desc.AddressMode,
		AddressModeV:            desc.AddressMode,
		AddressModeW:            desc.AddressMode,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorFloatOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              mipmapMode,
		MipLodBias:              0,
		MinLod:                  0,
		MaxLod:                  desc.MaxLod,
	}
	if desc.Anisotropy > 1 && c.maxAnisotropy > 1 {
		sci.AnisotropyEnable = vk.True
		sci.MaxAnisotropy = desc.Anisotropy
		if sci.MaxAnisotropy > c.maxAnisotropy {
			sci.MaxAnisotropy = c.maxAnisotropy
		}
	}

	var sampler vk.Sampler
	if err := vk.Error(c.api.CreateSampler(c.device, &sci, nil, &sampler)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateSampler()")
	}

	s := &Sampler{
		desc:    desc,
		sampler: sampler,
	}
	c.samplers[desc] = s
	log.WithField("sampler", desc).Debug("sampler created")
	return s, nil
}

// Len is the number of cached samplers.
func (c *SamplerCache) Len() int {
	return len(c.samplers)
}

// Clear destroys every cached sampler.
func (c *SamplerCache) Clear() {
	for desc, s := range c.samplers {
		c.api.DestroySampler(c.device, s.sampler, nil)
		delete(c.samplers, desc)
	}
}
