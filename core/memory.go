// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// findMemoryType returns the first memory type allowed by filter
// that has every flag in prop set.
func findMemoryType(props *vk.PhysicalDeviceMemoryProperties, filter uint32, prop vk.MemoryPropertyFlags) (uint32, error) {
	for idx := uint32(0); idx < props.MemoryTypeCount; idx++ {
		props.MemoryTypes[idx].Deref()
		if filter&(1<<idx) != 0 && (props.MemoryTypes[idx].PropertyFlags&prop) == prop {
			return idx, nil
		}
	}
	return 0, errors.Wrapf(ErrNoMemoryType, "filter %#x, properties %#x", filter, prop)
}

// allocation is a piece of device memory along with the
// properties of the type it was allocated from.
type allocation struct {
	memory     vk.DeviceMemory
	size       vk.DeviceSize
	properties vk.MemoryPropertyFlags
}

func (a allocation) hostVisible() bool {
	return a.properties&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) != 0
}

func (a allocation) hostCoherent() bool {
	return a.properties&vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit) != 0
}

// allocate allocates memory for the given requirements
func (d *Device) allocate(req vk.MemoryRequirements, prop vk.MemoryPropertyFlags) (allocation, error) {
	memTypeIdx, err := findMemoryType(&d.memoryProperties, req.MemoryTypeBits, prop)
	if err != nil {
		return allocation{}, err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memTypeIdx,
	}

	var memory vk.DeviceMemory
	if err := vk.Error(d.api.AllocateMemory(d.device, &mai, nil, &memory)); err != nil {
		return allocation{}, errors.Wrap(err, "vk.AllocateMemory()")
	}

	return allocation{
		memory:     memory,
		size:       req.Size,
		properties: d.memoryProperties.MemoryTypes[memTypeIdx].PropertyFlags,
	}, nil
}

func (d *Device) free(a allocation) {
	if a.memory != nil {
		d.api.FreeMemory(d.device, a.memory, nil)
	}
}
