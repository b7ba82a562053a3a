// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// NewBuffer creates, allocates and binds a new buffer. Memory is taken from
// the first type that has all of prop. Host visible buffers stay mapped
// until Release.
func NewBuffer(d *Device, size int, usage vk.BufferUsageFlags, prop vk.MemoryPropertyFlags) (*Buffer, error) {
	if size <= 0 {
		return nil, errors.Errorf("buffer size must be positive, got %d", size)
	}

	bci := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := vk.Error(d.api.CreateBuffer(d.device, &bci, nil, &buffer)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateBuffer()")
	}

	var req vk.MemoryRequirements
	d.api.GetBufferMemoryRequirements(d.device, buffer, &req)
	req.Deref()

	alloc, err := d.allocate(req, prop)
	if err != nil {
		d.api.DestroyBuffer(d.device, buffer, nil)
		return nil, err
	}

	b := &Buffer{
		device: d,
		buffer: buffer,
		alloc:  alloc,
		size:   size,
		usage:  usage,
	}

	if err := vk.Error(d.api.BindBufferMemory(d.device, buffer, alloc.memory, 0)); err != nil {
		b.Release()
		return nil, errors.Wrap(err, "vk.BindBufferMemory()")
	}

	if alloc.hostVisible() {
		var mapped unsafe.Pointer
		if err := vk.Error(d.api.MapMemory(d.device, alloc.memory, 0, vk.DeviceSize(size), 0, &mapped)); err != nil {
			b.Release()
			return nil, errors.Wrap(err, "vk.MapMemory()")
		}
		b.mapped = mapped
	}

	return b, nil
}

// Buffer is a buffer with its own dedicated memory.
type Buffer struct {
	device *Device
	buffer vk.Buffer
	alloc  allocation

	size   int
	usage  vk.BufferUsageFlags
	mapped unsafe.Pointer
}

// Handle returns the vulkan Buffer handle.
func (b *Buffer) Handle() vk.Buffer {
	return b.buffer
}

// Size is the size the buffer was created with.
func (b *Buffer) Size() int {
	return b.size
}

// HostVisible tells if the buffer is permanently mapped.
func (b *Buffer) HostVisible() bool {
	return b.mapped != nil
}

func (b *Buffer) mappedBytes() []byte {
	return unsafe.Slice((*byte)(b.mapped), b.size)
}

// Update writes data at the start of the buffer. Host visible buffers are
// written through their mapping, device local ones through a temporary
// staging buffer and a synchronous copy, which requires the buffer to
// have been created with transfer destination usage.
// Non-coherent memory has to be flushed by the caller.
func (b *Buffer) Update(data []byte) error {
	if len(data) > b.size {
		return errors.Errorf("update of %d bytes does not fit a buffer of %d bytes", len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}

	if b.mapped != nil {
		copy(b.mappedBytes(), data)
		return nil
	}

	if b.usage&vk.BufferUsageFlags(vk.BufferUsageTransferDstBit) == 0 {
		return errors.Wrapf(ErrNotTransferDst, "update of %d bytes", len(data))
	}

	staging, err := NewBuffer(b.device, len(data),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return errors.Wrap(err, "staging buffer")
	}
	defer staging.Release()

	copy(staging.mappedBytes(), data)
	return b.device.copyBuffer(staging.buffer, b.buffer, vk.DeviceSize(len(data)))
}

// Read copies the start of the buffer into dst. Device local buffers are
// read back through a staging buffer, which requires transfer source usage.
func (b *Buffer) Read(dst []byte) error {
	if len(dst) > b.size {
		return errors.Errorf("read of %d bytes exceeds a buffer of %d bytes", len(dst), b.size)
	}
	if len(dst) == 0 {
		return nil
	}

	if b.mapped != nil {
		if !b.alloc.hostCoherent() {
			if err := vk.Error(b.device.api.InvalidateMappedMemoryRanges(b.device.device, 1, []vk.MappedMemoryRange{b.mappedRange()})); err != nil {
				return errors.Wrap(err, "vk.InvalidateMappedMemoryRanges()")
			}
		}
		copy(dst, b.mappedBytes())
		return nil
	}

	if b.usage&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit) == 0 {
		return errors.Wrapf(ErrNotTransferSrc, "read of %d bytes", len(dst))
	}

	staging, err := NewBuffer(b.device, len(dst),
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return errors.Wrap(err, "staging buffer")
	}
	defer staging.Release()

	if err := b.device.copyBuffer(b.buffer, staging.buffer, vk.DeviceSize(len(dst))); err != nil {
		return err
	}
	copy(dst, staging.mappedBytes())
	return nil
}

// Flush makes host writes visible to the device for non-coherent memory.
// It is a no-op for coherent or device local buffers.
func (b *Buffer) Flush() error {
	if b.mapped == nil || b.alloc.hostCoherent() {
		return nil
	}
	if err := vk.Error(b.device.api.FlushMappedMemoryRanges(b.device.device, 1, []vk.MappedMemoryRange{b.mappedRange()})); err != nil {
		return errors.Wrap(err, "vk.FlushMappedMemoryRanges()")
	}
	return nil
}

func (b *Buffer) mappedRange() vk.MappedMemoryRange {
	return vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: b.alloc.memory,
		Offset: 0,
		Size:   vk.DeviceSize(math.MaxUint64),
	}
}

// Release destroys the buffer and memory asociated with it.
func (b *Buffer) Release() {
	if b == nil || b.buffer == nil {
		return
	}
	if b.mapped != nil {
		b.device.api.UnmapMemory(b.device.device, b.alloc.memory)
		b.mapped = nil
	}
	b.device.api.DestroyBuffer(b.device.device, b.buffer, nil)
	b.device.free(b.alloc)
	b.buffer = nil
	b.alloc = allocation{}
}
