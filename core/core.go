// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core is a thin object layer over Vulkan. It owns device
// initialisation, the swapchain, GPU resources, pipelines, command
// recording and the per-frame synchronisation between the CPU
// producing commands and the GPU consuming them.
//
// Everything in this package must be used from a single goroutine,
// preferably one locked to its OS thread.
package core

import (
	"github.com/pkg/errors"
)

// package errors
var (
	ErrNoMemoryType       = errors.New("no memory type satisfies the requested properties")
	ErrNoQueueFamily      = errors.New("no queue family supports both graphics and present")
	ErrNoPhysicalDevice   = errors.New("no suitable physical device")
	ErrSurfaceUnsupported = errors.New("surface is not supported by the device")
	ErrNotTransferDst     = errors.New("device local buffer was not created as a transfer destination")
	ErrNotTransferSrc     = errors.New("device local buffer was not created as a transfer source")
	ErrNoDepthFormat      = errors.New("no supported depth format")
	ErrZeroExtent         = errors.New("swapchain extent has a zero dimension")
)

// Releasable is anything that holds GPU objects which have
// to be given back explicitly.
type Releasable interface {

	// Release destroys the native objects held.
	Release()
}

// ReleaseAll releases everything given in reverse order,
// skipping nil entries.
func ReleaseAll(rs ...Releasable) {
	for idx := len(rs) - 1; idx >= 0; idx-- {
		if rs[idx] != nil {
			rs[idx].Release()
		}
	}
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	ComputeShaderType
	UnknownShaderType
)

func (s ShaderType) String() string {
	switch s {
	case VertexShaderType:
		return "vertex"
	case FragmentShaderType:
		return "fragment"
	case ComputeShaderType:
		return "compute"
	default:
		return "unknown"
	}
}
