// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ui

import (
	"encoding/binary"
	"math"

	"cogentcore.org/kanban/gpu"
	"cogentcore.org/kanban/gpu/driver"
)

//go:generate glslc -o ../assets/shaders/quad.vert.spv ../assets/shaders/quad.vert
//go:generate glslc -o ../assets/shaders/quad.frag.spv ../assets/shaders/quad.frag

// Shader paths within the resources directory.
const (
	VertexShader   = "shaders/quad.vert.spv"
	FragmentShader = "shaders/quad.frag.spv"
)

// PushConstantSize is the size of the per quad push constant block:
// the rect, the color, and the viewport size, each a vec4.
const PushConstantSize = 48

// Overlay records a [DrawList] into a frame. For each quad it pushes
// the quad constants and draws the 6 vertices of two triangles, which
// the vertex shader places from gl_VertexIndex.
type Overlay struct {
	List *DrawList

	buf [PushConstantSize]byte
}

// NewOverlay returns an overlay that draws the given list.
func NewOverlay(dl *DrawList) *Overlay {
	return &Overlay{List: dl}
}

// Record implements [gpu.Overlay].
func (ov *Overlay) Record(cmd driver.CommandBuffer, pl *gpu.Pipeline, extent driver.Extent) error {
	if ov.List == nil || extent.Width == 0 || extent.Height == 0 {
		return nil
	}
	for _, q := range ov.List.Quads {
		ov.encode(q, extent)
		cmd.PushConstants(pl.Handle, 0, ov.buf[:])
		cmd.Draw(6, 1)
	}
	return nil
}

// encode writes the push constants of q into the buffer.
func (ov *Overlay) encode(q Quad, extent driver.Extent) {
	vals := [12]float32{
		q.Rect.X, q.Rect.Y, q.Rect.W, q.Rect.H,
		q.Color[0], q.Color[1], q.Color[2], q.Color[3],
		float32(extent.Width), float32(extent.Height), 0, 0,
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(ov.buf[i*4:], math.Float32bits(v))
	}
}

var _ gpu.Overlay = (*Overlay)(nil)
