// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package vkgpu

import (
	"unsafe"

	"cogentcore.org/kanban/gpu/driver"
	vk "github.com/goki/vulkan"
)

// CommandPool is a command pool whose buffers can be reset individually.
type CommandPool struct {
	Handle vk.CommandPool

	dev vk.Device
}

func (d *Device) CreateCommandPool(queueFamily int) (driver.CommandPool, error) {
	var p vk.CommandPool
	ret := vk.CreateCommandPool(d.Handle, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(queueFamily),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &p)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &CommandPool{Handle: p, dev: d.Handle}, nil
}

func (cp *CommandPool) Allocate(n int) ([]driver.CommandBuffer, error) {
	bufs := make([]vk.CommandBuffer, n)
	ret := vk.AllocateCommandBuffers(cp.dev, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        cp.Handle,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(n),
	}, bufs)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	out := make([]driver.CommandBuffer, n)
	for i, b := range bufs {
		out[i] = &CommandBuffer{Handle: b}
	}
	return out, nil
}

// Destroy destroys the pool, which frees its command buffers.
func (cp *CommandPool) Destroy() {
	vk.DestroyCommandPool(cp.dev, cp.Handle, nil)
}

// CommandBuffer is a primary command buffer.
type CommandBuffer struct {
	Handle vk.CommandBuffer
}

func (cb *CommandBuffer) Reset() error {
	return NewError(vk.ResetCommandBuffer(cb.Handle, 0))
}

func (cb *CommandBuffer) Begin() error {
	return NewError(vk.BeginCommandBuffer(cb.Handle, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}))
}

func (cb *CommandBuffer) BeginRenderPass(rp driver.RenderPass, fb driver.Framebuffer, ext driver.Extent, clear [4]float32) {
	vk.CmdBeginRenderPass(cb.Handle, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.(*RenderPass).Handle,
		Framebuffer: fb.(*Framebuffer).Handle,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{Width: ext.Width, Height: ext.Height},
		},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{vk.NewClearValue(clear[:])},
	}, vk.SubpassContentsInline)
}

func (cb *CommandBuffer) SetViewport(x, y, width, height float32) {
	vk.CmdSetViewport(cb.Handle, 0, 1, []vk.Viewport{{
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		MinDepth: 0,
		MaxDepth: 1,
	}})
}

func (cb *CommandBuffer) SetScissor(x, y int32, width, height uint32) {
	vk.CmdSetScissor(cb.Handle, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: x, Y: y},
		Extent: vk.Extent2D{Width: width, Height: height},
	}})
}

func (cb *CommandBuffer) BindPipeline(p driver.Pipeline) {
	vk.CmdBindPipeline(cb.Handle, vk.PipelineBindPointGraphics, p.(*Pipeline).Handle)
}

func (cb *CommandBuffer) PushConstants(p driver.Pipeline, offset uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	vk.CmdPushConstants(cb.Handle, p.(*Pipeline).Layout, pushStages, offset, uint32(len(data)), unsafe.Pointer(&data[0]))
}

func (cb *CommandBuffer) Draw(vertexCount, instanceCount uint32) {
	vk.CmdDraw(cb.Handle, vertexCount, instanceCount, 0, 0)
}

func (cb *CommandBuffer) EndRenderPass() {
	vk.CmdEndRenderPass(cb.Handle)
}

func (cb *CommandBuffer) End() error {
	return NewError(vk.EndCommandBuffer(cb.Handle))
}
