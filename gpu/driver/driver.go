// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver defines the interfaces that a GPU backend implements
// for the presentation engine. The engine in package gpu only talks to
// these interfaces, so that it can run against Vulkan (package vkgpu)
// or against a recording mock (package gputest).
//
// All methods must be called from the single thread that owns the window.
package driver

import "errors"

var (
	// ErrSurfaceLost means the window surface is no longer usable.
	ErrSurfaceLost = errors.New("driver: surface lost")

	// ErrDeviceLost means the logical device is no longer usable.
	ErrDeviceLost = errors.New("driver: device lost")
)

// Window is the part of a platform window the engine needs.
// A backend type-asserts it to a richer interface to create a surface.
type Window interface {

	// FramebufferSize returns the drawable size in pixels.
	// A minimized window reports 0 x 0.
	FramebufferSize() (width, height int)

	// WaitEvents blocks until at least one window event is available
	// and processes it.
	WaitEvents()
}

// Driver is the entry point into a GPU API.
type Driver interface {
	// AvailableLayers returns the names of the instance layers installed on the host.
	AvailableLayers() ([]string, error)

	// AvailableInstanceExtensions returns the names of the supported instance extensions.
	AvailableInstanceExtensions() ([]string, error)

	CreateInstance(cfg InstanceConfig) (Instance, error)
}

// InstanceConfig configures instance creation.
type InstanceConfig struct {
	AppName    string
	Layers     []string
	Extensions []string

	// Debug enables routing of validation messages to the log.
	Debug bool
}

// Instance is a GPU API instance.
type Instance interface {
	CreateSurface(win Window) (Surface, error)
	PhysicalDevices() ([]PhysicalDevice, error)
	Destroy()
}

// Surface is a presentation surface bound to a window.
type Surface interface {
	Destroy()
}

// QueueFamily describes one queue family of a physical device,
// relative to a particular surface.
type QueueFamily struct {
	Index    int
	Graphics bool
	Present  bool
}

// PhysicalDevice is a GPU that can be opened as a [Device].
type PhysicalDevice interface {
	Name() string
	QueueFamilies(s Surface) ([]QueueFamily, error)
	Extensions() ([]string, error)
	SurfaceSupport(s Surface) (*SurfaceSupport, error)
	CreateDevice(cfg DeviceConfig) (Device, error)
}

// DeviceConfig configures logical device creation.
type DeviceConfig struct {
	GraphicsFamily int
	PresentFamily  int
	Extensions     []string
}

// Device is an open logical device.
type Device interface {
	GraphicsQueue() Queue
	PresentQueue() Queue

	// WaitIdle blocks until all queues of the device are idle.
	WaitIdle() error

	CreateSwapchain(s Surface, cfg SwapchainConfig) (Swapchain, error)
	CreateImageView(sc Swapchain, image int, format Format) (ImageView, error)
	CreateRenderPass(format Format) (RenderPass, error)
	CreateFramebuffer(rp RenderPass, view ImageView, extent Extent) (Framebuffer, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	CreatePipeline(cfg PipelineConfig) (Pipeline, error)
	CreateCommandPool(queueFamily int) (CommandPool, error)
	CreateSemaphore() (Semaphore, error)

	// CreateFence creates a fence, optionally already in the signaled state.
	CreateFence(signaled bool) (Fence, error)

	Destroy()
}

// SwapchainConfig holds the parameters chosen for a swapchain.
type SwapchainConfig struct {
	MinImageCount  uint32
	Format         SurfaceFormat
	Extent         Extent
	PresentMode    PresentMode
	CompositeAlpha CompositeAlpha
	Transform      uint32

	// GraphicsFamily and PresentFamily determine the image sharing mode.
	GraphicsFamily int
	PresentFamily  int
}

// Swapchain is a ring of presentable images.
type Swapchain interface {
	ImageCount() int

	// AcquireNextImage waits without bound for the next presentable image,
	// signaling the given semaphore when it is ready for rendering.
	// A [StatusOutOfDate] result carries no usable image index.
	AcquireNextImage(signal Semaphore) (uint32, Status, error)

	Destroy()
}

// ImageView is a view of one swapchain image.
type ImageView interface {
	Destroy()
}

// RenderPass describes the attachments of a render.
type RenderPass interface {
	Destroy()
}

// Framebuffer binds image views to a render pass.
type Framebuffer interface {
	Destroy()
}

// ShaderModule is a compiled shader stage.
type ShaderModule interface {
	Destroy()
}

// Semaphore orders work between queue operations.
type Semaphore interface {
	Destroy()
}

// Fence is a GPU completion signal observable by the CPU.
type Fence interface {
	// Wait blocks until the fence is signaled or the timeout
	// (in nanoseconds) elapses.
	Wait(timeout uint64) error
	Reset() error
	Destroy()
}

// CommandPool allocates command buffers for one queue family.
type CommandPool interface {
	Allocate(n int) ([]CommandBuffer, error)
	Destroy()
}

// PipelineConfig configures creation of a graphics pipeline.
type PipelineConfig struct {
	Vertex     ShaderModule
	Fragment   ShaderModule
	RenderPass RenderPass

	// PushConstantSize is the size in bytes of the push constant block
	// visible to both shader stages.
	PushConstantSize uint32

	// AlphaBlend enables source-over blending of the color attachment.
	AlphaBlend bool
}

// Pipeline is a compiled graphics pipeline with its layout.
// Viewport and scissor are dynamic state.
type Pipeline interface {
	Destroy()
}

// SubmitInfo describes one command buffer submission.
// Wait is waited on at the color attachment output stage.
type SubmitInfo struct {
	Cmd    CommandBuffer
	Wait   Semaphore
	Signal Semaphore
	Fence  Fence
}

// Queue is a device queue.
type Queue interface {
	Submit(info SubmitInfo) error

	// Present queues the given swapchain image for presentation
	// once wait is signaled.
	Present(sc Swapchain, image uint32, wait Semaphore) (Status, error)
}

// CommandBuffer records GPU commands.
type CommandBuffer interface {
	Reset() error
	Begin() error
	BeginRenderPass(rp RenderPass, fb Framebuffer, extent Extent, clear [4]float32)
	SetViewport(x, y, width, height float32)
	SetScissor(x, y int32, width, height uint32)
	BindPipeline(p Pipeline)
	PushConstants(p Pipeline, offset uint32, data []byte)
	Draw(vertexCount, instanceCount uint32)
	EndRenderPass()
	End() error
}
