// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package vkgpu

import (
	"fmt"

	"cogentcore.org/kanban/gpu/driver"
	vk "github.com/goki/vulkan"
)

// PhysicalDevice is a Vulkan physical device.
type PhysicalDevice struct {
	Handle vk.PhysicalDevice

	name string
}

func (pd *PhysicalDevice) Name() string {
	return pd.name
}

func (pd *PhysicalDevice) QueueFamilies(s driver.Surface) ([]driver.QueueFamily, error) {
	var n uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd.Handle, &n, nil)
	props := make([]vk.QueueFamilyProperties, n)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd.Handle, &n, props)
	surf := s.(*Surface).Handle
	out := make([]driver.QueueFamily, n)
	for i := range props {
		props[i].Deref()
		var present vk.Bool32
		if err := NewError(vk.GetPhysicalDeviceSurfaceSupport(pd.Handle, uint32(i), surf, &present)); err != nil {
			return nil, err
		}
		out[i] = driver.QueueFamily{
			Index:    i,
			Graphics: props[i].QueueCount > 0 && props[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			Present:  present.B(),
		}
	}
	return out, nil
}

func (pd *PhysicalDevice) Extensions() ([]string, error) {
	var n uint32
	if err := NewError(vk.EnumerateDeviceExtensionProperties(pd.Handle, "", &n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, n)
	if err := NewError(vk.EnumerateDeviceExtensionProperties(pd.Handle, "", &n, props)); err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].ExtensionName[:])
	}
	return names, nil
}

func (pd *PhysicalDevice) SurfaceSupport(s driver.Surface) (*driver.SurfaceSupport, error) {
	surf := s.(*Surface).Handle
	var caps vk.SurfaceCapabilities
	if err := NewError(vk.GetPhysicalDeviceSurfaceCapabilities(pd.Handle, surf, &caps)); err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	sup := &driver.SurfaceSupport{
		Capabilities: driver.SurfaceCapabilities{
			MinImageCount:           caps.MinImageCount,
			MaxImageCount:           caps.MaxImageCount,
			CurrentExtent:           extent(caps.CurrentExtent),
			MinExtent:               extent(caps.MinImageExtent),
			MaxExtent:               extent(caps.MaxImageExtent),
			SupportedCompositeAlpha: driver.CompositeAlpha(caps.SupportedCompositeAlpha),
			CurrentTransform:        uint32(caps.CurrentTransform),
		},
	}

	var n uint32
	if err := NewError(vk.GetPhysicalDeviceSurfaceFormats(pd.Handle, surf, &n, nil)); err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, n)
	if err := NewError(vk.GetPhysicalDeviceSurfaceFormats(pd.Handle, surf, &n, formats)); err != nil {
		return nil, err
	}
	for i := range formats {
		formats[i].Deref()
		sup.Formats = append(sup.Formats, driver.SurfaceFormat{
			Format:     driver.Format(formats[i].Format),
			ColorSpace: driver.ColorSpace(formats[i].ColorSpace),
		})
	}

	if err := NewError(vk.GetPhysicalDeviceSurfacePresentModes(pd.Handle, surf, &n, nil)); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, n)
	if err := NewError(vk.GetPhysicalDeviceSurfacePresentModes(pd.Handle, surf, &n, modes)); err != nil {
		return nil, err
	}
	for _, m := range modes {
		sup.PresentModes = append(sup.PresentModes, driver.PresentMode(m))
	}
	return sup, nil
}

func extent(e vk.Extent2D) driver.Extent {
	return driver.Extent{Width: e.Width, Height: e.Height}
}

// CreateDevice opens the device with one queue from the graphics family
// and, if different, one from the present family.
func (pd *PhysicalDevice) CreateDevice(cfg driver.DeviceConfig) (driver.Device, error) {
	families := []uint32{uint32(cfg.GraphicsFamily)}
	if cfg.PresentFamily != cfg.GraphicsFamily {
		families = append(families, uint32(cfg.PresentFamily))
	}
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(families))
	for i, f := range families {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: f,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	exts := safeStrings(cfg.Extensions)
	var h vk.Device
	ret := vk.CreateDevice(pd.Handle, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}, nil, &h)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	dev := &Device{Handle: h, pd: pd.Handle}
	var gq, pq vk.Queue
	vk.GetDeviceQueue(h, uint32(cfg.GraphicsFamily), 0, &gq)
	vk.GetDeviceQueue(h, uint32(cfg.PresentFamily), 0, &pq)
	dev.graphics = &Queue{Handle: gq}
	dev.present = &Queue{Handle: pq}
	return dev, nil
}

// Device is an open Vulkan logical device.
type Device struct {
	Handle vk.Device

	pd       vk.PhysicalDevice
	graphics *Queue
	present  *Queue
}

func (d *Device) GraphicsQueue() driver.Queue { return d.graphics }
func (d *Device) PresentQueue() driver.Queue  { return d.present }

func (d *Device) WaitIdle() error {
	return NewError(vk.DeviceWaitIdle(d.Handle))
}

func (d *Device) CreateSemaphore() (driver.Semaphore, error) {
	var s vk.Semaphore
	ret := vk.CreateSemaphore(d.Handle, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &s)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &Semaphore{dev: d.Handle, Handle: s}, nil
}

func (d *Device) CreateFence(signaled bool) (driver.Fence, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var f vk.Fence
	ret := vk.CreateFence(d.Handle, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &f)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &Fence{dev: d.Handle, Handle: f}, nil
}

func (d *Device) Destroy() {
	if d.Handle == nil {
		return
	}
	vk.DestroyDevice(d.Handle, nil)
	d.Handle = nil
}

// Semaphore is a Vulkan semaphore.
type Semaphore struct {
	Handle vk.Semaphore

	dev vk.Device
}

func (s *Semaphore) Destroy() {
	vk.DestroySemaphore(s.dev, s.Handle, nil)
}

// Fence is a Vulkan fence.
type Fence struct {
	Handle vk.Fence

	dev vk.Device
}

func (f *Fence) Wait(timeout uint64) error {
	ret := vk.WaitForFences(f.dev, 1, []vk.Fence{f.Handle}, vk.True, timeout)
	if ret == vk.Timeout {
		return fmt.Errorf("vkgpu: fence wait timed out after %dns", timeout)
	}
	return NewError(ret)
}

func (f *Fence) Reset() error {
	return NewError(vk.ResetFences(f.dev, 1, []vk.Fence{f.Handle}))
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.dev, f.Handle, nil)
}

// Queue is a Vulkan device queue.
type Queue struct {
	Handle vk.Queue
}

func (q *Queue) Submit(info driver.SubmitInfo) error {
	ret := vk.QueueSubmit(q.Handle, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{info.Wait.(*Semaphore).Handle},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{info.Cmd.(*CommandBuffer).Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{info.Signal.(*Semaphore).Handle},
	}}, info.Fence.(*Fence).Handle)
	return NewError(ret)
}

func (q *Queue) Present(sc driver.Swapchain, image uint32, wait driver.Semaphore) (driver.Status, error) {
	ret := vk.QueuePresent(q.Handle, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait.(*Semaphore).Handle},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.(*Swapchain).Handle},
		PImageIndices:      []uint32{image},
	})
	return presentStatus(ret)
}
