// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

// Package vkgpu implements the GPU driver interfaces on top of Vulkan,
// using github.com/goki/vulkan, with window surfaces from glfw.
package vkgpu

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"cogentcore.org/kanban/base/errors"
	"cogentcore.org/kanban/gpu/driver"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// Init loads the Vulkan loader through glfw. glfw.Init must have been
// called first. It must be called on the main thread, before anything
// else in this package.
func Init() error {
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return errors.Log(vk.Init())
}

// NewError returns the error for a Vulkan result, or nil on success.
// Lost surfaces and devices map to the driver sentinel errors.
func NewError(ret vk.Result) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.ErrorSurfaceLost:
		return fmt.Errorf("%w (%d)", driver.ErrSurfaceLost, ret)
	case vk.ErrorDeviceLost:
		return fmt.Errorf("%w (%d)", driver.ErrDeviceLost, ret)
	}
	return fmt.Errorf("vulkan error: %w (%d)", vk.Error(ret), ret)
}

// presentStatus maps the result of an acquire or present.
func presentStatus(ret vk.Result) (driver.Status, error) {
	switch ret {
	case vk.Success:
		return driver.StatusOK, nil
	case vk.Suboptimal:
		return driver.StatusSuboptimal, nil
	case vk.ErrorOutOfDate:
		return driver.StatusOutOfDate, nil
	}
	return driver.StatusOK, NewError(ret)
}

// safeString returns s null-terminated, as the C API expects.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// Driver is the Vulkan driver.
type Driver struct{}

func (Driver) AvailableLayers() ([]string, error) {
	var n uint32
	if err := NewError(vk.EnumerateInstanceLayerProperties(&n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, n)
	if err := NewError(vk.EnumerateInstanceLayerProperties(&n, props)); err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].LayerName[:])
	}
	return names, nil
}

func (Driver) AvailableInstanceExtensions() ([]string, error) {
	var n uint32
	if err := NewError(vk.EnumerateInstanceExtensionProperties("", &n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, n)
	if err := NewError(vk.EnumerateInstanceExtensionProperties("", &n, props)); err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].ExtensionName[:])
	}
	return names, nil
}

func (Driver) CreateInstance(cfg driver.InstanceConfig) (driver.Instance, error) {
	exts := append(safeStrings(cfg.Extensions), safeStrings(platformInstanceExtensions)...)
	layers := safeStrings(cfg.Layers)
	var h vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		Flags: platformInstanceFlags,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         vk.MakeVersion(1, 2, 0),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        "kanban\x00",
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &h)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(h); err != nil {
		vk.DestroyInstance(h, nil)
		return nil, err
	}
	in := &Instance{Handle: h}
	if cfg.Debug {
		in.setupDebug()
	}
	return in, nil
}

// Instance is a Vulkan instance.
type Instance struct {
	Handle vk.Instance

	debug vk.DebugReportCallback
}

func (in *Instance) setupDebug() {
	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(in.Handle, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: debugReport,
	}, nil, &cb)
	if err := NewError(ret); err != nil {
		slog.Warn("vkgpu: validation messages will not be logged", "err", err)
		return
	}
	in.debug = cb
}

func debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint64, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	if flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0 {
		slog.Error("vulkan: "+pMessage, "layer", pLayerPrefix, "code", messageCode)
	} else {
		slog.Warn("vulkan: "+pMessage, "layer", pLayerPrefix, "code", messageCode)
	}
	return vk.Bool32(vk.False)
}

// surfacer is implemented by *glfw.Window, and by types embedding it.
type surfacer interface {
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error)
}

func (in *Instance) CreateSurface(win driver.Window) (driver.Surface, error) {
	sw, ok := win.(surfacer)
	if !ok {
		return nil, fmt.Errorf("vkgpu: window %T cannot create a Vulkan surface", win)
	}
	ptr, err := sw.CreateWindowSurface(in.Handle, nil)
	if err != nil {
		return nil, err
	}
	return &Surface{inst: in.Handle, Handle: vk.SurfaceFromPointer(ptr)}, nil
}

func (in *Instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	var n uint32
	if err := NewError(vk.EnumeratePhysicalDevices(in.Handle, &n, nil)); err != nil {
		return nil, err
	}
	pds := make([]vk.PhysicalDevice, n)
	if err := NewError(vk.EnumeratePhysicalDevices(in.Handle, &n, pds)); err != nil {
		return nil, err
	}
	out := make([]driver.PhysicalDevice, n)
	for i, pd := range pds {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &props)
		props.Deref()
		out[i] = &PhysicalDevice{Handle: pd, name: vk.ToString(props.DeviceName[:])}
	}
	return out, nil
}

func (in *Instance) Destroy() {
	if in.Handle == nil {
		return
	}
	if in.debug != nil {
		vk.DestroyDebugReportCallback(in.Handle, in.debug, nil)
		in.debug = nil
	}
	vk.DestroyInstance(in.Handle, nil)
	in.Handle = nil
}

// Surface is a window surface.
type Surface struct {
	Handle vk.Surface

	inst vk.Instance
}

func (s *Surface) Destroy() {
	if s.Handle == vk.NullSurface {
		return
	}
	vk.DestroySurface(s.inst, s.Handle, nil)
	s.Handle = vk.NullSurface
}

var (
	_ driver.Driver         = Driver{}
	_ driver.Instance       = (*Instance)(nil)
	_ driver.PhysicalDevice = (*PhysicalDevice)(nil)
	_ driver.Device         = (*Device)(nil)
	_ driver.Swapchain      = (*Swapchain)(nil)
	_ driver.Queue          = (*Queue)(nil)
	_ driver.Fence          = (*Fence)(nil)
	_ driver.CommandPool    = (*CommandPool)(nil)
	_ driver.CommandBuffer  = (*CommandBuffer)(nil)
)
