// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/kanban/gpu/driver"
)

// AppConfig configures the instance created by a [Context].
type AppConfig struct {

	// Name is the application name reported to the driver.
	Name string

	// Validation requests the validation layer and debug messages.
	// A requested layer that is not installed is a fatal [ErrInit].
	Validation bool

	// InstanceExtensions are the instance extensions required by the
	// window system, typically from glfw.GetRequiredInstanceExtensions.
	InstanceExtensions []string
}

// OptionalDeviceExtensions are enabled when the physical device advertises them.
// The portability subset must be enabled whenever it is advertised.
var OptionalDeviceExtensions = []string{
	driver.ExtMaintenance1,
	driver.ExtMaintenance3,
	driver.ExtDescriptorIndexing,
	driver.ExtPortabilitySubset,
}

// Context is the device context: it exclusively owns the instance,
// the window surface, the chosen physical device, the logical device,
// and its graphics and present queues. Everything else in this package
// is created from a Context and must be destroyed before it.
type Context struct {

	// Driver is the GPU API backend.
	Driver driver.Driver

	// Window is the window being presented to.
	Window driver.Window

	Instance       driver.Instance
	Surface        driver.Surface
	PhysicalDevice driver.PhysicalDevice
	Device         driver.Device

	// GraphicsFamily and PresentFamily are the queue family indexes in use.
	// They are often the same family.
	GraphicsFamily int
	PresentFamily  int

	// GraphicsQueue and PresentQueue may be the same queue.
	GraphicsQueue driver.Queue
	PresentQueue  driver.Queue

	// DeviceExtensions are the extensions the device was opened with.
	DeviceExtensions []string

	release releaser
}

// NewContext creates a complete device context for the given window:
// instance, surface, physical device, and logical device. On failure,
// everything created so far is destroyed.
func NewContext(drv driver.Driver, win driver.Window, cfg *AppConfig) (*Context, error) {
	ctx := &Context{Driver: drv, Window: win}
	err := ctx.CreateInstance(cfg)
	if err == nil {
		err = ctx.CreateSurface()
	}
	if err == nil {
		err = ctx.PickPhysicalDevice(ctx.Surface)
	}
	if err == nil {
		err = ctx.CreateLogicalDevice()
	}
	if err != nil {
		ctx.Destroy()
		return nil, err
	}
	return ctx, nil
}

// CreateInstance creates the GPU instance. It fails with [ErrInit] if a
// required extension or a requested layer is not available on the host.
func (ctx *Context) CreateInstance(cfg *AppConfig) error {
	exts := slices.Clone(cfg.InstanceExtensions)
	var layers []string
	if cfg.Validation {
		layers = append(layers, driver.LayerValidation)
		exts = append(exts, driver.ExtDebugReport)
	}

	avail, err := ctx.Driver.AvailableInstanceExtensions()
	if err != nil {
		return fmt.Errorf("%w: enumerate instance extensions: %w", ErrInit, err)
	}
	for _, e := range exts {
		if !slices.Contains(avail, e) {
			return fmt.Errorf("%w: required instance extension %q is not available", ErrInit, e)
		}
	}
	if len(layers) > 0 {
		availLayers, err := ctx.Driver.AvailableLayers()
		if err != nil {
			return fmt.Errorf("%w: enumerate layers: %w", ErrInit, err)
		}
		for _, l := range layers {
			if !slices.Contains(availLayers, l) {
				return fmt.Errorf("%w: requested layer %q is not available", ErrInit, l)
			}
		}
	}

	inst, err := ctx.Driver.CreateInstance(driver.InstanceConfig{
		AppName:    cfg.Name,
		Layers:     layers,
		Extensions: exts,
		Debug:      cfg.Validation,
	})
	if err != nil {
		return fmt.Errorf("%w: create instance: %w", ErrInit, err)
	}
	ctx.Instance = own(&ctx.release, inst)
	slog.Debug("gpu: instance created", "extensions", exts, "layers", layers)
	return nil
}

// CreateSurface creates the presentation surface for the window.
func (ctx *Context) CreateSurface() error {
	s, err := ctx.Instance.CreateSurface(ctx.Window)
	if err != nil {
		return fmt.Errorf("%w: create surface: %w", ErrInit, err)
	}
	ctx.Surface = own(&ctx.release, s)
	return nil
}

// PickPhysicalDevice selects the first physical device that has a
// graphics queue family and a family that can present to the surface,
// supports the swapchain extension, and reports at least one surface
// format and present mode. It fails with [ErrNoSuitableDevice].
func (ctx *Context) PickPhysicalDevice(surface driver.Surface) error {
	devs, err := ctx.Instance.PhysicalDevices()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoSuitableDevice, err)
	}
	for _, pd := range devs {
		graphics, present, ok := ctx.suitable(pd, surface)
		if !ok {
			slog.Debug("gpu: skipping unsuitable device", "device", pd.Name())
			continue
		}
		ctx.PhysicalDevice = pd
		ctx.GraphicsFamily = graphics
		ctx.PresentFamily = present
		slog.Info("gpu: selected device", "device", pd.Name(), "graphics", graphics, "present", present)
		return nil
	}
	return fmt.Errorf("%w: none of %d devices qualify", ErrNoSuitableDevice, len(devs))
}

// suitable returns the graphics and present queue families of the given
// device, and whether it satisfies all device requirements. A family that
// supports both is preferred for presentation.
func (ctx *Context) suitable(pd driver.PhysicalDevice, surface driver.Surface) (graphics, present int, ok bool) {
	fams, err := pd.QueueFamilies(surface)
	if err != nil {
		return 0, 0, false
	}
	graphics, present = -1, -1
	for _, f := range fams {
		if f.Graphics && graphics < 0 {
			graphics = f.Index
		}
		if f.Present && (present < 0 || (f.Graphics && f.Index == graphics)) {
			present = f.Index
		}
	}
	if graphics < 0 || present < 0 {
		return 0, 0, false
	}
	exts, err := pd.Extensions()
	if err != nil || !slices.Contains(exts, driver.ExtSwapchain) {
		return 0, 0, false
	}
	sup, err := pd.SurfaceSupport(surface)
	if err != nil || len(sup.Formats) == 0 || len(sup.PresentModes) == 0 {
		return 0, 0, false
	}
	return graphics, present, true
}

// CreateLogicalDevice opens the physical device with the swapchain
// extension and whichever [OptionalDeviceExtensions] it advertises,
// and retrieves the graphics and present queues.
func (ctx *Context) CreateLogicalDevice() error {
	avail, err := ctx.PhysicalDevice.Extensions()
	if err != nil {
		return fmt.Errorf("%w: enumerate device extensions: %w", ErrInit, err)
	}
	exts := []string{driver.ExtSwapchain}
	for _, e := range OptionalDeviceExtensions {
		if slices.Contains(avail, e) {
			exts = append(exts, e)
		}
	}
	dev, err := ctx.PhysicalDevice.CreateDevice(driver.DeviceConfig{
		GraphicsFamily: ctx.GraphicsFamily,
		PresentFamily:  ctx.PresentFamily,
		Extensions:     exts,
	})
	if err != nil {
		return fmt.Errorf("%w: create device: %w", ErrInit, err)
	}
	ctx.Device = own(&ctx.release, dev)
	ctx.DeviceExtensions = exts
	ctx.GraphicsQueue = dev.GraphicsQueue()
	ctx.PresentQueue = dev.PresentQueue()
	return nil
}

// SurfaceSupport returns the current support of the physical device
// for the surface. The capabilities change as the window is resized.
func (ctx *Context) SurfaceSupport() (*driver.SurfaceSupport, error) {
	return ctx.PhysicalDevice.SurfaceSupport(ctx.Surface)
}

// WaitIdle waits until the device has finished all submitted work.
func (ctx *Context) WaitIdle() error {
	if ctx.Device == nil {
		return nil
	}
	return ctx.Device.WaitIdle()
}

// Destroy destroys the device, surface, and instance, in that order.
// All objects created from the context must already be destroyed.
func (ctx *Context) Destroy() {
	ctx.release.release()
	ctx.Device = nil
	ctx.Surface = nil
	ctx.Instance = nil
	ctx.GraphicsQueue = nil
	ctx.PresentQueue = nil
}
