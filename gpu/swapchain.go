// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/kanban/gpu/driver"
)

// Swapchain manages the presentable images of the window surface,
// with one image view and one framebuffer per image. The images, views,
// and framebuffers are only ever rebuilt together, by [Swapchain.Recreate].
type Swapchain struct {

	// Context is the device context the swapchain is created on.
	Context *Context

	// PreferMailbox selects the mailbox present mode when available.
	PreferMailbox bool

	// Format is the current surface format of the images.
	Format driver.SurfaceFormat

	PresentMode    driver.PresentMode
	CompositeAlpha driver.CompositeAlpha

	// Extent is the current size of the images.
	Extent driver.Extent

	// Handle is the backend swapchain.
	Handle driver.Swapchain

	// Views has one image view per swapchain image.
	Views []driver.ImageView

	// Framebuffers has one framebuffer per swapchain image,
	// for [Swapchain.RenderPass].
	Framebuffers []driver.Framebuffer

	// RenderPass is the render pass the framebuffers are made for.
	// It is owned by the [Pipeline], not the swapchain.
	RenderPass driver.RenderPass

	// Generation is incremented every time the swapchain is recreated.
	Generation int

	// OnFormatChange is called during [Swapchain.Recreate] when the new
	// images have a different format than the old ones. It returns the
	// render pass to build the new framebuffers for.
	OnFormatChange func(format driver.Format) (driver.RenderPass, error)
}

// NewSwapchain returns a new, not yet created, swapchain for the given context.
func NewSwapchain(ctx *Context, preferMailbox bool) *Swapchain {
	return &Swapchain{Context: ctx, PreferMailbox: preferMailbox}
}

// Create creates the swapchain and its image views for the given desired
// extent, normally the window's drawable size. If a render pass has been
// set, the framebuffers are created too.
func (sc *Swapchain) Create(desired driver.Extent) error {
	ctx := sc.Context
	sup, err := ctx.SurfaceSupport()
	if err != nil {
		return fmt.Errorf("gpu: query surface support: %w", err)
	}
	caps := sup.Capabilities
	sc.Format = ChooseSurfaceFormat(sup.Formats)
	sc.PresentMode = ChoosePresentMode(sup.PresentModes, sc.PreferMailbox)
	sc.CompositeAlpha = ChooseCompositeAlpha(caps.SupportedCompositeAlpha)
	sc.Extent = ChooseExtent(caps, int(desired.Width), int(desired.Height))

	h, err := ctx.Device.CreateSwapchain(ctx.Surface, driver.SwapchainConfig{
		MinImageCount:  ChooseImageCount(caps),
		Format:         sc.Format,
		Extent:         sc.Extent,
		PresentMode:    sc.PresentMode,
		CompositeAlpha: sc.CompositeAlpha,
		Transform:      caps.CurrentTransform,
		GraphicsFamily: ctx.GraphicsFamily,
		PresentFamily:  ctx.PresentFamily,
	})
	if err != nil {
		return fmt.Errorf("gpu: create swapchain: %w", err)
	}
	sc.Handle = h

	n := h.ImageCount()
	sc.Views = make([]driver.ImageView, 0, n)
	for i := range n {
		v, err := ctx.Device.CreateImageView(h, i, sc.Format.Format)
		if err != nil {
			sc.Destroy()
			return fmt.Errorf("gpu: create image view %d: %w", i, err)
		}
		sc.Views = append(sc.Views, v)
	}
	if sc.RenderPass != nil {
		if err := sc.createFramebuffers(); err != nil {
			sc.Destroy()
			return err
		}
	}
	slog.Info("gpu: swapchain created", "width", sc.Extent.Width, "height", sc.Extent.Height,
		"images", n, "format", sc.Format.Format, "present", sc.PresentMode, "alpha", sc.CompositeAlpha)
	return nil
}

// SetRenderPass sets the render pass and rebuilds the framebuffers for it.
func (sc *Swapchain) SetRenderPass(rp driver.RenderPass) error {
	sc.DestroyFramebuffers()
	sc.RenderPass = rp
	return sc.createFramebuffers()
}

func (sc *Swapchain) createFramebuffers() error {
	sc.Framebuffers = make([]driver.Framebuffer, 0, len(sc.Views))
	for i, v := range sc.Views {
		fb, err := sc.Context.Device.CreateFramebuffer(sc.RenderPass, v, sc.Extent)
		if err != nil {
			sc.DestroyFramebuffers()
			return fmt.Errorf("gpu: create framebuffer %d: %w", i, err)
		}
		sc.Framebuffers = append(sc.Framebuffers, fb)
	}
	return nil
}

// Recreate rebuilds the swapchain after a resize or when presentation
// reports that it is stale. It first blocks while the window has no
// drawable area (for example while minimized), then waits for the device
// to go idle, so that no GPU work references the old images, and then
// destroys and recreates the framebuffers, views, and swapchain as a unit.
func (sc *Swapchain) Recreate() error {
	ctx := sc.Context
	w, h := ctx.Window.FramebufferSize()
	for w == 0 || h == 0 {
		ctx.Window.WaitEvents()
		w, h = ctx.Window.FramebufferSize()
	}
	if err := ctx.WaitIdle(); err != nil {
		return fmt.Errorf("gpu: wait idle before swapchain recreate: %w", err)
	}
	oldFormat := sc.Format.Format
	rp := sc.RenderPass
	sc.Destroy()
	sc.RenderPass = nil // framebuffers are built below, once the format is known

	if err := sc.Create(driver.Extent{Width: uint32(w), Height: uint32(h)}); err != nil {
		return err
	}
	if sc.Format.Format != oldFormat && sc.OnFormatChange != nil {
		slog.Info("gpu: swapchain format changed", "from", oldFormat, "to", sc.Format.Format)
		nrp, err := sc.OnFormatChange(sc.Format.Format)
		if err != nil {
			return err
		}
		rp = nrp
	}
	sc.RenderPass = rp
	if rp != nil {
		if err := sc.createFramebuffers(); err != nil {
			return err
		}
	}
	sc.Generation++
	return nil
}

// DestroyFramebuffers destroys the framebuffers only.
func (sc *Swapchain) DestroyFramebuffers() {
	for _, fb := range sc.Framebuffers {
		fb.Destroy()
	}
	sc.Framebuffers = nil
}

// Destroy destroys the framebuffers, the image views, and the
// swapchain, in that order. The device must be idle.
func (sc *Swapchain) Destroy() {
	sc.DestroyFramebuffers()
	for _, v := range sc.Views {
		v.Destroy()
	}
	sc.Views = nil
	if sc.Handle != nil {
		sc.Handle.Destroy()
		sc.Handle = nil
	}
}
