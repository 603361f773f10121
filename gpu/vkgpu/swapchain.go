// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package vkgpu

import (
	"cogentcore.org/kanban/gpu/driver"
	vk "github.com/goki/vulkan"
)

// Swapchain is a Vulkan swapchain with its images.
type Swapchain struct {
	Handle vk.Swapchain
	Images []vk.Image

	dev vk.Device
}

func (d *Device) CreateSwapchain(s driver.Surface, cfg driver.SwapchainConfig) (driver.Swapchain, error) {
	info := &vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         s.(*Surface).Handle,
		MinImageCount:   cfg.MinImageCount,
		ImageFormat:     vk.Format(cfg.Format.Format),
		ImageColorSpace: vk.ColorSpace(cfg.Format.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  cfg.Extent.Width,
			Height: cfg.Extent.Height,
		},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     vk.SurfaceTransformFlagBits(cfg.Transform),
		CompositeAlpha:   vk.CompositeAlphaFlagBits(cfg.CompositeAlpha),
		PresentMode:      vk.PresentMode(cfg.PresentMode),
		Clipped:          vk.True,
	}
	if cfg.GraphicsFamily != cfg.PresentFamily {
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = 2
		info.PQueueFamilyIndices = []uint32{uint32(cfg.GraphicsFamily), uint32(cfg.PresentFamily)}
	}
	var h vk.Swapchain
	if err := NewError(vk.CreateSwapchain(d.Handle, info, nil, &h)); err != nil {
		return nil, err
	}
	sc := &Swapchain{Handle: h, dev: d.Handle}
	var n uint32
	if err := NewError(vk.GetSwapchainImages(d.Handle, h, &n, nil)); err != nil {
		sc.Destroy()
		return nil, err
	}
	sc.Images = make([]vk.Image, n)
	if err := NewError(vk.GetSwapchainImages(d.Handle, h, &n, sc.Images)); err != nil {
		sc.Destroy()
		return nil, err
	}
	return sc, nil
}

func (sc *Swapchain) ImageCount() int {
	return len(sc.Images)
}

func (sc *Swapchain) AcquireNextImage(signal driver.Semaphore) (uint32, driver.Status, error) {
	var idx uint32
	ret := vk.AcquireNextImage(sc.dev, sc.Handle, vk.MaxUint64, signal.(*Semaphore).Handle, nil, &idx)
	st, err := presentStatus(ret)
	return idx, st, err
}

func (sc *Swapchain) Destroy() {
	if sc.Handle == vk.NullSwapchain {
		return
	}
	vk.DestroySwapchain(sc.dev, sc.Handle, nil)
	sc.Handle = vk.NullSwapchain
	sc.Images = nil
}

// ImageView is a view of one swapchain image.
type ImageView struct {
	Handle vk.ImageView

	dev vk.Device
}

func (d *Device) CreateImageView(sc driver.Swapchain, image int, format driver.Format) (driver.ImageView, error) {
	var v vk.ImageView
	ret := vk.CreateImageView(d.Handle, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    sc.(*Swapchain).Images[image],
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &v)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &ImageView{Handle: v, dev: d.Handle}, nil
}

func (v *ImageView) Destroy() {
	vk.DestroyImageView(v.dev, v.Handle, nil)
}

// RenderPass is a single subpass render pass with one color attachment,
// cleared on load and left ready for presentation.
type RenderPass struct {
	Handle vk.RenderPass

	dev vk.Device
}

func (d *Device) CreateRenderPass(format driver.Format) (driver.RenderPass, error) {
	color := vk.AttachmentDescription{
		Format:         vk.Format(format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}
	// the layout transition waits for the acquire semaphore,
	// which is waited on at the color attachment output stage
	dep := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
	var rp vk.RenderPass
	ret := vk.CreateRenderPass(d.Handle, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{color},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dep},
	}, nil, &rp)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &RenderPass{Handle: rp, dev: d.Handle}, nil
}

func (rp *RenderPass) Destroy() {
	vk.DestroyRenderPass(rp.dev, rp.Handle, nil)
}

// Framebuffer binds one swapchain image view to a render pass.
type Framebuffer struct {
	Handle vk.Framebuffer

	dev vk.Device
}

func (d *Device) CreateFramebuffer(rp driver.RenderPass, view driver.ImageView, ext driver.Extent) (driver.Framebuffer, error) {
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(d.Handle, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp.(*RenderPass).Handle,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view.(*ImageView).Handle},
		Width:           ext.Width,
		Height:          ext.Height,
		Layers:          1,
	}, nil, &fb)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &Framebuffer{Handle: fb, dev: d.Handle}, nil
}

func (fb *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(fb.dev, fb.Handle, nil)
}
