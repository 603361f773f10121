// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "cogentcore.org/kanban/gpu/driver"

// PreferredSurfaceFormat is the surface format chosen whenever the surface supports it.
var PreferredSurfaceFormat = driver.SurfaceFormat{
	Format:     driver.FormatB8G8R8A8SRGB,
	ColorSpace: driver.ColorSpaceSRGBNonlinear,
}

// ChooseSurfaceFormat returns [PreferredSurfaceFormat] if it is in the
// given list, and otherwise the first format in the list.
func ChooseSurfaceFormat(formats []driver.SurfaceFormat) driver.SurfaceFormat {
	for _, f := range formats {
		if f == PreferredSurfaceFormat {
			return f
		}
	}
	if len(formats) == 0 {
		return driver.SurfaceFormat{}
	}
	return formats[0]
}

// ChoosePresentMode returns the mailbox mode if it is supported and
// preferred, and otherwise FIFO, which every surface supports.
func ChoosePresentMode(modes []driver.PresentMode, preferMailbox bool) driver.PresentMode {
	if preferMailbox {
		for _, m := range modes {
			if m == driver.PresentModeMailbox {
				return m
			}
		}
	}
	return driver.PresentModeFifo
}

// ChooseExtent returns the surface's current extent when it is defined,
// and otherwise the given framebuffer size clamped to the surface limits.
func ChooseExtent(caps driver.SurfaceCapabilities, width, height int) driver.Extent {
	if caps.CurrentExtent.Width != driver.UndefinedExtent {
		return caps.CurrentExtent
	}
	return driver.Extent{
		Width:  clamp(uint32(max(width, 0)), caps.MinExtent.Width, caps.MaxExtent.Width),
		Height: clamp(uint32(max(height, 0)), caps.MinExtent.Height, caps.MaxExtent.Height),
	}
}

// ChooseImageCount requests one image more than the minimum,
// so the CPU never waits on the presentation engine for an image,
// limited to the maximum when there is one.
func ChooseImageCount(caps driver.SurfaceCapabilities) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

// compositeAlphaOrder is the order in which composite alpha modes are tried.
// Anything but opaque keeps the transparent window background.
var compositeAlphaOrder = []driver.CompositeAlpha{
	driver.CompositeAlphaPreMultiplied,
	driver.CompositeAlphaPostMultiplied,
	driver.CompositeAlphaInherit,
}

// ChooseCompositeAlpha returns the first supported mode in the order
// pre-multiplied, post-multiplied, inherit, falling back on opaque.
func ChooseCompositeAlpha(supported driver.CompositeAlpha) driver.CompositeAlpha {
	for _, ca := range compositeAlphaOrder {
		if supported&ca != 0 {
			return ca
		}
	}
	return driver.CompositeAlphaOpaque
}

func clamp(v, lo, hi uint32) uint32 {
	return min(max(v, lo), hi)
}
