// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import "fmt"

// Format is a pixel format. Values match VkFormat.
type Format int32

const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8SRGB  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8SRGB  Format = 50
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8Unorm"
	case FormatR8G8B8A8SRGB:
		return "R8G8B8A8SRGB"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8Unorm"
	case FormatB8G8R8A8SRGB:
		return "B8G8R8A8SRGB"
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ColorSpace is a presentation color space. Values match VkColorSpaceKHR.
type ColorSpace int32

const ColorSpaceSRGBNonlinear ColorSpace = 0

// SurfaceFormat is a supported format and color space pair.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PresentMode is a presentation mode. Values match VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (p PresentMode) String() string {
	switch p {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeFifo:
		return "Fifo"
	case PresentModeFifoRelaxed:
		return "FifoRelaxed"
	}
	return fmt.Sprintf("PresentMode(%d)", int32(p))
}

// CompositeAlpha is a bit set of window compositing modes.
// Values match VkCompositeAlphaFlagBitsKHR.
type CompositeAlpha uint32

const (
	CompositeAlphaOpaque         CompositeAlpha = 0x1
	CompositeAlphaPreMultiplied  CompositeAlpha = 0x2
	CompositeAlphaPostMultiplied CompositeAlpha = 0x4
	CompositeAlphaInherit        CompositeAlpha = 0x8
)

func (c CompositeAlpha) String() string {
	switch c {
	case CompositeAlphaOpaque:
		return "Opaque"
	case CompositeAlphaPreMultiplied:
		return "PreMultiplied"
	case CompositeAlphaPostMultiplied:
		return "PostMultiplied"
	case CompositeAlphaInherit:
		return "Inherit"
	}
	return fmt.Sprintf("CompositeAlpha(%#x)", uint32(c))
}

// UndefinedExtent is the current extent width reported by surfaces
// whose size is determined by the swapchain.
const UndefinedExtent = 0xFFFFFFFF

// Extent is a size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// SurfaceCapabilities are the basic capabilities of a surface.
type SurfaceCapabilities struct {
	MinImageCount           uint32
	MaxImageCount           uint32 // 0 means no limit
	CurrentExtent           Extent
	MinExtent               Extent
	MaxExtent               Extent
	SupportedCompositeAlpha CompositeAlpha
	CurrentTransform        uint32
}

// SurfaceSupport is what a physical device supports for a surface.
type SurfaceSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// Status is the non-error outcome of an acquire or present.
type Status int32

const (
	// StatusOK means the operation succeeded.
	StatusOK Status = iota

	// StatusSuboptimal means the operation succeeded, but the swapchain
	// no longer matches the surface exactly.
	StatusSuboptimal

	// StatusOutOfDate means the swapchain can no longer be used
	// with the surface and must be recreated.
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSuboptimal:
		return "Suboptimal"
	case StatusOutOfDate:
		return "OutOfDate"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Stale reports whether the swapchain should be recreated.
func (s Status) Stale() bool {
	return s == StatusSuboptimal || s == StatusOutOfDate
}

// Well-known extension and layer names.
const (
	ExtSwapchain          = "VK_KHR_swapchain"
	ExtMaintenance1       = "VK_KHR_maintenance1"
	ExtMaintenance3       = "VK_KHR_maintenance3"
	ExtDescriptorIndexing = "VK_EXT_descriptor_indexing"
	ExtPortabilitySubset  = "VK_KHR_portability_subset"
	ExtDebugReport        = "VK_EXT_debug_report"
	LayerValidation       = "VK_LAYER_KHRONOS_validation"
)
