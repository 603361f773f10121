// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin && !ios && !offscreen

package vkgpu

import vk "github.com/goki/vulkan"

// MoltenVK is only enumerated when the portability extensions are enabled.
var (
	platformInstanceExtensions = []string{
		vk.KhrGetPhysicalDeviceProperties2ExtensionName,
		vk.KhrPortabilityEnumerationExtensionName,
	}

	// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	platformInstanceFlags = vk.InstanceCreateFlags(0x00000001)
)
