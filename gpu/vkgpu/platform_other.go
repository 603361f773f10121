// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !darwin && !offscreen && (windows || (linux && !android) || dragonfly || openbsd)

package vkgpu

import vk "github.com/goki/vulkan"

var (
	platformInstanceExtensions []string
	platformInstanceFlags      vk.InstanceCreateFlags
)
