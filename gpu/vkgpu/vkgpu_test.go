// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package vkgpu

import (
	"testing"

	"cogentcore.org/kanban/gpu/driver"
	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain"))
	assert.Equal(t, "a\x00", safeString("a\x00"))
	assert.Equal(t, []string{"a\x00", "b\x00"}, safeStrings([]string{"a", "b\x00"}))
}

func TestPresentStatus(t *testing.T) {
	st, err := presentStatus(vk.Success)
	assert.NoError(t, err)
	assert.Equal(t, driver.StatusOK, st)

	st, err = presentStatus(vk.Suboptimal)
	assert.NoError(t, err)
	assert.Equal(t, driver.StatusSuboptimal, st)

	st, err = presentStatus(vk.ErrorOutOfDate)
	assert.NoError(t, err)
	assert.Equal(t, driver.StatusOutOfDate, st)

	_, err = presentStatus(vk.ErrorSurfaceLost)
	assert.ErrorIs(t, err, driver.ErrSurfaceLost)
}

func TestNewError(t *testing.T) {
	assert.NoError(t, NewError(vk.Success))
	assert.ErrorIs(t, NewError(vk.ErrorDeviceLost), driver.ErrDeviceLost)
	assert.ErrorIs(t, NewError(vk.ErrorSurfaceLost), driver.ErrSurfaceLost)
	assert.Error(t, NewError(vk.ErrorOutOfHostMemory))
}

var _ vk.DebugReportCallbackFunc = debugReport
