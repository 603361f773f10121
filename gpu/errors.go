// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"

	"cogentcore.org/kanban/gpu/driver"
)

// Fatal startup errors. They are wrapped with context using %w,
// so callers test for them with [errors.Is].
var (
	// ErrInit means a required instance extension or a requested
	// layer is missing, or an instance or device could not be created.
	ErrInit = errors.New("gpu: initialization failed")

	// ErrNoSuitableDevice means no physical device can present to the surface.
	ErrNoSuitableDevice = errors.New("gpu: no suitable physical device")

	// ErrShaderCompile means a shader binary is missing, malformed,
	// or rejected by the driver.
	ErrShaderCompile = errors.New("gpu: shader compile error")

	// ErrPipelineCreate means the render pass or pipeline could not be created.
	ErrPipelineCreate = errors.New("gpu: pipeline creation failed")

	// ErrSyncObjectCreate means a semaphore or fence could not be created.
	ErrSyncObjectCreate = errors.New("gpu: sync object creation failed")

	// ErrSurfaceLost means the window surface is gone; it is fatal.
	ErrSurfaceLost = driver.ErrSurfaceLost

	// ErrNotRecording means EndFrame was called without a matching
	// successful BeginFrame.
	ErrNotRecording = errors.New("gpu: frame is not recording")
)
