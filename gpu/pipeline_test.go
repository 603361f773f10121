// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"
	"testing/fstest"

	"cogentcore.org/kanban/gpu/driver"
	"cogentcore.org/kanban/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*Context, *gputest.Driver) {
	t.Helper()
	drv, win := newTestDriver()
	ctx, err := NewContext(drv, win, &AppConfig{})
	require.NoError(t, err)
	return ctx, drv
}

func TestLoadSPIRV(t *testing.T) {
	fsys := fstest.MapFS{
		"good.spv":  {Data: spirv()},
		"short.spv": {Data: spirv()[:8]},
		"odd.spv":   {Data: append(spirv(), 0)},
		"magic.spv": {Data: make([]byte, 20)},
	}
	code, err := LoadSPIRV(fsys, "good.spv")
	require.NoError(t, err)
	assert.Len(t, code, 5)
	assert.Equal(t, uint32(SPIRVMagic), code[0])

	for _, name := range []string{"short.spv", "odd.spv", "magic.spv", "missing.spv"} {
		_, err := LoadSPIRV(fsys, name)
		assert.ErrorIs(t, err, ErrShaderCompile, name)
	}
}

func TestPipelineBuild(t *testing.T) {
	ctx, drv := newTestContext(t)
	pl := NewPipeline(ctx, testAssets(), testVertex, testFragment, 48)
	drv.Log.Reset()
	require.NoError(t, pl.Build(driver.FormatB8G8R8A8SRGB))
	assert.NotNil(t, pl.Handle)
	assert.NotNil(t, pl.RenderPass)
	assert.Equal(t, driver.FormatB8G8R8A8SRGB, pl.Format)
	// shader modules only live for the duration of the build
	assert.Equal(t, 2, drv.Log.Count("CreateShaderModule"))
	assert.Equal(t, 2, drv.Log.Count("DestroyShaderModule"))

	drv.Log.Reset()
	pl.Destroy()
	assert.Equal(t, 1, drv.Log.Count("DestroyPipeline"))
	assert.Equal(t, 1, drv.Log.Count("DestroyRenderPass"))
	assert.Less(t, indexOf(drv.Log.Calls, "DestroyPipeline", 1), indexOf(drv.Log.Calls, "DestroyRenderPass", 1))
}

func TestPipelineMissingShader(t *testing.T) {
	ctx, drv := newTestContext(t)
	assets := testAssets()
	delete(assets, testFragment)
	pl := NewPipeline(ctx, assets, testVertex, testFragment, 48)
	err := pl.Build(driver.FormatB8G8R8A8SRGB)
	assert.ErrorIs(t, err, ErrShaderCompile)
	assert.Equal(t, drv.Log.Count("CreateShaderModule"), drv.Log.Count("DestroyShaderModule"))
	assert.Zero(t, drv.Log.Count("CreateRenderPass"))
}

func TestPipelineCreateFailure(t *testing.T) {
	ctx, drv := newTestContext(t)
	drv.Devices[0].Device.FailPipeline = true
	pl := NewPipeline(ctx, testAssets(), testVertex, testFragment, 48)
	err := pl.Build(driver.FormatB8G8R8A8SRGB)
	assert.ErrorIs(t, err, ErrPipelineCreate)
	assert.Equal(t, 1, drv.Log.Count("DestroyRenderPass"))
	assert.Equal(t, 2, drv.Log.Count("DestroyShaderModule"))
	assert.Nil(t, pl.RenderPass)
}

func TestRendererFailureReleasesEverything(t *testing.T) {
	drv, win := newTestDriver()
	cfg := testConfig()
	cfg.Assets = fstest.MapFS{}
	_, err := NewRenderer(drv, win, cfg)
	assert.ErrorIs(t, err, ErrShaderCompile)
	assert.Equal(t, 1, drv.Log.Count("DestroySwapchain"))
	assert.Equal(t, drv.Log.Count("CreateImageView"), drv.Log.Count("DestroyImageView"))
	assert.Equal(t, 1, drv.Log.Count("DestroyDevice"))
	assert.Equal(t, 1, drv.Log.Count("DestroyInstance"))
}
