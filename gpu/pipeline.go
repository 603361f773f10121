// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"log/slog"

	"cogentcore.org/kanban/gpu/driver"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// Pipeline is the render pipeline state: the render pass, the pipeline
// layout, and the compiled shader stages. Viewport and scissor are dynamic,
// so a resize does not require a rebuild; only a change of the swapchain
// image format does.
type Pipeline struct {

	// Context is the device context the pipeline is created on.
	Context *Context

	// Assets is the file system the shader binaries are loaded from.
	Assets fs.FS

	// VertexPath and FragmentPath are the paths of the SPIR-V
	// shader binaries in Assets.
	VertexPath   string
	FragmentPath string

	// PushConstantSize is the size in bytes of the push constant block.
	PushConstantSize uint32

	// Format is the color attachment format the pipeline was built for.
	Format driver.Format

	RenderPass driver.RenderPass
	Handle     driver.Pipeline

	release releaser
}

// NewPipeline returns a new, not yet built, pipeline.
func NewPipeline(ctx *Context, assets fs.FS, vertex, fragment string, pushConstantSize uint32) *Pipeline {
	return &Pipeline{
		Context:          ctx,
		Assets:           assets,
		VertexPath:       vertex,
		FragmentPath:     fragment,
		PushConstantSize: pushConstantSize,
	}
}

// Build loads the shaders and creates the render pass and pipeline for
// the given color format. It fails with [ErrShaderCompile] or
// [ErrPipelineCreate]. The shader modules are only needed during
// pipeline creation and are destroyed before Build returns.
func (pl *Pipeline) Build(format driver.Format) error {
	dev := pl.Context.Device
	vert, err := pl.loadShader(pl.VertexPath)
	if err != nil {
		return err
	}
	defer vert.Destroy()
	frag, err := pl.loadShader(pl.FragmentPath)
	if err != nil {
		return err
	}
	defer frag.Destroy()

	rp, err := dev.CreateRenderPass(format)
	if err != nil {
		return fmt.Errorf("%w: render pass for %v: %w", ErrPipelineCreate, format, err)
	}
	pl.RenderPass = own(&pl.release, rp)

	h, err := dev.CreatePipeline(driver.PipelineConfig{
		Vertex:           vert,
		Fragment:         frag,
		RenderPass:       rp,
		PushConstantSize: pl.PushConstantSize,
		AlphaBlend:       true,
	})
	if err != nil {
		pl.Destroy()
		return fmt.Errorf("%w: %w", ErrPipelineCreate, err)
	}
	pl.Handle = own(&pl.release, h)
	pl.Format = format
	slog.Debug("gpu: pipeline built", "format", format)
	return nil
}

// Rebuild destroys the pipeline and builds it again for the given
// format, returning the new render pass.
func (pl *Pipeline) Rebuild(format driver.Format) (driver.RenderPass, error) {
	pl.Destroy()
	if err := pl.Build(format); err != nil {
		return nil, err
	}
	return pl.RenderPass, nil
}

func (pl *Pipeline) loadShader(path string) (driver.ShaderModule, error) {
	code, err := LoadSPIRV(pl.Assets, path)
	if err != nil {
		return nil, err
	}
	m, err := pl.Context.Device.CreateShaderModule(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, path, err)
	}
	return m, nil
}

// LoadSPIRV reads a SPIR-V binary from the given file system and returns
// it as little-endian words. It fails with [ErrShaderCompile] if the file
// is missing or is not a SPIR-V module.
func LoadSPIRV(fsys fs.FS, path string) ([]uint32, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	if len(b) < 20 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %s: invalid SPIR-V size %d", ErrShaderCompile, path, len(b))
	}
	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if code[0] != SPIRVMagic {
		return nil, fmt.Errorf("%w: %s: bad SPIR-V magic %#x", ErrShaderCompile, path, code[0])
	}
	return code, nil
}

// Destroy destroys the pipeline and its render pass.
// The device must be idle.
func (pl *Pipeline) Destroy() {
	pl.release.release()
	pl.Handle = nil
	pl.RenderPass = nil
}
