// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"io/fs"
	"log/slog"

	"cogentcore.org/kanban/gpu/driver"
)

// Overlay records the draw commands of a UI layer into the command buffer
// of the current frame. It runs entirely between [Frames.BeginFrame] and
// [Frames.EndFrame], inside the render pass, and does no synchronization
// of its own.
type Overlay interface {
	Record(cmd driver.CommandBuffer, pl *Pipeline, extent driver.Extent) error
}

// Config configures a [Renderer].
type Config struct {
	App AppConfig

	// FramesInFlight is the number of frame slots.
	FramesInFlight int

	// PreferMailbox selects the mailbox present mode when available.
	PreferMailbox bool

	// Assets is where the shader binaries are loaded from.
	Assets fs.FS

	// VertexShader and FragmentShader are SPIR-V paths in Assets.
	VertexShader   string
	FragmentShader string

	// PushConstantSize is the size of the push constant block used by the shaders.
	PushConstantSize uint32
}

// Renderer owns the complete presentation engine for one window: the
// device context, the swapchain, the pipeline, and the frame scheduler.
// Each part is registered for release as soon as it is built, and
// [Renderer.Destroy] releases them in the reverse order.
type Renderer struct {
	Context   *Context
	Swapchain *Swapchain
	Pipeline  *Pipeline
	Frames    *Frames

	release releaser
}

// NewRenderer builds the presentation engine for the given window.
// Any error is fatal; everything built before it has been released.
func NewRenderer(drv driver.Driver, win driver.Window, cfg *Config) (*Renderer, error) {
	r := &Renderer{}
	if err := r.init(drv, win, cfg); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init(drv driver.Driver, win driver.Window, cfg *Config) error {
	ctx, err := NewContext(drv, win, &cfg.App)
	if err != nil {
		return err
	}
	r.Context = own(&r.release, ctx)

	w, h := win.FramebufferSize()
	sc := NewSwapchain(ctx, cfg.PreferMailbox)
	if err := sc.Create(driver.Extent{Width: uint32(max(w, 0)), Height: uint32(max(h, 0))}); err != nil {
		return err
	}
	r.Swapchain = own(&r.release, sc)

	pl := NewPipeline(ctx, cfg.Assets, cfg.VertexShader, cfg.FragmentShader, cfg.PushConstantSize)
	if err := pl.Build(sc.Format.Format); err != nil {
		return err
	}
	r.Pipeline = own(&r.release, pl)
	sc.OnFormatChange = pl.Rebuild

	if err := sc.SetRenderPass(pl.RenderPass); err != nil {
		return err
	}
	r.release.add(sc.DestroyFramebuffers)

	fr, err := NewFrames(ctx, sc, pl, cfg.FramesInFlight)
	if err != nil {
		return err
	}
	r.Frames = own(&r.release, fr)
	return nil
}

// MarkResized records that the window framebuffer was resized.
func (r *Renderer) MarkResized() {
	r.Frames.MarkResized()
}

// RenderFrame renders and presents one frame with the given overlay
// (which may be nil). It returns false with no error if the frame
// was skipped because the swapchain had to be recreated first.
func (r *Renderer) RenderFrame(ov Overlay) (bool, error) {
	cmd, ok, err := r.Frames.BeginFrame()
	if err != nil || !ok {
		return false, err
	}
	if ov != nil {
		if err := ov.Record(cmd, r.Pipeline, r.Swapchain.Extent); err != nil {
			return false, fmt.Errorf("gpu: record overlay: %w", err)
		}
	}
	if err := r.Frames.EndFrame(); err != nil {
		return false, err
	}
	return true, nil
}

// Destroy waits for the device to go idle and then releases the frame
// slots, framebuffers, pipeline, swapchain, and device context, in that order.
func (r *Renderer) Destroy() {
	if r.Context != nil {
		if err := r.Context.WaitIdle(); err != nil {
			slog.Error("gpu: wait idle before destroying renderer", "err", err)
		}
	}
	r.release.release()
	r.Frames = nil
	r.Pipeline = nil
	r.Swapchain = nil
	r.Context = nil
}
