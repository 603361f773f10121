// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"
	"math"

	"cogentcore.org/kanban/gpu/driver"
)

// DefaultFramesInFlight is the default number of frame slots. Two slots
// let the CPU record one frame while the GPU renders the previous one,
// without letting the CPU run further ahead than that.
const DefaultFramesInFlight = 2

// SlotState is the state of a [FrameSlot].
type SlotState int32

const (
	// SlotIdle means the GPU has finished with the slot.
	SlotIdle SlotState = iota

	// SlotRecording means the slot's command buffer is being recorded.
	SlotRecording

	// SlotSubmitted means the slot's commands were submitted and
	// may still be executing.
	SlotSubmitted
)

func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "Idle"
	case SlotRecording:
		return "Recording"
	case SlotSubmitted:
		return "Submitted"
	}
	return fmt.Sprintf("SlotState(%d)", int32(s))
}

// FrameSlot holds the per-frame objects of one frame in flight.
type FrameSlot struct {
	Cmd driver.CommandBuffer

	// ImageAvailable is signaled when the acquired image can be rendered to.
	ImageAvailable driver.Semaphore

	// RenderFinished is signaled when rendering is done and the image can be presented.
	RenderFinished driver.Semaphore

	// InFlight is signaled when the GPU has finished the slot's last submission.
	// It is created signaled, so the first wait on it returns immediately.
	InFlight driver.Fence

	State SlotState
}

// Frames is the frame scheduler. It cycles through its frame slots,
// acquiring an image, recording, submitting, and presenting each frame.
//
// The fence of a slot is always waited on before its command buffer is
// reset, which is what keeps the CPU from rewriting commands the GPU is
// still reading. All methods must be called on the thread that owns the window.
type Frames struct {

	// Context is the device context.
	Context *Context

	// Swapchain is presented to; it is recreated by the scheduler when stale.
	Swapchain *Swapchain

	// Pipeline is bound at the start of every frame.
	Pipeline *Pipeline

	// Slots are the frame slots.
	Slots []*FrameSlot

	// Index is the index of the current slot. It advances by one,
	// modulo the number of slots, each time a frame is presented.
	Index int

	// ImageIndex is the swapchain image acquired for the current frame.
	ImageIndex uint32

	// ClearColor is the color the frame is cleared to.
	// It is fully transparent by default.
	ClearColor [4]float32

	// Resized is set by [Frames.MarkResized] when the window framebuffer
	// changes size. It is honored after the next present.
	Resized bool

	pool    driver.CommandPool
	release releaser
}

// NewFrames creates a frame scheduler with n frame slots
// ([DefaultFramesInFlight] if n <= 0).
func NewFrames(ctx *Context, sc *Swapchain, pl *Pipeline, n int) (*Frames, error) {
	if n <= 0 {
		n = DefaultFramesInFlight
	}
	fr := &Frames{Context: ctx, Swapchain: sc, Pipeline: pl}
	if err := fr.init(n); err != nil {
		fr.release.release()
		return nil, err
	}
	return fr, nil
}

func (fr *Frames) init(n int) error {
	dev := fr.Context.Device
	pool, err := dev.CreateCommandPool(fr.Context.GraphicsFamily)
	if err != nil {
		return fmt.Errorf("%w: create command pool: %w", ErrInit, err)
	}
	fr.pool = own(&fr.release, pool)
	cmds, err := pool.Allocate(n)
	if err != nil {
		return fmt.Errorf("%w: allocate command buffers: %w", ErrInit, err)
	}
	fr.Slots = make([]*FrameSlot, n)
	for i := range fr.Slots {
		s := &FrameSlot{Cmd: cmds[i]}
		if s.ImageAvailable, err = dev.CreateSemaphore(); err != nil {
			return fmt.Errorf("%w: frame %d: %w", ErrSyncObjectCreate, i, err)
		}
		own(&fr.release, s.ImageAvailable)
		if s.RenderFinished, err = dev.CreateSemaphore(); err != nil {
			return fmt.Errorf("%w: frame %d: %w", ErrSyncObjectCreate, i, err)
		}
		own(&fr.release, s.RenderFinished)
		if s.InFlight, err = dev.CreateFence(true); err != nil {
			return fmt.Errorf("%w: frame %d: %w", ErrSyncObjectCreate, i, err)
		}
		own(&fr.release, s.InFlight)
		fr.Slots[i] = s
	}
	return nil
}

// Current returns the current frame slot.
func (fr *Frames) Current() *FrameSlot {
	return fr.Slots[fr.Index]
}

// InFlight returns the number of slots that are recording or submitted.
func (fr *Frames) InFlight() int {
	n := 0
	for _, s := range fr.Slots {
		if s.State != SlotIdle {
			n++
		}
	}
	return n
}

// MarkResized records that the window framebuffer was resized.
// It is called from the window system's resize callback, which runs
// during event polling on the same thread as the frame loop.
func (fr *Frames) MarkResized() {
	fr.Resized = true
}

// BeginFrame starts a new frame. It waits for the current slot's previous
// submission to finish, acquires the next swapchain image, and begins
// recording the slot's command buffer inside a render pass that clears to
// [Frames.ClearColor], with the pipeline bound and the viewport and scissor
// set to the swapchain extent.
//
// If the swapchain is out of date, it is recreated and BeginFrame returns
// false with no error: nothing was recorded, and the caller simply tries
// again on the next iteration.
func (fr *Frames) BeginFrame() (driver.CommandBuffer, bool, error) {
	slot := fr.Current()
	if err := slot.InFlight.Wait(math.MaxUint64); err != nil {
		return nil, false, fmt.Errorf("gpu: wait for frame %d: %w", fr.Index, err)
	}
	slot.State = SlotIdle

	sc := fr.Swapchain
	img, status, err := sc.Handle.AcquireNextImage(slot.ImageAvailable)
	if err != nil {
		return nil, false, fmt.Errorf("gpu: acquire image: %w", err)
	}
	if status == driver.StatusOutOfDate {
		slog.Debug("gpu: swapchain out of date at acquire")
		return nil, false, fr.recreate()
	}
	fr.ImageIndex = img

	// the fence is only reset once work is sure to be submitted for it
	if err := slot.InFlight.Reset(); err != nil {
		return nil, false, fmt.Errorf("gpu: reset fence: %w", err)
	}
	cmd := slot.Cmd
	if err := cmd.Reset(); err != nil {
		return nil, false, fmt.Errorf("gpu: reset command buffer: %w", err)
	}
	if err := cmd.Begin(); err != nil {
		return nil, false, fmt.Errorf("gpu: begin command buffer: %w", err)
	}
	slot.State = SlotRecording

	ext := sc.Extent
	cmd.BeginRenderPass(sc.RenderPass, sc.Framebuffers[img], ext, fr.ClearColor)
	cmd.BindPipeline(fr.Pipeline.Handle)
	cmd.SetViewport(0, 0, float32(ext.Width), float32(ext.Height))
	cmd.SetScissor(0, 0, ext.Width, ext.Height)
	return cmd, true, nil
}

// EndFrame finishes recording the current frame, submits it, and presents
// the acquired image. The submission waits for the image to be available
// and signals both the render finished semaphore and the slot's fence.
// If presentation reports the swapchain as stale, or the window was resized,
// the swapchain is recreated after presenting. Finally the slot index advances.
func (fr *Frames) EndFrame() error {
	slot := fr.Current()
	if slot.State != SlotRecording {
		return ErrNotRecording
	}
	cmd := slot.Cmd
	cmd.EndRenderPass()
	if err := cmd.End(); err != nil {
		return fmt.Errorf("gpu: end command buffer: %w", err)
	}
	err := fr.Context.GraphicsQueue.Submit(driver.SubmitInfo{
		Cmd:    cmd,
		Wait:   slot.ImageAvailable,
		Signal: slot.RenderFinished,
		Fence:  slot.InFlight,
	})
	if err != nil {
		return fmt.Errorf("gpu: submit frame %d: %w", fr.Index, err)
	}
	slot.State = SlotSubmitted

	status, err := fr.Context.PresentQueue.Present(fr.Swapchain.Handle, fr.ImageIndex, slot.RenderFinished)
	if err != nil {
		return fmt.Errorf("gpu: present: %w", err)
	}
	if status.Stale() || fr.Resized {
		slog.Debug("gpu: recreating swapchain after present", "status", status, "resized", fr.Resized)
		if err := fr.recreate(); err != nil {
			return err
		}
	}
	fr.Index = (fr.Index + 1) % len(fr.Slots)
	return nil
}

// recreate rebuilds the swapchain. The resize flag is cleared only
// afterwards: resize events delivered while Recreate waits for a
// non-zero size are already reflected in the new swapchain.
func (fr *Frames) recreate() error {
	if err := fr.Swapchain.Recreate(); err != nil {
		return err
	}
	fr.Resized = false
	return nil
}

// Destroy waits for the device to go idle, and then destroys the fences,
// semaphores, command buffers, and command pool of all slots.
func (fr *Frames) Destroy() {
	if err := fr.Context.WaitIdle(); err != nil {
		slog.Error("gpu: wait idle before destroying frames", "err", err)
	}
	fr.release.release()
	fr.Slots = nil
}
