// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gputest provides a recording mock GPU backend for testing the
// presentation engine without a GPU. GPU work completes as soon as it is
// submitted, and every call is appended to a shared [Log]. The mock also
// enforces the synchronization rules a real driver relies on: a command
// buffer may not be reset while its submission has not been waited on,
// and an unsignaled fence that nothing will signal may not be waited on.
package gputest

import (
	"errors"
	"fmt"
	"strings"

	"cogentcore.org/kanban/gpu/driver"
)

var (
	// ErrResetInFlight is returned when a command buffer is reset while
	// its last submission has not been observed complete through its fence.
	ErrResetInFlight = errors.New("gputest: command buffer reset while in flight")

	// ErrDeadlock is returned when waiting on a fence that can never be signaled.
	ErrDeadlock = errors.New("gputest: wait on an unsignaled fence with no pending work")
)

// Log is an ordered record of backend calls.
type Log struct {
	Calls []string
}

func (l *Log) add(format string, args ...any) {
	l.Calls = append(l.Calls, fmt.Sprintf(format, args...))
}

// Count returns the number of calls with the given prefix.
func (l *Log) Count(prefix string) int {
	n := 0
	for _, c := range l.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Index returns the index of the first call equal to call at or after from, or -1.
func (l *Log) Index(call string, from int) int {
	for i := from; i < len(l.Calls); i++ {
		if l.Calls[i] == call {
			return i
		}
	}
	return -1
}

// Filter returns the calls with any of the given prefixes, in order.
func (l *Log) Filter(prefixes ...string) []string {
	var out []string
	for _, c := range l.Calls {
		for _, p := range prefixes {
			if strings.HasPrefix(c, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Reset clears the log.
func (l *Log) Reset() {
	l.Calls = nil
}

// Window is a mock window whose framebuffer size follows [Window.Sizes]:
// each call to WaitEvents advances to the next size, and the last size
// sticks.
type Window struct {
	Sizes [][2]int
	Log   *Log

	at int
}

// NewWindow returns a window with the given size sequence.
func NewWindow(log *Log, sizes ...[2]int) *Window {
	return &Window{Sizes: sizes, Log: log}
}

func (w *Window) FramebufferSize() (int, int) {
	s := w.Sizes[w.at]
	w.Log.add("FramebufferSize %dx%d", s[0], s[1])
	return s[0], s[1]
}

func (w *Window) WaitEvents() {
	w.Log.add("WaitEvents")
	if w.at < len(w.Sizes)-1 {
		w.at++
	}
}

// Resize appends a new size and makes it current.
func (w *Window) Resize(width, height int) {
	w.Sizes = append(w.Sizes, [2]int{width, height})
	w.at = len(w.Sizes) - 1
}

// Driver is the mock driver.
type Driver struct {
	Log        *Log
	Layers     []string
	Extensions []string
	Devices    []*PhysicalDevice

	// Instance is the last created instance.
	Instance *Instance
}

// NewDriver returns a driver with one fully capable device, presenting
// the given window, and the common instance extensions and validation layer.
func NewDriver(win *Window) *Driver {
	log := win.Log
	d := &Driver{
		Log:        log,
		Layers:     []string{driver.LayerValidation},
		Extensions: []string{"VK_KHR_surface", driver.ExtDebugReport},
	}
	d.Devices = []*PhysicalDevice{NewPhysicalDevice(log, "mock gpu", win)}
	return d
}

func (d *Driver) AvailableLayers() ([]string, error) {
	return d.Layers, nil
}

func (d *Driver) AvailableInstanceExtensions() ([]string, error) {
	return d.Extensions, nil
}

func (d *Driver) CreateInstance(cfg driver.InstanceConfig) (driver.Instance, error) {
	d.Log.add("CreateInstance")
	d.Instance = &Instance{driver: d}
	return d.Instance, nil
}

// Instance is the mock instance.
type Instance struct {
	driver    *Driver
	Destroyed bool
}

func (in *Instance) CreateSurface(win driver.Window) (driver.Surface, error) {
	in.driver.Log.add("CreateSurface")
	return &object{log: in.driver.Log, kind: "Surface"}, nil
}

func (in *Instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	out := make([]driver.PhysicalDevice, len(in.driver.Devices))
	for i, d := range in.driver.Devices {
		out[i] = d
	}
	return out, nil
}

func (in *Instance) Destroy() {
	in.driver.Log.add("DestroyInstance")
	in.Destroyed = true
}

// object is a mock handle that logs its destruction.
type object struct {
	log  *Log
	kind string
	id   int
}

func (o *object) Destroy() {
	o.log.add("Destroy%s %d", o.kind, o.id)
}

// PhysicalDevice is the mock physical device. Its surface capabilities
// report an undefined current extent, so the swapchain takes the size
// of the window.
type PhysicalDevice struct {
	Log        *Log
	DeviceName string
	Families   []driver.QueueFamily
	Exts       []string
	Support    driver.SurfaceSupport

	// Device is the last created logical device.
	Device *Device
}

// NewPhysicalDevice returns a device with a single graphics and present
// queue family, all optional extensions, and the preferred surface format
// in second position.
func NewPhysicalDevice(log *Log, name string, win *Window) *PhysicalDevice {
	return &PhysicalDevice{
		Log:        log,
		DeviceName: name,
		Families:   []driver.QueueFamily{{Index: 0, Graphics: true, Present: true}},
		Exts: []string{driver.ExtSwapchain, driver.ExtMaintenance1, driver.ExtMaintenance3,
			driver.ExtDescriptorIndexing},
		Support: driver.SurfaceSupport{
			Capabilities: driver.SurfaceCapabilities{
				MinImageCount:           2,
				MaxImageCount:           3,
				CurrentExtent:           driver.Extent{Width: driver.UndefinedExtent, Height: driver.UndefinedExtent},
				MinExtent:               driver.Extent{Width: 1, Height: 1},
				MaxExtent:               driver.Extent{Width: 4096, Height: 4096},
				SupportedCompositeAlpha: driver.CompositeAlphaOpaque | driver.CompositeAlphaPreMultiplied,
			},
			Formats: []driver.SurfaceFormat{
				{Format: driver.FormatB8G8R8A8Unorm, ColorSpace: driver.ColorSpaceSRGBNonlinear},
				{Format: driver.FormatB8G8R8A8SRGB, ColorSpace: driver.ColorSpaceSRGBNonlinear},
			},
			PresentModes: []driver.PresentMode{driver.PresentModeFifo, driver.PresentModeMailbox},
		},
	}
}

func (pd *PhysicalDevice) Name() string {
	return pd.DeviceName
}

func (pd *PhysicalDevice) QueueFamilies(s driver.Surface) ([]driver.QueueFamily, error) {
	return pd.Families, nil
}

func (pd *PhysicalDevice) Extensions() ([]string, error) {
	return pd.Exts, nil
}

func (pd *PhysicalDevice) SurfaceSupport(s driver.Surface) (*driver.SurfaceSupport, error) {
	sup := pd.Support
	return &sup, nil
}

func (pd *PhysicalDevice) CreateDevice(cfg driver.DeviceConfig) (driver.Device, error) {
	pd.Log.add("CreateDevice %s", strings.Join(cfg.Extensions, ","))
	dev := &Device{Log: pd.Log, Config: cfg}
	dev.queue = &Queue{dev: dev}
	pd.Device = dev
	return dev, nil
}

// Device is the mock logical device.
type Device struct {
	Log    *Log
	Config driver.DeviceConfig

	// AcquireStatus, if set, returns the status of the n'th acquire (from 1).
	AcquireStatus func(n int) driver.Status

	// PresentStatus, if set, returns the status of the n'th present (from 1).
	PresentStatus func(n int) driver.Status

	// FailSemaphore makes semaphore creation fail.
	FailSemaphore bool

	// FailPipeline makes pipeline creation fail.
	FailPipeline bool

	// Swapchains are all swapchains created, in order.
	Swapchains []*Swapchain

	// Acquires and Presents count calls.
	Acquires int
	Presents int

	// MaxInFlight is the largest number of submissions seen pending at once.
	MaxInFlight int

	queue   *Queue
	nextID  int
	pending map[*CommandBuffer]*Fence
}

func (d *Device) id() int {
	d.nextID++
	return d.nextID
}

func (d *Device) newObject(kind string) *object {
	o := &object{log: d.Log, kind: kind, id: d.id()}
	d.Log.add("Create%s %d", kind, o.id)
	return o
}

func (d *Device) GraphicsQueue() driver.Queue { return d.queue }
func (d *Device) PresentQueue() driver.Queue  { return d.queue }

func (d *Device) WaitIdle() error {
	d.Log.add("WaitIdle")
	for cb, f := range d.pending {
		f.pending = false
		f.Signaled = true
		delete(d.pending, cb)
	}
	return nil
}

func (d *Device) CreateSwapchain(s driver.Surface, cfg driver.SwapchainConfig) (driver.Swapchain, error) {
	sc := &Swapchain{dev: d, Config: cfg, id: d.id(), Generation: len(d.Swapchains)}
	d.Swapchains = append(d.Swapchains, sc)
	d.Log.add("CreateSwapchain %d %dx%d", sc.id, cfg.Extent.Width, cfg.Extent.Height)
	return sc, nil
}

func (d *Device) CreateImageView(sc driver.Swapchain, image int, format driver.Format) (driver.ImageView, error) {
	return d.newObject("ImageView"), nil
}

func (d *Device) CreateRenderPass(format driver.Format) (driver.RenderPass, error) {
	return d.newObject("RenderPass"), nil
}

func (d *Device) CreateFramebuffer(rp driver.RenderPass, view driver.ImageView, extent driver.Extent) (driver.Framebuffer, error) {
	return d.newObject("Framebuffer"), nil
}

func (d *Device) CreateShaderModule(code []uint32) (driver.ShaderModule, error) {
	return d.newObject("ShaderModule"), nil
}

func (d *Device) CreatePipeline(cfg driver.PipelineConfig) (driver.Pipeline, error) {
	if d.FailPipeline {
		return nil, errors.New("gputest: pipeline creation failed")
	}
	return d.newObject("Pipeline"), nil
}

func (d *Device) CreateCommandPool(queueFamily int) (driver.CommandPool, error) {
	return &CommandPool{object: d.newObject("CommandPool"), dev: d}, nil
}

func (d *Device) CreateSemaphore() (driver.Semaphore, error) {
	if d.FailSemaphore {
		return nil, errors.New("gputest: out of semaphores")
	}
	return d.newObject("Semaphore"), nil
}

func (d *Device) CreateFence(signaled bool) (driver.Fence, error) {
	f := &Fence{dev: d, ID: d.id(), Signaled: signaled}
	d.Log.add("CreateFence %d", f.ID)
	return f, nil
}

func (d *Device) Destroy() {
	d.Log.add("DestroyDevice")
}

// Swapchain is the mock swapchain; it always has three images
// and hands them out in order.
type Swapchain struct {
	Config     driver.SwapchainConfig
	Generation int
	Destroyed  bool

	dev  *Device
	id   int
	next uint32
}

func (sc *Swapchain) ImageCount() int {
	return 3
}

func (sc *Swapchain) AcquireNextImage(signal driver.Semaphore) (uint32, driver.Status, error) {
	d := sc.dev
	d.Acquires++
	if sc.Destroyed {
		return 0, 0, errors.New("gputest: acquire on destroyed swapchain")
	}
	st := driver.StatusOK
	if d.AcquireStatus != nil {
		st = d.AcquireStatus(d.Acquires)
	}
	d.Log.add("Acquire %s", st)
	if st == driver.StatusOutOfDate {
		return 0, st, nil
	}
	img := sc.next
	sc.next = (sc.next + 1) % uint32(sc.ImageCount())
	return img, st, nil
}

func (sc *Swapchain) Destroy() {
	sc.Destroyed = true
	sc.dev.Log.add("DestroySwapchain %d", sc.id)
}

// Fence is the mock fence.
type Fence struct {
	ID       int
	Signaled bool

	dev     *Device
	pending bool
}

func (f *Fence) Wait(timeout uint64) error {
	f.dev.Log.add("WaitFence %d", f.ID)
	if f.pending {
		// the mock GPU finishes work as soon as it is waited for
		f.pending = false
		f.Signaled = true
		for cb, fence := range f.dev.pending {
			if fence == f {
				delete(f.dev.pending, cb)
			}
		}
	}
	if !f.Signaled {
		return ErrDeadlock
	}
	return nil
}

func (f *Fence) Reset() error {
	f.dev.Log.add("ResetFence %d", f.ID)
	f.Signaled = false
	return nil
}

func (f *Fence) Destroy() {
	f.dev.Log.add("DestroyFence %d", f.ID)
}

// CommandPool is the mock command pool.
type CommandPool struct {
	*object
	dev *Device
}

func (p *CommandPool) Allocate(n int) ([]driver.CommandBuffer, error) {
	out := make([]driver.CommandBuffer, n)
	for i := range out {
		out[i] = &CommandBuffer{dev: p.dev, ID: p.dev.id()}
	}
	return out, nil
}

// CommandBuffer is the mock command buffer. It records draw commands
// in [CommandBuffer.Commands] until it is reset.
type CommandBuffer struct {
	ID        int
	Recording bool
	Commands  []string

	dev *Device
}

func (cb *CommandBuffer) Reset() error {
	cb.dev.Log.add("ResetCmd %d", cb.ID)
	if _, ok := cb.dev.pending[cb]; ok {
		return ErrResetInFlight
	}
	cb.Commands = nil
	return nil
}

func (cb *CommandBuffer) Begin() error {
	cb.Recording = true
	return nil
}

func (cb *CommandBuffer) cmd(format string, args ...any) {
	cb.Commands = append(cb.Commands, fmt.Sprintf(format, args...))
}

func (cb *CommandBuffer) BeginRenderPass(rp driver.RenderPass, fb driver.Framebuffer, extent driver.Extent, clear [4]float32) {
	cb.cmd("BeginRenderPass %dx%d %v", extent.Width, extent.Height, clear)
}

func (cb *CommandBuffer) SetViewport(x, y, width, height float32) {
	cb.cmd("SetViewport %g %g %g %g", x, y, width, height)
}

func (cb *CommandBuffer) SetScissor(x, y int32, width, height uint32) {
	cb.cmd("SetScissor %d %d %d %d", x, y, width, height)
}

func (cb *CommandBuffer) BindPipeline(p driver.Pipeline) {
	cb.cmd("BindPipeline")
}

func (cb *CommandBuffer) PushConstants(p driver.Pipeline, offset uint32, data []byte) {
	cb.cmd("PushConstants %d %d", offset, len(data))
}

func (cb *CommandBuffer) Draw(vertexCount, instanceCount uint32) {
	cb.cmd("Draw %d %d", vertexCount, instanceCount)
}

func (cb *CommandBuffer) EndRenderPass() {
	cb.cmd("EndRenderPass")
}

func (cb *CommandBuffer) End() error {
	cb.Recording = false
	return nil
}

// Queue is the mock queue, shared for graphics and presentation.
type Queue struct {
	dev *Device
}

func (q *Queue) Submit(info driver.SubmitInfo) error {
	d := q.dev
	cb := info.Cmd.(*CommandBuffer)
	if cb.Recording {
		return errors.New("gputest: submit of a command buffer that is still recording")
	}
	d.Log.add("Submit %d", cb.ID)
	if d.pending == nil {
		d.pending = map[*CommandBuffer]*Fence{}
	}
	f := info.Fence.(*Fence)
	f.pending = true
	d.pending[cb] = f
	d.MaxInFlight = max(d.MaxInFlight, len(d.pending))
	return nil
}

func (q *Queue) Present(sc driver.Swapchain, image uint32, wait driver.Semaphore) (driver.Status, error) {
	d := q.dev
	d.Presents++
	msc := sc.(*Swapchain)
	if msc.Destroyed {
		return 0, errors.New("gputest: present on destroyed swapchain")
	}
	st := driver.StatusOK
	if d.PresentStatus != nil {
		st = d.PresentStatus(d.Presents)
	}
	d.Log.add("Present %d %s", msc.Generation, st)
	return st, nil
}
