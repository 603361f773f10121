// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"encoding/binary"
	"strings"
	"testing"
	"testing/fstest"

	"cogentcore.org/kanban/gpu/driver"
	"cogentcore.org/kanban/gpu/gputest"
	"github.com/stretchr/testify/require"
)

const (
	testVertex   = "shaders/quad.vert.spv"
	testFragment = "shaders/quad.frag.spv"
)

// spirv returns a minimal well-formed SPIR-V header.
func spirv() []byte {
	b := make([]byte, 20)
	binary.LittleEndian.PutUint32(b, SPIRVMagic)
	return b
}

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		testVertex:   {Data: spirv()},
		testFragment: {Data: spirv()},
	}
}

func testConfig() *Config {
	return &Config{
		App:              AppConfig{Name: "test", InstanceExtensions: []string{"VK_KHR_surface"}},
		FramesInFlight:   2,
		PreferMailbox:    true,
		Assets:           testAssets(),
		VertexShader:     testVertex,
		FragmentShader:   testFragment,
		PushConstantSize: 48,
	}
}

func newTestRenderer(t *testing.T) (*Renderer, *gputest.Driver, *gputest.Window) {
	t.Helper()
	log := &gputest.Log{}
	win := gputest.NewWindow(log, [2]int{800, 600})
	drv := gputest.NewDriver(win)
	r, err := NewRenderer(drv, win, testConfig())
	require.NoError(t, err)
	return r, drv, win
}

func mockDevice(drv *gputest.Driver) *gputest.Device {
	return drv.Devices[0].Device
}

// indexOf returns the index of the n'th (from 1) call with the given prefix, or -1.
func indexOf(calls []string, prefix string, n int) int {
	for i, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n--
			if n == 0 {
				return i
			}
		}
	}
	return -1
}

func lastIndexOf(calls []string, prefix string) int {
	for i := len(calls) - 1; i >= 0; i-- {
		if strings.HasPrefix(calls[i], prefix) {
			return i
		}
	}
	return -1
}

type testOverlay struct {
	quads int
}

func (ov *testOverlay) Record(cmd driver.CommandBuffer, pl *Pipeline, extent driver.Extent) error {
	for range ov.quads {
		cmd.PushConstants(pl.Handle, 0, make([]byte, pl.PushConstantSize))
		cmd.Draw(6, 1)
	}
	return nil
}
