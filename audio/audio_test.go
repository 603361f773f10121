// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package audio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOutput mixes into memory instead of a speaker.
type fakeOutput struct {
	sync.Mutex
	mixer beep.Mixer
	plays int
}

func (f *fakeOutput) SampleRate() beep.SampleRate { return SampleRate }

func (f *fakeOutput) Play(s beep.Streamer) {
	f.Lock()
	f.mixer.Add(s)
	f.plays++
	f.Unlock()
}

func (f *fakeOutput) Clear() {
	f.Lock()
	f.mixer.Clear()
	f.Unlock()
}

// pump streams n samples and returns the left channel.
func (f *fakeOutput) pump(n int) []float64 {
	f.Lock()
	defer f.Unlock()
	buf := make([][2]float64, n)
	f.mixer.Stream(buf)
	left := make([]float64, n)
	for i := range buf {
		left[i] = buf[i][0]
	}
	return left
}

var format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// ones streams n samples of full scale.
func ones(n int) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if n <= 0 {
			return 0, false
		}
		c := min(n, len(samples))
		for i := range samples[:c] {
			samples[i] = [2]float64{1, 1}
		}
		n -= c
		return c, true
	})
}

func newTestEngine() (*Engine, *fakeOutput) {
	out := &fakeOutput{}
	return NewEngine(fstest.MapFS{}, out), out
}

func TestPlaySound(t *testing.T) {
	e, out := newTestEngine()
	e.Add("tick", ones(100), format)
	assert.Equal(t, 1, e.Loaded())

	require.NoError(t, e.PlaySound("tick", 0.5, false))
	assert.Equal(t, 1, e.Playing())
	assert.True(t, e.IsPlaying("tick"))

	s := out.pump(200)
	assert.InDelta(t, 0.5, s[0], 1e-9)
	assert.InDelta(t, 0.5, s[99], 1e-9)
	assert.Zero(t, s[100])

	e.Update()
	assert.Zero(t, e.Playing(), "finished voices are reaped")
	assert.False(t, e.IsPlaying("tick"))

	assert.Error(t, e.PlaySound("missing", 1, false))
}

func TestDiscardFinishesVoices(t *testing.T) {
	e := NewEngine(fstest.MapFS{}, Discard{})
	e.Add("tick", ones(100), format)
	for range 3 {
		require.NoError(t, e.PlaySound("tick", 1, false))
	}
	require.NoError(t, e.PlaySound("tick", 1, true))
	require.NoError(t, e.PlayMusic("tick", true))
	assert.False(t, e.IsPlaying("tick"))
	assert.False(t, e.IsMusicPlaying())
	e.Update()
	assert.Zero(t, e.Playing(), "voices on a discarded output do not pile up")
}

func TestVolumeAndMute(t *testing.T) {
	e, out := newTestEngine()
	e.Add("tone", ones(1000), format)
	require.NoError(t, e.PlaySound("tone", 1, false))

	e.SetMasterVolume(0.25)
	assert.InDelta(t, 0.25, out.pump(10)[0], 1e-9)

	e.SetMuted(true)
	assert.True(t, e.IsMuted())
	assert.Zero(t, out.pump(10)[0])

	e.SetMuted(false)
	e.SetMasterVolume(2)
	assert.Equal(t, 1.0, e.MasterVolume())
	assert.InDelta(t, 1, out.pump(10)[0], 1e-9)
}

func TestLoopPauseStop(t *testing.T) {
	e, out := newTestEngine()
	e.Add("ring", ones(10), format)
	require.NoError(t, e.PlaySound("ring", 1, true))
	out.pump(100)
	e.Update()
	assert.Equal(t, 1, e.Playing(), "looping voices keep playing")

	e.PauseAll()
	assert.Zero(t, out.pump(10)[0])
	e.ResumeAll()
	assert.InDelta(t, 1, out.pump(10)[0], 1e-9)

	e.StopAll()
	assert.Zero(t, e.Playing())
	assert.Zero(t, out.pump(10)[0])
}

func TestMusic(t *testing.T) {
	e, out := newTestEngine()
	e.Add("theme", ones(10), format)
	assert.False(t, e.IsMusicPlaying())
	require.NoError(t, e.PlayMusic("theme", true))
	assert.True(t, e.IsMusicPlaying())
	out.pump(50)
	assert.True(t, e.IsMusicPlaying())

	require.NoError(t, e.PlayMusic("theme", false))
	assert.Equal(t, 2, out.plays)
	e.StopMusic()
	assert.False(t, e.IsMusicPlaying())
	assert.Zero(t, out.pump(10)[0])
}

func TestUnload(t *testing.T) {
	e, out := newTestEngine()
	e.Add("a", ones(1000), format)
	e.Add("b", ones(1000), format)
	require.NoError(t, e.PlaySound("a", 1, false))
	require.NoError(t, e.PlaySound("b", 1, false))
	e.Unload("a")
	assert.Equal(t, 1, e.Loaded())
	assert.Equal(t, 1, e.Playing())
	assert.False(t, e.IsPlaying("a"))
	assert.InDelta(t, 1, out.pump(10)[0], 1e-9)
}

func writeWAV(t *testing.T, dir, name string, f beep.Format, n int) {
	t.Helper()
	fl, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer fl.Close()
	require.NoError(t, wav.Encode(fl, beep.Silence(n), f))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sounds"), 0o755))
	writeWAV(t, dir, "sounds/ring.wav", format, 441)
	half := beep.Format{SampleRate: SampleRate / 2, NumChannels: 1, Precision: 2}
	writeWAV(t, dir, "sounds/half.wav", half, 441)

	e := NewEngine(os.DirFS(dir), &fakeOutput{})
	require.NoError(t, e.Load("ring", "sounds/ring.wav"))
	assert.Equal(t, 441, e.sounds["ring"].Len())
	require.NoError(t, e.Load("ring", "sounds/ring.wav"), "loading twice is a no-op")

	require.NoError(t, e.Load("half", "sounds/half.wav"))
	assert.InDelta(t, 882, e.sounds["half"].Len(), 20, "resampled to the output rate")

	assert.Error(t, e.Load("missing", "sounds/missing.wav"))

	n := e.Preload(map[string]string{"x": "sounds/ring.wav", "y": "nope.wav"})
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, e.Loaded())

	require.NoError(t, e.Close())
	assert.Zero(t, e.Loaded())
}
