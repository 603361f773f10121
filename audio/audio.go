// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package audio plays the app's sound effects and music.
package audio

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"path"
	"sort"
	"sync/atomic"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/wav"
)

// resampleQuality is the quality passed to [beep.Resample].
const resampleQuality = 4

// voice is one playing instance of a sound.
type voice struct {
	name   string
	level  float64
	ctrl   *beep.Ctrl
	volume *effects.Volume
	done   atomic.Bool
}

// Engine holds decoded sounds and the voices playing them. All
// methods must be called from one goroutine, normally the main loop;
// playback itself happens on the output's goroutine.
type Engine struct {

	// FS is the file system sounds are loaded from.
	FS fs.FS

	out    Output
	sounds map[string]*beep.Buffer
	voices []*voice
	music  *voice
	master float64
	muted  bool
}

// NewEngine returns an engine that loads from fsys and plays to out.
func NewEngine(fsys fs.FS, out Output) *Engine {
	return &Engine{FS: fsys, out: out, sounds: map[string]*beep.Buffer{}, master: 1}
}

// Load decodes the WAV file at the given path and stores it under name.
// Loading a name that is already loaded does nothing.
func (e *Engine) Load(name, file string) error {
	if _, ok := e.sounds[name]; ok {
		slog.Info("sound already loaded", "name", name)
		return nil
	}
	f, err := e.FS.Open(path.Clean(file))
	if err != nil {
		return fmt.Errorf("audio: loading %q: %w", name, err)
	}
	st, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("audio: decoding %q: %w", file, err)
	}
	defer st.Close()
	e.Add(name, st, format)
	return nil
}

// Add stores the samples of s under name, resampled to the output rate.
func (e *Engine) Add(name string, s beep.Streamer, format beep.Format) {
	rate := e.out.SampleRate()
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, s)
		format.SampleRate = rate
	}
	buf := beep.NewBuffer(format)
	buf.Append(s)
	e.sounds[name] = buf
}

// Preload loads each name to file pair, returning the number loaded.
// Failures are logged and skipped.
func (e *Engine) Preload(files map[string]string) int {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	n := 0
	for _, name := range names {
		if err := e.Load(name, files[name]); err != nil {
			slog.Error("preloading sound", "name", name, "err", err)
			continue
		}
		n++
	}
	return n
}

// Unload stops every voice playing the named sound and forgets it.
func (e *Engine) Unload(name string) {
	if _, ok := e.sounds[name]; !ok {
		return
	}
	e.out.Lock()
	for _, v := range e.voices {
		if v.name == name {
			v.ctrl.Streamer = nil
			v.done.Store(true)
		}
	}
	if e.music != nil && e.music.name == name {
		e.music.ctrl.Streamer = nil
		e.music.done.Store(true)
	}
	e.out.Unlock()
	delete(e.sounds, name)
	e.Update()
}

// start begins a voice for the named sound at the given level.
func (e *Engine) start(name string, level float64, loop bool) (*voice, error) {
	buf, ok := e.sounds[name]
	if !ok {
		return nil, fmt.Errorf("audio: sound %q is not loaded", name)
	}
	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	v := &voice{name: name, level: clamp01(level)}
	v.ctrl = &beep.Ctrl{Streamer: s}
	v.volume = &effects.Volume{Streamer: v.ctrl, Base: 2}
	e.setGain(v)
	if _, ok := e.out.(Discard); ok {
		// nothing will ever stream the voice
		v.done.Store(true)
		return v, nil
	}
	e.out.Play(beep.Seq(v.volume, beep.Callback(func() { v.done.Store(true) })))
	return v, nil
}

// PlaySound plays the named sound at the given volume, from 0 to 1,
// scaled by the master volume.
func (e *Engine) PlaySound(name string, volume float64, loop bool) error {
	e.Update()
	v, err := e.start(name, volume, loop)
	if err != nil {
		return err
	}
	e.voices = append(e.voices, v)
	return nil
}

// PlayMusic replaces the current music with the named sound.
func (e *Engine) PlayMusic(name string, loop bool) error {
	e.StopMusic()
	v, err := e.start(name, 1, loop)
	if err != nil {
		return err
	}
	e.music = v
	return nil
}

// StopMusic stops the current music, if any.
func (e *Engine) StopMusic() {
	if e.music == nil {
		return
	}
	e.stop(e.music)
	e.music = nil
}

func (e *Engine) stop(v *voice) {
	e.out.Lock()
	v.ctrl.Streamer = nil
	e.out.Unlock()
	v.done.Store(true)
}

// setGain maps the linear level onto the logarithmic volume effect.
// It must be called with the output locked or before the voice plays.
func (e *Engine) setGain(v *voice) {
	g := v.level * e.master
	if e.muted || g <= 0 {
		v.volume.Silent = true
		v.volume.Volume = 0
		return
	}
	v.volume.Silent = false
	v.volume.Volume = math.Log2(g)
}

func (e *Engine) each(f func(v *voice)) {
	e.out.Lock()
	defer e.out.Unlock()
	for _, v := range e.voices {
		f(v)
	}
	if e.music != nil {
		f(e.music)
	}
}

// SetMasterVolume sets the master volume, clamped to [0, 1].
func (e *Engine) SetMasterVolume(volume float64) {
	e.master = clamp01(volume)
	e.each(e.setGain)
}

// MasterVolume returns the master volume.
func (e *Engine) MasterVolume() float64 {
	return e.master
}

// SetMuted silences or restores all sound.
func (e *Engine) SetMuted(muted bool) {
	e.muted = muted
	e.each(e.setGain)
}

// IsMuted returns whether all sound is muted.
func (e *Engine) IsMuted() bool {
	return e.muted
}

// PauseAll pauses every voice.
func (e *Engine) PauseAll() {
	e.each(func(v *voice) { v.ctrl.Paused = true })
	slog.Debug("all audio paused")
}

// ResumeAll resumes every paused voice.
func (e *Engine) ResumeAll() {
	e.each(func(v *voice) { v.ctrl.Paused = false })
	slog.Debug("all audio resumed")
}

// StopAll stops every voice and the music.
func (e *Engine) StopAll() {
	e.each(func(v *voice) {
		v.ctrl.Streamer = nil
		v.done.Store(true)
	})
	e.voices = nil
	e.music = nil
}

// Update forgets voices that have finished playing.
func (e *Engine) Update() {
	live := e.voices[:0]
	for _, v := range e.voices {
		if !v.done.Load() {
			live = append(live, v)
		}
	}
	clear(e.voices[len(live):])
	e.voices = live
	if e.music != nil && e.music.done.Load() {
		e.music = nil
	}
}

// IsPlaying returns whether any voice of the named sound is playing.
func (e *Engine) IsPlaying(name string) bool {
	for _, v := range e.voices {
		if v.name == name && !v.done.Load() {
			return true
		}
	}
	return false
}

// IsMusicPlaying returns whether music is playing and not paused.
func (e *Engine) IsMusicPlaying() bool {
	if e.music == nil || e.music.done.Load() {
		return false
	}
	e.out.Lock()
	defer e.out.Unlock()
	return !e.music.ctrl.Paused
}

// Playing returns the number of sound effect voices not yet reaped.
func (e *Engine) Playing() int {
	return len(e.voices)
}

// Loaded returns the number of loaded sounds.
func (e *Engine) Loaded() int {
	return len(e.sounds)
}

// Close stops everything and forgets all sounds.
func (e *Engine) Close() error {
	e.StopAll()
	e.out.Clear()
	clear(e.sounds)
	return nil
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
