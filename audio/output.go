// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// SampleRate is the sample rate of the speaker output.
const SampleRate beep.SampleRate = 44100

// Output is where an [Engine] sends its streams.
type Output interface {

	// SampleRate is the rate streams must be resampled to.
	SampleRate() beep.SampleRate

	// Play starts playing the given streamer.
	Play(s beep.Streamer)

	// Lock and Unlock guard changes to streamers that are playing.
	Lock()
	Unlock()

	// Clear stops everything that is playing.
	Clear()
}

// Speaker is the [Output] that plays through the system speaker.
type Speaker struct {
	rate beep.SampleRate
}

// NewSpeaker initializes the system speaker at the given sample rate.
func NewSpeaker(rate beep.SampleRate) (*Speaker, error) {
	err := speaker.Init(rate, rate.N(time.Second/10))
	if err != nil {
		return nil, err
	}
	return &Speaker{rate: rate}, nil
}

func (s *Speaker) SampleRate() beep.SampleRate { return s.rate }
func (s *Speaker) Play(st beep.Streamer)       { speaker.Play(st) }
func (s *Speaker) Lock()                       { speaker.Lock() }
func (s *Speaker) Unlock()                     { speaker.Unlock() }
func (s *Speaker) Clear()                      { speaker.Clear() }

// Discard is an [Output] with no device. It is used when no speaker
// can be opened; an [Engine] writing to it finishes every voice at once.
type Discard struct{}

func (Discard) SampleRate() beep.SampleRate { return SampleRate }
func (Discard) Play(beep.Streamer)          {}
func (Discard) Lock()                       {}
func (Discard) Unlock()                     {}
func (Discard) Clear()                      {}
