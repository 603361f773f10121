// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pomodoro provides a pomodoro timer driven by the frame loop.
package pomodoro

import (
	"fmt"
	"time"
)

// Type is the kind of period being timed.
type Type int32

const (
	Work Type = iota
	ShortBreak
	LongBreak
)

func (t Type) String() string {
	switch t {
	case Work:
		return "Work"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

// State is the run state of a [Timer].
type State int32

const (
	Stopped State = iota
	Running
	Paused
	Complete
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Complete:
		return "Complete"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Durations are the lengths of the period types.
type Durations struct {
	Work       time.Duration `default:"25m" desc:"length of a work period"`
	ShortBreak time.Duration `default:"5m" desc:"length of a short break"`
	LongBreak  time.Duration `default:"15m" desc:"length of a long break"`
}

// DefaultDurations are the classic 25 / 5 / 15 minute periods.
var DefaultDurations = Durations{Work: 25 * time.Minute, ShortBreak: 5 * time.Minute, LongBreak: 15 * time.Minute}

// Of returns the duration of the given type.
func (d Durations) Of(t Type) time.Duration {
	switch t {
	case ShortBreak:
		return d.ShortBreak
	case LongBreak:
		return d.LongBreak
	}
	return d.Work
}

// Timer is a pomodoro timer. It counts down in whole seconds, and only
// advances when [Timer.Update] is called, normally once per frame.
type Timer struct {
	Durations Durations

	Type  Type
	State State

	// Completed is the number of work periods completed.
	Completed int

	// Finished is set when a period runs out, and cleared by Start and Stop.
	Finished bool

	// OnFinish is called when a period runs out.
	OnFinish func(t Type)

	// OnStop is called when the timer is stopped.
	OnStop func()

	// Now returns the current time; it defaults to [time.Now].
	Now func() time.Time

	remaining time.Duration
	last      time.Time
}

// New returns a stopped work timer with the given durations.
func New(d Durations) *Timer {
	return &Timer{Durations: d, Now: time.Now, remaining: d.Work}
}

func (t *Timer) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// Remaining returns the time left in the current period.
func (t *Timer) Remaining() time.Duration {
	return t.remaining
}

// RemainingString returns the time left as MM:SS.
func (t *Timer) RemainingString() string {
	s := int(t.remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// Start starts a stopped or completed timer from the full duration,
// or continues a paused one.
func (t *Timer) Start() {
	if t.State == Stopped || t.State == Complete {
		t.remaining = t.Durations.Of(t.Type)
		t.Finished = false
	}
	t.State = Running
	t.last = t.now()
}

// Pause toggles between running and paused.
func (t *Timer) Pause() {
	switch t.State {
	case Running:
		t.State = Paused
	case Paused:
		t.State = Running
		t.last = t.now()
	}
}

// Toggle starts a stopped or completed timer, and pauses or resumes otherwise.
func (t *Timer) Toggle() {
	switch t.State {
	case Stopped, Complete:
		t.Start()
	default:
		t.Pause()
	}
}

// Stop stops the timer and resets it to the full duration.
func (t *Timer) Stop() {
	t.State = Stopped
	t.remaining = t.Durations.Of(t.Type)
	t.Finished = false
	if t.OnStop != nil {
		t.OnStop()
	}
}

// SetType changes the period type. It only has an effect while the
// timer is stopped, and reports whether it did.
func (t *Timer) SetType(typ Type) bool {
	if t.State != Stopped {
		return false
	}
	t.Type = typ
	t.remaining = t.Durations.Of(typ)
	return true
}

// SetDurations changes the durations; a stopped timer is reset to the
// new duration of its type, and a running one keeps its remaining time.
func (t *Timer) SetDurations(d Durations) {
	t.Durations = d
	if t.State == Stopped {
		t.remaining = d.Of(t.Type)
	}
}

// ResetStats clears the completed count.
func (t *Timer) ResetStats() {
	t.Completed = 0
}

// Update advances a running timer to the given time, in whole seconds.
// When the period runs out the timer completes, a completed work
// period is counted, and OnFinish is called.
func (t *Timer) Update(now time.Time) {
	if t.State != Running {
		return
	}
	elapsed := now.Sub(t.last).Truncate(time.Second)
	if elapsed < time.Second {
		return
	}
	t.last = t.last.Add(elapsed)
	t.remaining -= elapsed
	if t.remaining > 0 {
		return
	}
	t.remaining = 0
	t.State = Complete
	t.Finished = true
	if t.Type == Work {
		t.Completed++
	}
	if t.OnFinish != nil {
		t.OnFinish(t.Type)
	}
}

// Message returns the status line shown when a period has finished, or "".
func (t *Timer) Message() string {
	if !t.Finished {
		return ""
	}
	if t.Type == Work {
		return "Great job! Time for a break."
	}
	return "Break's over! Ready to work?"
}
