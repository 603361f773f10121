// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the workflow state of a [Card]. Its integer values are
// the ones stored in the database.
type Status int32

const (
	Todo Status = iota
	InProgress
	Done

	numStatuses
)

// Statuses are all card statuses, in column order.
var Statuses = []Status{Todo, InProgress, Done}

func (s Status) String() string {
	switch s {
	case Todo:
		return "Todo"
	case InProgress:
		return "InProgress"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Title returns the column heading for the status.
func (s Status) Title() string {
	switch s {
	case Todo:
		return "To Do"
	case InProgress:
		return "In Progress"
	case Done:
		return "Done"
	}
	return s.String()
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s >= 0 && s < numStatuses
}

// StatusFromInt converts a stored value, mapping unknown values to [Todo].
func StatusFromInt(i int) Status {
	s := Status(i)
	if !s.IsValid() {
		return Todo
	}
	return s
}

// ParseStatus parses a status name, ignoring case, spaces, dashes
// and underscores, so that "in-progress" and "InProgress" are the same.
func ParseStatus(name string) (Status, error) {
	n := normalize(name)
	for _, s := range Statuses {
		if normalize(s.String()) == n {
			return s, nil
		}
	}
	if n == "doing" {
		return InProgress, nil
	}
	return Todo, fmt.Errorf("board: unknown status %q", name)
}

func normalize(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
}

func (s Status) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *Status) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseStatus(n.Value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ProjectStatus is the state of a [Project].
type ProjectStatus int32

const (
	Inactive ProjectStatus = iota
	Active
	Archived

	numProjectStatuses
)

func (s ProjectStatus) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Active:
		return "Active"
	case Archived:
		return "Archived"
	}
	return fmt.Sprintf("ProjectStatus(%d)", int32(s))
}

// ProjectStatusFromInt converts a stored value, mapping unknown values to [Inactive].
func ProjectStatusFromInt(i int) ProjectStatus {
	s := ProjectStatus(i)
	if s < 0 || s >= numProjectStatuses {
		return Inactive
	}
	return s
}

// ParseProjectStatus parses a project status name, ignoring case.
func ParseProjectStatus(name string) (ProjectStatus, error) {
	n := normalize(name)
	for s := Inactive; s < numProjectStatuses; s++ {
		if normalize(s.String()) == n {
			return s, nil
		}
	}
	return Inactive, fmt.Errorf("board: unknown project status %q", name)
}

func (s ProjectStatus) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *ProjectStatus) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseProjectStatus(n.Value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
