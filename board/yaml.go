// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Export is the YAML document written by [Board.ExportYAML].
type Export struct {
	Projects []*Project `yaml:"projects,omitempty"`
	Cards    []*Card    `yaml:"cards"`
}

// ExportYAML writes all projects and cards as YAML, with the cards
// in column order.
func (b *Board) ExportYAML(w io.Writer) error {
	ex := Export{Projects: b.Projects}
	for _, s := range Statuses {
		ex.Cards = append(ex.Cards, b.Column(s)...)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&ex); err != nil {
		return fmt.Errorf("board: export: %w", err)
	}
	return enc.Close()
}

// ReadYAML reads a document written by [Board.ExportYAML].
func ReadYAML(r io.Reader) (*Export, error) {
	ex := &Export{}
	if err := yaml.NewDecoder(r).Decode(ex); err != nil {
		return nil, fmt.Errorf("board: read export: %w", err)
	}
	return ex, nil
}
