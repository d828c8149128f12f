package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/formula"
)

// cell is one entry of a batch file.
type cell struct {
	Sheet   string `yaml:"sheet,omitempty"`
	Row     int    `yaml:"row,omitempty"`
	Col     int    `yaml:"col,omitempty"`
	Formula string `yaml:"formula"`
}

func (c cell) position() formula.CellPosition {
	return formula.CellPosition{Sheet: c.Sheet, Row: c.Row, Col: c.Col}
}

func (c cell) String() string {
	return fmt.Sprintf("%s!R%dC%d", c.Sheet, c.Row, c.Col)
}

// loadBatch reads a YAML list of cells. Fields missing from an entry are
// taken from def.
func loadBatch(r io.Reader, def formula.CellPosition) ([]cell, error) {
	var cells []cell
	if err := yaml.NewDecoder(r).Decode(&cells); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}
	for i := range cells {
		c := &cells[i]
		if c.Sheet == "" {
			c.Sheet = def.Sheet
		}
		if c.Row == 0 {
			c.Row = def.Row
		}
		if c.Col == 0 {
			c.Col = def.Col
		}
	}
	return cells, nil
}
