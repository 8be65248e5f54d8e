// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrNoPositionColumn = errors.New("header has no POS column")

const DefaultLinkageLimit = 350

// CollapseLinkage replaces each run of consecutive rows whose POS is
// less than limit away from the run's first row with a single row
// holding the majority call for each sample.
func (t *Table) CollapseLinkage(limit int, nocall []string) error {
	posIndex := t.Index("POS")
	if posIndex < 0 {
		return ErrNoPositionColumn
	}
	sampleIndex, err := t.SampleIndex()
	if err != nil {
		return err
	}
	parser := newGenotypeParser(nocall)

	var flat [][]string
	var group [][]string
	groupPos := 0
	for i, row := range t.Rows {
		pos, err := strconv.Atoi(row[posIndex])
		if err != nil {
			return fmt.Errorf("row %d: invalid POS: %w", i+1, err)
		}
		if len(group) > 0 && abs(pos-groupPos) < limit {
			group = append(group, row)
			continue
		}
		if len(group) > 0 {
			row, err := flattenLinkage(group, sampleIndex, parser)
			if err != nil {
				return fmt.Errorf("linkage group at POS %d: %w", groupPos, err)
			}
			flat = append(flat, row)
		}
		group = [][]string{row}
		groupPos = pos
	}
	if len(group) > 0 {
		row, err := flattenLinkage(group, sampleIndex, parser)
		if err != nil {
			return fmt.Errorf("linkage group at POS %d: %w", groupPos, err)
		}
		flat = append(flat, row)
	}
	t.Rows = flat
	return nil
}

func flattenLinkage(group [][]string, sampleIndex int, parser genotypeParser) ([]string, error) {
	flat := make([]string, 0, len(group[0]))
	flat = append(flat, group[0][:sampleIndex]...)
	for col := sampleIndex; col < len(group[0]); col++ {
		var count [4]int
		for _, row := range group {
			g, err := parser.Parse(row[col])
			if err != nil {
				return nil, err
			}
			count[g]++
		}
		flat = append(flat, majority(count[HomRef], count[Het], count[HomAlt]).String())
	}
	return flat, nil
}

// majority returns the code whose count is more than half of all
// non-missing calls, or Missing if there is none.
func majority(homref, het, homalt int) Genotype {
	total := homref + het + homalt
	for g, n := range [...]int{HomRef: homref, Het: het, HomAlt: homalt} {
		if n*2 > total {
			return Genotype(g)
		}
	}
	return Missing
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
