// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrNoCalls = errors.New("variant row has no genotype calls")

// FeatureColumns are appended to the header by AddFeatures: per-code
// counts, count product, and minor allele ratio.
var FeatureColumns = []string{"111", "222", "333", "123", "mnr"}

func (t *Table) codeCounts(row []string, sampleIndex int) (homref, het, homalt int) {
	for _, cell := range row[sampleIndex:] {
		switch cell {
		case "1":
			homref++
		case "2":
			het++
		case "3":
			homalt++
		}
	}
	return
}

// DropUncalled removes rows where no sample has a 1, 2, or 3 call,
// and returns the number of rows removed.
func (t *Table) DropUncalled() int {
	sampleIndex, err := t.SampleIndex()
	if err != nil {
		return 0
	}
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if a, b, c := t.codeCounts(row, sampleIndex); a+b+c > 0 {
			kept = append(kept, row)
		}
	}
	dropped := len(t.Rows) - len(kept)
	t.Rows = kept
	return dropped
}

// AddFeatures appends the FeatureColumns to every row. The product
// is (a+1)(b+1)(c+1) and the ratio is (c+b/2)/(a+b+c), where a, b, c
// are the counts of codes 1, 2, 3.
func (t *Table) AddFeatures() error {
	sampleIndex, err := t.SampleIndex()
	if err != nil {
		return err
	}
	for i, row := range t.Rows {
		a, b, c := t.codeCounts(row, sampleIndex)
		if a+b+c == 0 {
			return fmt.Errorf("row %d: %w", i+1, ErrNoCalls)
		}
		ratio := (float64(c) + float64(b)/2) / float64(a+b+c)
		t.Rows[i] = append(row,
			strconv.Itoa(a),
			strconv.Itoa(b),
			strconv.Itoa(c),
			strconv.Itoa((a+1)*(b+1)*(c+1)),
			strconv.FormatFloat(ratio, 'f', 2, 64))
	}
	t.Header = append(t.Header, FeatureColumns...)
	return nil
}

// StripFeatures removes the last n columns, e.g., the FeatureColumns
// added by AddFeatures.
func (t *Table) StripFeatures(n int) {
	if n <= 0 {
		return
	}
	if n > len(t.Header) {
		n = len(t.Header)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = len(t.Header) - 1 - i
	}
	t.RemoveColumns(idx)
}
