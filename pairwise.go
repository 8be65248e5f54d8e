// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

type PairwiseOptions struct {
	// Pairs with fewer than MinShared rows where both samples
	// are called have no value.
	MinShared int
	// Cell values treated as missing (in addition to ""). Nil
	// means DefaultNoCallTokens.
	NoCallTokens []string
	// Number of source samples to process concurrently. Zero
	// means runtime.NumCPU().
	Threads int
	// If not nil, called after each source sample is done. Must
	// be safe to call from multiple goroutines.
	Progress func()
}

// Pairwise computes m for every ordered pair of distinct sample
// columns in t. The returned matrix is indexed in sample column
// order; the diagonal has no value.
func Pairwise(t *Table, m Metric, opts PairwiseOptions) (*Matrix, error) {
	names, err := t.Samples()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("table has no sample columns")
	}
	nocall := opts.NoCallTokens
	if nocall == nil {
		nocall = DefaultNoCallTokens
	}
	calls, err := genotypeColumns(t, newGenotypeParser(nocall))
	if err != nil {
		return nil, err
	}

	nsamples := len(names)
	values := mat.NewDense(nsamples, nsamples, nil)
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	throttle := throttle{Max: threads}
	for src := 0; src < nsamples; src++ {
		src := src
		throttle.Go(func() error {
			for dst := 0; dst < nsamples; dst++ {
				if src == dst {
					values.Set(src, dst, math.NaN())
					continue
				}
				values.Set(src, dst, pairValue(m, calls[src], calls[dst], opts.MinShared))
			}
			if opts.Progress != nil {
				opts.Progress()
			}
			return nil
		})
	}
	throttle.Wait()
	return &Matrix{Names: append([]string(nil), names...), Values: values, Precision: m.Precision()}, nil
}

// pairValue scans all rows once, scoring the rows where both samples
// have a call.
func pairValue(m Metric, src, dst []Genotype, minShared int) float64 {
	var sum float64
	n := 0
	for row, a := range src {
		b := dst[row]
		if a == Missing || b == Missing {
			continue
		}
		sum += m.Score(a, b)
		n++
	}
	if n < minShared {
		return math.NaN()
	}
	return m.Value(sum, n, len(src))
}

// genotypeColumns parses the sample cells of t into one slice of
// calls per sample.
func genotypeColumns(t *Table, parser genotypeParser) ([][]Genotype, error) {
	sampleIndex, err := t.SampleIndex()
	if err != nil {
		return nil, err
	}
	cols := make([][]Genotype, len(t.Header)-sampleIndex)
	for i := range cols {
		cols[i] = make([]Genotype, len(t.Rows))
	}
	for r, row := range t.Rows {
		for i, cell := range row[sampleIndex:] {
			cols[i][r], err = parser.Parse(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d sample %s: %w", r+1, t.Header[sampleIndex+i], err)
			}
		}
	}
	return cols, nil
}
