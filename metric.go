// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import "math"

// Metric scores a pair of samples. Score is called once for each row
// where both samples have a call; Value reduces the accumulated sum
// over n such rows (out of total rows) to the reported value, or NaN
// if there is none.
type Metric interface {
	Score(a, b Genotype) float64
	Value(sum float64, n, total int) float64
	// Number of decimal places in text output.
	Precision() int
}

// Difference is the mean absolute difference between genotype codes.
type Difference struct{}

func (Difference) Score(a, b Genotype) float64 {
	return math.Abs(float64(a) - float64(b))
}

func (Difference) Value(sum float64, n, total int) float64 { return mean(sum, n) }
func (Difference) Precision() int                          { return 5 }

// SimilarityTable is a metric that looks up each pair of codes
// (HomRef, Het, HomAlt) in a 3x3 table and reports the mean.
type SimilarityTable [3][3]float64

var (
	PearsonTable = SimilarityTable{
		{1, 0.7071067, 0},
		{0.7071067, 1, 0.7071067},
		{0, 0.7071067, 1},
	}
	MorisitaTable = SimilarityTable{
		{1, 2.0 / 3, 0},
		{2.0 / 3, 1, 2.0 / 3},
		{0, 2.0 / 3, 1},
	}
)

func (st *SimilarityTable) Score(a, b Genotype) float64 {
	return st[a-HomRef][b-HomRef]
}

func (st *SimilarityTable) Value(sum float64, n, total int) float64 { return mean(sum, n) }
func (st *SimilarityTable) Precision() int                          { return 5 }

// Symmetric reports whether st[i][j] == st[j][i] for all i, j.
func (st *SimilarityTable) Symmetric() bool {
	for i := range st {
		for j := range st[i] {
			if st[i][j] != st[j][i] {
				return false
			}
		}
	}
	return true
}

// SharedFraction is the fraction of all rows where both samples have
// a call.
type SharedFraction struct{}

func (SharedFraction) Score(a, b Genotype) float64 { return 1 }

func (SharedFraction) Value(sum float64, n, total int) float64 {
	if total == 0 {
		return math.NaN()
	}
	return float64(n) / float64(total)
}

func (SharedFraction) Precision() int { return 2 }

func mean(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
