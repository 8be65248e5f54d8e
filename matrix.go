// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// Matrix holds pairwise sample values. NaN entries (self pairs, and
// pairs with insufficient data) have no value.
type Matrix struct {
	Names     []string
	Values    *mat.Dense
	Precision int
}

// Cell returns the text form of the value at (i, j), or "" if there
// is no value.
func (m *Matrix) Cell(i, j int) string {
	v := m.Values.At(i, j)
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', m.Precision, 64)
}

// Row returns the text values for the first sample with the given
// name, in sample order, or nil if there is no such sample.
func (m *Matrix) Row(name string) []string {
	for i, n := range m.Names {
		if n == name {
			row := make([]string, len(m.Names))
			for j := range row {
				row[j] = m.Cell(i, j)
			}
			return row
		}
	}
	return nil
}

// WriteCSV writes the matrix as comma-separated text with "\r\n"
// line endings. The first line is an empty cell followed by the
// sample names; each following line is a sample name followed by its
// row of values.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	err := cw.Write(append([]string{""}, m.Names...))
	if err != nil {
		return err
	}
	record := make([]string, len(m.Names)+1)
	for i, name := range m.Names {
		record[0] = name
		for j := range m.Names {
			record[j+1] = m.Cell(i, j)
		}
		err = cw.Write(record)
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNumpy writes the values as an N×N float64 numpy array, with
// NaN where there is no value.
func (m *Matrix) WriteNumpy(w io.Writer) error {
	rows, cols := m.Values.Dims()
	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return err
	}
	npw.Shape = []int{rows, cols}
	return npw.WriteFloat64(mat.DenseCopyOf(m.Values).RawMatrix().Data)
}
