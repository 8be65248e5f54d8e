// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var ErrMalformedRow = errors.New("row width does not match header")

// Table is a tab-delimited variant table held in memory. Every row
// has the same width as Header.
type Table struct {
	Header []string
	Rows   [][]string
}

type ReadOptions struct {
	// Lines starting with MetaPrefix before the header are
	// discarded. Empty means DefaultMetaPrefix.
	MetaPrefix string
	// Maximum number of data rows to keep (0 = no limit).
	Limit int
}

const DefaultMetaPrefix = "##"

// ReadTable reads an entire tab-delimited table from r.
func ReadTable(r io.Reader, opts ReadOptions) (*Table, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	prefix := opts.MetaPrefix
	if prefix == "" {
		prefix = DefaultMetaPrefix
	}
	lines := strings.Split(string(buf), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	skip := 0
	for skip < len(lines) && strings.HasPrefix(lines[skip], prefix) {
		skip++
	}
	if skip == len(lines) {
		return nil, errors.New("no header line found")
	}
	t := &Table{Header: strings.Split(lines[skip], "\t")}
	for i, line := range lines[skip+1:] {
		if opts.Limit > 0 && len(t.Rows) >= opts.Limit {
			break
		}
		row := strings.Split(line, "\t")
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("line %d: %w (%d cells, header has %d)", skip+i+2, ErrMalformedRow, len(row), len(t.Header))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteTo writes the header and rows, tab-delimited, with "\n"
// between lines and no trailing line terminator.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	bufw := bufio.NewWriter(w)
	var n int64
	for i, row := range append([][]string{t.Header}, t.Rows...) {
		if i > 0 {
			bufw.WriteByte('\n')
			n++
		}
		nw, _ := bufw.WriteString(strings.Join(row, "\t"))
		n += int64(nw)
	}
	return n, bufw.Flush()
}

func (t *Table) String() string {
	var buf bytes.Buffer
	t.WriteTo(&buf)
	return buf.String()
}

// Index returns the index of the first header column with the given
// name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// RemoveColumns deletes the given column indexes from the header and
// from every row. Indexes are removed in descending order so earlier
// removals do not shift later ones.
func (t *Table) RemoveColumns(idx []int) {
	if len(idx) == 0 {
		return
	}
	idx = append([]int(nil), idx...)
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	t.Header = removeIndexes(t.Header, idx)
	for i, row := range t.Rows {
		t.Rows[i] = removeIndexes(row, idx)
	}
}

// idx must be sorted in descending order.
func removeIndexes(row []string, idx []int) []string {
	prev := -1
	for _, i := range idx {
		if i == prev || i < 0 || i >= len(row) {
			continue
		}
		row = append(row[:i], row[i+1:]...)
		prev = i
	}
	return row
}
