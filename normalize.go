// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import "strings"

// Replacement rewrites any cell starting with Prefix to Token.
type Replacement struct {
	Prefix string `toml:"prefix"`
	Token  string `toml:"token"`
}

// DefaultReplacements map raw VCF genotype fields (GT followed by
// other FORMAT fields) to genotype codes.
var DefaultReplacements = []Replacement{
	{"./.", ""},
	{"0/0:", "1"},
	{"0/1:", "2"},
	{"1/1:", "3"},
	{`"0/0:`, "1"},
	{`"0/1:`, "2"},
	{`"1/1:`, "3"},
	{"NC_057849.1", "1"},
}

// Normalizer is an ordered list of replacements. The first matching
// prefix wins.
type Normalizer []Replacement

// Apply rewrites every data cell of t in a single pass.
func (n Normalizer) Apply(t *Table) {
	for _, row := range t.Rows {
		for i, cell := range row {
			row[i] = n.replace(cell)
		}
	}
}

func (n Normalizer) replace(cell string) string {
	for _, r := range n {
		if strings.HasPrefix(cell, r.Prefix) {
			return r.Token
		}
	}
	return cell
}
