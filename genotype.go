// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"errors"
	"fmt"
)

var ErrInvalidGenotype = errors.New("invalid genotype code")

// Genotype is a normalized zygosity class.
type Genotype uint8

const (
	Missing Genotype = iota
	HomRef
	Het
	HomAlt
)

// String returns the cell token for g ("" for Missing).
func (g Genotype) String() string {
	switch g {
	case HomRef:
		return "1"
	case Het:
		return "2"
	case HomAlt:
		return "3"
	}
	return ""
}

// DefaultNoCallTokens are cell values treated as missing in addition
// to the empty string.
var DefaultNoCallTokens = []string{"--", "./."}

// genotypeParser converts cell tokens to genotype codes.
type genotypeParser struct {
	nocall map[string]bool
}

func newGenotypeParser(nocall []string) genotypeParser {
	p := genotypeParser{nocall: map[string]bool{}}
	for _, tok := range nocall {
		p.nocall[tok] = true
	}
	return p
}

func (p genotypeParser) Parse(cell string) (Genotype, error) {
	switch cell {
	case "":
		return Missing, nil
	case "1":
		return HomRef, nil
	case "2":
		return Het, nil
	case "3":
		return HomAlt, nil
	}
	if p.nocall[cell] {
		return Missing, nil
	}
	return Missing, fmt.Errorf("%w %q", ErrInvalidGenotype, cell)
}
