// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"errors"
	"flag"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

var ErrNoSampleColumn = errors.New("cannot find first sample column: header has no ALT column")

// DefaultStructuralColumns are removed from the input before any
// other processing.
var DefaultStructuralColumns = []string{"ID", "QUAL", "FILTER", "INFO", "FORMAT"}

// SampleIndex returns the index of the first sample column, i.e.,
// the column following ALT.
func (t *Table) SampleIndex() (int, error) {
	i := t.Index("ALT")
	if i < 0 {
		return 0, ErrNoSampleColumn
	}
	return i + 1, nil
}

// Samples returns the sample names in column order.
func (t *Table) Samples() ([]string, error) {
	si, err := t.SampleIndex()
	if err != nil {
		return nil, err
	}
	return t.Header[si:], nil
}

// DropNamedColumns removes the first column with each of the given
// names. Names not present in the header are ignored.
func (t *Table) DropNamedColumns(names []string) {
	var idx []int
	for _, name := range names {
		if i := t.Index(name); i >= 0 {
			idx = append(idx, i)
		}
	}
	t.RemoveColumns(idx)
}

// FilterRows drops rows where the percentage of empty cells exceeds
// maxMissing, and returns the number of rows dropped.
func (t *Table) FilterRows(maxMissing float64) int {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if missingPercent(row) <= maxMissing {
			kept = append(kept, row)
		}
	}
	dropped := len(t.Rows) - len(kept)
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return dropped
}

func missingPercent(row []string) float64 {
	if len(row) == 0 {
		return 0
	}
	missing := 0
	for _, cell := range row {
		if cell == "" {
			missing++
		}
	}
	return float64(missing) / float64(len(row)) * 100
}

// FilterSamples removes sample columns where the percentage of data
// rows with an empty cell exceeds maxMissing. It returns the names of
// the removed samples.
func (t *Table) FilterSamples(maxMissing float64) ([]string, error) {
	si, err := t.SampleIndex()
	if err != nil {
		return nil, err
	}
	if len(t.Rows) == 0 {
		return nil, nil
	}
	var idx []int
	var names []string
	for col := si; col < len(t.Header); col++ {
		missing := 0
		for _, row := range t.Rows {
			if row[col] == "" {
				missing++
			}
		}
		if float64(missing)/float64(len(t.Rows))*100 > maxMissing {
			idx = append(idx, col)
			names = append(names, t.Header[col])
		}
	}
	t.RemoveColumns(idx)
	return names, nil
}

// filter holds the row/sample cleaning parameters shared by the
// commands that read raw variant tables.
type filter struct {
	MaxRowMissing    float64
	MaxSampleMissing float64
	Linkage          bool
	LinkageLimit     int
}

func (f *filter) Flags(flags *flag.FlagSet) {
	flags.Float64Var(&f.MaxRowMissing, "snp-filter", 100, "drop variant rows with more than `P` percent missing cells")
	flags.Float64Var(&f.MaxSampleMissing, "sample-filter", 100, "drop samples with more than `P` percent missing calls")
	flags.BoolVar(&f.Linkage, "linkage", false, "collapse linked variants into one majority call per sample")
	flags.IntVar(&f.LinkageLimit, "linkage-limit", 0, "maximum position distance `N` within a linkage group (0 = use config, default 350)")
}

func (f *filter) Args() []string {
	return []string{
		fmt.Sprintf("-snp-filter=%f", f.MaxRowMissing),
		fmt.Sprintf("-sample-filter=%f", f.MaxSampleMissing),
		fmt.Sprintf("-linkage=%v", f.Linkage),
		fmt.Sprintf("-linkage-limit=%d", f.LinkageLimit),
	}
}

// Apply runs the cleaning pipeline on t: structural column removal,
// genotype normalization, optional linkage collapsing, then the row
// and sample missingness thresholds.
func (f *filter) Apply(t *Table, cfg Config) error {
	if _, err := t.SampleIndex(); err != nil {
		return err
	}
	t.DropNamedColumns(cfg.StructuralColumns)
	log.Printf("total lines: %d", len(t.Rows)+1)
	Normalizer(cfg.Replacements).Apply(t)

	if f.Linkage {
		limit := f.LinkageLimit
		if limit <= 0 {
			limit = cfg.LinkageLimit
		}
		err := t.CollapseLinkage(limit, cfg.NoCallTokens)
		if err != nil {
			return err
		}
		log.Printf("after linkage grouping (limit %d): %d", limit, len(t.Rows)+1)
	} else {
		log.Print("no linkage")
	}

	dropped := t.FilterRows(f.MaxRowMissing)
	log.Printf("after snp filter: %d (dropped %d)", len(t.Rows)+1, dropped)
	removed, err := t.FilterSamples(f.MaxSampleMissing)
	if err != nil {
		return err
	}
	log.Printf("after sample filter: %d samples (dropped %d)", len(t.Header)-t.Index("ALT")-1, len(removed))
	return nil
}

type filtercmd struct {
	filter
}

func (cmd *filtercmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := cmd.run(prog, args, stdin, stdout, stderr)
	if err == errUsage {
		return 2
	} else if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}

func (cmd *filtercmd) run(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input `file` (tab-delimited variant table, optionally gzipped)")
	outputFilename := flags.String("o", "-", "output `file`")
	configFilename := flags.String("config", "", "TOML run configuration `file`")
	limit := flags.Int("limit", 0, "read at most `N` variant rows (0 = all)")
	cmd.filter.Flags(flags)
	err := flags.Parse(args)
	if err == flag.ErrHelp {
		return nil
	} else if err != nil {
		return errUsage
	} else if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "errant command line arguments after parsed flags: %v\n", flags.Args())
		return errUsage
	}

	cfg, err := LoadConfig(*configFilename)
	if err != nil {
		return err
	}

	log.Printf("reading %s", *inputFilename)
	t, err := readTableFile(*inputFilename, stdin, ReadOptions{MetaPrefix: cfg.MetaPrefix, Limit: *limit})
	if err != nil {
		return err
	}
	log.Printf("filter options: %v", cmd.filter.Args())
	err = cmd.filter.Apply(t, cfg)
	if err != nil {
		return err
	}
	if n := t.DropUncalled(); n > 0 {
		log.Warnf("dropped %d variant rows with no genotype calls", n)
	}
	err = t.AddFeatures()
	if err != nil {
		return err
	}

	log.Printf("writing %s", *outputFilename)
	output, err := zcreate(*outputFilename, stdout)
	if err != nil {
		return err
	}
	defer output.Close()
	_, err = t.WriteTo(output)
	if err != nil {
		return err
	}
	return output.Close()
}
