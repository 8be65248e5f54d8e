// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"flag"
	"fmt"
	"io"

	"github.com/james-bowman/nlp"
	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type pcacmd struct{}

func (cmd *pcacmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := cmd.run(prog, args, stdin, stdout, stderr)
	if err == errUsage {
		return 2
	} else if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}

func (cmd *pcacmd) run(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input `file` (output of the filter command)")
	outputFilename := flags.String("o", "-", "output numpy `file`")
	labelsFilename := flags.String("output-labels", "", "also output sample labels csv `file`")
	configFilename := flags.String("config", "", "TOML run configuration `file`")
	stripColumns := flags.Int("strip-columns", len(FeatureColumns), "ignore the last `N` columns of the input (derived feature columns)")
	components := flags.Int("components", 4, "number of components")
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
	t, err := readTableFile(*inputFilename, stdin, ReadOptions{MetaPrefix: cfg.MetaPrefix})
	if err != nil {
		return err
	}
	t.StripFeatures(*stripColumns)
	samples, err := t.Samples()
	if err != nil {
		return err
	}

	log.Print("converting genotypes to dosage matrix")
	dosage, err := dosageMatrix(t, cfg.NoCallTokens)
	if err != nil {
		return err
	}
	pcs, err := principalComponents(dosage, *components)
	if err != nil {
		return err
	}

	rows, cols := pcs.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, pcs.At(i, j))
		}
	}
	output, err := zcreate(*outputFilename, stdout)
	if err != nil {
		return err
	}
	defer output.Close()
	npw, err := gonpy.NewWriter(nopCloser{output})
	if err != nil {
		return err
	}
	npw.Shape = []int{rows, cols}
	log.Printf("writing numpy: %d rows, %d cols", rows, cols)
	err = npw.WriteFloat64(out)
	if err != nil {
		return err
	}
	err = output.Close()
	if err != nil {
		return err
	}

	if *labelsFilename != "" {
		log.Infof("writing labels to %s", *labelsFilename)
		labels, err := zcreate(*labelsFilename, stdout)
		if err != nil {
			return err
		}
		defer labels.Close()
		for i, name := range samples {
			_, err = fmt.Fprintf(labels, "%d,%q\n", i, name)
			if err != nil {
				return fmt.Errorf("write %s: %w", *labelsFilename, err)
			}
		}
		return labels.Close()
	}
	return nil
}

// dosageMatrix returns a samples × variants matrix of alternate
// allele dosage (0, 1, 2). Missing calls are replaced by the mean
// dosage of the called samples at the same variant, or 0 if no sample
// is called.
func dosageMatrix(t *Table, nocall []string) (*mat.Dense, error) {
	calls, err := genotypeColumns(t, newGenotypeParser(nocall))
	if err != nil {
		return nil, err
	}
	nsamples, nvariants := len(calls), len(t.Rows)
	if nsamples == 0 || nvariants == 0 {
		return nil, fmt.Errorf("cannot build dosage matrix with %d samples and %d variants", nsamples, nvariants)
	}
	dosage := mat.NewDense(nsamples, nvariants, nil)
	called := make([]float64, 0, nsamples)
	for v := 0; v < nvariants; v++ {
		called = called[:0]
		for s := range calls {
			if g := calls[s][v]; g != Missing {
				called = append(called, float64(g-HomRef))
			}
		}
		fill := 0.0
		if len(called) > 0 {
			fill = stat.Mean(called, nil)
		}
		for s := range calls {
			if g := calls[s][v]; g != Missing {
				dosage.Set(s, v, float64(g-HomRef))
			} else {
				dosage.Set(s, v, fill)
			}
		}
	}
	return dosage, nil
}

// principalComponents projects each sample (row of dosage) onto the
// first k principal components.
func principalComponents(dosage *mat.Dense, k int) (mat.Matrix, error) {
	rows, cols := dosage.Dims()
	if k < 1 || k > rows || k > cols {
		return nil, fmt.Errorf("cannot compute %d components from %d samples and %d variants", k, rows, cols)
	}
	log.Printf("fitting: %d samples, %d variants, %d components", rows, cols, k)
	transformer := nlp.NewPCA(k)
	pcs, err := transformer.FitTransform(dosage.T())
	if err != nil {
		return nil, err
	}
	return pcs.T(), nil
}
