// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// pairwisecmd implements the "distances" command, and the
// "shared-snps" command if shared is true.
type pairwisecmd struct {
	shared bool
}

func (cmd *pairwisecmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := cmd.run(prog, args, stdin, stdout, stderr)
	if err == errUsage {
		return 2
	} else if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}

func (cmd *pairwisecmd) run(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input `file` (output of the filter command)")
	outputFilename := flags.String("o", "-", "output csv `file`")
	numpyFilename := flags.String("output-numpy", "", "also write the matrix to numpy `file`")
	configFilename := flags.String("config", "", "TOML run configuration `file`")
	limit := flags.Int("limit", 0, "read at most `N` variant rows (0 = all)")
	stripColumns := flags.Int("strip-columns", len(FeatureColumns), "ignore the last `N` columns of the input (derived feature columns)")
	minShared := flags.Int("min-shared", 0, "report no value for sample pairs with fewer than `N` shared calls")
	threads := flags.Int("threads", runtime.NumCPU(), "number of samples to process concurrently")
	var pearson, morisita *bool
	if !cmd.shared {
		pearson = flags.Bool("pearson", false, "use Pearson-like similarity")
		morisita = flags.Bool("morisita", false, "use Morisita-like similarity")
	}
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

	var metric Metric
	switch {
	case cmd.shared:
		log.Print("calculating shared snps")
		metric = SharedFraction{}
	case *pearson && *morisita:
		fmt.Fprintln(stderr, "Can't do both Pearson's and Morisita's at the same time, please only choose one (-pearson/-morisita)")
		return errUsage
	case *morisita:
		log.Print("calculating Morisita distance")
		metric = &cfg.Morisita
	case *pearson:
		log.Print("calculating Pearson distance")
		metric = &cfg.Pearson
	default:
		log.Print("calculating difference distance")
		metric = Difference{}
	}

	log.Printf("reading %s", *inputFilename)
	t, err := readTableFile(*inputFilename, stdin, ReadOptions{MetaPrefix: cfg.MetaPrefix, Limit: *limit})
	if err != nil {
		return err
	}
	t.StripFeatures(*stripColumns)
	samples, err := t.Samples()
	if err != nil {
		return err
	}
	log.Printf("%d samples, %d variant rows", len(samples), len(t.Rows))

	opts := PairwiseOptions{
		MinShared:    *minShared,
		NoCallTokens: cfg.NoCallTokens,
		Threads:      *threads,
	}
	if f, ok := stderr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		bar := pb.New(len(samples)).SetWriter(stderr).Start()
		defer bar.Finish()
		opts.Progress = func() { bar.Increment() }
	}
	matrix, err := Pairwise(t, metric, opts)
	if err != nil {
		return err
	}

	log.Printf("writing %s", *outputFilename)
	output, err := zcreate(*outputFilename, stdout)
	if err != nil {
		return err
	}
	defer output.Close()
	err = matrix.WriteCSV(output)
	if err != nil {
		return err
	}
	err = output.Close()
	if err != nil {
		return err
	}

	if *numpyFilename != "" {
		log.Printf("writing %s", *numpyFilename)
		npout, err := zcreate(*numpyFilename, stdout)
		if err != nil {
			return err
		}
		defer npout.Close()
		err = matrix.WriteNumpy(npout)
		if err != nil {
			return err
		}
		return npout.Close()
	}
	return nil
}
