// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"bytes"
	"io/ioutil"
	"math"
	"os"
	"strings"

	"github.com/kshedden/gonpy"
	"gopkg.in/check.v1"
)

type cmdSuite struct{}

var _ = check.Suite(&cmdSuite{})

const rawVCF = `##fileformat=VCFv4.2
##contig=<ID=NC_057849.1>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1	S2	S3
NC_057849.1	100	.	A	G	50	PASS	DP=9	GT:DP	0/0:5	0/0:4	./.:0
NC_057849.1	120	.	C	T	50	PASS	DP=9	GT:DP	0/0:5	0/1:4	./.:0
NC_057849.1	130	.	G	A	50	PASS	DP=9	GT:DP	0/1:5	0/1:4	1/1:3
NC_057849.1	500	.	T	C	50	PASS	DP=9	GT:DP	1/1:5	1/1:4	./.:0
`

const filtered = "#CHROM\tPOS\tREF\tALT\tS1\tS2\t111\t222\t333\t123\tmnr\n" +
	"1\t100\tA\tG\t1\t2\t1\t1\t0\t4\t0.25\n" +
	"1\t500\tT\tC\t3\t3\t0\t0\t2\t3\t1.00"

func (s *cmdSuite) TestFilterStdio(c *check.C) {
	var stdout, stderr bytes.Buffer
	code := (&filtercmd{}).RunCommand("snpdist filter", []string{
		"-linkage", "-snp-filter", "20", "-sample-filter", "40",
	}, strings.NewReader(rawVCF), &stdout, &stderr)
	c.Assert(code, check.Equals, 0, check.Commentf("%s", stderr.String()))
	c.Check(stdout.String(), check.Equals, filtered)
}

func (s *cmdSuite) TestPipeline(c *check.C) {
	tmpdir := c.MkDir()
	c.Assert(ioutil.WriteFile(tmpdir+"/input.vcf", []byte(rawVCF), 0666), check.IsNil)

	for _, outfile := range []string{"filtered.tsv", "filtered.tsv.gz"} {
		var stderr bytes.Buffer
		code := (&filtercmd{}).RunCommand("snpdist filter", []string{
			"-i", tmpdir + "/input.vcf",
			"-o", tmpdir + "/" + outfile,
			"-linkage", "-snp-filter", "20", "-sample-filter", "40",
		}, nil, ioutil.Discard, &stderr)
		c.Assert(code, check.Equals, 0, check.Commentf("%s", stderr.String()))

		for _, trial := range []struct {
			cmd    *pairwisecmd
			args   []string
			expect string
		}{
			{&pairwisecmd{}, nil, ",S1,S2\r\nS1,,0.50000\r\nS2,0.50000,\r\n"},
			{&pairwisecmd{}, []string{"-pearson"}, ",S1,S2\r\nS1,,0.85355\r\nS2,0.85355,\r\n"},
			{&pairwisecmd{}, []string{"-morisita"}, ",S1,S2\r\nS1,,0.83333\r\nS2,0.83333,\r\n"},
			{&pairwisecmd{shared: true}, nil, ",S1,S2\r\nS1,,1.00\r\nS2,1.00,\r\n"},
			{&pairwisecmd{shared: true}, []string{"-min-shared", "3"}, ",S1,S2\r\nS1,,\r\nS2,,\r\n"},
		} {
			var stdout bytes.Buffer
			args := append([]string{"-i", tmpdir + "/" + outfile}, trial.args...)
			code := trial.cmd.RunCommand("snpdist", args, nil, &stdout, &stderr)
			c.Assert(code, check.Equals, 0, check.Commentf("%s", stderr.String()))
			c.Check(stdout.String(), check.Equals, trial.expect, check.Commentf("%s %v", outfile, trial.args))
		}
	}
}

func (s *cmdSuite) TestDistancesNumpy(c *check.C) {
	tmpdir := c.MkDir()
	c.Assert(ioutil.WriteFile(tmpdir+"/filtered.tsv", []byte(filtered), 0666), check.IsNil)
	var stderr bytes.Buffer
	code := (&pairwisecmd{}).RunCommand("snpdist distances", []string{
		"-i", tmpdir + "/filtered.tsv",
		"-o", tmpdir + "/dist.csv",
		"-output-numpy", tmpdir + "/dist.npy",
		"-threads", "1",
	}, nil, ioutil.Discard, &stderr)
	c.Assert(code, check.Equals, 0, check.Commentf("%s", stderr.String()))
	buf, err := ioutil.ReadFile(tmpdir + "/dist.csv")
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, ",S1,S2\r\nS1,,0.50000\r\nS2,0.50000,\r\n")

	f, err := os.Open(tmpdir + "/dist.npy")
	c.Assert(err, check.IsNil)
	defer f.Close()
	npy, err := gonpy.NewReader(f)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{2, 2})
	data, err := npy.GetFloat64()
	c.Assert(err, check.IsNil)
	c.Check(math.IsNaN(data[0]), check.Equals, true)
	c.Check(data[1], check.Equals, 0.5)
	c.Check(data[2], check.Equals, 0.5)
	c.Check(math.IsNaN(data[3]), check.Equals, true)
}

func (s *cmdSuite) TestConflictingMetrics(c *check.C) {
	tmpdir := c.MkDir()
	c.Assert(ioutil.WriteFile(tmpdir+"/filtered.tsv", []byte(filtered), 0666), check.IsNil)
	var stderr bytes.Buffer
	code := (&pairwisecmd{}).RunCommand("snpdist distances", []string{
		"-i", tmpdir + "/filtered.tsv",
		"-o", tmpdir + "/dist.csv",
		"-pearson", "-morisita",
	}, nil, ioutil.Discard, &stderr)
	c.Check(code, check.Equals, 2)
	c.Check(stderr.String(), check.Matches, `(?s).*Can't do both Pearson's and Morisita's.*`)
	_, err := os.Stat(tmpdir + "/dist.csv")
	c.Check(os.IsNotExist(err), check.Equals, true)
}

func (s *cmdSuite) TestUsageErrors(c *check.C) {
	for _, args := range [][]string{
		{"filter", "-nosuchflag"},
		{"filter", "extra-arg"},
		{"shared-snps", "-pearson"},
		{"nosuchcommand"},
	} {
		var stderr bytes.Buffer
		code := handler.RunCommand("snpdist", args, nil, ioutil.Discard, &stderr)
		c.Check(code, check.Equals, 2, check.Commentf("%v", args))
	}

	var stderr bytes.Buffer
	code := handler.RunCommand("snpdist", []string{"filter", "-i", c.MkDir() + "/missing.vcf"}, nil, ioutil.Discard, &stderr)
	c.Check(code, check.Equals, 1)
	c.Check(stderr.String(), check.Matches, `(?s).*missing.vcf.*`)
}

func (s *cmdSuite) TestPCA(c *check.C) {
	tmpdir := c.MkDir()
	input := "#CHROM\tPOS\tREF\tALT\tS1\tS2\tS3\tS4\n" +
		"1\t100\tA\tG\t1\t1\t3\t3\n" +
		"1\t200\tA\tG\t1\t2\t3\t3\n" +
		"1\t300\tA\tG\t3\t3\t1\t1\n" +
		"1\t400\tA\tG\t1\t3\t1\t3\n" +
		"1\t500\tA\tG\t2\t\t2\t1\n" +
		"1\t600\tA\tG\t1\t2\t3\t2\n"
	c.Assert(ioutil.WriteFile(tmpdir+"/snps.tsv", []byte(input), 0666), check.IsNil)
	var stderr bytes.Buffer
	code := (&pcacmd{}).RunCommand("snpdist pca", []string{
		"-i", tmpdir + "/snps.tsv",
		"-o", tmpdir + "/pca.npy",
		"-output-labels", tmpdir + "/labels.csv",
		"-strip-columns", "0",
		"-components", "2",
	}, nil, ioutil.Discard, &stderr)
	c.Assert(code, check.Equals, 0, check.Commentf("%s", stderr.String()))

	f, err := os.Open(tmpdir + "/pca.npy")
	c.Assert(err, check.IsNil)
	defer f.Close()
	npy, err := gonpy.NewReader(f)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{4, 2})
	data, err := npy.GetFloat64()
	c.Assert(err, check.IsNil)
	c.Check(data, check.HasLen, 8)
	for _, v := range data {
		c.Check(math.IsNaN(v), check.Equals, false)
	}

	labels, err := ioutil.ReadFile(tmpdir + "/labels.csv")
	c.Assert(err, check.IsNil)
	c.Check(string(labels), check.Equals, "0,\"S1\"\n1,\"S2\"\n2,\"S3\"\n3,\"S4\"\n")

	code = (&pcacmd{}).RunCommand("snpdist pca", []string{
		"-i", tmpdir + "/snps.tsv",
		"-o", tmpdir + "/pca2.npy",
		"-strip-columns", "0",
		"-components", "5",
	}, nil, ioutil.Discard, &stderr)
	c.Check(code, check.Equals, 1)
}

func (s *cmdSuite) TestDosageMatrix(c *check.C) {
	t := &Table{
		Header: []string{"POS", "ALT", "S1", "S2", "S3"},
		Rows: [][]string{
			{"1", "A", "1", "3", ""},
			{"2", "A", "", "--", ""},
		},
	}
	dosage, err := dosageMatrix(t, DefaultNoCallTokens)
	c.Assert(err, check.IsNil)
	rows, cols := dosage.Dims()
	c.Check([]int{rows, cols}, check.DeepEquals, []int{3, 2})
	c.Check(dosage.At(0, 0), check.Equals, 0.0)
	c.Check(dosage.At(1, 0), check.Equals, 2.0)
	c.Check(dosage.At(2, 0), check.Equals, 1.0)
	c.Check(dosage.At(2, 1), check.Equals, 0.0)
}
