// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"io/ioutil"

	"gopkg.in/check.v1"
)

type configSuite struct{}

var _ = check.Suite(&configSuite{})

func (s *configSuite) TestDefault(c *check.C) {
	cfg, err := LoadConfig("")
	c.Assert(err, check.IsNil)
	c.Check(cfg, check.DeepEquals, DefaultConfig())
	c.Check(cfg.Check(), check.IsNil)
	c.Check(cfg.LinkageLimit, check.Equals, 350)
}

func (s *configSuite) TestOverride(c *check.C) {
	fnm := c.MkDir() + "/config.toml"
	err := ioutil.WriteFile(fnm, []byte(`
linkage_limit = 500
nocall_tokens = ["NA"]
morisita = [[1.0, 0.5, 0.0], [0.5, 1.0, 0.5], [0.0, 0.5, 1.0]]

[[replacement]]
prefix = "0|0"
token = "1"

[[replacement]]
prefix = "1|1"
token = "3"
`), 0644)
	c.Assert(err, check.IsNil)
	cfg, err := LoadConfig(fnm)
	c.Assert(err, check.IsNil)
	c.Check(cfg.LinkageLimit, check.Equals, 500)
	c.Check(cfg.NoCallTokens, check.DeepEquals, []string{"NA"})
	c.Check(cfg.Replacements, check.DeepEquals, []Replacement{{"0|0", "1"}, {"1|1", "3"}})
	c.Check(cfg.Morisita[0][1], check.Equals, 0.5)
	c.Check(cfg.Morisita.Symmetric(), check.Equals, true)
	// not mentioned in the file => defaults
	c.Check(cfg.MetaPrefix, check.Equals, DefaultMetaPrefix)
	c.Check(cfg.StructuralColumns, check.DeepEquals, DefaultStructuralColumns)
	c.Check(cfg.Pearson, check.Equals, PearsonTable)
}

func (s *configSuite) TestErrors(c *check.C) {
	dir := c.MkDir()
	for _, trial := range []struct {
		toml   string
		errmsg string
	}{
		{`linkage_limt = 5`, `.*unknown keys.*linkage_limt.*`},
		{`linkage_limit = 0`, `.*linkage_limit must be positive.*`},
		{"[[replacement]]\nprefix = \"\"\ntoken = \"1\"\n", `.*replacement 0 has empty prefix`},
		{`pearson = [[1.0, 0.5], [0.5, 1.0]]`, `.*expected array length 3.*`},
	} {
		fnm := dir + "/config.toml"
		c.Assert(ioutil.WriteFile(fnm, []byte(trial.toml), 0644), check.IsNil)
		_, err := LoadConfig(fnm)
		c.Check(err, check.ErrorMatches, trial.errmsg, check.Commentf("%s", trial.toml))
	}
	_, err := LoadConfig(dir + "/missing.toml")
	c.Check(err, check.NotNil)
}
