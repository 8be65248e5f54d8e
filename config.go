// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the lookup tables and constants used by the filter and
// distance commands. The zero value is not useful; start with
// DefaultConfig.
//
// Example TOML file (every key is optional; floats must be written
// with a decimal point):
//
//	meta_prefix = "##"
//	structural_columns = ["ID", "QUAL", "FILTER", "INFO", "FORMAT"]
//	nocall_tokens = ["--", "./."]
//	linkage_limit = 500
//	pearson = [[1.0, 0.5, 0.0], [0.5, 1.0, 0.5], [0.0, 0.5, 1.0]]
//
//	[[replacement]]
//	prefix = "./."
//	token = ""
type Config struct {
	MetaPrefix        string          `toml:"meta_prefix"`
	StructuralColumns []string        `toml:"structural_columns"`
	Replacements      []Replacement   `toml:"replacement"`
	NoCallTokens      []string        `toml:"nocall_tokens"`
	LinkageLimit      int             `toml:"linkage_limit"`
	Pearson           SimilarityTable `toml:"pearson"`
	Morisita          SimilarityTable `toml:"morisita"`
}

func DefaultConfig() Config {
	return Config{
		MetaPrefix:        DefaultMetaPrefix,
		StructuralColumns: append([]string(nil), DefaultStructuralColumns...),
		Replacements:      append([]Replacement(nil), DefaultReplacements...),
		NoCallTokens:      append([]string(nil), DefaultNoCallTokens...),
		LinkageLimit:      DefaultLinkageLimit,
		Pearson:           PearsonTable,
		Morisita:          MorisitaTable,
	}
}

// LoadConfig returns DefaultConfig, overridden by the keys present
// in the given TOML file. An empty filename returns DefaultConfig.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return cfg, nil
	}
	var file Config
	md, err := toml.DecodeFile(filename, &file)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%s: unknown keys %v", filename, undecoded)
	}
	if md.IsDefined("meta_prefix") {
		cfg.MetaPrefix = file.MetaPrefix
	}
	if md.IsDefined("structural_columns") {
		cfg.StructuralColumns = file.StructuralColumns
	}
	if md.IsDefined("replacement") {
		cfg.Replacements = file.Replacements
	}
	if md.IsDefined("nocall_tokens") {
		cfg.NoCallTokens = file.NoCallTokens
	}
	if md.IsDefined("linkage_limit") {
		cfg.LinkageLimit = file.LinkageLimit
	}
	if md.IsDefined("pearson") {
		cfg.Pearson = file.Pearson
	}
	if md.IsDefined("morisita") {
		cfg.Morisita = file.Morisita
	}
	err = cfg.Check()
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Check returns an error if cfg cannot be used.
func (cfg *Config) Check() error {
	if cfg.MetaPrefix == "" {
		return errors.New("meta_prefix must not be empty")
	}
	if cfg.LinkageLimit <= 0 {
		return fmt.Errorf("linkage_limit must be positive, not %d", cfg.LinkageLimit)
	}
	for i, r := range cfg.Replacements {
		if r.Prefix == "" {
			return fmt.Errorf("replacement %d has empty prefix", i)
		}
	}
	return nil
}
