// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads and saves named queries.
//
// Queries are stored in a YAML file and validated against an embedded CUE
// schema on every load and save.
//
package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/db47h/hwtrace/fault"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSrc []byte

// Query is a saved set of command line options.
//
type Query struct {
	File    string `yaml:"file" json:"file"`
	Start   string `yaml:"start,omitempty" json:"start,omitempty"`
	End     string `yaml:"end,omitempty" json:"end,omitempty"`
	Break   string `yaml:"break,omitempty" json:"break,omitempty"`
	Wires   string `yaml:"wires,omitempty" json:"wires,omitempty"`
	Length  uint64 `yaml:"length,omitempty" json:"length,omitempty"`
	Radix   int    `yaml:"radix,omitempty" json:"radix,omitempty"`
	Display bool   `yaml:"display,omitempty" json:"display,omitempty"`
}

// Queries maps query names to queries.
//
type Queries map[string]Query

// Names returns the sorted query names.
//
func (qs Queries) Names() []string {
	names := make([]string, 0, len(qs))
	for n := range qs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultPath returns the default query file location.
//
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate query file")
	}
	return filepath.Join(home, ".config", "hwtrace", "queries.yaml"), nil
}

// Parse decodes and validates YAML query data.
//
func Parse(data []byte) (Queries, error) {
	qs := make(Queries)
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fault.As(fault.Input, errors.Wrap(err, "decode queries"))
	}
	if err := qs.Validate(); err != nil {
		return nil, err
	}
	return qs, nil
}

// Load reads the named query file. A missing file yields an empty set.
//
func Load(name string) (Queries, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Queries), nil
		}
		return nil, errors.WithStack(err)
	}
	qs, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	return qs, nil
}

// Save validates qs and writes it to the named file, creating parent
// directories as needed.
//
func (qs Queries) Save(name string) error {
	if err := qs.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(qs)
	if err != nil {
		return errors.Wrap(err, "encode queries")
	}
	if err = os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(name, data, 0o644))
}

// Validate checks qs against the query schema. A query cannot have both an
// end expression and a length.
//
func (qs Queries) Validate() error {
	if len(qs) == 0 {
		return nil
	}
	for _, n := range qs.Names() {
		if q := qs[n]; q.End != "" && q.Length != 0 {
			return fault.Errorf("query %q: end and length cannot be given together", n)
		}
	}
	data, err := json.Marshal(qs)
	if err != nil {
		return errors.Wrap(err, "encode queries")
	}
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSrc)
	if err = schema.Err(); err != nil {
		return fault.As(fault.Internal, errors.Wrap(err, "compile query schema"))
	}
	v := ctx.CompileBytes(data)
	if err = v.Err(); err != nil {
		return fault.As(fault.Internal, errors.Wrap(err, "compile queries"))
	}
	def := schema.LookupPath(cue.ParsePath("#Queries"))
	if err = def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fault.As(fault.Input, errors.Wrap(err, "invalid queries"))
	}
	return nil
}
