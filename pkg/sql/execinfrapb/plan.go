// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// PlanSpec is a complete physical plan.
type PlanSpec struct {
	// Settings are setting overrides applied to the flow running the plan.
	Settings map[string]string `yaml:"settings,omitempty"`
	Root     ProcessorSpec     `yaml:"root"`
}

// ParsePlan decodes and validates a YAML plan. Unknown fields are an error.
func ParsePlan(data []byte) (*PlanSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p PlanSpec
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decoding plan")
	}
	if err := p.Root.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid plan")
	}
	return &p, nil
}

// ReadPlanFile reads and parses the plan stored at path.
func ReadPlanFile(fs afero.Fs, path string) (*PlanSpec, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading plan %s", path)
	}
	return ParsePlan(data)
}
