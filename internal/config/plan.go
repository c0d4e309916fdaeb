package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/cassels/internal/errors"
)

// MinMaxLen is the smallest maximum tuple length a run may ask for.
const MinMaxLen = 3

// PlanRun is one (level, maximum length) pair of a plan.
type PlanRun struct {
	Level  int    `yaml:"level"`
	MaxLen int    `yaml:"max_len"`
	Note   string `yaml:"note,omitempty"`
}

// Plan is an ordered list of runs sharing the same output artifacts.
type Plan struct {
	Runs []PlanRun `yaml:"runs"`
}

// DefaultPlan returns the eight runs whose candidates the verification step
// expects, in the order their results are appended to the artifacts.
func DefaultPlan() Plan {
	return Plan{Runs: []PlanRun{
		{Level: 2 * 2 * 3 * 5 * 7, MaxLen: 7, Note: "Proposition 4.3"},
		{Level: 31, MaxLen: 6, Note: "Remark 8.3"},
		{Level: 3 * 5 * 7 * 13, MaxLen: 5, Note: "Section 8.3.1"},
		{Level: 2 * 2 * 3 * 5 * 7 * 11, MaxLen: 5, Note: "Sections 4.2.1, 8.2.1"},
		{Level: 5 * 19, MaxLen: 4, Note: "Section 4.2.4"},
		{Level: 5 * 17, MaxLen: 4, Note: "Section 4.2.4"},
		{Level: 2 * 2 * 3 * 5 * 7 * 11 * 13, MaxLen: 4, Note: "Section 4.2.2"},
		{Level: 2 * 2 * 2 * 3 * 3 * 5 * 7, MaxLen: 4, Note: "Proposition 4.1"},
	}}
}

// SingleRunPlan wraps one (level, maxLen) pair into a plan.
func SingleRunPlan(level, maxLen int) Plan {
	return Plan{Runs: []PlanRun{{Level: level, MaxLen: maxLen}}}
}

// Validate checks every run of the plan.
func (p Plan) Validate() error {
	if len(p.Runs) == 0 {
		return apperrors.NewConfigError("plan has no runs")
	}
	for i, r := range p.Runs {
		if r.Level < 1 {
			return apperrors.NewConfigError("plan run %d: level must be at least 1, got %d", i+1, r.Level)
		}
		if r.MaxLen < MinMaxLen {
			return apperrors.NewConfigError("plan run %d: max_len must be at least %d, got %d", i+1, MinMaxLen, r.MaxLen)
		}
	}
	return nil
}

// ParsePlan decodes a YAML plan. Unknown keys are rejected.
func ParsePlan(r io.Reader) (Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Plan{}, apperrors.NewConfigError("plan is empty")
		}
		return Plan{}, apperrors.NewConfigError("invalid plan: %v", err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// LoadPlan reads and validates the YAML plan at path.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, apperrors.NewConfigError("reading plan %s: %v", path, err)
	}
	p, err := ParsePlan(bytes.NewReader(data))
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
