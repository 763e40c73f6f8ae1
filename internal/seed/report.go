package seed

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Counts is the number of records written per kind.
type Counts struct {
	Users     int `yaml:"users"`
	Profiles  int `yaml:"profiles"`
	Questions int `yaml:"questions"`
	Answers   int `yaml:"answers"`
	Tags      int `yaml:"tags"`
	Likes     int `yaml:"likes"`
}

// Report summarizes a seeding run.
type Report struct {
	DryRun   bool          `yaml:"dry_run"`
	Quotas   Quotas        `yaml:"quotas"`
	Created  Counts        `yaml:"created"`
	Steps    []StepReport  `yaml:"steps"`
	Duration time.Duration `yaml:"-"`
	Elapsed  string        `yaml:"elapsed"`
}

// StepReport is the outcome of one step.
type StepReport struct {
	Kind    Kind   `yaml:"kind"`
	Records int    `yaml:"records"`
	Batches int    `yaml:"batches,omitempty"`
	Elapsed string `yaml:"elapsed"`
}

// YAML renders the report for operators.
func (r *Report) YAML() ([]byte, error) {
	r.Elapsed = r.Duration.Round(time.Millisecond).String()
	return yaml.Marshal(r)
}
