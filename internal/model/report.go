package model

import (
	"time"

	"github.com/google/uuid"
)

// DrugScore is the outcome of evaluating one drug's rule.
type DrugScore struct {
	Gene     string `json:"gene"`
	Drug     string `json:"drug"`
	RuleText string `json:"rule"`
	Score    Score  `json:"-"`

	// Flattened score fields for serialization.
	Kind     string     `json:"kind"`
	Truth    bool       `json:"truth,omitempty"`
	Value    float64    `json:"value,omitempty"`
	Residues []Mutation `json:"residues,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Flatten copies the Score variant into the serializable fields.
func (ds *DrugScore) Flatten() {
	ds.Kind = ds.Score.Kind.String()
	ds.Truth = ds.Score.Truth
	ds.Value = ds.Score.Value
	ds.Residues = ds.Score.SortedResidues()

	if ds.Score.Err != nil {
		ds.Error = ds.Score.Err.Error()
	}
}

// Summary aggregates the numeric scores of a run.
type Summary struct {
	Evaluated int     `json:"evaluated"`
	Failed    int     `json:"failed"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Max       float64 `json:"max"`
}

// Report is the result of evaluating a rule bank against one environment.
type Report struct {
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Algorithm   string      `json:"algorithm"`
	Environment string      `json:"environment"`
	Scores      []DrugScore `json:"scores"`
	Summary     Summary     `json:"summary"`
}

// NewReport stamps a fresh report with a run ID and creation time.
func NewReport(algorithm string, env Environment) Report {
	return Report{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Algorithm:   algorithm,
		Environment: env.String(),
	}
}

// RuleEntry is one named rule inside a rule bank.
type RuleEntry struct {
	Gene string
	Drug string
	Text string
}

// RuleBank is the set of rules to evaluate, in document order.
type RuleBank struct {
	Algorithm string
	Entries   []RuleEntry
}
