package model

import (
	"fmt"
	"sort"
	"strconv"
)

// ScoreKind tags the variant held by a Score.
type ScoreKind int

const (
	// ScoreBoolean holds a truth value (boolean-mode rules).
	ScoreBoolean ScoreKind = iota
	// ScoreNumber holds a numeric value (SCORE FROM rules).
	ScoreNumber
	// ScoreError records an evaluation failure; batch evaluation
	// continues past it.
	ScoreError
)

func (k ScoreKind) String() string {
	switch k {
	case ScoreBoolean:
		return "boolean"
	case ScoreNumber:
		return "number"
	case ScoreError:
		return "error"
	}

	return "unknown"
}

// Score is the result of one rule evaluation: a boolean or numeric value
// together with the residues that support it, or an error. Scores are
// produced fresh per evaluation and never mutated.
type Score struct {
	Kind     ScoreKind
	Truth    bool
	Value    float64
	Residues []Mutation
	Flags    map[string][]Mutation
	Err      error
}

// BoolScore builds a boolean Score supported by the given residues.
func BoolScore(truth bool, residues ...Mutation) Score {
	return Score{Kind: ScoreBoolean, Truth: truth, Residues: residues}
}

// NumberScore builds a numeric Score supported by the given residues.
func NumberScore(value float64, residues ...Mutation) Score {
	return Score{Kind: ScoreNumber, Value: value, Residues: residues}
}

// ErrorScore wraps an evaluation failure as a Score.
func ErrorScore(err error) Score {
	return Score{Kind: ScoreError, Err: err}
}

// IsError reports whether the score records an evaluation failure.
func (s Score) IsError() bool {
	return s.Kind == ScoreError
}

// Satisfied reports whether a boolean score is true or a numeric score is
// non-zero.
func (s Score) Satisfied() bool {
	switch s.Kind {
	case ScoreBoolean:
		return s.Truth
	case ScoreNumber:
		return s.Value != 0
	}

	return false
}

// SortedResidues returns the supporting residues ordered by position then
// variant, for reproducible reporting.
func (s Score) SortedResidues() []Mutation {
	residues := make([]Mutation, len(s.Residues))
	copy(residues, s.Residues)

	sort.Slice(residues, func(i, j int) bool {
		if residues[i].Pos != residues[j].Pos {
			return residues[i].Pos < residues[j].Pos
		}

		return residues[i].Variant < residues[j].Variant
	})

	return residues
}

func (s Score) String() string {
	switch s.Kind {
	case ScoreBoolean:
		return strconv.FormatBool(s.Truth)
	case ScoreNumber:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	case ScoreError:
		return fmt.Sprintf("error: %v", s.Err)
	}

	return "unknown"
}

// MergeFlags unions two flag maps, deduplicating supporting residues per
// flag by (position, variant).
func MergeFlags(dst, src map[string][]Mutation) map[string][]Mutation {
	if len(src) == 0 {
		return dst
	}

	if dst == nil {
		dst = make(map[string][]Mutation, len(src))
	}

	for flag, residues := range src {
		seen := make(map[Mutation]bool, len(dst[flag]))
		for _, residue := range dst[flag] {
			seen[residue] = true
		}

		for _, residue := range residues {
			if !seen[residue] {
				dst[flag] = append(dst[flag], residue)
				seen[residue] = true
			}
		}

		if _, ok := dst[flag]; !ok {
			dst[flag] = []Mutation{}
		}
	}

	return dst
}
