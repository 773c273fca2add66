// Package model defines the value types for drug-resistance rule evaluation.
package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Deletion and Insertion are the variant codes used by rule grammars for
// indels, alongside the single-letter amino acid codes.
const (
	Deletion  = 'd'
	Insertion = 'i'
)

var (
	mutationPattern    = regexp.MustCompile(`^([A-Z]?)(\d+)([diA-Z])$`)
	mutationSetPattern = regexp.MustCompile(`^([A-Z]?)(\d+)([diA-Z]*)$`)
)

// Mutation is a single amino-acid change at a sequence position.
// The wildtype residue is optional; zero means unknown.
type Mutation struct {
	Wildtype rune
	Pos      int
	Variant  rune
}

// ParseMutation parses compact notation: optional wildtype, position,
// and exactly one variant (e.g. "S282N", "69i", "70d").
func ParseMutation(text string) (Mutation, error) {
	match := mutationPattern.FindStringSubmatch(text)
	if match == nil {
		if mutationSetPattern.MatchString(text) {
			return Mutation{}, fmt.Errorf("mutation %q: only one variant allowed", text)
		}

		return Mutation{}, fmt.Errorf("mutation %q: expected wildtype (optional), position, and one variant", text)
	}

	pos, err := strconv.Atoi(match[2])
	if err != nil || pos < 1 {
		return Mutation{}, fmt.Errorf("mutation %q: invalid position", text)
	}

	mutation := Mutation{Pos: pos, Variant: rune(match[3][0])}
	if match[1] != "" {
		mutation.Wildtype = rune(match[1][0])
	}

	return mutation, nil
}

func (mu Mutation) String() string {
	var b strings.Builder
	if mu.Wildtype != 0 {
		b.WriteRune(mu.Wildtype)
	}

	b.WriteString(strconv.Itoa(mu.Pos))
	b.WriteRune(mu.Variant)

	return b.String()
}

// Equal compares by (position, variant). Two mutations that both declare a
// wildtype must agree on it; a declared-vs-undeclared pair still compares.
func (mu Mutation) Equal(other Mutation) (bool, error) {
	if mu.Pos != other.Pos {
		return false, nil
	}

	if mu.Wildtype != 0 && other.Wildtype != 0 && mu.Wildtype != other.Wildtype {
		return false, fmt.Errorf("wild type mismatch between %s and %s", mu, other)
	}

	return mu.Variant == other.Variant, nil
}

// MutationSet is the set of variants observed (or selected by a rule) at a
// single position, e.g. the mixture "215FY".
type MutationSet struct {
	Wildtype rune
	Pos      int
	Variants map[rune]bool
}

// ParseMutationSet parses compact notation with zero or more variants
// (e.g. "L100TS", "215FY", "S40").
func ParseMutationSet(text string) (MutationSet, error) {
	match := mutationSetPattern.FindStringSubmatch(text)
	if match == nil {
		return MutationSet{}, fmt.Errorf("mutation set %q: expected wildtype (optional), position, and variants", text)
	}

	pos, err := strconv.Atoi(match[2])
	if err != nil || pos < 1 {
		return MutationSet{}, fmt.Errorf("mutation set %q: invalid position", text)
	}

	if match[1] == "" && match[3] == "" {
		return MutationSet{}, fmt.Errorf("mutation set %q: no wildtype and no variants", text)
	}

	set := MutationSet{Pos: pos, Variants: make(map[rune]bool, len(match[3]))}
	if match[1] != "" {
		set.Wildtype = rune(match[1][0])
	}

	for _, variant := range match[3] {
		set.Variants[variant] = true
	}

	return set, nil
}

// NewMutationSet builds a set directly from a position and variant codes.
func NewMutationSet(wildtype rune, pos int, variants string) MutationSet {
	set := MutationSet{Wildtype: wildtype, Pos: pos, Variants: make(map[rune]bool, len(variants))}
	for _, variant := range variants {
		set.Variants[variant] = true
	}

	return set
}

// Mutations expands the set into its individual mutations, sorted by variant.
func (ms MutationSet) Mutations() []Mutation {
	mutations := make([]Mutation, 0, len(ms.Variants))
	for variant := range ms.Variants {
		mutations = append(mutations, Mutation{Wildtype: ms.Wildtype, Pos: ms.Pos, Variant: variant})
	}

	sort.Slice(mutations, func(i, j int) bool { return mutations[i].Variant < mutations[j].Variant })

	return mutations
}

// Intersect returns the mutations of ms whose variant also occurs in other.
func (ms MutationSet) Intersect(other MutationSet) []Mutation {
	if ms.Pos != other.Pos {
		return nil
	}

	shared := make([]Mutation, 0, len(ms.Variants))
	for _, mutation := range ms.Mutations() {
		if other.Variants[mutation.Variant] {
			shared = append(shared, mutation)
		}
	}

	return shared
}

// Contains reports whether the set holds the given variant.
func (ms MutationSet) Contains(variant rune) bool {
	return ms.Variants[variant]
}

func (ms MutationSet) String() string {
	var b strings.Builder
	if ms.Wildtype != 0 {
		b.WriteRune(ms.Wildtype)
	}

	b.WriteString(strconv.Itoa(ms.Pos))

	variants := make([]string, 0, len(ms.Variants))
	for variant := range ms.Variants {
		variants = append(variants, string(variant))
	}

	sort.Strings(variants)
	b.WriteString(strings.Join(variants, ""))

	return b.String()
}

// Equal compares position and variant sets, with the same wildtype agreement
// rule as Mutation.Equal.
func (ms MutationSet) Equal(other MutationSet) (bool, error) {
	if ms.Pos != other.Pos {
		return false, nil
	}

	if ms.Wildtype != 0 && other.Wildtype != 0 && ms.Wildtype != other.Wildtype {
		return false, fmt.Errorf("wild type mismatch between %s and %s", ms, other)
	}

	if len(ms.Variants) != len(other.Variants) {
		return false, nil
	}

	for variant := range ms.Variants {
		if !other.Variants[variant] {
			return false, nil
		}
	}

	return true, nil
}

// Environment is the set of observed mutations a rule is evaluated against,
// keyed by position. Duplicate calls at a position merge; uniqueness is per
// (position, variant) pair.
type Environment map[int]MutationSet

// NewEnvironment parses whitespace-separated mutation set terms, e.g.
// "41L 67N 215FY".
func NewEnvironment(text string) (Environment, error) {
	env := make(Environment)
	for _, term := range strings.Fields(text) {
		set, err := ParseMutationSet(term)
		if err != nil {
			return nil, err
		}

		if err := env.Add(set); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// Add merges a mutation set into the environment. Re-adding an existing
// (position, variant) pair is not an error.
func (env Environment) Add(set MutationSet) error {
	existing, ok := env[set.Pos]
	if !ok {
		env[set.Pos] = set
		return nil
	}

	if existing.Wildtype != 0 && set.Wildtype != 0 && existing.Wildtype != set.Wildtype {
		return fmt.Errorf("wild type mismatch at position %d: %s vs %s", set.Pos, existing, set)
	}

	merged := MutationSet{Wildtype: existing.Wildtype, Pos: set.Pos, Variants: make(map[rune]bool, len(existing.Variants)+len(set.Variants))}
	if merged.Wildtype == 0 {
		merged.Wildtype = set.Wildtype
	}

	for variant := range existing.Variants {
		merged.Variants[variant] = true
	}

	for variant := range set.Variants {
		merged.Variants[variant] = true
	}

	env[set.Pos] = merged

	return nil
}

// At returns the mutation set observed at a position, if any.
func (env Environment) At(pos int) (MutationSet, bool) {
	set, ok := env[pos]
	return set, ok
}

// Size is the total number of (position, variant) pairs.
func (env Environment) Size() int {
	total := 0
	for _, set := range env {
		total += len(set.Variants)
	}

	return total
}

func (env Environment) String() string {
	positions := make([]int, 0, len(env))
	for pos := range env {
		positions = append(positions, pos)
	}

	sort.Ints(positions)

	terms := make([]string, 0, len(positions))
	for _, pos := range positions {
		terms = append(terms, env[pos].String())
	}

	return strings.Join(terms, " ")
}

// CallMutations derives an Environment positionally from two aligned
// equal-length amino acid sequences: one mutation set per differing
// position, numbered from 1.
func CallMutations(reference, sample string) (Environment, error) {
	refResidues := []rune(reference)
	sampleResidues := []rune(sample)

	if len(refResidues) != len(sampleResidues) {
		return nil, fmt.Errorf("reference length was %d and sample length was %d", len(refResidues), len(sampleResidues))
	}

	env := make(Environment)

	for i, ref := range refResidues {
		alt := sampleResidues[i]
		if ref == alt {
			continue
		}

		if err := env.Add(NewMutationSet(ref, i+1, string(alt))); err != nil {
			return nil, err
		}
	}

	return env, nil
}
