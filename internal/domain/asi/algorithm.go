package asi

import (
	"fmt"

	"vdrm.dev/pkg/vdrm/internal/model"
)

// DefaultMaxDepth bounds expression nesting at parse time, which in turn
// bounds evaluator and printer recursion on every parser-produced tree.
const DefaultMaxDepth = 100

// MapperFunc folds the numeric contributions of an aggregate's score
// items into one value. The evaluator never calls a mapper with an empty
// slice.
type MapperFunc func(values []float64) (float64, error)

// Algorithm binds a grammar dialect to its operator semantics: the
// registered mappers and the dialect options. It is built once, is
// immutable afterwards, and may be shared by any number of rules across
// goroutines.
type Algorithm struct {
	name            string
	mappers         map[string]MapperFunc
	allowLiterals   bool
	allowFlags      bool
	strictPositions bool
	maxDepth        int
}

// Option configures an Algorithm during construction.
type Option func(*Algorithm)

// WithMapper registers (or overrides) a named mapper.
func WithMapper(name string, fn MapperFunc) Option {
	return func(a *Algorithm) {
		a.mappers[name] = fn
	}
}

// WithMaxDepth bounds expression nesting.
func WithMaxDepth(depth int) Option {
	return func(a *Algorithm) {
		a.maxDepth = depth
	}
}

// WithBoolLiterals admits TRUE and FALSE conditions.
func WithBoolLiterals() Option {
	return func(a *Algorithm) {
		a.allowLiterals = true
	}
}

// WithFlagScores admits string flag weights (`=> "effect"`).
func WithFlagScores() Option {
	return func(a *Algorithm) {
		a.allowFlags = true
	}
}

// WithStrictPositions makes a rule position absent from the environment
// an evaluation error instead of a non-match.
func WithStrictPositions() Option {
	return func(a *Algorithm) {
		a.strictPositions = true
	}
}

// New builds an Algorithm with the stock MAX and MIN mappers plus the
// given options.
func New(name string, opts ...Option) *Algorithm {
	a := &Algorithm{
		name:     name,
		maxDepth: DefaultMaxDepth,
		mappers: map[string]MapperFunc{
			"MAX": MaxMapper,
			"MIN": MinMapper,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ASI2 is the Stanford HIVdb dialect: numeric weights only, missing
// positions evaluate as non-matches.
func ASI2() *Algorithm {
	return New("ASI2")
}

// HCVR is the HCV dialect: TRUE/FALSE literals, flag weights, strict
// position coverage, and the MEAN mapper.
func HCVR() *Algorithm {
	return New("HCVR",
		WithBoolLiterals(),
		WithFlagScores(),
		WithStrictPositions(),
		WithMapper("MEAN", MeanMapper),
	)
}

// Name returns the algorithm name.
func (a *Algorithm) Name() string {
	return a.name
}

// Mappers lists the registered mapper names.
func (a *Algorithm) Mappers() []string {
	names := make([]string, 0, len(a.mappers))
	for name := range a.mappers {
		names = append(names, name)
	}

	return names
}

// Parse compiles rule text into an immutable Rule. For any input it
// either returns exactly one Rule or an error with the offending
// position; it never returns a partial tree.
func (a *Algorithm) Parse(text string) (*Rule, error) {
	root, err := a.parse(text)
	if err != nil {
		return nil, err
	}

	return &Rule{alg: a, root: root, source: text}, nil
}

// Rule is one compiled rule: the owning algorithm, the syntax tree, and
// the original source text. Immutable once constructed.
type Rule struct {
	alg    *Algorithm
	root   Node
	source string
}

// Evaluate scores the rule against an environment. Boolean-mode rules
// yield boolean scores, SCORE FROM rules numeric ones; failures yield an
// error score so batch evaluation can continue.
func (r *Rule) Evaluate(env model.Environment) model.Score {
	return r.alg.evaluate(r.root, env)
}

// Algorithm returns the algorithm that parsed the rule.
func (r *Rule) Algorithm() *Algorithm {
	return r.alg
}

// Source returns the original rule text.
func (r *Rule) Source() string {
	return r.source
}

// Root returns the root of the syntax tree.
func (r *Rule) Root() Node {
	return r.root
}

// String renders the canonical form.
func (r *Rule) String() string {
	return Render(r.root)
}

// Equal is structural tree equality; source spelling is irrelevant.
func (r *Rule) Equal(other *Rule) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.root.Equal(other.root)
}

// MarshalJSON emits the interchange form.
func (r *Rule) MarshalJSON() ([]byte, error) {
	return ExportJSON(r.root)
}

// MaxMapper returns the largest contribution.
func MaxMapper(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptyAggregateError{Mapper: "MAX"}
	}

	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}

	return best, nil
}

// MinMapper returns the smallest contribution.
func MinMapper(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptyAggregateError{Mapper: "MIN"}
	}

	best := values[0]
	for _, v := range values[1:] {
		if v < best {
			best = v
		}
	}

	return best, nil
}

// MeanMapper returns the arithmetic mean of the contributions.
func MeanMapper(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptyAggregateError{Mapper: "MEAN"}
	}

	total := 0.0
	for _, v := range values {
		total += v
	}

	return total / float64(len(values)), nil
}

// ByName returns a stock algorithm by its configuration name.
func ByName(name string) (*Algorithm, error) {
	switch name {
	case "asi2", "ASI2":
		return ASI2(), nil
	case "hcvr", "HCVR":
		return HCVR(), nil
	}

	return nil, fmt.Errorf("unknown algorithm %q (want asi2 or hcvr)", name)
}
