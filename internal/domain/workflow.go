// Package domain contains the rule compilation and evaluation workflow.
package domain

import (
	"context"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"vdrm.dev/pkg/vdrm/internal/domain/asi"
	m "vdrm.dev/pkg/vdrm/internal/model"
	pkg "vdrm.dev/pkg/vdrm/pkg"
)

// CheckFinding reports one rule that failed validation.
type CheckFinding struct {
	Gene     string
	Drug     string
	RuleText string
	Err      error
}

// EvalArgs configures a batch evaluation of a rule bank against one
// environment.
type EvalArgs struct {
	Bank    m.RuleBank
	Env     m.Environment
	Threads int
}

// Workflow defines the rule operations behind the CLI commands.
type Workflow interface {
	// Compile parses one rule string, reusing the compiled-rule cache.
	Compile(ctx context.Context, text string) (*asi.Rule, error)
	// Check validates every rule in a bank; findings cover each rule's
	// first error.
	Check(ctx context.Context, bank m.RuleBank) ([]CheckFinding, error)
	// Evaluate scores a whole bank against an environment, in parallel
	// across drugs, continuing past per-rule failures.
	Evaluate(ctx context.Context, args EvalArgs) (m.Report, error)
}

type workflow struct {
	alg   *asi.Algorithm
	rules pkg.Cache[string, *asi.Rule]
}

// NewWorkflow creates a Workflow bound to one algorithm.
func NewWorkflow(alg *asi.Algorithm) Workflow {
	return &workflow{
		alg:   alg,
		rules: pkg.NewCache[string, *asi.Rule](),
	}
}

func (w *workflow) Compile(ctx context.Context, text string) (*asi.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := w.alg.Name() + "\x00" + text

	return w.rules.GetOrCompute(key, func() (*asi.Rule, error) {
		return w.alg.Parse(text)
	})
}

func (w *workflow) Check(ctx context.Context, bank m.RuleBank) ([]CheckFinding, error) {
	findings := make([]CheckFinding, 0)

	for _, entry := range bank.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := w.Compile(ctx, entry.Text); err != nil {
			findings = append(findings, CheckFinding{
				Gene:     entry.Gene,
				Drug:     entry.Drug,
				RuleText: entry.Text,
				Err:      err,
			})
		}
	}

	return findings, nil
}

func (w *workflow) Evaluate(ctx context.Context, args EvalArgs) (m.Report, error) {
	if len(args.Bank.Entries) == 0 {
		return m.Report{}, fmt.Errorf("rule bank is empty")
	}

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	report := m.NewReport(w.alg.Name(), args.Env)
	scores := make([]m.DrugScore, len(args.Bank.Entries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, entry := range args.Bank.Entries {
		i, entry := i, entry
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			scores[i] = w.evaluateEntry(groupCtx, entry, args.Env)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return m.Report{}, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Gene != scores[j].Gene {
			return scores[i].Gene < scores[j].Gene
		}

		return scores[i].Drug < scores[j].Drug
	})

	report.Scores = scores
	report.Summary = summarize(scores)

	return report, nil
}

// evaluateEntry scores one drug's rule. Parse and evaluation failures
// become error scores so the rest of the bank still evaluates.
func (w *workflow) evaluateEntry(ctx context.Context, entry m.RuleEntry, env m.Environment) m.DrugScore {
	result := m.DrugScore{Gene: entry.Gene, Drug: entry.Drug, RuleText: entry.Text}

	rule, err := w.Compile(ctx, entry.Text)
	if err != nil {
		result.Score = m.ErrorScore(err)
	} else {
		result.Score = rule.Evaluate(env)
	}

	result.Flatten()

	return result
}

func summarize(scores []m.DrugScore) m.Summary {
	summary := m.Summary{Evaluated: len(scores)}
	values := make([]float64, 0, len(scores))

	for _, score := range scores {
		switch score.Score.Kind {
		case m.ScoreError:
			summary.Failed++
		case m.ScoreNumber:
			values = append(values, score.Score.Value)
		case m.ScoreBoolean:
			// Boolean rules carry no magnitude; excluded from the
			// numeric summary.
		}
	}

	if len(values) == 0 {
		return summary
	}

	// stats errors only on empty input, which is excluded above.
	summary.Mean, _ = stats.Mean(values)
	summary.Median, _ = stats.Median(values)
	summary.Max, _ = stats.Max(values)

	return summary
}
