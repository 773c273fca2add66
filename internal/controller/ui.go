// Package controller provides output adapters for displaying rule
// evaluation results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vdrm.dev/pkg/vdrm/internal/domain"
	m "vdrm.dev/pkg/vdrm/internal/model"
)

// UI defines the interface for displaying evaluation output.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	// DisplayReport shows the per-drug scores and summary of a run.
	DisplayReport(ctx context.Context, report m.Report) error
	// DisplayScore shows the result of a single rule evaluation.
	DisplayScore(ctx context.Context, ruleText string, score m.Score) error
	// DisplayCheckFindings shows validation results for a rule bank.
	DisplayCheckFindings(ctx context.Context, checked int, findings []domain.CheckFinding) error
}

// IsTTY reports whether the file is an interactive terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewUI selects the TUI on interactive terminals and the simple printer
// otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}
