package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"vdrm.dev/pkg/vdrm/internal/domain"
	m "vdrm.dev/pkg/vdrm/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayReport prints the score table and run summary.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderScoreTable(report))
	s.printf("%s\n", renderSummary(report))

	return nil
}

// DisplayScore prints a single rule's result.
func (s *SimpleUI) DisplayScore(ctx context.Context, ruleText string, score m.Score) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("rule:  %s\n", ruleText)
	s.printf("score: %s\n", score)

	if residues := formatResidues(score); residues != "" {
		s.printf("residues: %s\n", residues)
	}

	for flag, support := range score.Flags {
		s.printf("flag: %s (%d supporting)\n", flag, len(support))
	}

	return nil
}

// DisplayCheckFindings prints validation diagnostics, one per failing
// rule.
func (s *SimpleUI) DisplayCheckFindings(ctx context.Context, checked int, findings []domain.CheckFinding) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(findings) == 0 {
		s.printf("%d rule(s) OK\n", checked)
		return nil
	}

	for _, finding := range findings {
		s.printf("%s/%s: %v\n", finding.Gene, finding.Drug, finding.Err)
	}

	s.printf("%d of %d rule(s) failed\n", len(findings), checked)

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderScoreTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Gene", "Drug", "Score", "Residues"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, score := range report.Scores {
		table.Append([]string{score.Gene, score.Drug, score.Score.String(), formatResidues(score.Score)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Drugs %d", len(report.Scores)),
		"",
		fmt.Sprintf("max %s", trimFloat(report.Summary.Max)),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func renderSummary(report m.Report) string {
	return fmt.Sprintf("run %s: %d evaluated, %d failed, mean %s, median %s",
		report.ID,
		report.Summary.Evaluated,
		report.Summary.Failed,
		trimFloat(report.Summary.Mean),
		trimFloat(report.Summary.Median),
	)
}

func formatResidues(score m.Score) string {
	residues := score.SortedResidues()
	parts := make([]string, 0, len(residues))

	for _, residue := range residues {
		parts = append(parts, residue.String())
	}

	return strings.Join(parts, " ")
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
