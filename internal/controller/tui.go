package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vdrm.dev/pkg/vdrm/internal/domain"
	m "vdrm.dev/pkg/vdrm/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// TUI implements UI with an interactive scrollable report view for
// results that overflow the terminal; short output prints directly.
type TUI struct {
	cmd    *cobra.Command
	simple *SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd, simple: NewSimpleUI(cmd)}
}

// DisplayReport shows the score table, paginating interactively when it
// does not fit the terminal.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := renderScoreTable(report) + renderSummary(report) + "\n"

	width, height := terminalSize(t.cmd.OutOrStdout())
	if height <= 0 || strings.Count(content, "\n")+3 <= height {
		_, err := fmt.Fprint(t.cmd.OutOrStdout(), "\n"+content)
		return err
	}

	model := newReportModel(report, content, width, height)

	program := tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayScore defers to the simple printer; single results never need
// pagination.
func (t *TUI) DisplayScore(ctx context.Context, ruleText string, score m.Score) error {
	return t.simple.DisplayScore(ctx, ruleText, score)
}

// DisplayCheckFindings highlights failing rules.
func (t *TUI) DisplayCheckFindings(ctx context.Context, checked int, findings []domain.CheckFinding) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(findings) == 0 {
		return t.simple.DisplayCheckFindings(ctx, checked, findings)
	}

	out := t.cmd.OutOrStdout()

	for _, finding := range findings {
		_, _ = fmt.Fprintf(out, "%s %v\n",
			failedStyle.Render(finding.Gene+"/"+finding.Drug+":"),
			finding.Err,
		)
	}

	_, _ = fmt.Fprintf(out, "%d of %d rule(s) failed\n", len(findings), checked)

	return nil
}

func terminalSize(out io.Writer) (int, int) {
	f, ok := out.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}

	return width, height
}

// reportModel is the Bubble Tea model paging a rendered report.
type reportModel struct {
	title    string
	viewport viewport.Model
	quitting bool
}

func newReportModel(report m.Report, content string, width, height int) reportModel {
	if width <= 0 {
		width = 80
	}

	if height <= 0 {
		height = 24
	}

	vp := viewport.New(width, height-2)
	vp.SetContent(content)

	return reportModel{
		title:    fmt.Sprintf("vdrm %s · %d drugs", report.Algorithm, len(report.Scores)),
		viewport: vp,
	}
}

// Init implements tea.Model.
func (rm reportModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.viewport.Width = msg.Width
		rm.viewport.Height = msg.Height - 2

		return rm, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			rm.quitting = true
			return rm, tea.Quit
		}
	}

	var cmd tea.Cmd
	rm.viewport, cmd = rm.viewport.Update(msg)

	return rm, cmd
}

// View implements tea.Model.
func (rm reportModel) View() string {
	if rm.quitting {
		return ""
	}

	return titleStyle.Render(rm.title) + "\n" +
		rm.viewport.View() + "\n" +
		helpStyle.Render("↑/↓ scroll · q quit")
}
