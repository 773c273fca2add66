package cmd

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vdrm.dev/pkg/vdrm/internal/adapter"
	"vdrm.dev/pkg/vdrm/internal/domain/asi"
)

var fmtDiffFlag bool
var fmtJSONFlag bool

// fmtCmd represents the fmt command.
var fmtCmd = newFmtCmd()

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [rule]",
		Short: "Print the canonical form of rules",
		Long: `Parse a rule expression (or every rule in the configured bank) and print
its canonical rendering. The canonical form parses back to the same
expression tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := resolveAlgorithm(cmd, "")
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return fmtRule(cmd, alg, "", args[0])
			}

			return fmtRuleBank(cmd)
		},
	}

	cmd.Flags().BoolVar(&fmtDiffFlag, "diff", false, "show a unified diff between source and canonical form")
	cmd.Flags().BoolVar(&fmtJSONFlag, "json", false, "print the expression tree as JSON instead of rule text")

	return cmd
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}

func fmtRule(cmd *cobra.Command, alg *asi.Algorithm, label, text string) error {
	rule, err := newWorkflow(alg).Compile(cmd.Context(), text)
	if err != nil {
		if label != "" {
			return fmt.Errorf("%s: %w", label, err)
		}

		return err
	}

	if fmtJSONFlag {
		content, err := asi.ExportJSON(rule.Root())
		if err != nil {
			return err
		}

		cmd.Println(string(content))

		return nil
	}

	if fmtDiffFlag {
		return printRuleDiff(cmd, label, rule)
	}

	if label != "" {
		cmd.Printf("%s: %s\n", label, rule.String())
		return nil
	}

	cmd.Println(rule.String())

	return nil
}

func fmtRuleBank(cmd *cobra.Command) error {
	bank, err := adapter.LoadRuleBank(viper.GetString(rulesFlagName))
	if err != nil {
		return err
	}

	alg, err := resolveAlgorithm(cmd, bank.Algorithm)
	if err != nil {
		return err
	}

	for _, entry := range bank.Entries {
		if err := fmtRule(cmd, alg, entry.Gene+"/"+entry.Drug, entry.Text); err != nil {
			return err
		}
	}

	return nil
}

func printRuleDiff(cmd *cobra.Command, label string, rule *asi.Rule) error {
	source := rule.Source()
	canonical := rule.String()

	if source == canonical {
		return nil
	}

	fromFile := "source"
	if label != "" {
		fromFile = label
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(source),
		B:        difflib.SplitLines(canonical),
		FromFile: fromFile,
		ToFile:   "canonical",
		Context:  1,
	})
	if err != nil {
		return err
	}

	cmd.Print(text)

	return nil
}
