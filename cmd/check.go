package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vdrm.dev/pkg/vdrm/internal/adapter"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [bank-files...]",
		Short: "Validate rule bank files",
		Long: `Parse every rule in the given rule bank files (default: the configured
rules file) and report the ones that do not compile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				files = []string{viper.GetString(rulesFlagName)}
			}

			failed := 0

			for _, file := range files {
				bank, err := adapter.LoadRuleBank(file)
				if err != nil {
					return err
				}

				alg, err := resolveAlgorithm(cmd, bank.Algorithm)
				if err != nil {
					return err
				}

				findings, err := newWorkflow(alg).Check(cmd.Context(), bank)
				if err != nil {
					return err
				}

				if err := ui.DisplayCheckFindings(cmd.Context(), len(bank.Entries), findings); err != nil {
					return err
				}

				failed += len(findings)
			}

			if failed > 0 {
				return fmt.Errorf("%d rule(s) failed validation", failed)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
