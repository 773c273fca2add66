package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vdrm.dev/pkg/vdrm/internal/adapter"
	"vdrm.dev/pkg/vdrm/internal/domain"
	m "vdrm.dev/pkg/vdrm/internal/model"
)

var evalParallelFlag int
var evalRuleFlag string
var evalCallsFlag string
var evalRefFlag string
var evalSampleFlag string
var evalXLSXFlag string
var evalJSONFlag string

// evalCmd represents the eval command.
var evalCmd = newEvalCmd()

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [mutations...]",
		Short: "Evaluate resistance rules against observed mutations",
		Long:  evalLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnvironment(args)
			if err != nil {
				return err
			}

			if evalRuleFlag != "" {
				return evalSingleRule(cmd, evalRuleFlag, env)
			}

			return evalRuleBank(cmd, env)
		},
	}

	configureEvalFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func configureEvalFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&evalParallelFlag, evalParallelFlagName, "p", viper.GetInt(evalParallelConfigKey), "number of parallel workers for bank evaluation")
	bindFlagToConfig(cmd.Flags().Lookup(evalParallelFlagName), evalParallelConfigKey)
	cmd.Flags().StringVar(&evalRuleFlag, "rule", "", "evaluate a single rule expression instead of the rule bank")
	cmd.Flags().StringVar(&evalCallsFlag, "calls", "", "file of whitespace-separated mutation calls")
	cmd.Flags().StringVar(&evalRefFlag, "ref", "", "reference sequence (FASTA or plain text)")
	cmd.Flags().StringVar(&evalSampleFlag, "sample", "", "sample sequence to call mutations against --ref")
	cmd.Flags().StringVar(&evalXLSXFlag, "xlsx", "", "also export the report as an XLSX workbook at the given path")
	cmd.Flags().StringVar(&evalJSONFlag, "json", "", "also write the report as JSON at the given path")
}

func evalSingleRule(cmd *cobra.Command, text string, env m.Environment) error {
	alg, err := resolveAlgorithm(cmd, "")
	if err != nil {
		return err
	}

	rule, err := newWorkflow(alg).Compile(cmd.Context(), text)
	if err != nil {
		return err
	}

	return ui.DisplayScore(cmd.Context(), rule.String(), rule.Evaluate(env))
}

func evalRuleBank(cmd *cobra.Command, env m.Environment) error {
	bank, err := adapter.LoadRuleBank(viper.GetString(rulesFlagName))
	if err != nil {
		return err
	}

	alg, err := resolveAlgorithm(cmd, bank.Algorithm)
	if err != nil {
		return err
	}

	report, err := newWorkflow(alg).Evaluate(cmd.Context(), domain.EvalArgs{
		Bank:    bank,
		Env:     env,
		Threads: viper.GetInt(evalParallelConfigKey),
	})
	if err != nil {
		return err
	}

	if _, err := reportStore.Save(report, viper.GetString(outputFlagName)); err != nil {
		return err
	}

	if evalXLSXFlag != "" {
		if err := adapter.ExportExcel(report, evalXLSXFlag); err != nil {
			return err
		}
	}

	if evalJSONFlag != "" {
		content, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}

		if err := os.WriteFile(evalJSONFlag, content, 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", evalJSONFlag, err)
		}
	}

	return ui.DisplayReport(cmd.Context(), report)
}

// buildEnvironment merges the mutation sources a run may combine:
// inline arguments, a calls file, and a reference/sample pair.
func buildEnvironment(args []string) (m.Environment, error) {
	env, err := m.NewEnvironment(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}

	if evalCallsFlag != "" {
		calls, err := adapter.ReadCallsFile(evalCallsFlag)
		if err != nil {
			return nil, err
		}

		if err := mergeEnvironment(env, calls); err != nil {
			return nil, err
		}
	}

	if (evalRefFlag == "") != (evalSampleFlag == "") {
		return nil, fmt.Errorf("--ref and --sample must be given together")
	}

	if evalRefFlag != "" {
		called, err := adapter.CallMutationFiles(evalRefFlag, evalSampleFlag)
		if err != nil {
			return nil, err
		}

		if err := mergeEnvironment(env, called); err != nil {
			return nil, err
		}
	}

	return env, nil
}

func mergeEnvironment(dst, src m.Environment) error {
	for _, set := range src {
		if err := dst.Add(set); err != nil {
			return err
		}
	}

	return nil
}
