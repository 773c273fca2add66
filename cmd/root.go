// Package cmd provides the root command and CLI setup for vdrm.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vdrm.dev/pkg/vdrm/internal/adapter"
	"vdrm.dev/pkg/vdrm/internal/controller"
	"vdrm.dev/pkg/vdrm/internal/domain"
	"vdrm.dev/pkg/vdrm/internal/domain/asi"
)

var reportStore adapter.ReportStore
var ui controller.UI

// newWorkflow builds the Workflow behind a command run; tests swap it
// for a fake.
var newWorkflow = func(alg *asi.Algorithm) domain.Workflow {
	return domain.NewWorkflow(alg)
}

// rulesFileFlag is a root-level flag naming the rule bank file.
var rulesFileFlag string

// algorithmFlag selects the grammar dialect (ASI2 or HCVR).
var algorithmFlag string

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	reportStore = adapter.NewReportStore()
}

const mutationSyntaxHelp = `Mutations are written as wildtype, position, and observed variants:
  - L100T          leucine at 100 observed as threonine
  - 215FY          position 215 observed as F or Y (a mixture)
  - 69i 70d        insertion at 69, deletion at 70`

const rootLongDescription = `Vdrm interprets drug-resistance rule expressions in the ASI2 and HCVR
grammars, scoring them against the mutations observed in a sequence and
reporting per-drug results.

` + mutationSyntaxHelp

const evalLongDescription = `Evaluate a rule bank (or a single --rule expression) against the given
mutations and print per-drug scores.

` + mutationSyntaxHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vdrm",
		Short: "Drug resistance rule interpreter",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&rulesFileFlag, rulesFlagName, "r",
			viper.GetString(rulesFlagName),
			"rule bank file (YAML, one rule per gene/drug pair)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rulesFlagName), rulesFlagName)

	cmd.PersistentFlags().
		StringVarP(
			&algorithmFlag, algorithmFlagName, "a",
			viper.GetString(algorithmFlagName),
			"rule grammar dialect (ASI2 or HCVR)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(algorithmFlagName), algorithmFlagName)

	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for evaluation reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// resolveAlgorithm picks the grammar dialect: an explicit --algorithm
// flag wins, then the bank's declared algorithm, then the configured
// default.
func resolveAlgorithm(cmd *cobra.Command, bankAlgorithm string) (*asi.Algorithm, error) {
	name := viper.GetString(algorithmFlagName)
	if bankAlgorithm != "" && !cmd.Flags().Changed(algorithmFlagName) {
		name = bankAlgorithm
	}

	return asi.ByName(name)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
