package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdrm.dev/pkg/vdrm/internal/domain"
	"vdrm.dev/pkg/vdrm/internal/domain/asi"
	m "vdrm.dev/pkg/vdrm/internal/model"
)

func runEval(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newEvalCmd()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestEvalCmd_SingleRule(t *testing.T) {
	out := captureUI(t)

	err := runEval(t, "--rule", "SCORE FROM (41L => 15, 215FY => 20)", "41L", "T215Y")
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "score: 35")
	assert.Contains(t, output, "residues: 41L T215Y")
}

func TestEvalCmd_SingleRule_ParseError(t *testing.T) {
	captureUI(t)

	err := runEval(t, "--rule", "41L AND", "41L")
	require.Error(t, err)

	var parseErr *asi.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestEvalCmd_Bank(t *testing.T) {
	out := captureUI(t)
	store := captureReportStore(t)

	viper.Set(rulesFlagName, filepath.Join("testdata", "rules.yaml"))
	viper.Set(outputFlagName, ".test-reports")
	t.Cleanup(func() {
		viper.Set(rulesFlagName, defaultRulesFile)
		viper.Set(outputFlagName, defaultReportsDir)
	})

	err := runEval(t, "41L", "T215Y", "184V")
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{".test-reports"}, store.dirs)

	report := store.saved[0]
	assert.Equal(t, "ASI2", report.Algorithm)
	require.Len(t, report.Scores, 3)

	output := out.String()
	assert.Contains(t, output, "AZT")
	assert.Contains(t, output, "35")
	assert.Contains(t, output, "60")
}

func TestEvalCmd_Bank_JSONExport(t *testing.T) {
	captureUI(t)
	captureReportStore(t)

	viper.Set(rulesFlagName, filepath.Join("testdata", "rules.yaml"))
	t.Cleanup(func() { viper.Set(rulesFlagName, defaultRulesFile) })

	jsonPath := filepath.Join(t.TempDir(), "report.json")

	err := runEval(t, "--json", jsonPath, "41L", "T215Y")
	require.NoError(t, err)

	content, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var report m.Report
	require.NoError(t, json.Unmarshal(content, &report))
	assert.Equal(t, "ASI2", report.Algorithm)
	assert.Len(t, report.Scores, 3)
}

func TestEvalCmd_Bank_MissingRulesFile(t *testing.T) {
	captureUI(t)
	captureReportStore(t)

	viper.Set(rulesFlagName, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Cleanup(func() { viper.Set(rulesFlagName, defaultRulesFile) })

	err := runEval(t, "41L")
	require.Error(t, err)
}

func TestEvalCmd_ThreadsFromConfig(t *testing.T) {
	captureUI(t)
	captureReportStore(t)

	wf := &fakeWorkflow{alg: asi.ASI2()}
	originalNewWorkflow := newWorkflow
	newWorkflow = func(_ *asi.Algorithm) domain.Workflow { return wf }
	t.Cleanup(func() { newWorkflow = originalNewWorkflow })

	viper.Set(rulesFlagName, filepath.Join("testdata", "rules.yaml"))
	t.Cleanup(func() { viper.Set(rulesFlagName, defaultRulesFile) })

	err := runEval(t, "-p", "4", "41L")
	require.NoError(t, err)

	require.Len(t, wf.evalArgs, 1)
	assert.Equal(t, 4, wf.evalArgs[0].Threads)
	assert.Len(t, wf.evalArgs[0].Bank.Entries, 3)
}

func TestEvalCmd_InvalidMutation(t *testing.T) {
	captureUI(t)

	err := runEval(t, "--rule", "41L", "bogus")
	require.Error(t, err)
}

func TestBuildEnvironment_Sources(t *testing.T) {
	dir := t.TempDir()

	callsPath := filepath.Join(dir, "calls.txt")
	require.NoError(t, os.WriteFile(callsPath, []byte("67N # observed\n"), 0o644))

	refPath := filepath.Join(dir, "ref.fasta")
	require.NoError(t, os.WriteFile(refPath, []byte("> ref\nACDEF\n"), 0o644))

	samplePath := filepath.Join(dir, "sample.fasta")
	require.NoError(t, os.WriteFile(samplePath, []byte("> sample\nACDQF\n"), 0o644))

	evalCallsFlag = callsPath
	evalRefFlag = refPath
	evalSampleFlag = samplePath
	t.Cleanup(func() {
		evalCallsFlag = ""
		evalRefFlag = ""
		evalSampleFlag = ""
	})

	env, err := buildEnvironment([]string{"41L", "T215Y"})
	require.NoError(t, err)

	assert.Equal(t, "E4Q 41L 67N T215Y", env.String())
}

func TestBuildEnvironment_RefWithoutSample(t *testing.T) {
	evalRefFlag = "ref.fasta"
	t.Cleanup(func() { evalRefFlag = "" })

	_, err := buildEnvironment(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--ref and --sample")
}

func TestBuildEnvironment_Empty(t *testing.T) {
	env, err := buildEnvironment(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, env.Size())
}
