package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	env, err := NewEnvironment("41L T215Y")
	require.NoError(t, err)

	report := NewReport("ASI2", env)

	assert.NotEmpty(t, report.ID)
	assert.False(t, report.CreatedAt.IsZero())
	assert.Equal(t, "ASI2", report.Algorithm)
	assert.Equal(t, "41L T215Y", report.Environment)

	other := NewReport("ASI2", env)
	assert.NotEqual(t, report.ID, other.ID, "every run gets its own ID")
}

func TestDrugScore_Flatten(t *testing.T) {
	score := DrugScore{
		Gene:     "RT",
		Drug:     "AZT",
		RuleText: "SCORE FROM (41L => 15)",
		Score: NumberScore(15,
			Mutation{Pos: 215, Variant: 'Y'},
			Mutation{Pos: 41, Variant: 'L'},
		),
	}
	score.Flatten()

	assert.Equal(t, "number", score.Kind)
	assert.Equal(t, 15.0, score.Value)
	require.Len(t, score.Residues, 2)
	assert.Equal(t, 41, score.Residues[0].Pos, "flattened residues come sorted")
	assert.Empty(t, score.Error)

	failed := DrugScore{Score: ErrorScore(errors.New("boom"))}
	failed.Flatten()
	assert.Equal(t, "error", failed.Kind)
	assert.Equal(t, "boom", failed.Error)
}

func TestDrugScore_JSONOmitsRawScore(t *testing.T) {
	score := DrugScore{Gene: "RT", Drug: "AZT", Score: NumberScore(15)}
	score.Flatten()

	content, err := json.Marshal(score)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.NotContains(t, decoded, "Score")
	assert.Equal(t, "number", decoded["kind"])
	assert.Equal(t, 15.0, decoded["value"])
}
