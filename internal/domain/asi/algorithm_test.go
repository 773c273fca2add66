package asi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdrm.dev/pkg/vdrm/internal/model"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"asi2", "ASI2"},
		{"ASI2", "ASI2"},
		{"hcvr", "HCVR"},
		{"HCVR", "HCVR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, err := ByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, alg.Name())
		})
	}

	_, err := ByName("asi3")
	require.Error(t, err)
}

func TestAlgorithm_Mappers(t *testing.T) {
	assert.ElementsMatch(t, []string{"MAX", "MIN"}, ASI2().Mappers())
	assert.ElementsMatch(t, []string{"MAX", "MIN", "MEAN"}, HCVR().Mappers())
}

func TestAlgorithm_CustomMapper(t *testing.T) {
	product := func(values []float64) (float64, error) {
		total := 1.0
		for _, v := range values {
			total *= v
		}

		return total, nil
	}

	alg := New("custom", WithMapper("PRODUCT", product))

	rule := mustParse(t, alg, "SCORE FROM (PRODUCT (41L => 3, 67N => 4))")
	score := rule.Evaluate(env(t, "41L 67N"))

	require.Equal(t, model.ScoreNumber, score.Kind)
	assert.Equal(t, 12.0, score.Value)
}

func TestRule_Accessors(t *testing.T) {
	alg := ASI2()
	rule := mustParse(t, alg, "41L  AND  67N")

	assert.Equal(t, "41L  AND  67N", rule.Source())
	assert.Equal(t, "41L AND 67N", rule.String())
	assert.Same(t, alg, rule.Algorithm())
	assert.NotNil(t, rule.Root())
}

func TestRule_Equal(t *testing.T) {
	a := mustParse(t, ASI2(), "41L AND 67N")
	b := mustParse(t, ASI2(), "((41L) AND (67N))")
	c := mustParse(t, ASI2(), "41L OR 67N")

	assert.True(t, a.Equal(b), "spelling is irrelevant")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestRule_MarshalJSON(t *testing.T) {
	rule := mustParse(t, ASI2(), "41L")

	content, err := rule.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(content), `"kind": "residue"`)
	assert.Contains(t, string(content), `"pattern": "41L"`)
}

func TestMappers(t *testing.T) {
	v, err := MaxMapper([]float64{5, 20, 15})
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	v, err = MinMapper([]float64{5, 20, 15})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = MeanMapper([]float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)

	for _, mapper := range []MapperFunc{MaxMapper, MinMapper, MeanMapper} {
		_, err := mapper(nil)
		require.Error(t, err)
	}
}

func TestAlgorithm_SharedAcrossRules(t *testing.T) {
	alg := ASI2()
	environment := env(t, "41L 67N")

	first := mustParse(t, alg, "SCORE FROM (41L => 15)")
	second := mustParse(t, alg, "SCORE FROM (67N => 20)")

	assert.Equal(t, 15.0, first.Evaluate(environment).Value)
	assert.Equal(t, 20.0, second.Evaluate(environment).Value)
	assert.Equal(t, 15.0, first.Evaluate(environment).Value, "rules stay independent")
}
