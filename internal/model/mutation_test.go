package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMutation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Mutation
	}{
		{"with wildtype", "S282N", Mutation{Wildtype: 'S', Pos: 282, Variant: 'N'}},
		{"without wildtype", "101P", Mutation{Pos: 101, Variant: 'P'}},
		{"insertion", "69i", Mutation{Pos: 69, Variant: Insertion}},
		{"deletion", "T70d", Mutation{Wildtype: 'T', Pos: 70, Variant: Deletion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMutation(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMutation_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no position", "ST"},
		{"mixture not allowed", "215FY"},
		{"position zero", "0T"},
		{"lowercase wildtype", "s282N"},
		{"trailing garbage", "S282N!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMutation(tt.text)
			require.Error(t, err)
		})
	}
}

func TestMutation_String(t *testing.T) {
	assert.Equal(t, "S282N", Mutation{Wildtype: 'S', Pos: 282, Variant: 'N'}.String())
	assert.Equal(t, "101P", Mutation{Pos: 101, Variant: 'P'}.String())
	assert.Equal(t, "69i", Mutation{Pos: 69, Variant: Insertion}.String())
}

func TestMutation_Equal(t *testing.T) {
	a := Mutation{Wildtype: 'S', Pos: 282, Variant: 'N'}
	b := Mutation{Pos: 282, Variant: 'N'}

	equal, err := a.Equal(b)
	require.NoError(t, err)
	assert.True(t, equal, "undeclared wildtype still compares")

	equal, err = a.Equal(Mutation{Wildtype: 'S', Pos: 282, Variant: 'T'})
	require.NoError(t, err)
	assert.False(t, equal)

	equal, err = a.Equal(Mutation{Wildtype: 'S', Pos: 283, Variant: 'N'})
	require.NoError(t, err)
	assert.False(t, equal)

	_, err = a.Equal(Mutation{Wildtype: 'T', Pos: 282, Variant: 'N'})
	require.Error(t, err, "conflicting wildtypes at the same position")
}

func TestParseMutationSet(t *testing.T) {
	set, err := ParseMutationSet("215FY")
	require.NoError(t, err)
	assert.Equal(t, 215, set.Pos)
	assert.True(t, set.Contains('F'))
	assert.True(t, set.Contains('Y'))
	assert.False(t, set.Contains('T'))

	set, err = ParseMutationSet("L100TS")
	require.NoError(t, err)
	assert.Equal(t, 'L', set.Wildtype)
	assert.Len(t, set.Variants, 2)

	set, err = ParseMutationSet("S40")
	require.NoError(t, err)
	assert.Empty(t, set.Variants, "wildtype-only term carries no variants")
}

func TestParseMutationSet_Errors(t *testing.T) {
	_, err := ParseMutationSet("40")
	require.Error(t, err, "neither wildtype nor variants")

	_, err = ParseMutationSet("not a mutation")
	require.Error(t, err)

	_, err = ParseMutationSet("0T")
	require.Error(t, err)
}

func TestMutationSet_Mutations(t *testing.T) {
	set := NewMutationSet('T', 215, "YF")
	mutations := set.Mutations()

	require.Len(t, mutations, 2)
	assert.Equal(t, Mutation{Wildtype: 'T', Pos: 215, Variant: 'F'}, mutations[0], "sorted by variant")
	assert.Equal(t, Mutation{Wildtype: 'T', Pos: 215, Variant: 'Y'}, mutations[1])
}

func TestMutationSet_Intersect(t *testing.T) {
	rule := NewMutationSet(0, 215, "FY")
	observed := NewMutationSet('T', 215, "YC")

	shared := observed.Intersect(rule)
	require.Len(t, shared, 1)
	assert.Equal(t, Mutation{Wildtype: 'T', Pos: 215, Variant: 'Y'}, shared[0])

	assert.Empty(t, observed.Intersect(NewMutationSet(0, 216, "Y")), "different positions never intersect")
}

func TestMutationSet_String(t *testing.T) {
	assert.Equal(t, "T215FY", NewMutationSet('T', 215, "YF").String(), "variants sorted")
	assert.Equal(t, "41L", NewMutationSet(0, 41, "L").String())
}

func TestMutationSet_Equal(t *testing.T) {
	equal, err := NewMutationSet('T', 215, "FY").Equal(NewMutationSet(0, 215, "YF"))
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = NewMutationSet('T', 215, "FY").Equal(NewMutationSet('T', 215, "F"))
	require.NoError(t, err)
	assert.False(t, equal)

	_, err = NewMutationSet('T', 215, "F").Equal(NewMutationSet('S', 215, "F"))
	require.Error(t, err)
}

func TestNewEnvironment(t *testing.T) {
	env, err := NewEnvironment("41L 67N 215FY")
	require.NoError(t, err)

	assert.Equal(t, 4, env.Size())

	set, ok := env.At(215)
	require.True(t, ok)
	assert.True(t, set.Contains('F'))
	assert.True(t, set.Contains('Y'))

	_, ok = env.At(70)
	assert.False(t, ok)
}

func TestNewEnvironment_Empty(t *testing.T) {
	env, err := NewEnvironment("")
	require.NoError(t, err)
	assert.Equal(t, 0, env.Size())
}

func TestNewEnvironment_Invalid(t *testing.T) {
	_, err := NewEnvironment("41L bogus")
	require.Error(t, err)
}

func TestEnvironment_Add_MergesPositions(t *testing.T) {
	env, err := NewEnvironment("215F")
	require.NoError(t, err)

	require.NoError(t, env.Add(NewMutationSet('T', 215, "Y")))
	require.NoError(t, env.Add(NewMutationSet(0, 215, "F")), "re-adding an existing pair is not an error")

	set, ok := env.At(215)
	require.True(t, ok)
	assert.Equal(t, 'T', set.Wildtype)
	assert.Len(t, set.Variants, 2)
	assert.Equal(t, 2, env.Size())
}

func TestEnvironment_Add_WildtypeMismatch(t *testing.T) {
	env, err := NewEnvironment("T215F")
	require.NoError(t, err)

	err = env.Add(NewMutationSet('S', 215, "Y"))
	require.Error(t, err)
}

func TestEnvironment_String(t *testing.T) {
	env, err := NewEnvironment("215FY 41L 67N")
	require.NoError(t, err)

	assert.Equal(t, "41L 67N 215FY", env.String(), "ordered by position")
}

func TestCallMutations(t *testing.T) {
	env, err := CallMutations("ACDEF", "ACDQF")
	require.NoError(t, err)

	require.Equal(t, 1, env.Size())
	set, ok := env.At(4)
	require.True(t, ok)
	assert.Equal(t, 'E', set.Wildtype)
	assert.True(t, set.Contains('Q'))
}

func TestCallMutations_Identical(t *testing.T) {
	env, err := CallMutations("ACDEF", "ACDEF")
	require.NoError(t, err)
	assert.Equal(t, 0, env.Size())
}

func TestCallMutations_LengthMismatch(t *testing.T) {
	_, err := CallMutations("ACDEF", "ACDE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}
