package asi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []token) []tokenType {
	types := make([]tokenType, 0, len(tokens))
	for _, t := range tokens {
		types = append(types, t.typ)
	}

	return types
}

func TestLex_TokenTypes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []tokenType
	}{
		{"residue with wildtype", "L100T", []tokenType{tokMutation, tokEOF}},
		{"residue mixture", "215FY", []tokenType{tokMutation, tokEOF}},
		{"insertion", "69i", []tokenType{tokMutation, tokEOF}},
		{"deletion", "70d", []tokenType{tokMutation, tokEOF}},
		{"keyword", "SELECT", []tokenType{tokWord, tokEOF}},
		{"integer", "10", []tokenType{tokNumber, tokEOF}},
		{"decimal", "2.5", []tokenType{tokNumber, tokEOF}},
		{"negative weight", "-10", []tokenType{tokMinus, tokNumber, tokEOF}},
		{"arrow", "=>", []tokenType{tokArrow, tokEOF}},
		{"flag string", `"effect"`, []tokenType{tokString, tokEOF}},
		{
			"score item",
			"SCORE FROM (65R => 10)",
			[]tokenType{tokWord, tokWord, tokLParen, tokMutation, tokArrow, tokNumber, tokRParen, tokEOF},
		},
		{
			"select statement",
			"SELECT ATLEAST 2 FROM (41L, 67N)",
			[]tokenType{tokWord, tokWord, tokNumber, tokWord, tokLParen, tokMutation, tokComma, tokMutation, tokRParen, tokEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokenTypes(tokens))
		})
	}
}

func TestLex_MutationVersusWord(t *testing.T) {
	tokens, err := lex("MAX L100T")
	require.NoError(t, err)

	require.Len(t, tokens, 3)
	assert.Equal(t, tokWord, tokens[0].typ)
	assert.Equal(t, "MAX", tokens[0].text)
	assert.Equal(t, tokMutation, tokens[1].typ)
	assert.Equal(t, "L100T", tokens[1].text)
}

func TestLex_StringContents(t *testing.T) {
	tokens, err := lex(`41L => "effect 1"`)
	require.NoError(t, err)

	require.Len(t, tokens, 4)
	assert.Equal(t, tokString, tokens[2].typ)
	assert.Equal(t, "effect 1", tokens[2].text, "quotes stripped")
}

func TestLex_Positions(t *testing.T) {
	tokens, err := lex("41L AND\n67N")
	require.NoError(t, err)

	require.Len(t, tokens, 4)

	assert.Equal(t, 1, tokens[0].line)
	assert.Equal(t, 1, tokens[0].col)
	assert.Equal(t, 5, tokens[1].col)
	assert.Equal(t, 2, tokens[2].line)
	assert.Equal(t, 1, tokens[2].col)
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"stray character", "41L @ 67N"},
		{"bare equals", "41L = 10"},
		{"unterminated string", `41L => "effect`},
		{"lowercase word", "select 41L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex(tt.text)
			require.Error(t, err)
			assert.Nil(t, tokens)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Positive(t, parseErr.Line)
			assert.Positive(t, parseErr.Col)
		})
	}
}
