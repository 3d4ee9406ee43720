package amino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(t *testing.T, input string) []string {
	t.Helper()
	toks, err := tokenizeRule(input, nil)
	require.NoError(t, err)
	texts := make([]string, 0, len(toks)-1)
	for _, tok := range toks[:len(toks)-1] {
		texts = append(texts, tok.text)
	}
	return texts
}

func TestTokenizeBasicExpression(t *testing.T) {
	assert.Equal(t,
		[]string{"credit_score", "<", "600"},
		tokenTexts(t, "credit_score < 600"))
}

func TestTokenizeWhitespaceInvariant(t *testing.T) {
	spaced := tokenTexts(t, "a >= 1 and b != 'x'")
	packed := tokenTexts(t, "a>=1 and b!='x'")
	assert.Equal(t, spaced, packed)
}

func TestTokenizeFloatBeforeInt(t *testing.T) {
	toks, err := tokenizeRule("600.0 600 0.1", nil)
	require.NoError(t, err)
	assert.Equal(t, tokFloat, toks[0].kind)
	assert.Equal(t, 600.0, toks[0].floatVal)
	assert.Equal(t, tokInt, toks[1].kind)
	assert.Equal(t, int64(600), toks[1].intVal)
	assert.Equal(t, tokFloat, toks[2].kind)
	assert.Equal(t, 0.1, toks[2].floatVal)
}

func TestTokenizeNegativeNumbers(t *testing.T) {
	toks, err := tokenizeRule("-5 -2.5", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), toks[0].intVal)
	assert.Equal(t, -2.5, toks[1].floatVal)
}

func TestTokenizeGreedySymbols(t *testing.T) {
	assert.Equal(t, []string{"a", ">=", "b", "<=", "c", "!=", "d"},
		tokenTexts(t, "a>=b<=c!=d"))
}

func TestTokenizeDottedPath(t *testing.T) {
	assert.Equal(t, []string{"addr", ".", "geo", ".", "lat"},
		tokenTexts(t, "addr.geo.lat"))
}

func TestTokenizeString(t *testing.T) {
	toks, err := tokenizeRule("state = 'CA'", nil)
	require.NoError(t, err)
	assert.Equal(t, tokString, toks[2].kind)
	assert.Equal(t, "CA", toks[2].text)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := tokenizeRule("state = 'CA", nil)
	var parseErr *RuleParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTokenizeListLiteral(t *testing.T) {
	assert.Equal(t, []string{"state", "in", "[", "CA", ",", "NY", "]"},
		tokenTexts(t, "state in ['CA','NY']"))
}

func TestTokenizeCustomSymbol(t *testing.T) {
	toks, err := tokenizeRule("a %% b", []string{"%%"})
	require.NoError(t, err)
	assert.Equal(t, "%%", toks[1].text)
}

func TestTokenizeRejectsUnknownCharacter(t *testing.T) {
	_, err := tokenizeRule("a @ b", nil)
	var parseErr *RuleParseError
	require.ErrorAs(t, err, &parseErr)
}
