package amino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetI18nLoadsLocales(t *testing.T) {
	bundle, err := GetI18n()
	require.NoError(t, err)
	require.NotNil(t, bundle.NewLocalizer("en"))
}

func TestLocalizeFallsBackWithoutLocalizer(t *testing.T) {
	issue := NewValidationIssue("required", "score",
		"required field {field} is missing", map[string]any{"field": "score"})
	assert.Equal(t, "required field score is missing", issue.Localize(nil))
}

func TestLocalizeUsesLocalizer(t *testing.T) {
	bundle, err := GetI18n()
	require.NoError(t, err)
	localizer := bundle.NewLocalizer("en")

	issue := NewValidationIssue("type", "score",
		"field {field} expects {expected}, got {got}",
		map[string]any{"field": "score", "expected": TypeInt, "got": TypeStr})
	message := issue.Localize(localizer)
	assert.Contains(t, message, "score")
	assert.Contains(t, message, TypeInt)
}

func TestEngineLocalizedWarnings(t *testing.T) {
	bundle, err := GetI18n()
	require.NoError(t, err)

	engine, err := LoadSchema("score: Int", WithLocalizer(bundle.NewLocalizer("en")))
	require.NoError(t, err)

	result, err := engine.Eval(
		[]RuleSpec{{ID: "r", Rule: "score > 0"}},
		map[string]any{"score": "bad"},
		nil,
	)
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "score")
	assert.Contains(t, result.Warnings[0], TypeInt)
}
