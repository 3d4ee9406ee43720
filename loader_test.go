package amino

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRulesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	doc := `[
		{"id": "a", "rule": "score > 0", "ordering": 2},
		{"id": "b", "rule": "score < 0", "ordering": 1, "owner": "fraud"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	specs, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "a", specs[0].ID)
	assert.Equal(t, "score > 0", specs[0].Rule)
	assert.Equal(t, "fraud", specs[1].Metadata["owner"])
	assert.NotContains(t, specs[1].Metadata, "id")
	assert.NotContains(t, specs[1].Metadata, "rule")
}

func TestLoadRulesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `- id: a
  rule: score > 0
  ordering: 1
- id: b
  rule: score < 0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	specs, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "score < 0", specs[1].Rule)
}

func TestLoadRulesUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err := LoadRules(path)
	require.ErrorIs(t, err, ErrUnsupportedRuleFile)
}

func TestUnmarshalRulesRejectsMissingKeys(t *testing.T) {
	_, err := UnmarshalRulesJSON([]byte(`[{"id": "a"}]`))
	require.Error(t, err)
	_, err = UnmarshalRulesJSON([]byte(`[{"rule": "score > 0"}]`))
	require.Error(t, err)
}

func TestDecodeDecisionNumberKinds(t *testing.T) {
	decision, err := DecodeDecision([]byte(`{
		"score": 600,
		"rate": 0.25,
		"tags": ["a", "b"],
		"nested": {"count": 3},
		"active": true
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(600), decision["score"])
	assert.Equal(t, 0.25, decision["rate"])
	nested := decision["nested"].(map[string]any)
	assert.Equal(t, int64(3), nested["count"])
	assert.Equal(t, true, decision["active"])
}

func TestDecodeDecisionFeedsValidator(t *testing.T) {
	engine, err := LoadSchema("score: Int\nrate: Float")
	require.NoError(t, err)

	decision, err := DecodeDecision([]byte(`{"score": 600, "rate": 0.5}`))
	require.NoError(t, err)

	result, err := engine.Eval(
		[]RuleSpec{{ID: "ok", Rule: "score >= 600 and rate < 1.0"}},
		decision, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, result.Matched)
	assert.Empty(t, result.Warnings)
}
