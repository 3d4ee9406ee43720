package amino

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// LoadRules reads a rule document from a JSON or YAML file, selected by
// extension. The document is a list of objects with "id" and "rule"
// keys; every other key becomes rule metadata.
func LoadRules(path string) ([]RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return UnmarshalRulesJSON(data)
	case ".yaml", ".yml":
		return UnmarshalRulesYAML(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedRuleFile, path)
}

// UnmarshalRulesJSON parses a JSON rule document.
func UnmarshalRulesJSON(data []byte) ([]RuleSpec, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return specsFromMaps(raw)
}

// UnmarshalRulesYAML parses a YAML rule document.
func UnmarshalRulesYAML(data []byte) ([]RuleSpec, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return specsFromMaps(raw)
}

func specsFromMaps(raw []map[string]any) ([]RuleSpec, error) {
	specs := make([]RuleSpec, 0, len(raw))
	for i, entry := range raw {
		id, _ := entry["id"].(string)
		rule, _ := entry["rule"].(string)
		if id == "" || rule == "" {
			return nil, fmt.Errorf("rule entry %d: missing id or rule", i)
		}
		metadata := make(map[string]any)
		for key, value := range entry {
			if key != "id" && key != "rule" {
				metadata[key] = value
			}
		}
		specs = append(specs, RuleSpec{ID: id, Rule: rule, Metadata: metadata})
	}
	return specs, nil
}

// DecodeDecision parses a JSON object into the decision map the
// evaluator consumes. Integral numbers decode as int64 and fractional
// ones as float64, so the validator's exact type checks see the kinds
// the schema declares.
func DecodeDecision(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	normalized := normalizeNumbers(raw)
	return normalized.(map[string]any), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for key, value := range t {
			t[key] = normalizeNumbers(value)
		}
		return t
	case []any:
		for i, value := range t {
			t[i] = normalizeNumbers(value)
		}
		return t
	}
	return v
}
