package amino

import "fmt"

// RuleSpec is the caller's input to Compile: an external id, the rule
// expression text, and any extra metadata keys (for example "ordering",
// consumed by first-match mode).
type RuleSpec struct {
	ID       string
	Rule     string
	Metadata map[string]any
}

// CompiledRule is one rule after parsing and type resolution: ready to
// evaluate against a cleaned decision.
type CompiledRule struct {
	ID         string
	ReturnType string
	Metadata   map[string]any
	root       RuleNode
}

// Eval runs the rule's evaluator tree over a decision. Any error or
// panic escaping a node is demoted to false, so one bad rule can never
// poison a batch.
func (r *CompiledRule) Eval(decision map[string]any, funcs map[string]RuleFunc) (result any) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()
	v, err := r.root.eval(decision, funcs)
	if err != nil {
		return false
	}
	return v
}

// compileRules parses every rule in order, enforcing id uniqueness.
// Loose-mode type warnings accumulate across the batch.
func compileRules(rules []RuleSpec, schema *SchemaRegistry, ops *OperatorRegistry, types *TypeRegistry, strict bool) ([]*CompiledRule, []string, error) {
	compiled := make([]*CompiledRule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	var warnings []string
	for _, spec := range rules {
		if seen[spec.ID] {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateRuleID, spec.ID)
		}
		seen[spec.ID] = true
		root, ruleWarnings, err := parseRule(spec.Rule, schema, ops, types, strict)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %q: %w", spec.ID, err)
		}
		for _, w := range ruleWarnings {
			warnings = append(warnings, fmt.Sprintf("rule %q: %s", spec.ID, w))
		}
		compiled = append(compiled, &CompiledRule{
			ID:         spec.ID,
			ReturnType: root.TypeName(),
			Metadata:   spec.Metadata,
			root:       root,
		})
	}
	return compiled, warnings, nil
}
