package amino

import "github.com/kaptinlin/go-i18n"

// CompiledRuleSet is an ordered list of compiled rules bound to a match
// configuration, the engine's function map, and a decision validator.
// It borrows the engine's registries and never mutates them; multiple
// sets may coexist per engine, and a set is read-only after
// construction.
type CompiledRuleSet struct {
	rules     []*CompiledRule
	match     *MatchConfig
	funcs     map[string]RuleFunc
	validator *DecisionValidator
	localizer *i18n.Localizer

	// compileWarnings holds loose rules-mode findings; they surface on
	// every MatchResult produced by this set.
	compileWarnings []string
}

// Rules returns the compiled rules in declaration order.
func (s *CompiledRuleSet) Rules() []*CompiledRule {
	return s.rules
}

// Warnings returns the loose-mode compile warnings for this set.
func (s *CompiledRuleSet) Warnings() []string {
	return s.compileWarnings
}

// EvalSingle validates one decision and runs every rule over the
// cleaned record, aggregating outcomes per the match configuration. In
// strict decisions mode a schema violation returns a
// DecisionValidationError; in loose mode violations become warnings on
// the result.
func (s *CompiledRuleSet) EvalSingle(decision map[string]any) (*MatchResult, error) {
	cleaned, issues, err := s.validator.Validate(decision)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ruleOutcome, len(s.rules))
	for i, rule := range s.rules {
		outcomes[i] = ruleOutcome{
			rule:  rule,
			value: rule.Eval(cleaned, s.funcs),
			order: i,
		}
	}

	result := aggregate(outcomes, s.match)
	result.ID = decision["id"]
	result.Warnings = append(result.Warnings, s.compileWarnings...)
	for _, issue := range issues {
		result.Warnings = append(result.Warnings, issue.Localize(s.localizer))
	}
	return result, nil
}

// Eval maps EvalSingle over a batch of decisions.
func (s *CompiledRuleSet) Eval(decisions []map[string]any) ([]*MatchResult, error) {
	results := make([]*MatchResult, 0, len(decisions))
	for _, decision := range decisions {
		result, err := s.EvalSingle(decision)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
