// Package amino is a schema-first classification rules engine. A typed
// schema grounds every rule: fields, structs, function signatures and
// custom types are declared in a small schema language, rules are
// written in a separate expression language and compiled against the
// schema, and compiled rule sets evaluate incoming decision records
// into structured match results.
//
// Basic usage:
//
//	engine, err := amino.LoadSchema("credit_score: Int")
//	if err != nil {
//		...
//	}
//	result, err := engine.Eval(
//		[]amino.RuleSpec{{ID: "decline", Rule: "credit_score < 600"}},
//		map[string]any{"credit_score": int64(580)},
//		nil,
//	)
//
// An engine freezes on its first Compile or Eval; register custom
// types, operators and functions before that point. Compiled rule sets
// are read-only and may be shared; hot swaps go through UpdateRules.
package amino
