package amino

import (
	"fmt"
	"sort"
	"strings"
)

// Fixity is the syntactic role of an operator token.
type Fixity int

const (
	Infix Fixity = iota
	Prefix
	Postfix
)

func (f Fixity) String() string {
	switch f {
	case Prefix:
		return "prefix"
	case Postfix:
		return "postfix"
	default:
		return "infix"
	}
}

// Wildcard is the input-type sentinel matching any operand type.
const Wildcard = "*"

// OpFunc implements an operator over already-evaluated operand values.
type OpFunc func(args ...any) (any, error)

// OperatorDef describes one operator overload. A token may carry several
// definitions distinguished by their input type tuples; all definitions
// of a token share one binding power and fixity.
type OperatorDef struct {
	Token        string
	Keyword      bool // keyword token (and, in, contains) vs symbol (>=, =)
	Kind         Fixity
	BindingPower int
	RightAssoc   bool
	InputTypes   []string
	ReturnType   string
	Fn           OpFunc
}

// OperatorRegistry holds operator definitions keyed by token, with type
// dispatch across overloads of the same token.
type OperatorRegistry struct {
	defs map[string][]*OperatorDef
}

// NewOperatorRegistry creates a registry holding the given definitions.
func NewOperatorRegistry(defs []*OperatorDef) (*OperatorRegistry, error) {
	r := &OperatorRegistry{defs: make(map[string][]*OperatorDef)}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an operator definition. It rejects a duplicate of the
// same token and exact input tuple, and any definition whose binding
// power or fixity disagrees with existing definitions of the token.
func (r *OperatorRegistry) Register(def *OperatorDef) error {
	existing := r.defs[def.Token]
	for _, prior := range existing {
		if prior.BindingPower != def.BindingPower || prior.Kind != def.Kind {
			return &OperatorConflictError{ErrorDetail{
				Message:  fmt.Sprintf("operator %q definitions must share binding power and fixity", def.Token),
				Expected: fmt.Sprintf("power %d %s", prior.BindingPower, prior.Kind),
				Got:      fmt.Sprintf("power %d %s", def.BindingPower, def.Kind),
			}}
		}
		if sameTypes(prior.InputTypes, def.InputTypes) {
			return &OperatorConflictError{ErrorDetail{
				Message: fmt.Sprintf("operator %q already registered for (%s)",
					def.Token, strings.Join(def.InputTypes, ", ")),
			}}
		}
	}
	r.defs[def.Token] = append(existing, def)
	return nil
}

func sameTypes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Has reports whether any definition exists for the token.
func (r *OperatorRegistry) Has(token string) bool {
	return len(r.defs[token]) > 0
}

// BindingPower returns the token's left binding power. All definitions
// of a token share it, enforced at registration.
func (r *OperatorRegistry) BindingPower(token string) (int, bool) {
	defs := r.defs[token]
	if len(defs) == 0 {
		return 0, false
	}
	return defs[0].BindingPower, true
}

// RightAssoc reports whether the token's definitions are right
// associative.
func (r *OperatorRegistry) RightAssoc(token string) bool {
	defs := r.defs[token]
	return len(defs) > 0 && defs[0].RightAssoc
}

// Fixity returns the token's fixity.
func (r *OperatorRegistry) Fixity(token string) (Fixity, bool) {
	defs := r.defs[token]
	if len(defs) == 0 {
		return Infix, false
	}
	return defs[0].Kind, true
}

// LookupByTypes returns the best-matching definition for the token and
// operand types: an exact tuple match first, then a wildcard tuple of
// matching arity.
func (r *OperatorRegistry) LookupByTypes(token string, operands ...string) (*OperatorDef, bool) {
	var wildcard *OperatorDef
	for _, def := range r.defs[token] {
		if len(def.InputTypes) != len(operands) {
			continue
		}
		if matchTuple(def.InputTypes, operands, false) {
			return def, true
		}
		if wildcard == nil && matchTuple(def.InputTypes, operands, true) {
			wildcard = def
		}
	}
	if wildcard != nil {
		return wildcard, true
	}
	return nil, false
}

func matchTuple(expected, actual []string, allowWildcard bool) bool {
	for i, exp := range expected {
		if exp == Wildcard {
			if !allowWildcard {
				return false
			}
			continue
		}
		if !typeAccepts(exp, actual[i]) {
			return false
		}
	}
	return true
}

// typeAccepts reports whether an operand of the actual type can flow
// into an input slot expecting exp. The polymorphic Any matches every
// slot, and "List" accepts any concrete list type.
func typeAccepts(exp, actual string) bool {
	if actual == TypeAny || exp == actual {
		return true
	}
	if exp == "List" && strings.HasPrefix(actual, "List") {
		return true
	}
	return false
}

// Tokens returns all registered tokens, sorted.
func (r *OperatorRegistry) Tokens() []string {
	tokens := make([]string, 0, len(r.defs))
	for token := range r.defs {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// SymbolTokens returns the registered symbol (non-keyword) tokens,
// longest first, for the lexer's greedy match.
func (r *OperatorRegistry) SymbolTokens() []string {
	var symbols []string
	for token, defs := range r.defs {
		if !defs[0].Keyword {
			symbols = append(symbols, token)
		}
	}
	sort.Slice(symbols, func(i, j int) bool {
		if len(symbols[i]) != len(symbols[j]) {
			return len(symbols[i]) > len(symbols[j])
		}
		return symbols[i] < symbols[j]
	})
	return symbols
}

// Built-in binding powers.
const (
	bpOr         = 10
	bpAnd        = 20
	bpNot        = 30
	bpComparison = 40
)

// StandardOperators returns the full built-in operator set.
func StandardOperators() []*OperatorDef {
	defs := MinimalOperators()
	defs = append(defs,
		&OperatorDef{Token: "in", Keyword: true, BindingPower: bpComparison,
			InputTypes: []string{Wildcard, "List"}, ReturnType: TypeBool, Fn: opIn},
		&OperatorDef{Token: "not in", Keyword: true, BindingPower: bpComparison,
			InputTypes: []string{Wildcard, "List"}, ReturnType: TypeBool, Fn: opNotIn},
		&OperatorDef{Token: "=", BindingPower: bpComparison,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: TypeBool, Fn: opEq},
		&OperatorDef{Token: "!=", BindingPower: bpComparison,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: TypeBool, Fn: opNe},
		&OperatorDef{Token: "contains", Keyword: true, BindingPower: bpComparison,
			InputTypes: []string{TypeStr, TypeStr}, ReturnType: TypeBool, Fn: opContainsStr},
		&OperatorDef{Token: "contains", Keyword: true, BindingPower: bpComparison,
			InputTypes: []string{"List", Wildcard}, ReturnType: TypeBool, Fn: opContainsList},
	)
	for _, token := range []string{">", "<", ">=", "<="} {
		fn := cmpFunc(token)
		for _, pair := range [][2]string{
			{TypeInt, TypeInt}, {TypeInt, TypeFloat}, {TypeFloat, TypeInt}, {TypeFloat, TypeFloat},
			{TypeStr, TypeStr},
		} {
			defs = append(defs, &OperatorDef{
				Token: token, BindingPower: bpComparison,
				InputTypes: []string{pair[0], pair[1]}, ReturnType: TypeBool, Fn: fn,
			})
		}
	}
	return defs
}

// MinimalOperators returns the irreducible minimum present regardless of
// preset: and, or, and prefix not. Parentheses, identifiers, literals
// and call syntax are parser structure, not registry entries.
func MinimalOperators() []*OperatorDef {
	return []*OperatorDef{
		{Token: "or", Keyword: true, BindingPower: bpOr,
			InputTypes: []string{TypeBool, TypeBool}, ReturnType: TypeBool, Fn: opOr},
		{Token: "and", Keyword: true, BindingPower: bpAnd,
			InputTypes: []string{TypeBool, TypeBool}, ReturnType: TypeBool, Fn: opAnd},
		{Token: "not", Keyword: true, Kind: Prefix, BindingPower: bpNot,
			InputTypes: []string{TypeBool}, ReturnType: TypeBool, Fn: opNot},
	}
}

// OperatorPreset selects built-in operators by token. The minimal set is
// always included. Unknown tokens return ErrUnknownOperatorToken.
func OperatorPreset(tokens ...string) ([]*OperatorDef, error) {
	standard := StandardOperators()
	byToken := make(map[string][]*OperatorDef)
	for _, def := range standard {
		byToken[def.Token] = append(byToken[def.Token], def)
	}
	defs := MinimalOperators()
	seen := map[string]bool{"and": true, "or": true, "not": true}
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		picked, ok := byToken[token]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperatorToken, token)
		}
		defs = append(defs, picked...)
		seen[token] = true
	}
	return defs, nil
}

func opAnd(args ...any) (any, error) {
	return truthy(args[0]) && truthy(args[1]), nil
}

func opOr(args ...any) (any, error) {
	return truthy(args[0]) || truthy(args[1]), nil
}

func opNot(args ...any) (any, error) {
	return !truthy(args[0]), nil
}

func opEq(args ...any) (any, error) {
	return literalEqual(args[0], args[1]), nil
}

func opNe(args ...any) (any, error) {
	return !literalEqual(args[0], args[1]), nil
}

func opIn(args ...any) (any, error) {
	list, ok := args[1].([]any)
	if !ok {
		return nil, &RuleEvaluationError{ErrorDetail{
			Message: "right operand of 'in' is not a list", Got: runtimeTypeName(args[1]),
		}}
	}
	for _, item := range list {
		if literalEqual(args[0], item) {
			return true, nil
		}
	}
	return false, nil
}

func opNotIn(args ...any) (any, error) {
	found, err := opIn(args...)
	if err != nil {
		return nil, err
	}
	return !found.(bool), nil
}

func opContainsStr(args ...any) (any, error) {
	haystack, ok1 := args[0].(string)
	needle, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return nil, &RuleEvaluationError{ErrorDetail{Message: "contains requires string operands"}}
	}
	return strings.Contains(haystack, needle), nil
}

func opContainsList(args ...any) (any, error) {
	return opIn(args[1], args[0])
}

func cmpFunc(token string) OpFunc {
	return func(args ...any) (any, error) {
		if ls, ok := args[0].(string); ok {
			rs, ok := args[1].(string)
			if !ok {
				return nil, incomparable(token, args)
			}
			return applyCmp(token, strings.Compare(ls, rs)), nil
		}
		lf, lok := toFloat(args[0])
		rf, rok := toFloat(args[1])
		if !lok || !rok {
			return nil, incomparable(token, args)
		}
		switch {
		case lf < rf:
			return applyCmp(token, -1), nil
		case lf > rf:
			return applyCmp(token, 1), nil
		default:
			return applyCmp(token, 0), nil
		}
	}
}

func applyCmp(token string, sign int) bool {
	switch token {
	case ">":
		return sign > 0
	case "<":
		return sign < 0
	case ">=":
		return sign >= 0
	default:
		return sign <= 0
	}
}

func incomparable(token string, args []any) error {
	return &RuleEvaluationError{ErrorDetail{
		Message: fmt.Sprintf("operands of %q are not comparable", token),
		Got:     runtimeTypeName(args[0]) + ", " + runtimeTypeName(args[1]),
	}}
}
