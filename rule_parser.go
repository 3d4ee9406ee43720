package amino

import (
	"fmt"
	"strings"
)

// ruleParser is a Pratt parser over a rule token stream. Operator
// dispatch is driven by the operator registry, variable types by the
// schema registry, and custom-type names normalize to their base
// primitive before lookup. Type resolution happens during the same walk,
// so every node the parser returns already carries its result type.
type ruleParser struct {
	toks     []token
	pos      int
	schema   *SchemaRegistry
	ops      *OperatorRegistry
	types    *TypeRegistry
	strict   bool
	warnings []string
}

// parseRule compiles one rule expression into a typed node tree. In
// loose rules mode type mismatches degrade to Any-typed wildcard
// fallbacks and come back as warnings.
func parseRule(rule string, schema *SchemaRegistry, ops *OperatorRegistry, types *TypeRegistry, strict bool) (RuleNode, []string, error) {
	toks, err := tokenizeRule(rule, ops.SymbolTokens())
	if err != nil {
		return nil, nil, err
	}
	p := &ruleParser{toks: toks, schema: schema, ops: ops, types: types, strict: strict}
	node, err := p.parseExpr(0)
	if err != nil {
		return nil, nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, nil, p.errf("unexpected %q after expression", p.peek().text)
	}
	return node, p.warnings, nil
}

func (p *ruleParser) peek() token { return p.toks[p.pos] }

func (p *ruleParser) peekAt(offset int) token {
	if p.pos+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+offset]
}

func (p *ruleParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *ruleParser) errf(format string, args ...any) *RuleParseError {
	return &RuleParseError{
		ErrorDetail: ErrorDetail{Message: fmt.Sprintf(format, args...)},
		Pos:         p.peek().pos,
	}
}

func (p *ruleParser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// dispatchType maps a node's type name to the name used for operator
// lookup: custom types collapse to their base primitive.
func (p *ruleParser) dispatchType(name string) string {
	if base, ok := p.types.Base(name); ok {
		return base
	}
	return name
}

func isTerminator(t token) bool {
	if t.kind == tokEOF {
		return true
	}
	return t.kind == tokSymbol && (t.text == ")" || t.text == "]" || t.text == ",")
}

func (p *ruleParser) parseExpr(minBP int) (RuleNode, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if isTerminator(t) {
			return left, nil
		}
		opToken := t.text
		width := 1
		if t.kind == tokIdent && t.text == "not" && p.peekAt(1).kind == tokIdent && p.peekAt(1).text == "in" {
			opToken = "not in"
			width = 2
		}
		bp, ok := p.ops.BindingPower(opToken)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.pos += width
		left, err = p.led(opToken, left)
		if err != nil {
			return nil, err
		}
	}
}

// nud parses an atom or prefix expression: parentheses, list literals,
// prefix operators, numeric and string and boolean literals, function
// calls, and dotted variables.
func (p *ruleParser) nud() (RuleNode, error) {
	t := p.peek()
	switch t.kind {
	case tokSymbol:
		switch t.text {
		case "(":
			p.next()
			inner, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if !p.acceptSymbol(")") {
				return nil, p.errf("expected ')'")
			}
			return inner, nil
		case "[":
			return p.parseListLiteral()
		}
		if p.isPrefix(t.text) {
			return p.parsePrefix(t.text)
		}
		return nil, p.errf("unexpected %q", t.text)
	case tokInt:
		p.next()
		return &LiteralNode{Value: t.intVal, Type: TypeInt}, nil
	case tokFloat:
		p.next()
		return &LiteralNode{Value: t.floatVal, Type: TypeFloat}, nil
	case tokString:
		p.next()
		return &LiteralNode{Value: t.text, Type: TypeStr}, nil
	case tokIdent:
		switch t.text {
		case "true":
			p.next()
			return &LiteralNode{Value: true, Type: TypeBool}, nil
		case "false":
			p.next()
			return &LiteralNode{Value: false, Type: TypeBool}, nil
		}
		if p.isPrefix(t.text) {
			return p.parsePrefix(t.text)
		}
		if p.peekAt(1).kind == tokSymbol && p.peekAt(1).text == "(" {
			return p.parseCall()
		}
		return p.parseVariable()
	}
	return nil, p.errf("unexpected end of expression")
}

func (p *ruleParser) isPrefix(tokenText string) bool {
	fixity, ok := p.ops.Fixity(tokenText)
	return ok && fixity == Prefix
}

func (p *ruleParser) parsePrefix(tokenText string) (RuleNode, error) {
	p.next()
	bp, _ := p.ops.BindingPower(tokenText)
	operand, err := p.parseExpr(bp)
	if err != nil {
		return nil, err
	}
	def, ok := p.ops.LookupByTypes(tokenText, p.dispatchType(operand.TypeName()))
	if !ok {
		if p.strict {
			return nil, &TypeMismatchError{ErrorDetail{
				Message: fmt.Sprintf("no %q operator for operand type", tokenText),
				Got:     operand.TypeName(),
			}}
		}
		p.warnf("no %q operator for operand type %s; compiled loosely", tokenText, operand.TypeName())
		fallback, found := p.ops.LookupByTypes(tokenText, TypeAny)
		if !found {
			return nil, p.errf("operator %q takes no single operand", tokenText)
		}
		return &UnaryNode{Token: tokenText, Operand: operand, Type: TypeAny, Fn: fallback.Fn}, nil
	}
	return &UnaryNode{Token: tokenText, Operand: operand, Type: def.ReturnType, Fn: def.Fn}, nil
}

func (p *ruleParser) led(opToken string, left RuleNode) (RuleNode, error) {
	bp, _ := p.ops.BindingPower(opToken)
	rightBP := bp
	if p.ops.RightAssoc(opToken) {
		rightBP = bp - 1
	}
	right, err := p.parseExpr(rightBP)
	if err != nil {
		return nil, err
	}
	leftType := p.dispatchType(left.TypeName())
	rightType := p.dispatchType(right.TypeName())
	def, ok := p.ops.LookupByTypes(opToken, leftType, rightType)
	if !ok {
		if p.strict {
			return nil, &TypeMismatchError{ErrorDetail{
				Message:  fmt.Sprintf("no %q operator for operand types", opToken),
				Expected: "a registered operand type tuple",
				Got:      fmt.Sprintf("(%s, %s)", left.TypeName(), right.TypeName()),
			}}
		}
		p.warnf("no %q operator for (%s, %s); compiled loosely", opToken, left.TypeName(), right.TypeName())
		fallback, found := p.ops.LookupByTypes(opToken, TypeAny, TypeAny)
		if !found {
			return nil, p.errf("operator %q takes no operand pair", opToken)
		}
		return &BinaryNode{Token: opToken, Left: left, Right: right, Type: TypeAny, Fn: fallback.Fn}, nil
	}
	return &BinaryNode{Token: opToken, Left: left, Right: right, Type: def.ReturnType, Fn: def.Fn}, nil
}

func (p *ruleParser) acceptSymbol(text string) bool {
	t := p.peek()
	if t.kind == tokSymbol && t.text == text {
		p.next()
		return true
	}
	return false
}

func (p *ruleParser) parseListLiteral() (RuleNode, error) {
	p.next() // consume '['
	list := &ListNode{}
	if p.acceptSymbol("]") {
		return list, nil
	}
	for {
		item, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
		if p.acceptSymbol(",") {
			continue
		}
		if p.acceptSymbol("]") {
			return list, nil
		}
		return nil, p.errf("expected ',' or ']' in list literal")
	}
}

// parseCall parses name(arg, ...). The callee resolves against the
// schema's declared functions for its return type; unknown callees are
// typed Any and resolved at evaluation time from the function map.
func (p *ruleParser) parseCall() (RuleNode, error) {
	name := p.next().text
	p.next() // consume '('
	call := &CallNode{Name: name, Type: TypeAny}
	if !p.acceptSymbol(")") {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.acceptSymbol(",") {
				continue
			}
			if p.acceptSymbol(")") {
				break
			}
			return nil, p.errf("expected ',' or ')' in call to %q", name)
		}
	}
	sig, declared := p.schema.Func(name)
	if !declared {
		return call, nil
	}
	call.Type = sig.Return.String()
	if err := p.checkCallArgs(call, sig); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *ruleParser) checkCallArgs(call *CallNode, sig *FuncSig) error {
	required := 0
	for _, param := range sig.Params {
		if !param.Optional {
			required++
		}
	}
	if len(call.Args) < required || len(call.Args) > len(sig.Params) {
		if p.strict {
			return &TypeMismatchError{ErrorDetail{
				Message:  fmt.Sprintf("wrong number of arguments to %q", call.Name),
				Field:    call.Name,
				Expected: fmt.Sprintf("%d..%d", required, len(sig.Params)),
				Got:      fmt.Sprint(len(call.Args)),
			}}
		}
		p.warnf("wrong number of arguments to %q; compiled loosely", call.Name)
		return nil
	}
	for i, arg := range call.Args {
		declared := p.dispatchType(sig.Params[i].Type.String())
		actual := p.dispatchType(arg.TypeName())
		if paramAccepts(declared, actual) {
			continue
		}
		if p.strict {
			return &TypeMismatchError{ErrorDetail{
				Message:  fmt.Sprintf("argument %d of %q has the wrong type", i+1, call.Name),
				Field:    call.Name,
				Expected: sig.Params[i].Type.String(),
				Got:      arg.TypeName(),
			}}
		}
		p.warnf("argument %d of %q: expected %s, got %s; compiled loosely",
			i+1, call.Name, sig.Params[i].Type.String(), arg.TypeName())
	}
	return nil
}

// paramAccepts relaxes typeAccepts the way decision validation does: a
// Float parameter takes an integer argument, and any list flows into a
// typed list parameter.
func paramAccepts(declared, actual string) bool {
	if typeAccepts(declared, actual) {
		return true
	}
	if declared == TypeFloat && actual == TypeInt {
		return true
	}
	return strings.HasPrefix(declared, "List") && strings.HasPrefix(actual, "List")
}

// parseVariable gathers a dotted path and binds it to the schema field's
// declared type.
func (p *ruleParser) parseVariable() (RuleNode, error) {
	path := []string{p.next().text}
	for p.peek().kind == tokSymbol && p.peek().text == "." {
		p.next()
		seg := p.peek()
		if seg.kind != tokIdent {
			return nil, p.errf("expected identifier after '.'")
		}
		p.next()
		path = append(path, seg.text)
	}
	node := &VariableNode{Path: path}
	field, ok := p.schema.GetField(node.Name())
	if !ok {
		return nil, &RuleParseError{
			ErrorDetail: ErrorDetail{
				Message: fmt.Sprintf("Unknown field %q", node.Name()),
				Field:   node.Name(),
			},
			Pos: p.peek().pos,
		}
	}
	node.Type = field.Type.String()
	return node, nil
}
