package amino

import (
	"fmt"
	"strconv"
)

// ParseSchema parses schema text into a SchemaAST. The text is newline
// sensitive at the top level: each field and function declaration ends at
// end-of-line, while struct bodies may span lines. '#' starts a comment
// running to end-of-line.
func ParseSchema(text string) (*SchemaAST, error) {
	p := &schemaParser{src: text, line: 1}
	ast := &SchemaAST{}

	for {
		p.skipBlank()
		if p.eof() {
			return ast, nil
		}
		line := p.line
		name, err := p.readIdent()
		if err != nil {
			return nil, err
		}
		if name == "struct" {
			def, err := p.parseStruct(line)
			if err != nil {
				return nil, err
			}
			ast.Structs = append(ast.Structs, *def)
			continue
		}
		p.skipInline()
		if !p.accept(':') {
			return nil, p.errf("expected ':' after %q", name)
		}
		p.skipInline()
		if p.ch() == '(' {
			sig, err := p.parseFunc(name, line)
			if err != nil {
				return nil, err
			}
			ast.Funcs = append(ast.Funcs, *sig)
		} else {
			field, err := p.parseField(name, line)
			if err != nil {
				return nil, err
			}
			if err := p.expectLineEnd(); err != nil {
				return nil, err
			}
			ast.Fields = append(ast.Fields, *field)
		}
	}
}

type schemaParser struct {
	src  string
	pos  int
	line int
}

func (p *schemaParser) eof() bool { return p.pos >= len(p.src) }

func (p *schemaParser) ch() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *schemaParser) advance() {
	if p.ch() == '\n' {
		p.line++
	}
	p.pos++
}

func (p *schemaParser) accept(c byte) bool {
	if p.ch() == c {
		p.advance()
		return true
	}
	return false
}

// skipInline skips spaces, tabs and a trailing comment, but never crosses
// a newline.
func (p *schemaParser) skipInline() {
	for {
		switch p.ch() {
		case ' ', '\t', '\r':
			p.advance()
		case '#':
			for !p.eof() && p.ch() != '\n' {
				p.advance()
			}
			return
		default:
			return
		}
	}
}

// skipBlank skips all whitespace including newlines and comments.
func (p *schemaParser) skipBlank() {
	for {
		switch p.ch() {
		case ' ', '\t', '\r', '\n':
			p.advance()
		case '#':
			for !p.eof() && p.ch() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *schemaParser) errf(format string, args ...any) *SchemaParseError {
	return &SchemaParseError{
		ErrorDetail: ErrorDetail{Message: fmt.Sprintf(format, args...)},
		Line:        p.line,
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *schemaParser) readIdent() (string, error) {
	if !isIdentStart(p.ch()) {
		return "", p.errf("expected identifier, found %q", string(p.ch()))
	}
	start := p.pos
	for isIdentChar(p.ch()) {
		p.advance()
	}
	return p.src[start:p.pos], nil
}

func (p *schemaParser) expectLineEnd() error {
	p.skipInline()
	if p.eof() || p.ch() == '\n' {
		return nil
	}
	return p.errf("unexpected %q before end of line", string(p.ch()))
}

// parseField parses everything after "name :" on a field declaration:
// the type expression, an optional '?', and an optional constraint block.
func (p *schemaParser) parseField(name string, line int) (*FieldDef, error) {
	typ, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	p.skipInline()
	if p.ch() == '|' {
		return nil, p.errf("union types are only allowed inside List[...]")
	}
	field := &FieldDef{Name: name, Type: typ, Line: line}
	if p.accept('?') {
		field.Optional = true
		p.skipInline()
	}
	if p.ch() == '{' {
		constraints, err := p.parseConstraintBlock()
		if err != nil {
			return nil, err
		}
		field.Constraints = constraints
	}
	return field, nil
}

// parseTypeExpr parses a primitive, a named reference, or List[T|U|...].
// Unions appear only between List brackets.
func (p *schemaParser) parseTypeExpr() (TypeExpr, error) {
	name, err := p.readIdent()
	if err != nil {
		return TypeExpr{}, err
	}
	if name != "List" {
		return TypeExpr{Name: name}, nil
	}
	p.skipInline()
	if !p.accept('[') {
		return TypeExpr{}, p.errf("expected '[' after List")
	}
	var elems []TypeExpr
	for {
		p.skipBlank()
		elem, err := p.parseTypeExpr()
		if err != nil {
			return TypeExpr{}, err
		}
		elems = append(elems, elem)
		p.skipBlank()
		if p.accept('|') {
			continue
		}
		if p.accept(']') {
			return TypeExpr{Elems: elems}, nil
		}
		return TypeExpr{}, p.errf("expected '|' or ']' in List type")
	}
}

// parseStruct parses "struct Name { field, field ... }". Fields separate
// by ',' or newline; mixing is permitted.
func (p *schemaParser) parseStruct(line int) (*StructDef, error) {
	p.skipInline()
	name, err := p.readIdent()
	if err != nil {
		return nil, err
	}
	def := &StructDef{Name: name, Line: line}
	p.skipBlank()
	if !p.accept('{') {
		return nil, p.errf("expected '{' after struct %s", name)
	}
	for {
		p.skipBlank()
		if p.accept('}') {
			return def, nil
		}
		if p.eof() {
			return nil, p.errf("unterminated struct %s", name)
		}
		fieldLine := p.line
		fieldName, err := p.readIdent()
		if err != nil {
			return nil, err
		}
		p.skipInline()
		if !p.accept(':') {
			return nil, p.errf("expected ':' after field %q in struct %s", fieldName, name)
		}
		p.skipInline()
		field, err := p.parseField(fieldName, fieldLine)
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, *field)
		p.skipInline()
		switch p.ch() {
		case ',':
			p.advance()
		case '\n', '}', 0:
			// newline separation or end of body
		default:
			return nil, p.errf("expected ',' or newline after field %q", fieldName)
		}
	}
}

// parseFunc parses "name : ( params ) -> type" starting at the '('.
func (p *schemaParser) parseFunc(name string, line int) (*FuncSig, error) {
	p.advance() // consume '('
	sig := &FuncSig{Name: name, Line: line}
	p.skipBlank()
	for p.ch() != ')' {
		if p.eof() {
			return nil, p.errf("unterminated parameter list for %s", name)
		}
		paramName, err := p.readIdent()
		if err != nil {
			return nil, err
		}
		p.skipInline()
		if !p.accept(':') {
			return nil, p.errf("expected ':' after parameter %q", paramName)
		}
		p.skipInline()
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		param := Param{Name: paramName, Type: typ}
		p.skipInline()
		if p.accept('?') {
			param.Optional = true
		}
		sig.Params = append(sig.Params, param)
		p.skipBlank()
		if p.accept(',') {
			p.skipBlank()
			continue
		}
		if p.ch() != ')' {
			return nil, p.errf("expected ',' or ')' in parameter list for %s", name)
		}
	}
	p.advance() // consume ')'
	p.skipInline()
	if !p.accept('-') || !p.accept('>') {
		return nil, p.errf("expected '->' after parameter list for %s", name)
	}
	p.skipInline()
	ret, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	sig.Return = ret
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return sig, nil
}

// parseConstraintBlock parses "{ key: value, key: value }".
func (p *schemaParser) parseConstraintBlock() (map[string]any, error) {
	p.advance() // consume '{'
	constraints := make(map[string]any)
	p.skipBlank()
	if p.accept('}') {
		return constraints, nil
	}
	for {
		key, err := p.readIdent()
		if err != nil {
			return nil, err
		}
		p.skipBlank()
		if !p.accept(':') {
			return nil, p.errf("expected ':' after constraint key %q", key)
		}
		p.skipBlank()
		value, err := p.parseConstraintValue()
		if err != nil {
			return nil, err
		}
		constraints[key] = value
		p.skipBlank()
		if p.accept(',') {
			p.skipBlank()
			continue
		}
		if p.accept('}') {
			return constraints, nil
		}
		return nil, p.errf("expected ',' or '}' in constraint block")
	}
}

// parseConstraintValue parses an integer, float, boolean, single-quoted
// string, or bracketed list of such values. Floats parse greedily before
// integers.
func (p *schemaParser) parseConstraintValue() (any, error) {
	switch {
	case p.ch() == '[':
		p.advance()
		var items []any
		p.skipBlank()
		if p.accept(']') {
			return items, nil
		}
		for {
			item, err := p.parseConstraintValue()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			p.skipBlank()
			if p.accept(',') {
				p.skipBlank()
				continue
			}
			if p.accept(']') {
				return items, nil
			}
			return nil, p.errf("expected ',' or ']' in constraint list")
		}
	case p.ch() == '\'':
		p.advance()
		start := p.pos
		for !p.eof() && p.ch() != '\'' && p.ch() != '\n' {
			p.advance()
		}
		if p.ch() != '\'' {
			return nil, p.errf("unterminated string in constraint value")
		}
		s := p.src[start:p.pos]
		p.advance()
		return s, nil
	case p.ch() == '-' || (p.ch() >= '0' && p.ch() <= '9'):
		return p.parseNumber()
	case isIdentStart(p.ch()):
		word, err := p.readIdent()
		if err != nil {
			return nil, err
		}
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, p.errf("invalid constraint value %q", word)
	}
	return nil, p.errf("invalid constraint value starting with %q", string(p.ch()))
}

func (p *schemaParser) parseNumber() (any, error) {
	start := p.pos
	p.accept('-')
	for p.ch() >= '0' && p.ch() <= '9' {
		p.advance()
	}
	isFloat := false
	if p.ch() == '.' {
		isFloat = true
		p.advance()
		for p.ch() >= '0' && p.ch() <= '9' {
			p.advance()
		}
	}
	text := p.src[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errf("invalid float %q", text)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errf("invalid integer %q", text)
	}
	return n, nil
}
