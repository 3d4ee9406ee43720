package amino

import "strings"

// Primitive type names. Every declared type ultimately grounds in one of
// these four.
const (
	TypeInt   = "Int"
	TypeFloat = "Float"
	TypeStr   = "Str"
	TypeBool  = "Bool"

	// TypeAny is the polymorphic wildcard assigned to unknown function
	// calls and to loose-mode fallback results. It is not declarable in
	// schema text.
	TypeAny = "Any"
)

func isPrimitive(name string) bool {
	switch name {
	case TypeInt, TypeFloat, TypeStr, TypeBool:
		return true
	}
	return false
}

// TypeExpr is a declared type: a primitive, a named reference (struct or
// custom type), or List[...] with one or more element types.
type TypeExpr struct {
	Name  string     // primitive or named reference; empty for lists
	Elems []TypeExpr // element union, set only for List[...]
}

// IsList reports whether the expression is a List[...] type.
func (t TypeExpr) IsList() bool {
	return len(t.Elems) > 0
}

// String renders the type the way schema text spells it.
func (t TypeExpr) String() string {
	if !t.IsList() {
		return t.Name
	}
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "List[" + strings.Join(parts, "|") + "]"
}

// FieldDef is a single declared field: top level or inside a struct.
type FieldDef struct {
	Name        string
	Type        TypeExpr
	Optional    bool
	Constraints map[string]any
	Line        int
}

// StructDef is a named record type with ordered fields.
type StructDef struct {
	Name   string
	Fields []FieldDef
	Line   int
}

// Param is one parameter of a declared function signature.
type Param struct {
	Name     string
	Type     TypeExpr
	Optional bool
}

// FuncSig declares a callable available to rules: name, ordered
// parameters and return type. The implementation is supplied separately
// through the engine's function map.
type FuncSig struct {
	Name   string
	Params []Param
	Return TypeExpr
	Line   int
}

// SchemaAST is the parsed form of one schema document. It is produced
// once per engine and never mutated afterwards.
type SchemaAST struct {
	Fields  []FieldDef
	Structs []StructDef
	Funcs   []FuncSig
}

// Struct returns the named struct definition, if declared.
func (a *SchemaAST) Struct(name string) (*StructDef, bool) {
	for i := range a.Structs {
		if a.Structs[i].Name == name {
			return &a.Structs[i], true
		}
	}
	return nil, false
}
