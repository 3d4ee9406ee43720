package amino

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SchemaRegistry wraps a validated SchemaAST with fast lookups: every
// dotted field path reachable through struct composition is indexed at
// construction, so GetField is a single map read.
type SchemaRegistry struct {
	ast         *SchemaAST
	fields      map[string]*FieldDef
	structs     map[string]*StructDef
	funcs       map[string]*FuncSig
	customTypes []string
	patterns    map[string]*regexp.Regexp
}

// NewSchemaRegistry validates the AST against the known custom-type
// names and builds the lookup indexes. Pattern constraints are compiled
// here so a malformed regex fails engine construction, not evaluation.
func NewSchemaRegistry(ast *SchemaAST, customTypes []string) (*SchemaRegistry, error) {
	known := make(map[string]bool, len(customTypes))
	for _, name := range customTypes {
		known[name] = true
	}
	if err := validateSchema(ast, known); err != nil {
		return nil, err
	}

	r := &SchemaRegistry{
		ast:         ast,
		fields:      make(map[string]*FieldDef),
		structs:     make(map[string]*StructDef, len(ast.Structs)),
		funcs:       make(map[string]*FuncSig, len(ast.Funcs)),
		customTypes: append([]string(nil), customTypes...),
		patterns:    make(map[string]*regexp.Regexp),
	}
	for i := range ast.Structs {
		r.structs[ast.Structs[i].Name] = &ast.Structs[i]
	}
	for i := range ast.Funcs {
		r.funcs[ast.Funcs[i].Name] = &ast.Funcs[i]
	}
	for i := range ast.Fields {
		r.indexField("", &ast.Fields[i])
	}
	if err := r.compileConstraintArtifacts(); err != nil {
		return nil, err
	}
	return r, nil
}

// indexField records the field under its dotted path and, when the field
// is struct typed, recurses into the struct's fields. The validator has
// already rejected cycles, so recursion terminates.
func (r *SchemaRegistry) indexField(prefix string, field *FieldDef) {
	path := field.Name
	if prefix != "" {
		path = prefix + "." + field.Name
	}
	r.fields[path] = field
	if def, ok := r.structs[field.Type.Name]; ok {
		for i := range def.Fields {
			r.indexField(path, &def.Fields[i])
		}
	}
}

func (r *SchemaRegistry) compileConstraintArtifacts() error {
	check := func(path string, field *FieldDef) error {
		if pattern, ok := field.Constraints["pattern"].(string); ok {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return validationErr(path, "invalid pattern %q: %v", pattern, err)
			}
			r.patterns[pattern] = re
		}
		if format, ok := field.Constraints["format"].(string); ok {
			if _, known := Formats[format]; !known {
				return validationErr(path, "unknown format %q", format)
			}
		}
		return nil
	}
	for path, field := range r.fields {
		if err := check(path, field); err != nil {
			return err
		}
	}
	// struct fields reached only through List[...] are not in the index
	for i := range r.ast.Structs {
		s := &r.ast.Structs[i]
		for j := range s.Fields {
			if err := check(s.Name+"."+s.Fields[j].Name, &s.Fields[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetField returns the field definition reachable at the dotted path, or
// false when no such field is declared.
func (r *SchemaRegistry) GetField(path string) (*FieldDef, bool) {
	field, ok := r.fields[path]
	return field, ok
}

// Func returns the declared function signature by name.
func (r *SchemaRegistry) Func(name string) (*FuncSig, bool) {
	sig, ok := r.funcs[name]
	return sig, ok
}

// TopLevelFields returns the schema's top-level field definitions in
// declaration order.
func (r *SchemaRegistry) TopLevelFields() []FieldDef {
	return r.ast.Fields
}

// StructDef returns the named struct definition.
func (r *SchemaRegistry) StructDef(name string) (*StructDef, bool) {
	def, ok := r.structs[name]
	return def, ok
}

// pattern returns the precompiled regex for a pattern constraint.
func (r *SchemaRegistry) pattern(expr string) *regexp.Regexp {
	return r.patterns[expr]
}

// KnownTypeNames returns the union of primitives, declared struct names,
// and registered custom-type names, sorted for stable output.
func (r *SchemaRegistry) KnownTypeNames() []string {
	names := []string{TypeInt, TypeFloat, TypeStr, TypeBool}
	for name := range r.structs {
		names = append(names, name)
	}
	names = append(names, r.customTypes...)
	sort.Strings(names)
	return names
}

// HasStruct reports whether the schema declares a struct with this name.
func (r *SchemaRegistry) HasStruct(name string) bool {
	_, ok := r.structs[name]
	return ok
}

// ExportSchema serializes the AST back to schema text. A fresh parse of
// the output yields a semantically equal AST.
func (r *SchemaRegistry) ExportSchema() string {
	var out []byte
	for _, s := range r.ast.Structs {
		out = append(out, fmt.Sprintf("struct %s {\n", s.Name)...)
		for _, f := range s.Fields {
			out = append(out, "    "...)
			out = append(out, renderField(&f)...)
			out = append(out, '\n')
		}
		out = append(out, "}\n"...)
	}
	for _, f := range r.ast.Fields {
		out = append(out, renderField(&f)...)
		out = append(out, '\n')
	}
	for _, fn := range r.ast.Funcs {
		out = append(out, renderFunc(&fn)...)
		out = append(out, '\n')
	}
	return string(out)
}

func renderField(f *FieldDef) string {
	s := f.Name + ": " + f.Type.String()
	if f.Optional {
		s += "?"
	}
	if len(f.Constraints) > 0 {
		s += " " + renderConstraints(f.Constraints)
	}
	return s
}

func renderFunc(fn *FuncSig) string {
	s := fn.Name + ": ("
	for i, p := range fn.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name + ": " + p.Type.String()
		if p.Optional {
			s += "?"
		}
	}
	return s + ") -> " + fn.Return.String()
}

func renderConstraints(constraints map[string]any) string {
	keys := make([]string, 0, len(constraints))
	for key := range constraints {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	s := "{"
	for i, key := range keys {
		if i > 0 {
			s += ", "
		}
		s += key + ": " + renderConstraintValue(constraints[key])
	}
	return s + "}"
}

func renderConstraintValue(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + t + "'"
	case []any:
		s := "["
		for i, item := range t {
			if i > 0 {
				s += ", "
			}
			s += renderConstraintValue(item)
		}
		return s + "]"
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(t)
	}
}
