package amino

import "fmt"

// validateSchema checks a parsed schema for self-consistency against the
// set of known custom-type names: duplicate names, unknown type
// references, and circular struct references.
func validateSchema(ast *SchemaAST, customTypes map[string]bool) error {
	if err := checkDuplicateNames(ast); err != nil {
		return err
	}
	if err := checkTypeReferences(ast, customTypes); err != nil {
		return err
	}
	return checkStructCycles(ast)
}

func validationErr(field, format string, args ...any) *SchemaValidationError {
	return &SchemaValidationError{
		ErrorDetail: ErrorDetail{Message: fmt.Sprintf(format, args...), Field: field},
	}
}

func checkDuplicateNames(ast *SchemaAST) error {
	seen := make(map[string]bool)
	note := func(name string) error {
		if seen[name] {
			return validationErr(name, "duplicate top-level name %q", name)
		}
		seen[name] = true
		return nil
	}
	for _, f := range ast.Fields {
		if err := note(f.Name); err != nil {
			return err
		}
	}
	for _, s := range ast.Structs {
		if err := note(s.Name); err != nil {
			return err
		}
		fields := make(map[string]bool)
		for _, f := range s.Fields {
			if fields[f.Name] {
				return validationErr(s.Name+"."+f.Name, "duplicate field %q in struct %s", f.Name, s.Name)
			}
			fields[f.Name] = true
		}
	}
	for _, fn := range ast.Funcs {
		if err := note(fn.Name); err != nil {
			return err
		}
	}
	return nil
}

func checkTypeReferences(ast *SchemaAST, customTypes map[string]bool) error {
	structs := make(map[string]bool, len(ast.Structs))
	for _, s := range ast.Structs {
		structs[s.Name] = true
	}
	resolvable := func(t TypeExpr) (string, bool) {
		if t.IsList() {
			for _, e := range t.Elems {
				if name, ok := resolvableName(e, structs, customTypes); !ok {
					return name, false
				}
			}
			return "", true
		}
		return resolvableName(t, structs, customTypes)
	}
	for _, f := range ast.Fields {
		if name, ok := resolvable(f.Type); !ok {
			return unknownTypeErr(f.Name, name)
		}
	}
	for _, s := range ast.Structs {
		for _, f := range s.Fields {
			if name, ok := resolvable(f.Type); !ok {
				return unknownTypeErr(s.Name+"."+f.Name, name)
			}
		}
	}
	for _, fn := range ast.Funcs {
		for _, p := range fn.Params {
			if name, ok := resolvable(p.Type); !ok {
				return unknownTypeErr(fn.Name+"("+p.Name+")", name)
			}
		}
		if name, ok := resolvable(fn.Return); !ok {
			return unknownTypeErr(fn.Name, name)
		}
	}
	return nil
}

func resolvableName(t TypeExpr, structs, customTypes map[string]bool) (string, bool) {
	if t.IsList() {
		for _, e := range t.Elems {
			if name, ok := resolvableName(e, structs, customTypes); !ok {
				return name, false
			}
		}
		return "", true
	}
	if isPrimitive(t.Name) || structs[t.Name] || customTypes[t.Name] {
		return t.Name, true
	}
	return t.Name, false
}

func unknownTypeErr(field, typeName string) error {
	return &SchemaValidationError{
		ErrorDetail: ErrorDetail{
			Message:  fmt.Sprintf("unknown type %q", typeName),
			Field:    field,
			Expected: "primitive, declared struct, or registered custom type",
			Got:      typeName,
		},
	}
}

// checkStructCycles rejects schemas whose struct reference graph contains
// a cycle, using depth-first traversal with a currently-visiting set.
func checkStructCycles(ast *SchemaAST) error {
	refs := make(map[string][]string, len(ast.Structs))
	for _, s := range ast.Structs {
		for _, f := range s.Fields {
			for _, name := range referencedStructs(f.Type, ast) {
				refs[s.Name] = append(refs[s.Name], name)
			}
		}
	}

	done := make(map[string]bool)
	visiting := make(map[string]bool)
	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return validationErr(name, "circular struct reference through %q", name)
		}
		visiting[name] = true
		for _, next := range refs[name] {
			if err := visit(next); err != nil {
				return err
			}
		}
		visiting[name] = false
		done[name] = true
		return nil
	}
	for _, s := range ast.Structs {
		if err := visit(s.Name); err != nil {
			return err
		}
	}
	return nil
}

func referencedStructs(t TypeExpr, ast *SchemaAST) []string {
	if t.IsList() {
		var names []string
		for _, e := range t.Elems {
			names = append(names, referencedStructs(e, ast)...)
		}
		return names
	}
	if _, ok := ast.Struct(t.Name); ok {
		return []string{t.Name}
	}
	return nil
}
