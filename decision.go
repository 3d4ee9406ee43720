package amino

// DecisionValidator checks incoming decision records against the schema
// and per-field constraints. Strict mode fails on the first violation;
// loose mode collects every violation as an issue and drops the
// offending field from the cleaned map.
type DecisionValidator struct {
	schema *SchemaRegistry
	types  *TypeRegistry
	strict bool
}

func newDecisionValidator(schema *SchemaRegistry, types *TypeRegistry, strict bool) *DecisionValidator {
	return &DecisionValidator{schema: schema, types: types, strict: strict}
}

// Validate returns the cleaned decision map and the issues found. In
// strict mode the first issue comes back as a DecisionValidationError
// instead. Keys not declared in the schema pass through unchanged.
func (v *DecisionValidator) Validate(decision map[string]any) (map[string]any, []*ValidationIssue, error) {
	cleaned := make(map[string]any, len(decision))
	declared := make(map[string]bool)
	var issues []*ValidationIssue

	for _, field := range v.schema.TopLevelFields() {
		declared[field.Name] = true
		value, present := decision[field.Name]
		if !present || value == nil {
			if field.Optional {
				continue
			}
			issue := NewValidationIssue("required", field.Name,
				"required field {field} is missing", map[string]any{"field": field.Name})
			if v.strict {
				return nil, nil, strictViolation(issue)
			}
			issues = append(issues, issue)
			continue
		}
		cleanedValue, drop, fieldIssues := v.cleanValue(&field, value, field.Name)
		if v.strict && len(fieldIssues) > 0 {
			return nil, nil, strictViolation(fieldIssues[0])
		}
		issues = append(issues, fieldIssues...)
		if !drop {
			cleaned[field.Name] = cleanedValue
		}
	}

	for key, value := range decision {
		if !declared[key] {
			cleaned[key] = value
		}
	}
	return cleaned, issues, nil
}

func strictViolation(issue *ValidationIssue) error {
	return &DecisionValidationError{
		ErrorDetail: ErrorDetail{Message: issue.Error(), Field: issue.Field},
		Issue:       issue,
	}
}

// cleanValue validates one field value. The drop result tells the caller
// to omit the field from the cleaned map; struct-typed fields instead
// return a copy with their offending nested fields removed.
func (v *DecisionValidator) cleanValue(field *FieldDef, value any, path string) (any, bool, []*ValidationIssue) {
	if structDef, ok := v.schema.StructDef(field.Type.Name); ok {
		return v.cleanStruct(structDef, value, path)
	}
	if issue := v.checkType(field.Type, value, path); issue != nil {
		return nil, true, []*ValidationIssue{issue}
	}
	if issues := v.checkConstraints(field, value, path); len(issues) > 0 {
		return nil, true, issues
	}
	return value, false, nil
}

func (v *DecisionValidator) cleanStruct(def *StructDef, value any, path string) (any, bool, []*ValidationIssue) {
	record, ok := value.(map[string]any)
	if !ok {
		return nil, true, []*ValidationIssue{typeIssue(path, def.Name, value)}
	}
	cleaned := make(map[string]any, len(record))
	declared := make(map[string]bool)
	var issues []*ValidationIssue
	for _, field := range def.Fields {
		declared[field.Name] = true
		fieldPath := path + "." + field.Name
		nested, present := record[field.Name]
		if !present || nested == nil {
			if field.Optional {
				continue
			}
			issues = append(issues, NewValidationIssue("required", fieldPath,
				"required field {field} is missing", map[string]any{"field": fieldPath}))
			continue
		}
		cleanedValue, drop, fieldIssues := v.cleanValue(&field, nested, fieldPath)
		issues = append(issues, fieldIssues...)
		if !drop {
			cleaned[field.Name] = cleanedValue
		}
	}
	for key, nested := range record {
		if !declared[key] {
			cleaned[key] = nested
		}
	}
	return cleaned, false, issues
}

// checkType verifies the runtime value kind against the declared type.
// Types are never coerced: Int excludes booleans, Float accepts integer
// or float values, Str and Bool are exact. Custom types run their
// registered validator on top of the base check.
func (v *DecisionValidator) checkType(t TypeExpr, value any, path string) *ValidationIssue {
	if t.IsList() {
		list, ok := value.([]any)
		if !ok {
			return typeIssue(path, t.String(), value)
		}
		for i, elem := range list {
			if !v.matchesAnyElemType(t.Elems, elem) {
				return NewValidationIssue("item_type", path,
					"element {index} of {field} does not match {expected}",
					map[string]any{"index": i, "field": path, "expected": t.String()})
			}
		}
		return nil
	}
	switch t.Name {
	case TypeInt:
		if !isIntValue(value) {
			return typeIssue(path, TypeInt, value)
		}
	case TypeFloat:
		if !isFloatValue(value) {
			return typeIssue(path, TypeFloat, value)
		}
	case TypeStr:
		if _, ok := value.(string); !ok {
			return typeIssue(path, TypeStr, value)
		}
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return typeIssue(path, TypeBool, value)
		}
	default:
		base, ok := v.types.Base(t.Name)
		if !ok {
			return typeIssue(path, t.Name, value)
		}
		if issue := v.checkType(TypeExpr{Name: base}, value, path); issue != nil {
			return issue
		}
		if !v.types.Validate(t.Name, value) {
			return NewValidationIssue("custom_type", path,
				"{field} is not a valid {expected}",
				map[string]any{"field": path, "expected": t.Name})
		}
	}
	return nil
}

// matchesAnyElemType reports whether a list element conforms to at least
// one member of the element union.
func (v *DecisionValidator) matchesAnyElemType(elems []TypeExpr, value any) bool {
	for _, elem := range elems {
		if def, ok := v.schema.StructDef(elem.Name); ok {
			if _, drop, issues := v.cleanStruct(def, value, "elem"); !drop && len(issues) == 0 {
				return true
			}
			continue
		}
		if v.checkType(elem, value, "elem") == nil {
			return true
		}
	}
	return false
}

func typeIssue(path, expected string, value any) *ValidationIssue {
	return &ValidationIssue{
		Code:    "type",
		Field:   path,
		Message: "field {field} expects {expected}, got {got}",
		Params: map[string]any{
			"field":    path,
			"expected": expected,
			"got":      runtimeTypeName(value),
		},
	}
}
