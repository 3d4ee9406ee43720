package amino

// checkConstraints applies every constraint declared on a field to a
// value that has already passed its type check. All violations are
// returned; the caller decides whether the first one is fatal.
func (v *DecisionValidator) checkConstraints(field *FieldDef, value any, path string) []*ValidationIssue {
	var issues []*ValidationIssue
	add := func(issue *ValidationIssue) {
		if issue != nil {
			issues = append(issues, issue)
		}
	}
	c := field.Constraints
	if c == nil {
		return nil
	}

	if bound, ok := c["min"]; ok {
		add(checkBound(path, "min", value, bound, func(v, b float64) bool { return v >= b }))
	}
	if bound, ok := c["max"]; ok {
		add(checkBound(path, "max", value, bound, func(v, b float64) bool { return v <= b }))
	}
	if bound, ok := c["exclusiveMin"]; ok {
		add(checkBound(path, "exclusiveMin", value, bound, func(v, b float64) bool { return v > b }))
	}
	if bound, ok := c["exclusiveMax"]; ok {
		add(checkBound(path, "exclusiveMax", value, bound, func(v, b float64) bool { return v < b }))
	}

	if s, ok := value.(string); ok {
		length := len([]rune(s))
		if want, ok := intConstraint(c, "minLength"); ok && length < want {
			add(lengthIssue(path, "minLength", want, length))
		}
		if want, ok := intConstraint(c, "maxLength"); ok && length > want {
			add(lengthIssue(path, "maxLength", want, length))
		}
		if want, ok := intConstraint(c, "exactLength"); ok && length != want {
			add(lengthIssue(path, "exactLength", want, length))
		}
		if pattern, ok := c["pattern"].(string); ok {
			if re := v.schema.pattern(pattern); re != nil && !re.MatchString(s) {
				add(NewValidationIssue("pattern", path,
					"{field} does not match pattern {expected}",
					map[string]any{"field": path, "expected": pattern}))
			}
		}
		if format, ok := c["format"].(string); ok {
			if validate := Formats[format]; validate != nil && !validate(s) {
				add(NewValidationIssue("format", path,
					"{field} is not a valid {expected}",
					map[string]any{"field": path, "expected": format}))
			}
		}
	}

	if allowed, ok := c["oneOf"].([]any); ok {
		found := false
		for _, candidate := range allowed {
			if literalEqual(value, candidate) {
				found = true
				break
			}
		}
		if !found {
			add(NewValidationIssue("oneOf", path,
				"{field} is not one of the allowed values",
				map[string]any{"field": path}))
		}
	}
	if expected, ok := c["const"]; ok && !literalEqual(value, expected) {
		add(NewValidationIssue("const", path,
			"{field} must equal the declared constant",
			map[string]any{"field": path}))
	}

	if list, ok := value.([]any); ok {
		count := len(list)
		if want, ok := intConstraint(c, "minItems"); ok && count < want {
			add(itemsIssue(path, "minItems", want, count))
		}
		if want, ok := intConstraint(c, "maxItems"); ok && count > want {
			add(itemsIssue(path, "maxItems", want, count))
		}
		if want, ok := intConstraint(c, "exactItems"); ok && count != want {
			add(itemsIssue(path, "exactItems", want, count))
		}
		if unique, ok := c["unique"].(bool); ok && unique && !allUnique(list) {
			add(NewValidationIssue("unique", path,
				"{field} must not contain duplicate elements",
				map[string]any{"field": path}))
		}
	}

	return issues
}

func checkBound(path, code string, value, bound any, satisfied func(v, b float64) bool) *ValidationIssue {
	vf, vok := toFloat(value)
	bf, bok := toFloat(bound)
	if !vok || !bok || satisfied(vf, bf) {
		return nil
	}
	return NewValidationIssue(code, path,
		"{field} violates {code} {expected}",
		map[string]any{"field": path, "code": code, "expected": bound, "got": value})
}

func intConstraint(c map[string]any, key string) (int, bool) {
	raw, ok := c[key]
	if !ok {
		return 0, false
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func lengthIssue(path, code string, want, got int) *ValidationIssue {
	return NewValidationIssue(code, path,
		"{field} violates {code} {expected} (length {got})",
		map[string]any{"field": path, "code": code, "expected": want, "got": got})
}

func itemsIssue(path, code string, want, got int) *ValidationIssue {
	return NewValidationIssue(code, path,
		"{field} violates {code} {expected} (items {got})",
		map[string]any{"field": path, "code": code, "expected": want, "got": got})
}

// allUnique reports whether no two list elements compare equal under
// literal equality.
func allUnique(list []any) bool {
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if literalEqual(list[i], list[j]) {
				return false
			}
		}
	}
	return true
}
