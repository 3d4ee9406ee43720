package amino

import (
	"fmt"
	"strings"
)

// replace substitutes {key} placeholders in a template string with the
// corresponding parameter values.
func replace(template string, params map[string]any) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}
	return template
}

// runtimeTypeName identifies the schema type name for a Go value carried
// in a decision. Decisions are plain maps decoded from JSON or built by
// hand, so only the value kinds below can occur.
func runtimeTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "Null"
	case bool:
		return TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case string:
		return TypeStr
	case []any:
		return "List"
	case map[string]any:
		return "Struct"
	default:
		return "Unknown"
	}
}

// isIntValue reports whether v is an integer value. Booleans are not
// integers.
func isIntValue(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// isFloatValue reports whether v is acceptable where a Float is declared.
// Integers qualify; booleans never do.
func isFloatValue(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return isIntValue(v)
}

// toFloat converts any numeric value to float64. The ok result is false
// for non-numeric values, including booleans.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// literalEqual compares two literal values the way constraint checks and
// the equality operators do: numerics compare by value across Int and
// Float, everything else requires matching kind.
func literalEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !literalEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}
	return false
}

// truthy reports the rule-level truth of a raw evaluation value:
// true booleans, non-zero numbers, and non-empty strings or lists.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case nil:
		return false
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return false
}
