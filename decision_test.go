package amino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidatorFixture(t *testing.T, schemaText string, strict bool) *DecisionValidator {
	t.Helper()
	types := NewTypeRegistry()
	ast := mustParse(t, schemaText)
	schema, err := NewSchemaRegistry(ast, types.Names())
	require.NoError(t, err)
	return newDecisionValidator(schema, types, strict)
}

func TestValidateRequiredMissingStrict(t *testing.T) {
	v := newValidatorFixture(t, "score: Int\n", true)
	_, _, err := v.Validate(map[string]any{})
	var decisionErr *DecisionValidationError
	require.ErrorAs(t, err, &decisionErr)
}

func TestValidateRequiredMissingLoose(t *testing.T) {
	v := newValidatorFixture(t, "score: Int\n", false)
	cleaned, issues, err := v.Validate(map[string]any{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "required", issues[0].Code)
	assert.NotContains(t, cleaned, "score")
}

func TestValidateOptionalMissingSkips(t *testing.T) {
	v := newValidatorFixture(t, "nickname: Str?\n", true)
	cleaned, issues, err := v.Validate(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Empty(t, cleaned)
}

func TestValidateNullTreatedAsMissing(t *testing.T) {
	v := newValidatorFixture(t, "nickname: Str?\nscore: Int\n", false)
	_, issues, err := v.Validate(map[string]any{"nickname": nil, "score": nil})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "score", issues[0].Field)
}

func TestValidateNoCoercion(t *testing.T) {
	cases := []struct {
		name     string
		schema   string
		value    any
		accepted bool
	}{
		{"int accepts int", "v: Int\n", int64(5), true},
		{"int rejects bool", "v: Int\n", true, false},
		{"int rejects float", "v: Int\n", 5.0, false},
		{"int rejects string", "v: Int\n", "5", false},
		{"float accepts float", "v: Float\n", 5.5, true},
		{"float accepts int", "v: Float\n", int64(5), true},
		{"float rejects bool", "v: Float\n", true, false},
		{"str rejects int", "v: Str\n", int64(1), false},
		{"bool rejects int", "v: Bool\n", int64(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newValidatorFixture(t, tc.schema, false)
			cleaned, issues, err := v.Validate(map[string]any{"v": tc.value})
			require.NoError(t, err)
			if tc.accepted {
				assert.Empty(t, issues)
				assert.Equal(t, tc.value, cleaned["v"])
			} else {
				require.Len(t, issues, 1)
				assert.Equal(t, "type", issues[0].Code)
				assert.NotContains(t, cleaned, "v")
			}
		})
	}
}

func TestValidateCustomType(t *testing.T) {
	v := newValidatorFixture(t, "source_ip: ipv4\n", false)

	_, issues, err := v.Validate(map[string]any{"source_ip": "10.0.0.1"})
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, issues, err = v.Validate(map[string]any{"source_ip": "999.0.0.1"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "custom_type", issues[0].Code)
}

func TestValidateListElements(t *testing.T) {
	v := newValidatorFixture(t, "tags: List[Str]\nmixed: List[Int|Str]\n", false)

	_, issues, err := v.Validate(map[string]any{
		"tags":  []any{"a", "b"},
		"mixed": []any{int64(1), "two"},
	})
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, issues, err = v.Validate(map[string]any{
		"tags":  []any{"a", int64(2)},
		"mixed": []any{true},
	})
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestValidateConstraints(t *testing.T) {
	schema := "age: Int {min: 13, max: 120}\n" +
		"code: Str {exactLength: 2, pattern: '^[A-Z]+$'}\n" +
		"email_addr: Str {format: 'email'}\n" +
		"level: Int {oneOf: [1, 2, 3]}\n" +
		"kind: Str {const: 'fixed'}\n" +
		"items: List[Int] {minItems: 1, maxItems: 3, unique: true}\n"

	valid := map[string]any{
		"age":        int64(30),
		"code":       "CA",
		"email_addr": "a@example.com",
		"level":      int64(2),
		"kind":       "fixed",
		"items":      []any{int64(1), int64(2)},
	}
	v := newValidatorFixture(t, schema, false)
	cleaned, issues, err := v.Validate(valid)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Len(t, cleaned, 6)

	invalid := map[string]any{
		"age":        int64(12),
		"code":       "ca",
		"email_addr": "nope",
		"level":      int64(9),
		"kind":       "other",
		"items":      []any{int64(1), int64(1)},
	}
	cleaned, issues, err = v.Validate(invalid)
	require.NoError(t, err)
	assert.Empty(t, cleaned)
	codes := make(map[string]bool)
	for _, issue := range issues {
		codes[issue.Code] = true
	}
	for _, want := range []string{"min", "pattern", "format", "oneOf", "const", "unique"} {
		assert.True(t, codes[want], want)
	}
}

func TestValidateExclusiveBounds(t *testing.T) {
	v := newValidatorFixture(t, "rate: Float {exclusiveMin: 0.0, exclusiveMax: 1.0}\n", false)

	_, issues, err := v.Validate(map[string]any{"rate": 0.5})
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, issues, err = v.Validate(map[string]any{"rate": 0.0})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "exclusiveMin", issues[0].Code)

	_, issues, err = v.Validate(map[string]any{"rate": 1.0})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "exclusiveMax", issues[0].Code)
}

func TestValidateStructRecursion(t *testing.T) {
	schema := `struct Addr { city: Str, age_limit: Int? {min: 13} }
addr: Addr
`
	v := newValidatorFixture(t, schema, false)

	cleaned, issues, err := v.Validate(map[string]any{
		"addr": map[string]any{"city": "SF", "age_limit": int64(21), "extra": "kept"},
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
	nested := cleaned["addr"].(map[string]any)
	assert.Equal(t, "SF", nested["city"])
	assert.Equal(t, "kept", nested["extra"])

	cleaned, issues, err = v.Validate(map[string]any{
		"addr": map[string]any{"city": "SF", "age_limit": int64(5)},
	})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "addr.age_limit", issues[0].Field)
	nested = cleaned["addr"].(map[string]any)
	assert.Equal(t, "SF", nested["city"])
	assert.NotContains(t, nested, "age_limit")
}

func TestValidateStructStrictNestedViolation(t *testing.T) {
	schema := "struct Addr { city: Str }\naddr: Addr\n"
	v := newValidatorFixture(t, schema, true)
	_, _, err := v.Validate(map[string]any{"addr": map[string]any{"city": int64(1)}})
	var decisionErr *DecisionValidationError
	require.ErrorAs(t, err, &decisionErr)
}

func TestValidateExtraFieldsPassThrough(t *testing.T) {
	v := newValidatorFixture(t, "score: Int\n", false)
	cleaned, issues, err := v.Validate(map[string]any{
		"score": int64(1),
		"id":    "decision-42",
		"other": []any{"x"},
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, "decision-42", cleaned["id"])
	assert.Equal(t, []any{"x"}, cleaned["other"])
}
