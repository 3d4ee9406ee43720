package amino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, schema string) *SchemaAST {
	t.Helper()
	ast, err := ParseSchema(schema)
	require.NoError(t, err)
	return ast
}

func TestValidateAcceptsConsistentSchema(t *testing.T) {
	ast := mustParse(t, `struct Addr { city: Str }
addr: Addr
score: Int
check: (a: Int) -> Bool
`)
	assert.NoError(t, validateSchema(ast, map[string]bool{}))
}

func TestValidateRejectsDuplicateTopLevelNames(t *testing.T) {
	ast := mustParse(t, "score: Int\nscore: Str\n")
	var validationError *SchemaValidationError
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)
}

func TestValidateRejectsFieldStructNameClash(t *testing.T) {
	ast := mustParse(t, "struct Addr { city: Str }\nAddr: Int\n")
	var validationError *SchemaValidationError
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)
}

func TestValidateRejectsDuplicateStructFields(t *testing.T) {
	ast := mustParse(t, "struct Addr { city: Str, city: Str }\n")
	var validationError *SchemaValidationError
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)
}

func TestValidateRejectsUnknownTypeReference(t *testing.T) {
	ast := mustParse(t, "home: Address\n")
	err := validateSchema(ast, nil)
	var validationError *SchemaValidationError
	require.ErrorAs(t, err, &validationError)
	assert.Equal(t, "Address", validationError.Got)
}

func TestValidateAcceptsCustomTypeReference(t *testing.T) {
	ast := mustParse(t, "source: ipv4\n")
	assert.Error(t, validateSchema(ast, nil))
	assert.NoError(t, validateSchema(ast, map[string]bool{"ipv4": true}))
}

func TestValidateRejectsStructCycle(t *testing.T) {
	ast := mustParse(t, `struct A { b: B }
struct B { a: A }
`)
	var validationError *SchemaValidationError
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)
}

func TestValidateRejectsSelfReferentialStruct(t *testing.T) {
	ast := mustParse(t, "struct Node { next: Node }\n")
	var validationError *SchemaValidationError
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)
}

func TestValidateAcceptsDiamondStructReferences(t *testing.T) {
	ast := mustParse(t, `struct Leaf { v: Int }
struct A { leaf: Leaf }
struct B { leaf: Leaf }
root_a: A
root_b: B
`)
	assert.NoError(t, validateSchema(ast, nil))
}

func TestValidateChecksFunctionTypes(t *testing.T) {
	ast := mustParse(t, "f: (a: Mystery) -> Int\n")
	var validationError *SchemaValidationError
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)

	ast = mustParse(t, "f: (a: Int) -> Mystery\n")
	require.ErrorAs(t, validateSchema(ast, nil), &validationError)
}
