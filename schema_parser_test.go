package amino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleFields(t *testing.T) {
	ast, err := ParseSchema("credit_score: Int\nname: Str\nactive: Bool\nscore: Float\n")
	require.NoError(t, err)

	require.Len(t, ast.Fields, 4)
	assert.Equal(t, "credit_score", ast.Fields[0].Name)
	assert.Equal(t, TypeInt, ast.Fields[0].Type.Name)
	assert.Equal(t, TypeFloat, ast.Fields[3].Type.Name)
	assert.False(t, ast.Fields[0].Optional)
}

func TestParseOptionalField(t *testing.T) {
	ast, err := ParseSchema("nickname: Str?\n")
	require.NoError(t, err)

	require.Len(t, ast.Fields, 1)
	assert.True(t, ast.Fields[0].Optional)
}

func TestParseComments(t *testing.T) {
	schema := `# header comment
credit_score: Int  # trailing comment

# standalone
name: Str
`
	ast, err := ParseSchema(schema)
	require.NoError(t, err)
	assert.Len(t, ast.Fields, 2)
}

func TestParseConstraintBlock(t *testing.T) {
	ast, err := ParseSchema("age: Int {min: 13, max: 120}\n")
	require.NoError(t, err)

	require.Len(t, ast.Fields, 1)
	constraints := ast.Fields[0].Constraints
	assert.Equal(t, int64(13), constraints["min"])
	assert.Equal(t, int64(120), constraints["max"])
}

func TestParseConstraintValueKinds(t *testing.T) {
	schema := "rate: Float {min: 0.1, max: 600.0}\n" +
		"state: Str {oneOf: ['CA', 'NY'], minLength: 2}\n" +
		"flag: Bool {const: true}\n"
	ast, err := ParseSchema(schema)
	require.NoError(t, err)

	// float parsed greedily before integer
	assert.Equal(t, 0.1, ast.Fields[0].Constraints["min"])
	assert.Equal(t, 600.0, ast.Fields[0].Constraints["max"])
	assert.Equal(t, []any{"CA", "NY"}, ast.Fields[1].Constraints["oneOf"])
	assert.Equal(t, int64(2), ast.Fields[1].Constraints["minLength"])
	assert.Equal(t, true, ast.Fields[2].Constraints["const"])
}

func TestParseStructCommaSeparated(t *testing.T) {
	ast, err := ParseSchema("struct Addr { city: Str, zip: Str }\n")
	require.NoError(t, err)

	require.Len(t, ast.Structs, 1)
	assert.Equal(t, "Addr", ast.Structs[0].Name)
	require.Len(t, ast.Structs[0].Fields, 2)
	assert.Equal(t, "zip", ast.Structs[0].Fields[1].Name)
}

func TestParseStructNewlineSeparated(t *testing.T) {
	schema := `struct User {
	name: Str
	age: Int {min: 13}, email: Str?
}
user: User
`
	ast, err := ParseSchema(schema)
	require.NoError(t, err)

	require.Len(t, ast.Structs, 1)
	require.Len(t, ast.Structs[0].Fields, 3)
	assert.Equal(t, int64(13), ast.Structs[0].Fields[1].Constraints["min"])
	assert.True(t, ast.Structs[0].Fields[2].Optional)
	require.Len(t, ast.Fields, 1)
	assert.Equal(t, "User", ast.Fields[0].Type.Name)
}

func TestParseFunctionSignature(t *testing.T) {
	ast, err := ParseSchema("risk: (score: Int, region: Str?) -> Float\n")
	require.NoError(t, err)

	require.Len(t, ast.Funcs, 1)
	fn := ast.Funcs[0]
	assert.Equal(t, "risk", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, TypeInt, fn.Params[0].Type.Name)
	assert.True(t, fn.Params[1].Optional)
	assert.Equal(t, TypeFloat, fn.Return.Name)
}

func TestParseListTypes(t *testing.T) {
	ast, err := ParseSchema("tags: List[Str]\nmixed: List[Int|Str]\n")
	require.NoError(t, err)

	require.Len(t, ast.Fields, 2)
	assert.True(t, ast.Fields[0].Type.IsList())
	assert.Equal(t, "List[Str]", ast.Fields[0].Type.String())
	assert.Equal(t, "List[Int|Str]", ast.Fields[1].Type.String())
}

func TestParseRejectsTopLevelUnion(t *testing.T) {
	_, err := ParseSchema("value: Int|Str\n")
	var parseErr *SchemaParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseErrorCarriesLine(t *testing.T) {
	_, err := ParseSchema("name: Str\nbroken:\n")
	var parseErr *SchemaParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}

func TestParseRejectsUnterminatedStruct(t *testing.T) {
	_, err := ParseSchema("struct Addr { city: Str\n")
	var parseErr *SchemaParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseSchema("name: Str junk\n")
	var parseErr *SchemaParseError
	require.ErrorAs(t, err, &parseErr)
}
