package amino

import (
	"fmt"
	"sort"
)

// TypeValidator checks whether a value conforms to a custom type. A
// panic inside the validator counts as validation failure.
type TypeValidator func(any) bool

type typeDef struct {
	base     string
	validate TypeValidator
}

// TypeRegistry maps custom type names to their base primitive and
// validator. A small built-in set (ipv4, ipv6, cidr, email, uuid, all
// base Str) is registered on construction.
type TypeRegistry struct {
	defs map[string]*typeDef
}

// NewTypeRegistry creates a registry pre-loaded with the built-in types.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{defs: make(map[string]*typeDef)}
	for _, name := range []string{"ipv4", "ipv6", "cidr", "email", "uuid"} {
		r.defs[name] = &typeDef{base: TypeStr, validate: Formats[name]}
	}
	return r
}

// Register adds a custom type. The base must be one of the four
// primitives, and the name must not collide with a primitive or a
// previously registered type. Collision with schema struct names is
// checked by the engine, which knows the schema.
func (r *TypeRegistry) Register(name, base string, validator TypeValidator) error {
	if !isPrimitive(base) {
		return validationErr(name, "custom type base must be a primitive, got %q", base)
	}
	if isPrimitive(name) {
		return validationErr(name, "custom type name %q collides with a primitive", name)
	}
	if _, exists := r.defs[name]; exists {
		return validationErr(name, "custom type %q already registered", name)
	}
	if validator == nil {
		return validationErr(name, "custom type %q requires a validator", name)
	}
	r.defs[name] = &typeDef{base: base, validate: validator}
	return nil
}

// Has reports whether the name is a registered custom type.
func (r *TypeRegistry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Base returns the base primitive of a registered custom type.
func (r *TypeRegistry) Base(name string) (string, bool) {
	def, ok := r.defs[name]
	if !ok {
		return "", false
	}
	return def.base, true
}

// Validate runs the named type's validator against a value. Unknown
// names and panicking validators both report failure.
func (r *TypeRegistry) Validate(name string, v any) (ok bool) {
	def, exists := r.defs[name]
	if !exists {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return def.validate(v)
}

// Names returns the registered custom type names, sorted.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *TypeRegistry) String() string {
	return fmt.Sprintf("TypeRegistry(%d types)", len(r.defs))
}
