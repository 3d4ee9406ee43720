package amino

import (
	"fmt"
	"os"

	"github.com/kaptinlin/go-i18n"
)

// Mode is an enforcement level: strict raises, loose records warnings
// and proceeds with what remains valid.
type Mode string

const (
	Strict Mode = "strict"
	Loose  Mode = "loose"
)

// Engine bundles one schema with its type, operator and function
// registries. Registration is open until the first Compile or Eval
// freezes the engine; after that every registration attempt returns an
// EngineAlreadyFrozenError.
type Engine struct {
	schema *SchemaRegistry
	types  *TypeRegistry
	ops    *OperatorRegistry
	funcs  map[string]RuleFunc

	rulesMode     Mode
	decisionsMode Mode
	localizer     *i18n.Localizer

	frozen  bool
	current *CompiledRuleSet

	// ast is the parsed schema, kept so RegisterType can rebuild the
	// schema registry with the grown list of custom-type names.
	ast *SchemaAST
}

type engineConfig struct {
	funcs         map[string]RuleFunc
	rulesMode     Mode
	decisionsMode Mode
	operators     []*OperatorDef
	opsErr        error
	localizer     *i18n.Localizer
}

// Option configures LoadSchema.
type Option func(*engineConfig)

// WithFunctions supplies the caller's function map.
func WithFunctions(funcs map[string]RuleFunc) Option {
	return func(c *engineConfig) { c.funcs = funcs }
}

// WithRulesMode sets strict or loose rule compilation. Default strict.
func WithRulesMode(mode Mode) Option {
	return func(c *engineConfig) { c.rulesMode = mode }
}

// WithDecisionsMode sets strict or loose decision validation. Default
// loose.
func WithDecisionsMode(mode Mode) Option {
	return func(c *engineConfig) { c.decisionsMode = mode }
}

// WithStandardOperators selects the full built-in operator set. This is
// the default.
func WithStandardOperators() Option {
	return func(c *engineConfig) { c.operators = StandardOperators() }
}

// WithMinimalOperators selects only the irreducible operator minimum:
// and, or, not, plus the parser's structural syntax.
func WithMinimalOperators() Option {
	return func(c *engineConfig) { c.operators = MinimalOperators() }
}

// WithOperators selects built-in operators by token. The minimal set is
// always included.
func WithOperators(tokens ...string) Option {
	return func(c *engineConfig) { c.operators, c.opsErr = OperatorPreset(tokens...) }
}

// WithLocalizer renders decision-validation warnings through a
// localizer from the bundle GetI18n returns. Without one, warnings use
// the default English templates.
func WithLocalizer(localizer *i18n.Localizer) Option {
	return func(c *engineConfig) { c.localizer = localizer }
}

// LoadSchema constructs an engine from a schema source: a file path
// when the filesystem has it, inline schema text otherwise. The probe
// is by filesystem lookup, not by sniffing the text.
func LoadSchema(source string, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{
		rulesMode:     Strict,
		decisionsMode: Loose,
		operators:     StandardOperators(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.opsErr != nil {
		return nil, cfg.opsErr
	}

	text := source
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}
		text = string(data)
	}

	ast, err := ParseSchema(text)
	if err != nil {
		return nil, err
	}
	types := NewTypeRegistry()
	ops, err := NewOperatorRegistry(cfg.operators)
	if err != nil {
		return nil, err
	}
	schema, err := NewSchemaRegistry(ast, types.Names())
	if err != nil {
		return nil, err
	}

	funcs := make(map[string]RuleFunc, len(cfg.funcs))
	for name, fn := range cfg.funcs {
		funcs[name] = fn
	}
	return &Engine{
		schema:        schema,
		types:         types,
		ops:           ops,
		funcs:         funcs,
		rulesMode:     cfg.rulesMode,
		decisionsMode: cfg.decisionsMode,
		localizer:     cfg.localizer,
		ast:           ast,
	}, nil
}

func (e *Engine) frozenErr(operation string) error {
	return &EngineAlreadyFrozenError{ErrorDetail{
		Message: fmt.Sprintf("cannot %s after compile or eval", operation),
	}}
}

// AddFunction binds a named function for rules to call.
func (e *Engine) AddFunction(name string, fn RuleFunc) error {
	if e.frozen {
		return e.frozenErr("add function")
	}
	e.funcs[name] = fn
	return nil
}

// RegisterType adds a custom type over one of the four primitives. The
// name must not collide with primitives, existing custom types, or a
// struct declared in the schema.
func (e *Engine) RegisterType(name, base string, validator TypeValidator) error {
	if e.frozen {
		return e.frozenErr("register type")
	}
	if e.schema.HasStruct(name) {
		return validationErr(name, "custom type %q collides with a declared struct", name)
	}
	if err := e.types.Register(name, base, validator); err != nil {
		return err
	}
	// rebuild the registry so its known custom-type names include the new type
	schema, err := NewSchemaRegistry(e.ast, e.types.Names())
	if err != nil {
		return err
	}
	e.schema = schema
	return nil
}

// RegisterOperator adds an operator definition to the registry.
func (e *Engine) RegisterOperator(def *OperatorDef) error {
	if e.frozen {
		return e.frozenErr("register operator")
	}
	return e.ops.Register(def)
}

// Compile freezes the engine and compiles a rule set with the given
// match configuration (nil means mode "all").
func (e *Engine) Compile(rules []RuleSpec, match *MatchConfig) (*CompiledRuleSet, error) {
	e.frozen = true
	normalized, err := match.normalized()
	if err != nil {
		return nil, err
	}
	compiled, warnings, err := compileRules(rules, e.schema, e.ops, e.types, e.rulesMode == Strict)
	if err != nil {
		return nil, err
	}
	set := &CompiledRuleSet{
		rules:           compiled,
		match:           normalized,
		funcs:           e.funcs,
		validator:       newDecisionValidator(e.schema, e.types, e.decisionsMode == Strict),
		localizer:       e.localizer,
		compileWarnings: warnings,
	}
	e.current = set
	return set, nil
}

// Eval compiles the rules and evaluates a single decision in one call.
func (e *Engine) Eval(rules []RuleSpec, decision map[string]any, match *MatchConfig) (*MatchResult, error) {
	set, err := e.Compile(rules, match)
	if err != nil {
		return nil, err
	}
	return set.EvalSingle(decision)
}

// UpdateRules compiles a replacement rule set under the current match
// configuration and swaps it in, leaving every registry untouched. The
// previous set stays valid for callers still holding it.
func (e *Engine) UpdateRules(rules []RuleSpec) (*CompiledRuleSet, error) {
	var match *MatchConfig
	if e.current != nil {
		match = e.current.match
	}
	return e.Compile(rules, match)
}

// CurrentRules returns the most recently compiled rule set, if any.
func (e *Engine) CurrentRules() *CompiledRuleSet {
	return e.current
}

// ExportSchema serializes the engine's schema back to schema text.
func (e *Engine) ExportSchema() string {
	return e.schema.ExportSchema()
}
