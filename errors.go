package amino

import (
	"errors"
	"fmt"

	"github.com/kaptinlin/go-i18n"
)

// ErrorDetail is the structured payload shared by every error kind the
// engine raises. Field, Expected and Got are optional and empty when they
// do not apply.
type ErrorDetail struct {
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`
}

func (d ErrorDetail) Error() string {
	msg := d.Message
	if d.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, d.Field)
	}
	if d.Expected != "" || d.Got != "" {
		msg = fmt.Sprintf("%s (expected %s, got %s)", msg, d.Expected, d.Got)
	}
	return msg
}

// SchemaParseError reports a syntax error in schema text, with the
// 1-based line the parser was on.
type SchemaParseError struct {
	ErrorDetail
	Line int `json:"line"`
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("schema parse error at line %d: %s", e.Line, e.ErrorDetail.Error())
}

// SchemaValidationError reports a self-consistency failure in a parsed
// schema: duplicate names, unknown type references, or circular struct
// references.
type SchemaValidationError struct {
	ErrorDetail
}

func (e *SchemaValidationError) Error() string {
	return "schema validation error: " + e.ErrorDetail.Error()
}

// RuleParseError reports a syntax or resolution failure in a rule
// expression. Compile stops at the first failing rule and returns the
// error wrapped with that rule's id; no rule set is produced.
type RuleParseError struct {
	ErrorDetail
	Pos int `json:"pos"`
}

func (e *RuleParseError) Error() string {
	return "rule parse error: " + e.ErrorDetail.Error()
}

// TypeMismatchError is raised by the typed compiler in strict rules mode
// when no operator resolves for the operand types, or a declared function
// signature disagrees with its use.
type TypeMismatchError struct {
	ErrorDetail
}

func (e *TypeMismatchError) Error() string {
	return "type mismatch: " + e.ErrorDetail.Error()
}

// DecisionValidationError is raised in strict decisions mode on the first
// schema violation found in an incoming decision.
type DecisionValidationError struct {
	ErrorDetail
	Issue *ValidationIssue `json:"issue,omitempty"`
}

func (e *DecisionValidationError) Error() string {
	return "decision validation error: " + e.ErrorDetail.Error()
}

// RuleEvaluationError reports a runtime failure inside an evaluator node
// (missing decision key, absent function). The evaluator shell catches it
// and demotes the rule result to false; it never surfaces to callers.
type RuleEvaluationError struct {
	ErrorDetail
}

func (e *RuleEvaluationError) Error() string {
	return "rule evaluation error: " + e.ErrorDetail.Error()
}

// OperatorConflictError is raised when registering an operator whose
// token and exact input types are already taken, or whose binding power
// or fixity disagrees with existing definitions of the same token.
type OperatorConflictError struct {
	ErrorDetail
}

func (e *OperatorConflictError) Error() string {
	return "operator conflict: " + e.ErrorDetail.Error()
}

// EngineAlreadyFrozenError is raised by registration methods after the
// first Compile or Eval has frozen the engine's registries.
type EngineAlreadyFrozenError struct {
	ErrorDetail
}

func (e *EngineAlreadyFrozenError) Error() string {
	return "engine already frozen: " + e.ErrorDetail.Error()
}

// Sentinel errors for conditions that do not carry a structured payload.
var (
	// ErrDuplicateRuleID is returned when two rules in one Compile call
	// share an external id.
	ErrDuplicateRuleID = errors.New("duplicate rule id")

	// ErrUnknownOperatorToken is returned when an explicit operator
	// preset names a token with no built-in definition.
	ErrUnknownOperatorToken = errors.New("unknown operator token")

	// ErrReservedAggregate is returned for score-mode aggregates other
	// than "sum".
	ErrReservedAggregate = errors.New("reserved score aggregate")

	// ErrUnknownMatchMode is returned for a match mode outside
	// all/first/inverse/score.
	ErrUnknownMatchMode = errors.New("unknown match mode")

	// ErrUnsupportedRuleFile is returned when a rule file extension maps
	// to no registered media type.
	ErrUnsupportedRuleFile = errors.New("unsupported rule file format")
)

// ValidationIssue is a single decision-validation finding. In loose
// decisions mode issues become MatchResult warnings; in strict mode the
// first issue is wrapped in a DecisionValidationError.
type ValidationIssue struct {
	Code    string         `json:"code"`
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// NewValidationIssue creates an issue with the given machine code,
// dotted field path and message template.
func NewValidationIssue(code, field, message string, params ...map[string]any) *ValidationIssue {
	issue := &ValidationIssue{Code: code, Field: field, Message: message}
	if len(params) > 0 {
		issue.Params = params[0]
	}
	return issue
}

func (i *ValidationIssue) Error() string {
	return replace(i.Message, i.Params)
}

// Localize returns a localized message using the provided localizer,
// falling back to the default template when localizer is nil.
func (i *ValidationIssue) Localize(localizer *i18n.Localizer) string {
	if localizer != nil {
		return localizer.Get(i.Code, i18n.Vars(i.Params))
	}
	return i.Error()
}
