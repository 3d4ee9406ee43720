package amino

import (
	"fmt"
	"strings"
)

// RuleFunc is a caller-supplied function invocable from rule
// expressions. Arguments arrive already evaluated.
type RuleFunc func(args ...any) (any, error)

// RuleNode is one node of a compiled rule's evaluator tree. Every node
// carries its resolved type name by the end of compilation. Evaluation
// dispatches on node kind; any error it returns is demoted to a falsy
// rule result by the evaluator shell.
type RuleNode interface {
	// TypeName is the node's resolved result type.
	TypeName() string
	eval(decision map[string]any, funcs map[string]RuleFunc) (any, error)
}

// LiteralNode is a constant value: number, string, or boolean.
type LiteralNode struct {
	Value any
	Type  string
}

func (n *LiteralNode) TypeName() string { return n.Type }

func (n *LiteralNode) eval(map[string]any, map[string]RuleFunc) (any, error) {
	return n.Value, nil
}

// ListNode is a bracketed list literal. Its type name is "List".
type ListNode struct {
	Items []RuleNode
}

func (n *ListNode) TypeName() string { return "List" }

func (n *ListNode) eval(decision map[string]any, funcs map[string]RuleFunc) (any, error) {
	items := make([]any, len(n.Items))
	for i, item := range n.Items {
		v, err := item.eval(decision, funcs)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// VariableNode reads a dotted path from the decision map. A missing key
// at any depth is a RuleEvaluationError.
type VariableNode struct {
	Path []string
	Type string
}

func (n *VariableNode) TypeName() string { return n.Type }

func (n *VariableNode) Name() string { return strings.Join(n.Path, ".") }

func (n *VariableNode) eval(decision map[string]any, _ map[string]RuleFunc) (any, error) {
	current := any(decision)
	for _, segment := range n.Path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, &RuleEvaluationError{ErrorDetail{
				Message: fmt.Sprintf("cannot traverse %q in path %q", segment, n.Name()),
				Field:   n.Name(),
			}}
		}
		current, ok = m[segment]
		if !ok {
			return nil, &RuleEvaluationError{ErrorDetail{
				Message: fmt.Sprintf("missing field %q", n.Name()),
				Field:   n.Name(),
			}}
		}
	}
	return current, nil
}

// UnaryNode applies a prefix operator to its operand.
type UnaryNode struct {
	Token   string
	Operand RuleNode
	Type    string
	Fn      OpFunc
}

func (n *UnaryNode) TypeName() string { return n.Type }

func (n *UnaryNode) eval(decision map[string]any, funcs map[string]RuleFunc) (any, error) {
	v, err := n.Operand.eval(decision, funcs)
	if err != nil {
		return nil, err
	}
	return n.Fn(v)
}

// BinaryNode applies an infix operator. The and/or tokens short-circuit
// left to right here instead of calling their registered functions.
type BinaryNode struct {
	Token string
	Left  RuleNode
	Right RuleNode
	Type  string
	Fn    OpFunc
}

func (n *BinaryNode) TypeName() string { return n.Type }

func (n *BinaryNode) eval(decision map[string]any, funcs map[string]RuleFunc) (any, error) {
	switch n.Token {
	case "and":
		left, err := n.Left.eval(decision, funcs)
		if err != nil {
			return nil, err
		}
		if !truthy(left) {
			return false, nil
		}
		right, err := n.Right.eval(decision, funcs)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil
	case "or":
		left, err := n.Left.eval(decision, funcs)
		if err != nil {
			return nil, err
		}
		if truthy(left) {
			return true, nil
		}
		right, err := n.Right.eval(decision, funcs)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil
	}
	left, err := n.Left.eval(decision, funcs)
	if err != nil {
		return nil, err
	}
	right, err := n.Right.eval(decision, funcs)
	if err != nil {
		return nil, err
	}
	return n.Fn(left, right)
}

// CallNode invokes a caller-supplied function from the function map.
// Absence of the function is a RuleEvaluationError.
type CallNode struct {
	Name string
	Args []RuleNode
	Type string
}

func (n *CallNode) TypeName() string { return n.Type }

func (n *CallNode) eval(decision map[string]any, funcs map[string]RuleFunc) (any, error) {
	fn, ok := funcs[n.Name]
	if !ok {
		return nil, &RuleEvaluationError{ErrorDetail{
			Message: fmt.Sprintf("function %q not provided", n.Name),
			Field:   n.Name,
		}}
	}
	args := make([]any, len(n.Args))
	for i, arg := range n.Args {
		v, err := arg.eval(decision, funcs)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args...)
}
