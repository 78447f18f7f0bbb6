// evaluator_ops.go — operators, indexing and assignment targets.
package herlang

import "fmt"

func (ip *Interpreter) evalPrefixExpr(n *PrefixExpr, env *Env) (Value, error) {
	operand, err := ip.evalExpr(n.Operand, env)
	if err != nil {
		return Null, err
	}
	switch n.Op {
	case "!":
		if operand.Tag != VTBool {
			return Null, &TypeError{
				Span: n.Span,
				Msg:  fmt.Sprintf("operator '!' needs a bool, got %s", operand.Tag),
			}
		}
		return BoolVal(!operand.Data.(bool)), nil
	case "-":
		if operand.Tag != VTInt {
			return Null, &TypeError{
				Span: n.Span,
				Msg:  fmt.Sprintf("operator '-' needs an int, got %s", operand.Tag),
			}
		}
		return IntVal(-operand.Data.(int64)), nil
	case "+":
		if operand.Tag != VTInt {
			return Null, &TypeError{
				Span: n.Span,
				Msg:  fmt.Sprintf("operator '+' needs an int, got %s", operand.Tag),
			}
		}
		return operand, nil
	default:
		panic(fmt.Sprintf("herlang: unhandled prefix operator %q", n.Op))
	}
}

func (ip *Interpreter) evalInfixExpr(n *InfixExpr, env *Env) (Value, error) {
	// && and || short-circuit: the right operand is only evaluated when
	// the left one does not decide the result.
	if n.Op == "&&" || n.Op == "||" {
		return ip.evalLogicalExpr(n, env)
	}
	left, err := ip.evalExpr(n.Left, env)
	if err != nil {
		return Null, err
	}
	right, err := ip.evalExpr(n.Right, env)
	if err != nil {
		return Null, err
	}
	switch n.Op {
	case "==", "!=":
		eq, ok := valuesEqual(left, right)
		if !ok {
			return Null, &TypeError{
				Span: n.Span,
				Msg:  fmt.Sprintf("cannot compare %s with %s", left.Tag, right.Tag),
			}
		}
		if n.Op == "!=" {
			eq = !eq
		}
		return BoolVal(eq), nil
	case "+":
		return ip.evalPlus(n.Span, left, right)
	case "-", "*", "/", "%":
		return ip.evalIntArith(n.Span, n.Op, left, right)
	case "<", "<=", ">", ">=":
		return ip.evalComparison(n.Span, n.Op, left, right)
	default:
		panic(fmt.Sprintf("herlang: unhandled infix operator %q", n.Op))
	}
}

func (ip *Interpreter) evalLogicalExpr(n *InfixExpr, env *Env) (Value, error) {
	left, err := ip.evalExpr(n.Left, env)
	if err != nil {
		return Null, err
	}
	if left.Tag != VTBool {
		return Null, &TypeError{
			Span: n.Left.NodeSpan(),
			Msg:  fmt.Sprintf("operator '%s' needs bool operands, got %s", n.Op, left.Tag),
		}
	}
	lv := left.Data.(bool)
	if n.Op == "&&" && !lv {
		return BoolVal(false), nil
	}
	if n.Op == "||" && lv {
		return BoolVal(true), nil
	}
	right, err := ip.evalExpr(n.Right, env)
	if err != nil {
		return Null, err
	}
	if right.Tag != VTBool {
		return Null, &TypeError{
			Span: n.Right.NodeSpan(),
			Msg:  fmt.Sprintf("operator '%s' needs bool operands, got %s", n.Op, right.Tag),
		}
	}
	return right, nil
}

// evalPlus adds ints, concatenates strings and concatenates arrays.
// Array concatenation builds a fresh array; neither operand is mutated.
func (ip *Interpreter) evalPlus(span Span, left, right Value) (Value, error) {
	switch {
	case left.Tag == VTInt && right.Tag == VTInt:
		return IntVal(left.Data.(int64) + right.Data.(int64)), nil
	case left.Tag == VTStr && right.Tag == VTStr:
		return StrVal(left.Data.(string) + right.Data.(string)), nil
	case left.Tag == VTArray && right.Tag == VTArray:
		la := left.Data.(*ArrayObject).Elements
		ra := right.Data.(*ArrayObject).Elements
		out := make([]Value, 0, len(la)+len(ra))
		out = append(out, la...)
		out = append(out, ra...)
		return NewArray(out), nil
	default:
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("operator '+' does not apply to %s and %s", left.Tag, right.Tag),
		}
	}
}

func (ip *Interpreter) evalIntArith(span Span, op string, left, right Value) (Value, error) {
	if left.Tag != VTInt || right.Tag != VTInt {
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("operator '%s' needs int operands, got %s and %s", op, left.Tag, right.Tag),
		}
	}
	l := left.Data.(int64)
	r := right.Data.(int64)
	switch op {
	case "-":
		return IntVal(l - r), nil
	case "*":
		return IntVal(l * r), nil
	case "/":
		if r == 0 {
			return Null, &ArithmeticError{Span: span, Msg: "division by zero"}
		}
		return IntVal(l / r), nil
	case "%":
		if r == 0 {
			return Null, &ArithmeticError{Span: span, Msg: "modulo by zero"}
		}
		return IntVal(l % r), nil
	default:
		panic(fmt.Sprintf("herlang: unhandled arithmetic operator %q", op))
	}
}

func (ip *Interpreter) evalComparison(span Span, op string, left, right Value) (Value, error) {
	if left.Tag == VTInt && right.Tag == VTInt {
		l := left.Data.(int64)
		r := right.Data.(int64)
		switch op {
		case "<":
			return BoolVal(l < r), nil
		case "<=":
			return BoolVal(l <= r), nil
		case ">":
			return BoolVal(l > r), nil
		case ">=":
			return BoolVal(l >= r), nil
		}
	}
	if left.Tag == VTStr && right.Tag == VTStr {
		l := left.Data.(string)
		r := right.Data.(string)
		switch op {
		case "<":
			return BoolVal(l < r), nil
		case "<=":
			return BoolVal(l <= r), nil
		case ">":
			return BoolVal(l > r), nil
		case ">=":
			return BoolVal(l >= r), nil
		}
	}
	return Null, &TypeError{
		Span: span,
		Msg:  fmt.Sprintf("operator '%s' does not apply to %s and %s", op, left.Tag, right.Tag),
	}
}

func (ip *Interpreter) evalIndexExpr(n *IndexExpr, env *Env) (Value, error) {
	left, err := ip.evalExpr(n.Left, env)
	if err != nil {
		return Null, err
	}
	index, err := ip.evalExpr(n.Index, env)
	if err != nil {
		return Null, err
	}
	switch left.Tag {
	case VTArray:
		arr := left.Data.(*ArrayObject)
		i, err := arrayIndex(n.Index.NodeSpan(), arr, index)
		if err != nil {
			return Null, err
		}
		return arr.Elements[i], nil
	case VTHash:
		h := left.Data.(*HashObject)
		if _, hashable := HashKeyOf(index); !hashable {
			return Null, &TypeError{
				Span: n.Index.NodeSpan(),
				Msg:  fmt.Sprintf("%s is not usable as a hash key", index.Tag),
			}
		}
		if v, ok := h.Get(index); ok {
			return v, nil
		}
		return Null, nil
	case VTStr:
		return stringIndex(n.Index.NodeSpan(), left.Data.(string), index)
	default:
		return Null, &TypeError{
			Span: n.Span,
			Msg:  fmt.Sprintf("%s is not indexable", left.Tag),
		}
	}
}

// arrayIndex validates an array subscript: it must be an int inside
// [0, len). Out-of-range access is a fault, not null.
func arrayIndex(span Span, arr *ArrayObject, index Value) (int, error) {
	if index.Tag != VTInt {
		return 0, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("array index must be an int, got %s", index.Tag),
		}
	}
	i := index.Data.(int64)
	if i < 0 || i >= int64(len(arr.Elements)) {
		return 0, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("array index %d out of range [0, %d)", i, len(arr.Elements)),
		}
	}
	return int(i), nil
}

// stringIndex yields the i-th rune of s as a one-character string.
func stringIndex(span Span, s string, index Value) (Value, error) {
	if index.Tag != VTInt {
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("string index must be an int, got %s", index.Tag),
		}
	}
	runes := []rune(s)
	i := index.Data.(int64)
	if i < 0 || i >= int64(len(runes)) {
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("string index %d out of range [0, %d)", i, len(runes)),
		}
	}
	return StrVal(string(runes[i])), nil
}

// evalAssignExpr handles the three assignment targets: a plain name, an
// array slot and a hash key. The assignment expression evaluates to the
// assigned value.
func (ip *Interpreter) evalAssignExpr(n *AssignExpr, env *Env) (Value, error) {
	switch target := n.Target.(type) {
	case *Ident:
		v, err := ip.evalExpr(n.Value, env)
		if err != nil {
			return Null, err
		}
		if !env.Assign(target.Name, v) {
			return Null, &NameError{
				Span: target.Span,
				Name: target.Name,
				Msg:  fmt.Sprintf("cannot assign to undeclared name '%s'", target.Name),
			}
		}
		return v, nil
	case *IndexExpr:
		return ip.evalIndexAssign(n, target, env)
	default:
		return Null, &TypeError{
			Span: n.Target.NodeSpan(),
			Msg:  "invalid assignment target",
		}
	}
}

func (ip *Interpreter) evalIndexAssign(n *AssignExpr, target *IndexExpr, env *Env) (Value, error) {
	container, err := ip.evalExpr(target.Left, env)
	if err != nil {
		return Null, err
	}
	index, err := ip.evalExpr(target.Index, env)
	if err != nil {
		return Null, err
	}
	v, err := ip.evalExpr(n.Value, env)
	if err != nil {
		return Null, err
	}
	switch container.Tag {
	case VTArray:
		arr := container.Data.(*ArrayObject)
		i, err := arrayIndex(target.Index.NodeSpan(), arr, index)
		if err != nil {
			return Null, err
		}
		arr.Elements[i] = v
		return v, nil
	case VTHash:
		h := container.Data.(*HashObject)
		if _, hashable := HashKeyOf(index); !hashable {
			return Null, &TypeError{
				Span: target.Index.NodeSpan(),
				Msg:  fmt.Sprintf("%s is not usable as a hash key", index.Tag),
			}
		}
		h.Set(index, v)
		return v, nil
	default:
		return Null, &TypeError{
			Span: target.Span,
			Msg:  fmt.Sprintf("%s is not index-assignable", container.Tag),
		}
	}
}
