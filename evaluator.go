// evaluator.go — the tree-walking evaluator.
//
// Evaluation returns (Value, error). The error channel carries two
// disjoint things: runtime faults (errors.go) and the three control-flow
// signals below. Signals are consumed by the construct that owns them
// (loops eat break/continue, calls eat return); a signal that reaches the
// top level becomes a ControlError fault.
package herlang

import "fmt"

type returnSignal struct {
	span  Span
	value Value
}

func (s *returnSignal) Error() string { return "return outside of a function" }

type breakSignal struct {
	span Span
}

func (s *breakSignal) Error() string { return "break outside of a loop" }

type continueSignal struct {
	span Span
}

func (s *continueSignal) Error() string { return "continue outside of a loop" }

// evalProgram runs the top-level statements. The value of the program is
// the value of its last expression statement, null when there is none.
// Escaped control signals surface as ControlError faults here.
func (ip *Interpreter) evalProgram(prog *Program, env *Env) (Value, error) {
	result := Null
	for _, stmt := range prog.Statements {
		v, err := ip.evalStmt(stmt, env)
		if err != nil {
			return Null, topLevelFault(err)
		}
		if _, isExpr := stmt.(*ExprStmt); isExpr {
			result = v
		}
	}
	return result, nil
}

func topLevelFault(err error) error {
	switch sig := err.(type) {
	case *returnSignal:
		return &ControlError{Span: sig.span, Kind: "return"}
	case *breakSignal:
		return &ControlError{Span: sig.span, Kind: "break"}
	case *continueSignal:
		return &ControlError{Span: sig.span, Kind: "continue"}
	default:
		return err
	}
}

func (ip *Interpreter) evalStmt(stmt Stmt, env *Env) (Value, error) {
	switch n := stmt.(type) {
	case *LetStmt:
		return ip.evalLetStmt(n, env)
	case *ReturnStmt:
		val := Null
		if n.Value != nil {
			v, err := ip.evalExpr(n.Value, env)
			if err != nil {
				return Null, err
			}
			val = v
		}
		return Null, &returnSignal{span: n.Span, value: val}
	case *BreakStmt:
		return Null, &breakSignal{span: n.Span}
	case *ContinueStmt:
		return Null, &continueSignal{span: n.Span}
	case *ExprStmt:
		return ip.evalExpr(n.Expr, env)
	case *BlockStmt:
		return ip.evalBlock(n, env.Child())
	case *BlankStmt:
		return Null, nil
	default:
		panic(fmt.Sprintf("herlang: unhandled statement %T", stmt))
	}
}

func (ip *Interpreter) evalLetStmt(n *LetStmt, env *Env) (Value, error) {
	v, err := ip.evalExpr(n.Value, env)
	if err != nil {
		return Null, err
	}
	if !env.Define(n.Name.Name, v) {
		return Null, &NameError{
			Span: n.Name.Span,
			Name: n.Name.Name,
			Msg:  fmt.Sprintf("'%s' is already declared in this scope", n.Name.Name),
		}
	}
	return Null, nil
}

// evalBlock runs the statements in an already-created scope. The caller
// picks the scope: statement blocks get a fresh child, function bodies get
// the frame with the parameters bound.
func (ip *Interpreter) evalBlock(block *BlockStmt, env *Env) (Value, error) {
	result := Null
	for _, stmt := range block.Statements {
		v, err := ip.evalStmt(stmt, env)
		if err != nil {
			return Null, err
		}
		if _, isExpr := stmt.(*ExprStmt); isExpr {
			result = v
		} else {
			result = Null
		}
	}
	return result, nil
}

func (ip *Interpreter) evalExpr(expr Expr, env *Env) (Value, error) {
	switch n := expr.(type) {
	case *IntLiteral:
		return IntVal(n.Value), nil
	case *StringLiteral:
		return StrVal(n.Value), nil
	case *BoolLiteral:
		return BoolVal(n.Value), nil
	case *Ident:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		return Null, &NameError{
			Span: n.Span,
			Name: n.Name,
			Msg:  fmt.Sprintf("'%s' is not defined", n.Name),
		}
	case *ArrayLiteral:
		elems, err := ip.evalExprList(n.Elements, env)
		if err != nil {
			return Null, err
		}
		return NewArray(elems), nil
	case *HashLiteral:
		return ip.evalHashLiteral(n, env)
	case *PrefixExpr:
		return ip.evalPrefixExpr(n, env)
	case *InfixExpr:
		return ip.evalInfixExpr(n, env)
	case *AssignExpr:
		return ip.evalAssignExpr(n, env)
	case *IndexExpr:
		return ip.evalIndexExpr(n, env)
	case *IfExpr:
		return ip.evalIfExpr(n, env)
	case *WhileExpr:
		return ip.evalWhileExpr(n, env)
	case *FuncLit:
		return FunVal(&Fun{Lit: n, Env: env}), nil
	case *CallExpr:
		return ip.evalCallExpr(n, env)
	default:
		panic(fmt.Sprintf("herlang: unhandled expression %T", expr))
	}
}

func (ip *Interpreter) evalExprList(exprs []Expr, env *Env) ([]Value, error) {
	out := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := ip.evalExpr(e, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (ip *Interpreter) evalHashLiteral(n *HashLiteral, env *Env) (Value, error) {
	h := NewHash()
	for _, pair := range n.Pairs {
		key, err := ip.evalExpr(pair.Key, env)
		if err != nil {
			return Null, err
		}
		if _, hashable := HashKeyOf(key); !hashable {
			return Null, &TypeError{
				Span: pair.Key.NodeSpan(),
				Msg:  fmt.Sprintf("%s is not usable as a hash key", key.Tag),
			}
		}
		val, err := ip.evalExpr(pair.Value, env)
		if err != nil {
			return Null, err
		}
		h.Set(key, val)
	}
	return HashVal(h), nil
}

func (ip *Interpreter) evalIfExpr(n *IfExpr, env *Env) (Value, error) {
	cond, err := ip.evalExpr(n.Cond, env)
	if err != nil {
		return Null, err
	}
	if cond.Tag != VTBool {
		return Null, &TypeError{
			Span: n.Cond.NodeSpan(),
			Msg:  fmt.Sprintf("if condition must be a bool, got %s", cond.Tag),
		}
	}
	if cond.Data.(bool) {
		return ip.evalBlock(n.Consequence, env.Child())
	}
	if n.Alternative != nil {
		return ip.evalBlock(n.Alternative, env.Child())
	}
	return Null, nil
}

func (ip *Interpreter) evalWhileExpr(n *WhileExpr, env *Env) (Value, error) {
	for {
		cond, err := ip.evalExpr(n.Cond, env)
		if err != nil {
			return Null, err
		}
		if cond.Tag != VTBool {
			return Null, &TypeError{
				Span: n.Cond.NodeSpan(),
				Msg:  fmt.Sprintf("while condition must be a bool, got %s", cond.Tag),
			}
		}
		if !cond.Data.(bool) {
			return Null, nil
		}
		if _, err := ip.evalBlock(n.Body, env.Child()); err != nil {
			switch err.(type) {
			case *breakSignal:
				return Null, nil
			case *continueSignal:
				continue
			default:
				return Null, err
			}
		}
	}
}

func (ip *Interpreter) evalCallExpr(n *CallExpr, env *Env) (Value, error) {
	callee, err := ip.evalExpr(n.Callee, env)
	if err != nil {
		return Null, err
	}
	args, err := ip.evalExprList(n.Args, env)
	if err != nil {
		return Null, err
	}
	return ip.callValue(callee, args, n.Span)
}

// callValue applies a function or builtin. Arity is checked before any
// parameter is bound; a user function's body runs in a fresh child of the
// closure environment, never of the caller's.
func (ip *Interpreter) callValue(callee Value, args []Value, callSpan Span) (Value, error) {
	switch callee.Tag {
	case VTFun:
		fn := callee.Data.(*Fun)
		if len(args) != len(fn.Lit.Params) {
			return Null, &ArityError{Span: callSpan, Expected: len(fn.Lit.Params), Got: len(args)}
		}
		frame := fn.Env.Child()
		for i, p := range fn.Lit.Params {
			frame.table[p.Name] = args[i]
		}
		return ip.applyFunBody(fn, frame)
	case VTBuiltin:
		b := callee.Data.(*Builtin)
		if b.Arity >= 0 && len(args) != b.Arity {
			return Null, &ArityError{Span: callSpan, Expected: b.Arity, Got: len(args)}
		}
		return b.Impl(ip, callSpan, args)
	default:
		return Null, &TypeError{
			Span: callSpan,
			Msg:  fmt.Sprintf("%s is not callable", callee.Tag),
		}
	}
}

func (ip *Interpreter) applyFunBody(fn *Fun, frame *Env) (Value, error) {
	if fn.Lit.Arrow && fn.Lit.Body == nil {
		v, err := ip.evalExpr(fn.Lit.ArrowBody, frame)
		if err != nil {
			if ret, isRet := err.(*returnSignal); isRet {
				return ret.value, nil
			}
			return Null, err
		}
		return v, nil
	}
	if _, err := ip.evalBlock(fn.Lit.Body, frame); err != nil {
		if ret, isRet := err.(*returnSignal); isRet {
			return ret.value, nil
		}
		return Null, err
	}
	// Falling off the end of a block body yields null; only an explicit
	// return carries a value out.
	return Null, nil
}
