// interpreter.go — public entry points.
//
// One Interpreter serves any number of evaluations. The global frame
// holds the builtins and, for persistent sessions, the bindings earlier
// inputs created. The semantic core never touches the console or the
// process; hosts pass hooks for that.
package herlang

// Hooks connect the interpreter to its host. Print receives everything
// puts/print emit. Exit, when non-nil, ends the session with a code; the
// browser sandbox leaves it nil and quit becomes a fault there.
type Hooks struct {
	Print func(string)
	Exit  func(int)
}

// Interpreter owns a global environment and host hooks.
type Interpreter struct {
	Global *Env
	hooks  Hooks
}

// NewInterpreter builds an interpreter. Builtins live in a root frame of
// their own and the global frame is its child, so a user-level
// `let len = ...` shadows the builtin instead of colliding with it.
func NewInterpreter(hooks Hooks) *Interpreter {
	root := NewEnv(nil)
	for name, b := range newBuiltins() {
		root.Define(name, BuiltinVal(b))
	}
	return &Interpreter{Global: root.Child(), hooks: hooks}
}

func (ip *Interpreter) print(s string) {
	if ip.hooks.Print != nil {
		ip.hooks.Print(s)
	}
}

// EvalSource parses and evaluates src in a fresh scope under the global
// frame, so the run leaves no bindings behind. Errors come back typed
// (LexError, ParseError, RuntimeFault); callers that want caret snippets
// wrap them with WrapErrorWithSource.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.evalProgram(prog, ip.Global.Child())
}

// EvalPersistentSource is EvalSource evaluating directly in the global
// frame, so let-bindings survive into later calls. The REPL uses this.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.evalProgram(prog, ip.Global)
}

// EvalAST evaluates an already-parsed program in env.
func (ip *Interpreter) EvalAST(prog *Program, env *Env) (Value, error) {
	return ip.evalProgram(prog, env)
}
