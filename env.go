// env.go — lexical environments.
package herlang

// Env is a lexical scope frame with a parent link; lookups walk outward.
// Scopes are created strictly nested and never re-parented, so the parent
// chain is acyclic by construction. A frame stays alive for as long as any
// closure or active call references it.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Child creates a frame whose parent is e.
func (e *Env) Child() *Env { return NewEnv(e) }

// Parent returns the enclosing frame, nil for the root.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name in this frame. It reports false when the name is
// already bound here: redeclaration in the same scope is a fault, only a
// nested scope may shadow.
func (e *Env) Define(name string, v Value) bool {
	if _, exists := e.table[name]; exists {
		return false
	}
	e.table[name] = v
	return true
}

// Assign updates the nearest visible binding of name. It reports false
// when no enclosing frame binds the name; assignment never declares.
func (e *Env) Assign(name string, v Value) bool {
	for f := e; f != nil; f = f.parent {
		if _, exists := f.table[name]; exists {
			f.table[name] = v
			return true
		}
	}
	return false
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, exists := f.table[name]; exists {
			return v, true
		}
	}
	return Value{}, false
}

// Has reports whether name is bound in this frame or any enclosing one.
func (e *Env) Has(name string) bool {
	_, exists := e.Get(name)
	return exists
}
