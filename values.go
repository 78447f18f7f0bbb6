// values.go — the HER runtime value model.
//
// Value is a small tagged union. Scalars (null, int, bool, string) copy by
// value; arrays and hashes are shared references, so mutation through one
// binding is visible through every alias. Functions are closures over the
// environment active at their definition.
package herlang

import "fmt"

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull    ValueTag = iota // no payload
	VTInt                     // int64
	VTBool                    // bool
	VTStr                     // string
	VTArray                   // *ArrayObject
	VTHash                    // *HashObject
	VTFun                     // *Fun
	VTBuiltin                 // *Builtin
)

func (t ValueTag) String() string {
	switch t {
	case VTNull:
		return "null"
	case VTInt:
		return "int"
	case VTBool:
		return "bool"
	case VTStr:
		return "string"
	case VTArray:
		return "array"
	case VTHash:
		return "hash"
	case VTFun:
		return "function"
	case VTBuiltin:
		return "builtin function"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier. Tag determines which Go type
// Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

func IntVal(n int64) Value          { return Value{Tag: VTInt, Data: n} }
func BoolVal(b bool) Value          { return Value{Tag: VTBool, Data: b} }
func StrVal(s string) Value         { return Value{Tag: VTStr, Data: s} }
func ArrVal(a *ArrayObject) Value   { return Value{Tag: VTArray, Data: a} }
func HashVal(h *HashObject) Value   { return Value{Tag: VTHash, Data: h} }
func FunVal(f *Fun) Value           { return Value{Tag: VTFun, Data: f} }
func BuiltinVal(b *Builtin) Value   { return Value{Tag: VTBuiltin, Data: b} }
func NewArray(xs []Value) Value     { return ArrVal(&ArrayObject{Elements: xs}) }

func (v Value) String() string { return FormatValue(v) }

// ArrayObject is the shared backing store of an array value.
type ArrayObject struct {
	Elements []Value
}

// HashKey identifies a hash entry. Only int, bool and string values can be
// keys.
type HashKey struct {
	Tag  ValueTag
	Int  int64
	Str  string
	Bool bool
}

// HashKeyOf converts a value to its key form; ok is false for unhashable
// kinds.
func HashKeyOf(v Value) (HashKey, bool) {
	switch v.Tag {
	case VTInt:
		return HashKey{Tag: VTInt, Int: v.Data.(int64)}, true
	case VTBool:
		return HashKey{Tag: VTBool, Bool: v.Data.(bool)}, true
	case VTStr:
		return HashKey{Tag: VTStr, Str: v.Data.(string)}, true
	default:
		return HashKey{}, false
	}
}

// HashEntry keeps the original key value alongside the stored value so
// hashes print with the keys they were built with.
type HashEntry struct {
	Key   Value
	Value Value
}

// HashObject is the shared backing store of a hash value. Insertion order
// is preserved for printing and formatting.
type HashObject struct {
	Entries map[HashKey]*HashEntry
	Order   []HashKey
}

func NewHash() *HashObject {
	return &HashObject{Entries: map[HashKey]*HashEntry{}}
}

// Get returns the value stored under key.
func (h *HashObject) Get(key Value) (Value, bool) {
	hk, ok := HashKeyOf(key)
	if !ok {
		return Null, false
	}
	e, ok := h.Entries[hk]
	if !ok {
		return Null, false
	}
	return e.Value, true
}

// Set stores val under key, appending to the insertion order on first
// insert. The key must be hashable; callers check HashKeyOf first when
// they need a fault instead of a panic.
func (h *HashObject) Set(key, val Value) {
	hk, ok := HashKeyOf(key)
	if !ok {
		panic(fmt.Sprintf("herlang: unhashable key kind %s", key.Tag))
	}
	if e, exists := h.Entries[hk]; exists {
		e.Value = val
		return
	}
	h.Entries[hk] = &HashEntry{Key: key, Value: val}
	h.Order = append(h.Order, hk)
}

// Len returns the number of entries.
func (h *HashObject) Len() int { return len(h.Entries) }

// Fun is a user-defined function: the literal node it was built from plus
// the environment captured at definition time (lexical scoping).
type Fun struct {
	Lit *FuncLit
	Env *Env
}

// Params returns the parameter names in order.
func (f *Fun) Params() []string {
	out := make([]string, len(f.Lit.Params))
	for i, p := range f.Lit.Params {
		out[i] = p.Name
	}
	return out
}

// BuiltinImpl is the implementation signature of a native builtin. span is
// the call site, used for fault positions.
type BuiltinImpl func(ip *Interpreter, span Span, args []Value) (Value, error)

// Builtin is a natively implemented function value. Arity < 0 means
// variadic.
type Builtin struct {
	Name  string
	Arity int
	Impl  BuiltinImpl
}

// valuesEqual implements HER equality: defined for same-kind operands
// only (ok=false reports a kind mismatch). Arrays and hashes compare
// deeply; functions compare by identity.
func valuesEqual(a, b Value) (equal, ok bool) {
	if a.Tag != b.Tag {
		return false, false
	}
	switch a.Tag {
	case VTNull:
		return true, true
	case VTInt:
		return a.Data.(int64) == b.Data.(int64), true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool), true
	case VTStr:
		return a.Data.(string) == b.Data.(string), true
	case VTArray:
		ax := a.Data.(*ArrayObject)
		bx := b.Data.(*ArrayObject)
		if ax == bx {
			return true, true
		}
		if len(ax.Elements) != len(bx.Elements) {
			return false, true
		}
		for i := range ax.Elements {
			eq, elemOK := valuesEqual(ax.Elements[i], bx.Elements[i])
			if !elemOK || !eq {
				return false, elemOK
			}
		}
		return true, true
	case VTHash:
		ah := a.Data.(*HashObject)
		bh := b.Data.(*HashObject)
		if ah == bh {
			return true, true
		}
		if ah.Len() != bh.Len() {
			return false, true
		}
		for hk, ae := range ah.Entries {
			be, exists := bh.Entries[hk]
			if !exists {
				return false, true
			}
			eq, elemOK := valuesEqual(ae.Value, be.Value)
			if !elemOK || !eq {
				return false, elemOK
			}
		}
		return true, true
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun), true
	case VTBuiltin:
		return a.Data.(*Builtin) == b.Data.(*Builtin), true
	default:
		return false, false
	}
}
