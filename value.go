// value.go — the JASN runtime value model.
//
// Value is a small tagged union. Numbers, strings, booleans and null are
// plain payloads copied on assignment. Arrays and instances carry a pointer
// to shared storage, so two bindings of the same array (or instance) observe
// each other's mutations. Callables are reference-like as well: functions
// share their declaration AST and closure frame.

package jasn

import (
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull     ValueTag = iota // null (no payload)
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTArray                    // *ArrayObject (shared element storage)
	VTCallable                 // Callable (native fn, user fn, or class)
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier. Tag determines which Go type Data
// holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data any
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(n float64) Value { return Value{Tag: VTNum, Data: n} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ArrayObject is the shared backing store of an array value. Every Value
// produced from the same array literal points at the same ArrayObject, which
// is what makes index assignment visible through every binding.
type ArrayObject struct {
	Elems []Value
}

// Arr wraps a slice of elements into an array Value with fresh backing.
func Arr(elems []Value) Value {
	return Value{Tag: VTArray, Data: &ArrayObject{Elems: elems}}
}

// CallableVal wraps a Callable into a Value.
func CallableVal(c Callable) Value { return Value{Tag: VTCallable, Data: c} }

// InstanceVal wraps an Instance into a Value.
func InstanceVal(inst *Instance) Value { return Value{Tag: VTInstance, Data: inst} }

// Truthy maps a value to a boolean for conditional contexts. Only false and
// null are falsy.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNull:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// Equal implements the language's == operator. Primitives compare by value,
// arrays compare element-wise, callables and instances compare by identity.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTArray:
		xs, ys := a.Data.(*ArrayObject).Elems, b.Data.(*ArrayObject).Elems
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !Equal(xs[i], ys[i]) {
				return false
			}
		}
		return true
	default:
		return a.Data == b.Data
	}
}

// Format renders a value the way the print statement displays it. Strings at
// the top level print raw; strings inside arrays are quoted.
func Format(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return formatQuoted(v)
}

func formatQuoted(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
	case VTStr:
		return strconv.Quote(v.Data.(string))
	case VTArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.Data.(*ArrayObject).Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatQuoted(e))
		}
		b.WriteByte(']')
		return b.String()
	case VTCallable:
		return v.Data.(Callable).String()
	case VTInstance:
		return v.Data.(*Instance).String()
	default:
		return "<unknown>"
	}
}
