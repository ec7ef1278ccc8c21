// environment.go — lexical scope frames.
//
// An Environment is one frame of the scope chain: a name→value table plus a
// pointer to the enclosing frame. Frames are shared by pointer; every closure
// holding the same *Environment sees the same mutable bindings. A frame's
// parent is fixed at creation and frames are never re-parented, so the chain
// cannot form a cycle.
//
// Two access paths exist on purpose. Get/Assign search the chain dynamically
// and are used for global (unresolved) names. GetAt/AssignAt hop a distance
// precomputed by the resolver and touch exactly one frame; a miss there means
// the resolver and interpreter disagree about scope nesting, which is an
// internal bug, not a user error, so it panics.

package jasn

import "fmt"

// Environment is a single scope frame.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

// NewEnvironment creates a frame with the given enclosing frame (nil for the
// global frame).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]Value)}
}

// Define binds name in this frame, overwriting any existing binding here.
// Duplicate-declaration checking is the resolver's job, not a runtime check.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get searches this frame and then the enclosing chain.
func (e *Environment) Get(name Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return Null, &RuntimeError{Line: name.Line, Msg: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// Assign overwrites the nearest existing binding of name. It never defines.
func (e *Environment) Assign(name Token, v Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = v
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return &RuntimeError{Line: name.Line, Msg: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// GetAt reads name from the frame exactly distance hops up the chain.
func (e *Environment) GetAt(distance int, name string) Value {
	frame := e.ancestor(distance)
	v, ok := frame.values[name]
	if !ok {
		panic(fmt.Sprintf("internal: resolved variable '%s' missing at distance %d", name, distance))
	}
	return v
}

// AssignAt writes name in the frame exactly distance hops up the chain.
func (e *Environment) AssignAt(distance int, name string, v Value) {
	frame := e.ancestor(distance)
	if _, ok := frame.values[name]; !ok {
		panic(fmt.Sprintf("internal: resolved variable '%s' missing at distance %d", name, distance))
	}
	frame.values[name] = v
}

func (e *Environment) ancestor(distance int) *Environment {
	frame := e
	for i := 0; i < distance; i++ {
		if frame.enclosing == nil {
			panic(fmt.Sprintf("internal: scope chain shorter than resolved distance %d", distance))
		}
		frame = frame.enclosing
	}
	return frame
}
