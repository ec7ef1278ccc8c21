// callable.go — the dispatchable units of the runtime: native functions,
// user-defined functions, classes, and class instances.
//
// A user function pairs its declaration AST with the environment that was
// current when the declaration executed. Calls hang the new frame off that
// captured closure, never off the caller's frame, which is what makes JASN
// lexically scoped. Methods read from an instance are bound on access: the
// method is re-wrapped with a one-entry frame defining 'this' in front of
// its closure, so the body resolves 'this' to the instance it was read from.

package jasn

import "fmt"

// Callable is anything a call expression can invoke.
type Callable interface {
	Arity() int
	Call(ip *Interpreter, arguments []Value) (Value, error)
	String() string
}

// NativeFn is the implementation signature for host-provided functions.
type NativeFn func(ip *Interpreter, arguments []Value) (Value, error)

// NativeFunction is a fixed-arity function implemented by the host.
type NativeFunction struct {
	name  string
	arity int
	fn    NativeFn
}

func (n *NativeFunction) Arity() int { return n.arity }

func (n *NativeFunction) Call(ip *Interpreter, arguments []Value) (Value, error) {
	return n.fn(ip, arguments)
}

func (n *NativeFunction) String() string { return "<fn native>" }

// JasnFunction is a user-defined function: its declaration plus the frame
// captured at declaration time.
type JasnFunction struct {
	Declaration *FunctionStmt
	Closure     *Environment
}

func (f *JasnFunction) Arity() int { return len(f.Declaration.Params) }

// Call binds the arguments into a fresh frame parented at the closure and
// runs the body. An early return inside the body becomes the call's result;
// falling off the end yields null.
func (f *JasnFunction) Call(ip *Interpreter, arguments []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, arguments[i])
	}

	c, err := ip.executeBlock(f.Declaration.Body, env)
	if err != nil {
		return Null, err
	}
	if c.returning {
		return c.value, nil
	}
	return Null, nil
}

// bind wraps the function with a frame that defines 'this' as the given
// instance, in front of the original closure.
func (f *JasnFunction) bind(inst *Instance) *JasnFunction {
	env := NewEnvironment(f.Closure)
	env.Define("this", InstanceVal(inst))
	return &JasnFunction{Declaration: f.Declaration, Closure: env}
}

func (f *JasnFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

// JasnClass is a user-defined class: a name and its method table. The table
// is shared by every instance, never copied.
type JasnClass struct {
	Name    string
	Methods map[string]*JasnFunction
}

// Arity is 0: constructing an instance takes no arguments.
func (c *JasnClass) Arity() int { return 0 }

// Call allocates a fresh instance of the class with empty field storage.
func (c *JasnClass) Call(ip *Interpreter, arguments []Value) (Value, error) {
	return InstanceVal(&Instance{class: c, fields: make(map[string]Value)}), nil
}

func (c *JasnClass) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// Instance is one object of a class, with its own field storage.
type Instance struct {
	class  *JasnClass
	fields map[string]Value
}

// Get reads a property. Fields shadow methods; a method hit is bound to this
// instance before being returned.
func (i *Instance) Get(name Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method, ok := i.class.Methods[name.Lexeme]; ok {
		return CallableVal(method.bind(i)), nil
	}
	return Null, &RuntimeError{Line: name.Line, Msg: fmt.Sprintf("Undefined property '%s'.", name.Lexeme)}
}

// Set writes a field, creating it on first write.
func (i *Instance) Set(name Token, v Value) {
	i.fields[name.Lexeme] = v
}

func (i *Instance) String() string { return fmt.Sprintf("<%s instance>", i.class.Name) }
