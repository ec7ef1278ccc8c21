// interpreter.go — the tree-walking evaluator and the public API surface.
//
// The Interpreter is the explicit execution context threaded through every
// component: it owns the global frame, the current-frame pointer, the
// resolver's depth table, and the output/error sinks. There is no ambient
// shared state; natives and user functions receive the interpreter on every
// call.
//
// EXECUTION & SCOPING
// -------------------
// Statements execute against a chain of Environment frames. Variable
// references the resolver annotated with a distance use GetAt/AssignAt to
// hop directly to their frame; unannotated references fall back to dynamic
// lookup, which lands in the global frame for well-resolved programs.
//
// CONTROL TRANSFER vs ERRORS
// --------------------------
// Statement execution returns (ctrl, error). ctrl is the three-way outcome:
// normal completion, or an early return carrying a value; failures travel in
// the error. A return unwinds block execution until the nearest call
// boundary (JasnFunction.Call) consumes it — it is never an error and never
// reaches the reporting path. The resolver guarantees a return cannot occur
// at the top level.
//
// ERROR PROPAGATION ASYMMETRY
// ---------------------------
// Inside a block, the first runtime error aborts the rest of the block (the
// previous-frame pointer is still restored on the way out). At the top
// level, the opposite: Interpret reports a failing statement to the error
// sink and continues with the next top-level statement, so one bad statement
// does not kill the program.

package jasn

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Interpreter executes JASN programs.
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      Locals

	stdout io.Writer
	errout io.Writer
}

// NewInterpreter creates an interpreter with an empty global frame and no
// natives installed, writing to the process's stdout/stderr.
func NewInterpreter() *Interpreter {
	globals := NewEnvironment(nil)
	return &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(Locals),
		stdout:      os.Stdout,
		errout:      os.Stderr,
	}
}

// NewRuntime creates an interpreter with the standard natives installed.
func NewRuntime() *Interpreter {
	ip := NewInterpreter()
	registerStandardNatives(ip)
	return ip
}

// SetOutput redirects the print statement's output stream.
func (ip *Interpreter) SetOutput(w io.Writer) { ip.stdout = w }

// SetErrorOutput redirects where top-level runtime errors are reported.
func (ip *Interpreter) SetErrorOutput(w io.Writer) { ip.errout = w }

// RegisterNative installs a host function of fixed arity into the global
// frame. Must be called before user code that references the name runs.
func (ip *Interpreter) RegisterNative(name string, arity int, fn NativeFn) {
	ip.globals.Define(name, CallableVal(&NativeFunction{name: name, arity: arity, fn: fn}))
}

// Interpret executes top-level statements in order under the given depth
// table. A statement that fails is reported to the error sink and execution
// continues with the next statement. The table is merged into any table from
// earlier calls, so functions declared in a previous Interpret call keep
// their resolved distances. Returns false if any statement failed.
func (ip *Interpreter) Interpret(statements []Stmt, locals Locals) bool {
	for expr, depth := range locals {
		ip.locals[expr] = depth
	}

	ok := true
	for _, stmt := range statements {
		if _, err := ip.execute(stmt); err != nil {
			ok = false
			fmt.Fprintln(ip.errout, err.Error())
		}
	}
	return ok
}

// RunSource scans, parses, resolves, and interprets src as a complete
// program. Static errors are returned and nothing executes if there are
// any; runtime errors are reported per top-level statement and reflected in
// ok.
func (ip *Interpreter) RunSource(src string) (ok bool, staticErrs []error) {
	tokens, scanErrs := NewScanner(src).ScanTokens()
	if len(scanErrs) > 0 {
		return false, scanErrs
	}

	program, parseErrs := Parse(tokens)
	if len(parseErrs) > 0 {
		return false, parseErrs
	}

	locals, resolveErrs := NewResolver().Resolve(program)
	if len(resolveErrs) > 0 {
		return false, resolveErrs
	}

	return ip.Interpret(program, locals), nil
}

// ctrl is the non-error half of a statement outcome: either normal
// completion or an early return carrying a value.
type ctrl struct {
	returning bool
	value     Value
}

// execute runs one statement.
func (ip *Interpreter) execute(stmt Stmt) (ctrl, error) {
	switch s := stmt.(type) {
	case *BlockStmt:
		return ip.executeBlock(s.Statements, NewEnvironment(ip.environment))

	case *ExpressionStmt:
		_, err := ip.evaluate(s.Expression)
		return ctrl{}, err

	case *FunctionStmt:
		fn := &JasnFunction{Declaration: s, Closure: ip.environment}
		ip.environment.Define(s.Name.Lexeme, CallableVal(fn))
		return ctrl{}, nil

	case *ClassStmt:
		// Pre-declare the name so methods can reference the class.
		ip.environment.Define(s.Name.Lexeme, Null)

		methods := make(map[string]*JasnFunction, len(s.Methods))
		for _, method := range s.Methods {
			methods[method.Name.Lexeme] = &JasnFunction{Declaration: method, Closure: ip.environment}
		}
		class := &JasnClass{Name: s.Name.Lexeme, Methods: methods}
		if err := ip.environment.Assign(s.Name, CallableVal(class)); err != nil {
			return ctrl{}, err
		}
		return ctrl{}, nil

	case *IfStmt:
		cond, err := ip.evaluate(s.Condition)
		if err != nil {
			return ctrl{}, err
		}
		if Truthy(cond) {
			return ip.execute(s.Then)
		}
		if s.Else != nil {
			return ip.execute(s.Else)
		}
		return ctrl{}, nil

	case *PrintStmt:
		v, err := ip.evaluate(s.Expression)
		if err != nil {
			return ctrl{}, err
		}
		fmt.Fprintln(ip.stdout, Format(v))
		return ctrl{}, nil

	case *ReturnStmt:
		value := Null
		if s.Value != nil {
			var err error
			value, err = ip.evaluate(s.Value)
			if err != nil {
				return ctrl{}, err
			}
		}
		return ctrl{returning: true, value: value}, nil

	case *VarStmt:
		value := Null
		if s.Initializer != nil {
			var err error
			value, err = ip.evaluate(s.Initializer)
			if err != nil {
				return ctrl{}, err
			}
		}
		ip.environment.Define(s.Name.Lexeme, value)
		return ctrl{}, nil

	case *WhileStmt:
		for {
			cond, err := ip.evaluate(s.Condition)
			if err != nil {
				return ctrl{}, err
			}
			if !Truthy(cond) {
				return ctrl{}, nil
			}
			c, err := ip.execute(s.Body)
			if err != nil || c.returning {
				return c, err
			}
		}

	default:
		panic(fmt.Sprintf("internal: unhandled statement %T", stmt))
	}
}

// executeBlock runs statements in the given frame. The previous frame is
// restored on every exit path, completed or failed.
func (ip *Interpreter) executeBlock(statements []Stmt, env *Environment) (c ctrl, err error) {
	previous := ip.environment
	ip.environment = env
	defer func() { ip.environment = previous }()

	for _, stmt := range statements {
		c, err = ip.execute(stmt)
		if err != nil || c.returning {
			return c, err
		}
	}
	return ctrl{}, nil
}

// evaluate computes the value of an expression.
func (ip *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil

	case *Grouping:
		return ip.evaluate(e.Expression)

	case *Variable:
		return ip.lookUpVariable(e.Name, e)

	case *Assign:
		value, err := ip.evaluate(e.Value)
		if err != nil {
			return Null, err
		}
		if distance, ok := ip.locals[e]; ok {
			ip.environment.AssignAt(distance, e.Name.Lexeme, value)
			return value, nil
		}
		if err := ip.globals.Assign(e.Name, value); err != nil {
			return Null, err
		}
		return value, nil

	case *This:
		return ip.lookUpVariable(e.Keyword, e)

	case *Unary:
		return ip.evalUnary(e)

	case *Binary:
		return ip.evalBinary(e)

	case *Logical:
		left, err := ip.evaluate(e.Left)
		if err != nil {
			return Null, err
		}
		if e.Operator.Type == OR {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}
		return ip.evaluate(e.Right)

	case *Call:
		return ip.evalCall(e)

	case *Get:
		object, err := ip.evaluate(e.Object)
		if err != nil {
			return Null, err
		}
		if object.Tag != VTInstance {
			return Null, &RuntimeError{Line: e.Name.Line, Msg: "Only instances have properties."}
		}
		return object.Data.(*Instance).Get(e.Name)

	case *Set:
		object, err := ip.evaluate(e.Object)
		if err != nil {
			return Null, err
		}
		if object.Tag != VTInstance {
			return Null, &RuntimeError{Line: e.Name.Line, Msg: "Only instances have properties."}
		}
		value, err := ip.evaluate(e.Value)
		if err != nil {
			return Null, err
		}
		object.Data.(*Instance).Set(e.Name, value)
		return value, nil

	case *Array:
		elems := make([]Value, 0, len(e.Elements))
		for _, elem := range e.Elements {
			v, err := ip.evaluate(elem)
			if err != nil {
				return Null, err
			}
			elems = append(elems, v)
		}
		return Arr(elems), nil

	case *Index:
		arr, idx, err := ip.evalIndexOperands(e.Object, e.Idx, e.Bracket)
		if err != nil {
			return Null, err
		}
		return arr.Elems[idx], nil

	case *SetIndex:
		arr, idx, err := ip.evalIndexOperands(e.Object, e.Idx, e.Bracket)
		if err != nil {
			return Null, err
		}
		value, err := ip.evaluate(e.Value)
		if err != nil {
			return Null, err
		}
		// Arrays share backing storage, so the write is visible through
		// every binding of this array.
		arr.Elems[idx] = value
		return value, nil

	default:
		panic(fmt.Sprintf("internal: unhandled expression %T", expr))
	}
}

// lookUpVariable uses the resolved distance when the resolver recorded one,
// otherwise falls back to a dynamic search of the global frame.
func (ip *Interpreter) lookUpVariable(name Token, expr Expr) (Value, error) {
	if distance, ok := ip.locals[expr]; ok {
		return ip.environment.GetAt(distance, name.Lexeme), nil
	}
	return ip.globals.Get(name)
}

func (ip *Interpreter) evalUnary(e *Unary) (Value, error) {
	right, err := ip.evaluate(e.Right)
	if err != nil {
		return Null, err
	}

	switch e.Operator.Type {
	case MINUS:
		n, err := operandNumber(e.Operator, right)
		if err != nil {
			return Null, err
		}
		return Num(-n), nil
	case BANG:
		return Bool(!Truthy(right)), nil
	default:
		return Null, &RuntimeError{Line: e.Operator.Line, Msg: "Invalid unary operator."}
	}
}

func (ip *Interpreter) evalBinary(e *Binary) (Value, error) {
	left, err := ip.evaluate(e.Left)
	if err != nil {
		return Null, err
	}
	right, err := ip.evaluate(e.Right)
	if err != nil {
		return Null, err
	}
	op := e.Operator

	switch op.Type {
	case EQ:
		return Bool(Equal(left, right)), nil
	case NEQ:
		return Bool(!Equal(left, right)), nil

	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.Data.(float64) + right.Data.(float64)), nil
		}
		// String concatenation when either side is a string; the other
		// side is stringified.
		if left.Tag == VTStr || right.Tag == VTStr {
			return Str(Format(left) + Format(right)), nil
		}
		return Null, &RuntimeError{Line: op.Line, Msg: "Invalid Operands."}
	}

	ln, err := operandNumbers(op, left, right)
	if err != nil {
		return Null, err
	}
	l, r := ln[0], ln[1]

	switch op.Type {
	case GREATER:
		return Bool(l > r), nil
	case GREATER_EQ:
		return Bool(l >= r), nil
	case LESS:
		return Bool(l < r), nil
	case LESS_EQ:
		return Bool(l <= r), nil
	case MINUS:
		return Num(l - r), nil
	case MULT:
		return Num(l * r), nil
	case DIV:
		if r == 0 {
			return Null, &RuntimeError{Line: op.Line, Msg: "Division by zero."}
		}
		return Num(l / r), nil
	case MOD:
		if r == 0 {
			return Null, &RuntimeError{Line: op.Line, Msg: "Division by zero."}
		}
		return Num(math.Mod(l, r)), nil
	default:
		return Null, &RuntimeError{Line: op.Line, Msg: "Invalid binary operator."}
	}
}

func (ip *Interpreter) evalCall(e *Call) (Value, error) {
	callee, err := ip.evaluate(e.Callee)
	if err != nil {
		return Null, err
	}

	arguments := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := ip.evaluate(arg)
		if err != nil {
			return Null, err
		}
		arguments = append(arguments, v)
	}

	if callee.Tag != VTCallable {
		// Instances are reference values but not callable.
		return Null, &RuntimeError{Line: e.Paren.Line, Msg: "Can only call functions and classes."}
	}
	fn := callee.Data.(Callable)

	if len(arguments) != fn.Arity() {
		return Null, &RuntimeError{
			Line: e.Paren.Line,
			Msg:  fmt.Sprintf("Expected %d arguments but found %d.", fn.Arity(), len(arguments)),
		}
	}

	return fn.Call(ip, arguments)
}

// evalIndexOperands evaluates an indexing pair and validates that the object
// is an array and the index is an in-bounds number (truncated to an
// integer).
func (ip *Interpreter) evalIndexOperands(object, index Expr, bracket Token) (*ArrayObject, int, error) {
	objVal, err := ip.evaluate(object)
	if err != nil {
		return nil, 0, err
	}
	idxVal, err := ip.evaluate(index)
	if err != nil {
		return nil, 0, err
	}

	if objVal.Tag != VTArray {
		return nil, 0, &RuntimeError{Line: bracket.Line, Msg: "Attempted to index a non-array value."}
	}
	if idxVal.Tag != VTNum {
		return nil, 0, &RuntimeError{Line: bracket.Line, Msg: "Array index must be a number."}
	}

	arr := objVal.Data.(*ArrayObject)
	idx := int(idxVal.Data.(float64))
	if idx < 0 || idx >= len(arr.Elems) {
		return nil, 0, &RuntimeError{Line: bracket.Line, Msg: "Array index out of bounds."}
	}
	return arr, idx, nil
}

func operandNumber(op Token, v Value) (float64, error) {
	if v.Tag != VTNum {
		return 0, &RuntimeError{Line: op.Line, Msg: "Operand must be a number."}
	}
	return v.Data.(float64), nil
}

func operandNumbers(op Token, left, right Value) ([2]float64, error) {
	if left.Tag != VTNum || right.Tag != VTNum {
		return [2]float64{}, &RuntimeError{Line: op.Line, Msg: "Operands must be numbers."}
	}
	return [2]float64{left.Data.(float64), right.Data.(float64)}, nil
}
