package jasn

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runProgram executes src on a fresh runtime and returns everything written
// to the print stream and to the runtime-error report stream. Static errors
// fail the test.
func runProgram(t *testing.T, src string) (out, reported string) {
	t.Helper()
	ip := NewRuntime()
	var outBuf, errBuf bytes.Buffer
	ip.SetOutput(&outBuf)
	ip.SetErrorOutput(&errBuf)

	if _, staticErrs := ip.RunSource(src); len(staticErrs) > 0 {
		t.Fatalf("unexpected static errors: %v\nsource:\n%s", staticErrs, src)
	}
	return outBuf.String(), errBuf.String()
}

// wantOutput runs src and asserts the exact print output, given as lines.
func wantOutput(t *testing.T, src string, lines ...string) {
	t.Helper()
	out, reported := runProgram(t, src)
	want := ""
	if len(lines) > 0 {
		want = strings.Join(lines, "\n") + "\n"
	}
	if out != want {
		t.Fatalf("output mismatch\nwant: %q\ngot:  %q\nsource:\n%s", want, out, src)
	}
	if reported != "" {
		t.Fatalf("unexpected runtime errors: %q\nsource:\n%s", reported, src)
	}
}

// wantReported runs src and asserts that a runtime error containing substr
// was reported.
func wantReported(t *testing.T, src, substr string) (out string) {
	t.Helper()
	out, reported := runProgram(t, src)
	if !strings.Contains(reported, substr) {
		t.Fatalf("want reported error containing %q, got %q\nsource:\n%s", substr, reported, src)
	}
	return out
}

// wantStaticError asserts that src fails before execution with an error
// containing substr, and that nothing runs.
func wantStaticError(t *testing.T, src, substr string) {
	t.Helper()
	ip := NewRuntime()
	var outBuf bytes.Buffer
	ip.SetOutput(&outBuf)
	ip.SetErrorOutput(&outBuf)

	_, staticErrs := ip.RunSource(src)
	if len(staticErrs) == 0 {
		t.Fatalf("want static error containing %q, got none\nsource:\n%s", substr, src)
	}
	found := false
	for _, e := range staticErrs {
		if strings.Contains(e.Error(), substr) {
			found = true
		}
	}
	if !found {
		t.Fatalf("want static error containing %q, got %v", substr, staticErrs)
	}
	if outBuf.Len() != 0 {
		t.Fatalf("static errors must prevent execution, but program produced output %q", outBuf.String())
	}
}

// --- scoping & closures ----------------------------------------------------

func Test_Interpret_Block_Shadowing(t *testing.T) {
	wantOutput(t, `
var a = 1;
{
	var a = 2;
	print a;
}
print a;
`, "2", "1")
}

func Test_Interpret_Closure_Counter(t *testing.T) {
	wantOutput(t, `
funk counter() {
	var i = 0;
	funk increment() {
		i = i + 1;
		print i;
	}
	return increment;
}
var tick = counter();
tick();
tick();
`, "1", "2")
}

func Test_Interpret_Closures_Share_Declaring_Frame(t *testing.T) {
	// Two closures over the same frame observe each other's writes.
	wantOutput(t, `
funk pair() {
	var shared = 0;
	funk bump() { shared = shared + 10; }
	funk show() { print shared; }
	bump();
	show();
	bump();
	show();
}
pair();
`, "10", "20")
}

func Test_Interpret_Closure_Captures_Lexically_Not_Dynamically(t *testing.T) {
	// A later declaration in the enclosing block must not re-bind a name the
	// closure already resolved to the global frame.
	wantOutput(t, `
var a = "global";
{
	funk show() { print a; }
	show();
	var a = "block";
	show();
}
`, "global", "global")
}

func Test_Interpret_Counter_Instances_Are_Independent(t *testing.T) {
	wantOutput(t, `
funk counter() {
	var i = 0;
	funk increment() {
		i = i + 1;
		return i;
	}
	return increment;
}
var first = counter();
var second = counter();
print first();
print first();
print second();
`, "1", "2", "1")
}

func Test_Interpret_Recursion(t *testing.T) {
	wantOutput(t, `
funk fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
print fib(10);
`, "55")
}

func Test_Interpret_Var_Without_Initializer_Is_Null(t *testing.T) {
	wantOutput(t, `var x; print x;`, "null")
}

// --- operators -------------------------------------------------------------

func Test_Interpret_Arithmetic_And_Precedence(t *testing.T) {
	wantOutput(t, `print 1 + 2 * 3 - 4 / 2;`, "5")
	wantOutput(t, `print (1 + 2) * 3;`, "9")
	wantOutput(t, `print 7 % 3;`, "1")
	wantOutput(t, `print -3 + 1;`, "-2")
}

func Test_Interpret_String_Concatenation_Coerces(t *testing.T) {
	wantOutput(t, `print 1 + "x";`, "1x")
	wantOutput(t, `print "x" + 1;`, "x1")
	wantOutput(t, `print "a" + "b";`, "ab")
	wantOutput(t, `print "v=" + true;`, "v=true")
	wantOutput(t, `print "n=" + null;`, "n=null")
}

func Test_Interpret_Plus_Invalid_Operands(t *testing.T) {
	wantReported(t, `print true + false;`, "Invalid Operands.")
}

func Test_Interpret_Division_By_Zero(t *testing.T) {
	wantReported(t, `print 1 / 0;`, "Division by zero.")
	wantReported(t, `print 1 % 0;`, "Division by zero.")
}

func Test_Interpret_Comparison_Requires_Numbers(t *testing.T) {
	wantReported(t, `print 1 < "x";`, "Operands must be numbers.")
	wantReported(t, `print "a" > "b";`, "Operands must be numbers.")
}

func Test_Interpret_Equality(t *testing.T) {
	wantOutput(t, `print 1 == 1;`, "true")
	wantOutput(t, `print 1 == "1";`, "false")
	wantOutput(t, `print null == null;`, "true")
	wantOutput(t, `print 1 != 2;`, "true")
	wantOutput(t, `print [1, 2] == [1, 2];`, "true")
	wantOutput(t, `print [1] == [1, 2];`, "false")
}

func Test_Interpret_Unary_Not_Uses_Truthiness(t *testing.T) {
	wantOutput(t, `print !true;`, "false")
	wantOutput(t, `print !null;`, "true")
	wantOutput(t, `print !0;`, "false") // only false and null are falsy
	wantReported(t, `print -"x";`, "Operand must be a number.")
}

func Test_Interpret_Logical_Short_Circuit(t *testing.T) {
	// The right side must not be evaluated when the left decides; `boom` is
	// undefined and would fail.
	wantOutput(t, `print false and boom();`, "false")
	wantOutput(t, `print "left" or boom();`, "left")
	wantOutput(t, `print null or "right";`, "right")
	wantOutput(t, `print true and "right";`, "right")
}

// --- control flow ----------------------------------------------------------

func Test_Interpret_If_Else_Truthiness(t *testing.T) {
	wantOutput(t, `if (0) print "then"; else print "else";`, "then")
	wantOutput(t, `if (null) print "then"; else print "else";`, "else")
	wantOutput(t, `if (false) print "then"; else print "else";`, "else")
}

func Test_Interpret_While_Loop(t *testing.T) {
	wantOutput(t, `
var i = 0;
while (i < 3) {
	print i;
	i = i + 1;
}
`, "0", "1", "2")
}

func Test_Interpret_For_Loop_Desugars(t *testing.T) {
	wantOutput(t, `
for (var i = 0; i < 3; i = i + 1) {
	print i;
}
`, "0", "1", "2")
}

func Test_Interpret_Return_Unwinds_Nested_Blocks(t *testing.T) {
	wantOutput(t, `
funk find() {
	var i = 0;
	while (true) {
		if (i == 3) {
			return i;
		}
		i = i + 1;
	}
}
print find();
`, "3")
}

func Test_Interpret_Implicit_Return_Is_Null(t *testing.T) {
	wantOutput(t, `
funk nothing() {}
print nothing();
`, "null")
}

// --- calls -----------------------------------------------------------------

func Test_Interpret_Arity_Mismatch_Skips_Body_And_Continues(t *testing.T) {
	out := wantReported(t, `
funk one(a) { print "body"; }
one(1, 2);
print "after";
`, "Expected 1 arguments but found 2.")
	if strings.Contains(out, "body") {
		t.Fatal("function body must not execute on arity mismatch")
	}
	if !strings.Contains(out, "after") {
		t.Fatal("execution must continue with the next top-level statement")
	}
}

func Test_Interpret_Calling_Non_Callable(t *testing.T) {
	wantReported(t, `var x = 5; x();`, "Can only call functions and classes.")
	wantReported(t, `
class Thing {}
var thing = Thing();
thing();
`, "Can only call functions and classes.")
}

func Test_Interpret_Arguments_Evaluate_Left_To_Right(t *testing.T) {
	wantOutput(t, `
funk note(label) {
	print label;
	return label;
}
funk take(a, b) {}
take(note("first"), note("second"));
`, "first", "second")
}

// --- arrays ----------------------------------------------------------------

func Test_Interpret_Array_Literal_And_Index(t *testing.T) {
	wantOutput(t, `
var xs = [10, 20, 30];
print xs[0];
print xs[2];
print xs[1.9];
`, "10", "30", "20") // index truncates toward zero
}

func Test_Interpret_Array_Index_Errors(t *testing.T) {
	wantReported(t, `var xs = [1]; print xs[1];`, "Array index out of bounds.")
	wantReported(t, `var xs = [1]; print xs[0 - 1];`, "Array index out of bounds.")
	wantReported(t, `var xs = [1]; print xs["0"];`, "Array index must be a number.")
	wantReported(t, `var n = 5; print n[0];`, "Attempted to index a non-array value.")
}

func Test_Interpret_Array_Assignment_Is_Shared(t *testing.T) {
	// Arrays have reference semantics: both bindings see the write.
	wantOutput(t, `
var a = [1, 2];
var b = a;
b[0] = 99;
print a[0];
a[1] = 50;
print b[1];
`, "99", "50")
}

func Test_Interpret_Array_In_Closure(t *testing.T) {
	wantOutput(t, `
funk collector() {
	var items = [0, 0];
	funk put(i, v) { items[i] = v; }
	funk get(i) { return items[i]; }
	put(0, 7);
	print get(0);
}
collector();
`, "7")
}

// --- classes & instances ---------------------------------------------------

func Test_Interpret_Class_Construction_And_Fields(t *testing.T) {
	wantOutput(t, `
class Point {}
var p = Point();
p.x = 1;
p.y = 2;
print p.x + p.y;
`, "3")
}

func Test_Interpret_Instances_Have_Independent_Fields(t *testing.T) {
	wantOutput(t, `
class Box {}
var a = Box();
var b = Box();
a.value = 1;
b.value = 2;
print a.value;
print b.value;
`, "1", "2")
}

func Test_Interpret_Method_This_Binding(t *testing.T) {
	wantOutput(t, `
class Counter {
	bump() {
		this.n = this.n + 1;
		return this.n;
	}
}
var c = Counter();
c.n = 0;
print c.bump();
print c.bump();
`, "1", "2")
}

func Test_Interpret_Method_Value_Stays_Bound(t *testing.T) {
	// A method read off an instance closes over that instance even when
	// called later as a plain function.
	wantOutput(t, `
class Greeter {
	greet() { return "hi " + this.name; }
}
var g = Greeter();
g.name = "ada";
var m = g.greet;
print m();
`, "hi ada")
}

func Test_Interpret_Fields_Shadow_Methods(t *testing.T) {
	wantOutput(t, `
class Thing {
	kind() { return "method"; }
}
var x = Thing();
print x.kind();
x.kind = "field";
print x.kind;
`, "method", "field")
}

func Test_Interpret_Method_Can_Reference_Own_Class(t *testing.T) {
	wantOutput(t, `
class Node {
	make() { return Node(); }
}
var n = Node();
print n.make();
`, "<Node instance>")
}

func Test_Interpret_Undefined_Property(t *testing.T) {
	wantReported(t, `
class Empty {}
var e = Empty();
print e.missing;
`, "Undefined property 'missing'.")
}

func Test_Interpret_Properties_Require_Instance(t *testing.T) {
	wantReported(t, `var n = 5; print n.value;`, "Only instances have properties.")
	wantReported(t, `var n = 5; n.value = 1;`, "Only instances have properties.")
}

// --- error propagation -----------------------------------------------------

func Test_Interpret_Block_Aborts_On_First_Error(t *testing.T) {
	out := wantReported(t, `
{
	print "before";
	print 1 / 0;
	print "inside-after";
}
print "top-after";
`, "Division by zero.")
	if !strings.Contains(out, "before") || !strings.Contains(out, "top-after") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "inside-after") {
		t.Fatal("statements after a failing statement in a block must not run")
	}
}

func Test_Interpret_Top_Level_Continues_After_Each_Error(t *testing.T) {
	ip := NewRuntime()
	var outBuf, errBuf bytes.Buffer
	ip.SetOutput(&outBuf)
	ip.SetErrorOutput(&errBuf)

	ok, staticErrs := ip.RunSource(`
print missing_one;
print "still here";
print missing_two;
print "and here";
`)
	if len(staticErrs) > 0 {
		t.Fatalf("unexpected static errors: %v", staticErrs)
	}
	if ok {
		t.Fatal("Interpret should report failure when statements errored")
	}
	if got := outBuf.String(); got != "still here\nand here\n" {
		t.Fatalf("unexpected output %q", got)
	}
	reports := strings.Count(errBuf.String(), "Undefined variable")
	if reports != 2 {
		t.Fatalf("want 2 reported errors, got %d: %q", reports, errBuf.String())
	}
}

func Test_Interpret_Undefined_Variable_Read_And_Assign(t *testing.T) {
	wantReported(t, `print nope;`, "Undefined variable 'nope'.")
	wantReported(t, `nope = 1;`, "Undefined variable 'nope'.")
}

func Test_Interpret_Environment_Restored_After_Block_Error(t *testing.T) {
	// The failing block's frame must be discarded; the outer binding is
	// intact afterwards.
	wantReported(t, `
var a = "outer";
{
	var a = "inner";
	print 1 / 0;
}
print a;
`, "Division by zero.")
	wantOutput(t, `
var a = "outer";
{
	var a = "inner";
}
print a;
`, "outer")
}

// --- printing --------------------------------------------------------------

func Test_Interpret_Print_Formats(t *testing.T) {
	wantOutput(t, `print 1;`, "1")
	wantOutput(t, `print 1.5;`, "1.5")
	wantOutput(t, `print true;`, "true")
	wantOutput(t, `print null;`, "null")
	wantOutput(t, `print "plain";`, "plain")
	wantOutput(t, `print [1, "x", null];`, `[1, "x", null]`)
	wantOutput(t, `funk f(a, b) {} print f;`, "<fn f>")
	wantOutput(t, `class C {} print C;`, "<class C>")
}

// --- natives ---------------------------------------------------------------

func Test_Interpret_Native_Len(t *testing.T) {
	wantOutput(t, `print len("abc");`, "3")
	wantOutput(t, `print len([1, 2]);`, "2")
	wantOutput(t, `funk f(a, b) {} print len(f);`, "2")
	wantOutput(t, `print len(5);`, "null")
}

func Test_Interpret_Native_Clock_Is_Number(t *testing.T) {
	wantOutput(t, `print clock() > 0;`, "true")
}

func Test_Interpret_Register_Custom_Native(t *testing.T) {
	ip := NewInterpreter()
	var outBuf bytes.Buffer
	ip.SetOutput(&outBuf)
	ip.RegisterNative("twice", 1, func(_ *Interpreter, args []Value) (Value, error) {
		n := args[0].Data.(float64)
		return Num(n * 2), nil
	})

	if _, staticErrs := ip.RunSource(`print twice(21);`); len(staticErrs) > 0 {
		t.Fatalf("unexpected static errors: %v", staticErrs)
	}
	if got := outBuf.String(); got != "42\n" {
		t.Fatalf("want 42, got %q", got)
	}
}

func Test_Interpret_Native_Error_Propagates(t *testing.T) {
	ip := NewRuntime()
	var outBuf, errBuf bytes.Buffer
	ip.SetOutput(&outBuf)
	ip.SetErrorOutput(&errBuf)

	if _, staticErrs := ip.RunSource(`sleep("soon");`); len(staticErrs) > 0 {
		t.Fatalf("unexpected static errors: %v", staticErrs)
	}
	if !strings.Contains(errBuf.String(), "sleep only accepts a number") {
		t.Fatalf("want sleep error, got %q", errBuf.String())
	}
}

// --- static rejection ------------------------------------------------------

func Test_Interpret_Static_Errors_Prevent_Execution(t *testing.T) {
	wantStaticError(t, `
print "must not run";
{
	var x = x;
}
`, "Can't read local variable in its own initializer.")
	wantStaticError(t, `
print "must not run";
return 1;
`, "Can't return from top-level code.")
}

// --- session persistence ---------------------------------------------------

func Test_Interpret_Session_Persists_Across_RunSource_Calls(t *testing.T) {
	// REPL semantics: a closure declared in one chunk keeps its resolved
	// distances when invoked from a later chunk.
	ip := NewRuntime()
	var outBuf bytes.Buffer
	ip.SetOutput(&outBuf)
	ip.SetErrorOutput(&outBuf)

	chunks := []string{
		`funk counter() {
			var i = 0;
			funk increment() {
				i = i + 1;
				return i;
			}
			return increment;
		}
		var tick = counter();`,
		`print tick();`,
		`print tick();`,
	}
	for _, chunk := range chunks {
		if _, staticErrs := ip.RunSource(chunk); len(staticErrs) > 0 {
			t.Fatalf("unexpected static errors: %v\nchunk:\n%s", staticErrs, chunk)
		}
	}
	if got := outBuf.String(); got != "1\n2\n" {
		t.Fatalf("want counter to persist across chunks, got %q", got)
	}
}
