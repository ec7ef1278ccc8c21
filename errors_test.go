package jasn

import (
	"errors"
	"strings"
	"testing"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

// --- messages --------------------------------------------------------------

func Test_Errors_Scan_Message(t *testing.T) {
	e := &ScanError{Line: 3, Col: 7, Msg: "Unexpected character."}
	if got := e.Error(); got != "[line 3] Syntax Error: Unexpected character." {
		t.Fatalf("got %q", got)
	}
}

func Test_Errors_Parse_Message_At_Token(t *testing.T) {
	e := &ParseError{
		Token: Token{Type: SEMICOLON, Lexeme: ";", Line: 2, Col: 5},
		Msg:   "Expect expression.",
	}
	if got := e.Error(); got != "[line 2] Parse Error at ';': Expect expression." {
		t.Fatalf("got %q", got)
	}
}

func Test_Errors_Parse_Message_At_End(t *testing.T) {
	e := &ParseError{
		Token: Token{Type: EOF, Line: 4},
		Msg:   "Expect '}' after block.",
	}
	if got := e.Error(); got != "[line 4] Parse Error at end: Expect '}' after block." {
		t.Fatalf("got %q", got)
	}
}

func Test_Errors_Resolve_Message(t *testing.T) {
	e := &ResolveError{
		Token: Token{Type: RETURN, Lexeme: "return", Line: 1},
		Msg:   "Can't return from top-level code.",
	}
	if got := e.Error(); got != "[line 1] Resolver Error at 'return': Can't return from top-level code." {
		t.Fatalf("got %q", got)
	}
}

func Test_Errors_Runtime_Message(t *testing.T) {
	e := &RuntimeError{Line: 9, Msg: "Division by zero."}
	if got := e.Error(); got != "[line 9] Runtime Error: Division by zero." {
		t.Fatalf("got %q", got)
	}
}

// --- incompleteness --------------------------------------------------------

func Test_Errors_IsIncomplete(t *testing.T) {
	if !IsIncomplete(&ParseError{Token: Token{Type: EOF}, Incomplete: true}) {
		t.Fatal("flagged parse error must be incomplete")
	}
	if IsIncomplete(&ParseError{Token: Token{Type: EOF}}) {
		t.Fatal("unflagged parse error must not be incomplete")
	}
	if IsIncomplete(&RuntimeError{Msg: "x"}) {
		t.Fatal("runtime errors are never incomplete")
	}
	if IsIncomplete(errors.New("plain")) {
		t.Fatal("foreign errors are never incomplete")
	}
}

// --- source snippets -------------------------------------------------------

func Test_ErrorWrap_Parse_Shows_Caret_And_Context(t *testing.T) {
	src := "var a = 1;\nvar x = ;\nprint a;"
	tokens, _ := NewScanner(src).ScanTokens()
	_, errs := Parse(tokens)
	if len(errs) != 1 {
		t.Fatalf("want 1 parse error, got %v", errs)
	}

	out := WrapErrorWithSource(errs[0], src).Error()
	mustContain(t, out, "PARSE ERROR at 2:9: Expect expression.")
	mustContain(t, out, "   1 | var a = 1;")
	mustContain(t, out, "   2 | var x = ;")
	mustContain(t, out, "   3 | print a;")
	// The caret sits under column 9 of line 2, on its own gutter line.
	mustContain(t, out, "     |         ^")
}

func Test_ErrorWrap_Scan_Shows_Caret(t *testing.T) {
	src := "var a = @;"
	_, scanErrs := NewScanner(src).ScanTokens()
	if len(scanErrs) != 1 {
		t.Fatalf("want 1 scan error, got %v", scanErrs)
	}

	out := WrapErrorWithSource(scanErrs[0], src).Error()
	mustContain(t, out, "SYNTAX ERROR at 1:9: Unexpected character.")
	mustContain(t, out, "   1 | var a = @;")
	mustContain(t, out, "     |         ^")
}

func Test_ErrorWrap_First_Line_Has_No_Leading_Context(t *testing.T) {
	out := WrapErrorWithSource(&ScanError{Line: 1, Col: 1, Msg: "Unexpected character."}, "@\nok").Error()
	if strings.Contains(out, "   0 |") {
		t.Fatalf("no line 0 context expected:\n%s", out)
	}
	mustContain(t, out, "   2 | ok")
}

func Test_ErrorWrap_Clamps_Out_Of_Range_Position(t *testing.T) {
	// EOF errors can point one past the last line; rendering must not fail.
	out := WrapErrorWithSource(&ScanError{Line: 99, Col: 99, Msg: "Unterminated string."}, "only line").Error()
	mustContain(t, out, "only line")
	mustContain(t, out, "^")
}

func Test_ErrorWrap_Passes_Other_Errors_Through(t *testing.T) {
	re := &RuntimeError{Line: 1, Msg: "Division by zero."}
	if got := WrapErrorWithSource(re, "src"); got != error(re) {
		t.Fatalf("runtime errors must pass through unchanged, got %v", got)
	}

	plain := errors.New("plain")
	if got := WrapErrorWithSource(plain, "src"); got != plain {
		t.Fatalf("foreign errors must pass through unchanged, got %v", got)
	}
}
