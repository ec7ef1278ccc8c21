// errors.go — the error taxonomy and user-facing rendering.
//
// Three kinds of failure reach the user:
//   - scan/parse errors (*ScanError, *ParseError): static, carry line+col,
//     and can be rendered as a caret snippet via WrapErrorWithSource.
//   - resolver errors (*ResolveError): static scope violations. Any of these
//     prevents execution entirely.
//   - runtime errors (*RuntimeError): per-statement failures during
//     interpretation, carrying the source line of the offending token.
//
// The interpreter's early-return control transfer is deliberately NOT an
// error: statement execution reports it through a separate result channel
// (see interpreter.go), so it can never leak into this reporting path.

package jasn

import (
	"errors"
	"fmt"
	"strings"
)

// ScanError is a lexical error at a 1-based line and column.
type ScanError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("[line %d] Syntax Error: %s", e.Line, e.Msg)
}

// ParseError is a syntax error at a token. Incomplete marks errors caused by
// running out of input inside an open construct; interactive front ends use
// it to ask for a continuation line instead of reporting.
type ParseError struct {
	Token      Token
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Token.Type == EOF {
		return fmt.Sprintf("[line %d] Parse Error at end: %s", e.Token.Line, e.Msg)
	}
	return fmt.Sprintf("[line %d] Parse Error at '%s': %s", e.Token.Line, e.Token.Lexeme, e.Msg)
}

// ResolveError is a static scoping error found before execution.
type ResolveError struct {
	Token Token
	Msg   string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("[line %d] Resolver Error at '%s': %s", e.Token.Line, e.Token.Lexeme, e.Msg)
}

// RuntimeError is an execution-time failure with a source line.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Runtime Error: %s", e.Line, e.Msg)
}

// IsIncomplete reports whether err is a parse error caused by incomplete
// input (EOF inside an open construct).
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

// WrapErrorWithSource augments scan and parse errors with a caret-annotated
// snippet of the source. Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *ScanError:
		return fmt.Errorf("%s", caretSnippet(src, "SYNTAX ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", caretSnippet(src, "PARSE ERROR", e.Token.Line, e.Token.Col, e.Msg))
	default:
		return err
	}
}

// caretSnippet builds a snippet with a header, one line of context on each
// side, and a caret under the 1-based column. Out-of-range coordinates are
// clamped so rendering never fails.
func caretSnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
