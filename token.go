package jasn

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LROUND    // "("
	RROUND    // ")"
	LCURLY    // "{"
	RCURLY    // "}"
	LSQUARE   // "["
	RSQUARE   // "]"
	COMMA     // ","
	PERIOD    // "."
	SEMICOLON // ";"

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	BANG   // "!"
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	STRING
	NUMBER

	// Keywords
	AND
	OR
	CLASS
	ELSE
	FALSE
	TRUE
	FUNK
	FOR
	IF
	NULL
	PRINT
	RETURN
	THIS
	VAR
	WHILE
)

// Token is a lexical token with an optional literal payload. Line and Col are
// 1-based and point at the first byte of the lexeme.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Value // payload for STRING/NUMBER tokens, Null otherwise
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"true":   TRUE,
	"funk":   FUNK,
	"for":    FOR,
	"if":     IF,
	"null":   NULL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"this":   THIS,
	"var":    VAR,
	"while":  WHILE,
}

func (t Token) String() string {
	if t.Type == EOF {
		return fmt.Sprintf("%d: <eof>", t.Line)
	}
	return fmt.Sprintf("%d: %q", t.Line, t.Lexeme)
}
