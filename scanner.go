// scanner.go — byte scanner turning JASN source into a token stream.
//
// The scanner walks the source a byte at a time (identifiers and keywords are
// ASCII; string literals pass any bytes through untouched, so UTF-8 content
// survives). Errors do not stop the scan: the scanner records them and keeps
// going so a single run can report every bad character in the file.

package jasn

import "strconv"

// Scanner scans source text and produces a list of tokens.
type Scanner struct {
	src    []byte
	tokens []Token

	start     int // first byte of the lexeme being scanned
	current   int // byte about to be consumed
	line      int
	lineStart int // byte offset of the current line, for column tracking

	errs []error
}

// NewScanner creates a scanner over the given source text.
func NewScanner(src string) *Scanner {
	return &Scanner{src: []byte(src), line: 1}
}

// ScanTokens scans the whole source. The returned token list always ends with
// an EOF token. Any scan errors are returned alongside the tokens; callers
// must not execute a program whose scan reported errors.
func (s *Scanner) ScanTokens() ([]Token, []error) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: EOF, Literal: Null, Line: s.line, Col: s.col(s.current)})
	return s.tokens, s.errs
}

func (s *Scanner) isAtEnd() bool { return s.current >= len(s.src) }

// col converts a byte offset into a 1-based column on the current line.
func (s *Scanner) col(offset int) int { return offset - s.lineStart + 1 }

func (s *Scanner) scanToken() {
	c := s.advance()

	switch c {
	case '(':
		s.addToken(LROUND)
	case ')':
		s.addToken(RROUND)
	case '{':
		s.addToken(LCURLY)
	case '}':
		s.addToken(RCURLY)
	case '[':
		s.addToken(LSQUARE)
	case ']':
		s.addToken(RSQUARE)
	case ',':
		s.addToken(COMMA)
	case '.':
		s.addToken(PERIOD)
	case ';':
		s.addToken(SEMICOLON)
	case '+':
		s.addToken(PLUS)
	case '-':
		s.addToken(MINUS)
	case '*':
		s.addToken(MULT)
	case '%':
		s.addToken(MOD)
	case '!':
		if s.match('=') {
			s.addToken(NEQ)
		} else {
			s.addToken(BANG)
		}
	case '=':
		if s.match('=') {
			s.addToken(EQ)
		} else {
			s.addToken(ASSIGN)
		}
	case '<':
		if s.match('=') {
			s.addToken(LESS_EQ)
		} else {
			s.addToken(LESS)
		}
	case '>':
		if s.match('=') {
			s.addToken(GREATER_EQ)
		} else {
			s.addToken(GREATER)
		}
	case '/':
		if s.match('/') {
			// A comment runs to the end of the line.
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else {
			s.addToken(DIV)
		}
	case ' ', '\r', '\t':
		// Ignore whitespace.
	case '\n':
		s.newline()
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.scanIdentifier()
		default:
			s.err("Unexpected character.")
		}
	}
}

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

// match consumes the next byte only if it equals expected.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) newline() {
	s.line++
	s.lineStart = s.current
}

func (s *Scanner) addToken(tt TokenType) {
	s.addLiteralToken(tt, Null)
}

func (s *Scanner) addLiteralToken(tt TokenType, literal Value) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  string(s.src[s.start:s.current]),
		Literal: literal,
		Line:    s.line,
		Col:     s.col(s.start),
	})
}

func (s *Scanner) err(msg string) {
	s.errs = append(s.errs, &ScanError{Line: s.line, Col: s.col(s.start), Msg: msg})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// scanString consumes a double-quoted string. Strings may span lines and have
// no escape sequences.
func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.advance()
			s.newline()
			continue
		}
		s.advance()
	}

	if s.isAtEnd() {
		s.err("Unterminated string.")
		return
	}

	// The closing quote.
	s.advance()

	value := string(s.src[s.start+1 : s.current-1])
	s.addLiteralToken(STRING, Str(value))
}

// scanNumber consumes an integer or decimal literal. A leading or trailing
// '.' is not part of the number.
func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	text := string(s.src[s.start:s.current])
	n, parseErr := strconv.ParseFloat(text, 64)
	if parseErr != nil {
		s.err("Invalid number literal.")
		return
	}
	s.addLiteralToken(NUMBER, Num(n))
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := string(s.src[s.start:s.current])
	if tt, ok := keywords[text]; ok {
		s.addToken(tt)
		return
	}
	s.addToken(ID)
}
