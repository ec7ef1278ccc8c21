// parser.go — recursive-descent parser from tokens to the AST in ast.go.
//
// The grammar, highest level first:
//
//	program     → declaration* EOF
//	declaration → classDecl | funkDecl | varDecl | statement
//	statement   → exprStmt | printStmt | returnStmt | ifStmt | whileStmt
//	            | forStmt | block
//
// Expressions by precedence (lowest first): assignment, or, and, equality,
// comparison, term, factor, unary, call/get/index, primary. A for statement
// is pure sugar and desugars here into a block wrapping a while loop.
//
// After a syntax error the parser synchronizes to the next statement
// boundary and keeps going, so one run reports as many errors as possible.
// In interactive mode, errors caused by running out of input are marked
// incomplete (see IsIncomplete) so a REPL can prompt for a continuation line
// instead of reporting.

package jasn

// Parser consumes a token stream and produces statements.
type Parser struct {
	tokens      []Token
	current     int
	interactive bool
	errs        []error
}

// Parse parses a complete program. It returns the statements that parsed
// cleanly along with every syntax error encountered; callers must not
// execute a program whose parse reported errors.
func Parse(tokens []Token) ([]Stmt, []error) {
	p := &Parser{tokens: tokens}
	return p.program()
}

// ParseInteractive behaves like Parse but marks errors at end of input as
// incomplete, for REPL continuation prompts.
func ParseInteractive(tokens []Token) ([]Stmt, []error) {
	p := &Parser{tokens: tokens, interactive: true}
	return p.program()
}

func (p *Parser) program() ([]Stmt, []error) {
	var statements []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errs
}

// declaration parses one declaration or statement, recovering to the next
// statement boundary on error.
func (p *Parser) declaration() Stmt {
	stmt, err := p.declarationStrict()
	if err != nil {
		p.errs = append(p.errs, err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) classDeclaration() (Stmt, error) {
	name, err := p.consume(ID, "Expect class name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(LCURLY, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []*FunctionStmt
	for !p.check(RCURLY) && !p.isAtEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(RCURLY, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Methods: methods}, nil
}

// function parses a name, parameter list and body. kind is "function" or
// "method" and only affects error messages.
func (p *Parser) function(kind string) (*FunctionStmt, error) {
	name, err := p.consume(ID, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(LROUND, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []Token
	if !p.check(RROUND) {
		for {
			param, err := p.consume(ID, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RROUND, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(LCURLY, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.blockStatements()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(ID, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer Expr
	if p.match(ASSIGN) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: initializer}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(FOR):
		return p.forStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(PRINT):
		return p.printStatement()
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(LCURLY):
		stmts, err := p.blockStatements()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars for(init; cond; incr) body into
// { init; while (cond) { body incr; } }.
func (p *Parser) forStatement() (Stmt, error) {
	if _, err := p.consume(LROUND, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		initializer = nil
	case p.match(VAR):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition Expr
	if !p.check(SEMICOLON) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(RROUND) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RROUND, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &Literal{Value: Bool(true)}
	}
	var loop Stmt = &WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		loop = &BlockStmt{Statements: []Stmt{initializer, loop}}
	}
	return loop, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	if _, err := p.consume(LROUND, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RROUND, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: condition, Then: then, Else: elseBranch}, nil
}

func (p *Parser) printStatement() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	keyword := p.previous()
	var value Expr
	var err error
	if !p.check(SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	if _, err := p.consume(LROUND, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RROUND, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: condition, Body: body}, nil
}

// blockStatements parses statements until the closing brace. The opening
// brace has already been consumed.
func (p *Parser) blockStatements() ([]Stmt, error) {
	var statements []Stmt
	for !p.check(RCURLY) && !p.isAtEnd() {
		stmt, err := p.declarationStrict()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(RCURLY, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

// declarationStrict parses one declaration without error recovery; used
// inside blocks and function bodies where the enclosing declaration() call
// owns synchronization.
func (p *Parser) declarationStrict() (Stmt, error) {
	switch {
	case p.match(CLASS):
		return p.classDeclaration()
	case p.match(FUNK):
		return p.function("function")
	case p.match(VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expression: expr}, nil
}

// --- Expressions ------------------------------------------------------------

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(ASSIGN) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *Variable:
			return &Assign{Name: target.Name, Value: value}, nil
		case *Get:
			return &Set{Object: target.Object, Name: target.Name, Value: value}, nil
		case *Index:
			return &SetIndex{Object: target.Object, Bracket: target.Bracket, Idx: target.Idx, Value: value}, nil
		}
		return nil, &ParseError{Token: equals, Msg: "Invalid assignment target."}
	}

	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(NEQ, EQ) {
		operator := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		operator := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MINUS, PLUS) {
		operator := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(DIV, MULT, MOD) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Operator: operator, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(LROUND):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(PERIOD):
			name, err := p.consume(ID, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &Get{Object: expr, Name: name}
		case p.match(LSQUARE):
			bracket := p.previous()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(RSQUARE, "Expect ']' after index."); err != nil {
				return nil, err
			}
			expr = &Index{Object: expr, Bracket: bracket, Idx: idx}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var arguments []Expr
	if !p.check(RROUND) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(RROUND, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Paren: paren, Arguments: arguments}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &Literal{Value: Bool(false)}, nil
	case p.match(TRUE):
		return &Literal{Value: Bool(true)}, nil
	case p.match(NULL):
		return &Literal{Value: Null}, nil
	case p.match(NUMBER, STRING):
		return &Literal{Value: p.previous().Literal}, nil
	case p.match(THIS):
		return &This{Keyword: p.previous()}, nil
	case p.match(ID):
		return &Variable{Name: p.previous()}, nil
	case p.match(LROUND):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RROUND, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &Grouping{Expression: expr}, nil
	case p.match(LSQUARE):
		bracket := p.previous()
		var elements []Expr
		if !p.check(RSQUARE) {
			for {
				elem, err := p.expression()
				if err != nil {
					return nil, err
				}
				elements = append(elements, elem)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(RSQUARE, "Expect ']' after array elements."); err != nil {
			return nil, err
		}
		return &Array{Bracket: bracket, Elements: elements}, nil
	}

	return nil, p.errAtCurrent("Expect expression.")
}

// --- Token plumbing ---------------------------------------------------------

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// consume takes the expected token or fails with msg at the current token.
func (p *Parser) consume(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errAtCurrent(msg)
}

func (p *Parser) errAtCurrent(msg string) error {
	tok := p.peek()
	return &ParseError{
		Token:      tok,
		Msg:        msg,
		Incomplete: p.interactive && tok.Type == EOF,
	}
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == EOF }

func (p *Parser) peek() Token { return p.tokens[p.current] }

func (p *Parser) previous() Token { return p.tokens[p.current-1] }

// synchronize skips tokens until a likely statement boundary so parsing can
// resume after an error.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUNK, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}
