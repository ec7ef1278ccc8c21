// ast.go — the JASN abstract syntax tree.
//
// Statements and expressions are sums over concrete node structs; the
// resolver and interpreter consume them with exhaustive type switches. All
// nodes are pointers and immutable after parsing, so node identity is stable
// and the resolver can key its depth table on the nodes themselves.

package jasn

// Expr is implemented by every expression node.
type Expr interface{ expr() }

// Stmt is implemented by every statement node.
type Stmt interface{ stmt() }

// --- Expressions ------------------------------------------------------------

// Assign is a plain-name assignment: name = value.
type Assign struct {
	Name  Token
	Value Expr
}

// Binary is an arithmetic, comparison, or equality operation.
type Binary struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// Call invokes a callee with arguments. Paren is the closing parenthesis,
// kept for error locations.
type Call struct {
	Callee    Expr
	Paren     Token
	Arguments []Expr
}

// Get reads a property: object.name.
type Get struct {
	Object Expr
	Name   Token
}

// Set writes a property: object.name = value.
type Set struct {
	Object Expr
	Name   Token
	Value  Expr
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expression Expr
}

// Literal carries a constant produced by the scanner.
type Literal struct {
	Value Value
}

// Logical is a short-circuiting and/or.
type Logical struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// Unary is prefix negation or logical not.
type Unary struct {
	Operator Token
	Right    Expr
}

// Variable references a name.
type Variable struct {
	Name Token
}

// This references the bound instance inside a method body.
type This struct {
	Keyword Token
}

// Array is an array literal. Bracket is the opening bracket.
type Array struct {
	Bracket  Token
	Elements []Expr
}

// Index reads an element: object[index]. Bracket is the opening bracket.
type Index struct {
	Object  Expr
	Bracket Token
	Idx     Expr
}

// SetIndex writes an element: object[index] = value.
type SetIndex struct {
	Object  Expr
	Bracket Token
	Idx     Expr
	Value   Expr
}

func (*Assign) expr()   {}
func (*Binary) expr()   {}
func (*Call) expr()     {}
func (*Get) expr()      {}
func (*Set) expr()      {}
func (*Grouping) expr() {}
func (*Literal) expr()  {}
func (*Logical) expr()  {}
func (*Unary) expr()    {}
func (*Variable) expr() {}
func (*This) expr()     {}
func (*Array) expr()    {}
func (*Index) expr()    {}
func (*SetIndex) expr() {}

// --- Statements -------------------------------------------------------------

// BlockStmt is a braced statement list with its own scope.
type BlockStmt struct {
	Statements []Stmt
}

// ExpressionStmt evaluates an expression for its side effects.
type ExpressionStmt struct {
	Expression Expr
}

// FunctionStmt declares a named function. Class methods reuse this node.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ClassStmt declares a class with its methods.
type ClassStmt struct {
	Name    Token
	Methods []*FunctionStmt
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// PrintStmt writes a value to the interpreter's output.
type PrintStmt struct {
	Expression Expr
}

// ReturnStmt transfers control to the nearest call boundary. Value may be
// nil (returns null).
type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

// VarStmt declares a variable with an optional initializer.
type VarStmt struct {
	Name        Token
	Initializer Expr
}

// WhileStmt loops while the condition is truthy.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (*BlockStmt) stmt()      {}
func (*ExpressionStmt) stmt() {}
func (*FunctionStmt) stmt()   {}
func (*ClassStmt) stmt()      {}
func (*IfStmt) stmt()         {}
func (*PrintStmt) stmt()      {}
func (*ReturnStmt) stmt()     {}
func (*VarStmt) stmt()        {}
func (*WhileStmt) stmt()      {}
