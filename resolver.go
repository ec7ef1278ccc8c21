// resolver.go — the static scope resolution pass.
//
// The resolver walks the AST once before execution and records, for every
// local variable reference and assignment, how many frames up the scope
// chain its binding lives. The interpreter replays those distances with
// GetAt/AssignAt, so the scope-map nesting here must mirror exactly the
// environment nesting the interpreter creates: one scope per block, one per
// function body (parameters and body share it), and one per class body
// holding 'this'. Names that resolve in no local scope are left out of the
// table and fall back to dynamic lookup in the global frame.
//
// The same pass rejects the static scope errors: redeclaring a name in the
// same scope, reading a variable inside its own initializer, returning
// outside a function, and using 'this' outside a class. Any such error
// prevents execution entirely.

package jasn

// Locals maps a variable reference or assignment node to its scope distance
// (0 = the innermost scope at the point of reference).
type Locals map[Expr]int

type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
)

type classKind int

const (
	classNone classKind = iota
	classInClass
)

// Resolver computes the Locals side table and collects static scope errors.
type Resolver struct {
	// Each scope maps a name to whether its initializer has finished; a
	// false entry marks the declared-but-not-yet-defined window.
	scopes []map[string]bool
	locals Locals

	currentFunction functionKind
	currentClass    classKind

	errs []error
}

// NewResolver creates a resolver with an empty side table.
func NewResolver() *Resolver {
	return &Resolver{locals: make(Locals)}
}

// Resolve analyzes a program. The returned table is only meaningful when the
// error list is empty; execution must not be attempted otherwise.
func (r *Resolver) Resolve(statements []Stmt) (Locals, []error) {
	r.resolveStmts(statements)
	return r.locals, r.errs
}

func (r *Resolver) resolveStmts(statements []Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *FunctionStmt:
		// The name is defined before the body resolves so the function
		// can recurse into itself.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ClassStmt:
		r.declare(s.Name)
		r.define(s.Name)

		enclosing := r.currentClass
		r.currentClass = classInClass
		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		for _, method := range s.Methods {
			r.resolveFunction(method, fnMethod)
		}
		r.endScope()
		r.currentClass = enclosing

	case *ExpressionStmt:
		r.resolveExpr(s.Expression)

	case *PrintStmt:
		r.resolveExpr(s.Expression)

	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ReturnStmt:
		if r.currentFunction == fnNone {
			r.err(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}

	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	}
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.err(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	case *Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}

	case *Get:
		// Property names are looked up on the instance at runtime; only
		// the object expression resolves statically.
		r.resolveExpr(e.Object)

	case *Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *Grouping:
		r.resolveExpr(e.Expression)

	case *Literal:
		// Nothing to resolve.

	case *Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *Unary:
		r.resolveExpr(e.Right)

	case *This:
		if r.currentClass == classNone {
			r.err(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *Array:
		for _, elem := range e.Elements {
			r.resolveExpr(elem)
		}

	case *Index:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Idx)

	case *SetIndex:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Idx)
		r.resolveExpr(e.Value)
	}
}

// resolveFunction resolves a function body in one fresh scope shared by the
// parameters and the body, mirroring the single frame the interpreter
// creates per call.
func (r *Resolver) resolveFunction(fn *FunctionStmt, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosing
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks a name as existing-but-uninitialized in the innermost scope.
// Top-level declarations land in the global frame and are not tracked.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.err(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks the name's initializer as finished.
func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the hop distance from the innermost scope to the one
// declaring name. No match means the name is global and stays untracked.
func (r *Resolver) resolveLocal(expr Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) err(tok Token, msg string) {
	r.errs = append(r.errs, &ResolveError{Token: tok, Msg: msg})
}
