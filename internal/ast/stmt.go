package ast

// SAssign is a plain assignment `target = value`.
type SAssign struct {
	Target Expr
	Value  Expr
}

func (*SAssign) isStmt() {}

// SCompoundAssign is `target += value` etc.; Op is the token text (`+=`).
type SCompoundAssign struct {
	Target Expr
	Op     string
	Value  Expr
}

func (*SCompoundAssign) isStmt() {}

// SVarDecl is `var name = value` / `let name = value` (Mutable reflects
// `var` vs `let`).
type SVarDecl struct {
	Name    string
	Type    *TypeAnnotation
	Value   *Expr
	Mutable bool
}

func (*SVarDecl) isStmt() {}

// SLetDestructure is `let {a, b} = expr` / `let (a, b) = expr`.
type SLetDestructure struct {
	Pattern Pattern
	Value   Expr
	Mutable bool
}

func (*SLetDestructure) isStmt() {}

// SBlock is a `{ ... }` statement sequence introducing a child scope.
type SBlock struct {
	Body []Stmt
}

func (*SBlock) isStmt() {}

// SReturn is `return [expr]`.
type SReturn struct {
	Value *Expr
}

func (*SReturn) isStmt() {}

// SIf is `if cond { then } elif cond2 { ... } else { else }`.
type SIf struct {
	Cond Expr
	Then []Stmt
	Elif []ElifClause
	Else []Stmt // nil when absent
}

func (*SIf) isStmt() {}

type ElifClause struct {
	Cond Expr
	Body []Stmt
}

// SFor is `[label:] for pat in iter [when guard] { body } [else { body }]`,
// optionally `async for` (spec §4.4 "async for variant").
type SFor struct {
	Label   string
	Pattern Pattern
	Iter    Expr
	Guard   *Expr
	Body    []Stmt
	Else    []Stmt
	Async   bool
}

func (*SFor) isStmt() {}

// SWhile is `[label:] while cond { body }`.
type SWhile struct {
	Label string
	Cond  Expr
	Body  []Stmt
}

func (*SWhile) isStmt() {}

// SLoop is `[label:] loop { body }` (unconditional, exited via break).
type SLoop struct {
	Label string
	Body  []Stmt
}

func (*SLoop) isStmt() {}

// SBreak / SContinue carry an optional label (spec §4.3 "Loop labels").
type SBreak struct{ Label string }

func (*SBreak) isStmt() {}

type SContinue struct{ Label string }

func (*SContinue) isStmt() {}

// SGuard is `guard cond else { body }` -- body must diverge (return/break/continue/throw).
type SGuard struct {
	Cond Expr
	Else []Stmt
}

func (*SGuard) isStmt() {}

// SWith is `with expr as name { body }`, closing/disposing `name` on exit.
type SWith struct {
	Value Expr
	Name  string
	Body  []Stmt
}

func (*SWith) isStmt() {}

// SDefer is `defer { body }` / `defer expr`, run on scope exit.
type SDefer struct {
	Body []Stmt
}

func (*SDefer) isStmt() {}

// STryCatch is `try { body } catch name { handler }`.
type STryCatch struct {
	Body    []Stmt
	CatchAs string
	Catch   []Stmt
}

func (*STryCatch) isStmt() {}

// SExpr is a bare expression used as a statement.
type SExpr struct {
	Value Expr
}

func (*SExpr) isStmt() {}
