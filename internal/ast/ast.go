// Package ast defines the Tova abstract syntax tree: roughly ninety tagged
// node variants, each carrying a source Location (spec §3 "AST nodes").
//
// The shape follows the teacher's internal/js_ast package: every node is a
// small struct embedded behind a marker interface (`E` for expressions, `S`
// for statements, `D` for declarations), wrapped in a `Expr`/`Stmt`/`Decl`
// envelope that carries the Location. This keeps node structs themselves
// free of position bookkeeping and gives a single switch point (the marker
// interface) for exhaustive dispatch in the analyzer and code generator,
// per the "closed sum-type match with an exhaustiveness requirement" design
// note in spec §9.
package ast

// Location is `{line, column, file}` per spec §3. Every node's location is
// non-nil by construction (the zero Location is never a valid one -- the
// parser always supplies it from the current token).
type Location struct {
	File   string
	Line   int
	Column int
}

// Program is the root node: a sequence of top-level items (blocks, or,
// in module-compile mode, bare declarations/imports).
type Program struct {
	Loc   Location
	Items []TopLevel
}

// TopLevel is either a Block or a bare top-level Decl/Stmt (module mode).
type TopLevel struct {
	Loc   Location
	Block *Block // non-nil when this item is a `server`/`browser`/... block
	Decl  Decl   // non-nil otherwise (function/type/trait/impl/import/pub)
}

// BlockKind enumerates the nine block keywords from spec §4.2/glossary.
type BlockKind string

const (
	BlockServer     BlockKind = "server"
	BlockBrowser    BlockKind = "browser"
	BlockShared     BlockKind = "shared"
	BlockTest       BlockKind = "test"
	BlockBench      BlockKind = "bench"
	BlockCli        BlockKind = "cli"
	BlockData       BlockKind = "data"
	BlockSecurity   BlockKind = "security"
	BlockDeploy     BlockKind = "deploy"
)

// Block is one `kind ["name"] { items }` top-level construct. Multiple
// named `server` blocks are legal and become RPC peers (spec §4.2).
type Block struct {
	Loc   Location
	Kind  BlockKind
	Name  string // "" when unnamed
	Items []Decl
}

// Expr wraps an expression node (E) with its source location.
type Expr struct {
	Loc  Location
	Data E
}

// E is the marker interface implemented by every expression node.
type E interface{ isExpr() }

// Stmt wraps a statement node (S) with its source location.
type Stmt struct {
	Loc  Location
	Data S
}

// S is the marker interface implemented by every statement node.
type S interface{ isStmt() }

// Decl wraps a declaration node (D) with its source location and a shared
// set of modifiers (pub/docstring) that apply across declaration kinds.
type Decl struct {
	Loc       Location
	Data      D
	Pub       bool
	Docstring string
}

// D is the marker interface implemented by every declaration node.
type D interface{ isDecl() }

// Pattern wraps a match/destructuring pattern node (P) with its location.
type Pattern struct {
	Loc  Location
	Data P
}

// P is the marker interface implemented by every pattern node.
type P interface{ isPattern() }

// TypeAnnotation is a structural, gradual type expression (spec §3/§4.3).
// `_` / the zero value means "unannotated" and is compatible with
// everything (gradual subtyping).
type TypeAnnotation struct {
	Loc       Location
	Name      string           // "", "Int", "Float", "String", "Bool", a named type, or "_"
	Args      []TypeAnnotation // generic type arguments, e.g. List<Int>
	Optional  bool             // `Type?`
	IsArray   bool             // `[Type]`
	IsFn      bool
	FnParams  []TypeAnnotation
	FnReturn  *TypeAnnotation
}

// IsWildcard reports whether this annotation is absent/unannotated.
func (t TypeAnnotation) IsWildcard() bool { return t.Name == "" || t.Name == "_" }
