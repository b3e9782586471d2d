package ast

// Param is a function/lambda/component parameter: name, optional type
// annotation, optional default value, and a `self` marker used by the
// analyzer to decide `isAssociated` for impl methods (spec §3 "Type
// registry").
type Param struct {
	Loc      Location
	Name     string
	Type     *TypeAnnotation
	Default  *Expr
	IsSelf   bool
	Variadic bool // `...rest`
}

func (Param) isDecl() {}

// FunctionDecl is `fn name(params) -> RetType { body }`.
type FunctionDecl struct {
	Name    string
	Params  []Param
	Return  *TypeAnnotation
	Body    []Stmt
	IsAsync bool
}

func (*FunctionDecl) isDecl() {}

// TypeField is one field of a struct-shaped type or variant constructor.
type TypeField struct {
	Loc  Location
	Name string
	Type TypeAnnotation
}

// VariantDecl is one constructor of a sum type: `Circle(r: Float)`.
type VariantDecl struct {
	Loc    Location
	Name   string
	Fields []TypeField
}

// TypeDecl declares a named type: either a struct-shaped record (Fields
// non-empty, Variants empty) or a sum type (Variants non-empty).
type TypeDecl struct {
	Name     string
	Generics []string
	Fields   []TypeField
	Variants []VariantDecl
}

func (*TypeDecl) isDecl() {}

// MethodSig is a trait/interface-required method signature (name + arity +
// declared parameter/return types, no body).
type MethodSig struct {
	Loc    Location
	Name   string
	Params []Param
	Return *TypeAnnotation
}

// TraitDecl / InterfaceDecl declare a set of required method signatures
// that an `impl` must conform to (spec §4.3 "Trait conformance").
type TraitDecl struct {
	Name    string
	Methods []MethodSig
}

func (*TraitDecl) isDecl() {}

type InterfaceDecl struct {
	Name    string
	Methods []MethodSig
}

func (*InterfaceDecl) isDecl() {}

// ImplDecl is `impl Trait for Type { methods }` (TraitName == "" for an
// inherent impl with no trait).
type ImplDecl struct {
	TraitName string
	TypeName  string
	Methods   []*FunctionDecl
}

func (*ImplDecl) isDecl() {}

// StateDecl is `state name = initExpr` -- valid only in a browser/client
// scope (spec §3 invariant).
type StateDecl struct {
	Name string
	Type *TypeAnnotation
	Init Expr
}

func (*StateDecl) isDecl() {}

// ComputedDecl is `computed name = expr` (memoized derived signal).
type ComputedDecl struct {
	Name string
	Body Expr
}

func (*ComputedDecl) isDecl() {}

// EffectDecl is `effect { body }`, re-run when its dependencies change.
type EffectDecl struct {
	Body []Stmt
}

func (*EffectDecl) isDecl() {}

// ComponentDecl is `component Name(props) { body }`; JSX is returned from
// the body via a trailing expression or `return`.
type ComponentDecl struct {
	Name   string
	Props  []Param
	Body   []Stmt
	Style  *StyleBlock
}

func (*ComponentDecl) isDecl() {}

// StyleBlock is the scoped `style { css }` attached to a component
// (spec §4.4 "CSS scoping").
type StyleBlock struct {
	Loc Location
	CSS string
}

// StoreDecl is `store Name { state fields... methods... }`, a standalone
// reactive container usable outside any one component.
type StoreDecl struct {
	Name   string
	States []*StateDecl
	Methods []*FunctionDecl
}

func (*StoreDecl) isDecl() {}

// RouteDecl is `route METHOD "/path" => handler` (server-only).
type RouteDecl struct {
	Method  string
	Path    string
	Handler Expr // usually an identifier or inline lambda
}

func (*RouteDecl) isDecl() {}

// MiddlewareDecl is `middleware name { body }` (server-only).
type MiddlewareDecl struct {
	Name string
	Body []Stmt
}

func (*MiddlewareDecl) isDecl() {}

// WebSocketDecl is `websocket "/path" { handlers }` (server-only).
type WebSocketDecl struct {
	Path    string
	Body    []Stmt
}

func (*WebSocketDecl) isDecl() {}

// SSEDecl is `sse "/path" { handler }` (server-only).
type SSEDecl struct {
	Path string
	Body []Stmt
}

func (*SSEDecl) isDecl() {}

// DBDecl declares a database connection (server-only): `db "name" { engine: "postgres", ... }`.
type DBDecl struct {
	Name   string
	Config map[string]Expr
}

func (*DBDecl) isDecl() {}

// AIDecl declares an AI model binding usable from server or shared scope.
type AIDecl struct {
	Name   string
	Config map[string]Expr
}

func (*AIDecl) isDecl() {}

// ImportDecl is `import a, b from "module"` or `import "module" as ns`.
type ImportDecl struct {
	Names  []string
	Alias  string
	Module string
}

func (*ImportDecl) isDecl() {}

// ExprDecl lets a bare expression/statement appear where a declaration is
// expected inside a block body (the block-body item list is []Decl; most
// non-declaration statements are wrapped this way so block bodies can hold
// ordinary code alongside declarations without two parallel item lists).
type ExprDecl struct {
	Stmt Stmt
}

func (*ExprDecl) isDecl() {}
