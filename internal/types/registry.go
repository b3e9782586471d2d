// Package types implements the per-compilation type registry (spec §3
// "Type registry"): named types, their variant constructors, impl method
// tables, and trait/interface required-method signatures. Owned by the
// analyzer for the lifetime of one compilation (spec §5).
package types

import "github.com/tova-lang/tova/internal/ast"

// Method describes one impl method, tagged with whether it is associated
// (static-style, no `self` parameter) per spec §3/§4.3.
type Method struct {
	Name         string
	Decl         *ast.FunctionDecl
	IsAssociated bool
}

// Variant is one constructor of a named sum type.
type Variant struct {
	Name   string
	Fields []ast.TypeField
}

// TraitSig is a trait or interface's required method table.
type TraitSig struct {
	Name    string
	Methods []ast.MethodSig
}

// TypeEntry is everything the registry knows about one named type.
type TypeEntry struct {
	Name     string
	Fields   []ast.TypeField // struct-shaped types
	Variants []Variant        // sum types
	Methods  []Method         // all impl methods across every `impl ... for Type`
	Impls    []string         // trait names implemented for this type ("" for inherent impls)
}

// Registry is a process-scoped-per-compile store keyed by type name.
type Registry struct {
	types  map[string]*TypeEntry
	traits map[string]*TraitSig
}

func New() *Registry {
	return &Registry{types: make(map[string]*TypeEntry), traits: make(map[string]*TraitSig)}
}

func (r *Registry) DeclareType(decl *ast.TypeDecl) *TypeEntry {
	entry, ok := r.types[decl.Name]
	if !ok {
		entry = &TypeEntry{Name: decl.Name}
		r.types[decl.Name] = entry
	}
	entry.Fields = decl.Fields
	for _, v := range decl.Variants {
		entry.Variants = append(entry.Variants, Variant{Name: v.Name, Fields: v.Fields})
	}
	return entry
}

func (r *Registry) DeclareTrait(name string, methods []ast.MethodSig) {
	r.traits[name] = &TraitSig{Name: name, Methods: methods}
}

func (r *Registry) Trait(name string) (*TraitSig, bool) {
	t, ok := r.traits[name]
	return t, ok
}

func (r *Registry) Type(name string) (*TypeEntry, bool) {
	t, ok := r.types[name]
	return t, ok
}

// EnsureType returns the entry for name, creating an empty one if this is
// the first mention (e.g. an `impl Trait for Type` seen before `type Type`).
func (r *Registry) EnsureType(name string) *TypeEntry {
	entry, ok := r.types[name]
	if !ok {
		entry = &TypeEntry{Name: name}
		r.types[name] = entry
	}
	return entry
}

// DeclareImpl registers every method of `impl Trait for Type` into the
// type's method table, tagging `IsAssociated = (first parameter is not
// named 'self')` (spec §3).
func (r *Registry) DeclareImpl(impl *ast.ImplDecl) {
	entry := r.EnsureType(impl.TypeName)
	if impl.TraitName != "" {
		entry.Impls = append(entry.Impls, impl.TraitName)
	}
	for _, m := range impl.Methods {
		isAssociated := len(m.Params) == 0 || !m.Params[0].IsSelf
		entry.Methods = append(entry.Methods, Method{Name: m.Name, Decl: m, IsAssociated: isAssociated})
	}
}

// GetMembers returns instance methods (those with a `self` receiver).
func (e *TypeEntry) GetMembers() []Method {
	var out []Method
	for _, m := range e.Methods {
		if !m.IsAssociated {
			out = append(out, m)
		}
	}
	return out
}

// GetAssociatedFunctions returns static-style functions (no `self`).
func (e *TypeEntry) GetAssociatedFunctions() []Method {
	var out []Method
	for _, m := range e.Methods {
		if m.IsAssociated {
			out = append(out, m)
		}
	}
	return out
}

// Conforms checks every required method of `trait` is present in `typeName`
// with matching arity (spec §4.3 "Trait conformance"). Returns the names of
// any missing/mismatched methods.
func (r *Registry) Conforms(typeName, traitName string) (missing []string, arityMismatch []string) {
	trait, ok := r.traits[traitName]
	if !ok {
		return nil, nil
	}
	entry, ok := r.types[typeName]
	if !ok {
		for _, req := range trait.Methods {
			missing = append(missing, req.Name)
		}
		return missing, nil
	}
	have := map[string]int{}
	for _, m := range entry.Methods {
		arity := len(m.Decl.Params)
		if !m.IsAssociated {
			arity--
		}
		have[m.Name] = arity
	}
	for _, req := range trait.Methods {
		arity, ok := have[req.Name]
		if !ok {
			missing = append(missing, req.Name)
			continue
		}
		if arity != len(req.Params) {
			arityMismatch = append(arityMismatch, req.Name)
		}
	}
	return missing, arityMismatch
}

// BuiltinConstructors are the four always-known sum-type constructors
// (spec §3 "constructor names such as Ok, Err, Some, None").
var BuiltinConstructors = map[string]string{
	"Ok":   "Result",
	"Err":  "Result",
	"Some": "Option",
	"None": "Option",
}
