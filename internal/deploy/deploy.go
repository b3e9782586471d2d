// Package deploy implements the deployment manifest inferencer (spec
// §4.5): a single walk over the AST that produces a best-guess production
// topology, which any declared `deploy` block then overrides field by
// field.
//
// The walk-and-infer-then-override shape mirrors the teacher's own
// internal/config defaults-then-overrides pattern (esbuild's
// `config.Options` is built by starting from zero-value defaults and
// letting each CLI flag/API field override one piece at a time).
package deploy

import (
	"github.com/google/uuid"

	"github.com/tova-lang/tova/internal/ast"
)

// Database is one inferred or declared database connection.
type Database struct {
	Name   string
	Engine string
	Config map[string]string
}

// RequiredComponents are the runtime components the inferred topology
// needs on the host (spec §4.5 "{bun, caddy, ufw} inferred from block
// presence").
type RequiredComponents struct {
	Bun   bool
	Caddy bool
	Ufw   bool
}

// Manifest is the deployment manifest (spec §4.5).
type Manifest struct {
	ReleaseID      string
	ProjectName    string
	Host           string
	Domain         string
	Instances      int
	MemoryLimitMB  int
	HealthPath     string
	HealthInterval int // seconds
	HealthTimeout  int // seconds
	RestartPolicy  string
	RetainReleases int
	Env            map[string]string
	Databases      []Database
	Required       RequiredComponents
	HasWebSocket   bool
	HasSSE         bool
	HasBrowser     bool
	RequiredSecrets []string
	BlockKinds     []string
}

// defaults mirrors spec §4.5's implied baseline for a topology with at
// least one server block: a single small instance behind Caddy, health
// checked every 10s with a 3s timeout, restarting always, keeping the last
// 5 releases.
func defaults() *Manifest {
	return &Manifest{
		ReleaseID:      uuid.NewString(),
		Instances:      1,
		MemoryLimitMB:  512,
		HealthPath:     "/healthz",
		HealthInterval: 10,
		HealthTimeout:  3,
		RestartPolicy:  "always",
		RetainReleases: 5,
		Env:            map[string]string{},
		Required:       RequiredComponents{Bun: true},
	}
}

// Infer walks prog once, producing the manifest (spec §4.5 "Walks the AST
// once and produces a manifest with: ...").
func Infer(prog *ast.Program) *Manifest {
	m := defaults()
	seenEngines := map[string]bool{}
	var deployBlock *ast.Block

	for _, item := range prog.Items {
		if item.Block == nil {
			continue
		}
		b := item.Block
		m.BlockKinds = append(m.BlockKinds, string(b.Kind))
		switch b.Kind {
		case ast.BlockServer:
			m.Required.Caddy = true
			m.Required.Ufw = true
		case ast.BlockBrowser:
			m.HasBrowser = true
		case ast.BlockDeploy:
			deployBlock = b
		case ast.BlockSecurity:
			for _, name := range collectEnvCalls(b.Items) {
				m.RequiredSecrets = append(m.RequiredSecrets, name)
			}
		}
		for _, d := range b.Items {
			switch decl := d.Data.(type) {
			case *ast.WebSocketDecl:
				m.HasWebSocket = true
			case *ast.SSEDecl:
				m.HasSSE = true
			case *ast.DBDecl:
				db := inferDatabase(decl)
				if !seenEngines[db.Engine] {
					m.Databases = append(m.Databases, db)
					seenEngines[db.Engine] = true
				}
			}
		}
	}

	if deployBlock != nil {
		applyDeployOverrides(m, deployBlock)
	}

	return m
}

func inferDatabase(d *ast.DBDecl) Database {
	db := Database{Name: d.Name, Config: map[string]string{}}
	for k, v := range d.Config {
		s := literalString(v)
		if k == "engine" {
			db.Engine = s
		}
		db.Config[k] = s
	}
	if db.Engine == "" {
		db.Engine = "postgres"
	}
	return db
}

func literalString(x ast.Expr) string {
	switch v := x.Data.(type) {
	case *ast.EString:
		return v.Value
	case *ast.EIdentifier:
		return v.Name
	}
	return ""
}

// collectEnvCalls finds every `env("NAME")` call reachable from a block's
// declarations (spec §4.5: "the set of required secrets (collected from
// env("NAME") calls inside security blocks)").
func collectEnvCalls(items []ast.Decl) []string {
	var names []string
	for _, d := range items {
		switch decl := d.Data.(type) {
		case *ast.FunctionDecl:
			names = append(names, envCallsInStmts(decl.Body)...)
		case *ast.ExprDecl:
			names = append(names, envCallsInStmt(decl.Stmt)...)
		}
	}
	return names
}

func envCallsInStmts(stmts []ast.Stmt) []string {
	var names []string
	for _, s := range stmts {
		names = append(names, envCallsInStmt(s)...)
	}
	return names
}

func envCallsInStmt(s ast.Stmt) []string {
	var names []string
	switch st := s.Data.(type) {
	case *ast.SVarDecl:
		if st.Value != nil {
			names = append(names, envCallsInExpr(*st.Value)...)
		}
	case *ast.SExpr:
		names = append(names, envCallsInExpr(st.Value)...)
	case *ast.SIf:
		names = append(names, envCallsInExpr(st.Cond)...)
		names = append(names, envCallsInStmts(st.Then)...)
		names = append(names, envCallsInStmts(st.Else)...)
	case *ast.SReturn:
		if st.Value != nil {
			names = append(names, envCallsInExpr(*st.Value)...)
		}
	}
	return names
}

func envCallsInExpr(x ast.Expr) []string {
	var names []string
	if call, ok := x.Data.(*ast.ECall); ok {
		if ident, ok := call.Callee.Data.(*ast.EIdentifier); ok && ident.Name == "env" && len(call.Args) > 0 {
			if s, ok := call.Args[0].Value.Data.(*ast.EString); ok {
				names = append(names, s.Value)
			}
		}
		for _, a := range call.Args {
			names = append(names, envCallsInExpr(a.Value)...)
		}
	}
	return names
}

// applyDeployOverrides reads `key = value` assignments out of a declared
// deploy block and overrides the inferred defaults field by field (spec
// §4.5 "Declared deploy blocks override inferred defaults").
func applyDeployOverrides(m *Manifest, b *ast.Block) {
	for _, d := range b.Items {
		exprDecl, ok := d.Data.(*ast.ExprDecl)
		if !ok {
			continue
		}
		assign, ok := exprDecl.Stmt.Data.(*ast.SAssign)
		if !ok {
			continue
		}
		ident, ok := assign.Target.Data.(*ast.EIdentifier)
		if !ok {
			continue
		}
		applyOneOverride(m, ident.Name, assign.Value)
	}
}

func applyOneOverride(m *Manifest, key string, value ast.Expr) {
	switch key {
	case "project", "name":
		m.ProjectName = literalString(value)
	case "host":
		m.Host = literalString(value)
	case "domain":
		m.Domain = literalString(value)
	case "instances":
		m.Instances = literalInt(value, m.Instances)
	case "memory", "memory_limit":
		m.MemoryLimitMB = literalInt(value, m.MemoryLimitMB)
	case "health_path":
		m.HealthPath = literalString(value)
	case "health_interval":
		m.HealthInterval = literalInt(value, m.HealthInterval)
	case "health_timeout":
		m.HealthTimeout = literalInt(value, m.HealthTimeout)
	case "restart":
		m.RestartPolicy = literalString(value)
	case "retain":
		m.RetainReleases = literalInt(value, m.RetainReleases)
	}
}

func literalInt(x ast.Expr, fallback int) int {
	if n, ok := x.Data.(*ast.ENumber); ok {
		return int(n.Value)
	}
	return fallback
}
