package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tova-lang/tova/internal/ast"
)

var docCmd = &cobra.Command{
	Use:   "doc <file>",
	Short: "print documented declarations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := compileFile(args[0])
		if err != nil {
			return err
		}
		reportDiagnostics(res)
		if res.AST == nil {
			return fmt.Errorf("no AST available")
		}
		printProgramDocs(res.AST)
		return nil
	},
}

func printProgramDocs(prog *ast.Program) {
	for _, item := range prog.Items {
		if item.Block != nil {
			fmt.Println(styleHeading.Render(string(item.Block.Kind) + " " + item.Block.Name))
			for _, d := range item.Block.Items {
				printDeclDoc(d)
			}
			continue
		}
		printDeclDoc(item.Decl)
	}
}

func printDeclDoc(d ast.Decl) {
	name, kind := declNameAndKind(d)
	if name == "" {
		return
	}
	header := kind + " " + name
	if d.Pub {
		header = "pub " + header
	}
	fmt.Println(styleOk.Render(header))
	if d.Docstring != "" {
		fmt.Println("  " + d.Docstring)
	}
}

func declNameAndKind(d ast.Decl) (name, kind string) {
	switch v := d.Data.(type) {
	case *ast.FunctionDecl:
		return v.Name, "fn"
	case *ast.TypeDecl:
		return v.Name, "type"
	case *ast.TraitDecl:
		return v.Name, "trait"
	case *ast.InterfaceDecl:
		return v.Name, "interface"
	case *ast.ImplDecl:
		return v.TypeName + " : " + v.TraitName, "impl"
	case *ast.ComponentDecl:
		return v.Name, "component"
	case *ast.StoreDecl:
		return v.Name, "store"
	case *ast.RouteDecl:
		return v.Path, "route"
	case *ast.DBDecl:
		return v.Name, "db"
	}
	return "", ""
}
