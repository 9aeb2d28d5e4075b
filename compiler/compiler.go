// Package compiler orchestrates the lexer, parser, and code generator
// into the single entry point a driver needs: source text in, MEPA text
// (or diagnostics) out. Every call builds entirely fresh state — no
// package-level mutable globals — so concurrent calls from different
// goroutines never interfere with each other.
package compiler

import (
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/ast"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/codegen"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/config"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/diag"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/lexer"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/parser"
)

// Result holds everything produced by one Compile call.
type Result struct {
	Tokens      []lexer.Token
	Program     *ast.Program // nil when the parser could not build a root node
	Symbols     *parser.SymbolTable
	Diagnostics *diag.Bag
	MEPA        string // empty unless Diagnostics.Empty() and Program != nil
}

// OK reports whether compilation succeeded: a program tree exists and no
// diagnostic of any class was reported.
func (r *Result) OK() bool {
	return r.Program != nil && r.Diagnostics.Empty()
}

// Compile runs the full pipeline over src. cfg supplies the knobs that
// reach past diagnostics and parsing into code generation (currently
// Codegen.LabelPrefix); a nil cfg falls back to config.DefaultConfig().
// onDiagnostic, if non-nil, is invoked synchronously for each diagnostic
// at the moment it is detected — mirroring original_source's
// print-as-you-go behavior — in addition to the diagnostic being
// appended to its ordered list.
func Compile(src string, cfg *config.Config, onDiagnostic func(diag.Diagnostic)) *Result {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	bag := &diag.Bag{OnReport: onDiagnostic}

	toks := lexer.New(src, bag).Tokens()

	syms := parser.NewSymbolTable()
	prog := parser.New(toks, bag, syms).Parse()

	res := &Result{
		Tokens:      toks,
		Program:     prog,
		Symbols:     syms,
		Diagnostics: bag,
	}
	if res.OK() {
		res.MEPA = codegen.Generate(prog, cfg.Codegen.LabelPrefix)
	}
	return res
}
