// Package codegen walks a Tascal AST and emits MEPA stack-machine
// assembly text. It never reports diagnostics of its own: code
// generation only runs once the diagnostic bag for a compilation is
// empty, so every node it sees is already known well-formed.
package codegen

import (
	"fmt"
	"strings"

	"github.com/GhMicheliM-2004/tascal-compiler-mepa/ast"
)

// binOpMnemonic is the fixed operator-to-mnemonic table (spec.md §4.3).
var binOpMnemonic = map[ast.BinOpKind]string{
	ast.OpAdd: "SOMA",
	ast.OpSub: "SUBT",
	ast.OpMul: "MULT",
	ast.OpDiv: "DIVI",
	ast.OpAnd: "CONJ",
	ast.OpOr:  "DISJ",
	ast.OpEq:  "CMIG",
	ast.OpNeq: "CMDG",
	ast.OpLt:  "CMME",
	ast.OpLe:  "CMEG",
	ast.OpGt:  "CMMA",
	ast.OpGe:  "CMAG",
}

// Generator walks an *ast.Program and accumulates MEPA text in out. One
// Generator belongs to exactly one compilation.
type Generator struct {
	out         strings.Builder
	nextLabel   int
	labelPrefix string
}

// New creates an empty Generator whose labels read "<labelPrefix>01",
// "<labelPrefix>02", ... An empty labelPrefix falls back to "R", the
// compiler's built-in default (config.DefaultConfig's Codegen.LabelPrefix).
func New(labelPrefix string) *Generator {
	if labelPrefix == "" {
		labelPrefix = "R"
	}
	return &Generator{labelPrefix: labelPrefix}
}

// newLabel allocates the next fresh label, "<prefix>01", "<prefix>02", ...
func (g *Generator) newLabel() string {
	g.nextLabel++
	return fmt.Sprintf("%s%02d", g.labelPrefix, g.nextLabel)
}

// emit writes one body instruction, left-padded with five spaces.
func (g *Generator) emit(format string, args ...any) {
	fmt.Fprintf(&g.out, "     "+format+"\n", args...)
}

// emitLabel writes a label definition, unindented, as "<label>: NADA".
func (g *Generator) emitLabel(label string) {
	fmt.Fprintf(&g.out, "%s: NADA\n", label)
}

// Generate lowers prog to MEPA text: INPP header, AMEM <n> (omitted
// when there are no declared variables), the body, then PARA/FIM. Labels
// are minted with labelPrefix (see New).
func Generate(prog *ast.Program, labelPrefix string) string {
	g := New(labelPrefix)
	g.emit("INPP")
	if prog.TotalVars > 0 {
		g.emit("AMEM %d", prog.TotalVars)
	}
	g.genBlock(prog.Block)
	g.emit("PARA")
	g.emit("FIM")
	return g.out.String()
}

func (g *Generator) genBlock(b *ast.Block) {
	for _, cmd := range b.Commands {
		g.genCommand(cmd)
	}
}

func (g *Generator) genCommand(cmd ast.Command) {
	switch n := cmd.(type) {
	case *ast.Block:
		g.genBlock(n)
	case *ast.Declaration:
		// Storage is reserved once by AMEM at program entry; a
		// Declaration carries no code of its own.
	case *ast.Assign:
		g.genExpr(n.Value)
		g.emit("ARMZ %s", offsetOf(n.Target))
	case *ast.Read:
		for _, target := range n.Targets {
			g.emit("LEIT")
			g.emit("ARMZ %s", offsetOf(target))
		}
	case *ast.Write:
		for _, e := range n.Values {
			g.genExpr(e)
			g.emit("IMPR")
		}
	case *ast.If:
		g.genIf(n)
	case *ast.While:
		g.genWhile(n)
	case *ast.Repeat:
		g.genRepeat(n)
	default:
		g.emit("; unrecognized command %T", cmd)
	}
}

func (g *Generator) genIf(n *ast.If) {
	g.genExpr(n.Cond)
	if n.Else == nil || len(n.Else.Commands) == 0 {
		lend := g.newLabel()
		g.emit("DSVF %s", lend)
		g.genBlock(n.Then)
		g.emitLabel(lend)
		return
	}

	lelse := g.newLabel()
	lend := g.newLabel()
	g.emit("DSVF %s", lelse)
	g.genBlock(n.Then)
	g.emit("DSVS %s", lend)
	g.emitLabel(lelse)
	g.genBlock(n.Else)
	g.emitLabel(lend)
}

func (g *Generator) genWhile(n *ast.While) {
	lbegin := g.newLabel()
	lfalse := g.newLabel()
	g.emitLabel(lbegin)
	g.genExpr(n.Cond)
	g.emit("DSVF %s", lfalse)
	g.genBlock(n.Body)
	g.emit("DSVS %s", lbegin)
	g.emitLabel(lfalse)
}

// genRepeat lowers `repeat Body until Cond` to loop-while-condition-false
// semantics, resolving the open question in spec.md §9 the way
// original_source/mepa_tascal.py's visita_Repete does.
func (g *Generator) genRepeat(n *ast.Repeat) {
	lbegin := g.newLabel()
	g.emitLabel(lbegin)
	g.genBlock(n.Body)
	g.genExpr(n.Cond)
	g.emit("DSVF %s", lbegin)
}

func (g *Generator) genExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.NumConst:
		g.emit("CRCT %d", n.Value)
	case *ast.BoolConst:
		if n.Value {
			g.emit("CRCT 1")
		} else {
			g.emit("CRCT 0")
		}
	case *ast.IdRef:
		g.emit("CRVL %s", offsetOf(n))
	case *ast.BinOp:
		g.genExpr(n.Left)
		g.genExpr(n.Right)
		mnemonic, ok := binOpMnemonic[n.Op]
		if !ok {
			mnemonic = fmt.Sprintf("; unknown operator %s", n.Op)
		}
		g.emit("%s", mnemonic)
	case *ast.UnOp:
		g.genExpr(n.Operand)
		switch n.Op {
		case ast.OpNegate:
			g.emit("CRCT -1")
			g.emit("MULT")
		case ast.OpNot:
			g.emit("NEGA")
		}
	default:
		g.emit("; unrecognized expression %T", e)
	}
}

// offsetOf renders an IdRef's lexical address. Because there is exactly
// one scope, the level is always 0. A reference without a resolved
// symbol is unreachable in a well-formed program (the parser's
// "undeclared" diagnostic would have suppressed code generation), but
// the fallback keeps generation total rather than panicking.
func offsetOf(ref *ast.IdRef) string {
	if ref.Symbol == nil {
		return fmt.Sprintf("0,??? ; variável não anotada: %s", ref.Name)
	}
	return fmt.Sprintf("0,%d", ref.Symbol.SymbolOffset())
}
