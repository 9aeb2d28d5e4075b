// Package parser implements the Tascal grammar (spec.md §4.2) as a
// hand-written recursive-descent parser with one method per expression
// precedence level, fusing syntax analysis with symbol installation, reference
// resolution, and bottom-up type inference. It builds an *ast.Program.
//
// Every production in the EBNF grammar maps to one parse method; the
// precedence cascade (OR < AND < relational < additive < multiplicative
// < unary) is the chain of mutually recursive parseExpr/.../parseFactor
// calls, not a generated table. Dangling-else is resolved structurally:
// parseIf always consumes a trailing ELSE if one is present, which is
// exactly the "prefer shift" rule the grammar calls for.
package parser

import (
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/ast"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/diag"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/lexer"
)

// Parser holds all state for one compilation's syntax and semantic
// analysis: the token stream, the symbol table being built, and the
// diagnostic bag shared with the lexer. A Parser is used exactly once.
type Parser struct {
	toks []lexer.Token
	pos  int

	diags *diag.Bag
	syms  *SymbolTable
}

// New creates a Parser over toks (as produced by lexer.Lexer.Tokens),
// reporting into diags and installing declarations into syms.
func New(toks []lexer.Token, diags *diag.Bag, syms *SymbolTable) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != lexer.EOF {
		toks = append(toks, lexer.Token{Kind: lexer.EOF})
	}
	return &Parser{toks: toks, diags: diags, syms: syms}
}

// Symbols returns the symbol table populated while parsing.
func (p *Parser) Symbols() *SymbolTable { return p.syms }

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// accept consumes and returns the current token if it has kind k.
func (p *Parser) accept(k lexer.Kind) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

// expect consumes the current token if it has kind k, otherwise reports
// "unexpected token" (or "unexpected end of file") and leaves the cursor
// in place so the caller can decide how to recover.
func (p *Parser) expect(k lexer.Kind) (lexer.Token, bool) {
	if tok, ok := p.accept(k); ok {
		return tok, true
	}
	p.reportUnexpected()
	return lexer.Token{}, false
}

func (p *Parser) reportUnexpected() {
	t := p.cur()
	if t.Kind == lexer.EOF {
		p.diags.AddSyntactic(0, "fim de arquivo inesperado.")
		return
	}
	p.diags.AddSyntactic(t.Line, "token inesperado '%s' na linha %d", t.Literal, t.Line)
}

// skip advances past the current token, used to make progress after an
// unrecoverable-in-place error (spec.md's only recovery strategy:
// "skip the offending token").
func (p *Parser) skip() {
	if !p.at(lexer.EOF) {
		p.advance()
	}
}

// Parse parses the entire program. It returns nil — the "no tree"
// sentinel — only when the root production cannot even be started (the
// very first token is not PROGRAM), since then there is nothing
// meaningful to hand to semantic analysis or codegen.
func (p *Parser) Parse() *ast.Program {
	if !p.at(lexer.Program) {
		p.reportUnexpected()
		return nil
	}
	p.advance() // PROGRAM

	name := ""
	if tok, ok := p.expect(lexer.Ident); ok {
		name = tok.Literal
	}

	if _, ok := p.expect(lexer.Semi); !ok {
		p.skip()
	}

	block := p.parseBlock()

	if _, ok := p.expect(lexer.Dot); !ok {
		p.skip()
	}

	return &ast.Program{
		Name:      name,
		Block:     block,
		TotalVars: p.syms.Len(),
	}
}

// block ::= declarations compound
//
// The Declaration nodes collected while parsing declarations are prepended
// to the compound's command list, so the returned Block carries the full
// command sequence of the block (spec.md §3's AST node table: a
// Declaration is part of a Block's Commands like any other Command).
func (p *Parser) parseBlock() *ast.Block {
	decls := p.parseDeclarations()
	body := p.parseCompound()
	body.Commands = append(decls, body.Commands...)
	return body
}

// declarations ::= VAR decl_list | ε
func (p *Parser) parseDeclarations() []ast.Command {
	var decls []ast.Command
	if _, ok := p.accept(lexer.Var); !ok {
		return decls
	}
	for {
		decls = append(decls, p.parseDeclList())
		if !p.at(lexer.Ident) {
			return decls
		}
	}
}

// decl_list ::= id_list ':' type ';'
//
// A Declaration node is produced even when one of its names is a
// redeclaration: the diagnostic reports the problem, but the name still
// occupies a slot in the declaration's AST record exactly as written.
func (p *Parser) parseDeclList() ast.Command {
	line := p.cur().Line
	names := p.parseIDList()

	if _, ok := p.expect(lexer.Colon); !ok {
		p.skip()
	}

	kind := p.parseType()

	if _, ok := p.expect(lexer.Semi); !ok {
		p.skip()
	}

	for _, name := range names {
		if _, dup := p.syms.Declare(name, kind); dup {
			p.diags.AddSemantic(line, "variável '%s' já declarada", name)
		}
	}

	return &ast.Declaration{Names: names, Type: kind, Line: line}
}

// id_list ::= ID (',' ID)*
func (p *Parser) parseIDList() []string {
	var names []string
	if tok, ok := p.expect(lexer.Ident); ok {
		names = append(names, tok.Literal)
	}
	for {
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
		if tok, ok := p.expect(lexer.Ident); ok {
			names = append(names, tok.Literal)
		}
	}
	return names
}

// type ::= INTEGER | BOOLEAN
func (p *Parser) parseType() ast.Kind {
	if _, ok := p.accept(lexer.Integer); ok {
		return ast.IntegerKind
	}
	if _, ok := p.accept(lexer.Boolean); ok {
		return ast.BooleanKind
	}
	p.reportUnexpected()
	return ast.Unknown
}

// compound ::= BEGIN cmd_list END
func (p *Parser) parseCompound() *ast.Block {
	if _, ok := p.expect(lexer.Begin); !ok {
		p.skip()
	}
	block := p.parseCmdList()
	if _, ok := p.expect(lexer.End); !ok {
		p.skip()
	}
	return block
}

// cmd_list ::= cmd (';' cmd)* [';']
func (p *Parser) parseCmdList() *ast.Block {
	block := &ast.Block{}
	if cmd := p.parseCmd(); cmd != nil {
		block.Commands = append(block.Commands, cmd)
	}
	for {
		if _, ok := p.accept(lexer.Semi); !ok {
			break
		}
		if cmd := p.parseCmd(); cmd != nil {
			block.Commands = append(block.Commands, cmd)
		}
	}
	return block
}

// atCmdFollow reports whether the current token legitimately ends a
// command position (so an empty cmd production applies) rather than
// being a genuine syntax error.
func (p *Parser) atCmdFollow() bool {
	switch p.cur().Kind {
	case lexer.Semi, lexer.End, lexer.Else, lexer.Until, lexer.EOF:
		return true
	}
	return false
}

// cmd ::= assign | if | while | repeat | read | write | compound | ε
func (p *Parser) parseCmd() ast.Command {
	switch p.cur().Kind {
	case lexer.Ident:
		return p.parseAssign()
	case lexer.If:
		return p.parseIf()
	case lexer.While:
		return p.parseWhile()
	case lexer.Repeat:
		return p.parseRepeat()
	case lexer.Read:
		return p.parseRead()
	case lexer.Write:
		return p.parseWrite()
	case lexer.Begin:
		return p.parseCompound()
	default:
		if p.atCmdFollow() {
			return nil
		}
		p.reportUnexpected()
		p.skip()
		return nil
	}
}

// assign ::= ID ':=' expr
func (p *Parser) parseAssign() ast.Command {
	idTok, _ := p.expect(lexer.Ident)
	line := idTok.Line

	target := p.resolveRef(idTok.Literal, line)

	if _, ok := p.expect(lexer.Assign); !ok {
		p.skip()
	}

	value := p.parseExpr()

	if target.Symbol != nil {
		vt := target.Symbol.SymbolKind()
		et := ast.KindOf(value)
		if vt != ast.Unknown && et != ast.Unknown && vt != et {
			p.diags.AddSemantic(line, "atribuição incompatível: variável '%s' é %s, expressão é %s",
				target.Name, vt, et)
		}
	}

	return &ast.Assign{Target: target, Value: value, Line: line}
}

// if ::= IF expr THEN cmd [ELSE cmd]
func (p *Parser) parseIf() ast.Command {
	ifTok, _ := p.expect(lexer.If)
	line := ifTok.Line

	cond := p.parseExpr()
	p.checkCondition(cond, line)

	if _, ok := p.expect(lexer.Then); !ok {
		p.skip()
	}
	then := wrapBlock(p.parseCmd())

	var elseBlock *ast.Block
	if _, ok := p.accept(lexer.Else); ok {
		elseBlock = wrapBlock(p.parseCmd())
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBlock, Line: line}
}

// while ::= WHILE expr DO cmd
func (p *Parser) parseWhile() ast.Command {
	whileTok, _ := p.expect(lexer.While)
	line := whileTok.Line

	cond := p.parseExpr()
	p.checkCondition(cond, line)

	if _, ok := p.expect(lexer.Do); !ok {
		p.skip()
	}
	body := wrapBlock(p.parseCmd())

	return &ast.While{Cond: cond, Body: body, Line: line}
}

// repeat ::= REPEAT cmd_list UNTIL expr (supplemental production, §9)
func (p *Parser) parseRepeat() ast.Command {
	repeatTok, _ := p.expect(lexer.Repeat)
	line := repeatTok.Line

	body := p.parseCmdList()

	if _, ok := p.expect(lexer.Until); !ok {
		p.skip()
	}
	cond := p.parseExpr()
	p.checkCondition(cond, line)

	return &ast.Repeat{Body: body, Cond: cond, Line: line}
}

func (p *Parser) checkCondition(cond ast.Expr, line int) {
	if ast.KindOf(cond) != ast.BooleanKind {
		p.diags.AddSemantic(line, "condição deve ser booleana")
	}
}

// read ::= READ '(' id_list ')'
func (p *Parser) parseRead() ast.Command {
	readTok, _ := p.expect(lexer.Read)
	line := readTok.Line

	if _, ok := p.expect(lexer.LParen); !ok {
		p.skip()
	}
	names := p.parseIDList()
	if _, ok := p.expect(lexer.RParen); !ok {
		p.skip()
	}

	refs := make([]*ast.IdRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, p.resolveRef(name, line))
	}
	return &ast.Read{Targets: refs, Line: line}
}

// write ::= WRITE '(' expr_list ')'
func (p *Parser) parseWrite() ast.Command {
	writeTok, _ := p.expect(lexer.Write)
	line := writeTok.Line

	if _, ok := p.expect(lexer.LParen); !ok {
		p.skip()
	}
	exprs := p.parseExprList()
	if _, ok := p.expect(lexer.RParen); !ok {
		p.skip()
	}

	for _, e := range exprs {
		if k := ast.KindOf(e); k != ast.Unknown && k != ast.IntegerKind && k != ast.BooleanKind {
			p.diags.AddSemantic(line, "write() recebeu tipo inválido '%s'", k)
		}
	}
	return &ast.Write{Values: exprs, Line: line}
}

// expr_list ::= expr (',' expr)*
func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}
	for {
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}

// resolveRef looks up name, reporting "undeclared" when absent. The
// returned IdRef always carries the inferred Kind, Unknown when
// unresolved.
func (p *Parser) resolveRef(name string, line int) *ast.IdRef {
	sym, ok := p.syms.Lookup(name)
	if !ok {
		p.diags.AddSemantic(line, "variável '%s' não declarada", name)
		return &ast.IdRef{Name: name, Line: line, Type: ast.Unknown}
	}
	return &ast.IdRef{Name: name, Symbol: sym, Line: line, Type: sym.Kind}
}

// wrapBlock lifts a single command into a Block, matching the spec's
// "Block" grouping even for a bare single-statement then/else/do branch.
// A nil command (the empty-statement production) becomes an empty Block.
func wrapBlock(cmd ast.Command) *ast.Block {
	if cmd == nil {
		return &ast.Block{}
	}
	if b, ok := cmd.(*ast.Block); ok {
		return b
	}
	return &ast.Block{Commands: []ast.Command{cmd}}
}

// ---------------------------------------------------------------------
// Expressions. Each layer of the precedence cascade is left-associative
// except relational (non-associative, at most one rel_op per expr_rel)
// and unary NOT/minus (right-associative by virtue of recursing into
// parseFactor again).
// ---------------------------------------------------------------------

// expr ::= expr_and (OR expr_and)*
func (p *Parser) parseExpr() ast.Expr {
	left := p.parseAnd()
	for {
		tok, ok := p.accept(lexer.Or)
		if !ok {
			return left
		}
		right := p.parseAnd()
		left = p.makeBinOp(left, ast.OpOr, right, tok.Line)
	}
}

// expr_and ::= expr_rel (AND expr_rel)*
func (p *Parser) parseAnd() ast.Expr {
	left := p.parseRel()
	for {
		tok, ok := p.accept(lexer.And)
		if !ok {
			return left
		}
		right := p.parseRel()
		left = p.makeBinOp(left, ast.OpAnd, right, tok.Line)
	}
}

// expr_rel ::= sum [rel_op sum]
func (p *Parser) parseRel() ast.Expr {
	left := p.parseSum()

	var op ast.BinOpKind
	var line int
	switch p.cur().Kind {
	case lexer.Eq:
		op, line = ast.OpEq, p.advance().Line
	case lexer.Neq:
		op, line = ast.OpNeq, p.advance().Line
	case lexer.Lt:
		op, line = ast.OpLt, p.advance().Line
	case lexer.Le:
		op, line = ast.OpLe, p.advance().Line
	case lexer.Gt:
		op, line = ast.OpGt, p.advance().Line
	case lexer.Ge:
		op, line = ast.OpGe, p.advance().Line
	default:
		return left
	}
	right := p.parseSum()
	return p.makeBinOp(left, op, right, line)
}

// sum ::= term (('+' | '-') term)*
func (p *Parser) parseSum() ast.Expr {
	left := p.parseTerm()
	for {
		var op ast.BinOpKind
		var line int
		switch p.cur().Kind {
		case lexer.Plus:
			op, line = ast.OpAdd, p.advance().Line
		case lexer.Minus:
			op, line = ast.OpSub, p.advance().Line
		default:
			return left
		}
		right := p.parseTerm()
		left = p.makeBinOp(left, op, right, line)
	}
}

// term ::= factor (('*' | DIV) factor)*
func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for {
		var op ast.BinOpKind
		var line int
		switch p.cur().Kind {
		case lexer.Star:
			op, line = ast.OpMul, p.advance().Line
		case lexer.Div:
			op, line = ast.OpDiv, p.advance().Line
		default:
			return left
		}
		right := p.parseFactor()
		left = p.makeBinOp(left, op, right, line)
	}
}

// factor ::= ID | NUMBER | TRUE | FALSE | '(' expr ')' | NOT factor | '-' factor
func (p *Parser) parseFactor() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Ident:
		p.advance()
		return p.resolveRef(tok.Literal, tok.Line)
	case lexer.IntLit:
		p.advance()
		return &ast.NumConst{Value: tok.IntVal, Line: tok.Line}
	case lexer.True:
		p.advance()
		return &ast.BoolConst{Value: true, Line: tok.Line}
	case lexer.False:
		p.advance()
		return &ast.BoolConst{Value: false, Line: tok.Line}
	case lexer.LParen:
		p.advance()
		inner := p.parseExpr()
		if _, ok := p.expect(lexer.RParen); !ok {
			p.skip()
		}
		return inner
	case lexer.Not:
		p.advance()
		operand := p.parseFactor()
		return p.makeUnOp(ast.OpNot, operand, tok.Line)
	case lexer.Minus:
		p.advance()
		operand := p.parseFactor()
		return p.makeUnOp(ast.OpNegate, operand, tok.Line)
	default:
		p.reportUnexpected()
		p.skip()
		return &ast.NumConst{Value: 0, Line: tok.Line}
	}
}

// makeBinOp builds a BinOp node and runs the bottom-up type-inference
// rule for op, per spec.md §4.2.
func (p *Parser) makeBinOp(left ast.Expr, op ast.BinOpKind, right ast.Expr, line int) *ast.BinOp {
	lt, rt := ast.KindOf(left), ast.KindOf(right)
	result := ast.Unknown

	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if lt != ast.Unknown && rt != ast.Unknown && (lt != ast.IntegerKind || rt != ast.IntegerKind) {
			p.diags.AddSemantic(line, "operador '%s' requer operandos inteiros (obtido %s e %s)", op, lt, rt)
		}
		result = ast.IntegerKind
	case ast.OpAnd, ast.OpOr:
		if lt != ast.Unknown && rt != ast.Unknown && (lt != ast.BooleanKind || rt != ast.BooleanKind) {
			p.diags.AddSemantic(line, "operador '%s' requer operandos booleanos (obtido %s e %s)", op, lt, rt)
		}
		result = ast.BooleanKind
	case ast.OpEq, ast.OpNeq:
		if lt != ast.Unknown && rt != ast.Unknown && lt != rt {
			p.diags.AddSemantic(line, "operador '%s' requer operandos do mesmo tipo (obtido %s e %s)", op, lt, rt)
		}
		result = ast.BooleanKind
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if lt != ast.Unknown && rt != ast.Unknown && (lt != ast.IntegerKind || rt != ast.IntegerKind) {
			p.diags.AddSemantic(line, "operador '%s' requer operandos inteiros (obtido %s e %s)", op, lt, rt)
		}
		result = ast.BooleanKind
	}

	return &ast.BinOp{Left: left, Op: op, Right: right, Line: line, Type: result}
}

func (p *Parser) makeUnOp(op ast.UnOpKind, operand ast.Expr, line int) *ast.UnOp {
	t := ast.KindOf(operand)
	result := ast.Unknown

	switch op {
	case ast.OpNegate:
		if t != ast.Unknown && t != ast.IntegerKind {
			p.diags.AddSemantic(line, "operador unário '-' requer expressão inteira (obtido %s)", t)
		}
		result = ast.IntegerKind
	case ast.OpNot:
		if t != ast.Unknown && t != ast.BooleanKind {
			p.diags.AddSemantic(line, "operador unário 'not' requer expressão booleana (obtido %s)", t)
		}
		result = ast.BooleanKind
	}

	return &ast.UnOp{Op: op, Operand: operand, Line: line, Type: result}
}
