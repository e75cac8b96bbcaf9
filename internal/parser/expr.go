package parser

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/token"
)

func (p *Parser) registerGrammar() {
	p.registerPrefix(token.IDENT, (*Parser).parseSymbol)
	p.registerPrefix(token.INT, (*Parser).parseIntLiteral)
	p.registerPrefix(token.FLOAT, (*Parser).parseFloatLiteral)
	p.registerPrefix(token.STRING, (*Parser).parseStringLiteral)
	p.registerPrefix(token.CHAR, (*Parser).parseCharLiteral)
	p.registerPrefix(token.TRUE, (*Parser).parseBoolLiteral)
	p.registerPrefix(token.FALSE, (*Parser).parseBoolLiteral)
	p.registerPrefix(token.NULL, (*Parser).parseNullLiteral)
	p.registerPrefix(token.COMMENT_LINE, (*Parser).parseLineComment)
	p.registerPrefix(token.COMMENT_BLOCK, (*Parser).parseBlockComment)
	p.registerPrefix(token.MINUS, (*Parser).parseUnary)
	p.registerPrefix(token.BANG, (*Parser).parseUnary)
	p.registerPrefix(token.TILDE, (*Parser).parseUnary)
	p.registerPrefix(token.AMP, (*Parser).parseUnary)
	p.registerPrefix(token.LPAREN, (*Parser).parseGrouped)
	p.registerPrefix(token.CAST, (*Parser).parseCastOrTransmute)
	p.registerPrefix(token.TRANSMUTE, (*Parser).parseCastOrTransmute)
	p.registerPrefix(token.PROC, (*Parser).parseProcExpression)
	p.registerPrefix(token.NAMESPACE, p.parseKeywordWrap(ast.NamespaceExpression))
	p.registerPrefix(token.STRUCT, p.parseCompositeExpression(ast.StructExpression))
	p.registerPrefix(token.UNION, p.parseCompositeExpression(ast.UnionExpression))
	p.registerPrefix(token.ENUM, p.parseCompositeExpression(ast.EnumExpression))
	p.registerPrefix(token.MODULE, p.parseKeywordWrap(ast.ModuleExpression))
	p.registerPrefix(token.IMPORT, (*Parser).parseImport)
	p.registerPrefix(token.ALIAS, p.parseKeywordWrap(ast.AliasExpression))
	p.registerPrefix(token.DEFER, p.parseKeywordWrap(ast.DeferExpression))
	p.registerPrefix(token.WITH, p.parseKeywordWrap(ast.WithExpression))
	p.registerPrefix(token.IF, (*Parser).parseIfExpression)
	p.registerPrefix(token.FOR, (*Parser).parseForIn)
	p.registerPrefix(token.WHILE, (*Parser).parseWhile)
	p.registerPrefix(token.BREAK, (*Parser).parseBreak)
	p.registerPrefix(token.CONTINUE, (*Parser).parseContinue)
	p.registerPrefix(token.RETURN, (*Parser).parseReturn)
	p.registerPrefix(token.AT, (*Parser).parseAttribute)
	p.registerPrefix(token.HASH, (*Parser).parseDirective)
	p.registerPrefix(token.LBRACE, (*Parser).parseBasicBlockExpression)

	p.registerInfix(token.PLUS, (*Parser).parseBinary)
	p.registerInfix(token.MINUS, (*Parser).parseBinary)
	p.registerInfix(token.STAR, (*Parser).parseBinary)
	p.registerInfix(token.SLASH, (*Parser).parseBinary)
	p.registerInfix(token.PERCENT, (*Parser).parseBinary)
	p.registerInfix(token.CARET, (*Parser).parseBinary)
	p.registerInfix(token.AMP, (*Parser).parseBinary)
	p.registerInfix(token.PIPE, (*Parser).parseBinary)
	p.registerInfix(token.AND_AND, (*Parser).parseBinary)
	p.registerInfix(token.OR_OR, (*Parser).parseBinary)
	p.registerInfix(token.EQ, (*Parser).parseBinary)
	p.registerInfix(token.NEQ, (*Parser).parseBinary)
	p.registerInfix(token.LT, (*Parser).parseBinary)
	p.registerInfix(token.GT, (*Parser).parseBinary)
	p.registerInfix(token.LT_EQ, (*Parser).parseBinary)
	p.registerInfix(token.GT_EQ, (*Parser).parseBinary)
	p.registerInfix(token.SHL, (*Parser).parseBinary)
	p.registerInfix(token.SHR, (*Parser).parseBinary)
	p.registerInfix(token.ASSIGN, (*Parser).parseAssignment)
	p.registerInfix(token.COMMA, (*Parser).parsePair)
	p.registerInfix(token.LPAREN, (*Parser).parseCall)
	p.registerInfix(token.LBRACK, (*Parser).parseSubscript)
}

// ParseExpression is the Pratt core, precedence-climbing from
// minPrecedence:
//
//  1. Consume a token; look up its prefix parselet (B021 if none).
//  2. If the token was a line-comment or label, return lhs immediately.
//  3. While minPrecedence < current infix precedence, consume one
//     token, apply its infix parselet, and replace lhs. Stop on nil
//     or diagnostic failure.
func (p *Parser) ParseExpression(minPrecedence int) *ast.Node {
	tok := p.curToken
	prefix := p.prefixParseFns[tok.Kind]
	if prefix == nil {
		p.noPrefixParseFnError(tok)
		return nil
	}
	p.nextToken()
	lhs := prefix(p, tok)
	if lhs == nil {
		return nil
	}
	if tok.Kind == token.COMMENT_LINE || lhs.Kind == ast.Label {
		return lhs
	}

	for minPrecedence < p.getPrecedence(p.curToken.Kind) {
		infixTok := p.curToken
		infix := p.infixParseFns[infixTok.Kind]
		if infix == nil {
			break
		}
		p.nextToken()
		next := infix(p, lhs, infixTok)
		if next == nil {
			return lhs
		}
		lhs = next
	}
	return lhs
}

// --- literals -----------------------------------------------------

func (p *Parser) parseIntLiteral(tok token.Token) *ast.Node {
	return p.builder.Make(ast.IntLiteral, tok)
}
func (p *Parser) parseFloatLiteral(tok token.Token) *ast.Node {
	return p.builder.Make(ast.FloatLiteral, tok)
}
func (p *Parser) parseStringLiteral(tok token.Token) *ast.Node {
	return p.builder.Make(ast.StringLiteral, tok)
}
func (p *Parser) parseCharLiteral(tok token.Token) *ast.Node {
	return p.builder.Make(ast.CharLiteral, tok)
}
func (p *Parser) parseBoolLiteral(tok token.Token) *ast.Node {
	return p.builder.Make(ast.BoolLiteral, tok)
}
func (p *Parser) parseNullLiteral(tok token.Token) *ast.Node {
	return p.builder.Make(ast.NullLiteral, tok)
}
func (p *Parser) parseLineComment(tok token.Token) *ast.Node {
	return p.builder.Make(ast.LineComment, tok)
}
func (p *Parser) parseBlockComment(tok token.Token) *ast.Node {
	return p.builder.Make(ast.BlockComment, tok)
}

// --- symbols (qualified names) --------------------------------------

// parseSymbol parses `a`, or a qualified chain `a::b::c`, as a symbol
// node whose children are symbol_part nodes; the evaluator resolves
// the chain against the program's namespace/identifier tables.
func (p *Parser) parseSymbol(tok token.Token) *ast.Node {
	parts := []*ast.Node{p.builder.Make(ast.SymbolPart, tok)}
	for p.curTokenIs(token.COLON_COLON) {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) {
			p.addError(diag.B016, p.curToken.Pos, "expected identifier after '::' but found %s", p.curToken.Kind)
			break
		}
		parts = append(parts, p.builder.Make(ast.SymbolPart, p.curToken))
		p.nextToken()
	}
	return p.builder.MakeList(ast.Symbol, tok, parts...)
}

// --- unary / binary ---------------------------------------------------

func (p *Parser) parseUnary(tok token.Token) *ast.Node {
	operand := p.ParseExpression(UNARY)
	return p.builder.MakeUnary(ast.UnaryOperator, tok, operand)
}

func (p *Parser) parseBinary(lhs *ast.Node, tok token.Token) *ast.Node {
	prec := p.getPrecedence(tok.Kind)
	if rightAssoc[tok.Kind] {
		prec--
	}
	rhs := p.ParseExpression(prec)
	return p.builder.MakeBinary(ast.BinaryOperator, tok, lhs, rhs)
}

// parseAssignment keeps both sides as pair chains (flattened later via
// PairsToList) so `a, b := 1, 2` collects both sides' arity before the
// evaluator's assignment handler checks it (P027).
func (p *Parser) parseAssignment(lhs *ast.Node, tok token.Token) *ast.Node {
	rhs := p.ParseExpression(ASSIGN - 1)
	return p.builder.MakeBinary(ast.Assignment, tok, lhs, rhs)
}

// parsePair builds a right-leaning pair(lhs, rhs) chain for
// comma-separated lists, later flattened by PairsToList.
func (p *Parser) parsePair(lhs *ast.Node, tok token.Token) *ast.Node {
	rhs := p.ParseExpression(COMMA - 1)
	return p.builder.MakeBinary(ast.Pair, tok, lhs, rhs)
}

// PairsToList flattens a right-leaning pair(lhs, pair(rhs, pair(...)))
// chain into an ordered slice.
func PairsToList(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for n != nil {
		if n.Kind == ast.Pair {
			out = append(out, n.Lhs)
			n = n.Rhs
			continue
		}
		out = append(out, n)
		break
	}
	return out
}

// --- grouping / call / subscript ------------------------------------

func (p *Parser) parseGrouped(tok token.Token) *ast.Node {
	expr := p.ParseExpression(LOWEST)
	if !p.curTokenIs(token.RPAREN) {
		p.addError(diag.B016, p.curToken.Pos, "expected ')' but found %s", p.curToken.Kind)
		return expr
	}
	p.nextToken()
	return expr
}

// parseCall builds a proc_call node: callee reference plus an
// argument_list produced from the comma-separated arguments.
func (p *Parser) parseCall(callee *ast.Node, tok token.Token) *ast.Node {
	var args []*ast.Node
	if !p.curTokenIs(token.RPAREN) {
		list := p.ParseExpression(LOWEST)
		args = PairsToList(list)
	}
	if !p.curTokenIs(token.RPAREN) {
		p.addError(diag.B016, p.curToken.Pos, "expected ')' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	argList := p.builder.MakeList(ast.ArgumentList, tok, args...)
	return p.builder.MakeBinary(ast.ProcCall, tok, callee, argList)
}

func (p *Parser) parseSubscript(target *ast.Node, tok token.Token) *ast.Node {
	index := p.ParseExpression(LOWEST)
	if !p.curTokenIs(token.RBRACK) {
		p.addError(diag.B016, p.curToken.Pos, "expected ']' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	return p.builder.MakeBinary(ast.SubscriptExpression, tok, target, index)
}
