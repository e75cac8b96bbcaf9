package parser

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/token"
)

// ParseProgram parses the whole token stream into a program node, the
// AST root. Nothing checks the root's kind afterwards; diag.P001 is
// not reported by any stage.
func (p *Parser) ParseProgram() *ast.Node {
	startTok := p.curToken
	prog := p.builder.Make(ast.Program, startTok)
	p.builder.PushScope(prog)
	defer p.builder.PopScope()
	p.parseStatementSequence(prog, token.EOF)
	return prog
}

// parseScopeBody begins a scope in the AST builder, repeatedly parses
// statements until a right-brace or EOF, and attaches pending
// attributes onto the next statement. startTok is the
// already-consumed '{' token.
func (p *Parser) parseScopeBody(startTok token.Token) *ast.Node {
	block := p.builder.Make(ast.BasicBlock, startTok)
	p.builder.PushScope(block)
	defer p.builder.PopScope()
	p.parseStatementSequence(block, token.RBRACE)
	if p.curTokenIs(token.RBRACE) {
		p.nextToken()
	}
	return block
}

// tryParseBlock parses an optional `{ ... }` body. Unlike
// parseScopeBody it expects the '{' to not yet be consumed, matching
// the call sites (proc/if/for/while/composite bodies) where the
// opening brace hasn't been dispatched through the prefix-parselet
// table yet.
func (p *Parser) tryParseBlock() *ast.Node {
	if !p.curTokenIs(token.LBRACE) {
		return nil
	}
	tok := p.curToken
	p.nextToken()
	return p.parseScopeBody(tok)
}

// parseBasicBlockExpression is the LBRACE prefix parselet: by the time
// it runs, ParseExpression has already consumed the '{' (tok), so it
// hands straight into parseScopeBody.
func (p *Parser) parseBasicBlockExpression(tok token.Token) *ast.Node {
	return p.parseScopeBody(tok)
}

// isBlockShaped reports whether a top-level expression kind is exempt
// from the statement-terminator requirement: comments and
// block-shaped constructs never need a trailing ';'. An import takes
// an optional trailing ';', which parseStatementSequence consumes.
func isBlockShaped(k ast.Kind) bool {
	switch k {
	case ast.LineComment, ast.BlockComment, ast.BasicBlock, ast.IfExpression,
		ast.ForIn, ast.While, ast.StructExpression, ast.UnionExpression,
		ast.EnumExpression, ast.ProcExpression, ast.ModuleExpression,
		ast.NamespaceExpression, ast.ImportExpression:
		return true
	default:
		return false
	}
}

// wrapStatement builds a statement node: Lhs is always nil (labels are
// standalone sibling nodes), Rhs holds the root expression.
func (p *Parser) wrapStatement(expr *ast.Node) *ast.Node {
	return p.builder.MakeBinary(ast.Statement, expr.Token, nil, expr)
}

// parseFieldDeclaration parses `name ':' type`, the shape struct/union
// fields and proc parameters share: a symbol naming the field and a
// type_identifier, joined as a pair and wrapped in a statement.
func (p *Parser) parseFieldDeclaration() *ast.Node {
	nameTok := p.curToken
	p.nextToken() // consume identifier, now at ':'
	name := p.parseSymbol(nameTok)
	p.nextToken() // consume ':'
	typ := p.parseTypeIdentifier()
	decl := p.builder.MakeBinary(ast.Pair, nameTok, name, typ)
	return p.wrapStatement(decl)
}

// attachPendingAndAppend drains the current scope's pending-attribute
// queue onto node's rhs children (a bare expression's own children,
// for non-statement nodes) and appends node to container.
func (p *Parser) attachPendingAndAppend(container, node *ast.Node) {
	pending := p.builder.DrainAttributes()
	if len(pending) > 0 {
		target := node
		if node.Kind == ast.Statement && node.Rhs != nil {
			target = node.Rhs
		}
		for _, attr := range pending {
			p.builder.AppendChild(target, attr)
		}
	}
	p.builder.AppendChild(container, node)
}

// parseStatementSequence runs the statement loop: accept a statement,
// consume a leading label, collect a leading attribute, or require a
// terminator, until closer or EOF.
//
// `ident ':'` is ambiguous between a loop/block label and a field or
// variable type declaration (`x: s32;`); a label is only recognized
// when the colon is immediately followed by for/while/'{', otherwise
// the lookahead is undone and the tokens fall through to
// parseFieldDeclaration.
func (p *Parser) parseStatementSequence(container *ast.Node, closer token.Kind) {
	for !p.curTokenIs(closer) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			saved := p.saveState()
			labelTok := p.curToken
			p.nextToken() // identifier
			p.nextToken() // ':'
			if p.curTokenIs(token.FOR) || p.curTokenIs(token.WHILE) || p.curTokenIs(token.LBRACE) {
				label := p.builder.Make(ast.Label, labelTok)
				p.builder.AppendChild(container, label)
				continue
			}
			p.restoreState(saved)
		}

		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			decl := p.parseFieldDeclaration()
			p.attachPendingAndAppend(container, decl)
			if p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
			} else if !p.curTokenIs(closer) && !p.curTokenIs(token.EOF) {
				p.addError(diag.B016, p.curToken.Pos, "expected ';' but found %s", p.curToken.Kind)
			}
			continue
		}

		expr := p.ParseExpression(LOWEST)
		if expr == nil {
			p.synchronize()
			continue
		}

		if expr.Kind == ast.Attribute {
			p.builder.QueueAttribute(expr)
			continue
		}

		if isBlockShaped(expr.Kind) {
			p.attachPendingAndAppend(container, expr)
			if expr.Kind == ast.ImportExpression && p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			continue
		}

		stmt := p.wrapStatement(expr)
		p.attachPendingAndAppend(container, stmt)

		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		if !p.curTokenIs(closer) && !p.curTokenIs(token.EOF) {
			// The statement itself parsed completely; only its
			// terminator is missing, so parsing resumes at the current
			// token.
			p.addError(diag.B016, p.curToken.Pos, "expected ';' but found %s", p.curToken.Kind)
		}
	}
}

// --- type identifiers -------------------------------------------------

// parseTypeIdentifier parses a type reference: an optional bracketed
// array-length expression (sets the array flag), an optional spread
// marker, an optional pointer marker, then a required identifier
// (B027 if missing).
func (p *Parser) parseTypeIdentifier() *ast.Node {
	var flags ast.Flags
	var arrayLen *ast.Node

	if p.curTokenIs(token.LBRACK) {
		flags |= ast.FlagArray
		p.nextToken()
		if !p.curTokenIs(token.RBRACK) {
			arrayLen = p.ParseExpression(LOWEST)
		}
		if !p.curTokenIs(token.RBRACK) {
			p.addError(diag.B016, p.curToken.Pos, "expected ']' but found %s", p.curToken.Kind)
		} else {
			p.nextToken()
		}
	}
	if p.curTokenIs(token.SPREAD) {
		flags |= ast.FlagSpread
		p.nextToken()
	}
	if p.curTokenIs(token.STAR) {
		flags |= ast.FlagPointer
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) {
		p.addError(diag.B027, p.curToken.Pos, "type identifier expected but found %s", p.curToken.Kind)
		return nil
	}
	nameTok := p.curToken
	p.nextToken()

	n := p.builder.Make(ast.TypeIdentifier, nameTok)
	n.Flags = flags
	if arrayLen != nil {
		n.Lhs = arrayLen
		arrayLen.ParentID = n.ID
	}
	return n
}

// parseParameterList parses a comma-separated `name ':' type` list up
// to (but not consuming) the closing ')', as its own grammar distinct
// from pairs_to_list — proc parameters are always name/type pairs, not
// bare comma-joined expressions.
func (p *Parser) parseParameterList() []*ast.Node {
	var params []*ast.Node
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.IDENT) {
			p.addError(diag.B027, p.curToken.Pos, "parameter name expected but found %s", p.curToken.Kind)
			break
		}
		nameTok := p.curToken
		p.nextToken()
		name := p.parseSymbol(nameTok)
		var typ *ast.Node
		if p.curTokenIs(token.COLON) {
			p.nextToken()
			typ = p.parseTypeIdentifier()
		} else {
			p.addError(diag.B016, p.curToken.Pos, "expected ':' but found %s", p.curToken.Kind)
		}
		params = append(params, p.builder.MakeBinary(ast.Pair, nameTok, name, typ))
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return params
}

// --- cast / transmute --------------------------------------------------

// parseCastOrTransmute parses `cast<Type>(expr)` / `transmute<Type>(expr)`.
func (p *Parser) parseCastOrTransmute(tok token.Token) *ast.Node {
	kind := ast.CastExpression
	if tok.Kind == token.TRANSMUTE {
		kind = ast.TransmuteExpression
	}
	if !p.curTokenIs(token.LT) {
		p.addError(diag.B016, p.curToken.Pos, "expected '<' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	typeNode := p.parseTypeIdentifier()
	if !p.curTokenIs(token.GT) {
		p.addError(diag.B016, p.curToken.Pos, "expected '>' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	if !p.curTokenIs(token.LPAREN) {
		p.addError(diag.B016, p.curToken.Pos, "expected '(' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	expr := p.ParseExpression(LOWEST)
	if !p.curTokenIs(token.RPAREN) {
		p.addError(diag.B016, p.curToken.Pos, "expected ')' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	return p.builder.MakeBinary(kind, tok, typeNode, expr)
}

// --- proc expression -----------------------------------------------------

// parseProcExpression parses `(` params `)` [`:` return-type-list] [body].
// Lhs holds the parameter_list, Rhs holds the return-type parameter_list
// (nil when omitted), and an optional body basic_block is appended as
// the sole child.
func (p *Parser) parseProcExpression(tok token.Token) *ast.Node {
	if !p.curTokenIs(token.LPAREN) {
		p.addError(diag.B016, p.curToken.Pos, "expected '(' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}

	params := p.parseParameterList()
	if !p.curTokenIs(token.RPAREN) {
		p.addError(diag.B016, p.curToken.Pos, "expected ')' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	paramList := p.builder.MakeList(ast.ParameterList, tok, params...)

	var returns *ast.Node
	if p.curTokenIs(token.COLON) {
		p.nextToken()
		var retTypes []*ast.Node
		if t := p.parseTypeIdentifier(); t != nil {
			retTypes = append(retTypes, t)
		}
		for p.curTokenIs(token.COMMA) {
			p.nextToken()
			if t := p.parseTypeIdentifier(); t != nil {
				retTypes = append(retTypes, t)
			}
		}
		returns = p.builder.MakeList(ast.ParameterList, tok, retTypes...)
	}

	proc := p.builder.MakeBinary(ast.ProcExpression, tok, paramList, returns)
	if body := p.tryParseBlock(); body != nil {
		p.builder.AppendChild(proc, body)
	}
	return proc
}

// --- keyword wrappers ----------------------------------------------------

// parseKeywordWrap returns a prefix parselet that wraps the following
// expression in a node of the given kind: the shape namespace / alias
// / defer / with expressions all share.
func (p *Parser) parseKeywordWrap(kind ast.Kind) prefixParseFn {
	return func(pp *Parser, tok token.Token) *ast.Node {
		inner := pp.ParseExpression(LOWEST)
		return pp.builder.MakeUnary(kind, tok, inner)
	}
}

// parseCompositeExpression returns a prefix parselet for struct/union/
// enum: an optional name symbol, then a `{ ... }` body block.
func (p *Parser) parseCompositeExpression(kind ast.Kind) prefixParseFn {
	return func(pp *Parser, tok token.Token) *ast.Node {
		var name *ast.Node
		if pp.curTokenIs(token.IDENT) {
			nameTok := pp.curToken
			pp.nextToken()
			name = pp.parseSymbol(nameTok)
		}
		node := pp.builder.MakeUnary(kind, tok, name)
		if body := pp.tryParseBlock(); body != nil {
			pp.builder.AppendChild(node, body)
		}
		return node
	}
}

// parseImport parses `import <symbol> [from <symbol>]`.
func (p *Parser) parseImport(tok token.Token) *ast.Node {
	sym := p.ParseExpression(LOWEST)
	var from *ast.Node
	if p.curTokenIs(token.FROM) {
		p.nextToken()
		from = p.ParseExpression(LOWEST)
	}
	return p.builder.MakeBinary(ast.ImportExpression, tok, sym, from)
}

// --- control flow --------------------------------------------------------

// parseIfExpression / parseIfChain build a right-chained
// if/else-if/else: each branch's Rhs is the next elseif/else node, and
// the branch body lives in the branch's sole child.
func (p *Parser) parseIfExpression(tok token.Token) *ast.Node {
	return p.parseIfChain(ast.IfExpression, tok)
}

func (p *Parser) parseIfChain(kind ast.Kind, tok token.Token) *ast.Node {
	cond := p.ParseExpression(LOWEST)
	node := p.builder.MakeBinary(kind, tok, cond, nil)
	if body := p.tryParseBlock(); body != nil {
		p.builder.AppendChild(node, body)
	}
	if p.curTokenIs(token.ELSE) {
		elseTok := p.curToken
		p.nextToken()
		if p.curTokenIs(token.IF) {
			ifTok := p.curToken
			p.nextToken()
			branch := p.parseIfChain(ast.ElseIfExpression, ifTok)
			node.Rhs = branch
			branch.ParentID = node.ID
		} else {
			elseNode := p.builder.Make(ast.ElseExpression, elseTok)
			if body := p.tryParseBlock(); body != nil {
				p.builder.AppendChild(elseNode, body)
			}
			node.Rhs = elseNode
			elseNode.ParentID = node.ID
		}
	}
	return node
}

// parseForIn parses `for <induction> in <iterable> { body }`.
func (p *Parser) parseForIn(tok token.Token) *ast.Node {
	induction := p.ParseExpression(LOWEST)
	if !p.curTokenIs(token.IN) {
		p.addError(diag.B016, p.curToken.Pos, "expected 'in' but found %s", p.curToken.Kind)
	} else {
		p.nextToken()
	}
	iterable := p.ParseExpression(LOWEST)
	node := p.builder.MakeBinary(ast.ForIn, tok, induction, iterable)
	if body := p.tryParseBlock(); body != nil {
		p.builder.AppendChild(node, body)
	}
	return node
}

// parseWhile parses `while <condition> { body }`.
func (p *Parser) parseWhile(tok token.Token) *ast.Node {
	cond := p.ParseExpression(LOWEST)
	node := p.builder.MakeUnary(ast.While, tok, cond)
	if body := p.tryParseBlock(); body != nil {
		p.builder.AppendChild(node, body)
	}
	return node
}

func (p *Parser) parseBreak(tok token.Token) *ast.Node    { return p.builder.Make(ast.Break, tok) }
func (p *Parser) parseContinue(tok token.Token) *ast.Node { return p.builder.Make(ast.Continue, tok) }

// parseReturn parses `return [expr [, expr]*]`, building a node whose
// ordered Children are the returned expressions.
func (p *Parser) parseReturn(tok token.Token) *ast.Node {
	if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
		return p.builder.Make(ast.Return, tok)
	}
	list := p.ParseExpression(LOWEST)
	if list == nil {
		return p.builder.Make(ast.Return, tok)
	}
	return p.builder.MakeList(ast.Return, tok, PairsToList(list)...)
}

// --- attributes / directives ---------------------------------------------

// parseAttribute parses `@name` or `@name(expr)`. By the time this
// runs, ParseExpression has already consumed the '@'.
func (p *Parser) parseAttribute(tok token.Token) *ast.Node {
	if !p.curTokenIs(token.IDENT) {
		p.addError(diag.B016, p.curToken.Pos, "expected attribute name but found %s", p.curToken.Kind)
		return nil
	}
	nameTok := p.curToken
	p.nextToken()
	attr := p.builder.Make(ast.Attribute, nameTok)
	if p.curTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.curTokenIs(token.RPAREN) {
			expr := p.ParseExpression(LOWEST)
			if expr != nil {
				attr.Lhs = expr
				expr.ParentID = attr.ID
			}
		}
		if !p.curTokenIs(token.RPAREN) {
			p.addError(diag.B016, p.curToken.Pos, "expected ')' but found %s", p.curToken.Kind)
		} else {
			p.nextToken()
		}
	}
	return attr
}

// parseDirective parses `#name [expr]`; the evaluator's directive
// handler applies the directive's own attributes and invokes its
// evaluate hook.
func (p *Parser) parseDirective(tok token.Token) *ast.Node {
	if !p.curTokenIs(token.IDENT) {
		p.addError(diag.B016, p.curToken.Pos, "expected directive name but found %s", p.curToken.Kind)
		return nil
	}
	nameTok := p.curToken
	p.nextToken()
	var expr *ast.Node
	if !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		expr = p.ParseExpression(LOWEST)
	}
	return p.builder.MakeUnary(ast.Directive, nameTok, expr)
}
