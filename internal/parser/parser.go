// Package parser implements a Pratt-style precedence-climbing parser:
// a prefix-parselet table and an infix-parselet table keyed by token
// kind, each infix parselet carrying a precedence and a
// right-associativity flag.
package parser

import (
	"fmt"

	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/lexer"
	"github.com/doublelove22/basecode/internal/token"
)

// Precedence tiers, low to high.
const (
	LOWEST int = iota
	ASSIGN
	COMMA
	LOGICAL_OR
	LOGICAL_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALS
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	UNARY
	CAST
	CALL
	SUBSCRIPT
	TYPE
	VARIABLE
	BLOCK_COMMENT
)

var precedences = map[token.Kind]int{
	token.ASSIGN:      ASSIGN,
	token.COMMA:       COMMA,
	token.OR_OR:       LOGICAL_OR,
	token.AND_AND:     LOGICAL_AND,
	token.PIPE:        BIT_OR,
	token.CARET:       EXPONENT,
	token.AMP:         BIT_AND,
	token.EQ:          EQUALS,
	token.NEQ:         EQUALS,
	token.LT:          RELATIONAL,
	token.GT:          RELATIONAL,
	token.LT_EQ:       RELATIONAL,
	token.GT_EQ:       RELATIONAL,
	token.SHL:         SHIFT,
	token.SHR:         SHIFT,
	token.PLUS:        ADDITIVE,
	token.MINUS:       ADDITIVE,
	token.STAR:        MULTIPLICATIVE,
	token.SLASH:       MULTIPLICATIVE,
	token.PERCENT:     MULTIPLICATIVE,
	token.LPAREN:      CALL,
	token.LBRACK:      SUBSCRIPT,
}

// rightAssoc marks operators whose recursive ParseExpression call
// passes `precedence - 1`, so a chain of them nests to the right.
var rightAssoc = map[token.Kind]bool{
	token.ASSIGN: true,
	token.CARET:  true, // exponent
}

type prefixParseFn func(p *Parser, tok token.Token) *ast.Node
type infixParseFn func(p *Parser, lhs *ast.Node, tok token.Token) *ast.Node

// BlockContext records the kind and origin of an in-progress scope on
// the parser's block stack. No parselet pushes onto that stack; whether
// a semicolon terminator is required is decided by isBlockShaped.
type BlockContext struct {
	Kind     ast.Kind
	StartPos token.Position
}

// State is an immutable snapshot of parser position for backtracking.
type State struct {
	curToken  token.Token
	peekToken token.Token
	lexState  lexer.State
	errCount  int
}

// Parser converts a token stream into an AST.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	builder *ast.Builder
	result  *diag.Result
	file    string

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn

	blockStack []BlockContext
}

// New constructs a Parser reading from l, reporting diagnostics into
// result under the given file name (used for diagnostic locations).
func New(l *lexer.Lexer, result *diag.Result, file string) *Parser {
	p := &Parser{
		l:              l,
		builder:        ast.NewBuilder(),
		result:         result,
		file:           file,
		prefixParseFns: make(map[token.Kind]prefixParseFn),
		infixParseFns:  make(map[token.Kind]infixParseFn),
	}
	p.registerGrammar()
	p.nextToken()
	p.nextToken()
	return p
}

// Builder exposes the AST builder backing this parse, so the caller
// (typically the evaluator, via the Session) can resolve node ids.
func (p *Parser) Builder() *ast.Builder { return p.builder }

func (p *Parser) registerPrefix(kind token.Kind, fn prefixParseFn) {
	p.prefixParseFns[kind] = fn
}

func (p *Parser) registerInfix(kind token.Kind, fn infixParseFn) {
	p.infixParseFns[kind] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.Next()
	// Comment tokens are not skipped here: they reach ParseExpression
	// like any other token and become comment nodes through their own
	// prefix parselets.
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(want token.Kind) {
	p.result.Addf(diag.B016, p.peekToken.Pos, p.file,
		"expected token %s but found %s", want, p.peekToken.Kind)
}

func (p *Parser) addError(code diag.Code, pos token.Position, format string, args ...any) {
	p.result.Addf(code, pos, p.file, format, args...)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diag.B021, tok.Pos, "no prefix parselet for %s", tok.Kind)
}

func (p *Parser) getPrecedence(k token.Kind) int {
	if prec, ok := precedences[k]; ok {
		return prec
	}
	return LOWEST
}

// saveState snapshots full parser position (current/peek tokens plus
// lexer state) for heavyweight backtracking across multiple parse
// attempts.
func (p *Parser) saveState() State {
	return State{
		curToken:  p.curToken,
		peekToken: p.peekToken,
		lexState:  p.l.Snapshot(),
	}
}

func (p *Parser) restoreState(s State) {
	p.curToken = s.curToken
	p.peekToken = s.peekToken
	p.l.Restore(s.lexState)
}

func (p *Parser) pushBlockContext(kind ast.Kind) {
	p.blockStack = append(p.blockStack, BlockContext{Kind: kind, StartPos: p.curToken.Pos})
}

func (p *Parser) popBlockContext() {
	if len(p.blockStack) == 0 {
		return
	}
	p.blockStack = p.blockStack[:len(p.blockStack)-1]
}

func (p *Parser) currentBlockContext() (BlockContext, bool) {
	if len(p.blockStack) == 0 {
		return BlockContext{}, false
	}
	return p.blockStack[len(p.blockStack)-1], true
}

// statementStarters and blockClosers drive synchronize()'s error
// recovery scan.
var statementStarters = map[token.Kind]bool{
	token.IF: true, token.FOR: true, token.WHILE: true, token.BREAK: true,
	token.CONTINUE: true, token.RETURN: true, token.IMPORT: true,
	token.ALIAS: true, token.DEFER: true, token.WITH: true,
	token.NAMESPACE: true, token.STRUCT: true, token.UNION: true,
	token.ENUM: true, token.MODULE: true, token.PROC: true,
}

var blockClosers = map[token.Kind]bool{
	token.RBRACE: true, token.EOF: true,
}

// synchronize skips tokens until a statement terminator, a statement
// starter keyword, or a block closer is found, so the parser can
// continue past a non-fatal error and report more than one diagnostic
// per pass.
func (p *Parser) synchronize() {
	for {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			return
		}
		if blockClosers[p.curToken.Kind] || statementStarters[p.curToken.Kind] {
			return
		}
		p.nextToken()
	}
}

// Errors returns every diagnostic recorded against this parser's
// result (a convenience accessor mostly used by tests).
func (p *Parser) Errors() []diag.Diagnostic { return p.result.Diagnostics() }

func (p *Parser) endPosFromToken(tok token.Token) token.Position {
	end := tok.Pos
	end.Column += tok.Length()
	end.Offset += len(tok.Literal)
	return end
}

// describeKind is a small formatting helper used by a few diagnostics
// that want a human label instead of a raw Kind stringer.
func describeKind(k ast.Kind) string {
	return fmt.Sprintf("%s", k)
}
