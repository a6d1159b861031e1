// Package parser implements a recursive-descent parser that turns a
// token stream from pkg/lexer into a *ast.Class.
//
// The grammar is the classic SOM class-file shape:
//
//	class      := Identifier '=' Identifier? '(' classBody ')'
//	classBody  := instVarDecl? methodDef*
//	instVarDecl:= '|' Identifier* '|'
//	methodDef  := methodPattern '=' methodBody
//	methodPattern := Identifier                 // unary
//	              |  BinarySelector Identifier  // binary (also '=', '|')
//	              |  (Keyword Identifier)+      // keyword
//	methodBody := 'primitive' | '(' locals? statement ('.' statement)* '.'? ')'
//	statement  := '^' expr | expr
//	expr       := Identifier ':=' expr | keywordExpr
//	keywordExpr:= binaryExpr (Keyword binaryExpr)*
//	binaryExpr := unaryExpr ((BinarySelector | '=') unaryExpr)*
//	unaryExpr  := primary Identifier*
//	primary    := literal | '(' expr ')' | '[' block ']' | Identifier
//	block      := (':' Identifier)* '|'? locals? statement ('.' statement)*
//
// Two-token lookahead (cur/peek) is used throughout.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smogvm/smog/pkg/ast"
	"github.com/smogvm/smog/pkg/lexer"
)

// ParseError is one accumulated syntax error, formatted with the
// offending line/column and the surrounding source line, matching the
// compiler's own error style.
type ParseError struct {
	Message string
	Pos     ast.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d:\n  %s", e.Message, e.Pos.Line, e.Pos.Column, e.Pos.Source)
}

// Parser consumes a token stream and produces an *ast.Class.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	errors []error
}

// New creates a Parser over the given source text.
func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.cur.Line, Column: p.cur.Column, Source: p.cur.Source}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{Message: fmt.Sprintf(format, args...), Pos: p.pos()})
}

// Errors returns every syntax error accumulated during Parse.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) expect(tt lexer.TokenType, what string) lexer.Token {
	tok := p.cur
	if p.cur.Type != tt {
		p.errorf("expected %s, got %q", what, p.cur.Literal)
	} else {
		p.next()
	}
	return tok
}

// Parse parses the whole input as a single class definition.
func (p *Parser) Parse() (*ast.Class, error) {
	cls := p.parseClass()
	if len(p.errors) > 0 {
		var msgs []string
		for _, e := range p.errors {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("%d parse error(s):\n%s", len(p.errors), strings.Join(msgs, "\n"))
	}
	return cls, nil
}

func (p *Parser) parseClass() *ast.Class {
	pos := p.pos()
	nameTok := p.expect(lexer.TokenIdentifier, "class name")
	p.expect(lexer.TokenEquals, "'='")

	cls := &ast.Class{Name: nameTok.Literal, Pos: pos}

	if p.cur.Type == lexer.TokenIdentifier {
		cls.SuperName = p.cur.Literal
		p.next()
	}

	p.expect(lexer.TokenLParen, "'('")

	if p.cur.Type == lexer.TokenPipe {
		cls.InstVars = p.parseVarList()
	}

	for p.cur.Type != lexer.TokenRParen && p.cur.Type != lexer.TokenEOF {
		cls.Methods = append(cls.Methods, p.parseMethod())
	}
	p.expect(lexer.TokenRParen, "')'")
	return cls
}

// parseVarList parses "| a b c |" and returns the names.
func (p *Parser) parseVarList() []string {
	p.expect(lexer.TokenPipe, "'|'")
	var names []string
	for p.cur.Type == lexer.TokenIdentifier {
		names = append(names, p.cur.Literal)
		p.next()
	}
	p.expect(lexer.TokenPipe, "'|'")
	return names
}

func (p *Parser) parseMethod() *ast.Method {
	name := p.parseMethodName()
	p.expect(lexer.TokenEquals, "'='")
	body := p.parseMethodBody()
	return &ast.Method{Name: name, Body: body}
}

func (p *Parser) parseMethodName() *ast.MethodName {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.TokenKeyword:
		var selector strings.Builder
		var params []string
		for p.cur.Type == lexer.TokenKeyword {
			selector.WriteString(p.cur.Literal)
			p.next()
			param := p.expect(lexer.TokenIdentifier, "parameter name")
			params = append(params, param.Literal)
		}
		return &ast.MethodName{Kind: ast.Keyword, Selector: selector.String(), Params: params, Pos: pos}
	case lexer.TokenBinarySelector, lexer.TokenMinus, lexer.TokenEquals, lexer.TokenPipe:
		sel := p.cur.Literal
		p.next()
		param := p.expect(lexer.TokenIdentifier, "parameter name")
		return &ast.MethodName{Kind: ast.Binary, Selector: sel, Params: []string{param.Literal}, Pos: pos}
	case lexer.TokenIdentifier:
		sel := p.cur.Literal
		p.next()
		return &ast.MethodName{Kind: ast.Unary, Selector: sel, Pos: pos}
	default:
		p.errorf("expected a method pattern, got %q", p.cur.Literal)
		p.next()
		return &ast.MethodName{Kind: ast.Unary, Selector: "", Pos: pos}
	}
}

func (p *Parser) parseMethodBody() *ast.MethodBody {
	if p.cur.Type == lexer.TokenIdentifier && p.cur.Literal == "primitive" {
		p.next()
		return &ast.MethodBody{IsPrimitive: true}
	}

	p.expect(lexer.TokenLParen, "'(' or 'primitive'")
	body := &ast.MethodBody{}
	if p.cur.Type == lexer.TokenPipe {
		body.Vars = p.parseVarList()
	}
	body.Exprs = p.parseStatements(lexer.TokenRParen)
	p.expect(lexer.TokenRParen, "')'")
	return body
}

// parseStatements parses a '.'-separated statement list up to (but not
// consuming) the given terminator token type. A trailing '.' before the
// terminator is permitted.
func (p *Parser) parseStatements(terminator lexer.TokenType) []ast.Expr {
	var exprs []ast.Expr
	for p.cur.Type != terminator && p.cur.Type != lexer.TokenEOF {
		exprs = append(exprs, p.parseStatement())
		if p.cur.Type == lexer.TokenPeriod {
			p.next()
		} else {
			break
		}
	}
	return exprs
}

func (p *Parser) parseStatement() ast.Expr {
	if p.cur.Type == lexer.TokenCaret {
		pos := p.pos()
		p.next()
		return &ast.Return{Expr: p.parseExpr(), Pos: pos}
	}
	return p.parseExpr()
}

func (p *Parser) parseExpr() ast.Expr {
	if p.cur.Type == lexer.TokenIdentifier && p.peek.Type == lexer.TokenAssign {
		pos := p.pos()
		name := p.cur.Literal
		p.next() // identifier
		p.next() // :=
		return &ast.Assign{ID: name, Expr: p.parseExpr(), Pos: pos}
	}
	return p.parseKeywordExpr()
}

func (p *Parser) parseKeywordExpr() ast.Expr {
	recv := p.parseBinaryExpr()
	if p.cur.Type != lexer.TokenKeyword {
		return recv
	}
	pos := p.pos()
	var keywords []string
	var args []ast.Expr
	for p.cur.Type == lexer.TokenKeyword {
		keywords = append(keywords, p.cur.Literal)
		p.next()
		args = append(args, p.parseBinaryExpr())
	}
	return &ast.KeywordMsg{Receiver: recv, Keywords: keywords, Args: args, Pos: pos}
}

func (p *Parser) parseBinaryExpr() ast.Expr {
	lhs := p.parseUnaryExpr()
	for p.cur.Type == lexer.TokenBinarySelector || p.cur.Type == lexer.TokenEquals {
		pos := p.pos()
		op := p.cur.Literal
		p.next()
		rhs := p.parseUnaryExpr()
		lhs = &ast.BinaryMsg{LHS: lhs, Op: op, RHS: rhs, Pos: pos}
	}
	return lhs
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	recv := p.parsePrimary()
	var selectors []string
	pos := p.pos()
	for p.cur.Type == lexer.TokenIdentifier {
		selectors = append(selectors, p.cur.Literal)
		p.next()
	}
	if len(selectors) == 0 {
		return recv
	}
	return &ast.UnaryMsg{Receiver: recv, Selectors: selectors, Pos: pos}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.TokenIdentifier:
		name := p.cur.Literal
		p.next()
		return &ast.VarLookup{Name: name, Pos: pos}
	case lexer.TokenInteger:
		text := p.cur.Literal
		p.next()
		return &ast.Int{Text: text, Pos: pos}
	case lexer.TokenMinus:
		p.next()
		return p.parseNegativeLiteral(pos)
	case lexer.TokenDouble:
		text := p.cur.Literal
		p.next()
		return &ast.Double{Text: text, Pos: pos}
	case lexer.TokenString:
		text := p.cur.Literal
		p.next()
		return &ast.String{Text: text, Pos: pos}
	case lexer.TokenSymbol:
		text := p.cur.Literal
		p.next()
		return &ast.Symbol{Text: text, Pos: pos}
	case lexer.TokenLParen:
		p.next()
		e := p.parseExpr()
		p.expect(lexer.TokenRParen, "')'")
		return e
	case lexer.TokenLBracket:
		return p.parseBlock()
	default:
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		p.next()
		return &ast.VarLookup{Name: "", Pos: pos}
	}
}

func (p *Parser) parseNegativeLiteral(pos ast.Position) ast.Expr {
	switch p.cur.Type {
	case lexer.TokenInteger:
		text := p.cur.Literal
		p.next()
		return &ast.Int{IsNegative: true, Text: text, Pos: pos}
	case lexer.TokenDouble:
		text := p.cur.Literal
		p.next()
		return &ast.Double{IsNegative: true, Text: text, Pos: pos}
	default:
		p.errorf("expected a number after '-', got %q", p.cur.Literal)
		return &ast.Int{Text: "0", Pos: pos}
	}
}

func (p *Parser) parseBlock() ast.Expr {
	pos := p.pos()
	p.expect(lexer.TokenLBracket, "'['")

	var params []string
	for p.cur.Type == lexer.TokenColon {
		p.next()
		param := p.expect(lexer.TokenIdentifier, "block parameter name")
		params = append(params, param.Literal)
	}
	if len(params) > 0 {
		p.expect(lexer.TokenPipe, "'|' after block parameters")
	}

	var vars []string
	if p.cur.Type == lexer.TokenPipe {
		vars = p.parseVarList()
	}

	exprs := p.parseStatements(lexer.TokenRBracket)
	p.expect(lexer.TokenRBracket, "']'")

	return &ast.Block{Params: params, Vars: vars, Exprs: exprs, Pos: pos}
}

// parseInt converts a literal's text (no sign, the lexer never emits
// one) to an int64. Neither the parser nor the compiler calls it; the
// compiler converts Int literal text with strconv directly.
func parseInt(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}
