package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collectTypes(src string) []TokenType {
	l := New(src)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == TokenEOF {
			break
		}
	}
	return types
}

func TestLexerClassHeader(t *testing.T) {
	src := `Counter = Object (
    |count|
    init = ( count := 0 )
)`
	l := New(src)

	tok := l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
	require.Equal(t, "Counter", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenEquals, tok.Type)

	tok = l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
	require.Equal(t, "Object", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenLParen, tok.Type)

	tok = l.NextToken()
	require.Equal(t, TokenPipe, tok.Type)

	tok = l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
	require.Equal(t, "count", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenPipe, tok.Type)
}

func TestLexerKeywordMessage(t *testing.T) {
	l := New(`x at: 1 put: 2`)

	tok := l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
	require.Equal(t, "x", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenKeyword, tok.Type)
	require.Equal(t, "at:", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenInteger, tok.Type)
	require.Equal(t, "1", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenKeyword, tok.Type)
	require.Equal(t, "put:", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenInteger, tok.Type)
	require.Equal(t, "2", tok.Literal)
}

func TestLexerBinarySelectors(t *testing.T) {
	cases := []string{"+", "-", "*", "/", "~=", "<=", ">=", "->", "//"}
	for _, sel := range cases {
		l := New("1 " + sel + " 2")
		l.NextToken() // 1
		tok := l.NextToken()
		require.Equal(t, TokenBinarySelector, tok.Type, "selector %q", sel)
		require.Equal(t, sel, tok.Literal)
	}
}

func TestLexerNegativeNumberIsUnaryMinus(t *testing.T) {
	l := New(`-5`)
	tok := l.NextToken()
	require.Equal(t, TokenMinus, tok.Type)
	tok = l.NextToken()
	require.Equal(t, TokenInteger, tok.Type)
	require.Equal(t, "5", tok.Literal)
}

func TestLexerDoubleLiteral(t *testing.T) {
	l := New(`3.14`)
	tok := l.NextToken()
	require.Equal(t, TokenDouble, tok.Type)
	require.Equal(t, "3.14", tok.Literal)
}

func TestLexerStringLiteralNoEscapes(t *testing.T) {
	l := New(`'hello \n world'`)
	tok := l.NextToken()
	require.Equal(t, TokenString, tok.Type)
	require.Equal(t, `hello \n world`, tok.Literal)
}

func TestLexerSymbolLiterals(t *testing.T) {
	l := New(`#foo #foo:bar: #+`)

	tok := l.NextToken()
	require.Equal(t, TokenSymbol, tok.Type)
	require.Equal(t, "foo", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenSymbol, tok.Type)
	require.Equal(t, "foo:bar:", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, TokenSymbol, tok.Type)
	require.Equal(t, "+", tok.Literal)
}

func TestLexerSkipsComments(t *testing.T) {
	src := `"this is a comment" foo "another" bar`
	types := collectTypes(src)
	require.Equal(t, []TokenType{TokenIdentifier, TokenIdentifier, TokenEOF}, types)
}

func TestLexerAssignAndReturn(t *testing.T) {
	l := New(`x := 1. ^x`)

	tok := l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
	tok = l.NextToken()
	require.Equal(t, TokenAssign, tok.Type)
	tok = l.NextToken()
	require.Equal(t, TokenInteger, tok.Type)
	tok = l.NextToken()
	require.Equal(t, TokenPeriod, tok.Type)
	tok = l.NextToken()
	require.Equal(t, TokenCaret, tok.Type)
	tok = l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
}

func TestLexerBlockLiteral(t *testing.T) {
	types := collectTypes(`[:a :b | a + b]`)
	require.Equal(t, []TokenType{
		TokenLBracket,
		TokenColon,
		TokenIdentifier,
		TokenColon,
		TokenIdentifier,
		TokenPipe,
		TokenIdentifier,
		TokenBinarySelector,
		TokenIdentifier,
		TokenRBracket,
		TokenEOF,
	}, types)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	src := "foo\nbar baz"
	l := New(src)

	tok := l.NextToken()
	require.Equal(t, "foo", tok.Literal)
	require.Equal(t, 1, tok.Line)

	tok = l.NextToken()
	require.Equal(t, "bar", tok.Literal)
	require.Equal(t, 2, tok.Line)
	require.Equal(t, "bar baz", tok.Source)
}
