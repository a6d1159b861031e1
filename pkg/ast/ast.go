// Package ast defines the Abstract Syntax Tree nodes produced by pkg/parser
// and consumed by pkg/compiler.
//
// A smog program is a single class file: a class name, an optional
// superclass name, an ordered list of instance-variable names, and an
// ordered list of methods. Each method has a name (unary, binary, or
// keyword selector) and a body that is either a primitive marker or a
// sequence of local-variable declarations plus expressions.
package ast

// Position records where a node's defining lexeme started, for compiler
// error reporting (file/line/column plus the surrounding source line).
type Position struct {
	Line   int
	Column int
	Source string // the full source line the node appears on
}

// Class is the root AST node: the parser produces exactly one of these
// per source file.
type Class struct {
	Name      string
	SuperName string // empty if no explicit superclass was written
	InstVars  []string
	Methods   []*Method
	Pos       Position
}

// MethodKind distinguishes the three selector shapes a method pattern can
// take.
type MethodKind int

const (
	// Unary methods take no arguments: "selector".
	Unary MethodKind = iota
	// Binary methods take exactly one argument via an operator-shaped
	// selector: "+ arg".
	Binary
	// Keyword methods take one argument per keyword part:
	// "key1: arg1 key2: arg2".
	Keyword
)

// MethodName is the parsed method pattern (selector plus the parameter
// names bound to each argument, in left-to-right order).
type MethodName struct {
	Kind     MethodKind
	Selector string   // the full selector, e.g. "+", "foo", "at:put:"
	Params   []string // parameter names; len matches the selector's arity
	Pos      Position
}

// MethodBody is either the primitive marker or a user-code body.
type MethodBody struct {
	IsPrimitive bool
	Vars        []string // local variable names (ignored if IsPrimitive)
	Exprs       []Expr    // ignored if IsPrimitive
}

// Method is one method definition inside a Class.
type Method struct {
	Name *MethodName
	Body *MethodBody
}

// Expr is the interface implemented by every expression node.
type Expr interface {
	exprPos() Position
}

// Assign is "id := expr".
type Assign struct {
	ID   string
	Expr Expr
	Pos  Position
}

func (e *Assign) exprPos() Position { return e.Pos }

// BinaryMsg is "lhs op rhs".
type BinaryMsg struct {
	LHS Expr
	Op  string
	RHS Expr
	Pos Position
}

func (e *BinaryMsg) exprPos() Position { return e.Pos }

// KeywordMsg is "receiver key1: arg1 key2: arg2 ...".
type KeywordMsg struct {
	Receiver Expr
	Keywords []string // e.g. ["at:", "put:"]
	Args     []Expr
	Pos      Position
}

func (e *KeywordMsg) exprPos() Position { return e.Pos }

// UnaryMsg is "receiver id1 id2 ..." — a chain of unary sends, each
// applied to the result of the previous one.
type UnaryMsg struct {
	Receiver  Expr
	Selectors []string
	Pos       Position
}

func (e *UnaryMsg) exprPos() Position { return e.Pos }

// Block is a block literal: "[ :p1 :p2 | | v1 v2 | expr. expr ]".
type Block struct {
	Params []string
	Vars   []string
	Exprs  []Expr
	Pos    Position
}

func (e *Block) exprPos() Position { return e.Pos }

// Int is an integer literal. IsNegative is tracked separately from Text
// because the lexer never emits a leading '-' as part of a number lexeme
// (SOM treats '-' as a binary-selector character); the parser folds a
// preceding unary minus into this flag.
type Int struct {
	IsNegative bool
	Text       string
	Pos        Position
}

func (e *Int) exprPos() Position { return e.Pos }

// Double is a floating-point literal, same sign convention as Int.
type Double struct {
	IsNegative bool
	Text       string
	Pos        Position
}

func (e *Double) exprPos() Position { return e.Pos }

// String is a string literal. Text is the literal content with the
// surrounding quotes already stripped; no escape processing is
// performed.
type String struct {
	Text string
	Pos  Position
}

func (e *String) exprPos() Position { return e.Pos }

// Symbol is a symbol literal, "#foo" or "#foo:bar:" or "#+".
type Symbol struct {
	Text string
	Pos  Position
}

func (e *Symbol) exprPos() Position { return e.Pos }

// Return is "^expr".
type Return struct {
	Expr Expr
	Pos  Position
}

func (e *Return) exprPos() Position { return e.Pos }

// VarLookup is a bare identifier reference.
type VarLookup struct {
	Name string
	Pos  Position
}

func (e *VarLookup) exprPos() Position { return e.Pos }

// Pos returns the source position of any expression node.
func Pos(e Expr) Position { return e.exprPos() }
