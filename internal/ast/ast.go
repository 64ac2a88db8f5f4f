// Package ast defines the syntax tree for the sonar language.
//
// The tree is made of two closed families, Expression and Statement. Each
// node owns its children outright; nothing is shared and no cycles can be
// built because children are always constructed before their parent. Every
// node carries the byte span it covers, assigned once by the parser.
package ast

import (
	"github.com/sonar-lang/sonar/internal/lexer"
	"github.com/sonar-lang/sonar/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor) interface{}
}

// Expression represents all expression nodes in the AST
type Expression interface {
	Node
	expressionNode()
}

// Statement represents all statement nodes in the AST
type Statement interface {
	Node
	statementNode()
}

// TypeAnnotation names the declared type of a binding, parameter, or
// function result.
type TypeAnnotation struct {
	Name string
	Span position.Span
}

// ===== Expressions =====

// Number is a numeric literal.
type Number struct {
	Span  position.Span
	Value float64
}

// Boolean is true or false.
type Boolean struct {
	Span  position.Span
	Value bool
}

// String is a string literal after escape processing.
type String struct {
	Span  position.Span
	Value string
}

// Variable is a reference to a name.
type Variable struct {
	Span     position.Span
	Name     string
	NameSpan position.Span
}

// Prefix is a unary operator applied to its operand.
type Prefix struct {
	Span    position.Span
	Op      lexer.TokenType
	OpSpan  position.Span
	Operand Expression
}

// Infix is a binary operator.
type Infix struct {
	Span   position.Span
	Op     lexer.TokenType
	OpSpan position.Span
	Left   Expression
	Right  Expression
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Span  position.Span
	Inner Expression
}

// Unit is the empty value, written () or produced by an empty program.
type Unit struct {
	Span position.Span
}

// Assign stores Value into the variable Name. The target is always a bare
// name; the parser rejects any other left-hand side.
type Assign struct {
	Span     position.Span
	Name     string
	NameSpan position.Span
	Value    Expression
}

// Block is a braced statement sequence. Value is the trailing expression
// without a semicolon and is nil when the block has none.
type Block struct {
	Span       position.Span
	Statements []Statement
	Value      Expression
}

// If is a conditional; Else is nil when absent.
type If struct {
	Span      position.Span
	Condition Expression
	Then      Expression
	Else      Expression
}

// While is a pre-tested loop.
type While struct {
	Span      position.Span
	Condition Expression
	Body      Expression
}

// For iterates Variable over Iterable.
type For struct {
	Span     position.Span
	Variable *Variable
	Iterable Expression
	Body     Expression
}

// Parameter is one declared function parameter.
type Parameter struct {
	Name string
	Span position.Span
	Type *TypeAnnotation
}

// Function is an anonymous function literal.
type Function struct {
	Span       position.Span
	Parameters []Parameter
	ReturnType *TypeAnnotation
	Body       Expression
}

func (n *Number) GetSpan() position.Span   { return n.Span }
func (n *Boolean) GetSpan() position.Span  { return n.Span }
func (n *String) GetSpan() position.Span   { return n.Span }
func (n *Variable) GetSpan() position.Span { return n.Span }
func (n *Prefix) GetSpan() position.Span   { return n.Span }
func (n *Infix) GetSpan() position.Span    { return n.Span }
func (n *Grouping) GetSpan() position.Span { return n.Span }
func (n *Unit) GetSpan() position.Span     { return n.Span }
func (n *Assign) GetSpan() position.Span   { return n.Span }
func (n *Block) GetSpan() position.Span    { return n.Span }
func (n *If) GetSpan() position.Span       { return n.Span }
func (n *While) GetSpan() position.Span    { return n.Span }
func (n *For) GetSpan() position.Span      { return n.Span }
func (n *Function) GetSpan() position.Span { return n.Span }

func (n *Number) Accept(visitor Visitor) interface{}   { return visitor.VisitNumber(n) }
func (n *Boolean) Accept(visitor Visitor) interface{}  { return visitor.VisitBoolean(n) }
func (n *String) Accept(visitor Visitor) interface{}   { return visitor.VisitString(n) }
func (n *Variable) Accept(visitor Visitor) interface{} { return visitor.VisitVariable(n) }
func (n *Prefix) Accept(visitor Visitor) interface{}   { return visitor.VisitPrefix(n) }
func (n *Infix) Accept(visitor Visitor) interface{}    { return visitor.VisitInfix(n) }
func (n *Grouping) Accept(visitor Visitor) interface{} { return visitor.VisitGrouping(n) }
func (n *Unit) Accept(visitor Visitor) interface{}     { return visitor.VisitUnit(n) }
func (n *Assign) Accept(visitor Visitor) interface{}   { return visitor.VisitAssign(n) }
func (n *Block) Accept(visitor Visitor) interface{}    { return visitor.VisitBlock(n) }
func (n *If) Accept(visitor Visitor) interface{}       { return visitor.VisitIf(n) }
func (n *While) Accept(visitor Visitor) interface{}    { return visitor.VisitWhile(n) }
func (n *For) Accept(visitor Visitor) interface{}      { return visitor.VisitFor(n) }
func (n *Function) Accept(visitor Visitor) interface{} { return visitor.VisitFunction(n) }

func (n *Number) expressionNode()   {}
func (n *Boolean) expressionNode()  {}
func (n *String) expressionNode()   {}
func (n *Variable) expressionNode() {}
func (n *Prefix) expressionNode()   {}
func (n *Infix) expressionNode()    {}
func (n *Grouping) expressionNode() {}
func (n *Unit) expressionNode()     {}
func (n *Assign) expressionNode()   {}
func (n *Block) expressionNode()    {}
func (n *If) expressionNode()       {}
func (n *While) expressionNode()    {}
func (n *For) expressionNode()      {}
func (n *Function) expressionNode() {}

// ===== Statements =====

// Let binds Name to Value. A named function declaration is parsed into a
// Let whose Value is a *Function.
type Let struct {
	Span     position.Span
	Name     string
	NameSpan position.Span
	Type     *TypeAnnotation
	Value    Expression
}

// ExpressionStatement is an expression terminated by ';'.
type ExpressionStatement struct {
	Span       position.Span
	Expression Expression
}

func (s *Let) GetSpan() position.Span                 { return s.Span }
func (s *ExpressionStatement) GetSpan() position.Span { return s.Span }

func (s *Let) Accept(visitor Visitor) interface{} { return visitor.VisitLet(s) }
func (s *ExpressionStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitExpressionStatement(s)
}

func (s *Let) statementNode()                 {}
func (s *ExpressionStatement) statementNode() {}
