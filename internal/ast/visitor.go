package ast

// Visitor dispatches on the concrete node type. Implementations that only care
// about a few node kinds can embed BaseVisitor.
type Visitor interface {
	// Expression visitors.
	VisitNumber(node *Number) interface{}
	VisitBoolean(node *Boolean) interface{}
	VisitString(node *String) interface{}
	VisitVariable(node *Variable) interface{}
	VisitPrefix(node *Prefix) interface{}
	VisitInfix(node *Infix) interface{}
	VisitGrouping(node *Grouping) interface{}
	VisitUnit(node *Unit) interface{}
	VisitAssign(node *Assign) interface{}
	VisitBlock(node *Block) interface{}
	VisitIf(node *If) interface{}
	VisitWhile(node *While) interface{}
	VisitFor(node *For) interface{}
	VisitFunction(node *Function) interface{}

	// Statement visitors.
	VisitLet(node *Let) interface{}
	VisitExpressionStatement(node *ExpressionStatement) interface{}
}

// BaseVisitor provides a default implementation of the Visitor interface.
// Every method returns nil.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitNumber(node *Number) interface{}     { return nil }
func (v *BaseVisitor) VisitBoolean(node *Boolean) interface{}   { return nil }
func (v *BaseVisitor) VisitString(node *String) interface{}     { return nil }
func (v *BaseVisitor) VisitVariable(node *Variable) interface{} { return nil }
func (v *BaseVisitor) VisitPrefix(node *Prefix) interface{}     { return nil }
func (v *BaseVisitor) VisitInfix(node *Infix) interface{}       { return nil }
func (v *BaseVisitor) VisitGrouping(node *Grouping) interface{} { return nil }
func (v *BaseVisitor) VisitUnit(node *Unit) interface{}         { return nil }
func (v *BaseVisitor) VisitAssign(node *Assign) interface{}     { return nil }
func (v *BaseVisitor) VisitBlock(node *Block) interface{}       { return nil }
func (v *BaseVisitor) VisitIf(node *If) interface{}             { return nil }
func (v *BaseVisitor) VisitWhile(node *While) interface{}       { return nil }
func (v *BaseVisitor) VisitFor(node *For) interface{}           { return nil }
func (v *BaseVisitor) VisitFunction(node *Function) interface{} { return nil }
func (v *BaseVisitor) VisitLet(node *Let) interface{}           { return nil }
func (v *BaseVisitor) VisitExpressionStatement(node *ExpressionStatement) interface{} {
	return nil
}

// Children returns the direct child nodes of node in source order.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Prefix:
		return []Node{n.Operand}
	case *Infix:
		return []Node{n.Left, n.Right}
	case *Grouping:
		return []Node{n.Inner}
	case *Assign:
		return []Node{n.Value}
	case *Block:
		children := make([]Node, 0, len(n.Statements)+1)
		for _, stmt := range n.Statements {
			children = append(children, stmt)
		}
		if n.Value != nil {
			children = append(children, n.Value)
		}
		return children
	case *If:
		if n.Else == nil {
			return []Node{n.Condition, n.Then}
		}
		return []Node{n.Condition, n.Then, n.Else}
	case *While:
		return []Node{n.Condition, n.Body}
	case *For:
		return []Node{n.Variable, n.Iterable, n.Body}
	case *Function:
		return []Node{n.Body}
	case *Let:
		return []Node{n.Value}
	case *ExpressionStatement:
		return []Node{n.Expression}
	default:
		return nil
	}
}

// Inspect traverses the tree rooted at node in depth-first order, calling fn
// for each node. If fn returns false, the children of that node are skipped.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, fn)
	}
}
