// Package format renders sonar syntax trees in a canonical, fully
// parenthesized form. The output is deterministic and is what tests and the
// CLI compare against.
package format

import (
	"strconv"
	"strings"

	"github.com/sonar-lang/sonar/internal/ast"
)

// Expression renders an expression tree.
func Expression(expr ast.Expression) string {
	return render(expr)
}

// Statement renders a single statement.
func Statement(stmt ast.Statement) string {
	return render(stmt)
}

func render(node ast.Node) string {
	if node == nil {
		return ""
	}
	r := &renderer{}
	node.Accept(r)
	return r.buf.String()
}

// renderer writes each node into buf as it is visited.
type renderer struct {
	buf strings.Builder
}

func (r *renderer) write(parts ...string) {
	for _, part := range parts {
		r.buf.WriteString(part)
	}
}

func (r *renderer) node(node ast.Node) {
	node.Accept(r)
}

func (r *renderer) VisitNumber(node *ast.Number) interface{} {
	r.write(Number(node.Value))
	return nil
}

func (r *renderer) VisitBoolean(node *ast.Boolean) interface{} {
	r.write(strconv.FormatBool(node.Value))
	return nil
}

func (r *renderer) VisitString(node *ast.String) interface{} {
	r.write(Quote(node.Value))
	return nil
}

func (r *renderer) VisitVariable(node *ast.Variable) interface{} {
	r.write(node.Name)
	return nil
}

func (r *renderer) VisitPrefix(node *ast.Prefix) interface{} {
	r.write("(", node.Op.String(), " ")
	r.node(node.Operand)
	r.write(")")
	return nil
}

func (r *renderer) VisitInfix(node *ast.Infix) interface{} {
	r.write("(", node.Op.String(), " ")
	r.node(node.Left)
	r.write(" ")
	r.node(node.Right)
	r.write(")")
	return nil
}

func (r *renderer) VisitGrouping(node *ast.Grouping) interface{} {
	r.write("(group ")
	r.node(node.Inner)
	r.write(")")
	return nil
}

func (r *renderer) VisitUnit(node *ast.Unit) interface{} {
	r.write("(unit)")
	return nil
}

func (r *renderer) VisitAssign(node *ast.Assign) interface{} {
	r.write("(assign ", node.Name, " = ")
	r.node(node.Value)
	r.write(")")
	return nil
}

func (r *renderer) VisitBlock(node *ast.Block) interface{} {
	r.write("{ ")
	for _, stmt := range node.Statements {
		r.node(stmt)
		r.write(" ")
	}
	if node.Value != nil {
		r.node(node.Value)
		r.write(" ")
	}
	r.write("}")
	return nil
}

func (r *renderer) VisitIf(node *ast.If) interface{} {
	r.write("(if ")
	r.node(node.Condition)
	r.write(" ")
	r.node(node.Then)
	if node.Else != nil {
		r.write(" else ")
		r.node(node.Else)
	}
	r.write(")")
	return nil
}

func (r *renderer) VisitWhile(node *ast.While) interface{} {
	r.write("(while ")
	r.node(node.Condition)
	r.write(" ")
	r.node(node.Body)
	r.write(")")
	return nil
}

func (r *renderer) VisitFor(node *ast.For) interface{} {
	r.write("(for ", node.Variable.Name, " in ")
	r.node(node.Iterable)
	r.write(" ")
	r.node(node.Body)
	r.write(")")
	return nil
}

// VisitFunction writes (fn (a: T, b: U) -> R body).
func (r *renderer) VisitFunction(node *ast.Function) interface{} {
	r.write("(fn (")
	for i, param := range node.Parameters {
		if i > 0 {
			r.write(", ")
		}
		r.write(param.Name)
		r.annotation(param.Type)
	}
	r.write(")")
	if node.ReturnType != nil {
		r.write(" -> ", node.ReturnType.Name)
	}
	r.write(" ")
	r.node(node.Body)
	r.write(")")
	return nil
}

func (r *renderer) VisitLet(node *ast.Let) interface{} {
	r.write("(let ", node.Name)
	r.annotation(node.Type)
	r.write(" = ")
	r.node(node.Value)
	r.write(")")
	return nil
}

// VisitExpressionStatement renders the bare expression; the ';' is implied by
// the statement's position in its block.
func (r *renderer) VisitExpressionStatement(node *ast.ExpressionStatement) interface{} {
	r.node(node.Expression)
	return nil
}

func (r *renderer) annotation(typ *ast.TypeAnnotation) {
	if typ != nil {
		r.write(": ", typ.Name)
	}
}

// Number formats a numeric literal with six significant digits, switching to
// exponent form for very large or small magnitudes.
func Number(value float64) string {
	return strconv.FormatFloat(value, 'g', 6, 64)
}

var quoteReplacer = strings.NewReplacer(
	"\\", `\\`,
	"\"", `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Quote wraps s in double quotes, escaping exactly the characters the lexer
// accepts as escapes.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
