package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonar-lang/sonar/internal/ast"
	"github.com/sonar-lang/sonar/internal/diagnostic"
	"github.com/sonar-lang/sonar/internal/format"
	"github.com/sonar-lang/sonar/internal/lexer"
	"github.com/sonar-lang/sonar/internal/position"
)

// parseError parses input and returns the diagnostic it must fail with.
func parseError(t *testing.T, input string) *diagnostic.Error {
	t.Helper()
	expr, err := ParseSource(input, "test.sn")
	require.Error(t, err, "input %q parsed to %s", input, format.Expression(expr))
	diag, ok := diagnostic.As(err)
	require.True(t, ok, "expected *diagnostic.Error, got %T", err)
	return diag
}

func TestEmptyProgramIsUnit(t *testing.T) {
	expr, err := ParseSource("", "test.sn")
	require.NoError(t, err)

	unit, ok := expr.(*ast.Unit)
	require.True(t, ok, "expected *ast.Unit, got %T", expr)
	assert.Equal(t, position.Span{Start: 0, End: 0}, unit.Span)

	expr, err = ParseSource("  // nothing\n ", "test.sn")
	require.NoError(t, err)
	assert.Equal(t, position.Span{Start: 14, End: 14}, expr.GetSpan())
}

func TestProgramWithoutStatementsIsBareValue(t *testing.T) {
	expr, err := ParseSource("  1 + 2 ", "test.sn")
	require.NoError(t, err)

	infix, ok := expr.(*ast.Infix)
	require.True(t, ok, "expected *ast.Infix, got %T", expr)
	assert.Equal(t, position.Span{Start: 2, End: 7}, infix.Span)
	assert.Equal(t, position.Span{Start: 4, End: 5}, infix.OpSpan)
	assert.Equal(t, lexer.TokenPlus, infix.Op)
}

func TestProgramBlockSpan(t *testing.T) {
	expr, err := ParseSource(" 1; 2 ", "test.sn")
	require.NoError(t, err)

	block, ok := expr.(*ast.Block)
	require.True(t, ok, "expected *ast.Block, got %T", expr)
	assert.Equal(t, position.Span{Start: 1, End: 5}, block.Span)
	require.Len(t, block.Statements, 1)
	assert.NotNil(t, block.Value)

	expr, err = ParseSource("let a = 1; let b = 2;", "test.sn")
	require.NoError(t, err)
	assert.Equal(t, position.Span{Start: 0, End: 20}, expr.GetSpan())
}

func TestLetFlagScenario(t *testing.T) {
	expr, err := ParseSource("let flag = true && false || true;\nflag", "test.sn")
	require.NoError(t, err)

	block, ok := expr.(*ast.Block)
	require.True(t, ok, "expected *ast.Block, got %T", expr)
	require.Len(t, block.Statements, 1)

	let, ok := block.Statements[0].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "flag", let.Name)
	assert.Equal(t, position.Span{Start: 4, End: 8}, let.NameSpan)
	assert.Nil(t, let.Type)

	assert.Equal(t, "{ (let flag = (|| (&& true false) true)) flag }", format.Expression(expr))
}

func TestBlockTrailingValue(t *testing.T) {
	expr, err := ParseSource("{ 1; }", "test.sn")
	require.NoError(t, err)
	block := expr.(*ast.Block)
	assert.Len(t, block.Statements, 1)
	assert.Nil(t, block.Value)
	assert.Equal(t, position.Span{Start: 0, End: 6}, block.Span)

	expr, err = ParseSource("{ 1; 2 }", "test.sn")
	require.NoError(t, err)
	block = expr.(*ast.Block)
	assert.Len(t, block.Statements, 1)
	require.NotNil(t, block.Value)
	assert.Equal(t, "2", format.Expression(block.Value))

	expr, err = ParseSource("{ ;; 1 ;; }", "test.sn")
	require.NoError(t, err)
	assert.Equal(t, "{ 1 }", format.Expression(expr))
}

func TestNamedFunctionDesugarsToLet(t *testing.T) {
	expr, err := ParseSource("fn id(x: number) -> number x\nid", "test.sn")
	require.NoError(t, err)

	block := expr.(*ast.Block)
	require.Len(t, block.Statements, 1)
	let, ok := block.Statements[0].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "id", let.Name)
	assert.Equal(t, position.Span{Start: 3, End: 5}, let.NameSpan)

	fn, ok := let.Value.(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, position.Span{Start: 0, End: 28}, fn.Span)
	assert.Equal(t, fn.Span, let.Span)
	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, "x", fn.Parameters[0].Name)
	assert.Equal(t, "number", fn.Parameters[0].Type.Name)
	assert.Equal(t, "number", fn.ReturnType.Name)
}

func TestAnonymousFunctionIsExpression(t *testing.T) {
	expr, err := ParseSource("fn() -> unit ()", "test.sn")
	require.NoError(t, err)

	fn, ok := expr.(*ast.Function)
	require.True(t, ok, "expected *ast.Function, got %T", expr)
	assert.Empty(t, fn.Parameters)
	assert.Equal(t, "(fn () -> unit (unit))", format.Expression(fn))
}

func TestAssignmentTarget(t *testing.T) {
	expr, err := ParseSource("total = 1 + 2", "test.sn")
	require.NoError(t, err)

	assign, ok := expr.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "total", assign.Name)
	assert.Equal(t, position.Span{Start: 0, End: 5}, assign.NameSpan)
	assert.Equal(t, position.Span{Start: 0, End: 13}, assign.Span)

	diag := parseError(t, "(a) = 1")
	assert.Equal(t, "Left-hand side of assignment must be a variable", diag.Message)
	assert.Equal(t, position.Span{Start: 4, End: 5}, diag.Span)
	assert.False(t, diag.Incomplete)

	diag = parseError(t, "a + b = 1")
	assert.Equal(t, "Left-hand side of assignment must be a variable", diag.Message)
}

func TestControlFlowSpans(t *testing.T) {
	expr, err := ParseSource("if a { b } else { c }", "test.sn")
	require.NoError(t, err)
	ifExpr := expr.(*ast.If)
	assert.Equal(t, position.Span{Start: 0, End: 21}, ifExpr.Span)
	require.NotNil(t, ifExpr.Else)

	expr, err = ParseSource("for x in xs { x }", "test.sn")
	require.NoError(t, err)
	forExpr := expr.(*ast.For)
	assert.Equal(t, "x", forExpr.Variable.Name)
	assert.Equal(t, position.Span{Start: 4, End: 5}, forExpr.Variable.Span)
	assert.Equal(t, position.Span{Start: 0, End: 17}, forExpr.Span)

	expr, err = ParseSource("while x x = x - 1", "test.sn")
	require.NoError(t, err)
	assert.Equal(t, "(while x (assign x = (- x 1)))", format.Expression(expr))
}

// TestSpansEncloseChildren walks a tree touching every node kind.
func TestSpansEncloseChildren(t *testing.T) {
	source := `let total: number = 0;
fn bump(by: number) -> number { total = total + by; total }
for i in items {
	if i & 1 { total = -i } else { (i) };
};
while total | 0 { total = total / 2; };
r#"done"# || ()`

	expr, err := ParseSource(source, "test.sn")
	require.NoError(t, err)

	count := 0
	ast.Inspect(expr, func(node ast.Node) bool {
		count++
		span := node.GetSpan()
		assert.True(t, span.IsValid(), "%T has invalid span %s", node, span)
		assert.LessOrEqual(t, span.End, len(source))
		for _, child := range ast.Children(node) {
			assert.True(t, span.Contains(child.GetSpan()),
				"%T %s does not enclose %T %s", node, span, child, child.GetSpan())
		}
		return true
	})
	assert.Greater(t, count, 30)
}

func TestIncompleteInput(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"1 +", "Unexpected end of input while parsing expression"},
		{"-", "Unexpected end of input while parsing expression"},
		{"(1 + 2", "Expected ')' after expression"},
		{"{ let x = 1;", "Expected '}' after block"},
		{"let", "Expected identifier after 'let'"},
		{"let x", "Expected '=' after identifier (or type annotation)"},
		{"let x: ", "Expected type name"},
		{"let x = 1", "Expected ';' after let statement"},
		{"fn(", "Expected parameter name"},
		{"fn(name", "Expected ':' after parameter name"},
		{"fn(name: string", "Expected ')' after parameter list"},
		{"fn(name: string)", "Expected '->' after parameter list"},
		{"fn(name: string) ->", "Expected type name"},
		{"fn(name: string) -> string", "Unexpected end of input while parsing expression"},
		{"fn", "Expected '(' after 'fn'"},
		{"fn named", "Expected '(' after 'fn'"},
		{"if x", "Unexpected end of input while parsing expression"},
		{"if x y else", "Unexpected end of input while parsing expression"},
		{"while", "Unexpected end of input while parsing expression"},
		{"for", "Expected identifier after 'for'"},
		{"for x", "Expected 'in' after loop variable"},
		{"for x in xs", "Unexpected end of input while parsing expression"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			diag := parseError(t, tt.input)
			assert.Equal(t, tt.message, diag.Message)
			assert.True(t, diag.Incomplete, "expected incomplete for %q", tt.input)
			assert.Equal(t, position.Span{Start: len(tt.input), End: len(tt.input)}, diag.Span)
			assert.True(t, diagnostic.IsIncomplete(diag))
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		span    position.Span
	}{
		{"1 1", "Unexpected expression after final expression", position.Span{Start: 2, End: 3}},
		{"{ 1 2 }", "Unexpected expression after final expression", position.Span{Start: 4, End: 5}},
		{"x let y = 1;", "Unexpected expression after final expression", position.Span{Start: 2, End: 5}},
		{"1 )", "Expected end of input", position.Span{Start: 2, End: 3}},
		{"{ 1 )", "Expected '}' after block", position.Span{Start: 4, End: 5}},
		{"(1 2)", "Expected ')' after expression", position.Span{Start: 3, End: 4}},
		{"1 + let", "Unexpected 'let' while parsing expression", position.Span{Start: 4, End: 7}},
		{")", "Unexpected token ')' while parsing expression", position.Span{Start: 0, End: 1}},
		{"else", "Unexpected token 'else' while parsing expression", position.Span{Start: 0, End: 4}},
		{"let x = 1 2", "Expected ';' after let statement", position.Span{Start: 10, End: 11}},
		{"let 1 = 2;", "Expected identifier after 'let'", position.Span{Start: 4, End: 5}},
		{"fn f() -> unit {};", "Unexpected ';' after function definition", position.Span{Start: 17, End: 18}},
		{"fn(name) -> string name", "Expected ':' after parameter name", position.Span{Start: 7, End: 8}},
		{"fn(name: string) string", "Expected '->' after parameter list", position.Span{Start: 17, End: 23}},
		{"fn(a: T b: U) -> R a", "Expected ')' after parameter list", position.Span{Start: 8, End: 9}},
		{"fn(1) -> R a", "Expected parameter name", position.Span{Start: 3, End: 4}},
		{"fn x y", "Expected '(' after 'fn'", position.Span{Start: 5, End: 6}},
		{"let value: = 1;", "Expected type name", position.Span{Start: 11, End: 12}},
		{"let value: number 1;", "Expected '=' after identifier (or type annotation)", position.Span{Start: 18, End: 19}},
		{"for 1 in x y", "Expected identifier after 'for'", position.Span{Start: 4, End: 5}},
		{"for x of y z", "Expected 'in' after loop variable", position.Span{Start: 6, End: 8}},
		{"1e999", "Failed to parse number '1e999': value out of range", position.Span{Start: 0, End: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			diag := parseError(t, tt.input)
			assert.Equal(t, tt.message, diag.Message)
			assert.Equal(t, tt.span, diag.Span)
			assert.False(t, diag.Incomplete, "expected complete for %q", tt.input)
			assert.Equal(t, diagnostic.KindParse, diag.Kind)
		})
	}
}

func TestErrorLocationAndSourceName(t *testing.T) {
	_, err := ParseSource("let x = 1;\nlet y = ;", "main.sn")
	require.Error(t, err)
	assert.Equal(t, "main.sn:2:9: error: Unexpected token ';' while parsing expression", err.Error())

	_, err = ParseSource("x +", "<repl #3>")
	require.Error(t, err)
	assert.Equal(t, "<repl #3>:1:4: error: Unexpected end of input while parsing expression", err.Error())
}

func TestParseSourceLabelsLexErrors(t *testing.T) {
	_, err := ParseSource("r\"a\nb\n\" \"c", "snippet.sn")
	require.Error(t, err)

	diag, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, diagnostic.KindLex, diag.Kind)
	assert.False(t, diag.Incomplete)
	assert.Equal(t, "snippet.sn", diag.SourceName)
	assert.Equal(t, "snippet.sn:3:3: error: Unterminated string literal", err.Error())
}

func TestParseTokensDirectly(t *testing.T) {
	result, err := lexer.Tokenize("a + 1")
	require.NoError(t, err)

	expr, err := Parse(result.Tokens, result.LineOffsets, "tokens")
	require.NoError(t, err)
	assert.Equal(t, "(+ a 1)", format.Expression(expr))
}

func TestParseToleratesMissingEndToken(t *testing.T) {
	expr, err := Parse(nil, nil, "")
	require.NoError(t, err)
	assert.IsType(t, &ast.Unit{}, expr)

	tokens := []lexer.Token{
		{Type: lexer.TokenIdentifier, Lexeme: "a", Span: position.Span{Start: 0, End: 1}},
		{Type: lexer.TokenPlus, Lexeme: "+", Span: position.Span{Start: 2, End: 3}},
	}
	_, err = Parse(tokens, nil, "")
	require.Error(t, err)
	assert.True(t, diagnostic.IsIncomplete(err))
	assert.Len(t, tokens, 2)
}
