package parser

import (
	"github.com/sonar-lang/sonar/internal/ast"
	"github.com/sonar-lang/sonar/internal/lexer"
	"github.com/sonar-lang/sonar/internal/position"
)

// ====== Expression Parsing (Pratt Parser) ======

// parseExpression parses one expression whose infix operators all bind at
// least as tightly as floor.
func (p *Parser) parseExpression(floor Precedence) (ast.Expression, error) {
	if p.atEnd() {
		return nil, p.errorAt(msgUnexpectedEnd, p.peek().Span, true)
	}

	token := p.advance()
	left, err := p.parsePrefix(token)
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		rule, ok := infixRuleFor(p.peek().Type)
		if !ok || rule.precedence < floor {
			break
		}
		op := p.advance()
		if left, err = p.parseInfix(left, op, rule); err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix dispatches on the token that starts an expression.
func (p *Parser) parsePrefix(token lexer.Token) (ast.Expression, error) {
	switch prefixRuleFor(token.Type) {
	case prefixNumber:
		return p.parseNumber(token)
	case prefixString:
		return &ast.String{Span: token.Span, Value: token.Lexeme}, nil
	case prefixBoolean:
		return &ast.Boolean{Span: token.Span, Value: token.Type == lexer.TokenTrue}, nil
	case prefixVariable:
		return p.parseVariable(token), nil
	case prefixGrouping:
		return p.parseGrouping(token)
	case prefixNegate:
		return p.parseNegation(token)
	case prefixFunction:
		fn, err := p.parseFunction(token)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case prefixBlock:
		return p.parseBlock(token)
	case prefixIf:
		return p.parseIf(token)
	case prefixWhile:
		return p.parseWhile(token)
	case prefixFor:
		return p.parseFor(token)
	}

	switch token.Type {
	case lexer.TokenLet:
		return nil, p.errorAt("Unexpected 'let' while parsing expression", token.Span, false)
	case lexer.TokenEnd:
		return nil, p.errorAt(msgUnexpectedEnd, token.Span, true)
	default:
		return nil, p.errorf(token.Span, "Unexpected token '%s' while parsing expression", token.Lexeme)
	}
}

// parseInfix builds the node for a binary operator whose left operand is
// already parsed.
func (p *Parser) parseInfix(left ast.Expression, op lexer.Token, rule infixRule) (ast.Expression, error) {
	if rule.assignment {
		return p.parseAssignment(left, op, rule)
	}

	right, err := p.parseExpression(rule.operandFloor())
	if err != nil {
		return nil, err
	}
	return &ast.Infix{
		Span:   position.Span{Start: left.GetSpan().Start, End: right.GetSpan().End},
		Op:     op.Type,
		OpSpan: op.Span,
		Left:   left,
		Right:  right,
	}, nil
}

// parseAssignment requires the target to be a bare variable.
func (p *Parser) parseAssignment(left ast.Expression, op lexer.Token, rule infixRule) (ast.Expression, error) {
	target, ok := left.(*ast.Variable)
	if !ok {
		return nil, p.errorAt("Left-hand side of assignment must be a variable", op.Span, false)
	}

	value, err := p.parseExpression(rule.operandFloor())
	if err != nil {
		return nil, err
	}
	return &ast.Assign{
		Span:     position.Span{Start: left.GetSpan().Start, End: value.GetSpan().End},
		Name:     target.Name,
		NameSpan: target.NameSpan,
		Value:    value,
	}, nil
}

func (p *Parser) parseNumber(token lexer.Token) (ast.Expression, error) {
	value, err := token.Number()
	if err != nil {
		return nil, p.errorf(token.Span, "Failed to parse number '%s': %v", token.Lexeme, err)
	}
	return &ast.Number{Span: token.Span, Value: value}, nil
}

func (p *Parser) parseVariable(token lexer.Token) *ast.Variable {
	return &ast.Variable{Span: token.Span, Name: token.Lexeme, NameSpan: token.Span}
}

func (p *Parser) parseNegation(op lexer.Token) (ast.Expression, error) {
	operand, err := p.parseExpression(Prefix)
	if err != nil {
		return nil, err
	}
	return &ast.Prefix{
		Span:    position.Span{Start: op.Span.Start, End: operand.GetSpan().End},
		Op:      op.Type,
		OpSpan:  op.Span,
		Operand: operand,
	}, nil
}

// parseGrouping parses "(expr)", or "()" which is the unit value.
func (p *Parser) parseGrouping(open lexer.Token) (ast.Expression, error) {
	if p.check(lexer.TokenRightParen) {
		closing := p.advance()
		return &ast.Unit{Span: position.Span{Start: open.Span.Start, End: closing.Span.End}}, nil
	}

	inner, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	closing, err := p.consume(lexer.TokenRightParen, "Expected ')' after expression")
	if err != nil {
		return nil, err
	}
	return &ast.Grouping{
		Span:  position.Span{Start: open.Span.Start, End: closing.Span.End},
		Inner: inner,
	}, nil
}

func (p *Parser) parseBlock(open lexer.Token) (ast.Expression, error) {
	seq, err := p.parseSequence(lexer.TokenRightBrace)
	if err != nil {
		return nil, err
	}
	closing, err := p.consume(lexer.TokenRightBrace, "Expected '}' after block")
	if err != nil {
		return nil, err
	}
	return &ast.Block{
		Span:       position.Span{Start: open.Span.Start, End: closing.Span.End},
		Statements: seq.statements,
		Value:      seq.value,
	}, nil
}

func (p *Parser) parseIf(ifToken lexer.Token) (ast.Expression, error) {
	condition, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	then, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	node := &ast.If{
		Span:      position.Span{Start: ifToken.Span.Start, End: then.GetSpan().End},
		Condition: condition,
		Then:      then,
	}
	if p.match(lexer.TokenElse) {
		if node.Else, err = p.parseExpression(Lowest); err != nil {
			return nil, err
		}
		node.Span.End = node.Else.GetSpan().End
	}
	return node, nil
}

func (p *Parser) parseWhile(whileToken lexer.Token) (ast.Expression, error) {
	condition, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	return &ast.While{
		Span:      position.Span{Start: whileToken.Span.Start, End: body.GetSpan().End},
		Condition: condition,
		Body:      body,
	}, nil
}

func (p *Parser) parseFor(forToken lexer.Token) (ast.Expression, error) {
	name, err := p.consume(lexer.TokenIdentifier, "Expected identifier after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenIn, "Expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Span:     position.Span{Start: forToken.Span.Start, End: body.GetSpan().End},
		Variable: p.parseVariable(name),
		Iterable: iterable,
		Body:     body,
	}, nil
}

// parseFunction parses the remainder of a function literal after 'fn' (and
// after the name, for declarations):
//
//	"(" [NAME ":" TYPE {"," NAME ":" TYPE}] ")" "->" TYPE body
func (p *Parser) parseFunction(fnToken lexer.Token) (*ast.Function, error) {
	if _, err := p.consume(lexer.TokenLeftParen, "Expected '(' after 'fn'"); err != nil {
		return nil, err
	}

	var params []ast.Parameter
	if !p.check(lexer.TokenRightParen) {
		for {
			param, err := p.parseParameter()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}

	if _, err := p.consume(lexer.TokenRightParen, "Expected ')' after parameter list"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenArrow, "Expected '->' after parameter list"); err != nil {
		return nil, err
	}
	returnType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Span:       position.Span{Start: fnToken.Span.Start, End: body.GetSpan().End},
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
	}, nil
}

func (p *Parser) parseParameter() (ast.Parameter, error) {
	name, err := p.consume(lexer.TokenIdentifier, "Expected parameter name")
	if err != nil {
		return ast.Parameter{}, err
	}
	if _, err := p.consume(lexer.TokenColon, "Expected ':' after parameter name"); err != nil {
		return ast.Parameter{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return ast.Parameter{}, err
	}
	return ast.Parameter{Name: name.Lexeme, Span: name.Span, Type: typ}, nil
}

// parseType parses a type name. Types are single identifiers.
func (p *Parser) parseType() (*ast.TypeAnnotation, error) {
	name, err := p.consume(lexer.TokenIdentifier, "Expected type name")
	if err != nil {
		return nil, err
	}
	return &ast.TypeAnnotation{Name: name.Lexeme, Span: name.Span}, nil
}
