package parser

import (
	"github.com/sonar-lang/sonar/internal/ast"
	"github.com/sonar-lang/sonar/internal/lexer"
	"github.com/sonar-lang/sonar/internal/position"
)

// sequence is the body of a block or of the program.
type sequence struct {
	statements []ast.Statement
	value      ast.Expression
}

// parseSequence parses statements until terminator or End. An expression not
// followed by ';' becomes the trailing value and ends the sequence; the caller
// then requires the terminator.
func (p *Parser) parseSequence(terminator lexer.TokenType) (*sequence, error) {
	seq := &sequence{}

	for !p.check(terminator) && !p.atEnd() {
		if p.match(lexer.TokenSemicolon) {
			continue
		}

		if p.check(lexer.TokenLet) {
			stmt, err := p.parseLetStatement()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(lexer.TokenSemicolon, "Expected ';' after let statement"); err != nil {
				return nil, err
			}
			seq.statements = append(seq.statements, stmt)
			continue
		}

		if p.startsFunctionDeclaration() {
			stmt, err := p.parseFunctionDeclaration()
			if err != nil {
				return nil, err
			}
			if p.check(lexer.TokenSemicolon) {
				return nil, p.errorAt("Unexpected ';' after function definition", p.peek().Span, false)
			}
			seq.statements = append(seq.statements, stmt)
			continue
		}

		expr, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		if p.match(lexer.TokenSemicolon) {
			seq.statements = append(seq.statements, &ast.ExpressionStatement{
				Span:       expr.GetSpan(),
				Expression: expr,
			})
			continue
		}

		if p.startsStatement() {
			return nil, p.errorAt("Unexpected expression after final expression", p.peek().Span, false)
		}
		seq.value = expr
		break
	}

	return seq, nil
}

// startsFunctionDeclaration distinguishes "fn name(...)" from an anonymous
// function literal.
func (p *Parser) startsFunctionDeclaration() bool {
	return p.check(lexer.TokenFn) && p.peekAt(1).Type == lexer.TokenIdentifier
}

// startsStatement reports whether the current token could begin another
// statement or expression.
func (p *Parser) startsStatement() bool {
	return p.check(lexer.TokenLet) || prefixRuleFor(p.peek().Type) != prefixNone
}

// parseLetStatement parses "let" NAME [":" TYPE] "=" expr, without the ';'.
func (p *Parser) parseLetStatement() (*ast.Let, error) {
	letToken := p.advance()

	name, err := p.consume(lexer.TokenIdentifier, "Expected identifier after 'let'")
	if err != nil {
		return nil, err
	}

	var typ *ast.TypeAnnotation
	if p.match(lexer.TokenColon) {
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.TokenEquals, "Expected '=' after identifier (or type annotation)"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	return &ast.Let{
		Span:     position.Span{Start: letToken.Span.Start, End: value.GetSpan().End},
		Name:     name.Lexeme,
		NameSpan: name.Span,
		Type:     typ,
		Value:    value,
	}, nil
}

// parseFunctionDeclaration parses "fn" NAME function-literal as a let binding.
func (p *Parser) parseFunctionDeclaration() (*ast.Let, error) {
	fnToken := p.advance()

	name, err := p.consume(lexer.TokenIdentifier, "Expected function name after 'fn'")
	if err != nil {
		return nil, err
	}
	fn, err := p.parseFunction(fnToken)
	if err != nil {
		return nil, err
	}

	return &ast.Let{
		Span:     fn.Span,
		Name:     name.Lexeme,
		NameSpan: name.Span,
		Value:    fn,
	}, nil
}
