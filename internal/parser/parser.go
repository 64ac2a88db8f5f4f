// Package parser implements the sonar Pratt parser. It turns the token stream
// produced by the lexer into a single ast.Expression: the whole program is a
// Block when it holds statements, the bare trailing value when it holds none,
// and Unit when the input is empty.
//
// Parsing is fail-fast. The first violation aborts the parse with one
// *diagnostic.Error whose Incomplete flag tells interactive callers whether
// more input could still make the program valid.
package parser

import (
	"fmt"

	"github.com/sonar-lang/sonar/internal/ast"
	"github.com/sonar-lang/sonar/internal/diagnostic"
	"github.com/sonar-lang/sonar/internal/lexer"
	"github.com/sonar-lang/sonar/internal/position"
)

const msgUnexpectedEnd = "Unexpected end of input while parsing expression"

// Parser holds the cursor over one token stream.
type Parser struct {
	tokens  []lexer.Token
	current int

	lines      position.LineTable
	sourceName string
}

// New creates a parser over tokens. The stream is expected to end with an End
// token; one is appended when it does not. sourceName only labels errors.
func New(tokens []lexer.Token, lineOffsets position.LineTable, sourceName string) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEnd {
		end := 0
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Span.End
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{
			Type: lexer.TokenEnd,
			Span: position.Span{Start: end, End: end},
		})
	}
	if len(lineOffsets) == 0 {
		lineOffsets = position.NewLineTable()
	}

	return &Parser{
		tokens:     tokens,
		lines:      lineOffsets,
		sourceName: sourceName,
	}
}

// Parse parses tokens into a program expression.
func Parse(tokens []lexer.Token, lineOffsets position.LineTable, sourceName string) (ast.Expression, error) {
	return New(tokens, lineOffsets, sourceName).Parse()
}

// ParseSource tokenizes and parses source in one step. Lexical errors are
// labelled with sourceName as well.
func ParseSource(source, sourceName string) (ast.Expression, error) {
	result, err := lexer.Tokenize(source)
	if err != nil {
		if diag, ok := diagnostic.As(err); ok {
			return nil, diag.WithSourceName(sourceName)
		}
		return nil, err
	}
	return Parse(result.Tokens, result.LineOffsets, sourceName)
}

// Parse parses the whole token stream.
func (p *Parser) Parse() (ast.Expression, error) {
	seq, err := p.parseSequence(lexer.TokenEnd)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenEnd, "Expected end of input"); err != nil {
		return nil, err
	}

	if len(seq.statements) == 0 {
		if seq.value == nil {
			return &ast.Unit{Span: p.tokens[len(p.tokens)-1].Span}, nil
		}
		return seq.value, nil
	}

	end := seq.statements[len(seq.statements)-1].GetSpan().End
	if seq.value != nil {
		end = seq.value.GetSpan().End
	}
	return &ast.Block{
		Span:       position.Span{Start: seq.statements[0].GetSpan().Start, End: end},
		Statements: seq.statements,
		Value:      seq.value,
	}, nil
}

// ====== Token cursor ======

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

// peekAt looks offset tokens ahead, clamping at the End token.
func (p *Parser) peekAt(offset int) lexer.Token {
	return p.tokens[min(p.current+offset, len(p.tokens)-1)]
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.TokenEnd
}

// advance consumes the current token. At End it returns End without moving.
func (p *Parser) advance() lexer.Token {
	token := p.peek()
	if !p.atEnd() {
		p.current++
	}
	return token
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

// match consumes the current token if it has the given type.
func (p *Parser) match(tokenType lexer.TokenType) bool {
	if !p.check(tokenType) {
		return false
	}
	p.advance()
	return true
}

// consume requires the current token to have the given type. A failure at End
// is reported as incomplete.
func (p *Parser) consume(tokenType lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(message, p.peek().Span, p.atEnd())
}

func (p *Parser) errorAt(message string, span position.Span, incomplete bool) error {
	return diagnostic.NewParseError(message, span, p.lines, incomplete, p.sourceName)
}

func (p *Parser) errorf(span position.Span, format string, args ...any) error {
	return p.errorAt(fmt.Sprintf(format, args...), span, false)
}
