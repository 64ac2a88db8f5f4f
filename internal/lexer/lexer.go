// Package lexer implements the sonar lexical analyzer. Tokenize performs a
// single left-to-right scan over the source bytes and either returns the full
// token stream, terminated by exactly one End token, or stops at the first
// malformed token with a *diagnostic.Error.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sonar-lang/sonar/internal/diagnostic"
	"github.com/sonar-lang/sonar/internal/position"
)

// Result is the output of a successful scan.
type Result struct {
	Tokens      []Token
	LineOffsets position.LineTable
}

// Lexer holds the scan state for one Tokenize call.
type Lexer struct {
	input    string
	position int // offset of the byte under examination
	tokens   []Token
	lines    position.LineTable
}

// New creates a lexer over input.
func New(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, len(input)/2+1),
		lines:  position.NewLineTable(),
	}
}

// Tokenize scans source and returns its tokens and line starts.
func Tokenize(source string) (*Result, error) {
	return New(source).Tokenize()
}

// Tokenize runs the scan to completion.
func (l *Lexer) Tokenize() (*Result, error) {
	for l.position < len(l.input) {
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	end := len(l.input)
	l.tokens = append(l.tokens, Token{Type: TokenEnd, Span: position.Span{Start: end, End: end}})
	return &Result{Tokens: l.tokens, LineOffsets: l.lines}, nil
}

// ch returns the byte under examination, or 0 at end of input.
func (l *Lexer) ch() byte {
	return l.peekChar(0)
}

// peekChar returns the byte offset bytes ahead without advancing
func (l *Lexer) peekChar(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// advance consumes one byte, recording a new line start after every newline.
func (l *Lexer) advance() byte {
	ch := l.input[l.position]
	l.position++
	if ch == '\n' {
		l.lines = append(l.lines, l.position)
	}
	return ch
}

func (l *Lexer) errorAt(offset int, format string, args ...any) error {
	return diagnostic.NewLexError(fmt.Sprintf(format, args...), offset, l.lines)
}

func (l *Lexer) emit(tokenType TokenType, start int) {
	l.tokens = append(l.tokens, Token{
		Type:   tokenType,
		Lexeme: l.input[start:l.position],
		Span:   position.Span{Start: start, End: l.position},
	})
}

// emitOperator consumes width bytes and emits them as one token.
func (l *Lexer) emitOperator(tokenType TokenType, width int) {
	start := l.position
	l.position += width
	l.emit(tokenType, start)
}

// scanToken consumes whitespace, a comment, or exactly one token.
func (l *Lexer) scanToken() error {
	start := l.position

	switch ch := l.ch(); ch {
	case '\n':
		l.advance()
	case ' ', '\t', '\r', '\v', '\f':
		l.position++
	case '+':
		l.emitOperator(TokenPlus, 1)
	case '*':
		l.emitOperator(TokenStar, 1)
	case '=':
		l.emitOperator(TokenEquals, 1)
	case '(':
		l.emitOperator(TokenLeftParen, 1)
	case ')':
		l.emitOperator(TokenRightParen, 1)
	case '{':
		l.emitOperator(TokenLeftBrace, 1)
	case '}':
		l.emitOperator(TokenRightBrace, 1)
	case ',':
		l.emitOperator(TokenComma, 1)
	case ':':
		l.emitOperator(TokenColon, 1)
	case ';':
		l.emitOperator(TokenSemicolon, 1)
	case '-':
		if l.peekChar(1) == '>' {
			l.emitOperator(TokenArrow, 2)
		} else {
			l.emitOperator(TokenMinus, 1)
		}
	case '&':
		if l.peekChar(1) == '&' {
			l.emitOperator(TokenAndAnd, 2)
		} else {
			l.emitOperator(TokenAmpersand, 1)
		}
	case '|':
		if l.peekChar(1) == '|' {
			l.emitOperator(TokenOrOr, 2)
		} else {
			l.emitOperator(TokenPipe, 1)
		}
	case '/':
		switch l.peekChar(1) {
		case '/':
			l.skipLineComment()
		case '*':
			return l.skipBlockComment()
		default:
			l.emitOperator(TokenSlash, 1)
		}
	case '"':
		return l.readString()
	default:
		switch {
		case ch == 'r' && (l.peekChar(1) == '"' || l.peekChar(1) == '#'):
			return l.readRawString()
		case isDigit(ch) || ch == '.':
			return l.readNumber()
		case isLetter(ch) || ch == '_':
			l.readIdentifier()
		default:
			r, _ := utf8.DecodeRuneInString(l.input[start:])
			return l.errorAt(start, "Unexpected character '%c'", r)
		}
	}

	return nil
}

// skipLineComment consumes up to, not including, the next newline.
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.ch() != '\n' {
		l.position++
	}
}

// skipBlockComment consumes a /* ... */ comment. Comments nest, so every
// opener needs its own closer.
func (l *Lexer) skipBlockComment() error {
	l.position += 2
	depth := 1
	for depth > 0 {
		if l.atEnd() {
			return l.errorAt(l.position, "Unterminated block comment")
		}
		switch {
		case l.ch() == '/' && l.peekChar(1) == '*':
			l.position += 2
			depth++
		case l.ch() == '*' && l.peekChar(1) == '/':
			l.position += 2
			depth--
		default:
			l.advance()
		}
	}
	return nil
}

// readNumber scans digits, an optional fraction, and an optional exponent.
// A literal may start with '.', in which case a digit must follow.
func (l *Lexer) readNumber() error {
	start := l.position

	if l.ch() == '.' && !isDigit(l.peekChar(1)) {
		return l.errorAt(start, "Standalone '.' is not a valid number")
	}

	l.skipDigits()
	if l.ch() == '.' {
		l.position++
		l.skipDigits()
	}

	if l.ch() == 'e' || l.ch() == 'E' {
		l.position++
		if l.ch() == '+' || l.ch() == '-' {
			l.position++
		}
		if !isDigit(l.ch()) {
			return l.errorAt(l.position, "Invalid exponent in number literal")
		}
		l.skipDigits()
	}

	l.emit(TokenNumber, start)
	return nil
}

func (l *Lexer) skipDigits() {
	for isDigit(l.ch()) {
		l.position++
	}
}

// readString scans a double-quoted literal, decoding escapes. The token's
// lexeme is the decoded value; its span covers both quotes.
func (l *Lexer) readString() error {
	start := l.position
	l.position++ // opening quote

	var value strings.Builder
	for {
		if l.atEnd() || l.ch() == '\n' {
			return l.errorAt(start, "Unterminated string literal")
		}

		ch := l.ch()
		if ch == '"' {
			l.position++
			break
		}
		if ch != '\\' {
			value.WriteByte(ch)
			l.position++
			continue
		}

		escapeAt := l.position
		l.position++
		if l.atEnd() {
			return l.errorAt(start, "Unterminated string literal")
		}
		switch escaped := l.ch(); escaped {
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case 'r':
			value.WriteByte('\r')
		case '\\':
			value.WriteByte('\\')
		case '"':
			value.WriteByte('"')
		default:
			r, _ := utf8.DecodeRuneInString(l.input[l.position:])
			return l.errorAt(escapeAt, "Invalid escape sequence '\\%c' in string literal", r)
		}
		l.position++
	}

	l.tokens = append(l.tokens, Token{
		Type:   TokenString,
		Lexeme: value.String(),
		Span:   position.Span{Start: start, End: l.position},
	})
	return nil
}

// readRawString scans r"...", r#"..."#, r##"..."## and so on. The number of
// '#' after the 'r' is the delimiter width; a '"' closes the literal only when
// followed by that many '#'. No escapes are processed.
func (l *Lexer) readRawString() error {
	start := l.position
	l.position++ // 'r'

	width := 0
	for l.ch() == '#' {
		width++
		l.position++
	}
	if l.ch() != '"' {
		return l.errorAt(start, "Invalid raw string literal")
	}
	l.position++

	contentStart := l.position
	for {
		if l.atEnd() {
			return l.errorAt(l.position, "Unterminated raw string literal")
		}
		if l.ch() == '"' && l.closesRawString(width) {
			break
		}
		l.advance()
	}

	value := l.input[contentStart:l.position]
	l.position += 1 + width
	l.tokens = append(l.tokens, Token{
		Type:   TokenString,
		Lexeme: value,
		Span:   position.Span{Start: start, End: l.position},
	})
	return nil
}

// closesRawString reports whether the '"' under examination is followed by
// width '#' characters.
func (l *Lexer) closesRawString(width int) bool {
	for i := 1; i <= width; i++ {
		if l.peekChar(i) != '#' {
			return false
		}
	}
	return true
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() {
	start := l.position
	for isLetter(l.ch()) || isDigit(l.ch()) || l.ch() == '_' {
		l.position++
	}
	l.emit(lookupIdent(l.input[start:l.position]), start)
}

// isLetter checks if character is ASCII letter
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
