package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sonar-lang/sonar/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// Token types
const (
	// literals
	TokenNumber TokenType = iota
	TokenString
	TokenIdentifier
	TokenTrue
	TokenFalse

	// keywords
	TokenLet
	TokenFn
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenIn

	// operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenAmpersand
	TokenPipe
	TokenAndAnd
	TokenOrOr
	TokenEquals
	TokenArrow

	// punctuation
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenColon
	TokenSemicolon

	// TokenEnd terminates every token stream.
	TokenEnd
)

// tokenNames holds the source spelling of each token type. The renderer and
// parser messages rely on these exact strings.
var tokenNames = map[TokenType]string{
	TokenNumber:     "number",
	TokenString:     "string",
	TokenIdentifier: "identifier",
	TokenTrue:       "true",
	TokenFalse:      "false",

	TokenLet:   "let",
	TokenFn:    "fn",
	TokenIf:    "if",
	TokenElse:  "else",
	TokenFor:   "for",
	TokenWhile: "while",
	TokenIn:    "in",

	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenAmpersand: "&",
	TokenPipe:      "|",
	TokenAndAnd:    "&&",
	TokenOrOr:      "||",
	TokenEquals:    "=",
	TokenArrow:     "->",

	TokenLeftParen:  "(",
	TokenRightParen: ")",
	TokenLeftBrace:  "{",
	TokenRightBrace: "}",
	TokenComma:      ",",
	TokenColon:      ":",
	TokenSemicolon:  ";",

	TokenEnd: "<eof>",
}

// String returns the source spelling of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// keywords maps reserved words to their token types
var keywords = map[string]TokenType{
	"let":   TokenLet,
	"fn":    TokenFn,
	"if":    TokenIf,
	"else":  TokenElse,
	"for":   TokenFor,
	"while": TokenWhile,
	"in":    TokenIn,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// lookupIdent checks if identifier is keyword
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Token is a lexical token. For strings Lexeme holds the decoded value; for
// every other kind it is the verbatim source slice. The End token has an
// empty lexeme.
type Token struct {
	Type   TokenType
	Lexeme string
	Span   position.Span
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Lexeme: %q, Span: %s}", t.Type, t.Lexeme, t.Span)
}

// Number converts a number token's lexeme to its value. Conversion happens
// here rather than in the lexer, so out-of-range literals surface only when
// the value is needed.
func (t Token) Number() (float64, error) {
	value, err := strconv.ParseFloat(t.Lexeme, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return value, nil
}
