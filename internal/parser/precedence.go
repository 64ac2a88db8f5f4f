package parser

import "github.com/sonar-lang/sonar/internal/lexer"

// Precedence levels for operators, lowest first.
type Precedence int

const (
	Lowest     Precedence = iota
	Assignment            // = (right associative)
	LogicalOr             // ||
	LogicalAnd            // &&
	BitwiseOr             // |
	BitwiseAnd            // &
	Sum                   // + -
	Product               // * /
	Prefix                // -X
)

// prefixRule selects the routine that parses an expression starting with a
// given token.
type prefixRule int

const (
	prefixNone prefixRule = iota
	prefixNumber
	prefixString
	prefixBoolean
	prefixVariable
	prefixGrouping
	prefixNegate
	prefixFunction
	prefixBlock
	prefixIf
	prefixWhile
	prefixFor
)

// prefixRuleFor returns the prefix rule for tokenType, or prefixNone.
func prefixRuleFor(tokenType lexer.TokenType) prefixRule {
	switch tokenType {
	case lexer.TokenNumber:
		return prefixNumber
	case lexer.TokenString:
		return prefixString
	case lexer.TokenTrue, lexer.TokenFalse:
		return prefixBoolean
	case lexer.TokenIdentifier:
		return prefixVariable
	case lexer.TokenLeftParen:
		return prefixGrouping
	case lexer.TokenMinus:
		return prefixNegate
	case lexer.TokenFn:
		return prefixFunction
	case lexer.TokenLeftBrace:
		return prefixBlock
	case lexer.TokenIf:
		return prefixIf
	case lexer.TokenWhile:
		return prefixWhile
	case lexer.TokenFor:
		return prefixFor
	default:
		return prefixNone
	}
}

// infixRule describes a binary operator.
type infixRule struct {
	precedence       Precedence
	rightAssociative bool
	assignment       bool
}

// infixRuleFor returns the infix rule for tokenType.
func infixRuleFor(tokenType lexer.TokenType) (infixRule, bool) {
	switch tokenType {
	case lexer.TokenEquals:
		return infixRule{precedence: Assignment, rightAssociative: true, assignment: true}, true
	case lexer.TokenOrOr:
		return infixRule{precedence: LogicalOr}, true
	case lexer.TokenAndAnd:
		return infixRule{precedence: LogicalAnd}, true
	case lexer.TokenPipe:
		return infixRule{precedence: BitwiseOr}, true
	case lexer.TokenAmpersand:
		return infixRule{precedence: BitwiseAnd}, true
	case lexer.TokenPlus, lexer.TokenMinus:
		return infixRule{precedence: Sum}, true
	case lexer.TokenStar, lexer.TokenSlash:
		return infixRule{precedence: Product}, true
	default:
		return infixRule{}, false
	}
}

// operandFloor is the floor used for the right operand. Left-associative
// operators bind their right side one level tighter.
func (r infixRule) operandFloor() Precedence {
	if r.rightAssociative {
		return r.precedence
	}
	return r.precedence + 1
}
