package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reldb/reldb/internal/reldberr"
)

// Operand is one side of a Condition: either a bare literal value or a
// reference to a column name. In a select/update/delete condition one
// operand is a column and the other a literal (spec.md S4.1); a join
// condition of two dotted names parses with both operands as columns.
type Operand struct {
	IsColumn bool
	Column   string
	Literal  any
}

// Condition is the parsed form of "operand operator operand".
type Condition struct {
	Left     Operand
	Operator string
	Right    Operand
}

// Parser consumes a Lexer's token stream and builds a single Condition. It
// holds one token of lookahead, mirroring the teacher's recursive-descent
// parser's advance/peek pair.
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser constructs a Parser over raw condition text.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.current = p.lexer.NextToken()
}

// Parse parses the full condition string and returns the resulting
// Condition, or reldberr.ErrMalformedCondition if no recognized operator
// separates two operands.
func Parse(input string) (Condition, error) {
	p := NewParser(input)
	return p.parseCondition()
}

func (p *Parser) parseCondition() (Condition, error) {
	left, err := p.parseOperand()
	if err != nil {
		return Condition{}, err
	}

	if p.current.Type != TokenOperator {
		return Condition{}, fmt.Errorf("condition %q: %w", input(p), reldberr.ErrMalformedCondition)
	}
	op := normalizeOperator(p.current.Text)
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return Condition{}, err
	}

	resolveAmbiguousColumn(&left, &right)

	return Condition{Left: left, Operator: op, Right: right}, nil
}

// resolveAmbiguousColumn breaks the tie when both operands scanned as bare
// identifiers (spec.md S4.1: "Exactly one of L, R is expected to be a
// column name"). A dotted identifier ("table.column") is unambiguously a
// qualified column reference; two plain, undotted identifiers can't both be
// columns of the same table, so the right-hand one is reinterpreted as a
// string literal using its scanned text, leaving the left-hand one as the
// column.
func resolveAmbiguousColumn(left, right *Operand) {
	if !left.IsColumn || !right.IsColumn {
		return
	}
	if strings.Contains(left.Column, ".") || strings.Contains(right.Column, ".") {
		return
	}
	right.IsColumn = false
	right.Literal = right.Column
	right.Column = ""
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.current
	switch tok.Type {
	case TokenString:
		p.advance()
		return Operand{IsColumn: false, Literal: tok.Text}, nil
	case TokenNumber:
		p.advance()
		return Operand{IsColumn: false, Literal: parseNumericLiteral(tok.Text)}, nil
	case TokenIdent:
		p.advance()
		if lit, ok := parseBareLiteral(tok.Text); ok {
			return Operand{IsColumn: false, Literal: lit}, nil
		}
		return Operand{IsColumn: true, Column: tok.Text}, nil
	default:
		return Operand{}, fmt.Errorf("condition: unexpected token: %w", reldberr.ErrMalformedCondition)
	}
}

// normalizeOperator collapses "==" onto "=" so downstream comparison logic
// has one canonical equality spelling, per spec.md S4.1's operator set.
func normalizeOperator(op string) string {
	if op == "==" {
		return "="
	}
	return op
}

func parseNumericLiteral(text string) any {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}
	f, _ := strconv.ParseFloat(text, 64)
	return f
}

// parseBareLiteral recognizes unquoted boolean/null literals that the lexer
// tokenizes as TokenIdent because they contain no quote marks.
func parseBareLiteral(text string) (any, bool) {
	switch text {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "nil":
		return nil, true
	}
	return nil, false
}

func input(p *Parser) string {
	return string(p.lexer.input)
}
