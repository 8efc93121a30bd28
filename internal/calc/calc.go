// Package calc evaluates infix arithmetic expressions.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrSyntax         = errors.New("MATH_SYNTAX_ERROR")
	ErrDivisionByZero = errors.New("MATH_DIVISION_BY_ZERO")
)

// Evaluate computes expr with the usual precedence of + - * / and parentheses.
// Unary signs and decimal literals are accepted; spaces are ignored.
func Evaluate(expr string) (float64, error) {
	p := &parser{src: expr}
	p.skipSpaces()
	if p.done() {
		return 0, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	v, err := p.expression()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if !p.done() {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.src[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result out of range", ErrSyntax)
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpaces() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpaces()
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

// expression := term { (+|-) term }
func (p *parser) expression() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// term := unary { (*|/) unary }
func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

func (p *parser) unary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	c := p.peek()
	if c == '(' {
		p.pos++
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrSyntax)
		}
		p.pos++
		return v, nil
	}
	return p.number()
}

func (p *parser) number() (float64, error) {
	start := p.pos
	dots := 0
	for !p.done() {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	lit := p.src[start:p.pos]
	if lit == "" || lit == "." || dots > 1 {
		if p.done() {
			return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
		}
		return 0, fmt.Errorf("%w: invalid number %q at %d", ErrSyntax, lit, start)
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return v, nil
}
