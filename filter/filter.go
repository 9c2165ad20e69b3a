// Package filter implements the APRS-IS packet-filter evaluator (C9): a
// recursive-descent parser over a small boolean expression grammar with
// leaf predicates that inspect a decoded packet record.
package filter

import (
	"strings"

	"github.com/kc2g-aprs/tncd/parser"
)

type evaluator struct {
	lex *lexer
	cur token
	ctx *evalContext

	fromChan, toChan int
	filterStr        string
}

func (e *evaluator) advance() {
	e.cur = e.lex.next()
}

func (e *evaluator) err(pos int, message string) error {
	return &SyntaxError{
		FromChan: e.fromChan,
		ToChan:   e.toChan,
		Filter:   e.filterStr,
		Pos:      pos,
		Message:  message,
	}
}

// expr = or_expr
func (e *evaluator) parseExpr() (bool, error) {
	return e.parseOr()
}

// or_expr = and_expr ( '|' and_expr )*
func (e *evaluator) parseOr() (bool, error) {
	left, err := e.parseAnd()
	if err != nil {
		return false, err
	}
	for e.cur.kind == tokOr {
		e.advance()
		right, err := e.parseAnd()
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

// and_expr = primary ( '&' primary )*
func (e *evaluator) parseAnd() (bool, error) {
	left, err := e.parsePrimary()
	if err != nil {
		return false, err
	}
	for e.cur.kind == tokAnd {
		e.advance()
		right, err := e.parsePrimary()
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

// primary = '(' expr ')' | '!' primary | FILTER_SPEC
func (e *evaluator) parsePrimary() (bool, error) {
	switch e.cur.kind {
	case tokLParen:
		e.advance()
		v, err := e.parseExpr()
		if err != nil {
			return false, err
		}
		if e.cur.kind != tokRParen {
			return false, e.err(e.cur.pos, "expected ')'")
		}
		e.advance()
		return v, nil
	case tokNot:
		e.advance()
		v, err := e.parsePrimary()
		if err != nil {
			return false, err
		}
		return !v, nil
	case tokSpec:
		pos := e.cur.pos
		spec := e.cur.lit
		e.advance()
		v, err := e.ctx.evalSpec(spec, pos)
		if err != nil {
			if se, ok := err.(*specError); ok {
				return false, e.err(se.pos, se.message)
			}
			return false, e.err(pos, err.Error())
		}
		return v, nil
	default:
		return false, e.err(e.cur.pos, "expected filter spec, '(' or '!'")
	}
}

// Evaluate runs pfilter(from_chan, to_chan, filter_str, packet) per §6:
// 1 to pass, 0 to drop, or -1 together with a *SyntaxError on a filter
// syntax error. handle may be nil if the filter string is
// known not to use the 'd'/'v' digipeater predicates.
func Evaluate(fromChan, toChan int, filterStr string, p *parser.Parsed, handle PacketHandle) (int, error) {
	if strings.TrimSpace(filterStr) == "" {
		return -1, &SyntaxError{FromChan: fromChan, ToChan: toChan, Filter: filterStr, Pos: 0, Message: "empty filter"}
	}

	e := &evaluator{
		lex:       newLexer(filterStr),
		ctx:       &evalContext{p: p, handle: handle},
		fromChan:  fromChan,
		toChan:    toChan,
		filterStr: filterStr,
	}
	e.advance()

	result, err := e.parseExpr()
	if err != nil {
		return -1, err
	}
	if e.cur.kind != tokEOF {
		return -1, e.err(e.cur.pos, "unexpected token after expression")
	}

	if result {
		return 1, nil
	}
	return 0, nil
}
