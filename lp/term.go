package lp

import "fmt"

// Term represents a coeff * element product inside an affine expression.
type Term struct {
	Elem  Element
	Coeff float64
}

// NewTerm helper to build a term.
func NewTerm(el Element, coeff float64) Term {
	return Term{Elem: el, Coeff: coeff}
}

// Operand is the closed set of values accepted by the arithmetic and
// comparison operations: *Expression, Element (*Symbol, *Variable) or a
// numeric literal (float64, float32, int, int64, uint, uint64).
type Operand interface{}

// asExpression converts an operand to an affine expression. An Element
// becomes the unit expression (single term, coefficient 1, constant 0); a
// number becomes a pure constant. The returned expression may alias the
// operand, callers must clone before mutating.
//
// asExpression panics on an unsupported dynamic type; passing one is a
// programming error, not a data error.
func asExpression(op Operand) *Expression {
	switch v := op.(type) {
	case *Expression:
		return v
	case Element:
		return &Expression{
			terms: []Term{{Elem: v, Coeff: 1}},
			index: map[uint32]int{v.ID(): 0},
		}
	case float64:
		return &Expression{constant: v}
	case float32:
		return &Expression{constant: float64(v)}
	case int:
		return &Expression{constant: float64(v)}
	case int64:
		return &Expression{constant: float64(v)}
	case uint:
		return &Expression{constant: float64(v)}
	case uint64:
		return &Expression{constant: float64(v)}
	default:
		panic(fmt.Errorf("%w: unsupported operand type %T", ErrShape, op))
	}
}
