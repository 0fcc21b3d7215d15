package lp

import "fmt"

// Value computes the numeric value of the expression: the sum over all terms
// of coefficient times the referenced variable's assigned value, plus the
// constant. The first unassigned variable encountered in term order fails the
// whole evaluation with ErrNotAssigned; there is no partial sum.
//
// Evaluation never mutates its inputs. It is a pure read over values supplied
// by the solver adapter.
func (e *Expression) Value() (float64, error) {
	s := e.constant
	for _, t := range e.terms {
		v, ok := t.Elem.assigned()
		if !ok {
			return 0, fmt.Errorf("%w: variable %s", ErrNotAssigned, t.Elem.Name())
		}
		s += v * t.Coeff
	}
	return s, nil
}

// ValueOrDefault computes the value of the expression substituting each
// unassigned variable's default (the in-bounds value closest to zero; a bare
// symbol reads as 0).
func (e *Expression) ValueOrDefault() float64 {
	s := e.constant
	for _, t := range e.terms {
		s += t.Elem.fallback() * t.Coeff
	}
	return s
}
