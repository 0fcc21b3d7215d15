package lp

import "fmt"

// Expression is an affine combination of elements: a constant plus a weighted
// sum of symbols. The zero value is the zero expression.
//
// Terms are stored in the order their symbols were first introduced, and an
// id index keeps merging by identity O(1). A coefficient that folds to exactly
// zero drops its term from the expression. The optional name is a display
// label only; it never takes part in algebra or equality.
type Expression struct {
	terms    []Term
	index    map[uint32]int // element id -> slot in terms
	constant float64
	name     string
}

// NewExpression builds an expression from ordered terms, a constant and a
// display name. Zero-coefficient terms are dropped; duplicate elements merge
// by identity.
func NewExpression(terms []Term, constant float64, name string) *Expression {
	e := &Expression{constant: constant, name: sanitizeName(name)}
	for _, t := range terms {
		e.AddTerm(t.Elem, t.Coeff)
	}
	return e
}

// NewConstant returns the pure-constant expression c.
func NewConstant(c float64) *Expression {
	return &Expression{constant: c}
}

// Clone returns a deep copy of the expression. Elements are shared, the term
// slice and index are not.
func (e *Expression) Clone() *Expression {
	res := &Expression{
		terms:    make([]Term, len(e.terms)),
		constant: e.constant,
		name:     e.name,
	}
	copy(res.terms, e.terms)
	if len(e.index) > 0 {
		res.index = make(map[uint32]int, len(e.index))
		for id, i := range e.index {
			res.index[id] = i
		}
	}
	return res
}

// AddTerm accumulates coeff onto the element's entry, in place. A fresh
// element is appended at the end; an entry whose coefficient reaches exactly
// zero is removed.
func (e *Expression) AddTerm(el Element, coeff float64) {
	if i, ok := e.index[el.ID()]; ok {
		c := e.terms[i].Coeff + coeff
		if c == 0 {
			e.removeAt(i)
			return
		}
		e.terms[i].Coeff = c
		return
	}
	if coeff == 0 {
		return
	}
	if e.index == nil {
		e.index = make(map[uint32]int)
	}
	e.index[el.ID()] = len(e.terms)
	e.terms = append(e.terms, Term{Elem: el, Coeff: coeff})
}

func (e *Expression) removeAt(i int) {
	delete(e.index, e.terms[i].Elem.ID())
	e.terms = append(e.terms[:i], e.terms[i+1:]...)
	for j := i; j < len(e.terms); j++ {
		e.index[e.terms[j].Elem.ID()] = j
	}
}

// addInPlace folds sign*other into e, merging terms by element identity.
func (e *Expression) addInPlace(other *Expression, sign float64) {
	e.constant += other.constant * sign
	for _, t := range other.terms {
		e.AddTerm(t.Elem, t.Coeff*sign)
	}
}

// Add returns e + op. The result is unnamed.
func (e *Expression) Add(op Operand) *Expression {
	res := e.Clone()
	res.name = ""
	res.addInPlace(asExpression(op), 1)
	return res
}

// Sub returns e - op. The result is unnamed.
func (e *Expression) Sub(op Operand) *Expression {
	res := e.Clone()
	res.name = ""
	res.addInPlace(asExpression(op), -1)
	return res
}

// Neg returns -e: every coefficient and the constant sign-flipped.
func (e *Expression) Neg() *Expression {
	res := &Expression{
		terms:    make([]Term, len(e.terms)),
		constant: -e.constant,
	}
	if len(e.terms) > 0 {
		res.index = make(map[uint32]int, len(e.terms))
	}
	for i, t := range e.terms {
		res.terms[i] = Term{Elem: t.Elem, Coeff: -t.Coeff}
		res.index[t.Elem.ID()] = i
	}
	return res
}

// MulConst returns k*e. Multiplying by 0 yields the zero expression.
func (e *Expression) MulConst(k float64) *Expression {
	res := &Expression{constant: e.constant * k}
	for _, t := range e.terms {
		res.AddTerm(t.Elem, t.Coeff*k)
	}
	return res
}

// DivConst returns e/k. Dividing by zero is a shape error.
func (e *Expression) DivConst(k float64) (*Expression, error) {
	if k == 0 {
		return nil, fmt.Errorf("%w: division by zero", ErrShape)
	}
	res := &Expression{constant: e.constant / k}
	for _, t := range e.terms {
		res.AddTerm(t.Elem, t.Coeff/k)
	}
	return res, nil
}

// Mul returns e * op. At least one side must be a numerical constant;
// multiplying two non-constant expressions is a shape error.
func (e *Expression) Mul(op Operand) (*Expression, error) {
	o := asExpression(op)
	switch {
	case o.IsNumericalConstant():
		return e.MulConst(o.constant), nil
	case e.IsNumericalConstant():
		return o.MulConst(e.constant), nil
	default:
		return nil, fmt.Errorf("%w: non-constant expressions cannot be multiplied", ErrShape)
	}
}

// Div returns e / op. The divisor must be a nonzero numerical constant.
func (e *Expression) Div(op Operand) (*Expression, error) {
	o := asExpression(op)
	if !o.IsNumericalConstant() {
		return nil, fmt.Errorf("%w: expressions cannot be divided by a non-constant expression", ErrShape)
	}
	return e.DivConst(o.constant)
}

// IsAtomic reports whether the expression is indistinguishable from a bare
// symbol reference: exactly one term with coefficient 1 and constant 0.
func (e *Expression) IsAtomic() bool {
	return len(e.terms) == 1 && e.constant == 0 && e.terms[0].Coeff == 1
}

// IsNumericalConstant reports whether the expression has no terms.
func (e *Expression) IsNumericalConstant() bool {
	return len(e.terms) == 0
}

// Atom returns the element of the single term of an atomic expression, and a
// shape error for anything else.
func (e *Expression) Atom() (Element, error) {
	if !e.IsAtomic() {
		return nil, fmt.Errorf("%w: not an atomic expression: %s", ErrShape, e)
	}
	return e.terms[0].Elem, nil
}

// Bool is the truthiness of the expression: false only for the exact zero
// expression (no terms, constant 0).
func (e *Expression) Bool() bool {
	return len(e.terms) > 0 || e.constant != 0
}

// Constant returns the constant part of the expression.
func (e *Expression) Constant() float64 { return e.constant }

// NumTerms returns the number of variable terms.
func (e *Expression) NumTerms() int { return len(e.terms) }

// Terms returns a copy of the term list, in first-introduction order.
func (e *Expression) Terms() []Term {
	res := make([]Term, len(e.terms))
	copy(res, e.terms)
	return res
}

// Coeff returns the coefficient of el (0 if absent).
func (e *Expression) Coeff(el Element) float64 {
	if i, ok := e.index[el.ID()]; ok {
		return e.terms[i].Coeff
	}
	return 0
}

// Name returns the display label of the expression.
func (e *Expression) Name() string { return e.name }

// SetName mutates the display label. It does not affect algebra or equality.
func (e *Expression) SetName(name string) {
	e.name = sanitizeName(name)
}

// Equal reports whether both expressions hold the same normalized coefficient
// map and constant. Term order and names do not participate.
func (e *Expression) Equal(o *Expression) bool {
	if e.constant != o.constant || len(e.terms) != len(o.terms) {
		return false
	}
	for _, t := range e.terms {
		j, ok := o.index[t.Elem.ID()]
		if !ok || o.terms[j].Coeff != t.Coeff {
			return false
		}
	}
	return true
}

// LE returns the constraint e - op <= 0.
func (e *Expression) LE(op Operand) *Constraint {
	return newConstraint(e.Sub(op), LE)
}

// GE returns the constraint e - op >= 0.
func (e *Expression) GE(op Operand) *Constraint {
	return newConstraint(e.Sub(op), GE)
}

// EQ returns the constraint e - op = 0.
func (e *Expression) EQ(op Operand) *Constraint {
	return newConstraint(e.Sub(op), EQ)
}
