package lp

import (
	"math"
	"strconv"
	"strings"
)

// StringBuilder is a helper to build the canonical text of expressions,
// constraints or terms. It embeds a strings.Builder object for convenience.
//
// The grammar is `term (" + " term)* (" + " constant)?` with the constant
// omitted when zero; a pure-constant expression is the constant alone. Terms
// appear in first-introduction order, a coefficient of 1 is omitted, and the
// separator is always " + " — a negative coefficient or constant carries its
// own sign. A constraint is its expression followed by the sense symbol
// and "0".
type StringBuilder struct {
	strings.Builder
}

// NewStringBuilder returns a new StringBuilder.
func NewStringBuilder() *StringBuilder {
	return &StringBuilder{}
}

// WriteExpression appends the canonical form of e to the current buffer.
func (sbb *StringBuilder) WriteExpression(e *Expression) {
	if len(e.terms) == 0 {
		sbb.WriteString(formatConstant(e.constant))
		return
	}
	for i, t := range e.terms {
		if i > 0 {
			sbb.WriteString(" + ")
		}
		sbb.WriteTerm(t)
	}
	if e.constant != 0 {
		sbb.WriteString(" + ")
		sbb.WriteString(formatConstant(e.constant))
	}
}

// WriteTerm appends the term to the current buffer. A coefficient of exactly
// 1 prints the bare element name.
func (sbb *StringBuilder) WriteTerm(t Term) {
	if t.Coeff == 1 {
		sbb.WriteString(t.Elem.Name())
		return
	}
	sbb.WriteString(formatCoeff(t.Coeff))
	sbb.WriteByte('*')
	sbb.WriteString(t.Elem.Name())
}

// WriteConstraint appends the canonical form of c to the current buffer.
func (sbb *StringBuilder) WriteConstraint(c *Constraint) {
	sbb.WriteExpression(c.expr)
	sbb.WriteByte(' ')
	sbb.WriteString(c.sense.String())
	sbb.WriteString(" 0")
}

func (e *Expression) String() string {
	sbb := NewStringBuilder()
	sbb.WriteExpression(e)
	return sbb.String()
}

// formatConstant renders a constant as a shortest round-trip decimal with a
// trailing ".0" kept on integral values (5.0 prints as "5.0", never "5").
// Large and tiny magnitudes take Go's exponent form, which differs from
// Python's threshold for switching notations.
func formatConstant(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatCoeff renders a term coefficient: shortest round-trip decimal with no
// forced decimal point, so 2.0 prints as "2" in "2*x".
func formatCoeff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
