package lp

import "math"

// Sense is the relational operator of a constraint.
type Sense int8

const (
	LE Sense = iota // <=
	EQ              // =
	GE              // >=
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	default:
		return "?"
	}
}

// Constraint is an affine relation against zero. It stores lhs - rhs as a
// single expression, so "E sense 0" is the whole story; comparing expressions
// (LE, GE, EQ) is the only way to build one. The sense is fixed at
// construction, only the name is mutable.
type Constraint struct {
	expr  *Expression
	sense Sense
	name  string
}

func newConstraint(expr *Expression, sense Sense) *Constraint {
	return &Constraint{expr: expr, sense: sense}
}

// Expression returns a copy of the folded lhs-rhs expression.
func (c *Constraint) Expression() *Expression { return c.expr.Clone() }

// Sense returns the relational sense of the constraint.
func (c *Constraint) Sense() Sense { return c.sense }

// Name returns the display name of the constraint.
func (c *Constraint) Name() string { return c.name }

// SetName mutates the display name.
func (c *Constraint) SetName(name string) { c.name = sanitizeName(name) }

// Value evaluates the stored expression: the signed slack relative to the
// sense, not a boolean. Fails with ErrNotAssigned when any referenced
// variable is unset.
func (c *Constraint) Value() (float64, error) {
	return c.expr.Value()
}

// ValueOrDefault evaluates the stored expression substituting each unassigned
// variable's default value.
func (c *Constraint) ValueOrDefault() float64 {
	return c.expr.ValueOrDefault()
}

// Valid reports whether the constraint holds within tolerance eps under the
// current assignment.
func (c *Constraint) Valid(eps float64) (bool, error) {
	slack, err := c.Value()
	if err != nil {
		return false, err
	}
	switch c.sense {
	case LE:
		return slack <= eps, nil
	case GE:
		return slack >= -eps, nil
	default:
		return math.Abs(slack) <= eps, nil
	}
}

func (c *Constraint) String() string {
	sbb := NewStringBuilder()
	sbb.WriteConstraint(c)
	return sbb.String()
}
