package lp

import (
	"fmt"
	"math"
)

// Category classifies the domain of a variable.
type Category uint8

const (
	Continuous Category = iota
	Integer
	Binary
)

func (c Category) String() string {
	switch c {
	case Continuous:
		return "Continuous"
	case Integer:
		return "Integer"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// ParseCategory parses the textual form of a category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "Continuous":
		return Continuous, nil
	case "Integer":
		return Integer, nil
	case "Binary":
		return Binary, nil
	default:
		return 0, fmt.Errorf("%w: invalid category %q", ErrShape, s)
	}
}

// Variable is a symbol with a numeric domain and an optional assigned value.
// nil bounds mean unbounded on that side. The value slot is written by the
// solver adapter after optimization; nothing in this package computes it.
type Variable struct {
	Symbol

	lowBound *float64
	upBound  *float64
	category Category
	value    *float64
	dj       *float64

	// bounds as requested at construction, restored by UnfixValue
	origLow *float64
	origUp  *float64
}

// VariableOption configures a variable at construction.
type VariableOption func(*Variable)

// WithLowBound sets the lower bound.
func WithLowBound(v float64) VariableOption {
	return func(va *Variable) { va.lowBound = &v }
}

// WithUpBound sets the upper bound.
func WithUpBound(v float64) VariableOption {
	return func(va *Variable) { va.upBound = &v }
}

// WithCategory sets the category.
func WithCategory(c Category) VariableOption {
	return func(va *Variable) { va.category = c }
}

// NewVariable creates a decision variable. A Binary variable has its bounds
// fixed to [0,1] and is re-categorized as Integer, the way PuLP does it;
// explicit bounds conflicting with [0,1] are a shape error, as is
// lowBound > upBound.
func NewVariable(name string, opts ...VariableOption) (*Variable, error) {
	v := &Variable{
		Symbol:   *NewSymbol(name),
		category: Continuous,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.origLow, v.origUp = v.lowBound, v.upBound
	if v.category == Binary {
		if v.lowBound != nil && *v.lowBound != 0 {
			return nil, fmt.Errorf("%w: binary variable %s with lowBound %v", ErrShape, v.Name(), *v.lowBound)
		}
		if v.upBound != nil && *v.upBound != 1 {
			return nil, fmt.Errorf("%w: binary variable %s with upBound %v", ErrShape, v.Name(), *v.upBound)
		}
		zero, one := 0.0, 1.0
		v.lowBound, v.upBound = &zero, &one
		v.category = Integer
	}
	if v.lowBound != nil && v.upBound != nil && *v.lowBound > *v.upBound {
		return nil, fmt.Errorf("%w: variable %s has lowBound %v > upBound %v", ErrShape, v.Name(), *v.lowBound, *v.upBound)
	}
	return v, nil
}

// NewBinary creates a 0/1 variable.
func NewBinary(name string) (*Variable, error) {
	return NewVariable(name, WithCategory(Binary))
}

// LowBound returns the lower bound and whether it is set.
func (v *Variable) LowBound() (float64, bool) {
	if v.lowBound == nil {
		return 0, false
	}
	return *v.lowBound, true
}

// UpBound returns the upper bound and whether it is set.
func (v *Variable) UpBound() (float64, bool) {
	if v.upBound == nil {
		return 0, false
	}
	return *v.upBound, true
}

// Category returns the domain category of the variable.
func (v *Variable) Category() Category { return v.category }

// SetBounds replaces both bounds; nil means unbounded on that side.
func (v *Variable) SetBounds(low, up *float64) {
	v.lowBound, v.upBound = low, up
}

// Positive constrains the variable to [0, +inf).
func (v *Variable) Positive() {
	zero := 0.0
	v.SetBounds(&zero, nil)
}

// SetValue stores an externally computed result on the variable.
func (v *Variable) SetValue(val float64) {
	v.value = &val
}

// Value returns the assigned value, or ErrNotAssigned when unset.
func (v *Variable) Value() (float64, error) {
	if v.value == nil {
		return 0, fmt.Errorf("%w: variable %s", ErrNotAssigned, v.Name())
	}
	return *v.value, nil
}

// HasValue reports whether a value has been assigned.
func (v *Variable) HasValue() bool { return v.value != nil }

// SetDj stores the reduced cost reported by the solver.
func (v *Variable) SetDj(dj float64) {
	v.dj = &dj
}

// Dj returns the reduced cost and whether the solver reported one.
func (v *Variable) Dj() (float64, bool) {
	if v.dj == nil {
		return 0, false
	}
	return *v.dj, true
}

// ValueOrDefault returns the assigned value when set, otherwise the in-bounds
// value closest to zero.
func (v *Variable) ValueOrDefault() float64 {
	if v.value != nil {
		return *v.value
	}
	switch {
	case v.lowBound != nil && v.upBound != nil:
		if 0 >= *v.lowBound && 0 <= *v.upBound {
			return 0
		}
		if *v.lowBound >= 0 {
			return *v.lowBound
		}
		return *v.upBound
	case v.lowBound != nil:
		if 0 >= *v.lowBound {
			return 0
		}
		return *v.lowBound
	case v.upBound != nil:
		if 0 <= *v.upBound {
			return 0
		}
		return *v.upBound
	default:
		return 0
	}
}

// SetInitialValue assigns val after checking it against the bounds. With
// check set, an out-of-bounds value is a shape error; otherwise it reports
// false and assigns nothing.
func (v *Variable) SetInitialValue(val float64, check bool) (bool, error) {
	if v.lowBound != nil && val < *v.lowBound {
		if !check {
			return false, nil
		}
		return false, fmt.Errorf("%w: in variable %s, initial value %v is smaller than lowBound %v", ErrShape, v.Name(), val, *v.lowBound)
	}
	if v.upBound != nil && val > *v.upBound {
		if !check {
			return false, nil
		}
		return false, fmt.Errorf("%w: in variable %s, initial value %v is greater than upBound %v", ErrShape, v.Name(), val, *v.upBound)
	}
	v.value = &val
	return true, nil
}

// FixValue pins both bounds to the assigned value. No-op when unassigned.
func (v *Variable) FixValue() {
	if v.value == nil {
		return
	}
	val := *v.value
	low, up := val, val
	v.SetBounds(&low, &up)
}

// UnfixValue restores the bounds requested at construction.
func (v *Variable) UnfixValue() {
	v.SetBounds(v.origLow, v.origUp)
}

// Round nudges the assigned value back inside the bounds when it overshoots
// by at most eps, and snaps an Integer variable to the nearest integer when
// within epsInt of it.
func (v *Variable) Round(epsInt, eps float64) {
	if v.value == nil {
		return
	}
	val := *v.value
	if v.upBound != nil && val > *v.upBound && val <= *v.upBound+eps {
		val = *v.upBound
	}
	if v.lowBound != nil && val < *v.lowBound && val >= *v.lowBound-eps {
		val = *v.lowBound
	}
	if v.category == Integer && math.Abs(math.Round(val)-val) <= epsInt {
		val = math.Round(val)
	}
	v.value = &val
}

// RoundedValue returns the assigned value snapped to the nearest integer for
// Integer variables within eps of it; unassigned variables read as 0.
func (v *Variable) RoundedValue(eps float64) float64 {
	if v.value == nil {
		return 0
	}
	if v.category == Integer && math.Abs(*v.value-math.Round(*v.value)) <= eps {
		return math.Round(*v.value)
	}
	return *v.value
}

// IsValid reports whether the assigned value sits within the bounds and, for
// an Integer variable, within eps of an integer. An unassigned variable is
// not valid.
func (v *Variable) IsValid(eps float64) bool {
	if v.value == nil {
		return false
	}
	val := *v.value
	if v.upBound != nil && val > *v.upBound+eps {
		return false
	}
	if v.lowBound != nil && val < *v.lowBound-eps {
		return false
	}
	if v.category == Integer && math.Abs(math.Round(val)-val) > eps {
		return false
	}
	return true
}

// InfeasibilityGap returns how far the assigned value strays outside the
// domain: bound overshoot first, then (for mip) the distance to the nearest
// integer. Requires an assigned value.
func (v *Variable) InfeasibilityGap(mip bool) (float64, error) {
	if v.value == nil {
		return 0, fmt.Errorf("%w: variable %s", ErrNotAssigned, v.Name())
	}
	val := *v.value
	if v.upBound != nil && val > *v.upBound {
		return val - *v.upBound, nil
	}
	if v.lowBound != nil && val < *v.lowBound {
		return val - *v.lowBound, nil
	}
	if mip && v.category == Integer && math.Round(val)-val != 0 {
		return math.Round(val) - val, nil
	}
	return 0, nil
}

// IsBinary reports whether the domain is the 0/1 integers.
func (v *Variable) IsBinary() bool {
	return v.category == Integer &&
		v.lowBound != nil && *v.lowBound == 0 &&
		v.upBound != nil && *v.upBound == 1
}

// IsInteger reports whether the variable is integer-valued.
func (v *Variable) IsInteger() bool { return v.category == Integer }

// IsFree reports whether both bounds are unset.
func (v *Variable) IsFree() bool { return v.lowBound == nil && v.upBound == nil }

// IsConstant reports whether the bounds pin the variable to a single value.
func (v *Variable) IsConstant() bool {
	return v.lowBound != nil && v.upBound != nil && *v.lowBound == *v.upBound
}

// IsPositive reports whether the domain is exactly [0, +inf).
func (v *Variable) IsPositive() bool {
	return v.lowBound != nil && *v.lowBound == 0 && v.upBound == nil
}

func (v *Variable) assigned() (float64, bool) {
	if v.value == nil {
		return 0, false
	}
	return *v.value, true
}

func (v *Variable) fallback() float64 { return v.ValueOrDefault() }

// Expr coerces the variable to the unit expression: coefficient 1, constant 0.
func (v *Variable) Expr() *Expression {
	return asExpression(v).Clone()
}

// Add returns v + op as an expression.
func (v *Variable) Add(op Operand) *Expression { return v.Expr().Add(op) }

// Sub returns v - op as an expression.
func (v *Variable) Sub(op Operand) *Expression { return v.Expr().Sub(op) }

// Neg returns -v as an expression.
func (v *Variable) Neg() *Expression { return v.Expr().Neg() }

// MulConst returns k*v as an expression.
func (v *Variable) MulConst(k float64) *Expression { return v.Expr().MulConst(k) }

// LE returns the constraint v - op <= 0.
func (v *Variable) LE(op Operand) *Constraint { return v.Expr().LE(op) }

// GE returns the constraint v - op >= 0.
func (v *Variable) GE(op Operand) *Constraint { return v.Expr().GE(op) }

// EQ returns the constraint v - op = 0.
func (v *Variable) EQ(op Operand) *Constraint { return v.Expr().EQ(op) }
