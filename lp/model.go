package lp

import (
	"context"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// Direction is the optimization direction of a model's objective.
type Direction int8

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "Maximize"
	}
	return "Minimize"
}

// Model is the problem bundle handed to a solver adapter: an objective, an
// ordered list of constraints and the registry of every variable they
// reference. It performs no solving itself.
type Model struct {
	name      string
	direction Direction

	objective   *Expression
	constraints []*Constraint
	byName      map[string]int

	vars     []*Variable
	varIndex map[uint32]int
	support  *bitset.BitSet // ids of every referenced element
}

// NewModel returns an empty model.
func NewModel(name string, direction Direction) *Model {
	return &Model{
		name:      sanitizeName(name),
		direction: direction,
		byName:    make(map[string]int),
		varIndex:  make(map[uint32]int),
		support:   bitset.New(64),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Direction returns the optimization direction.
func (m *Model) Direction() Direction { return m.direction }

// AddVariable registers a variable that may not (yet) appear in any
// constraint. Registering the same variable twice is a no-op.
func (m *Model) AddVariable(v *Variable) {
	if _, ok := m.varIndex[v.ID()]; ok {
		return
	}
	m.varIndex[v.ID()] = len(m.vars)
	m.vars = append(m.vars, v)
	m.support.Set(uint(v.ID()))
}

func (m *Model) register(e *Expression) {
	for _, t := range e.terms {
		m.support.Set(uint(t.Elem.ID()))
		if v, ok := t.Elem.(*Variable); ok {
			m.AddVariable(v)
		}
	}
}

// AddConstraint appends c to the model under the given name and registers the
// variables it references. An empty name is auto-generated (_C1, _C2, ...);
// a duplicate name is a shape error.
func (m *Model) AddConstraint(c *Constraint, name string) error {
	if name == "" {
		name = fmt.Sprintf("_C%d", len(m.constraints)+1)
	}
	if _, ok := m.byName[name]; ok {
		return fmt.Errorf("%w: duplicate constraint name %q", ErrShape, name)
	}
	c.SetName(name)
	m.byName[c.Name()] = len(m.constraints)
	m.constraints = append(m.constraints, c)
	m.register(c.expr)
	return nil
}

// SetObjective installs the objective expression.
func (m *Model) SetObjective(op Operand) {
	e := asExpression(op).Clone()
	m.objective = e
	m.register(e)
}

// Objective returns the objective expression (nil when unset).
func (m *Model) Objective() *Expression { return m.objective }

// Constraints returns the constraints in insertion order.
func (m *Model) Constraints() []*Constraint {
	res := make([]*Constraint, len(m.constraints))
	copy(res, m.constraints)
	return res
}

// Constraint returns the constraint registered under name.
func (m *Model) Constraint(name string) (*Constraint, bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.constraints[i], true
}

// Variables returns the registered variables in first-seen order.
func (m *Model) Variables() []*Variable {
	res := make([]*Variable, len(m.vars))
	copy(res, m.vars)
	return res
}

// Support returns the set of element ids referenced by the objective and the
// constraints.
func (m *Model) Support() *bitset.BitSet {
	return m.support.Clone()
}

// EvaluateAll strictly evaluates every constraint and returns the slacks in
// constraint order. The first unassigned variable fails the whole call.
func (m *Model) EvaluateAll(ctx context.Context) ([]float64, error) {
	g, ctx := errgroup.WithContext(ctx)
	slacks := make([]float64, len(m.constraints))
	for i, c := range m.constraints {
		i, c := i, c // per-iteration copies; module targeted go >= 1.22 semantics
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := c.Value()
			if err != nil {
				return fmt.Errorf("constraint %s: %w", c.Name(), err)
			}
			slacks[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slacks, nil
}

// Validate checks every assigned variable against its domain with tolerance
// eps. Unassigned variables are skipped; the model is still being built.
func (m *Model) Validate(eps float64) error {
	for _, v := range m.vars {
		if v.HasValue() && !v.IsValid(eps) {
			return fmt.Errorf("%w: variable %s value %v outside its domain", ErrShape, v.Name(), v.ValueOrDefault())
		}
	}
	return nil
}
