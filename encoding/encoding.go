// Package encoding offers (de)serialization APIs for lpkit models.
//
// The wire form is CBOR: a small header carrying a magic tag and the library
// version, followed by the model body. Expression term streams are flattened
// to element-id slices compressed with intcomp. Term order, names, bounds,
// categories and assigned values round-trip exactly.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	lpkit "github.com/modelfront/lpkit"
	"github.com/modelfront/lpkit/encoding/ioutils"
	"github.com/modelfront/lpkit/logger"
	"github.com/modelfront/lpkit/lp"
)

var (
	// ErrInvalidFormat is returned when the input does not look like a
	// serialized lpkit model.
	ErrInvalidFormat = errors.New("encoding: invalid model data")

	// ErrUnsupportedVersion is returned when the input was produced by an
	// incompatible (newer major) lpkit version.
	ErrUnsupportedVersion = errors.New("encoding: unsupported version")
)

const magic = "lpkit"

type header struct {
	Magic   string `cbor:"magic"`
	Version string `cbor:"version"`
}

type sVariable struct {
	ID    uint32   `cbor:"id"`
	Name  string   `cbor:"name"`
	Low   *float64 `cbor:"low,omitempty"`
	Up    *float64 `cbor:"up,omitempty"`
	Cat   uint8    `cbor:"cat"`
	Value *float64 `cbor:"value,omitempty"`
	Dj    *float64 `cbor:"dj,omitempty"`
}

type sSymbol struct {
	ID   uint32 `cbor:"id"`
	Name string `cbor:"name"`
}

type sExpression struct {
	Name     string    `cbor:"name,omitempty"`
	Constant float64   `cbor:"constant"`
	Coeffs   []float64 `cbor:"coeffs"`
	Elems    []byte    `cbor:"elems"` // intcomp-compressed element ids, term order
}

type sConstraint struct {
	Expr  sExpression `cbor:"expr"`
	Sense int8        `cbor:"sense"`
	Name  string      `cbor:"name"`
}

type sModel struct {
	Name        string        `cbor:"name"`
	Direction   int8          `cbor:"direction"`
	Vars        []sVariable   `cbor:"vars"`
	Syms        []sSymbol     `cbor:"syms,omitempty"`
	Constraints []sConstraint `cbor:"constraints"`
	Objective   *sExpression  `cbor:"objective,omitempty"`
}

// Write serializes the model into a file.
func Write(path string, m *lp.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Serialize(f, m)
}

// Read deserializes a model from a file.
func Read(path string) (*lp.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Deserialize(f)
}

// Serialize writes the model to w, a version header first.
func Serialize(w io.Writer, m *lp.Model) error {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	enc := em.NewEncoder(w)

	if err := enc.Encode(header{Magic: magic, Version: lpkit.Version.String()}); err != nil {
		return err
	}

	// flatten the variable and constraint sections in parallel
	var g errgroup.Group
	var vars []sVariable
	var cons []sConstraint
	g.Go(func() error {
		vars = flattenVariables(m.Variables())
		return nil
	})
	g.Go(func() error {
		var err error
		cons, err = flattenConstraints(m.Constraints())
		return err
	})

	sm := sModel{
		Name:      m.Name(),
		Direction: int8(m.Direction()),
		Syms:      collectSymbols(m),
	}
	if obj := m.Objective(); obj != nil {
		se, err := flattenExpression(obj)
		if err != nil {
			return err
		}
		sm.Objective = &se
	}

	if err := g.Wait(); err != nil {
		return err
	}
	sm.Vars = vars
	sm.Constraints = cons

	return enc.Encode(sm)
}

// Deserialize reads a model from r, verifying the header first: a wrong magic
// tag is ErrInvalidFormat, a newer major version is ErrUnsupportedVersion.
func Deserialize(r io.Reader) (*lp.Model, error) {
	dec := cbor.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if h.Magic != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, h.Magic)
	}
	v, err := semver.Parse(h.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: bad version %q", ErrInvalidFormat, h.Version)
	}
	if v.Major > lpkit.Version.Major {
		return nil, fmt.Errorf("%w: model written by v%s, this library is v%s", ErrUnsupportedVersion, h.Version, lpkit.Version)
	}

	var sm sModel
	if err := dec.Decode(&sm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	log := logger.With("encoding")
	log.Debug().Str("model", sm.Name).Str("version", h.Version).
		Int("nbConstraints", len(sm.Constraints)).Int("nbVariables", len(sm.Vars)).
		Msg("decoded model")

	return rebuild(&sm)
}

func flattenVariables(vars []*lp.Variable) []sVariable {
	res := make([]sVariable, len(vars))
	for i, v := range vars {
		sv := sVariable{ID: v.ID(), Name: v.Name(), Cat: uint8(v.Category())}
		if low, ok := v.LowBound(); ok {
			sv.Low = &low
		}
		if up, ok := v.UpBound(); ok {
			sv.Up = &up
		}
		if val, err := v.Value(); err == nil {
			sv.Value = &val
		}
		if dj, ok := v.Dj(); ok {
			sv.Dj = &dj
		}
		res[i] = sv
	}
	return res
}

func flattenConstraints(cons []*lp.Constraint) ([]sConstraint, error) {
	res := make([]sConstraint, len(cons))
	for i, c := range cons {
		se, err := flattenExpression(c.Expression())
		if err != nil {
			return nil, err
		}
		res[i] = sConstraint{Expr: se, Sense: int8(c.Sense()), Name: c.Name()}
	}
	return res, nil
}

func flattenExpression(e *lp.Expression) (sExpression, error) {
	terms := e.Terms()
	ids := make([]uint32, len(terms))
	coeffs := make([]float64, len(terms))
	for i, t := range terms {
		ids[i] = t.Elem.ID()
		coeffs[i] = t.Coeff
	}
	var buf bytes.Buffer
	if err := ioutils.CompressAndWriteUints32(&buf, ids); err != nil {
		return sExpression{}, err
	}
	return sExpression{
		Name:     e.Name(),
		Constant: e.Constant(),
		Coeffs:   coeffs,
		Elems:    buf.Bytes(),
	}, nil
}

// collectSymbols gathers the bare (non-variable) symbols referenced by the
// model's expressions; variables carry their own table.
func collectSymbols(m *lp.Model) []sSymbol {
	seen := make(map[uint32]struct{})
	var res []sSymbol
	scan := func(e *lp.Expression) {
		for _, t := range e.Terms() {
			if _, ok := t.Elem.(*lp.Variable); ok {
				continue
			}
			if _, ok := seen[t.Elem.ID()]; ok {
				continue
			}
			seen[t.Elem.ID()] = struct{}{}
			res = append(res, sSymbol{ID: t.Elem.ID(), Name: t.Elem.Name()})
		}
	}
	if obj := m.Objective(); obj != nil {
		scan(obj)
	}
	for _, c := range m.Constraints() {
		scan(c.Expression())
	}
	return res
}

func rebuild(sm *sModel) (*lp.Model, error) {
	elems := make(map[uint32]lp.Element, len(sm.Vars)+len(sm.Syms))

	m := lp.NewModel(sm.Name, lp.Direction(sm.Direction))
	for _, sv := range sm.Vars {
		var opts []lp.VariableOption
		if sv.Low != nil {
			opts = append(opts, lp.WithLowBound(*sv.Low))
		}
		if sv.Up != nil {
			opts = append(opts, lp.WithUpBound(*sv.Up))
		}
		opts = append(opts, lp.WithCategory(lp.Category(sv.Cat)))
		v, err := lp.NewVariable(sv.Name, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: variable %s: %v", ErrInvalidFormat, sv.Name, err)
		}
		if sv.Value != nil {
			v.SetValue(*sv.Value)
		}
		if sv.Dj != nil {
			v.SetDj(*sv.Dj)
		}
		elems[sv.ID] = v
		m.AddVariable(v)
	}
	for _, ss := range sm.Syms {
		elems[ss.ID] = lp.NewSymbol(ss.Name)
	}

	for _, sc := range sm.Constraints {
		e, err := rebuildExpression(&sc.Expr, elems)
		if err != nil {
			return nil, err
		}
		var c *lp.Constraint
		switch lp.Sense(sc.Sense) {
		case lp.LE:
			c = e.LE(0.0)
		case lp.GE:
			c = e.GE(0.0)
		case lp.EQ:
			c = e.EQ(0.0)
		default:
			return nil, fmt.Errorf("%w: unknown sense %d", ErrInvalidFormat, sc.Sense)
		}
		if err := m.AddConstraint(c, sc.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}

	if sm.Objective != nil {
		e, err := rebuildExpression(sm.Objective, elems)
		if err != nil {
			return nil, err
		}
		m.SetObjective(e)
	}
	return m, nil
}

func rebuildExpression(se *sExpression, elems map[uint32]lp.Element) (*lp.Expression, error) {
	ids, err := ioutils.ReadAndDecompressUints32(bytes.NewReader(se.Elems))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(ids) != len(se.Coeffs) {
		return nil, fmt.Errorf("%w: %d element ids for %d coefficients", ErrInvalidFormat, len(ids), len(se.Coeffs))
	}
	terms := make([]lp.Term, len(ids))
	for i, id := range ids {
		el, ok := elems[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown element id %d", ErrInvalidFormat, id)
		}
		terms[i] = lp.NewTerm(el, se.Coeffs[i])
	}
	return lp.NewExpression(terms, se.Constant, se.Name), nil
}
