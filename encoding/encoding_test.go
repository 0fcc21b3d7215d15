package encoding

import (
	"bytes"
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/modelfront/lpkit/lp"
)

func testModel(t *testing.T) *lp.Model {
	t.Helper()

	x, err := lp.NewVariable("x", lp.WithLowBound(0), lp.WithUpBound(10))
	require.NoError(t, err)
	y, err := lp.NewVariable("y", lp.WithCategory(lp.Binary))
	require.NoError(t, err)
	z, err := lp.NewVariable("z")
	require.NoError(t, err)
	x.SetValue(2.5)
	x.SetDj(-0.5)

	m := lp.NewModel("diet", lp.Minimize)
	obj := x.MulConst(3).Add(y.MulConst(2))
	obj.SetName("cost")
	m.SetObjective(obj)
	require.NoError(t, m.AddConstraint(x.Add(y).GE(1), "coverage"))
	require.NoError(t, m.AddConstraint(x.MulConst(2).Sub(z).LE(4), ""))
	require.NoError(t, m.AddConstraint(x.EQ(y.Add(z)), "balance"))
	return m
}

func TestRoundTrip(t *testing.T) {
	assert := require.New(t)

	m := testModel(t)

	var buf bytes.Buffer
	assert.NoError(Serialize(&buf, m))

	got, err := Deserialize(&buf)
	assert.NoError(err)

	assert.Equal(m.Name(), got.Name())
	assert.Equal(m.Direction(), got.Direction())
	assert.Equal(m.Objective().String(), got.Objective().String())
	assert.Equal("cost", got.Objective().Name())

	wantCons := m.Constraints()
	gotCons := got.Constraints()
	assert.Equal(len(wantCons), len(gotCons))
	for i := range wantCons {
		assert.Equal(wantCons[i].Name(), gotCons[i].Name())
		assert.Equal(wantCons[i].Sense(), gotCons[i].Sense())
		assert.Equal(wantCons[i].String(), gotCons[i].String(), "term order must survive the round trip")
	}

	wantVars := m.Variables()
	gotVars := got.Variables()
	assert.Equal(len(wantVars), len(gotVars))
	for i := range wantVars {
		assert.Equal(wantVars[i].Name(), gotVars[i].Name())
		assert.Equal(wantVars[i].Category(), gotVars[i].Category())

		low1, ok1 := wantVars[i].LowBound()
		low2, ok2 := gotVars[i].LowBound()
		assert.Equal(ok1, ok2)
		assert.Equal(low1, low2)

		assert.Equal(wantVars[i].HasValue(), gotVars[i].HasValue())
	}

	// the rebuilt x carries its assigned value and reduced cost
	gotX := gotVars[0]
	val, err := gotX.Value()
	assert.NoError(err)
	assert.Equal(2.5, val)
	dj, ok := gotX.Dj()
	assert.True(ok)
	assert.Equal(-0.5, dj)

	// binary bounds survived
	gotY := gotVars[1]
	assert.True(gotY.IsBinary())
}

func TestRoundTripEvaluates(t *testing.T) {
	assert := require.New(t)

	m := testModel(t)
	var buf bytes.Buffer
	assert.NoError(Serialize(&buf, m))
	got, err := Deserialize(&buf)
	assert.NoError(err)

	for _, v := range got.Variables() {
		v.SetValue(1)
	}
	slacks, err := got.EvaluateAll(context.Background())
	assert.NoError(err)
	assert.Equal([]float64{1, -3, -1}, slacks)
}

func TestWriteRead(t *testing.T) {
	assert := require.New(t)

	m := testModel(t)
	path := filepath.Join(t.TempDir(), "model.cbor")

	assert.NoError(Write(path, m))
	got, err := Read(path)
	assert.NoError(err)
	assert.Equal(m.Name(), got.Name())
}

func TestDeserializeBadMagic(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	assert.NoError(enc.Encode(header{Magic: "not-lpkit", Version: "0.1.0"}))

	_, err := Deserialize(&buf)
	assert.ErrorIs(err, ErrInvalidFormat)
}

func TestDeserializeBadVersion(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	assert.NoError(enc.Encode(header{Magic: magic, Version: "not.a.version"}))
	_, err := Deserialize(&buf)
	assert.ErrorIs(err, ErrInvalidFormat)

	buf.Reset()
	assert.NoError(enc.Encode(header{Magic: magic, Version: "99.0.0"}))
	_, err = Deserialize(&buf)
	assert.ErrorIs(err, ErrUnsupportedVersion)
}

func TestDeserializeGarbage(t *testing.T) {
	_, err := Deserialize(bytes.NewReader([]byte("garbage")))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeserializeOversizedTermStream(t *testing.T) {
	assert := require.New(t)

	// term stream claiming far more words than the body holds
	var elems bytes.Buffer
	assert.NoError(binary.Write(&elems, binary.LittleEndian, uint64(1)<<61))

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	assert.NoError(enc.Encode(header{Magic: magic, Version: "0.1.0"}))
	assert.NoError(enc.Encode(sModel{
		Name: "hostile",
		Vars: []sVariable{{ID: 1, Name: "x"}},
		Constraints: []sConstraint{{
			Expr:  sExpression{Coeffs: []float64{1}, Elems: elems.Bytes()},
			Sense: int8(lp.LE),
			Name:  "c",
		}},
	}))

	_, err := Deserialize(&buf)
	assert.ErrorIs(err, ErrInvalidFormat)
}
