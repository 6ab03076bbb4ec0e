package hwlib_test

import (
	"testing"

	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/hwlib"
	"github.com/db47h/hwtrace/hwtest"
	"github.com/db47h/hwtrace/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const X = hwtest.X

func call(t *testing.T, name string, args ...*wire.Wire) *wire.Wire {
	t.Helper()
	m, ok := hwlib.Lookup(name)
	require.True(t, ok, name)
	w, err := m.Call(args...)
	require.NoError(t, err)
	hwtest.CheckElided(t, w)
	return w
}

func TestGates(t *testing.T) {
	// a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1, then unknowns
	a := hwtest.FromSamples("a", 1, 0, 0, 1, 1, X, 1)
	b := hwtest.FromSamples("b", 4, 0, 5, 0, 5, 0, X)
	td := []struct {
		name   string
		result []int64
	}{
		{"AND", []int64{0, 0, 0, 1, X, X}},
		{"NAND", []int64{1, 1, 1, 0, X, X}},
		{"OR", []int64{0, 1, 1, 1, X, X}},
		{"NOR", []int64{1, 0, 0, 0, X, X}},
		{"XOR", []int64{0, 1, 1, 0, X, X}},
		{"XNOR", []int64{1, 0, 0, 1, X, X}},
		{"AXI", []int64{0, 0, 0, 1, X, X}},
		{"axi", []int64{0, 0, 0, 1, X, X}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			w := call(t, d.name, a, b)
			assert.Equal(t, 1, w.Width)
			hwtest.CompareInts(t, w, d.result...)
		})
	}
	w := call(t, "axi", a, b)
	assert.Equal(t, "AXI(a, b)", w.Name)
	hwtest.CompareInts(t, call(t, "NOT", b), 1, 0, 1, 0, 1, X)
}

func TestMux(t *testing.T) {
	sel := hwtest.FromSamples("sel", 1, 0, 1, X, 1, 0)
	a := hwtest.FromSamples("a", 4, 1, 2, 3, 4, 5)
	b := hwtest.FromSamples("b", 8, 10, 20, 30, 40, 50)
	w := call(t, "MUX", sel, a, b)
	assert.Equal(t, 8, w.Width)
	hwtest.CompareInts(t, w, 1, 20, X, 40, 5)
}

func TestDFF(t *testing.T) {
	clk := hwtest.Clock("clk", 2, 12)
	d := hwtest.FromSamples("d", 4, 7, 7, 3, 3, 3, 9, 9, 1, 1, 1, 1, 1)
	w := call(t, "DFF", d, clk)
	assert.Equal(t, 4, w.Width)
	// rising edges at 1, 3, 5, 7, 9, 11 sample d at 0, 2, 4, 6, 8, 10
	hwtest.CompareInts(t, w, X, 7, 7, 3, 3, 3, 3, 9, 9, 1, 1, 1)
}

func TestEdges(t *testing.T) {
	in := hwtest.FromSamples("in", 1, 1, 0, 0, 1, 1, X, 1, 0)
	hwtest.CompareInts(t, call(t, "RISE", in), 0, 0, 0, 1, 0, 0, 0, 0, 0)
	hwtest.CompareInts(t, call(t, "FALL", in), 0, 1, 0, 0, 0, 0, 0, 1, 0)
}

func TestMacro_Call(t *testing.T) {
	m, ok := hwlib.Lookup("mux")
	require.True(t, ok)
	_, err := m.Call(wire.Const(wire.Int(1)))
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))
	assert.Contains(t, err.Error(), "MUX expects 3 arguments (sel, a, b), got 1")

	_, ok = hwlib.Lookup("nope")
	assert.False(t, ok)

	var names []string
	for _, m := range hwlib.Macros() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"AND", "AXI", "DFF", "FALL", "MUX", "NAND", "NOR", "NOT", "OR", "RISE", "XNOR", "XOR"}, names)
}
