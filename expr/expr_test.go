package expr_test

import (
	"testing"

	"github.com/db47h/hwtrace/expr"
	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/hwtest"
	"github.com/db47h/hwtrace/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parser = expr.MustCompile()

func TestParse_shape(t *testing.T) {
	td := []struct {
		in   string
		tree string
	}{
		{"a + b & c - d + const 1",
			"&\n\t+\n\t\twire\ta\n\t\twire\tb\n\t+\n\t\t-\n\t\t\twire\tc\n\t\t\twire\td\n\t\tconst\t1\n"},
		{"after (acc clk == const 5) & ready & value & (3 next data == const 64)",
			"&\n\t&\n\t\t&\n\t\t\tafter\n\t\t\t\t==\n\t\t\t\t\tacc\n\t\t\t\t\t\twire\tclk\n\t\t\t\t\tconst\t5\n\t\t\twire\tready\n\t\twire\tvalue\n\t==\n\t\tnext\n\t\t\t3\n\t\t\twire\tdata\n\t\tconst\t64\n"},
		{"D1 & D2",
			"&\n\twire\tD1\n\twire\tD2\n"},
		{"top.cpu.clk",
			"wire\ttop.cpu.clk\n"},
		{"((a))",
			"wire\ta\n"},
		{"a == b + c",
			"==\n\twire\ta\n\t+\n\t\twire\tb\n\t\twire\tc\n"},
		{"a - b - c",
			"-\n\t-\n\t\twire\ta\n\t\twire\tb\n\twire\tc\n"},
		{"a -> b = c",
			"=\n\t->\n\t\twire\ta\n\t\twire\tb\n\twire\tc\n"},
		{"!a + -b",
			"+\n\t!\n\t\twire\ta\n\t-\n\t\twire\tb\n"},
		{"from next prev x",
			"from\n\tnext\n\t\tprev\n\t\t\twire\tx\n"},
		{"a << const 2 >= time 7",
			">=\n\t<<\n\t\twire\ta\n\t\tconst\t2\n\ttime\t7\n"},
		{"AXI(valid, ready) | MUX(s, a & b, const 0)",
			"|\n\tAXI\n\t\twire\tvalid\n\t\twire\tready\n\tMUX\n\t\twire\ts\n\t\t&\n\t\t\twire\ta\n\t\t\twire\tb\n\t\tconst\t0\n"},
		{"timer & nextval",
			"&\n\twire\ttimer\n\twire\tnextval\n"},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			n, err := parser.Parse(d.in)
			require.NoError(t, err)
			assert.Equal(t, d.tree, expr.Pretty(n))
		})
	}
}

// Parsing the string form of an AST yields the same AST.
func TestParse_idempotent(t *testing.T) {
	for _, in := range []string{
		"a + b & c - d + const 1",
		"after (acc clk == const 5) & ready & value & (3 next data == const 64)",
		"!(a ^ b) % c >> const 2",
		"- -a",
		"!!a",
		"2 prev from until before x",
		"time 3 -> (a = b)",
		"AXI(a, b) & NOT(c | d)",
		"a != b & c <= d & e < f & g > h",
	} {
		n, err := parser.Parse(in)
		require.NoError(t, err, in)
		s := n.String()
		m, err := parser.Parse(s)
		require.NoError(t, err, s)
		assert.True(t, expr.Equal(n, m), "%s\n%s", expr.Pretty(n), expr.Pretty(m))
		assert.Equal(t, s, m.String())
	}
}

func TestParse_string(t *testing.T) {
	n, err := parser.Parse("a + b & 3 next c | AXI(x, y)")
	require.NoError(t, err)
	assert.Equal(t, "(((a + b) & 3 next c) | AXI(x, y))", n.String())
}

func TestParse_errors(t *testing.T) {
	td := []struct {
		in  string
		msg string
	}{
		{"", `in "" at pos 1`},
		{"a &", `in "a &" at pos`},
		{"a b", `in "a b" at pos 3`},
		{"(a", `in "(a" at pos`},
		{"const", `in "const" at pos`},
		{"a # b", `in "a # b" at pos 3`},
		{"a << 2", `in "a << 2" at pos`},
		{"0 next a", "shift amount must be positive"},
		{"a & 0 next b", "shift amount must be positive"},
		{"a == 0 prev b", "shift amount must be positive"},
		{"a + b - 0 next c", "shift amount must be positive"},
		{"99999999999999999999 next a", "invalid shift amount"},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			_, err := parser.Parse(d.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.msg)
			assert.True(t, fault.IsInput(err))
		})
	}
}

func TestParseList(t *testing.T) {
	ns, err := parser.ParseList("clk, a & b, AXI(v, r)")
	require.NoError(t, err)
	require.Len(t, ns, 3)
	assert.Equal(t, "clk", ns[0].String())
	assert.Equal(t, "(a & b)", ns[1].String())
	assert.Equal(t, "AXI(v, r)", ns[2].String())

	_, err = parser.ParseList("a,")
	assert.Error(t, err)
}

func testNamespace() *wire.Group {
	g := wire.NewGroup("")
	top := g.AddGroup("top")
	top.AddWire(hwtest.FromSamples("a", 4, 1, 2, 3, 4, 5, 6))
	top.AddWire(hwtest.FromSamples("b", 4, 3, 3, 3, 3, 3, 3))
	top.AddWire(hwtest.Clock("clk", 2, 10))
	top.AddWire(hwtest.FromSamples("ready", 1, 0, 0, 0, 0, 0, 1, 1, 0))
	return g
}

func eval(t *testing.T, in string) *wire.Wire {
	t.Helper()
	n, err := parser.Parse(in)
	require.NoError(t, err)
	w, err := expr.Eval(n, testNamespace())
	require.NoError(t, err)
	return w
}

func TestEval(t *testing.T) {
	td := []struct {
		in   string
		want []int64
	}{
		{"a & b", []int64{1, 2, 3, 0, 1, 2}},
		{"a + const 10", []int64{11, 12, 13, 14, 15, 16}},
		{"a > b", []int64{0, 0, 0, 1, 1, 1}},
		{"time 2", []int64{0, 0, 1, 0}},
		{"from ready", []int64{0, 0, 0, 0, 0, 1, 1, 1}},
		{"after ready", []int64{0, 0, 0, 0, 0, 0, 1, 1}},
		{"until ready", []int64{1, 1, 1, 1, 1, 1, 0, 0}},
		{"before ready", []int64{1, 1, 1, 1, 1, 0, 0, 0}},
		{"next a", []int64{2, 3, 4, 5, 6, 6}},
		{"2 next a", []int64{3, 4, 5, 6, 6, 6}},
		{"prev a", []int64{hwtest.X, 1, 2, 3, 4, 5, 6}},
		{"acc clk", []int64{0, 1, 1, 2, 2, 3, 3, 4}},
		{"acc clk == const 3", []int64{0, 0, 0, 0, 0, 1, 1, 0}},
		{"!ready", []int64{1, 1, 1, 1, 1, 0, 0, 1}},
		{"-a - const 10", []int64{-11, -12, -13, -14, -15, -16}},
		{"ready -> a == const 5", []int64{1, 1, 1, 1, 1, 0, 0, 1}},
		{"AXI(clk, ready)", []int64{0, 0, 0, 0, 0, 1, 0, 0}},
		{"top.clk & ready", []int64{0, 0, 0, 0, 0, 1, 0, 0}},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			w := eval(t, d.in)
			hwtest.CheckElided(t, w)
			hwtest.CompareInts(t, w, d.want...)
		})
	}
}

func TestEval_names(t *testing.T) {
	assert.Equal(t, "(a & b)", eval(t, "a & b").Name)
	assert.Equal(t, "from ready", eval(t, "from ready").Name)
	assert.Equal(t, "AXI(clk, ready)", eval(t, "axi(clk, ready)").Name)
	assert.Equal(t, 5, eval(t, "a + b").Width)
	assert.Equal(t, 1, eval(t, "a == b").Width)
	assert.Equal(t, 0, eval(t, "acc clk").Width)
}

type bogus struct{ expr.Node }

func TestEval_errors(t *testing.T) {
	ns := testNamespace()
	td := []struct {
		in  string
		msg string
	}{
		{"nope & a", `wire "nope" not found`},
		{"top.nope", `wire "nope" not found in path "top.nope"`},
		{"FOO(a)", `unknown macro "FOO"`},
		{"MUX(a, b)", "MUX expects 3 arguments"},
		{"a & time 18446744073709551615", "out of range"},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			n, err := parser.Parse(d.in)
			require.NoError(t, err)
			_, err = expr.Eval(n, ns)
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.msg)
			assert.True(t, fault.IsInput(err))
		})
	}

	_, err := expr.Eval(&expr.Binary{Op: wire.And, X: &expr.Leaf{Name: "a"}, Y: bogus{}}, ns)
	require.Error(t, err)
	assert.True(t, fault.IsInternal(err))
	_, err = expr.Eval(&expr.Unary{Op: expr.UnaryOp(42), X: &expr.Leaf{Name: "a"}}, ns)
	require.Error(t, err)
	assert.True(t, fault.IsInternal(err))
}
