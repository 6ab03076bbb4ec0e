package hwtrace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/hwtrace"
	"github.com/db47h/hwtrace/expr"
	"github.com/db47h/hwtrace/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clk toggles every step, ready rises at 5, data is 5 at 2, 64 at 6 and 7 at 8.
const dump = `$date today $end
$timescale 1ns $end
$scope module top $end
$var wire 1 ! clk $end
$var wire 1 " ready $end
$var wire 8 # data $end
$scope module sub $end
$var wire 1 ! clk $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
0!
0"
b0 #
$end
#1
1!
#2
0!
b101 #
#3
1!
#4
0!
#5
1!
1"
#6
0!
b1000000 #
#7
1!
#8
0!
b111 #
#9
1!
#10
0!
`

var parser = expr.MustCompile()

func load(t *testing.T) *hwtrace.Trace {
	t.Helper()
	tr, err := hwtrace.Read(strings.NewReader(dump), false, parser)
	require.NoError(t, err)
	return tr
}

func TestTrace(t *testing.T) {
	tr := load(t)
	assert.Equal(t, 4, tr.NumWires())
	assert.Equal(t, uint64(10), tr.Length())
	assert.Equal(t, []string{"clk", "data", "ready"}, tr.Names())
	assert.Equal(t, "1ns", tr.Metadata["timescale"])

	clk, err := tr.Find("clk")
	require.NoError(t, err)
	sub, err := tr.Find("top.sub.clk")
	require.NoError(t, err)
	assert.Same(t, clk, sub)

	_, err = tr.Find("nope")
	assert.True(t, fault.IsInput(err))
}

func TestTrace_Evaluate(t *testing.T) {
	tr := load(t)
	td := []struct {
		src  string
		want []uint64
	}{
		{"ready & clk", []uint64{5, 7, 9}},
		{"data == const 64", []uint64{6, 7}},
		{"time 3", []uint64{3}},
		{"from ready", []uint64{5, 6, 7, 8, 9}},
		{"acc clk == const 2", []uint64{3, 4}},
		{"data == const 99", nil},
	}
	for _, d := range td {
		t.Run(d.src, func(t *testing.T) {
			got, err := tr.Evaluate(d.src)
			require.NoError(t, err)
			assert.Equal(t, d.want, got)
		})
	}
	bps, err := tr.Breakpoints("RISE(clk) & ready")
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 7, 9}, bps)

	_, err = tr.Evaluate("clk &")
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))
}

func TestTrace_ComputeLimits(t *testing.T) {
	tr := load(t)
	td := []struct {
		start, end string
		s, e       uint64
	}{
		{"time 0", "ready == const 1", 0, 5},
		{"ready", "ready", 5, 6},
		{"data == const 99", "clk", 0, 1},
		{"ready", "data == const 99", 5, 10},
		{"clk", "ready", 1, 5},
		{"data == const 5", "data == const 0", 2, 10},
	}
	for _, d := range td {
		t.Run(d.start+"/"+d.end, func(t *testing.T) {
			s, e, err := tr.ComputeLimits(d.start, d.end)
			require.NoError(t, err)
			assert.Equal(t, d.s, s, "start")
			assert.Equal(t, d.e, e, "end")
		})
	}

	_, _, err := tr.ComputeLimits("time 3", "nope")
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))
	assert.Contains(t, err.Error(), "end")
}

func TestTrace_Window(t *testing.T) {
	tr := load(t)
	td := []struct {
		start, end string
		length     uint64
		from, to   uint64
	}{
		{"", "", 0, 0, 10},
		{"ready", "", 0, 5, 10},
		{"ready", "", 3, 5, 8},
		{"", "", 4, 0, 4},
		{"", "data == const 64", 0, 0, 6},
		{"clk", "ready", 0, 1, 5},
	}
	for _, d := range td {
		t.Run(d.start+"/"+d.end, func(t *testing.T) {
			from, to, err := tr.Window(d.start, d.end, d.length)
			require.NoError(t, err)
			assert.Equal(t, d.from, from, "from")
			assert.Equal(t, d.to, to, "to")
		})
	}

	_, _, err := tr.Window("", "ready", 4)
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))
}

func TestTrace_Wires(t *testing.T) {
	tr := load(t)
	ws, err := tr.Wires("clk, ready & clk, top.sub.clk")
	require.NoError(t, err)
	require.Len(t, ws, 3)
	assert.Equal(t, "clk", ws[0].Name)
	assert.Equal(t, "(ready & clk)", ws[1].Name)
	assert.Same(t, ws[0], ws[2])

	_, err = tr.Wires("clk, nope")
	assert.True(t, fault.IsInput(err))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "counter.vcd")
	require.NoError(t, os.WriteFile(name, []byte(dump), 0o644))
	tr, err := hwtrace.Open(name, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), tr.Length())

	name = filepath.Join(dir, "ports.evcd")
	require.NoError(t, os.WriteFile(name, []byte(`$scope module top $end
$var port 1 <0 clk $end
$upscope $end
$enddefinitions $end
#0
pD 6 0 <0
#10
pU 6 0 <0
`), 0o644))
	tr, err = hwtrace.Open(name, parser)
	require.NoError(t, err)
	assert.Equal(t, []string{"clk_I", "clk_O"}, tr.Names())
	bps, err := tr.Evaluate("clk_I")
	require.NoError(t, err)
	assert.Nil(t, bps)
	s, e, err := tr.ComputeLimits("time 0", "clk_I")
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 10}, []uint64{s, e})

	_, err = hwtrace.Open(filepath.Join(dir, "missing.vcd"), parser)
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))

	name = filepath.Join(dir, "bad.vcd")
	require.NoError(t, os.WriteFile(name, []byte("$scope module top $end\n"), 0o644))
	_, err = hwtrace.Open(name, parser)
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))
	assert.Contains(t, err.Error(), "bad.vcd")
}
