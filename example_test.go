package hwtrace_test

import (
	"fmt"
	"strings"

	"github.com/db47h/hwtrace"
)

func Example() {
	const src = `$scope module top $end
$var wire 1 ! clk $end
$var wire 1 " ready $end
$upscope $end
$enddefinitions $end
#0
0!
0"
#1
1!
#2
0!
#3
1!
1"
#4
0!
#5
1!
#6
0!
`
	t, err := hwtrace.Read(strings.NewReader(src), false, nil)
	if err != nil {
		panic(err)
	}
	start, end, err := t.ComputeLimits("time 0", "ready == const 1")
	if err != nil {
		panic(err)
	}
	fmt.Println("window:", start, end)

	bps, err := t.Breakpoints("clk & ready")
	if err != nil {
		panic(err)
	}
	fmt.Println("breakpoints:", bps)

	// Output:
	// window: 0 3
	// breakpoints: [3 5]
}
