/*
Package hwtrace answers temporal queries over recorded digital logic traces.

A Trace is loaded from a VCD or EVCD value change dump. Signals are then
queried with limit expressions like

	after (acc clk == const 5) & ready & (3 next data == const 64)

which evaluate to new wires over the whole trace. The first time such an
expression is true gives a window bound, and every time it is true gives a
breakpoint.

Expressions are compiled by package expr and evaluated over wires from package
wire. Package vcd handles the file formats and package hwlib provides the
macros available to the name(args...) call form.

*/
package hwtrace
