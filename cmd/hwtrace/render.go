// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"sort"

	"github.com/db47h/hwtrace/wire"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// allWires returns the wires of g in declaration order, aliases removed.
//
func allWires(g *wire.Group) []*wire.Wire {
	var ws []*wire.Wire
	seen := make(map[*wire.Wire]bool)
	g.Walk(func(_ string, g *wire.Group) bool {
		for _, w := range g.Wires {
			if !seen[w] {
				seen[w] = true
				ws = append(ws, w)
			}
		}
		return true
	})
	return ws
}

// transitions returns the sorted times in [from, to) where any of ws changes,
// plus from itself and the extra times within that range.
//
func transitions(ws []*wire.Wire, from, to uint64, extra ...uint64) []uint64 {
	set := map[uint64]bool{from: true}
	for _, t := range extra {
		if t >= from && t < to {
			set[t] = true
		}
	}
	for _, w := range ws {
		for i := 0; i < w.Len(); i++ {
			if t, _ := w.At(i); t >= from && t < to {
				set[t] = true
			}
		}
	}
	ts := make([]uint64, 0, len(set))
	for t := range set {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	return ts
}

// render formats the values of ws at every transition in [from, to) as a
// text table. Rows at breakpoints are marked with a star.
//
func render(ws []*wire.Wire, from, to uint64, bps []uint64, radix int) string {
	if from >= to {
		return ""
	}
	isBreak := make(map[uint64]bool, len(bps))
	for _, t := range bps {
		isBreak[t] = true
	}
	tw := table.NewWriter()
	header := table.Row{"time", ""}
	for _, w := range ws {
		header = append(header, w.Name)
	}
	tw.AppendHeader(header)
	for _, t := range transitions(ws, from, to, bps...) {
		mark := ""
		if isBreak[t] {
			mark = "*"
		}
		row := table.Row{t, mark}
		for _, w := range ws {
			row = append(row, w.Get(t).Text(radix, w.Width))
		}
		tw.AppendRow(row)
	}
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	return tw.Render()
}
