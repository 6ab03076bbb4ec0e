// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package wire

import (
	"sort"
	"strings"

	"github.com/db47h/hwtrace/fault"
)

// A Group is a named scope holding wires and child groups. The root group of
// a trace has an empty name.
//
// The same *Wire may appear in several groups when a trace aliases a signal
// into multiple scopes.
//
type Group struct {
	Name   string
	Wires  []*Wire
	Groups []*Group
}

// NewGroup returns a new empty group.
//
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// AddWire appends w to the group's wires.
//
func (g *Group) AddWire(w *Wire) {
	g.Wires = append(g.Wires, w)
}

// AddGroup creates a new child group and returns it.
//
func (g *Group) AddGroup(name string) *Group {
	c := NewGroup(name)
	g.Groups = append(g.Groups, c)
	return c
}

// Walk calls fn for g and every descendant group, depth first, in
// declaration order. path is the dotted scope path of the group, relative to
// g. Walk stops if fn returns false.
//
func (g *Group) Walk(fn func(path string, g *Group) bool) {
	g.walk("", fn)
}

func (g *Group) walk(path string, fn func(string, *Group) bool) bool {
	if !fn(path, g) {
		return false
	}
	for _, c := range g.Groups {
		p := c.Name
		if path != "" {
			p = path + "." + c.Name
		}
		if !c.walk(p, fn) {
			return false
		}
	}
	return true
}

// NumWires returns the number of wire entries in the group tree. Aliased
// wires are counted once per entry.
//
func (g *Group) NumWires() int {
	n := 0
	g.Walk(func(_ string, g *Group) bool {
		n += len(g.Wires)
		return true
	})
	return n
}

// Length returns the largest Length of all wires in the tree.
//
func (g *Group) Length() uint64 {
	var l uint64
	g.Walk(func(_ string, g *Group) bool {
		for _, w := range g.Wires {
			l = max(l, w.Length())
		}
		return true
	})
	return l
}

// Names returns the sorted set of wire names in the tree.
//
func (g *Group) Names() []string {
	seen := make(map[string]bool)
	var names []string
	g.Walk(func(_ string, g *Group) bool {
		for _, w := range g.Wires {
			if !seen[w.Name] {
				seen[w.Name] = true
				names = append(names, w.Name)
			}
		}
		return true
	})
	sort.Strings(names)
	return names
}

// Freeze freezes every wire in the tree.
//
func (g *Group) Freeze() {
	g.Walk(func(_ string, g *Group) bool {
		for _, w := range g.Wires {
			w.Freeze()
		}
		return true
	})
}

// find returns the first wire named name in g's own wires, then in its
// children, depth first.
//
func (g *Group) find(name string) *Wire {
	for _, w := range g.Wires {
		if w.Name == name {
			return w
		}
	}
	for _, c := range g.Groups {
		if w := c.find(name); w != nil {
			return w
		}
	}
	return nil
}

// Find returns the first wire named name in declaration order, looking at
// the group's own wires before those of its children. If no wire has that
// name and name contains dots, Find resolves it as a scope path with Lookup
// and returns its result.
//
func (g *Group) Find(name string) (*Wire, error) {
	if w := g.find(name); w != nil {
		return w, nil
	}
	if strings.Contains(name, ".") {
		return g.Lookup(name)
	}
	return nil, fault.Errorf("wire %q not found", name)
}

// Lookup resolves a dotted path like "top.cpu.clk": every component but the
// last names a child group, the last names a wire in that group.
//
func (g *Group) Lookup(path string) (*Wire, error) {
	parts := strings.Split(path, ".")
	cur := g
	for _, p := range parts[:len(parts)-1] {
		var next *Group
		for _, c := range cur.Groups {
			if c.Name == p {
				next = c
				break
			}
		}
		if next == nil {
			return nil, fault.Errorf("scope %q not found in path %q", p, path)
		}
		cur = next
	}
	name := parts[len(parts)-1]
	for _, w := range cur.Wires {
		if w.Name == name {
			return w, nil
		}
	}
	return nil, fault.Errorf("wire %q not found in path %q", name, path)
}
