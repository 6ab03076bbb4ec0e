// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vcd reads Value Change Dump files.
//
// A Scanner splits VCD text into tokens. Read consumes a token stream and
// builds a tree of wire groups, one group per $scope, with a wire per declared
// identifier code. EVCD input goes through a Translator first, which turns
// ports into pairs of ordinary wires.
//
package vcd

import (
	"io"
	"log/slog"

	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/wire"
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "vcd"))
}

// Dump is the content of a VCD file.
//
type Dump struct {
	Root *wire.Group
	// Metadata holds the bodies of the $comment, $date, $version and
	// $timescale commands of the declaration section, keyed by command name
	// without the leading '$'. Multiple comments are joined with newlines.
	Metadata map[string]string
}

// Parse reads a VCD file.
//
func Parse(r io.Reader) (*Dump, error) {
	return Read(NewScanner(r))
}

// ParseEVCD reads an extended VCD file.
//
func ParseEVCD(r io.Reader) (*Dump, error) {
	return Read(NewTranslator(NewScanner(r)))
}

type reader struct {
	src   Source
	d     *Dump
	stack []*wire.Group
	ids   map[string]*wire.Wire
}

// Read builds a Dump from a token stream. All wires of the returned dump are
// frozen.
//
func Read(src Source) (*Dump, error) {
	rd := &reader{
		src: src,
		d:   &Dump{Root: wire.NewGroup(""), Metadata: make(map[string]string)},
		ids: make(map[string]*wire.Wire),
	}
	rd.stack = []*wire.Group{rd.d.Root}
	if err := rd.declarations(); err != nil {
		return nil, err
	}
	changes, err := rd.simulation()
	if err != nil {
		return nil, err
	}
	rd.d.Root.Freeze()
	logger().Debug("dump loaded",
		slog.Int("ids", len(rd.ids)),
		slog.Int("wires", rd.d.Root.NumWires()),
		slog.Int("changes", changes),
		slog.Uint64("length", rd.d.Root.Length()))
	return rd.d, nil
}

func (rd *reader) declarations() error {
	for rd.src.Scan() {
		tok := rd.src.Token()
		switch tok.Kind {
		case Comment, Date, Version, Timescale:
			key := tok.Kind.String()[1:]
			if prev, ok := rd.d.Metadata[key]; ok && tok.Kind == Comment {
				rd.d.Metadata[key] = prev + "\n" + tok.Text
			} else {
				rd.d.Metadata[key] = tok.Text
			}
		case Scope:
			g := rd.stack[len(rd.stack)-1].AddGroup(tok.ScopeName)
			rd.stack = append(rd.stack, g)
		case Upscope:
			if len(rd.stack) == 1 {
				return fault.Errorf("line %d: $upscope without matching $scope", tok.Line)
			}
			rd.stack = rd.stack[:len(rd.stack)-1]
		case Var:
			if err := rd.declare(tok); err != nil {
				return err
			}
		case EndDefinitions:
			if n := len(rd.stack) - 1; n > 0 {
				return fault.Errorf("line %d: %d unclosed $scope at $enddefinitions", tok.Line, n)
			}
			return nil
		default:
			return fault.Errorf("line %d: unexpected %s in declaration section", tok.Line, tok.Kind)
		}
	}
	if err := rd.src.Err(); err != nil {
		return err
	}
	return fault.Errorf("missing $enddefinitions")
}

func (rd *reader) declare(tok Token) error {
	v := tok.Var
	if v.Size <= 0 {
		return fault.Errorf("line %d: non-positive size %d for %s", tok.Line, v.Size, v.Ref)
	}
	g := rd.stack[len(rd.stack)-1]
	w, ok := rd.ids[v.ID]
	if !ok {
		w = wire.New(v.Ref, v.Size)
		rd.ids[v.ID] = w
		g.AddWire(w)
		return nil
	}
	if w.Width != v.Size {
		return fault.Errorf("line %d: identifier code %q redeclared with size %d, was %d", tok.Line, v.ID, v.Size, w.Width)
	}
	for _, x := range g.Wires {
		if x == w {
			return fault.Errorf("line %d: identifier code %q redeclared in scope %q", tok.Line, v.ID, g.Name)
		}
	}
	// alias
	g.AddWire(w)
	return nil
}

func (rd *reader) simulation() (changes int, err error) {
	var now uint64
	for rd.src.Scan() {
		tok := rd.src.Token()
		switch tok.Kind {
		case Time:
			if tok.Time < now {
				return changes, fault.Errorf("line %d: time #%d goes back from #%d", tok.Line, tok.Time, now)
			}
			now = tok.Time
		case Scalar, Vector:
			w, ok := rd.ids[tok.ID]
			if !ok {
				return changes, fault.Errorf("line %d: value change for undeclared identifier code %q", tok.Line, tok.ID)
			}
			if len(tok.Value) > w.Width {
				return changes, fault.Errorf("line %d: %d bit value for %d bit wire %s", tok.Line, len(tok.Value), w.Width, w.Name)
			}
			v, ok := wire.ParseBits(tok.Value)
			if !ok {
				return changes, fault.Errorf("line %d: invalid value %q", tok.Line, tok.Value)
			}
			w.Set(now, v)
			changes++
		case Real, String:
			return changes, fault.Internalf("line %d: %s values are not supported", tok.Line, tok.Kind)
		case DumpAll, DumpOff, DumpOn, DumpVars, End, Comment, VCDClose:
		default:
			return changes, fault.Errorf("line %d: unexpected %s in simulation section", tok.Line, tok.Kind)
		}
	}
	return changes, rd.src.Err()
}
