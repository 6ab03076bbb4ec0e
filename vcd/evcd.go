// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"log/slog"
	"strings"

	"github.com/db47h/hwtrace/fault"
	"github.com/pkg/errors"
)

// portStates maps EVCD port value symbols to the VCD states of the input and
// output sides of the port.
var portStates = map[byte][2]byte{
	// input driven
	'D': {'0', 'z'},
	'U': {'1', 'z'},
	'N': {'x', 'z'},
	'Z': {'z', 'z'},
	'd': {'0', 'z'},
	'u': {'1', 'z'},
	// output driven
	'L': {'z', '0'},
	'H': {'z', '1'},
	'X': {'z', 'x'},
	'T': {'z', 'z'},
	'l': {'z', '0'},
	'h': {'z', '1'},
	// unknown direction
	'0': {'0', '0'},
	'1': {'1', '1'},
	'?': {'x', 'x'},
	'F': {'z', 'z'},
	'A': {'0', '1'},
	'a': {'0', 'x'},
	'B': {'1', '0'},
	'b': {'1', 'x'},
	'C': {'x', '0'},
	'c': {'x', '1'},
	'f': {'z', 'z'},
}

// PortStates returns the input and output VCD states of an EVCD port value.
// ok is false if the port value contains an unknown symbol.
//
func PortStates(v string) (in, out string, ok bool) {
	bi := make([]byte, len(v))
	bo := make([]byte, len(v))
	for i := 0; i < len(v); i++ {
		s, found := portStates[v[i]]
		if !found {
			return "", "", false
		}
		bi[i], bo[i] = s[0], s[1]
	}
	return string(bi), string(bo), true
}

type port struct {
	size    int
	in, out string // VCD identifier codes
}

// Translator converts an EVCD token stream into a VCD one. Every port is
// declared as two wires, <name>_I for its input side and <name>_O for its
// output side, with identifier codes derived from the port's code hash h as
// Unhash(2h) and Unhash(2h+1). Port value changes become value changes of
// both wires. All other tokens are passed through.
//
type Translator struct {
	src     Source
	ports   map[string]*port
	pending []Token
	tok     Token
	err     error
	done    bool
}

// NewTranslator returns a new Translator reading EVCD tokens from src.
//
func NewTranslator(src Source) *Translator {
	return &Translator{src: src, ports: make(map[string]*port)}
}

// Token returns the last token read by Scan.
//
func (t *Translator) Token() Token { return t.tok }

// Err returns the first error encountered by Scan or by the underlying
// source.
//
func (t *Translator) Err() error { return t.err }

func (t *Translator) fail(err error) bool {
	t.err, t.done, t.tok = err, true, Token{}
	return false
}

// Scan advances to the next token.
//
func (t *Translator) Scan() bool {
	for len(t.pending) == 0 {
		if t.done {
			return false
		}
		if !t.src.Scan() {
			t.done = true
			t.err = t.src.Err()
			if t.err == nil {
				logger().Debug("evcd translated", slog.Int("ports", len(t.ports)))
			}
			t.tok = Token{}
			return false
		}
		if err := t.translate(t.src.Token()); err != nil {
			return t.fail(err)
		}
	}
	t.tok = t.pending[0]
	t.pending = t.pending[1:]
	return true
}

func (t *Translator) translate(tok Token) error {
	switch tok.Kind {
	case Var:
		if tok.Var.Type != "port" {
			break
		}
		if _, ok := t.ports[tok.Var.ID]; ok {
			return fault.Errorf("line %d: port identifier code %q redeclared", tok.Line, tok.Var.ID)
		}
		h, err := Hash(tok.Var.ID)
		if err != nil {
			return errors.Wrapf(err, "line %d", tok.Line)
		}
		p := &port{size: tok.Var.Size, in: Unhash(2 * h), out: Unhash(2*h + 1)}
		t.ports[tok.Var.ID] = p
		in, out := tok, tok
		in.Var = VarDecl{Type: "wire", Size: p.size, ID: p.in, Ref: tok.Var.Ref + "_I", Index: tok.Var.Index}
		out.Var = VarDecl{Type: "wire", Size: p.size, ID: p.out, Ref: tok.Var.Ref + "_O", Index: tok.Var.Index}
		t.pending = append(t.pending, in, out)
		return nil
	case PortChange:
		p, ok := t.ports[tok.ID]
		if !ok {
			return fault.Errorf("line %d: value change for undeclared port %q", tok.Line, tok.ID)
		}
		vi, vo, ok := PortStates(tok.Value)
		if !ok {
			return fault.Errorf("line %d: invalid port value %q", tok.Line, tok.Value)
		}
		k := Vector
		if p.size == 1 && len(tok.Value) == 1 {
			k = Scalar
		}
		in := Token{Kind: k, Line: tok.Line, ID: p.in, Value: vi}
		out := Token{Kind: k, Line: tok.Line, ID: p.out, Value: vo}
		t.pending = append(t.pending, in, out)
		return nil
	}
	t.pending = append(t.pending, tok)
	return nil
}

// IsEVCD returns true if name has an extended VCD file extension.
//
func IsEVCD(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".evcd")
}
