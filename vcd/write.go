// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Writer writes tokens as VCD text.
//
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a new Writer writing to w.
//
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) str(ss ...string) {
	for _, s := range ss {
		if w.err != nil {
			return
		}
		_, w.err = w.w.WriteString(s)
	}
}

// Write writes a single token.
//
func (w *Writer) Write(tok Token) error {
	switch k := tok.Kind; k {
	case Comment, Date, Version:
		w.str(k.String(), "\n\t", tok.Text, "\n$end\n")
	case Timescale, VCDClose:
		w.str(k.String(), " ", tok.Text, " $end\n")
	case Scope:
		w.str("$scope ", tok.ScopeType, " ", tok.ScopeName, " $end\n")
	case Upscope, EndDefinitions:
		w.str(k.String(), " $end\n")
	case Var:
		v := tok.Var
		w.str("$var ", v.Type, " ", strconv.Itoa(v.Size), " ", v.ID, " ", v.Ref)
		if v.Index != "" {
			w.str(" ", v.Index)
		}
		w.str(" $end\n")
	case Time:
		w.str("#", strconv.FormatUint(tok.Time, 10), "\n")
	case Scalar:
		w.str(tok.Value, tok.ID, "\n")
	case Vector:
		w.str("b", tok.Value, " ", tok.ID, "\n")
	case Real:
		w.str("r", tok.Value, " ", tok.ID, "\n")
	case String:
		w.str("s", tok.Value, " ", tok.ID, "\n")
	case PortChange:
		w.str("p", tok.Value, " ", tok.Strength0, " ", tok.Strength1, " ", tok.ID, "\n")
	case DumpAll, DumpOff, DumpOn, DumpVars, End:
		w.str(k.String(), "\n")
	default:
		return errors.Errorf("cannot write token of kind %v", k)
	}
	return w.err
}

// Flush writes any buffered data to the underlying writer.
//
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Copy writes every token of src to w and flushes it. It returns the number
// of tokens written.
//
func Copy(w *Writer, src Source) (n int, err error) {
	for src.Scan() {
		if err = w.Write(src.Token()); err != nil {
			return n, err
		}
		n++
	}
	if err = src.Err(); err != nil {
		return n, err
	}
	return n, w.Flush()
}

// Translate reads EVCD text from r and writes its VCD translation to w.
//
func Translate(w io.Writer, r io.Reader) error {
	_, err := Copy(NewWriter(w), NewTranslator(NewScanner(r)))
	return err
}
