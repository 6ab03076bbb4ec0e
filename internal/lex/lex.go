// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex provides a state function based rune lexer.
//
// A lexer runs a chain of state functions over its input. Each state function
// reads runes with Next and Backup, emits items with Emit and returns the next
// state. A state function returning nil hands control back to the initial
// state, which also marks the start of a new token.
//
package lex

import (
	"bufio"
	"io"
)

// EOF is the rune returned by Next at the end of input and the Type of the
// item emitted at the end of input.
//
const EOF = -1

// Type is an item type. Negative values are reserved.
//
type Type int

// Pos is a byte offset in the input.
//
type Pos int

// Item is a lexer token.
//
type Item struct {
	Type  Type
	Value interface{}
	Pos   Pos // start offset of the token
	Line  int // line of the start of the token, starting at 1
}

// StateFn is a state function.
//
type StateFn func(l *Lexer) StateFn

// Interface wraps the Lex method, which returns the next item in the input.
//
type Interface interface {
	Lex() Item
}

// Lexer is a state function driven rune lexer.
//
type Lexer struct {
	r     *bufio.Reader
	init  StateFn
	state StateFn
	items []Item
	err   error

	cur    rune // last rune returned by Next
	size   int  // size in bytes of cur
	unread bool // Backup was called
	eof    bool
	pos    Pos  // offset of the next rune
	line   int  // line of the next rune
	ppos   Pos  // pos before the last call to Next
	pline  int

	tpos  Pos // token start
	tline int
}

// New returns a new lexer reading from r and starting in state init.
//
func New(r io.Reader, init StateFn) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lexer{r: br, init: init, line: 1, tline: 1}
}

// Lex returns the next item.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.tpos, l.tline = l.pos, l.line
			l.state = l.init
		}
		l.state = l.state(l)
	}
	it := l.items[0]
	l.items = l.items[1:]
	return it
}

// Next returns the next rune in the input, or EOF at the end of input or on
// a read error.
//
func (l *Lexer) Next() rune {
	l.ppos, l.pline = l.pos, l.line
	switch {
	case l.unread:
		l.unread = false
	case l.eof:
		return EOF
	default:
		r, sz, err := l.r.ReadRune()
		if err != nil {
			if err != io.EOF {
				l.err = err
			}
			l.cur, l.size, l.eof = EOF, 0, true
			return EOF
		}
		l.cur, l.size = r, sz
	}
	l.pos += Pos(l.size)
	if l.cur == '\n' {
		l.line++
	}
	return l.cur
}

// Backup undoes the last call to Next. It may only be called once per call
// to Next.
//
func (l *Lexer) Backup() {
	l.pos, l.line = l.ppos, l.pline
	l.unread = true
}

// Current returns the last rune returned by Next.
//
func (l *Lexer) Current() rune {
	return l.cur
}

// AcceptWhile reads runes while f returns true. The first rune for which f
// returns false is not consumed.
//
func (l *Lexer) AcceptWhile(f func(r rune) bool) {
	for r := l.Next(); r != EOF && f(r); r = l.Next() {
	}
	l.Backup()
}

// StartToken marks the current position as the start of the next token.
//
func (l *Lexer) StartToken() {
	l.tpos, l.tline = l.pos, l.line
}

// Emit emits an item positioned at the start of the current token and starts
// a new token.
//
func (l *Lexer) Emit(t Type, value interface{}) {
	l.items = append(l.items, Item{Type: t, Value: value, Pos: l.tpos, Line: l.tline})
	l.StartToken()
}

// Pos returns the current offset in the input.
//
func (l *Lexer) Pos() Pos { return l.pos }

// Line returns the current line.
//
func (l *Lexer) Line() int { return l.line }

// Err returns the first non EOF read error.
//
func (l *Lexer) Err() error { return l.err }
