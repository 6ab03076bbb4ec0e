// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/internal/lex"
)

// lexer item types
const (
	itemWord lex.Type = iota
	itemKeyword
)

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
		return nil
	}
	return lexWord
}

func lexWord(l *lex.Lexer) lex.StateFn {
	var buf strings.Builder
	buf.WriteRune(l.Current())
	for r := l.Next(); r != lex.EOF && !unicode.IsSpace(r); r = l.Next() {
		buf.WriteRune(r)
	}
	l.Backup()
	w := buf.String()
	if w[0] == '$' {
		l.Emit(itemKeyword, w)
	} else {
		l.Emit(itemWord, w)
	}
	return nil
}

func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of file")
	return lexEOF
}

// Source is a stream of tokens.
//
// Scan advances to the next token, which is then available through Token. It
// returns false once the stream is exhausted, either at the end of input or
// after an error. Err returns the error, nil if the stream ended normally.
//
type Source interface {
	Scan() bool
	Token() Token
	Err() error
}

// Scanner splits a VCD or EVCD input into tokens.
//
type Scanner struct {
	l    *lex.Lexer
	tok  Token
	err  error
	done bool
}

// NewScanner returns a new Scanner reading from r.
//
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{l: lex.New(r, lexInit)}
}

// Token returns the last token read by Scan.
//
func (s *Scanner) Token() Token { return s.tok }

// Err returns the first error encountered by Scan.
//
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) fail(err error) bool {
	s.err = err
	s.done = true
	s.tok = Token{}
	return false
}

func (s *Scanner) errorf(line int, format string, args ...interface{}) bool {
	return s.fail(fault.Errorf("line %d: "+format, append([]interface{}{line}, args...)...))
}

// Scan advances to the next token.
//
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	it := s.l.Lex()
	switch it.Type {
	case lex.EOF:
		s.done = true
		if err := s.l.Err(); err != nil {
			s.err = fault.As(fault.Input, err)
		}
		s.tok = Token{}
		return false
	case itemKeyword:
		return s.command(it)
	}
	return s.change(it)
}

// body reads the words of a command up to $end.
//
func (s *Scanner) body(cmd lex.Item) ([]string, bool) {
	var words []string
	for {
		it := s.l.Lex()
		switch {
		case it.Type == lex.EOF:
			return nil, s.errorf(cmd.Line, "unexpected end of file in %s", cmd.Value)
		case it.Type == itemKeyword && it.Value.(string) == "$end":
			return words, true
		}
		words = append(words, it.Value.(string))
	}
}

func (s *Scanner) command(it lex.Item) bool {
	name := it.Value.(string)
	k, ok := keywords[name]
	if !ok {
		return s.errorf(it.Line, "unknown command %s", name)
	}
	s.tok = Token{Kind: k, Line: it.Line}
	switch k {
	case DumpAll, DumpOff, DumpOn, DumpVars, End:
		// the value changes that follow are scanned individually and the
		// closing $end is its own token
		return true
	}
	words, ok := s.body(it)
	if !ok {
		return false
	}
	switch k {
	case Comment, Date, Version, Timescale, VCDClose:
		s.tok.Text = strings.Join(words, " ")
	case Scope:
		if len(words) != 2 {
			return s.errorf(it.Line, "malformed $scope: expected type and name, got %q", strings.Join(words, " "))
		}
		s.tok.ScopeType, s.tok.ScopeName = words[0], words[1]
	case Upscope, EndDefinitions:
		if len(words) != 0 {
			return s.errorf(it.Line, "unexpected %q in %s", strings.Join(words, " "), name)
		}
	case Var:
		return s.varDecl(it.Line, words)
	}
	return true
}

func (s *Scanner) varDecl(line int, words []string) bool {
	if len(words) < 4 {
		return s.errorf(line, "malformed $var: %q", strings.Join(words, " "))
	}
	size, err := parseSize(words[1])
	if err != nil {
		return s.errorf(line, "invalid $var size %q", words[1])
	}
	if size <= 0 {
		return s.errorf(line, "non-positive $var size %d", size)
	}
	s.tok.Var = VarDecl{
		Type:  words[0],
		Size:  size,
		ID:    words[2],
		Ref:   words[3],
		Index: strings.Join(words[4:], ""),
	}
	return true
}

// parseSize parses a decimal size or an EVCD port range "[msb:lsb]".
//
func parseSize(s string) (int, error) {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		i := strings.IndexByte(s, ':')
		if i < 0 {
			return 0, strconv.ErrSyntax
		}
		msb, err := strconv.Atoi(s[1:i])
		if err != nil {
			return 0, err
		}
		lsb, err := strconv.Atoi(s[i+1 : len(s)-1])
		if err != nil {
			return 0, err
		}
		if msb < lsb {
			msb, lsb = lsb, msb
		}
		return msb - lsb + 1, nil
	}
	return strconv.Atoi(s)
}

// next returns the next word of a value change that spans several words.
//
func (s *Scanner) next(first lex.Item, what string) (string, bool) {
	it := s.l.Lex()
	// identifier codes may start with '$' and lex as keywords
	if it.Type == lex.EOF || it.Value.(string) == "$end" {
		return "", s.errorf(first.Line, "missing %s after %q", what, first.Value)
	}
	return it.Value.(string), true
}

func (s *Scanner) change(it lex.Item) bool {
	w := it.Value.(string)
	s.tok = Token{Line: it.Line}
	switch c := w[0]; c {
	case '#':
		t, err := strconv.ParseUint(w[1:], 10, 64)
		if err != nil {
			return s.errorf(it.Line, "invalid time stamp %q", w)
		}
		s.tok.Kind, s.tok.Time = Time, t
	case '0', '1', 'x', 'X', 'z', 'Z':
		if len(w) < 2 {
			return s.errorf(it.Line, "missing identifier code in %q", w)
		}
		s.tok.Kind, s.tok.Value, s.tok.ID = Scalar, w[:1], w[1:]
	case 'b', 'B', 'r', 'R', 's', 'S':
		id, ok := s.next(it, "identifier code")
		if !ok {
			return false
		}
		s.tok.ID, s.tok.Value = id, w[1:]
		switch c {
		case 'b', 'B':
			s.tok.Kind = Vector
		case 'r', 'R':
			s.tok.Kind = Real
		default:
			s.tok.Kind = String
		}
	case 'p', 'P':
		var ok bool
		s.tok.Kind, s.tok.Value = PortChange, w[1:]
		if s.tok.Strength0, ok = s.next(it, "strength"); !ok {
			return false
		}
		if s.tok.Strength1, ok = s.next(it, "strength"); !ok {
			return false
		}
		if s.tok.ID, ok = s.next(it, "identifier code"); !ok {
			return false
		}
	default:
		return s.errorf(it.Line, "unexpected %q", w)
	}
	return true
}
