// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package fault classifies errors returned by hwtrace packages.
//
// Errors caused by bad input (a malformed expression, an unknown wire name, a
// broken VCD file) have kind Input. Errors reporting a construct that the
// engine does not model yet (real valued changes, an AST node with no
// evaluation case) have kind Internal. The kind survives wrapping with
// errors.Wrap.
//
package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is an error category.
//
type Kind int

// Error kinds.
//
const (
	Unknown  Kind = iota // not produced by hwtrace
	Input                // bad user input
	Internal             // unsupported feature or model gap
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input error"
	case Internal:
		return "internal error"
	}
	return "unknown error"
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Cause() error  { return e.err }
func (e *kindError) Unwrap() error { return e.err }

// Format forwards to the wrapped error so that %+v prints the stack trace.
//
func (e *kindError) Format(s fmt.State, verb rune) {
	if f, ok := e.err.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprint(s, e.err.Error())
}

// Errorf returns a new Input error.
//
func Errorf(format string, args ...interface{}) error {
	return &kindError{Input, errors.Errorf(format, args...)}
}

// Internalf returns a new Internal error.
//
func Internalf(format string, args ...interface{}) error {
	return &kindError{Internal, errors.Errorf(format, args...)}
}

// As tags err with kind k. It returns nil if err is nil.
//
func As(k Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{k, err}
}

// KindOf returns the kind of the first tagged error in err's chain.
//
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return Unknown
}

// IsInternal reports whether err is an Internal error.
//
func IsInternal(err error) bool { return KindOf(err) == Internal }

// IsInput reports whether err is an Input error.
//
func IsInput(err error) bool { return KindOf(err) == Input }
