// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import "strconv"

// Kind is a token kind.
//
type Kind int

// Token kinds.
//
const (
	Comment Kind = iota
	Date
	Version
	Timescale
	Scope
	Upscope
	Var
	EndDefinitions
	Time
	Scalar
	Vector
	Real
	String
	DumpAll
	DumpOff
	DumpOn
	DumpVars
	End
	PortChange
	VCDClose
	kindCount
)

var kindNames = [...]string{
	Comment:        "$comment",
	Date:           "$date",
	Version:        "$version",
	Timescale:      "$timescale",
	Scope:          "$scope",
	Upscope:        "$upscope",
	Var:            "$var",
	EndDefinitions: "$enddefinitions",
	Time:           "time",
	Scalar:         "scalar change",
	Vector:         "vector change",
	Real:           "real change",
	String:         "string change",
	DumpAll:        "$dumpall",
	DumpOff:        "$dumpoff",
	DumpOn:         "$dumpon",
	DumpVars:       "$dumpvars",
	End:            "$end",
	PortChange:     "port change",
	VCDClose:       "$vcdclose",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// keywords maps VCD and EVCD commands to token kinds.
var keywords = map[string]Kind{
	"$comment":        Comment,
	"$date":           Date,
	"$version":        Version,
	"$timescale":      Timescale,
	"$scope":          Scope,
	"$upscope":        Upscope,
	"$var":            Var,
	"$enddefinitions": EndDefinitions,
	"$dumpall":        DumpAll,
	"$dumpoff":        DumpOff,
	"$dumpon":         DumpOn,
	"$dumpvars":       DumpVars,
	"$end":            End,
	"$vcdclose":       VCDClose,
	"$dumpports":      DumpVars,
	"$dumpportsall":   DumpAll,
	"$dumpportsoff":   DumpOff,
	"$dumpportson":    DumpOn,
}

// VarDecl is a $var declaration.
//
type VarDecl struct {
	Type  string // wire, reg, port, ...
	Size  int
	ID    string // identifier code
	Ref   string // reference name
	Index string // optional bit select, e.g. "[7:0]"
}

// Token is a VCD token. Only the fields relevant to its Kind are set.
//
type Token struct {
	Kind Kind
	Line int

	// Body of Comment, Date, Version, Timescale and VCDClose.
	Text string

	// Scope type and name.
	ScopeType string
	ScopeName string

	Var VarDecl

	// Time stamp.
	Time uint64

	// Identifier code and value of Scalar, Vector, Real, String and
	// PortChange tokens. Vector values do not include the leading 'b'.
	ID    string
	Value string

	// Strength components of a PortChange.
	Strength0, Strength1 string
}
