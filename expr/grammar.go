// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package expr

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Raw parse tree. One struct per precedence level, each holding its left
// operand and the list of (operator, operand) pairs that follow it. A level
// where no operator was found is a single-child wrapper that normalization
// collapses.

type exprList struct {
	Exprs []*logicExpr `parser:"@@ ( \",\" @@ )*"`
}

type logicExpr struct {
	Left *relExpr     `parser:"@@"`
	Tail []*logicTail `parser:"@@*"`
}

type logicTail struct {
	Op    string   `parser:"@( \"->\" | \"=\" | \"&\" | \"|\" | \"^\" )"`
	Right *relExpr `parser:"@@"`
}

type relExpr struct {
	Left *arithExpr `parser:"@@"`
	Tail []*relTail `parser:"@@*"`
}

type relTail struct {
	Op    string     `parser:"@( \"==\" | \"!=\" | \">=\" | \"<=\" | \">\" | \"<\" )"`
	Right *arithExpr `parser:"@@"`
}

type arithExpr struct {
	Left *unaryExpr   `parser:"@@"`
	Tail []*arithTail `parser:"@@*"`
}

type arithTail struct {
	Op    string     `parser:"@( \"+\" | \"-\" | \">>\" | \"<<\" | \"%\" )"`
	Right *unaryExpr `parser:"@@"`
}

type unaryExpr struct {
	Op      string     `parser:"(  @( \"!\" | \"-\" | \"from\" | \"after\" | \"until\" | \"before\" | \"acc\" )"`
	Operand *unaryExpr `parser:"   @@ )"`
	Shift   *shiftExpr `parser:"| @@"`
	Primary *primary   `parser:"| @@"`
}

type shiftExpr struct {
	Amount  *string    `parser:"@Int?"`
	Op      string     `parser:"@( \"next\" | \"prev\" )"`
	Operand *unaryExpr `parser:"@@"`
}

type primary struct {
	Sub     *logicExpr `parser:"  \"(\" @@ \")\""`
	Literal *literal   `parser:"| @@"`
	Ident   *ident     `parser:"| @@"`
}

type literal struct {
	Kind  string `parser:"@( \"const\" | \"time\" )"`
	Value string `parser:"@Int"`
}

type ident struct {
	Name string   `parser:"@Ident"`
	Args *argList `parser:"@@?"`
}

type argList struct {
	Args []*logicExpr `parser:"\"(\" ( @@ ( \",\" @@ )* )? \")\""`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Keyword", Pattern: `(?:from|after|until|before|next|prev|acc|const|time)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_$.]*`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Operator", Pattern: `->|==|!=|>=|<=|<<|>>|[-+%&|^=<>!(),]`},
})

func options() []participle.Option {
	return []participle.Option{
		participle.Lexer(exprLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	}
}
