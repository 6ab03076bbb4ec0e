// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwtrace queries VCD and EVCD value change dumps.
//
// It computes a time window and breakpoints from limit expressions and prints
// the selected wires over that window:
//
//	hwtrace -f cpu.vcd -s "after rst" -e "halt" -w "clk, pc, AXI(valid, ready)" -r 16 -d
//
// Queries can be saved with -S name and reloaded with -R name. Options given
// together with -R override the saved ones.
//
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/db47h/hwtrace"
	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/internal/config"
	"github.com/db47h/hwtrace/vcd"
	"github.com/db47h/hwtrace/wire"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
)

type options struct {
	q       config.Query
	save    string
	reload  string
	queries string
	convert string
	verbose bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	o := new(options)
	fs.StringVar(&o.q.File, "f", "", "input .vcd or .evcd `file`")
	fs.StringVar(&o.q.Start, "s", "", "`expression` for the start of the window")
	fs.StringVar(&o.q.End, "e", "", "`expression` for the end of the window")
	fs.StringVar(&o.q.Break, "b", "", "`expression` for the breakpoints")
	fs.Uint64Var(&o.q.Length, "l", 0, "number of time steps to display")
	fs.StringVar(&o.q.Wires, "w", "", "comma separated `list` of wires or expressions to display")
	fs.IntVar(&o.q.Radix, "r", 10, "radix of displayed values (2 to 33)")
	fs.BoolVar(&o.q.Display, "d", false, "print the wire values over the window")
	fs.StringVar(&o.save, "S", "", "save the query under `name`")
	fs.StringVar(&o.reload, "R", "", "reload the query saved under `name`")
	fs.StringVar(&o.queries, "q", "", "query `file` (default $HOME/.config/hwtrace/queries.yaml)")
	fs.StringVar(&o.convert, "convert", "", "translate the input EVCD file to VCD into `file` and exit")
	fs.BoolVar(&o.verbose, "v", false, "verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.save != "" && o.reload != "" {
		return nil, fault.Errorf("-S and -R cannot be given together")
	}
	if o.queries == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		o.queries = p
	}
	if o.reload != "" {
		qs, err := config.Load(o.queries)
		if err != nil {
			return nil, err
		}
		q, ok := qs[o.reload]
		if !ok {
			return nil, fault.Errorf("no saved query named %q in %s", o.reload, o.queries)
		}
		o.q = merge(q, o.q, fs)
	}
	if o.q.File == "" {
		return nil, fault.Errorf("no input file")
	}
	if o.q.Radix < 2 || o.q.Radix > 33 {
		return nil, fault.Errorf("radix must be between 2 and 33")
	}
	return o, nil
}

// merge returns the saved query q overridden by the flags explicitly set in fs.
//
func merge(q, flags config.Query, fs *flag.FlagSet) config.Query {
	if q.Radix == 0 {
		q.Radix = flags.Radix
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			q.File = flags.File
		case "s":
			q.Start = flags.Start
		case "e":
			q.End = flags.End
		case "b":
			q.Break = flags.Break
		case "l":
			q.Length = flags.Length
		case "w":
			q.Wires = flags.Wires
		case "r":
			q.Radix = flags.Radix
		case "d":
			q.Display = flags.Display
		}
	})
	return q
}

func convert(out, in string) error {
	r, err := os.Open(in)
	if err != nil {
		return fault.As(fault.Input, errors.WithStack(err))
	}
	defer r.Close()
	w, err := os.Create(out)
	if err != nil {
		return errors.WithStack(err)
	}
	if err = vcd.Translate(w, r); err != nil {
		w.Close()
		return errors.Wrapf(err, "convert %s", in)
	}
	return errors.WithStack(w.Close())
}

func run(o *options, out *bufio.Writer) error {
	if o.convert != "" {
		return convert(o.convert, o.q.File)
	}
	q := &o.q
	t, err := hwtrace.Open(q.File, nil)
	if err != nil {
		return err
	}
	from, to, err := t.Window(q.Start, q.End, q.Length)
	if err != nil {
		return err
	}
	var bps []uint64
	if q.Break != "" {
		if bps, err = t.Breakpoints(q.Break); err != nil {
			return errors.Wrap(err, "breakpoints")
		}
	}
	var ws []*wire.Wire
	if q.Wires != "" {
		if ws, err = t.Wires(q.Wires); err != nil {
			return err
		}
	} else {
		ws = allWires(t.Root)
	}

	if o.save != "" {
		qs, err := config.Load(o.queries)
		if err != nil {
			return err
		}
		qs[o.save] = *q
		if err = qs.Save(o.queries); err != nil {
			return err
		}
		slog.Info("query saved", "name", o.save, "file", o.queries)
	}

	fmt.Fprintf(out, "window: %d %d\n", from, to)
	if q.Break != "" {
		fmt.Fprintf(out, "breakpoints: %v\n", bps)
	}
	if q.Display {
		fmt.Fprintln(out, render(ws, from, to, bps, q.Radix))
	}
	return nil
}

func main() {
	fs := flag.NewFlagSet("hwtrace", flag.ContinueOnError)
	o, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			atexit.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "hwtrace: %v\n", err)
		atexit.Exit(2)
	}

	lvl := slog.LevelInfo
	if o.verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { out.Flush() })

	if err = run(o, out); err != nil {
		if fault.IsInternal(err) {
			fmt.Fprintf(os.Stderr, "hwtrace: internal error: %+v\n", err)
			atexit.Exit(3)
		}
		fmt.Fprintf(os.Stderr, "hwtrace: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
