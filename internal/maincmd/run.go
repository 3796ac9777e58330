package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/bluebat-lang/bluebat/internal/config"
	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/machine"
	"github.com/bluebat-lang/bluebat/lang/parser"
)

// Run evaluates a file, or with no file starts an interactive REPL
// (spec.md §7). There is no separate "compile" subcommand: BlueBat has no
// bytecode stage (spec.md Non-goals), so parse+evaluate collapse into one
// command, unlike the teacher's tokenize/parse/resolve triad.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return printError(stdio, err)
	}

	if len(args) == 1 {
		return RunFile(ctx, stdio, cfg, args[0])
	}
	return RunREPL(ctx, stdio, cfg)
}

// RunFile parses and evaluates one source file to completion, reporting a
// ParseError or an InterpreterError on stderr and a non-nil error (which
// Cmd.Main turns into exit code 1, spec.md §7).
func RunFile(ctx context.Context, stdio mainer.Stdio, cfg config.Config, name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return printError(stdio, err)
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return printError(stdio, err)
	}

	m := machine.New(stdio.Stdout, stdio.Stderr, stdio.Stdin, cfg.GCThreshold, cfg.MaxCallDepth)
	if _, err := m.Eval(prog, m.RootScope()); err != nil {
		return printError(stdio, err)
	}
	return nil
}

// RunREPL reads one line at a time from stdio.Stdin, parses it as a
// statement list and evaluates it in a persistent root scope shared across
// lines, printing the to_str print-form of every non-Null result
// (spec.md §7). Unlike RunFile, an evaluation error is printed and the
// loop continues rather than exiting.
//
// REPL lines are read through m.ReadLine rather than a bufio.Scanner of
// this function's own: the Machine's `input` builtin also reads from
// stdio.Stdin, and two independent buffered scanners over the same reader
// would each consume bytes the other never sees.
func RunREPL(ctx context.Context, stdio mainer.Stdio, cfg config.Config) error {
	m := machine.New(stdio.Stdout, stdio.Stderr, stdio.Stdin, cfg.GCThreshold, cfg.MaxCallDepth)
	root := m.RootScope()

	for {
		fmt.Fprint(stdio.Stdout, cfg.Prompt)
		line, ok := m.ReadLine()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		prog, err := parser.Parse([]byte(line))
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}

		v, err := m.Eval(prog, root)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		if v.Kind != heap.KNull {
			fmt.Fprintln(stdio.Stdout, heap.ToStr(m.Heap, v, nil))
		}
	}
	if err := m.StdinErr(); err != nil && err != io.EOF {
		return printError(stdio, err)
	}
	return nil
}
