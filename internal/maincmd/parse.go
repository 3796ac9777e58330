package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/bluebat-lang/bluebat/lang/ast"
	"github.com/bluebat-lang/bluebat/lang/parser"
	"github.com/bluebat-lang/bluebat/lang/token"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, token.PosLong, args...)
}

// ParseFiles parses each file in turn and prints its AST, adapted from the
// teacher's maincmd.ParseFiles. BlueBat's parser has no comment-retention
// mode (the scanner discards comments outright, spec.md Non-goals), so the
// teacher's parser.Comments flag has no equivalent here.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, posMode token.PosMode, files ...string) error {
	printer := ast.Printer{
		Output: stdio.Stdout,
		Pos:    posMode,
	}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := os.ReadFile(name)
		if err != nil {
			return printError(stdio, err)
		}
		fs := token.NewFileSet()
		printer.File = fs.AddFile(name)

		prog, err := parser.Parse(src)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		if err := printer.Print(prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}
