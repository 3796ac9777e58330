package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/bluebat-lang/bluebat/lang/scanner"
	"github.com/bluebat-lang/bluebat/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, token.PosLong, args...)
}

// TokenizeFiles scans each file in turn and prints its token stream,
// adapted from the teacher's maincmd.TokenizeFiles: the teacher scans all
// files through one shared FileSet concurrently, but BlueBat's scanner has
// no multi-file or concurrent entry point (spec.md's single-source-unit
// model, see lang/token.FileSet), so files are scanned one at a time here.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, posMode token.PosMode, files ...string) error {
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := os.ReadFile(name)
		if err != nil {
			return printError(stdio, err)
		}
		fs := token.NewFileSet()
		f := fs.AddFile(name)

		toks, err := scanner.Scan(src)
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", token.FormatPos(posMode, f, tok.Pos, true), tok.Token)
			if tok.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", tok.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			return err
		}
	}
	return nil
}
