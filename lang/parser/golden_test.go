package parser_test

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/bluebat-lang/bluebat/internal/filetest"
	"github.com/bluebat-lang/bluebat/internal/maincmd"
	"github.com/bluebat-lang/bluebat/lang/token"
)

var testUpdateParserTests = flag.Bool("test.update-parser-tests", false, "If set, replace expected parser golden results with actual results.")

// TestParseGolden dumps the AST of each testdata/in/*.bb file and diffs it
// against testdata/out/*.bb.want, in the style of the teacher's own
// scanner/parser golden-file tests (internal/filetest +
// maincmd.ParseFiles, rather than asserting on the tree shape directly).
func TestParseGolden(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".bb") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{
				Stdout: &buf,
				Stderr: &ebuf,
			}

			_ = maincmd.ParseFiles(ctx, stdio, token.PosLong, filepath.Join(srcDir, fi.Name()))
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateParserTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateParserTests)
		})
	}
}
