package maincmd_test

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"

	"github.com/bluebat-lang/bluebat/internal/config"
	"github.com/bluebat-lang/bluebat/internal/filetest"
	"github.com/bluebat-lang/bluebat/internal/maincmd"
)

var testUpdateScriptTests = flag.Bool("test.update-script-tests", false, "If set, replace expected end-to-end script results with actual results.")

// TestRunFileGolden evaluates each testdata/scripts/*.bb file to completion
// and diffs its stdout against the matching *.bb.want golden file, covering
// spec.md §8's concrete scenarios end to end through the CLI entry point
// rather than lang/machine directly.
func TestRunFileGolden(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{GCThreshold: config.DefaultGCThreshold, MaxCallDepth: config.DefaultMaxCallDepth, Prompt: config.DefaultPrompt}
	srcDir := filepath.Join("testdata", "scripts")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".bb") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{
				Stdout: &buf,
				Stderr: &ebuf,
				Stdin:  bytes.NewReader(nil),
			}

			err := maincmd.RunFile(ctx, stdio, cfg, filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)
			filetest.DiffOutput(t, fi, buf.String(), srcDir, testUpdateScriptTests)
		})
	}
}

func TestRunFileReportsInterpreterError(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf, Stdin: bytes.NewReader(nil)}
	cfg := config.Config{GCThreshold: config.DefaultGCThreshold, MaxCallDepth: config.DefaultMaxCallDepth}

	tmp := t.TempDir()
	badFile := filepath.Join(tmp, "bad.bb")
	require.NoError(t, os.WriteFile(badFile, []byte("println(nope)\n"), 0600))

	err := maincmd.RunFile(context.Background(), stdio, cfg, badFile)
	require.Error(t, err)
	require.NotEmpty(t, ebuf.String())
}
