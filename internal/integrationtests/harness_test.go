package integrationtests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/makegen/internal/app"
	"github.com/vk/makegen/internal/hcl"
	"github.com/vk/makegen/internal/testutil"
)

// harnessResult holds the outcomes of an end-to-end run.
type harnessResult struct {
	Root      string
	Stdout    string
	LogOutput string
	Err       error
}

// script reads a generated makefile relative to the workspace root.
func (r *harnessResult) script(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

// runWorkspace writes files into a fresh directory and runs the whole
// pipeline over it: HCL loading, the app, and synthesis of every project.
func runWorkspace(t *testing.T, files map[string]string, cfg app.Config) *harnessResult {
	t.Helper()

	root := testutil.WriteFiles(t, files)
	cfg.WorkspacePath = root
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	result := &harnessResult{Root: root}

	a, err := app.NewApp(out, logs, &cfg, hcl.NewLoader())
	if err == nil {
		err = a.Run(context.Background())
	}

	result.Stdout = out.String()
	result.LogOutput = logs.String()
	result.Err = err
	if os.Getenv("MAKEGEN_TEST_LOGS") == "true" {
		t.Logf("--- LOGS ---\n%s", result.LogOutput)
	}
	return result
}
