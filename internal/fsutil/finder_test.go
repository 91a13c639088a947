package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.hcl", "nested/b.hcl", "nested/c.txt")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)

	want := []string{filepath.Join(root, "a.hcl"), filepath.Join(root, "nested", "b.hcl")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("FindFilesByExtension() mismatch (-want +got):\n%s", diff)
	}

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
}

func TestExpandSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"main.cpp",
		"util.c",
		"src/b.cpp",
		"src/a.cpp",
		"src/deep/c.cpp",
		"src/deep/notes.txt",
	)

	testCases := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  bool
	}{
		{
			name:     "literal paths are kept even when missing",
			patterns: []string{"main.cpp", "generated/missing.cpp"},
			want:     []string{"main.cpp", "generated/missing.cpp"},
		},
		{
			name:     "single directory glob is sorted",
			patterns: []string{"src/*.cpp"},
			want:     []string{"src/a.cpp", "src/b.cpp"},
		},
		{
			name:     "double star crosses directories",
			patterns: []string{"src/**/*.cpp"},
			want:     []string{"src/a.cpp", "src/b.cpp", "src/deep/c.cpp"},
		},
		{
			name:     "brace alternation",
			patterns: []string{"*.{c,cpp}"},
			want:     []string{"main.cpp", "util.c"},
		},
		{
			name:     "duplicates keep their first position",
			patterns: []string{"src/b.cpp", "src/*.cpp", "./src/a.cpp"},
			want:     []string{"src/b.cpp", "src/a.cpp"},
		},
		{
			name:     "blank patterns are ignored",
			patterns: []string{"", "  "},
			want:     nil,
		},
		{
			name:     "glob escaping the root",
			patterns: []string{"../*.cpp"},
			wantErr:  true,
		},
		{
			name:     "malformed glob",
			patterns: []string{"src/[a.cpp"},
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandSources(root, tc.patterns)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ExpandSources() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
