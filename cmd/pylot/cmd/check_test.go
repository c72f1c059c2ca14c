package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/reporter"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectFiles_WalksDirectories(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "main.py"), "x = 1\n")
	writeFile(t, filepath.Join(tmp, "pkg", "util.py"), "y = 2\n")
	writeFile(t, filepath.Join(tmp, "README.md"), "docs\n")
	writeFile(t, filepath.Join(tmp, ".venv", "lib.py"), "z = 3\n")

	files, err := collectFiles([]string{tmp}, nil)
	require.NoError(t, err)

	require.Len(t, files, 2)
	for _, f := range files {
		require.True(t, filepath.Ext(f) == ".py", "collected %q", f)
		require.NotContains(t, f, ".venv", "dot directories must be skipped")
	}
}

func TestCollectFiles_ExplicitFileKeptRegardlessOfExtension(t *testing.T) {
	tmp := t.TempDir()
	script := filepath.Join(tmp, "tool")
	writeFile(t, script, "#!/usr/bin/env python\n")

	files, err := collectFiles([]string{script}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{script}, files)
}

func TestCollectFiles_Stdin(t *testing.T) {
	files, err := collectFiles([]string{"-"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"-"}, files)
}

func TestCollectFiles_Exclude(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "main.py"), "x = 1\n")
	writeFile(t, filepath.Join(tmp, "vendor", "dep.py"), "y = 2\n")

	files, err := collectFiles([]string{tmp}, []string{"**/vendor/**"})
	require.NoError(t, err)

	require.Len(t, files, 1)
	require.Equal(t, "main.py", filepath.Base(files[0]))
}

func TestCollectFiles_MissingInput(t *testing.T) {
	_, err := collectFiles([]string{"does/not/exist"}, nil)
	require.Error(t, err)
}

func TestShouldFail(t *testing.T) {
	reports := []reporter.FileReport{{
		Path: "a.py",
		Diagnostics: []diag.Diagnostic{
			diag.New("W291", 1, 0, "Trailing whitespace", diag.SeverityStyle),
		},
	}}

	tests := []struct {
		failLevel string
		want      bool
	}{
		{"style", true},
		{"warning", false},
		{"error", false},
		{"none", false},
	}

	for _, tc := range tests {
		t.Run(tc.failLevel, func(t *testing.T) {
			cfg := config.Default()
			cfg.Output.FailLevel = tc.failLevel
			require.Equal(t, tc.want, shouldFail(reports, cfg))
		})
	}
}

func TestShouldFail_NoDiagnostics(t *testing.T) {
	reports := []reporter.FileReport{{Path: "clean.py"}}
	require.False(t, shouldFail(reports, config.Default()))
}

func TestExitCodes(t *testing.T) {
	require.Equal(t, 0, ExitSuccess)
	require.Equal(t, 1, ExitDiagnostics)
	require.Equal(t, 2, ExitConfigError)
	require.Equal(t, 3, ExitNoFiles)
}
