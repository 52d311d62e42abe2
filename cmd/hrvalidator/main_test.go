package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJobDescription(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		jd, err := readJobDescription(strings.NewReader("  Java developer\n"), "-")
		require.NoError(t, err)
		assert.Equal(t, "Java developer", jd)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jd.txt")
		require.NoError(t, os.WriteFile(path, []byte("Účetní, IFRS"), 0o600))

		jd, err := readJobDescription(nil, path)
		require.NoError(t, err)
		assert.Equal(t, "Účetní, IFRS", jd)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := readJobDescription(strings.NewReader("   "), "-")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readJobDescription(nil, filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

func TestProfilesCommand(t *testing.T) {
	t.Setenv("PROMPT_PROFILE", "split-tags-v2")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"profiles"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "VERSION")
	assert.Contains(t, out.String(), "split-tags-v2 *")
	assert.Contains(t, out.String(), "t=0.65 p=0.90")
}

func TestEvaluateCommand_RequiresFlags(t *testing.T) {
	var errOut bytes.Buffer
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"evaluate"})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
