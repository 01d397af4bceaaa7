package main

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  ada@example.com \n"))

	got, err := promptLine(r, &out, "Email")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got)
	assert.Equal(t, "Email: ", out.String())
}

func TestPromptLinePartialAtEOF(t *testing.T) {
	got, err := promptLine(bufio.NewReader(strings.NewReader("tail")), &bytes.Buffer{}, "x")

	require.NoError(t, err)
	assert.Equal(t, "tail", got)
}

func TestPromptMultiline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("# Title\r\nline two\n\nignored\n"))

	got, err := promptMultiline(r, &bytes.Buffer{}, "Body")

	require.NoError(t, err)
	assert.Equal(t, "# Title\nline two", got)
}

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("JOTTER_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", sessionFile)

	token, err := loadSession(path)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, saveSession(path, "jwt-abc"))
	token, err = loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	require.NoError(t, clearSession(path))
	require.NoError(t, clearSession(path))
	token, err = loadSession(path)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSessionEnvOverride(t *testing.T) {
	t.Setenv("JOTTER_TOKEN", "from-env")

	token, err := loadSession(filepath.Join(t.TempDir(), sessionFile))

	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
}
