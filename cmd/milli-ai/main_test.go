package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metalagman/milli-ai/internal/transport"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestReadPrompt(t *testing.T) {
	got, err := readPrompt([]string{"explain", "this"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "explain this", got)

	got, err = readPrompt(nil, strings.NewReader("from stdin\nsecond line\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin\nsecond line", got)

	got, err = readPrompt([]string{"-"}, strings.NewReader("dash\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "dash", got)

	_, err = readPrompt(nil, strings.NewReader("  \n"))
	require.Error(t, err)
}

func TestNewTransport(t *testing.T) {
	resetViper(t)

	tr, err := newTransport()
	require.NoError(t, err)
	assert.IsType(t, &transport.Curl{}, tr)

	viper.Set("transport", "http")
	tr, err = newTransport()
	require.NoError(t, err)
	assert.IsType(t, &transport.HTTP{}, tr)

	viper.Set("transport", "carrier-pigeon")
	_, err = newTransport()
	require.Error(t, err)
}

func TestConfigInitShowPath(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "ai.config")

	out, err := runCLI(t, "", "--config", path, "config", "init", "--model", "tiny-llm")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = runCLI(t, "", "--config", path, "config", "init")
	require.Error(t, err)

	require.NoError(t, appendLine(path, "api_key = sk-very-secret"))

	out, err = runCLI(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "model: tiny-llm")
	assert.Contains(t, out, "base_url: http://localhost:1234/v1")
	assert.NotContains(t, out, "sk-very-secret")

	out, err = runCLI(t, "", "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestGenerate_HTTPTransportWithJournal(t *testing.T) {
	resetViper(t)

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer lm-studio", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"output":[{"content":[{"type": "output_text", "text": "Use a map.\nDone."}]}]}`))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ai.config")
	require.NoError(t, os.WriteFile(cfgPath, []byte("base_url = "+srv.URL+"/v1\nresponses_endpoint = responses\nmodel = test-model\n"), 0o600))
	journal := filepath.Join(dir, "journal.db")

	out, err := runCLI(t, "", "--config", cfgPath, "--journal-path", journal,
		"generate", "--transport", "http", "--journal", "-s", "var x []int", "How", "to", "dedupe?")
	require.NoError(t, err)
	assert.Equal(t, "Use a map.\nDone.\n", out)

	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, "User prompt:\nHow to dedupe?\n\nSelection:\nvar x []int", got["input"])
	assert.InDelta(t, 0.2, got["temperature"], 1e-9)

	out, err = runCLI(t, "", "--journal-path", journal, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "test-model")
	assert.Contains(t, out, "ok")

	out, err = runCLI(t, "", "--journal-path", journal, "history", "prune", "--keep-last", "0")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 entries\n", out)
}

func TestGenerate_ReportsSingleError(t *testing.T) {
	resetViper(t)

	missing := filepath.Join(t.TempDir(), "nope.config")
	_, err := runCLI(t, "", "--config", missing, "generate", "hello")
	require.Error(t, err)
	assert.Equal(t, "Missing AI config at "+missing, err.Error())
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func TestRootCmd_ReadsPrefixedEnv(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "env.config")
	t.Setenv("MILLI_CONFIG", path)

	for i := 0; i < 2; i++ {
		out, err := runCLI(t, "", "config", "path")
		require.NoError(t, err)
		assert.Equal(t, path+"\n", out)
	}
}
