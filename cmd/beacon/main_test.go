package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runBeacon(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCompress_Args(t *testing.T) {
	out, err := runBeacon(t, "", "compress", "What should I do for a severe snake bite emergency?")
	require.NoError(t, err)

	assert.Equal(t, "What shld I do 4 a severe snake bite emerg?\nSaved 8 characters (16%)\n", out)
}

func TestCompress_Stdin(t *testing.T) {
	out, err := runBeacon(t, "you   are    at   the hospital\n", "compress")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "u r @ the hosp", lines[0])
}

func TestCompress_ComposeLink(t *testing.T) {
	out, err := runBeacon(t, "", "compress", "--to", "+15794010314", "you", "and", "me")
	require.NoError(t, err)

	assert.Contains(t, out, "sms:+15794010314&body=u%20%26%20me\n")
}

func TestCompress_JSON(t *testing.T) {
	out, err := runBeacon(t, "", "compress", "--json", "weather forecast")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "wx fcst", got["compressed_text"])
	assert.InDelta(t, 16, got["original_length"], 0)
	assert.InDelta(t, 7, got["compressed_length"], 0)
	assert.InDelta(t, 56, got["percent_saved"], 0)
	assert.Equal(t, "GSM-7", got["encoding"])
	assert.NotContains(t, got, "sms_uri")
}

func TestCompress_Stats(t *testing.T) {
	out, err := runBeacon(t, "", "compress", "--stats", "weather forecast")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "wx fcst\n"))
	assert.Contains(t, out, "Compressed")
	assert.Contains(t, out, "56%")
	assert.Contains(t, out, "GSM-7")
}

func TestCompress_Truncation(t *testing.T) {
	long := strings.Repeat("x", 20)

	out, err := runBeacon(t, "", "compress", "--max-length", "10", "--suffix", "..", long)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "xxxxxxxx..\n"))

	out, err = runBeacon(t, "", "compress", "--max-length", "10", "--no-truncate", long)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, long+"\n"))
}

func TestCompress_NegativeMaxLength(t *testing.T) {
	_, err := runBeacon(t, "", "compress", "--max-length", "-1", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max-length")
}

func TestCompress_CustomRules(t *testing.T) {
	path := writeRules(t, "rules:\n  - term: satellite\n    abbreviation: sat\n")

	out, err := runBeacon(t, "", "compress", "--rules", path, "satellite and weather")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "sat and weather\n"))
}

func TestCompress_InvalidRules(t *testing.T) {
	path := writeRules(t, "rules:\n  - term: a\n    abbreviation: x\n  - term: A\n    abbreviation: y\n")

	_, err := runBeacon(t, "", "compress", "--rules", path, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRules_Default(t *testing.T) {
	out, err := runBeacon(t, "", "rules")
	require.NoError(t, err)

	assert.Contains(t, out, "approximately")
	assert.Contains(t, out, "emerg")
	assert.Contains(t, out, "w/o")
}

func TestRules_FromFile(t *testing.T) {
	path := writeRules(t, "rules:\n  - term: satellite\n    abbreviation: sat\n")

	out, err := runBeacon(t, "", "rules", "--rules", path)
	require.NoError(t, err)

	assert.Contains(t, out, "satellite")
	assert.NotContains(t, out, "approximately")
}

func TestRules_MissingFile(t *testing.T) {
	_, err := runBeacon(t, "", "rules", "--rules", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open rules")
}
