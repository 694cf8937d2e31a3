package configutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Driver  string        `json:"driver" validate:"oneof=chrome http"`
	URL     string        `json:"url" validate:"required,url"`
	Timeout time.Duration `json:"timeout"`
	Flags   []string      `json:"flags"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMissing(t *testing.T) {
	defaults := testConfig{Driver: "chrome", URL: "https://example.com"}
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), "uwsched.json5"), defaults)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, defaults, cfg)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "uwsched.json5"), `{
		// comments are allowed
		driver: "http",
		flags: ["no-sandbox"],
	}`)
	writeFile(t, filepath.Join(dir, "uwsched.local.json5"), `{
		url: "https://cs.uwaterloo.ca/cscf/teaching/schedule/expert",
	}`)

	defaults := testConfig{Driver: "chrome", URL: "https://example.com", Timeout: time.Second}
	cfg, err := ReadConfig(filepath.Join(dir, "uwsched.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Driver:  "http",
		URL:     "https://cs.uwaterloo.ca/cscf/teaching/schedule/expert",
		Timeout: time.Second,
		Flags:   []string{"no-sandbox"},
	}, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "uwsched.json5"), `{ driver: `)

	_, err := ReadConfig(filepath.Join(dir, "uwsched.json5"), testConfig{})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(testConfig{Driver: "http", URL: "https://example.com"}))
	require.Error(t, Validate(testConfig{Driver: "firefox", URL: "https://example.com"}))
	require.Error(t, Validate(testConfig{Driver: "chrome", URL: "not a url"}))
}
