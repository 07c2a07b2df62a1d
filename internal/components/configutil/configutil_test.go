package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Retries int    `json:"retries"`
	Verbose bool   `json:"verbose"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sunscrape.json5"), `{
		// comments are allowed
		base_url: "https://dos.elections.myflorida.com",
		retries: 2,
	}`)
	writeFile(t, filepath.Join(dir, "sunscrape.local.json5"), `{retries: 5}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "sunscrape.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://dos.elections.myflorida.com", cfg.BaseUrl)
	require.Equal(t, 5, cfg.Retries)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "sunscrape.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0700))
	writeFile(t, filepath.Join(root, "sunscrape.json5"), `{verbose: true}`)

	cfg, err := ReadRecursively[testConfig](nested, "sunscrape.json5")
	require.NoError(t, err)
	require.True(t, cfg.Verbose)
}
