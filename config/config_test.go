package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "root_path: /srv/www\nindex_path: /index.html\n")
	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 512, cfg.BufSize)
	require.Equal(t, 15000, cfg.RXTimeoutMS)
	require.Equal(t, 10000, cfg.TXTimeoutMS)
	require.Equal(t, ":8080", cfg.Bind)
}

func TestLoadReadsExplicitValues(t *testing.T) {
	path := writeConfig(t, "bind: \":9090\"\nroot_path: /srv/www\nindex_path: /index.html\nbuf_size: 256\n")
	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Bind)
	require.Equal(t, 256, cfg.BufSize)
}

func TestBuildMergesContentTypesAndAuth(t *testing.T) {
	path := writeConfig(t, `
root_path: /srv/www
index_path: /index.html
content_types:
  - extension: json
    mime: application/json
auth:
  - uri_prefix: /admin
    realm: admin area
    credentials:
      alice: secret
`)
	cfg, _, err := Load(path)
	require.NoError(t, err)

	r := cfg.Build()

	foundJSON := false
	for _, e := range r.ContentTypes {
		if e.Extension == "json" {
			foundJSON = true
			require.Equal(t, "application/json", e.MIME)
		}
	}
	require.True(t, foundJSON)

	require.Len(t, r.AuthTable, 1)
	require.Equal(t, "admin area", r.AuthTable[0].Realm)
	require.Equal(t, "secret", r.AuthTable[0].Credentials["alice"])
}

func TestLoadMissingFileFails(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
