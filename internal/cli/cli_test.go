package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookmarksYAML = `
shelves:
  - title: Reading
    starred: true
    links:
      - title: Go
        url: https://go.dev
      - title: Gin
        url: https://gin-gonic.com
  - title: Later
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func setupConfig(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	configPath = writeFile(t, dir, "linkdepot.yaml",
		"database_path: "+filepath.Join(dir, "linkdepot.db")+"\nlog_level: error\npretty_log: false\n")
	return dir, configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123"})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "linkdepot 1.2.3 (abc123)\n", out)
}

func TestVersionCommand_IgnoresBrokenConfig(t *testing.T) {
	out, err := run(t, "version", "--config", "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestImportCommand_DryRun(t *testing.T) {
	dir, configPath := setupConfig(t)
	file := writeFile(t, dir, "bookmarks.yaml", bookmarksYAML)

	out, err := run(t, "--config", configPath, "import", "--dry-run", file)
	require.NoError(t, err)

	assert.Contains(t, out, "yaml: 2 bookmarks")
	assert.Contains(t, out, "[Reading] Go <https://go.dev>")
	assert.Contains(t, out, "[Later] (empty shelf)")
	assert.NoFileExists(t, filepath.Join(dir, "linkdepot.db"))
}

func TestImportCommand_ImportsAndSkipsDuplicates(t *testing.T) {
	dir, configPath := setupConfig(t)
	file := writeFile(t, dir, "bookmarks.yaml", bookmarksYAML)

	out, err := run(t, "--config", configPath, "import", "--no-favicons", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Shelves created: 2")
	assert.Contains(t, out, "Links imported: 2")
	assert.Contains(t, out, "Links skipped: 0")

	out, err = run(t, "--config", configPath, "import", "--no-favicons", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Shelves created: 0")
	assert.Contains(t, out, "Links imported: 0")
	assert.Contains(t, out, "Links skipped: 2")
}

func TestImportCommand_CSV(t *testing.T) {
	dir, configPath := setupConfig(t)
	file := writeFile(t, dir, "links.csv", "shelf,title,url\nTools,Gin,https://gin-gonic.com\n")

	out, err := run(t, "--config", configPath, "import", "--no-favicons", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Source: csv")
	assert.Contains(t, out, "Links imported: 1")
}

func TestImportCommand_Errors(t *testing.T) {
	dir, configPath := setupConfig(t)

	_, err := run(t, "--config", configPath, "import", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = run(t, "--config", configPath, "import")
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "shelves: [unterminated")
	_, err = run(t, "--config", configPath, "import", bad)
	assert.Error(t, err)
}

func TestRootCommand_BadConfigFile(t *testing.T) {
	_, err := run(t, "--config", "/does/not/exist.yaml", "import", "x.yaml")
	assert.Error(t, err)
}
