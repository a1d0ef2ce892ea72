package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// setupTestConfig writes a config file pointing at a fresh database
func setupTestConfig(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`database:
  path: %s
  migrationspath: file://../../migrations
logging:
  level: error
`, filepath.Join(dir, "test.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes trackflixctl with args and returns stdout
func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := New()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestMigrateCommands(t *testing.T) {
	configPath := setupTestConfig(t)

	out, err := run(t, configPath, "--json", "migrate", "status")
	require.NoError(t, err)
	var status struct{ Version uint }
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, uint(0), status.Version)

	out, err = run(t, configPath, "--json", "migrate", "up")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, uint(2), status.Version)

	out, err = run(t, configPath, "--json", "migrate", "down")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, uint(1), status.Version)

	_, err = run(t, configPath, "migrate", "down", "--steps", "0")
	assert.Error(t, err)

	out, err = run(t, configPath, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "clean")
}

func writeBackup(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportExportCommands(t *testing.T) {
	configPath := setupTestConfig(t)
	backup := writeBackup(t, `[
		{"title": "Heat", "type": "movie", "rating": 8},
		{"title": "Andor", "type": "series", "watchedAt": "2024-03-01T20:00:00Z"}
	]`)

	out, err := run(t, configPath, "--json", "import", "--user", "alice", backup)
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "alice", summary["user"])
	assert.Equal(t, float64(2), summary["imported"])

	out, err = run(t, configPath, "import", "--user", "alice", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 items for alice (2 skipped)")

	out, err = run(t, configPath, "export", "--user", "alice")
	require.NoError(t, err)
	var exported []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 2)

	outFile := filepath.Join(t.TempDir(), "out.json")
	_, err = run(t, configPath, "export", "--user", "alice", "--output", outFile)
	require.NoError(t, err)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Heat"`)

	_, err = run(t, configPath, "import", "--user", "alice", writeBackup(t, `{"title": "Heat"}`))
	assert.Error(t, err)

	_, err = run(t, configPath, "export")
	assert.Error(t, err)
}

func TestUsersDensifyAndDuplicates(t *testing.T) {
	configPath := setupTestConfig(t)

	// imports skip look-alike titles, so seed bob's duplicates directly
	e, err := openService(&RootOptions{ConfigPath: configPath}, io.Discard)
	require.NoError(t, err)
	for _, in := range []watchlist.NewItem{
		{Title: "The Matrix", Type: models.MediaTypeMovie, Watched: true},
		{Title: "Matrix (1999)", Type: models.MediaTypeMovie},
	} {
		_, err = e.service.AddItem(context.Background(), "bob", in)
		require.NoError(t, err)
	}
	e.close()

	_, err = run(t, configPath, "import", "--user", "alice", writeBackup(t, `[{"title": "Heat", "type": "movie"}]`))
	require.NoError(t, err)

	out, err := run(t, configPath, "--json", "users")
	require.NoError(t, err)
	var users []string
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	assert.Equal(t, []string{"alice", "bob"}, users)

	// imports append densely, so there is nothing to re-rank
	out, err = run(t, configPath, "--json", "densify", "--all")
	require.NoError(t, err)
	var results []densifyResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0, r.Applied)
	}

	_, err = run(t, configPath, "densify")
	assert.Error(t, err)
	_, err = run(t, configPath, "densify", "--all", "--user", "bob")
	assert.Error(t, err)

	out, err = run(t, configPath, "duplicates", "--user", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "keep")
	assert.Contains(t, out, "delete?")
	assert.Contains(t, out, "matrix")

	out, err = run(t, configPath, "--json", "duplicates", "--user", "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}
