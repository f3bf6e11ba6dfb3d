package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `models:
  - name: offline
    provider: offline
history:
  enabled: true
  backend: file
  path: ` + filepath.Join(dir, "history.jsonl") + `
cache:
  dir: ` + filepath.Join(dir, "cache") + `
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(context.Background(), Options{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProcessCommandJSON(t *testing.T) {
	cfg := offlineConfig(t)

	out, err := execute(t, "--config", cfg, "process", "-a", "polite", "--json", "send me the report")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "polite", decoded["action"])
	assert.Equal(t, "parsed", decoded["outcome"])
	assert.Len(t, decoded["options"], 3)
	assert.NotEmpty(t, decoded["result"])
	info := decoded["processingInfo"].(map[string]interface{})
	assert.Equal(t, "offline", info["model"])
	assert.Equal(t, true, info["databaseSaved"])
}

func TestRootForwardsTextToProcess(t *testing.T) {
	cfg := offlineConfig(t)

	out, err := execute(t, "--config", cfg, "-a", "grammar", "she go to school")
	require.NoError(t, err)
	assert.Contains(t, out, "grammar")
	assert.Contains(t, out, "model offline")

	listed, err := execute(t, "--config", cfg, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, listed, "she go to school")
}

func TestHistoryListDateRange(t *testing.T) {
	cfg := offlineConfig(t)

	_, err := execute(t, "--config", cfg, "-a", "reply", "see you at noon")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "history", "list", "--since", "2000-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "see you at noon")

	out, err = execute(t, "--config", cfg, "history", "list", "--since", "2000-01-01", "-a", "grammar")
	require.NoError(t, err)
	assert.NotContains(t, out, "see you at noon")

	out, err = execute(t, "--config", cfg, "history", "list", "--until", "2000-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.NotContains(t, out, "see you at noon")

	_, err = execute(t, "--config", cfg, "history", "list", "--since", "last week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")
}

func TestQuestionCommand(t *testing.T) {
	cfg := offlineConfig(t)

	out, err := execute(t, "--config", cfg, "question", "--type", "aptitude", "-d", "intermediate")
	require.NoError(t, err)
	assert.Contains(t, out, "aptitude question (intermediate)")
	assert.Contains(t, out, "Solution: 10")
	assert.Contains(t, out, "model offline")

	out, err = execute(t, "--config", cfg, "question", "-t", "dsa", "--json")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "dsa", decoded["type"])
	assert.Equal(t, "parsed", decoded["outcome"])
	assert.NotEmpty(t, decoded["hint"])

	_, err = execute(t, "--config", cfg, "question", "--type", "poetry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available types")

	listed, err := execute(t, "--config", cfg, "history", "list")
	require.NoError(t, err)
	assert.NotContains(t, listed, "aptitude")
}

func TestProcessCommandRejectsUnknownAction(t *testing.T) {
	cfg := offlineConfig(t)

	_, err := execute(t, "--config", cfg, "process", "-a", "shout", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available actions")
}

func TestActionsAndConfigPath(t *testing.T) {
	cfg := offlineConfig(t)

	out, err := execute(t, "--config", cfg, "actions")
	require.NoError(t, err)
	assert.Contains(t, out, "polite")
	assert.Contains(t, out, "options_json")

	out, err = execute(t, "--config", cfg, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)

	out, err = execute(t, "--config", cfg, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestHistoryStatsAndRetain(t *testing.T) {
	cfg := offlineConfig(t)
	_, err := execute(t, "--config", cfg, "process", "-a", "simplify", "utilize the apparatus")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 1")
	assert.Contains(t, out, "simplify")

	out, err = execute(t, "--config", cfg, "history", "retain", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Retaining last 7 days")

	out, err = execute(t, "--config", cfg, "config", "get", "--key", "history.retention_days")
	require.NoError(t, err)
	assert.Contains(t, out, "7")
}

func TestModelsListAndUse(t *testing.T) {
	cfg := offlineConfig(t)

	out, err := execute(t, "--config", cfg, "models", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "offline")

	_, err = execute(t, "--config", cfg, "models", "use", "missing")
	require.Error(t, err)

	_, err = execute(t, "--config", cfg, "models", "use", "offline")
	require.NoError(t, err)
	out, err = execute(t, "--config", cfg, "config", "get", "--key", "preferences.default_model")
	require.NoError(t, err)
	assert.Contains(t, out, "offline")
}

func TestConfigSetGetAndJSON(t *testing.T) {
	cfg := offlineConfig(t)

	_, err := execute(t, "--config", cfg, "config", "set", "preferences.target_language", "spanish")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "config", "get", "preferences.target_language")
	require.NoError(t, err)
	assert.Equal(t, "spanish\n", out)

	out, err = execute(t, "--config", cfg, "config", "show", "--json")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "spanish", decoded["preferences"].(map[string]interface{})["target_language"])

	_, err = execute(t, "--config", cfg, "config", "get", "preferences.missing")
	assert.Error(t, err)
}
