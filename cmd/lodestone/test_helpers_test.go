package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	instancesDir string
	cachePath    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CURSEFORGE_API_KEY", "")

	instancesDir := filepath.Join(base, "instances")
	cachePath := filepath.Join(base, "cache", "content_cache.json")
	logDir := filepath.Join(base, "logs")

	configPath := filepath.Join(homeDir, ".config", "lodestone", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	contents := fmt.Sprintf(`[paths]
instances_dir = %q
cache_path = %q
log_dir = %q

[logging]
format = "json"
level = "error"
`, instancesDir, cachePath, logDir)
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:      base,
		configPath:   configPath,
		instancesDir: instancesDir,
		cachePath:    cachePath,
	}
}

func (env *cliTestEnv) writeInstance(t *testing.T, id, name, mcVersion, loader string) string {
	t.Helper()
	dir := filepath.Join(env.instancesDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir instance: %v", err)
	}
	manifest := fmt.Sprintf(`{"id":%q,"name":%q,"minecraft_version":%q,"loader_type":%q}`, id, name, mcVersion, loader)
	if err := os.WriteFile(filepath.Join(dir, "instance.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
