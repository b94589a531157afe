package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "py-import-cycles.toml")
	content := `
project_path = "/srv/project"
packages = ["src/app", "src/lib"]
strategy = "johnson"
threshold = 3

[map]
legacy = "vendored/legacy"

[exclude]
dirs = [".venv", "build"]
files = ["conftest.py"]

[parse]
ignore_marker = "noqa-cycle"
include_type_checking = true

[watch]
debounce = "250ms"

[output]
graph = "only-cycles"
dot = "graph.dot"
sarif = "report.sarif"

[history]
path = "history.db"

[telemetry]
metrics_addr = ":9105"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ProjectPath != "/srv/project" {
		t.Errorf("ProjectPath = %q", cfg.ProjectPath)
	}
	if len(cfg.Packages) != 2 || cfg.Packages[0] != "src/app" {
		t.Errorf("Packages = %v", cfg.Packages)
	}
	if cfg.Map["legacy"] != "vendored/legacy" {
		t.Errorf("Map = %v", cfg.Map)
	}
	if cfg.Strategy != "johnson" {
		t.Errorf("Strategy = %q", cfg.Strategy)
	}
	if cfg.Threshold != 3 {
		t.Errorf("Threshold = %d", cfg.Threshold)
	}
	if cfg.Parse.IgnoreMarker != "noqa-cycle" || !cfg.Parse.IncludeTypeChecking {
		t.Errorf("Parse = %+v", cfg.Parse)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Output.Graph != "only-cycles" || cfg.Output.DOT != "graph.dot" || cfg.Output.SARIF != "report.sarif" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.History.Path != "history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Telemetry.MetricsAddr != ":9105" {
		t.Errorf("Telemetry = %+v", cfg.Telemetry)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.toml")
	if err := os.WriteFile(path, []byte("project_path = \".\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strategy != "dfs" {
		t.Errorf("Strategy = %q, want dfs", cfg.Strategy)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", cfg.Watch.Debounce)
	}
	if cfg.Output.Graph != "all" {
		t.Errorf("Output.Graph = %q, want all", cfg.Output.Graph)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("default exclude dirs should not be empty")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
