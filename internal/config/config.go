package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ProjectPath string            `toml:"project_path"`
	Packages    []string          `toml:"packages"`
	Map         map[string]string `toml:"map"`
	Strategy    string            `toml:"strategy"`
	Threshold   int               `toml:"threshold"`
	Exclude     Exclude           `toml:"exclude"`
	Parse       Parse             `toml:"parse"`
	Watch       Watch             `toml:"watch"`
	Output      Output            `toml:"output"`
	History     History           `toml:"history"`
	Telemetry   Telemetry         `toml:"telemetry"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Parse struct {
	IgnoreMarker        string `toml:"ignore_marker"`
	IncludeTypeChecking bool   `toml:"include_type_checking"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	// Graph selects which edges a DOT export carries: "all" or "only-cycles".
	Graph string `toml:"graph"`
	DOT   string `toml:"dot"`
	TSV   string `toml:"tsv"`
	SARIF string `toml:"sarif"`
}

type History struct {
	Path string `toml:"path"`
}

type Telemetry struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Default() *Config {
	return &Config{
		ProjectPath: ".",
		Strategy:    "dfs",
		Exclude: Exclude{
			Dirs: []string{".git", ".venv", "__pycache__", "node_modules"},
		},
		Watch:  Watch{Debounce: 500 * time.Millisecond},
		Output: Output{Graph: "all"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.ProjectPath == "" {
		cfg.ProjectPath = "."
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "dfs"
	}
	if cfg.Output.Graph == "" {
		cfg.Output.Graph = "all"
	}

	return cfg, nil
}
