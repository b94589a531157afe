package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/si-23/py-import-cycles/internal/app"
	"github.com/si-23/py-import-cycles/internal/config"
	"github.com/si-23/py-import-cycles/internal/output"
	"github.com/si-23/py-import-cycles/internal/shared/observability"
	"github.com/si-23/py-import-cycles/internal/ui"
	"github.com/si-23/py-import-cycles/internal/watch"
)

var (
	configPath  = flag.String("config", "", "Path to TOML config file")
	project     = flag.String("project", "", "Project root directory")
	packages    = flag.String("packages", "", "Comma-separated package paths below the project root")
	remap       = flag.String("map", "", "Comma-separated name=path remappings for relocated packages")
	strategy    = flag.String("strategy", "", "Cycle detection strategy: dfs, tarjan or johnson")
	graphMode   = flag.String("graph", "", "DOT edge selection: all or only-cycles")
	threshold   = flag.Int("threshold", 0, "Maximum tolerated number of cycles before a non-zero exit")
	dotPath     = flag.String("dot", "", "Write a Graphviz DOT export to this path")
	tsvPath     = flag.String("tsv", "", "Write a TSV cycle export to this path")
	sarifPath   = flag.String("sarif", "", "Write a SARIF report to this path")
	watchMode   = flag.Bool("watch", false, "Re-run analysis when Python sources change")
	uiMode      = flag.Bool("ui", false, "Show a terminal UI in watch mode")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address in watch mode")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("py-import-cycles v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logOutput := os.Stderr
	if *uiMode {
		// In UI mode, stderr logs would corrupt the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
				logOutput = f
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(2)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	analyzer, err := app.New(cfg, VERSION)
	if err != nil {
		slog.Error("failed to initialize analyzer", "error", err)
		os.Exit(2)
	}
	defer analyzer.Close()

	result, err := analyzer.Analyze(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(2)
	}
	if err := analyzer.WriteOutputs(result); err != nil {
		slog.Error("failed to write outputs", "error", err)
		os.Exit(2)
	}

	if !*watchMode {
		output.WriteReport(os.Stderr, result.Cycles)
		if len(result.Cycles) > cfg.Threshold {
			os.Exit(1)
		}
		os.Exit(0)
	}

	runWatch(ctx, cfg, analyzer, result)
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags override the config file.
	if *project != "" {
		cfg.ProjectPath = *project
	}
	if *packages != "" {
		cfg.Packages = splitList(*packages)
	}
	if *remap != "" {
		if cfg.Map == nil {
			cfg.Map = make(map[string]string)
		}
		for _, pair := range splitList(*remap) {
			short, path, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid -map entry %q (expected name=path)", pair)
			}
			cfg.Map[short] = path
		}
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}
	if *graphMode != "" {
		cfg.Output.Graph = *graphMode
	}
	if flagWasSet("threshold") {
		cfg.Threshold = *threshold
	}
	if *dotPath != "" {
		cfg.Output.DOT = *dotPath
	}
	if *tsvPath != "" {
		cfg.Output.TSV = *tsvPath
	}
	if *sarifPath != "" {
		cfg.Output.SARIF = *sarifPath
	}
	if *metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = *metricsAddr
	}
	return cfg, nil
}

func runWatch(ctx context.Context, cfg *config.Config, analyzer *app.App, initial *app.Result) {
	var metricsServer *observability.Server
	if cfg.Telemetry.MetricsAddr != "" {
		metricsServer = observability.NewServer(cfg.Telemetry.MetricsAddr)
		metricsServer.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Stop(stopCtx)
		}()
	}

	var program *ui.Program
	if *uiMode {
		program = ui.NewProgram()
	} else {
		output.WriteReport(os.Stderr, initial.Cycles)
	}

	rerun := func(paths []string) {
		slog.Info("sources changed, re-analyzing", "changed", len(paths))
		result, err := analyzer.Analyze(ctx)
		if err != nil {
			slog.Error("analysis failed", "error", err)
			return
		}
		if err := analyzer.WriteOutputs(result); err != nil {
			slog.Error("failed to write outputs", "error", err)
		}
		if program != nil {
			program.Send(ui.Update{
				Cycles:      result.Cycles,
				ModuleCount: result.Graph.ModuleCount(),
				FileCount:   result.FileCount,
			})
		} else {
			output.WriteReport(os.Stderr, result.Cycles)
		}
	}

	watcher, err := watch.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, cfg.Exclude.Files, rerun)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(2)
	}
	defer watcher.Close()

	if err := watcher.Watch(analyzer.Roots()); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(2)
	}

	if program != nil {
		go program.Send(ui.Update{
			Cycles:      initial.Cycles,
			ModuleCount: initial.Graph.ModuleCount(),
			FileCount:   initial.FileCount,
		})
		if err := program.Run(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(2)
		}
		return
	}

	select {}
}

// flagWasSet distinguishes an explicitly passed flag from its zero default,
// so -threshold 0 can override a config file value.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "py-import-cycles", "py-import-cycles.log")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "py-import-cycles", "py-import-cycles.log")
	}
	return "py-import-cycles.log"
}
