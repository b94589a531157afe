package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/si-23/py-import-cycles/internal/config"
	"github.com/si-23/py-import-cycles/internal/errors"
	"github.com/si-23/py-import-cycles/internal/graph"
	"github.com/si-23/py-import-cycles/internal/history"
	"github.com/si-23/py-import-cycles/internal/output"
	"github.com/si-23/py-import-cycles/internal/parser"
	"github.com/si-23/py-import-cycles/internal/pymodule"
	"github.com/si-23/py-import-cycles/internal/resolver"
	"github.com/si-23/py-import-cycles/internal/scan"
	"github.com/si-23/py-import-cycles/internal/shared/observability"
)

// Result is the outcome of one analysis run.
type Result struct {
	Graph     *graph.Graph
	Cycles    []graph.Cycle
	FileCount int
	Duration  time.Duration
}

// App wires scanning, parsing, resolution and detection into one pipeline.
type App struct {
	cfg      *config.Config
	version  string
	factory  *pymodule.Factory
	scanner  *scan.Scanner
	parser   *parser.Parser
	resolver *resolver.Resolver
	strategy graph.Strategy
	roots    []string
	store    *history.Store
}

func New(cfg *config.Config, version string) (*App, error) {
	factory, err := pymodule.NewFactory(cfg.ProjectPath, cfg.Packages, cfg.Map)
	if err != nil {
		return nil, err
	}

	scanner, err := scan.New(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	strategy, err := graph.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	roots := []string{factory.ProjectRoot()}
	if len(cfg.Packages) > 0 {
		roots = roots[:0]
		for _, pkg := range cfg.Packages {
			roots = append(roots, filepath.Join(factory.ProjectRoot(), filepath.FromSlash(pkg)))
		}
	}

	a := &App{
		cfg:     cfg,
		version: version,
		factory: factory,
		scanner: scanner,
		parser: parser.New(parser.Options{
			IgnoreMarker:        cfg.Parse.IgnoreMarker,
			IncludeTypeChecking: cfg.Parse.IncludeTypeChecking,
		}),
		resolver: resolver.New(factory),
		strategy: strategy,
		roots:    roots,
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Analyze runs the full pipeline over the configured roots.
func (a *App) Analyze(ctx context.Context) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "analyze")
	defer span.End()

	start := time.Now()

	files, err := a.scanFiles(ctx)
	if err != nil {
		return nil, err
	}

	g, err := a.buildGraph(ctx, files)
	if err != nil {
		return nil, err
	}

	cycles, err := a.detect(ctx, g)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Graph:     g,
		Cycles:    cycles,
		FileCount: len(files),
		Duration:  time.Since(start),
	}

	observability.GraphModules.Set(float64(g.ModuleCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	observability.CyclesFound.Set(float64(len(cycles)))
	span.SetAttributes(
		attribute.Int("files", result.FileCount),
		attribute.Int("modules", g.ModuleCount()),
		attribute.Int("cycles", len(cycles)),
	)

	if a.store != nil {
		snapshot := history.Snapshot{
			ProjectKey:  filepath.Base(a.factory.ProjectRoot()),
			Strategy:    string(a.strategy),
			FileCount:   result.FileCount,
			ModuleCount: g.ModuleCount(),
			EdgeCount:   g.EdgeCount(),
			CycleCount:  len(cycles),
			Duration:    result.Duration,
		}
		a.reportTrend(snapshot)
		if err := a.store.SaveSnapshot(snapshot); err != nil {
			slog.Warn("failed to save history snapshot", "error", err)
		}
	}

	slog.Info("analysis complete",
		"files", result.FileCount,
		"modules", g.ModuleCount(),
		"edges", g.EdgeCount(),
		"cycles", len(cycles),
		"duration", result.Duration,
	)

	return result, nil
}

// reportTrend compares the current run against the previous recorded
// snapshot for the same project.
func (a *App) reportTrend(current history.Snapshot) {
	previous, err := a.store.LatestSnapshot(current.ProjectKey)
	if err != nil {
		slog.Warn("failed to load previous snapshot", "error", err)
		return
	}
	if previous == nil {
		return
	}
	slog.Info("cycle trend",
		"cycles", current.CycleCount,
		"previous_cycles", previous.CycleCount,
		"delta", current.CycleCount-previous.CycleCount,
		"previous_run", previous.Timestamp.Format(time.RFC3339),
	)
}

func (a *App) scanFiles(ctx context.Context) ([]string, error) {
	_, span := observability.Tracer.Start(ctx, "scan")
	defer span.End()

	timer := time.Now()
	files, err := a.scanner.PythonFiles(a.roots)
	observability.AnalysisDuration.WithLabelValues("scan").Observe(time.Since(timer).Seconds())
	return files, err
}

func (a *App) buildGraph(ctx context.Context, files []string) (*graph.Graph, error) {
	_, span := observability.Tracer.Start(ctx, "build_graph")
	defer span.End()

	g := graph.New()
	for _, file := range files {
		mod, err := a.factory.FromPath(file)
		if err != nil {
			if errors.Recoverable(err) {
				slog.Debug("skipping unresolvable file", "path", file, "error", err)
				continue
			}
			return nil, err
		}

		content, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("failed to read file", "path", file, "error", err)
			continue
		}

		parseStart := time.Now()
		records, err := a.parser.ParseFile(file, content)
		observability.ParsingDuration.Observe(time.Since(parseStart).Seconds())
		if err != nil {
			slog.Warn("failed to parse file", "path", file, "error", err)
			continue
		}

		g.Add(mod, a.resolver.Imports(mod, records))
	}
	return g, nil
}

func (a *App) detect(ctx context.Context, g *graph.Graph) ([]graph.Cycle, error) {
	_, span := observability.Tracer.Start(ctx, "detect")
	defer span.End()

	timer := time.Now()
	cycles, err := graph.Detect(a.strategy, g)
	observability.AnalysisDuration.WithLabelValues("detect").Observe(time.Since(timer).Seconds())
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxStrategy, string(a.strategy))
	}
	return cycles, nil
}

// WriteOutputs emits the configured machine-readable exports.
func (a *App) WriteOutputs(result *Result) error {
	if path := a.cfg.Output.DOT; path != "" {
		mode, err := output.ParseGraphMode(a.cfg.Output.Graph)
		if err != nil {
			return err
		}
		dot := output.NewDOTGenerator(result.Graph, mode).Generate(result.Cycles)
		if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write dot output")
		}
	}

	if path := a.cfg.Output.TSV; path != "" {
		tsv := output.GenerateTSV(result.Cycles)
		if err := os.WriteFile(path, []byte(tsv), 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write tsv output")
		}
	}

	if path := a.cfg.Output.SARIF; path != "" {
		data, err := output.GenerateSARIF(a.factory.ProjectRoot(), a.version, result.Cycles)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode sarif output")
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write sarif output")
		}
	}

	return nil
}

// Roots returns the directories the analysis covers, for the file watcher.
func (a *App) Roots() []string {
	return a.roots
}
