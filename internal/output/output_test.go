package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/si-23/py-import-cycles/internal/graph"
	"github.com/si-23/py-import-cycles/internal/pymodule"
)

// cyclicGraph builds a -> b -> a with an acyclic d -> a entry edge and
// returns the graph plus its detected cycles.
func cyclicGraph(t *testing.T) (*graph.Graph, []graph.Cycle) {
	t.Helper()
	dir := t.TempDir()

	modules := make(map[string]pymodule.Module)
	for _, v := range []string{"a", "b", "d"} {
		path := filepath.Join(dir, v+".py")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		m, err := pymodule.NewPlainModule(path, pymodule.Name(v))
		if err != nil {
			t.Fatal(err)
		}
		modules[v] = m
	}

	g := graph.New()
	g.Add(modules["a"], []pymodule.Module{modules["b"]})
	g.Add(modules["b"], []pymodule.Module{modules["a"]})
	g.Add(modules["d"], []pymodule.Module{modules["a"]})

	cycles, err := graph.Detect(graph.StrategyDFS, g)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	return g, cycles
}

func TestWriteReport(t *testing.T) {
	_, cycles := cyclicGraph(t)

	var buf strings.Builder
	WriteReport(&buf, cycles)

	out := buf.String()
	if !strings.Contains(out, "Found 1 import cycles") {
		t.Errorf("report missing summary line: %q", out)
	}
	if !strings.Contains(out, "1. a -> b -> a") {
		t.Errorf("report missing cycle chain: %q", out)
	}

	buf.Reset()
	WriteReport(&buf, nil)
	if !strings.Contains(buf.String(), "No import cycles found") {
		t.Errorf("empty report = %q", buf.String())
	}
}

func TestParseGraphMode(t *testing.T) {
	for _, s := range []string{"all", "only-cycles"} {
		if _, err := ParseGraphMode(s); err != nil {
			t.Errorf("ParseGraphMode(%q): %v", s, err)
		}
	}
	if _, err := ParseGraphMode("some"); err == nil {
		t.Error("ParseGraphMode should reject unknown modes")
	}
}

func TestDOTGenerator_All(t *testing.T) {
	g, cycles := cyclicGraph(t)

	dot := NewDOTGenerator(g, GraphAll).Generate(cycles)

	if !strings.HasPrefix(dot, "digraph imports {") {
		t.Errorf("missing digraph header: %q", dot)
	}
	if !strings.Contains(dot, `"a" -> "b" [color="red"`) {
		t.Errorf("cycle edge a->b should be highlighted: %q", dot)
	}
	if !strings.Contains(dot, `"d" -> "a";`) {
		t.Errorf("acyclic edge d->a should be plain: %q", dot)
	}
}

func TestDOTGenerator_OnlyCycles(t *testing.T) {
	g, cycles := cyclicGraph(t)

	dot := NewDOTGenerator(g, GraphOnlyCycles).Generate(cycles)

	if strings.Contains(dot, `"d"`) {
		t.Errorf("only-cycles export should omit d: %q", dot)
	}
	if !strings.Contains(dot, `"a" -> "b"`) || !strings.Contains(dot, `"b" -> "a"`) {
		t.Errorf("only-cycles export should keep the cycle edges: %q", dot)
	}
}

func TestGenerateTSV(t *testing.T) {
	_, cycles := cyclicGraph(t)

	tsv := GenerateTSV(cycles)
	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	if lines[0] != "Cycle\tFrom\tTo" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 2 edges: %q", len(lines)-1, tsv)
	}
	if lines[1] != "1\ta\tb" || lines[2] != "1\tb\ta" {
		t.Errorf("rows = %v", lines[1:])
	}
}

func TestGenerateSARIF(t *testing.T) {
	g, cycles := cyclicGraph(t)
	_ = g

	projectRoot := filepath.Dir(cycles[0][0].Path())
	data, err := GenerateSARIF(projectRoot, "1.0.0", cycles)
	if err != nil {
		t.Fatal(err)
	}

	var report struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			AutomationDetails struct {
				GUID string `json:"guid"`
			} `json:"automationDetails"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []json.RawMessage `json:"relatedLocations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}

	if report.Version != "2.1.0" {
		t.Errorf("version = %q", report.Version)
	}
	run := report.Runs[0]
	if run.Tool.Driver.Name != "py-import-cycles" {
		t.Errorf("driver name = %q", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "import-cycle" {
		t.Errorf("rules = %+v", run.Tool.Driver.Rules)
	}
	if run.AutomationDetails.GUID == "" {
		t.Error("run GUID should be set")
	}
	if len(run.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(run.Results))
	}
	result := run.Results[0]
	if result.RuleID != "import-cycle" || result.Level != "error" {
		t.Errorf("result = %+v", result)
	}
	// Primary location is the first member, the rest are related.
	if len(result.Locations) != 1 || result.Locations[0].PhysicalLocation.ArtifactLocation.URI != "a.py" {
		t.Errorf("locations = %+v", result.Locations)
	}
	if len(result.RelatedLocations) != 1 {
		t.Errorf("relatedLocations = %+v", result.RelatedLocations)
	}
}

func TestGenerateSARIF_NoCycles(t *testing.T) {
	data, err := GenerateSARIF(t.TempDir(), "1.0.0", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"results": []`) {
		t.Errorf("empty report should carry an empty results array: %s", data)
	}
}
