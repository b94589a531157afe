package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/si-23/py-import-cycles/internal/graph"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDCycle = "import-cycle"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool               `json:"tool"`
	AutomationDetails *sarifAutomationDetails `json:"automationDetails,omitempty"`
	Results           []sarifResult           `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from detected cycles. File
// URIs are made relative to projectRoot; absolute paths are never included
// so that reports are safe to share.
func GenerateSARIF(projectRoot, toolVersion string, cycles []graph.Cycle) ([]byte, error) {
	rules := make([]sarifRule, 0, 1)
	if len(cycles) > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDCycle,
			Name:             "ImportCycle",
			ShortDescription: sarifMessage{Text: "Circular import dependency detected between Python modules."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}

	results := make([]sarifResult, 0, len(cycles))
	for _, cycle := range cycles {
		result := sarifResult{
			RuleID:  ruleIDCycle,
			Level:   "error",
			Message: sarifMessage{Text: fmt.Sprintf("Import cycle: %s", cycle)},
		}
		for i, mod := range cycle {
			loc := moduleLocation(projectRoot, mod.Path())
			if i == 0 {
				result.Locations = []sarifLocation{loc}
			} else {
				result.RelatedLocations = append(result.RelatedLocations, loc)
			}
		}
		results = append(results, result)
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "py-import-cycles",
						Version: toolVersion,
						Rules:   rules,
					},
				},
				AutomationDetails: &sarifAutomationDetails{GUID: uuid.NewString()},
				Results:           results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

func moduleLocation(projectRoot, path string) sarifLocation {
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       relativeURI(projectRoot, path),
				URIBaseID: "%SRCROOT%",
			},
		},
	}
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot.
func relativeURI(projectRoot, path string) string {
	if projectRoot != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(projectRoot, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
