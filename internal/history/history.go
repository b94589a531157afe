package history

import "time"

const SchemaVersion = 1

// Snapshot records the outcome of one analysis run, keyed by project and
// timestamp so successive watch-mode runs build a trend.
type Snapshot struct {
	ProjectKey  string
	Timestamp   time.Time
	Strategy    string
	FileCount   int
	ModuleCount int
	EdgeCount   int
	CycleCount  int
	Duration    time.Duration
}
