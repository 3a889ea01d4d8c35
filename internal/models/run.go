package models

import "time"

// Run is one row per build invocation (§3, §4.11), recording enough
// to reproduce and audit the build after the fact.
type Run struct {
	ID int64 `json:"id"`
	// UUID is a stable external identifier for this run, independent of
	// the rowid, generated once at record time.
	UUID       string    `json:"uuid"`
	StartedAt  time.Time `json:"started_at"`
	ToolVersion string   `json:"tool_version"`
	// ConfigJSON is a JSON snapshot of the effective configuration
	// used for this run.
	ConfigJSON string `json:"config_json"`
	Source     string `json:"source"`
	Spine      string `json:"spine"`
	Depth      int    `json:"depth"`
	// StatsJSON is a JSON snapshot of Store.Stats() taken after the
	// build finished.
	StatsJSON string `json:"stats_json"`
}
