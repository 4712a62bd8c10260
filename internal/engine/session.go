// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

// SessionFile is the on-disk representation of one answered query. A
// session can be saved after a search and reloaded later without
// re-running retrieval.
type SessionFile struct {
	Query       string               `yaml:"query"`
	Plan        types.QueryPlan      `yaml:"plan"`
	Results     []types.ScoredResult `yaml:"results,omitempty"`
	Suggestions []types.Suggestion   `yaml:"suggestions,omitempty"`
	Summary     SessionSummary       `yaml:"summary"`
}

// SessionSummary stores outcome statistics and a timestamp.
type SessionSummary struct {
	Status    Status    `yaml:"status"`
	Total     int       `yaml:"total"`
	Degraded  bool      `yaml:"degraded,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteSessionFile saves a search outcome to a YAML file.
func WriteSessionFile(path string, rawQuery string, out Outcome) error {
	sf := SessionFile{
		Query:       rawQuery,
		Plan:        out.Plan,
		Results:     out.Results,
		Suggestions: out.Suggestions,
		Summary: SessionSummary{
			Status:    out.Status,
			Total:     len(out.Results),
			Degraded:  out.Degraded,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling session file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSessionFile loads a previously saved session from disk.
func ReadSessionFile(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var sf SessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	return &sf, nil
}
