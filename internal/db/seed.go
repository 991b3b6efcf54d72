package db

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed testdata/sample.yaml
var sampleYAML []byte

// SeedFixtures replaces the task database with a small sample that exercises
// every lint rule. Preferences and run history are kept.
func SeedFixtures(ctx context.Context, database *sql.DB) (*ImportStats, error) {
	stats, err := Import(ctx, database, bytes.NewReader(sampleYAML), ImportOptions{Replace: true})
	if err != nil {
		return nil, fmt.Errorf("seed fixtures: %w", err)
	}
	return stats, nil
}
