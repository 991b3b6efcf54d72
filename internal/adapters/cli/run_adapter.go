package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/revlint/internal/ports/primary"
)

// RunAdapter translates CLI operations to RunService calls.
type RunAdapter struct {
	service primary.RunService
	out     io.Writer
}

// NewRunAdapter creates a new RunAdapter with the given service.
func NewRunAdapter(service primary.RunService, out io.Writer) *RunAdapter {
	return &RunAdapter{
		service: service,
		out:     out,
	}
}

// List lists recent runs.
func (a *RunAdapter) List(ctx context.Context, limit int) error {
	runs, err := a.service.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-8s %-6s %-10s %-8s %-20s\n", "ID", "KIND", "STATUS", "CHANGES", "STARTED")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, r := range runs {
		kind := r.Kind
		if r.DryRun {
			kind += "*"
		}
		fmt.Fprintf(a.out, "%-8s %-6s %-10s %-8d %-20s\n", shortID(r.ID), kind, statusLabel(r.Status), r.Changes, r.StartedAt)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays a run and its recorded changes.
func (a *RunAdapter) Show(ctx context.Context, id string) error {
	detail, err := a.service.GetRun(ctx, id)
	if err != nil {
		return err
	}

	r := detail.Run
	fmt.Fprintf(a.out, "\nRun:      %s\n", r.ID)
	fmt.Fprintf(a.out, "Kind:     %s\n", r.Kind)
	fmt.Fprintf(a.out, "Status:   %s\n", statusLabel(r.Status))
	if r.DryRun {
		fmt.Fprintln(a.out, "Dry run:  yes")
	}
	fmt.Fprintf(a.out, "Started:  %s\n", r.StartedAt)
	if r.FinishedAt != "" {
		fmt.Fprintf(a.out, "Finished: %s\n", r.FinishedAt)
	}
	if r.Summary != "" {
		fmt.Fprintf(a.out, "\n%s\n", r.Summary)
	}

	if len(detail.Changes) > 0 {
		fmt.Fprintf(a.out, "\nChanges (%d):\n", len(detail.Changes))
		for _, c := range detail.Changes {
			if c.Action == "create" {
				fmt.Fprintf(a.out, "  %s created %s %s\n", c.Timestamp, c.EntityType, c.EntityID)
				continue
			}
			fmt.Fprintf(a.out, "  %s %s %s: %q -> %q\n", c.Timestamp, c.EntityID, c.FieldName, c.OldValue, c.NewValue)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Prune deletes audit entries older than days.
func (a *RunAdapter) Prune(ctx context.Context, days int) error {
	n, err := a.service.PruneChanges(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Pruned %d change(s) older than %d days\n", n, days)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusLabel(status string) string {
	switch status {
	case "completed":
		return color.New(color.FgGreen).Sprint(status)
	case "failed":
		return color.New(color.FgRed).Sprint(status)
	case "cancelled", "running":
		return color.New(color.FgYellow).Sprint(status)
	}
	return status
}
