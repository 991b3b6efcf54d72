// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

// Alert titles
const (
	titleSweep = "Review Lint"
	titleFix   = "Fix Pack"
	titleClear = "Clear Lint Marks"
	titleQueue = "Lint Queue"
)

// LintAdapter translates CLI operations to the sweep, fix pack, clear and
// queue services. Run summaries go through the notifier; listings go to out.
type LintAdapter struct {
	sweep    primary.SweepService
	fix      primary.FixPackService
	clear    primary.ClearService
	queue    primary.QueueService
	notifier secondary.Notifier
	out      io.Writer
}

// NewLintAdapter creates a new LintAdapter.
func NewLintAdapter(
	sweep primary.SweepService,
	fix primary.FixPackService,
	clear primary.ClearService,
	queue primary.QueueService,
	notifier secondary.Notifier,
	out io.Writer,
) *LintAdapter {
	return &LintAdapter{
		sweep:    sweep,
		fix:      fix,
		clear:    clear,
		queue:    queue,
		notifier: notifier,
		out:      out,
	}
}

// Sweep runs a sweep and reports what was flagged.
func (a *LintAdapter) Sweep(ctx context.Context, dryRun, verbose bool) error {
	resp, err := a.sweep.Sweep(ctx, primary.SweepRequest{DryRun: dryRun})
	if err != nil {
		return err
	}

	if verbose && len(resp.Findings) > 0 {
		fmt.Fprintf(a.out, "\n%-10s %-28s %s\n", "ID", "NAME", "REASONS")
		fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
		for _, f := range resp.Findings {
			fmt.Fprintf(a.out, "%-10s %-28s %s\n", f.ItemID, truncate(f.Name, 28), strings.Join(f.Reasons, ","))
		}
		fmt.Fprintln(a.out)
	}
	a.printPlanned(resp.Planned, dryRun)

	return a.notifier.Alert(ctx, titleSweep, resp.Summary)
}

// Fix runs the fix pack with the given selection.
func (a *LintAdapter) Fix(ctx context.Context, req primary.FixRequest) error {
	resp, err := a.fix.Fix(ctx, req)
	if err != nil {
		return err
	}
	a.printPlanned(resp.Planned, req.DryRun)
	return a.notifier.Alert(ctx, titleFix, resp.Summary)
}

// Clear removes lint marks.
func (a *LintAdapter) Clear(ctx context.Context, req primary.ClearRequest) error {
	resp, err := a.clear.Clear(ctx, req)
	if err != nil {
		return err
	}
	a.printPlanned(resp.Planned, req.DryRun)
	return a.notifier.Alert(ctx, titleClear, resp.Summary)
}

// Queue lists the items awaiting review and opens the queue view.
func (a *LintAdapter) Queue(ctx context.Context, noOpen bool) error {
	resp, err := a.queue.OpenQueue(ctx, primary.QueueRequest{NoOpen: noOpen})
	if err != nil {
		return err
	}

	if resp.TagMissing {
		return a.notifier.Alert(ctx, titleQueue,
			fmt.Sprintf("The lint tag %q does not exist yet. Run a sweep first.", resp.TagName))
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(a.out, "Lint queue is empty")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-4s %-28s %-11s %s\n", "ID", "", "NAME", "LINTED", "REASONS")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, item := range resp.Items {
		kind := "    "
		if item.IsProject {
			kind = color.New(color.FgBlue).Sprint("PRJ ")
		}
		name := truncate(item.Name, 28)
		if item.Flagged {
			name = color.New(color.FgYellow).Sprintf("%-28s", name)
		}
		fmt.Fprintf(a.out, "%-10s %s %-28s %-11s %s\n", item.ID, kind, name, orDash(item.LintedAt), orDash(item.Reasons))
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *LintAdapter) printPlanned(planned []string, dryRun bool) {
	if !dryRun {
		return
	}
	if len(planned) == 0 {
		fmt.Fprintln(a.out, "[dry run] nothing to change")
		return
	}
	for _, line := range planned {
		fmt.Fprintf(a.out, "[dry run] %s\n", line)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
