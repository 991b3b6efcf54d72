package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/revlint/internal/app"
	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/scope"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/wire"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate the configured scope and mark items that need review",
	Long: `Evaluate every in-scope project and task against the lint rules.
Offending items get the review tag, optionally a flag, and @lintAt/@lint
stamps in their notes. Running sweep twice on the same day changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		verbose, _ := cmd.Flags().GetBool("verbose")

		return withRemedy(wire.LintAdapter().Sweep(ctx, dryRun, verbose))
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply bulk repairs (fix pack)",
	Long: `Apply the selected repairs over the configured scope:

  --add-waiting      stamp @waitingSince on waiting tasks without one
  --reset-waiting    restamp stale @waitingSince dates to today
  --triage-inbox     tag old inbox items with the triage tag
  --repair-defer     move stale defer dates (--defer-policy today|clear)
  --repair-due       move past due dates (--due-policy today|next_week|clear)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		req := primary.FixRequest{}
		req.AddWaitingSince, _ = cmd.Flags().GetBool("add-waiting")
		req.ResetWaitingSince, _ = cmd.Flags().GetBool("reset-waiting")
		req.TriageInbox, _ = cmd.Flags().GetBool("triage-inbox")
		req.RepairDefer, _ = cmd.Flags().GetBool("repair-defer")
		req.DeferPolicy, _ = cmd.Flags().GetString("defer-policy")
		req.RepairDue, _ = cmd.Flags().GetBool("repair-due")
		req.DuePolicy, _ = cmd.Flags().GetString("due-policy")
		req.AssumeYes, _ = cmd.Flags().GetBool("yes")
		req.DryRun, _ = cmd.Flags().GetBool("dry-run")

		return withRemedy(cancelledIsOK(wire.LintAdapter().Fix(ctx, req)))
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [item-id...]",
	Short: "Remove lint marks",
	Long: `Remove the review tag from the given projects and tasks, or with --all
from every in-scope item. --flags also unflags cleared items and --stamps
strips their @lintAt/@lint stamps. @waitingSince stamps are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) > 0) {
			return fmt.Errorf("specify item IDs or --all, not both")
		}

		req := primary.ClearRequest{Scope: "selection", ItemIDs: args}
		if all {
			req.Scope = "all"
		}
		req.RemoveFlags, _ = cmd.Flags().GetBool("flags")
		req.RemoveStamps, _ = cmd.Flags().GetBool("stamps")
		req.AssumeYes, _ = cmd.Flags().GetBool("yes")
		req.DryRun, _ = cmd.Flags().GetBool("dry-run")

		return withRemedy(cancelledIsOK(wire.LintAdapter().Clear(ctx, req)))
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List items awaiting review and open the lint queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		noOpen, _ := cmd.Flags().GetBool("no-open")

		return wire.LintAdapter().Queue(ctx, noOpen)
	},
}

// cancelledIsOK turns a declined confirmation into a clean exit.
func cancelledIsOK(err error) error {
	if errors.Is(err, app.ErrCancelled) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}

// withRemedy appends what to change for errors caused by preferences.
func withRemedy(err error) error {
	switch {
	case errors.Is(err, scope.ErrScopeNotFound):
		return fmt.Errorf("%w\nRun `revlint config set %s %s` or pick another folder or tag with `revlint config set`",
			err, config.KeyScopeMode, config.ScopeAllActive)
	case errors.Is(err, app.ErrRequiredTag):
		return fmt.Errorf("%w\nCheck the tag names with `revlint config show`", err)
	}
	return err
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	sweepCmd.Flags().BoolP("dry-run", "n", false, "Show planned changes without applying them")
	sweepCmd.Flags().BoolP("verbose", "v", false, "List every flagged item")
	return sweepCmd
}

// FixCmd returns the fix command
func FixCmd() *cobra.Command {
	fixCmd.Flags().Bool("add-waiting", false, "Add missing @waitingSince stamps")
	fixCmd.Flags().Bool("reset-waiting", false, "Reset stale @waitingSince stamps")
	fixCmd.Flags().Bool("triage-inbox", false, "Tag old inbox items for triage")
	fixCmd.Flags().Bool("repair-defer", false, "Repair stale defer dates")
	fixCmd.Flags().String("defer-policy", "today", "Defer repair policy (today, clear)")
	fixCmd.Flags().Bool("repair-due", false, "Repair past due dates")
	fixCmd.Flags().String("due-policy", "today", "Due repair policy (today, next_week, clear)")
	fixCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	fixCmd.Flags().BoolP("dry-run", "n", false, "Show planned changes without applying them")
	return fixCmd
}

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	clearCmd.Flags().Bool("all", false, "Clear every in-scope item")
	clearCmd.Flags().Bool("flags", false, "Also unflag cleared items")
	clearCmd.Flags().Bool("stamps", false, "Also remove @lintAt and @lint stamps")
	clearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	clearCmd.Flags().BoolP("dry-run", "n", false, "Show planned changes without applying them")
	return clearCmd
}

// QueueCmd returns the queue command
func QueueCmd() *cobra.Command {
	queueCmd.Flags().Bool("no-open", false, "List the queue without opening it")
	return queueCmd
}
