// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/example/revlint/internal/core/effects"
	"github.com/example/revlint/internal/core/stamp"
	"github.com/example/revlint/internal/logging"
	"github.com/example/revlint/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the item store.
// Every applied mutation is written to the lint log.
type DefaultEffectExecutor struct {
	store     secondary.ItemStore
	logWriter secondary.LogWriter
	logger    *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(store secondary.ItemStore, logWriter secondary.LogWriter, logger *slog.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		store:     store,
		logWriter: logWriter,
		logger:    logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
// The first failure stops execution; earlier effects stay applied.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.TagEffect:
		return e.executeTag(ctx, typed)
	case effects.NoteEffect:
		return e.executeNote(ctx, typed)
	case effects.FlagEffect:
		return e.executeFlag(ctx, typed)
	case effects.DateEffect:
		return e.executeDate(ctx, typed)
	case effects.LogEffect:
		args := make([]any, 0, 2*len(typed.Fields))
		for k, v := range typed.Fields {
			args = append(args, k, v)
		}
		e.logger.Log(ctx, logging.ParseLevel(typed.Level), typed.Message, args...)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeTag(ctx context.Context, eff effects.TagEffect) error {
	var oldValue, newValue string
	switch eff.Operation {
	case effects.TagAdd:
		if err := e.store.AddTag(ctx, eff.ItemID, eff.TagID); err != nil {
			return err
		}
		newValue = eff.TagName
	case effects.TagRemove:
		if err := e.store.RemoveTag(ctx, eff.ItemID, eff.TagID); err != nil {
			return err
		}
		oldValue = eff.TagName
	default:
		return fmt.Errorf("unknown tag operation: %s", eff.Operation)
	}
	e.logger.Debug("tag updated", "item", eff.ItemID, "op", eff.Operation, "tag", eff.TagName)
	return e.logWriter.LogUpdate(ctx, "item", eff.ItemID, "tag", oldValue, newValue)
}

func (e *DefaultEffectExecutor) executeNote(ctx context.Context, eff effects.NoteEffect) error {
	if err := e.store.SetNote(ctx, eff.ItemID, eff.New); err != nil {
		return err
	}
	e.logger.Log(ctx, logging.LevelTrace, "note updated", "item", eff.ItemID, "old", eff.Old, "new", eff.New)
	return e.logWriter.LogUpdate(ctx, "item", eff.ItemID, "note", eff.Old, eff.New)
}

func (e *DefaultEffectExecutor) executeFlag(ctx context.Context, eff effects.FlagEffect) error {
	if err := e.store.SetFlagged(ctx, eff.ItemID, eff.Flagged); err != nil {
		return err
	}
	e.logger.Debug("flag updated", "item", eff.ItemID, "flagged", eff.Flagged)
	return e.logWriter.LogUpdate(ctx, "item", eff.ItemID, "flagged",
		strconv.FormatBool(!eff.Flagged), strconv.FormatBool(eff.Flagged))
}

func (e *DefaultEffectExecutor) executeDate(ctx context.Context, eff effects.DateEffect) error {
	var err error
	switch eff.Field {
	case effects.FieldDue:
		err = e.store.SetDueDate(ctx, eff.ItemID, eff.New)
	case effects.FieldDefer:
		err = e.store.SetDeferDate(ctx, eff.ItemID, eff.New)
	default:
		return fmt.Errorf("unknown date field: %s", eff.Field)
	}
	if err != nil {
		return err
	}
	e.logger.Debug("date updated", "item", eff.ItemID, "field", eff.Field)
	return e.logWriter.LogUpdate(ctx, "item", eff.ItemID, eff.Field+"_date", formatDay(eff.Old), formatDay(eff.New))
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stamp.FormatDate(*t)
}

// countChanges returns the number of store mutations in effs.
func countChanges(effs []effects.Effect) int {
	n := 0
	for _, eff := range effs {
		switch eff.(type) {
		case effects.TagEffect, effects.NoteEffect, effects.FlagEffect, effects.DateEffect:
			n++
		}
	}
	return n
}

// describeEffects renders the store mutations in effs for a dry run.
func describeEffects(effs []effects.Effect) []string {
	out := make([]string, 0, len(effs))
	for _, eff := range effs {
		if _, ok := eff.(effects.LogEffect); ok {
			continue
		}
		out = append(out, effects.Describe(eff))
	}
	return out
}
