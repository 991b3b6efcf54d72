package cli

import (
	"context"
	"os"

	"github.com/example/revlint/internal/ctxutil"
)

// commandContext returns the context for a command, attributed to the
// invoking user so audited changes record who made them.
func commandContext() context.Context {
	return ctxutil.WithActorID(context.Background(), actorID())
}

func actorID() string {
	if v := os.Getenv("REVLINT_ACTOR"); v != "" {
		return v
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "revlint"
}
