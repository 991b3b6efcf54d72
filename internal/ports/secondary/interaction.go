package secondary

import "context"

// Prompter asks the user to confirm an action.
type Prompter interface {
	// Confirm returns false when the user declines.
	Confirm(ctx context.Context, message string) (bool, error)
}

// Notifier shows a titled message to the user.
type Notifier interface {
	Alert(ctx context.Context, title, message string) error
}

// Navigator opens a URL in the host application.
type Navigator interface {
	Open(ctx context.Context, url string) error
}
