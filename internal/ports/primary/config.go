package primary

import "context"

// ConfigService defines the primary port for linter preferences.
type ConfigService interface {
	// GetConfig returns every option with its effective value.
	GetConfig(ctx context.Context) (*ConfigView, error)

	// SetConfig validates and stores one option.
	SetConfig(ctx context.Context, req SetConfigRequest) (*SetConfigResponse, error)

	// ResetConfig deletes stored values so defaults apply. An empty key
	// resets every option.
	ResetConfig(ctx context.Context, key string) error
}

// ConfigView lists options in display order.
type ConfigView struct {
	Options []*ConfigOption
}

// ConfigOption is one option at the port boundary.
type ConfigOption struct {
	Key       string
	Value     string
	IsDefault bool
}

// SetConfigRequest contains parameters for setting an option.
type SetConfigRequest struct {
	Key   string
	Value string
}

// SetConfigResponse contains the result of setting an option.
type SetConfigResponse struct {
	Key     string
	Value   string // value actually stored
	Warning string // set when the value was adjusted
}
