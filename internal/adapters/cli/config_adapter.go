package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/revlint/internal/ports/primary"
)

// ConfigAdapter translates CLI operations to ConfigService calls.
type ConfigAdapter struct {
	service primary.ConfigService
	out     io.Writer
}

// NewConfigAdapter creates a new ConfigAdapter with the given service.
func NewConfigAdapter(service primary.ConfigService, out io.Writer) *ConfigAdapter {
	return &ConfigAdapter{
		service: service,
		out:     out,
	}
}

// Show prints every option. Options changed from their default are marked.
func (a *ConfigAdapter) Show(ctx context.Context) error {
	view, err := a.service.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	fmt.Fprintf(a.out, "\n%-25s %s\n", "KEY", "VALUE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, o := range view.Options {
		value := o.Value
		if value == "" {
			value = "(unset)"
		}
		if !o.IsDefault {
			value += color.New(color.FgCyan).Sprint(" *")
		}
		fmt.Fprintf(a.out, "%-25s %s\n", o.Key, value)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Set stores one option.
func (a *ConfigAdapter) Set(ctx context.Context, key, value string) error {
	resp, err := a.service.SetConfig(ctx, primary.SetConfigRequest{Key: key, Value: value})
	if err != nil {
		return err
	}
	if resp.Warning != "" {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), resp.Warning)
	}
	fmt.Fprintf(a.out, "✓ %s = %s\n", resp.Key, resp.Value)
	return nil
}

// Reset restores one option, or all of them when key is empty.
func (a *ConfigAdapter) Reset(ctx context.Context, key string) error {
	if err := a.service.ResetConfig(ctx, key); err != nil {
		return err
	}
	if key == "" {
		fmt.Fprintln(a.out, "✓ All preferences reset to defaults")
		return nil
	}
	fmt.Fprintf(a.out, "✓ %s reset to default\n", key)
	return nil
}
