package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

// ErrUnknownKey is returned for preference keys the linter does not define.
var ErrUnknownKey = errors.New("unknown preference")

// ConfigServiceImpl implements the ConfigService interface.
type ConfigServiceImpl struct {
	prefs secondary.PreferenceStore
	store secondary.ItemStore
}

// NewConfigService creates a new ConfigService with injected dependencies.
func NewConfigService(prefs secondary.PreferenceStore, store secondary.ItemStore) *ConfigServiceImpl {
	return &ConfigServiceImpl{
		prefs: prefs,
		store: store,
	}
}

// GetConfig returns every option with its effective value.
func (s *ConfigServiceImpl) GetConfig(ctx context.Context) (*primary.ConfigView, error) {
	cfg, err := config.Load(ctx, s.prefs)
	if err != nil {
		return nil, err
	}
	defaults := config.Default()

	view := &primary.ConfigView{}
	for _, key := range config.Keys() {
		value := cfg.Value(key)
		view.Options = append(view.Options, &primary.ConfigOption{
			Key:       key,
			Value:     value,
			IsDefault: value == defaults.Value(key),
		})
	}
	return view, nil
}

// SetConfig validates and stores one option. A folder or tag scope with
// nothing to scope to reverts to all active projects.
func (s *ConfigServiceImpl) SetConfig(ctx context.Context, req primary.SetConfigRequest) (*primary.SetConfigResponse, error) {
	if !config.IsKey(req.Key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, req.Key)
	}

	cfg, err := config.Load(ctx, s.prefs)
	if err != nil {
		return nil, err
	}
	next, err := cfg.With(req.Key, req.Value)
	if err != nil {
		return nil, err
	}

	resp := &primary.SetConfigResponse{Key: req.Key, Value: next.Value(req.Key)}

	switch req.Key {
	case config.KeyScopeMode, config.KeyScopeFolderID, config.KeyScopeTagID:
		if err := s.checkScope(ctx, next, resp); err != nil {
			return nil, err
		}
	}

	if err := s.prefs.Write(ctx, resp.Key, resp.Value); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", resp.Key, err)
	}
	return resp, nil
}

func (s *ConfigServiceImpl) checkScope(ctx context.Context, cfg config.Config, resp *primary.SetConfigResponse) error {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	switch resp.Key {
	case config.KeyScopeMode:
		switch {
		case cfg.ScopeMode == config.ScopeFolder && len(cat.Folders) == 0:
			resp.Value = string(config.ScopeAllActive)
			resp.Warning = "No folders exist. Scope reverted to all active projects."
		case cfg.ScopeMode == config.ScopeTag && len(cat.Tags) == 0:
			resp.Value = string(config.ScopeAllActive)
			resp.Warning = "No tags exist. Scope reverted to all active projects."
		}
	case config.KeyScopeFolderID:
		if cfg.ScopeFolderID != "" && cat.FindFolder(cfg.ScopeFolderID) == nil {
			return fmt.Errorf("folder %s: %w", cfg.ScopeFolderID, secondary.ErrNotFound)
		}
	case config.KeyScopeTagID:
		if cfg.ScopeTagID != "" {
			if _, ok := cat.FindTag(cfg.ScopeTagID); !ok {
				return fmt.Errorf("tag %s: %w", cfg.ScopeTagID, secondary.ErrNotFound)
			}
		}
	}
	return nil
}

// ResetConfig deletes stored values so defaults apply. An empty key resets
// every option.
func (s *ConfigServiceImpl) ResetConfig(ctx context.Context, key string) error {
	keys := config.Keys()
	if key != "" {
		if !config.IsKey(key) {
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		keys = []string{key}
	}
	for _, k := range keys {
		if err := s.prefs.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to reset %s: %w", k, err)
		}
	}
	return nil
}

// Ensure ConfigServiceImpl implements the interface
var _ primary.ConfigService = (*ConfigServiceImpl)(nil)
