// Package config holds the linter configuration: an immutable snapshot of
// named preferences (Config) and the process settings file (Settings).
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ScopeMode selects which projects a run considers.
type ScopeMode string

// Scope modes
const (
	ScopeAllActive ScopeMode = "ALL_ACTIVE_PROJECTS"
	ScopeFolder    ScopeMode = "FOLDER_SCOPE"
	ScopeTag       ScopeMode = "TAG_SCOPE"
)

// Preference keys, as stored in the preference store.
const (
	KeyReviewTagName           = "reviewTagName"
	KeyAlsoFlag                = "alsoFlag"
	KeyScopeMode               = "scopeMode"
	KeyScopeFolderID           = "scopeFolderId"
	KeyScopeTagID              = "scopeTagId"
	KeyExcludeTagNames         = "excludeTagNames"
	KeyIncludeOnHoldProjects   = "includeOnHoldProjects"
	KeyLintTasksEnabled        = "lintTasksEnabled"
	KeyInboxMaxAgeDays         = "inboxMaxAgeDays"
	KeyDeferPastGraceDays      = "deferPastGraceDays"
	KeyWaitingTagName          = "waitingTagName"
	KeyWaitingStaleDays        = "waitingStaleDays"
	KeyEnableWaitingSinceStamp = "enableWaitingSinceStamp"
	KeyTriageTagName           = "triageTagName"
)

// Config is a read-only snapshot of the linter preferences. It is loaded once
// per run and passed by value.
type Config struct {
	ReviewTagName           string
	AlsoFlag                bool
	ScopeMode               ScopeMode
	ScopeFolderID           string // empty when unset
	ScopeTagID              string // empty when unset
	ExcludeTagNames         string // comma-separated
	IncludeOnHoldProjects   bool
	LintTasksEnabled        bool
	InboxMaxAgeDays         int
	DeferPastGraceDays      int
	WaitingTagName          string
	WaitingStaleDays        int
	EnableWaitingSinceStamp bool
	TriageTagName           string
}

// Default returns the configuration used when no preferences are stored.
func Default() Config {
	return Config{
		ReviewTagName:           "⚠ Review Lint",
		AlsoFlag:                false,
		ScopeMode:               ScopeAllActive,
		ExcludeTagNames:         "Someday/Maybe",
		IncludeOnHoldProjects:   false,
		LintTasksEnabled:        true,
		InboxMaxAgeDays:         2,
		DeferPastGraceDays:      7,
		WaitingTagName:          "Waiting",
		WaitingStaleDays:        21,
		EnableWaitingSinceStamp: true,
		TriageTagName:           "Needs Triage",
	}
}

// PreferenceReader reads raw preference values by key.
type PreferenceReader interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
}

// Keys returns all preference keys in a stable order.
func Keys() []string {
	return []string{
		KeyReviewTagName,
		KeyAlsoFlag,
		KeyScopeMode,
		KeyScopeFolderID,
		KeyScopeTagID,
		KeyExcludeTagNames,
		KeyIncludeOnHoldProjects,
		KeyLintTasksEnabled,
		KeyInboxMaxAgeDays,
		KeyDeferPastGraceDays,
		KeyWaitingTagName,
		KeyWaitingStaleDays,
		KeyEnableWaitingSinceStamp,
		KeyTriageTagName,
	}
}

// IsKey reports whether key names a known preference.
func IsKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Load builds a Config from stored preferences. Missing values fall back to
// defaults, and so do stored values that no longer parse: a numeric value that
// is not a non-negative integer, a boolean that is not a boolean, or an
// unknown scope mode.
func Load(ctx context.Context, prefs PreferenceReader) (Config, error) {
	cfg := Default()
	for _, key := range Keys() {
		raw, ok, err := prefs.Read(ctx, key)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read preference %s: %w", key, err)
		}
		if !ok {
			continue
		}
		next, err := cfg.With(key, raw)
		if err != nil {
			continue
		}
		cfg = next
	}
	return cfg, nil
}

// With returns a copy of c with key set to the parsed raw value.
// It returns an error when the value is not valid for the key.
func (c Config) With(key, raw string) (Config, error) {
	switch key {
	case KeyReviewTagName:
		name := strings.TrimSpace(raw)
		if name == "" {
			return c, fmt.Errorf("%s must not be empty", key)
		}
		c.ReviewTagName = name
	case KeyAlsoFlag:
		b, err := parseBool(key, raw)
		if err != nil {
			return c, err
		}
		c.AlsoFlag = b
	case KeyScopeMode:
		mode := ScopeMode(strings.TrimSpace(raw))
		switch mode {
		case ScopeAllActive, ScopeFolder, ScopeTag:
		default:
			return c, fmt.Errorf("%s must be one of %s, %s, %s", key, ScopeAllActive, ScopeFolder, ScopeTag)
		}
		c.ScopeMode = mode
	case KeyScopeFolderID:
		c.ScopeFolderID = strings.TrimSpace(raw)
	case KeyScopeTagID:
		c.ScopeTagID = strings.TrimSpace(raw)
	case KeyExcludeTagNames:
		c.ExcludeTagNames = strings.TrimSpace(raw)
	case KeyIncludeOnHoldProjects:
		b, err := parseBool(key, raw)
		if err != nil {
			return c, err
		}
		c.IncludeOnHoldProjects = b
	case KeyLintTasksEnabled:
		b, err := parseBool(key, raw)
		if err != nil {
			return c, err
		}
		c.LintTasksEnabled = b
	case KeyInboxMaxAgeDays:
		n, err := parseDays(key, raw)
		if err != nil {
			return c, err
		}
		c.InboxMaxAgeDays = n
	case KeyDeferPastGraceDays:
		n, err := parseDays(key, raw)
		if err != nil {
			return c, err
		}
		c.DeferPastGraceDays = n
	case KeyWaitingTagName:
		c.WaitingTagName = strings.TrimSpace(raw)
	case KeyWaitingStaleDays:
		n, err := parseDays(key, raw)
		if err != nil {
			return c, err
		}
		c.WaitingStaleDays = n
	case KeyEnableWaitingSinceStamp:
		b, err := parseBool(key, raw)
		if err != nil {
			return c, err
		}
		c.EnableWaitingSinceStamp = b
	case KeyTriageTagName:
		c.TriageTagName = strings.TrimSpace(raw)
	default:
		return c, fmt.Errorf("unknown preference %q", key)
	}
	return c, nil
}

// Value returns the stored string form of key.
func (c Config) Value(key string) string {
	switch key {
	case KeyReviewTagName:
		return c.ReviewTagName
	case KeyAlsoFlag:
		return strconv.FormatBool(c.AlsoFlag)
	case KeyScopeMode:
		return string(c.ScopeMode)
	case KeyScopeFolderID:
		return c.ScopeFolderID
	case KeyScopeTagID:
		return c.ScopeTagID
	case KeyExcludeTagNames:
		return c.ExcludeTagNames
	case KeyIncludeOnHoldProjects:
		return strconv.FormatBool(c.IncludeOnHoldProjects)
	case KeyLintTasksEnabled:
		return strconv.FormatBool(c.LintTasksEnabled)
	case KeyInboxMaxAgeDays:
		return strconv.Itoa(c.InboxMaxAgeDays)
	case KeyDeferPastGraceDays:
		return strconv.Itoa(c.DeferPastGraceDays)
	case KeyWaitingTagName:
		return c.WaitingTagName
	case KeyWaitingStaleDays:
		return strconv.Itoa(c.WaitingStaleDays)
	case KeyEnableWaitingSinceStamp:
		return strconv.FormatBool(c.EnableWaitingSinceStamp)
	case KeyTriageTagName:
		return c.TriageTagName
	}
	return ""
}

// Values returns every preference in its stored string form.
func (c Config) Values() map[string]string {
	out := make(map[string]string, len(Keys()))
	for _, k := range Keys() {
		out[k] = c.Value(k)
	}
	return out
}

// ExcludeNames returns the parsed exclude-tag list.
func (c Config) ExcludeNames() []string {
	return ParseTagList(c.ExcludeTagNames)
}

// ParseTagList splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func ParseTagList(csv string) []string {
	if csv == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(csv, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseBool(key, raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s must be true or false, got %q", key, raw)
	}
	return b, nil
}

func parseDays(key, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return n, nil
}
