package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/stamp"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

// QueueServiceImpl implements the QueueService interface.
type QueueServiceImpl struct {
	store       secondary.ItemStore
	prefs       secondary.PreferenceStore
	navigator   secondary.Navigator
	urlTemplate string
	logger      *slog.Logger
}

// NewQueueService creates a new QueueService. urlTemplate is the queue view
// URL; {tag} is replaced with the path-escaped review tag name.
func NewQueueService(
	store secondary.ItemStore,
	prefs secondary.PreferenceStore,
	navigator secondary.Navigator,
	urlTemplate string,
	logger *slog.Logger,
) *QueueServiceImpl {
	return &QueueServiceImpl{
		store:       store,
		prefs:       prefs,
		navigator:   navigator,
		urlTemplate: urlTemplate,
		logger:      logger,
	}
}

// OpenQueue lists items carrying the review tag and opens the queue view.
// It never creates the tag.
func (s *QueueServiceImpl) OpenQueue(ctx context.Context, req primary.QueueRequest) (*primary.QueueResponse, error) {
	cfg, err := config.Load(ctx, s.prefs)
	if err != nil {
		return nil, err
	}

	resp := &primary.QueueResponse{TagName: cfg.ReviewTagName}
	tag, err := s.store.FindTagByName(ctx, cfg.ReviewTagName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag %q: %w", cfg.ReviewTagName, err)
	}
	if tag == nil {
		resp.TagMissing = true
		return resp, nil
	}

	items, err := s.store.ListItemsByTag(ctx, tag.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	for _, item := range items {
		reasons, _ := stamp.ReadLint(item.Note)
		lintedAt, _ := stamp.ReadLintAt(item.Note)
		resp.Items = append(resp.Items, &primary.QueueItem{
			ID:        item.ID,
			Name:      item.Name,
			IsProject: item.ProjectID != "" && item.ID == item.ProjectID,
			Flagged:   item.Flagged,
			Reasons:   reasons,
			LintedAt:  lintedAt,
		})
	}

	resp.URL = QueueURL(s.urlTemplate, tag.Name)
	if req.NoOpen || resp.URL == "" {
		return resp, nil
	}
	if err := s.navigator.Open(ctx, resp.URL); err != nil {
		return nil, fmt.Errorf("failed to open queue: %w", err)
	}
	s.logger.Debug("queue opened", "url", resp.URL, "items", len(resp.Items))
	return resp, nil
}

// QueueURL expands a queue URL template for tagName.
func QueueURL(template, tagName string) string {
	return strings.ReplaceAll(template, "{tag}", url.PathEscape(tagName))
}

// Ensure QueueServiceImpl implements the interface
var _ primary.QueueService = (*QueueServiceImpl)(nil)
