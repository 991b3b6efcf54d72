package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

type clearFixture struct {
	service  *ClearServiceImpl
	store    *mockItemStore
	prefs    *mockPreferenceStore
	runs     *mockRunRepository
	prompter *mockPrompter
}

func newTestClearService(cat *models.Catalog, answer bool) *clearFixture {
	f := &clearFixture{
		store:    newMockItemStore(cat),
		prefs:    newMockPreferenceStore(),
		runs:     newMockRunRepository(),
		prompter: newMockPrompter(answer),
	}
	executor := NewEffectExecutor(f.store, newMockLogWriter(), testLogger)
	f.service = NewClearService(f.store, f.prefs, executor, f.prompter, f.runs, testLogger)
	return f
}

// markedCatalog is the standard catalog after a sweep with alsoFlag on:
// PRJ-002 and TSK-010 carry the review tag, a flag and lint stamps.
func markedCatalog() *models.Catalog {
	cat := newTestCatalog()
	review := models.Tag{ID: "TAG-002", Name: config.Default().ReviewTagName}
	cat.Tags = append(cat.Tags, review)

	root := cat.Projects[1].Root
	root.Tags = []models.Tag{review}
	root.Flagged = true
	root.Note = "keep me\n@lintAt(2024-06-14)\n@lint(P_EMPTY)"

	inbox := cat.Inbox[0]
	inbox.Tags = []models.Tag{review}
	inbox.Flagged = true
	inbox.Note = "@waitingSince(2024-06-01)\n@lintAt(2024-06-14)\n@lint(T_INBOX_OLD)"
	return cat
}

// ============================================================================
// Clear Tests
// ============================================================================

func TestClear_TagMissing(t *testing.T) {
	f := newTestClearService(newTestCatalog(), true)

	resp, err := f.service.Clear(context.Background(), primary.ClearRequest{Scope: "all"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.TagMissing {
		t.Error("expected TagMissing")
	}
	if len(f.store.cat.Tags) != 1 {
		t.Error("expected clear never to create the tag")
	}
	if len(f.prompter.messages) != 0 || len(f.runs.order) != 0 {
		t.Error("expected no prompt and no run")
	}
}

func TestClear_InvalidScope(t *testing.T) {
	f := newTestClearService(markedCatalog(), true)

	tests := []struct {
		name string
		req  primary.ClearRequest
	}{
		{"unknown scope", primary.ClearRequest{Scope: "everything"}},
		{"empty selection", primary.ClearRequest{Scope: "selection"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Clear(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidScope) {
				t.Errorf("expected ErrInvalidScope, got %v", err)
			}
		})
	}
}

func TestClear_AllWithFlagsAndStamps(t *testing.T) {
	f := newTestClearService(markedCatalog(), true)

	resp, err := f.service.Clear(context.Background(), primary.ClearRequest{
		Scope:        "all",
		RemoveFlags:  true,
		RemoveStamps: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.ProjectsCleared != 1 || resp.TasksCleared != 1 {
		t.Errorf("expected 1 project and 1 task cleared, got %d and %d", resp.ProjectsCleared, resp.TasksCleared)
	}
	if resp.Summary != "1 project cleared.\n1 task cleared." {
		t.Errorf("unexpected summary %q", resp.Summary)
	}

	root := mustItem(f.store, "PRJ-002")
	if len(root.Tags) != 0 || root.Flagged || root.Note != "keep me" {
		t.Errorf("expected root cleared, got tags %v flagged %v note %q", root.Tags, root.Flagged, root.Note)
	}
	inbox := mustItem(f.store, "TSK-010")
	if inbox.Note != "@waitingSince(2024-06-01)" {
		t.Errorf("expected waiting stamp kept, got %q", inbox.Note)
	}
}

func TestClear_KeepsFlagsAndStampsByDefault(t *testing.T) {
	f := newTestClearService(markedCatalog(), true)

	if _, err := f.service.Clear(context.Background(), primary.ClearRequest{Scope: "all", AssumeYes: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	root := mustItem(f.store, "PRJ-002")
	if len(root.Tags) != 0 {
		t.Error("expected review tag removed")
	}
	if !root.Flagged || root.Note != "keep me\n@lintAt(2024-06-14)\n@lint(P_EMPTY)" {
		t.Errorf("expected flag and note untouched, got flagged %v note %q", root.Flagged, root.Note)
	}
}

func TestClear_Selection(t *testing.T) {
	f := newTestClearService(markedCatalog(), true)

	resp, err := f.service.Clear(context.Background(), primary.ClearRequest{
		Scope:   "selection",
		ItemIDs: []string{"TSK-010", "TSK-010", "PRJ-001"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.TasksCleared != 1 || resp.ProjectsCleared != 0 {
		t.Errorf("expected only the inbox task cleared, got %+v", resp)
	}
	if len(mustItem(f.store, "PRJ-002").Tags) != 1 {
		t.Error("expected unselected project to keep its tag")
	}
}

func TestClear_SelectionProjectAndRootItem(t *testing.T) {
	review := models.Tag{ID: "TAG-002", Name: config.Default().ReviewTagName}

	tests := []struct {
		name    string
		rootID  string
		itemIDs []string
	}{
		{"root shares the project ID", "PRJ-003", []string{"PRJ-003", "PRJ-003"}},
		{"project then root item", "ITM-300", []string{"PRJ-003", "ITM-300"}},
		{"root item then project", "ITM-300", []string{"ITM-300", "PRJ-003"}},
		{"root item alone", "ITM-300", []string{"ITM-300"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newTestCatalog()
			cat.Tags = append(cat.Tags, review)
			p := newTestProject("PRJ-003", "Stalled")
			p.Root.ID = tt.rootID
			p.Root.Tags = []models.Tag{review}
			cat.Projects = append(cat.Projects, p)
			f := newTestClearService(cat, true)

			resp, err := f.service.Clear(context.Background(), primary.ClearRequest{
				Scope:     "selection",
				ItemIDs:   tt.itemIDs,
				AssumeYes: true,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.ProjectsCleared != 1 || resp.TasksCleared != 0 {
				t.Errorf("expected 1 project and 0 tasks cleared, got %d and %d", resp.ProjectsCleared, resp.TasksCleared)
			}
			if resp.Changes != 1 {
				t.Errorf("expected a single tag removal, got %d changes", resp.Changes)
			}
			if len(p.Root.Tags) != 0 {
				t.Errorf("expected root untagged, got %v", p.Root.Tags)
			}
		})
	}
}

func TestClear_SelectionUnknownItem(t *testing.T) {
	f := newTestClearService(markedCatalog(), true)

	_, err := f.service.Clear(context.Background(), primary.ClearRequest{Scope: "selection", ItemIDs: []string{"TSK-404"}})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if run := f.runs.only(); run == nil || run.Status != runStatusFailed {
		t.Errorf("expected a failed run, got %+v", run)
	}
}

func TestClear_Declined(t *testing.T) {
	f := newTestClearService(markedCatalog(), false)

	_, err := f.service.Clear(context.Background(), primary.ClearRequest{Scope: "all"})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if f.store.mutations != 0 {
		t.Errorf("expected no mutations, got %d", f.store.mutations)
	}
}

func TestClear_NothingTagged(t *testing.T) {
	cat := newTestCatalog()
	cat.Tags = append(cat.Tags, models.Tag{ID: "TAG-002", Name: config.Default().ReviewTagName})
	f := newTestClearService(cat, true)

	resp, err := f.service.Clear(context.Background(), primary.ClearRequest{Scope: "all"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Summary != "No items with the lint tag were found in the target scope." {
		t.Errorf("unexpected summary %q", resp.Summary)
	}
}
