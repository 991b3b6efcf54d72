package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/revlint/internal/logging"
	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement the interfaces
var (
	_ secondary.ItemStore         = (*mockItemStore)(nil)
	_ secondary.PreferenceStore   = (*mockPreferenceStore)(nil)
	_ secondary.RunRepository     = (*mockRunRepository)(nil)
	_ secondary.LintLogRepository = (*mockLintLogRepository)(nil)
	_ secondary.LogWriter         = (*mockLogWriter)(nil)
	_ secondary.Prompter          = (*mockPrompter)(nil)
	_ secondary.Navigator         = (*mockNavigator)(nil)
)

// mockItemStore implements secondary.ItemStore over an in-memory catalog.
// Mutations apply to the catalog's items directly.
type mockItemStore struct {
	cat         *models.Catalog
	nextTag     int
	mutations   int
	snapshotErr error
	createErr   error
	mutateErr   error
}

func newMockItemStore(cat *models.Catalog) *mockItemStore {
	return &mockItemStore{cat: cat, nextTag: len(cat.Tags)}
}

func (m *mockItemStore) Snapshot(ctx context.Context) (*models.Catalog, error) {
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	return m.cat, nil
}

func (m *mockItemStore) allItems() []*models.Item {
	var items []*models.Item
	for _, p := range m.cat.Projects {
		items = append(items, p.Root)
		items = append(items, p.Tasks...)
	}
	return append(items, m.cat.Inbox...)
}

func (m *mockItemStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	for _, item := range m.allItems() {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, secondary.ErrNotFound)
}

func (m *mockItemStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	for _, p := range m.cat.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, secondary.ErrNotFound)
}

func (m *mockItemStore) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	for _, t := range m.cat.Tags {
		if t.Name == name {
			tag := t
			return &tag, nil
		}
	}
	return nil, nil
}

func (m *mockItemStore) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextTag++
	tag := models.Tag{ID: fmt.Sprintf("TAG-%03d", m.nextTag), Name: name}
	m.cat.Tags = append(m.cat.Tags, tag)
	return &tag, nil
}

func (m *mockItemStore) ListItemsByTag(ctx context.Context, tagID string) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range m.allItems() {
		if item.HasTagID(tagID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockItemStore) mutate(id string) (*models.Item, error) {
	if m.mutateErr != nil {
		return nil, m.mutateErr
	}
	item, err := m.GetItem(context.Background(), id)
	if err != nil {
		return nil, err
	}
	m.mutations++
	return item, nil
}

func (m *mockItemStore) AddTag(ctx context.Context, itemID, tagID string) error {
	item, err := m.mutate(itemID)
	if err != nil {
		return err
	}
	tag, ok := m.cat.FindTag(tagID)
	if !ok {
		return fmt.Errorf("tag %s: %w", tagID, secondary.ErrNotFound)
	}
	if !item.HasTagID(tagID) {
		item.Tags = append(item.Tags, tag)
	}
	return nil
}

func (m *mockItemStore) RemoveTag(ctx context.Context, itemID, tagID string) error {
	item, err := m.mutate(itemID)
	if err != nil {
		return err
	}
	var kept []models.Tag
	for _, t := range item.Tags {
		if t.ID != tagID {
			kept = append(kept, t)
		}
	}
	item.Tags = kept
	return nil
}

func (m *mockItemStore) SetNote(ctx context.Context, itemID, note string) error {
	item, err := m.mutate(itemID)
	if err != nil {
		return err
	}
	item.Note = note
	return nil
}

func (m *mockItemStore) SetFlagged(ctx context.Context, itemID string, flagged bool) error {
	item, err := m.mutate(itemID)
	if err != nil {
		return err
	}
	item.Flagged = flagged
	return nil
}

func (m *mockItemStore) SetDueDate(ctx context.Context, itemID string, due *time.Time) error {
	item, err := m.mutate(itemID)
	if err != nil {
		return err
	}
	item.DueDate = due
	item.EffectiveDueDate = due
	return nil
}

func (m *mockItemStore) SetDeferDate(ctx context.Context, itemID string, deferDate *time.Time) error {
	item, err := m.mutate(itemID)
	if err != nil {
		return err
	}
	item.DeferDate = deferDate
	return nil
}

// mockPreferenceStore implements secondary.PreferenceStore for testing.
type mockPreferenceStore struct {
	values  map[string]string
	readErr error
}

func newMockPreferenceStore() *mockPreferenceStore {
	return &mockPreferenceStore{values: make(map[string]string)}
}

func (m *mockPreferenceStore) Read(ctx context.Context, key string) (string, bool, error) {
	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockPreferenceStore) Write(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *mockPreferenceStore) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *mockPreferenceStore) List(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// mockRunRepository implements secondary.RunRepository for testing.
type mockRunRepository struct {
	runs      map[string]*secondary.RunRecord
	order     []string
	createErr error
}

func newMockRunRepository() *mockRunRepository {
	return &mockRunRepository{runs: make(map[string]*secondary.RunRecord)}
}

func (m *mockRunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *run
	m.runs[run.ID] = &copied
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockRunRepository) Finish(ctx context.Context, id, status, summary string, changes int) error {
	run, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, secondary.ErrNotFound)
	}
	run.Status = status
	run.Summary = summary
	run.Changes = changes
	run.FinishedAt = "2024-06-15 12:00:00"
	return nil
}

func (m *mockRunRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, secondary.ErrNotFound)
	}
	return run, nil
}

func (m *mockRunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	var out []*secondary.RunRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.runs[m.order[i]])
	}
	return out, nil
}

// only returns the single recorded run, or nil.
func (m *mockRunRepository) only() *secondary.RunRecord {
	if len(m.order) != 1 {
		return nil
	}
	return m.runs[m.order[0]]
}

// mockLintLogRepository implements secondary.LintLogRepository for testing.
type mockLintLogRepository struct {
	logs     []*secondary.LintLogRecord
	pruned   int
	pruneErr error
}

func newMockLintLogRepository() *mockLintLogRepository {
	return &mockLintLogRepository{}
}

func (m *mockLintLogRepository) Create(ctx context.Context, log *secondary.LintLogRecord) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockLintLogRepository) List(ctx context.Context, filters secondary.LintLogFilters) ([]*secondary.LintLogRecord, error) {
	var out []*secondary.LintLogRecord
	for _, l := range m.logs {
		if filters.RunID != "" && l.RunID != filters.RunID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockLintLogRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("LL-%04d", len(m.logs)+1), nil
}

func (m *mockLintLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	if m.pruneErr != nil {
		return 0, m.pruneErr
	}
	return m.pruned, nil
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	entries []string
}

func newMockLogWriter() *mockLogWriter {
	return &mockLogWriter{}
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, fmt.Sprintf("create %s %s", entityType, entityID))
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	m.entries = append(m.entries, fmt.Sprintf("update %s %s %s %q -> %q", entityType, entityID, fieldName, oldValue, newValue))
	return nil
}

// mockPrompter implements secondary.Prompter for testing.
type mockPrompter struct {
	answer   bool
	err      error
	messages []string
}

func newMockPrompter(answer bool) *mockPrompter {
	return &mockPrompter{answer: answer}
}

func (m *mockPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	m.messages = append(m.messages, message)
	if m.err != nil {
		return false, m.err
	}
	return m.answer, nil
}

// mockNavigator implements secondary.Navigator for testing.
type mockNavigator struct {
	opened []string
	err    error
}

func (m *mockNavigator) Open(ctx context.Context, url string) error {
	if m.err != nil {
		return m.err
	}
	m.opened = append(m.opened, url)
	return nil
}

// ============================================================================
// Fixtures
// ============================================================================

var errStore = errors.New("store unavailable")

// testNow is a fixed clock, mid-afternoon so day arithmetic is unambiguous.
var testNow = time.Date(2024, 6, 15, 15, 0, 0, 0, time.Local)

func fixedNow() time.Time { return testNow }

func daysBefore(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func newTestProject(id, name string, tasks ...*models.Item) *models.Project {
	root := &models.Item{ID: id, Name: name, ProjectID: id, Status: models.StatusAvailable}
	for _, t := range tasks {
		t.ProjectID = id
		if t.ParentID == "" {
			t.ParentID = id
		}
	}
	return &models.Project{ID: id, Status: models.ProjectActive, Root: root, Tasks: tasks}
}

func newTestTask(id, name string) *models.Item {
	return &models.Item{ID: id, Name: name, Status: models.StatusAvailable}
}

// newTestCatalog builds a store with one clean project, one empty project
// and one stale inbox item.
//
//	PRJ-001 Clean    TSK-001 (available)
//	PRJ-002 Empty
//	Inbox            TSK-010 (added 10 days ago)
func newTestCatalog() *models.Catalog {
	return &models.Catalog{
		Projects: []*models.Project{
			newTestProject("PRJ-001", "Clean", newTestTask("TSK-001", "Write report")),
			newTestProject("PRJ-002", "Empty"),
		},
		Tags: []models.Tag{{ID: "TAG-001", Name: "Waiting"}},
		Inbox: []*models.Item{
			{ID: "TSK-010", Name: "Old capture", InInbox: true, Status: models.StatusAvailable, AddedDate: daysBefore(10)},
		},
	}
}

func mustItem(store *mockItemStore, id string) *models.Item {
	item, err := store.GetItem(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return item
}

var testLogger = logging.Discard()
