// Package queries manages the user's saved SQL queries: titled snippets
// with an optional shortcut, persisted as saved_queries.json next to the
// variables file.
package queries

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"pgwarp/internal/config"
	"pgwarp/internal/logging"
)

const queriesFileName = "saved_queries.json"

const schemaVersion = 1

// SavedQuery is one stored query. Shortcut is an optional short trigger the
// editor expands to the full query text.
type SavedQuery struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Query     string    `json:"query"`
	Shortcut  string    `json:"shortcut,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type document struct {
	Queries       []SavedQuery `json:"queries"`
	SchemaVersion int          `json:"schema_version"`
}

// Manager loads, mutates and saves the query list. Mutations persist
// immediately with the same temp-file-and-rename treatment as the variables
// file.
type Manager struct {
	mu      sync.Mutex
	path    string
	queries []SavedQuery
	now     func() time.Time
}

// NewManager opens the saved-queries file at path (empty for the platform
// default). A missing file yields an empty manager; an unreadable one is an
// error, since silently starting empty would overwrite the user's queries
// on the next save.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, queriesFileName)
	}
	m := &Manager{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("read saved queries: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse saved queries: %w", err)
	}
	m.queries = doc.Queries
	return m, nil
}

// List returns copies of all saved queries, newest last.
func (m *Manager) List() []SavedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SavedQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

// Get returns the query with the given ID.
func (m *Manager) Get(id string) (SavedQuery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.queries {
		if q.ID == id {
			return q, true
		}
	}
	return SavedQuery{}, false
}

// FindByShortcut returns the first query with the given shortcut.
func (m *Manager) FindByShortcut(shortcut string) (SavedQuery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shortcut == "" {
		return SavedQuery{}, false
	}
	for _, q := range m.queries {
		if q.Shortcut == shortcut {
			return q, true
		}
	}
	return SavedQuery{}, false
}

// Add stores a new query and returns it with a fresh ID.
func (m *Manager) Add(title, query, shortcut string) (SavedQuery, error) {
	if title == "" {
		return SavedQuery{}, fmt.Errorf("query title required")
	}
	now := m.now()
	q := SavedQuery{
		ID:        uuid.NewString(),
		Title:     title,
		Query:     query,
		Shortcut:  shortcut,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()

	if err := m.save(); err != nil {
		return q, err
	}
	logging.Get(logging.CategoryQueries).Info("saved query %q (%s)", title, q.ID)
	return q, nil
}

// Update rewrites an existing query's fields.
func (m *Manager) Update(id, title, query, shortcut string) error {
	m.mu.Lock()
	found := false
	for i := range m.queries {
		if m.queries[i].ID == id {
			m.queries[i].Title = title
			m.queries[i].Query = query
			m.queries[i].Shortcut = shortcut
			m.queries[i].UpdatedAt = m.now()
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return fmt.Errorf("saved query %s not found", id)
	}
	return m.save()
}

// Delete removes a query by ID and reports whether it existed.
func (m *Manager) Delete(id string) (bool, error) {
	m.mu.Lock()
	found := false
	for i, q := range m.queries {
		if q.ID == id {
			m.queries = append(m.queries[:i], m.queries[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return false, nil
	}
	return true, m.save()
}

func (m *Manager) save() error {
	m.mu.Lock()
	doc := document{Queries: m.queries, SchemaVersion: schemaVersion}
	data, err := json.MarshalIndent(doc, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode saved queries: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace saved queries file: %w", err)
	}
	return nil
}
