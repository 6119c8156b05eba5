package posts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Post
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory archive repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   make(map[uuid.UUID]*Post),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied record.
func (m *MemoryRepository) Create(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePost(record)
	m.records[copied.ID] = copied
	m.slugIndex[strings.ToLower(copied.Slug)] = copied.ID
	return clonePost(copied), nil
}

// Update replaces the stored record, reindexing the slug when it changed.
func (m *MemoryRepository) Update(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(m.slugIndex, strings.ToLower(existing.Slug))
	}

	copied := clonePost(record)
	m.records[copied.ID] = copied
	m.slugIndex[strings.ToLower(copied.Slug)] = copied.ID
	return clonePost(copied), nil
}

// GetByID retrieves a record by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

// GetBySlug retrieves a record by slug, returning NotFoundError when absent.
func (m *MemoryRepository) GetBySlug(_ context.Context, slugValue string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[strings.ToLower(slugValue)]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: slugValue}
	}
	return clonePost(m.records[id]), nil
}

// List returns every stored record in unspecified order.
func (m *MemoryRepository) List(_ context.Context) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Post, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, clonePost(record))
	}
	return out, nil
}

// Delete removes the record and its slug index entry.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(m.slugIndex, strings.ToLower(record.Slug))
	delete(m.records, id)
	return nil
}

func clonePost(record *Post) *Post {
	if record == nil {
		return nil
	}

	copied := *record
	copied.Tags = append([]string(nil), record.Tags...)
	if record.Summary != nil {
		summary := *record.Summary
		copied.Summary = &summary
	}
	if record.Author != nil {
		author := *record.Author
		copied.Author = &author
	}
	if record.Date != nil {
		date := *record.Date
		copied.Date = &date
	}
	if record.Metadata != nil {
		metadata := make(map[string]any, len(record.Metadata))
		for key, value := range record.Metadata {
			metadata[key] = value
		}
		copied.Metadata = metadata
	}
	return &copied
}

var _ Repository = (*MemoryRepository)(nil)

// touch is used by tests to adjust timestamps deterministically.
func touch(record *Post, at time.Time) {
	record.CreatedAt = at
	record.UpdatedAt = at
}
