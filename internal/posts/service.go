package posts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Service exposes archive management use-cases.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slugValue string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	ListPublished(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, req DeletePostRequest) error
}

// Repository abstracts storage operations for archive entries.
type Repository interface {
	Create(ctx context.Context, record *Post) (*Post, error)
	Update(ctx context.Context, record *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slugValue string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PublishedLister is implemented by repositories that can push the draft
// exclusion into the storage query instead of filtering in memory.
type PublishedLister interface {
	ListPublished(ctx context.Context) ([]*Post, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces identifiers for new archive entries.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier generator, typically for tests.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithMetadataSchema applies a JSON schema to the free-form metadata map of
// every created or updated entry.
func WithMetadataSchema(schema map[string]any) ServiceOption {
	return func(s *service) {
		s.metadataSchema = schema
	}
}

// WithLogger injects the logger used for archive mutations.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo           Repository
	now            func() time.Time
	id             IDGenerator
	metadataSchema map[string]any
	logger         interfaces.Logger
}

// NewService constructs an archive service backed by the supplied repository.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates and persists a new archive entry. The title invariant is
// enforced here: entries without a title never reach the repository.
func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slugValue, err := s.resolveSlug(req.Slug, title)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetBySlug(ctx, slugValue); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil && !IsNotFound(err) {
		return nil, fmt.Errorf("posts: slug lookup %s: %w", slugValue, err)
	}

	if err := s.validateMetadata(req.Metadata); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Post{
		ID:         s.id(),
		Slug:       slugValue,
		Title:      title,
		Summary:    req.Summary,
		Author:     req.Author,
		Tags:       append([]string(nil), req.Tags...),
		Date:       req.Date,
		Draft:      req.Draft,
		Body:       req.Body,
		BodyHTML:   req.BodyHTML,
		Checksum:   req.Checksum,
		SourcePath: req.SourcePath,
		Metadata:   req.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("posts: create %s: %w", slugValue, err)
	}

	logging.WithDocumentContext(s.logger, created.SourcePath, created.Slug, "create").
		Debug("posts.archive.created", "draft", created.Draft)
	return created, nil
}

// Update applies the non-nil fields of the request to an existing entry.
func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if req.Summary != nil {
		record.Summary = req.Summary
	}
	if req.Author != nil {
		record.Author = req.Author
	}
	if req.Tags != nil {
		record.Tags = append([]string(nil), req.Tags...)
	}
	if req.Date != nil {
		record.Date = req.Date
	}
	if req.Draft != nil {
		record.Draft = *req.Draft
	}
	if req.Body != nil {
		record.Body = *req.Body
	}
	if req.BodyHTML != nil {
		record.BodyHTML = *req.BodyHTML
	}
	if req.Checksum != nil {
		record.Checksum = *req.Checksum
	}
	if req.SourcePath != nil {
		record.SourcePath = *req.SourcePath
	}
	if req.Metadata != nil {
		if err := s.validateMetadata(req.Metadata); err != nil {
			return nil, err
		}
		record.Metadata = req.Metadata
	}

	record.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("posts: update %s: %w", record.Slug, err)
	}

	logging.WithDocumentContext(s.logger, updated.SourcePath, updated.Slug, "update").
		Debug("posts.archive.updated", "draft", updated.Draft)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*Post, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, ErrSlugRequired
	}
	return s.repo.GetBySlug(ctx, slugValue)
}

// List returns every archive entry, drafts included, ordered newest first.
func (s *service) List(ctx context.Context) ([]*Post, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	return records, nil
}

// ListPublished returns the public view of the archive. Entries flagged as
// drafts never appear here regardless of any other field.
func (s *service) ListPublished(ctx context.Context) ([]*Post, error) {
	records, err := s.listPublished(ctx)
	if err != nil {
		return nil, err
	}

	published := make([]*Post, 0, len(records))
	for _, record := range records {
		if record.Published() {
			published = append(published, record)
		}
	}
	sortNewestFirst(published)
	return published, nil
}

func (s *service) listPublished(ctx context.Context) ([]*Post, error) {
	if lister, ok := s.repo.(PublishedLister); ok {
		return lister.ListPublished(ctx)
	}
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, req DeletePostRequest) error {
	if req.ID == uuid.Nil {
		return ErrPostIDRequired
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return fmt.Errorf("posts: delete %s: %w", req.ID, err)
	}
	return nil
}

func (s *service) resolveSlug(raw, title string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		// No explicit slug: derive one from the title.
		normalized, err := slug.Normalize(title)
		if err != nil || normalized == "" {
			return "", ErrSlugRequired
		}
		return normalized, nil
	}
	if !slug.IsValid(value) {
		return "", ErrSlugInvalid
	}
	return value, nil
}

func (s *service) validateMetadata(metadata map[string]any) error {
	if len(s.metadataSchema) == 0 || metadata == nil {
		return nil
	}
	if err := validation.ValidatePayload(s.metadataSchema, metadata); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}
	return nil
}

func sortNewestFirst(records []*Post) {
	sort.SliceStable(records, func(i, j int) bool {
		left := recordTime(records[i])
		right := recordTime(records[j])
		if left.Equal(right) {
			return records[i].Slug < records[j].Slug
		}
		return left.After(right)
	})
}

func recordTime(record *Post) time.Time {
	if record.Date != nil && !record.Date.IsZero() {
		return *record.Date
	}
	return record.CreatedAt
}
