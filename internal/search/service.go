package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blugelabs/bluge"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the search feature is disabled.
	ErrServiceDisabled = errors.New("search: service disabled")
	errArchiveRequired = errors.New("search: archive service is required")
	errIndexRequired   = errors.New("search: index path is required")
	errServiceClosed   = errors.New("search: service closed")
)

// Service maintains a full-text index over the published archive. Draft
// entries are never indexed; indexing a draft removes any previous entry for
// the same slug.
type Service interface {
	Index(ctx context.Context, record *posts.Post) error
	Remove(ctx context.Context, slug string) error
	Rebuild(ctx context.Context) (int, error)
	Query(ctx context.Context, query string, limit int) ([]Result, error)
	Close() error
}

// Result is a single search hit.
type Result struct {
	Slug    string  `json:"slug"`
	Title   string  `json:"title"`
	Summary string  `json:"summary,omitempty"`
	Score   float64 `json:"score"`
}

// Config captures index placement for the search service.
type Config struct {
	IndexPath string
}

// Dependencies lists the services required by the search service.
type Dependencies struct {
	Archive posts.Service
	Logger  interfaces.Logger
}

// NewService opens (or creates) a bluge index at the configured path.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.Archive == nil {
		return nil, errArchiveRequired
	}
	if strings.TrimSpace(cfg.IndexPath) == "" {
		return nil, errIndexRequired
	}

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(cfg.IndexPath))
	if err != nil {
		return nil, fmt.Errorf("search: open index %s: %w", cfg.IndexPath, err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &service{
		cfg:     cfg,
		archive: deps.Archive,
		logger:  logger,
		writer:  writer,
	}, nil
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg     Config
	archive posts.Service
	logger  interfaces.Logger

	mu     sync.Mutex
	writer *bluge.Writer
	closed bool
}

type disabledService struct{}

func (disabledService) Index(context.Context, *posts.Post) error { return ErrServiceDisabled }
func (disabledService) Remove(context.Context, string) error     { return ErrServiceDisabled }
func (disabledService) Rebuild(context.Context) (int, error)     { return 0, ErrServiceDisabled }
func (disabledService) Query(context.Context, string, int) ([]Result, error) {
	return nil, ErrServiceDisabled
}
func (disabledService) Close() error { return nil }

// Index upserts a published record. Drafts are removed instead so a post
// flipped back to draft disappears from search immediately.
func (s *service) Index(ctx context.Context, record *posts.Post) error {
	if record == nil || strings.TrimSpace(record.Slug) == "" {
		return errors.New("search: record with slug required")
	}
	if !record.Published() {
		return s.Remove(ctx, record.Slug)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errServiceClosed
	}

	doc := buildIndexDocument(record)
	if err := s.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("search: index %s: %w", record.Slug, err)
	}
	logging.WithDocumentContext(s.logger, record.SourcePath, record.Slug, "index").
		Debug("search.document.indexed")
	return nil
}

// Remove deletes the entry for slug, if present.
func (s *service) Remove(_ context.Context, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return errors.New("search: slug required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errServiceClosed
	}

	if err := s.writer.Delete(bluge.Identifier(slug)); err != nil {
		return fmt.Errorf("search: remove %s: %w", slug, err)
	}
	return nil
}

// Rebuild reconciles the index against the archive: every published entry is
// upserted and every indexed slug without a published record is removed.
// It returns the number of documents indexed.
func (s *service) Rebuild(ctx context.Context) (int, error) {
	published, err := s.archive.ListPublished(ctx)
	if err != nil {
		return 0, fmt.Errorf("search: list published: %w", err)
	}

	wanted := make(map[string]struct{}, len(published))
	for _, record := range published {
		wanted[record.Slug] = struct{}{}
	}

	indexed, err := s.indexedSlugs(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errServiceClosed
	}

	for _, slug := range indexed {
		if _, ok := wanted[slug]; ok {
			continue
		}
		if err := s.writer.Delete(bluge.Identifier(slug)); err != nil {
			return 0, fmt.Errorf("search: prune %s: %w", slug, err)
		}
	}

	for _, record := range published {
		doc := buildIndexDocument(record)
		if err := s.writer.Update(doc.ID(), doc); err != nil {
			return 0, fmt.Errorf("search: reindex %s: %w", record.Slug, err)
		}
	}

	s.logger.Info("search.rebuild.completed", "documents", len(published))
	return len(published), nil
}

// Query runs a match query across title, summary, body, and tags.
func (s *service) Query(ctx context.Context, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errServiceClosed
	}
	reader, err := s.writer.Reader()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("search: open reader: %w", err)
	}
	defer reader.Close()

	boolean := bluge.NewBooleanQuery()
	boolean.AddShould(bluge.NewMatchQuery(query).SetField("title").SetBoost(3))
	boolean.AddShould(bluge.NewMatchQuery(query).SetField("summary").SetBoost(2))
	boolean.AddShould(bluge.NewMatchQuery(query).SetField("body"))
	boolean.AddShould(bluge.NewMatchQuery(query).SetField("tags").SetBoost(2))
	boolean.SetMinShould(1)

	request := bluge.NewTopNSearch(limit, boolean).WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search: execute query: %w", err)
	}

	var results []Result
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("search: iterate results: %w", err)
		}
		if match == nil {
			break
		}

		result := Result{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				result.Slug = string(value)
			case "title":
				result.Title = string(value)
			case "summary":
				result.Summary = string(value)
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("search: read stored fields: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Close releases the underlying index writer.
func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.writer.Close()
}

func (s *service) indexedSlugs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errServiceClosed
	}
	reader, err := s.writer.Reader()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("search: open reader: %w", err)
	}
	defer reader.Close()

	request := bluge.NewAllMatches(bluge.NewMatchAllQuery())
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search: enumerate index: %w", err)
	}

	var slugs []string
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("search: iterate index: %w", err)
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				slugs = append(slugs, string(value))
				return false
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("search: read stored fields: %w", err)
		}
	}
	return slugs, nil
}

func buildIndexDocument(record *posts.Post) *bluge.Document {
	doc := bluge.NewDocument(record.Slug)
	doc.AddField(bluge.NewTextField("title", record.Title).StoreValue())
	doc.AddField(bluge.NewTextField("body", record.Body))
	if record.Summary != nil {
		doc.AddField(bluge.NewTextField("summary", *record.Summary).StoreValue())
	}
	for _, tag := range record.Tags {
		doc.AddField(bluge.NewTextField("tags", tag))
	}
	return doc
}
