package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	slugpkg "github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	ErrImporterRequired = errors.New("markdown importer: archive service is required")
	ErrTitleMissing     = errors.New("markdown importer: front matter title is required")
	ErrSlugUnresolved   = errors.New("markdown importer: could not derive a slug")
)

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Archive posts.Service
	Logger  interfaces.Logger
}

// Importer synchronises parsed documents with the post archive. Documents are
// keyed by slug; unchanged files are detected via checksum and skipped.
type Importer struct {
	archive posts.Service
	logger  interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		archive: cfg.Archive,
		logger:  logger,
	}
}

// ImportDocument imports a single document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.archive == nil {
		return nil, ErrImporterRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports an arbitrary slice of documents.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.archive == nil {
		return nil, ErrImporterRequired
	}

	acc := newImportAccumulator()
	for _, doc := range docs {
		if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally deletes
// archive entries whose source files have disappeared.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.archive == nil {
		return nil, ErrImporterRequired
	}

	acc := newSyncAccumulator()
	seen := make(map[string]struct{}, len(docs))
	sources := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		if doc != nil && strings.TrimSpace(doc.FilePath) != "" {
			sources[doc.FilePath] = struct{}{}
		}
		res := newImportAccumulator()
		if err := i.applyDocument(ctx, doc, opts.ImportOptions, res); err != nil {
			res.addError(err)
		}
		for _, slug := range res.allSlugs() {
			seen[slug] = struct{}{}
		}
		acc.merge(res.result())
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, seen, sources, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}

	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		return fmt.Errorf("%w: %s", ErrTitleMissing, doc.FilePath)
	}

	slug, err := resolveSlug(doc)
	if err != nil {
		return err
	}

	checksum := hex.EncodeToString(doc.Checksum)
	logger := logging.WithDocumentContext(i.logger, doc.FilePath, slug, "")

	existing, err := i.archive.GetBySlug(ctx, slug)
	if err != nil && !posts.IsNotFound(err) {
		return fmt.Errorf("markdown importer: archive lookup %s: %w", slug, err)
	}

	if existing == nil {
		if opts.DryRun {
			acc.skip(slug)
			return nil
		}

		if _, err := i.archive.Create(ctx, buildCreateRequest(doc, slug, title, checksum)); err != nil {
			return fmt.Errorf("markdown importer: create %s: %w", slug, err)
		}
		logger.Info("markdown.import.created", "draft", doc.FrontMatter.Draft)
		acc.created(slug)
		return nil
	}

	if checksum != "" && existing.Checksum == checksum {
		acc.skip(slug)
		return nil
	}

	if opts.DryRun {
		acc.skip(slug)
		return nil
	}

	if _, err := i.archive.Update(ctx, buildUpdateRequest(existing, doc, title, checksum)); err != nil {
		return fmt.Errorf("markdown importer: update %s: %w", slug, err)
	}
	logger.Info("markdown.import.updated", "draft", doc.FrontMatter.Draft)
	acc.updated(slug)
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, seen, sources map[string]struct{}, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := i.archive.List(ctx)
	if err != nil {
		return fmt.Errorf("markdown importer: list archive: %w", err)
	}

	for _, record := range existing {
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		// Entries created directly in the archive carry no source path and
		// are never treated as orphans of the content directory.
		if strings.TrimSpace(record.SourcePath) == "" {
			continue
		}
		// The source file is still part of the batch even though its import
		// failed this run; deleting the archive entry would lose data.
		if _, ok := sources[record.SourcePath]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.archive.Delete(ctx, posts.DeletePostRequest{ID: record.ID}); err != nil {
			return fmt.Errorf("markdown importer: delete %s: %w", record.Slug, err)
		}
		logging.WithDocumentContext(i.logger, record.SourcePath, record.Slug, "delete").
			Info("markdown.sync.orphan_deleted")
		acc.deleted++
	}

	return nil
}

func resolveSlug(doc *interfaces.Document) (string, error) {
	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" {
		return explicit, nil
	}
	if title := strings.TrimSpace(doc.FrontMatter.Title); title != "" {
		if normalized, err := slugpkg.Normalize(title); err == nil && normalized != "" {
			return normalized, nil
		}
	}
	base := filepath.Base(doc.FilePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if normalized, err := slugpkg.Normalize(base); err == nil && normalized != "" {
		return normalized, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSlugUnresolved, doc.FilePath)
}

func buildCreateRequest(doc *interfaces.Document, slug, title, checksum string) posts.CreatePostRequest {
	return posts.CreatePostRequest{
		Slug:       slug,
		Title:      title,
		Summary:    optionalString(doc.FrontMatter.Summary),
		Author:     optionalString(doc.FrontMatter.Author),
		Tags:       append([]string(nil), doc.FrontMatter.Tags...),
		Date:       documentDate(doc),
		Draft:      doc.FrontMatter.Draft,
		Body:       string(doc.Body),
		BodyHTML:   string(doc.BodyHTML),
		Checksum:   checksum,
		SourcePath: doc.FilePath,
		Metadata:   doc.FrontMatter.Custom,
	}
}

func buildUpdateRequest(existing *posts.Post, doc *interfaces.Document, title, checksum string) posts.UpdatePostRequest {
	body := string(doc.Body)
	bodyHTML := string(doc.BodyHTML)
	draft := doc.FrontMatter.Draft
	sourcePath := doc.FilePath

	return posts.UpdatePostRequest{
		ID:         existing.ID,
		Title:      &title,
		Summary:    optionalString(doc.FrontMatter.Summary),
		Author:     optionalString(doc.FrontMatter.Author),
		Tags:       append([]string(nil), doc.FrontMatter.Tags...),
		Date:       documentDate(doc),
		Draft:      &draft,
		Body:       &body,
		BodyHTML:   &bodyHTML,
		Checksum:   &checksum,
		SourcePath: &sourcePath,
		Metadata:   doc.FrontMatter.Custom,
	}
}

func documentDate(doc *interfaces.Document) *time.Time {
	if doc.FrontMatter.Date.IsZero() {
		return nil
	}
	date := doc.FrontMatter.Date
	return &date
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type importAccumulator struct {
	createdSlugs []string
	updatedSlugs []string
	skippedSlugs []string
	errors       []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdSlugs: []string{},
		updatedSlugs: []string{},
		skippedSlugs: []string{},
		errors:       []error{},
	}
}

func (a *importAccumulator) created(slug string) {
	if slug != "" {
		a.createdSlugs = append(a.createdSlugs, slug)
	}
}

func (a *importAccumulator) updated(slug string) {
	if slug != "" {
		a.updatedSlugs = append(a.updatedSlugs, slug)
	}
}

func (a *importAccumulator) skip(slug string) {
	if slug != "" {
		a.skippedSlugs = append(a.skippedSlugs, slug)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) allSlugs() []string {
	out := make([]string, 0, len(a.createdSlugs)+len(a.updatedSlugs)+len(a.skippedSlugs))
	out = append(out, a.createdSlugs...)
	out = append(out, a.updatedSlugs...)
	out = append(out, a.skippedSlugs...)
	return out
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedSlugs: a.createdSlugs,
		UpdatedSlugs: a.updatedSlugs,
		SkippedSlugs: a.skippedSlugs,
		Errors:       a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	deleted int
	skipped int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{
		errors: []error{},
	}
}

func (s *syncAccumulator) merge(res *interfaces.ImportResult) {
	if res == nil {
		return
	}
	s.created += len(res.CreatedSlugs)
	s.updated += len(res.UpdatedSlugs)
	s.skipped += len(res.SkippedSlugs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Skipped: s.skipped,
		Deleted: s.deleted,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
