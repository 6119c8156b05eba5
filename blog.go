package blog

import (
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PostService exports the archive service contract for consumers of the blog package.
type PostService = posts.Service

// PostRepository exports the archive repository contract.
type PostRepository = posts.Repository

// Post exports the archive entry record.
type Post = posts.Post

// MarkdownService exports the document workflow contract.
type MarkdownService = interfaces.MarkdownService

// Document exports the parsed content file record.
type Document = interfaces.Document

// FrontMatter exports the document metadata block.
type FrontMatter = interfaces.FrontMatter

// SiteService exports the static site builder contract.
type SiteService = site.Service

// BuildOptions exports the site build options.
type BuildOptions = site.BuildOptions

// BuildResult exports the site build report.
type BuildResult = site.BuildResult

// SearchService exports the full-text search contract.
type SearchService = search.Service

// SearchResult exports a single search hit.
type SearchResult = search.Result

// Option re-exports container options so callers can override bindings.
type Option = di.Option

// WithBunDB switches the archive to a bun-backed repository.
var WithBunDB = di.WithBunDB

// WithLoggerProvider overrides the configured logger provider.
var WithLoggerProvider = di.WithLoggerProvider

// WithPostRepository overrides the archive repository binding.
var WithPostRepository = di.WithPostRepository

// WithPostService overrides the archive service binding.
var WithPostService = di.WithPostService

// WithMarkdownService overrides the document service binding.
var WithMarkdownService = di.WithMarkdownService

// WithSiteService overrides the site builder binding.
var WithSiteService = di.WithSiteService

// WithSearchService overrides the search service binding.
var WithSearchService = di.WithSearchService

// Module represents the top level blog runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the configured archive service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Markdown returns the document service when the markdown feature is enabled.
func (m *Module) Markdown() MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownService()
}

// Site returns the configured site builder.
func (m *Module) Site() SiteService {
	return m.container.SiteService()
}

// Search returns the configured search service.
func (m *Module) Search() SearchService {
	return m.container.SearchService()
}

// Logger returns the configured logger provider, nil when logging is disabled.
func (m *Module) Logger() interfaces.LoggerProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LoggerProvider()
}

// Close releases long-lived resources such as the search index writer.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
