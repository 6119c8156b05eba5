package di

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires module dependencies from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	bunDB          *bun.DB
	ownsDB         bool
	loggerProvider interfaces.LoggerProvider

	postRepo posts.Repository

	postSvc     posts.Service
	markdownSvc interfaces.MarkdownService
	siteSvc     site.Service
	searchSvc   search.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches the archive repository to the bun-backed implementation.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithPostRepository overrides the default archive repository binding.
func WithPostRepository(repo posts.Repository) Option {
	return func(c *Container) {
		c.postRepo = repo
	}
}

// WithPostService overrides the default archive service binding.
func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

// WithMarkdownService overrides the default document service binding.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithSiteService overrides the default site builder binding.
func WithSiteService(svc site.Service) Option {
	return func(c *Container) {
		c.siteSvc = svc
	}
}

// WithSearchService overrides the default search service binding.
func WithSearchService(svc search.Service) Option {
	return func(c *Container) {
		c.searchSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	c.configureArchive()
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	if err := c.configureSite(); err != nil {
		return nil, err
	}
	if err := c.configureSearch(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("blog: configure logging: %w", err)
	}

	c.loggerProvider = provider
	return nil
}

func (c *Container) configureRepositories() error {
	if c.postRepo != nil {
		return nil
	}
	if c.bunDB == nil {
		if err := c.openConfiguredDB(); err != nil {
			return err
		}
	}
	if c.bunDB != nil {
		c.postRepo = posts.NewBunRepository(c.bunDB)
		return nil
	}
	c.postRepo = posts.NewMemoryRepository()
	return nil
}

// openConfiguredDB opens the database named by Storage.DSN. Connections opened
// here are owned by the container and closed alongside it.
func (c *Container) openConfiguredDB() error {
	dsn := strings.TrimSpace(c.Config.Storage.DSN)
	if dsn == "" {
		return nil
	}

	provider := runtimeconfig.NormalizeStorageProvider(c.Config.Storage.Provider)

	var (
		sqlDB *sql.DB
		err   error
	)
	switch provider {
	case runtimeconfig.StorageProviderSQLite:
		if sqlDB, err = sql.Open("sqlite3", dsn); err == nil {
			c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
		}
	case runtimeconfig.StorageProviderPostgres:
		if sqlDB, err = sql.Open("postgres", dsn); err == nil {
			c.bunDB = bun.NewDB(sqlDB, pgdialect.New())
		}
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, c.Config.Storage.Provider)
	}
	if err != nil {
		return fmt.Errorf("blog: open %s storage: %w", provider, err)
	}

	c.ownsDB = true
	return nil
}

func (c *Container) configureArchive() {
	if c.postSvc != nil {
		return
	}

	serviceOpts := []posts.ServiceOption{
		posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
	}
	if len(c.Config.Posts.MetadataSchema) > 0 {
		serviceOpts = append(serviceOpts, posts.WithMetadataSchema(c.Config.Posts.MetadataSchema))
	}

	c.postSvc = posts.NewService(c.postRepo, serviceOpts...)
}

func (c *Container) configureMarkdown() error {
	if c.markdownSvc != nil {
		return nil
	}
	if !c.Config.Features.Markdown || !c.Config.Markdown.Enabled {
		return nil
	}

	importer := markdown.NewImporter(markdown.ImporterConfig{
		Archive: c.postSvc,
		Logger:  logging.MarkdownLogger(c.loggerProvider),
	})

	svc, err := markdown.NewService(markdown.Config{
		BasePath:  strings.TrimSpace(c.Config.Markdown.ContentDir),
		Pattern:   c.Config.Markdown.Pattern,
		Recursive: c.Config.Markdown.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: c.Config.Markdown.Parser.Extensions,
			Sanitize:   c.Config.Markdown.Parser.Sanitize,
			HardWraps:  c.Config.Markdown.Parser.HardWraps,
			SafeMode:   c.Config.Markdown.Parser.SafeMode,
		},
	}, nil, importer)
	if err != nil {
		return fmt.Errorf("blog: configure markdown: %w", err)
	}

	c.markdownSvc = svc
	return nil
}

func (c *Container) configureSite() error {
	if c.siteSvc != nil {
		return nil
	}
	if !c.Config.Features.Site || !c.Config.Site.Enabled {
		c.siteSvc = site.NewDisabledService()
		return nil
	}

	svc, err := site.NewService(site.Config{
		OutputDir:       c.Config.Site.OutputDir,
		BaseURL:         c.Config.Site.BaseURL,
		Title:           c.Config.Site.Title,
		Description:     c.Config.Site.Description,
		CleanBuild:      c.Config.Site.CleanBuild,
		GenerateFeeds:   c.Config.Site.GenerateFeeds,
		GenerateSitemap: c.Config.Site.GenerateSitemap,
		GenerateRobots:  c.Config.Site.GenerateRobots,
	}, site.Dependencies{
		Archive: c.postSvc,
		Logger:  logging.SiteLogger(c.loggerProvider),
	})
	if err != nil {
		return fmt.Errorf("blog: configure site: %w", err)
	}

	c.siteSvc = svc
	return nil
}

func (c *Container) configureSearch() error {
	if c.searchSvc != nil {
		return nil
	}
	if !c.Config.Features.Search || !c.Config.Search.Enabled {
		c.searchSvc = search.NewDisabledService()
		return nil
	}

	svc, err := search.NewService(search.Config{
		IndexPath: c.Config.Search.IndexPath,
	}, search.Dependencies{
		Archive: c.postSvc,
		Logger:  logging.SearchLogger(c.loggerProvider),
	})
	if err != nil {
		return fmt.Errorf("blog: configure search: %w", err)
	}

	c.searchSvc = svc
	return nil
}

// BunDB exposes the database handle, nil when the archive lives in memory.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// LoggerProvider exposes the configured logger provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// PostRepository exposes the configured archive repository.
func (c *Container) PostRepository() posts.Repository {
	return c.postRepo
}

// PostService returns the configured archive service.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// MarkdownService returns the configured document service, nil when the
// markdown feature is disabled.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// SiteService returns the configured site builder.
func (c *Container) SiteService() site.Service {
	return c.siteSvc
}

// SearchService returns the configured search service.
func (c *Container) SearchService() search.Service {
	return c.searchSvc
}

// Close releases resources held by long-lived services.
func (c *Container) Close() error {
	var errs error
	if c.searchSvc != nil {
		errs = errors.Join(errs, c.searchSvc.Close())
	}
	if c.ownsDB && c.bunDB != nil {
		errs = errors.Join(errs, c.bunDB.Close())
	}
	return errs
}
