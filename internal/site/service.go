package site

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the site builder feature is disabled.
	ErrServiceDisabled = errors.New("site: service disabled")
	errArchiveRequired = errors.New("site: archive service is required")
	errOutputRequired  = errors.New("site: output directory is required")
)

// Service describes the static site builder contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the site builder.
type Config struct {
	OutputDir       string
	BaseURL         string
	Title           string
	Description     string
	CleanBuild      bool
	GenerateFeeds   bool
	GenerateSitemap bool
	GenerateRobots  bool
}

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt   int
	FeedsBuilt   int
	SitemapBuilt bool
	RobotsBuilt  bool
	Pages        []RenderedPage
	Duration     time.Duration
	DryRun       bool
}

// RenderedPage records a single artifact produced during a build.
type RenderedPage struct {
	Slug    string
	Route   string
	Path    string
	LastMod time.Time
}

// Dependencies lists the services required by the site builder.
type Dependencies struct {
	Archive posts.Service
	Logger  interfaces.Logger
	Writer  ArtifactWriter
}

// NewService wires a site builder with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.Archive == nil {
		return nil, errArchiveRequired
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, errOutputRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	writer := deps.Writer
	if writer == nil {
		writer = NewFilesystemWriter(cfg.OutputDir)
	}

	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		writer: writer,
		now:    time.Now,
	}, nil
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	writer ArtifactWriter
	now    func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

// Build renders the published archive into static artifacts. Draft entries
// never reach any artifact: pages, index, feeds, or sitemap.
func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := s.now()

	records, err := s.deps.Archive.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("site: list published: %w", err)
	}

	writer := s.writer
	if opts.DryRun {
		writer = noopWriter{}
	}

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := writer.Clean(ctx); err != nil {
			return nil, fmt.Errorf("site: clean output: %w", err)
		}
	}

	result := &BuildResult{DryRun: opts.DryRun}
	generatedAt := started.UTC()

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.renderPostPage(ctx, writer, record, generatedAt)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, page)
		result.PagesBuilt++
	}

	indexPage, err := s.renderIndexPage(ctx, writer, records, generatedAt)
	if err != nil {
		return nil, err
	}
	result.Pages = append(result.Pages, indexPage)
	result.PagesBuilt++

	if s.cfg.GenerateFeeds {
		feeds, err := s.writeFeeds(ctx, writer, records, generatedAt)
		if err != nil {
			return nil, err
		}
		result.FeedsBuilt = feeds
	}

	if s.cfg.GenerateSitemap {
		sitemap := buildSitemap(s.cfg.BaseURL, result.Pages, generatedAt)
		if err := writer.WriteFile(ctx, WriteFileRequest{
			Path:        "sitemap.xml",
			Content:     []byte(sitemap),
			ContentType: "application/xml",
		}); err != nil {
			return nil, fmt.Errorf("site: write sitemap: %w", err)
		}
		result.SitemapBuilt = true
	}

	if s.cfg.GenerateRobots {
		robots := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
		if err := writer.WriteFile(ctx, WriteFileRequest{
			Path:        "robots.txt",
			Content:     []byte(robots),
			ContentType: "text/plain",
		}); err != nil {
			return nil, fmt.Errorf("site: write robots: %w", err)
		}
		result.RobotsBuilt = true
	}

	result.Duration = s.now().Sub(started)
	s.logger.Info("site.build.completed",
		"pages", result.PagesBuilt,
		"feeds", result.FeedsBuilt,
		"dry_run", result.DryRun,
		"duration", result.Duration.String(),
	)
	return result, nil
}

// Clean removes every previously generated artifact from the output directory.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.writer.Clean(ctx)
}

func (s *service) renderPostPage(ctx context.Context, writer ArtifactWriter, record *posts.Post, generatedAt time.Time) (RenderedPage, error) {
	html, err := renderPost(s.cfg, record)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("site: render %s: %w", record.Slug, err)
	}

	outPath := record.Slug + "/index.html"
	if err := writer.WriteFile(ctx, WriteFileRequest{
		Path:        outPath,
		Content:     html,
		ContentType: "text/html",
	}); err != nil {
		return RenderedPage{}, fmt.Errorf("site: write %s: %w", outPath, err)
	}

	logging.WithDocumentContext(s.logger, record.SourcePath, record.Slug, "build").
		Debug("site.page.rendered", "path", outPath)

	return RenderedPage{
		Slug:    record.Slug,
		Route:   "/" + record.Slug + "/",
		Path:    outPath,
		LastMod: pageLastModified(record, generatedAt),
	}, nil
}

func (s *service) renderIndexPage(ctx context.Context, writer ArtifactWriter, records []*posts.Post, generatedAt time.Time) (RenderedPage, error) {
	html, err := renderIndex(s.cfg, records)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("site: render index: %w", err)
	}

	if err := writer.WriteFile(ctx, WriteFileRequest{
		Path:        "index.html",
		Content:     html,
		ContentType: "text/html",
	}); err != nil {
		return RenderedPage{}, fmt.Errorf("site: write index: %w", err)
	}

	return RenderedPage{
		Route:   "/",
		Path:    "index.html",
		LastMod: generatedAt,
	}, nil
}

func pageLastModified(record *posts.Post, fallback time.Time) time.Time {
	if !record.UpdatedAt.IsZero() {
		return record.UpdatedAt
	}
	if record.Date != nil && !record.Date.IsZero() {
		return *record.Date
	}
	return fallback
}
