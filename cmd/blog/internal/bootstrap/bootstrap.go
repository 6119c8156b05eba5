package bootstrap

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Environment captures overrides sourced from BLOG_* variables. Flags win
// over the environment, which in turn wins over built-in defaults.
type Environment struct {
	ContentDir  string `envconfig:"CONTENT_DIR"`
	Pattern     string `envconfig:"PATTERN"`
	OutputDir   string `envconfig:"OUTPUT_DIR"`
	BaseURL     string `envconfig:"BASE_URL"`
	SiteTitle   string `envconfig:"SITE_TITLE"`
	SearchIndex string `envconfig:"SEARCH_INDEX"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
}

// Options captures configuration for blog CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	OutputDir      string
	BaseURL        string
	SiteTitle      string
	SearchIndex    string
	EnableSite     bool
	EnableSearch   bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the blog module plus the services CLI entry points need.
type Module struct {
	Module   *blog.Module
	Markdown interfaces.MarkdownService
	Site     blog.SiteService
	Search   blog.SearchService
	Logger   interfaces.Logger
}

// BuildModule constructs a blog module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	var env Environment
	if err := envconfig.Process("BLOG", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := blog.DefaultConfig()
	cfg.Features.Markdown = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = firstValue(opts.ContentDir, env.ContentDir, "content")
	cfg.Markdown.Pattern = firstValue(opts.Pattern, env.Pattern, "*.md")
	cfg.Markdown.Recursive = opts.Recursive

	if opts.EnableSite {
		cfg.Features.Site = true
		cfg.Site.Enabled = true
		cfg.Site.OutputDir = firstValue(opts.OutputDir, env.OutputDir, "dist")
		cfg.Site.BaseURL = firstValue(opts.BaseURL, env.BaseURL, "")
		cfg.Site.Title = firstValue(opts.SiteTitle, env.SiteTitle, "")
	}

	if opts.EnableSearch {
		cfg.Features.Search = true
		cfg.Search.Enabled = true
		cfg.Search.IndexPath = firstValue(opts.SearchIndex, env.SearchIndex, "search.bluge")
	}

	cfg.Features.Logger = true
	cfg.Logging.Level = firstValue(env.LogLevel, "", "info")
	cfg.Logging.Format = firstValue(env.LogFormat, "", "console")

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := blog.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		return nil, fmt.Errorf("markdown service not configured; ensure markdown feature is enabled")
	}

	logger := logging.ModuleLogger(module.Logger(), "blog.cli")

	return &Module{
		Module:   module,
		Markdown: service,
		Site:     module.Site(),
		Search:   module.Search(),
		Logger:   logger,
	}, nil
}

func firstValue(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
