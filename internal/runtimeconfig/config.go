package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrContentDirRequired indicates the content directory is missing while ingestion is enabled.
	ErrContentDirRequired = errors.New("blog config: content directory is required when markdown is enabled")
	// ErrMarkdownFeatureRequired indicates inconsistent markdown configuration.
	ErrMarkdownFeatureRequired = errors.New("blog config: markdown feature must be enabled to configure markdown")
	// ErrSiteOutputDirRequired indicates the site builder is enabled without an output directory.
	ErrSiteOutputDirRequired = errors.New("blog config: site output directory is required when site is enabled")
	// ErrSearchIndexPathRequired indicates search is enabled without an index path.
	ErrSearchIndexPathRequired = errors.New("blog config: search index path is required when search is enabled")
	// ErrCommandsCronRequiresSync guards cron auto-registration behind sync configuration.
	ErrCommandsCronRequiresSync = errors.New("blog config: command cron auto-registration requires a sync schedule")
	// ErrStorageProviderUnknown indicates an unsupported storage provider value.
	ErrStorageProviderUnknown = errors.New("blog config: storage provider is invalid")
	// ErrLoggingProviderRequired indicates the logging feature is enabled without a provider.
	ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
	// ErrLoggingProviderUnknown indicates an unsupported logging provider value.
	ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
	// ErrLoggingLevelInvalid indicates an unsupported logging level value.
	ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
	// ErrLoggingFormatInvalid indicates an unsupported logging format value.
	ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")
)

// Config aggregates feature flags and adapter bindings for the blog module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Markdown MarkdownConfig
	Site     SiteConfig
	Search   SearchConfig
	Posts    PostsConfig
	Storage  StorageConfig
	Commands CommandsConfig
	Logging  LoggingConfig
	Features Features
}

// MarkdownConfig captures filesystem and parser behaviour for content ingestion.
type MarkdownConfig struct {
	Enabled    bool
	ContentDir string
	Pattern    string
	Recursive  bool
	Parser     MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// SiteConfig captures behaviour for the static site builder.
type SiteConfig struct {
	Enabled         bool
	OutputDir       string
	BaseURL         string
	Title           string
	Description     string
	CleanBuild      bool
	GenerateFeeds   bool
	GenerateSitemap bool
	GenerateRobots  bool
}

// SearchConfig captures index placement for full-text search.
type SearchConfig struct {
	Enabled   bool
	IndexPath string
}

// PostsConfig captures archive behaviour.
type PostsConfig struct {
	// MetadataSchema optionally constrains custom front matter fields with a JSON schema.
	MetadataSchema map[string]any
}

// Storage providers the module can open on its own when a DSN is supplied.
const (
	StorageProviderSQLite   = "sqlite"
	StorageProviderPostgres = "postgres"
)

// StorageConfig selects the database the archive persists to. When DSN is
// empty the archive stays in memory; hosts can still inject their own
// connection through the container options.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	SyncSchedule     time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Markdown bool
	Site     bool
	Search   bool
	Logger   bool
}

// DefaultConfig returns opinionated defaults for a filesystem-backed blog.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Site: SiteConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			GenerateFeeds:   true,
			GenerateSitemap: true,
			GenerateRobots:  false,
		},
		Search: SearchConfig{
			IndexPath: "search.bluge",
		},
		Storage: StorageConfig{
			Provider: StorageProviderSQLite,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Markdown.Enabled {
		if !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrContentDirRequired
		}
	}
	if cfg.Site.Enabled {
		if strings.TrimSpace(cfg.Site.OutputDir) == "" {
			return ErrSiteOutputDirRequired
		}
	}
	if cfg.Search.Enabled {
		if strings.TrimSpace(cfg.Search.IndexPath) == "" {
			return ErrSearchIndexPathRequired
		}
	}
	if strings.TrimSpace(cfg.Storage.DSN) != "" {
		if provider := NormalizeStorageProvider(cfg.Storage.Provider); !isSupportedStorageProvider(provider) {
			return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
		}
	}
	if cfg.Commands.AutoRegisterCron && cfg.Commands.SyncSchedule <= 0 {
		return ErrCommandsCronRequiresSync
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

// NormalizeStorageProvider folds provider aliases onto the canonical names.
// An empty value defaults to SQLite so file DSNs work without configuration.
func NormalizeStorageProvider(provider string) string {
	switch normalizeProvider(provider) {
	case "", StorageProviderSQLite, "sqlite3":
		return StorageProviderSQLite
	case StorageProviderPostgres, "postgresql", "pg":
		return StorageProviderPostgres
	default:
		return normalizeProvider(provider)
	}
}

func isSupportedStorageProvider(provider string) bool {
	switch provider {
	case StorageProviderSQLite, StorageProviderPostgres:
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	return provider == "gologger"
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
