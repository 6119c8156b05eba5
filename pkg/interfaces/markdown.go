package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should be reusable across calls so hosts can share a single
// parser instance without additional locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the file workflows for blog documents: loading
// envelope files from disk, rendering their bodies to HTML, encoding them
// back to their on-disk form, and synchronising them with the post archive.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
	Encode(ctx context.Context, doc *Document) ([]byte, error)
	Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error)
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
	Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}

// Document represents a content file with parsed metadata and body. The
// struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (typically SHA-256)
	// so sync workflows can detect changes without re-importing unchanged files.
	Checksum []byte
}

// FrontMatter models the metadata block at the head of a content document.
// Title, Date, and Draft are the canonical publication fields; anything else
// an author writes lands in the Custom map, and Raw preserves the full
// key/value view for round-trip encoding.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Summary string         `yaml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Author  string         `yaml:"author" json:"author"`
	Date    time.Time      `yaml:"date" json:"date"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// ImportOptions controls how documents are converted into archive posts.
type ImportOptions struct {
	DryRun bool
}

// SyncOptions extends ImportOptions to handle update/delete semantics for
// repeated synchronisation runs.
type SyncOptions struct {
	ImportOptions
	DeleteOrphaned bool
}

// ImportResult reports the outcome of a single import operation, exposing
// the affected slugs so callers can audit behaviour or trigger follow-ups.
type ImportResult struct {
	CreatedSlugs []string
	UpdatedSlugs []string
	SkippedSlugs []string
	Errors       []error
}

// SyncResult summarises a bulk sync run across many files.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errors  []error
}
