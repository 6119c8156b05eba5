package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the canonical archive record for a blog document. The archive keeps
// both draft and published entries; listing APIs apply the draft exclusion.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug       string         `bun:"slug,notnull,unique" json:"slug"`
	Title      string         `bun:"title,notnull" json:"title"`
	Summary    *string        `bun:"summary" json:"summary,omitempty"`
	Author     *string        `bun:"author" json:"author,omitempty"`
	Tags       []string       `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Date       *time.Time     `bun:"date,nullzero" json:"date,omitempty"`
	Draft      bool           `bun:"draft,notnull,default:false" json:"draft"`
	Body       string         `bun:"body,notnull" json:"body"`
	BodyHTML   string         `bun:"body_html" json:"body_html,omitempty"`
	Checksum   string         `bun:"checksum" json:"checksum,omitempty"`
	SourcePath string         `bun:"source_path" json:"source_path,omitempty"`
	Metadata   map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Published reports whether the post belongs in public listings and build
// artifacts. Drafts are excluded everywhere by convention.
func (p *Post) Published() bool {
	return p != nil && !p.Draft
}

// CreatePostRequest captures the information required to create an archive entry.
type CreatePostRequest struct {
	Slug       string
	Title      string
	Summary    *string
	Author     *string
	Tags       []string
	Date       *time.Time
	Draft      bool
	Body       string
	BodyHTML   string
	Checksum   string
	SourcePath string
	Metadata   map[string]any
}

// UpdatePostRequest captures mutable fields for an existing archive entry.
type UpdatePostRequest struct {
	ID         uuid.UUID
	Title      *string
	Summary    *string
	Author     *string
	Tags       []string
	Date       *time.Time
	Draft      *bool
	Body       *string
	BodyHTML   *string
	Checksum   *string
	SourcePath *string
	Metadata   map[string]any
}

// DeletePostRequest captures the information required to remove an archive entry.
type DeletePostRequest struct {
	ID uuid.UUID
}
