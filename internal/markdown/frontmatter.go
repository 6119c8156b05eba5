package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrMalformedFrontMatter wraps parse failures of the metadata block so
// callers can distinguish envelope errors from filesystem errors.
var ErrMalformedFrontMatter = errors.New("markdown: malformed front matter")

const frontMatterDelimiter = "---"

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front matter, the body
// without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

// EncodeDocument serialises the document back into its on-disk envelope form:
// a YAML metadata block between "---" delimiters followed by the body.
// Re-parsing the output yields identical title, date, and draft values.
func EncodeDocument(doc *interfaces.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown: cannot encode nil document")
	}

	header, err := yaml.Marshal(frontMatterToEnvelope(doc.FrontMatter))
	if err != nil {
		return nil, fmt.Errorf("markdown encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + len(doc.Body) + 16)
	buf.WriteString(frontMatterDelimiter)
	buf.WriteByte('\n')
	buf.Write(header)
	buf.WriteString(frontMatterDelimiter)
	buf.WriteByte('\n')
	if len(doc.Body) > 0 {
		buf.WriteByte('\n')
		buf.Write(bytes.TrimLeft(doc.Body, "\n"))
	}
	return buf.Bytes(), nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug,omitempty"`
	Summary string         `yaml:"summary,omitempty"`
	Tags    []string       `yaml:"tags,omitempty"`
	Author  string         `yaml:"author,omitempty"`
	Date    time.Time      `yaml:"date,omitempty"`
	Draft   bool           `yaml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

// encodeEnvelope mirrors frontMatterEnvelope with a pointer date so a zero
// timestamp is omitted instead of serialised as 0001-01-01.
type encodeEnvelope struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug,omitempty"`
	Summary string         `yaml:"summary,omitempty"`
	Tags    []string       `yaml:"tags,omitempty"`
	Author  string         `yaml:"author,omitempty"`
	Date    *time.Time     `yaml:"date,omitempty"`
	Draft   bool           `yaml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+7)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Author:  env.Author,
		Date:    env.Date,
		Draft:   env.Draft,
		Custom:  cloneMap(env.Custom),
		Raw:     raw,
	}
}

func frontMatterToEnvelope(meta interfaces.FrontMatter) encodeEnvelope {
	env := encodeEnvelope{
		Title:   meta.Title,
		Slug:    meta.Slug,
		Summary: meta.Summary,
		Tags:    append([]string(nil), meta.Tags...),
		Author:  meta.Author,
		Draft:   meta.Draft,
	}
	if !meta.Date.IsZero() {
		date := meta.Date
		env.Date = &date
	}
	if len(meta.Custom) > 0 {
		env.Custom = cloneMap(meta.Custom)
	}
	return env
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
