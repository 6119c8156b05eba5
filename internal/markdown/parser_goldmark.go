package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// GoldmarkParser renders document bodies to HTML through goldmark. The engine
// for the default options is built once and reused across calls; per-call
// overrides get a fresh engine.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
	engine   goldmark.Markdown
}

// NewGoldmarkParser builds a parser seeded with the supplied defaults. With an
// empty extension list the GFM set plus autolinks, task lists, and footnotes
// is enabled, which covers the constructs posts in a content directory use.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaults: defaults,
		engine:   buildEngine(defaults),
	}
}

// Parse renders markdown with the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return render(p.engine, markdown)
}

// ParseWithOptions renders markdown with one-off options.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	return render(buildEngine(opts), markdown)
}

func render(engine goldmark.Markdown, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

func buildEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	options := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	// Raw HTML passes through unless the caller asked for sanitised or safe
	// output; goldmark drops it entirely in that case.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if len(rendererOpts) > 0 {
		options = append(options, goldmark.WithRendererOptions(rendererOpts...))
	}

	if exts := resolveExtensions(opts.Extensions); len(exts) > 0 {
		options = append(options, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(options...)
}

var defaultExtensions = []goldmark.Extender{
	extension.GFM,
	extension.Linkify,
	extension.TaskList,
	extension.Footnote,
}

var knownExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// resolveExtensions maps configured names onto goldmark extenders. Unknown
// names are skipped rather than rejected so configs stay portable.
func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return defaultExtensions
	}

	seen := make(map[string]struct{}, len(names))
	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if ext, ok := knownExtensions[key]; ok {
			extenders = append(extenders, ext)
		}
	}
	return extenders
}
