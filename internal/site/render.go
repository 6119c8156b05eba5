package site

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} | {{.SiteTitle}}</title>
{{- if .Summary}}
  <meta name="description" content="{{.Summary}}">
{{- end}}
  <link rel="canonical" href="{{.Canonical}}">
</head>
<body>
  <header>
    <nav><a href="/">{{.SiteTitle}}</a></nav>
  </header>
  <main>
    <article>
      <h1>{{.Title}}</h1>
{{- if .DateLabel}}
      <p class="meta"><time datetime="{{.DateISO}}">{{.DateLabel}}</time>{{if .Author}} &middot; {{.Author}}{{end}}</p>
{{- end}}
{{- if .Tags}}
      <ul class="tags">
{{- range .Tags}}
        <li>{{.}}</li>
{{- end}}
      </ul>
{{- end}}
      {{.Body}}
    </article>
  </main>
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.SiteTitle}}</title>
{{- if .Description}}
  <meta name="description" content="{{.Description}}">
{{- end}}
</head>
<body>
  <header>
    <h1>{{.SiteTitle}}</h1>
{{- if .Description}}
    <p>{{.Description}}</p>
{{- end}}
  </header>
  <main>
    <ul class="posts">
{{- range .Entries}}
      <li>
        <a href="{{.Route}}">{{.Title}}</a>
{{- if .DateLabel}}
        <time datetime="{{.DateISO}}">{{.DateLabel}}</time>
{{- end}}
{{- if .Summary}}
        <p>{{.Summary}}</p>
{{- end}}
      </li>
{{- end}}
    </ul>
  </main>
</body>
</html>
`))

type pageContext struct {
	SiteTitle string
	Title     string
	Summary   string
	Author    string
	Tags      []string
	DateISO   string
	DateLabel string
	Canonical string
	Body      template.HTML
}

type indexEntry struct {
	Title     string
	Route     string
	Summary   string
	DateISO   string
	DateLabel string
}

type indexContext struct {
	SiteTitle   string
	Description string
	Entries     []indexEntry
}

func renderPost(cfg Config, record *posts.Post) ([]byte, error) {
	ctx := pageContext{
		SiteTitle: siteTitle(cfg),
		Title:     record.Title,
		Tags:      record.Tags,
		Canonical: absoluteURL(cfg.BaseURL, "/"+record.Slug+"/"),
		Body:      template.HTML(record.BodyHTML),
	}
	if record.Summary != nil {
		ctx.Summary = strings.TrimSpace(*record.Summary)
	}
	if record.Author != nil {
		ctx.Author = strings.TrimSpace(*record.Author)
	}
	if record.Date != nil && !record.Date.IsZero() {
		ctx.DateISO = record.Date.UTC().Format(time.RFC3339)
		ctx.DateLabel = record.Date.UTC().Format("January 2, 2006")
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

func renderIndex(cfg Config, records []*posts.Post) ([]byte, error) {
	ctx := indexContext{
		SiteTitle:   siteTitle(cfg),
		Description: strings.TrimSpace(cfg.Description),
	}
	for _, record := range records {
		entry := indexEntry{
			Title: record.Title,
			Route: "/" + record.Slug + "/",
		}
		if record.Summary != nil {
			entry.Summary = strings.TrimSpace(*record.Summary)
		}
		if record.Date != nil && !record.Date.IsZero() {
			entry.DateISO = record.Date.UTC().Format(time.RFC3339)
			entry.DateLabel = record.Date.UTC().Format("January 2, 2006")
		}
		ctx.Entries = append(ctx.Entries, entry)
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("execute index template: %w", err)
	}
	return buf.Bytes(), nil
}

func siteTitle(cfg Config) string {
	if title := strings.TrimSpace(cfg.Title); title != "" {
		return title
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		return base
	}
	return "Blog"
}
