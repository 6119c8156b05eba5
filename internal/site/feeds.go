package site

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

func buildFeedItems(cfg Config, records []*posts.Post, generatedAt time.Time) []feedItem {
	items := make([]feedItem, 0, len(records))
	seen := map[string]struct{}{}

	for _, record := range records {
		if record == nil || !record.Published() {
			continue
		}
		guid := record.ID.String()
		if _, ok := seen[guid]; ok {
			continue
		}
		seen[guid] = struct{}{}

		publishedAt := firstNonZeroTime(
			timePtrOrZero(record.Date),
			record.CreatedAt,
		)
		if publishedAt.IsZero() {
			publishedAt = generatedAt
		}
		updatedAt := firstNonZeroTime(record.UpdatedAt, publishedAt)

		summary := ""
		if record.Summary != nil {
			summary = normalizeWhitespace(*record.Summary)
		}

		items = append(items, feedItem{
			Title:       record.Title,
			Summary:     summary,
			Link:        absoluteURL(cfg.BaseURL, "/"+record.Slug+"/"),
			GUID:        guid,
			PublishedAt: publishedAt,
			UpdatedAt:   updatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		left := items[i].PublishedAt
		right := items[j].PublishedAt
		if left.Equal(right) {
			return items[i].GUID < items[j].GUID
		}
		return left.After(right)
	})
	if len(items) > maxFeedItems {
		items = append([]feedItem(nil), items[:maxFeedItems]...)
	}
	return items
}

func (s *service) writeFeeds(ctx context.Context, writer ArtifactWriter, records []*posts.Post, generatedAt time.Time) (int, error) {
	items := buildFeedItems(s.cfg, records, generatedAt)
	if len(items) == 0 {
		return 0, nil
	}

	total := 0
	rssContent := buildRSSFeed(s.cfg, items, generatedAt)
	if err := writer.WriteFile(ctx, WriteFileRequest{
		Path:        "feed.xml",
		Content:     []byte(rssContent),
		ContentType: "application/rss+xml",
	}); err != nil {
		return total, fmt.Errorf("site: write rss feed: %w", err)
	}
	total++

	atomContent := buildAtomFeed(s.cfg, items, generatedAt)
	if err := writer.WriteFile(ctx, WriteFileRequest{
		Path:        "feed.atom.xml",
		Content:     []byte(atomContent),
		ContentType: "application/atom+xml",
	}); err != nil {
		return total, fmt.Errorf("site: write atom feed: %w", err)
	}
	total++

	return total, nil
}

func buildRSSFeed(cfg Config, items []feedItem, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(cfg.BaseURL)
	description := feedDescription(cfg)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(siteTitle(cfg))))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(description)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func buildAtomFeed(cfg Config, items []feedItem, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(cfg.BaseURL)
	feedID := baseLink + "/feed.atom.xml"

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(feedID)))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(siteTitle(cfg))))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", generatedAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(baseLink)))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(feedID)))
	for _, item := range items {
		updated := item.UpdatedAt
		if updated.IsZero() {
			updated = item.PublishedAt
		}
		if updated.IsZero() {
			updated = generatedAt
		}
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXMLAttr(item.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
		if !item.PublishedAt.IsZero() {
			builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

func feedDescription(cfg Config) string {
	if desc := strings.TrimSpace(cfg.Description); desc != "" {
		return desc
	}
	return "Latest posts"
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func timePtrOrZero(ts *time.Time) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.UTC()
}

func firstNonZeroTime(instants ...time.Time) time.Time {
	for _, ts := range instants {
		if !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func normalizeWhitespace(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(value)
}
