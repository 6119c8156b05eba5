package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestImportCreatesArchiveEntry(t *testing.T) {
	archive := newTestArchive()
	svc := newImportService(t, archive)

	doc, err := svc.Load(context.Background(), "about.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	result, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.CreatedSlugs) != 1 || result.CreatedSlugs[0] != "about-this-site" {
		t.Fatalf("expected created slug about-this-site, got %#v", result)
	}

	record, err := archive.GetBySlug(context.Background(), "about-this-site")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if record.Title != "About This Site" {
		t.Fatalf("title not stored, got %q", record.Title)
	}
	if record.Checksum == "" {
		t.Fatalf("expected checksum stored")
	}
	if record.SourcePath != "about.md" {
		t.Fatalf("expected source path recorded, got %q", record.SourcePath)
	}
}

func TestImportSkipsUnchangedDocuments(t *testing.T) {
	archive := newTestArchive()
	svc := newImportService(t, archive)

	doc, err := svc.Load(context.Background(), "about.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	result, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.SkippedSlugs) != 1 {
		t.Fatalf("expected unchanged document skipped, got %#v", result)
	}
	if len(result.UpdatedSlugs) != 0 {
		t.Fatalf("unchanged document should not update, got %#v", result)
	}
}

func TestImportUpdatesChangedDocuments(t *testing.T) {
	archive := newTestArchive()
	svc := newImportService(t, archive)

	doc, err := svc.Load(context.Background(), "about.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	clone := cloneDocument(doc)
	clone.Body = []byte("# Updated\n\nNew body")
	clone.BodyHTML = []byte("<h1>Updated</h1>\n<p>New body</p>\n")
	sum := sha256.Sum256(clone.Body)
	clone.Checksum = sum[:]

	result, err := svc.Import(context.Background(), clone, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.UpdatedSlugs) != 1 {
		t.Fatalf("expected updated slug, got %#v", result)
	}

	record, err := archive.GetBySlug(context.Background(), "about-this-site")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if record.Body != string(clone.Body) {
		t.Fatalf("body not updated")
	}
}

func TestImportDryRunLeavesArchiveAlone(t *testing.T) {
	archive := newTestArchive()
	svc := newImportService(t, archive)

	result, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.CreatedSlugs) != 0 {
		t.Fatalf("dry run must not create entries, got %#v", result)
	}

	records, err := archive.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("archive should be empty after dry run, got %d entries", len(records))
	}
}

func TestImportDirectoryKeepsDraftFlag(t *testing.T) {
	archive := newTestArchive()
	svc := newImportService(t, archive)

	if _, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{}); err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}

	record, err := archive.GetBySlug(context.Background(), "scratch-notes")
	if err != nil {
		t.Fatalf("GetBySlug draft: %v", err)
	}
	if !record.Draft {
		t.Fatalf("expected draft flag preserved in archive")
	}

	published, err := archive.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	for _, entry := range published {
		if entry.Slug == "scratch-notes" {
			t.Fatalf("draft leaked into published listing")
		}
	}
}

func TestSyncDeletesOrphans(t *testing.T) {
	archive := newTestArchive()
	svc := newImportService(t, archive)

	if _, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	// Seed an entry whose source file no longer exists.
	if _, err := archive.Create(context.Background(), posts.CreatePostRequest{
		Title:      "Orphaned Entry",
		Slug:       "orphaned-entry",
		Body:       "stale body",
		SourcePath: "posts/removed.md",
	}); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	// And one created by hand, without a source path; it must survive.
	if _, err := archive.Create(context.Background(), posts.CreatePostRequest{
		Title: "Manual Entry",
		Slug:  "manual-entry",
		Body:  "written straight into the archive",
	}); err != nil {
		t.Fatalf("seed manual entry: %v", err)
	}

	syncRes, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if syncRes.Deleted != 1 {
		t.Fatalf("expected exactly one deletion, got %#v", syncRes)
	}

	if _, err := archive.GetBySlug(context.Background(), "orphaned-entry"); !posts.IsNotFound(err) {
		t.Fatalf("expected orphan removed, got %v", err)
	}
	if _, err := archive.GetBySlug(context.Background(), "manual-entry"); err != nil {
		t.Fatalf("manual entry should survive sync: %v", err)
	}
}

func TestImportAcceptsBodylessDocuments(t *testing.T) {
	archive := newTestArchive()
	importer := NewImporter(ImporterConfig{Archive: archive})

	doc := &interfaces.Document{
		FilePath:    "placeholder.md",
		FrontMatter: interfaces.FrontMatter{Title: "Placeholder Page"},
	}
	result, err := importer.ImportDocument(context.Background(), doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(result.CreatedSlugs) != 1 || result.CreatedSlugs[0] != "placeholder-page" {
		t.Fatalf("expected placeholder-page created, got %#v", result)
	}

	record, err := archive.GetBySlug(context.Background(), "placeholder-page")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if record.Body != "" {
		t.Fatalf("expected empty body preserved, got %q", record.Body)
	}
}

func TestSyncKeepsEntriesWhoseImportFailed(t *testing.T) {
	archive := newTestArchive()
	importer := NewImporter(ImporterConfig{Archive: archive})

	good := &interfaces.Document{
		FilePath:    "posts/keep-me.md",
		FrontMatter: interfaces.FrontMatter{Title: "Keep Me"},
		Body:        []byte("original body"),
	}
	if _, err := importer.SyncDocuments(context.Background(), []*interfaces.Document{good}, interfaces.SyncOptions{
		DeleteOrphaned: true,
	}); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	// Same file, now with a blanked title. The import fails, but the source
	// file is still part of the batch, so its entry is not an orphan.
	broken := &interfaces.Document{
		FilePath:    "posts/keep-me.md",
		FrontMatter: interfaces.FrontMatter{Title: "   "},
		Body:        []byte("edited body"),
	}
	res, err := importer.SyncDocuments(context.Background(), []*interfaces.Document{broken}, interfaces.SyncOptions{
		DeleteOrphaned: true,
	})
	if !errors.Is(err, ErrTitleMissing) {
		t.Fatalf("expected title error, got %v", err)
	}
	if res.Deleted != 0 {
		t.Fatalf("failing source file must not count as an orphan, got %#v", res)
	}

	record, err := archive.GetBySlug(context.Background(), "keep-me")
	if err != nil {
		t.Fatalf("entry for a failing source file must survive: %v", err)
	}
	if record.Body != "original body" {
		t.Fatalf("failed import must leave the stored body alone, got %q", record.Body)
	}
}

func newImportService(tb testing.TB, archive posts.Service) *Service {
	tb.Helper()

	cfg := Config{
		BasePath:  filepath.Join("testdata", "site"),
		Pattern:   "*.md",
		Recursive: true,
	}

	importer := NewImporter(ImporterConfig{Archive: archive})

	svc, err := NewService(cfg, nil, importer)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}

func newTestArchive() posts.Service {
	return posts.NewService(posts.NewMemoryRepository())
}

func cloneDocument(doc *interfaces.Document) *interfaces.Document {
	if doc == nil {
		return nil
	}
	body := make([]byte, len(doc.Body))
	copy(body, doc.Body)
	html := make([]byte, len(doc.BodyHTML))
	copy(html, doc.BodyHTML)
	checksum := make([]byte, len(doc.Checksum))
	copy(checksum, doc.Checksum)
	return &interfaces.Document{
		FilePath:     doc.FilePath,
		FrontMatter:  doc.FrontMatter,
		Body:         body,
		BodyHTML:     html,
		LastModified: time.Now(),
		Checksum:     checksum,
	}
}
