package markdown

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/site/posts/terraform-state-locking.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Terraform State Locking in Practice" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Slug != "terraform-state-locking" {
		t.Fatalf("FrontMatter Slug mismatch, got %q", fm.Slug)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "terraform" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Draft {
		t.Fatalf("expected draft to default to false")
	}
	if fm.Date.IsZero() {
		t.Fatalf("expected date to be parsed")
	}
	if fm.Custom["category"] != "infrastructure" {
		t.Fatalf("FrontMatter Custom category missing: %#v", fm.Custom)
	}
	if fm.Raw["draft"] != false {
		t.Fatalf("expected raw draft entry, got %#v", fm.Raw)
	}
	if len(body) == 0 || !strings.Contains(string(body), "# Terraform State Locking") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatter_Malformed(t *testing.T) {
	data := readFixture(t, "testdata/broken/malformed.md")

	_, _, err := ParseFrontMatter(data)
	if err == nil {
		t.Fatalf("expected error for malformed metadata block")
	}
	if !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected ErrMalformedFrontMatter, got %v", err)
	}
}

func TestParseFrontMatter_NoEnvelope(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("# Bare Document\n\nNo metadata block at all.\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "" {
		t.Fatalf("expected empty title, got %q", fm.Title)
	}
	if fm.Draft {
		t.Fatalf("expected draft false for bare document")
	}
	if !strings.Contains(string(body), "# Bare Document") {
		t.Fatalf("body not preserved: %q", string(body))
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/site/about.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("about.md", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "about.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if doc.LastModified != modified {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected Body to contain markdown content")
	}
}

func TestEncodeDocument_RoundTrip(t *testing.T) {
	cases := []string{
		"testdata/site/about.md",
		"testdata/site/posts/terraform-state-locking.md",
		"testdata/site/posts/scratch-notes.md",
	}

	for _, fixture := range cases {
		data := readFixture(t, fixture)
		doc, err := BuildDocument(fixture, data, time.Now())
		if err != nil {
			t.Fatalf("BuildDocument %s: %v", fixture, err)
		}

		encoded, err := EncodeDocument(doc)
		if err != nil {
			t.Fatalf("EncodeDocument %s: %v", fixture, err)
		}

		reparsed, rebody, err := ParseFrontMatter(encoded)
		if err != nil {
			t.Fatalf("re-parse %s: %v", fixture, err)
		}

		if reparsed.Title != doc.FrontMatter.Title {
			t.Fatalf("%s: title changed across round trip: %q vs %q", fixture, reparsed.Title, doc.FrontMatter.Title)
		}
		if !reparsed.Date.Equal(doc.FrontMatter.Date) {
			t.Fatalf("%s: date changed across round trip: %v vs %v", fixture, reparsed.Date, doc.FrontMatter.Date)
		}
		if reparsed.Draft != doc.FrontMatter.Draft {
			t.Fatalf("%s: draft changed across round trip: %v vs %v", fixture, reparsed.Draft, doc.FrontMatter.Draft)
		}
		if strings.TrimSpace(string(rebody)) != strings.TrimSpace(string(doc.Body)) {
			t.Fatalf("%s: body changed across round trip", fixture)
		}
	}
}

func TestEncodeDocument_OmitsZeroDate(t *testing.T) {
	doc := &interfaces.Document{
		FrontMatter: interfaces.FrontMatter{Title: "No Date Here"},
		Body:        []byte("body text"),
	}

	encoded, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("EncodeDocument: %v", err)
	}
	if strings.Contains(string(encoded), "0001-01-01") {
		t.Fatalf("zero date leaked into the envelope: %q", string(encoded))
	}
	if !strings.Contains(string(encoded), "draft: false") {
		t.Fatalf("expected explicit draft flag in envelope: %q", string(encoded))
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_DefaultsIncludeFootnotes(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("A claim.[^1]\n\n[^1]: The source.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "footnote") {
		t.Fatalf("expected footnote markup in default output, got %q", string(html))
	}
}

func TestGoldmarkParser_UnknownExtensionNamesIgnored(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: []string{"typographer", "does-not-exist", "  "},
	})

	html, err := parser.Parse([]byte("Hello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML despite unknown extension names, got %q", string(html))
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
