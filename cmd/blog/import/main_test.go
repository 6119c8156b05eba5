package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type stubMarkdownService struct {
	importCalls int
	importDir   string
	importOpts  interfaces.ImportOptions
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Encode(context.Context, *interfaces.Document) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls++
	s.importDir = dir
	s.importOpts = opts
	return &interfaces.ImportResult{}, nil
}

func (s *stubMarkdownService) Sync(context.Context, string, interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	return nil, nil
}

func TestRunImportUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubMarkdownService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Markdown: svc,
			Logger:   logging.NoOp(),
		}, nil
	}

	if err := runImport([]string{
		"-directory", "posts",
		"-dry-run",
	}); err != nil {
		t.Fatalf("runImport returned error: %v", err)
	}
	if svc.importCalls != 1 {
		t.Fatalf("expected import to be called once, got %d", svc.importCalls)
	}
	if svc.importDir != "posts" {
		t.Fatalf("expected import directory posts, got %s", svc.importDir)
	}
	if !svc.importOpts.DryRun {
		t.Fatal("expected dry-run flag to reach the service")
	}
}

func TestRunImportForwardsBootstrapOptions(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	var captured bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		captured = opts
		return &bootstrap.Module{
			Markdown: &stubMarkdownService{},
			Logger:   logging.NoOp(),
		}, nil
	}

	if err := runImport([]string{
		"-content-dir", "site-content",
		"-pattern", "*.markdown",
	}); err != nil {
		t.Fatalf("runImport returned error: %v", err)
	}
	if captured.ContentDir != "site-content" {
		t.Fatalf("expected content dir forwarded, got %q", captured.ContentDir)
	}
	if captured.Pattern != "*.markdown" {
		t.Fatalf("expected pattern forwarded, got %q", captured.Pattern)
	}
	if !captured.Recursive {
		t.Fatal("expected recursive discovery by default")
	}
}
