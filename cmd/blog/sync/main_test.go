package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type stubMarkdownService struct {
	syncCalls int
	syncDir   string
	syncOpts  interfaces.SyncOptions
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

func (s *stubMarkdownService) ImportDirectory(context.Context, string, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls++
	s.syncDir = dir
	s.syncOpts = opts
	return &interfaces.SyncResult{}, nil
}

func TestRunSyncUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubMarkdownService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Markdown: svc,
			Logger:   logging.NoOp(),
		}, nil
	}

	if err := runSync([]string{
		"-directory", "posts",
		"-delete-orphaned",
	}); err != nil {
		t.Fatalf("runSync returned error: %v", err)
	}
	if svc.syncCalls != 1 {
		t.Fatalf("expected sync to be called once, got %d", svc.syncCalls)
	}
	if svc.syncDir != "posts" {
		t.Fatalf("expected sync directory posts, got %s", svc.syncDir)
	}
	if !svc.syncOpts.DeleteOrphaned {
		t.Fatal("expected delete-orphaned flag to reach the service")
	}
	if svc.syncOpts.DryRun {
		t.Fatal("expected dry-run to stay false by default")
	}
}
