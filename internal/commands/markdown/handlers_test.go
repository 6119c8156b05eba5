package markdowncmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestImportDirectoryHandlerInvokesService(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(stub, nil, FeatureGates{})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if stub.importDir != "content" {
		t.Fatalf("expected directory forwarded, got %q", stub.importDir)
	}
}

func TestImportDirectoryHandlerForwardsDryRun(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(stub, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory: "content",
		DryRun:    true,
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !stub.importOpts.DryRun {
		t.Fatalf("expected dry run forwarded to service")
	}
}

func TestImportDirectoryHandlerRequiresDirectory(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(stub, nil, FeatureGates{})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{})
	if err == nil {
		t.Fatal("expected validation error for missing directory")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if stub.importCalls != 0 {
		t.Fatalf("service should not run on validation failure")
	}
}

func TestImportDirectoryHandlerHonoursFeatureGate(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(stub, nil, FeatureGates{
		MarkdownEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"})
	if err == nil {
		t.Fatal("expected feature gate error")
	}
	if !errors.Is(err, ErrMarkdownFeatureDisabled) {
		t.Fatalf("expected ErrMarkdownFeatureDisabled, got %v", err)
	}
}

func TestSyncDirectoryHandlerForwardsOptions(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := NewSyncDirectoryHandler(stub, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), SyncDirectoryCommand{
		Directory:      "content",
		DeleteOrphaned: true,
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if stub.syncDir != "content" {
		t.Fatalf("expected directory forwarded, got %q", stub.syncDir)
	}
	if !stub.syncOpts.DeleteOrphaned {
		t.Fatalf("expected delete orphaned forwarded")
	}
}

func TestSyncDirectoryHandlerPropagatesServiceError(t *testing.T) {
	stub := &stubMarkdownService{syncErr: errors.New("walk failed")}
	handler := NewSyncDirectoryHandler(stub, nil, FeatureGates{})

	err := handler.Execute(context.Background(), SyncDirectoryCommand{Directory: "content"})
	if err == nil {
		t.Fatal("expected service error to propagate")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

type stubMarkdownService struct {
	importCalls int
	importDir   string
	importOpts  interfaces.ImportOptions
	syncDir     string
	syncOpts    interfaces.SyncOptions
	syncErr     error
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
	return &interfaces.ImportResult{}, nil
}

func (s *stubMarkdownService) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls++
	s.importDir = dir
	s.importOpts = opts
	return &interfaces.ImportResult{}, nil
}

func (s *stubMarkdownService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	s.syncDir = dir
	s.syncOpts = opts
	return &interfaces.SyncResult{}, nil
}

var _ interfaces.MarkdownService = (*stubMarkdownService)(nil)
