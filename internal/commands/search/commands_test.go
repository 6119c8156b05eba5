package searchcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/search"
)

type stubSearchService struct {
	rebuildCalls int
	rebuildErr   error
}

func (s *stubSearchService) Index(context.Context, *posts.Post) error {
	return nil
}

func (s *stubSearchService) Remove(context.Context, string) error {
	return nil
}

func (s *stubSearchService) Rebuild(context.Context) (int, error) {
	s.rebuildCalls++
	if s.rebuildErr != nil {
		return 0, s.rebuildErr
	}
	return 2, nil
}

func (s *stubSearchService) Query(context.Context, string, int) ([]search.Result, error) {
	return nil, nil
}

func (s *stubSearchService) Close() error {
	return nil
}

func TestReindexSearchHandlerInvokesRebuild(t *testing.T) {
	svc := &stubSearchService{}
	handler := NewReindexSearchHandler(svc, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), ReindexSearchCommand{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.rebuildCalls != 1 {
		t.Fatalf("expected one rebuild, got %d", svc.rebuildCalls)
	}
}

func TestReindexSearchHandlerFeatureGate(t *testing.T) {
	svc := &stubSearchService{}
	handler := NewReindexSearchHandler(svc, nil, FeatureGates{
		SearchEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), ReindexSearchCommand{})
	if !errors.Is(err, ErrSearchFeatureDisabled) {
		t.Fatalf("expected ErrSearchFeatureDisabled, got %v", err)
	}
	if svc.rebuildCalls != 0 {
		t.Fatalf("expected index untouched, got %d calls", svc.rebuildCalls)
	}
}

func TestReindexSearchHandlerPropagatesRebuildError(t *testing.T) {
	rebuildErr := errors.New("index corrupted")
	svc := &stubSearchService{rebuildErr: rebuildErr}
	handler := NewReindexSearchHandler(svc, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), ReindexSearchCommand{}); !errors.Is(err, rebuildErr) {
		t.Fatalf("expected original rebuild error preserved, got %v", err)
	}
}
