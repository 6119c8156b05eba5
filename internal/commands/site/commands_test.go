package sitecmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/site"
)

type stubSiteService struct {
	buildCalls int
	buildOpts  site.BuildOptions
	buildErr   error
}

func (s *stubSiteService) Build(_ context.Context, opts site.BuildOptions) (*site.BuildResult, error) {
	s.buildCalls++
	s.buildOpts = opts
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	return &site.BuildResult{PagesBuilt: 3, DryRun: opts.DryRun}, nil
}

func (s *stubSiteService) Clean(context.Context) error {
	return nil
}

func TestBuildSiteHandlerInvokesBuilder(t *testing.T) {
	svc := &stubSiteService{}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), BuildSiteCommand{DryRun: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.buildCalls != 1 {
		t.Fatalf("expected one build, got %d", svc.buildCalls)
	}
	if !svc.buildOpts.DryRun {
		t.Fatal("expected dry-run forwarded to the builder")
	}
}

func TestBuildSiteHandlerFeatureGate(t *testing.T) {
	svc := &stubSiteService{}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{
		SiteEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, ErrSiteFeatureDisabled) {
		t.Fatalf("expected ErrSiteFeatureDisabled, got %v", err)
	}
	if svc.buildCalls != 0 {
		t.Fatalf("expected builder untouched, got %d calls", svc.buildCalls)
	}
}

func TestBuildSiteHandlerWrapsBuildError(t *testing.T) {
	buildErr := errors.New("disk full")
	svc := &stubSiteService{buildErr: buildErr}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected original build error preserved, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
