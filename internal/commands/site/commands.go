package sitecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	buildSiteMessageType = "blog.site.build"
	buildOperation       = "site.build"
)

// ErrSiteFeatureDisabled is returned when the site builder flag is disabled at runtime.
var ErrSiteFeatureDisabled = errors.New("site command: feature disabled")

// BuildSiteCommand triggers a full static build of the published archive.
type BuildSiteCommand struct {
	// DryRun reports what would be built without writing artifacts.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// FeatureGates exposes runtime feature toggles required by site command handlers.
type FeatureGates struct {
	SiteEnabled func() bool
}

func (g FeatureGates) siteEnabled() bool {
	if g.SiteEnabled == nil {
		return true
	}
	return g.SiteEnabled()
}

var _ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)

// BuildSiteHandler orchestrates static builds via the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied site builder.
func NewBuildSiteHandler(builder site.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if !gates.siteEnabled() {
			return ErrSiteFeatureDisabled
		}

		result, err := builder.Build(ctx, site.BuildOptions{DryRun: msg.DryRun})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"pages_built":   result.PagesBuilt,
				"feeds_built":   result.FeedsBuilt,
				"sitemap_built": result.SitemapBuilt,
				"dry_run":       result.DryRun,
				"duration_ms":   result.Duration.Milliseconds(),
			}).Info("site.command.build.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
