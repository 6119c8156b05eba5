package searchcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	reindexMessageType = "blog.search.reindex"
	reindexOperation   = "search.reindex"
)

// ErrSearchFeatureDisabled is returned when the search flag is disabled at runtime.
var ErrSearchFeatureDisabled = errors.New("search command: feature disabled")

// ReindexSearchCommand rebuilds the full-text index from the archive.
type ReindexSearchCommand struct{}

// Type implements command.Message.
func (ReindexSearchCommand) Type() string { return reindexMessageType }

// FeatureGates exposes runtime feature toggles required by search command handlers.
type FeatureGates struct {
	SearchEnabled func() bool
}

func (g FeatureGates) searchEnabled() bool {
	if g.SearchEnabled == nil {
		return true
	}
	return g.SearchEnabled()
}

var _ command.Commander[ReindexSearchCommand] = (*ReindexSearchHandler)(nil)

// ReindexSearchHandler orchestrates index rebuilds via the shared command handler foundation.
type ReindexSearchHandler struct {
	inner *commands.Handler[ReindexSearchCommand]
}

// NewReindexSearchHandler creates a handler bound to the supplied search service.
func NewReindexSearchHandler(index search.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ReindexSearchCommand]) *ReindexSearchHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, _ ReindexSearchCommand) error {
		if !gates.searchEnabled() {
			return ErrSearchFeatureDisabled
		}

		count, err := index.Rebuild(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"documents": count,
		}).Info("search.command.reindex.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReindexSearchCommand]{
		commands.WithLogger[ReindexSearchCommand](baseLogger),
		commands.WithOperation[ReindexSearchCommand](reindexOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[ReindexSearchCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReindexSearchHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReindexSearchCommand].
func (h *ReindexSearchHandler) Execute(ctx context.Context, msg ReindexSearchCommand) error {
	return h.inner.Execute(ctx, msg)
}
