package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	rootModule     = "blog"
	postsModule    = "blog.posts"
	markdownModule = "blog.markdown"
	siteModule     = "blog.site"
	searchModule   = "blog.search"
)

const (
	fieldDocumentPath = "document_path"
	fieldDocumentSlug = "slug"
	fieldSyncAction   = "sync_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PostsLogger returns the logger namespace reserved for the post archive.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// MarkdownLogger returns the logger namespace reserved for document workflows.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// SiteLogger returns the logger namespace reserved for static site builds.
func SiteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, siteModule)
}

// SearchLogger returns the logger namespace reserved for the search index.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// WithDocumentContext enriches the provided logger with common document
// fields such as file path, slug, and sync action. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, slug, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldDocumentSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldSyncAction] = trimmed
	}
	return WithFields(logger, fields)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
