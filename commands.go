package blog

import (
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	markdowncmd "github.com/goliatone/go-blog/internal/commands/markdown"
	searchcmd "github.com/goliatone/go-blog/internal/commands/search"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry      CommandRegistry
	CronRegistrar CronRegistrar
	// SyncDirectory overrides the directory passed to the scheduled content sync.
	SyncDirectory string
}

// RegistrationResult captures the constructed command handlers.
type RegistrationResult struct {
	Handlers []any
}

// RegisterModuleCommands builds the command handlers exposed by the module and
// optionally registers them with registry and cron integrations. When
// Commands.AutoRegisterCron is set, the content sync handler is scheduled on
// the cron registrar at the Commands.SyncSchedule interval.
func RegisterModuleCommands(module *Module, opts RegistrationOptions) (*RegistrationResult, error) {
	if module == nil || module.container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := module.container.Config
	provider := module.Logger()

	result := &RegistrationResult{
		Handlers: make([]any, 0),
	}

	var errs error
	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	// Markdown commands.
	if service := module.Markdown(); service != nil && cfg.Features.Markdown {
		gates := markdowncmd.FeatureGates{
			MarkdownEnabled: func() bool { return cfg.Features.Markdown },
		}
		handlerSet, err := markdowncmd.RegisterMarkdownCommands(nil, service, provider, gates)
		if err != nil {
			errs = errors.Join(errs, err)
		} else if handlerSet != nil {
			register(handlerSet.Import)
			register(handlerSet.Sync)

			if cfg.Commands.AutoRegisterCron && opts.CronRegistrar != nil {
				directory := strings.TrimSpace(opts.SyncDirectory)
				if directory == "" {
					directory = "."
				}
				cronCfg := command.HandlerConfig{
					Expression: fmt.Sprintf("@every %s", cfg.Commands.SyncSchedule),
				}
				msg := markdowncmd.SyncDirectoryCommand{Directory: directory}
				if err := markdowncmd.RegisterMarkdownCron(markdowncmd.CronRegistrar(opts.CronRegistrar), handlerSet.Sync, cronCfg, msg); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	// Site build commands.
	if service := module.Site(); service != nil && cfg.Features.Site {
		gates := sitecmd.FeatureGates{
			SiteEnabled: func() bool { return cfg.Features.Site },
		}
		register(sitecmd.NewBuildSiteHandler(service, commands.CommandLogger(provider, "site"), gates))
	}

	// Search maintenance commands.
	if service := module.Search(); service != nil && cfg.Features.Search {
		gates := searchcmd.FeatureGates{
			SearchEnabled: func() bool { return cfg.Features.Search },
		}
		register(searchcmd.NewReindexSearchHandler(service, commands.CommandLogger(provider, "search"), gates))
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure services are configured and required features enabled")
	}

	return result, errs
}
