package commands

import (
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const commandModuleRoot = "blog.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriched
// with structured fields so command executions are easy to correlate.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
