package commands

import (
	"strings"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const commandModuleRoot = "sections.commands"

// CommandLogger returns a module-scoped logger for command handlers with
// component and command_module fields attached.
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

// EnsureLogger returns a usable logger, defaulting to a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
