package sectionscmd

import (
	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-cms-sections/internal/commands"
	"github.com/goliatone/go-cms-sections/internal/sections"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const commandModule = "sections"

// Subscribe registers load and save handlers for ws on the go-command
// dispatcher. The returned function removes both subscriptions.
func Subscribe[T any](ws *sections.Workspace[T], provider interfaces.LoggerProvider, observer Observer[T]) func() {
	logger := commands.CommandLogger(provider, commandModule)
	load := dispatcher.SubscribeCommand(NewLoadSectionHandler(ws, logger, observer))
	save := dispatcher.SubscribeCommand(NewSaveSectionHandler(ws, logger, observer))
	return func() {
		load.Unsubscribe()
		save.Unsubscribe()
	}
}
