package sectionscmd

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-cms-sections/internal/commands"
	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/sections"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// Observer receives command outcomes. Either callback may be nil.
type Observer[T any] struct {
	Loaded func(locale string, payload *T)
	Saved  func(locale string, result *sections.Result[T], err error)
}

// LoadSectionHandler loads baselines through a workspace.
type LoadSectionHandler[T any] struct {
	inner *commands.Handler[LoadSectionCommand]
}

// NewLoadSectionHandler constructs a handler bound to ws. Commands for other
// sections are ignored so several handlers can share a dispatcher.
func NewLoadSectionHandler[T any](ws *sections.Workspace[T], logger interfaces.Logger, observer Observer[T], opts ...commands.HandlerOption[LoadSectionCommand]) *LoadSectionHandler[T] {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg LoadSectionCommand) error {
		if !sameSection(ws.Section(), msg.Section) {
			return nil
		}
		syncer, err := ws.Locale(msg.Locale)
		if err != nil {
			return commands.WrapSectionError(err, commands.CodeLoadFailed)
		}
		payload, err := syncer.Load(ctx)
		if err != nil {
			return commands.WrapSectionError(err, commands.CodeLoadFailed)
		}
		logging.WithFields(baseLogger, map[string]any{
			"section": msg.Section,
			"locale":  syncer.Locale(),
			"found":   payload != nil,
		}).Info("sections.command.load.completed")
		if observer.Loaded != nil {
			observer.Loaded(syncer.Locale(), payload)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LoadSectionCommand]{
		commands.WithLogger[LoadSectionCommand](baseLogger),
		commands.WithOperation[LoadSectionCommand]("sections.section.load"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LoadSectionHandler[T]{
		inner: commands.NewHandler[LoadSectionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LoadSectionCommand].
func (h *LoadSectionHandler[T]) Execute(ctx context.Context, msg LoadSectionCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SaveSectionHandler runs the save pipeline through a workspace.
type SaveSectionHandler[T any] struct {
	inner *commands.Handler[SaveSectionCommand[T]]
}

// NewSaveSectionHandler constructs a handler bound to ws. A save whose
// payload was persisted but whose cleanup failed is reported to the
// observer and logged; it does not fail the command.
func NewSaveSectionHandler[T any](ws *sections.Workspace[T], logger interfaces.Logger, observer Observer[T], opts ...commands.HandlerOption[SaveSectionCommand[T]]) *SaveSectionHandler[T] {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SaveSectionCommand[T]) error {
		if !sameSection(ws.Section(), msg.Section) {
			return nil
		}
		syncer, err := ws.Locale(msg.Locale)
		if err != nil {
			return commands.WrapSectionError(err, commands.CodeSaveFailed)
		}
		result, err := syncer.Save(ctx, msg.Payload)
		if observer.Saved != nil && (result != nil || err != nil) {
			observer.Saved(syncer.Locale(), result, err)
		}
		fields := map[string]any{
			"section": msg.Section,
			"locale":  syncer.Locale(),
		}
		if result != nil {
			fields["uploaded"] = len(result.Uploaded)
			fields["deleted"] = len(result.Deleted)
		}
		switch {
		case err == nil:
			logging.WithFields(baseLogger, fields).Info("sections.command.save.completed")
			return nil
		case errors.Is(err, sections.ErrCleanupIncomplete):
			fields["orphans"] = sections.Orphans(err)
			logging.WithFields(baseLogger, fields).Warn("sections.command.save.cleanup_incomplete", "error", err)
			return nil
		default:
			return commands.WrapSectionError(err, commands.CodeSaveFailed)
		}
	}

	handlerOpts := []commands.HandlerOption[SaveSectionCommand[T]]{
		commands.WithLogger[SaveSectionCommand[T]](baseLogger),
		commands.WithOperation[SaveSectionCommand[T]]("sections.section.save"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveSectionHandler[T]{
		inner: commands.NewHandler[SaveSectionCommand[T]](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveSectionCommand[T]].
func (h *SaveSectionHandler[T]) Execute(ctx context.Context, msg SaveSectionCommand[T]) error {
	return h.inner.Execute(ctx, msg)
}

func sameSection(bound, requested string) bool {
	return strings.TrimSpace(bound) == strings.TrimSpace(requested)
}
