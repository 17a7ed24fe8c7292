package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-sections/internal/commands"
	sectionscmd "github.com/goliatone/go-cms-sections/internal/commands/sections"
	"github.com/goliatone/go-cms-sections/internal/logging/console"
	"github.com/goliatone/go-cms-sections/internal/sections"
)

type heroPayload struct {
	Title string `json:"title"`
}

func TestHandlerRunsValidLoadCommand(t *testing.T) {
	var got sectionscmd.LoadSectionCommand
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.LoadSectionCommand) error {
		got = msg
		return nil
	})

	msg := sectionscmd.LoadSectionCommand{Section: "hero", Locale: "en"}
	if err := h.Execute(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != msg {
		t.Fatalf("expected handler to receive %+v, got %+v", msg, got)
	}
}

func TestHandlerLogsSectionTarget(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.LoadSectionCommand) error {
		return nil
	},
		commands.WithLogger[sectionscmd.LoadSectionCommand](commands.CommandLogger(provider, "sections")),
		commands.WithOperation[sectionscmd.LoadSectionCommand]("sections.section.load"),
	)

	if err := h.Execute(context.Background(), sectionscmd.LoadSectionCommand{Section: "hero", Locale: "ar"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"sections.command.done", "hero@ar", "operation=sections.section.load", "command=sections.section.load"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestHandlerRejectsLoadWithoutLocale(t *testing.T) {
	called := false
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.LoadSectionCommand) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), sectionscmd.LoadSectionCommand{Section: "hero"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerSkipsSaveOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.SaveSectionCommand[heroPayload]) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, sectionscmd.SaveSectionCommand[heroPayload]{Section: "hero", Locale: "en"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected save not to run when context is cancelled")
	}
}

func TestHandlerReportsCancellationDuringSave(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.SaveSectionCommand[heroPayload]) error {
		cancel()
		return nil
	})

	err := h.Execute(ctx, sectionscmd.SaveSectionCommand[heroPayload]{Section: "hero", Locale: "en", Payload: heroPayload{Title: "Hi"}})
	if err == nil {
		t.Fatal("expected cancellation after execution to surface")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerWrapsContextErrorReturnedBySave(t *testing.T) {
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.SaveSectionCommand[heroPayload]) error {
		<-ctx.Done()
		return ctx.Err()
	}, commands.WithTimeout[sectionscmd.SaveSectionCommand[heroPayload]](10*time.Millisecond))

	err := h.Execute(context.Background(), sectionscmd.SaveSectionCommand[heroPayload]{Section: "hero", Locale: "en"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerKeepsSectionErrorTagging(t *testing.T) {
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.SaveSectionCommand[heroPayload]) error {
		return commands.WrapSectionError(sections.ErrLocaleRequired, commands.CodeSaveFailed)
	})

	err := h.Execute(context.Background(), sectionscmd.SaveSectionCommand[heroPayload]{Section: "hero", Locale: "en"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected section tagging to survive the handler, got %v", err)
	}
}

func TestHandlerWrapsPlainExecutionError(t *testing.T) {
	h := commands.NewHandler(func(ctx context.Context, msg sectionscmd.LoadSectionCommand) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), sectionscmd.LoadSectionCommand{Section: "hero", Locale: "en"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}
