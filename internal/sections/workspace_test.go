package sections_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-sections/internal/sections"
)

func TestWorkspaceKeepsBaselinePerLocale(t *testing.T) {
	transport := newMemoryTransport()
	transport.seed(t, "about-cards", "en", cardsPayload{Heading: "About"})
	transport.seed(t, "about-cards", "ar", cardsPayload{Heading: "حول"})

	ws, err := sections.NewWorkspace(cardsDefinition(), transport)
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}

	en, err := ws.Locale("EN")
	if err != nil {
		t.Fatalf("locale en: %v", err)
	}
	ar, err := ws.Locale("ar")
	if err != nil {
		t.Fatalf("locale ar: %v", err)
	}
	again, _ := ws.Locale(" en ")
	if again != en {
		t.Fatal("expected the same synchronizer for a locale")
	}

	ctx := context.Background()
	enPayload, err := en.Load(ctx)
	if err != nil {
		t.Fatalf("load en: %v", err)
	}
	arPayload, err := ar.Load(ctx)
	if err != nil {
		t.Fatalf("load ar: %v", err)
	}
	if enPayload.Heading != "About" || arPayload.Heading != "حول" {
		t.Fatalf("unexpected payloads %q %q", enPayload.Heading, arPayload.Heading)
	}

	if got := ws.Locales(); len(got) != 2 || got[0] != "ar" || got[1] != "en" {
		t.Fatalf("unexpected locales %v", got)
	}
	if ws.Section() != "about-cards" {
		t.Fatalf("unexpected section %q", ws.Section())
	}
}

func TestWorkspaceValidation(t *testing.T) {
	if _, err := sections.NewWorkspace(cardsDefinition(), nil); !errors.Is(err, sections.ErrTransportRequired) {
		t.Fatalf("expected ErrTransportRequired, got %v", err)
	}
	ws, err := sections.NewWorkspace(cardsDefinition(), newMemoryTransport())
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	if _, err := ws.Locale(" "); !errors.Is(err, sections.ErrLocaleRequired) {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}
}
