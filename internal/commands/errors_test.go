package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-sections/internal/sections"
)

func TestClassifySection(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		code       string
		validation bool
	}{
		{name: "save in progress", err: sections.ErrSaveInProgress, code: CodeSectionBusy},
		{name: "load during save", err: fmt.Errorf("load: %w", sections.ErrLoadDuringSave), code: CodeSectionBusy},
		{name: "not loaded", err: sections.ErrNotLoaded, code: CodeSectionNotLoaded},
		{name: "missing locale", err: sections.ErrLocaleRequired, code: CodeTargetInvalid, validation: true},
		{name: "transport", err: &sections.TransportError{Op: "patch", Section: "hero", Locale: "en", Err: errors.New("502")}, code: CodeTransportFailed},
		{name: "asset store", err: &sections.AssetStoreError{Op: "upload", Err: errors.New("disk full")}, code: CodeAssetStoreFailed},
		{name: "cancelled", err: fmt.Errorf("fetch: %w", context.Canceled), code: CodeCommandCanceled},
		{name: "deadline", err: context.DeadlineExceeded, code: CodeCommandTimeout},
		{name: "fallback", err: errors.New("boom"), code: CodeSaveFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifySection(tc.err, CodeSaveFailed)
			if got.code != tc.code || got.validation != tc.validation {
				t.Fatalf("expected code=%s validation=%v, got %+v", tc.code, tc.validation, got)
			}
		})
	}
}

func TestClassifySectionDefaultsFallback(t *testing.T) {
	if got := classifySection(errors.New("boom"), ""); got.code != CodeCommandFailed {
		t.Fatalf("expected generic failure code, got %s", got.code)
	}
}

func TestWrapContextErrorSeesWrappedCauses(t *testing.T) {
	if got := classifyContext(fmt.Errorf("patch: %w", context.DeadlineExceeded)); got.code != CodeCommandTimeout {
		t.Fatalf("expected timeout code for wrapped deadline, got %s", got.code)
	}
	if got := classifyContext(errors.New("odd")); got.code != CodeCommandContext {
		t.Fatalf("expected generic context code, got %s", got.code)
	}

	err := wrapContextError(context.Canceled)
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if again := wrapContextError(err); again != err {
		t.Fatalf("expected already tagged error to pass through")
	}
}

func TestWrapSectionErrorCategories(t *testing.T) {
	if err := WrapSectionError(nil, CodeLoadFailed); err != nil {
		t.Fatalf("expected nil for nil error, got %v", err)
	}
	if err := WrapSectionError(sections.ErrSectionRequired, CodeLoadFailed); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if err := WrapSectionError(sections.ErrNotLoaded, CodeSaveFailed); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
