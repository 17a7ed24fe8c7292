package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-sections/internal/sections"
)

// Text codes attached to command errors.
const (
	CodeCommandInvalid   = "SECTIONS_COMMAND_INVALID"
	CodeCommandCanceled  = "SECTIONS_COMMAND_CANCELED"
	CodeCommandTimeout   = "SECTIONS_COMMAND_TIMEOUT"
	CodeCommandContext   = "SECTIONS_COMMAND_CONTEXT"
	CodeCommandFailed    = "SECTIONS_COMMAND_FAILED"
	CodeSectionBusy      = "SECTIONS_BUSY"
	CodeSectionNotLoaded = "SECTIONS_NOT_LOADED"
	CodeTargetInvalid    = "SECTIONS_TARGET_INVALID"
	CodeTransportFailed  = "SECTIONS_TRANSPORT_FAILED"
	CodeAssetStoreFailed = "SECTIONS_ASSET_STORE_FAILED"
	CodeLoadFailed       = "SECTIONS_LOAD_FAILED"
	CodeSaveFailed       = "SECTIONS_SAVE_FAILED"
)

type classification struct {
	validation bool
	code       string
	message    string
}

func (c classification) wrap(err error) error {
	category := goerrors.CategoryCommand
	if c.validation {
		category = goerrors.CategoryValidation
	}
	return goerrors.Wrap(err, category, c.message).WithTextCode(c.code)
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "section command is invalid").
		WithTextCode(CodeCommandInvalid)
}

func classifyContext(err error) classification {
	switch {
	case errors.Is(err, context.Canceled):
		return classification{false, CodeCommandCanceled, "section command cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return classification{false, CodeCommandTimeout, "section command deadline exceeded"}
	default:
		return classification{false, CodeCommandContext, "section command context error"}
	}
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return classifyContext(err).wrap(err)
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "section command failed").
		WithTextCode(CodeCommandFailed)
}

// classifySection maps synchronizer failures onto categories and text codes.
// fallback names the code used when nothing more specific applies.
func classifySection(err error, fallback string) classification {
	var (
		transportErr *sections.TransportError
		storeErr     *sections.AssetStoreError
	)
	switch {
	case errors.Is(err, sections.ErrSaveInProgress), errors.Is(err, sections.ErrLoadDuringSave):
		return classification{false, CodeSectionBusy, "section is busy"}
	case errors.Is(err, sections.ErrNotLoaded):
		return classification{false, CodeSectionNotLoaded, "section baseline not loaded"}
	case errors.Is(err, sections.ErrLocaleRequired), errors.Is(err, sections.ErrSectionRequired):
		return classification{true, CodeTargetInvalid, "section target invalid"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return classifyContext(err)
	case errors.As(err, &storeErr):
		return classification{false, CodeAssetStoreFailed, "asset store failed"}
	case errors.As(err, &transportErr):
		return classification{false, CodeTransportFailed, "section transport failed"}
	default:
		if fallback == "" {
			fallback = CodeCommandFailed
		}
		return classification{false, fallback, "section command failed"}
	}
}

// WrapSectionError tags a synchronizer error with its category and text code.
func WrapSectionError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return classifySection(err, fallback).wrap(err)
}
