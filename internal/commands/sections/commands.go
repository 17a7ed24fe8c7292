package sectionscmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	loadSectionMessageType = "sections.section.load"
	saveSectionMessageType = "sections.section.save"
)

var localePattern = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// LoadSectionCommand fetches the baseline of Section in Locale.
type LoadSectionCommand struct {
	Section string `json:"section"`
	Locale  string `json:"locale"`
}

// Type implements command.Message.
func (LoadSectionCommand) Type() string { return loadSectionMessageType }

// Validate ensures the command addresses a section and a well-formed locale.
func (m LoadSectionCommand) Validate() error {
	return validateTarget(m.Section, m.Locale)
}

// SectionTarget implements commands.Targeted.
func (m LoadSectionCommand) SectionTarget() (string, string) { return m.Section, m.Locale }

// SaveSectionCommand persists Payload as the new state of Section in Locale.
type SaveSectionCommand[T any] struct {
	Section string `json:"section"`
	Locale  string `json:"locale"`
	Payload T      `json:"payload"`
}

// Type implements command.Message.
func (SaveSectionCommand[T]) Type() string { return saveSectionMessageType }

func (m SaveSectionCommand[T]) Validate() error {
	return validateTarget(m.Section, m.Locale)
}

// SectionTarget implements commands.Targeted.
func (m SaveSectionCommand[T]) SectionTarget() (string, string) { return m.Section, m.Locale }

func validateTarget(section, locale string) error {
	errs := validation.Errors{}
	if strings.TrimSpace(section) == "" {
		errs["section"] = validation.NewError("sections.command.section_required", "section is required")
	}
	if err := validation.Validate(strings.TrimSpace(locale),
		validation.Required.ErrorObject(validation.NewError("sections.command.locale_required", "locale is required")),
		validation.Match(localePattern).ErrorObject(validation.NewError("sections.command.locale_invalid", "locale must be a language tag")),
	); err != nil {
		errs["locale"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
