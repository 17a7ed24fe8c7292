package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported content language code.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Defaults lists the locales served when none are configured.
var Defaults = []Locale{English, Arabic}

var ErrUnsupported = errors.New("locale: unsupported locale")

func (l Locale) String() string {
	return string(l)
}

// Set is an ordered collection of supported locales. The first entry is the
// fallback for Match.
type Set struct {
	locales []Locale
	tags    []language.Tag
	matcher language.Matcher
}

// NewSet builds a set from codes such as "en" or "ar-EG". Duplicates are
// dropped after normalisation.
func NewSet(codes ...string) (*Set, error) {
	if len(codes) == 0 {
		for _, l := range Defaults {
			codes = append(codes, string(l))
		}
	}
	set := &Set{}
	seen := map[Locale]struct{}{}
	for _, code := range codes {
		tag, err := language.Parse(strings.TrimSpace(code))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupported, code)
		}
		base, _ := tag.Base()
		loc := Locale(base.String())
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		set.locales = append(set.locales, loc)
		set.tags = append(set.tags, language.Make(base.String()))
	}
	set.matcher = language.NewMatcher(set.tags)
	return set, nil
}

// MustSet is NewSet that panics on error.
func MustSet(codes ...string) *Set {
	set, err := NewSet(codes...)
	if err != nil {
		panic(err)
	}
	return set
}

// Locales returns the supported locales in configured order.
func (s *Set) Locales() []Locale {
	return append([]Locale(nil), s.locales...)
}

// Default returns the first configured locale.
func (s *Set) Default() Locale {
	return s.locales[0]
}

// Contains reports whether l is supported.
func (s *Set) Contains(l Locale) bool {
	for _, candidate := range s.locales {
		if candidate == l {
			return true
		}
	}
	return false
}

// Parse resolves raw to a supported locale. Region and script subtags are
// ignored, so "ar-EG" resolves to "ar". An empty value yields the default.
func (s *Set) Parse(raw string) (Locale, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.Default(), nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, raw)
	}
	base, _ := tag.Base()
	loc := Locale(base.String())
	if !s.Contains(loc) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, raw)
	}
	return loc, nil
}

// Match picks the best supported locale for an Accept-Language header,
// falling back to the default.
func (s *Set) Match(acceptLanguage string) Locale {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return s.Default()
	}
	_, idx, conf := s.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(s.locales) {
		return s.Default()
	}
	return s.locales[idx]
}

// RTL reports whether the locale is written right to left.
func (l Locale) RTL() bool {
	switch l {
	case Arabic, "he", "fa", "ur":
		return true
	default:
		return false
	}
}
