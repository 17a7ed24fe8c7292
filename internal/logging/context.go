package logging

import (
	"context"
	"maps"
	"strings"
)

type fieldsKey struct{}

// ContextWithFields layers fields over those already carried by ctx. Loggers
// that honour WithContext attach them to every entry.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextWithSection records the section coordinates on ctx. Empty values are
// skipped.
func ContextWithSection(ctx context.Context, domain, section, locale string) context.Context {
	return ContextWithFields(ctx, sectionFields(domain, section, locale))
}

// ContextFields returns a copy of the fields carried by ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

func sectionFields(domain, section, locale string) map[string]any {
	fields := map[string]any{}
	for key, value := range map[string]string{fieldDomain: domain, fieldSection: section, fieldLocale: locale} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			fields[key] = trimmed
		}
	}
	return fields
}
