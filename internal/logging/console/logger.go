package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// Level represents the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelLabels = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelLabels) {
		return levelLabels[l]
	}
	return "INFO"
}

// ParseLevel maps a configured level name onto a Level. An empty name is
// DEBUG.
func ParseLevel(value string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(value))
	switch name {
	case "":
		return LevelDebug, true
	case "WARNING":
		return LevelWarn, true
	}
	for i, label := range levelLabels {
		if label == name {
			return Level(i), true
		}
	}
	return LevelDebug, false
}

// Options configures the console provider. Zero values write DEBUG and above
// to stdout.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

// sink is shared by every logger of one provider so lines never interleave.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	clock func() time.Time
	min   Level
}

func (s *sink) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.out, line)
}

type provider struct {
	sink *sink
}

// NewProvider constructs a console-backed logger provider.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{out: opts.Writer, clock: opts.TimeFunc, min: LevelDebug}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if opts.MinLevel != nil {
		s.min = *opts.MinLevel
	}
	return &provider{sink: s}
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	return &consoleLogger{sink: p.sink, module: strings.TrimSpace(name)}
}

// consoleLogger renders one line per entry:
//
//	<time> <LEVEL> [<module>] <message> <domain>/<section>@<locale> key=value...
//
// The module and section coordinates are lifted out of the key/value list.
type consoleLogger struct {
	sink   *sink
	module string
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*consoleLogger)(nil)
	_ interfaces.FieldsLogger = (*consoleLogger)(nil)
)

func (l *consoleLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *consoleLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *consoleLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *consoleLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *consoleLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *consoleLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *consoleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(next.fields, l.fields)
	maps.Copy(next.fields, fields)
	return &next
}

func (l *consoleLogger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

func (l *consoleLogger) log(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.min {
		return
	}

	fields := make(map[string]any, len(l.fields)+len(args)/2+2)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	addPairs(fields, args)

	l.sink.write(render(l.sink.clock().UTC(), level, l.module, msg, fields))
}

// addPairs folds key/value arguments into fields. A trailing key without a
// value is kept with an empty value.
func addPairs(fields map[string]any, args []any) {
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg" + strconv.Itoa(i/2)
		}
		if i+1 < len(args) {
			fields[key] = args[i+1]
		} else {
			fields[key] = ""
		}
	}
}

func render(ts time.Time, level Level, module, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	fmt.Fprintf(&b, " %-5s ", level)

	if m, ok := fields["module"].(string); ok && m != "" {
		module = m
	}
	delete(fields, "module")
	if module != "" {
		b.WriteString("[" + module + "] ")
	}
	b.WriteString(msg)

	if target := sectionTarget(fields); target != "" {
		b.WriteString(" " + target)
	}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteString(" " + key + "=" + formatValue(fields[key]))
	}
	b.WriteByte('\n')
	return b.String()
}

// sectionTarget removes the section coordinates from fields and renders them
// as domain/section@locale. Missing parts are skipped.
func sectionTarget(fields map[string]any) string {
	take := func(key string) string {
		v, ok := fields[key].(string)
		if !ok || v == "" {
			return ""
		}
		delete(fields, key)
		return v
	}
	domain, section, locale := take("domain"), take("section"), take("locale")
	if section == "" {
		// A domain or locale on its own reads better as a plain field.
		if domain != "" {
			fields["domain"] = domain
		}
		if locale != "" {
			fields["locale"] = locale
		}
		return ""
	}
	target := section
	if domain != "" {
		target = domain + "/" + section
	}
	if locale != "" {
		target += "@" + locale
	}
	return target
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		return quote(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return v.String()
	case []string:
		return quote(strings.Join(v, ","))
	case error:
		return quote(v.Error())
	case fmt.Stringer:
		return quote(v.String())
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(value string) string {
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		return strconv.Quote(value)
	}
	return value
}
