package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Level: DEBUG, INFO, WARN, ERROR
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ErrObj for error logs
type ErrObj struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack,omitempty"`
}

// Entry is one structured log record.
type Entry struct {
	Action     string         // event name, e.g. user_created
	Message    string         // human-readable
	RequestID  string         // correlation id
	Error      *ErrObj        // only for WARN/ERROR
	Additional map[string]any // optional extras
}

// Options configures a Logger.
type Options struct {
	Level  string
	Pretty bool      // text handler instead of JSON
	Writer io.Writer // defaults to os.Stdout
}

type Logger struct {
	service  string
	hostname string
	sl       *slog.Logger
}

// exit is swapped in tests.
var (
	osExit = os.Exit
	exit   = osExit
)

// NewLogger reads LOG_LEVEL and LOG_PRETTY from the environment.
func NewLogger(service string) *Logger {
	return New(service, Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: strings.ToLower(os.Getenv("LOG_PRETTY")) == "true",
	})
}

func New(service string, opts Options) *Logger {
	h, _ := os.Hostname()

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	hopts := &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level).slogLevel(),
		ReplaceAttr: renameKeys,
	}

	var handler slog.Handler
	if opts.Pretty {
		handler = slog.NewTextHandler(w, hopts)
	} else {
		handler = slog.NewJSONHandler(w, hopts)
	}

	return &Logger{
		service:  service,
		hostname: h,
		sl:       slog.New(handler),
	}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return &Logger{service: "discard", sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) Debug(e Entry) { l.log(LevelDebug, e, nil) }
func (l *Logger) Info(e Entry)  { l.log(LevelInfo, e, nil) }
func (l *Logger) Warn(e Entry)  { l.log(LevelWarn, e, nil) }
func (l *Logger) Error(e Entry) { l.log(LevelError, e, nil) }
func (l *Logger) Fatal(e Entry) {
	// include stack automatically for fatal
	if e.Error == nil {
		e.Error = &ErrObj{Msg: e.Message, Stack: string(debug.Stack())}
	} else if e.Error.Stack == "" {
		e.Error.Stack = string(debug.Stack())
	}
	l.log(LevelError, e, nil)
	exit(1)
}

// WithFields returns a "context" logger that auto-merges Additional fields.
func (l *Logger) WithFields(base map[string]any) *ContextLogger {
	return &ContextLogger{parent: l, base: base}
}

// WithRequest attaches request_id to every entry.
func (l *Logger) WithRequest(requestID string) *ContextLogger {
	base := map[string]any{}
	if requestID != "" {
		base["request_id"] = requestID
	}
	return &ContextLogger{parent: l, base: base}
}

type ContextLogger struct {
	parent *Logger
	base   map[string]any
}

func (c *ContextLogger) Debug(e Entry) { c.parent.log(LevelDebug, e, c.base) }
func (c *ContextLogger) Info(e Entry)  { c.parent.log(LevelInfo, e, c.base) }
func (c *ContextLogger) Warn(e Entry)  { c.parent.log(LevelWarn, e, c.base) }
func (c *ContextLogger) Error(e Entry) { c.parent.log(LevelError, e, c.base) }

func (l *Logger) log(level Level, e Entry, base map[string]any) {
	ctx := context.Background()
	if !l.sl.Enabled(ctx, level.slogLevel()) {
		return
	}

	if e.RequestID == "" {
		if v, ok := base["request_id"].(string); ok {
			e.RequestID = v
		}
	}

	attrs := []slog.Attr{
		slog.String("service", l.service),
		slog.String("action", e.Action),
		slog.String("hostname", l.hostname),
	}
	if e.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", e.RequestID))
	}
	if e.Error != nil {
		errAttrs := []any{slog.String("msg", e.Error.Msg)}
		if e.Error.Stack != "" {
			errAttrs = append(errAttrs, slog.String("stack", e.Error.Stack))
		}
		attrs = append(attrs, slog.Group("error", errAttrs...))
	}

	additional := make(map[string]any, len(e.Additional)+len(base)+1)
	for k, v := range base {
		if k == "request_id" {
			continue
		}
		additional[k] = v
	}
	for k, v := range e.Additional {
		additional[k] = v
	}
	if _, ok := additional["caller"]; !ok {
		if pc, file, line, ok := runtime.Caller(2); ok {
			additional["caller"] = fmt.Sprintf("%s:%d (%s)", file, line, funcName(runtime.FuncForPC(pc)))
		}
	}
	attrs = append(attrs, slog.Any("additional", additional))

	l.sl.LogAttrs(ctx, level.slogLevel(), e.Message, attrs...)
}

// renameKeys keeps the on-disk schema: timestamp/level/message.
func renameKeys(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

func funcName(fn *runtime.Func) string {
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}
