package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// identifierKeys contains attribute keys whose values identify a participant
// or hold their free-text answers.
var identifierKeys = map[string]bool{
	// Recruitment platform identifiers
	"subject":        true,
	"subject_id":     true,
	"participant":    true,
	"participant_id": true,
	"prolific_id":    true,
	"prolific_pid":   true,
	"worker_id":      true,
	"workerid":       true,
	"session_id":     true,
	"study_id":       true,

	// Free text typed by participants
	"description":   true,
	"answer":        true,
	"response_text": true,
	"comments":      true,
}

// identifierKeywords are substrings that mark a key as identifying.
var identifierKeywords = []string{
	"prolific", "participant", "worker", "subject_",
}

// identifierPatterns contains value patterns that identify a participant
// regardless of key name.
var identifierPatterns = []*regexp.Regexp{
	// Prolific participant, study and session IDs
	regexp.MustCompile(`^[0-9a-f]{24}$`),

	// Amazon Mechanical Turk worker IDs
	regexp.MustCompile(`^A[0-9A-Z]{12,14}$`),

	// Placeholder IDs generated when no platform ID is present
	regexp.MustCompile(`^UNKNOWN_[0-9a-z]+$`),
}

// MaskValue is the string used to replace redacted values.
const MaskValue = "***REDACTED***"

// RedactHandler wraps an slog.Handler and masks participant identifiers in
// every record and pre-bound attribute before passing them on.
type RedactHandler struct {
	handler slog.Handler
}

// NewRedactHandler creates a RedactHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redact(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes redacted and added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redact(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(out)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

// redact masks a single attribute, recursing into groups.
func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if isIdentifierKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isIdentifierValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// isIdentifierKey reports whether the key names identifying data.
func isIdentifierKey(key string) bool {
	k := strings.ToLower(key)
	if identifierKeys[k] {
		return true
	}
	for _, kw := range identifierKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

// isIdentifierValue reports whether the value looks like a participant ID.
func isIdentifierValue(value string) bool {
	for _, p := range identifierPatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger creates a text slog.Logger that redacts participant identifiers.
// verbose selects Debug level; otherwise only warnings and errors are logged.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger is like NewLogger but writes JSON records.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

// handlerOptions returns the level options for the verbosity setting.
func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
