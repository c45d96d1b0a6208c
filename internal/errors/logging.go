package errors

import (
	"errors"
	"log/slog"
)

// AttrsToArgs converts slog.Attr slice to []any for use with structured logging.
func AttrsToArgs(attrs []slog.Attr) []any {
	if len(attrs) == 0 {
		return nil
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// LogAttrs describes err as slog attributes: its message, category and context.
func LogAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}
	attrs := []slog.Attr{
		slog.String("category", CategoryOf(err).String()),
		slog.String("error", err.Error()),
	}
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		if ctxMap := typed.Context.ToMap(); len(ctxMap) > 0 {
			attrs = append(attrs, slog.Any("context", ctxMap))
		}
	}
	return attrs
}
