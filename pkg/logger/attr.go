package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// maxUserAgentLen bounds how much of a raw user agent ends up in a log line.
const maxUserAgentLen = 512

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserAgent records the raw user-agent string under "user_agent",
// truncated to keep hostile inputs from flooding the log.
func UserAgent(ua string) slog.Attr {
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen] + "..."
	}
	return slog.String("user_agent", ua)
}

// SourceField records the event field a value was read from.
func SourceField(ref string) slog.Attr {
	return slog.String("source_field", ref)
}

// Layout records the output layout name.
func Layout(name string) slog.Attr {
	return slog.String("layout", name)
}

// CacheCapacity records a cache bound under "cache_capacity".
func CacheCapacity(n int) slog.Attr {
	return slog.Int("cache_capacity", n)
}

// Count records a number of processed items under "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
