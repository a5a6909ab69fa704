package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// cupsHandler renders records as single lines the spooler's log
// channel understands: a level marker, the message, then key=value
// attributes. Multi-line messages would be misread by the spooler, so
// newlines are flattened.
type cupsHandler struct {
	mu     sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
}

func newCUPSHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &cupsHandler{writer: w, level: lvl}
}

func (h *cupsHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *cupsHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	buf.Grow(128)

	buf.WriteString(levelMarker(record.Level))
	buf.WriteString(flattenLine(record.Message))

	writeAttr := func(attr slog.Attr, groups []string) {
		if attr.Equal(slog.Attr{}) {
			return
		}
		buf.WriteByte(' ')
		if len(groups) > 0 {
			buf.WriteString(strings.Join(groups, "."))
			buf.WriteByte('.')
		}
		buf.WriteString(attr.Key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(attr.Value))
	}

	for _, attr := range h.attrs {
		writeAttr(attr, h.groups)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(attr, h.groups)
		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *cupsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &cupsHandler{writer: h.writer, level: h.level, groups: h.groups}
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return clone
}

func (h *cupsHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := &cupsHandler{writer: h.writer, level: h.level, attrs: h.attrs}
	clone.groups = append(append([]string{}, h.groups...), name)
	return clone
}

func levelMarker(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG: "
	case level < slog.LevelWarn:
		return "INFO: "
	case level < slog.LevelError:
		return "WARNING: "
	default:
		return "ERROR: "
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	s := fmt.Sprintf("%v", v.Any())
	s = flattenLine(s)
	if strings.ContainsAny(s, " \t\"") || s == "" {
		return strconv.Quote(s)
	}
	return s
}

func flattenLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	replacer := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	return replacer.Replace(s)
}
