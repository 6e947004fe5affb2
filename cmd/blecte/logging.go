//go:build !tinygo && !baremetal

package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("blecte")

var stderrFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} ▶ %{message}%{color:reset}`,
)

// SetupLogging installs a stderr backend. level is a go-logging level name;
// an empty or unknown name falls back to defaultLevel.
func SetupLogging(prefix string, level string, defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, stderrFormat)
	leveled := logging.AddModuleLevel(formatted)

	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if level == "" || err != nil {
		lvl = defaultLevel
	}
	leveled.SetLevel(lvl, prefix)
	logging.SetBackend(leveled)
	return log
}

// slogHandler forwards driver slog records to a go-logging logger.
type slogHandler struct {
	log    *logging.Logger
	attrs  string
	prefix string
}

func newSlogHandler(l *logging.Logger) *slogHandler {
	return &slogHandler{log: l}
}

func goLoggingLevel(l slog.Level) logging.Level {
	switch {
	case l >= slog.LevelError:
		return logging.ERROR
	case l >= slog.LevelWarn:
		return logging.WARNING
	case l >= slog.LevelInfo:
		return logging.INFO
	}
	return logging.DEBUG
}

func (h *slogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.log.IsEnabledFor(goLoggingLevel(l))
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, a)
		return true
	})

	msg := sb.String()
	switch goLoggingLevel(r.Level) {
	case logging.ERROR:
		h.log.Errorf("%s", msg)
	case logging.WARNING:
		h.log.Warningf("%s", msg)
	case logging.INFO:
		h.log.Infof("%s", msg)
	default:
		h.log.Debugf("%s", msg)
	}
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&sb, a)
	}
	h2 := *h
	h2.attrs = sb.String()
	return &h2
}

func (h *slogHandler) appendAttr(sb *strings.Builder, a slog.Attr) {
	sb.WriteByte(' ')
	sb.WriteString(h.prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}
