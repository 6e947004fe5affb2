package transport

import (
	"context"
	"log/slog"
)

const levelTrace = slog.LevelDebug - 1

func (r *Radio) warn(msg string, attrs ...slog.Attr) {
	r.logattrs(slog.LevelWarn, msg, attrs...)
}

func (r *Radio) info(msg string, attrs ...slog.Attr) {
	r.logattrs(slog.LevelInfo, msg, attrs...)
}

func (r *Radio) debug(msg string, attrs ...slog.Attr) {
	r.logattrs(slog.LevelDebug, msg, attrs...)
}

func (r *Radio) trace(msg string, attrs ...slog.Attr) {
	r.logattrs(levelTrace, msg, attrs...)
}

func (r *Radio) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	if r.cfg.Logger == nil {
		return
	}
	r.cfg.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}
