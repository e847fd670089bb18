// Package logger sets up the application *slog.Logger, text in development
// and JSON in production.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// New sets up a *slog.Logger and returns it.
func New(level slog.Level, isProd bool, attrs ...slog.Attr) *slog.Logger {
	replacer := func(groups []string, a slog.Attr) slog.Attr {
		//just the file name and line number, not the full path
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok {
				return slog.Attr{
					Key:   slog.SourceKey,
					Value: slog.StringValue(fmt.Sprintf("file:%s:%d", filepath.Base(source.File), source.Line)),
				}
			}
			return a
		}
		return a
	}

	opts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: replacer,
	}

	textHandler := slog.NewTextHandler(os.Stdout, opts).WithAttrs(attrs)
	jsonHandler := slog.NewJSONHandler(os.Stdout, opts).WithAttrs(attrs)

	return slog.New(&switchingHandler{
		jsonHandler: jsonHandler,
		textHandler: textHandler,
		isProd:      isProd,
	})
}

// switchingHandler picks the handler based on the environment.
type switchingHandler struct {
	jsonHandler slog.Handler
	textHandler slog.Handler
	isProd      bool
}

func (sh *switchingHandler) handler() slog.Handler {
	if sh.isProd {
		return sh.jsonHandler
	}
	return sh.textHandler
}

func (sh *switchingHandler) Handle(ctx context.Context, record slog.Record) error {
	return sh.handler().Handle(ctx, record)
}

func (sh *switchingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.handler().Enabled(ctx, level)
}

func (sh *switchingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &switchingHandler{
		jsonHandler: sh.jsonHandler.WithAttrs(attrs),
		textHandler: sh.textHandler.WithAttrs(attrs),
		isProd:      sh.isProd,
	}
}

func (sh *switchingHandler) WithGroup(name string) slog.Handler {
	return &switchingHandler{
		jsonHandler: sh.jsonHandler.WithGroup(name),
		textHandler: sh.textHandler.WithGroup(name),
		isProd:      sh.isProd,
	}
}
