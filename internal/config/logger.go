package config

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

func InitLogger() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if os.Getenv("ENV") != "production" {
		opts.AddSource = true
		opts.ReplaceAttr = replaceTimeAttr
	}

	Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(Logger)

	slog.Info("logger initialized")
}

func replaceTimeAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String("time", a.Value.Time().Local().Format("2006-01-02 15:04:05"))
	}
	return a
}
