package app

import (
	"fmt"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reviewexplorer/desktop/explorer"
)

const fyneAppID = "reviewexplorer.desktop"

// Run loads configuration, wires the session controller to the analytics
// service and starts the desktop UI.
func Run() error {
	cfg, err := explorer.LoadConfig("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	client := explorer.NewClient(cfg.APIBaseURL, log)
	log.Info("starting review explorer", zap.String("api", cfg.APIBaseURL))

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, cfg, client, log)
	u.w.ShowAndRun()
	return nil
}

func newLogger(levelStr string) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	log, _ := cfg.Build()
	return log
}
