package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a development logger in debug mode and a JSON production logger otherwise.
func New(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"

	return config.Build()
}

// Init installs a new logger as the zap global and returns a func that flushes it.
func Init(debug bool) func() {
	log, err := New(debug)
	if err != nil {
		panic(err)
	}
	undo := zap.ReplaceGlobals(log)
	return func() {
		_ = log.Sync()
		undo()
	}
}
