package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger writes warnings as JSON to stderr, or everything in console form when verbose.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	sink := zapcore.AddSync(stderr)
	if verbose {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(encoder, sink, zap.DebugLevel), zap.Development())
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, sink, zap.WarnLevel))
}
