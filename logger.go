package asyncrt

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger every runtime component logs through.
// It is a thin alias over logiface's generic Logger, fixed to stumpy's
// event type: stumpy gives a zero-dependency-beyond-logiface JSON writer
// suitable as a library default, while still letting an embedding
// application swap in its own logiface backend (zerolog, logrus, slog)
// by constructing its own *logiface.Logger[*stumpy.Event] equivalent and
// passing it via WithLogger.
type Logger = logiface.Logger[*stumpy.Event]

// newDefaultLogger builds the logger used when an Executor is constructed
// without WithLogger: stumpy writing to the configured io.Writer (stderr
// by default), at Info level.
func newDefaultLogger() *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		logiface.WithLevel[*stumpy.Event](logiface.LevelInformational),
	)
}

// nopLogger disables logging entirely (WithLogger(nil)).
func nopLogger() *Logger {
	return stumpy.L.New(
		logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled),
	)
}
