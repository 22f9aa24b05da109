package openni

import "github.com/edaniels/golog"

// An EventSink receives user appearance notifications. The SDK invokes it
// from threads of its own choosing, so implementations must synchronize
// internally and must not reach into session-owned state.
type EventSink interface {
	// UserFound reports that a new tracked user is visible.
	UserFound(id UserID)

	// UserLost reports that a tracked user has been missing beyond the
	// SDK's grace window.
	UserLost(id UserID)
}

// A LogSink appends one diagnostic line per user event. zap cores serialize
// writes, so it is safe from SDK threads as-is.
type LogSink struct {
	logger golog.Logger
}

// NewLogSink returns a sink that logs user events through logger.
func NewLogSink(logger golog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) UserFound(id UserID) {
	s.logger.Infof("New User: %d", id)
}

func (s *LogSink) UserLost(id UserID) {
	s.logger.Infof("Lost user: %d", id)
}
