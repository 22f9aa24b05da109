package openni

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// A Session owns one fully initialized sensor context with a depth node and
// a user node, or nothing at all. Open and Close move between the two
// states; a failed Open leaves no partial handles behind.
//
// A Session is driven from a single caller thread. Only the registered
// EventSink sees SDK threads.
type Session struct {
	driver     Driver
	sink       EventSink
	logger     golog.Logger
	mapMode    MapMode
	configPath string

	sensorCtx Context
	depth     DepthNode
	user      UserNode
}

// NewSession returns a closed session that will open devices through driver
// and deliver user events to sink.
func NewSession(driver Driver, sink EventSink, logger golog.Logger) *Session {
	return &Session{
		driver:     driver,
		sink:       sink,
		logger:     logger,
		mapMode:    VGA30,
		configPath: SampleConfigPath,
	}
}

// MapMode returns the mode the depth node is configured to.
func (s *Session) MapMode() MapMode {
	return s.mapMode
}

// Open initializes the sensor context, creates and configures both nodes,
// registers user callbacks, and starts generating. On failure it tears down
// whatever was created and returns an InitError naming the failed stage.
func (s *Session) Open() error {
	if s.sensorCtx != nil {
		return errors.New("session already open")
	}

	sensorCtx, err := s.driver.NewContext(s.configPath)
	if err != nil {
		return &InitError{Stage: StageContext, Cause: err}
	}

	failed := func(stage InitStage, cause error) error {
		if shutdownErr := sensorCtx.Shutdown(); shutdownErr != nil {
			s.logger.Errorw("shutdown after failed init", "stage", stage, "error", shutdownErr)
		}
		return &InitError{Stage: stage, Cause: cause}
	}

	depth, err := sensorCtx.NewDepthNode()
	if err != nil {
		return failed(StageDepthNode, err)
	}
	if err := depth.SetMapMode(s.mapMode); err != nil {
		return failed(StageMapMode, err)
	}

	user, err := sensorCtx.NewUserNode()
	if err != nil {
		return failed(StageUserNode, err)
	}
	if err := user.RegisterCallbacks(s.sink); err != nil {
		return failed(StageUserNode, err)
	}

	if err := sensorCtx.StartGenerating(); err != nil {
		return failed(StageStartGenerating, err)
	}

	s.sensorCtx = sensorCtx
	s.depth = depth
	s.user = user
	return nil
}

// Close shuts the sensor context down. It is a no-op on an already closed
// session.
func (s *Session) Close() error {
	if s.sensorCtx == nil {
		return nil
	}
	err := s.sensorCtx.Shutdown()
	s.sensorCtx = nil
	s.depth = nil
	s.user = nil
	return err
}

// WaitNext blocks until the next synchronized frame is available. Failures,
// including context expiry imposed by the caller, are returned as a
// WaitError and leave the previous frame's buffers untouched.
func (s *Session) WaitNext(ctx context.Context) error {
	if s.sensorCtx == nil {
		return errors.New("session is closed")
	}
	if err := s.sensorCtx.WaitNext(ctx); err != nil {
		return &WaitError{Cause: err}
	}
	return nil
}

// DepthBuffer returns the current frame's depth samples in millimeters,
// row-major. Borrowed; valid only until the next WaitNext.
func (s *Session) DepthBuffer() []uint16 {
	return s.depth.DepthBuffer()
}

// UserLabelBuffer returns the current frame's per-pixel user labels,
// row-major, 0 for background. Borrowed; valid only until the next WaitNext.
func (s *Session) UserLabelBuffer() []uint16 {
	return s.user.LabelBuffer()
}

// TrackedUsers returns up to max currently tracked user ids. The result is
// advisory.
func (s *Session) TrackedUsers(max int) ([]UserID, error) {
	return s.user.TrackedUsers(max)
}
