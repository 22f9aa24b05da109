package openni

import (
	"fmt"

	"github.com/pkg/errors"
)

// InitStage names the step of session initialization that failed.
type InitStage string

// Initialization stages, in order.
const (
	StageContext         InitStage = "context"
	StageDepthNode       InitStage = "depth_node"
	StageMapMode         InitStage = "map_mode"
	StageUserNode        InitStage = "user_node"
	StageStartGenerating InitStage = "start_generating"
)

// An InitError reports that a required native handle could not be created or
// configured. It is fatal to the session.
type InitError struct {
	Stage InitStage
	Cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("session init failed at %s: %v", e.Stage, e.Cause)
}

func (e *InitError) Unwrap() error {
	return e.Cause
}

// IsInitError returns whether err is a fatal initialization failure, and at
// which stage.
func IsInitError(err error) (InitStage, bool) {
	var ie *InitError
	if errors.As(err, &ie) {
		return ie.Stage, true
	}
	return "", false
}

// A WaitError reports that per-frame synchronization did not yield a frame.
// It is non-fatal; the caller may retry.
type WaitError struct {
	Cause error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("waiting for next frame: %v", e.Cause)
}

func (e *WaitError) Unwrap() error {
	return e.Cause
}

// IsWaitFailure returns whether err is a non-fatal frame wait failure.
func IsWaitFailure(err error) bool {
	var we *WaitError
	return errors.As(err, &we)
}
