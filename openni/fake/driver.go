// Package fake implements a scripted depth SDK for tests: frames, wait
// failures, and per-stage init failures are all injectable, and user events
// are delivered from a separate goroutine the way a native SDK would.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"go.viam.com/fluidwall/openni"
)

// A Frame is one scripted synchronized frame: pixel-aligned depth samples
// and user labels.
type Frame struct {
	Depth  []uint16
	Labels []uint16
}

// UniformFrame returns a frame with every depth sample set to depthMM and
// every label set to label.
func UniformFrame(mode openni.MapMode, depthMM, label uint16) Frame {
	n := mode.NumPixels()
	f := Frame{Depth: make([]uint16, n), Labels: make([]uint16, n)}
	for i := range f.Depth {
		f.Depth[i] = depthMM
		f.Labels[i] = label
	}
	return f
}

// FillDepthRect sets the depth of every pixel with x0 <= x < x1 and
// y0 <= y < y1 to depthMM.
func (f Frame) FillDepthRect(mode openni.MapMode, x0, y0, x1, y1 int, depthMM uint16) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.Depth[y*mode.Width+x] = depthMM
		}
	}
}

// FillLabelRect sets the label of every pixel with x0 <= x < x1 and
// y0 <= y < y1 to label.
func (f Frame) FillLabelRect(mode openni.MapMode, x0, y0, x1, y1 int, label uint16) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.Labels[y*mode.Width+x] = label
		}
	}
}

// A Driver is a scripted openni.Driver. The zero value is not usable; use
// NewDriver.
type Driver struct {
	mu     sync.Mutex
	logger golog.Logger
	mode   openni.MapMode

	frames   []Frame
	frameIdx int

	// FrameDelay, when set, makes WaitNext block that long per frame.
	FrameDelay time.Duration

	stageFailures map[openni.InitStage]error
	waitErrs      []error
	usersErr      error

	sink   openni.EventSink
	events sync.WaitGroup

	// OpenCount, ShutdownCount, and WaitCount track lifecycle traffic so
	// tests can observe session resets.
	OpenCount     atomic.Int64
	ShutdownCount atomic.Int64
	WaitCount     atomic.Int64
}

// NewDriver returns a driver producing all-zero frames in the given mode.
func NewDriver(mode openni.MapMode, logger golog.Logger) *Driver {
	return &Driver{
		logger:        logger,
		mode:          mode,
		frames:        []Frame{UniformFrame(mode, 0, 0)},
		frameIdx:      -1,
		stageFailures: map[openni.InitStage]error{},
	}
}

// ScriptFrames replaces the frame script and rewinds. Each successful
// WaitNext advances one frame; the last frame then repeats.
func (d *Driver) ScriptFrames(frames ...Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = frames
	d.frameIdx = -1
}

// QueueWaitError makes an upcoming WaitNext fail with err instead of
// producing a frame. Queued errors are consumed in order.
func (d *Driver) QueueWaitError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.waitErrs = append(d.waitErrs, err)
}

// FailStage makes the given init stage fail with err on every attempt until
// cleared with a nil err.
func (d *Driver) FailStage(stage openni.InitStage, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.stageFailures, stage)
		return
	}
	d.stageFailures[stage] = err
}

// FailTrackedUsers makes TrackedUsers return err until cleared with nil.
func (d *Driver) FailTrackedUsers(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.usersErr = err
}

// EmitUserFound delivers a user-appeared event to the registered sink from
// its own goroutine, as the native SDK does.
func (d *Driver) EmitUserFound(id openni.UserID) {
	d.emit(func(sink openni.EventSink) { sink.UserFound(id) })
}

// EmitUserLost delivers a user-disappeared event to the registered sink from
// its own goroutine.
func (d *Driver) EmitUserLost(id openni.UserID) {
	d.emit(func(sink openni.EventSink) { sink.UserLost(id) })
}

// WaitForEvents blocks until all emitted events have been delivered.
func (d *Driver) WaitForEvents() {
	d.events.Wait()
}

func (d *Driver) emit(deliver func(openni.EventSink)) {
	d.mu.Lock()
	sink := d.sink
	d.mu.Unlock()
	if sink == nil {
		return
	}
	d.events.Add(1)
	goutils.PanicCapturingGo(func() {
		defer d.events.Done()
		deliver(sink)
	})
}

// NewContext implements openni.Driver.
func (d *Driver) NewContext(configPath string) (openni.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.stageFailures[openni.StageContext]; err != nil {
		return nil, err
	}
	if configPath == "" {
		return nil, errors.New("missing configuration resource path")
	}
	d.logger.Debugw("fake sensor context created", "config", configPath)
	d.OpenCount.Inc()
	return &sensorContext{d: d}, nil
}

func (d *Driver) stageErr(stage openni.InitStage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stageFailures[stage]
}

func (d *Driver) currentFrame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.frameIdx
	if idx < 0 {
		idx = 0
	}
	return d.frames[idx]
}

func (d *Driver) popWaitErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.waitErrs) == 0 {
		return nil
	}
	err := d.waitErrs[0]
	d.waitErrs = d.waitErrs[1:]
	return err
}

func (d *Driver) advanceFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frameIdx < len(d.frames)-1 {
		d.frameIdx++
	}
}

type sensorContext struct {
	d      *Driver
	closed atomic.Bool
}

func (c *sensorContext) NewDepthNode() (openni.DepthNode, error) {
	if err := c.d.stageErr(openni.StageDepthNode); err != nil {
		return nil, err
	}
	return &depthNode{d: c.d}, nil
}

func (c *sensorContext) NewUserNode() (openni.UserNode, error) {
	if err := c.d.stageErr(openni.StageUserNode); err != nil {
		return nil, err
	}
	return &userNode{d: c.d}, nil
}

func (c *sensorContext) StartGenerating() error {
	return c.d.stageErr(openni.StageStartGenerating)
}

func (c *sensorContext) WaitNext(ctx context.Context) error {
	c.d.WaitCount.Inc()
	if c.closed.Load() {
		return errors.New("context is shut down")
	}
	if err := c.d.popWaitErr(); err != nil {
		return err
	}
	if c.d.FrameDelay > 0 {
		if !goutils.SelectContextOrWait(ctx, c.d.FrameDelay) {
			return ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	c.d.advanceFrame()
	return nil
}

func (c *sensorContext) Shutdown() error {
	if c.closed.Swap(true) {
		return errors.New("context already shut down")
	}
	c.d.ShutdownCount.Inc()
	return nil
}

type depthNode struct {
	d *Driver
}

func (n *depthNode) SetMapMode(mode openni.MapMode) error {
	if err := n.d.stageErr(openni.StageMapMode); err != nil {
		return err
	}
	if mode != n.d.mode {
		return errors.Errorf("unsupported map mode %dx%d@%dfps", mode.Width, mode.Height, mode.FPS)
	}
	return nil
}

func (n *depthNode) DepthBuffer() []uint16 {
	return n.d.currentFrame().Depth
}

type userNode struct {
	d *Driver
}

func (n *userNode) RegisterCallbacks(sink openni.EventSink) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	n.d.sink = sink
	return nil
}

func (n *userNode) LabelBuffer() []uint16 {
	return n.d.currentFrame().Labels
}

func (n *userNode) TrackedUsers(max int) ([]openni.UserID, error) {
	n.d.mu.Lock()
	usersErr := n.d.usersErr
	n.d.mu.Unlock()
	if usersErr != nil {
		return nil, usersErr
	}

	seen := map[openni.UserID]bool{}
	var ids []openni.UserID
	for _, label := range n.d.currentFrame().Labels {
		id := openni.UserID(label)
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == max {
			break
		}
	}
	return ids, nil
}
