// Package camera eases the view toward a focus point.
//
// The Controller is a two-state machine (Idle, Transitioning) advanced by
// the host's frame tick. It owns the in-flight Transition exclusively and
// suspends manual camera input for the duration of a transition.
//
// Frame callbacks are identified by a generation number. Focus and Cancel
// bump the generation, so a callback scheduled for an older transition is
// recognised as stale by Frame and must not be rescheduled.
package camera

import (
	"time"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/logging"
	"github.com/litescript/ls-jiazi/internal/timeutil"
)

// Input is the manual camera input subsystem (pan/zoom/rotate).
type Input interface {
	Suspend()
	Resume()
}

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateTransitioning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTransitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// Policy decides what a focus request does while a transition is running.
type Policy int

const (
	// PolicyPreempt restarts from the current interpolated pose.
	PolicyPreempt Policy = iota
	// PolicyIgnore drops requests until the running transition finishes.
	PolicyIgnore
)

// ParsePolicy parses "preempt" or "ignore". Anything else is preempt.
func ParsePolicy(s string) Policy {
	if s == "ignore" {
		return PolicyIgnore
	}
	return PolicyPreempt
}

// FramingDirection is the offset direction from a target to the camera.
var FramingDirection = astro.Vec3{X: 1, Y: 0.6, Z: 1}

// Pose is the camera position and the point it looks at.
type Pose struct {
	Position astro.Vec3
	Target   astro.Vec3
}

// Transition is the in-flight animation.
type Transition struct {
	StartPos    astro.Vec3
	StartTarget astro.Vec3
	EndPos      astro.Vec3
	EndTarget   astro.Vec3
	StartTime   time.Time
	Duration    time.Duration
	Active      bool
}

// Progress returns the clamped linear progress at now.
func (t Transition) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return clamp01(float64(now.Sub(t.StartTime)) / float64(t.Duration))
}

// PoseAt interpolates the pose at a linear progress value in [0, 1].
func (t Transition) PoseAt(progress float64) Pose {
	eased := Ease(clamp01(progress))
	return Pose{
		Position: t.StartPos.Lerp(t.EndPos, eased),
		Target:   t.StartTarget.Lerp(t.EndTarget, eased),
	}
}

// Config tunes the controller.
type Config struct {
	Duration time.Duration
	Distance float64
	Policy   Policy
}

// DefaultConfig returns the standard 1.2s preempting transition.
func DefaultConfig() Config {
	return Config{
		Duration: 1200 * time.Millisecond,
		Distance: 12,
		Policy:   PolicyPreempt,
	}
}

// Controller drives camera focus transitions.
type Controller struct {
	clock timeutil.Clock
	input Input
	cfg   Config
	log   *logging.Logger

	pose       Pose
	tr         Transition
	generation uint64
	pending    bool
	suspended  bool
}

// New creates an idle controller at the initial pose. input may be nil.
func New(clock timeutil.Clock, input Input, initial Pose, cfg Config, log *logging.Logger) *Controller {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if log == nil {
		log = logging.Discard()
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultConfig().Duration
	}
	return &Controller{
		clock: clock,
		input: input,
		cfg:   cfg,
		log:   log,
		pose:  initial,
	}
}

// FramePosition returns the camera position used to frame target.
func (c *Controller) FramePosition(target astro.Vec3) astro.Vec3 {
	return target.Add(FramingDirection.Scale(c.cfg.Distance))
}

// Focus starts a transition toward target and returns the generation the
// host must pass back to Frame. accepted is false when the request is
// dropped under PolicyIgnore.
func (c *Controller) Focus(target astro.Vec3) (generation uint64, accepted bool) {
	now := c.clock.Now()

	if c.tr.Active {
		if c.cfg.Policy == PolicyIgnore {
			c.log.Debug("camera: focus ignored, transition in progress")
			return c.generation, false
		}
		c.pose = c.tr.PoseAt(c.tr.Progress(now))
	}

	c.generation++
	c.tr = Transition{
		StartPos:    c.pose.Position,
		StartTarget: c.pose.Target,
		EndPos:      c.FramePosition(target),
		EndTarget:   target,
		StartTime:   now,
		Duration:    c.cfg.Duration,
		Active:      true,
	}
	c.pending = true
	c.suspendInput()

	c.log.Debug("camera: focus gen=%d target=(%.2f, %.2f, %.2f)", c.generation, target.X, target.Y, target.Z)
	return c.generation, true
}

// Tick advances the running transition to the clock's current time and
// returns the camera pose. It is a no-op while idle.
func (c *Controller) Tick() Pose {
	if !c.tr.Active {
		return c.pose
	}
	progress := c.tr.Progress(c.clock.Now())
	c.pose = c.tr.PoseAt(progress)
	if progress >= 1 {
		c.finish()
	}
	return c.pose
}

// Frame handles a scheduled frame callback. It returns the current pose and
// whether another frame should be scheduled. Stale generations do nothing.
func (c *Controller) Frame(generation uint64) (Pose, bool) {
	if generation != c.generation || !c.tr.Active {
		return c.pose, false
	}
	pose := c.Tick()
	return pose, c.tr.Active
}

// Cancel tears down an in-flight transition: pending frames become stale,
// manual input is resumed and the camera stays where it is.
func (c *Controller) Cancel() {
	c.generation++
	if c.tr.Active {
		c.log.Debug("camera: transition cancelled")
	}
	c.tr.Active = false
	c.pending = false
	c.resumeInput()
}

// SetPose moves the camera directly, as manual input does. It is refused
// while a transition owns the camera.
func (c *Controller) SetPose(p Pose) bool {
	if c.tr.Active {
		return false
	}
	c.pose = p
	return true
}

// Pose returns the last computed pose.
func (c *Controller) Pose() Pose {
	return c.pose
}

// State returns Idle or Transitioning.
func (c *Controller) State() State {
	if c.tr.Active {
		return StateTransitioning
	}
	return StateIdle
}

// Transition returns a copy of the current (or last) transition.
func (c *Controller) Transition() Transition {
	return c.tr
}

// Generation returns the current frame generation.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Pending reports whether a frame callback is expected.
func (c *Controller) Pending() bool {
	return c.pending
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) finish() {
	c.tr.Active = false
	c.pending = false
	c.resumeInput()
	c.log.Debug("camera: transition gen=%d complete", c.generation)
}

func (c *Controller) suspendInput() {
	if c.suspended {
		return
	}
	if c.input != nil {
		c.input.Suspend()
	}
	c.suspended = true
}

func (c *Controller) resumeInput() {
	if !c.suspended {
		return
	}
	if c.input != nil {
		c.input.Resume()
	}
	c.suspended = false
}
