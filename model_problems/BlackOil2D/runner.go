package BlackOil2D

import (
	"context"
	"time"

	"go.uber.org/atomic"
)

// DefaultInterval is the wall clock time between steps while playing
const DefaultInterval = 100 * time.Millisecond

// Runner drives an engine from a ticker. All engine access happens on the
// goroutine calling Run, so updates queued with Apply land between steps.
// Play, Pause, Apply, ApplyConfig and StepOnce may be called from any
// goroutine.
type Runner struct {
	Interval     time.Duration
	FinalTime    float64 // days, zero runs without a time limit
	MaxSteps     int     // zero runs without a step limit
	PauseOnReset bool

	engine  *Engine
	history *History
	playing *atomic.Bool
	updates chan func(*Engine)
	stepReq chan struct{}
	onStep  []func(Snapshot)
	onReset []func(Snapshot)
}

func NewRunner(c *Engine, interval time.Duration) (r *Runner) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r = &Runner{
		Interval:     interval,
		PauseOnReset: true,
		engine:       c,
		history:      NewHistory(DefaultHistoryCapacity),
		playing:      atomic.NewBool(false),
		updates:      make(chan func(*Engine), 16),
		stepReq:      make(chan struct{}, 1),
	}
	r.history.Add(NewSample(c.Snapshot()))
	return
}

// OnStep registers fn to receive each snapshot, called on the Run goroutine
func (r *Runner) OnStep(fn func(Snapshot)) { r.onStep = append(r.onStep, fn) }

// OnReset registers fn to receive the initial snapshot after a full reset
func (r *Runner) OnReset(fn func(Snapshot)) { r.onReset = append(r.onReset, fn) }

func (r *Runner) Play()         { r.playing.Store(true) }
func (r *Runner) Pause()        { r.playing.Store(false) }
func (r *Runner) Playing() bool { return r.playing.Load() }

// History is only safe to read from observers or after Run returns
func (r *Runner) History() *History { return r.history }

// Apply queues update to run against the engine before the next step
func (r *Runner) Apply(update func(*Engine)) { r.updates <- update }

// ApplyConfig queues a configuration change. A full reset clears the history.
func (r *Runner) ApplyConfig(cfg Config) {
	r.Apply(func(c *Engine) {
		reset, err := c.ApplyConfig(cfg)
		if err != nil {
			c.Logger.Error("configuration rejected", "error", err)
			return
		}
		if reset {
			r.reset()
		}
	})
}

// Reset queues a rebuild of the engine from its current configuration
func (r *Runner) Reset() {
	r.Apply(func(c *Engine) {
		if err := c.Reset(); err != nil {
			c.Logger.Error("reset failed", "error", err)
			return
		}
		r.reset()
	})
}

// StepOnce requests a single step, whether or not the runner is playing
func (r *Runner) StepOnce() {
	select {
	case r.stepReq <- struct{}{}:
	default:
	}
}

// Done is true once the time or step limit has been reached
func (r *Runner) Done() bool {
	return (r.FinalTime > 0 && r.engine.Time >= r.FinalTime) ||
		(r.MaxSteps > 0 && r.engine.Steps >= r.MaxSteps)
}

// Run steps the engine on every tick while playing until a limit is
// reached or ctx is done
func (r *Runner) Run(ctx context.Context) (err error) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-r.updates:
			update(r.engine)
		case <-r.stepReq:
			r.step()
		case <-ticker.C:
			if r.playing.Load() {
				r.step()
			}
		}
		if r.Done() {
			r.Pause()
			return nil
		}
	}
}

func (r *Runner) step() {
	snap := r.engine.Step()
	r.history.Add(NewSample(snap))
	for _, fn := range r.onStep {
		fn(snap)
	}
}

func (r *Runner) reset() {
	if r.PauseOnReset {
		r.Pause()
	}
	snap := r.engine.Snapshot()
	r.history.Reset()
	r.history.Add(NewSample(snap))
	for _, fn := range r.onReset {
		fn(snap)
	}
}
