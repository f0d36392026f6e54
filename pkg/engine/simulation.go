// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/opd-ai/go-topdrive/pkg/config"
	"github.com/opd-ai/go-topdrive/pkg/control"
	"github.com/opd-ai/go-topdrive/pkg/event"
	"github.com/opd-ai/go-topdrive/pkg/logging"
	"github.com/opd-ai/go-topdrive/pkg/physics"
	"github.com/opd-ai/go-topdrive/pkg/telemetry"
)

// Status is the lifecycle state of a simulation.
type Status int

const (
	StatusWaiting Status = iota
	StatusRunning
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the simulation handed to renderers.
type Snapshot struct {
	Tick          uint64
	State         physics.VehicleState
	LimiterActive bool
	// Edges touched during the last tick.
	Contact  physics.Contact
	BaseZoom float64
	Status   Status
}

// Simulation owns one vehicle and advances it one tick at a time. Tick is
// meant to be driven from a single goroutine; Snapshot, SetBaseZoom and the
// lifecycle methods are safe from any goroutine.
type Simulation struct {
	Config   *config.SimConfig
	EventBus *event.Bus

	mu     sync.RWMutex
	engine *physics.Engine
	state  physics.VehicleState
	tick   uint64
	status Status
	trips  uint64

	baseZoom atomic.Uint64 // math.Float64bits

	clock    clock.Clock
	logger   *logging.Logger
	recorder *telemetry.Recorder
	ctx      context.Context
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(s *Simulation) {
		s.recorder = r
	}
}

// WithClock sets the clock used by the rev limiter and the headless loop.
func WithClock(c clock.Clock) Option {
	return func(s *Simulation) {
		s.clock = c
	}
}

// WithContext sets the context carried into log entries and metrics,
// typically one holding a run ID.
func WithContext(ctx context.Context) Option {
	return func(s *Simulation) {
		s.ctx = ctx
	}
}

// NewSimulation creates a simulation with the specified configuration
func NewSimulation(cfg *config.SimConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, errors.New("simulation config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		Config:   cfg,
		EventBus: event.NewEventBus(),
		status:   StatusWaiting,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.recorder == nil {
		rec, err := telemetry.NewRecorder(nil)
		if err != nil {
			return nil, logging.WrapError(err, "creating metrics recorder")
		}
		s.recorder = rec
	}

	tuning := cfg.Tuning()
	s.engine = physics.NewEngine(tuning, physics.WithClock(s.clock))
	s.state = physics.NewVehicleState(tuning)
	s.SetBaseZoom(cfg.Display.BaseZoom)

	return s, nil
}

// Start marks the simulation running
func (s *Simulation) Start() {
	s.mu.Lock()
	s.status = StatusRunning
	tick := s.tick
	s.mu.Unlock()

	s.logger.Info(s.ctx, "Simulation started", "preset", s.Config.Preset)
	s.EventBus.Publish(event.NewEvent(event.SimulationStarted, s, tick))
}

// Stop marks the simulation stopped
func (s *Simulation) Stop() {
	s.mu.Lock()
	if s.status == StatusStopped {
		s.mu.Unlock()
		return
	}
	s.status = StatusStopped
	tick := s.tick
	s.mu.Unlock()

	s.logger.Info(s.ctx, "Simulation stopped", "tick", tick)
	s.EventBus.Publish(event.NewEvent(event.SimulationStopped, s, tick))
}

// Restart replaces the vehicle with a fresh one at the start position.
func (s *Simulation) Restart() {
	s.mu.Lock()
	s.state = physics.NewVehicleState(s.engine.Tuning())
	s.engine.Reset()
	s.tick = 0
	s.trips = 0
	s.mu.Unlock()

	s.logger.Info(s.ctx, "Simulation restarted")
	s.EventBus.Publish(event.NewEvent(event.SimulationRestarted, s, 0))
}

// Status returns the lifecycle state.
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetBaseZoom sets the camera scale at rest, clamped to the configured
// range, and returns the value applied. It takes effect on the next tick.
func (s *Simulation) SetBaseZoom(z float64) float64 {
	d := s.Config.Display
	if math.IsNaN(z) {
		z = d.BaseZoom
	}
	z = math.Max(d.MinBaseZoom, math.Min(d.MaxBaseZoom, z))
	s.baseZoom.Store(math.Float64bits(z))
	return z
}

// AdjustBaseZoom moves the base zoom by steps of Display.ZoomStep.
func (s *Simulation) AdjustBaseZoom(steps int) float64 {
	return s.SetBaseZoom(s.BaseZoom() + float64(steps)*s.Config.Display.ZoomStep)
}

// BaseZoom returns the camera scale at rest.
func (s *Simulation) BaseZoom() float64 {
	return math.Float64frombits(s.baseZoom.Load())
}

// Tick advances the vehicle by one step and returns the resulting snapshot.
// Events raised by the step are published after the state lock is released,
// so handlers may call back into the simulation.
func (s *Simulation) Tick(in control.Intent) Snapshot {
	s.mu.Lock()
	prev := s.state
	prevContact := s.engine.Contact()
	s.state = s.engine.Update(s.state, in, s.BaseZoom())
	s.tick++

	tripped := s.engine.LimiterTrips() != s.trips
	s.trips = s.engine.LimiterTrips()

	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.recorder.RecordTick(s.ctx, snap.State.MphSpeed, snap.State.Gear.String())

	if prev.Gear != snap.State.Gear {
		from, to := prev.Gear.String(), snap.State.Gear.String()
		s.logger.Debug(s.ctx, "Gear changed", "from", from, "to", to, "tick", snap.Tick)
		s.recorder.RecordShift(s.ctx, from, to)
		s.EventBus.Publish(event.NewGearEvent(s, snap.Tick, from, to))
	}
	if tripped {
		s.logger.Debug(s.ctx, "Rev limiter tripped", "rpm", snap.State.RPM, "tick", snap.Tick)
		s.recorder.RecordLimiterTrip(s.ctx)
		s.EventBus.Publish(event.NewEngineEvent(s, snap.Tick, snap.State.RPM))
	}
	if fresh := newEdges(prevContact, snap.Contact); fresh.Any() {
		s.logger.Debug(s.ctx, "Boundary contact", "x", snap.State.Position.X, "y", snap.State.Position.Y)
		s.recorder.RecordContact(s.ctx)
		s.EventBus.Publish(event.NewContactEvent(s, snap.Tick, fresh.Left, fresh.Right, fresh.Top, fresh.Bottom))
	}

	return snap
}

// newEdges returns the edges touched now that were not touched before.
func newEdges(before, now physics.Contact) physics.Contact {
	return physics.Contact{
		Left:   now.Left && !before.Left,
		Right:  now.Right && !before.Right,
		Top:    now.Top && !before.Top,
		Bottom: now.Bottom && !before.Bottom,
	}
}

// Snapshot returns a copy of the current simulation state
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Simulation) snapshotLocked() Snapshot {
	return Snapshot{
		Tick:          s.tick,
		State:         s.state,
		LimiterActive: s.engine.LimiterActive(),
		Contact:       s.engine.Contact(),
		BaseZoom:      s.BaseZoom(),
		Status:        s.status,
	}
}

// Finisher is implemented by intent sources that can run out, such as
// non-looping scripts.
type Finisher interface {
	Done() bool
}

// Run drives the simulation at Loop.TickRate from src until ctx is
// cancelled, Loop.MaxTicks ticks have run, or src reports it is done.
// sink, if not nil, receives every snapshot on the loop goroutine.
// Cancellation returns ctx.Err(); the other endings return nil.
func (s *Simulation) Run(ctx context.Context, src control.Source, sink func(Snapshot)) error {
	if src == nil {
		return errors.New("intent source is nil")
	}

	ticker := s.clock.Ticker(s.Config.TickInterval())
	defer ticker.Stop()

	s.Start()
	defer s.Stop()

	maxTicks := s.Config.Loop.MaxTicks
	var ran int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if f, ok := src.(Finisher); ok && f.Done() {
			return nil
		}
		snap := s.Tick(src.Sample())
		if sink != nil {
			sink(snap)
		}

		ran++
		if maxTicks > 0 && ran >= maxTicks {
			return nil
		}
	}
}
