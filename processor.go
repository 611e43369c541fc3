package genetic_paths

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

type RunState byte

const (
	Limbo RunState = iota
	Play
	Pause
	Stop
)

var runStateNames = []string{"limbo", "play", "pause", "stop"}

func (s RunState) String() string {
	if int(s) < len(runStateNames) {
		return runStateNames[s]
	}
	return fmt.Sprintf("RunState(%d)", s)
}

func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RunState) UnmarshalText(text []byte) error {
	i, err := lookupName("run state", runStateNames, string(text))
	if err != nil {
		return err
	}
	*s = RunState(i)
	return nil
}

var transitions = map[RunState][]RunState{
	Limbo: {Play},
	Play:  {Pause, Stop},
	Pause: {Play, Stop},
}

// CanTransition reports whether a run may move from one state to another.
func CanTransition(from, to RunState) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Controller is the control surface of a run. It owns the generation
// engine and the history, drives them from Tick, and is the only place the
// run state changes. Not safe for concurrent use.
type Controller struct {
	Engine      *GenerationEngine
	History     *HistoryStore
	Store       *Persistence
	Config      *RunConfig
	Diagnostics *Diagnostics

	state    RunState
	timer    float32
	lastBlob []byte
	lastRun  *Run
}

// NewController wires a run from config. An invalid config is returned as
// a *ConfigurationError and no controller is built. store may be nil, in
// which case stopped runs are only kept in memory until the next stop.
// A non-zero Run.Seed gives the engine its own seeded source, so two
// controllers built from the same config evolve the same generations.
func NewController(config *Config, env Environment, store *Persistence, diag *Diagnostics) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if diag == nil {
		diag = NewDiagnostics()
	}
	var r Rand
	if config.Run.Seed != 0 {
		r = NewSeededRand(config.Run.Seed)
	}
	history := NewHistoryStore(config.Run.HistoryCapacity)
	return &Controller{
		Engine:      NewGenerationEngine(config, env, history, diag, r),
		History:     history,
		Store:       store,
		Config:      config.Run,
		Diagnostics: diag,
	}, nil
}

func (c *Controller) State() RunState {
	return c.state
}

// RequestStateChange applies a transition if it is allowed. A rejected
// transition leaves the state as it was. Stop only marks the run: State
// reports Stop until the next Tick serializes the history and resets to
// Limbo.
func (c *Controller) RequestStateChange(next RunState) error {
	if !CanTransition(c.state, next) {
		err := fmt.Errorf("%s -> %s: %w", c.state, next, ErrInvalidTransition)
		c.Diagnostics.Publish(Event{
			Kind:       TransitionRejected,
			Level:      WarnLevel,
			Generation: c.Engine.Generation(),
			Message:    "Rejected run state change",
			Err:        err,
		})
		return err
	}
	c.setState(next)
	return nil
}

func (c *Controller) setState(next RunState) {
	prev := c.state
	c.state = next
	if prev == next {
		return
	}
	c.Diagnostics.Publish(Event{
		Kind:       StateChanged,
		Level:      InfoLevel,
		Generation: c.Engine.Generation(),
		Message:    "Run state changed",
		Fields:     map[string]any{"from": prev.String(), "to": next.String()},
	})
}

// Tick advances the run by dt seconds. While playing, one generation runs
// each time the timer runs out. A stop requested since the last tick is
// carried out here.
func (c *Controller) Tick(dt float32) error {
	if c.Config.AutoRun && c.state == Limbo {
		c.setState(Play)
	}

	switch c.state {
	case Play:
		c.timer -= dt
		if c.timer < 0 {
			c.timer = c.Config.TimeBetweenGenerations
			if _, err := c.Engine.Step(); err != nil {
				return err
			}
		}
	case Pause:
		stats := c.Engine.LastStats()
		c.Diagnostics.Publish(Event{
			Kind:       StatsRepublished,
			Level:      DebugLevel,
			Generation: c.Engine.Generation(),
			Message:    "Paused",
			Stats:      &stats,
		})
	case Stop:
		return c.stop()
	}
	return nil
}

// stop serializes what was recorded, persists it when a store is attached,
// and returns the controller to a clean Limbo. The reset happens even when
// persisting fails; the blob stays available from LastBlob.
func (c *Controller) stop() error {
	generations := c.History.Len()
	blob, err := c.serialize()

	c.Engine.Reset()
	c.History.Clear()
	c.timer = 0
	c.setState(Limbo)

	if err != nil {
		c.Diagnostics.Publish(Event{
			Kind:    RunStopped,
			Level:   ErrorLevel,
			Message: "Run stopped, saving its history failed",
			Err:     err,
		})
		return err
	}
	fields := map[string]any{
		"generations": generations,
		"size":        humanize.Bytes(uint64(len(blob))),
	}
	if c.lastRun != nil {
		fields["run"] = c.lastRun.UUID
	}
	c.Diagnostics.Publish(Event{
		Kind:    RunStopped,
		Level:   InfoLevel,
		Message: "Run stopped",
		Fields:  fields,
	})
	return nil
}

func (c *Controller) serialize() ([]byte, error) {
	if c.Store == nil {
		blob, err := c.History.Serialize()
		if err != nil {
			return nil, err
		}
		c.lastBlob = blob
		return blob, nil
	}
	run, err := c.Store.SaveHistory(c.History)
	if err != nil {
		return nil, err
	}
	c.lastBlob = run.History
	c.lastRun = run
	return run.History, nil
}

// RequestSerialize encodes the history recorded so far, and saves it as a
// new run when a store is attached.
func (c *Controller) RequestSerialize() ([]byte, error) {
	blob, err := c.serialize()
	if err != nil {
		return nil, err
	}
	c.Diagnostics.Publish(Event{
		Kind:       HistorySerialized,
		Level:      InfoLevel,
		Generation: c.Engine.Generation(),
		Message:    "History serialized",
		Fields: map[string]any{
			"generations": c.History.Len(),
			"size":        humanize.Bytes(uint64(len(blob))),
		},
	})
	return blob, nil
}

// RequestDeserialize restores the most recently persisted run.
func (c *Controller) RequestDeserialize() error {
	if c.Store == nil {
		return ErrNoPersistence
	}
	run, err := c.Store.LoadLatest()
	if err != nil {
		return err
	}
	if err := c.Restore(run.History); err != nil {
		return fmt.Errorf("restoring run %s: %w", run.UUID, err)
	}
	c.lastRun = run
	return nil
}

// Restore replaces the history with a serialized one and loads its last
// generation as the live population, ready to continue from Limbo. Nothing
// changes when the blob is rejected.
func (c *Controller) Restore(blob []byte) error {
	if err := c.History.Deserialize(blob); err != nil {
		return err
	}
	c.Engine.Reset()
	if latest := c.History.Latest(); latest != nil {
		c.Engine.Resume(latest)
	}
	c.timer = 0
	c.forceLimbo()
	c.Diagnostics.Publish(Event{
		Kind:       HistoryRestored,
		Level:      InfoLevel,
		Generation: c.Engine.Generation(),
		Message:    "History restored",
		Fields:     map[string]any{"generations": c.History.Len()},
	})
	return nil
}

// SetScrub shows recorded generation i as the live population without
// evolving it. Scrubbing always puts the run in Limbo.
func (c *Controller) SetScrub(i int) error {
	record, err := c.History.At(i)
	if err != nil {
		return err
	}
	c.Engine.Load(record)
	c.forceLimbo()
	c.Diagnostics.Publish(Event{
		Kind:       HistoryScrubbed,
		Level:      DebugLevel,
		Generation: record.Generation,
		Message:    "Scrubbed to recorded generation",
	})
	return nil
}

// forceLimbo bypasses the transition table; only history operations use it.
func (c *Controller) forceLimbo() {
	c.setState(Limbo)
}

func (c *Controller) GenerationCount() uint32 {
	return c.Engine.Generation()
}

// LastBlob is the history blob written by the most recent serialize or
// stop, nil if there has not been one.
func (c *Controller) LastBlob() []byte {
	return c.lastBlob
}

// LastRun is the run most recently saved to or loaded from the store.
func (c *Controller) LastRun() *Run {
	return c.lastRun
}

func (c *Controller) GenerationInfoText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "State: %s\n", c.state)
	if c.History.Len() == 0 && c.Engine.Generation() == 0 {
		sb.WriteString("No generations yet\n")
		return sb.String()
	}
	sb.WriteString(c.Engine.LastStats().Text())
	fmt.Fprintf(&sb, "Recorded generations: %s\n", humanize.Comma(int64(c.History.Len())))
	if fittest := c.Engine.Population.Fittest(); fittest != nil {
		fmt.Fprintf(&sb, "Fittest path: %d nodes, length %.1f, fitness %.3f\n",
			fittest.NodeCount(), fittest.Length, fittest.Fitness)
	}
	return sb.String()
}
