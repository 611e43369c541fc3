package genetic_paths

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type EventKind byte

const (
	GenerationCompleted EventKind = iota
	GenerationSkipped
	DegenerateFitness
	StateChanged
	TransitionRejected
	HistorySerialized
	HistoryRestored
	HistoryScrubbed
	RunStopped
	StatsRepublished
)

var eventKindNames = []string{
	"generation_completed",
	"generation_skipped",
	"degenerate_fitness",
	"state_changed",
	"transition_rejected",
	"history_serialized",
	"history_restored",
	"history_scrubbed",
	"run_stopped",
	"stats_republished",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

type EventLevel byte

const (
	DebugLevel EventLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Event is one diagnostic published by the engine. Fields carries whatever
// extra context the publisher had; Stats is set on generation events.
type Event struct {
	Kind       EventKind
	Level      EventLevel
	Generation uint32
	Message    string
	Err        error
	Stats      *GenerationStats
	Fields     map[string]any
}

type Subscriber func(Event)

// Diagnostics fans events out to every subscriber, in subscription order,
// on the publishing goroutine.
type Diagnostics struct {
	subscribers []Subscriber
}

func NewDiagnostics(subscribers ...Subscriber) *Diagnostics {
	return &Diagnostics{subscribers: subscribers}
}

func (d *Diagnostics) Subscribe(s Subscriber) {
	d.subscribers = append(d.subscribers, s)
}

func (d *Diagnostics) Publish(e Event) {
	if d == nil {
		return
	}
	for _, s := range d.subscribers {
		s(e)
	}
}

// LogSubscriber writes events to logger with their context as fields.
func LogSubscriber(logger *logrus.Logger) Subscriber {
	return func(e Event) {
		entry := logger.WithFields(logrus.Fields{
			"event":      e.Kind.String(),
			"generation": e.Generation,
		})
		if len(e.Fields) > 0 {
			entry = entry.WithFields(logrus.Fields(e.Fields))
		}
		if e.Stats != nil {
			entry = entry.WithFields(logrus.Fields{
				"avg_fitness":    e.Stats.AverageFitness,
				"fitness_factor": e.Stats.FitnessFactor,
				"avg_nodes":      e.Stats.AverageNodeCount,
				"crossovers":     e.Stats.CrossoverAmount,
			})
		}
		if e.Err != nil {
			entry = entry.WithError(e.Err)
		}
		switch e.Level {
		case DebugLevel:
			entry.Debug(e.Message)
		case WarnLevel:
			entry.Warn(e.Message)
		case ErrorLevel:
			entry.Error(e.Message)
		default:
			entry.Info(e.Message)
		}
	}
}
