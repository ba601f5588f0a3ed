package observability

import (
	"strconv"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "keyframe"

// Metrics holds the counters fed by lifecycle hooks.
type Metrics struct {
	StateChanges        *prometheus.CounterVec
	TransitionsStarted  *prometheus.CounterVec
	TransitionsFinished *prometheus.CounterVec
	TransitionsStalled  *prometheus.CounterVec
	Events              *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes_total",
			Help:      "Number of times a layer started moving to a state.",
		}, []string{"animator", "layer", "state"}),
		TransitionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_started_total",
			Help:      "Number of transitions started.",
		}, []string{"animator", "layer", "from", "to"}),
		TransitionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_finished_total",
			Help:      "Number of transitions that completed.",
		}, []string{"animator", "layer", "from", "to"}),
		TransitionsStalled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_stalled_total",
			Help:      "Number of transitions reported as stalled.",
		}, []string{"animator", "layer"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of animation events fired.",
		}, []string{"animator", "channel"}),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.StateChanges,
		m.TransitionsStarted,
		m.TransitionsFinished,
		m.TransitionsStalled,
		m.Events,
	}
}

// Hooks returns lifecycle hooks that record into m. The animator label is
// taken from the event, falling back to animator when it is empty.
func (m *Metrics) Hooks(animator string) domain.LifecycleHooks {
	name := func(b domain.EventBase) string {
		if b.Animator != "" {
			return b.Animator
		}
		return animator
	}

	return domain.LifecycleHooks{
		OnStateChanged: func(e *domain.StateChangeEvent) {
			m.StateChanges.WithLabelValues(name(e.EventBase), strconv.Itoa(e.Layer), e.State).Inc()
		},
		OnTransitionStart: func(e *domain.TransitionEvent) {
			m.TransitionsStarted.WithLabelValues(name(e.EventBase), strconv.Itoa(e.Layer), e.From, e.To).Inc()
		},
		OnTransitionFinish: func(e *domain.TransitionEvent) {
			m.TransitionsFinished.WithLabelValues(name(e.EventBase), strconv.Itoa(e.Layer), e.From, e.To).Inc()
		},
		OnTransitionStall: func(e *domain.TransitionEvent) {
			m.TransitionsStalled.WithLabelValues(name(e.EventBase), strconv.Itoa(e.Layer)).Inc()
		},
		OnEvent: func(e *domain.FiredEvent) {
			m.Events.WithLabelValues(name(e.EventBase), e.Channel).Inc()
		},
	}
}
