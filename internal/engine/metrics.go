package engine

import (
	"fmt"
	"time"

	"zemeroth-core/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счетчики исполнителя. nil-значение допустимо: ничего не пишет.
type Metrics struct {
	Commands            *prometheus.CounterVec
	ExecuteDuration     *prometheus.HistogramVec
	Events              *prometheus.CounterVec
	Effects             *prometheus.CounterVec
	Battles             *prometheus.CounterVec
	InvariantViolations prometheus.Counter
	Objects             prometheus.Gauge
}

// NewMetrics регистрирует коллекторы в reg. Повторная регистрация
// возвращает уже существующие коллекторы.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	commands := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_commands_total",
			Help: "Commands submitted to the executor by kind and result.",
		},
		[]string{"command", "result"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "battle_execute_duration_seconds",
			Help:    "Time spent executing a command including all chained events.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
		[]string{"command"},
	)
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_events_total",
			Help: "Events committed to the state by kind.",
		},
		[]string{"event"},
	)
	effects := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_effects_total",
			Help: "Instant effects committed to the state by kind.",
		},
		[]string{"effect"},
	)
	battles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_finished_total",
			Help: "Finished battles by winning player.",
		},
		[]string{"winner"},
	)
	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "battle_invariant_violations_total",
		Help: "Executions aborted because the state broke an invariant.",
	})
	objects := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "battle_objects",
		Help: "Objects with a position on the board after the last command.",
	})

	var err error
	m := &Metrics{}
	if m.Commands, err = registerCounterVec(reg, commands, "battle_commands_total"); err != nil {
		return nil, err
	}
	if m.ExecuteDuration, err = registerHistogramVec(reg, duration, "battle_execute_duration_seconds"); err != nil {
		return nil, err
	}
	if m.Events, err = registerCounterVec(reg, events, "battle_events_total"); err != nil {
		return nil, err
	}
	if m.Effects, err = registerCounterVec(reg, effects, "battle_effects_total"); err != nil {
		return nil, err
	}
	if m.Battles, err = registerCounterVec(reg, battles, "battle_finished_total"); err != nil {
		return nil, err
	}
	if m.InvariantViolations, err = registerCounter(reg, violations, "battle_invariant_violations_total"); err != nil {
		return nil, err
	}
	if m.Objects, err = registerGauge(reg, objects, "battle_objects"); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultCorrupt  = "corrupted"
)

func (m *Metrics) observeCommand(kind domain.CommandKind, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(kind.String(), result).Inc()
	if result != resultRejected {
		m.ExecuteDuration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) observeEvent(ev *domain.Event) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(ev.Active.Kind().String()).Inc()
	for _, oe := range ev.InstantEffects {
		for _, effect := range oe.Effects {
			m.Effects.WithLabelValues(effect.Kind().String()).Inc()
		}
	}
	if end, ok := ev.Active.(domain.EventEndBattle); ok {
		m.Battles.WithLabelValues(end.Result.WinnerID.String()).Inc()
	}
}

func (m *Metrics) observeViolation() {
	if m == nil {
		return
	}
	m.InvariantViolations.Inc()
}

func (m *Metrics) setObjects(n int) {
	if m == nil {
		return
	}
	m.Objects.Set(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
