package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the server's gameplay counters. A nil *Metrics is valid
// and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	OnlineSessions  prometheus.Gauge
	OpenRooms       prometheus.Gauge
	RunningGames    prometheus.Gauge
	AcceptedActions prometheus.Counter
	RejectedActions prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlineSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_sessions",
			Help:      "Number of connected websocket sessions",
		}),
		OpenRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_rooms",
			Help:      "Number of live rooms",
		}),
		RunningGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running_games",
			Help:      "Number of running games",
		}),
		AcceptedActions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_accepted_total",
			Help:      "Total game actions accepted by the reducer",
		}),
		RejectedActions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_rejected_total",
			Help:      "Total game actions rejected by the reducer",
		}),
	}

	prometheus.MustRegister(
		m.OnlineSessions,
		m.OpenRooms,
		m.RunningGames,
		m.AcceptedActions,
		m.RejectedActions,
	)

	return m
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.OnlineSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.OnlineSessions.Dec()
}

func (m *Metrics) SetOpenRooms(n int) {
	if m == nil {
		return
	}
	m.OpenRooms.Set(float64(n))
}

func (m *Metrics) SetRunningGames(n int) {
	if m == nil {
		return
	}
	m.RunningGames.Set(float64(n))
}

func (m *Metrics) ActionAccepted() {
	if m == nil {
		return
	}
	m.AcceptedActions.Inc()
}

func (m *Metrics) ActionRejected() {
	if m == nil {
		return
	}
	m.RejectedActions.Inc()
}
