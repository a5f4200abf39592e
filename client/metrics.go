package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsBootstrappedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ghost_client",
			Name:      "sessions_bootstrapped_total",
			Help:      "Sessions opened via the device bootstrap handshake.",
		},
	)

	sessionRefreshFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ghost_client",
			Name:      "session_refresh_failures_total",
			Help:      "Refresh attempts that fell back to a full re-bootstrap.",
		},
	)

	geoPulsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghost_client",
			Name:      "geo_pulses_total",
			Help:      "Local geo pulses by outcome.",
		},
		[]string{"outcome"},
	)

	chatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghost_client",
			Name:      "chat_messages_total",
			Help:      "Chat messages by direction.",
		},
		[]string{"direction"},
	)

	chatReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ghost_client",
			Name:      "chat_reconnects_total",
			Help:      "Chat sockets re-dialed after a ticket rejection.",
		},
	)
)
