// Package metrics holds the Prometheus collectors for the hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamePlays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneworld_game_plays_total",
			Help: "Game rounds played, by game",
		},
		[]string{"game"},
	)
	CreditsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneworld_credits_total",
			Help: "OWC credited to players, by source",
		},
		[]string{"source"},
	)
	DepositsSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oneworld_deposits_settled_total",
			Help: "On-chain deposits verified and credited",
		},
	)
	DepositsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oneworld_deposits_failed_total",
			Help: "On-chain deposits that failed verification",
		},
	)
	LobbyConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oneworld_lobby_connections",
			Help: "Open lobby websocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(GamePlays)
	prometheus.MustRegister(CreditsGranted)
	prometheus.MustRegister(DepositsSettled)
	prometheus.MustRegister(DepositsFailed)
	prometheus.MustRegister(LobbyConnections)
}
