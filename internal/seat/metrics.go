// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TogglesTotal counts toggle requests by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var TogglesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "holosit_toggles_total",
		Help: "Total number of seat toggle requests by outcome",
	},
	[]string{"outcome"},
)

// MountsTotal counts resolved mount attempts by outcome.
var MountsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "holosit_mounts_total",
		Help: "Total number of deferred mount attempts by outcome",
	},
	[]string{"outcome"},
)

// ForcedUnseatsTotal counts unseats triggered by anything other than a toggle.
var ForcedUnseatsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "holosit_forced_unseats_total",
		Help: "Total number of forced unseats by cause",
	},
	[]string{"cause"},
)

// OrphansRemovedTotal counts seat entities destroyed by sweeps.
var OrphansRemovedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "holosit_orphans_removed_total",
		Help: "Total number of orphaned seat entities removed by sweeps",
	},
)

// Mount outcome labels.
const (
	mountConfirmed = "confirmed"
	mountCancelled = "cancelled"
	mountConflict  = "conflict"
)

// RegisterMetrics registers seat package metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(TogglesTotal)
	reg.MustRegister(MountsTotal)
	reg.MustRegister(ForcedUnseatsTotal)
	reg.MustRegister(OrphansRemovedTotal)
}

// RegisterGauges registers gauges reading the manager's live state.
func (m *Manager) RegisterGauges(reg prometheus.Registerer) {
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "holosit_seats_active",
			Help: "Current number of seated actors",
		},
		func() float64 { return float64(m.registry.Len()) },
	))
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "holosit_seats_pending",
			Help: "Current number of seat creations awaiting their mount tick",
		},
		func() float64 { return float64(m.registry.PendingLen()) },
	))
}
