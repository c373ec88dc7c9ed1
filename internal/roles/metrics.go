package roles

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var stateGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "herald_roles_state",
	Help: "Role engine state: 0 unloaded, 1 loading, 2 ready, 3 failed",
})

var bindingsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "herald_roles_bindings",
	Help: "Number of active role bindings",
})

var messagesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "herald_roles_messages_created_total",
	Help: "Number of role messages posted",
})

var reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_roles_loads_total",
	Help: "Number of role loads, by outcome",
}, []string{"outcome"})

var roleChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_roles_changes_total",
	Help: "Number of role grants and revocations, by action and outcome",
}, []string{"action", "outcome"})
