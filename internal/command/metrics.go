package command

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_commands_total",
	Help: "Number of executed commands, by kind and outcome",
}, []string{"kind", "outcome"})

var commandsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_commands_denied_total",
	Help: "Number of admin-only commands refused for lack of permission",
}, []string{"command"})

var commandsNotFound = promauto.NewCounter(prometheus.CounterOpts{
	Name: "herald_commands_not_found_total",
	Help: "Number of trigger messages naming an unknown command",
})

var customCommands = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "herald_custom_commands",
	Help: "Number of custom commands in the active table",
})

var reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_reloads_total",
	Help: "Number of reload attempts, by component and outcome",
}, []string{"component", "outcome"})
