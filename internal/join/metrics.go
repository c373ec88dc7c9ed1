package join

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var joinLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_join_loads_total",
	Help: "Number of join template loads, by outcome",
}, []string{"outcome"})

var joinGreetings = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_join_greetings_total",
	Help: "Number of join greetings sent, by outcome",
}, []string{"outcome"})
