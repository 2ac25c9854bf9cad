package upstream

import "github.com/prometheus/client_golang/prometheus"

var lookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "upstream_lookups_total",
		Help: "The total number of upstream lookup calls by provider and outcome",
	},
	[]string{"provider", "outcome"},
)

func init() {
	prometheus.MustRegister(lookupsTotal)
}

func observeLookup(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	lookupsTotal.WithLabelValues(provider, outcome).Inc()
}
