package inline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inlineQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filebot_inline_queries_total",
		Help: "Inline queries answered, by outcome (results, empty, denied).",
	}, []string{"outcome"})
	membershipLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filebot_membership_lookups_total",
		Help: "Required-channel membership lookups, by result.",
	}, []string{"result"})
)
