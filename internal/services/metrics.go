package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// agreementsTotal counts Agree/Unagree/Withdraw/CloseSwap calls by
	// operation and classified outcome.
	agreementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_agreements_total",
			Help: "Matching engine operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	matchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_matches_total",
		Help: "Swaps that reached the matched state.",
	})

	// matchConflictsTotal counts lost compare-and-swap rounds, including
	// those that later succeeded on retry.
	matchConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_match_conflicts_total",
		Help: "Compare-and-swap conflicts seen by the matching engine.",
	})

	catalogLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_lookups_total",
			Help: "Course catalog lookups by source (upstream, seed, index).",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(agreementsTotal, matchesTotal, matchConflictsTotal, catalogLookups)
}
