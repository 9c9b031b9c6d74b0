package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	voteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premiacao_vote_requests_total",
		Help: "Total de votos recebidos por resultado",
	}, []string{"status"})

	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premiacao_writes_total",
		Help: "Escritas administrativas por entidade e resultado",
	}, []string{"entity", "result"})

	voteEventsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premiacao_vote_events_processed_total",
		Help: "Eventos de voto aplicados nos contadores pelo worker",
	})

	voteEventsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premiacao_vote_events_skipped_total",
		Help: "Eventos de voto ignorados por ja estarem contados ou por voto removido",
	})

	voteEventsPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premiacao_vote_events_publish_failures_total",
		Help: "Eventos de voto que nao puderam ser publicados na fila",
	})

	voteEventDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "premiacao_vote_event_duration_seconds",
		Help:    "Tempo para aplicar um evento de voto nos contadores",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveVoteRequest(status string) {
	voteRequestsTotal.WithLabelValues(status).Inc()
}

func ObserveWrite(entity, result string) {
	writesTotal.WithLabelValues(entity, result).Inc()
}

func IncVoteEventProcessed() {
	voteEventsProcessedTotal.Inc()
}

func IncVoteEventSkipped() {
	voteEventsSkippedTotal.Inc()
}

func IncVoteEventPublishFailure() {
	voteEventsPublishFailures.Inc()
}

func ObserveVoteEventDuration(seconds float64) {
	voteEventDuration.Observe(seconds)
}
