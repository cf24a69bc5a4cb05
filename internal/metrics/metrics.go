package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Series names are kept stable so existing dashboards over the assistant keep
// working.
var (
	once sync.Once

	gptResponseLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gpt_response_latency_seconds",
		Help:    "Wall time of completion-model calls, success or failure",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
	})

	similitudScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "similitud_score",
		Help:    "Cosine similarity scores observed while ranking candidates",
		Buckets: []float64{-1, -0.5, 0, 0.2, 0.4, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
	})

	contextoLength = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "contexto_length",
		Help:    "Assembled context length in words before generation",
		Buckets: []float64{0, 50, 100, 250, 500, 750, 1000, 1250, 1500},
	})

	embeddingsGenerados = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "embeddings_generados",
		Help: "Total embeddings generated against the embedding service",
	})

	documentosInvalidos = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "documentos_invalidos",
		Help: "Rows dropped for missing or malformed embeddings",
	})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "respuestas_cache_hits_total",
		Help: "Answers served from the response cache",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(
			gptResponseLatency,
			similitudScore,
			contextoLength,
			embeddingsGenerados,
			documentosInvalidos,
			cacheHits,
		)
	})
}

// ObserveGenerationLatency records the wall time of one attempted model call.
func ObserveGenerationLatency(start time.Time) {
	ensureRegistered()
	gptResponseLatency.Observe(time.Since(start).Seconds())
}

// ObserveSimilarity records one cosine similarity score.
func ObserveSimilarity(score float64) {
	ensureRegistered()
	similitudScore.Observe(score)
}

// ObserveContextLength records the word count of an assembled context.
func ObserveContextLength(words int) {
	ensureRegistered()
	contextoLength.Observe(float64(words))
}

// AddEmbeddings counts embeddings returned by the embedding service.
func AddEmbeddings(n int) {
	ensureRegistered()
	embeddingsGenerados.Add(float64(n))
}

// IncInvalidDocument counts a candidate dropped during retrieval filtering.
func IncInvalidDocument() {
	ensureRegistered()
	documentosInvalidos.Inc()
}

// IncCacheHit counts an answer served from the response cache.
func IncCacheHit() {
	ensureRegistered()
	cacheHits.Inc()
}

// Serve exposes /metrics on its own listener, the way the assistant has always
// published metrics on a side port.
func Serve(port string) error {
	ensureRegistered()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
