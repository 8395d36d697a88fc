package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ClassificationClassified = "classified"
	ClassificationDegraded   = "degraded"
)

// PipelineMetrics counts offer-parse and classification outcomes and times model calls.
type PipelineMetrics struct {
	offers          *prometheus.CounterVec
	classifications *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	offers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_parse_total",
		Help: "Parsed vendor offers by strategy (ai or fallback).",
	}, []string{"source"})
	classifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classification_total",
		Help: "Commodity classifications by outcome.",
	}, []string{"outcome"})
	llmDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_call_duration_seconds",
		Help:    "Duration of language model calls in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation", "result"})
	reg.MustRegister(offers, classifications, llmDuration)
	return &PipelineMetrics{
		offers:          offers,
		classifications: classifications,
		llmDuration:     llmDuration,
	}
}

// IncOffer increments the offer counter for the given source.
func (p *PipelineMetrics) IncOffer(source string) {
	if p == nil || p.offers == nil {
		return
	}
	p.offers.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncClassification increments the classification counter for the given outcome.
func (p *PipelineMetrics) IncClassification(outcome string) {
	if p == nil || p.classifications == nil {
		return
	}
	p.classifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveLLM records the duration of one model call.
func (p *PipelineMetrics) ObserveLLM(operation string, ok bool, elapsed time.Duration) {
	if p == nil || p.llmDuration == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	p.llmDuration.WithLabelValues(normalizeLabel(operation), result).Observe(elapsed.Seconds())
}
