package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		generationsTotal,
		generationDurationSeconds,
		synthesisLatencyMs,
		synthesizedBytesTotal,
	)
}

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voiceover_generations_total",
			Help: "Completed generation pipelines, labeled by terminal outcome.",
		},
		[]string{"outcome"}, // 'ready', 'failed'
	)

	generationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voiceover_generation_duration_seconds",
			Help:    "Wall-clock duration of the synchronous generation path.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		},
	)

	synthesisLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tts_synthesis_latency_ms",
			Help:    "TTS call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"success"},
	)

	synthesizedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tts_synthesized_bytes_total",
			Help: "Total audio bytes produced by the TTS provider.",
		},
	)
)

func IncGeneration(outcome string) {
	generationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveGenerationDuration(start time.Time) {
	generationDurationSeconds.Observe(time.Since(start).Seconds())
}

func ObserveSynthesis(latency time.Duration, success bool) {
	lbl := "false"
	if success {
		lbl = "true"
	}
	synthesisLatencyMs.WithLabelValues(lbl).Observe(float64(latency.Milliseconds()))
}

func AddSynthesizedBytes(n int) {
	synthesizedBytesTotal.Add(float64(n))
}
