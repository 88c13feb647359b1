package monitoring

import (
	"bytes"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	AttemptsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_attempts_started_total",
			Help: "Total number of quiz attempts started",
		},
	)

	AttemptsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_attempts_completed_total",
			Help: "Total number of quiz attempts completed",
		},
	)

	AnswersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_submitted_total",
			Help: "Total number of submitted answers",
		},
		[]string{"correct"},
	)

	AttemptScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score",
			Help:    "Distribution of completed attempt scores",
			Buckets: []float64{2, 4, 6, 8, 10},
		},
	)

	SamplerShortfall = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_sampler_shortfall_total",
			Help: "Questions requested but not available in the bank",
		},
		[]string{"difficulty"},
	)

	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

func Init() {
	initOnce.Do(func() {
		registry.MustRegister(AttemptsStarted)
		registry.MustRegister(AttemptsCompleted)
		registry.MustRegister(AnswersSubmitted)
		registry.MustRegister(AttemptScore)
		registry.MustRegister(SamplerShortfall)
	})
}

// Dump renders every registered metric in the Prometheus text format.
func Dump() (string, error) {
	families, err := registry.Gather()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
