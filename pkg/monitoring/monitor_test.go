package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestDumpContainsQuizMetrics(t *testing.T) {
	Init()
	before := testutil.ToFloat64(AttemptsStarted)
	AttemptsStarted.Inc()
	AnswersSubmitted.WithLabelValues("true").Inc()
	AttemptScore.Observe(6.7)

	assert.Equal(t, before+1, testutil.ToFloat64(AttemptsStarted))

	out, err := Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "quiz_attempts_started_total")
	assert.Contains(t, out, `quiz_answers_submitted_total{correct="true"}`)
	assert.Contains(t, out, "quiz_attempt_score_bucket")
}
