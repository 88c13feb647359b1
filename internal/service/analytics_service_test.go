package service

import (
	"context"
	"testing"

	"quiz_engine/internal/model"
	"quiz_engine/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answerAll starts an attempt over every question in the bank and answers
// each question as picked by correct. Unlisted questions are left
// unanswered.
func answerAll(t *testing.T, env *testEnv, quizID uint, name string, correct map[uint]bool, complete bool, elapsed int) {
	t.Helper()
	ctx := context.Background()
	session, err := env.attempts.Start(ctx, quizID, name)
	require.NoError(t, err)
	for _, q := range session.Questions {
		right, ok := correct[q.ID]
		if !ok {
			continue
		}
		pick := wrongID(q)
		if right {
			pick = correctID(q)
		}
		_, err := env.attempts.SubmitAnswer(ctx, session.Attempt.ID, q.ID, pick)
		require.NoError(t, err)
	}
	if complete {
		_, err := env.attempts.Complete(ctx, session.Attempt.ID, elapsed)
		require.NoError(t, err)
	}
}

func TestQuestionStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	q1, correct1, wrong1 := env.addQuestion(t, "First", model.DifficultyEasy)
	q2, _, _ := env.addQuestion(t, "Second", model.DifficultyHard)
	quizID := defineQuiz(t, env, "Stats", 2, nil)

	stats, err := env.analytics.QuestionStatistics(ctx, q1)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAnswers)
	assert.Zero(t, stats.CorrectRate)
	require.Len(t, stats.OptionDistribution, 2)
	assert.Zero(t, stats.OptionDistribution[0].SelectionCount)

	answerAll(t, env, quizID, "a", map[uint]bool{q1: true, q2: true}, true, 10)
	answerAll(t, env, quizID, "b", map[uint]bool{q1: false}, true, 10)
	answerAll(t, env, quizID, "c", map[uint]bool{q1: false}, false, 0)

	stats, err = env.analytics.QuestionStatistics(ctx, q1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalAnswers)
	assert.EqualValues(t, 1, stats.CorrectCount)
	assert.Equal(t, 33.33, stats.CorrectRate)
	assert.Equal(t, []model.OptionDistribution{
		{OptionID: correct1, Text: "First right", IsCorrect: true, SelectionCount: 1},
		{OptionID: wrong1, Text: "First wrong", IsCorrect: false, SelectionCount: 2},
	}, stats.OptionDistribution)

	_, err = env.analytics.QuestionStatistics(ctx, 999)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestAnalyzeDifficulty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	easy, _, _ := env.addQuestion(t, "Labeled easy", model.DifficultyEasy)
	hard, _, _ := env.addQuestion(t, "Labeled hard", model.DifficultyHard)
	medium, _, _ := env.addQuestion(t, "Labeled medium", model.DifficultyMedium)
	unanswered, _, _ := env.addQuestion(t, "Never answered", model.DifficultyMedium)
	quizID := defineQuiz(t, env, "Recalibrate", 4, nil)

	answerAll(t, env, quizID, "a", map[uint]bool{easy: false, hard: true, medium: true}, true, 5)
	answerAll(t, env, quizID, "b", map[uint]bool{easy: false, hard: true, medium: false}, true, 5)

	rows, err := env.analytics.AnalyzeDifficulty(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, easy, rows[0].QuestionID)
	assert.Equal(t, model.DifficultyEasy, rows[0].LabeledDifficulty)
	assert.Equal(t, 0.0, rows[0].SuccessRate)
	assert.Equal(t, medium, rows[1].QuestionID)
	assert.Equal(t, 50.0, rows[1].SuccessRate)
	assert.Equal(t, hard, rows[2].QuestionID)
	assert.Equal(t, 100.0, rows[2].SuccessRate)
	assert.EqualValues(t, 2, rows[2].TotalAnswers)

	for _, r := range rows {
		assert.NotEqual(t, unanswered, r.QuestionID)
	}
}

func TestQuizStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	easy, _, _ := env.addQuestion(t, "Easy one", model.DifficultyEasy)
	hard, _, _ := env.addQuestion(t, "Hard one", model.DifficultyHard)
	quizID := defineQuiz(t, env, "Scores", 2, nil)

	stats, err := env.analytics.QuizStatistics(ctx, quizID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAttempts)
	assert.Zero(t, stats.AvgScore)
	assert.Empty(t, stats.ByDifficulty)

	answerAll(t, env, quizID, "a", map[uint]bool{easy: true, hard: true}, true, 100)
	answerAll(t, env, quizID, "b", map[uint]bool{easy: true, hard: false}, true, 200)
	answerAll(t, env, quizID, "in-progress", map[uint]bool{easy: false, hard: false}, false, 0)

	stats, err = env.analytics.QuizStatistics(ctx, quizID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalAttempts)
	assert.Equal(t, 7.5, stats.AvgScore)
	assert.Equal(t, 10.0, stats.MaxScore)
	assert.Equal(t, 5.0, stats.MinScore)
	assert.Equal(t, 150.0, stats.AvgTime)
	assert.Equal(t, []model.DifficultyBreakdown{
		{Difficulty: model.DifficultyEasy, Answered: 2, Correct: 2},
		{Difficulty: model.DifficultyHard, Answered: 2, Correct: 1},
	}, stats.ByDifficulty)

	_, err = env.analytics.QuizStatistics(ctx, 999)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, percentage(3, 0))
	assert.Equal(t, 33.33, percentage(1, 3))
	assert.Equal(t, 66.67, percentage(2, 3))
	assert.Equal(t, 3.12, percentage(1, 32))
	assert.Equal(t, 9.38, percentage(3, 32))
	assert.Equal(t, 100.0, percentage(4, 4))
}
