package service

import (
	"context"
	"fmt"
	"testing"

	"quiz_engine/internal/config"
	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	bank      *QuestionBankService
	quizzes   *QuizService
	sampler   *Sampler
	attempts  *AttemptService
	analytics *AnalyticsService
}

var testQuizConfig = config.QuizConfig{DefaultTimeLimit: 600, MaxQuestions: 50}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	questionRepo := repository.NewQuestionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	sampler := NewSampler(questionRepo, NewSource(42))
	return &testEnv{
		db:        db,
		bank:      NewQuestionBankService(questionRepo, db),
		quizzes:   NewQuizService(quizRepo, sampler, testQuizConfig),
		sampler:   sampler,
		attempts:  NewAttemptService(attemptRepo, quizRepo, questionRepo, sampler, db),
		analytics: NewAnalyticsService(analyticsRepo, questionRepo, quizRepo),
	}
}

// addQuestion stores a two-option question and returns its id with the ids
// of the correct and the wrong option.
func (e *testEnv) addQuestion(t *testing.T, text string, d model.Difficulty) (id, correctID, wrongID uint) {
	t.Helper()
	ctx := context.Background()
	id, err := e.bank.AddQuestion(ctx, QuestionInput{
		Text:       text,
		Difficulty: d,
		Category:   "Test",
		Options: []OptionInput{
			{Text: text + " right", IsCorrect: true},
			{Text: text + " wrong"},
		},
	})
	require.NoError(t, err)

	q, err := e.bank.GetQuestion(ctx, id)
	require.NoError(t, err)
	for _, o := range q.Options {
		if o.IsCorrect {
			correctID = o.ID
		} else {
			wrongID = o.ID
		}
	}
	return id, correctID, wrongID
}

// seedBank adds easy, medium and hard questions in the given amounts.
func (e *testEnv) seedBank(t *testing.T, easy, medium, hard int) {
	t.Helper()
	counts := map[model.Difficulty]int{
		model.DifficultyEasy:   easy,
		model.DifficultyMedium: medium,
		model.DifficultyHard:   hard,
	}
	for _, d := range model.Difficulties {
		for i := 0; i < counts[d]; i++ {
			e.addQuestion(t, fmt.Sprintf("%s question %d", d, i+1), d)
		}
	}
}

func (e *testEnv) countRows(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func correctOption(q SampledQuestion) model.Option {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o
		}
	}
	return model.Option{}
}

func wrongOption(q SampledQuestion) model.Option {
	for _, o := range q.Options {
		if !o.IsCorrect {
			return o
		}
	}
	return model.Option{}
}

func ptr[T any](v T) *T {
	return &v
}

func correctID(q SampledQuestion) *uint {
	id := correctOption(q).ID
	return &id
}

func wrongID(q SampledQuestion) *uint {
	id := wrongOption(q).ID
	return &id
}
