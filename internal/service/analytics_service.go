package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	QuestionRepo  *repository.QuestionRepository
	QuizRepo      *repository.QuizRepository
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	questionRepo *repository.QuestionRepository,
	quizRepo *repository.QuizRepository,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		QuestionRepo:  questionRepo,
		QuizRepo:      quizRepo,
	}
}

// percentage returns part/total as a percent rounded to two decimals with
// ties to even, or 0 when total is 0.
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(part * 100).
		Div(decimal.NewFromInt(total)).
		RoundBank(2).
		InexactFloat64()
}

func (s *AnalyticsService) QuestionStatistics(ctx context.Context, questionID uint) (*model.QuestionStatistics, error) {
	exists, err := s.QuestionRepo.WithContext(ctx).Exists(questionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrQuestionNotFound
	}

	repo := s.AnalyticsRepo.WithContext(ctx)
	total, correct, err := repo.QuestionAnswerCounts(questionID)
	if err != nil {
		return nil, fmt.Errorf("question statistics: %w", err)
	}
	dist, err := repo.OptionDistribution(questionID)
	if err != nil {
		return nil, fmt.Errorf("question statistics: %w", err)
	}
	if dist == nil {
		dist = []model.OptionDistribution{}
	}

	return &model.QuestionStatistics{
		QuestionID:         questionID,
		TotalAnswers:       total,
		CorrectCount:       correct,
		CorrectRate:        percentage(correct, total),
		OptionDistribution: dist,
	}, nil
}

// AnalyzeDifficulty ranks answered questions from the lowest observed
// success rate up. Questions nobody answered are left out.
func (s *AnalyticsService) AnalyzeDifficulty(ctx context.Context) ([]model.DifficultyAnalysis, error) {
	rows, err := s.AnalyticsRepo.WithContext(ctx).DifficultyRows()
	if err != nil {
		return nil, fmt.Errorf("analyze difficulty: %w", err)
	}

	out := make([]model.DifficultyAnalysis, 0, len(rows))
	for _, r := range rows {
		if r.TotalAnswers == 0 {
			continue
		}
		r.SuccessRate = percentage(r.CorrectAnswers, r.TotalAnswers)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate < out[j].SuccessRate
		}
		return out[i].QuestionID < out[j].QuestionID
	})
	return out, nil
}

func (s *AnalyticsService) QuizStatistics(ctx context.Context, quizID uint) (*model.QuizStatistics, error) {
	if _, err := s.QuizRepo.WithContext(ctx).FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	repo := s.AnalyticsRepo.WithContext(ctx)
	stats, err := repo.QuizAggregates(quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz statistics: %w", err)
	}
	breakdown, err := repo.QuizDifficultyBreakdown(quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz statistics: %w", err)
	}
	if breakdown == nil {
		breakdown = []model.DifficultyBreakdown{}
	}
	stats.ByDifficulty = breakdown
	return stats, nil
}
