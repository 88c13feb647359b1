package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz_engine/internal/config"
	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/util"
	"quiz_engine/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo *repository.QuizRepository
	Sampler  *Sampler
	Config   config.QuizConfig
}

func NewQuizService(quizRepo *repository.QuizRepository, sampler *Sampler, cfg config.QuizConfig) *QuizService {
	return &QuizService{
		QuizRepo: quizRepo,
		Sampler:  sampler,
		Config:   cfg,
	}
}

type QuizDefinition struct {
	Title          string `validate:"notblank"`
	Description    string
	TotalQuestions int `validate:"gt=0"`
	TimeLimit      int `validate:"gte=0"` // seconds, 0 means the configured default
	Matrix         *model.DifficultyMatrix
}

type QuizWithQuestions struct {
	Quiz      *model.Quiz       `json:"quiz"`
	Questions []SampledQuestion `json:"questions"`
}

// DefineQuiz creates a quiz, or returns the id of the quiz that already has
// the same title.
func (s *QuizService) DefineQuiz(ctx context.Context, def QuizDefinition) (uint, error) {
	title := strings.TrimSpace(def.Title)
	if title == "" {
		return 0, util.NewValidationError("title", "must not be empty")
	}
	repo := s.QuizRepo.WithContext(ctx)

	// an existing title wins over whatever the new definition says
	existing, err := repo.FindByTitle(title)
	if err == nil {
		logger.Log.Debug("quiz already defined", zap.Uint("quiz_id", existing.ID), zap.String("title", title))
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("define quiz: %w", err)
	}

	if err := util.ValidateStruct(def); err != nil {
		return 0, err
	}
	if def.TotalQuestions > s.Config.MaxQuestions {
		return 0, util.NewValidationError("totalQuestions",
			fmt.Sprintf("must be at most %d", s.Config.MaxQuestions))
	}
	if def.Matrix != nil {
		if err := util.ValidateStruct(def.Matrix); err != nil {
			return 0, err
		}
	}

	quiz := &model.Quiz{
		Title:          title,
		Description:    def.Description,
		TimeLimit:      def.TimeLimit,
		TotalQuestions: def.TotalQuestions,
	}
	if quiz.TimeLimit == 0 {
		quiz.TimeLimit = s.Config.DefaultTimeLimit
	}
	if def.Matrix != nil {
		quiz.EasyCount = def.Matrix.Easy
		quiz.MediumCount = def.Matrix.Medium
		quiz.HardCount = def.Matrix.Hard
		quiz.Description = strings.TrimSpace(quiz.Description + " " + def.Matrix.String())
	}

	if err := repo.Create(quiz); err != nil {
		// lost a race against another writer with the same title
		if existing, findErr := repo.FindByTitle(title); findErr == nil {
			return existing.ID, nil
		}
		return 0, fmt.Errorf("define quiz: %w", err)
	}

	logger.Log.Info("quiz defined",
		zap.Uint("quiz_id", quiz.ID),
		zap.String("title", quiz.Title),
		zap.Int("total_questions", quiz.TotalQuestions))
	return quiz.ID, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.WithContext(ctx).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	return s.QuizRepo.WithContext(ctx).List()
}

// DeleteQuiz removes the quiz along with its attempts.
func (s *QuizService) DeleteQuiz(ctx context.Context, id uint) error {
	deleted, err := s.QuizRepo.WithContext(ctx).Delete(id)
	if err != nil {
		return fmt.Errorf("delete quiz %d: %w", id, err)
	}
	if !deleted {
		return util.ErrQuizNotFound
	}
	logger.Log.Info("quiz deleted", zap.Uint("quiz_id", id))
	return nil
}

// GetQuizWithQuestions previews a quiz with a freshly sampled question set.
func (s *QuizService) GetQuizWithQuestions(ctx context.Context, id uint) (*QuizWithQuestions, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.Sampler.SampleQuiz(ctx, quiz)
	if err != nil {
		return nil, err
	}
	return &QuizWithQuestions{Quiz: quiz, Questions: questions}, nil
}
