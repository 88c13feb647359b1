package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/util"
	"quiz_engine/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionBankService struct {
	QuestionRepo *repository.QuestionRepository
	DB           *gorm.DB
}

func NewQuestionBankService(questionRepo *repository.QuestionRepository, db *gorm.DB) *QuestionBankService {
	return &QuestionBankService{
		QuestionRepo: questionRepo,
		DB:           db,
	}
}

type OptionInput struct {
	Text      string `validate:"notblank"`
	IsCorrect bool
}

type QuestionInput struct {
	Text       string           `validate:"notblank"`
	Difficulty model.Difficulty `validate:"gte=1,lte=3"`
	Category   string
	Options    []OptionInput `validate:"min=2,dive"`
}

// QuestionPatch holds the fields to change. Nil fields are left alone; a
// non-nil Options replaces the whole option set.
type QuestionPatch struct {
	Text       *string
	Difficulty *model.Difficulty
	Category   *string
	Options    *[]OptionInput
}

type BankValidationReport struct {
	IsValid        bool     `json:"isValid"`
	Issues         []string `json:"issues"`
	TotalQuestions int      `json:"totalQuestions"`
}

func validateOptions(options []OptionInput) error {
	if len(options) < util.MinOptions {
		return util.NewValidationError("options", fmt.Sprintf("at least %d options required, got %d", util.MinOptions, len(options)))
	}
	correct := 0
	for i, opt := range options {
		if strings.TrimSpace(opt.Text) == "" {
			return util.NewValidationError(fmt.Sprintf("options[%d].text", i), "must not be empty")
		}
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return util.NewValidationError("options", fmt.Sprintf("exactly one correct option required, got %d", correct))
	}
	return nil
}

func buildOptions(inputs []OptionInput) []model.Option {
	options := make([]model.Option, 0, len(inputs))
	for _, in := range inputs {
		options = append(options, model.Option{
			Text:      strings.TrimSpace(in.Text),
			IsCorrect: in.IsCorrect,
		})
	}
	return options
}

func normalizeCategory(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return util.DefaultCategory
}

// AddQuestion stores a question and its options atomically.
func (s *QuestionBankService) AddQuestion(ctx context.Context, in QuestionInput) (uint, error) {
	if err := util.ValidateStruct(in); err != nil {
		return 0, err
	}
	if err := validateOptions(in.Options); err != nil {
		return 0, err
	}

	question := &model.Question{
		Text:       strings.TrimSpace(in.Text),
		Difficulty: in.Difficulty,
		Category:   normalizeCategory(in.Category),
		Options:    buildOptions(in.Options),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.QuestionRepo.WithTx(tx).Create(question)
	})
	if err != nil {
		return 0, fmt.Errorf("add question: %w", err)
	}

	logger.Log.Debug("question added",
		zap.Uint("question_id", question.ID),
		zap.Stringer("difficulty", question.Difficulty),
		zap.Int("options", len(question.Options)))
	return question.ID, nil
}

func (s *QuestionBankService) UpdateQuestion(ctx context.Context, id uint, patch QuestionPatch) error {
	updates := map[string]any{}
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return util.NewValidationError("text", "must not be empty")
		}
		updates["text"] = text
	}
	if patch.Difficulty != nil {
		if !patch.Difficulty.Valid() {
			return util.NewValidationError("difficulty", "must be one of 1 2 3")
		}
		updates["difficulty"] = *patch.Difficulty
	}
	if patch.Category != nil {
		updates["category"] = normalizeCategory(*patch.Category)
	}
	if patch.Options != nil {
		if err := validateOptions(*patch.Options); err != nil {
			return err
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.QuestionRepo.WithTx(tx)
		exists, err := repo.Exists(id)
		if err != nil {
			return err
		}
		if !exists {
			return util.ErrQuestionNotFound
		}
		if err := repo.UpdateFields(id, updates); err != nil {
			return err
		}
		if patch.Options != nil {
			return repo.ReplaceOptions(id, buildOptions(*patch.Options))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			return err
		}
		return fmt.Errorf("update question %d: %w", id, err)
	}
	return nil
}

// DeleteQuestion soft-deletes the question and its options. Recorded
// answers keep pointing at them.
func (s *QuestionBankService) DeleteQuestion(ctx context.Context, id uint) error {
	var deleted bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = s.QuestionRepo.WithTx(tx).Delete(id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if !deleted {
		return util.ErrQuestionNotFound
	}
	logger.Log.Debug("question deleted", zap.Uint("question_id", id))
	return nil
}

func (s *QuestionBankService) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.QuestionRepo.WithContext(ctx).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

// Search yields questions matching every non-empty filter field, in id
// order.
func (s *QuestionBankService) Search(ctx context.Context, f repository.QuestionFilter) iter.Seq2[model.Question, error] {
	if f.Difficulty != 0 && !f.Difficulty.Valid() {
		return func(yield func(model.Question, error) bool) {
			yield(model.Question{}, util.NewValidationError("difficulty", "must be one of 1 2 3"))
		}
	}
	return s.QuestionRepo.WithContext(ctx).Search(f)
}

// ListWithOptions returns the matching questions with their options loaded.
// Unlike Search the whole result is read up front, so callers can query
// while walking it.
func (s *QuestionBankService) ListWithOptions(ctx context.Context, f repository.QuestionFilter) ([]model.Question, error) {
	if f.Difficulty != 0 && !f.Difficulty.Valid() {
		return nil, util.NewValidationError("difficulty", "must be one of 1 2 3")
	}
	questions, err := s.QuestionRepo.WithContext(ctx).ListWithOptions(f)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *QuestionBankService) ValidateBank(ctx context.Context) (*BankValidationReport, error) {
	stats, err := s.QuestionRepo.WithContext(ctx).OptionStats()
	if err != nil {
		return nil, fmt.Errorf("validate bank: %w", err)
	}

	report := &BankValidationReport{
		Issues:         []string{},
		TotalQuestions: len(stats),
	}
	for _, st := range stats {
		if st.OptionCount == 0 {
			report.Issues = append(report.Issues, fmt.Sprintf("question %d has no options", st.QuestionID))
			continue
		}
		if st.CorrectCount != 1 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("question %d has %d correct options (should be 1)", st.QuestionID, st.CorrectCount))
		}
		if st.OptionCount < util.MinOptions {
			report.Issues = append(report.Issues,
				fmt.Sprintf("question %d has only %d options (minimum %d required)", st.QuestionID, st.OptionCount, util.MinOptions))
		}
	}
	report.IsValid = len(report.Issues) == 0

	if !report.IsValid {
		logger.Log.Warn("question bank has integrity issues", zap.Int("issues", len(report.Issues)))
	}
	return report, nil
}
