package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/util"
	"quiz_engine/pkg/logger"
	"quiz_engine/pkg/monitoring"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	Sampler      *Sampler
	DB           *gorm.DB

	now func() time.Time
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	sampler *Sampler,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		Sampler:      sampler,
		DB:           db,
		now:          time.Now,
	}
}

// AttemptSession is a started attempt with the questions it was dealt.
type AttemptSession struct {
	Attempt   *model.Attempt    `json:"attempt"`
	Questions []SampledQuestion `json:"questions"`
	Deadline  time.Time         `json:"deadline"`
}

type ReviewItem struct {
	Question         model.Question `json:"question"` // options in the order they were shown
	SelectedOptionID *uint          `json:"selectedOptionId,omitempty"`
	CorrectOptionID  uint           `json:"correctOptionId"`
	IsCorrect        bool           `json:"isCorrect"`
}

type AttemptReview struct {
	Attempt *model.Attempt `json:"attempt"`
	Items   []ReviewItem   `json:"items"`
}

type AttemptProgress struct {
	AttemptID        uint   `json:"attemptId"`
	Status           string `json:"status"`
	Answered         int64  `json:"answered"`
	Total            int64  `json:"total"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Expired          bool   `json:"expired"`
}

// CalculateScore normalizes correct/total to a 0-10 scale rounded to one
// decimal, ties to even. Zero answers score 0.
func CalculateScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(correct) * util.MaxScore).
		Div(decimal.NewFromInt(int64(total))).
		RoundBank(1).
		InexactFloat64()
}

func (s *AttemptService) findAttempt(repo *repository.AttemptRepository, id uint) (*model.Attempt, error) {
	attempt, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}

// Start samples a question set for the quiz and pins it to a new attempt.
func (s *AttemptService) Start(ctx context.Context, quizID uint, studentName string) (*AttemptSession, error) {
	name := strings.TrimSpace(studentName)
	if name == "" {
		return nil, util.NewValidationError("studentName", "must not be empty")
	}

	quiz, err := s.QuizRepo.WithContext(ctx).FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("start attempt: %w", err)
	}

	questions, err := s.Sampler.SampleQuiz(ctx, quiz)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		QuizID:         quiz.ID,
		StudentName:    name,
		TotalQuestions: quiz.TotalQuestions,
		StartedAt:      s.now(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.AttemptRepo.WithTx(tx)
		if err := repo.Create(attempt); err != nil {
			return err
		}
		pinned := make([]model.AttemptQuestion, 0, len(questions))
		for i, q := range questions {
			aq := model.AttemptQuestion{
				AttemptID:  attempt.ID,
				QuestionID: q.ID,
				Position:   i,
			}
			if err := aq.SetOptionIDs(q.OptionIDs()); err != nil {
				return err
			}
			pinned = append(pinned, aq)
		}
		return repo.CreateQuestions(pinned)
	})
	if err != nil {
		return nil, fmt.Errorf("start attempt: %w", err)
	}

	monitoring.AttemptsStarted.Inc()
	logger.Log.Info("attempt started",
		zap.Uint("attempt_id", attempt.ID),
		zap.Uint("quiz_id", quiz.ID),
		zap.String("student", name),
		zap.Int("questions", len(questions)))

	return &AttemptSession{
		Attempt:   attempt,
		Questions: questions,
		Deadline:  attempt.StartedAt.Add(time.Duration(quiz.TimeLimit) * time.Second),
	}, nil
}

// SubmitAnswer records the answer to a pinned question and reports whether
// it was correct. A nil selection counts as unanswered and is never correct.
func (s *AttemptService) SubmitAnswer(ctx context.Context, attemptID, questionID uint, selectedOptionID *uint) (bool, error) {
	var correct bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.AttemptRepo.WithTx(tx)
		attempt, err := s.findAttempt(repo, attemptID)
		if err != nil {
			return err
		}
		if attempt.Completed() {
			return util.ErrAttemptCompleted
		}

		pinned, err := repo.FindQuestion(attemptID, questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotInAttempt
		}
		if err != nil {
			return err
		}

		if selectedOptionID != nil {
			optionIDs, err := pinned.OptionIDs()
			if err != nil {
				return err
			}
			if !slices.Contains(optionIDs, *selectedOptionID) {
				return util.NewValidationError("selectedOptionId",
					fmt.Sprintf("option %d does not belong to question %d", *selectedOptionID, questionID))
			}
			correctID, err := s.correctOptionID(s.QuestionRepo.WithTx(tx), questionID, optionIDs)
			if err != nil {
				return err
			}
			correct = correctID != 0 && *selectedOptionID == correctID
		}

		return repo.SaveAnswer(&model.AttemptAnswer{
			AttemptID:        attemptID,
			QuestionID:       questionID,
			SelectedOptionID: selectedOptionID,
			IsCorrect:        correct,
			AnsweredAt:       s.now(),
		})
	})
	if err != nil {
		return false, err
	}

	monitoring.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
	logger.Log.Debug("answer submitted",
		zap.Uint("attempt_id", attemptID),
		zap.Uint("question_id", questionID),
		zap.Bool("correct", correct))
	return correct, nil
}

// correctOptionID finds the correct option among the pinned option ids.
// It returns 0 when none is marked correct.
func (s *AttemptService) correctOptionID(repo *repository.QuestionRepository, questionID uint, optionIDs []uint) (uint, error) {
	questions, err := repo.FindByIDsUnscoped([]uint{questionID})
	if err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		return 0, util.ErrQuestionNotFound
	}
	for _, o := range questions[0].Options {
		if o.IsCorrect && slices.Contains(optionIDs, o.ID) {
			return o.ID, nil
		}
	}
	return 0, nil
}

// Complete scores the recorded answers and closes the attempt. It can
// succeed only once per attempt.
func (s *AttemptService) Complete(ctx context.Context, attemptID uint, elapsedSeconds int) (*model.AttemptResult, error) {
	if elapsedSeconds < 0 {
		return nil, util.NewValidationError("elapsedSeconds", "must be at least 0")
	}

	result := &model.AttemptResult{AttemptID: attemptID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.AttemptRepo.WithTx(tx)
		attempt, err := s.findAttempt(repo, attemptID)
		if err != nil {
			return err
		}
		if attempt.Completed() {
			return util.ErrAttemptCompleted
		}

		total, correct, err := repo.AnswerCounts(attemptID)
		if err != nil {
			return err
		}
		result.Total = int(total)
		result.Correct = int(correct)
		result.Score = CalculateScore(result.Correct, result.Total)

		ok, err := repo.Finish(attemptID, result.Score, result.Correct, elapsedSeconds, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrAttemptCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.AttemptsCompleted.Inc()
	monitoring.AttemptScore.Observe(result.Score)
	logger.Log.Info("attempt completed",
		zap.Uint("attempt_id", attemptID),
		zap.Float64("score", result.Score),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
		zap.Int("time_taken", elapsedSeconds))
	return result, nil
}

// Review lists every recorded answer with the options as they were shown.
// Questions and options deleted since then are still included.
func (s *AttemptService) Review(ctx context.Context, attemptID uint) (*AttemptReview, error) {
	repo := s.AttemptRepo.WithContext(ctx)
	attempt, err := s.findAttempt(repo, attemptID)
	if err != nil {
		return nil, err
	}
	pinned, err := repo.GetQuestions(attemptID)
	if err != nil {
		return nil, err
	}
	answers, err := repo.GetAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uint, 0, len(pinned))
	for _, p := range pinned {
		questionIDs = append(questionIDs, p.QuestionID)
	}
	questions, err := s.QuestionRepo.WithContext(ctx).FindByIDsUnscoped(questionIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	answerByQuestion := make(map[uint]model.AttemptAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	review := &AttemptReview{Attempt: attempt, Items: []ReviewItem{}}
	for _, p := range pinned {
		answer, answered := answerByQuestion[p.QuestionID]
		if !answered {
			continue
		}
		q, ok := byID[p.QuestionID]
		if !ok {
			continue
		}
		optionIDs, err := p.OptionIDs()
		if err != nil {
			return nil, err
		}

		item := ReviewItem{
			SelectedOptionID: answer.SelectedOptionID,
			IsCorrect:        answer.IsCorrect,
		}
		q.Options = orderOptions(q.Options, optionIDs)
		for _, o := range q.Options {
			if o.IsCorrect {
				item.CorrectOptionID = o.ID
				break
			}
		}
		item.Question = q
		review.Items = append(review.Items, item)
	}
	return review, nil
}

// orderOptions keeps the options listed in ids, in that order.
func orderOptions(options []model.Option, ids []uint) []model.Option {
	byID := make(map[uint]model.Option, len(options))
	for _, o := range options {
		byID[o.ID] = o
	}
	ordered := make([]model.Option, 0, len(ids))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			ordered = append(ordered, o)
		}
	}
	return ordered
}

// Progress reports how far an attempt has got and how much time is left.
// The caller decides whether an expired attempt should be completed.
func (s *AttemptService) Progress(ctx context.Context, attemptID uint) (*AttemptProgress, error) {
	repo := s.AttemptRepo.WithContext(ctx)
	attempt, err := s.findAttempt(repo, attemptID)
	if err != nil {
		return nil, err
	}
	answered, _, err := repo.AnswerCounts(attemptID)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountQuestions(attemptID)
	if err != nil {
		return nil, err
	}

	progress := &AttemptProgress{
		AttemptID: attemptID,
		Status:    util.StatusInProgress,
		Answered:  answered,
		Total:     total,
	}
	if attempt.Completed() {
		progress.Status = util.StatusCompleted
		return progress, nil
	}

	quiz, err := s.QuizRepo.WithContext(ctx).FindByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	elapsed := int(s.now().Sub(attempt.StartedAt).Seconds())
	remaining := quiz.TimeLimit - elapsed
	if remaining <= 0 {
		remaining = 0
		progress.Expired = true
	}
	progress.RemainingSeconds = remaining
	return progress, nil
}

// GetByRef looks an attempt up by its public reference.
func (s *AttemptService) GetByRef(ctx context.Context, ref string) (*model.Attempt, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return nil, util.NewValidationError("ref", "must be a UUID")
	}
	attempt, err := s.AttemptRepo.WithContext(ctx).FindByRef(ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}

func (s *AttemptService) ListByQuiz(ctx context.Context, quizID uint) ([]model.Attempt, error) {
	return s.AttemptRepo.WithContext(ctx).ListByQuiz(quizID)
}

func (s *AttemptService) Delete(ctx context.Context, attemptID uint) error {
	deleted, err := s.AttemptRepo.WithContext(ctx).Delete(attemptID)
	if err != nil {
		return fmt.Errorf("delete attempt %d: %w", attemptID, err)
	}
	if !deleted {
		return util.ErrAttemptNotFound
	}
	return nil
}
