package repository

import (
	"context"
	"time"

	"quiz_engine/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func (r *AttemptRepository) WithContext(ctx context.Context) *AttemptRepository {
	return &AttemptRepository{DB: r.DB.WithContext(ctx)}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindByRef(ref string) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.Where("ref = ?", ref).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListByQuiz(quizID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("quiz_id = ?", quizID).Order("started_at DESC, id DESC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CreateQuestions(questions []model.AttemptQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Create(&questions).Error
}

func (r *AttemptRepository) GetQuestions(attemptID uint) ([]model.AttemptQuestion, error) {
	var questions []model.AttemptQuestion
	err := r.DB.Where("attempt_id = ?", attemptID).Order("position ASC").Find(&questions).Error
	return questions, err
}

func (r *AttemptRepository) FindQuestion(attemptID, questionID uint) (*model.AttemptQuestion, error) {
	var q model.AttemptQuestion
	err := r.DB.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *AttemptRepository) CountQuestions(attemptID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttemptQuestion{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count, err
}

// SaveAnswer inserts the answer or overwrites the earlier one for the same
// question.
func (r *AttemptRepository) SaveAnswer(answer *model.AttemptAnswer) error {
	var existing model.AttemptAnswer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", answer.AttemptID, answer.QuestionID).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if existing.ID == 0 {
		return r.DB.Create(answer).Error
	}
	existing.SelectedOptionID = answer.SelectedOptionID
	existing.IsCorrect = answer.IsCorrect
	existing.AnsweredAt = answer.AnsweredAt
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*answer = existing
	return nil
}

func (r *AttemptRepository) GetAnswers(attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("id ASC").Find(&answers).Error
	return answers, err
}

// AnswerCounts returns the number of recorded answers and how many of them
// were correct.
func (r *AttemptRepository) AnswerCounts(attemptID uint) (total, correct int64, err error) {
	var row struct {
		Total   int64
		Correct int64
	}
	err = r.DB.Model(&model.AttemptAnswer{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("attempt_id = ?", attemptID).
		Scan(&row).Error
	return row.Total, row.Correct, err
}

// Finish writes the final fields of an attempt in one update. It reports
// false when the attempt is missing or already completed.
func (r *AttemptRepository) Finish(attemptID uint, score float64, correct, timeTaken int, completedAt time.Time) (bool, error) {
	res := r.DB.Model(&model.Attempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Updates(map[string]any{
			"score":           score,
			"correct_answers": correct,
			"time_taken":      timeTaken,
			"completed_at":    completedAt,
		})
	return res.RowsAffected == 1, res.Error
}

// Delete removes the attempt with its answers and pinned questions.
func (r *AttemptRepository) Delete(attemptID uint) (bool, error) {
	var deleted bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("attempt_id = ?", attemptID).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("attempt_id = ?", attemptID).Delete(&model.AttemptQuestion{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.Attempt{}, attemptID)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
