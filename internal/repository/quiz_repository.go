package repository

import (
	"context"

	"quiz_engine/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: tx}
}

func (r *QuizRepository) WithContext(ctx context.Context) *QuizRepository {
	return &QuizRepository{DB: r.DB.WithContext(ctx)}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByTitle(title string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.Where("title = ?", title).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) List() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

// Delete removes the quiz and its attempt history permanently.
func (r *QuizRepository) Delete(id uint) (bool, error) {
	var deleted bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		attemptIDs := tx.Model(&model.Attempt{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Unscoped().Where("attempt_id IN (?)", attemptIDs).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("attempt_id IN (?)", attemptIDs).Delete(&model.AttemptQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.Quiz{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
