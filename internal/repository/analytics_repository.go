package repository

import (
	"context"

	"quiz_engine/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) WithContext(ctx context.Context) *AnalyticsRepository {
	return &AnalyticsRepository{DB: r.DB.WithContext(ctx)}
}

func (r *AnalyticsRepository) QuestionAnswerCounts(questionID uint) (total, correct int64, err error) {
	var row struct {
		Total   int64
		Correct int64
	}
	err = r.DB.Model(&model.AttemptAnswer{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("question_id = ?", questionID).
		Scan(&row).Error
	return row.Total, row.Correct, err
}

// OptionDistribution counts selections for each live option of a question.
func (r *AnalyticsRepository) OptionDistribution(questionID uint) ([]model.OptionDistribution, error) {
	var rows []model.OptionDistribution
	err := r.DB.Model(&model.Option{}).
		Select("options.id AS option_id, options.text AS text, options.is_correct AS is_correct, "+
			"COUNT(attempt_answers.id) AS selection_count").
		Joins("LEFT JOIN attempt_answers ON attempt_answers.selected_option_id = options.id AND attempt_answers.deleted_at IS NULL").
		Where("options.question_id = ?", questionID).
		Group("options.id, options.text, options.is_correct").
		Order("options.id ASC").
		Scan(&rows).Error
	return rows, err
}

// DifficultyRows returns one row per live question that has at least one
// recorded answer. SuccessRate is left for the caller.
func (r *AnalyticsRepository) DifficultyRows() ([]model.DifficultyAnalysis, error) {
	var rows []model.DifficultyAnalysis
	err := r.DB.Model(&model.Question{}).
		Select("questions.id AS question_id, questions.text AS text, questions.difficulty AS labeled_difficulty, " +
			"COUNT(attempt_answers.id) AS total_answers, " +
			"COALESCE(SUM(CASE WHEN attempt_answers.is_correct THEN 1 ELSE 0 END), 0) AS correct_answers").
		Joins("JOIN attempt_answers ON attempt_answers.question_id = questions.id AND attempt_answers.deleted_at IS NULL").
		Group("questions.id, questions.text, questions.difficulty").
		Scan(&rows).Error
	return rows, err
}

// QuizAggregates summarizes the completed attempts of a quiz.
func (r *AnalyticsRepository) QuizAggregates(quizID uint) (*model.QuizStatistics, error) {
	var row struct {
		TotalAttempts int64
		AvgScore      float64
		MaxScore      float64
		MinScore      float64
		AvgTime       float64
	}
	err := r.DB.Model(&model.Attempt{}).
		Select("COUNT(*) AS total_attempts, "+
			"COALESCE(AVG(score), 0) AS avg_score, "+
			"COALESCE(MAX(score), 0) AS max_score, "+
			"COALESCE(MIN(score), 0) AS min_score, "+
			"COALESCE(AVG(time_taken), 0) AS avg_time").
		Where("quiz_id = ? AND completed_at IS NOT NULL", quizID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &model.QuizStatistics{
		QuizID:        quizID,
		TotalAttempts: row.TotalAttempts,
		AvgScore:      row.AvgScore,
		MaxScore:      row.MaxScore,
		MinScore:      row.MinScore,
		AvgTime:       row.AvgTime,
	}, nil
}

// QuizDifficultyBreakdown counts answered and correct questions per
// difficulty over the completed attempts of a quiz. Deleted questions still
// count.
func (r *AnalyticsRepository) QuizDifficultyBreakdown(quizID uint) ([]model.DifficultyBreakdown, error) {
	var rows []model.DifficultyBreakdown
	err := r.DB.Table("attempt_answers").
		Select("questions.difficulty AS difficulty, COUNT(attempt_answers.id) AS answered, "+
			"COALESCE(SUM(CASE WHEN attempt_answers.is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Joins("JOIN attempts ON attempts.id = attempt_answers.attempt_id").
		Joins("JOIN questions ON questions.id = attempt_answers.question_id").
		Where("attempts.quiz_id = ? AND attempts.completed_at IS NOT NULL", quizID).
		Where("attempt_answers.deleted_at IS NULL AND attempts.deleted_at IS NULL").
		Group("questions.difficulty").
		Order("questions.difficulty ASC").
		Scan(&rows).Error
	return rows, err
}
