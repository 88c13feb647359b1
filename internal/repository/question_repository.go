package repository

import (
	"context"
	"iter"
	"strings"

	"quiz_engine/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

func (r *QuestionRepository) WithContext(ctx context.Context) *QuestionRepository {
	return &QuestionRepository{DB: r.DB.WithContext(ctx)}
}

// QuestionFilter narrows a search. Zero values mean "any".
type QuestionFilter struct {
	Keyword    string
	Difficulty model.Difficulty
	Category   string
}

// Create inserts the question together with its options.
func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.id ASC")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDsUnscoped loads questions and all their options, deleted or not.
func (r *QuestionRepository) FindByIDsUnscoped(ids []uint) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.DB.Unscoped().Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped().Order("options.id ASC")
	}).Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) FindWithOptions(ids []uint) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.id ASC")
	}).Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) UpdateFields(id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Model(&model.Question{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceOptions soft-deletes the current options and inserts the new set.
func (r *QuestionRepository) ReplaceOptions(questionID uint, options []model.Option) error {
	if err := r.DB.Where("question_id = ?", questionID).Delete(&model.Option{}).Error; err != nil {
		return err
	}
	for i := range options {
		options[i].QuestionID = questionID
	}
	if len(options) == 0 {
		return nil
	}
	return r.DB.Create(&options).Error
}

// Delete soft-deletes the question and its options and reports whether the
// question existed.
func (r *QuestionRepository) Delete(id uint) (bool, error) {
	if err := r.DB.Where("question_id = ?", id).Delete(&model.Option{}).Error; err != nil {
		return false, err
	}
	res := r.DB.Delete(&model.Question{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *QuestionRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Count(&count).Error
	return count, err
}

// keywordMatcher reports whether a text contains kw, ignoring case. Folding
// happens in Go because LOWER and LIKE in SQLite only fold ASCII. A blank
// keyword matches everything.
func keywordMatcher(kw string) func(string) bool {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return func(string) bool { return true }
	}
	folder := cases.Fold()
	needle := folder.String(norm.NFC.String(kw))
	return func(text string) bool {
		return strings.Contains(folder.String(norm.NFC.String(text)), needle)
	}
}

// searchQuery applies the filters SQL can evaluate exactly. The keyword is
// matched by the caller.
func (r *QuestionRepository) searchQuery(f QuestionFilter) *gorm.DB {
	q := r.DB.Model(&model.Question{})
	if f.Difficulty != 0 {
		q = q.Where("questions.difficulty = ?", f.Difficulty)
	}
	if f.Category != "" {
		q = q.Where("questions.category = ?", f.Category)
	}
	return q.Order("questions.id ASC")
}

// Search streams matching questions without loading the full result set.
// Options are not loaded. The sequence holds a connection while it is being
// ranged over, so on a single-connection store the loop body must not query;
// use ListWithOptions when the options are needed.
func (r *QuestionRepository) Search(f QuestionFilter) iter.Seq2[model.Question, error] {
	return func(yield func(model.Question, error) bool) {
		match := keywordMatcher(f.Keyword)
		query := r.searchQuery(f)
		rows, err := query.Rows()
		if err != nil {
			yield(model.Question{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var q model.Question
			if err := query.ScanRows(rows, &q); err != nil {
				yield(model.Question{}, err)
				return
			}
			if !match(q.Text) {
				continue
			}
			if !yield(q, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.Question{}, err)
		}
	}
}

// ListWithOptions loads every matching question together with its live
// options, in id order.
func (r *QuestionRepository) ListWithOptions(f QuestionFilter) ([]model.Question, error) {
	var qs []model.Question
	err := r.searchQuery(f).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.id ASC")
	}).Find(&qs).Error
	if err != nil {
		return nil, err
	}
	match := keywordMatcher(f.Keyword)
	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if match(q.Text) {
			out = append(out, q)
		}
	}
	return out, nil
}

// EligibleIDs returns ids of live questions with at least minOptions live
// options and exactly one correct option. A zero difficulty matches all.
func (r *QuestionRepository) EligibleIDs(difficulty model.Difficulty, minOptions int) ([]uint, error) {
	var ids []uint
	q := r.DB.Model(&model.Question{}).
		Joins("JOIN options ON options.question_id = questions.id AND options.deleted_at IS NULL")
	if difficulty != 0 {
		q = q.Where("questions.difficulty = ?", difficulty)
	}
	err := q.Group("questions.id").
		Having("COUNT(options.id) >= ? AND SUM(CASE WHEN options.is_correct THEN 1 ELSE 0 END) = 1", minOptions).
		Order("questions.id ASC").
		Pluck("questions.id", &ids).Error
	return ids, err
}

// OptionStats is the per-question option tally used by bank validation.
type OptionStats struct {
	QuestionID   uint
	Text         string
	OptionCount  int
	CorrectCount int
}

func (r *QuestionRepository) OptionStats() ([]OptionStats, error) {
	var stats []OptionStats
	err := r.DB.Model(&model.Question{}).
		Select("questions.id AS question_id, questions.text AS text, " +
			"COUNT(options.id) AS option_count, " +
			"COALESCE(SUM(CASE WHEN options.is_correct THEN 1 ELSE 0 END), 0) AS correct_count").
		Joins("LEFT JOIN options ON options.question_id = questions.id AND options.deleted_at IS NULL").
		Group("questions.id, questions.text").
		Order("questions.id ASC").
		Scan(&stats).Error
	return stats, err
}
