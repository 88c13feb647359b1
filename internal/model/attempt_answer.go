package model

import "time"

// AttemptAnswer stores one answer per question per attempt. IsCorrect is
// fixed at submission time.
type AttemptAnswer struct {
	BaseModel

	AttemptID        uint      `gorm:"uniqueIndex:idx_attempt_question;not null" json:"attemptId"`
	QuestionID       uint      `gorm:"uniqueIndex:idx_attempt_question;index;not null" json:"questionId"`
	SelectedOptionID *uint     `gorm:"index" json:"selectedOptionId,omitempty"`
	IsCorrect        bool      `gorm:"default:false" json:"isCorrect"`
	AnsweredAt       time.Time `json:"answeredAt"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
