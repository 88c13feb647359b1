package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attempt struct {
	BaseModel

	Ref            string     `gorm:"size:36;uniqueIndex" json:"ref"` // opaque handle for callers resuming an attempt
	QuizID         uint       `gorm:"index;not null" json:"quizId"`
	StudentName    string     `gorm:"size:100;not null" json:"studentName"`
	Score          float64    `gorm:"default:0" json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	CorrectAnswers int        `gorm:"default:0" json:"correctAnswers"`
	TimeTaken      *int       `json:"timeTaken,omitempty"` // seconds
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `gorm:"index" json:"completedAt,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.Ref == "" {
		a.Ref = uuid.New().String()
	}
	return nil
}

func (a *Attempt) Completed() bool {
	return a.CompletedAt != nil
}

// AttemptResult is what completing an attempt reports back.
type AttemptResult struct {
	AttemptID uint    `json:"attemptId"`
	Score     float64 `json:"score"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
}
