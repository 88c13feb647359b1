package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// AttemptQuestion pins a sampled question to an attempt together with the
// option order it was shown in.
type AttemptQuestion struct {
	BaseModel

	AttemptID   uint           `gorm:"uniqueIndex:idx_attempt_pinned;not null" json:"attemptId"`
	QuestionID  uint           `gorm:"uniqueIndex:idx_attempt_pinned;not null" json:"questionId"`
	Position    int            `json:"position"`
	OptionOrder datatypes.JSON `json:"optionOrder"` // []uint
}

func (AttemptQuestion) TableName() string {
	return "attempt_questions"
}

func (q *AttemptQuestion) OptionIDs() ([]uint, error) {
	var ids []uint
	if len(q.OptionOrder) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(q.OptionOrder, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (q *AttemptQuestion) SetOptionIDs(ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	q.OptionOrder = datatypes.JSON(b)
	return nil
}
