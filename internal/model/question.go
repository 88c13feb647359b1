package model

type Question struct {
	BaseModel

	Text       string     `gorm:"type:text;not null" json:"text"`
	Difficulty Difficulty `gorm:"index;not null" json:"difficulty"`
	Category   string     `gorm:"size:100;index;default:General" json:"category"`
	Options    []Option   `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
