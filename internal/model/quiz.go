package model

type Quiz struct {
	BaseModel

	Title          string `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	TimeLimit      int    `gorm:"not null" json:"timeLimit"` // seconds
	TotalQuestions int    `gorm:"not null" json:"totalQuestions"`
	EasyCount      int    `gorm:"default:0" json:"easyCount"`
	MediumCount    int    `gorm:"default:0" json:"mediumCount"`
	HardCount      int    `gorm:"default:0" json:"hardCount"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q *Quiz) Matrix() DifficultyMatrix {
	return DifficultyMatrix{Easy: q.EasyCount, Medium: q.MediumCount, Hard: q.HardCount}
}
