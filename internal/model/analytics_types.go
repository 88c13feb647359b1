package model

// OptionDistribution is how often one option was picked.
type OptionDistribution struct {
	OptionID       uint   `json:"optionId"`
	Text           string `json:"text"`
	IsCorrect      bool   `json:"isCorrect"`
	SelectionCount int64  `json:"selectionCount"`
}

// QuestionStatistics summarizes every recorded answer to one question.
type QuestionStatistics struct {
	QuestionID         uint                 `json:"questionId"`
	TotalAnswers       int64                `json:"totalAnswers"`
	CorrectCount       int64                `json:"correctCount"`
	CorrectRate        float64              `json:"correctRate"` // percent
	OptionDistribution []OptionDistribution `json:"optionDistribution"`
}

// DifficultyAnalysis compares the labeled difficulty with the observed
// success rate.
type DifficultyAnalysis struct {
	QuestionID        uint       `json:"questionId"`
	Text              string     `json:"text"`
	LabeledDifficulty Difficulty `json:"labeledDifficulty"`
	TotalAnswers      int64      `json:"totalAnswers"`
	CorrectAnswers    int64      `json:"correctAnswers"`
	SuccessRate       float64    `json:"successRate"` // percent
}

type DifficultyBreakdown struct {
	Difficulty Difficulty `json:"difficulty"`
	Answered   int64      `json:"answered"`
	Correct    int64      `json:"correct"`
}

// QuizStatistics aggregates completed attempts only.
type QuizStatistics struct {
	QuizID        uint                  `json:"quizId"`
	TotalAttempts int64                 `json:"totalAttempts"`
	AvgScore      float64               `json:"avgScore"`
	MaxScore      float64               `json:"maxScore"`
	MinScore      float64               `json:"minScore"`
	AvgTime       float64               `json:"avgTime"` // seconds
	ByDifficulty  []DifficultyBreakdown `json:"byDifficulty"`
}
