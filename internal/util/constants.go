package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// question bank rules
const (
	MinOptions      = 2
	DefaultCategory = "General"
)

// attempt status as reported by progress queries
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// MaxScore is the scale every attempt score is normalized to.
const MaxScore = 10
