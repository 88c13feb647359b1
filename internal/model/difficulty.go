package model

import (
	"fmt"
	"strings"
)

type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Difficulties lists every level in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return DifficultyEasy, nil
	case "medium", "2":
		return DifficultyMedium, nil
	case "hard", "3":
		return DifficultyHard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultyMatrix is the number of questions to draw per difficulty.
type DifficultyMatrix struct {
	Easy   int `json:"easy" validate:"gte=0"`
	Medium int `json:"medium" validate:"gte=0"`
	Hard   int `json:"hard" validate:"gte=0"`
}

func (m DifficultyMatrix) Count(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return m.Easy
	case DifficultyMedium:
		return m.Medium
	case DifficultyHard:
		return m.Hard
	}
	return 0
}

func (m DifficultyMatrix) Total() int {
	return m.Easy + m.Medium + m.Hard
}

func (m DifficultyMatrix) IsZero() bool {
	return m.Easy == 0 && m.Medium == 0 && m.Hard == 0
}

// String renders the matrix the way it is appended to quiz descriptions.
func (m DifficultyMatrix) String() string {
	return fmt.Sprintf("(%d easy, %d medium, %d hard)", m.Easy, m.Medium, m.Hard)
}
