package models

import (
	"time"
)

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very-hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard, DifficultyVeryHard:
		return true
	}
	return false
}

// Run is a scheduled group run. Participants holds user ids in join order.
type Run struct {
	ID              string      `json:"id" gorm:"primaryKey;size:191"`
	Title           string      `json:"title" gorm:"not null;size:255"`
	Description     string      `json:"description" gorm:"type:text"`
	Distance        float64     `json:"distance" gorm:"not null"` // km
	Difficulty      Difficulty  `json:"difficulty" gorm:"not null;size:20;index"`
	Pace            string      `json:"pace" gorm:"size:10"`
	Location        string      `json:"location" gorm:"size:255"`
	ScheduledAt     time.Time   `json:"scheduled_at" gorm:"not null;index"`
	MaxParticipants int         `json:"max_participants" gorm:"not null"`
	Participants    StringSlice `json:"participants" gorm:"type:json"`
	CreatedBy       *string     `json:"created_by" gorm:"size:191"`
	Image           string      `json:"image" gorm:"size:500"`
	CompletedAt     *time.Time  `json:"completed_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// RunView is a run with the derived values clients render.
type RunView struct {
	Run
	SpotsRemaining int  `json:"spots_remaining"`
	IsFull         bool `json:"is_full"`
	IsParticipant  bool `json:"is_participant"`
}
