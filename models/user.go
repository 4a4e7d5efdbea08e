// File: /models/user.go
package models

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID            string      `json:"id" gorm:"primaryKey;size:191"`
	Name          string      `json:"name" gorm:"not null;size:255"`
	Email         string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password      string      `json:"-" gorm:"not null;size:255"`
	Avatar        string      `json:"avatar" gorm:"size:500"`
	Role          Role        `json:"role" gorm:"not null;size:20;default:user"`
	TotalRuns     int         `json:"total_runs" gorm:"default:0"`
	TotalDistance float64     `json:"total_distance" gorm:"default:0"` // km
	AvgPace       string      `json:"avg_pace" gorm:"size:10;default:'0:00'"`
	Badges        StringSlice `json:"badges" gorm:"type:json"`
	Suspended     bool        `json:"suspended" gorm:"default:false"`
	JoinedAt      time.Time   `json:"joined_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStats is the profile page summary.
type UserStats struct {
	UserID          string   `json:"user_id"`
	TotalRuns       int      `json:"total_runs"`
	TotalDistance   float64  `json:"total_distance"`
	AvgPace         string   `json:"avg_pace"`
	Badges          []string `json:"badges"`
	JoinedRuns      int      `json:"joined_runs"`
	UpcomingRuns    int      `json:"upcoming_runs"`
	Posts           int64    `json:"posts"`
	LikesReceived   int64    `json:"likes_received"`
	CommentsWritten int64    `json:"comments_written"`
}
