// File: /models/post.go
package models

import (
	"time"
)

type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;index"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	Image     *string   `json:"image" gorm:"size:500"`
	Likes     int       `json:"likes" gorm:"default:0"`
	Comments  int       `json:"comments" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostLike records that a viewer currently likes a post.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_post_user"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_post_user"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithInteractions represents a post with the viewer's like state
type PostWithInteractions struct {
	Post
	Liked bool `json:"liked"`
}

// FeedResponse represents the feed response with pagination metadata
type FeedResponse struct {
	Posts      []PostWithInteractions `json:"posts"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Total      int64                  `json:"total"`
	HasMore    bool                   `json:"has_more"`
	TotalPages int                    `json:"total_pages"`
}
