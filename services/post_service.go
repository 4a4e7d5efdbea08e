package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"runclub-api/models"
	"runclub-api/repositories"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type PostService struct {
	db    *gorm.DB
	posts *repositories.PostRepository
	log   *zap.Logger
	locks *keyedMutex
	now   func() time.Time
}

func NewPostService(db *gorm.DB, log *zap.Logger) *PostService {
	return &PostService{
		db:    db,
		posts: repositories.NewPostRepository(db),
		log:   log.Named("posts"),
		locks: newKeyedMutex(),
		now:   time.Now,
	}
}

type CreatePostInput struct {
	Content string  `json:"content" binding:"required"`
	Image   *string `json:"image"`
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Feed returns a page of posts, newest first, with the viewer's like state.
func (s *PostService) Feed(ctx context.Context, viewerID string, page, limit int) (models.FeedResponse, error) {
	page, limit = clampPage(page, limit)

	total, err := s.posts.Count(ctx)
	if err != nil {
		s.log.Error("count posts", zap.Error(err))
		return models.FeedResponse{}, fmt.Errorf("count posts: %w", err)
	}
	posts, err := s.posts.FindPage(ctx, (page-1)*limit, limit)
	if err != nil {
		s.log.Error("list posts", zap.Error(err))
		return models.FeedResponse{}, fmt.Errorf("list posts: %w", err)
	}

	withLikes, err := s.withInteractions(ctx, viewerID, posts)
	if err != nil {
		return models.FeedResponse{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return models.FeedResponse{
		Posts:      withLikes,
		Page:       page,
		Limit:      limit,
		Total:      total,
		HasMore:    page < totalPages,
		TotalPages: totalPages,
	}, nil
}

func (s *PostService) withInteractions(ctx context.Context, viewerID string, posts []models.Post) ([]models.PostWithInteractions, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.posts.LikedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}

	out := make([]models.PostWithInteractions, 0, len(posts))
	for _, p := range posts {
		out = append(out, models.PostWithInteractions{Post: p, Liked: liked[p.ID]})
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, id, viewerID string) (models.PostWithInteractions, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return models.PostWithInteractions{}, notFound(err)
	}
	out, err := s.withInteractions(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return models.PostWithInteractions{}, err
	}
	return out[0], nil
}

func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (models.PostWithInteractions, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return models.PostWithInteractions{}, ErrEmptyPost
	}

	post := models.Post{
		ID:        uuid.New().String(),
		UserID:    authorID,
		Content:   content,
		Image:     in.Image,
		CreatedAt: s.now(),
	}
	if err := s.posts.Create(ctx, &post); err != nil {
		s.log.Error("create post", zap.Error(err))
		return models.PostWithInteractions{}, fmt.Errorf("create post: %w", err)
	}
	return models.PostWithInteractions{Post: post}, nil
}

// ToggleLike flips the viewer's like. The counter moves by exactly one in
// either direction, so liking twice restores the original count.
func (s *PostService) ToggleLike(ctx context.Context, postID, viewerID string) (models.PostWithInteractions, error) {
	unlock := s.locks.Lock(postID)
	defer unlock()

	var result models.PostWithInteractions
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		if _, err := posts.FindByID(ctx, postID); err != nil {
			return notFound(err)
		}

		removed, err := posts.RemoveLike(ctx, postID, viewerID)
		if err != nil {
			return fmt.Errorf("remove like: %w", err)
		}
		delta := -1
		if !removed {
			if err := posts.AddLike(ctx, postID, viewerID); err != nil {
				return fmt.Errorf("add like: %w", err)
			}
			delta = 1
		}
		if err := posts.AdjustLikes(ctx, postID, delta); err != nil {
			return fmt.Errorf("adjust likes: %w", err)
		}

		post, err := posts.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		result = models.PostWithInteractions{Post: *post, Liked: !removed}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("toggle like", zap.String("post_id", postID), zap.Error(err))
		}
		return models.PostWithInteractions{}, err
	}
	return result, nil
}

func (s *PostService) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, notFound(err)
	}
	comments, err := s.posts.FindComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// AddComment appends a comment and bumps the post's counter in one transaction.
func (s *PostService) AddComment(ctx context.Context, postID, authorID, text string) (models.Comment, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return models.Comment{}, ErrEmptyComment
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		if _, err := posts.FindByID(ctx, postID); err != nil {
			return notFound(err)
		}
		if err := posts.CreateComment(ctx, &comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return posts.IncrementComments(ctx, postID)
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}
