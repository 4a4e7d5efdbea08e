package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"runclub-api/filters"
	"runclub-api/models"
	"runclub-api/repositories"
)

type UserService struct {
	users *repositories.UserRepository
	runs  *repositories.RunRepository
	posts *repositories.PostRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{
		users: repositories.NewUserRepository(db),
		runs:  repositories.NewRunRepository(db),
		posts: repositories.NewPostRepository(db),
		log:   log.Named("users"),
		now:   time.Now,
	}
}

type UserPatch struct {
	Name   *string      `json:"name"`
	Avatar *string      `json:"avatar"`
	Role   *models.Role `json:"role"`
}

func (s *UserService) List(ctx context.Context, q filters.Query) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	return filters.Apply(users, q, filters.Users), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// Update lets users edit their own profile; only admins may change roles.
func (s *UserService) Update(ctx context.Context, actor Actor, id string, patch UserPatch) (*models.User, error) {
	if !actor.CanManage(id) {
		return nil, ErrForbidden
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Avatar != nil {
		updates["avatar"] = *patch.Avatar
	}
	if patch.Role != nil {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
		if !patch.Role.Valid() {
			return nil, invalid("unknown role %q", *patch.Role)
		}
		updates["role"] = *patch.Role
	}

	if len(updates) > 0 {
		if err := s.users.Update(ctx, id, updates); err != nil {
			s.log.Error("update user", zap.String("user_id", id), zap.Error(err))
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.Get(ctx, id)
}

// SetSuspended is the admin soft-delete. Users are never removed.
func (s *UserService) SetSuspended(ctx context.Context, actor Actor, id string, suspended bool) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if actor.ID == id && suspended {
		return nil, invalid("admins cannot suspend themselves")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, id, map[string]interface{}{"suspended": suspended}); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.log.Info("user suspension changed", zap.String("user_id", id), zap.Bool("suspended", suspended))
	return s.Get(ctx, id)
}

func (s *UserService) Stats(ctx context.Context, id string) (models.UserStats, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return models.UserStats{}, err
	}

	runs, err := s.runs.FindAll(ctx)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("list runs: %w", err)
	}
	now := s.now()
	joined, upcoming := 0, 0
	for _, run := range runs {
		if !IsParticipant(run, id) {
			continue
		}
		joined++
		if run.CompletedAt == nil && run.ScheduledAt.After(now) {
			upcoming++
		}
	}

	posts, likes, err := s.posts.AuthorTotals(ctx, id)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("post totals: %w", err)
	}
	comments, err := s.posts.CountCommentsBy(ctx, id)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("comment totals: %w", err)
	}

	badges := []string(user.Badges)
	if badges == nil {
		badges = []string{}
	}
	return models.UserStats{
		UserID:          user.ID,
		TotalRuns:       user.TotalRuns,
		TotalDistance:   user.TotalDistance,
		AvgPace:         user.AvgPace,
		Badges:          badges,
		JoinedRuns:      joined,
		UpcomingRuns:    upcoming,
		Posts:           posts,
		LikesReceived:   likes,
		CommentsWritten: comments,
	}, nil
}
