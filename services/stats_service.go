package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"runclub-api/models"
	"runclub-api/repositories"
	"runclub-api/utils"
)

type StatsService struct {
	db    *gorm.DB
	users *repositories.UserRepository
	runs  *repositories.RunRepository
	posts *repositories.PostRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewStatsService(db *gorm.DB, log *zap.Logger) *StatsService {
	return &StatsService{
		db:    db,
		users: repositories.NewUserRepository(db),
		runs:  repositories.NewRunRepository(db),
		posts: repositories.NewPostRepository(db),
		log:   log.Named("stats"),
		now:   time.Now,
	}
}

// Dashboard aggregates the admin overview.
func (s *StatsService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("list users: %w", err)
	}
	runs, err := s.runs.FindAll(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("list runs: %w", err)
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count posts: %w", err)
	}

	stats := models.DashboardStats{
		TotalUsers: len(users),
		TotalRuns:  len(runs),
		TotalPosts: posts,
	}
	for _, u := range users {
		if u.TotalRuns > 0 {
			stats.ActiveUsers++
		}
		if u.Suspended {
			stats.SuspendedUsers++
		}
		stats.TotalDistance += u.TotalDistance
	}

	now := s.now()
	for _, r := range runs {
		stats.TotalParticipants += len(r.Participants)
		if r.CompletedAt == nil && r.ScheduledAt.After(now) {
			stats.UpcomingRuns++
		}
	}
	if len(runs) > 0 {
		avg := float64(stats.TotalParticipants) / float64(len(runs))
		stats.AverageParticipants = math.Round(avg*10) / 10
	}
	return stats, nil
}

// CompleteDueRuns marks every run whose start time has passed as completed
// and credits its distance to each participant on the roster at that moment.
func (s *StatsService) CompleteDueRuns(ctx context.Context) (int, error) {
	now := s.now()
	runs, err := s.runs.FindIncomplete(ctx)
	if err != nil {
		return 0, fmt.Errorf("list incomplete runs: %w", err)
	}

	completed := 0
	for _, run := range runs {
		if run.ScheduledAt.After(now) {
			continue
		}
		done, err := s.completeRun(ctx, run.ID, now)
		if err != nil {
			s.log.Error("complete run", zap.String("run_id", run.ID), zap.Error(err))
			return completed, err
		}
		if done {
			completed++
		}
	}
	return completed, nil
}

// completeRun reloads the run under a row lock and credits its current roster.
// A run that is gone or already completed is skipped, so each run is credited once.
func (s *StatsService) completeRun(ctx context.Context, id string, at time.Time) (bool, error) {
	done := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		runs := s.runs.WithTx(tx)
		users := s.users.WithTx(tx)

		run, err := runs.FindByIDForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load run: %w", err)
		}
		if run.CompletedAt != nil {
			return nil
		}

		marked, err := runs.MarkCompleted(ctx, run.ID, at)
		if err != nil {
			return fmt.Errorf("mark completed: %w", err)
		}
		if !marked {
			return nil
		}

		participants, err := users.FindByIDs(ctx, run.Participants)
		if err != nil {
			return fmt.Errorf("load participants: %w", err)
		}
		for i := range participants {
			credited := CreditRun(participants[i], *run)
			if err := users.SaveStats(ctx, &credited); err != nil {
				return fmt.Errorf("save stats for %s: %w", credited.ID, err)
			}
		}
		done = true
		s.log.Info("run completed",
			zap.String("run_id", run.ID),
			zap.Int("credited", len(participants)))
		return nil
	})
	return done, err
}

var (
	distanceBadges = []struct {
		km    float64
		badge string
	}{
		{5, "5k"},
		{10, "10k"},
		{21.1, "half-marathon"},
		{42.2, "marathon"},
	}
	countBadges = []struct {
		runs  int
		badge string
	}{
		{1, "first-run"},
		{10, "10-runs"},
		{50, "50-runs"},
		{100, "100-runs"},
	}
	totalBadges = []struct {
		km    float64
		badge string
	}{
		{100, "100km-club"},
		{500, "500km-club"},
		{1000, "1000km-club"},
	}
)

// CreditRun adds one completed run to a user's stats. The average pace is
// weighted by distance. Badges only accumulate.
func CreditRun(user models.User, run models.Run) models.User {
	prevDistance := user.TotalDistance
	user.TotalRuns++
	user.TotalDistance = prevDistance + run.Distance

	runPace, runErr := utils.ParsePace(run.Pace)
	prevPace, prevErr := utils.ParsePace(user.AvgPace)
	switch {
	case runErr != nil:
	case prevErr != nil || prevDistance <= 0 || prevPace == 0:
		user.AvgPace = utils.FormatPace(runPace)
	default:
		weighted := (float64(prevPace)*prevDistance + float64(runPace)*run.Distance) / user.TotalDistance
		user.AvgPace = utils.FormatPace(int(math.Round(weighted)))
	}

	badges := user.Badges.Dedup()
	for _, b := range distanceBadges {
		if run.Distance >= b.km {
			badges = badges.With(b.badge)
		}
	}
	for _, b := range countBadges {
		if user.TotalRuns >= b.runs {
			badges = badges.With(b.badge)
		}
	}
	for _, b := range totalBadges {
		if user.TotalDistance >= b.km {
			badges = badges.With(b.badge)
		}
	}
	user.Badges = badges
	return user
}
