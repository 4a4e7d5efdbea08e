package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"runclub-api/filters"
	"runclub-api/models"
	"runclub-api/repositories"
	"runclub-api/utils"
)

// RunService is the single owner of every run's participant list.
type RunService struct {
	db     *gorm.DB
	runs   *repositories.RunRepository
	users  *repositories.UserRepository
	mailer Mailer
	log    *zap.Logger
	locks  *keyedMutex
	now    func() time.Time
}

func NewRunService(db *gorm.DB, mailer Mailer, log *zap.Logger) *RunService {
	return &RunService{
		db:     db,
		runs:   repositories.NewRunRepository(db),
		users:  repositories.NewUserRepository(db),
		mailer: mailer,
		log:    log.Named("runs"),
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

type RunFilter struct {
	Search        string
	Difficulty    string
	AvailableOnly bool
	UpcomingOnly  bool
}

type RunInput struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Distance        float64   `json:"distance" binding:"required"`
	Difficulty      string    `json:"difficulty" binding:"required"`
	Pace            string    `json:"pace" binding:"required"`
	Location        string    `json:"location" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	MaxParticipants int       `json:"max_participants" binding:"required"`
	Image           string    `json:"image"`
}

type RunPatch struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Distance        *float64   `json:"distance"`
	Difficulty      *string    `json:"difficulty"`
	Pace            *string    `json:"pace"`
	Location        *string    `json:"location"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	MaxParticipants *int       `json:"max_participants"`
	Image           *string    `json:"image"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateRun(run *models.Run) error {
	run.Difficulty = models.Difficulty(utils.NormalizeDifficulty(string(run.Difficulty)))
	switch {
	case strings.TrimSpace(run.Title) == "":
		return invalid("title is required")
	case run.Distance <= 0:
		return invalid("distance must be positive")
	case run.MaxParticipants <= 0:
		return invalid("max participants must be positive")
	case !run.Difficulty.Valid():
		return invalid("unknown difficulty %q", run.Difficulty)
	case !utils.IsValidPace(run.Pace):
		return invalid("pace must look like m:ss")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *RunService) List(ctx context.Context, f RunFilter, viewerID string) ([]models.RunView, error) {
	runs, err := s.runs.FindAll(ctx)
	if err != nil {
		s.log.Error("list runs", zap.Error(err))
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs = filters.Apply(runs, filters.Query{Search: f.Search, Selector: f.Difficulty}, filters.Runs)

	now := s.now()
	views := make([]models.RunView, 0, len(runs))
	for _, run := range runs {
		if f.AvailableOnly && IsFull(run) {
			continue
		}
		if f.UpcomingOnly && (run.CompletedAt != nil || !run.ScheduledAt.After(now)) {
			continue
		}
		views = append(views, View(run, viewerID))
	}
	return views, nil
}

func (s *RunService) Get(ctx context.Context, id, viewerID string) (models.RunView, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return models.RunView{}, notFound(err)
	}
	return View(*run, viewerID), nil
}

// Joined lists the runs a user is on, soonest first.
func (s *RunService) Joined(ctx context.Context, userID string) ([]models.RunView, error) {
	runs, err := s.runs.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	views := make([]models.RunView, 0)
	for _, run := range runs {
		if IsParticipant(run, userID) {
			views = append(views, View(run, userID))
		}
	}
	return views, nil
}

func (s *RunService) Create(ctx context.Context, in RunInput, creatorID string) (models.RunView, error) {
	run := models.Run{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Distance:        in.Distance,
		Difficulty:      models.Difficulty(in.Difficulty),
		Pace:            in.Pace,
		Location:        strings.TrimSpace(in.Location),
		ScheduledAt:     in.ScheduledAt,
		MaxParticipants: in.MaxParticipants,
		Participants:    models.StringSlice{},
		Image:           in.Image,
	}
	if creatorID != "" {
		run.CreatedBy = &creatorID
	}
	if err := validateRun(&run); err != nil {
		return models.RunView{}, err
	}
	if !run.ScheduledAt.After(s.now()) {
		return models.RunView{}, invalid("run must be scheduled in the future")
	}

	if err := s.runs.Create(ctx, &run); err != nil {
		s.log.Error("create run", zap.Error(err))
		return models.RunView{}, fmt.Errorf("create run: %w", err)
	}
	s.log.Info("run created", zap.String("run_id", run.ID), zap.String("title", run.Title))
	return View(run, creatorID), nil
}

func (s *RunService) Update(ctx context.Context, id string, patch RunPatch) (models.RunView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var updated models.Run
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		runs := s.runs.WithTx(tx)
		run, err := runs.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}

		applyRunPatch(run, patch)
		if err := validateRun(run); err != nil {
			return err
		}
		if run.MaxParticipants < len(run.Participants) {
			return ErrCapacityTooSmall
		}
		if err := runs.Save(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		updated = *run
		return nil
	})
	if err != nil {
		return models.RunView{}, err
	}
	return View(updated, ""), nil
}

func applyRunPatch(run *models.Run, p RunPatch) {
	if p.Title != nil {
		run.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		run.Description = *p.Description
	}
	if p.Distance != nil {
		run.Distance = *p.Distance
	}
	if p.Difficulty != nil {
		run.Difficulty = models.Difficulty(*p.Difficulty)
	}
	if p.Pace != nil {
		run.Pace = *p.Pace
	}
	if p.Location != nil {
		run.Location = strings.TrimSpace(*p.Location)
	}
	if p.ScheduledAt != nil {
		run.ScheduledAt = *p.ScheduledAt
	}
	if p.MaxParticipants != nil {
		run.MaxParticipants = *p.MaxParticipants
	}
	if p.Image != nil {
		run.Image = *p.Image
	}
}

func (s *RunService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	deleted, err := s.runs.Delete(ctx, id)
	if err != nil {
		s.log.Error("delete run", zap.String("run_id", id), zap.Error(err))
		return fmt.Errorf("delete run: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("run deleted", zap.String("run_id", id))
	return nil
}

// Join adds userID to the run. The capacity check and the write happen under
// the run's lock and inside one transaction, so concurrent joins cannot
// overshoot max_participants.
func (s *RunService) Join(ctx context.Context, id, userID string) (models.RunView, error) {
	var (
		updated models.Run
		added   bool
	)
	err := s.mutate(ctx, id, func(run models.Run) (models.Run, error) {
		next, err := Join(run, userID, s.now())
		if err != nil {
			return run, err
		}
		added = !IsParticipant(run, userID)
		updated = next
		return next, nil
	})
	if err != nil {
		return models.RunView{}, err
	}

	if added {
		s.log.Info("run joined", zap.String("run_id", id), zap.String("user_id", userID))
		s.notifyJoined(ctx, userID, updated)
	}
	return View(updated, userID), nil
}

func (s *RunService) Leave(ctx context.Context, id, userID string) (models.RunView, error) {
	var updated models.Run
	err := s.mutate(ctx, id, func(run models.Run) (models.Run, error) {
		next, err := Leave(run, userID)
		if err != nil {
			return run, err
		}
		updated = next
		return next, nil
	})
	if err != nil {
		return models.RunView{}, err
	}
	s.log.Info("run left", zap.String("run_id", id), zap.String("user_id", userID))
	return View(updated, userID), nil
}

// mutate loads the run with a row lock, applies fn and persists a changed roster.
func (s *RunService) mutate(ctx context.Context, id string, fn func(models.Run) (models.Run, error)) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		runs := s.runs.WithTx(tx)
		run, err := runs.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}

		next, err := fn(*run)
		if err != nil {
			return err
		}
		if equalRoster(run.Participants, next.Participants) {
			return nil
		}
		if err := runs.UpdateParticipants(ctx, id, next.Participants); err != nil {
			s.log.Error("update participants", zap.String("run_id", id), zap.Error(err))
			return fmt.Errorf("update participants: %w", err)
		}
		return nil
	})
}

func equalRoster(a, b models.StringSlice) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *RunService) notifyJoined(ctx context.Context, userID string, run models.Run) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		// Dangling ids are allowed on the roster.
		s.log.Debug("skip join confirmation", zap.String("user_id", userID), zap.Error(err))
		return
	}
	go func(u models.User) {
		if err := s.mailer.SendJoinConfirmation(u, run); err != nil {
			s.log.Warn("join confirmation failed", zap.String("user_id", u.ID), zap.Error(err))
		}
	}(*user)
}
