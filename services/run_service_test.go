package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"runclub-api/models"
)

func TestRunServiceListFilters(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	ctx := context.Background()

	all, err := svc.List(ctx, RunFilter{}, "1")
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].ScheduledAt.Before(all[i-1].ScheduledAt), "runs are ordered by start time")
	}

	park, err := svc.List(ctx, RunFilter{Search: "park"}, "")
	require.NoError(t, err)
	titles := make([]string, 0, len(park))
	for _, r := range park {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"Morning Trail Run", "Easy Recovery Run", "Social Evening Run"}, titles)

	hard, err := svc.List(ctx, RunFilter{Difficulty: "hard"}, "")
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "Speed Training", hard[0].Title)

	none, err := svc.List(ctx, RunFilter{Search: "zzz"}, "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRunServiceGet(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())

	view, err := svc.Get(context.Background(), "1", "2")
	require.NoError(t, err)
	assert.Equal(t, 12, view.SpotsRemaining)
	assert.True(t, view.IsParticipant)
	assert.False(t, view.IsFull)

	_, err = svc.Get(context.Background(), "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunServiceJoinAndLeave(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	ctx := context.Background()

	view, err := svc.Join(ctx, "1", "3")
	require.NoError(t, err)
	assert.Equal(t, models.StringSlice{"1", "2", "5", "3"}, view.Participants)
	assert.True(t, view.IsParticipant)

	again, err := svc.Join(ctx, "1", "3")
	require.NoError(t, err)
	assert.Equal(t, view.Participants, again.Participants)

	left, err := svc.Leave(ctx, "1", "3")
	require.NoError(t, err)
	assert.Equal(t, models.StringSlice{"1", "2", "5"}, left.Participants)

	stored, err := svc.Get(ctx, "1", "")
	require.NoError(t, err)
	assert.Equal(t, models.StringSlice{"1", "2", "5"}, stored.Participants)

	_, err = svc.Join(ctx, "missing", "3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunServiceJoinFullRun(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	ctx := context.Background()

	max := 3
	_, err := svc.Update(ctx, "2", RunPatch{MaxParticipants: &max})
	require.NoError(t, err)

	_, err = svc.Join(ctx, "2", "4")
	assert.ErrorIs(t, err, ErrRunFull)

	tooSmall := 2
	_, err = svc.Update(ctx, "2", RunPatch{MaxParticipants: &tooSmall})
	assert.ErrorIs(t, err, ErrCapacityTooSmall)
}

func TestRunServiceConcurrentJoinsRespectCapacity(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	ctx := context.Background()

	max := 5
	_, err := svc.Update(ctx, "2", RunPatch{MaxParticipants: &max})
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		full   int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := svc.Join(ctx, "2", userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case assert.ErrorIs(t, err, ErrRunFull):
				full++
			}
		}(fmt.Sprintf("runner-%d", i))
	}
	wg.Wait()

	assert.Equal(t, 2, joined)
	assert.Equal(t, 8, full)

	view, err := svc.Get(ctx, "2", "")
	require.NoError(t, err)
	assert.Len(t, view.Participants, 5)
	assert.Equal(t, 0, view.SpotsRemaining)
	assert.Zero(t, svc.locks.size())
}

func TestRunServiceCreateValidates(t *testing.T) {
	db, now := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	svc.now = fixedClock(now)
	ctx := context.Background()

	in := RunInput{
		Title:           "Sunset Tempo",
		Distance:        6,
		Difficulty:      "Very Hard",
		Pace:            "5:05",
		Location:        "Harbor Loop",
		ScheduledAt:     now.Add(48 * time.Hour),
		MaxParticipants: 8,
	}
	view, err := svc.Create(ctx, in, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyVeryHard, view.Difficulty)
	assert.Empty(t, view.Participants)
	assert.Equal(t, 8, view.SpotsRemaining)
	require.NotNil(t, view.CreatedBy)
	assert.Equal(t, "1", *view.CreatedBy)

	cases := map[string]func(*RunInput){
		"zero distance": func(r *RunInput) { r.Distance = 0 },
		"zero capacity": func(r *RunInput) { r.MaxParticipants = 0 },
		"bad pace":      func(r *RunInput) { r.Pace = "fast" },
		"bad level":     func(r *RunInput) { r.Difficulty = "extreme" },
		"in the past":   func(r *RunInput) { r.ScheduledAt = now.Add(-time.Hour) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			bad := in
			mutate(&bad)
			_, err := svc.Create(ctx, bad, "1")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRunServiceJoinedAndDelete(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	ctx := context.Background()

	joined, err := svc.Joined(ctx, "1")
	require.NoError(t, err)
	ids := make([]string, 0, len(joined))
	for _, r := range joined {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"1", "2", "4"}, ids)

	require.NoError(t, svc.Delete(ctx, "2"))
	assert.ErrorIs(t, svc.Delete(ctx, "2"), ErrNotFound)

	joined, err = svc.Joined(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, joined, 2)
}

func TestRunServiceRejectsStartedRun(t *testing.T) {
	db, now := newTestDB(t)
	svc := NewRunService(db, NoopMailer{}, zap.NewNop())
	svc.now = fixedClock(now.Add(40 * time.Hour))

	_, err := svc.Join(context.Background(), "1", "6")
	assert.ErrorIs(t, err, ErrRunStarted)
}

type recordingMailer struct {
	NoopMailer
	mu     sync.Mutex
	joined []string
	done   chan struct{}
}

func (m *recordingMailer) SendJoinConfirmation(user models.User, run models.Run) error {
	m.mu.Lock()
	m.joined = append(m.joined, user.ID+"@"+run.ID)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func TestRunServiceSendsJoinConfirmation(t *testing.T) {
	db, _ := newTestDB(t)
	mailer := &recordingMailer{done: make(chan struct{}, 1)}
	svc := NewRunService(db, mailer, zap.NewNop())

	_, err := svc.Join(context.Background(), "3", "6")
	require.NoError(t, err)

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("join confirmation was not sent")
	}
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"6@3"}, mailer.joined)
}
