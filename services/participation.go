package services

import (
	"time"

	"runclub-api/models"
)

// IsParticipant reports whether userID is on the run's roster.
func IsParticipant(run models.Run, userID string) bool {
	return run.Participants.Contains(userID)
}

// SpotsRemaining never goes negative, even for a run seeded over capacity.
func SpotsRemaining(run models.Run) int {
	spots := run.MaxParticipants - len(run.Participants)
	if spots < 0 {
		return 0
	}
	return spots
}

func IsFull(run models.Run) bool {
	return len(run.Participants) >= run.MaxParticipants
}

// Join appends userID to the roster. Joining twice is a no-op. The capacity
// check and the append happen together so a full run is never overshot.
func Join(run models.Run, userID string, now time.Time) (models.Run, error) {
	if IsParticipant(run, userID) {
		return run, nil
	}
	if run.CompletedAt != nil {
		return run, ErrRunCompleted
	}
	if !run.ScheduledAt.After(now) {
		return run, ErrRunStarted
	}
	if IsFull(run) {
		return run, ErrRunFull
	}
	run.Participants = run.Participants.With(userID)
	return run, nil
}

// Leave removes every occurrence of userID. Leaving a run you are not on is a no-op.
func Leave(run models.Run, userID string) (models.Run, error) {
	if run.CompletedAt != nil && IsParticipant(run, userID) {
		return run, ErrRunCompleted
	}
	run.Participants = run.Participants.Without(userID)
	return run, nil
}

// View attaches the derived fields for the given viewer.
func View(run models.Run, viewerID string) models.RunView {
	if run.Participants == nil {
		run.Participants = models.StringSlice{}
	}
	return models.RunView{
		Run:            run,
		SpotsRemaining: SpotsRemaining(run),
		IsFull:         IsFull(run),
		IsParticipant:  viewerID != "" && IsParticipant(run, viewerID),
	}
}
