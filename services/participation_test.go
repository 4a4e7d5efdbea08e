package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"runclub-api/models"
)

func upcomingRun(max int, participants ...string) models.Run {
	return models.Run{
		ID:              "r1",
		MaxParticipants: max,
		Participants:    models.StringSlice(participants),
		ScheduledAt:     time.Now().Add(24 * time.Hour),
	}
}

func TestJoinAppendsInOrder(t *testing.T) {
	run := upcomingRun(5, "1", "2")

	got, err := Join(run, "3", time.Now())
	require.NoError(t, err)

	assert.True(t, IsParticipant(got, "3"))
	assert.Equal(t, models.StringSlice{"1", "2", "3"}, got.Participants)
	assert.Len(t, got.Participants, len(run.Participants)+1)
	assert.Equal(t, models.StringSlice{"1", "2"}, run.Participants, "input run is not mutated")
}

func TestJoinTwiceIsNoop(t *testing.T) {
	run := upcomingRun(5, "1", "2")

	got, err := Join(run, "2", time.Now())
	require.NoError(t, err)
	assert.Equal(t, run.Participants, got.Participants)
}

func TestJoinAtCapacityIsRejected(t *testing.T) {
	run := upcomingRun(2, "1", "2")

	got, err := Join(run, "3", time.Now())
	require.ErrorIs(t, err, ErrRunFull)
	assert.Len(t, got.Participants, 2)
	assert.False(t, IsParticipant(got, "3"))
}

func TestJoinStartedOrCompletedRun(t *testing.T) {
	past := upcomingRun(5)
	past.ScheduledAt = time.Now().Add(-time.Hour)
	_, err := Join(past, "1", time.Now())
	assert.ErrorIs(t, err, ErrRunStarted)

	done := upcomingRun(5, "1")
	completedAt := time.Now()
	done.CompletedAt = &completedAt
	_, err = Join(done, "2", time.Now())
	assert.ErrorIs(t, err, ErrRunCompleted)

	_, err = Leave(done, "1")
	assert.ErrorIs(t, err, ErrRunCompleted)
}

func TestLeave(t *testing.T) {
	run := upcomingRun(5, "1", "2", "1")

	got, err := Leave(run, "1")
	require.NoError(t, err)
	assert.False(t, IsParticipant(got, "1"))
	assert.Equal(t, models.StringSlice{"2"}, got.Participants)

	same, err := Leave(got, "9")
	require.NoError(t, err)
	assert.Equal(t, got.Participants, same.Participants)
}

func TestJoinLeaveRoundTrip(t *testing.T) {
	for n := 0; n < 4; n++ {
		t.Run(fmt.Sprintf("%d participants", n), func(t *testing.T) {
			var existing []string
			for i := 0; i < n; i++ {
				existing = append(existing, fmt.Sprint(i))
			}
			run := upcomingRun(10, existing...)

			joined, err := Join(run, "new", time.Now())
			require.NoError(t, err)
			left, err := Leave(joined, "new")
			require.NoError(t, err)

			assert.ElementsMatch(t, run.Participants, left.Participants)
		})
	}
}

func TestSpotsRemaining(t *testing.T) {
	for count := 0; count <= 4; count++ {
		var participants []string
		for i := 0; i < count; i++ {
			participants = append(participants, fmt.Sprint(i))
		}
		run := upcomingRun(4, participants...)
		assert.Equal(t, run.MaxParticipants, SpotsRemaining(run)+len(run.Participants))
		assert.Equal(t, count == 4, IsFull(run))
	}

	over := upcomingRun(1, "a", "b")
	assert.Equal(t, 0, SpotsRemaining(over))
	assert.True(t, IsFull(over))
}

func TestView(t *testing.T) {
	run := upcomingRun(3, "1")
	run.Participants = nil

	v := View(run, "")
	assert.NotNil(t, v.Participants)
	assert.Equal(t, 3, v.SpotsRemaining)
	assert.False(t, v.IsParticipant)

	v = View(upcomingRun(1, "1"), "1")
	assert.True(t, v.IsFull)
	assert.True(t, v.IsParticipant)
}
