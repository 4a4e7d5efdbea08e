package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"runclub-api/models"
)

func openSeeded(t *testing.T) (*gorm.DB, time.Time) {
	t.Helper()
	db, err := Initialize(MemoryDSN(uuid.NewString()), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	now := time.Now()
	require.NoError(t, SeedData(db, bcrypt.MinCost, now))
	return db, now
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, isSQLite(":memory:"))
	assert.True(t, isSQLite(MemoryDSN("x")))
	assert.True(t, isSQLite("runclub.db"))
	assert.False(t, isSQLite("user:password@tcp(localhost:3306)/runclub?parseTime=True"))
}

func TestSeedData(t *testing.T) {
	db, now := openSeeded(t)

	var users, runs, posts, comments, tips int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Run{}).Count(&runs)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	db.Model(&models.Tip{}).Count(&tips)

	assert.EqualValues(t, 10, users)
	assert.EqualValues(t, 5, runs)
	assert.EqualValues(t, 5, posts)
	assert.EqualValues(t, 6, comments)
	assert.EqualValues(t, 7, tips)

	var sarah models.User
	require.NoError(t, db.First(&sarah, "email = ?", "sarah@example.com").Error)
	assert.Equal(t, "Sarah Johnson", sarah.Name)
	assert.Equal(t, models.RoleAdmin, sarah.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(sarah.Password), []byte(SeedPassword)))
	assert.Equal(t, models.StringSlice{"marathon", "early-bird", "streak"}, sarah.Badges)

	var run models.Run
	require.NoError(t, db.First(&run, "id = ?", "1").Error)
	assert.Equal(t, models.StringSlice{"1", "2", "5"}, run.Participants)
	assert.True(t, run.ScheduledAt.After(now), "seeded runs are upcoming")
	require.NotNil(t, run.CreatedBy)
	assert.Equal(t, "1", *run.CreatedBy)

	var post models.Post
	require.NoError(t, db.First(&post, "id = ?", "1").Error)
	assert.Equal(t, 2, post.Comments, "comment counters match seeded comments")
}

func TestSeedDataSkipsPopulatedDatabase(t *testing.T) {
	db, _ := openSeeded(t)

	require.NoError(t, SeedData(db, bcrypt.MinCost, time.Now()))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 10, users)
}
