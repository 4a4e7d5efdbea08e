package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"runclub-api/database"
)

// newTestDB opens a private seeded in-memory database.
func newTestDB(t *testing.T) (*gorm.DB, time.Time) {
	t.Helper()
	db, err := database.Initialize(database.MemoryDSN(uuid.NewString()), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	now := time.Now()
	require.NoError(t, database.SeedData(db, bcrypt.MinCost, now))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db, now
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestAuth(db *gorm.DB, mailer Mailer) *AuthService {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return NewAuthService(db, AuthOptions{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, mailer, zap.NewNop())
}
