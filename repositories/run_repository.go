package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"runclub-api/models"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *RunRepository) WithTx(tx *gorm.DB) *RunRepository {
	return &RunRepository{db: tx}
}

// FindAll returns every run ordered by start time.
func (r *RunRepository) FindAll(ctx context.Context) ([]models.Run, error) {
	var runs []models.Run
	err := r.db.WithContext(ctx).Order("scheduled_at ASC").Order("id ASC").Find(&runs).Error
	return runs, err
}

func (r *RunRepository) FindByID(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// FindByIDForUpdate takes a row lock on MySQL. SQLite ignores the clause and
// serializes writers instead.
func (r *RunRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) Create(ctx context.Context, run *models.Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *RunRepository) Save(ctx context.Context, run *models.Run) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *RunRepository) UpdateParticipants(ctx context.Context, id string, participants models.StringSlice) error {
	return r.db.WithContext(ctx).Model(&models.Run{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"participants": participants,
			"updated_at":   time.Now(),
		}).Error
}

// Delete reports whether a row was removed.
func (r *RunRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Run{})
	return res.RowsAffected > 0, res.Error
}

// FindIncomplete returns runs the completion job has not processed yet.
func (r *RunRepository) FindIncomplete(ctx context.Context) ([]models.Run, error) {
	var runs []models.Run
	err := r.db.WithContext(ctx).Where("completed_at IS NULL").Order("scheduled_at ASC").Find(&runs).Error
	return runs, err
}

// MarkCompleted reports whether this call moved the run to completed.
func (r *RunRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Run{}).Where("id = ? AND completed_at IS NULL", id).
		Update("completed_at", at)
	return res.RowsAffected > 0, res.Error
}
