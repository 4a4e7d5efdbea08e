package repositories

import (
	"context"

	"gorm.io/gorm"
	"runclub-api/models"
)

type TipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

func (r *TipRepository) FindAll(ctx context.Context) ([]models.Tip, error) {
	var tips []models.Tip
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tips).Error
	return tips, err
}

func (r *TipRepository) FindByID(ctx context.Context, id string) (*models.Tip, error) {
	var tip models.Tip
	if err := r.db.WithContext(ctx).First(&tip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tip, nil
}
