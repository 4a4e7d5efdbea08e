package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"runclub-api/filters"
	"runclub-api/models"
	"runclub-api/repositories"
)

// TipService serves the read-only tips library. Articles share the same store.
type TipService struct {
	tips *repositories.TipRepository
	log  *zap.Logger
}

func NewTipService(db *gorm.DB, log *zap.Logger) *TipService {
	return &TipService{
		tips: repositories.NewTipRepository(db),
		log:  log.Named("tips"),
	}
}

func (s *TipService) List(ctx context.Context, q filters.Query) ([]models.Tip, error) {
	tips, err := s.tips.FindAll(ctx)
	if err != nil {
		s.log.Error("list tips", zap.Error(err))
		return nil, fmt.Errorf("list tips: %w", err)
	}
	return filters.Apply(tips, q, filters.Tips), nil
}

func (s *TipService) Get(ctx context.Context, id string) (*models.Tip, error) {
	tip, err := s.tips.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return tip, nil
}
