package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

// goalRepository handles goal metadata. Allocations to a goal change
// balances, so they are written through the balance mutator instead.
type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) adapter.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	return r.db.WithContext(ctx).Create(model.GoalFromEntity(goal)).Error
}

func (r *goalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	var row model.GoalModel
	switch err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domainerror.ErrGoalNotFound
	case err != nil:
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *goalRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error) {
	var rows []model.GoalModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	goals := make([]*entity.Goal, len(rows))
	for i := range rows {
		goals[i] = rows[i].ToEntity()
	}
	return goals, nil
}
