package shield

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// GetStatusInput represents the input for reading the shield status.
type GetStatusInput struct {
	UserID uuid.UUID
}

// GetStatusOutput represents the output of reading the shield status.
type GetStatusOutput struct {
	Status *entity.ShieldStatus
}

// GetStatusUseCase recomputes the shield status from current data.
type GetStatusUseCase struct {
	loader *SnapshotLoader
}

// NewGetStatusUseCase creates a new GetStatusUseCase instance.
func NewGetStatusUseCase(loader *SnapshotLoader) *GetStatusUseCase {
	return &GetStatusUseCase{loader: loader}
}

// Execute reads a fresh snapshot and returns its status.
func (uc *GetStatusUseCase) Execute(ctx context.Context, input GetStatusInput) (*GetStatusOutput, error) {
	snap, err := uc.loader.Load(ctx, input.UserID, nil)
	if err != nil {
		return nil, err
	}
	return &GetStatusOutput{Status: snap.Status}, nil
}
