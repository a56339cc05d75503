// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

// emergencyFundRepository implements the adapter.EmergencyFundRepository interface.
type emergencyFundRepository struct {
	db *gorm.DB
}

// NewEmergencyFundRepository creates a new emergency fund repository instance.
func NewEmergencyFundRepository(db *gorm.DB) adapter.EmergencyFundRepository {
	return &emergencyFundRepository{
		db: db,
	}
}

// FindByUserID retrieves all funds for a user, oldest first.
func (r *emergencyFundRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.EmergencyFund, error) {
	var fundModels []model.EmergencyFundModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&fundModels)
	if result.Error != nil {
		return nil, result.Error
	}

	funds := make([]*entity.EmergencyFund, len(fundModels))
	for i, fm := range fundModels {
		funds[i] = fm.ToEntity()
	}
	return funds, nil
}

// FindByID retrieves a fund by its ID.
func (r *emergencyFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.EmergencyFund, error) {
	var fundModel model.EmergencyFundModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&fundModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrFundNotFound
		}
		return nil, result.Error
	}
	return fundModel.ToEntity(), nil
}

// ListContributions returns a fund's balance history, newest first.
func (r *emergencyFundRepository) ListContributions(ctx context.Context, fundID uuid.UUID, limit int) ([]*entity.FundContribution, error) {
	var contributionModels []model.FundContributionModel
	query := r.db.WithContext(ctx).
		Where("fund_id = ?", fundID).
		Order("created_at DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&contributionModels).Error; err != nil {
		return nil, err
	}

	contributions := make([]*entity.FundContribution, len(contributionModels))
	for i, cm := range contributionModels {
		contributions[i] = cm.ToEntity()
	}
	return contributions, nil
}

// Version returns the user's shield account version, 0 when none exists yet.
func (r *emergencyFundRepository) Version(ctx context.Context, userID uuid.UUID) (int64, error) {
	var account model.ShieldAccountModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&account)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}
	return account.Version, nil
}

// Apply writes a mutation in one transaction, guarded by the account version.
// It returns domainerror.ErrConcurrentModification when the version moved and
// domainerror.ErrInvariantViolation when a conditional balance update matched
// no row. Either way nothing is written.
func (r *emergencyFundRepository) Apply(ctx context.Context, userID uuid.UUID, expectedVersion int64, m *entity.ShieldMutation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, userID, expectedVersion, m); err != nil {
			return err
		}

		for _, fund := range m.NewFunds {
			if err := tx.Create(model.EmergencyFundFromEntity(fund)).Error; err != nil {
				return fmt.Errorf("failed to create fund: %w", err)
			}
		}
		for _, delta := range m.FundDeltas {
			if err := applyFundDelta(tx, userID, delta, m); err != nil {
				return err
			}
		}
		for _, fundID := range m.DeletedFundIDs {
			if err := deleteFund(tx, userID, fundID); err != nil {
				return err
			}
		}
		for _, credit := range m.GoalCredits {
			if err := creditGoal(tx, userID, credit, m); err != nil {
				return err
			}
		}
		for _, credit := range m.LoanCredits {
			if err := creditLoan(tx, userID, credit, m); err != nil {
				return err
			}
		}
		for _, payment := range m.LoanPayments {
			if err := payLoan(tx, userID, payment, m); err != nil {
				return err
			}
		}

		if len(m.Transactions) > 0 {
			rows := make([]*model.TransactionModel, len(m.Transactions))
			for i, t := range m.Transactions {
				rows[i] = model.TransactionFromEntity(t)
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("failed to create transactions: %w", err)
			}
		}
		if len(m.History) > 0 {
			rows := make([]*model.FundContributionModel, len(m.History))
			for i, c := range m.History {
				rows[i] = model.FundContributionFromEntity(c)
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("failed to record fund history: %w", err)
			}
		}
		if len(m.Emails) > 0 {
			rows := make([]*model.EmailQueueModel, len(m.Emails))
			for i, job := range m.Emails {
				rows[i] = model.EmailQueueModelFromEntity(job)
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("failed to queue email: %w", err)
			}
		}
		return nil
	})
}

func bumpVersion(tx *gorm.DB, userID uuid.UUID, expectedVersion int64, m *entity.ShieldMutation) error {
	var result *gorm.DB
	if expectedVersion == 0 {
		result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.ShieldAccountModel{
			UserID:    userID,
			Version:   1,
			UpdatedAt: m.At,
		})
	} else {
		result = tx.Model(&model.ShieldAccountModel{}).
			Where("user_id = ? AND version = ?", userID, expectedVersion).
			Updates(map[string]any{
				"version":    gorm.Expr("version + 1"),
				"updated_at": m.At,
			})
	}
	if result.Error != nil {
		return fmt.Errorf("failed to bump shield version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrConcurrentModification
	}
	return nil
}

func applyFundDelta(tx *gorm.DB, userID uuid.UUID, delta entity.FundDelta, m *entity.ShieldMutation) error {
	updates := map[string]any{
		"current_amount": gorm.Expr("current_amount + ?", delta.Amount),
		"updated_at":     m.At,
	}
	if delta.Contributed {
		updates["last_contribution_at"] = m.At
	}
	result := tx.Model(&model.EmergencyFundModel{}).
		Where("id = ? AND user_id = ? AND current_amount + ? >= 0", delta.FundID, userID, delta.Amount).
		Updates(updates)
	return expectOneRow(result, "fund balance")
}

func deleteFund(tx *gorm.DB, userID, fundID uuid.UUID) error {
	if err := tx.Where("fund_id = ?", fundID).Delete(&model.FundContributionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete fund history: %w", err)
	}
	result := tx.Where("id = ? AND user_id = ?", fundID, userID).Delete(&model.EmergencyFundModel{})
	return expectOneRow(result, "fund deletion")
}

func creditGoal(tx *gorm.DB, userID uuid.UUID, credit entity.AllocationCredit, m *entity.ShieldMutation) error {
	result := tx.Model(&model.GoalModel{}).
		Where("id = ? AND user_id = ?", credit.TargetID, userID).
		Updates(map[string]any{
			"allocated_amount": gorm.Expr("allocated_amount + ?", credit.Amount),
			"status": gorm.Expr("CASE WHEN allocated_amount + ? >= target_amount THEN ? ELSE status END",
				credit.Amount, string(entity.GoalStatusCompleted)),
			"updated_at": m.At,
		})
	return expectOneRow(result, "goal allocation")
}

func creditLoan(tx *gorm.DB, userID uuid.UUID, credit entity.AllocationCredit, m *entity.ShieldMutation) error {
	result := tx.Model(&model.LoanModel{}).
		Where("id = ? AND user_id = ?", credit.TargetID, userID).
		Updates(map[string]any{
			"allocated_amount": gorm.Expr("allocated_amount + ?", credit.Amount),
			"updated_at":       m.At,
		})
	return expectOneRow(result, "loan allocation")
}

func payLoan(tx *gorm.DB, userID uuid.UUID, payment entity.LoanPayment, m *entity.ShieldMutation) error {
	used := payment.AllocationUsed
	if used.IsNegative() {
		used = decimal.Zero
	}
	result := tx.Model(&model.LoanModel{}).
		Where("id = ? AND user_id = ? AND outstanding - ? >= 0 AND allocated_amount - ? >= 0",
			payment.LoanID, userID, payment.Amount, used).
		Updates(map[string]any{
			"outstanding":      gorm.Expr("outstanding - ?", payment.Amount),
			"allocated_amount": gorm.Expr("allocated_amount - ?", used),
			"status": gorm.Expr("CASE WHEN outstanding - ? <= 0 THEN ? ELSE status END",
				payment.Amount, string(entity.LoanStatusClosed)),
			"updated_at": m.At,
		})
	return expectOneRow(result, "loan payment")
}

func expectOneRow(result *gorm.DB, what string) error {
	if result.Error != nil {
		return fmt.Errorf("failed to apply %s: %w", what, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s rejected: %w", what, domainerror.ErrInvariantViolation)
	}
	return nil
}
