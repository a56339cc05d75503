package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

// transactionRepository is the read side of the ledger. Rows are written by
// the balance mutator inside its versioned transaction.
type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var row model.TransactionModel
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerror.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *transactionRepository) List(ctx context.Context, filter adapter.TransactionFilter, page adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	base := r.db.WithContext(ctx).Model(&model.TransactionModel{}).Scopes(ledgerFilter(filter))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []model.TransactionModel
	err := base.
		Order("date DESC, created_at DESC").
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := &entity.TransactionListResult{
		Transactions: make([]*entity.Transaction, len(rows)),
		Total:        total,
		Page:         page.Page,
		Limit:        page.Limit,
		TotalPages:   max(1, int((total+int64(page.Limit)-1)/int64(page.Limit))),
	}
	for i := range rows {
		result.Transactions[i] = rows[i].ToEntity()
	}
	return result, nil
}

func ledgerFilter(f adapter.TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("user_id = ?", f.UserID)
		if f.StartDate != nil {
			q = q.Where("date >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			q = q.Where("date <= ?", *f.EndDate)
		}
		if f.Type != nil {
			q = q.Where("type = ?", string(*f.Type))
		}
		if f.Essential != nil {
			q = q.Where("essential = ?", *f.Essential)
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return q
	}
}
