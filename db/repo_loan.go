// db/repo_loan.go
package db

import (
	"context"
	"time"

	"toolcrib/apperr"
	"toolcrib/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchItem struct {
	ToolID   string `json:"toolId"`
	Quantity int    `json:"quantityLoaned"`
}

type CreateLoanBatchInput struct {
	Items              []BatchItem
	UserID             string
	OperatorID         string
	ExpectedReturnDate *time.Time
	Notes              string
}

type LoanBatch struct {
	BatchID string        `json:"batchId"`
	Loans   []models.Loan `json:"loans"`
}

// CreateLoanBatch 一次操作为多个工具建借用记录，共享一个 BatchID。
// 整批要么全部落库要么全不落库：先整体校验可用量，再在同一事务里
// 用条件扣减提交；并发下扣减不中就整体回滚。
func (r *Repo) CreateLoanBatch(ctx context.Context, in CreateLoanBatchInput) (*LoanBatch, error) {
	if len(in.Items) == 0 {
		return nil, apperr.ErrValidation.WithMessage("tools list is empty")
	}
	for _, it := range in.Items {
		if it.ToolID == "" {
			return nil, apperr.ErrValidation.WithMessage("toolId is required")
		}
		if it.Quantity <= 0 {
			return nil, apperr.ErrValidation.WithMessage("quantityLoaned must be positive")
		}
	}

	now := time.Now().UTC()
	batch := &LoanBatch{BatchID: uuid.NewString()}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先全量预检：任何一件不够，整批拒绝，不落任何状态
		for _, it := range in.Items {
			var t models.Tool
			if err := tx.First(&t, "id = ?", it.ToolID).Error; err != nil {
				return notFound(err)
			}
			if t.AvailableQuantity < it.Quantity {
				return apperr.ErrInsufficientAvailability.
					WithMessage("insufficient availability for tool " + t.Code)
			}
		}

		for _, it := range in.Items {
			// 条件扣减：并发请求在这里分出胜负
			res := tx.Model(&models.Tool{}).
				Where("id = ? AND available_quantity >= ?", it.ToolID, it.Quantity).
				Update("available_quantity", gorm.Expr("available_quantity - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.ErrInsufficientAvailability
			}

			// 扣到 0 的工具整体转为已借出
			if err := tx.Model(&models.Tool{}).
				Where("id = ? AND available_quantity = 0 AND status = ?", it.ToolID, models.ToolAvailable).
				Update("status", models.ToolLoaned).Error; err != nil {
				return err
			}

			userID := in.UserID
			operatorID := in.OperatorID
			confirmedAt := now
			loan := models.Loan{
				ID:                   uuid.NewString(),
				ToolID:               it.ToolID,
				UserID:               &userID,
				OperatorID:           &operatorID,
				QuantityLoaned:       it.Quantity,
				BatchID:              batch.BatchID,
				Status:               models.LoanActive,
				LoanDate:             now,
				ExpectedReturnDate:   in.ExpectedReturnDate,
				UserConfirmation:     true,
				UserConfirmationDate: &confirmedAt,
				Notes:                in.Notes,
			}
			if err := tx.Create(&loan).Error; err != nil {
				return err
			}
			batch.Loans = append(batch.Loans, loan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// ReturnLoan 归还：记录归还时间、恢复可用量、工具状态重置为 available。
// 已归还的记录按原样返回（幂等，避免二次恢复库存）。
// 状态无条件重置是沿用的产品行为：不看同工具其他在借记录，也不看待校准。
func (r *Repo) ReturnLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	var loan models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, "id = ?", loanID).Error; err != nil {
			return notFound(err)
		}
		if loan.ReturnDate != nil {
			return nil
		}

		now := time.Now().UTC()
		loan.Status = models.LoanReturned
		loan.ReturnDate = &now
		if err := tx.Model(&models.Loan{}).
			Where("id = ?", loan.ID).
			Updates(map[string]any{
				"status":      models.LoanReturned,
				"return_date": now,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Tool{}).
			Where("id = ?", loan.ToolID).
			Updates(map[string]any{
				"available_quantity": gorm.Expr("available_quantity + ?", loan.QuantityLoaned),
				"status":             models.ToolAvailable,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	// 带关联读回，给调用方渲染凭据用
	var out models.Loan
	if err := r.DB.WithContext(ctx).
		Preload("Tool").Preload("User").Preload("Operator").
		First(&out, "id = ?", loan.ID).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

type ListLoansQuery struct {
	UserID  string
	ToolID  string
	BatchID string
	Status  string // "", "active", "returned", "overdue"
	Page    int
	Size    int
}

func (r *Repo) ListLoans(ctx context.Context, q ListLoansQuery) ([]models.Loan, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Tool").Preload("User").Preload("Operator").
		Order("loan_date DESC")

	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.ToolID != "" {
		tx = tx.Where("tool_id = ?", q.ToolID)
	}
	if q.BatchID != "" {
		tx = tx.Where("batch_id = ?", q.BatchID)
	}
	switch q.Status {
	case "active":
		tx = tx.Where("return_date IS NULL")
	case "returned":
		tx = tx.Where("return_date IS NOT NULL")
	case "overdue":
		tx = tx.Where("return_date IS NULL AND expected_return_date IS NOT NULL AND expected_return_date < ?",
			time.Now().UTC())
	}

	var loans []models.Loan
	if err := tx.
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *Repo) FindLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).
		Preload("Tool").Preload("User").Preload("Operator").
		First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}
