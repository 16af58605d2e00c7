// db/repo_tool.go
package db

import (
	"context"
	"strings"

	"toolcrib/apperr"
	"toolcrib/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func validateQuantities(t *models.Tool) error {
	if t.Quantity < 0 {
		return apperr.ErrValidation.WithMessage("quantity must be >= 0")
	}
	if t.AvailableQuantity < 0 || t.AvailableQuantity > t.Quantity {
		return apperr.ErrValidation.WithMessage("availableQuantity must be between 0 and quantity")
	}
	return nil
}

// CreateTool 写入前按型号派生 NextCalibrationDate 并同步校准提醒。
func (r *Repo) CreateTool(ctx context.Context, t *models.Tool) error {
	if err := validateQuantities(t); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.ToolModel
		if err := tx.First(&m, "id = ?", t.ModelID).Error; err != nil {
			return notFound(err)
		}
		var c models.ToolClass
		if err := tx.First(&c, "id = ?", t.ClassID).Error; err != nil {
			return notFound(err)
		}
		t.DeriveNextCalibration(&m)
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return syncCalibrationAlert(tx, t)
	})
}

// UpdateTool 整体更新；LastCalibrationDate 或 ModelID 变化时重算派生列。
func (r *Repo) UpdateTool(ctx context.Context, t *models.Tool) error {
	if err := validateQuantities(t); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Tool
		if err := tx.First(&existing, "id = ?", t.ID).Error; err != nil {
			return notFound(err)
		}
		var m models.ToolModel
		if err := tx.First(&m, "id = ?", t.ModelID).Error; err != nil {
			return notFound(err)
		}
		t.DeriveNextCalibration(&m)

		if err := tx.Model(&models.Tool{}).
			Where("id = ?", t.ID).
			Updates(map[string]any{
				"code":                  t.Code,
				"name":                  t.Name,
				"description":           t.Description,
				"location":              t.Location,
				"class_id":              t.ClassID,
				"model_id":              t.ModelID,
				"quantity":              t.Quantity,
				"available_quantity":    t.AvailableQuantity,
				"status":                t.Status,
				"last_calibration_date": t.LastCalibrationDate,
				"next_calibration_date": t.NextCalibrationDate,
			}).Error; err != nil {
			return err
		}
		return syncCalibrationAlert(tx, t)
	})
}

// syncCalibrationAlert 让 pending 提醒跟住派生到期日。
func syncCalibrationAlert(tx *gorm.DB, t *models.Tool) error {
	if t.NextCalibrationDate == nil {
		return tx.Where("tool_id = ? AND status = ?", t.ID, models.AlertPending).
			Delete(&models.CalibrationAlert{}).Error
	}

	var alert models.CalibrationAlert
	err := tx.Where("tool_id = ? AND status = ?", t.ID, models.AlertPending).
		First(&alert).Error
	if err == nil {
		return tx.Model(&models.CalibrationAlert{}).
			Where("id = ?", alert.ID).
			Update("due_date", *t.NextCalibrationDate).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return tx.Create(&models.CalibrationAlert{
		ID:      uuid.NewString(),
		ToolID:  t.ID,
		DueDate: *t.NextCalibrationDate,
		Status:  models.AlertPending,
	}).Error
}

func (r *Repo) FindToolByID(ctx context.Context, id string) (*models.Tool, error) {
	var t models.Tool
	if err := r.DB.WithContext(ctx).
		Preload("Class").Preload("Model").
		First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

type ListToolsQuery struct {
	Q      string
	Status string
	Page   int
	Size   int
}

type ListToolsResult struct {
	Tools []models.Tool `json:"tools"`
	Total int64         `json:"total"`
}

func (r *Repo) ListTools(ctx context.Context, q ListToolsQuery) (ListToolsResult, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.Tool{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListToolsResult{}, err
	}

	var tools []models.Tool
	if err := tx.
		Preload("Class").Preload("Model").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&tools).Error; err != nil {
		return ListToolsResult{}, err
	}
	return ListToolsResult{Tools: tools, Total: total}, nil
}

// DeleteTool 有在借记录时拒绝，历史记录随工具一并保留。
func (r *Repo) DeleteTool(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("tool_id = ? AND return_date IS NULL", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.ErrResourceInUse.WithMessage("tool has active loans")
		}
		if err := tx.Where("tool_id = ?", id).Delete(&models.CalibrationAlert{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tool{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}
