// db/repo_class_model.go
package db

import (
	"context"

	"toolcrib/apperr"
	"toolcrib/models"

	"gorm.io/gorm"
)

// Tool classes

func (r *Repo) CreateClass(ctx context.Context, c *models.ToolClass) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repo) FindClassByID(ctx context.Context, id string) (*models.ToolClass, error) {
	var c models.ToolClass
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *Repo) ListClasses(ctx context.Context) ([]models.ToolClass, error) {
	var cs []models.ToolClass
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cs).Error
	return cs, err
}

func (r *Repo) UpdateClass(ctx context.Context, c *models.ToolClass) error {
	res := r.DB.WithContext(ctx).Model(&models.ToolClass{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "description": c.Description})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteClass 被工具引用时拒绝删除。
func (r *Repo) DeleteClass(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Tool{}).Where("class_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.ErrResourceInUse.WithMessage("tool class is referenced by existing tools")
		}
		res := tx.Delete(&models.ToolClass{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}

// Tool models

func (r *Repo) CreateModel(ctx context.Context, m *models.ToolModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *Repo) FindModelByID(ctx context.Context, id string) (*models.ToolModel, error) {
	var m models.ToolModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repo) ListModels(ctx context.Context) ([]models.ToolModel, error) {
	var ms []models.ToolModel
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&ms).Error
	return ms, err
}

func (r *Repo) UpdateModel(ctx context.Context, m *models.ToolModel) error {
	res := r.DB.WithContext(ctx).Model(&models.ToolModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"name":                      m.Name,
			"manufacturer":              m.Manufacturer,
			"requires_calibration":      m.RequiresCalibration,
			"calibration_interval_days": m.CalibrationIntervalDays,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteModel 被工具引用时拒绝删除。
func (r *Repo) DeleteModel(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Tool{}).Where("model_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.ErrResourceInUse.WithMessage("tool model is referenced by existing tools")
		}
		res := tx.Delete(&models.ToolModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}
