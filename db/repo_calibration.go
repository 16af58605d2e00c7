package db

import (
	"context"
	"time"

	"toolcrib/apperr"
	"toolcrib/models"
)

func (r *Repo) ListCalibrationAlerts(ctx context.Context, status string) ([]models.CalibrationAlert, error) {
	tx := r.DB.WithContext(ctx).Model(&models.CalibrationAlert{}).
		Preload("Tool").
		Order("due_date ASC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var alerts []models.CalibrationAlert
	if err := tx.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *Repo) AcknowledgeCalibrationAlert(ctx context.Context, id, userID string) (*models.CalibrationAlert, error) {
	now := time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.CalibrationAlert{}).
		Where("id = ? AND status = ?", id, models.AlertPending).
		Updates(map[string]any{
			"status":          models.AlertAcknowledged,
			"acknowledged_by": userID,
			"acknowledged_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrNotFound.WithMessage("no pending alert with that id")
	}
	return r.findAlert(ctx, id)
}

func (r *Repo) CompleteCalibrationAlert(ctx context.Context, id string) (*models.CalibrationAlert, error) {
	now := time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.CalibrationAlert{}).
		Where("id = ? AND status IN ?", id, []models.AlertStatus{models.AlertPending, models.AlertAcknowledged}).
		Updates(map[string]any{
			"status":       models.AlertCompleted,
			"completed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrNotFound.WithMessage("no open alert with that id")
	}
	return r.findAlert(ctx, id)
}

func (r *Repo) findAlert(ctx context.Context, id string) (*models.CalibrationAlert, error) {
	var a models.CalibrationAlert
	if err := r.DB.WithContext(ctx).Preload("Tool").First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
