package db

import (
	"context"
	"encoding/json"

	"toolcrib/models"

	"github.com/google/uuid"
)

type AuditEntry struct {
	UserID     *string
	Username   string
	Action     models.AuditAction
	EntityType string
	EntityID   string
	Before     any
	After      any
	Metadata   string
}

// AppendAudit 只追加；快照序列化失败就存空串，不让审计拖垮主流程。
func (r *Repo) AppendAudit(ctx context.Context, e AuditEntry) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		ID:         uuid.NewString(),
		UserID:     e.UserID,
		Username:   e.Username,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
	}
	if e.Before != nil {
		if b, err := json.Marshal(e.Before); err == nil {
			entry.BeforeJSON = string(b)
		}
	}
	if e.After != nil {
		if b, err := json.Marshal(e.After); err == nil {
			entry.AfterJSON = string(b)
		}
	}
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

type ListAuditQuery struct {
	EntityType string
	EntityID   string
	Action     string
	UserID     string
	Page       int
	Size       int
}

type ListAuditResult struct {
	Entries []models.AuditLog `json:"entries"`
	Total   int64             `json:"total"`
}

func (r *Repo) ListAuditLogs(ctx context.Context, q ListAuditQuery) (ListAuditResult, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.AuditLog{})
	if q.EntityType != "" {
		tx = tx.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != "" {
		tx = tx.Where("entity_id = ?", q.EntityID)
	}
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListAuditResult{}, err
	}

	var entries []models.AuditLog
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&entries).Error; err != nil {
		return ListAuditResult{}, err
	}
	return ListAuditResult{Entries: entries, Total: total}, nil
}
