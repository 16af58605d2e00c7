package models

import "time"

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditMove   AuditAction = "move"
)

// AuditLog 只追加：每个变更路由写一条，带前后 JSON 快照。
type AuditLog struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	// 操作者可空：用户删除后日志保留
	UserID   *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	Username string  `gorm:"size:120" json:"username"`

	Action     AuditAction `gorm:"size:20;index;not null" json:"action"`
	EntityType string      `gorm:"size:40;index;not null" json:"entityType"`
	EntityID   string      `gorm:"size:64;index" json:"entityId"`

	BeforeJSON string `gorm:"type:text" json:"before,omitempty"`
	AfterJSON  string `gorm:"type:text" json:"after,omitempty"`
	Metadata   string `gorm:"size:500" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string { return AuditTable }
