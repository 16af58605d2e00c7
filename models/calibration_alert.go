package models

import "time"

type AlertStatus string

const (
	AlertPending      AlertStatus = "pending"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertCompleted    AlertStatus = "completed"
)

// CalibrationAlert 跟踪单个工具的校准到期记录。
// 仪表盘的“即将/过期校准”直接由 Tool.NextCalibrationDate 现算，
// 这张表服务于需要显式确认流程的班组。
type CalibrationAlert struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	ToolID string `gorm:"type:uuid;index;not null" json:"toolId"`
	Tool   *Tool  `gorm:"foreignKey:ToolID" json:"tool,omitempty"`

	DueDate time.Time   `gorm:"index;not null" json:"dueDate"`
	Status  AlertStatus `gorm:"size:20;index;not null;default:'pending'" json:"status"`

	AcknowledgedBy *string    `gorm:"type:uuid" json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CalibrationAlert) TableName() string { return CalibAlertTable }
