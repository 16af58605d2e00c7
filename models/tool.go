// models/tool.go
package models

import "time"

const (
	UserTable       = "tc_users"
	ClassTable      = "tc_tool_classes"
	ModelTable      = "tc_tool_models"
	ToolTable       = "tc_tools"
	LoanTable       = "tc_loans"
	AuditTable      = "tc_audit_logs"
	CalibAlertTable = "tc_calibration_alerts"
)

type ToolStatus string

const (
	ToolAvailable    ToolStatus = "available"
	ToolLoaned       ToolStatus = "loaned"
	ToolCalibration  ToolStatus = "calibration"
	ToolOutOfService ToolStatus = "out_of_service"
)

// ToolClass 分类标签，被 Tool 引用时不可删除
type ToolClass struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToolModel 型号模板：声明实例是否需要周期校准
type ToolModel struct {
	ID                      string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name                    string    `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Manufacturer            string    `gorm:"size:120" json:"manufacturer"`
	RequiresCalibration     bool      `gorm:"not null;default:false" json:"requiresCalibration"`
	CalibrationIntervalDays int       `gorm:"not null;default:0" json:"calibrationIntervalDays"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type Tool struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string `gorm:"uniqueIndex;size:120;not null" json:"code"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Location    string `gorm:"size:120" json:"location"`

	ClassID string     `gorm:"type:uuid;index;not null" json:"classId"`
	Class   *ToolClass `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	ModelID string     `gorm:"type:uuid;index;not null" json:"modelId"`
	Model   *ToolModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`

	// 不变式：0 <= AvailableQuantity <= Quantity
	Quantity          int        `gorm:"not null;default:0" json:"quantity"`
	AvailableQuantity int        `gorm:"not null;default:0" json:"availableQuantity"`
	Status            ToolStatus `gorm:"size:20;not null;default:'available'" json:"status"`

	LastCalibrationDate *time.Time `json:"lastCalibrationDate,omitempty"`
	// 派生列：LastCalibrationDate + Model.CalibrationIntervalDays
	NextCalibrationDate *time.Time `gorm:"index" json:"nextCalibrationDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ToolClass) TableName() string { return ClassTable }
func (ToolModel) TableName() string { return ModelTable }
func (Tool) TableName() string      { return ToolTable }

// DeriveNextCalibration 按型号重算 NextCalibrationDate。
// 型号不要求校准（或无校准记录）时清空。
func (t *Tool) DeriveNextCalibration(m *ToolModel) {
	if m == nil || !m.RequiresCalibration || m.CalibrationIntervalDays <= 0 || t.LastCalibrationDate == nil {
		t.NextCalibrationDate = nil
		return
	}
	next := t.LastCalibrationDate.AddDate(0, 0, m.CalibrationIntervalDays)
	t.NextCalibrationDate = &next
}

type CalibrationUrgency string

const (
	UrgencyOverdue   CalibrationUrgency = "overdue"
	UrgencyUrgent    CalibrationUrgency = "urgent"
	UrgencyAttention CalibrationUrgency = "attention"
	UrgencyNormal    CalibrationUrgency = "normal"
)

// CalibrationDaysRemaining 按整天截断；过期为负数。
func CalibrationDaysRemaining(next, now time.Time) int {
	return int(next.Sub(now).Hours() / 24)
}

// ClassifyCalibration 阈值是策略常量：<0 过期，<=3 紧急，<=7 关注
func ClassifyCalibration(daysRemaining int) CalibrationUrgency {
	switch {
	case daysRemaining < 0:
		return UrgencyOverdue
	case daysRemaining <= 3:
		return UrgencyUrgent
	case daysRemaining <= 7:
		return UrgencyAttention
	default:
		return UrgencyNormal
	}
}
