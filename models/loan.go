// models/loan.go
package models

import "time"

type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
)

// Loan 一条借用记录。同一次操作创建的多条记录共享 BatchID，
// 一次收件人确认覆盖整批。审计需要，永不删除。
type Loan struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	ToolID string `gorm:"type:uuid;index;not null" json:"toolId"`
	Tool   *Tool  `gorm:"foreignKey:ToolID" json:"tool,omitempty"`

	// 收件人可空：用户删除后保留历史记录
	UserID *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	OperatorID *string `gorm:"type:uuid;index" json:"operatorId,omitempty"`
	Operator   *User   `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`

	QuantityLoaned int    `gorm:"not null" json:"quantityLoaned"`
	BatchID        string `gorm:"type:uuid;index;not null" json:"batchId"`

	Status             LoanStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	LoanDate           time.Time  `gorm:"index;not null" json:"loanDate"`
	ExpectedReturnDate *time.Time `gorm:"index" json:"expectedReturnDate,omitempty"`
	ReturnDate         *time.Time `gorm:"index" json:"returnDate,omitempty"`

	UserConfirmation     bool       `gorm:"not null;default:false" json:"userConfirmation"`
	UserConfirmationDate *time.Time `json:"userConfirmationDate,omitempty"`

	Notes string `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Loan) TableName() string { return LoanTable }

// Overdue 派生状态：仍在借且已过预期归还时间。
func (l *Loan) Overdue(now time.Time) bool {
	return l.Status == LoanActive && l.ReturnDate == nil &&
		l.ExpectedReturnDate != nil && l.ExpectedReturnDate.Before(now)
}
