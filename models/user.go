package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleUser     Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleUser:
		return true
	}
	return false
}

// User 持 QRCode 徽章令牌，密码只存 bcrypt 哈希
type User struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string `gorm:"uniqueIndex;size:120;not null" json:"username"`
	Email      string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName   string `gorm:"size:255;not null" json:"fullName"`
	Department string `gorm:"size:120" json:"department"`
	EmployeeID string `gorm:"size:60" json:"employeeId"`
	Role       Role   `gorm:"size:20;not null;default:'user'" json:"role"`

	// 徽章令牌：扫码确认借用时用
	QRCode       string `gorm:"uniqueIndex;size:64;not null" json:"qrCode"`
	PasswordHash string `gorm:"size:120;not null" json:"-"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
