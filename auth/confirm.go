package auth

import (
	"strings"

	"toolcrib/apperr"
	"toolcrib/models"
)

const (
	MethodManual = "manual"
	MethodQRCode = "qrcode"
)

// Confirmation 收件人确认载荷：manual（账号+密码）或 qrcode（徽章）。
// 路由先 Validate，业务代码再按 Method 分支，不摸可选字段。
type Confirmation struct {
	Method     string `json:"method" binding:"required,oneof=manual qrcode"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	QRCode     string `json:"qrCode"`
}

func (c Confirmation) Validate() error {
	switch c.Method {
	case MethodManual:
		if strings.TrimSpace(c.Identifier) == "" || c.Password == "" {
			return apperr.ErrValidation.WithMessage("manual confirmation requires identifier and password")
		}
	case MethodQRCode:
		if strings.TrimSpace(c.QRCode) == "" {
			return apperr.ErrValidation.WithMessage("qrcode confirmation requires qrCode")
		}
	default:
		return apperr.ErrValidation.WithMessage("unknown confirmation method")
	}
	return nil
}

// ConfirmRecipient verifies that the loan recipient really authorized the
// batch. badgeOwner is the user resolved from the scanned code (nil when the
// code matched nobody); it is only consulted for the qrcode method.
//
// Manual mismatches all collapse into the same generic failure so the
// response does not reveal which factor was wrong. A badge that belongs to a
// different user fails explicitly: one person's badge must never authorize
// another person's loan.
func ConfirmRecipient(recipient *models.User, badgeOwner *models.User, c Confirmation) error {
	switch c.Method {
	case MethodManual:
		id := strings.TrimSpace(strings.ToLower(c.Identifier))
		if id != strings.ToLower(recipient.Username) && id != strings.ToLower(recipient.Email) {
			return apperr.ErrConfirmationFailed
		}
		if !CheckPassword(recipient.PasswordHash, c.Password) {
			return apperr.ErrConfirmationFailed
		}
		return nil
	case MethodQRCode:
		if badgeOwner == nil {
			return apperr.ErrConfirmationFailed
		}
		if badgeOwner.ID != recipient.ID {
			return apperr.ErrQRCodeMismatch
		}
		return nil
	default:
		return apperr.ErrValidation.WithMessage("unknown confirmation method")
	}
}
