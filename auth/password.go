// Package auth holds password hashing and loan-confirmation checks.
package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewBadgeToken 生成徽章令牌（打印成 QR 码发给用户）
func NewBadgeToken() string {
	return "TC-" + uuid.NewString()
}
