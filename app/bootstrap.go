// app/bootstrap.go
package app

import (
	"context"

	"toolcrib/auth"
	"toolcrib/db"
	"toolcrib/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BootstrapFirstAdmin 库里没有管理员时用环境变量种一个，
// 否则整套管理员门禁无人能进。
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo, log *zap.Logger) {
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Error("bootstrap: count admins", zap.Error(err))
		return
	}
	if n > 0 {
		return
	}
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		log.Warn("bootstrap: no admin exists and BOOTSTRAP_ADMIN_EMAIL/PASSWORD not set")
		return
	}

	hash, err := auth.HashPassword(cfg.BootstrapPassword)
	if err != nil {
		log.Error("bootstrap: hash password", zap.Error(err))
		return
	}
	admin := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.BootstrapUsername,
		Email:        cfg.BootstrapEmail,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		QRCode:       auth.NewBadgeToken(),
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		log.Error("bootstrap: create admin", zap.Error(err))
		return
	}
	log.Info("bootstrap: first admin created",
		zap.String("username", admin.Username),
		zap.String("email", admin.Email))
}
