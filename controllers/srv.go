// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"toolcrib/app"
	"toolcrib/apperr"
	"toolcrib/db"
	"toolcrib/logger"
	"toolcrib/models"
	"toolcrib/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// fail 统一错误出口：业务错误原样回给调用方，
// 意料之外的错误落日志、对外只给 500。
func (s *Srv) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.From(c).Error("unhandled error", zap.Error(err))
		c.JSON(status, app.H{"message": "internal server error"})
		return
	}
	c.JSON(status, app.H{"message": err.Error()})
}

func currentUserID(c *gin.Context) string {
	v, _ := c.Get(app.CtxUserID)
	id, _ := v.(string)
	return id
}

func currentUsername(c *gin.Context) string {
	v, _ := c.Get(app.CtxUsername)
	name, _ := v.(string)
	return name
}

func currentRole(c *gin.Context) models.Role {
	v, _ := c.Get(app.CtxRole)
	role, _ := v.(models.Role)
	return role
}

// audit 变更路由统一落审计；失败只记警告，不影响主流程。
func (s *Srv) audit(c *gin.Context, action models.AuditAction, entityType, entityID string, before, after any) {
	uid := currentUserID(c)
	var uidPtr *string
	if uid != "" {
		uidPtr = &uid
	}
	if _, err := s.Repo.AppendAudit(c.Request.Context(), db.AuditEntry{
		UserID:     uidPtr,
		Username:   currentUsername(c),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
	}); err != nil {
		logger.From(c).Warn("audit append failed", zap.Error(err))
	}
}

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// 登录成功：创建会话 + 登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, u *models.User) error {
	_ = s.Repo.TouchUserLogin(ctx, u.ID) // 不阻塞登录
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, u.ID, string(u.Role)); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}
