package app

import (
	"context"
	"net/http"

	"toolcrib/db"
	"toolcrib/models"
	"toolcrib/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxRole     = "role"
)

// SessionReader 是 AuthRequired 需要的会话子集
type SessionReader interface {
	Get(ctx context.Context, id string) (*session.AppSession, error)
	Delete(ctx context.Context, id string) error
}

// AuthRequired 校验会话 Cookie，并把用户与角色放进 Context。
// 角色取会话快照，不再查库：角色变更时旧会话已被整体吊销，
// 快照不会比库里的旧。用户已被删除时顺手销毁会话。
func AuthRequired(sessions SessionReader, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "authentication required"})
			return
		}
		as, err := sessions.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = sessions.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "authentication required"})
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUsername, u.Username)
		c.Set(CtxRole, models.Role(as.Role))
		c.Next()
	}
}

// RoleRequired 在 AuthRequired 之后使用；角色不在白名单即 403。
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "authentication required"})
			return
		}
		role, _ := v.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, H{"message": "insufficient role"})
	}
}
