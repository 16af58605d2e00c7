package controllers

import (
	"errors"
	"net/http"
	"strings"

	"toolcrib/app"
	"toolcrib/apperr"
	"toolcrib/auth"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户名或邮箱 + 密码。失败一律同一个 401，不区分哪个因素错。
func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		ac.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}

	u, err := ac.Repo.FindUserByIdentifier(c.Request.Context(), in.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, app.H{"message": "invalid credentials"})
			return
		}
		ac.fail(c, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, app.H{"message": "invalid credentials"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) Me(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type registerReq struct {
	Username   string      `json:"username" binding:"required"`
	Email      string      `json:"email" binding:"required,email"`
	Password   string      `json:"password" binding:"required,min=8"`
	FullName   string      `json:"fullName" binding:"required"`
	Department string      `json:"department"`
	EmployeeID string      `json:"employeeId"`
	Role       models.Role `json:"role"`
}

// Register 仅管理员：建用户并发放徽章令牌。
func (ac *AuthController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		ac.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		ac.fail(c, apperr.ErrValidation.WithMessage("role must be admin, operator or user"))
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		ac.fail(c, err)
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     in.FullName,
		Department:   in.Department,
		EmployeeID:   in.EmployeeID,
		Role:         in.Role,
		QRCode:       auth.NewBadgeToken(),
		PasswordHash: hash,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		ac.fail(c, err)
		return
	}

	ac.audit(c, models.AuditCreate, "user", u.ID, nil, u)
	c.JSON(http.StatusCreated, u)
}

type validateQRReq struct {
	QRCode string `json:"qrCode" binding:"required"`
}

// ValidateQRCode 把徽章解析成用户，给前端做借用前的确认提示。
// 权威校验仍在创建借用时做一遍。
func (ac *AuthController) ValidateQRCode(c *gin.Context) {
	var in validateQRReq
	if err := c.ShouldBindJSON(&in); err != nil {
		ac.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	u, err := ac.Repo.FindUserByQRCode(c.Request.Context(), in.QRCode)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
