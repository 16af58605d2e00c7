package controllers

import (
	"net/http"
	"strconv"

	"toolcrib/apperr"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateUserReq struct {
	Username   string      `json:"username" binding:"required"`
	Email      string      `json:"email" binding:"required,email"`
	FullName   string      `json:"fullName" binding:"required"`
	Department string      `json:"department"`
	EmployeeID string      `json:"employeeId"`
	Role       models.Role `json:"role" binding:"required"`
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	var in updateUserReq
	if err := c.ShouldBindJSON(&in); err != nil {
		uc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	if !in.Role.Valid() {
		uc.fail(c, apperr.ErrValidation.WithMessage("role must be admin, operator or user"))
		return
	}

	id := c.Param("id")
	before, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err)
		return
	}

	u := &models.User{
		ID:         id,
		Username:   in.Username,
		Email:      in.Email,
		FullName:   in.FullName,
		Department: in.Department,
		EmployeeID: in.EmployeeID,
		Role:       in.Role,
	}
	if err := uc.Repo.UpdateUser(c.Request.Context(), u); err != nil {
		uc.fail(c, err)
		return
	}

	after, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err)
		return
	}

	// 降权立刻生效：旧会话全部吊销
	if before.Role != after.Role {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	}

	uc.audit(c, models.AuditUpdate, "user", id, before, after)
	c.JSON(http.StatusOK, after)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	before, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err)
		return
	}
	if err := uc.Repo.DeleteUser(c.Request.Context(), id); err != nil {
		uc.fail(c, err)
		return
	}
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)

	uc.audit(c, models.AuditDelete, "user", id, before, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
