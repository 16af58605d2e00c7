// controllers/loan_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"toolcrib/apperr"
	"toolcrib/auth"
	"toolcrib/db"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

type createLoanReq struct {
	Tools              []db.BatchItem    `json:"tools" binding:"required"`
	UserID             string            `json:"userId" binding:"required"`
	ExpectedReturnDate *time.Time        `json:"expectedReturnDate"`
	Notes              string            `json:"notes"`
	Confirmation       auth.Confirmation `json:"confirmation" binding:"required"`
}

// CreateLoanBatch 整批借用：
// 校验载荷 → 解析收件人 → 收件人确认（密码或徽章）→ 事务落库。
// 任何一步失败都不会产生部分借用。
func (lc *LoanController) CreateLoanBatch(c *gin.Context) {
	var in createLoanReq
	if err := c.ShouldBindJSON(&in); err != nil {
		lc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	if err := in.Confirmation.Validate(); err != nil {
		lc.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	recipient, err := lc.Repo.FindUserByID(ctx, in.UserID)
	if err != nil {
		lc.fail(c, err)
		return
	}

	var badgeOwner *models.User
	if in.Confirmation.Method == auth.MethodQRCode {
		badgeOwner, err = lc.Repo.FindUserByQRCode(ctx, in.Confirmation.QRCode)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			lc.fail(c, err)
			return
		}
	}
	if err := auth.ConfirmRecipient(recipient, badgeOwner, in.Confirmation); err != nil {
		lc.fail(c, err)
		return
	}

	batch, err := lc.Repo.CreateLoanBatch(ctx, db.CreateLoanBatchInput{
		Items:              in.Tools,
		UserID:             recipient.ID,
		OperatorID:         currentUserID(c),
		ExpectedReturnDate: in.ExpectedReturnDate,
		Notes:              in.Notes,
	})
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// ListLoans 操作员/管理员看全部，普通用户只看自己未归还的。
func (lc *LoanController) ListLoans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	q := db.ListLoansQuery{
		UserID:  c.Query("userId"),
		ToolID:  c.Query("toolId"),
		BatchID: c.Query("batchId"),
		Status:  c.Query("status"),
		Page:    page,
		Size:    size,
	}
	if currentRole(c) == models.RoleUser {
		q.UserID = currentUserID(c)
		q.Status = "active"
	}

	loans, err := lc.Repo.ListLoans(c.Request.Context(), q)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	l, err := lc.Repo.FindLoanByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		lc.fail(c, err)
		return
	}
	if currentRole(c) == models.RoleUser &&
		(l.UserID == nil || *l.UserID != currentUserID(c)) {
		lc.fail(c, apperr.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (lc *LoanController) ReturnLoan(c *gin.Context) {
	l, err := lc.Repo.ReturnLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}
