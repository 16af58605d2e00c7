// controllers/tool_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"toolcrib/apperr"
	"toolcrib/db"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ToolController struct{ *Srv }

func NewToolController(s *Srv) *ToolController { return &ToolController{Srv: s} }

type toolReq struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ClassID     string `json:"classId" binding:"required"`
	ModelID     string `json:"modelId" binding:"required"`
	// 指针：quantity=0 是合法库存（暂时全部下架的工具）
	Quantity            *int       `json:"quantity" binding:"required,min=0"`
	AvailableQuantity   *int       `json:"availableQuantity"`
	Status              string     `json:"status"`
	LastCalibrationDate *time.Time `json:"lastCalibrationDate"`
}

func toolStatusOK(s models.ToolStatus) bool {
	switch s {
	case models.ToolAvailable, models.ToolLoaned, models.ToolCalibration, models.ToolOutOfService:
		return true
	}
	return false
}

func (tc *ToolController) CreateTool(c *gin.Context) {
	var in toolReq
	if err := c.ShouldBindJSON(&in); err != nil {
		tc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}

	avail := *in.Quantity
	if in.AvailableQuantity != nil {
		avail = *in.AvailableQuantity
	}
	status := models.ToolStatus(in.Status)
	if in.Status == "" {
		status = models.ToolAvailable
	}
	if !toolStatusOK(status) {
		tc.fail(c, apperr.ErrValidation.WithMessage("invalid tool status"))
		return
	}

	t := &models.Tool{
		ID:                  uuid.NewString(),
		Code:                in.Code,
		Name:                in.Name,
		Description:         in.Description,
		Location:            in.Location,
		ClassID:             in.ClassID,
		ModelID:             in.ModelID,
		Quantity:            *in.Quantity,
		AvailableQuantity:   avail,
		Status:              status,
		LastCalibrationDate: in.LastCalibrationDate,
	}
	if err := tc.Repo.CreateTool(c.Request.Context(), t); err != nil {
		tc.fail(c, err)
		return
	}

	created, err := tc.Repo.FindToolByID(c.Request.Context(), t.ID)
	if err != nil {
		tc.fail(c, err)
		return
	}
	tc.audit(c, models.AuditCreate, "tool", t.ID, nil, created)
	c.JSON(http.StatusCreated, created)
}

func (tc *ToolController) ListTools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	res, err := tc.Repo.ListTools(c.Request.Context(), db.ListToolsQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		tc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (tc *ToolController) GetTool(c *gin.Context) {
	t, err := tc.Repo.FindToolByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		tc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *ToolController) UpdateTool(c *gin.Context) {
	var in toolReq
	if err := c.ShouldBindJSON(&in); err != nil {
		tc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	id := c.Param("id")
	before, err := tc.Repo.FindToolByID(c.Request.Context(), id)
	if err != nil {
		tc.fail(c, err)
		return
	}

	avail := before.AvailableQuantity
	if in.AvailableQuantity != nil {
		avail = *in.AvailableQuantity
	}
	status := models.ToolStatus(in.Status)
	if in.Status == "" {
		status = before.Status
	}
	if !toolStatusOK(status) {
		tc.fail(c, apperr.ErrValidation.WithMessage("invalid tool status"))
		return
	}
	// 未传校准日期视为不变，口径同 availableQuantity/status
	lastCalib := in.LastCalibrationDate
	if lastCalib == nil {
		lastCalib = before.LastCalibrationDate
	}

	t := &models.Tool{
		ID:                  id,
		Code:                in.Code,
		Name:                in.Name,
		Description:         in.Description,
		Location:            in.Location,
		ClassID:             in.ClassID,
		ModelID:             in.ModelID,
		Quantity:            *in.Quantity,
		AvailableQuantity:   avail,
		Status:              status,
		LastCalibrationDate: lastCalib,
	}
	if err := tc.Repo.UpdateTool(c.Request.Context(), t); err != nil {
		tc.fail(c, err)
		return
	}

	after, err := tc.Repo.FindToolByID(c.Request.Context(), id)
	if err != nil {
		tc.fail(c, err)
		return
	}
	tc.audit(c, models.AuditUpdate, "tool", id, before, after)
	c.JSON(http.StatusOK, after)
}

func (tc *ToolController) DeleteTool(c *gin.Context) {
	id := c.Param("id")
	before, err := tc.Repo.FindToolByID(c.Request.Context(), id)
	if err != nil {
		tc.fail(c, err)
		return
	}
	if err := tc.Repo.DeleteTool(c.Request.Context(), id); err != nil {
		tc.fail(c, err)
		return
	}
	tc.audit(c, models.AuditDelete, "tool", id, before, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
