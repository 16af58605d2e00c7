// controllers/class_model_controller.go
package controllers

import (
	"net/http"

	"toolcrib/apperr"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClassController struct{ *Srv }

func NewClassController(s *Srv) *ClassController { return &ClassController{Srv: s} }

type classReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (cc *ClassController) CreateClass(c *gin.Context) {
	var in classReq
	if err := c.ShouldBindJSON(&in); err != nil {
		cc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	cl := &models.ToolClass{ID: uuid.NewString(), Name: in.Name, Description: in.Description}
	if err := cc.Repo.CreateClass(c.Request.Context(), cl); err != nil {
		cc.fail(c, err)
		return
	}
	cc.audit(c, models.AuditCreate, "tool_class", cl.ID, nil, cl)
	c.JSON(http.StatusCreated, cl)
}

func (cc *ClassController) ListClasses(c *gin.Context) {
	cs, err := cc.Repo.ListClasses(c.Request.Context())
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": cs})
}

func (cc *ClassController) GetClass(c *gin.Context) {
	cl, err := cc.Repo.FindClassByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (cc *ClassController) UpdateClass(c *gin.Context) {
	var in classReq
	if err := c.ShouldBindJSON(&in); err != nil {
		cc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	id := c.Param("id")
	before, err := cc.Repo.FindClassByID(c.Request.Context(), id)
	if err != nil {
		cc.fail(c, err)
		return
	}
	cl := &models.ToolClass{ID: id, Name: in.Name, Description: in.Description}
	if err := cc.Repo.UpdateClass(c.Request.Context(), cl); err != nil {
		cc.fail(c, err)
		return
	}
	after, _ := cc.Repo.FindClassByID(c.Request.Context(), id)
	cc.audit(c, models.AuditUpdate, "tool_class", id, before, after)
	c.JSON(http.StatusOK, after)
}

func (cc *ClassController) DeleteClass(c *gin.Context) {
	id := c.Param("id")
	before, err := cc.Repo.FindClassByID(c.Request.Context(), id)
	if err != nil {
		cc.fail(c, err)
		return
	}
	if err := cc.Repo.DeleteClass(c.Request.Context(), id); err != nil {
		cc.fail(c, err)
		return
	}
	cc.audit(c, models.AuditDelete, "tool_class", id, before, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type ModelController struct{ *Srv }

func NewModelController(s *Srv) *ModelController { return &ModelController{Srv: s} }

type modelReq struct {
	Name                    string `json:"name" binding:"required"`
	Manufacturer            string `json:"manufacturer"`
	RequiresCalibration     bool   `json:"requiresCalibration"`
	CalibrationIntervalDays int    `json:"calibrationIntervalDays"`
}

func (mc *ModelController) validate(in modelReq) error {
	if in.RequiresCalibration && in.CalibrationIntervalDays <= 0 {
		return apperr.ErrValidation.WithMessage("calibrationIntervalDays must be positive when calibration is required")
	}
	return nil
}

func (mc *ModelController) CreateModel(c *gin.Context) {
	var in modelReq
	if err := c.ShouldBindJSON(&in); err != nil {
		mc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	if err := mc.validate(in); err != nil {
		mc.fail(c, err)
		return
	}
	m := &models.ToolModel{
		ID:                      uuid.NewString(),
		Name:                    in.Name,
		Manufacturer:            in.Manufacturer,
		RequiresCalibration:     in.RequiresCalibration,
		CalibrationIntervalDays: in.CalibrationIntervalDays,
	}
	if err := mc.Repo.CreateModel(c.Request.Context(), m); err != nil {
		mc.fail(c, err)
		return
	}
	mc.audit(c, models.AuditCreate, "tool_model", m.ID, nil, m)
	c.JSON(http.StatusCreated, m)
}

func (mc *ModelController) ListModels(c *gin.Context) {
	ms, err := mc.Repo.ListModels(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": ms})
}

func (mc *ModelController) GetModel(c *gin.Context) {
	m, err := mc.Repo.FindModelByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *ModelController) UpdateModel(c *gin.Context) {
	var in modelReq
	if err := c.ShouldBindJSON(&in); err != nil {
		mc.fail(c, apperr.ErrValidation.WithMessage(err.Error()))
		return
	}
	if err := mc.validate(in); err != nil {
		mc.fail(c, err)
		return
	}
	id := c.Param("id")
	before, err := mc.Repo.FindModelByID(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, err)
		return
	}
	m := &models.ToolModel{
		ID:                      id,
		Name:                    in.Name,
		Manufacturer:            in.Manufacturer,
		RequiresCalibration:     in.RequiresCalibration,
		CalibrationIntervalDays: in.CalibrationIntervalDays,
	}
	if err := mc.Repo.UpdateModel(c.Request.Context(), m); err != nil {
		mc.fail(c, err)
		return
	}
	after, _ := mc.Repo.FindModelByID(c.Request.Context(), id)
	mc.audit(c, models.AuditUpdate, "tool_model", id, before, after)
	c.JSON(http.StatusOK, after)
}

// DeleteModel 被工具引用时返回业务错误，型号与工具原样保留。
func (mc *ModelController) DeleteModel(c *gin.Context) {
	id := c.Param("id")
	before, err := mc.Repo.FindModelByID(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, err)
		return
	}
	if err := mc.Repo.DeleteModel(c.Request.Context(), id); err != nil {
		mc.fail(c, err)
		return
	}
	mc.audit(c, models.AuditDelete, "tool_model", id, before, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
