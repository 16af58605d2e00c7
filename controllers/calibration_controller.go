package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CalibrationController struct{ *Srv }

func NewCalibrationController(s *Srv) *CalibrationController {
	return &CalibrationController{Srv: s}
}

func (cc *CalibrationController) ListAlerts(c *gin.Context) {
	alerts, err := cc.Repo.ListCalibrationAlerts(c.Request.Context(), c.Query("status"))
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (cc *CalibrationController) Acknowledge(c *gin.Context) {
	a, err := cc.Repo.AcknowledgeCalibrationAlert(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (cc *CalibrationController) Complete(c *gin.Context) {
	a, err := cc.Repo.CompleteCalibrationAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
