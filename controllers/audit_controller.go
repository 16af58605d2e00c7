package controllers

import (
	"net/http"
	"strconv"

	"toolcrib/db"

	"github.com/gin-gonic/gin"
)

type AuditController struct{ *Srv }

func NewAuditController(s *Srv) *AuditController { return &AuditController{Srv: s} }

func (ac *AuditController) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	res, err := ac.Repo.ListAuditLogs(c.Request.Context(), db.ListAuditQuery{
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
		Action:     c.Query("action"),
		UserID:     c.Query("userId"),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
