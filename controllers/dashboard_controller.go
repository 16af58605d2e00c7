package controllers

import (
	"net/http"
	"time"

	"toolcrib/models"

	"github.com/gin-gonic/gin"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

// Stats 普通用户只看到自己的借用活动，库存与校准口径保持全局。
func (dc *DashboardController) Stats(c *gin.Context) {
	scope := ""
	if currentRole(c) == models.RoleUser {
		scope = currentUserID(c)
	}
	stats, err := dc.Repo.GetDashboardStats(c.Request.Context(), scope, time.Now().UTC())
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
