package routes

import (
	"time"

	"toolcrib/app"
	"toolcrib/controllers"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	classCtl := controllers.NewClassController(s)
	modelCtl := controllers.NewModelController(s)
	toolCtl := controllers.NewToolController(s)
	loanCtl := controllers.NewLoanController(s)
	dashCtl := controllers.NewDashboardController(s)
	calibCtl := controllers.NewCalibrationController(s)
	auditCtl := controllers.NewAuditController(s)

	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	adminMW := app.RoleRequired(models.RoleAdmin)
	staffMW := app.RoleRequired(models.RoleAdmin, models.RoleOperator)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 认证
	// ------------------------------
	authGrp := r.Group("/api/auth")
	{
		authGrp.POST("/login", authCtl.Login)
	}
	authedAuth := authGrp.Group("", authMW, seenMW)
	{
		authedAuth.POST("/logout", authCtl.Logout)
		authedAuth.GET("/me", authCtl.Me)
	}
	authGrp.POST("/register", authMW, adminMW, authCtl.Register)
	authGrp.POST("/validate-qrcode", authMW, staffMW, authCtl.ValidateQRCode)

	// ------------------------------
	// 用户：读开放给登录用户（操作员借用前查收件人），写只给管理员
	// ------------------------------
	users := r.Group("/api/users", authMW, seenMW)
	{
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.GET("/:id", userCtl.GetUser)
		users.PATCH("/:id", adminMW, userCtl.UpdateUser)
		users.DELETE("/:id", adminMW, userCtl.DeleteUser)
	}

	// ------------------------------
	// 分类 / 型号 / 工具：读开放给登录用户，写只给管理员
	// ------------------------------
	classes := r.Group("/api/classes", authMW, seenMW)
	{
		classes.GET("", classCtl.ListClasses)
		classes.GET("/:id", classCtl.GetClass)
		classes.POST("", adminMW, classCtl.CreateClass)
		classes.PATCH("/:id", adminMW, classCtl.UpdateClass)
		classes.DELETE("/:id", adminMW, classCtl.DeleteClass)
	}

	toolModels := r.Group("/api/models", authMW, seenMW)
	{
		toolModels.GET("", modelCtl.ListModels)
		toolModels.GET("/:id", modelCtl.GetModel)
		toolModels.POST("", adminMW, modelCtl.CreateModel)
		toolModels.PATCH("/:id", adminMW, modelCtl.UpdateModel)
		toolModels.DELETE("/:id", adminMW, modelCtl.DeleteModel)
	}

	tools := r.Group("/api/tools", authMW, seenMW)
	{
		tools.GET("", toolCtl.ListTools) // ?q=&status=&page=&size=
		tools.GET("/:id", toolCtl.GetTool)
		tools.POST("", adminMW, toolCtl.CreateTool)
		tools.PATCH("/:id", adminMW, toolCtl.UpdateTool)
		tools.DELETE("/:id", adminMW, toolCtl.DeleteTool)
	}

	// ------------------------------
	// 借还
	// ------------------------------
	loans := r.Group("/api/loans", authMW, seenMW)
	{
		loans.GET("", loanCtl.ListLoans)
		loans.GET("/:id", loanCtl.GetLoan)
		loans.POST("", staffMW, loanCtl.CreateLoanBatch)
		loans.PATCH("/:id/return", staffMW, loanCtl.ReturnLoan)
	}

	// ------------------------------
	// 仪表盘 / 校准 / 审计
	// ------------------------------
	r.GET("/api/dashboard/stats", authMW, seenMW, dashCtl.Stats)

	calib := r.Group("/api/calibration/alerts", authMW, staffMW)
	{
		calib.GET("", calibCtl.ListAlerts) // ?status=
		calib.PATCH("/:id/acknowledge", calibCtl.Acknowledge)
		calib.PATCH("/:id/complete", calibCtl.Complete)
	}

	r.GET("/api/audit-logs", authMW, adminMW, auditCtl.ListAuditLogs)
}
