package main

import (
	"context"
	"os"

	"toolcrib/app"
	"toolcrib/db"
	"toolcrib/routes"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	application := app.MustNew()
	defer application.Close()

	app.BootstrapFirstAdmin(context.Background(),
		application.Config, db.NewRepo(application.DB), application.Log)

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	application.Log.Info("listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		application.Log.Fatal("server", zap.Error(err))
	}
}
