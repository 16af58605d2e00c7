package app

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"toolcrib/db"
	"toolcrib/logger"
	"toolcrib/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config

	appSess *session.AppSessionStore
}

// Config 从环境变量读取
type Config struct {
	Env        string
	LogLevel   string
	WebOrigin  string
	SessionTTL time.Duration

	// 首个管理员的引导种子
	BootstrapUsername string
	BootstrapEmail    string
	BootstrapPassword string

	RedisAddr string
	RedisPwd  string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()
	log := logger.New(cfg.Env, cfg.LogLevel)

	dbConn, err := db.ConnectDB()
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:  r,
		DB:      dbConn,
		RDB:     rdb,
		Log:     log,
		Config:  cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if sec, err := strconv.Atoi(get("SESSION_TTL_SECONDS", "")); err == nil && sec > 0 {
		ttl = time.Duration(sec) * time.Second
	}

	return Config{
		Env:               get("APP_ENV", "development"),
		LogLevel:          get("LOG_LEVEL", "info"),
		WebOrigin:         get("WEB_ORIGIN", "http://localhost:5173"),
		SessionTTL:        ttl,
		BootstrapUsername: get("BOOTSTRAP_ADMIN_USERNAME", "admin"),
		BootstrapEmail:    strings.ToLower(get("BOOTSTRAP_ADMIN_EMAIL", "")),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		RedisAddr:         get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:          os.Getenv("REDIS_PASSWORD"),
	}
}
