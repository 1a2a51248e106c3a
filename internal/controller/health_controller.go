package controller

import (
	"codex_backend/pkg/database"
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const probeTimeout = 2 * time.Second

type HealthController struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Version   string
	StartedAt time.Time
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, version string) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Version: version, StartedAt: time.Now()}
}

type StatusResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	HeapAlloc  uint64 `json:"heapAlloc"`
	NumGC      uint32 `json:"numGC"`
}

type HealthResponse struct {
	Status   string      `json:"status"`
	Database string      `json:"database"`
	Redis    string      `json:"redis"`
	Uptime   float64     `json:"uptime"`
	Memory   MemoryStats `json:"memory"`
}

// Status godoc
// @Summary 服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} StatusResponse
// @Router / [get]
func (c *HealthController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, StatusResponse{
		Status:    "success",
		Message:   "CodeX Backend API is running",
		Version:   c.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheck godoc
// @Summary 健康检查
// @Description 检查数据库和 Redis 连接，返回运行时间与内存占用
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), probeTimeout)
	defer cancel()

	dbStatus, redisStatus := "disconnected", "disabled"

	// 探测失败只体现在状态字段里，不让 errgroup 提前取消另一个
	var g errgroup.Group
	g.Go(func() error {
		if database.Ping(probeCtx, c.DB) == nil {
			dbStatus = "connected"
		}
		return nil
	})
	if c.Redis != nil {
		redisStatus = "disconnected"
		g.Go(func() error {
			if c.Redis.Ping(probeCtx).Err() == nil {
				redisStatus = "connected"
			}
			return nil
		})
	}
	_ = g.Wait()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	ctx.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: dbStatus,
		Redis:    redisStatus,
		Uptime:   time.Since(c.StartedAt).Seconds(),
		Memory: MemoryStats{
			Alloc:      m.Alloc,
			TotalAlloc: m.TotalAlloc,
			Sys:        m.Sys,
			HeapAlloc:  m.HeapAlloc,
			NumGC:      m.NumGC,
		},
	})
}
