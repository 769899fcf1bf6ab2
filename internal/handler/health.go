package handler

import (
	"context"
	"net/http"
	"time"

	"viveiro/internal/infra"
	"viveiro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BreakerReporter exposes the state of an outbound circuit breaker.
type BreakerReporter interface {
	BreakerState() infra.BreakerState
}

// Health checks DB and Redis connectivity and reports the CNPJ breaker and the
// email dead-letter queue. It never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, cnpj BreakerReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if db == nil {
			dbStatus = "error"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var dlq int64
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			dlq, _ = worker.DLQLength(ctx, rdb, worker.QueueEmail)
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":        status == http.StatusOK,
			"db":        dbStatus,
			"redis":     redisStatus,
			"email_dlq": dlq,
		}
		if cnpj != nil {
			body["cnpj_breaker"] = cnpj.BreakerState().String()
		}
		c.JSON(status, body)
	}
}

// FalhasEmail lists term emails that were given up on, newest first.
// GET /v1/admin/falhas-email?limit=50
func FalhasEmail(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			Limit int64 `form:"limit" binding:"omitempty,min=1,max=500"`
		}
		if !bindQuery(c, &q) {
			return
		}
		if q.Limit == 0 {
			q.Limit = 50
		}
		entries, err := worker.ListDLQ(c.Request.Context(), rdb, worker.QueueEmail, q.Limit)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
