package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/shared/metrics"
	"inspection-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log.
const (
	InspectionIDKey = "inspectionId"
	ItemIDKey       = "itemId"
	StatusChangeKey = "statusTransition"
)

// Logging emits a structured log and a latency observation per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), status, latency)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"shop_id":     ShopIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id := c.GetString(InspectionIDKey); id != "" {
			fields["inspection_id"] = id
		}
		if id := c.GetString(ItemIDKey); id != "" {
			fields["item_id"] = id
		}
		if s := c.GetString(StatusChangeKey); s != "" {
			fields["status_transition"] = s
		}
		telemetry.Info("request.complete", fields)
	}
}
