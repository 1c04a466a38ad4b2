package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"inspection-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(zap.NewNop()) })

	router := gin.New()
	router.Use(RequestID(), Auth(nil, true), Logging())
	router.POST("/api/v1/inspections/:id/complete", func(c *gin.Context) {
		c.Set(InspectionIDKey, c.Param("id"))
		c.Set(StatusChangeKey, "in_progress->completed")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspections/insp-1/complete", nil)
	req.Header.Set("X-User-Id", "tech-1")
	req.Header.Set("X-Shop-Id", "shop-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	entries := logs.FilterMessage("request.complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	for _, key := range []string{"request_id", "user_id", "shop_id", "inspection_id", "duration_ms", "status", "status_transition", "route"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "tech-1", fields["user_id"])
	assert.Equal(t, "shop-1", fields["shop_id"])
	assert.Equal(t, "insp-1", fields["inspection_id"])
	assert.Equal(t, "in_progress->completed", fields["status_transition"])
	assert.Equal(t, "/api/v1/inspections/:id/complete", fields["route"])
}
