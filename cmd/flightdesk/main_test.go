package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"flightdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTraceLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := &bytes.Buffer{}
	r := gin.New()
	r.Use(TraceLoggerMiddleware(logger.NewWithWriter("test", buf)))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, buf.String(), `"path":"/healthz"`)
	assert.Contains(t, buf.String(), `"status":204`)
	// no otelgin span in front of it, so no trace ids
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestInitSwagger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	initSwagger(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/v1/bookings"`)
}
