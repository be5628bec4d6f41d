package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/metrics"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), Recovery(), Logger(), Metrics())
	return engine
}

func TestRequestIDGenerated(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "trace-42", w.Header().Get(RequestIDHeader))
}

func TestRecoveryRendersEnvelope(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/boom", func(c *gin.Context) {
		panic("dragon breath")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestMetricsUnmatchedRoute(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func failureCount(t *testing.T, code apperrors.ErrorCode) float64 {
	m := &dto.Metric{}
	require.NoError(t, metrics.BusinessFailures.WithLabelValues(strconv.Itoa(int(code))).Write(m))
	return m.GetCounter().GetValue()
}

func TestAbortWithErrorCountsBusinessFailuresOnly(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/full", func(c *gin.Context) {
		AbortWithError(c, apperrors.New(apperrors.ErrCapacityReached))
	})
	engine.GET("/denied", func(c *gin.Context) {
		AbortWithError(c, apperrors.New(apperrors.ErrAuthentication))
	})
	engine.GET("/down", func(c *gin.Context) {
		AbortWithError(c, apperrors.New(apperrors.ErrDatabaseConnect))
	})

	capacity := failureCount(t, apperrors.ErrCapacityReached)
	auth := failureCount(t, apperrors.ErrAuthentication)
	db := failureCount(t, apperrors.ErrDatabaseConnect)

	for _, path := range []string{"/full", "/denied", "/down"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, capacity+1, failureCount(t, apperrors.ErrCapacityReached))
	assert.Equal(t, auth, failureCount(t, apperrors.ErrAuthentication))
	assert.Equal(t, db, failureCount(t, apperrors.ErrDatabaseConnect))
}
