package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	m := Init(true)
	assert.NotNil(t, m)

	// Type assert to concrete Metrics to access fields
	metrics, ok := m.(*Metrics)
	assert.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.RegistrationsTotal)
	assert.NotNil(t, metrics.LoginsTotal)
	assert.NotNil(t, metrics.TokensIssuedTotal)
	assert.NotNil(t, metrics.TaskOperationsTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	assert.NotNil(t, m)

	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")
}

func TestInit_ReturnsSameInstance(t *testing.T) {
	m1 := Init(true)
	m2 := Init(true)
	assert.Equal(t, m1, m2, "Init(true) should return the same instance")
}

func TestRecorders(t *testing.T) {
	m := Init(true)

	// Prometheus recording never returns errors; exercising the methods
	// catches label cardinality mistakes
	m.RecordRegistration("success")
	m.RecordRegistration("conflict")
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordTokenIssued(100 * time.Millisecond)
	m.RecordTokenValidation("valid")
	m.RecordTokenValidation("expired")
	m.RecordTaskOperation("create", "success")
	m.RecordTaskOperation("get", "forbidden")
	m.SetUsersCount(3)
	m.SetTasksCount(7)
	m.RecordDatabaseQueryError("count_users")
}

func TestNoopRecorders(t *testing.T) {
	m := NewNoopMetrics()

	m.RecordRegistration("success")
	m.RecordLogin(true)
	m.RecordTokenIssued(time.Millisecond)
	m.RecordTokenValidation("valid")
	m.RecordTaskOperation("delete", "success")
	m.SetUsersCount(0)
	m.SetTasksCount(0)
	m.RecordDatabaseQueryError("count_tasks")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := Init(true)
	router := gin.New()
	router.Use(HTTPMetricsMiddleware(m))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/tasks/:id", normalizePath("/tasks/:id"))
	assert.Equal(t, "unknown", normalizePath(""))
}
