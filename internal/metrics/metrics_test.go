package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordGeneration(t *testing.T) {
	before := testutil.ToFloat64(generationCalls.WithLabelValues("fake", OutcomeError))
	RecordGeneration("fake", OutcomeError, 150*time.Millisecond)
	after := testutil.ToFloat64(generationCalls.WithLabelValues("fake", OutcomeError))
	assert.Equal(t, before+1, after)
}

func TestHandler_ServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordTurnRejected("busy")

	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "avan_chat_turns_rejected_total")
}
