package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/product/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/product/:id", "418"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/17", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/product/:id", "418")))
}

func TestRecordSettlement(t *testing.T) {
	settled := testutil.ToFloat64(settlements.WithLabelValues("settled"))
	collected := testutil.ToFloat64(commissionCollected)

	RecordSettlement(true, 7.5)
	RecordSettlement(false, 0)

	assert.Equal(t, settled+1, testutil.ToFloat64(settlements.WithLabelValues("settled")))
	assert.InDelta(t, collected+7.5, testutil.ToFloat64(commissionCollected), 1e-9)
}
