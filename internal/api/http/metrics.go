package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/carbonapi"
)

type upstreamMetrics struct {
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

type MetricsResponse struct {
	Upstream upstreamMetrics `json:"upstream"`
	Cache    cache.Stats     `json:"cache"`
}

// MetricsHandler reports backend call counters and cache hit rates.
type MetricsHandler struct {
	stats func() cache.Stats
}

func NewMetricsHandler(stats func() cache.Stats) *MetricsHandler {
	return &MetricsHandler{stats: stats}
}

func (h *MetricsHandler) Metrics(c *gin.Context) {
	m := carbonapi.GetMetrics()
	resp := MetricsResponse{
		Upstream: upstreamMetrics{
			Calls:        m.Calls,
			Errors:       m.Errors,
			AvgLatencyMS: float64(m.AvgLatency().Microseconds()) / 1000,
		},
	}
	if h.stats != nil {
		resp.Cache = h.stats()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MetricsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/metrics", h.Metrics)
}
