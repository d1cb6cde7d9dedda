package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fundboard/internal/logging"
	"fundboard/internal/metrics"
)

// dashboard and API routes answer GET and POST alike; queries are read from the URL
var methods = []string{http.MethodGet, http.MethodPost}

var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
}

// NewRouter builds the engine. Middleware order: recovery, CORS, request log, metrics.
func NewRouter(h *Handler, log *logrus.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	// paths match exactly; a trailing slash is an unknown path, not a redirect
	r.RedirectTrailingSlash = false
	r.Use(recovery(log), cors(), logging.Requests(log), observe(m))
	r.NoRoute(notFound)

	r.Match(methods, "/", h.Home)
	r.GET("/health", h.wrap(h.Health))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.Match(methods, "/fund-list", h.wrap(h.FundList))
	api.Match(methods, "/indices", h.wrap(h.Indices))
	api.Match(methods, "/ranking", h.wrap(h.Ranking))
	api.Match(methods, "/ranking/estimate", h.wrap(h.EstimateRanking))
	api.Match(methods, "/fund/estimate", h.wrap(h.Estimate))
	api.Match(methods, "/fund/:code/detail", h.wrap(withCode(h.Detail)))
	api.Match(methods, "/fund/:code/portfolio", h.wrap(withCode(h.Portfolio)))
	api.Match(methods, "/fund/:code/performance", h.wrap(withCode(h.Performance)))
	return r
}

// cors stamps the CORS headers on every response and answers preflights, on any path,
// with an empty 200.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, kv := range corsHeaders {
			c.Header(kv[0], kv[1])
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func recovery(log *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		log.WithField("path", c.Request.URL.Path).Errorf("panic: %v", rec)
		writeError(c, http.StatusInternalServerError, fmt.Sprint(rec))
		c.Abort()
	})
}

func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
