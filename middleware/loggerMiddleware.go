package middleware

import (
	"fmt"
	"strconv"
	"time"

	"go-food-ordering/logger"
	"go-food-ordering/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request once the response is written and
// records the request in the Prometheus collectors.
func RequestLogger(log logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if m != nil {
			m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())
		}

		line := fmt.Sprintf("%s %s %d - %.3fms request_id=%s",
			c.Request.Method, c.Request.URL.Path, status, float64(duration.Microseconds())/1000, requestID)
		if errs := c.Errors.String(); errs != "" {
			line += " errors=" + errs
		}

		switch {
		case status >= 500:
			log.Error(line)
		case status >= 400:
			log.Warn(line)
		default:
			log.Info(line)
		}
	}
}
