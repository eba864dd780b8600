package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log.
const (
	AnalysisOutcomeKey = "analysisOutcome"
	MatchScoreKey      = "matchScore"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"bytes_out":   c.Writer.Size(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if outcome := c.GetString(AnalysisOutcomeKey); outcome != "" {
			fields["analysis_outcome"] = outcome
		}
		if score, ok := c.Get(MatchScoreKey); ok {
			fields["match_score"] = score
		}
		telemetry.Info("request.complete", fields)
	}
}
