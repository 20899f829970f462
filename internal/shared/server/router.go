package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-feedback/internal/shared/config"
	"resume-feedback/internal/shared/metrics"
	"resume-feedback/internal/shared/server/middleware"
	"resume-feedback/internal/shared/server/respond"
	"resume-feedback/internal/shell"
)

const feedbackRateGroup = "FEEDBACK"

// RouterDeps lists what the router needs from bootstrap.
type RouterDeps struct {
	Config       config.Config
	ShellHandler *shell.Handler
	Limiter      *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes
	r.SetHTMLTemplate(shell.Templates())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: feedbackGroup,
			Limiter:  deps.Limiter,
			OnLimited: func(c *gin.Context, retryAfter time.Duration) {
				if c.FullPath() == "/feedback" {
					deps.ShellHandler.RateLimited(c, retryAfter)
					return
				}
				respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many feedback requests", gin.H{"retryAfterMs": retryAfter.Milliseconds()})
			},
			Rules: map[string]middleware.RateLimitRule{
				feedbackRateGroup: {
					Rate:  deps.Config.FeedbackRatePerMinute / 60.0,
					Burst: deps.Config.FeedbackBurst,
				},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())
	deps.ShellHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.ShellHandler.RegisterAPIRoutes(api)

	return r
}

func feedbackGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/feedback", "/api/v1/feedback":
		return feedbackRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
