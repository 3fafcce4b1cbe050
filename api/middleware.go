package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/searchdesk/api/handlers"
	"github.com/meghashyamc/searchdesk/logger"
	"golang.org/x/time/rate"
)

const HeaderRequestID = "X-Request-ID"

const contextRequestIDKey = "requestID"

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(contextRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

func loggingMiddleware(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request",
			"request_id", c.GetString(contextRequestIDKey),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "X-Requested-With", HeaderRequestID},
		ExposeHeaders:    []string{HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			break
		}
	}
	if !config.AllowAllOrigins {
		config.AllowOrigins = origins
	}

	return cors.New(config)
}

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	logger   logger.Logger
	settings handlers.Settings
}

func newIPRateLimiter(perMinute int, burst int, settings handlers.Settings, logger logger.Logger) *ipRateLimiter {
	return &ipRateLimiter{
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		logger:   logger,
		settings: settings,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// limitWrites rate limits everything except reads.
func (i *ipRateLimiter) limitWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			i.logger.Warn("rate limit exceeded", "client_ip", ip, "path", c.Request.URL.Path)
			i.settings.AbortTooManyRequests(c)
			return
		}

		c.Next()
	}
}
