package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"zenmindful/internal/metrics"
	"zenmindful/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Auth       *AuthHandler
	Challenges *ChallengeHandler
	Account    *AccountHandler
	Resolver   middleware.Resolver
	Cookie     middleware.SessionCookie
	Limiter    *middleware.RateLimiter
	Metrics    *metrics.Metrics
	Origins    []string
	Log        *slog.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	config := cors.DefaultConfig()
	if len(d.Origins) > 0 {
		config.AllowOrigins = d.Origins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowCredentials = len(d.Origins) > 0
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.HeaderUserID, middleware.HeaderSessionToken}
	config.ExposeHeaders = []string{middleware.HeaderSessionToken}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	limit := func(scope string, n int, window time.Duration) gin.HandlerFunc {
		if d.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return d.Limiter.Limit(scope, n, window)
	}
	resolved := middleware.Identity(d.Resolver, d.Cookie)

	api := r.Group("/api")
	{
		api.POST("/user/verify-session", limit("reconcile", 30, time.Minute), d.Auth.VerifySession)

		auth := api.Group("/auth")
		{
			auth.POST("/establish-session", limit("reconcile", 30, time.Minute), d.Auth.EstablishSession)
			auth.POST("/quick-start", limit("quick_start", 10, time.Minute), d.Auth.QuickStart)
			auth.POST("/sync", limit("sync", 30, time.Minute), d.Auth.Sync)
			auth.POST("/phone/send-otp", limit("otp_send", 3, 5*time.Minute), d.Auth.SendOTP)
			auth.POST("/phone/verify-otp", limit("otp_verify", 10, 5*time.Minute), d.Auth.VerifyOTP)
			auth.POST("/logout", d.Auth.Logout)
			auth.POST("/reset-user", resolved, d.Auth.ResetUser)
			auth.GET("/user", resolved, d.Auth.GetUser)
		}

		api.POST("/onboarding/complete", resolved, d.Auth.CompleteOnboarding)

		if d.Account != nil {
			user := api.Group("/user")
			user.Use(resolved)
			{
				user.GET("/export-data", d.Account.Export)
				user.GET("/data-integrity", d.Account.Integrity)
			}
		}

		api.GET("/challenges/catalog", d.Challenges.Catalog)
		challenges := api.Group("/challenges")
		challenges.Use(resolved)
		{
			challenges.GET("/available", d.Challenges.Available)
			challenges.GET("/active", d.Challenges.Active)
			challenges.GET("/completed", d.Challenges.Completed)
			challenges.GET("/insights", d.Challenges.Insights)
			challenges.GET("/:id/progress", d.Challenges.GetProgress)
			challenges.POST("/join", d.Challenges.Join)
			challenges.POST("/progress", d.Challenges.RecordProgress)
		}

		api.POST("/wellness/daily-tip", resolved, d.Challenges.DailyTip)
	}

	return r
}
