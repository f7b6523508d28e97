package router

import (
	"time"

	"adchain/config"
	"adchain/internal/handler"
	"adchain/internal/middleware"
	"adchain/internal/repository"
	"adchain/internal/scoring"
	"adchain/internal/service"
	"adchain/internal/ws"
	"adchain/pkg/cloudinary"
	"adchain/pkg/portfolio"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider portfolio.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	advertiserRepo := repository.NewAdvertiserRepository(db)
	adRepo := repository.NewAdRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	eventHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, advertiserRepo)
	ledgerSvc := service.NewLedgerService(ledgerRepo, eventHub, cfg.Ledger.ConflictRetries)
	profileSvc := service.NewProfileService(provider, scoring.NewScorer(), portfolioRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	adHandler := handler.NewAdHandler(adRepo, cloud)
	trackingHandler := handler.NewTrackingHandler(adRepo, portfolioRepo, ledgerSvc, cfg.Ledger.DefaultRewardAmount)
	profileHandler := handler.NewProfileHandler(profileSvc, portfolioRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsRepo, portfolioRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	// Tracking endpoints are retried aggressively by clients; limit per wallet
	// rather than per IP.
	walletLimiter := middleware.RateLimitByWallet(middleware.NewInMemoryRateLimiter(60, 60*time.Second))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		// Wallet-facing
		api.GET("/ads/matching", trackingHandler.Matching)
		api.POST("/ads/:id/impression", walletLimiter, trackingHandler.Impression)
		api.POST("/ads/:id/interaction", walletLimiter, trackingHandler.Interaction)
		api.POST("/profiles/refresh", walletLimiter, profileHandler.Refresh)
		api.GET("/profiles", profileHandler.Get)
		api.GET("/profiles/history", profileHandler.History)

		// Advertiser-facing
		ads := api.Group("/ads")
		ads.Use(authMw)
		{
			ads.POST("", adHandler.Create)
			ads.GET("", adHandler.ListMine)
			ads.GET("/analytics", analyticsHandler.Overview)
			ads.GET("/:id", adHandler.Get)
			ads.POST("/:id/balance", adHandler.DecrementBalance)
			ads.POST("/:id/media", adHandler.UploadMedia)
		}
	}

	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, eventHub))

	return r
}
