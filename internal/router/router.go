package router

import (
	"time"

	"modstore/config"
	"modstore/internal/handler"
	"modstore/internal/middleware"
	"modstore/internal/repository"
	"modstore/internal/service"
	"modstore/pkg/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, store storage.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	downloadLogRepo := repository.NewDownloadLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, userRepo)
	downloadSvc := service.NewDownloadService(purchaseSvc, userRepo, store, downloadLogRepo, cfg.Storage.URLExpiry)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	discordHandler := handler.NewDiscordOAuthHandler(cfg, authSvc)
	steamHandler := handler.NewSteamHandler(cfg, authSvc)
	catalogHandler := handler.NewCatalogHandler(productRepo)
	checkoutHandler := handler.NewCheckoutHandler(purchaseSvc)
	downloadHandler := handler.NewDownloadHandler(cfg, downloadSvc)
	meHandler := handler.NewMeHandler(userRepo, purchaseSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, purchaseRepo)
	adminHandler := handler.NewAdminHandler(productRepo, store)

	authMw := middleware.AuthRequired(&cfg.JWT)
	downloadMw := middleware.AuthFromHeaderOrQuery(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/discord", discordHandler.Redirect)
			authGroup.GET("/discord/callback", discordHandler.Callback)
			authGroup.POST("/discord/token", discordHandler.Token)
			authGroup.GET("/steam", authMw, steamHandler.Link)
			authGroup.GET("/steam/callback", downloadMw, steamHandler.Callback)
			authGroup.POST("/steam/unlink", authMw, steamHandler.Unlink)
		}

		api.GET("/mods", catalogHandler.List)
		api.GET("/mods/:id", catalogHandler.Get)

		api.POST("/checkout", authMw, checkoutHandler.Checkout)
		api.GET("/download/:productId", downloadMw, downloadHandler.Download)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.GET("/purchases", meHandler.GetPurchases)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/mods/:id/artifact", adminHandler.UploadArtifact)
		}
	}

	return r
}
