package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/realty-backend/internal/config"
	"github.com/ignatzorin/realty-backend/internal/http/handlers"
	"github.com/ignatzorin/realty-backend/internal/http/middleware"
	"github.com/ignatzorin/realty-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	referralHandler *handlers.ReferralHandler,
	engagementHandler *handlers.EngagementHandler,
	commissionHandler *handlers.CommissionHandler,
	offerHandler *handlers.OfferHandler,
	crowdfundingHandler *handlers.CrowdfundingHandler,
	messageHandler *handlers.MessageHandler,
	notificationHandler *handlers.NotificationHandler,
	documentHandler *handlers.DocumentHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/docs", http.Dir(cfg.DocsStoragePath))

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/profiles/:id", middleware.UUIDValidator("id"), profileHandler.Get)
	api.GET("/projects", crowdfundingHandler.ListProjects)
	api.GET("/projects/:id", middleware.UUIDValidator("id"), crowdfundingHandler.GetProject)
	api.GET("/projects/:id/summary", middleware.UUIDValidator("id"), crowdfundingHandler.Summary)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.Me)
		protected.PUT("/profile", profileHandler.Update)

		// Рекомендации и лиды
		protected.POST("/referrals", referralHandler.Create)
		protected.GET("/referrals/sent", referralHandler.ListSent)
		protected.GET("/referrals/received", referralHandler.ListReceived)
		protected.GET("/referrals/eligible-clients", referralHandler.EligibleClients)
		protected.POST("/referrals/:id/accept", middleware.UUIDValidator("id"), referralHandler.Accept)
		protected.GET("/referrals/:id/commission", middleware.UUIDValidator("id"), commissionHandler.GetByReferral)
		protected.POST("/leads", referralHandler.CreateLead)
		protected.GET("/leads", referralHandler.ListLeads)

		// Сотрудничества и комиссии
		protected.POST("/engagements", engagementHandler.Create)
		protected.GET("/engagements", engagementHandler.List)
		protected.GET("/engagements/:id", middleware.UUIDValidator("id"), engagementHandler.Get)
		protected.GET("/commissions", commissionHandler.List)
		protected.GET("/commissions/summary", commissionHandler.Summary)

		// Предложения
		protected.POST("/offers", offerHandler.Create)
		protected.GET("/offers/sent", offerHandler.ListSent)
		protected.GET("/offers/received", offerHandler.ListReceived)
		protected.GET("/offers/earnings", offerHandler.Earnings)
		protected.GET("/offers/:id", middleware.UUIDValidator("id"), offerHandler.Get)
		protected.POST("/offers/:id/payment-intent", middleware.UUIDValidator("id"), offerHandler.CreatePaymentIntent)
		protected.POST("/offers/:id/respond", middleware.UUIDValidator("id"), offerHandler.Respond)
		protected.POST("/offers/:id/withdraw", middleware.UUIDValidator("id"), offerHandler.Withdraw)
		protected.POST("/offers/:id/request-completion", middleware.UUIDValidator("id"), offerHandler.RequestCompletion)
		protected.POST("/offers/:id/respond-completion", middleware.UUIDValidator("id"), offerHandler.RespondToCompletion)

		// Краудфандинг
		protected.POST("/projects", crowdfundingHandler.CreateProject)
		protected.POST("/projects/:id/pledge", middleware.UUIDValidator("id"), crowdfundingHandler.Pledge)
		protected.GET("/projects/:id/pledge", middleware.UUIDValidator("id"), crowdfundingHandler.GetPledge)
		protected.DELETE("/projects/:id/pledge", middleware.UUIDValidator("id"), crowdfundingHandler.CancelPledge)
		protected.POST("/projects/:id/vote", middleware.UUIDValidator("id"), crowdfundingHandler.Vote)
		protected.DELETE("/projects/:id/vote", middleware.UUIDValidator("id"), crowdfundingHandler.RemoveVote)

		// Сообщения
		protected.POST("/messages", messageHandler.Send)
		protected.GET("/messages/unread-count", messageHandler.UnreadCount)
		protected.GET("/messages/:peer_id", middleware.UUIDValidator("peer_id"), messageHandler.Conversation)

		// Уведомления
		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.DeleteNotification)

		// Документы
		protected.POST("/documents", documentHandler.Upload)
		protected.GET("/documents", documentHandler.List)
		protected.DELETE("/documents/:id", middleware.UUIDValidator("id"), documentHandler.Delete)
	}

	return r
}
