package routes

import (
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/miwaszko990/ugc-travel-connect/internal/config"
	"github.com/miwaszko990/ugc-travel-connect/internal/handlers"
	"github.com/miwaszko990/ugc-travel-connect/internal/middleware"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
	chatws "github.com/miwaszko990/ugc-travel-connect/internal/websocket"
	"github.com/stripe/stripe-go/v76/client"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	creatorProfileRepo := repository.NewCreatorProfileRepository(db)
	brandProfileRepo := repository.NewBrandProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	typingRepo := repository.NewTypingRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey, 15*time.Minute)
	}

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		creatorProfileRepo,
		brandProfileRepo,
		cfg.JWTSecret,
	)
	onboardingHandler := handlers.NewOnboardingHandler(creatorProfileRepo, brandProfileRepo)
	profileService := services.NewProfileService(creatorProfileRepo, brandProfileRepo)
	profileHandler := handlers.NewProfileHandler(profileService, creatorProfileRepo, brandProfileRepo, storageService)
	matchmakingService := services.NewMatchmakingService(creatorProfileRepo)
	discoveryHandler := handlers.NewCreatorDiscoveryHandler(creatorProfileRepo, brandProfileRepo, matchmakingService, portfolioRepo)
	portfolioService := services.NewPortfolioService(portfolioRepo, storageService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(db, conversationRepo, messageRepo, typingRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	offerService := services.NewOfferService(db, conversationRepo, messageRepo, offerRepo)
	offerHandler := handlers.NewOfferHandler(offerService, chatHub)

	orderService := services.NewOrderService(orderRepo)
	orderHandler := handlers.NewOrderHandler(orderService)
	deliverableService := services.NewDeliverableService(deliverableRepo, orderRepo, storageService)
	deliverableHandler := handlers.NewDeliverableHandler(deliverableService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	if cfg.PaymentsEnabled() {
		stripeClient := &client.API{}
		stripeClient.Init(cfg.StripeSecretKey, nil)
		paymentService := services.NewPaymentService(
			db,
			offerRepo,
			conversationRepo,
			stripeClient.CheckoutSessions,
			cfg.FrontendBaseURL,
			chatHub,
		)
		paymentHandler := handlers.NewPaymentHandler(paymentService)
		webhookHandler := handlers.NewWebhookHandler(paymentService, cfg.StripeWebhookSecret)

		api.Post("/webhooks/stripe", webhookHandler.HandleStripeWebhook)
		api.Post("/v1/offers/:id/checkout", middleware.AuthRequired(cfg.JWTSecret), paymentHandler.CreateCheckoutSession)
	} else {
		log.Println("Stripe secrets not configured, payment routes disabled")
	}

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	brands := authProtected.Group("/brands")
	brands.Post("/onboarding", onboardingHandler.BrandOnboarding)
	brands.Get("/profile", profileHandler.GetBrandProfile)
	brands.Put("/profile", profileHandler.UpdateBrandProfile)
	brands.Post("/profile/logo", profileHandler.UploadBrandLogo)

	creators := authProtected.Group("/creators")
	creators.Get("", discoveryHandler.ListCreators)
	creators.Post("/onboarding", onboardingHandler.CreatorOnboarding)
	creators.Get("/profile", profileHandler.GetCreatorProfile)
	creators.Put("/profile", profileHandler.UpdateCreatorProfile)
	creators.Post("/profile/avatar", profileHandler.UploadCreatorAvatar)
	creators.Get("/recommended", discoveryHandler.GetRecommendedCreators)
	creators.Get("/:id", discoveryHandler.GetCreatorDetail)

	portfolio := authProtected.Group("/portfolio")
	portfolio.Get("", portfolioHandler.ListItems)
	portfolio.Post("", portfolioHandler.AddItem)
	portfolio.Put("/order", portfolioHandler.Reorder)
	portfolio.Delete("/:id", portfolioHandler.RemoveItem)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.StartConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)
	conversations.Post("/:id/messages", chatHandler.SendMessage)
	conversations.Post("/:id/read", chatHandler.MarkConversationRead)
	conversations.Get("/:id/typing", chatHandler.GetTypingStatus)
	conversations.Post("/:id/offers", offerHandler.SendOffer)

	offers := authProtected.Group("/offers")
	offers.Get("/:id", offerHandler.GetOffer)

	orders := authProtected.Group("/orders")
	orders.Get("", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/status", orderHandler.UpdateOrderStatus)
	orders.Post("/:id/complete", orderHandler.CompleteOrder)
	orders.Get("/:id/deliverables", deliverableHandler.ListOrderDeliverables)
	orders.Post("/:id/deliverables", deliverableHandler.SubmitDeliverable)

	deliverables := authProtected.Group("/deliverables")
	deliverables.Get("", deliverableHandler.ListDeliverables)
	deliverables.Get("/:id/download", deliverableHandler.GetDownloadURL)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
