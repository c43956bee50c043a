package routes

import (
	"github.com/MeldryckSAID/NovaHelpBack/internal/config"
	"github.com/MeldryckSAID/NovaHelpBack/internal/handlers"
	"github.com/MeldryckSAID/NovaHelpBack/internal/middleware"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	chatws "github.com/MeldryckSAID/NovaHelpBack/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	studentProfileRepo := repository.NewStudentProfileRepository(db)
	helperProfileRepo := repository.NewHelperProfileRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		studentProfileRepo,
		helperProfileRepo,
		cfg.JWTSecret,
	)
	onboardingHandler := handlers.NewOnboardingHandler(studentProfileRepo, helperProfileRepo)
	profileService := services.NewProfileService(studentProfileRepo, helperProfileRepo)
	profileHandler := handlers.NewProfileHandler(profileService, studentProfileRepo, helperProfileRepo)
	recommendationService := services.NewRecommendationService(helperProfileRepo)
	helperDiscoveryHandler := handlers.NewHelperDiscoveryHandler(
		helperProfileRepo,
		studentProfileRepo,
		timeSlotRepo,
		recommendationService,
	)
	availabilityService := services.NewAvailabilityService(db, timeSlotRepo)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	chatHub := chatws.NewHub()
	go chatHub.Run()
	bookingService := services.NewBookingService(bookingRepo, timeSlotRepo, userRepo, helperProfileRepo)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	meetingService := services.NewMeetingService(bookingService, chatHub)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	chatService := services.NewChatService(db, conversationRepo, messageRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	students := authProtected.Group("/students")
	students.Post("/onboarding", onboardingHandler.StudentOnboarding)
	students.Get("/profile", profileHandler.GetStudentProfile)
	students.Put("/profile", profileHandler.UpdateStudentProfile)

	helpers := authProtected.Group("/helpers")
	helpers.Get("", helperDiscoveryHandler.ListHelpers)
	helpers.Post("/onboarding", onboardingHandler.HelperOnboarding)
	helpers.Get("/profile", profileHandler.GetHelperProfile)
	helpers.Put("/profile", profileHandler.UpdateHelperProfile)
	helpers.Put("/presence", profileHandler.UpdatePresence)
	helpers.Get("/recommended", helperDiscoveryHandler.GetRecommendedHelpers)
	helpers.Post("/slots", availabilityHandler.AddSlot)
	helpers.Get("/slots", availabilityHandler.ListSlots)
	helpers.Delete("/slots/:id", availabilityHandler.RemoveSlot)
	helpers.Get("/:id", helperDiscoveryHandler.GetHelperDetail)

	bookings := authProtected.Group("/bookings")
	bookings.Post("", bookingHandler.CreateBooking)
	bookings.Get("", bookingHandler.ListBookings)
	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Put("/:id/decision", bookingHandler.DecideBooking)
	bookings.Post("/:id/complete", bookingHandler.CompleteBooking)

	meetings := authProtected.Group("/meetings")
	meetings.Get("/:id", meetingHandler.GetJoinState)
	meetings.Post("/:id/end", meetingHandler.EndSession)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))

	return registerDocsRoutes(app, cfg)
}
