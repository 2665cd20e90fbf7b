package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/middleware"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/service"
)

func RegisterRoutes(app *fiber.App,
	listingSvc service.ListingService,
	chatSvc service.ChatService,
	voiceSvc service.VoiceService,
	jwtSecret string,
) {

	api := app.Group("/api")
	NewCarHandler(listingSvc, middleware.OwnerIdentity(jwtSecret)).Register(api)
	NewChatHandler(chatSvc, voiceSvc, listingSvc).Register(api)
}
