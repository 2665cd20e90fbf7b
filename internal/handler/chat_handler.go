package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/service"
)

// ChatHandler wires HTTP → ChatService, VoiceService and the rule-based quick search.
type ChatHandler struct {
	chat     service.ChatService
	voice    service.VoiceService
	listings service.ListingService
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(chat service.ChatService, voice service.VoiceService, listings service.ListingService) *ChatHandler {
	return &ChatHandler{chat: chat, voice: voice, listings: listings}
}

// Register mounts the /chat endpoints on the supplied router group.
func (h *ChatHandler) Register(r fiber.Router) {
	g := r.Group("/chat")
	g.Post("/message", h.message)
	g.Post("/voice", h.transcribe)
	g.Post("/quick-search", h.quickSearch)
}

// message handles POST /chat/message  { "messages": [...], "preferredLanguage": "en" }
func (h *ChatHandler) message(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	reply, err := h.chat.Reply(c.UserContext(), req.Messages, req.PreferredLanguage)
	if errors.Is(err, service.ErrValidation) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Msg("chat reply failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reply)
}

// transcribe handles POST /chat/voice with a multipart "audio" file.
func (h *ChatHandler) transcribe(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No audio file"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No audio file"})
	}
	defer f.Close()

	text, err := h.voice.Transcribe(c.UserContext(), f)
	if err != nil {
		log.Error().Err(err).Str("component", "voice").Msg("transcription failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transcription failed"})
	}
	return c.JSON(fiber.Map{"text": text})
}

// quickSearch handles POST /chat/quick-search  { "text": "suzuki alto under 15 lakh" }
func (h *ChatHandler) quickSearch(c *fiber.Ctx) error {
	var req models.QuickSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text is required")
	}

	res, err := h.listings.QuickSearch(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
