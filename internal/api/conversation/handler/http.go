package conversationHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	conversationService "MaxBot/internal/api/conversation/service"
	"MaxBot/internal/middleware"
)

type ConversationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	conversationService conversationService.IConversationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs conversationService.IConversationService,
) *ConversationHandler {
	return &ConversationHandler{
		log:                 log,
		validator:           validate,
		middleware:          middleware,
		conversationService: cs,
	}
}

func (h *ConversationHandler) Start(srv fiber.Router) {
	srv.Post("/messages/sentiment", h.Sentiment)

	conversations := srv.Group("/conversations")

	// Ingestion and export are for operators only
	conversations.Post("/messages", h.middleware.NewTokenMiddleware, h.RecordMessage)
	conversations.Post("/export", h.middleware.NewTokenMiddleware, h.Export)

	conversations.Post("/answer", h.Answer)
	conversations.Get("/stats", h.Stats)
	conversations.Get("/history/:sender", h.History)
	conversations.Get("/:category", h.ByCategory)
}
