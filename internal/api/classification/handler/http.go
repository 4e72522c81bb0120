package classificationHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	classificationService "MaxBot/internal/api/classification/service"
	"MaxBot/internal/middleware"
)

type ClassificationHandler struct {
	log                   *logrus.Logger
	validator             *validator.Validate
	middleware            middleware.Middleware
	classificationService classificationService.IClassificationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs classificationService.IClassificationService,
) *ClassificationHandler {
	return &ClassificationHandler{
		log:                   log,
		validator:             validate,
		middleware:            middleware,
		classificationService: cs,
	}
}

func (h *ClassificationHandler) Start(srv fiber.Router) {
	srv.Post("/messages/classify", h.ClassifyMessage)

	classifier := srv.Group("/classifier", h.middleware.NewTokenMiddleware)
	classifier.Post("/test", h.TestClassifier)
	classifier.Post("/examples", h.AddExample)
	classifier.Get("/examples", h.ListExamples)
	classifier.Post("/retrain", h.Retrain)
}
