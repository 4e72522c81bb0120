package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"MaxBot/database/postgres"
	chatHandler "MaxBot/internal/api/chat/handler"
	chatService "MaxBot/internal/api/chat/service"
	classificationHandler "MaxBot/internal/api/classification/handler"
	classificationRepository "MaxBot/internal/api/classification/repository"
	classificationService "MaxBot/internal/api/classification/service"
	conversationHandler "MaxBot/internal/api/conversation/handler"
	conversationRepository "MaxBot/internal/api/conversation/repository"
	conversationService "MaxBot/internal/api/conversation/service"
	"MaxBot/internal/bot"
	"MaxBot/internal/middleware"
	"MaxBot/pkg/classifier"
	"MaxBot/pkg/corpus"
	"MaxBot/pkg/gemini"
	"MaxBot/pkg/llm"
	"MaxBot/pkg/openai"
	"MaxBot/pkg/places"
	"MaxBot/pkg/redis"
	"MaxBot/pkg/s3"
	"MaxBot/pkg/utils"
	websocketPkg "MaxBot/pkg/websocket"
	"MaxBot/pkg/whatsapp"
)

const (
	placesCacheTTL  = time.Hour
	historyPartGap  = time.Second
	defaultTimezone = "America/Fortaleza"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	s3Client       s3.ItfS3
	llmClient      llm.ILLM
	placesClient   places.IPlaces
	classifier     *classifier.Classifier
	corpus         *corpus.Loader
	hub            websocketPkg.IHub
	whatsappClient whatsapp.IWhatsapp
	location       *time.Location

	classificationService classificationService.IClassificationService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{location: time.Local}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithS3Client leaves export disabled when the bucket is not configured.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("S3 client disabled, conversation export unavailable: %v", err)
			}
			return nil
		}
		s.s3Client = client
		return nil
	}
}

// WithLLM picks the answer provider from LLM_PROVIDER, OpenAI by default.
func WithLLM() ServerOption {
	return func(s *Server) error {
		provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
		switch provider {
		case "", "openai":
			s.llmClient = openai.NewChatGPT()
		case "gemini":
			client, err := gemini.NewGeminiClient()
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to create Gemini client: %v", err)
				}
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			s.llmClient = client
		default:
			return fmt.Errorf("unknown LLM_PROVIDER %q", provider)
		}
		return nil
	}
}

// WithPlaces must come after WithRedisServer for lookups to be cached.
func WithPlaces() ServerOption {
	return func(s *Server) error {
		location := os.Getenv("PLACES_DEFAULT_LOCATION")
		client := places.New(places.WithLocation(location))
		if s.redisServer != nil {
			client = places.NewCached(client, s.redisServer, location, placesCacheTTL, s.log)
		}
		s.placesClient = client
		return nil
	}
}

func WithClassifier() ServerOption {
	return func(s *Server) error {
		s.classifier = classifier.New(classifier.WithLogger(s.log))
		s.corpus = corpus.New(corpus.FromDirectory(os.Getenv("CLASSIFIER_CORPUS_DIR")), s.log)
		return nil
	}
}

func WithHub(hub websocketPkg.IHub) ServerOption {
	return func(s *Server) error {
		s.hub = hub
		return nil
	}
}

func WithLocation() ServerOption {
	return func(s *Server) error {
		name := os.Getenv("APP_TIMEZONE")
		if name == "" {
			name = defaultTimezone
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			return fmt.Errorf("failed to load timezone %q: %w", name, err)
		}
		s.location = loc
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithWhatsappClient connects only when WHATSAPP_ENABLED is true. The bot is
// attached in RegisterHandler once the services exist.
func WithWhatsappClient(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if !strings.EqualFold(os.Getenv("WHATSAPP_ENABLED"), "true") {
			if s.log != nil {
				s.log.Info("WhatsApp client disabled")
			}
			return nil
		}

		client, err := whatsapp.New(ctx, s.log, whatsapp.Config{})
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.engine.Use(s.middleware.NewRateLimiter)

	responder := bot.NewResponder(s.log, s.classifier, s.placesClient, s.llmClient, botMentions()...)

	// Classification Domain
	classificationRepo := classificationRepository.New(s.db, s.log)
	s.classificationService = classificationService.New(s.log, classificationRepo, s.classifier, s.corpus, s.placesClient, s.llmClient, s.utils)
	classificationHandlers := classificationHandler.New(s.log, s.validator, s.middleware, s.classificationService)

	// Conversation Domain
	conversationOpts := []conversationService.Option{
		conversationService.WithHub(s.hub),
		conversationService.WithLocation(s.location),
	}
	if s.s3Client != nil {
		conversationOpts = append(conversationOpts, conversationService.WithS3(s.s3Client))
	}
	conversationRepo := conversationRepository.New(s.db, s.log)
	conversationServices := conversationService.New(s.log, conversationRepo, s.classifier, s.llmClient, s.utils, conversationOpts...)
	conversationHandlers := conversationHandler.New(s.log, s.validator, s.middleware, conversationServices)

	// Web Chat
	chatServices := chatService.New(s.log, responder)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices)

	// WhatsApp Bot
	if s.whatsappClient != nil {
		s.whatsappClient.SetHandler(bot.New(s.log, s.whatsappClient, conversationServices, responder, bot.Config{
			GroupJID:  os.Getenv("WHATSAPP_GROUP_JID"),
			Location:  s.location,
			PartDelay: historyPartGap,
		}))
	}

	s.setupHealthCheck()
	s.setupLiveFeed()
	s.setupPairing()
	s.handlers = append(s.handlers, classificationHandlers, conversationHandlers, chatHandlers)
}

// TrainClassifier builds the first model from the corpus plus stored examples.
func (s *Server) TrainClassifier(ctx context.Context) error {
	if s.classificationService == nil {
		return fmt.Errorf("handlers must be registered before training")
	}

	res, err := s.classificationService.Retrain(ctx)
	if err != nil {
		return fmt.Errorf("failed to train classifier: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"examples":   res.Examples,
		"vocabulary": res.Stats.Vocabulary,
	}).Info("Classifier ready")
	return nil
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	err := s.engine.ShutdownWithTimeout(10 * time.Second)

	if s.hub != nil {
		s.hub.Close()
	}
	if s.whatsappClient != nil {
		if dErr := s.whatsappClient.Disconnect(); dErr != nil {
			s.log.Warnf("Failed to disconnect WhatsApp client: %v", dErr)
		}
	}
	if closer, ok := s.llmClient.(io.Closer); ok {
		_ = closer.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":    "Server is Healthy!",
			"classifier": s.classifier.Stats(),
		})
	})
}

func (s *Server) setupLiveFeed() {
	if s.hub == nil {
		return
	}
	s.engine.Get("/ws/messages", s.hub.Handler())
}

// setupPairing exposes the pending WhatsApp QR code to operators.
func (s *Server) setupPairing() {
	s.engine.Get("/qr", s.middleware.NewTokenMiddleware, func(ctx *fiber.Ctx) error {
		if s.whatsappClient == nil {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "WhatsApp client disabled"})
		}
		if s.whatsappClient.IsConnected() && s.whatsappClient.QRCode() == "" {
			return ctx.JSON(fiber.Map{"connected": true})
		}

		code := s.whatsappClient.QRCode()
		if code == "" {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No pairing code available"})
		}
		return ctx.JSON(fiber.Map{"qr": code})
	})
}

func botMentions() []string {
	raw := os.Getenv("BOT_MENTIONS")
	if strings.TrimSpace(raw) == "" {
		raw = bot.DefaultMention
	}

	mentions := strings.Split(raw, ",")
	if number := os.Getenv("NUMBER_BOT"); number != "" {
		mentions = append(mentions, number)
	}
	return mentions
}
