package conversationService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/conversation"
	conversationRepository "MaxBot/internal/api/conversation/repository"
	"MaxBot/internal/entity"
	"MaxBot/pkg/classifier"
	"MaxBot/pkg/llm"
	"MaxBot/pkg/s3"
	"MaxBot/pkg/utils"
	websocketPkg "MaxBot/pkg/websocket"
)

const (
	// GroupGap splits a conversation wherever two messages are further apart.
	GroupGap     = 30 * time.Minute
	HistoryLimit = 10
)

type Classifier interface {
	Classify(text string) (classifier.Result, error)
}

type IConversationService interface {
	Record(ctx context.Context, msg entity.Message) (entity.ClassifiedMessage, error)
	Stats(ctx context.Context) (conversation.StatsResponse, error)
	ByCategory(ctx context.Context, category string) (conversation.CategoryConversationsResponse, error)
	History(ctx context.Context, senderName string) (conversation.HistoryResponse, error)
	Answer(ctx context.Context, req conversation.AnswerRequest) (conversation.AnswerResponse, error)
	Sentiment(ctx context.Context, req conversation.SentimentRequest) (conversation.SentimentResponse, error)
	Export(ctx context.Context) (conversation.ExportResponse, error)
}

type conversationService struct {
	log        *logrus.Logger
	repo       conversationRepository.Repository
	classifier Classifier
	llm        llm.ILLM
	s3Client   s3.ItfS3
	hub        websocketPkg.IHub
	utils      utils.IUtils
	location   *time.Location
}

type Option func(*conversationService)

// WithS3 enables Export; without it Export reports ErrExportUnavailable.
func WithS3(client s3.ItfS3) Option {
	return func(s *conversationService) {
		s.s3Client = client
	}
}

func WithHub(hub websocketPkg.IHub) Option {
	return func(s *conversationService) {
		s.hub = hub
	}
}

// WithLocation sets the zone history timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *conversationService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func New(
	log *logrus.Logger,
	repo conversationRepository.Repository,
	classifier Classifier,
	llmClient llm.ILLM,
	utils utils.IUtils,
	opts ...Option,
) IConversationService {
	s := &conversationService{
		log:        log,
		repo:       repo,
		classifier: classifier,
		llm:        llmClient,
		utils:      utils,
		location:   time.Local,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
