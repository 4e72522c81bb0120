package chatService

import (
	"context"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/chat"
)

// Answerer produces the reply the bot would give to a mention.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

type IChatService interface {
	Reply(ctx context.Context, req chat.ChatRequest) (chat.ChatResponse, error)
}

type chatService struct {
	log      *logrus.Logger
	answerer Answerer
}

func New(log *logrus.Logger, answerer Answerer) IChatService {
	return &chatService{
		log:      log,
		answerer: answerer,
	}
}
