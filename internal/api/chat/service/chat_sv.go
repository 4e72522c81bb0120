package chatService

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/chat"
	contextPkg "MaxBot/pkg/context"
)

const replyFallback = "Desculpe, não consegui processar sua mensagem."

// Reply answers a web chat message the same way the bot answers a mention.
func (s *chatService) Reply(ctx context.Context, req chat.ChatRequest) (chat.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return chat.ChatResponse{}, chat.ErrEmptyMessage
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      contextPkg.GetRequestID(ctx),
		"conversation_id": req.ConversationID,
	}).Debug("Chat message received")

	answer := s.answerer.Answer(ctx, message)
	if strings.TrimSpace(answer) == "" {
		answer = replyFallback
	}

	return chat.ChatResponse{
		Response:       answer,
		ConversationID: req.ConversationID,
	}, nil
}
