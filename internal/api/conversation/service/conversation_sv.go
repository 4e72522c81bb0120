package conversationService

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/conversation"
	"MaxBot/internal/entity"
	"MaxBot/pkg/classifier"
	contextPkg "MaxBot/pkg/context"
	"MaxBot/pkg/utils"
)

const historyDateLayout = "02/01/2006 15:04"

// Record normalizes, classifies and stores one incoming message, then pushes
// it to live feed subscribers.
func (s *conversationService) Record(ctx context.Context, msg entity.Message) (entity.ClassifiedMessage, error) {
	requestID := contextPkg.GetRequestID(ctx)

	msg.Body = strings.TrimSpace(msg.Body)
	msg.SenderName = strings.TrimSpace(msg.SenderName)
	if msg.Body == "" || msg.SenderName == "" || msg.ChatID == "" || msg.SentAt.IsZero() {
		return entity.ClassifiedMessage{}, conversation.ErrInvalidMessage
	}
	if msg.Type == "" {
		msg.Type = "chat"
	}
	msg.SentAt = msg.SentAt.UTC()

	if msg.ID == "" {
		id, err := s.utils.NewULIDFromTimestamp(msg.SentAt)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to generate ULID")
			return entity.ClassifiedMessage{}, err
		}
		msg.ID = id
	}

	result, err := s.classifier.Classify(msg.Body)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to classify message")
		return entity.ClassifiedMessage{}, err
	}

	classified := entity.ClassifiedMessage{
		Message: msg,
		Classification: entity.Classification{
			Category:   result.Category.String(),
			Confidence: result.Confidence,
		},
		CreatedAt: time.Now().UTC(),
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.ClassifiedMessage{}, err
	}

	if err := repo.Messages.CreateMessage(ctx, classified); err != nil {
		return entity.ClassifiedMessage{}, conversation.ErrStoreMessage
	}

	if s.hub != nil {
		s.hub.Broadcast(conversation.NewMessageResponse(classified))
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"message_id": classified.ID,
		"category":   classified.Category,
		"confidence": classified.Confidence,
	}).Info("Message recorded")

	return classified, nil
}

func (s *conversationService) Stats(ctx context.Context) (conversation.StatsResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return conversation.StatsResponse{}, err
	}

	counts, err := repo.Messages.CountByCategory(ctx)
	if err != nil {
		return conversation.StatsResponse{}, conversation.ErrReadMessages
	}

	stats := conversation.StatsResponse{CategoryCount: make(map[string]int)}
	for _, category := range classifier.Categories() {
		stats.CategoryCount[category.String()] = 0
	}
	for category, n := range counts {
		stats.CategoryCount[category] = n
		stats.TotalMessages += n
	}

	return stats, nil
}

func (s *conversationService) ByCategory(ctx context.Context, category string) (conversation.CategoryConversationsResponse, error) {
	parsed, err := classifier.ParseCategory(category)
	if err != nil {
		return conversation.CategoryConversationsResponse{}, conversation.ErrInvalidCategory
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return conversation.CategoryConversationsResponse{}, err
	}

	messages, err := repo.Messages.ListByCategory(ctx, parsed.String())
	if err != nil {
		return conversation.CategoryConversationsResponse{}, conversation.ErrReadMessages
	}

	return conversation.CategoryConversationsResponse{
		Category: parsed.String(),
		Groups:   makeGroupResponses(GroupMessages(messages)),
	}, nil
}

func (s *conversationService) History(ctx context.Context, senderName string) (conversation.HistoryResponse, error) {
	senderName = strings.TrimSpace(senderName)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return conversation.HistoryResponse{}, err
	}

	messages, err := repo.Messages.ListBySender(ctx, senderName, HistoryLimit)
	if err != nil {
		return conversation.HistoryResponse{}, conversation.ErrReadMessages
	}

	resp := conversation.HistoryResponse{
		Sender:   senderName,
		Messages: make([]conversation.MessageResponse, 0, len(messages)),
		Text:     FormatHistory(senderName, messages, s.location),
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, conversation.NewMessageResponse(msg))
	}

	return resp, nil
}

func (s *conversationService) Sentiment(ctx context.Context, req conversation.SentimentRequest) (conversation.SentimentResponse, error) {
	sentiment, err := s.llm.AnalyzeSentiment(ctx, req.Message)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Sentiment analysis failed")
		return conversation.SentimentResponse{}, conversation.ErrSentiment
	}

	return conversation.SentimentResponse{Sentiment: sentiment}, nil
}

// GroupMessages splits messages into windows separated by more than GroupGap.
func GroupMessages(messages []entity.ClassifiedMessage) []entity.MessageGroup {
	windows := utils.GroupByGap(messages, func(m entity.ClassifiedMessage) time.Time {
		return m.SentAt
	}, GroupGap)

	groups := make([]entity.MessageGroup, 0, len(windows))
	for _, window := range windows {
		groups = append(groups, entity.MessageGroup{
			StartTime:    window[0].SentAt,
			EndTime:      window[len(window)-1].SentAt,
			MessageCount: len(window),
			Messages:     window,
		})
	}
	return groups
}

// FormatHistory renders messages the way the bot replies to !meuhistorico.
func FormatHistory(senderName string, messages []entity.ClassifiedMessage, loc *time.Location) string {
	if len(messages) == 0 {
		return "Nenhuma mensagem encontrada para " + senderName
	}
	if loc == nil {
		loc = time.Local
	}

	entries := make([]string, 0, len(messages))
	for _, msg := range messages {
		body := msg.Body
		if body == "" {
			body = "Sem conteúdo"
		}
		entries = append(entries, "📅 "+msg.SentAt.In(loc).Format(historyDateLayout)+"\n💬 "+body)
	}

	return "📋 *Histórico de mensagens de " + senderName + "*\n\n" + strings.Join(entries, "\n\n")
}

func makeGroupResponses(groups []entity.MessageGroup) []conversation.GroupResponse {
	out := make([]conversation.GroupResponse, 0, len(groups))
	for _, group := range groups {
		messages := make([]conversation.MessageResponse, 0, len(group.Messages))
		for _, msg := range group.Messages {
			messages = append(messages, conversation.NewMessageResponse(msg))
		}
		out = append(out, conversation.GroupResponse{
			StartTime:    group.StartTime,
			EndTime:      group.EndTime,
			MessageCount: group.MessageCount,
			Messages:     messages,
		})
	}
	return out
}
