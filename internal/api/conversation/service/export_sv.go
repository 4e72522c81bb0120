package conversationService

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/conversation"
	"MaxBot/internal/entity"
	"MaxBot/pkg/classifier"
	contextPkg "MaxBot/pkg/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BuildSnapshot organises messages per category, each category split into
// time windows. Every known category is present, even when empty.
func BuildSnapshot(messages []entity.ClassifiedMessage, now time.Time) conversation.Snapshot {
	byCategory := make(map[string][]entity.ClassifiedMessage)
	for _, msg := range messages {
		byCategory[msg.Category] = append(byCategory[msg.Category], msg)
	}

	snapshot := conversation.Snapshot{
		LastUpdate: now.UTC(),
		Statistics: conversation.StatsResponse{
			TotalMessages: len(messages),
			CategoryCount: make(map[string]int),
		},
		Conversations: make(map[string][]conversation.GroupResponse),
	}

	for _, category := range classifier.Categories() {
		key := category.String()
		snapshot.Statistics.CategoryCount[key] = len(byCategory[key])
		snapshot.Conversations[key] = makeGroupResponses(GroupMessages(byCategory[key]))
	}

	return snapshot
}

func (s *conversationService) Export(ctx context.Context) (conversation.ExportResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.s3Client == nil {
		return conversation.ExportResponse{}, conversation.ErrExportUnavailable
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return conversation.ExportResponse{}, err
	}

	messages, err := repo.Messages.ListAll(ctx)
	if err != nil {
		return conversation.ExportResponse{}, conversation.ErrReadMessages
	}

	now := time.Now()
	payload, err := json.MarshalIndent(BuildSnapshot(messages, now), "", "  ")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode snapshot")
		return conversation.ExportResponse{}, conversation.ErrExport
	}

	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return conversation.ExportResponse{}, err
	}

	location, err := s.s3Client.UploadJSON(ctx, "snapshot-"+id+".json", payload)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload snapshot")
		return conversation.ExportResponse{}, conversation.ErrExport
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"location":   location,
		"messages":   len(messages),
	}).Info("Conversation snapshot exported")

	return conversation.ExportResponse{Location: location, Exported: len(messages), At: now.UTC()}, nil
}
