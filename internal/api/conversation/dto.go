package conversation

import (
	"time"

	"MaxBot/internal/entity"
	"MaxBot/pkg/llm"
)

type RecordMessageRequest struct {
	ExternalID        string    `json:"external_id" validate:"omitempty,max=128"`
	Body              string    `json:"body" validate:"required,max=4096"`
	Type              string    `json:"type" validate:"omitempty,max=32"`
	SentAt            time.Time `json:"sent_at" validate:"required"`
	SenderName        string    `json:"sender_name" validate:"required,max=128"`
	SenderNumber      string    `json:"sender_number" validate:"omitempty,max=32"`
	SenderID          string    `json:"sender_id" validate:"omitempty,max=128"`
	ChatID            string    `json:"chat_id" validate:"required,max=128"`
	ChatName          string    `json:"chat_name" validate:"omitempty,max=128"`
	IsGroup           bool      `json:"is_group"`
	ParticipantsCount int       `json:"participants_count" validate:"gte=0"`
}

type MessageResponse struct {
	ID           string    `json:"id"`
	Body         string    `json:"body"`
	Type         string    `json:"type"`
	SentAt       time.Time `json:"sent_at"`
	SenderName   string    `json:"sender_name"`
	SenderNumber string    `json:"sender_number,omitempty"`
	ChatID       string    `json:"chat_id"`
	ChatName     string    `json:"chat_name,omitempty"`
	Category     string    `json:"category"`
	Confidence   int       `json:"confidence"`
}

func NewMessageResponse(msg entity.ClassifiedMessage) MessageResponse {
	return MessageResponse{
		ID:           msg.ID,
		Body:         msg.Body,
		Type:         msg.Type,
		SentAt:       msg.SentAt,
		SenderName:   msg.SenderName,
		SenderNumber: msg.SenderNumber,
		ChatID:       msg.ChatID,
		ChatName:     msg.ChatName,
		Category:     msg.Category,
		Confidence:   msg.Confidence,
	}
}

func (r RecordMessageRequest) Message() entity.Message {
	return entity.Message{
		ExternalID:        r.ExternalID,
		Body:              r.Body,
		Type:              r.Type,
		SentAt:            r.SentAt,
		SenderName:        r.SenderName,
		SenderNumber:      r.SenderNumber,
		SenderID:          r.SenderID,
		ChatID:            r.ChatID,
		ChatName:          r.ChatName,
		IsGroup:           r.IsGroup,
		ParticipantsCount: r.ParticipantsCount,
	}
}

type StatsResponse struct {
	TotalMessages int            `json:"total_messages"`
	CategoryCount map[string]int `json:"category_count"`
}

type GroupResponse struct {
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	MessageCount int               `json:"message_count"`
	Messages     []MessageResponse `json:"messages"`
}

type CategoryConversationsResponse struct {
	Category string          `json:"category"`
	Groups   []GroupResponse `json:"groups"`
}

type HistoryResponse struct {
	Sender   string            `json:"sender"`
	Messages []MessageResponse `json:"messages"`
	Text     string            `json:"text"`
}

type ConversationLine struct {
	Usuario   string    `json:"usuario" validate:"required"`
	Mensagem  string    `json:"mensagem" validate:"required"`
	HoraEnvio time.Time `json:"hora_envio" validate:"required"`
}

type AnswerRequest struct {
	Conversa []ConversationLine `json:"conversa" validate:"required,min=1,dive"`
	Pergunta string             `json:"pergunta" validate:"required,max=1024"`
}

type AnswerResponse struct {
	Resposta string `json:"resposta"`
}

type SentimentRequest struct {
	Message string `json:"message" validate:"required,max=4096"`
}

type SentimentResponse struct {
	Sentiment llm.Sentiment `json:"sentiment"`
}

type ExportResponse struct {
	Location string    `json:"location"`
	Exported int       `json:"exported"`
	At       time.Time `json:"at"`
}

// Snapshot is the organised view of every stored message: totals plus the
// messages of each category split into time windows.
type Snapshot struct {
	LastUpdate    time.Time                  `json:"last_update"`
	Statistics    StatsResponse              `json:"statistics"`
	Conversations map[string][]GroupResponse `json:"conversations"`
}
