package entity

import "time"

// Message is the single normalized shape every incoming chat message is
// stored in, whatever channel it arrived from.
type Message struct {
	ID                string    `db:"id"`
	ExternalID        string    `db:"external_id"`
	Body              string    `db:"body"`
	Type              string    `db:"message_type"`
	SentAt            time.Time `db:"sent_at"`
	SenderName        string    `db:"sender_name"`
	SenderNumber      string    `db:"sender_number"`
	SenderID          string    `db:"sender_id"`
	ChatID            string    `db:"chat_id"`
	ChatName          string    `db:"chat_name"`
	IsGroup           bool      `db:"is_group"`
	ParticipantsCount int       `db:"participants_count"`
}

type Classification struct {
	Category   string `db:"category"`
	Confidence int    `db:"confidence"`
}

type ClassifiedMessage struct {
	Message
	Classification
	CreatedAt time.Time `db:"created_at"`
}

// MessageGroup is a run of messages with no gap above the grouping window.
type MessageGroup struct {
	StartTime    time.Time
	EndTime      time.Time
	MessageCount int
	Messages     []ClassifiedMessage
}
