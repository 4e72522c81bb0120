// Package bot reacts to WhatsApp group traffic: it records every message,
// runs the "!" commands and answers mentions.
package bot

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/conversation"
	"MaxBot/internal/entity"
	"MaxBot/pkg/whatsapp"
)

type Sender interface {
	SendText(ctx context.Context, chatJID, text string) error
	Reply(ctx context.Context, to whatsapp.IncomingMessage, text string) error
}

type Conversations interface {
	Record(ctx context.Context, msg entity.Message) (entity.ClassifiedMessage, error)
	History(ctx context.Context, senderName string) (conversation.HistoryResponse, error)
}

type Config struct {
	// GroupJID restricts the bot to one chat. Empty means every group.
	GroupJID string
	Location *time.Location
	// PartDelay spaces out the parts of a long reply.
	PartDelay time.Duration
}

type Bot struct {
	log           *logrus.Logger
	sender        Sender
	conversations Conversations
	responder     *Responder
	config        Config
	now           func() time.Time
}

func New(log *logrus.Logger, sender Sender, conversations Conversations, responder *Responder, config Config) *Bot {
	if config.Location == nil {
		config.Location = time.Local
	}

	return &Bot{
		log:           log,
		sender:        sender,
		conversations: conversations,
		responder:     responder,
		config:        config,
		now:           time.Now,
	}
}

func (b *Bot) watching(chatJID string, isGroup bool) bool {
	if b.config.GroupJID != "" {
		return chatJID == b.config.GroupJID
	}
	return isGroup
}

func (b *Bot) OnMessage(ctx context.Context, msg whatsapp.IncomingMessage) {
	if msg.IsFromMe || !b.watching(msg.ChatJID, msg.IsGroup) {
		return
	}

	b.record(ctx, msg)
	b.runCommands(ctx, msg)

	if reply, ok := b.responder.Respond(ctx, msg.Body); ok {
		b.reply(ctx, msg, reply)
	}
}

func (b *Bot) OnGroupChange(ctx context.Context, change whatsapp.GroupChange) {
	if !b.watching(change.ChatJID, true) {
		return
	}

	for _, member := range change.Joined {
		b.send(ctx, change.ChatJID, "Bem-vindo(a) ao grupo, "+member+"!")
	}
	for _, member := range change.Left {
		b.send(ctx, change.ChatJID, "Até logo, "+member+"!")
	}
}

func (b *Bot) record(ctx context.Context, msg whatsapp.IncomingMessage) {
	_, err := b.conversations.Record(ctx, entity.Message{
		ExternalID:   msg.ID,
		Body:         msg.Body,
		Type:         msg.Type,
		SentAt:       msg.Timestamp,
		SenderName:   msg.SenderName,
		SenderNumber: msg.SenderNumber,
		SenderID:     msg.SenderJID,
		ChatID:       msg.ChatJID,
		ChatName:     msg.ChatName,
		IsGroup:      msg.IsGroup,
	})
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"message_id": msg.ID,
			"error":      err.Error(),
		}).Warn("Failed to record message")
	}
}

func (b *Bot) reply(ctx context.Context, to whatsapp.IncomingMessage, text string) {
	if err := b.sender.Reply(ctx, to, text); err != nil {
		b.log.WithFields(logrus.Fields{
			"chat":  to.ChatJID,
			"error": err.Error(),
		}).Error("Failed to send reply")
	}
}

func (b *Bot) send(ctx context.Context, chatJID, text string) {
	if err := b.sender.SendText(ctx, chatJID, text); err != nil {
		b.log.WithFields(logrus.Fields{
			"chat":  chatJID,
			"error": err.Error(),
		}).Error("Failed to send message")
	}
}
