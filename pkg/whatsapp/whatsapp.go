package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"MaxBot/database/postgres"
)

var ErrNotConnected = errors.New("whatsapp client is not connected")

// IncomingMessage is a text message with the whatsmeow specifics stripped.
type IncomingMessage struct {
	ID           string
	ChatJID      string
	ChatName     string
	SenderJID    string
	SenderNumber string
	SenderName   string
	Body         string
	Type         string
	Timestamp    time.Time
	IsGroup      bool
	IsFromMe     bool
}

type GroupChange struct {
	ChatJID string
	Joined  []string
	Left    []string
}

type Handler interface {
	OnMessage(ctx context.Context, msg IncomingMessage)
	OnGroupChange(ctx context.Context, change GroupChange)
}

type IWhatsapp interface {
	SendText(ctx context.Context, chatJID, text string) error
	Reply(ctx context.Context, to IncomingMessage, text string) error
	SetHandler(h Handler)
	QRCode() string
	IsConnected() bool
	Disconnect() error
}

type Config struct {
	// ChatNames labels chats by JID, since events only carry the JID.
	ChatNames map[string]string
}

type whatsappClient struct {
	client *whatsmeow.Client
	log    *logrus.Logger
	config Config

	mu      sync.RWMutex
	handler Handler
	qrCode  string
}

func New(ctx context.Context, log *logrus.Logger, config Config) (IWhatsapp, error) {
	container, err := sqlstore.New(ctx, "postgres", postgres.FormatDSN(), NewLogger(log, "Database"))
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	w := &whatsappClient{
		client: whatsmeow.NewClient(deviceStore, NewLogger(log, "Client")),
		log:    log,
		config: config,
	}
	w.client.AddEventHandler(w.handleEvent)

	if w.client.Store.ID == nil {
		qrChan, err := w.client.GetQRChannel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open QR channel: %w", err)
		}
		go w.watchQR(qrChan)
	}

	if err := w.client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return w, nil
}

func (w *whatsappClient) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case whatsmeow.QRChannelEventCode:
			w.mu.Lock()
			w.qrCode = evt.Code
			w.mu.Unlock()
			w.log.Info("New WhatsApp pairing code available at /qr")
		case whatsmeow.QRChannelSuccess.Event:
			w.mu.Lock()
			w.qrCode = ""
			w.mu.Unlock()
			w.log.Info("WhatsApp device paired")
		default:
			w.log.WithField("event", evt.Event).Warn("WhatsApp pairing event")
		}
	}
}

func (w *whatsappClient) SetHandler(h Handler) {
	w.mu.Lock()
	w.handler = h
	w.mu.Unlock()
}

func (w *whatsappClient) QRCode() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.qrCode
}

func (w *whatsappClient) handleEvent(evt interface{}) {
	w.mu.RLock()
	h := w.handler
	w.mu.RUnlock()

	switch v := evt.(type) {
	case *events.Connected:
		w.log.Info("WhatsApp connected")
	case *events.Disconnected:
		w.log.Warn("WhatsApp disconnected")
	case *events.Message:
		if h == nil {
			return
		}
		msg, ok := toIncoming(v, w.config.ChatNames)
		if !ok {
			return
		}
		go h.OnMessage(context.Background(), msg)
	case *events.GroupInfo:
		if h == nil || (len(v.Join) == 0 && len(v.Leave) == 0) {
			return
		}
		go h.OnGroupChange(context.Background(), toGroupChange(v))
	}
}

func (w *whatsappClient) SendText(ctx context.Context, chatJID, text string) error {
	jid, err := types.ParseJID(chatJID)
	if err != nil {
		return fmt.Errorf("invalid chat %q: %w", chatJID, err)
	}
	if !w.client.IsConnected() {
		return ErrNotConnected
	}

	if _, err := w.client.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (w *whatsappClient) Reply(ctx context.Context, to IncomingMessage, text string) error {
	jid, err := types.ParseJID(to.ChatJID)
	if err != nil {
		return fmt.Errorf("invalid chat %q: %w", to.ChatJID, err)
	}
	if !w.client.IsConnected() {
		return ErrNotConnected
	}

	if _, err := w.client.SendMessage(ctx, jid, quoteReply(to, text)); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (w *whatsappClient) IsConnected() bool {
	return w.client.IsConnected()
}

func (w *whatsappClient) Disconnect() error {
	w.client.Disconnect()
	return nil
}

func toIncoming(evt *events.Message, chatNames map[string]string) (IncomingMessage, bool) {
	body := strings.TrimSpace(messageText(evt.Message))
	if body == "" {
		return IncomingMessage{}, false
	}

	chat := evt.Info.Chat.String()
	name := chatNames[chat]
	if name == "" {
		name = chat
	}

	sender := evt.Info.PushName
	if sender == "" {
		sender = evt.Info.Sender.User
	}

	return IncomingMessage{
		ID:           evt.Info.ID,
		ChatJID:      chat,
		ChatName:     name,
		SenderJID:    evt.Info.Sender.ToNonAD().String(),
		SenderNumber: evt.Info.Sender.User,
		SenderName:   sender,
		Body:         body,
		Type:         "chat",
		Timestamp:    evt.Info.Timestamp,
		IsGroup:      evt.Info.IsGroup,
		IsFromMe:     evt.Info.IsFromMe,
	}, true
}

// messageText returns the text of plain and extended text messages only;
// media and other payloads yield "".
func messageText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if text := msg.GetConversation(); text != "" {
		return text
	}
	return msg.GetExtendedTextMessage().GetText()
}

func toGroupChange(evt *events.GroupInfo) GroupChange {
	change := GroupChange{ChatJID: evt.JID.String()}
	for _, jid := range evt.Join {
		change.Joined = append(change.Joined, jid.User)
	}
	for _, jid := range evt.Leave {
		change.Left = append(change.Left, jid.User)
	}
	return change
}

func quoteReply(to IncomingMessage, text string) *waE2E.Message {
	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text: proto.String(text),
			ContextInfo: &waE2E.ContextInfo{
				StanzaID:      proto.String(to.ID),
				Participant:   proto.String(to.SenderJID),
				QuotedMessage: &waE2E.Message{Conversation: proto.String(to.Body)},
			},
		},
	}
}
