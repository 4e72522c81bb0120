package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"MaxBot/pkg/utils"
	"MaxBot/pkg/whatsapp"
)

const (
	maxPartLength = 1000

	replyHistoryFailed = "❌ Desculpe, ocorreu um erro ao buscar seu histórico."
)

type command struct {
	name string
	run  func(ctx context.Context, msg whatsapp.IncomingMessage)
}

// commands are matched as case-insensitive substrings, so one message may
// trigger several of them.
func (b *Bot) commands() []command {
	return []command{
		{name: "!ping", run: func(ctx context.Context, msg whatsapp.IncomingMessage) {
			b.reply(ctx, msg, "Pong! 🏓 (Respondendo para "+msg.SenderName+")")
		}},
		{name: "!help", run: func(ctx context.Context, msg whatsapp.IncomingMessage) {
			b.reply(ctx, msg, HelpText(msg.SenderName))
		}},
		{name: "!hora", run: func(ctx context.Context, msg whatsapp.IncomingMessage) {
			b.reply(ctx, msg, "Hora atual: "+b.now().In(b.config.Location).Format("15:04:05"))
		}},
		{name: "!dados", run: func(ctx context.Context, msg whatsapp.IncomingMessage) {
			b.reply(ctx, msg, GroupDataText(msg))
		}},
		{name: "!meusdados", run: func(ctx context.Context, msg whatsapp.IncomingMessage) {
			b.reply(ctx, msg, "Seus Dados:\nNome: "+msg.SenderName+"\nNúmero: "+msg.SenderNumber+"\nID: "+msg.SenderNumber)
		}},
		{name: "!msginfo", run: func(ctx context.Context, msg whatsapp.IncomingMessage) {
			b.reply(ctx, msg, MessageInfoText(msg, b.config.Location))
		}},
		{name: "!meuhistorico", run: b.sendHistory},
	}
}

func (b *Bot) runCommands(ctx context.Context, msg whatsapp.IncomingMessage) {
	lower := strings.ToLower(msg.Body)
	for _, cmd := range b.commands() {
		if strings.Contains(lower, cmd.name) {
			cmd.run(ctx, msg)
		}
	}
}

func (b *Bot) sendHistory(ctx context.Context, msg whatsapp.IncomingMessage) {
	history, err := b.conversations.History(ctx, msg.SenderName)
	if err != nil {
		b.log.WithField("error", err.Error()).Error("Failed to load history")
		b.reply(ctx, msg, replyHistoryFailed)
		return
	}

	parts := utils.SplitText(history.Text, maxPartLength)
	for i, part := range parts {
		if i > 0 && b.config.PartDelay > 0 {
			timer := time.NewTimer(b.config.PartDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		b.reply(ctx, msg, part)
	}
}

func HelpText(name string) string {
	return "Olá " + name + "! Comandos disponíveis:\n" +
		"!ping - Responde com Pong\n" +
		"!hora - Mostra a hora atual\n" +
		"!dados - Mostra informações básicas do grupo\n" +
		"!meusdados - Mostra suas informações\n" +
		"!msginfo - Mostra informações da mensagem\n" +
		"!meuhistorico - Mostra Historico do usuário"
}

// GroupDataText reports the participant count as unknown; message events do
// not carry group metadata.
func GroupDataText(msg whatsapp.IncomingMessage) string {
	return "Informações do Grupo:\nNome: " + msg.ChatName + "\nParticipantes: Desconhecido"
}

func MessageInfoText(msg whatsapp.IncomingMessage, loc *time.Location) string {
	return "Informações da Mensagem:\n" +
		"Remetente: " + msg.SenderName + "\n" +
		"Data de Envio: " + msg.Timestamp.In(loc).Format("02/01/2006 15:04:05") + "\n" +
		"Timestamp: " + strconv.FormatInt(msg.Timestamp.Unix(), 10) + "\n" +
		"Tipo de Mensagem: " + msg.Type + "\n" +
		"ID da Mensagem: " + msg.ID
}
