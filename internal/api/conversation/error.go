package conversation

import "MaxBot/pkg/response"

var (
	ErrInvalidMessage      = response.NewError(400, "message body, sender, chat and send time are required")
	ErrInvalidCategory     = response.NewError(400, "invalid category")
	ErrInvalidConversation = response.NewError(400, "Formato inválido. É necessário fornecer um array de conversas e uma pergunta.")
	ErrStoreMessage        = response.NewError(500, "failed to store message")
	ErrReadMessages        = response.NewError(500, "failed to read messages")
	ErrAnswer              = response.NewError(502, "failed to generate an answer")
	ErrSentiment           = response.NewError(502, "failed to analyze sentiment")
	ErrExportUnavailable   = response.NewError(503, "export storage is not configured")
	ErrExport              = response.NewError(500, "failed to export conversations")
)
