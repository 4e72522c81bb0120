package chat

import "MaxBot/pkg/response"

var (
	ErrEmptyMessage = response.NewError(400, "Mensagem não pode estar vazia")
)
