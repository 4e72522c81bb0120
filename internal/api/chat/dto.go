package chat

type ChatRequest struct {
	Message        string `json:"message" validate:"max=4096"`
	ConversationID string `json:"conversation_id" validate:"max=128"`
}

type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id,omitempty"`
}
