package classification

import (
	"time"

	"MaxBot/pkg/classifier"
)

type ClassifyMessageRequest struct {
	Message string `json:"message" validate:"required,max=4096"`
}

type ClassifyMessageResponse struct {
	Category   classifier.Category `json:"category"`
	Confidence int                 `json:"confidence"`
	Response   string              `json:"response"`
}

type TestClassifierRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type AddExampleRequest struct {
	Text     string `json:"text" validate:"required,max=4096"`
	Category string `json:"category" validate:"required,oneof=work local_suggestions general_questions other"`
}

type ExampleResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ExampleListResponse struct {
	Examples []ExampleResponse `json:"examples"`
	Total    int               `json:"total"`
}

type RetrainResponse struct {
	Examples int              `json:"examples"`
	Stats    classifier.Stats `json:"stats"`
}
