package classification

import "MaxBot/pkg/response"

var (
	ErrInvalidCategory = response.NewError(400, "invalid category")
	ErrCreateExample   = response.NewError(500, "failed to store training example")
	ErrListExamples    = response.NewError(500, "failed to list training examples")
	ErrRetrain         = response.NewError(500, "failed to retrain classifier")
)
