package classificationService

import (
	"context"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/classification"
	classificationRepository "MaxBot/internal/api/classification/repository"
	"MaxBot/pkg/classifier"
	"MaxBot/pkg/llm"
	"MaxBot/pkg/places"
	"MaxBot/pkg/utils"
)

type Classifier interface {
	Classify(text string) (classifier.Result, error)
	Explain(text string) (classifier.Explanation, error)
	Train(examples []classifier.Example) error
	Stats() classifier.Stats
}

// CorpusSource yields the file-based examples the model is rebuilt from.
type CorpusSource interface {
	Load() []classifier.Example
}

type IClassificationService interface {
	ClassifyMessage(ctx context.Context, req classification.ClassifyMessageRequest) (classification.ClassifyMessageResponse, error)
	Explain(ctx context.Context, req classification.TestClassifierRequest) (classifier.Explanation, error)
	AddExample(ctx context.Context, req classification.AddExampleRequest) (classification.ExampleResponse, error)
	ListExamples(ctx context.Context) (classification.ExampleListResponse, error)
	Retrain(ctx context.Context) (classification.RetrainResponse, error)
}

type classificationService struct {
	log        *logrus.Logger
	repo       classificationRepository.Repository
	classifier Classifier
	corpus     CorpusSource
	places     places.IPlaces
	llm        llm.ILLM
	utils      utils.IUtils
}

func New(
	log *logrus.Logger,
	repo classificationRepository.Repository,
	classifier Classifier,
	corpus CorpusSource,
	placesClient places.IPlaces,
	llmClient llm.ILLM,
	utils utils.IUtils,
) IClassificationService {
	return &classificationService{
		log:        log,
		repo:       repo,
		classifier: classifier,
		corpus:     corpus,
		places:     placesClient,
		llm:        llmClient,
		utils:      utils,
	}
}
