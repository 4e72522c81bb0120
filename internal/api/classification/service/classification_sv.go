package classificationService

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/classification"
	"MaxBot/internal/entity"
	"MaxBot/pkg/classifier"
	contextPkg "MaxBot/pkg/context"
	"MaxBot/pkg/corpus"
	"MaxBot/pkg/llm"
)

const (
	replyNoPlaces     = "Desculpe, não encontrei lugares correspondentes à sua busca."
	replyPlacesFailed = "Desculpe, não foi possível buscar locais neste momento."
	replyAnswerFailed = "Desculpe, não foi possível gerar uma resposta neste momento."
	replyWork         = "Mensagem classificada como trabalho. Nenhuma consulta externa necessária."
	replyOther        = "Mensagem classificada como outros. Nenhuma consulta externa necessária."
)

func (s *classificationService) ClassifyMessage(ctx context.Context, req classification.ClassifyMessageRequest) (classification.ClassifyMessageResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	result, err := s.classifier.Classify(req.Message)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to classify message")
		return classification.ClassifyMessageResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"category":   result.Category,
		"confidence": result.Confidence,
	}).Debug("Message classified")

	return classification.ClassifyMessageResponse{
		Category:   result.Category,
		Confidence: result.Confidence,
		Response:   s.respond(ctx, result.Category, req.Message),
	}, nil
}

// respond never fails: lookup and generation errors degrade to an apology
// sentence so the caller always gets a category back.
func (s *classificationService) respond(ctx context.Context, category classifier.Category, message string) string {
	requestID := contextPkg.GetRequestID(ctx)

	switch category {
	case classifier.CategoryLocalSuggestions:
		found, err := s.places.Search(ctx, message)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Places lookup failed")
			return replyPlacesFailed
		}
		if len(found) == 0 {
			return replyNoPlaces
		}
		first := found[0]
		return formatSuggestion(first.Name, first.Rating, first.Address)

	case classifier.CategoryGeneralQuestions:
		answer, err := s.llm.GenerateAnswer(ctx, llm.ContextEducational, message)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Answer generation failed")
			return replyAnswerFailed
		}
		return answer

	case classifier.CategoryWork:
		return replyWork

	default:
		return replyOther
	}
}

func formatSuggestion(name string, rating float64, address string) string {
	return "Sugestão: " + name + " - Nota " + strconv.FormatFloat(rating, 'f', -1, 64) + ", localizado em " + address
}

func (s *classificationService) Explain(ctx context.Context, req classification.TestClassifierRequest) (classifier.Explanation, error) {
	explanation, err := s.classifier.Explain(req.Text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to explain classification")
		return classifier.Explanation{}, err
	}
	return explanation, nil
}

func (s *classificationService) AddExample(ctx context.Context, req classification.AddExampleRequest) (classification.ExampleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	category, err := classifier.ParseCategory(req.Category)
	if err != nil {
		return classification.ExampleResponse{}, classification.ErrInvalidCategory
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return classification.ExampleResponse{}, err
	}

	example := entity.TrainingExample{
		ID:        id,
		Text:      strings.TrimSpace(req.Text),
		Category:  category.String(),
		CreatedBy: contextPkg.GetOperator(ctx),
		CreatedAt: time.Now().UTC(),
	}

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return classification.ExampleResponse{}, err
	}
	defer repo.Rollback()

	if err := repo.Examples.CreateExample(ctx, example); err != nil {
		return classification.ExampleResponse{}, classification.ErrCreateExample
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return classification.ExampleResponse{}, classification.ErrCreateExample
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"example_id": example.ID,
		"category":   example.Category,
	}).Info("Training example stored")

	return makeExampleResponse(example), nil
}

func (s *classificationService) ListExamples(ctx context.Context) (classification.ExampleListResponse, error) {
	examples, err := s.storedExamples(ctx)
	if err != nil {
		return classification.ExampleListResponse{}, classification.ErrListExamples
	}

	resp := classification.ExampleListResponse{
		Examples: make([]classification.ExampleResponse, 0, len(examples)),
		Total:    len(examples),
	}
	for _, example := range examples {
		resp.Examples = append(resp.Examples, makeExampleResponse(example))
	}

	return resp, nil
}

// Retrain rebuilds the model from the corpus plus every stored example.
// Stored examples whose category is no longer known are skipped so one bad
// row cannot block a rebuild.
func (s *classificationService) Retrain(ctx context.Context) (classification.RetrainResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	stored, err := s.storedExamples(ctx)
	if err != nil {
		return classification.RetrainResponse{}, classification.ErrRetrain
	}

	extra := make([]classifier.Example, 0, len(stored))
	for _, example := range stored {
		category, err := classifier.ParseCategory(example.Category)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"example_id": example.ID,
				"category":   example.Category,
			}).Warn("Skipping stored example with unknown category")
			continue
		}
		extra = append(extra, classifier.Example{Text: example.Text, Category: category})
	}

	examples := corpus.Merge(s.corpus.Load(), extra)
	if err := s.classifier.Train(examples); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to retrain classifier")
		return classification.RetrainResponse{}, classification.ErrRetrain
	}

	stats := s.classifier.Stats()
	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"examples":   len(examples),
		"vocabulary": stats.Vocabulary,
	}).Info("Classifier retrained")

	return classification.RetrainResponse{Examples: len(examples), Stats: stats}, nil
}

func (s *classificationService) storedExamples(ctx context.Context) ([]entity.TrainingExample, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	return repo.Examples.ListExamples(ctx)
}

func makeExampleResponse(example entity.TrainingExample) classification.ExampleResponse {
	return classification.ExampleResponse{
		ID:        example.ID,
		Text:      example.Text,
		Category:  example.Category,
		CreatedBy: example.CreatedBy,
		CreatedAt: example.CreatedAt,
	}
}
