package classificationService

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaxBot/database/postgres"
	"MaxBot/internal/api/classification"
	classificationRepository "MaxBot/internal/api/classification/repository"
	"MaxBot/internal/entity"
	"MaxBot/pkg/classifier"
	contextPkg "MaxBot/pkg/context"
	"MaxBot/pkg/llm"
	"MaxBot/pkg/places"
	"MaxBot/pkg/utils"
)

type fakeClassifier struct {
	result  classifier.Result
	err     error
	trained []classifier.Example
}

func (f *fakeClassifier) Classify(string) (classifier.Result, error) {
	return f.result, f.err
}

func (f *fakeClassifier) Explain(string) (classifier.Explanation, error) {
	return classifier.Explanation{Result: f.result}, f.err
}

func (f *fakeClassifier) Train(examples []classifier.Example) error {
	f.trained = examples
	return nil
}

func (f *fakeClassifier) Stats() classifier.Stats {
	return classifier.Stats{Trained: true, Vocabulary: len(f.trained)}
}

type fakeCorpus []classifier.Example

func (f fakeCorpus) Load() []classifier.Example { return f }

type fakePlaces struct {
	found []places.Place
	err   error
}

func (f *fakePlaces) Search(context.Context, string) ([]places.Place, error) {
	return f.found, f.err
}

type fakeLLM struct {
	answer        string
	err           error
	contextPrompt string
}

func (f *fakeLLM) GenerateAnswer(_ context.Context, contextPrompt, _ string) (string, error) {
	f.contextPrompt = contextPrompt
	return f.answer, f.err
}

func (f *fakeLLM) AnalyzeSentiment(context.Context, string) (llm.Sentiment, error) {
	return llm.SentimentNeutral, nil
}

func (f *fakeLLM) RateRelevance(context.Context, string, string) (int, error) {
	return 0, nil
}

type fixture struct {
	svc        IClassificationService
	repo       classificationRepository.Repository
	classifier *fakeClassifier
	places     *fakePlaces
	llm        *fakeLLM
}

func newFixture(t *testing.T, corpus fakeCorpus) *fixture {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, postgres.Migrate(context.Background(), db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		repo:       classificationRepository.New(db, log),
		classifier: &fakeClassifier{},
		places:     &fakePlaces{},
		llm:        &fakeLLM{},
	}
	f.svc = New(log, f.repo, f.classifier, corpus, f.places, f.llm, utils.New())
	return f
}

func TestClassifyMessage_Routing(t *testing.T) {
	tests := []struct {
		name     string
		category classifier.Category
		setup    func(f *fixture)
		want     string
	}{
		{
			name:     "local with result",
			category: classifier.CategoryLocalSuggestions,
			setup: func(f *fixture) {
				f.places.found = []places.Place{
					{Name: "Café Central", Rating: 4.5, Address: "Rua A, 10"},
					{Name: "Outro", Rating: 3},
				}
			},
			want: "Sugestão: Café Central - Nota 4.5, localizado em Rua A, 10",
		},
		{
			name:     "local without result",
			category: classifier.CategoryLocalSuggestions,
			want:     replyNoPlaces,
		},
		{
			name:     "local lookup failure",
			category: classifier.CategoryLocalSuggestions,
			setup:    func(f *fixture) { f.places.err = places.ErrSearchFailed },
			want:     replyPlacesFailed,
		},
		{
			name:     "general question",
			category: classifier.CategoryGeneralQuestions,
			setup:    func(f *fixture) { f.llm.answer = "A fotossíntese converte luz em energia." },
			want:     "A fotossíntese converte luz em energia.",
		},
		{
			name:     "general question failure",
			category: classifier.CategoryGeneralQuestions,
			setup:    func(f *fixture) { f.llm.err = errors.New("quota") },
			want:     replyAnswerFailed,
		},
		{name: "work", category: classifier.CategoryWork, want: replyWork},
		{name: "other", category: classifier.CategoryOther, want: replyOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.classifier.result = classifier.Result{Category: tt.category, Confidence: 72}
			if tt.setup != nil {
				tt.setup(f)
			}

			resp, err := f.svc.ClassifyMessage(context.Background(), classification.ClassifyMessageRequest{Message: "mensagem"})
			require.NoError(t, err)
			assert.Equal(t, tt.category, resp.Category)
			assert.Equal(t, 72, resp.Confidence)
			assert.Equal(t, tt.want, resp.Response)
		})
	}
}

func TestClassifyMessage_GeneralUsesEducationalContext(t *testing.T) {
	f := newFixture(t, nil)
	f.classifier.result = classifier.Result{Category: classifier.CategoryGeneralQuestions, Confidence: 60}
	f.llm.answer = "ok"

	_, err := f.svc.ClassifyMessage(context.Background(), classification.ClassifyMessageRequest{Message: "Como funciona?"})
	require.NoError(t, err)
	assert.Equal(t, llm.ContextEducational, f.llm.contextPrompt)
}

func TestClassifyMessage_NotTrained(t *testing.T) {
	f := newFixture(t, nil)
	f.classifier.err = classifier.ErrNotTrained

	_, err := f.svc.ClassifyMessage(context.Background(), classification.ClassifyMessageRequest{Message: "oi"})
	assert.ErrorIs(t, err, classifier.ErrNotTrained)
}

func TestAddExample(t *testing.T) {
	f := newFixture(t, nil)
	ctx := contextPkg.WithOperator(context.Background(), "op-7")

	_, err := f.svc.AddExample(ctx, classification.AddExampleRequest{Text: "x", Category: "sports"})
	assert.ErrorIs(t, err, classification.ErrInvalidCategory)

	created, err := f.svc.AddExample(ctx, classification.AddExampleRequest{Text: "  reunião de alinhamento  ", Category: "WORK"})
	require.NoError(t, err)
	assert.Len(t, created.ID, 26)
	assert.Equal(t, "reunião de alinhamento", created.Text)
	assert.Equal(t, "work", created.Category)
	assert.Equal(t, "op-7", created.CreatedBy)

	list, err := f.svc.ListExamples(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Examples[0].ID)
}

func TestRetrain_MergesCorpusAndStoredExamples(t *testing.T) {
	corpus := fakeCorpus{
		{Text: "relatório semanal", Category: classifier.CategoryWork},
		{Text: "bom dia pessoal", Category: classifier.CategoryOther},
	}
	f := newFixture(t, corpus)
	ctx := context.Background()

	client, err := f.repo.NewClient(false)
	require.NoError(t, err)
	require.NoError(t, client.Examples.CreateExample(ctx, entity.TrainingExample{
		ID: "01", Text: "farmácia aberta agora", Category: "local_suggestions", CreatedAt: time.Now(),
	}))
	require.NoError(t, client.Examples.CreateExample(ctx, entity.TrainingExample{
		ID: "02", Text: "legado", Category: "sports", CreatedAt: time.Now().Add(time.Second),
	}))

	resp, err := f.svc.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Examples)
	assert.True(t, resp.Stats.Trained)

	require.Len(t, f.classifier.trained, 3)
	assert.Equal(t, corpus[0], f.classifier.trained[0])
	assert.Equal(t, classifier.Example{Text: "farmácia aberta agora", Category: classifier.CategoryLocalSuggestions}, f.classifier.trained[2])
}
