package classificationHandler

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaxBot/internal/api/classification"
	"MaxBot/internal/entity"
	"MaxBot/internal/middleware"
	"MaxBot/pkg/classifier"
	contextPkg "MaxBot/pkg/context"
	jwtPkg "MaxBot/pkg/jwt"
)

type fakeService struct {
	classifyErr error
	operator    string
	added       classification.AddExampleRequest
}

func (f *fakeService) ClassifyMessage(_ context.Context, req classification.ClassifyMessageRequest) (classification.ClassifyMessageResponse, error) {
	if f.classifyErr != nil {
		return classification.ClassifyMessageResponse{}, f.classifyErr
	}
	return classification.ClassifyMessageResponse{
		Category:   classifier.CategoryWork,
		Confidence: 80,
		Response:   "Mensagem classificada como trabalho. Nenhuma consulta externa necessária.",
	}, nil
}

func (f *fakeService) Explain(_ context.Context, req classification.TestClassifierRequest) (classifier.Explanation, error) {
	return classifier.Explanation{Tokens: []string{req.Text}}, nil
}

func (f *fakeService) AddExample(ctx context.Context, req classification.AddExampleRequest) (classification.ExampleResponse, error) {
	f.operator = contextPkg.GetOperator(ctx)
	f.added = req
	return classification.ExampleResponse{ID: "01", Text: req.Text, Category: req.Category, CreatedBy: f.operator}, nil
}

func (f *fakeService) ListExamples(context.Context) (classification.ExampleListResponse, error) {
	return classification.ExampleListResponse{Examples: []classification.ExampleResponse{}}, nil
}

func (f *fakeService) Retrain(context.Context) (classification.RetrainResponse, error) {
	return classification.RetrainResponse{Examples: 140}, nil
}

func newTestApp(t *testing.T, svc *fakeService) *fiber.App {
	t.Helper()
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	log := logrus.New()
	log.SetOutput(io.Discard)

	mw := middleware.New(log)
	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(log, validator.New(), mw, svc).Start(app.Group("/api/v1"))
	return app
}

func operatorToken(t *testing.T) string {
	t.Helper()
	token, _, err := jwtPkg.SignOperator(entity.OperatorLoginData{ID: "op-1", Name: "Bia", Role: jwtPkg.RoleOperator}, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	_ = jsoniter.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestClassifyMessage(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/messages/classify", `{"message":"reunião amanhã"}`, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "work", body["category"])
	assert.EqualValues(t, 80, body["confidence"])
	assert.NotEmpty(t, body["response"])
}

func TestClassifyMessage_Validation(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/messages/classify", `{"message":""}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/messages/classify", `{not json`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestClassifyMessage_NotTrained(t *testing.T) {
	app := newTestApp(t, &fakeService{classifyErr: classifier.ErrNotTrained})

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/messages/classify", `{"message":"oi"}`, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "CLASSIFIER_NOT_READY", body["code"])
}

func TestOperatorRoutes_RequireToken(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	for _, route := range []struct{ method, path string }{
		{fiber.MethodPost, "/api/v1/classifier/test"},
		{fiber.MethodPost, "/api/v1/classifier/examples"},
		{fiber.MethodGet, "/api/v1/classifier/examples"},
		{fiber.MethodPost, "/api/v1/classifier/retrain"},
	} {
		status, _ := doJSON(t, app, route.method, route.path, `{}`, "")
		assert.Equal(t, fiber.StatusUnauthorized, status, route.path)
	}
}

func TestAddExample(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)
	token := operatorToken(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/classifier/examples", `{"text":"planilha de custos","category":"work"}`, token)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "op-1", body["created_by"])
	assert.Equal(t, "op-1", svc.operator)

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/classifier/examples", `{"text":"placar","category":"sports"}`, token)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestTestClassifierAndRetrain(t *testing.T) {
	app := newTestApp(t, &fakeService{})
	token := operatorToken(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/classifier/test", `{"text":"oi"}`, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{"oi"}, body["tokens"])

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/classifier/retrain", ``, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 140, body["examples"])

	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/classifier/examples", ``, token)
	assert.Equal(t, fiber.StatusOK, status)
}
