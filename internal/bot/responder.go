package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"MaxBot/pkg/classifier"
	"MaxBot/pkg/llm"
	"MaxBot/pkg/places"
)

const (
	DefaultMention = "@MaxBot"

	replyGreeting      = "Olá! Como posso ajudar?"
	replyNoPlaces      = "Desculpe, não encontrei lugares correspondentes à sua busca."
	replyPlacesFailed  = "Desculpe, ocorreu um erro ao buscar locais."
	replyAnswerFailed  = "Desculpe, ocorreu um erro ao gerar uma resposta."
	replyProcessFailed = "Desculpe, ocorreu um erro ao processar sua solicitação."
)

type Classifier interface {
	Classify(text string) (classifier.Result, error)
}

// Responder answers messages addressed to the bot.
type Responder struct {
	log        *logrus.Logger
	classifier Classifier
	places     places.IPlaces
	llm        llm.ILLM
	mentions   []string
}

// NewResponder keeps the non-empty mentions; with none left it falls back to
// DefaultMention.
func NewResponder(log *logrus.Logger, c Classifier, placesClient places.IPlaces, llmClient llm.ILLM, mentions ...string) *Responder {
	r := &Responder{
		log:        log,
		classifier: c,
		places:     placesClient,
		llm:        llmClient,
	}

	for _, m := range mentions {
		if m = strings.TrimSpace(m); m != "" {
			r.mentions = append(r.mentions, m)
		}
	}
	if len(r.mentions) == 0 {
		r.mentions = []string{DefaultMention}
	}

	return r
}

func (r *Responder) Mentions() []string {
	return append([]string(nil), r.mentions...)
}

func (r *Responder) IsMention(text string) bool {
	for _, m := range r.mentions {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ExtractQuestion strips the first occurrence of every mention.
func (r *Responder) ExtractQuestion(text string) string {
	question := text
	for _, m := range r.mentions {
		question = strings.TrimSpace(strings.Replace(question, m, "", 1))
	}
	return question
}

// Respond returns the reply to a mention, or false when text does not
// address the bot.
func (r *Responder) Respond(ctx context.Context, text string) (string, bool) {
	if !r.IsMention(text) {
		return "", false
	}
	return r.Answer(ctx, r.ExtractQuestion(text)), true
}

// Answer classifies question and routes it: place lookups for local
// suggestions, the language model with a category context otherwise.
func (r *Responder) Answer(ctx context.Context, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return replyGreeting
	}

	result, err := r.classifier.Classify(question)
	if err != nil {
		r.log.WithField("error", err.Error()).Error("Failed to classify mention")
		return replyProcessFailed
	}

	r.log.WithFields(logrus.Fields{
		"category":   result.Category,
		"confidence": result.Confidence,
	}).Debug("Mention classified")

	if result.Category == classifier.CategoryLocalSuggestions {
		return r.locationReply(ctx, question)
	}

	answer, err := r.llm.GenerateAnswer(ctx, ContextPrompt(result.Category), question)
	if err != nil {
		r.log.WithField("error", err.Error()).Error("Failed to generate answer")
		return replyAnswerFailed
	}
	return answer
}

func (r *Responder) locationReply(ctx context.Context, question string) string {
	found, err := r.places.Search(ctx, question)
	if err != nil {
		r.log.WithField("error", err.Error()).Error("Failed to search places")
		return replyPlacesFailed
	}
	if len(found) == 0 {
		return replyNoPlaces
	}
	return FormatPlaces(found)
}

func ContextPrompt(category classifier.Category) string {
	switch category {
	case classifier.CategoryWork:
		return llm.ContextWork
	case classifier.CategoryGeneralQuestions:
		return llm.ContextEducational
	default:
		return llm.ContextFriendly
	}
}

// FormatPlaces renders a numbered list; the rating line is left out for
// places without a rating.
func FormatPlaces(found []places.Place) string {
	var b strings.Builder
	b.WriteString("Encontrei estas opções para você:\n\n")

	for i, place := range found {
		b.WriteString(strconv.Itoa(i+1) + ". " + place.Name + "\n")
		b.WriteString("   Endereço: " + place.Address + "\n")
		if place.Rating > 0 {
			b.WriteString("   Avaliação: " + strconv.FormatFloat(place.Rating, 'f', -1, 64) +
				" ⭐ (" + strconv.Itoa(place.TotalRatings) + " avaliações)\n")
		}
		status := "Fechado"
		if place.OpenNow {
			status = "Aberto agora"
		}
		b.WriteString("   Status: " + status + "\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
