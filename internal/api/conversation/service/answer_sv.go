package conversationService

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"MaxBot/internal/api/conversation"
	contextPkg "MaxBot/pkg/context"
	"MaxBot/pkg/utils"
)

var hourPattern = regexp.MustCompile(`(?i)(?:(?:às|as)\s*)?(\d{1,2})(?:[:h]\s*)?(?:h(?:oras)?)?`)

type hourMention struct {
	hour    string
	usuario string
	at      time.Time
}

// Answer replies to a question about a supplied conversation. Meeting time
// questions are answered directly from the hours mentioned; anything else goes
// to the model with the most relevant stretch of the conversation as context.
func (s *conversationService) Answer(ctx context.Context, req conversation.AnswerRequest) (conversation.AnswerResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	question := strings.TrimSpace(req.Pergunta)
	if len(req.Conversa) == 0 || question == "" {
		return conversation.AnswerResponse{}, conversation.ErrInvalidConversation
	}

	if reply, ok := MeetingTime(req.Conversa, question); ok {
		return conversation.AnswerResponse{Resposta: reply}, nil
	}

	groups := utils.GroupByGap(req.Conversa, func(line conversation.ConversationLine) time.Time {
		return line.HoraEnvio
	}, GroupGap)

	group := s.mostRelevant(ctx, groups, question)

	answer, err := s.llm.GenerateAnswer(ctx, AnswerPrompt(group, question), question)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to answer conversation question")
		return conversation.AnswerResponse{}, conversation.ErrAnswer
	}

	return conversation.AnswerResponse{Resposta: answer}, nil
}

// MeetingTime answers "what time is the meeting" questions with the hour from
// the most recent message that mentions one, credited to whoever mentioned an
// hour first.
func MeetingTime(lines []conversation.ConversationLine, question string) (string, bool) {
	lower := strings.ToLower(question)
	if !strings.Contains(lower, "hora") || !strings.Contains(lower, "reuni") {
		return "", false
	}

	var mentions []hourMention
	for _, line := range lines {
		match := hourPattern.FindStringSubmatch(line.Mensagem)
		if match == nil {
			continue
		}
		mentions = append(mentions, hourMention{hour: match[1], usuario: line.Usuario, at: line.HoraEnvio})
	}
	if len(mentions) == 0 {
		return "", false
	}

	latest, earliest := mentions[0], mentions[0]
	for _, m := range mentions[1:] {
		if m.at.After(latest.at) {
			latest = m
		}
		if m.at.Before(earliest.at) {
			earliest = m
		}
	}

	return fmt.Sprintf("A reunião será às %sh, conforme sugerido por %s.", latest.hour, earliest.usuario), true
}

// mostRelevant rates every group concurrently and keeps the best; the earlier
// group wins ties and a failed rating counts as zero.
func (s *conversationService) mostRelevant(ctx context.Context, groups [][]conversation.ConversationLine, question string) []conversation.ConversationLine {
	if len(groups) == 1 {
		return groups[0]
	}

	scores := make([]int, len(groups))
	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group []conversation.ConversationLine) {
			defer wg.Done()

			excerpt := make([]string, 0, len(group))
			for _, line := range group {
				excerpt = append(excerpt, line.Mensagem)
			}

			score, err := s.llm.RateRelevance(ctx, question, strings.Join(excerpt, " "))
			if err != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": contextPkg.GetRequestID(ctx),
					"group":      i,
					"error":      err.Error(),
				}).Warn("Relevance rating failed")
				return
			}
			scores[i] = score
		}(i, group)
	}
	wg.Wait()

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return groups[best]
}

func AnswerPrompt(lines []conversation.ConversationLine, question string) string {
	transcript := make([]string, 0, len(lines))
	for _, line := range lines {
		transcript = append(transcript, line.Usuario+": "+line.Mensagem)
	}

	return "Com base apenas na seguinte conversa:\n" + strings.Join(transcript, "\n") +
		"\n\nResponda de forma direta e precisa à pergunta: \"" + question +
		"\". Se a pergunta for sobre horário de reunião, indique o horário específico mencionado na conversa."
}
