package conversationService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaxBot/internal/api/conversation"
)

func line(usuario, mensagem string, offset time.Duration) conversation.ConversationLine {
	return conversation.ConversationLine{Usuario: usuario, Mensagem: mensagem, HoraEnvio: base.Add(offset)}
}

func TestMeetingTime(t *testing.T) {
	lines := []conversation.ConversationLine{
		line("Ana", "Que tal reunião às 14h?", 0),
		line("Rui", "Prefiro 16 horas", 5*time.Minute),
		line("Bia", "ok, combinado", 6*time.Minute),
	}

	reply, ok := MeetingTime(lines, "Que horas é a reunião?")
	require.True(t, ok)
	assert.Equal(t, "A reunião será às 16h, conforme sugerido por Ana.", reply)

	_, ok = MeetingTime(lines, "Quem vai levar o café?")
	assert.False(t, ok)

	_, ok = MeetingTime([]conversation.ConversationLine{line("Ana", "sem horário", 0)}, "hora da reunião?")
	assert.False(t, ok)
}

func TestAnswer_Validation(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Answer(context.Background(), conversation.AnswerRequest{Pergunta: "?"})
	assert.ErrorIs(t, err, conversation.ErrInvalidConversation)

	_, err = f.svc.Answer(context.Background(), conversation.AnswerRequest{
		Conversa: []conversation.ConversationLine{line("Ana", "oi", 0)},
		Pergunta: "  ",
	})
	assert.ErrorIs(t, err, conversation.ErrInvalidConversation)
}

func TestAnswer_MeetingShortcutSkipsModel(t *testing.T) {
	f := newFixture(t, false)
	f.llm.answerErr = errors.New("must not be called")

	resp, err := f.svc.Answer(context.Background(), conversation.AnswerRequest{
		Conversa: []conversation.ConversationLine{line("Ana", "reunião às 9h", 0)},
		Pergunta: "Qual a hora da reunião?",
	})
	require.NoError(t, err)
	assert.Equal(t, "A reunião será às 9h, conforme sugerido por Ana.", resp.Resposta)
}

func TestAnswer_UsesMostRelevantGroup(t *testing.T) {
	f := newFixture(t, false)
	f.llm.answer = "O bolo é de chocolate."
	f.llm.ratings = map[string]int{"planilha": 10, "bolo": 90}

	resp, err := f.svc.Answer(context.Background(), conversation.AnswerRequest{
		Conversa: []conversation.ConversationLine{
			line("Ana", "mandei a planilha", 0),
			line("Rui", "o bolo é de chocolate", 2*time.Hour),
			line("Bia", "oba", 2*time.Hour+time.Minute),
		},
		Pergunta: "De que é o bolo?",
	})
	require.NoError(t, err)
	assert.Equal(t, "O bolo é de chocolate.", resp.Resposta)

	assert.Equal(t,
		"Com base apenas na seguinte conversa:\nRui: o bolo é de chocolate\nBia: oba\n\n"+
			"Responda de forma direta e precisa à pergunta: \"De que é o bolo?\". "+
			"Se a pergunta for sobre horário de reunião, indique o horário específico mencionado na conversa.",
		f.llm.prompt)
}

func TestAnswer_FailedRatingsFallBackToFirstGroup(t *testing.T) {
	f := newFixture(t, false)
	f.llm.answer = "ok"

	_, err := f.svc.Answer(context.Background(), conversation.AnswerRequest{
		Conversa: []conversation.ConversationLine{
			line("Ana", "primeiro assunto", 0),
			line("Rui", "segundo assunto", time.Hour),
		},
		Pergunta: "Sobre o que falaram?",
	})
	require.NoError(t, err)
	assert.Contains(t, f.llm.prompt, "Ana: primeiro assunto")
	assert.NotContains(t, f.llm.prompt, "Rui")
}

func TestAnswer_ModelFailure(t *testing.T) {
	f := newFixture(t, false)
	f.llm.answerErr = errors.New("quota")

	_, err := f.svc.Answer(context.Background(), conversation.AnswerRequest{
		Conversa: []conversation.ConversationLine{line("Ana", "oi", 0)},
		Pergunta: "Quem falou?",
	})
	assert.ErrorIs(t, err, conversation.ErrAnswer)
}
