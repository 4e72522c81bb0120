package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "Olá, Mundo! Ação/já?", want: []string{"ola", "mundo", "acao", "ja"}},
		{in: "  Reunião   às 15h ", want: []string{"reuniao", "as", "15h"}},
		{in: "CAFÉ com pão", want: []string{"cafe", "com", "pao"}},
		{in: "e-mail@empresa.com", want: []string{"e", "mail", "empresa", "com"}},
		{in: "!!! ###", want: []string{}},
		{in: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	first := Tokenize("Alguém conhece uma padaria próxima?")
	second := Tokenize(strings.Join(first, " "))

	assert.Equal(t, first, second)
}
