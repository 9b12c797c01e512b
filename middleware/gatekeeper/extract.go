package gatekeeper

import (
	"strings"

	"bot-gatekeeper/middleware/gatekeeper/domain"
)

// commandMarker abre um evento com forma de comando (ex: "/start 123").
const commandMarker = "/"

// NewUpdate monta um Update a partir das facetas cruas entregues pelo
// transporte. O payload original vai em raw e é repassado intocado.
func NewUpdate(userID int64, text string, callback bool, raw any) domain.Update {
	return domain.Update{
		UserID:   userID,
		Command:  CommandName(text),
		Content:  NormalizeContent(text),
		Callback: callback,
		Raw:      raw,
	}
}

// CommandName extrai o nome do comando: o primeiro token delimitado por
// espaço, quando começa com o marcador, já em minúsculas. Vazio se o texto
// não tem forma de comando.
func CommandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	if !strings.HasPrefix(first, commandMarker) {
		return ""
	}
	return strings.ToLower(first)
}

// NormalizeContent normaliza o payload textual: minúsculas + trim. A
// comparação de spam é por igualdade exata do conteúdo normalizado.
func NormalizeContent(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
