package domain

// Camada de domínio do pipeline de admissão.
//
// Regras e contratos (interfaces/tipos) sem dependência de transporte.

// Update é o evento inbound visto pelo gatekeeper.
//
// O payload original do transporte fica em Raw e é repassado intocado ao
// handler protegido. O gatekeeper só enxerga as três facetas extraídas:
// usuário, comando e conteúdo normalizado.
type Update struct {
	// UserID identifica o usuário. Zero significa "sem usuário identificável":
	// nesse caso nenhum throttling se aplica e o evento passa direto.
	UserID int64

	// Command é o primeiro token do texto quando o evento tem forma de
	// comando (começa com o marcador "/"), já em minúsculas. Vazio caso
	// contrário.
	Command string

	// Content é o texto do evento normalizado (minúsculas + trim). Vazio
	// para eventos sem payload textual (ex: callbacks sem data).
	Content string

	// Callback marca eventos originados de botões inline. Callbacks não
	// passam pelo cooldown de comandos e recebem avisos no formato alerta.
	Callback bool

	// Raw é o envelope original do transporte, opaco para o gatekeeper.
	Raw any
}

// Identified informa se o evento tem um usuário rastreável.
func (u Update) Identified() bool { return u.UserID != 0 }
