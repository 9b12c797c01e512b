package domain

import (
	"context"
	"time"
)

// NoticeKind é o tipo semântico do aviso emitido ao usuário em uma negação.
type NoticeKind int

const (
	// NoticeSlowDown: aviso leve, primeiro excesso de frequência.
	NoticeSlowDown NoticeKind = iota
	// NoticeRestricted: aviso duro, restrição temporária anunciada.
	NoticeRestricted
	// NoticeBlocked: bloqueio temporário com duração em Notice.BlockFor.
	NoticeBlocked
	// NoticeCooldown: comando em cooldown, restante em Notice.RetryAfter.
	NoticeCooldown
	// NoticeSpam: conteúdo repetido detectado.
	NoticeSpam
	// NoticeFailure: falha genérica (handler quebrou ou falha interna).
	NoticeFailure
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSlowDown:
		return "slow_down"
	case NoticeRestricted:
		return "restricted"
	case NoticeBlocked:
		return "blocked"
	case NoticeCooldown:
		return "cooldown"
	case NoticeSpam:
		return "spam"
	case NoticeFailure:
		return "failure"
	}
	return "unknown"
}

// Notice é o payload semântico de um aviso. A redação final (texto, markdown,
// teclados) é responsabilidade do transporte; o gatekeeper só informa o quê.
type Notice struct {
	Kind NoticeKind

	// RetryAfter acompanha NoticeCooldown.
	RetryAfter time.Duration

	// BlockFor acompanha NoticeBlocked.
	BlockFor time.Duration

	// Alert indica que o aviso deve ser entregue no formato curto/alerta
	// (callbacks), não como mensagem normal no chat.
	Alert bool
}

// Sender é a capacidade externa de entregar avisos ao usuário.
//
// Erros do Sender são best-effort para o pipeline: logados, nunca propagados.
// Implementações podem suspender em I/O; o gatekeeper garante que nenhum
// lock de estado está retido durante o Send.
type Sender interface {
	Send(ctx context.Context, userID int64, n Notice) error
}

// SenderFunc adapta uma função para o contrato Sender.
type SenderFunc func(ctx context.Context, userID int64, n Notice) error

func (f SenderFunc) Send(ctx context.Context, userID int64, n Notice) error {
	return f(ctx, userID, n)
}
