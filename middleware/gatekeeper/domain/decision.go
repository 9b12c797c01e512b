package domain

import "time"

// DenialReason classifica por que um evento foi barrado.
type DenialReason int

const (
	ReasonNone DenialReason = iota
	// ReasonRateLimited: estourou o teto da janela deslizante.
	ReasonRateLimited
	// ReasonCooldown: comando reutilizado antes do cooldown expirar.
	ReasonCooldown
	// ReasonSpam: mesmo conteúdo repetido demais dentro da janela.
	ReasonSpam
	// ReasonInternalFault: falha interna na avaliação. Política fail-closed:
	// na dúvida, nega.
	ReasonInternalFault
)

func (r DenialReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonRateLimited:
		return "rate_limited"
	case ReasonCooldown:
		return "cooldown"
	case ReasonSpam:
		return "spam"
	case ReasonInternalFault:
		return "internal_fault"
	}
	return "unknown"
}

// Tier é o nível de escalonamento aplicado a violações repetidas do rate limit.
type Tier int

const (
	TierNone Tier = iota
	// TierSoft: primeiro aviso, só pede para desacelerar.
	TierSoft
	// TierHard: segundo aviso, restrição temporária anunciada.
	TierHard
	// TierBlocked: bloqueio temporário com duração proporcional à reincidência.
	TierBlocked
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierSoft:
		return "soft"
	case TierHard:
		return "hard"
	case TierBlocked:
		return "blocked"
	}
	return "unknown"
}

// Verdict é o resultado da avaliação de um evento pelo pipeline.
//
// Denials são valores, não erros: o chamador interpreta o Verdict e resolve
// o evento em um estado terminal, nunca desenrolando a pilha para "negar".
type Verdict struct {
	Allowed bool
	Reason  DenialReason

	// Stage é o estágio que encerrou a avaliação: o estágio que negou, ou
	// StageHandler quando o evento foi admitido até o handler.
	Stage Stage

	// Escalation é preenchido quando Reason == ReasonRateLimited.
	Escalation Escalation

	// RetryAfter é o tempo restante de cooldown quando Reason == ReasonCooldown.
	// Sempre > 0 e <= o cooldown configurado do comando.
	RetryAfter time.Duration
}

// Escalation descreve a resposta do escalonador a uma violação.
type Escalation struct {
	Tier Tier
	// Violations é o contador consecutivo que produziu o tier.
	Violations int
	// BlockFor é a duração do bloqueio quando Tier == TierBlocked:
	// um minuto por violação acumulada, sem teto.
	BlockFor time.Duration
}

// Admission é o resultado de uma tentativa de admissão na janela deslizante.
type Admission struct {
	Allowed bool
	// Size é o tamanho da janela do usuário após o prune, sem contar o
	// evento atual. Alimenta o sinal de bom comportamento do escalonador.
	Size int
	// Ceiling é o teto configurado, repassado junto para o escalonador.
	Ceiling int
}
