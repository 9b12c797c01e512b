package domain

import (
	"context"
	"time"
)

// Stage identifica o estágio do pipeline que produziu uma decisão.
type Stage string

const (
	StageRate     Stage = "rate"
	StageCooldown Stage = "cooldown"
	StageSpam     Stage = "spam"
	StageHandler  Stage = "handler"
)

// StatsEvent representa uma decisão de admissão para fins de estatística.
//
// Propositalmente agnóstico de transporte: apenas usuário, estágio e
// resultado.
//
// Observação: cuidado com cardinalidade ao habilitar rastreio por usuário
// em uma base como Redis (uma chave por usuário visto).
type StatsEvent struct {
	UserID  int64
	Stage   Stage
	Allowed bool

	At time.Time
}

// StatsStore é a estratégia de persistência das estatísticas de admissão.
//
// Implementações podem armazenar em Redis, memória, etc. O middleware trata
// erro como best-effort (não derruba a avaliação do evento).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
