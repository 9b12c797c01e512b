package infra

import (
	"sync"
	"time"

	"bot-gatekeeper/middleware/gatekeeper/domain"
)

// Warnings conta violações consecutivas do rate limit por usuário e mapeia o
// contador para o tier de resposta.
//
// O mapeamento é herdado da origem: 1ª violação → soft, 2ª → hard, da 3ª em
// diante → bloqueio de `count` minutos, sem teto. Uma única instância deve
// ser compartilhada por todo o pipeline (o contador é processual, não por
// requisição).
type Warnings struct {
	mu         sync.Mutex
	violations map[int64]int
	lastAt     map[int64]time.Time

	now func() time.Time
}

type WarningsOption func(*Warnings)

func WithWarningsNow(now func() time.Time) WarningsOption {
	return func(w *Warnings) { w.now = now }
}

func NewWarnings(opts ...WarningsOption) *Warnings {
	w := &Warnings{
		violations: make(map[int64]int),
		lastAt:     make(map[int64]time.Time),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RecordViolation implementa domain.WarningEscalator.
func (w *Warnings) RecordViolation(userID int64) domain.Escalation {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.violations[userID]++
	w.lastAt[userID] = w.now()
	count := w.violations[userID]

	esc := domain.Escalation{Violations: count}
	switch {
	case count == 1:
		esc.Tier = domain.TierSoft
	case count == 2:
		esc.Tier = domain.TierHard
	default:
		esc.Tier = domain.TierBlocked
		esc.BlockFor = time.Duration(count) * time.Minute
	}
	return esc
}

// Relax implementa o sinal de bom comportamento: zera o contador quando o
// tamanho da janela cai abaixo da metade do teto. Não há decaimento por
// tempo independente desse sinal.
func (w *Warnings) Relax(userID int64, windowSize, ceiling int) {
	if 2*windowSize >= ceiling {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.violations[userID] != 0 {
		w.violations[userID] = 0
	}
}

// Violations retorna o contador atual do usuário (inspeção/testes).
func (w *Warnings) Violations(userID int64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.violations[userID]
}
