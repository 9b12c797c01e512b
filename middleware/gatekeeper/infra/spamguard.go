package infra

import (
	"sync"
	"time"
)

// SpamGuard mantém, por usuário, o histórico de conteúdos recentes e acusa
// quando o mesmo conteúdo se repete demais dentro da janela.
//
// A fronteira do threshold é herdada da origem e é observável: a negação
// acontece na N-ésima ocorrência (N == threshold), ou seja, quando já
// existem threshold-1 entradas idênticas no histórico.
type SpamGuard struct {
	mu    sync.Mutex
	users map[int64]*contentHistory

	threshold    int
	span         time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type contentHistory struct {
	mu      sync.Mutex
	entries []contentAt
}

type contentAt struct {
	content string
	at      time.Time
}

type SpamOption func(*SpamGuard)

func WithSpamSpan(d time.Duration) SpamOption {
	return func(s *SpamGuard) { s.span = d }
}

func WithSpamIdleTTL(d time.Duration) SpamOption {
	return func(s *SpamGuard) { s.idleTTL = d }
}

func WithSpamCleanupEvery(d time.Duration) SpamOption {
	return func(s *SpamGuard) { s.cleanupEvery = d }
}

func WithSpamNow(now func() time.Time) SpamOption {
	return func(s *SpamGuard) { s.now = now }
}

func NewSpamGuard(threshold int, opts ...SpamOption) *SpamGuard {
	s := &SpamGuard{
		users:        make(map[int64]*contentHistory),
		threshold:    threshold,
		span:         60 * time.Second,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check implementa domain.RepeatDetector.
//
// A mensagem negada não entra no histórico: só tráfego admitido alimenta o
// contador (tentativas de spam negadas não o fazem crescer).
func (s *SpamGuard) Check(userID int64, content string) bool {
	now := s.now()
	ch := s.user(userID)

	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.prune(now.Add(-s.span))

	repeats := 0
	for _, e := range ch.entries {
		if e.content == content {
			repeats++
		}
	}
	if repeats >= s.threshold-1 {
		return false
	}

	ch.entries = append(ch.entries, contentAt{content: content, at: now})
	return true
}

func (s *SpamGuard) user(userID int64) *contentHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.users[userID]
	if !ok {
		ch = &contentHistory{}
		s.users[userID] = ch
	}
	return ch
}

// prune descarta entradas fora da janela. Chamar com ch.mu retido.
func (ch *contentHistory) prune(cutoff time.Time) {
	kept := ch.entries[:0]
	for _, e := range ch.entries {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	ch.entries = kept
}

// Cleanup remove usuários sem conteúdo dentro do idleTTL.
func (s *SpamGuard) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.users {
		ch.mu.Lock()
		idle := len(ch.entries) == 0 || ch.entries[len(ch.entries)-1].at.Before(cutoff)
		ch.mu.Unlock()
		if idle {
			delete(s.users, id)
		}
	}
}

func (s *SpamGuard) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, s.cleanupEvery, s.Cleanup)
}
