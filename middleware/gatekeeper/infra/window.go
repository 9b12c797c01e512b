package infra

import (
	"sync"
	"time"

	"bot-gatekeeper/middleware/gatekeeper/domain"
)

// Window é a implementação de infra da janela deslizante: guarda, por
// usuário, os instantes dos eventos admitidos nos últimos `span` segundos.
//
// O prune acontece a cada chamada, não em timer de fundo: a memória por
// usuário fica limitada a no máximo `ceiling` timestamps, mas o mapa de
// usuários em si só encolhe via Cleanup/StartJanitor (opcional — o
// comportamento padrão preserva as entradas indefinidamente).
type Window struct {
	mu    sync.Mutex
	users map[int64]*userWindow

	ceiling      int
	span         time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

// userWindow tem lock próprio: a seção crítica de admissão (prune + append
// condicional) serializa apenas o usuário dono, nunca o mapa inteiro.
type userWindow struct {
	mu     sync.Mutex
	stamps []time.Time
}

type WindowOption func(*Window)

func WithSpan(d time.Duration) WindowOption {
	return func(w *Window) { w.span = d }
}

func WithWindowIdleTTL(d time.Duration) WindowOption {
	return func(w *Window) { w.idleTTL = d }
}

func WithWindowCleanupEvery(d time.Duration) WindowOption {
	return func(w *Window) { w.cleanupEvery = d }
}

// WithWindowNow injeta a fonte de tempo (testes determinísticos).
func WithWindowNow(now func() time.Time) WindowOption {
	return func(w *Window) { w.now = now }
}

func NewWindow(ceiling int, opts ...WindowOption) *Window {
	w := &Window{
		users:        make(map[int64]*userWindow),
		ceiling:      ceiling,
		span:         60 * time.Second,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Window) Ceiling() int        { return w.ceiling }
func (w *Window) Span() time.Duration { return w.span }

// Admit implementa domain.WindowLimiter.
//
// A tentativa negada não entra na janela: só admissões contam contra o teto.
// Size reporta o tamanho da janela após o prune e ANTES do append do evento
// atual — é esse o número comparado ao teto e o sinal de calma que o
// escalonador recebe.
func (w *Window) Admit(userID int64) domain.Admission {
	now := w.now()
	uw := w.user(userID)

	uw.mu.Lock()
	defer uw.mu.Unlock()

	uw.prune(now.Add(-w.span))
	size := len(uw.stamps)

	if size >= w.ceiling {
		return domain.Admission{Allowed: false, Size: size, Ceiling: w.ceiling}
	}

	uw.stamps = append(uw.stamps, now)
	return domain.Admission{Allowed: true, Size: size, Ceiling: w.ceiling}
}

// Size retorna o tamanho atual da janela do usuário (após prune), sem admitir.
func (w *Window) Size(userID int64) int {
	now := w.now()
	uw := w.user(userID)

	uw.mu.Lock()
	defer uw.mu.Unlock()

	uw.prune(now.Add(-w.span))
	return len(uw.stamps)
}

func (w *Window) user(userID int64) *userWindow {
	w.mu.Lock()
	defer w.mu.Unlock()

	uw, ok := w.users[userID]
	if !ok {
		uw = &userWindow{}
		w.users[userID] = uw
	}
	return uw
}

// prune descarta instantes fora de (cutoff, now]. Chamar com uw.mu retido.
func (uw *userWindow) prune(cutoff time.Time) {
	kept := uw.stamps[:0]
	for _, ts := range uw.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	uw.stamps = kept
}

// Cleanup remove usuários sem nenhum evento dentro do idleTTL.
func (w *Window) Cleanup() {
	cutoff := w.now().Add(-w.idleTTL)

	w.mu.Lock()
	defer w.mu.Unlock()

	for id, uw := range w.users {
		uw.mu.Lock()
		idle := len(uw.stamps) == 0 || uw.stamps[len(uw.stamps)-1].Before(cutoff)
		uw.mu.Unlock()
		if idle {
			delete(w.users, id)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa usuários inativos
// periodicamente. Pare cancelando o contexto.
func (w *Window) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, w.cleanupEvery, w.Cleanup)
}
