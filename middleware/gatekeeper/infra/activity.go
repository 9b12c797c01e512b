package infra

import (
	"sync"
	"time"
)

// Activity registra o último instante de atividade por usuário. Alimenta o
// middleware de atividade (log de retorno após inatividade) e fica
// disponível para o host consultar.
type Activity struct {
	mu       sync.Mutex
	lastSeen map[int64]time.Time

	now func() time.Time
}

type ActivityOption func(*Activity)

func WithActivityNow(now func() time.Time) ActivityOption {
	return func(a *Activity) { a.now = now }
}

func NewActivity(opts ...ActivityOption) *Activity {
	a := &Activity{
		lastSeen: make(map[int64]time.Time),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Touch implementa domain.ActivityTracker.
func (a *Activity) Touch(userID int64) (time.Duration, bool) {
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	last, seen := a.lastSeen[userID]
	a.lastSeen[userID] = now
	if !seen {
		return 0, false
	}
	return now.Sub(last), true
}

// LastSeen retorna o último instante registrado do usuário.
func (a *Activity) LastSeen(userID int64) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	last, ok := a.lastSeen[userID]
	return last, ok
}
